// trackerctl is the operator toolbox for the results tracker.
//
// It bundles the maintenance chores that used to be separate scripts:
//   - Release stable from main and redeploy the application host
//   - Fetch today's node log or the passenger log over FTP
//   - Mirror the remote temp directory
//   - Export a Firestore collection to JSON
//   - Poke a tracker endpoint with a POST
//
// Usage:
//
//	# Release, update the host, then check the status page
//	trackerctl deploy
//
//	# Show what a deploy would do
//	trackerctl deploy --dry-run
//
//	# Download today's node log into logs/
//	trackerctl logs node
//
//	# Download every file in FTP_TMP_PATH into tmp/
//	trackerctl tmp
//
//	# Export the "users" collection to exported/users.json
//	trackerctl export users
//
//	# POST to <TRACKER_URL>/atm
//	trackerctl request atm
//
// Settings come from the environment, an optional .env file and an optional
// trackerctl.yaml.
package main

func main() {
	Execute()
}
