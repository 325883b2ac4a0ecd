// Package deploy releases the tracker and restarts it on the application
// host.
//
// A deploy has three steps, each started only after the previous one
// succeeded:
//
//  1. fast-forward the stable branch to main and push it (gitops)
//  2. run the update sequence in one interactive shell on the host (remote)
//  3. after a short delay, GET the tracker URL and print the reply (tracker)
//
// The update sequence stops at the first command that exits non-zero.
package deploy
