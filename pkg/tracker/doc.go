// Package tracker is a small HTTP client for the results tracker.
//
// Status performs the post-deploy GET against the tracker URL; Post issues
// the operator's manual POST to a path under it. Neither retries, and
// neither treats a non-2xx status as an error: the code and body are
// returned for the operator to read.
package tracker
