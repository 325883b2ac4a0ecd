// Package logfetch resolves which remote log to download and where to put it.
//
// The set of logs is closed: ParseKind accepts "node" and "passenger" and
// returns ErrInvalidKind for anything else. Resolve turns a Kind into a Plan
// with the remote path, the local path, and the optional command that has
// to run on the host first. Fetch executes a plan against any SSH runner and
// FTP session opener, opening the session only after the pre-copy.
package logfetch
