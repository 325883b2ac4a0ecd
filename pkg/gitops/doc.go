// Package gitops performs the local half of a deploy: moving the stable
// branch up to main and pushing it.
//
// The release never merges. Stable moves only when it is an ancestor of
// main; a diverged stable returns ErrNotFastForward and no ref changes.
// The worktree is not touched, so the operator can stay on main.
//
//	releaser, err := gitops.NewReleaser(&cfg.Git, logger)
//	if err != nil {
//		return err
//	}
//	result, err := releaser.Release(ctx)
//
// Authentication for the push follows GIT_AUTH_TYPE: "token" (HTTPS basic
// auth with a personal access token), "ssh" (private key file) or "none".
package gitops
