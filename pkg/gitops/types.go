package gitops

import "errors"

// ErrNotFastForward is returned when the stable branch has commits that
// the main branch does not.
var ErrNotFastForward = errors.New("stable branch is not an ancestor of main")

// ErrStableCheckedOut is returned when HEAD points at the stable branch.
// Moving the ref under a checked-out worktree would leave it out of sync.
var ErrStableCheckedOut = errors.New("stable branch is checked out")

// ReleaseResult describes what a release did, or would do.
type ReleaseResult struct {
	MainBranch   string `json:"main_branch"`
	StableBranch string `json:"stable_branch"`
	Remote       string `json:"remote"`

	// MainSHA is the commit stable ends up at.
	MainSHA string `json:"main_sha"`

	// StableSHA is the commit stable pointed at before the release.
	StableSHA string `json:"stable_sha"`

	// Moved reports whether stable was fast-forwarded.
	Moved bool `json:"moved"`

	// Pushed reports whether the remote accepted new commits. False when the
	// remote was already up to date or the push was not attempted.
	Pushed bool `json:"pushed"`
}
