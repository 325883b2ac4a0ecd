package gitops

import (
	"context"
	"errors"
	"fmt"

	gogit "github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"

	"results-tracker/trackerctl/pkg/config"
	"results-tracker/trackerctl/pkg/telemetry/logging"
)

// Releaser fast-forwards the stable branch to main and pushes it.
type Releaser struct {
	config *config.GitConfig
	auth   transport.AuthMethod
	logger *logging.Logger
}

// NewReleaser creates a releaser for the configured working copy.
// The push credentials are resolved here, so a missing token or an
// unreadable key fails before any ref moves.
func NewReleaser(cfg *config.GitConfig, logger *logging.Logger) (*Releaser, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if cfg.MainBranch == "" || cfg.StableBranch == "" {
		return nil, fmt.Errorf("main and stable branch names cannot be empty")
	}

	auth, err := pushAuth(&cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to load git credentials: %w", err)
	}

	if logger == nil {
		logger = logging.Discard()
	}

	return &Releaser{
		config: cfg,
		auth:   auth,
		logger: logger.With("component", "gitops"),
	}, nil
}

// Release fast-forwards stable to main and pushes stable to the remote.
// A push failure does not roll back the local ref.
func (r *Releaser) Release(ctx context.Context) (*ReleaseResult, error) {
	repo, err := r.open()
	if err != nil {
		return nil, err
	}

	result, err := r.fastForward(repo, false)
	if err != nil {
		return nil, err
	}

	pushed, err := r.push(ctx, repo)
	if err != nil {
		return result, err
	}
	result.Pushed = pushed

	return result, nil
}

// Plan reports what Release would do without touching any ref.
func (r *Releaser) Plan() (*ReleaseResult, error) {
	repo, err := r.open()
	if err != nil {
		return nil, err
	}
	return r.fastForward(repo, true)
}

func (r *Releaser) open() (*gogit.Repository, error) {
	repo, err := gogit.PlainOpenWithOptions(r.config.RepoPath, &gogit.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open repository %s: %w", r.config.RepoPath, err)
	}
	return repo, nil
}

// fastForward moves stable to main when stable is an ancestor of main.
// With dryRun set the decision is computed but no ref is written.
func (r *Releaser) fastForward(repo *gogit.Repository, dryRun bool) (*ReleaseResult, error) {
	mainName := plumbing.NewBranchReferenceName(r.config.MainBranch)
	stableName := plumbing.NewBranchReferenceName(r.config.StableBranch)

	mainRef, err := repo.Reference(mainName, true)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", r.config.MainBranch, err)
	}

	stableHash, err := r.resolveStable(repo, stableName)
	if err != nil {
		return nil, err
	}

	result := &ReleaseResult{
		MainBranch:   r.config.MainBranch,
		StableBranch: r.config.StableBranch,
		Remote:       r.config.Remote,
		MainSHA:      mainRef.Hash().String(),
		StableSHA:    stableHash.String(),
	}

	if stableHash == mainRef.Hash() {
		r.logger.Info("stable already at main", "sha", result.MainSHA)
		return result, nil
	}

	mainCommit, err := repo.CommitObject(mainRef.Hash())
	if err != nil {
		return nil, fmt.Errorf("failed to load commit %s: %w", mainRef.Hash(), err)
	}
	stableCommit, err := repo.CommitObject(stableHash)
	if err != nil {
		return nil, fmt.Errorf("failed to load commit %s: %w", stableHash, err)
	}

	ancestor, err := stableCommit.IsAncestor(mainCommit)
	if err != nil {
		return nil, fmt.Errorf("failed to compare %s and %s: %w", r.config.StableBranch, r.config.MainBranch, err)
	}
	if !ancestor {
		return nil, fmt.Errorf("%s (%s) -> %s (%s): %w",
			r.config.StableBranch, short(stableHash), r.config.MainBranch, short(mainRef.Hash()), ErrNotFastForward)
	}

	result.Moved = true
	if dryRun {
		return result, nil
	}

	head, err := repo.Storer.Reference(plumbing.HEAD)
	if err == nil && head.Type() == plumbing.SymbolicReference && head.Target() == stableName {
		return nil, fmt.Errorf("switch to %s before releasing: %w", r.config.MainBranch, ErrStableCheckedOut)
	}

	if err := repo.Storer.SetReference(plumbing.NewHashReference(stableName, mainRef.Hash())); err != nil {
		return nil, fmt.Errorf("failed to update %s: %w", r.config.StableBranch, err)
	}

	r.logger.Info("fast-forwarded stable",
		"branch", r.config.StableBranch,
		"from", short(stableHash),
		"to", short(mainRef.Hash()),
	)

	return result, nil
}

// resolveStable returns the local stable commit, falling back to the
// remote-tracking branch when no local branch exists yet.
func (r *Releaser) resolveStable(repo *gogit.Repository, stableName plumbing.ReferenceName) (plumbing.Hash, error) {
	ref, err := repo.Reference(stableName, true)
	if err == nil {
		return ref.Hash(), nil
	}
	if !errors.Is(err, plumbing.ErrReferenceNotFound) {
		return plumbing.ZeroHash, fmt.Errorf("failed to resolve %s: %w", r.config.StableBranch, err)
	}

	tracking, terr := repo.Reference(plumbing.NewRemoteReferenceName(r.config.Remote, r.config.StableBranch), true)
	if terr != nil {
		return plumbing.ZeroHash, fmt.Errorf("failed to resolve %s: %w", r.config.StableBranch, err)
	}
	return tracking.Hash(), nil
}

// push sends the stable branch to the remote. It returns false when the
// remote already had it.
func (r *Releaser) push(ctx context.Context, repo *gogit.Repository) (bool, error) {
	stableName := plumbing.NewBranchReferenceName(r.config.StableBranch)
	refSpec := gitconfig.RefSpec(fmt.Sprintf("%s:%s", stableName, stableName))

	r.logger.Info("pushing", "remote", r.config.Remote, "refspec", string(refSpec), "auth", authType(&r.config.Auth))

	err := repo.PushContext(ctx, &gogit.PushOptions{
		RemoteName: r.config.Remote,
		RefSpecs:   []gitconfig.RefSpec{refSpec},
		Auth:       r.auth,
	})
	if errors.Is(err, gogit.NoErrAlreadyUpToDate) {
		r.logger.Info("remote already up to date", "remote", r.config.Remote)
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to push %s to %s: %w", r.config.StableBranch, r.config.Remote, err)
	}

	return true, nil
}

func short(h plumbing.Hash) string {
	s := h.String()
	if len(s) > 7 {
		return s[:7]
	}
	return s
}
