package gitops

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"results-tracker/trackerctl/pkg/config"
)

// createTestRepo creates a repository with one commit and main and stable
// branches pointing at it. HEAD is left on main.
func createTestRepo(t *testing.T, dir string) *gogit.Repository {
	t.Helper()

	repo, err := gogit.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("failed to init repo: %v", err)
	}

	hash := commitFile(t, repo, dir, "README.md", "results tracker")

	for _, branch := range []string{"main", "stable"} {
		ref := plumbing.NewHashReference(plumbing.NewBranchReferenceName(branch), hash)
		if err := repo.Storer.SetReference(ref); err != nil {
			t.Fatalf("failed to create %s: %v", branch, err)
		}
	}
	checkout(t, repo, "main")

	return repo
}

func commitFile(t *testing.T, repo *gogit.Repository, dir, name, content string) plumbing.Hash {
	t.Helper()

	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		t.Fatalf("failed to get worktree: %v", err)
	}
	if _, err := worktree.Add(name); err != nil {
		t.Fatalf("failed to add file: %v", err)
	}

	hash, err := worktree.Commit("update "+name, &gogit.CommitOptions{
		Author: &object.Signature{
			Name:  "Test User",
			Email: "test@example.com",
			When:  time.Now(),
		},
	})
	if err != nil {
		t.Fatalf("failed to commit: %v", err)
	}
	return hash
}

func checkout(t *testing.T, repo *gogit.Repository, branch string) {
	t.Helper()

	worktree, err := repo.Worktree()
	if err != nil {
		t.Fatal(err)
	}
	if err := worktree.Checkout(&gogit.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName(branch),
	}); err != nil {
		t.Fatalf("failed to checkout %s: %v", branch, err)
	}
}

func branchHash(t *testing.T, repo *gogit.Repository, branch string) plumbing.Hash {
	t.Helper()

	ref, err := repo.Reference(plumbing.NewBranchReferenceName(branch), true)
	if err != nil {
		t.Fatalf("failed to resolve %s: %v", branch, err)
	}
	return ref.Hash()
}

func testGitConfig(dir string) *config.GitConfig {
	return &config.GitConfig{
		RepoPath:     dir,
		MainBranch:   "main",
		StableBranch: "stable",
		Remote:       "origin",
		Auth:         config.GitAuthConfig{Type: "none"},
	}
}

// addBareRemote creates a bare repository and registers it as origin.
func addBareRemote(t *testing.T, repo *gogit.Repository) *gogit.Repository {
	t.Helper()

	bareDir := t.TempDir()
	bare, err := gogit.PlainInit(bareDir, true)
	if err != nil {
		t.Fatalf("failed to init bare repo: %v", err)
	}
	if _, err := repo.CreateRemote(&gitconfig.RemoteConfig{
		Name: "origin",
		URLs: []string{bareDir},
	}); err != nil {
		t.Fatalf("failed to create remote: %v", err)
	}
	return bare
}

func TestNewReleaser(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *config.GitConfig
		wantErr bool
	}{
		{name: "nil config", cfg: nil, wantErr: true},
		{name: "empty branch", cfg: &config.GitConfig{MainBranch: "main"}, wantErr: true},
		{
			name: "bad auth",
			cfg: &config.GitConfig{
				MainBranch: "main", StableBranch: "stable",
				Auth: config.GitAuthConfig{Type: "token"},
			},
			wantErr: true,
		},
		{name: "valid", cfg: testGitConfig(".")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewReleaser(tt.cfg, nil)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewReleaser() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestReleaser_FastForward(t *testing.T) {
	dir := t.TempDir()
	repo := createTestRepo(t, dir)
	before := branchHash(t, repo, "stable")
	mainHash := commitFile(t, repo, dir, "app.js", "console.log('v2')")

	bare := addBareRemote(t, repo)

	releaser, err := NewReleaser(testGitConfig(dir), nil)
	if err != nil {
		t.Fatal(err)
	}

	result, err := releaser.Release(context.Background())
	if err != nil {
		t.Fatalf("Release() error = %v", err)
	}

	if !result.Moved {
		t.Error("expected stable to move")
	}
	if !result.Pushed {
		t.Error("expected push to send commits")
	}
	if result.StableSHA != before.String() {
		t.Errorf("StableSHA = %s, want %s", result.StableSHA, before)
	}
	if got := branchHash(t, repo, "stable"); got != mainHash {
		t.Errorf("stable = %s, want %s", got, mainHash)
	}
	if got := branchHash(t, bare, "stable"); got != mainHash {
		t.Errorf("remote stable = %s, want %s", got, mainHash)
	}

	// second run has nothing to do
	result, err = releaser.Release(context.Background())
	if err != nil {
		t.Fatalf("second Release() error = %v", err)
	}
	if result.Moved || result.Pushed {
		t.Errorf("second Release() = %+v, want no-op", result)
	}
}

func TestReleaser_EqualBranches(t *testing.T) {
	dir := t.TempDir()
	repo := createTestRepo(t, dir)
	before := branchHash(t, repo, "stable")

	releaser, err := NewReleaser(testGitConfig(dir), nil)
	if err != nil {
		t.Fatal(err)
	}

	result, err := releaser.Plan()
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	if result.Moved {
		t.Error("equal branches should not move")
	}
	if got := branchHash(t, repo, "stable"); got != before {
		t.Errorf("stable changed to %s", got)
	}
}

func TestReleaser_Diverged(t *testing.T) {
	dir := t.TempDir()
	repo := createTestRepo(t, dir)

	commitFile(t, repo, dir, "app.js", "main change")
	checkout(t, repo, "stable")
	stableHash := commitFile(t, repo, dir, "hotfix.js", "stable change")
	checkout(t, repo, "main")

	releaser, err := NewReleaser(testGitConfig(dir), nil)
	if err != nil {
		t.Fatal(err)
	}

	_, err = releaser.Release(context.Background())
	if !errors.Is(err, ErrNotFastForward) {
		t.Fatalf("Release() error = %v, want ErrNotFastForward", err)
	}
	if got := branchHash(t, repo, "stable"); got != stableHash {
		t.Errorf("stable moved to %s on divergence", got)
	}
}

func TestReleaser_PlanDoesNotWrite(t *testing.T) {
	dir := t.TempDir()
	repo := createTestRepo(t, dir)
	before := branchHash(t, repo, "stable")
	commitFile(t, repo, dir, "app.js", "v2")

	releaser, err := NewReleaser(testGitConfig(dir), nil)
	if err != nil {
		t.Fatal(err)
	}

	result, err := releaser.Plan()
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	if !result.Moved {
		t.Error("Plan() should report the fast-forward")
	}
	if got := branchHash(t, repo, "stable"); got != before {
		t.Errorf("Plan() moved stable to %s", got)
	}
}

func TestReleaser_StableCheckedOut(t *testing.T) {
	dir := t.TempDir()
	repo := createTestRepo(t, dir)
	commitFile(t, repo, dir, "app.js", "v2")
	checkout(t, repo, "stable")

	releaser, err := NewReleaser(testGitConfig(dir), nil)
	if err != nil {
		t.Fatal(err)
	}

	_, err = releaser.Release(context.Background())
	if !errors.Is(err, ErrStableCheckedOut) {
		t.Fatalf("Release() error = %v, want ErrStableCheckedOut", err)
	}
}

func TestReleaser_MissingBranch(t *testing.T) {
	dir := t.TempDir()
	createTestRepo(t, dir)

	cfg := testGitConfig(dir)
	cfg.StableBranch = "production"

	releaser, err := NewReleaser(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := releaser.Plan(); !errors.Is(err, plumbing.ErrReferenceNotFound) {
		t.Errorf("Plan() error = %v, want ErrReferenceNotFound", err)
	}
}

func TestReleaser_NotARepository(t *testing.T) {
	releaser, err := NewReleaser(testGitConfig(t.TempDir()), nil)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := releaser.Plan(); err == nil {
		t.Error("Plan() expected error outside a repository")
	}
}
