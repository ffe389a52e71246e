package assets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// GitSource is an asset pack hosted in a git repository. Sync makes the
// working tree available under Destination.
type GitSource struct {
	URL         string
	Branch      string
	Depth       int
	Destination string
}

// SyncResult describes what Sync did.
type SyncResult struct {
	Dir    string
	Cloned bool
	Head   string
}

// Sync clones the repository when Destination is missing and otherwise
// reuses the existing clone, checking out Branch when it differs from HEAD.
// A Destination that exists but is not a clone of URL is an error; Sync never
// deletes user data.
func (g GitSource) Sync(ctx context.Context) (SyncResult, error) {
	if g.URL == "" {
		return SyncResult{}, errors.New("git source url is required")
	}
	if g.Destination == "" {
		return SyncResult{}, errors.New("git source destination is required")
	}
	if err := ctx.Err(); err != nil {
		return SyncResult{}, err
	}

	repo, err := git.PlainOpen(g.Destination)
	switch {
	case err == nil:
		return g.reuse(repo)
	case errors.Is(err, git.ErrRepositoryNotExists):
		if entries, statErr := os.ReadDir(g.Destination); statErr == nil && len(entries) > 0 {
			return SyncResult{}, fmt.Errorf("destination %s exists and is not a git repository", g.Destination)
		}
	default:
		return SyncResult{}, fmt.Errorf("open %s: %w", g.Destination, err)
	}

	if err := os.MkdirAll(filepath.Dir(g.Destination), 0o755); err != nil {
		return SyncResult{}, fmt.Errorf("create destination parent: %w", err)
	}

	opts := &git.CloneOptions{URL: g.URL}
	if g.Depth > 0 {
		opts.Depth = g.Depth
	}
	if g.Branch != "" {
		opts.ReferenceName = plumbing.NewBranchReferenceName(g.Branch)
		opts.SingleBranch = true
	}

	repo, err = git.PlainCloneContext(ctx, g.Destination, false, opts)
	if err != nil {
		return SyncResult{}, fmt.Errorf("clone %s: %w", g.URL, err)
	}

	return SyncResult{Dir: g.Destination, Cloned: true, Head: headName(repo)}, nil
}

func (g GitSource) reuse(repo *git.Repository) (SyncResult, error) {
	remote, err := repo.Remote("origin")
	if err == nil && len(remote.Config().URLs) > 0 && remote.Config().URLs[0] != g.URL {
		return SyncResult{}, fmt.Errorf("destination %s tracks %s, expected %s", g.Destination, remote.Config().URLs[0], g.URL)
	}

	if g.Branch != "" && headName(repo) != g.Branch {
		wt, err := repo.Worktree()
		if err != nil {
			return SyncResult{}, fmt.Errorf("open worktree: %w", err)
		}
		if err := wt.Checkout(&git.CheckoutOptions{Branch: plumbing.NewBranchReferenceName(g.Branch)}); err != nil {
			return SyncResult{}, fmt.Errorf("checkout %s: %w", g.Branch, err)
		}
	}

	return SyncResult{Dir: g.Destination, Head: headName(repo)}, nil
}

func headName(repo *git.Repository) string {
	head, err := repo.Head()
	if err != nil {
		return ""
	}
	return head.Name().Short()
}
