// Package scenario loads reconciliation scenarios — paired current/desired
// state graphs described as YAML — and can fetch the YAML from a git
// repository before loading it.
package scenario

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// FetchScenarioRepo ensures a local checkout of url at destDir contains ref
// checked out, cloning if destDir is absent and checking out ref if the
// existing checkout differs.
func FetchScenarioRepo(ctx context.Context, url, ref, destDir string) error {
	gitDir := filepath.Join(destDir, ".git")

	if _, err := os.Stat(gitDir); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("cannot access %s: %w", gitDir, err)
		}
		return cloneRepo(ctx, url, ref, destDir)
	}

	repo, err := git.PlainOpen(destDir)
	if err != nil {
		return fmt.Errorf("%s exists but is not a usable git repository: %w", destDir, err)
	}

	remote, err := repo.Remote("origin")
	if err != nil || len(remote.Config().URLs) == 0 || remote.Config().URLs[0] != url {
		return fmt.Errorf("existing checkout at %s does not track %s", destDir, url)
	}

	if ref == "" {
		return nil
	}

	head, err := repo.Head()
	if err == nil && head.Name().Short() == ref {
		return nil
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("cannot open worktree at %s: %w", destDir, err)
	}

	checkoutOpts := &git.CheckoutOptions{Branch: plumbing.NewBranchReferenceName(ref)}
	if err := worktree.Checkout(checkoutOpts); err != nil {
		return fmt.Errorf("failed to checkout %s at %s: %w", ref, destDir, err)
	}

	return nil
}

func cloneRepo(ctx context.Context, url, ref, destDir string) error {
	if err := os.MkdirAll(filepath.Dir(destDir), 0o755); err != nil {
		return fmt.Errorf("failed to create parent directory for %s: %w", destDir, err)
	}

	opts := &git.CloneOptions{URL: url}
	if ref != "" {
		opts.ReferenceName = plumbing.NewBranchReferenceName(ref)
		opts.SingleBranch = true
	}

	if _, err := git.PlainCloneContext(ctx, destDir, false, opts); err != nil {
		return fmt.Errorf("failed to clone %s: %w", url, err)
	}

	return nil
}
