package contrib

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/vcs"
)

// Checkouter places a repository at its pinned revision in dir.
type Checkouter interface {
	Checkout(ctx context.Context, repo Repository, dir string) error
}

// GitCheckouter clones with Masterminds/vcs, reusing an existing clone of
// the same remote, and hard-resets it to the pinned revision.
type GitCheckouter struct{}

func (GitCheckouter) Checkout(ctx context.Context, repo Repository, dir string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dir), 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(dir), err)
	}

	r, err := vcs.NewGitRepo(repo.URL, dir)
	if err != nil {
		return fmt.Errorf("failed to open repository %s: %w", repo.Name, err)
	}

	if !r.CheckLocal() {
		if err := r.Get(); err != nil {
			return fmt.Errorf("failed to clone repository %s: %w", repo.Name, err)
		}
	} else if !r.IsReference(repo.Rev) {
		if out, err := r.RunFromDir("git", "fetch", "--tags", "origin"); err != nil {
			return fmt.Errorf("failed to fetch repository %s: %s: %w", repo.Name, strings.TrimSpace(string(out)), err)
		}
	}

	if !r.IsReference(repo.Rev) {
		return fmt.Errorf("failed to find rev %s in repository %s", repo.Rev, repo.Name)
	}
	if err := r.UpdateVersion(repo.Rev); err != nil {
		return fmt.Errorf("failed to check out rev %s of %s: %w", repo.Rev, repo.Name, err)
	}
	if out, err := r.RunFromDir("git", "reset", "--hard", repo.Rev); err != nil {
		return fmt.Errorf("failed to reset %s to %s: %s: %w", repo.Name, repo.Rev, strings.TrimSpace(string(out)), err)
	}

	head, err := r.Version()
	if err != nil {
		return fmt.Errorf("failed to read HEAD of %s: %w", repo.Name, err)
	}
	if isFullHash(repo.Rev) && head != repo.Rev {
		return fmt.Errorf("repository %s is at %s, want %s", repo.Name, head, repo.Rev)
	}
	return nil
}

func isFullHash(rev string) bool {
	if len(rev) != 40 {
		return false
	}
	for _, c := range rev {
		if !strings.ContainsRune("0123456789abcdef", c) {
			return false
		}
	}
	return true
}
