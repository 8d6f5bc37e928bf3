package tracker

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// GitSyncer mirrors the tracker file to the remote repository the runner
// was checked out from, so the next scheduled run starts from the advanced
// state even on a fresh checkout.
type GitSyncer struct {
	repoDir     string
	trackerPath string
}

// NewGitSyncer creates a syncer that commits and pushes the tracker file
// from within repoDir.
func NewGitSyncer(repoDir, trackerPath string) *GitSyncer {
	return &GitSyncer{repoDir: repoDir, trackerPath: trackerPath}
}

func (g *GitSyncer) Sync(ctx context.Context) error {
	relPath := g.trackerPath
	if filepath.IsAbs(relPath) {
		if rel, err := filepath.Rel(g.repoDir, relPath); err == nil {
			relPath = rel
		}
	}

	if err := g.run(ctx, "add", relPath); err != nil {
		return err
	}

	// Nothing staged means the tracker did not change; not an error.
	if err := g.run(ctx, "diff", "--cached", "--quiet"); err == nil {
		return nil
	}

	if err := g.run(ctx, "commit", "-m", "Update duty tracker"); err != nil {
		return err
	}
	return g.run(ctx, "push")
}

func (g *GitSyncer) run(ctx context.Context, args ...string) error {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = g.repoDir
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("git %s failed: %v: %s", strings.Join(args, " "), err, strings.TrimSpace(string(out)))
	}
	return nil
}
