// Package git shells out to git for the small set of metadata the drift
// pipeline needs. Every failure degrades to zero values: an unreadable
// repository must never break scoring.
package git

import (
	"context"
	"os/exec"
	"strings"
	"time"
)

// Runner executes a git command in a working directory and returns its
// stdout. The indirection allows mocking in tests.
type Runner func(dir string, args ...string) (string, error)

// commandTimeout bounds every real git invocation.
const commandTimeout = 5 * time.Second

// DefaultRunner runs git as a real subprocess with a timeout.
func DefaultRunner(dir string, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	out, err := cmd.Output()
	return string(out), err
}

// Head returns the current HEAD commit hash and its authored timestamp.
// When the directory is not a repository (or git fails for any reason),
// the hash is empty and the timestamp is the epoch.
func Head(run Runner, dir string) (hash string, authoredAt time.Time) {
	out, err := run(dir, "log", "-1", "--format=%H%x09%aI", "HEAD")
	if err != nil {
		return "", time.Unix(0, 0)
	}
	parts := strings.SplitN(strings.TrimSpace(out), "\t", 2)
	if len(parts) != 2 {
		return "", time.Unix(0, 0)
	}
	ts, err := time.Parse(time.RFC3339, parts[1])
	if err != nil {
		ts = time.Unix(0, 0)
	}
	return parts[0], ts
}

// CommitField returns one --format field of a commit, trimmed.
func CommitField(run Runner, dir, commit, format string) (string, error) {
	out, err := run(dir, "log", "-1", "--format="+format, commit)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// Branch returns the current branch name.
func Branch(run Runner, dir string) (string, error) {
	out, err := run(dir, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// RemoteURL returns the origin remote URL, or "" when none is configured.
func RemoteURL(run Runner, dir string) string {
	out, err := run(dir, "remote", "get-url", "origin")
	if err != nil {
		return ""
	}
	return strings.TrimSpace(out)
}

// UncommittedStats sums the numstat line counts of the working tree
// against HEAD. Failures count as zero lines changed.
func UncommittedStats(run Runner, dir string) (linesAdded, linesDeleted int) {
	out, err := run(dir, "diff", "HEAD", "--numstat")
	if err != nil {
		return 0, 0
	}
	for _, fc := range ParseNumstat(out) {
		linesAdded += fc.LinesAdded
		linesDeleted += fc.LinesDeleted
	}
	return linesAdded, linesDeleted
}

// CommitNumstat returns the per-file numstat between a commit and its
// parent, falling back to --root for the first commit.
func CommitNumstat(run Runner, dir, commit string) []FileChange {
	out, err := run(dir, "diff", "--numstat", commit+"~1", commit)
	if err != nil {
		out, err = run(dir, "diff", "--numstat", "--root", commit)
		if err != nil {
			return nil
		}
	}
	return ParseNumstat(out)
}

// CommitNameStatus returns the --name-status listing for a commit, or ""
// when it cannot be produced.
func CommitNameStatus(run Runner, dir, commit string) string {
	out, err := run(dir, "diff", "--name-status", commit+"~1", commit)
	if err != nil {
		out, err = run(dir, "diff", "--name-status", "--root", commit)
		if err != nil {
			return ""
		}
	}
	return out
}
