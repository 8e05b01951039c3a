// Package history keeps a git log of project changes. Each mutating command
// commits the project directory so every dataset revision can be recovered.
package history

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Repo commits changes in a project directory under a fixed author.
type Repo struct {
	dir   string
	name  string
	email string
}

// New returns a Repo for dir. It does not touch the filesystem.
func New(dir, authorName, authorEmail string) *Repo {
	return &Repo{dir: dir, name: authorName, email: authorEmail}
}

// Dir returns the project directory.
func (r *Repo) Dir() string { return r.dir }

// IsRepo reports whether dir holds a git repository.
func IsRepo(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil
}

// Init creates the git repository when it does not exist yet.
func (r *Repo) Init(ctx context.Context) error {
	if IsRepo(r.dir) {
		return nil
	}
	if _, err := r.git(ctx, "init", "--quiet"); err != nil {
		return fmt.Errorf("git init: %w", err)
	}
	return nil
}

// Commit stages everything and commits it with message. It returns the short
// hash, or "" when there was nothing to commit.
func (r *Repo) Commit(ctx context.Context, message string) (string, error) {
	if _, err := r.git(ctx, "add", "-A"); err != nil {
		return "", fmt.Errorf("git add: %w", err)
	}

	// diff --quiet exits 1 when the index differs from HEAD.
	_, err := r.git(ctx, "diff", "--cached", "--quiet")
	var exitErr *exec.ExitError
	switch {
	case err == nil:
		if r.hasHead(ctx) {
			return "", nil
		}
	case errors.As(err, &exitErr) && exitErr.ExitCode() == 1:
	default:
		return "", fmt.Errorf("git diff: %w", err)
	}

	author := fmt.Sprintf("%s <%s>", r.name, r.email)
	_, err = r.git(ctx,
		"-c", "user.name="+r.name, "-c", "user.email="+r.email,
		"commit", "--quiet", "--allow-empty", "-m", message, "--author", author)
	if err != nil {
		return "", fmt.Errorf("git commit: %w", err)
	}

	out, err := r.git(ctx, "rev-parse", "--short", "HEAD")
	if err != nil {
		return "", fmt.Errorf("git rev-parse: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// Log returns the subjects of the most recent n commits, newest first.
func (r *Repo) Log(ctx context.Context, n int) ([]string, error) {
	if !r.hasHead(ctx) {
		return nil, nil
	}
	out, err := r.git(ctx, "log", "--format=%h %s", fmt.Sprintf("-%d", n))
	if err != nil {
		return nil, fmt.Errorf("git log: %w", err)
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return nil, nil
	}
	return strings.Split(out, "\n"), nil
}

func (r *Repo) hasHead(ctx context.Context) bool {
	_, err := r.git(ctx, "rev-parse", "--verify", "--quiet", "HEAD")
	return err == nil
}

func (r *Repo) git(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = r.dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("%s: %w", msg, err)
		}
		return "", err
	}
	return stdout.String(), nil
}
