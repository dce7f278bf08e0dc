// ABOUTME: Git subprocess wrapper for the stufflog storage directory.
// ABOUTME: Handles init, remotes, pull, and commit-and-push.

// Package gitsync runs git in the stufflog storage directory so the data
// can be synchronized with a remote repository.
//
// Every operation shells out to the git binary and blocks until it exits.
// Operations that need a remote are no-ops when none is configured.
package gitsync

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

const (
	initialCommitMessage = "Initial commit for stufflog"
	updateCommitMessage  = "Update stufflog entries"
)

// ErrNoUpstream is returned when the current branch does not track a remote branch.
var ErrNoUpstream = errors.New("current branch has no upstream")

// Repo is a git working tree rooted at the stufflog directory.
type Repo struct {
	dir    string
	remote string // preferred remote for the first push
	logger *slog.Logger
}

// Option configures a Repo.
type Option func(*Repo)

// WithPreferredRemote sets the remote used when a branch has no upstream yet.
func WithPreferredRemote(name string) Option {
	return func(r *Repo) {
		r.remote = name
	}
}

// WithLogger sets the logger for command tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Repo) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// New creates a Repo for dir. The directory does not need to exist yet.
func New(dir string, opts ...Option) *Repo {
	r := &Repo{
		dir:    dir,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Dir returns the working tree directory.
func (r *Repo) Dir() string {
	return r.dir
}

// IsRepo reports whether the directory already has a .git directory.
func (r *Repo) IsRepo() bool {
	_, err := os.Stat(filepath.Join(r.dir, ".git"))
	return err == nil
}

// Init creates the repository with an initial commit. It is a no-op if the
// repository already exists.
func (r *Repo) Init(ctx context.Context) error {
	if r.IsRepo() {
		return nil
	}
	if err := os.MkdirAll(r.dir, 0750); err != nil {
		return fmt.Errorf("failed to create %s: %w", r.dir, err)
	}

	if _, err := r.run(ctx, "init"); err != nil {
		return err
	}
	if _, err := r.run(ctx, "add", "."); err != nil {
		return err
	}
	if _, err := r.run(ctx, "commit", "--allow-empty", "-m", initialCommitMessage); err != nil {
		return err
	}
	return nil
}

// Remotes returns the configured remote names.
func (r *Repo) Remotes(ctx context.Context) ([]string, error) {
	if !r.IsRepo() {
		return nil, nil
	}
	out, err := r.run(ctx, "remote")
	if err != nil {
		return nil, err
	}
	return strings.Fields(string(out)), nil
}

// HasRemotes reports whether at least one remote is configured.
func (r *Repo) HasRemotes(ctx context.Context) bool {
	remotes, err := r.Remotes(ctx)
	return err == nil && len(remotes) > 0
}

// Upstream returns the remote-tracking branch of the current branch.
func (r *Repo) Upstream(ctx context.Context) (string, error) {
	out, err := r.run(ctx, "rev-parse", "--abbrev-ref", "--symbolic-full-name", "@{u}")
	if err != nil {
		return "", ErrNoUpstream
	}
	return strings.TrimSpace(string(out)), nil
}

// Pull fetches and merges remote changes.
func (r *Repo) Pull(ctx context.Context) error {
	if !r.HasRemotes(ctx) {
		return nil
	}
	if _, err := r.Upstream(ctx); err != nil {
		r.logger.Debug("skipping pull until the first push sets an upstream", "dir", r.dir)
		return nil
	}
	_, err := r.run(ctx, "pull")
	return err
}

// Push commits every change in the directory and pushes it.
func (r *Repo) Push(ctx context.Context) error {
	remotes, err := r.Remotes(ctx)
	if err != nil {
		return err
	}
	if len(remotes) == 0 {
		return nil
	}

	if _, err := r.run(ctx, "add", "."); err != nil {
		return err
	}
	// Fails when there is nothing to commit, which is fine.
	if _, err := r.run(ctx, "commit", "-m", updateCommitMessage); err != nil {
		r.logger.Debug("nothing committed", "error", err)
	}

	if _, err := r.Upstream(ctx); err == nil {
		_, err = r.run(ctx, "push")
		return err
	}
	_, err = r.run(ctx, "push", "-u", r.pushRemote(remotes), "HEAD")
	return err
}

// SetupRemote initializes the repository if needed and adds a remote.
func (r *Repo) SetupRemote(ctx context.Context, url, name string) error {
	if name == "" {
		name = "origin"
	}
	if err := r.Init(ctx); err != nil {
		return fmt.Errorf("failed to initialize git repository: %w", err)
	}
	_, err := r.run(ctx, "remote", "add", name, url)
	return err
}

func (r *Repo) pushRemote(remotes []string) string {
	for _, name := range remotes {
		if name == r.remote {
			return name
		}
	}
	return remotes[0]
}

// run executes git in the repository directory.
func (r *Repo) run(ctx context.Context, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = r.dir

	r.logger.Debug("running git", "args", strings.Join(args, " "), "dir", r.dir)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return output, fmt.Errorf("git %s failed: %w\n%s",
			strings.Join(args, " "), err, strings.TrimSpace(string(output)))
	}
	return output, nil
}
