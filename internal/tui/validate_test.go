// ABOUTME: Tests for git remote validation.
// ABOUTME: Uses a local bare repository as a reachable remote.
package tui

import (
	"context"
	"os/exec"
	"path/filepath"
	"testing"
)

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
	t.Setenv("HOME", t.TempDir())
	t.Setenv("GIT_CONFIG_NOSYSTEM", "1")
}

func newBareRemote(t *testing.T) string {
	t.Helper()
	bare := filepath.Join(t.TempDir(), "remote.git")
	out, err := exec.Command("git", "init", "--bare", bare).CombinedOutput()
	if err != nil {
		t.Fatalf("git init --bare failed: %v\n%s", err, out)
	}
	return bare
}

func TestValidateRemote_Success(t *testing.T) {
	requireGit(t)
	bare := newBareRemote(t)

	if err := ValidateRemote(context.Background(), bare); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestValidateRemote_Missing(t *testing.T) {
	requireGit(t)
	missing := filepath.Join(t.TempDir(), "nope.git")

	if err := ValidateRemote(context.Background(), missing); err == nil {
		t.Fatal("expected error for a missing repository")
	}
}

func TestValidateRemote_Empty(t *testing.T) {
	if err := ValidateRemote(context.Background(), ""); err == nil {
		t.Fatal("expected error for an empty URL")
	}
}

func TestValidateRemote_Cancelled(t *testing.T) {
	requireGit(t)
	bare := newBareRemote(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // cancel immediately

	if err := ValidateRemote(ctx, bare); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}
