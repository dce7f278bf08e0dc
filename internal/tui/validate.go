// ABOUTME: Git remote validation for the setup wizard.
// ABOUTME: Checks that a remote URL is reachable by listing its refs.
package tui

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// ValidateRemote checks that git can reach remoteURL.
// The context allows cancellation when the user quits during validation.
func ValidateRemote(ctx context.Context, remoteURL string) error {
	if remoteURL == "" {
		return fmt.Errorf("remote URL is empty")
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", "ls-remote", "--", remoteURL)
	// Never block on a credential prompt inside the TUI.
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")

	output, err := cmd.CombinedOutput()
	if ctx.Err() != nil {
		return fmt.Errorf("remote check cancelled: %w", ctx.Err())
	}
	if err != nil {
		return fmt.Errorf("git ls-remote failed: %s", strings.TrimSpace(string(output)))
	}
	return nil
}
