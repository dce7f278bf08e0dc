// ABOUTME: CLI command that opens an interactive shell in the storage directory.
// ABOUTME: Uses $SHELL, falling back to /bin/sh.
package main

import (
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"
)

var cdCmd = &cobra.Command{
	Use:   "cd",
	Short: "Open a shell in the stufflog directory",
	Args:  usageArgs(cobra.NoArgs),
	RunE:  runCd,
}

func init() {
	rootCmd.AddCommand(cdCmd)
}

func runCd(cmd *cobra.Command, args []string) error {
	dir := globalApp.Dir()
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Opening shell in %s\n", dir)

	shell := os.Getenv("SHELL")
	if shell == "" {
		shell = "/bin/sh"
	}
	sh := exec.CommandContext(cmd.Context(), shell)
	sh.Dir = dir
	sh.Stdin = cmd.InOrStdin()
	sh.Stdout = cmd.OutOrStdout()
	sh.Stderr = cmd.ErrOrStderr()

	// The exit status of the user's last shell command is not ours to report.
	var exitErr *exec.ExitError
	if err := sh.Run(); err != nil && !errors.As(err, &exitErr) {
		return fmt.Errorf("failed to start shell %s: %w", shell, err)
	}
	return nil
}
