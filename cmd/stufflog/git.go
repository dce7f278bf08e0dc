// ABOUTME: CLI commands for git synchronization of the storage directory.
// ABOUTME: Provides git init and git remote subcommands.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/2389-research/stufflog/internal/stufflog"
)

var gitCmd = &cobra.Command{
	Use:   "git",
	Short: "Manage git sync for the storage directory",
	Long: `Set up git so stufflogs can be synced between machines.

Once a remote is configured, every command pulls before reading and
pushes after writing.`,
}

var gitInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a git repository in the storage directory",
	Args:  usageArgs(cobra.NoArgs),
	RunE:  runGitInit,
}

var gitRemoteCmd = &cobra.Command{
	Use:   "remote <url>",
	Short: "Add a git remote for syncing",
	Args:  usageArgs(cobra.ExactArgs(1)),
	RunE:  runGitRemote,
}

// Flags
var remoteName string

func init() {
	rootCmd.AddCommand(gitCmd)
	gitCmd.AddCommand(gitInitCmd)
	gitCmd.AddCommand(gitRemoteCmd)

	gitRemoteCmd.Flags().StringVar(&remoteName, "name", "origin", "Remote name")
}

func runGitInit(cmd *cobra.Command, args []string) error {
	if err := globalApp.InitRepo(cmd.Context()); err != nil {
		return stufflog.Internal(err, "Failed to initialize git repository: %s", firstLine(err.Error()))
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Git repository initialized successfully.")
	return nil
}

func runGitRemote(cmd *cobra.Command, args []string) error {
	name := remoteName
	if name == "" {
		name = "origin"
	}
	if err := globalApp.SetupRemote(cmd.Context(), args[0], name); err != nil {
		if stufflog.KindOf(err) == stufflog.KindMalformed {
			return err
		}
		return stufflog.Internal(err, "Failed to add remote: %s", firstLine(err.Error()))
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Remote '%s' added successfully.\n", name)
	fmt.Fprintf(out, "You can now push your stufflog data with: git push -u %s master\n", name)
	return nil
}
