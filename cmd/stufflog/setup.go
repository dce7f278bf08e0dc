// ABOUTME: Cobra command for interactive stufflog setup.
// ABOUTME: Launches a bubbletea TUI wizard for the storage directory and git remote.
package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/2389-research/stufflog/internal/config"
	"github.com/2389-research/stufflog/internal/gitsync"
	"github.com/2389-research/stufflog/internal/logging"
	"github.com/2389-research/stufflog/internal/storage"
	"github.com/2389-research/stufflog/internal/stufflog"
	"github.com/2389-research/stufflog/internal/tui"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Configure storage and git sync",
	Long:  "Interactive wizard to choose the storage directory and connect a git remote.",
	Args:  usageArgs(cobra.NoArgs),
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	cfg := globalConfig
	currentDir, err := setupStorageDir(cfg, flagDir)
	if err != nil {
		return fmt.Errorf("failed to resolve storage directory: %w", err)
	}

	model := tui.NewSetupModel(currentDir, "", cfg.RemoteName())

	p := tea.NewProgram(model, tea.WithContext(cmd.Context()))
	result, err := p.Run()
	if err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	out := cmd.OutOrStdout()
	final := result.(tui.SetupModel)
	if !final.ShouldSave() {
		fmt.Fprintln(out, "Setup cancelled.")
		return nil
	}

	dir, remoteURL, name := final.Result()
	cfg.Storage.Dir = dir
	if name != "" {
		cfg.Git.RemoteName = name
	}
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	configPath, err := config.GetConfigPath()
	if err != nil {
		fmt.Fprintln(out, "Config saved successfully.")
	} else {
		fmt.Fprintf(out, "Config saved to %s\n", configPath)
	}

	if remoteURL == "" {
		return nil
	}

	// The chosen directory may differ from the one the app was opened with.
	app, err := appForDir(dir)
	if err != nil {
		return err
	}
	if err := app.SetupRemote(cmd.Context(), remoteURL, name); err != nil {
		return stufflog.Internal(err, "Failed to add remote: %s", firstLine(err.Error()))
	}
	fmt.Fprintf(out, "Remote '%s' added successfully.\n", name)
	return nil
}

// setupStorageDir is the directory the wizard starts from: --dir when given,
// else what the config file holds. $STUFFLOG_DIR is left out so accepting the
// default never copies a session override into the file.
func setupStorageDir(cfg *config.Config, dirFlag string) (string, error) {
	if dirFlag != "" {
		return config.ExpandPath(dirFlag)
	}
	return cfg.ConfiguredStorageDir()
}

func appForDir(dir string) (*stufflog.App, error) {
	expanded, err := config.ExpandPath(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve storage directory: %w", err)
	}
	logger := logging.Discard()
	store, err := storage.NewYAMLStore(expanded, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}
	return stufflog.New(store, gitsync.New(expanded, gitsync.WithLogger(logger)))
}
