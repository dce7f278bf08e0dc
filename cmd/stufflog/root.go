// ABOUTME: Root Cobra command and global flags for the stufflog CLI.
// ABOUTME: Wires config, logging, storage, and git sync into the core service.
package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/2389-research/stufflog/internal/config"
	"github.com/2389-research/stufflog/internal/gitsync"
	"github.com/2389-research/stufflog/internal/logging"
	"github.com/2389-research/stufflog/internal/storage"
	"github.com/2389-research/stufflog/internal/stufflog"
)

var globalConfig *config.Config
var globalApp *stufflog.App
var globalLogCloser io.Closer

// Flags
var (
	flagDir      string
	flagVerbose  bool
	flagCategory string
)

var rootCmd = &cobra.Command{
	Use:   "stufflog [category]",
	Short: "Log and rate the stuff you read, watch, and play",
	Long: `stufflog keeps one journal per category (books, movies, games...).
Each entry has a unique title, a rating, an optional comment, and the time
it was added. Journals are plain YAML files, optionally synced with git.

Run "stufflog <category>" to show every entry of a category.`,
	Version:           stufflog.Version,
	Args:              usageArgs(cobra.MaximumNArgs(1)),
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: setupApp,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if globalLogCloser != nil {
			_ = globalLogCloser.Close()
			globalLogCloser = nil
		}
		return nil
	},
	RunE: runDisplay,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDir, "dir", "", "Storage directory (overrides config and $"+config.DirEnvVar+")")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Log debug output to stderr")
	rootCmd.PersistentFlags().StringVarP(&flagCategory, "category", "c", "", "Stufflog category")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usageError{err}
	})
}

func setupApp(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "help" || cmd.Name() == "completion" {
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	globalConfig = cfg

	dir := flagDir
	if dir != "" {
		dir, err = config.ExpandPath(dir)
	} else {
		dir, err = cfg.StorageDir()
	}
	if err != nil {
		return fmt.Errorf("failed to resolve storage directory: %w", err)
	}

	logFile, err := cfg.LogFile()
	if err != nil {
		return fmt.Errorf("failed to resolve log file: %w", err)
	}
	logger, closer, err := logging.New(logging.Options{
		Level:   cfg.Log.Level,
		File:    logFile,
		Verbose: flagVerbose,
		Stderr:  cmd.ErrOrStderr(),
	})
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	globalLogCloser = closer

	store, err := storage.NewYAMLStore(dir, logger)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	repo := gitsync.New(dir,
		gitsync.WithPreferredRemote(cfg.RemoteName()),
		gitsync.WithLogger(logger),
	)

	app, err := stufflog.New(store, repo,
		stufflog.WithLogger(logger),
		stufflog.WithAutoSync(cfg.AutoSync()),
	)
	if err != nil {
		return err
	}
	globalApp = app

	logger.Debug("stufflog ready", "dir", dir, "auto_sync", cfg.AutoSync())
	return nil
}

func runDisplay(cmd *cobra.Command, args []string) error {
	category := flagCategory
	if len(args) == 1 {
		category = args[0]
	}
	if category == "" {
		return cmd.Help()
	}

	entries, err := globalApp.All(cmd.Context(), category)
	if err != nil {
		return err
	}
	newPrinter(cmd.OutOrStdout()).entries(entries)
	return nil
}

// usageArgs tags argument validation failures as usage errors.
func usageArgs(fn cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := fn(cmd, args); err != nil {
			return usageError{err}
		}
		return nil
	}
}
