// ABOUTME: CLI commands for stufflog categories and entries.
// ABOUTME: Provides init, add, query, delete, and search subcommands.
package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/2389-research/stufflog/internal/models"
	"github.com/2389-research/stufflog/internal/stufflog"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a new stufflog for a category",
	Long:  "Create an empty stufflog for the category and make sure the storage directory is a git repository.",
	Args:  usageArgs(cobra.NoArgs),
	RunE:  runInit,
}

var addCmd = &cobra.Command{
	Use:   "add <title> <rating> [comment]",
	Short: "Add an entry",
	Long:  "Add an entry stamped with the current time. Titles are unique within a category.",
	Args:  usageArgs(cobra.RangeArgs(2, 3)),
	RunE:  runAdd,
}

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Query entries by rating and date",
	Long: `List entries matching every given bound. All bounds are strict.

Dates accept ISO 8601 (2024-06-01, 2024-06-01T18:30:00+02:00) or phrases
such as "yesterday" or "3 days ago".`,
	Args: usageArgs(cobra.NoArgs),
	RunE: runQuery,
}

var deleteCmd = &cobra.Command{
	Use:   "delete <title>",
	Short: "Delete an entry",
	Args:  usageArgs(cobra.ExactArgs(1)),
	RunE:  runDelete,
}

var searchCmd = &cobra.Command{
	Use:   "search <term>",
	Short: "Search titles and comments",
	Long:  "Find entries whose title or comment contains the term, ignoring case.",
	Args:  usageArgs(cobra.ExactArgs(1)),
	RunE:  runSearch,
}

// Flags
var (
	queryGreaterThan int
	queryLessThan    int
	queryAfter       string
	queryBefore      string
)

func init() {
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(searchCmd)

	queryCmd.Flags().IntVar(&queryGreaterThan, "greater-than", 0, "Only entries rated strictly above this value")
	queryCmd.Flags().IntVar(&queryLessThan, "less-than", 0, "Only entries rated strictly below this value")
	queryCmd.Flags().StringVar(&queryAfter, "after", "", "Only entries added strictly after this date")
	queryCmd.Flags().StringVar(&queryBefore, "before", "", "Only entries added strictly before this date")
}

func runInit(cmd *cobra.Command, args []string) error {
	if err := globalApp.Init(cmd.Context(), flagCategory); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Initialized new stufflog for category '%s'\n", flagCategory)
	return nil
}

func runAdd(cmd *cobra.Command, args []string) error {
	title := args[0]
	rating, err := strconv.Atoi(args[1])
	if err != nil {
		return stufflog.Malformed(err, "Rating must be an integer, got '%s'.", args[1])
	}
	var comment string
	if len(args) == 3 {
		comment = args[2]
	}

	if _, err := globalApp.Add(cmd.Context(), flagCategory, title, rating, comment); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Added entry '%s' to %s stufflog\n", title, flagCategory)
	return nil
}

func runQuery(cmd *cobra.Command, args []string) error {
	var filter models.QueryFilter
	// Only bounds the user actually passed are applied.
	if cmd.Flags().Changed("greater-than") {
		v := queryGreaterThan
		filter.GreaterThan = &v
	}
	if cmd.Flags().Changed("less-than") {
		v := queryLessThan
		filter.LessThan = &v
	}
	filter.After = queryAfter
	filter.Before = queryBefore

	entries, err := globalApp.Query(cmd.Context(), flagCategory, filter)
	if err != nil {
		return err
	}
	newPrinter(cmd.OutOrStdout()).entries(entries)
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	title := args[0]
	if err := globalApp.Delete(cmd.Context(), flagCategory, title); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted entry '%s' from %s stufflog\n", title, flagCategory)
	return nil
}

func runSearch(cmd *cobra.Command, args []string) error {
	entries, err := globalApp.Search(cmd.Context(), flagCategory, args[0])
	if err != nil {
		return err
	}
	newPrinter(cmd.OutOrStdout()).entries(entries)
	return nil
}
