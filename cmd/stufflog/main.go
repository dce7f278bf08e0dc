// ABOUTME: Entry point for the stufflog binary.
// ABOUTME: Normalizes the category-first argument order and maps errors to exit codes.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/2389-research/stufflog/internal/stufflog"
)

// categoryCommands accept the category as a leading positional argument.
var categoryCommands = map[string]bool{
	"init":   true,
	"add":    true,
	"query":  true,
	"delete": true,
	"search": true,
}

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	rootCmd.SetArgs(normalizeArgs(rootCmd, args))
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(stderr, errorLine(err))
		return 1
	}
	return 0
}

// normalizeArgs rewrites "stufflog [flags] <category> <command> ..." into
// "stufflog [flags] <command> --category <category> ...".
func normalizeArgs(root *cobra.Command, args []string) []string {
	i := skipPersistentFlags(root, args)
	if i < 0 || len(args)-i < 2 {
		return args
	}
	category, command := args[i], args[i+1]
	if isCommandName(root, category) || !categoryCommands[command] {
		return args
	}

	out := make([]string, 0, len(args)+1)
	out = append(out, args[:i]...)
	out = append(out, command, "--category", category)
	return append(out, args[i+2:]...)
}

// skipPersistentFlags returns the index of the first positional argument
// after any leading persistent flags and their values, or -1 when a leading
// flag is not a known persistent flag.
func skipPersistentFlags(root *cobra.Command, args []string) int {
	flags := root.PersistentFlags()
	i := 0
	for i < len(args) && strings.HasPrefix(args[i], "-") {
		arg := args[i]
		if arg == "--" || arg == "-" {
			return -1
		}

		var f *pflag.Flag
		var inline bool
		if strings.HasPrefix(arg, "--") {
			name, _, hasValue := strings.Cut(arg[2:], "=")
			f, inline = flags.Lookup(name), hasValue
		} else {
			f, inline = flags.ShorthandLookup(arg[1:2]), len(arg) > 2
		}
		if f == nil {
			return -1
		}

		i++
		if !inline && f.NoOptDefVal == "" {
			i++
		}
	}
	if i >= len(args) {
		return -1
	}
	return i
}

func isCommandName(root *cobra.Command, name string) bool {
	if name == "help" || name == "completion" {
		return true
	}
	for _, c := range root.Commands() {
		if c.Name() == name || c.HasAlias(name) {
			return true
		}
	}
	return false
}

// usageError marks a problem with how the command was invoked.
type usageError struct {
	err error
}

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

// errorLine is the single line printed to stderr when a command fails.
func errorLine(err error) string {
	var domainErr *stufflog.Error
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}
	var usageErr usageError
	if errors.As(err, &usageErr) {
		return "Error: " + usageErr.Error()
	}
	if strings.HasPrefix(err.Error(), "unknown command") {
		return "Error: " + firstLine(err.Error())
	}
	return "Unexpected error: " + firstLine(err.Error())
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
