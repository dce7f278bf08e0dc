// ABOUTME: Tests for argument normalization, error lines, and end-to-end CLI runs.
// ABOUTME: Runs the root command against a temporary storage directory.
package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/2389-research/stufflog/internal/config"
	"github.com/2389-research/stufflog/internal/models"
	"github.com/2389-research/stufflog/internal/stufflog"
)

func TestNormalizeArgs(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"category first", []string{"books", "add", "Dune", "5"}, []string{"add", "--category", "books", "Dune", "5"}},
		{"category init", []string{"books", "init"}, []string{"init", "--category", "books"}},
		{"category query flags", []string{"books", "query", "--greater-than", "3"}, []string{"query", "--category", "books", "--greater-than", "3"}},
		{"display only", []string{"books"}, []string{"books"}},
		{"command first", []string{"add", "-c", "books", "Dune", "5"}, []string{"add", "-c", "books", "Dune", "5"}},
		{"git init untouched", []string{"git", "init"}, []string{"git", "init"}},
		{"bool flag first", []string{"--verbose", "books", "init"}, []string{"--verbose", "init", "--category", "books"}},
		{"valued flag first", []string{"--dir", "/tmp/x", "books", "add", "Dune", "5"}, []string{"--dir", "/tmp/x", "add", "--category", "books", "Dune", "5"}},
		{"inline flag value", []string{"--dir=/tmp/x", "books", "init"}, []string{"--dir=/tmp/x", "init", "--category", "books"}},
		{"unknown flag first", []string{"--nope", "books", "init"}, []string{"--nope", "books", "init"}},
		{"flag without value", []string{"--dir"}, []string{"--dir"}},
		{"version flag", []string{"--version"}, []string{"--version"}},
		{"non category command", []string{"books", "list"}, []string{"books", "list"}},
		{"empty", []string{}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizeArgs(rootCmd, tt.args)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("normalizeArgs(%v) = %v, want %v", tt.args, got, tt.want)
			}
		})
	}
}

func TestErrorLine(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"domain", stufflog.NotFound("No entry titled 'X' found in books stufflog."), "No entry titled 'X' found in books stufflog."},
		{"usage", usageError{errors.New("accepts 1 arg(s), received 0")}, "Error: accepts 1 arg(s), received 0"},
		{"unexpected", errors.New("boom\nsecond line"), "Unexpected error: boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errorLine(tt.err); got != tt.want {
				t.Errorf("errorLine() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPrinterPlain(t *testing.T) {
	var buf bytes.Buffer
	newPrinter(&buf).entries([]models.Entry{
		{Title: "Dune", Datetime: "2024-06-01T10:00:00.000000+00:00", Rating: 5, Comment: "desert planet"},
		{Title: "1984", Rating: 3},
	})

	want := "Found 2 matching entries:\n\n" +
		"## Dune\n- **Datetime**: 2024-06-01T10:00:00.000000+00:00\n- **Rating**: 5\n- **Comment**: desert planet\n\n" +
		"## 1984\n- **Datetime**: Unknown\n- **Rating**: 3\n\n"
	if buf.String() != want {
		t.Errorf("unexpected output:\n%s\nwant:\n%s", buf.String(), want)
	}

	buf.Reset()
	newPrinter(&buf).entries(nil)
	if buf.String() != "No matching entries found.\n" {
		t.Errorf("unexpected empty output %q", buf.String())
	}
}

// resetFlags restores every flag to its default between runs of the shared
// command tree.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

type cli struct {
	t   *testing.T
	dir string
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "stufflog")
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("STUFFLOG_DIR", dir)
	t.Setenv("GIT_CONFIG_NOSYSTEM", "1")
	t.Setenv("GIT_AUTHOR_NAME", "Test User")
	t.Setenv("GIT_AUTHOR_EMAIL", "test@example.com")
	t.Setenv("GIT_COMMITTER_NAME", "Test User")
	t.Setenv("GIT_COMMITTER_EMAIL", "test@example.com")
	return &cli{t: t, dir: dir}
}

func (c *cli) run(args ...string) (code int, stdout, stderr string) {
	c.t.Helper()
	resetFlags(rootCmd)
	var out, errOut bytes.Buffer
	code = run(context.Background(), args, &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestCLIEndToEnd(t *testing.T) {
	c := newCLI(t)

	code, out, _ := c.run("books", "init")
	if code != 0 || out != "Initialized new stufflog for category 'books'\n" {
		t.Fatalf("init: code=%d out=%q", code, out)
	}
	data, err := os.ReadFile(filepath.Join(c.dir, "books.yml"))
	if err != nil || string(data) != "Entries: {}\n" {
		t.Fatalf("expected empty stufflog file, got %q (%v)", data, err)
	}

	code, out, _ = c.run("books", "add", "Dune", "5", "desert planet")
	if code != 0 || out != "Added entry 'Dune' to books stufflog\n" {
		t.Fatalf("add: code=%d out=%q", code, out)
	}
	if code, _, _ = c.run("add", "-c", "books", "1984", "3"); code != 0 {
		t.Fatalf("add with flag: code=%d", code)
	}

	code, out, errOut := c.run("books", "add", "Dune", "3")
	if code != 1 || out != "" || errOut != "Entry titled 'Dune' already exists in books stufflog.\n" {
		t.Errorf("duplicate add: code=%d out=%q err=%q", code, out, errOut)
	}

	code, out, _ = c.run("books", "query", "--greater-than", "4")
	if code != 0 || !strings.HasPrefix(out, "Found 1 matching entries:") || !strings.Contains(out, "## Dune") {
		t.Errorf("query: code=%d out=%q", code, out)
	}

	// Flags from the previous run must not leak into this one.
	code, out, _ = c.run("books", "query")
	if code != 0 || !strings.HasPrefix(out, "Found 2 matching entries:") {
		t.Errorf("unfiltered query: code=%d out=%q", code, out)
	}

	code, out, _ = c.run("books", "search", "DESERT")
	if code != 0 || !strings.Contains(out, "## Dune") || strings.Contains(out, "1984") {
		t.Errorf("search: code=%d out=%q", code, out)
	}

	code, out, _ = c.run("books", "delete", "Dune")
	if code != 0 || out != "Deleted entry 'Dune' from books stufflog\n" {
		t.Errorf("delete: code=%d out=%q", code, out)
	}

	code, out, _ = c.run("books")
	if code != 0 || !strings.HasPrefix(out, "Found 1 matching entries:") || !strings.Contains(out, "## 1984") {
		t.Errorf("display: code=%d out=%q", code, out)
	}

	code, out, _ = c.run("list")
	if code != 0 || out != "books\n" {
		t.Errorf("list: code=%d out=%q", code, out)
	}
}

func TestCLIErrors(t *testing.T) {
	c := newCLI(t)

	code, _, errOut := c.run("movies", "add", "Alien", "5")
	if code != 1 || errOut != "No stufflog found for category 'movies'. Use 'stufflog movies init' to create one.\n" {
		t.Errorf("missing category: code=%d err=%q", code, errOut)
	}

	code, _, errOut = c.run("add", "Alien", "5")
	if code != 1 || errOut != "Category is required for this command.\n" {
		t.Errorf("no category: code=%d err=%q", code, errOut)
	}

	c.run("movies", "init")
	code, _, errOut = c.run("movies", "add", "Alien", "five")
	if code != 1 || errOut != "Rating must be an integer, got 'five'.\n" {
		t.Errorf("bad rating: code=%d err=%q", code, errOut)
	}

	code, _, errOut = c.run("movies", "query", "--after", "not a date")
	if code != 1 || !strings.HasPrefix(errOut, "Invalid date for --after") {
		t.Errorf("bad date: code=%d err=%q", code, errOut)
	}

	code, _, errOut = c.run("movies", "delete")
	if code != 1 || !strings.HasPrefix(errOut, "Error: ") || strings.Count(errOut, "\n") != 1 {
		t.Errorf("missing arg: code=%d err=%q", code, errOut)
	}

	code, _, errOut = c.run("movies", "query", "--nope")
	if code != 1 || !strings.HasPrefix(errOut, "Error: unknown flag") {
		t.Errorf("unknown flag: code=%d err=%q", code, errOut)
	}
}

func TestCLIFlagsBeforeCategory(t *testing.T) {
	c := newCLI(t)
	other := filepath.Join(t.TempDir(), "elsewhere")

	if code, _, errOut := c.run("--verbose", "books", "init"); code != 0 {
		t.Fatalf("--verbose books init: code=%d err=%q", code, errOut)
	}
	if code, _, errOut := c.run("--dir", other, "books", "init"); code != 0 {
		t.Fatalf("--dir books init: code=%d err=%q", code, errOut)
	}
	code, out, errOut := c.run("--dir", other, "books", "add", "Dune", "5")
	if code != 0 || out != "Added entry 'Dune' to books stufflog\n" {
		t.Fatalf("--dir books add: code=%d out=%q err=%q", code, out, errOut)
	}
	if _, err := os.Stat(filepath.Join(other, "books.yml")); err != nil {
		t.Errorf("expected books.yml under --dir: %v", err)
	}
}

func TestSetupStorageDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(config.DirEnvVar, filepath.Join(t.TempDir(), "from-env"))

	tests := []struct {
		name string
		cfg  *config.Config
		flag string
		want string
	}{
		{"default", &config.Config{}, "", filepath.Join(home, ".stufflog")},
		{"config file", &config.Config{Storage: config.StorageConfig{Dir: "~/logs"}}, "", filepath.Join(home, "logs")},
		{"dir flag wins", &config.Config{Storage: config.StorageConfig{Dir: "~/logs"}}, "~/other", filepath.Join(home, "other")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := setupStorageDir(tt.cfg, tt.flag)
			if err != nil {
				t.Fatalf("setupStorageDir error: %v", err)
			}
			if got != tt.want {
				t.Errorf("setupStorageDir() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCLIVersion(t *testing.T) {
	c := newCLI(t)
	code, out, _ := c.run("--version")
	if code != 0 || !strings.Contains(out, stufflog.Version) {
		t.Errorf("version: code=%d out=%q", code, out)
	}
}

func TestCLIDirFlag(t *testing.T) {
	c := newCLI(t)
	other := filepath.Join(t.TempDir(), "elsewhere")

	if code, _, _ := c.run("--dir", other, "list"); code != 0 {
		t.Fatalf("list with --dir failed: %d", code)
	}
	if code, _, errOut := c.run("init", "-c", "games", "--dir", other); code != 0 {
		t.Fatalf("init with --dir failed: %d %q", code, errOut)
	}
	if _, err := os.Stat(filepath.Join(other, "games.yml")); err != nil {
		t.Errorf("expected games.yml under --dir: %v", err)
	}
	if _, err := os.Stat(filepath.Join(c.dir, "games.yml")); !os.IsNotExist(err) {
		t.Errorf("expected nothing under STUFFLOG_DIR, got %v", err)
	}
}

func TestCLIGitCommands(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
	c := newCLI(t)

	code, out, errOut := c.run("git", "init")
	if code != 0 || out != "Git repository initialized successfully.\n" {
		t.Fatalf("git init: code=%d out=%q err=%q", code, out, errOut)
	}

	bare := filepath.Join(t.TempDir(), "remote.git")
	if out, err := exec.Command("git", "init", "--bare", bare).CombinedOutput(); err != nil {
		t.Fatalf("git init --bare failed: %v\n%s", err, out)
	}

	code, out, errOut = c.run("git", "remote", bare, "--name", "backup")
	if code != 0 {
		t.Fatalf("git remote: code=%d err=%q", code, errOut)
	}
	want := "Remote 'backup' added successfully.\nYou can now push your stufflog data with: git push -u backup master\n"
	if out != want {
		t.Errorf("git remote output = %q, want %q", out, want)
	}

	code, _, errOut = c.run("git", "remote", bare, "--name", "backup")
	if code != 1 || !strings.HasPrefix(errOut, "Failed to add remote: ") {
		t.Errorf("duplicate remote: code=%d err=%q", code, errOut)
	}

	// With a remote configured, writes are pushed.
	c.run("books", "init")
	c.run("books", "add", "Dune", "5")
	log, err := exec.Command("git", "--git-dir", bare, "log", "--all", "--name-only", "--format=").CombinedOutput()
	if err != nil {
		t.Fatalf("git log failed: %v\n%s", err, log)
	}
	if !strings.Contains(string(log), "books.yml") {
		t.Errorf("expected books.yml pushed to the remote, got %q", log)
	}
}
