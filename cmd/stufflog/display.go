// ABOUTME: Markdown-style rendering of entries for the terminal.
// ABOUTME: Styles headings and labels with lipgloss only when stdout is a TTY.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/2389-research/stufflog/internal/models"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	labelStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
	countStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type printer struct {
	w      io.Writer
	styled bool
}

func newPrinter(w io.Writer) printer {
	p := printer{w: w}
	if f, ok := w.(*os.File); ok {
		fd := f.Fd()
		p.styled = isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	}
	return p
}

func (p printer) entries(entries []models.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(p.w, "No matching entries found.")
		return
	}

	fmt.Fprintln(p.w, p.render(countStyle, fmt.Sprintf("Found %d matching entries:", len(entries))))
	fmt.Fprintln(p.w)

	for _, e := range entries {
		datetime := e.Datetime
		if datetime == "" {
			datetime = "Unknown"
		}
		fmt.Fprintln(p.w, p.render(headingStyle, "## "+e.Title))
		fmt.Fprintf(p.w, "- %s: %s\n", p.render(labelStyle, "**Datetime**"), datetime)
		fmt.Fprintf(p.w, "- %s: %d\n", p.render(labelStyle, "**Rating**"), e.Rating)
		if e.Comment != "" {
			fmt.Fprintf(p.w, "- %s: %s\n", p.render(labelStyle, "**Comment**"), e.Comment)
		}
		fmt.Fprintln(p.w)
	}
}

func (p printer) render(style lipgloss.Style, s string) string {
	if !p.styled {
		return s
	}
	return style.Render(s)
}
