// Package terminal implements the Prompter and Reporter ports for an
// interactive terminal.
package terminal

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

type styles struct {
	title   lipgloss.Style
	label   lipgloss.Style
	dim     lipgloss.Style
	ok      lipgloss.Style
	warn    lipgloss.Style
	fail    lipgloss.Style
	info    lipgloss.Style
	cursor  lipgloss.Style
	help    lipgloss.Style
	box     lipgloss.Style
	cell    lipgloss.Style
	header  lipgloss.Style
	success lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		title:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		label:   r.NewStyle().Bold(true),
		dim:     r.NewStyle().Foreground(lipgloss.Color("240")),
		ok:      r.NewStyle().Foreground(lipgloss.Color("10")),
		warn:    r.NewStyle().Foreground(lipgloss.Color("11")),
		fail:    r.NewStyle().Foreground(lipgloss.Color("9")),
		info:    r.NewStyle().Foreground(lipgloss.Color("14")),
		cursor:  r.NewStyle().Foreground(lipgloss.Color("13")).Bold(true),
		help:    r.NewStyle().Foreground(lipgloss.Color("240")).Italic(true),
		box:     r.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("12")).Padding(0, 1),
		cell:    r.NewStyle().Padding(0, 1),
		header:  r.NewStyle().Bold(true).Padding(0, 1),
		success: r.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
	}
}

// IsInteractive reports whether f is attached to a terminal.
func IsInteractive(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// clip returns the first non-empty line of s, cut to limit runes.
func clip(s string, limit int) string {
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		r := []rune(line)
		if len(r) > limit {
			return string(r[:limit-1]) + "…"
		}
		return line
	}
	return ""
}
