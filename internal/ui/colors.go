package ui

import "github.com/charmbracelet/lipgloss"

const (
	accent  = lipgloss.Color("#7D56F4")
	success = lipgloss.Color("#04B575")
	danger  = lipgloss.Color("#FF0000")
	pending = lipgloss.Color("#FFA500")
	muted   = lipgloss.Color("#626262")
)

// styles used by the browser views.
var styles = struct {
	title lipgloss.Style // spinner and headers
	ok    lipgloss.Style // resolved stream
	err   lipgloss.Style
	warn  lipgloss.Style // failed scheduler step
	help  lipgloss.Style // running scheduler step
	label lipgloss.Style // field names in the stream view
}{
	title: fg(accent).Bold(true).MarginBottom(1),
	ok:    fg(success).Bold(true),
	err:   fg(danger).Bold(true),
	warn:  fg(pending),
	help:  fg(muted).Italic(true),
	label: fg(muted).Bold(true),
}

func fg(c lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c)
}
