package tui

import (
	"github.com/charmbracelet/lipgloss"

	"todo-api/pkg/preferences"
)

type styles struct {
	title    lipgloss.Style
	muted    lipgloss.Style
	accent   lipgloss.Style
	success  lipgloss.Style
	pending  lipgloss.Style
	err      lipgloss.Style
	selected lipgloss.Style
	done     lipgloss.Style
	header   lipgloss.Style
	cell     lipgloss.Style
	border   lipgloss.Style
	panel    lipgloss.Style
	tab      lipgloss.Style
	tabOn    lipgloss.Style
}

type palette struct {
	fg, muted, accent, success, pending, err, border, selBg, selFg lipgloss.Color
}

var (
	darkPalette = palette{
		fg: "252", muted: "245", accent: "12", success: "42", pending: "214",
		err: "9", border: "8", selBg: "238", selFg: "231",
	}
	lightPalette = palette{
		fg: "235", muted: "244", accent: "26", success: "28", pending: "130",
		err: "160", border: "250", selBg: "153", selFg: "16",
	}
)

func newStyles(theme preferences.Theme) styles {
	p := darkPalette
	if theme == preferences.ThemeLight {
		p = lightPalette
	}

	return styles{
		title:    lipgloss.NewStyle().Bold(true).Foreground(p.fg),
		muted:    lipgloss.NewStyle().Foreground(p.muted),
		accent:   lipgloss.NewStyle().Foreground(p.accent),
		success:  lipgloss.NewStyle().Foreground(p.success),
		pending:  lipgloss.NewStyle().Foreground(p.pending),
		err:      lipgloss.NewStyle().Foreground(p.err).Bold(true),
		selected: lipgloss.NewStyle().Bold(true).Background(p.selBg).Foreground(p.selFg).Padding(0, 1),
		done:     lipgloss.NewStyle().Foreground(p.muted).Strikethrough(true).Padding(0, 1),
		header:   lipgloss.NewStyle().Bold(true).Foreground(p.accent).Padding(0, 1),
		cell:     lipgloss.NewStyle().Foreground(p.fg).Padding(0, 1),
		border:   lipgloss.NewStyle().Foreground(p.border),
		panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.border).
			Padding(0, 1),
		tab:   lipgloss.NewStyle().Foreground(p.muted).Padding(0, 1),
		tabOn: lipgloss.NewStyle().Foreground(p.accent).Bold(true).Underline(true).Padding(0, 1),
	}
}
