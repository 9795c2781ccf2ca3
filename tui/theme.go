// Package tui is the terminal front end: an interactive table driven by the
// runner callbacks, and a static rendering of a finished run for headless use.
package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/teamstools/teams-cache-clear/localize"
	"github.com/teamstools/teams-cache-clear/purge"
)

// Theme holds the colors and pre-built styles.
type Theme struct {
	Text           lipgloss.Color
	Muted          lipgloss.Color
	Accent         lipgloss.Color
	Border         lipgloss.Color
	SurfaceVariant lipgloss.Color

	Error   lipgloss.Color
	Warning lipgloss.Color
	Success lipgloss.Color

	Title        lipgloss.Style
	Subtle       lipgloss.Style
	Normal       lipgloss.Style
	ErrorStyle   lipgloss.Style
	WarningStyle lipgloss.Style
	SuccessStyle lipgloss.Style
	Help         lipgloss.Style
}

func DefaultTheme() *Theme {
	t := &Theme{
		Text:           lipgloss.Color("#ffffff"),
		Muted:          lipgloss.Color("#909090"),
		Accent:         lipgloss.Color("#7b83eb"),
		Border:         lipgloss.Color("#333333"),
		SurfaceVariant: lipgloss.Color("#2d2d2d"),
		Error:          lipgloss.Color("#f87171"),
		Warning:        lipgloss.Color("#fbbf24"),
		Success:        lipgloss.Color("#4ade80"),
	}

	t.Title = lipgloss.NewStyle().Foreground(t.Accent).Bold(true).MarginBottom(1)
	t.Subtle = lipgloss.NewStyle().Foreground(t.Muted)
	t.Normal = lipgloss.NewStyle().Foreground(t.Text)
	t.ErrorStyle = lipgloss.NewStyle().Foreground(t.Error)
	t.WarningStyle = lipgloss.NewStyle().Foreground(t.Warning)
	t.SuccessStyle = lipgloss.NewStyle().Foreground(t.Success)
	t.Help = lipgloss.NewStyle().Foreground(t.Muted).MarginTop(1)
	return t
}

// SummaryStyle picks the color of the closing line.
func (t *Theme) SummaryStyle(sum purge.Summary) lipgloss.Style {
	switch {
	case sum.Failed > 0:
		return t.ErrorStyle
	case sum.Timeout > 0:
		return t.WarningStyle
	default:
		return t.SuccessStyle
	}
}

func newSpinner(theme *Theme) spinner.Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(theme.Accent)
	return s
}

func newTable(theme *Theme, columns []table.Column, rows []table.Row, height int, focused bool) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(focused),
		table.WithHeight(height),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(theme.Border).
		BorderBottom(true).
		Foreground(theme.Accent).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(theme.Text).
		Background(theme.SurfaceVariant).
		Bold(true)
	s.Cell = s.Cell.
		Foreground(theme.Text)
	if !focused {
		// nothing to select in a static listing
		s.Selected = lipgloss.NewStyle()
	}

	t.SetStyles(s)
	return t
}

const (
	nameWidth   = 24
	statusWidth = 28
	minPath     = 30
)

// columns splits width between the three columns, the path taking the rest.
func columns(loc *localize.Localizer, width int) []table.Column {
	pathWidth := width - nameWidth - statusWidth - 6
	if pathWidth < minPath {
		pathWidth = minPath
	}
	return []table.Column{
		{Title: loc.T("column.name"), Width: nameWidth},
		{Title: loc.T("column.status"), Width: statusWidth},
		{Title: loc.T("column.path"), Width: pathWidth},
	}
}
