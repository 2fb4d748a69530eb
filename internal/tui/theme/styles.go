package theme

import (
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Styles contains all shared TUI styles
type Styles struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Muted    lipgloss.Style
	Bold     lipgloss.Style

	// Week tabs
	TabActive   lipgloss.Style
	TabInactive lipgloss.Style

	// Grid cells
	Header     lipgloss.Style
	Cell       lipgloss.Style
	CellEmpty  lipgloss.Style
	CellOrphan lipgloss.Style
	Cursor     lipgloss.Style

	Bar lipgloss.Style

	Help    lipgloss.Style
	HelpKey lipgloss.Style

	Card lipgloss.Style

	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
}

var (
	defaultStyles *Styles
	once          sync.Once
)

// Default returns the singleton default Styles instance
func Default() *Styles {
	once.Do(func() {
		defaultStyles = newStyles()
	})
	return defaultStyles
}

func newStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(White).
			MarginBottom(1),

		Subtitle: lipgloss.NewStyle().
			Foreground(BrightIndigo).
			Bold(true),

		Muted: lipgloss.NewStyle().
			Foreground(DimGray),

		Bold: lipgloss.NewStyle().
			Bold(true).
			Foreground(White),

		TabActive: lipgloss.NewStyle().
			Bold(true).
			Foreground(White).
			Background(Indigo).
			Padding(0, 1),

		TabInactive: lipgloss.NewStyle().
			Foreground(LightGray).
			Padding(0, 1),

		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(LightGray),

		Cell: lipgloss.NewStyle().
			Foreground(White),

		CellEmpty: lipgloss.NewStyle().
			Foreground(DarkGray),

		CellOrphan: lipgloss.NewStyle().
			Foreground(Warning),

		Cursor: lipgloss.NewStyle().
			Reverse(true).
			Bold(true),

		Bar: lipgloss.NewStyle().
			Foreground(Indigo),

		Help: lipgloss.NewStyle().
			Foreground(DimGray).
			MarginTop(1),

		HelpKey: lipgloss.NewStyle().
			Foreground(LightGray).
			Bold(true),

		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(DarkGray).
			Padding(0, 1),

		Success: lipgloss.NewStyle().
			Foreground(Success),

		Warning: lipgloss.NewStyle().
			Foreground(Warning),

		Error: lipgloss.NewStyle().
			Foreground(Error),
	}
}
