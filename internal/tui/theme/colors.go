package theme

import "github.com/charmbracelet/lipgloss"

var (
	// Primary colors, matching the web chart bars.
	Indigo       = lipgloss.Color("#4F46E5")
	BrightIndigo = lipgloss.Color("#818CF8")

	// Neutrals
	White     = lipgloss.Color("#FFFFFF")
	LightGray = lipgloss.Color("#9CA3AF")
	DimGray   = lipgloss.Color("#6B7280")
	DarkGray  = lipgloss.Color("#374151")

	// Semantic colors
	Success = lipgloss.Color("#22C55E")
	Warning = lipgloss.Color("#F59E0B")
	Error   = lipgloss.Color("#EF4444")
)
