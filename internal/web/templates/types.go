package templates

import "time"

// Page is everything the sprint page renders.
type Page struct {
	Projects   []string
	ActiveWeek string
	Weeks      []WeekTab
	Days       []string
	Rows       []GridRow
	Summary    SummaryView
	Archives   []ArchiveItem
	Error      string
}

type WeekTab struct {
	ID     string
	Label  string
	Active bool
}

// GridRow is one time slot of the active week, one cell per day.
type GridRow struct {
	Slot  string
	Cells []Cell
}

type Cell struct {
	Day   string
	Slot  string
	Value string
	// Orphan is set when Value is not in the project list, e.g. a split cell.
	Orphan bool
}

type SummaryView struct {
	Rows             []SummaryRow
	TotalHours       float64
	TotalStoryPoints float64
	MaxHours         float64
}

type SummaryRow struct {
	Name        string
	Hours       float64
	StoryPoints string
}

type ArchiveItem struct {
	ID               string
	Label            string
	TotalHours       float64
	TotalStoryPoints float64
	CreatedAt        time.Time
}
