package domain

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// HoursPerStoryPoint is the number of logged hours worth one story point.
const HoursPerStoryPoint = 8.0

// SplitSeparator divides a cell shared by several activities.
const SplitSeparator = "/"

// ProjectHours maps an activity (or a component of a split activity) to the
// hours logged against it.
type ProjectHours map[string]float64

// ChartOrder selects how chart rows are built and ordered.
type ChartOrder string

const (
	// OrderByHours builds one row per observed activity, sorted by hours descending.
	OrderByHours ChartOrder = "hours"
	// OrderByProjects builds one row per project, in project list order.
	OrderByProjects ChartOrder = "projects"
)

// SplitMode selects how a split cell distributes its hour.
type SplitMode string

const (
	// SplitHalf credits 0.5 hours to every component, whatever their number.
	SplitHalf SplitMode = "half"
	// SplitEven credits 1/N hours to each of the N components.
	SplitEven SplitMode = "even"
)

// SummaryOptions tunes the aggregation. The zero value means OrderByHours and SplitHalf.
type SummaryOptions struct {
	Order ChartOrder
	Split SplitMode
}

// ParseChartOrder validates a configured chart order; "" means OrderByHours.
func ParseChartOrder(s string) (ChartOrder, error) {
	switch ChartOrder(strings.ToLower(s)) {
	case "", OrderByHours:
		return OrderByHours, nil
	case OrderByProjects:
		return OrderByProjects, nil
	}
	return "", fmt.Errorf("invalid chart order %q: expected %q or %q", s, OrderByHours, OrderByProjects)
}

// ParseSplitMode validates a configured split mode; "" means SplitHalf.
func ParseSplitMode(s string) (SplitMode, error) {
	switch SplitMode(strings.ToLower(s)) {
	case "", SplitHalf:
		return SplitHalf, nil
	case SplitEven:
		return SplitEven, nil
	}
	return "", fmt.Errorf("invalid split mode %q: expected %q or %q", s, SplitHalf, SplitEven)
}

// ChartRow is one project line of the sprint summary.
type ChartRow struct {
	Name        string  `json:"name"`
	Hours       float64 `json:"hours"`
	StoryPoints float64 `json:"story_points"`
}

// StoryPointsLabel renders story points with one decimal, e.g. "1.0".
func (r ChartRow) StoryPointsLabel() string {
	return FormatOneDecimal(r.StoryPoints)
}

// Summary is the derived view of a timesheet.
type Summary struct {
	Hours            ProjectHours `json:"project_hours"`
	Rows             []ChartRow   `json:"rows"`
	TotalHours       float64      `json:"total_hours"`
	TotalStoryPoints float64      `json:"total_story_points"`
}

// ComputeHours accumulates the hours of every non-empty cell of both weeks
// using SplitHalf.
func ComputeHours(ts Timesheet) ProjectHours {
	return ComputeHoursWith(ts, SplitHalf)
}

// ComputeHoursWith accumulates hours using the given split mode. Components
// of a split cell are taken verbatim: no whitespace trimming, empty
// components included.
func ComputeHoursWith(ts Timesheet, mode SplitMode) ProjectHours {
	hours := make(ProjectHours)
	ts.Each(func(_ Week, _, _, activity string) {
		if activity == "" {
			return
		}
		if !strings.Contains(activity, SplitSeparator) {
			hours[activity]++
			return
		}
		parts := strings.Split(activity, SplitSeparator)
		share := 0.5
		if mode == SplitEven {
			share = 1.0 / float64(len(parts))
		}
		for _, p := range parts {
			hours[p] += share
		}
	})
	return hours
}

// StoryPoints converts hours to story points rounded to one decimal.
func StoryPoints(hours float64) float64 {
	return RoundOneDecimal(hours / HoursPerStoryPoint)
}

// ChartRows derives the summary rows. With OrderByHours there is one row per
// observed activity except "", sorted by hours descending (ties by name).
// With OrderByProjects there is one row per project in list order, zero
// hours for projects never logged.
func ChartRows(hours ProjectHours, projects []string, order ChartOrder) []ChartRow {
	if order == OrderByProjects {
		rows := make([]ChartRow, 0, len(projects))
		for _, p := range projects {
			h := hours[p]
			rows = append(rows, ChartRow{Name: p, Hours: h, StoryPoints: StoryPoints(h)})
		}
		return rows
	}

	rows := make([]ChartRow, 0, len(hours))
	for name, h := range hours {
		if name == "" {
			continue
		}
		rows = append(rows, ChartRow{Name: name, Hours: h, StoryPoints: StoryPoints(h)})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Hours != rows[j].Hours {
			return rows[i].Hours > rows[j].Hours
		}
		return rows[i].Name < rows[j].Name
	})
	return rows
}

// TotalStoryPoints sums the row story points and rounds the sum once.
func TotalStoryPoints(rows []ChartRow) float64 {
	var total float64
	for _, r := range rows {
		total += r.StoryPoints
	}
	return RoundOneDecimal(total)
}

// TotalHours sums every accumulated value, including activities that have no row.
func TotalHours(hours ProjectHours) float64 {
	var total float64
	for _, h := range hours {
		total += h
	}
	return total
}

// Summarize runs the whole aggregation pipeline.
func Summarize(ts Timesheet, projects []string, opts SummaryOptions) Summary {
	hours := ComputeHoursWith(ts, opts.Split)
	rows := ChartRows(hours, projects, opts.Order)
	return Summary{
		Hours:            hours,
		Rows:             rows,
		TotalHours:       TotalHours(hours),
		TotalStoryPoints: TotalStoryPoints(rows),
	}
}

// RoundOneDecimal rounds half away from zero to one decimal place.
func RoundOneDecimal(v float64) float64 {
	return math.Round(v*10) / 10
}

// FormatOneDecimal renders v with exactly one decimal.
func FormatOneDecimal(v float64) string {
	return fmt.Sprintf("%.1f", RoundOneDecimal(v))
}
