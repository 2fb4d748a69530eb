package timesheet

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/emiliopalmerini/sprintsheet/internal/domain"
)

// Export formats.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// ParseFormat accepts "json" (the default) and "csv".
func ParseFormat(s string) (string, error) {
	switch s {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatCSV:
		return FormatCSV, nil
	}
	return "", fmt.Errorf("invalid export format %q: expected json or csv", s)
}

type exportDocument struct {
	Timesheet domain.Timesheet `json:"timesheet"`
	Projects  []string         `json:"projects"`
	Summary   exportSummary    `json:"summary"`
}

type exportSummary struct {
	Rows             []domain.ChartRow `json:"rows"`
	TotalHours       float64           `json:"total_hours"`
	TotalStoryPoints float64           `json:"total_story_points"`
}

// WriteExport writes snap to w in the given format. JSON carries the grid,
// the project list and the summary; CSV carries one line per cell.
func WriteExport(w io.Writer, snap Snapshot, format string) error {
	switch format {
	case FormatCSV:
		return writeCSV(w, snap)
	case FormatJSON:
		return writeJSON(w, snap)
	}
	return fmt.Errorf("invalid export format %q", format)
}

func writeJSON(w io.Writer, snap Snapshot) error {
	rows := snap.ChartRows
	if rows == nil {
		rows = []domain.ChartRow{}
	}
	doc := exportDocument{
		Timesheet: snap.Assignments,
		Projects:  snap.Projects,
		Summary: exportSummary{
			Rows:             rows,
			TotalHours:       snap.TotalHours,
			TotalStoryPoints: snap.TotalStoryPoints,
		},
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode export: %w", err)
	}
	return nil
}

func writeCSV(w io.Writer, snap Snapshot) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"week", "day", "slot", "activity", "hours"}); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	var werr error
	snap.Assignments.Each(func(week domain.Week, day, slot, activity string) {
		if werr != nil {
			return
		}
		hours := "0"
		if activity != "" {
			hours = "1"
		}
		werr = writer.Write([]string{string(week), day, slot, activity, hours})
	})
	if werr != nil {
		return fmt.Errorf("failed to write csv row: %w", werr)
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}
	return nil
}

// FormatSummaryRow renders a chart row for tabular output.
func FormatSummaryRow(row domain.ChartRow) []string {
	return []string{row.Name, strconv.FormatFloat(row.Hours, 'f', 1, 64), row.StoryPointsLabel()}
}
