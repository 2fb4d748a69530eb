package domain

import "time"

// Archive is a frozen sprint summary, stored when a sprint is closed.
type Archive struct {
	ID               string
	Label            string
	Rows             []ChartRow
	TotalHours       float64
	TotalStoryPoints float64
	CreatedAt        time.Time
}

// NewArchive freezes summary under the given id and label.
func NewArchive(id, label string, summary Summary, now time.Time) *Archive {
	rows := make([]ChartRow, len(summary.Rows))
	copy(rows, summary.Rows)
	return &Archive{
		ID:               id,
		Label:            label,
		Rows:             rows,
		TotalHours:       summary.TotalHours,
		TotalStoryPoints: summary.TotalStoryPoints,
		CreatedAt:        now.UTC(),
	}
}
