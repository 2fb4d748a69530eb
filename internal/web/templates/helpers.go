package templates

import (
	"time"

	"github.com/emiliopalmerini/sprintsheet/internal/domain"
	"github.com/emiliopalmerini/sprintsheet/internal/util"
)

func formatHours(h float64) string {
	return util.FormatHours(h)
}

func formatStoryPoints(sp float64) string {
	return domain.FormatOneDecimal(sp)
}

func formatDateTime(t time.Time) string {
	return util.FormatDateTime(t)
}
