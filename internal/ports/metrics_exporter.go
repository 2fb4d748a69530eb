package ports

import (
	"context"

	"github.com/emiliopalmerini/sprintsheet/internal/domain"
)

// MetricsExporter exports sprint metrics to an external observability system.
type MetricsExporter interface {
	// ExportArchive exports the per-project hours and story points of a closed sprint.
	ExportArchive(ctx context.Context, archive *domain.Archive) error
	// Close shuts down the exporter and flushes any pending metrics.
	Close(ctx context.Context) error
}
