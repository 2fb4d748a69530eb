package otel

import (
	"context"
	"errors"
	"testing"
	"time"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/emiliopalmerini/sprintsheet/internal/domain"
)

func TestNewExporter_Disabled(t *testing.T) {
	tests := []Config{
		{},
		{Enabled: true},
		{Endpoint: "localhost:4317"},
	}
	for _, cfg := range tests {
		if _, err := NewExporter(context.Background(), cfg); !errors.Is(err, ErrDisabled) {
			t.Errorf("NewExporter(%+v): expected ErrDisabled, got %v", cfg, err)
		}
	}
}

func TestExporter_ExportArchive(t *testing.T) {
	ctx := context.Background()
	reader := sdkmetric.NewManualReader()
	e, err := newExporter(ctx, reader)
	if err != nil {
		t.Fatalf("newExporter failed: %v", err)
	}
	t.Cleanup(func() { _ = e.Close(ctx) })

	archive := domain.NewArchive("a1", "Sprint 12", domain.Summary{
		Rows: []domain.ChartRow{
			{Name: "Alpha", Hours: 8, StoryPoints: 1},
			{Name: "Beta", Hours: 4, StoryPoints: 0.5},
		},
		TotalHours: 12,
	}, time.Now())

	if err := e.ExportArchive(ctx, archive); err != nil {
		t.Fatalf("ExportArchive failed: %v", err)
	}

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatalf("Collect failed: %v", err)
	}

	found := map[string]metricdata.Aggregation{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			found[m.Name] = m.Data
		}
	}

	hours, ok := found["sprintsheet_project_hours_total"].(metricdata.Sum[float64])
	if !ok {
		t.Fatalf("expected float64 sum for hours, got %T", found["sprintsheet_project_hours_total"])
	}
	var total float64
	for _, dp := range hours.DataPoints {
		total += dp.Value
	}
	if len(hours.DataPoints) != 2 || total != 12 {
		t.Errorf("expected 2 hour points totalling 12, got %d totalling %v", len(hours.DataPoints), total)
	}

	sprints, ok := found["sprintsheet_sprints_archived_total"].(metricdata.Sum[int64])
	if !ok || len(sprints.DataPoints) != 1 || sprints.DataPoints[0].Value != 1 {
		t.Errorf("expected one archived sprint, got %+v", found["sprintsheet_sprints_archived_total"])
	}
}

func TestNoOpExporter(t *testing.T) {
	e := NewNoOpExporter()
	if err := e.ExportArchive(context.Background(), &domain.Archive{}); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
	if err := e.Close(context.Background()); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
}
