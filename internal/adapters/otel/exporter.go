package otel

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/emiliopalmerini/sprintsheet/internal/domain"
)

const (
	serviceName    = "sprintsheet"
	serviceVersion = "1.0.0"
)

// ErrDisabled is returned by NewExporter when export is not configured.
var ErrDisabled = errors.New("OTEL exporter is disabled or endpoint not configured")

// Exporter pushes archived sprint metrics to an OTEL Collector.
type Exporter struct {
	provider         *sdkmetric.MeterProvider
	hoursTotal       metric.Float64Counter
	storyPointsTotal metric.Float64Counter
	sprintsTotal     metric.Int64Counter
}

// NewExporter creates an OTLP/gRPC metrics exporter.
func NewExporter(ctx context.Context, cfg Config) (*Exporter, error) {
	if !cfg.Enabled || cfg.Endpoint == "" {
		return nil, ErrDisabled
	}

	opts := []otlpmetricgrpc.Option{
		otlpmetricgrpc.WithEndpoint(cfg.Endpoint),
	}
	if cfg.Insecure {
		opts = append(opts, otlpmetricgrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())))
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}

	exp, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating OTLP exporter: %w", err)
	}

	e, err := newExporter(ctx, sdkmetric.NewPeriodicReader(exp))
	if err != nil {
		return nil, err
	}
	otel.SetMeterProvider(e.provider)
	return e, nil
}

func newExporter(ctx context.Context, reader sdkmetric.Reader) (*Exporter, error) {
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(serviceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(reader),
		sdkmetric.WithResource(res),
	)
	meter := provider.Meter(serviceName)

	hoursTotal, err := meter.Float64Counter(
		"sprintsheet_project_hours_total",
		metric.WithDescription("Hours logged per project in archived sprints"),
		metric.WithUnit("h"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating hours counter: %w", err)
	}

	storyPointsTotal, err := meter.Float64Counter(
		"sprintsheet_project_story_points_total",
		metric.WithDescription("Story points per project in archived sprints"),
		metric.WithUnit("{story_point}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating story points counter: %w", err)
	}

	sprintsTotal, err := meter.Int64Counter(
		"sprintsheet_sprints_archived_total",
		metric.WithDescription("Number of archived sprints"),
		metric.WithUnit("{sprint}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating sprints counter: %w", err)
	}

	return &Exporter{
		provider:         provider,
		hoursTotal:       hoursTotal,
		storyPointsTotal: storyPointsTotal,
		sprintsTotal:     sprintsTotal,
	}, nil
}

// ExportArchive records one data point per chart row and counts the sprint.
func (e *Exporter) ExportArchive(ctx context.Context, archive *domain.Archive) error {
	for _, row := range archive.Rows {
		opt := metric.WithAttributes(
			attribute.String("project", row.Name),
			attribute.String("sprint", archive.Label),
		)
		e.hoursTotal.Add(ctx, row.Hours, opt)
		e.storyPointsTotal.Add(ctx, row.StoryPoints, opt)
	}
	e.sprintsTotal.Add(ctx, 1)
	return nil
}

// Close shuts down the exporter and flushes any pending metrics.
func (e *Exporter) Close(ctx context.Context) error {
	return e.provider.Shutdown(ctx)
}
