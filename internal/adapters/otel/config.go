package otel

// Config holds OTLP exporter configuration. It is filled from the
// SPRINTSHEET_OTEL_* environment variables.
type Config struct {
	Endpoint string `envconfig:"ENDPOINT"`
	Enabled  bool   `envconfig:"ENABLED" default:"false"`
	Insecure bool   `envconfig:"INSECURE" default:"false"`
}
