// Package config loads sprintsheet settings from SPRINTSHEET_* environment variables.
package config

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/emiliopalmerini/sprintsheet/internal/adapters/otel"
	"github.com/emiliopalmerini/sprintsheet/internal/domain"
	"github.com/emiliopalmerini/sprintsheet/internal/util"
)

const Prefix = "SPRINTSHEET"

// Storage backends.
const (
	StorageLibSQL = "libsql"
	StorageFile   = "file"
	StorageNone   = "none"
)

// Database holds libsql connection settings.
type Database struct {
	URL       string `envconfig:"DATABASE_URL"`
	AuthToken string `envconfig:"AUTH_TOKEN"`
}

type Config struct {
	Database
	OTel otel.Config `envconfig:"OTEL"`

	Storage    string `envconfig:"STORAGE" default:"libsql"`
	DataDir    string `envconfig:"DATA_DIR"`
	ChartOrder string `envconfig:"CHART_ORDER" default:"hours"`
	SplitMode  string `envconfig:"SPLIT_MODE" default:"half"`
	LogLevel   string `envconfig:"LOG_LEVEL" default:"info"`

	Port            int           `envconfig:"PORT" default:"8080"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

// Load reads the environment and fills in path defaults.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() error {
	if c.DataDir == "" {
		dir, err := util.GetXDGDataDir()
		if err != nil {
			return err
		}
		c.DataDir = dir
	}
	if c.Database.URL == "" {
		c.Database.URL = "file:" + filepath.Join(c.DataDir, "sprintsheet.db")
	}
	return nil
}

// Validate checks the enumerated settings.
func (c *Config) Validate() error {
	switch c.Storage {
	case StorageLibSQL, StorageFile, StorageNone:
	default:
		return fmt.Errorf("invalid %s_STORAGE %q: want libsql, file or none", Prefix, c.Storage)
	}
	if _, err := c.SummaryOptions(); err != nil {
		return err
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// SummaryOptions converts the chart settings into domain options.
func (c *Config) SummaryOptions() (domain.SummaryOptions, error) {
	order, err := domain.ParseChartOrder(c.ChartOrder)
	if err != nil {
		return domain.SummaryOptions{}, err
	}
	split, err := domain.ParseSplitMode(c.SplitMode)
	if err != nil {
		return domain.SummaryOptions{}, err
	}
	return domain.SummaryOptions{Order: order, Split: split}, nil
}

// ParseLevel maps debug, info, warn and error to slog levels.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid %s_LOG_LEVEL %q: %w", Prefix, s, err)
	}
	return level, nil
}
