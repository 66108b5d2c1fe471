package config

import (
	"log/slog"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/rotisserie/eris"
)

type Config struct {
	Port              string        `envconfig:"PORT" default:"8080"`
	LogLevel          string        `envconfig:"LOG_LEVEL" default:"info"`
	WeekStart         string        `envconfig:"WEEK_START" default:"monday"`
	ReadHeaderTimeout time.Duration `envconfig:"READ_HEADER_TIMEOUT" default:"10s"`
	MaxUploadBytes    int64         `envconfig:"MAX_UPLOAD_BYTES" default:"33554432"`
}

// Load reads configuration from AGENCYPULSE_* environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("agencypulse", &cfg); err != nil {
		return Config{}, eris.Wrap(err, "config: process env")
	}
	if cfg.SlogLevel() == slog.LevelInfo && !levelKnown(cfg.LogLevel) {
		return Config{}, eris.Errorf("config: unknown log level %q", cfg.LogLevel)
	}
	return cfg, nil
}

func levelKnown(s string) bool {
	switch strings.ToLower(s) {
	case "debug", "info", "warn", "error":
		return true
	}
	return false
}

func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// WeekStartDay maps the configured week start onto a weekday. Anything but
// "sunday" means Monday.
func (c Config) WeekStartDay() time.Weekday {
	if strings.EqualFold(c.WeekStart, "sunday") {
		return time.Sunday
	}
	return time.Monday
}
