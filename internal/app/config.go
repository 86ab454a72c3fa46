package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/specialistvlad/bringup/internal/publish"
	"github.com/specialistvlad/bringup/internal/render"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ConfigPath string            // optional HCL file overlaying the built-in session
	Overrides  map[string]string // launch argument overrides, e.g. world=office
	Shares     []string          // name=dir share directory overrides

	Format     render.Format
	Draft      bool // keep substitutions instead of finalizing
	ShowArgs   bool
	OutputPath string // empty writes to the App's output writer

	LogFormat string
	LogLevel  string

	// Publish is nil when publishing is disabled.
	Publish *publish.Options
}

// NewConfig validates cfg and fills defaults.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.Format == "" {
		cfg.Format = render.FormatYAML
	}
	if _, err := render.ParseFormat(string(cfg.Format)); err != nil {
		return nil, err
	}
	switch cfg.LogLevel {
	case "":
		cfg.LogLevel = "info"
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("invalid log-level '%s': must be 'debug', 'info', 'warn', or 'error'", cfg.LogLevel)
	}
	switch cfg.LogFormat {
	case "":
		cfg.LogFormat = "text"
	case "text", "json":
	default:
		return nil, fmt.Errorf("invalid log-format '%s': must be 'text' or 'json'", cfg.LogFormat)
	}
	if cfg.Publish != nil && cfg.Publish.URL == "" {
		return nil, errors.New("publish requires a URL")
	}
	if cfg.Overrides == nil {
		cfg.Overrides = map[string]string{}
	}
	return &cfg, nil
}

// EnvDefaults are the environment variables that seed CLI flag defaults.
type EnvDefaults struct {
	ConfigPath     string        `env:"BRINGUP_CONFIG"`
	LogLevel       string        `env:"BRINGUP_LOG_LEVEL" envDefault:"info"`
	LogFormat      string        `env:"BRINGUP_LOG_FORMAT" envDefault:"text"`
	PublishURL     string        `env:"BRINGUP_PUBLISH_URL"`
	PublishTimeout time.Duration `env:"BRINGUP_PUBLISH_TIMEOUT" envDefault:"10s"`
}

// LoadEnvDefaults parses EnvDefaults from the process environment.
func LoadEnvDefaults() (EnvDefaults, error) {
	var d EnvDefaults
	if err := env.Parse(&d); err != nil {
		return EnvDefaults{}, fmt.Errorf("parse env: %w", err)
	}
	return d, nil
}
