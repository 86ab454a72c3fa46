package app

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/specialistvlad/bringup/internal/ament"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW    io.Writer
	logger  *slog.Logger
	config  *Config
	locator ament.Locator
}

// Option customizes an App.
type Option func(*App)

// WithLocator replaces the package locator built from the environment.
func WithLocator(l ament.Locator) Option {
	return func(a *App) { a.locator = l }
}

// NewApp is the constructor for the main application. Rendered output goes
// to outW, logs to logW.
func NewApp(outW, logW io.Writer, cfg *Config, opts ...Option) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	logger.Debug("Logger configured successfully.")

	a := &App{outW: outW, logger: logger, config: cfg}
	for _, opt := range opts {
		opt(a)
	}

	if a.locator == nil {
		loc, err := buildLocator(cfg.Shares)
		if err != nil {
			return nil, err
		}
		a.locator = loc
	}
	return a, nil
}

// buildLocator layers `--share` overrides over the ament index described by
// AMENT_PREFIX_PATH.
func buildLocator(shares []string) (ament.Locator, error) {
	index, err := ament.FromEnv()
	if err != nil {
		return nil, err
	}
	if len(shares) == 0 {
		return index, nil
	}
	static, err := ament.ParseStatic(shares)
	if err != nil {
		return nil, fmt.Errorf("invalid share override: %w", err)
	}
	return ament.Layered(static, index), nil
}
