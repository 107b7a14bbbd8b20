// Package config loads mpn settings from the environment.
//
// Command-line flags take precedence; the CLI applies them on top of the
// values loaded here.
package config

import (
	"fmt"
	"log/slog"

	"github.com/caarlos0/env/v11"

	"github.com/roach88/mpn/internal/composer"
)

// Config holds the process-wide settings.
type Config struct {
	// DB is the SQLite path for run persistence. Empty disables persistence.
	DB            string        `env:"MPN_DB"`
	Mode          composer.Mode `env:"MPN_MODE"           envDefault:"FULL_ORCHESTRA"`
	Seed          uint64        `env:"MPN_SEED"           envDefault:"1"`
	AIEnabled     bool          `env:"MPN_AI_ENABLED"`
	AITemperature float64       `env:"MPN_AI_TEMPERATURE" envDefault:"0.7"`
	LogLevel      slog.Level    `env:"MPN_LOG_LEVEL"      envDefault:"info"`
}

// Load reads Config from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that env parsing alone cannot.
func (c Config) Validate() error {
	if c.AITemperature < 0 || c.AITemperature > 1 {
		return fmt.Errorf("MPN_AI_TEMPERATURE must be in [0,1], got %g", c.AITemperature)
	}
	if c.Seed == 0 {
		return fmt.Errorf("MPN_SEED must be non-zero")
	}
	return nil
}
