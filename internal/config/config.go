// Package config loads the server configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"

	env "github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Port          int    `env:"PORT" envDefault:"8080"`
	DBPath        string `env:"DB_PATH" envDefault:"./data/ledger.db"`
	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`
	LedgerWorkers int    `env:"LEDGER_WORKERS" envDefault:"4"`
}

// Load reads an optional .env file from the working directory, then parses
// the environment. Variables already set take precedence over the file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	return Parse()
}

// Parse reads the configuration from the environment only.
func Parse() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("config.Parse: %w", err)
	}
	if cfg.LedgerWorkers < 1 {
		return nil, fmt.Errorf("config.Parse: LEDGER_WORKERS must be positive, got %d", cfg.LedgerWorkers)
	}
	return &cfg, nil
}
