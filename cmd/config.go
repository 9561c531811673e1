package main

import (
	"errors"
	"fmt"
	"github.com/dzfranklin/bikeshare"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"log/slog"
	"os"
)

const envPrefix = "BIKESHARE"

// Config is read from BIKESHARE_* environment variables, optionally seeded
// from a .env file. Command line flags override it.
type Config struct {
	DataDir  string `envconfig:"DATA_DIR" default:"." validate:"required"`
	Source   string `envconfig:"SOURCE" default:"csv" validate:"oneof=csv sqlite"`
	DB       string `envconfig:"DB" default:"bikeshare.db" validate:"required"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"warn" validate:"oneof=debug info warn error"`
	PageSize int    `envconfig:"PAGE_SIZE" default:"5" validate:"min=1,max=100"`
}

// loadConfig loads envFile if it exists, then the environment. Variables
// already set in the environment win over the file.
func loadConfig(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	var cfg Config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("load config from env: %w", err)
	}
	return &cfg, nil
}

var configValidator = validator.New(validator.WithRequiredStructEnabled())

func (c *Config) validate() error {
	if err := configValidator.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func (c *Config) source() bikeshare.Source {
	if c.Source == "sqlite" {
		return bikeshare.SQLiteSource{Path: c.DB}
	}
	return bikeshare.CSVSource{Dir: c.DataDir}
}

func (c *Config) logLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelWarn
	}
	return level
}
