package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const envPrefix = "CAMPUS_EVENTS"

type EnvCfg struct {
	DBHost     string `envconfig:"DB_HOST"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER"`
	DBPassword string `envconfig:"DB_PASSWORD"`
	DBName     string `envconfig:"DB_NAME"`

	HTTPAddr  string `envconfig:"HTTP_ADDR" default:":8080"`
	JWTSecret string `envconfig:"JWT_SECRET" required:"true"`
	Store     string `envconfig:"STORE" default:"postgres"`
	Debug     bool   `envconfig:"DEBUG"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
}

// Validate checks settings that depend on each other. The database settings
// are only needed for the postgres store.
func (c EnvCfg) Validate() error {
	switch c.Store {
	case "memory":
		return nil
	case "postgres":
	default:
		return fmt.Errorf("unknown store %q (want postgres or memory)", c.Store)
	}

	var missing []string
	if c.DBHost == "" {
		missing = append(missing, envPrefix+"_DB_HOST")
	}
	if c.DBUser == "" {
		missing = append(missing, envPrefix+"_DB_USER")
	}
	if c.DBName == "" {
		missing = append(missing, envPrefix+"_DB_NAME")
	}
	if len(missing) > 0 {
		return fmt.Errorf("postgres store requires %s", strings.Join(missing, ", "))
	}
	if c.DBPort <= 0 || c.DBPort > 65535 {
		return fmt.Errorf("invalid db port %d", c.DBPort)
	}
	return nil
}

func (c EnvCfg) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func formatConnectionString(cfg EnvCfg) string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
		cfg.DBHost,
		cfg.DBPort,
		cfg.DBUser,
		cfg.DBPassword,
		cfg.DBName,
	)
}

// loadConfig reads an optional .env file and then the environment.
func loadConfig() (EnvCfg, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return EnvCfg{}, fmt.Errorf("load .env: %w", err)
	}

	var cfg EnvCfg
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return EnvCfg{}, err
	}
	return cfg, nil
}
