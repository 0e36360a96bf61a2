// Package config reads process configuration from the environment.
// A .env file in the working directory is loaded first when present.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the full set of knobs for play and serve.
type Config struct {
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile  string `env:"LOG_FILE"`

	Categories string        `env:"WHATWORD_CATEGORIES"`
	Seconds    int           `env:"WHATWORD_SECONDS" envDefault:"5"`
	Pulse      time.Duration `env:"WHATWORD_PULSE" envDefault:"1s"`

	Port         string        `env:"PORT" envDefault:"5175"`
	DBPath       string        `env:"DB_PATH" envDefault:"./data/whatword.db"`
	JWTSecret    string        `env:"JWT_SECRET" envDefault:"dev_secret_change_me"`
	TokenTTL     time.Duration `env:"TOKEN_TTL" envDefault:"12h"`
	ClientOrigin string        `env:"CLIENT_ORIGIN" envDefault:"http://localhost:5173"`
	DailySalt    string        `env:"DAILY_SALT" envDefault:"local_dev_salt"`
}

// Load reads .env (if any) and parses the environment into a Config.
func Load() (Config, error) {
	_ = godotenv.Load()
	return Parse()
}

// Parse reads the environment without touching .env.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.Pulse <= 0 {
		return Config{}, fmt.Errorf("parse env: WHATWORD_PULSE must be positive, got %s", cfg.Pulse)
	}
	return cfg, nil
}
