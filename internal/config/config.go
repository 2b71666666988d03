package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	ListenAddr       string `env:"LISTEN_ADDR" envDefault:":8080"`
	PlayersFile      string `env:"PLAYERS_FILE" envDefault:"players.json"`
	ExportDir        string `env:"EXPORT_DIR" envDefault:"."`
	CommissionerName string `env:"COMMISSIONER_NAME" envDefault:"Commissioner"`
	LogLevel         string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load reads .env if present, then the environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
