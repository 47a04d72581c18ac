// Package config loads runtime settings from HOMEPOINTS_* environment
// variables.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Port            string        `env:"HOMEPOINTS_PORT" envDefault:"8080"`
	DBPath          string        `env:"HOMEPOINTS_DB_PATH" envDefault:"homepoints.db"`
	LogLevel        string        `env:"HOMEPOINTS_LOG_LEVEL" envDefault:"info"`
	LogFormat       string        `env:"HOMEPOINTS_LOG_FORMAT" envDefault:"text"`
	BonusRulesPath  string        `env:"HOMEPOINTS_BONUS_RULES" envDefault:""`
	CatalogCacheTTL time.Duration `env:"HOMEPOINTS_CATALOG_TTL" envDefault:"1m"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
