// Package config reads runtime settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`

	Story string `env:"STORYSCENE_STORY" envDefault:"intro"`
	// TextSpeed overrides every dialogue's per-character delay, in seconds.
	// Negative means no override.
	TextSpeed float64 `env:"STORYSCENE_TEXT_SPEED" envDefault:"-1"`
	Watch     bool    `env:"STORYSCENE_WATCH" envDefault:"false"`
	PrefabDir string  `env:"STORYSCENE_PREFAB_DIR" envDefault:"prefabs"`
}

// Load reads envFiles (missing files are skipped) and then parses the
// environment. Variables already set are not overwritten by the files.
func Load(envFiles ...string) (Config, error) {
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("config: load %s: %w", f, err)
		}
	}
	return Parse()
}

// Parse reads the configuration from the environment only.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse env: %w", err)
	}
	return cfg, nil
}

// TextSpeedOverride returns the configured override and whether one is set.
func (c Config) TextSpeedOverride() (time.Duration, bool) {
	if c.TextSpeed < 0 {
		return 0, false
	}
	return time.Duration(c.TextSpeed * float64(time.Second)), true
}
