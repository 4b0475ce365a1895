package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

var errUnknownFormat = errors.New("unknown config format")

type Config struct {
	Run     RunConfig     `toml:"run" yaml:"run"`
	World   WorldConfig   `toml:"world" yaml:"world"`
	Logging LoggingConfig `toml:"logging" yaml:"logging"`
}

type RunConfig struct {
	Duration       time.Duration `toml:"duration" yaml:"duration"`
	Worlds         int           `toml:"worlds" yaml:"worlds"`
	Seed           uint64        `toml:"seed" yaml:"seed"`
	GCPauseMetrics bool          `toml:"gc_pause_metrics" yaml:"gc_pause_metrics"`
}

type WorldConfig struct {
	Entities      int     `toml:"entities" yaml:"entities"`
	SpawnPerFrame int     `toml:"spawn_per_frame" yaml:"spawn_per_frame"`
	ChurnPerFrame int     `toml:"churn_per_frame" yaml:"churn_per_frame"`
	MinLifetime   float64 `toml:"min_lifetime" yaml:"min_lifetime"` // seconds
	MaxLifetime   float64 `toml:"max_lifetime" yaml:"max_lifetime"` // seconds
	CensusEvery   float64 `toml:"census_every" yaml:"census_every"` // seconds
}

type LoggingConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"` // "json" or "console"
}

// Load reads a TOML or YAML config file, chosen by extension, over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := defaults()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		return nil, fmt.Errorf("config %s: %w %q", path, errUnknownFormat, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.Run.Duration <= 0:
		return errors.New("run.duration must be positive")
	case c.Run.Worlds < 1:
		return errors.New("run.worlds must be at least 1")
	case c.World.Entities < 0:
		return errors.New("world.entities must not be negative")
	case c.World.MinLifetime <= 0 || c.World.MaxLifetime < c.World.MinLifetime:
		return errors.New("world lifetimes must satisfy 0 < min_lifetime <= max_lifetime")
	case c.World.CensusEvery <= 0:
		return errors.New("world.census_every must be positive")
	}
	return nil
}

func defaults() *Config {
	return &Config{
		Run: RunConfig{
			Duration: 10 * time.Second,
			Worlds:   1,
			Seed:     1,
		},
		World: WorldConfig{
			Entities:      10000,
			SpawnPerFrame: 20,
			ChurnPerFrame: 50,
			MinLifetime:   1,
			MaxLifetime:   8,
			CensusEvery:   1,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
