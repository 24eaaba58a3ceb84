package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	MinStreamRadius = 1
	MaxStreamRadius = 32
)

// Config is the root of the voxel world configuration file.
type Config struct {
	World   WorldConfig   `yaml:"world"`
	Storage StorageConfig `yaml:"storage"`
	Metrics MetricsConfig `yaml:"metrics"`
	Loop    LoopConfig    `yaml:"loop"`
}

type WorldConfig struct {
	Seed int64 `yaml:"seed"`
	// Radius is the streaming radius in chunks.
	Radius int `yaml:"radius"`
	// TickBudget caps chunk load-or-build operations per tick.
	TickBudget int `yaml:"tick_budget"`
	// Workers > 0 moves generation onto a background pool.
	Workers int `yaml:"workers"`
}

type StorageConfig struct {
	// Path enables persistence of edited chunks. Empty disables it.
	Path     string `yaml:"path"`
	InMemory bool   `yaml:"in_memory"`
}

// Enabled reports whether a chunk store should be opened.
func (s StorageConfig) Enabled() bool {
	return s.Path != "" || s.InMemory
}

type MetricsConfig struct {
	// Addr is the listen address of the /metrics endpoint, e.g. ":2112".
	Addr string `yaml:"addr"`
}

type LoopConfig struct {
	TickRateHz int `yaml:"tick_rate_hz"`
	// Ticks is the number of ticks the simulator runs; 0 runs until interrupted.
	Ticks int `yaml:"ticks"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		World: WorldConfig{
			Seed:       1337,
			Radius:     6,
			TickBudget: 1,
		},
		Loop: LoopConfig{
			TickRateHz: 60,
		},
	}
}

// Load reads a YAML file over the defaults. An empty path falls back to the
// VOXEL_CONFIG environment variable; if that is empty too, defaults are returned.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = os.Getenv("VOXEL_CONFIG")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if cfg.Metrics.Addr == "" {
		cfg.Metrics.Addr = os.Getenv("VOXEL_METRICS_ADDR")
	}
	cfg.Clamp()
	return cfg, nil
}

// Clamp forces every value into its supported range.
func (c *Config) Clamp() {
	c.World.Radius = max(MinStreamRadius, min(c.World.Radius, MaxStreamRadius))
	c.World.TickBudget = max(c.World.TickBudget, 1)
	c.World.Workers = max(c.World.Workers, 0)
	if c.Loop.TickRateHz <= 0 {
		c.Loop.TickRateHz = 60
	}
	c.Loop.Ticks = max(c.Loop.Ticks, 0)
}
