// Package config loads the YAML description of a producer/pool session.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/randomizedcoder/boundedqueue/internal/tick"
)

type Config struct {
	Queue QueueConfig `yaml:"queue"`
	Pool  PoolConfig  `yaml:"pool"`
	Load  LoadConfig  `yaml:"load"`
	Log   LogConfig   `yaml:"log"`
}

type QueueConfig struct {
	Capacity int `yaml:"capacity"`
}

type PoolConfig struct {
	Workers       int           `yaml:"workers"`
	StatsInterval time.Duration `yaml:"stats_interval"`
	StatsTicker   string        `yaml:"stats_ticker"`
}

// LoadConfig describes the synthetic producers driving the pool.
type LoadConfig struct {
	Producers int           `yaml:"producers"`
	Items     int           `yaml:"items"`
	Work      time.Duration `yaml:"work"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Default() *Config {
	return &Config{
		Queue: QueueConfig{Capacity: 64},
		Pool: PoolConfig{
			Workers:       4,
			StatsInterval: time.Second,
			StatsTicker:   string(tick.KindAtomic),
		},
		Load: LoadConfig{
			Producers: 4,
			Items:     10_000,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads and validates the config file at path.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	c, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}

	return c, nil
}

// Parse decodes b over Default() and validates the result. Keys not
// known to Config are rejected.
func Parse(b []byte) (*Config, error) {
	c := Default()

	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Config) Validate() error {
	if c.Queue.Capacity <= 0 {
		return fmt.Errorf("queue.capacity must be positive, got %d", c.Queue.Capacity)
	}
	if c.Pool.Workers <= 0 {
		return fmt.Errorf("pool.workers must be positive, got %d", c.Pool.Workers)
	}
	if c.Pool.StatsInterval < 0 {
		return fmt.Errorf("pool.stats_interval must not be negative, got %v", c.Pool.StatsInterval)
	}
	if _, err := tick.ParseKind(c.Pool.StatsTicker); err != nil {
		return fmt.Errorf("pool.stats_ticker: %w", err)
	}
	if c.Load.Producers <= 0 {
		return fmt.Errorf("load.producers must be positive, got %d", c.Load.Producers)
	}
	if c.Load.Items < 0 {
		return fmt.Errorf("load.items must not be negative, got %d", c.Load.Items)
	}
	if _, err := c.Log.level(); err != nil {
		return err
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}

// NewStatsTicker builds the ticker the pool polls for periodic stats.
// A zero interval disables periodic stats.
func (c *PoolConfig) NewStatsTicker() (tick.Ticker, error) {
	if c.StatsInterval == 0 {
		return tick.Never{}, nil
	}
	kind, err := tick.ParseKind(c.StatsTicker)
	if err != nil {
		return nil, err
	}
	return tick.New(kind, c.StatsInterval)
}

func (c *LogConfig) level() (slog.Level, error) {
	var l slog.Level
	if c.Level == "" {
		return slog.LevelInfo, nil
	}
	if err := l.UnmarshalText([]byte(c.Level)); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return l, nil
}

// NewLogger builds a slog.Logger writing to w in the configured format
// and level.
func (c *LogConfig) NewLogger(w io.Writer) *slog.Logger {
	level, err := c.level()
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	if c.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
