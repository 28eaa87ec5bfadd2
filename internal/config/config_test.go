package config_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/randomizedcoder/boundedqueue/internal/config"
	"github.com/randomizedcoder/boundedqueue/internal/tick"
)

const sample = `
queue:
  capacity: 16
pool:
  workers: 8
  stats_interval: 250ms
  stats_ticker: batch
load:
  producers: 2
  items: 500
  work: 1ms
log:
  level: debug
  format: json
`

func TestParse(t *testing.T) {
	c, err := config.Parse([]byte(sample))
	if err != nil {
		t.Fatal(err)
	}

	if c.Queue.Capacity != 16 {
		t.Errorf("expected capacity 16, got %d", c.Queue.Capacity)
	}
	if c.Pool.Workers != 8 || c.Pool.StatsInterval != 250*time.Millisecond || c.Pool.StatsTicker != "batch" {
		t.Errorf("unexpected pool config: %+v", c.Pool)
	}
	if c.Load.Producers != 2 || c.Load.Items != 500 || c.Load.Work != time.Millisecond {
		t.Errorf("unexpected load config: %+v", c.Load)
	}
	if c.Log.Level != "debug" || c.Log.Format != "json" {
		t.Errorf("unexpected log config: %+v", c.Log)
	}
}

func TestParse_EmptyUsesDefaults(t *testing.T) {
	c, err := config.Parse(nil)
	if err != nil {
		t.Fatal(err)
	}
	if *c != *config.Default() {
		t.Errorf("expected defaults, got %+v", c)
	}
}

func TestParse_PartialKeepsDefaults(t *testing.T) {
	c, err := config.Parse([]byte("queue:\n  capacity: 3\n"))
	if err != nil {
		t.Fatal(err)
	}
	if c.Queue.Capacity != 3 {
		t.Errorf("expected capacity 3, got %d", c.Queue.Capacity)
	}
	if c.Pool.Workers != config.Default().Pool.Workers {
		t.Errorf("expected default workers, got %d", c.Pool.Workers)
	}
}

func TestParse_Invalid(t *testing.T) {
	testCases := []struct {
		name string
		yaml string
		want string
	}{
		{"zero capacity", "queue:\n  capacity: 0\n", "queue.capacity"},
		{"negative workers", "pool:\n  workers: -1\n", "pool.workers"},
		{"bad ticker", "pool:\n  stats_ticker: tsc\n", "pool.stats_ticker"},
		{"no producers", "load:\n  producers: 0\n", "load.producers"},
		{"bad level", "log:\n  level: loud\n", "log.level"},
		{"bad format", "log:\n  format: xml\n", "log.format"},
		{"unknown key", "queue:\n  size: 4\n", "size"},
		{"bad duration", "pool:\n  stats_interval: soon\n", "soon"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := config.Parse([]byte(tc.yaml))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("expected error mentioning %q, got %v", tc.want, err)
			}
		})
	}
}

func TestParse_BadTickerWrapsSentinel(t *testing.T) {
	_, err := config.Parse([]byte("pool:\n  stats_ticker: tsc\n"))
	if !errors.Is(err, tick.ErrUnknownKind) {
		t.Errorf("expected ErrUnknownKind, got %v", err)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.yaml")
	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := config.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if c.Queue.Capacity != 16 {
		t.Errorf("expected capacity 16, got %d", c.Queue.Capacity)
	}

	if _, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected ErrNotExist, got %v", err)
	}
}

func TestNewStatsTicker(t *testing.T) {
	c := config.Default()

	c.Pool.StatsInterval = 0
	ticker, err := c.Pool.NewStatsTicker()
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := ticker.(tick.Never); !ok {
		t.Errorf("expected tick.Never for zero interval, got %T", ticker)
	}

	c.Pool.StatsInterval = time.Second
	c.Pool.StatsTicker = "std"
	ticker, err = c.Pool.NewStatsTicker()
	if err != nil {
		t.Fatal(err)
	}
	defer ticker.Stop()
	if _, ok := ticker.(*tick.StdTicker); !ok {
		t.Errorf("expected *tick.StdTicker, got %T", ticker)
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	lc := config.LogConfig{Level: "warn", Format: "json"}
	log := lc.NewLogger(&buf)

	log.Info("hidden")
	log.Warn("shown", "k", 1)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info record written at warn level")
	}
	if !strings.Contains(out, `"msg":"shown"`) || !strings.Contains(out, `"k":1`) {
		t.Errorf("unexpected json output: %s", out)
	}
}
