package session_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/randomizedcoder/boundedqueue/internal/config"
	"github.com/randomizedcoder/boundedqueue/internal/session"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRun(t *testing.T) {
	testCases := []struct {
		name      string
		capacity  int
		workers   int
		producers int
		items     int
		ticker    string
	}{
		{"single slot", 1, 1, 1, 200, "atomic"},
		{"many producers", 2, 3, 8, 500, "batch"},
		{"wide queue", 256, 4, 4, 2000, "std"},
		{"no items", 4, 2, 2, 0, "atomic"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Queue.Capacity = tc.capacity
			cfg.Pool.Workers = tc.workers
			cfg.Pool.StatsTicker = tc.ticker
			cfg.Pool.StatsInterval = 10 * time.Millisecond
			cfg.Load.Producers = tc.producers
			cfg.Load.Items = tc.items

			res, err := session.Run(context.Background(), cfg, quietLogger())
			if err != nil {
				t.Fatalf("Run() = %v", err)
			}

			want := uint64(tc.producers * tc.items)
			if res.Produced != want || res.Delivered != want {
				t.Errorf("produced %d, delivered %d, want %d", res.Produced, res.Delivered, want)
			}
			if res.Stopped {
				t.Error("expected Stopped = false")
			}
			if res.Pool.Completed != want {
				t.Errorf("expected %d completed, got %d", want, res.Pool.Completed)
			}
		})
	}
}

func TestRun_Cancelled(t *testing.T) {
	cfg := config.Default()
	cfg.Queue.Capacity = 4
	cfg.Pool.Workers = 2
	cfg.Load.Producers = 4
	cfg.Load.Items = 100_000
	cfg.Load.Work = time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	res, err := session.Run(ctx, cfg, quietLogger())
	if err != nil {
		t.Fatalf("Run() = %v", err)
	}
	if !res.Stopped {
		t.Error("expected Stopped = true")
	}
	if res.Produced >= uint64(cfg.Load.Producers*cfg.Load.Items) {
		t.Errorf("expected the stop to cut production short, produced %d", res.Produced)
	}
	if got := res.Delivered + res.Pool.Discarded + res.Pool.Failed; got != res.Produced {
		t.Errorf("delivered+discarded+failed = %d, produced %d", got, res.Produced)
	}
}

func TestRun_BadTicker(t *testing.T) {
	cfg := config.Default()
	cfg.Pool.StatsTicker = "tsc"

	if _, err := session.Run(context.Background(), cfg, quietLogger()); err == nil {
		t.Error("expected error for unknown ticker")
	}
}
