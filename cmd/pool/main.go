// Command pool runs a producer/worker-pool session described by a YAML
// file and verifies that every submitted item was delivered once.
//
// Interrupting the command (Ctrl-C) stops the producers and discards
// queued work; the delivery check still runs.
//
// Usage:
//
//	go run ./cmd/pool -config session.yaml -workers 8
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/randomizedcoder/boundedqueue/internal/config"
	"github.com/randomizedcoder/boundedqueue/internal/session"
)

func main() {
	configPath := flag.String("config", "", "path to session YAML (defaults are used when empty)")
	workers := flag.Int("workers", 0, "override pool.workers")
	capacity := flag.Int("capacity", 0, "override queue.capacity")
	producers := flag.Int("producers", 0, "override load.producers")
	items := flag.Int("n", -1, "override load.items")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(2)
		}
	}

	if *workers > 0 {
		cfg.Pool.Workers = *workers
	}
	if *capacity > 0 {
		cfg.Queue.Capacity = *capacity
	}
	if *producers > 0 {
		cfg.Load.Producers = *producers
	}
	if *items >= 0 {
		cfg.Load.Items = *items
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}

	log := cfg.Log.NewLogger(os.Stderr)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	log.Info("starting session",
		"capacity", cfg.Queue.Capacity,
		"workers", cfg.Pool.Workers,
		"producers", cfg.Load.Producers,
		"items", cfg.Load.Items,
	)

	res, err := session.Run(ctx, cfg, log)
	if err != nil {
		log.Error("session failed", "err", err)
		os.Exit(1)
	}

	perItem := 0.0
	if res.Delivered > 0 {
		perItem = float64(res.Elapsed.Nanoseconds()) / float64(res.Delivered)
	}

	fmt.Printf("\nResults:\n")
	fmt.Println("─────────────────────────────────────────────────")
	fmt.Printf("  Produced:   %d\n", res.Produced)
	fmt.Printf("  Delivered:  %d\n", res.Delivered)
	fmt.Printf("  Discarded:  %d\n", res.Pool.Discarded)
	fmt.Printf("  Failed:     %d\n", res.Pool.Failed)
	fmt.Printf("  Elapsed:    %v (%.2f ns/item)\n", res.Elapsed, perItem)
	if res.Stopped {
		fmt.Println("  Session was interrupted")
	}
}
