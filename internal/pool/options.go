package pool

import (
	"fmt"
	"log/slog"
	"runtime"

	"github.com/randomizedcoder/boundedqueue/internal/tick"
)

type options struct {
	workers  int
	capacity int
	failFast bool
	logger   *slog.Logger
	ticker   tick.Ticker
}

func defaultOptions() options {
	return options{
		workers: runtime.NumCPU(),
		logger:  slog.Default(),
		ticker:  tick.Never{},
	}
}

func (o *options) validate() error {
	if o.workers <= 0 {
		return fmt.Errorf("pool: workers must be positive, got %d", o.workers)
	}
	if o.capacity == 0 {
		o.capacity = 4 * o.workers
	}
	if o.capacity < 0 {
		return fmt.Errorf("pool: capacity must be positive, got %d", o.capacity)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.ticker == nil {
		o.ticker = tick.Never{}
	}
	return nil
}

type Option func(*options)

// WithWorkers sets the number of worker goroutines. Defaults to
// runtime.NumCPU().
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

// WithCapacity sets how many tasks may wait in the queue. Defaults to
// four per worker.
func WithCapacity(n int) Option {
	return func(o *options) { o.capacity = n }
}

func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithStatsTicker makes workers log pool statistics each time t ticks.
// The pool stops t on Close.
func WithStatsTicker(t tick.Ticker) Option {
	return func(o *options) { o.ticker = t }
}

// WithFailFast makes the first failing task stop the pool, as if Stop
// had been called. Close then returns that task's error.
func WithFailFast() Option {
	return func(o *options) { o.failFast = true }
}
