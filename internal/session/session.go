// Package session runs a configured load against a worker pool and
// checks that every accepted item was delivered exactly once.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/randomizedcoder/boundedqueue/internal/cancel"
	"github.com/randomizedcoder/boundedqueue/internal/config"
	"github.com/randomizedcoder/boundedqueue/internal/pool"
	"github.com/randomizedcoder/boundedqueue/internal/tick"
)

// ErrLost is returned when accepted items were neither run nor
// discarded, or were run more than once.
var ErrLost = errors.New("session: delivery mismatch")

// progressEvery is how many items a producer submits between clock reads
// for its progress log.
const progressEvery = 256

type Result struct {
	Produced   uint64
	Delivered  uint64
	Duplicates uint64
	Stopped    bool
	Elapsed    time.Duration
	Pool       pool.Stats
}

func (r Result) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Uint64("produced", r.Produced),
		slog.Uint64("delivered", r.Delivered),
		slog.Uint64("duplicates", r.Duplicates),
		slog.Bool("stopped", r.Stopped),
		slog.Duration("elapsed", r.Elapsed),
		slog.Any("pool", r.Pool),
	)
}

// Run starts cfg.Pool.Workers workers and cfg.Load.Producers producers,
// each submitting cfg.Load.Items tasks. Cancelling ctx stops the
// producers and discards queued work.
func Run(ctx context.Context, cfg *config.Config, log *slog.Logger) (Result, error) {
	ticker, err := cfg.Pool.NewStatsTicker()
	if err != nil {
		return Result{}, err
	}

	p, err := pool.New(
		pool.WithWorkers(cfg.Pool.Workers),
		pool.WithCapacity(cfg.Queue.Capacity),
		pool.WithLogger(log),
		pool.WithStatsTicker(ticker),
	)
	if err != nil {
		return Result{}, err
	}

	// The pool gets its own context so a cancelled session can still be
	// told apart from an error inside it.
	if err := p.Start(context.Background()); err != nil {
		return Result{}, err
	}

	stop := cancel.NewAtomic()
	unhook := context.AfterFunc(ctx, func() {
		log.Info("stopping session")
		stop.Cancel()
		p.Stop()
	})
	defer unhook()

	items := cfg.Load.Items
	delivered := make([]atomic.Uint32, cfg.Load.Producers*items)
	var produced atomic.Uint64

	start := time.Now()
	var g errgroup.Group
	for i := 0; i < cfg.Load.Producers; i++ {
		id := i
		g.Go(func() error {
			return produce(p, stop, log.With("producer", id), id, items, cfg.Load.Work, delivered, &produced)
		})
	}

	prodErr := g.Wait()
	closeErr := p.Close()
	elapsed := time.Since(start)

	res := Result{
		Produced: produced.Load(),
		Stopped:  stop.Done(),
		Elapsed:  elapsed,
		Pool:     p.Stats(),
	}
	for i := range delivered {
		switch n := delivered[i].Load(); {
		case n == 1:
			res.Delivered++
		case n > 1:
			res.Delivered++
			res.Duplicates += uint64(n - 1)
		}
	}

	log.Info("session finished", "result", res)

	// Tasks interrupted by a stop report their cancelled context.
	if res.Stopped && errors.Is(closeErr, context.Canceled) {
		closeErr = nil
	}
	if err := errors.Join(prodErr, closeErr); err != nil {
		return res, err
	}
	if err := res.check(); err != nil {
		return res, err
	}
	return res, nil
}

func produce(p *pool.Pool, stop cancel.Canceler, log *slog.Logger, id, items int, work time.Duration, delivered []atomic.Uint32, produced *atomic.Uint64) error {
	progress := tick.NewBatch(time.Second, progressEvery)
	defer progress.Stop()

	for seq := 0; seq < items; seq++ {
		if stop.Done() {
			log.Debug("producer stopped", "submitted", seq)
			return nil
		}

		slot := &delivered[id*items+seq]
		err := p.Submit(func(ctx context.Context) error {
			if work > 0 {
				select {
				case <-time.After(work):
				case <-ctx.Done():
					return ctx.Err()
				}
			}
			slot.Add(1)
			return nil
		})
		if errors.Is(err, pool.ErrClosed) {
			log.Debug("producer saw pool closed", "submitted", seq)
			return nil
		}
		if err != nil {
			return fmt.Errorf("producer %d: %w", id, err)
		}
		produced.Add(1)

		if progress.Tick() {
			log.Debug("producer progress", "submitted", seq+1, "of", items)
		}
	}
	return nil
}

// check verifies delivery accounting. A stopped session may discard
// queued items or cancel running ones, but may never duplicate them.
func (r Result) check() error {
	if r.Duplicates > 0 {
		return fmt.Errorf("%w: %d duplicate deliveries", ErrLost, r.Duplicates)
	}
	accounted := r.Delivered + r.Pool.Discarded + r.Pool.Failed
	if r.Stopped {
		if accounted != r.Produced {
			return fmt.Errorf("%w: produced %d, delivered %d, discarded %d, failed %d",
				ErrLost, r.Produced, r.Delivered, r.Pool.Discarded, r.Pool.Failed)
		}
		return nil
	}
	if r.Delivered != r.Produced {
		return fmt.Errorf("%w: produced %d, delivered %d", ErrLost, r.Produced, r.Delivered)
	}
	return nil
}
