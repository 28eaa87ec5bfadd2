// Package pool runs submitted tasks on a fixed set of worker
// goroutines fed by a bounded blocking queue.
//
// Submit blocks while the queue is full, which applies backpressure to
// producers. Close stops accepting work and waits for the workers to
// drain what is queued; Stop does the same but discards queued tasks
// instead of running them.
package pool

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/randomizedcoder/boundedqueue/internal/cancel"
	"github.com/randomizedcoder/boundedqueue/internal/queue"
	"github.com/randomizedcoder/boundedqueue/internal/tick"
)

var (
	// ErrClosed is returned when submitting to a pool that is closing.
	ErrClosed = errors.New("pool: closed")

	// ErrDiscarded is reported to futures whose task was dropped by Stop.
	ErrDiscarded = errors.New("pool: task discarded")

	// ErrTaskPanic wraps the value recovered from a panicking task.
	ErrTaskPanic = errors.New("pool: task panicked")
)

// Task is a unit of work. ctx is cancelled when the pool is stopped.
type Task func(ctx context.Context) error

type job struct {
	task Task
	done func(error) // optional
}

func (j job) finish(err error) {
	if j.done != nil {
		j.done(err)
	}
}

// Stats counts tasks by outcome. Submitted equals Completed + Failed +
// Discarded + the number still queued or running.
type Stats struct {
	Workers   int
	Submitted uint64
	Completed uint64
	Failed    uint64
	Discarded uint64
	Queue     queue.Stats
}

// LogValue groups the stats for structured logging.
func (s Stats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("workers", s.Workers),
		slog.Uint64("submitted", s.Submitted),
		slog.Uint64("completed", s.Completed),
		slog.Uint64("failed", s.Failed),
		slog.Uint64("discarded", s.Discarded),
		slog.Group("queue",
			slog.Int("len", s.Queue.Len),
			slog.Int("cap", s.Queue.Cap),
			slog.String("state", s.Queue.State.String()),
			slog.Int("push_waiters", s.Queue.PushWaiters),
			slog.Int("pop_waiters", s.Queue.PopWaiters),
		),
	)
}

type Pool struct {
	workers  int
	failFast bool
	log      *slog.Logger
	ticker   tick.Ticker
	queue    *queue.BlockingQueue[job]

	// Held shared by submitters for the duration of the push. shutdown
	// takes it exclusively once, after Abort, as a barrier.
	submitMu sync.RWMutex

	mu      sync.Mutex
	started bool
	stop    *cancel.ContextCanceler
	group   *errgroup.Group

	closeOnce sync.Once
	closeErr  error

	errOnce  sync.Once
	firstErr error

	submitted atomic.Uint64
	completed atomic.Uint64
	failed    atomic.Uint64
	discarded atomic.Uint64
}

// New creates a pool. Workers are not started until Start.
func New(opts ...Option) (*Pool, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.validate(); err != nil {
		return nil, err
	}

	return &Pool{
		workers:  o.workers,
		failFast: o.failFast,
		log:      o.logger,
		ticker:   o.ticker,
		queue:    queue.New[job](o.capacity),
	}, nil
}

// Start launches the workers. Cancelling ctx has the same effect as
// Stop: queued tasks are discarded and running tasks see their context
// cancelled.
func (p *Pool) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.queue.Aborted() {
		return ErrClosed
	}
	if p.started {
		return errors.New("pool: already started")
	}
	p.started = true

	g, gctx := errgroup.WithContext(ctx)
	p.group = g
	p.stop = cancel.NewContext(gctx)
	context.AfterFunc(p.stop.Context(), p.queue.Abort)

	for i := 0; i < p.workers; i++ {
		id := i
		g.Go(func() error {
			return p.work(id)
		})
	}

	p.log.Debug("pool started", "workers", p.workers, "capacity", p.queue.Cap())
	return nil
}

// Submit queues task, blocking while the queue is full. It returns
// ErrClosed once Close or Stop has been called.
func (p *Pool) Submit(task Task) error {
	if task == nil {
		return errors.New("pool: nil task")
	}
	return p.submit(job{task: task})
}

// SubmitContext is Submit with a bound on how long to wait for space.
func (p *Pool) SubmitContext(ctx context.Context, task Task) error {
	if task == nil {
		return errors.New("pool: nil task")
	}
	p.submitMu.RLock()
	defer p.submitMu.RUnlock()

	err := p.queue.PushContext(ctx, job{task: task})
	if errors.Is(err, queue.ErrAborted) {
		return ErrClosed
	}
	if err != nil {
		return err
	}
	p.submitted.Add(1)
	return nil
}

func (p *Pool) submit(j job) error {
	p.submitMu.RLock()
	defer p.submitMu.RUnlock()

	if !p.queue.Push(j) {
		return ErrClosed
	}
	p.submitted.Add(1)
	return nil
}

func (p *Pool) work(id int) error {
	log := p.log.With("worker", id)
	var failErr error

	for {
		j, ok := p.queue.Pop()
		if !ok {
			log.Debug("worker done")
			return failErr
		}

		if p.stop.Done() {
			p.discarded.Add(1)
			j.finish(ErrDiscarded)
			continue
		}

		if err := p.run(j); err != nil {
			p.failed.Add(1)
			p.recordErr(err)
			log.Debug("task failed", "err", err)

			if p.failFast && failErr == nil {
				failErr = err
				p.stop.Cancel()
				p.queue.Abort()
			}
		} else {
			p.completed.Add(1)
		}

		if p.ticker.Tick() {
			p.log.Info("pool stats", "stats", p.Stats())
		}
	}
}

func (p *Pool) run(j job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrTaskPanic, r)
		}
		j.finish(err)
	}()
	return j.task(p.stop.Context())
}

func (p *Pool) recordErr(err error) {
	p.errOnce.Do(func() {
		p.firstErr = err
	})
}

// Close stops accepting tasks, waits for the workers to run everything
// already queued, and releases the queue. It returns the first task
// error, if any. Calling Close again returns the same result.
func (p *Pool) Close() error {
	p.closeOnce.Do(func() {
		p.closeErr = p.shutdown()
	})
	return p.closeErr
}

// Stop is Close without running queued tasks: they are discarded, and
// running tasks see their context cancelled.
func (p *Pool) Stop() error {
	p.mu.Lock()
	if p.stop != nil {
		p.stop.Cancel()
	}
	p.mu.Unlock()
	p.queue.Abort()

	return p.Close()
}

func (p *Pool) shutdown() error {
	p.queue.Abort()

	// Blocked submitters were woken by Abort; wait for them to leave.
	// Later submitters fail without waiting, so no one can be blocked
	// in the queue by the time it is released.
	p.submitMu.Lock()
	p.submitMu.Unlock() //nolint:staticcheck

	p.mu.Lock()
	started, g, stop := p.started, p.group, p.stop
	p.started = true // a closed pool cannot be started
	p.mu.Unlock()

	var err error
	if started && g != nil {
		err = g.Wait()
		stop.Cancel()
	}

	// Tasks left behind when no worker ever ran.
	for {
		j, ok := p.queue.TryPop()
		if !ok {
			break
		}
		p.discarded.Add(1)
		j.finish(ErrDiscarded)
	}
	p.queue.Release()
	p.ticker.Stop()

	p.log.Info("pool closed", "stats", p.Stats())

	if err != nil {
		return err
	}
	return p.firstErr
}

// Stats returns current counters. They are advisory only.
func (p *Pool) Stats() Stats {
	return Stats{
		Workers:   p.workers,
		Submitted: p.submitted.Load(),
		Completed: p.completed.Load(),
		Failed:    p.failed.Load(),
		Discarded: p.discarded.Load(),
		Queue:     p.queue.Stats(),
	}
}

func (p *Pool) Workers() int {
	return p.workers
}
