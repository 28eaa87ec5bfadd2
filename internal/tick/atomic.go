package tick

import (
	"sync/atomic"
	"time"
)

// AtomicTicker compares a monotonic timestamp against the last tick.
//
// Tick() costs one clock read and one atomic load; a compare-and-swap
// makes sure concurrent callers cannot both claim the same interval.
type AtomicTicker struct {
	epoch    time.Time
	interval int64 // nanoseconds
	lastTick atomic.Int64
}

// NewAtomicTicker creates an AtomicTicker with the specified interval.
func NewAtomicTicker(interval time.Duration) *AtomicTicker {
	return &AtomicTicker{
		epoch:    time.Now(),
		interval: int64(interval),
	}
}

// now returns nanoseconds since the ticker was created, on the
// monotonic clock.
func (a *AtomicTicker) now() int64 {
	return int64(time.Since(a.epoch))
}

// Tick returns true if the interval has elapsed since the last tick.
func (a *AtomicTicker) Tick() bool {
	now := a.now()
	last := a.lastTick.Load()

	if now-last >= a.interval {
		return a.lastTick.CompareAndSwap(last, now)
	}
	return false
}

// Reset starts a new interval from now.
func (a *AtomicTicker) Reset() {
	a.lastTick.Store(a.now())
}

// Stop is a no-op for AtomicTicker (no resources to release).
func (a *AtomicTicker) Stop() {}

// Interval returns the ticker's interval.
func (a *AtomicTicker) Interval() time.Duration {
	return time.Duration(a.interval)
}
