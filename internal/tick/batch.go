package tick

import (
	"sync/atomic"
	"time"
)

// BatchTicker checks the time only every N calls to Tick().
//
// Useful when a loop spins through items far faster than the interval
// and sub-interval precision does not matter. With every=1000 and
// interval=1s the clock is read once per 1000 calls, and a tick fires
// on the first of those reads that is at least 1s after the last tick.
type BatchTicker struct {
	clock *AtomicTicker
	every uint64
	count atomic.Uint64
}

// NewBatch creates a BatchTicker that checks time every N operations.
//
// Parameters:
//   - interval: How often ticks should fire (wall clock time)
//   - every: Check the clock only every N calls to Tick()
func NewBatch(interval time.Duration, every int) *BatchTicker {
	if every < 1 {
		every = 1
	}
	return &BatchTicker{
		clock: NewAtomicTicker(interval),
		every: uint64(every),
	}
}

// Tick returns true if the interval has elapsed.
//
// Calls that are not a multiple of Every() return false without
// reading the clock.
func (b *BatchTicker) Tick() bool {
	if b.count.Add(1)%b.every != 0 {
		return false
	}
	return b.clock.Tick()
}

// Reset clears the call count and starts a new interval from now.
func (b *BatchTicker) Reset() {
	b.count.Store(0)
	b.clock.Reset()
}

// Stop is a no-op for BatchTicker (no resources to release).
func (b *BatchTicker) Stop() {}

// Every returns the batch size.
func (b *BatchTicker) Every() int {
	return int(b.every)
}

// Interval returns the ticker's interval.
func (b *BatchTicker) Interval() time.Duration {
	return b.clock.Interval()
}
