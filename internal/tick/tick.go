// Package tick provides periodic triggers for hot loops.
//
// A Ticker is polled, not waited on: a worker calls Tick() once per
// iteration and does its periodic work (logging queue statistics, for
// instance) when it returns true.
//
//   - StdTicker: wraps time.Ticker
//   - AtomicTicker: compares a monotonic timestamp with CAS
//   - BatchTicker: reads the clock only every N calls
//
// All implementations are safe for concurrent use. When several
// goroutines share one ticker, each elapsed interval is reported to
// exactly one of them.
package tick

import (
	"errors"
	"fmt"
	"time"
)

// Ticker signals when a time interval has elapsed.
type Ticker interface {
	// Tick returns true if the interval has elapsed since the last tick.
	// This is a non-blocking check.
	Tick() bool

	// Reset starts a new interval from now.
	Reset()

	// Stop releases any resources held by the ticker.
	// After Stop, the ticker should not be used.
	Stop()
}

// Kind names a Ticker implementation in configuration.
type Kind string

const (
	KindStd    Kind = "std"
	KindAtomic Kind = "atomic"
	KindBatch  Kind = "batch"
)

// DefaultBatch is the call count between clock reads used by New for
// KindBatch.
const DefaultBatch = 64

// ErrUnknownKind is returned for a Kind that names no implementation.
var ErrUnknownKind = errors.New("tick: unknown ticker kind")

// ParseKind validates s as a Kind. The empty string selects KindAtomic.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case "":
		return KindAtomic, nil
	case KindStd, KindAtomic, KindBatch:
		return k, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
}

// New creates a Ticker of the given kind.
func New(kind Kind, interval time.Duration) (Ticker, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("tick: interval must be positive, got %v", interval)
	}

	switch kind {
	case KindStd:
		return NewTicker(interval), nil
	case KindAtomic, "":
		return NewAtomicTicker(interval), nil
	case KindBatch:
		return NewBatch(interval, DefaultBatch), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

// Never is a Ticker that never fires. It stands in when periodic work
// is disabled.
type Never struct{}

func (Never) Tick() bool { return false }
func (Never) Reset()     {}
func (Never) Stop()      {}
