// Package cancel provides stop signals for polling loops.
//
// A worker that pops from a queue cannot also select on a channel, so
// early termination is checked by polling Done() between items:
//   - ContextCanceler: backed by context.Context, so the same signal
//     can be handed to the work itself via Context()
//   - AtomicCanceler: a single atomic.Bool, for the tightest loops
package cancel

// Canceler provides cancellation signaling to workers.
//
// Implementations must be safe for concurrent use:
//   - Multiple goroutines may call Done() concurrently
//   - Cancel() may be called concurrently with Done()
type Canceler interface {
	// Done returns true if cancellation has been triggered.
	Done() bool

	// Cancel triggers cancellation. Safe to call multiple times.
	Cancel()
}

var (
	_ Canceler = (*ContextCanceler)(nil)
	_ Canceler = (*AtomicCanceler)(nil)
)
