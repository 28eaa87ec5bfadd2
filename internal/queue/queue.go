// Package queue provides a bounded, blocking, multi-producer
// multi-consumer FIFO with a one-way shutdown signal.
//
// BlockingQueue is the hand-off channel between producers and the
// workers of a pool: Push blocks while the queue is full, Pop blocks
// while it is empty, and Abort releases every waiter.
//
// # Shutdown
//
// Abort means "nothing more will be produced", not "discard what is
// buffered":
//   - Push fails (returns false) once Abort has been called.
//   - Pop keeps returning buffered elements until the queue is empty,
//     and only then fails.
//
// A failed Push or Pop is the normal end of a producer or worker loop,
// not an error to retry.
//
// # Teardown
//
// The owner calls Abort, waits for every producer and consumer
// goroutine to return, and then calls Release. Release panics if any
// goroutine is still blocked on the queue.
//
// # Diagnostics
//
// Len, Cap, Empty, Full, State and Stats are snapshots. They are
// stale as soon as they return and must not drive control flow.
package queue

// Queue is a non-blocking queue.
//
// Push returns false if the item was not accepted (full or shut down),
// Pop returns false if no item is available.
type Queue[T any] interface {
	// Push adds an item to the queue.
	// Returns false if the queue is full.
	Push(T) bool

	// Pop removes and returns an item from the queue.
	// Returns false if the queue is empty.
	Pop() (T, bool)
}

// Blocking is a queue whose Push and Pop wait for space or data.
//
// A false result from Push or Pop means the queue has been aborted and
// (for Pop) fully drained. It is permanent.
type Blocking[T any] interface {
	// Push adds an item, waiting for space.
	// Returns false if the queue was aborted.
	Push(T) bool

	// Pop removes the oldest item, waiting for one to arrive.
	// Returns false once the queue is aborted and empty.
	Pop() (T, bool)

	// Abort stops production and wakes every waiter. Idempotent.
	Abort()
}

var _ Blocking[int] = (*BlockingQueue[int])(nil)

// nonBlocking exposes TryPush/TryPop as a Queue.
type nonBlocking[T any] struct {
	q *BlockingQueue[T]
}

// NonBlocking adapts q to the Queue interface using TryPush and TryPop.
func NonBlocking[T any](q *BlockingQueue[T]) Queue[T] {
	return nonBlocking[T]{q: q}
}

func (n nonBlocking[T]) Push(v T) bool {
	return n.q.TryPush(v)
}

func (n nonBlocking[T]) Pop() (T, bool) {
	return n.q.TryPop()
}
