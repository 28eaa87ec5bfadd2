package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrAborted is returned by PushContext and PopContext once the queue
// has been aborted (and, for PopContext, drained).
var ErrAborted = errors.New("queue: aborted")

// State is the lifecycle position of a BlockingQueue.
type State int

const (
	// Active accepts pushes and pops.
	Active State = iota
	// Draining rejects pushes; pops still return buffered elements.
	Draining
	// Closed rejects everything. There is no way back to Active.
	Closed
)

func (s State) String() string {
	switch s {
	case Active:
		return "active"
	case Draining:
		return "draining"
	case Closed:
		return "closed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Stats is a point-in-time view of a queue, taken under its lock.
type Stats struct {
	Len         int
	Cap         int
	State       State
	PushWaiters int
	PopWaiters  int
	Pushed      uint64
	Popped      uint64
}

// BlockingQueue is a bounded FIFO safe for any number of producer and
// consumer goroutines.
//
// A single mutex guards the buffer and the abort flag together. Push
// waits on notFull, Pop waits on notEmpty; each success signals one
// waiter on the other side, and Abort broadcasts to both.
//
// A BlockingQueue must not be copied after first use. Share the
// *BlockingQueue returned by New.
type BlockingQueue[T any] struct {
	mu       sync.Mutex
	notFull  sync.Cond
	notEmpty sync.Cond

	ring     ring[T]
	capacity int
	aborted  bool

	pushWaiters int
	popWaiters  int
	pushed      uint64
	popped      uint64
}

// New creates a BlockingQueue holding at most capacity elements.
//
// It panics if capacity is not positive.
func New[T any](capacity int) *BlockingQueue[T] {
	if capacity <= 0 {
		panic(fmt.Sprintf("queue: capacity must be positive, got %d", capacity))
	}

	q := &BlockingQueue[T]{
		ring:     newRing[T](capacity),
		capacity: capacity,
	}
	q.notFull.L = &q.mu
	q.notEmpty.L = &q.mu
	return q
}

// Push appends v, waiting while the queue is full.
//
// It returns false, without enqueuing v, if the queue is aborted
// before space becomes available. A full queue is never an error.
func (q *BlockingQueue[T]) Push(v T) bool {
	q.mu.Lock()
	for q.ring.len() >= q.capacity && !q.aborted {
		q.pushWaiters++
		q.notFull.Wait()
		q.pushWaiters--
	}
	if q.aborted {
		q.mu.Unlock()
		return false
	}
	q.ring.push(v)
	q.pushed++
	q.mu.Unlock()

	q.notEmpty.Signal()
	return true
}

// Pop removes and returns the oldest element, waiting while the queue
// is empty.
//
// After Abort, Pop keeps returning buffered elements; it returns false
// only once the queue is both aborted and empty.
func (q *BlockingQueue[T]) Pop() (T, bool) {
	q.mu.Lock()
	for q.ring.len() == 0 && !q.aborted {
		q.popWaiters++
		q.notEmpty.Wait()
		q.popWaiters--
	}
	if q.ring.len() == 0 {
		q.mu.Unlock()
		var zero T
		return zero, false
	}
	v := q.ring.pop()
	q.popped++
	q.mu.Unlock()

	q.notFull.Signal()
	return v, true
}

// TryPush is Push without waiting: it returns false if the queue is
// full or aborted.
func (q *BlockingQueue[T]) TryPush(v T) bool {
	q.mu.Lock()
	if q.aborted || q.ring.len() >= q.capacity {
		q.mu.Unlock()
		return false
	}
	q.ring.push(v)
	q.pushed++
	q.mu.Unlock()

	q.notEmpty.Signal()
	return true
}

// TryPop is Pop without waiting: it returns false if the queue is
// empty, whether or not it has been aborted.
func (q *BlockingQueue[T]) TryPop() (T, bool) {
	q.mu.Lock()
	if q.ring.len() == 0 {
		q.mu.Unlock()
		var zero T
		return zero, false
	}
	v := q.ring.pop()
	q.popped++
	q.mu.Unlock()

	q.notFull.Signal()
	return v, true
}

// PushContext is Push with a bound on the wait.
//
// It returns ErrAborted if the queue is aborted, or ctx.Err() if ctx
// ends while the queue is still full. ctx only limits waiting: if
// there is space, v is enqueued even when ctx is already done.
func (q *BlockingQueue[T]) PushContext(ctx context.Context, v T) error {
	stop := context.AfterFunc(ctx, func() {
		q.mu.Lock()
		q.notFull.Broadcast()
		q.mu.Unlock()
	})
	defer stop()

	q.mu.Lock()
	for q.ring.len() >= q.capacity && !q.aborted && ctx.Err() == nil {
		q.pushWaiters++
		q.notFull.Wait()
		q.pushWaiters--
	}
	if q.aborted {
		q.mu.Unlock()
		return ErrAborted
	}
	if q.ring.len() >= q.capacity {
		q.mu.Unlock()
		return ctx.Err()
	}
	q.ring.push(v)
	q.pushed++
	q.mu.Unlock()

	q.notEmpty.Signal()
	return nil
}

// PopContext is Pop with a bound on the wait.
//
// It returns ErrAborted once the queue is aborted and drained, or
// ctx.Err() if ctx ends while the queue is still empty.
func (q *BlockingQueue[T]) PopContext(ctx context.Context) (T, error) {
	stop := context.AfterFunc(ctx, func() {
		q.mu.Lock()
		q.notEmpty.Broadcast()
		q.mu.Unlock()
	})
	defer stop()

	var zero T

	q.mu.Lock()
	for q.ring.len() == 0 && !q.aborted && ctx.Err() == nil {
		q.popWaiters++
		q.notEmpty.Wait()
		q.popWaiters--
	}
	if q.ring.len() == 0 {
		aborted := q.aborted
		q.mu.Unlock()
		if aborted {
			return zero, ErrAborted
		}
		return zero, ctx.Err()
	}
	v := q.ring.pop()
	q.popped++
	q.mu.Unlock()

	q.notFull.Signal()
	return v, nil
}

// Abort shuts the queue down and wakes every blocked Push and Pop.
//
// Blocked and future pushes fail. Pops drain what is buffered and then
// fail. Calling Abort more than once is harmless.
func (q *BlockingQueue[T]) Abort() {
	q.mu.Lock()
	q.aborted = true
	q.mu.Unlock()

	q.notEmpty.Broadcast()
	q.notFull.Broadcast()
}

// Aborted reports whether Abort has been called.
func (q *BlockingQueue[T]) Aborted() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.aborted
}

// Clear discards every buffered element without aborting.
//
// Producers blocked on a full queue are woken so they can use the
// freed space. Clear is meant for maintenance between sessions; when
// it races with live producers and consumers, which elements are
// discarded is unspecified.
func (q *BlockingQueue[T]) Clear() {
	q.mu.Lock()
	n := q.ring.clear()
	q.mu.Unlock()

	if n > 0 {
		q.notFull.Broadcast()
	}
}

// Release ends the queue's lifetime and discards anything still
// buffered.
//
// The owner must call Abort and wait for all producers and consumers
// to return first. Release panics if the queue was never aborted or if
// a goroutine is still blocked in Push or Pop.
func (q *BlockingQueue[T]) Release() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.aborted {
		panic("queue: Release called before Abort")
	}
	if n := q.pushWaiters + q.popWaiters; n > 0 {
		panic(fmt.Sprintf("queue: Release called with %d goroutines still blocked", n))
	}
	q.ring.clear()
}

// Len returns the number of buffered elements.
func (q *BlockingQueue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.ring.len()
}

// Cap returns the capacity given to New.
func (q *BlockingQueue[T]) Cap() int {
	return q.capacity
}

// Empty reports whether no elements are buffered.
func (q *BlockingQueue[T]) Empty() bool {
	return q.Len() == 0
}

// Full reports whether the queue holds Cap elements.
func (q *BlockingQueue[T]) Full() bool {
	return q.Len() == q.capacity
}

// State returns the current lifecycle state.
func (q *BlockingQueue[T]) State() State {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.stateLocked()
}

func (q *BlockingQueue[T]) stateLocked() State {
	switch {
	case !q.aborted:
		return Active
	case q.ring.len() > 0:
		return Draining
	default:
		return Closed
	}
}

// Stats returns a consistent snapshot of the queue's counters.
func (q *BlockingQueue[T]) Stats() Stats {
	q.mu.Lock()
	defer q.mu.Unlock()
	return Stats{
		Len:         q.ring.len(),
		Cap:         q.capacity,
		State:       q.stateLocked(),
		PushWaiters: q.pushWaiters,
		PopWaiters:  q.popWaiters,
		Pushed:      q.pushed,
		Popped:      q.popped,
	}
}
