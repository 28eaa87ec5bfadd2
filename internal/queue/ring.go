package queue

// ring is a fixed-slot FIFO used as the storage of BlockingQueue.
//
// It is not safe for concurrent use; every method must be called with
// the owning queue's mutex held. The slot count is rounded up to a
// power of two so positions can be masked instead of divided. head and
// tail only ever grow, so head-tail is always the number of buffered
// elements.
type ring[T any] struct {
	buf  []T
	mask uint64

	head uint64 // next slot to write
	tail uint64 // next slot to read
}

func newRing[T any](size int) ring[T] {
	n := uint64(1)
	for n < uint64(size) {
		n <<= 1
	}

	return ring[T]{
		buf:  make([]T, n),
		mask: n - 1,
	}
}

func (r *ring[T]) len() int {
	return int(r.head - r.tail)
}

func (r *ring[T]) slots() int {
	return len(r.buf)
}

// push appends v at the tail. The caller guarantees a free slot.
func (r *ring[T]) push(v T) {
	r.buf[r.head&r.mask] = v
	r.head++
}

// pop removes the oldest element. The caller guarantees one exists.
func (r *ring[T]) pop() T {
	i := r.tail & r.mask
	v := r.buf[i]

	// Drop the reference so the consumer becomes the only owner.
	var zero T
	r.buf[i] = zero

	r.tail++
	return v
}

// clear discards every buffered element and returns how many there were.
func (r *ring[T]) clear() int {
	n := r.len()
	var zero T
	for ; r.tail != r.head; r.tail++ {
		r.buf[r.tail&r.mask] = zero
	}
	return n
}
