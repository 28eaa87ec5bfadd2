package pool

import "context"

// Future is the result of a task submitted with Go.
type Future[T any] struct {
	done chan struct{}
	val  T
	err  error
}

// Go submits fn and returns a Future for its result. If the task is
// discarded by Stop, the Future completes with ErrDiscarded.
func Go[T any](p *Pool, fn func(ctx context.Context) (T, error)) (*Future[T], error) {
	f := &Future[T]{done: make(chan struct{})}

	j := job{
		task: func(ctx context.Context) error {
			v, err := fn(ctx)
			f.val = v
			return err
		},
		done: func(err error) {
			f.err = err
			close(f.done)
		},
	}
	if err := p.submit(j); err != nil {
		return nil, err
	}
	return f, nil
}

// Done is closed once the result is available.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the task finishes or ctx ends.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
