package cancel

import "context"

// ContextCanceler wraps context.Context for cancellation signaling.
//
// Done() is a non-blocking select on ctx.Done(). Cancelling the
// parent context cancels this one too.
type ContextCanceler struct {
	ctx    context.Context
	cancel context.CancelFunc
}

// NewContext creates a ContextCanceler from a parent context.
func NewContext(parent context.Context) *ContextCanceler {
	ctx, cancel := context.WithCancel(parent)
	return &ContextCanceler{
		ctx:    ctx,
		cancel: cancel,
	}
}

// Done returns true if the context has been cancelled.
func (c *ContextCanceler) Done() bool {
	select {
	case <-c.ctx.Done():
		return true
	default:
		return false
	}
}

// Cancel triggers cancellation of the context.
func (c *ContextCanceler) Cancel() {
	c.cancel()
}

// Context returns the underlying context.Context, to be passed to
// work that should stop when the canceler fires.
func (c *ContextCanceler) Context() context.Context {
	return c.ctx
}
