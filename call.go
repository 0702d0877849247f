package fetchpipe

import "context"

// Result is the envelope every pipeline stage completes with: either Data or
// Err, never both.
type Result struct {
	Data []byte
	Err  error
}

// Call is a single-shot future for an in-flight fetch. It completes exactly
// once; Result blocks until then. Cancel aborts the underlying transport
// operation if one is in flight and is a no-op otherwise, in particular after
// a cache-hit completion.
type Call struct {
	done      chan struct{}
	result    Result
	cancel    context.CancelFunc
	fromCache bool
}

func newCall(cancel context.CancelFunc) *Call {
	return &Call{done: make(chan struct{}), cancel: cancel}
}

// completedCall returns a call already resolved with res.
func completedCall(res Result, fromCache bool) *Call {
	c := &Call{done: make(chan struct{}), fromCache: fromCache}
	c.result = res
	close(c.done)
	return c
}

// complete resolves the call. Must be called at most once.
func (c *Call) complete(res Result) {
	c.result = res
	close(c.done)
}

// Done returns a channel closed once the call has completed.
func (c *Call) Done() <-chan struct{} {
	return c.done
}

// Result blocks until completion and returns the envelope.
func (c *Call) Result() Result {
	<-c.done
	return c.result
}

// Wait blocks until completion or ctx expiry. On expiry the call keeps
// running; only Cancel aborts it.
func (c *Call) Wait(ctx context.Context) (Result, error) {
	select {
	case <-c.done:
		return c.result, nil
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

// Cancel aborts the in-flight transport operation, if any.
func (c *Call) Cancel() {
	if c.cancel != nil {
		c.cancel()
	}
}

// FromCache reports whether the call was served from the response cache
// without touching the transport.
func (c *Call) FromCache() bool {
	return c.fromCache
}

// TypedCall is a single-shot future for a typed-decode fetch.
type TypedCall[T any] struct {
	done  chan struct{}
	value T
	err   error
	inner *Call
}

// Done returns a channel closed once the call has completed.
func (c *TypedCall[T]) Done() <-chan struct{} {
	return c.done
}

// Result blocks until completion and returns the decoded value or error.
func (c *TypedCall[T]) Result() (T, error) {
	<-c.done
	return c.value, c.err
}

// Cancel aborts the underlying transport operation, if any.
func (c *TypedCall[T]) Cancel() {
	if c.inner != nil {
		c.inner.Cancel()
	}
}
