package params

import (
	"context"
	"sync"
)

// Deferred is a one-shot value that is either resolved or rejected.
// The first Resolve or Reject wins, later calls are ignored.
type Deferred struct {
	done chan struct{}
	once sync.Once
	val  any
	err  error
}

// NewDeferred returns an unsettled Deferred.
func NewDeferred() *Deferred {
	return &Deferred{done: make(chan struct{})}
}

// Resolve settles the deferred with a value.
// It returns false if the deferred was already settled.
func (d *Deferred) Resolve(v any) bool {
	return d.settle(v, nil)
}

// Reject settles the deferred with an error.
// It returns false if the deferred was already settled.
func (d *Deferred) Reject(err error) bool {
	return d.settle(nil, err)
}

func (d *Deferred) settle(v any, err error) bool {
	settled := false
	d.once.Do(func() {
		d.val, d.err = v, err
		settled = true
		close(d.done)
	})
	return settled
}

// Done is closed once the deferred settled.
func (d *Deferred) Done() <-chan struct{} {
	return d.done
}

// Settled reports whether Resolve or Reject was called.
func (d *Deferred) Settled() bool {
	select {
	case <-d.done:
		return true
	default:
		return false
	}
}

// Wait blocks until the deferred settled or ctx is done.
func (d *Deferred) Wait(ctx context.Context) (any, error) {
	select {
	case <-d.done:
		return d.val, d.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
