package blitzcache

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// Future is the result of an asynchronous Get/Update: a channel delivering
// exactly one (value, error) pair. Callers that want to block wait on Wait;
// callers that want cooperative suspension select on Done alongside other
// channels, matching spec.md §5's "no thread is pinned while a producer's
// future is pending."
type Future[V any] struct {
	done chan struct{}
	val  V
	err  error
}

// Done is closed once the future resolves.
func (f *Future[V]) Done() <-chan struct{} { return f.done }

// Wait blocks until the future resolves or ctx is cancelled.
func (f *Future[V]) Wait(ctx context.Context) (V, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		var zero V
		return zero, ctx.Err()
	}
}

func newFuture[V any]() *Future[V] {
	return &Future[V]{done: make(chan struct{})}
}

func (f *Future[V]) resolve(val V, err error) {
	f.val, f.err = val, err
	close(f.done)
}

// GetAsync runs Get on a managed goroutine via errgroup (the teacher's
// go.mod declares golang.org/x/sync but never imports it; here it
// orchestrates the asynchronous producer shape from spec.md §4.6.1,
// replacing a hand-rolled goroutine+channel pair with errgroup.Group's
// Go/Wait). The returned Future resolves when the underlying Get call
// returns; a panic in the producer is not recovered.
func (c *Cache[K, V]) GetAsync(ctx context.Context, key K, producer Producer[V], ttl ...time.Duration) *Future[V] {
	fut := newFuture[V]()
	var g errgroup.Group
	g.Go(func() error {
		val, err := c.Get(ctx, key, producer, ttl...)
		fut.resolve(val, err)
		return err
	})
	go g.Wait() // nolint:errcheck -- error already surfaced via fut.err
	return fut
}

// UpdateAsync is the asynchronous counterpart of Update.
func (c *Cache[K, V]) UpdateAsync(ctx context.Context, key K, producer Producer[V], ttl ...time.Duration) *Future[V] {
	fut := newFuture[V]()
	var g errgroup.Group
	g.Go(func() error {
		val, err := c.Update(ctx, key, producer, ttl...)
		fut.resolve(val, err)
		return err
	})
	go g.Wait()
	return fut
}

// AsyncProducer adapts a function returning a Future into the unified
// Producer shape, for callers whose natural production path is already
// asynchronous (spec.md §9, "four variants; branch once at the API edge").
func AsyncProducer[V any](fn func(ctx context.Context, n *Nuances) *Future[V]) Producer[V] {
	return func(ctx context.Context, n *Nuances) (V, error) {
		return fn(ctx, n).Wait(ctx)
	}
}
