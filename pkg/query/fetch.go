package query

import (
	"context"
	"fmt"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/sync/singleflight"
)

type fetchConfig struct {
	retry int
}

type FetchOption func(*fetchConfig)

// WithRetry overrides the client's retry count for one query. Zero disables
// retries.
func WithRetry(n int) FetchOption {
	return func(f *fetchConfig) { f.retry = n }
}

// Fetch returns the cached value for key when it holds a fresh successful
// result, and otherwise runs fn. Concurrent callers for the same key share
// one run of fn; a caller whose ctx ends returns ctx.Err() while the run
// continues for the others.
func Fetch[T any](ctx context.Context, c *Client, key Key, fn func(ctx context.Context) (T, error), opts ...FetchOption) (T, error) {
	cfg := fetchConfig{retry: c.retry}
	for _, opt := range opts {
		opt(&cfg)
	}

	if v, ok := cached[T](c, key); ok {
		return v, nil
	}

	// The shared run outlives any single caller; each caller stops waiting
	// when its own context ends.
	shared := context.WithoutCancel(ctx)
	ch := c.flights.DoChan(key.hash(), func() (any, error) {
		e := c.begin(key)
		v, err := runWithRetry(shared, c, fn, cfg.retry)
		c.settle(e, v, err)
		return v, err
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		var zero T
		return zero, res.Err
	}
	v, ok := res.Val.(T)
	if !ok && res.Val != nil {
		var zero T
		return zero, fmt.Errorf("query %s: cached %T is not %T", key, res.Val, zero)
	}
	return v, nil
}

// Peek is the typed form of Client.Peek. ok is false when the entry is
// missing, has not resolved, or holds a different type.
func Peek[T any](c *Client, key Key) (T, bool) {
	var zero T
	snap, ok := c.Peek(key)
	if !ok || snap.Status != StatusSuccess {
		return zero, false
	}
	if snap.Data == nil {
		return zero, true
	}
	v, ok := snap.Data.(T)
	return v, ok
}

func cached[T any](c *Client, key Key) (T, bool) {
	var zero T
	c.mu.Lock()
	e, ok := c.entries[key.hash()]
	if !ok || e.status != StatusSuccess || e.stale {
		c.mu.Unlock()
		return zero, false
	}
	data := e.data
	c.mu.Unlock()

	if data == nil {
		return zero, true
	}
	v, ok := data.(T)
	return v, ok
}

func (c *Client) begin(key Key) *entry {
	c.mu.Lock()
	h := key.hash()
	e, ok := c.entries[h]
	if !ok {
		e = &entry{key: key, status: StatusPending}
		c.entries[h] = e
	}
	e.fetching = true
	c.mu.Unlock()

	c.notify(key)
	return e
}

// settle records the result on e. An entry removed while the fetch was in
// flight stays removed; only the waiting callers see the result.
func (c *Client) settle(e *entry, data any, err error) {
	c.mu.Lock()
	if c.entries[e.key.hash()] != e {
		c.mu.Unlock()
		return
	}
	e.fetching = false
	if err != nil {
		e.status = StatusError
		e.err = err
	} else {
		e.status = StatusSuccess
		e.data = data
		e.err = nil
		e.stale = false
	}
	e.updatedAt = c.now()
	c.mu.Unlock()

	c.notify(e.key)
}

func runWithRetry[T any](ctx context.Context, c *Client, fn func(ctx context.Context) (T, error), retries int) (T, error) {
	var out T
	op := func() error {
		v, err := fn(ctx)
		if err != nil {
			return err
		}
		out = v
		return nil
	}

	var err error
	if retries <= 0 {
		err = op()
	} else {
		b := backoff.WithContext(backoff.WithMaxRetries(c.backOff(), uint64(retries)), ctx)
		err = backoff.Retry(op, b)
	}
	return out, err
}
