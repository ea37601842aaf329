// Package query is a small reactive cache for server state. Entries are keyed
// by Key, concurrent fetches of one key share a single call, and subscribers
// are told whenever an entry under their prefix changes.
package query

import (
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/sync/singleflight"
)

type Status int

const (
	// StatusPending means the entry has never resolved.
	StatusPending Status = iota
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Snapshot is a point-in-time copy of a cache entry.
type Snapshot struct {
	Key       Key
	Status    Status
	Data      any
	Err       error
	Fetching  bool
	Stale     bool
	UpdatedAt time.Time
}

type entry struct {
	key       Key
	status    Status
	data      any
	err       error
	fetching  bool
	stale     bool
	updatedAt time.Time
}

func (e *entry) snapshot() Snapshot {
	return Snapshot{
		Key:       e.key,
		Status:    e.status,
		Data:      e.data,
		Err:       e.err,
		Fetching:  e.fetching,
		Stale:     e.stale,
		UpdatedAt: e.updatedAt,
	}
}

type subscriber struct {
	prefix Key
	ch     chan struct{}
}

// Client owns every cache entry. Construct one per process and pass it to
// whatever needs it.
type Client struct {
	mu      sync.Mutex
	entries map[string]*entry
	subs    map[int]subscriber
	nextSub int

	flights singleflight.Group

	retry   int
	backOff func() backoff.BackOff
	now     func() time.Time
}

type ClientOption func(*Client)

// WithDefaultRetry sets how many times a failed fetch is retried when the
// query does not say otherwise.
func WithDefaultRetry(n int) ClientOption {
	return func(c *Client) { c.retry = n }
}

func WithBackOff(f func() backoff.BackOff) ClientOption {
	return func(c *Client) { c.backOff = f }
}

func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		entries: make(map[string]*entry),
		subs:    make(map[int]subscriber),
		retry:   1,
		backOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 200 * time.Millisecond
			b.MaxElapsedTime = 10 * time.Second
			return b
		},
		now: time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Peek returns the cached entry without fetching.
func (c *Client) Peek(key Key) (Snapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key.hash()]
	if !ok {
		return Snapshot{Key: key}, false
	}
	return e.snapshot(), true
}

// SetQueryData replaces the entry's data as if a fetch had just succeeded.
func (c *Client) SetQueryData(key Key, data any) {
	c.mu.Lock()
	h := key.hash()
	e, ok := c.entries[h]
	if !ok {
		e = &entry{key: key}
		c.entries[h] = e
	}
	e.status = StatusSuccess
	e.data = data
	e.err = nil
	e.stale = false
	e.updatedAt = c.now()
	c.mu.Unlock()

	c.notify(key)
}

// RemoveQueries drops every entry whose key starts with prefix. The next
// Fetch for a removed key goes to the network.
func (c *Client) RemoveQueries(prefix Key) int {
	c.mu.Lock()
	var removed []Key
	for h, e := range c.entries {
		if e.key.HasPrefix(prefix) {
			delete(c.entries, h)
			removed = append(removed, e.key)
		}
	}
	c.mu.Unlock()

	for _, k := range removed {
		c.notify(k)
	}
	return len(removed)
}

// InvalidateQueries marks matching entries stale. Their data stays readable
// but the next Fetch refetches.
func (c *Client) InvalidateQueries(prefix Key) int {
	c.mu.Lock()
	var invalidated []Key
	for _, e := range c.entries {
		if e.key.HasPrefix(prefix) {
			e.stale = true
			invalidated = append(invalidated, e.key)
		}
	}
	c.mu.Unlock()

	for _, k := range invalidated {
		c.notify(k)
	}
	return len(invalidated)
}

// Subscribe signals on the returned channel after any change to an entry
// under prefix. Signals coalesce, so readers should Peek for the latest
// value. The cancel func closes the channel.
func (c *Client) Subscribe(prefix Key) (<-chan struct{}, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextSub
	c.nextSub++
	ch := make(chan struct{}, 1)
	c.subs[id] = subscriber{prefix: prefix, ch: ch}

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.subs, id)
			c.mu.Unlock()
			close(ch)
		})
	}
}

func (c *Client) notify(key Key) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, s := range c.subs {
		if !key.HasPrefix(s.prefix) {
			continue
		}
		select {
		case s.ch <- struct{}{}:
		default:
		}
	}
}
