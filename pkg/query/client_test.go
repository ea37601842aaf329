package query

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type profile struct {
	Name string
}

func newTestClient(opts ...ClientOption) *Client {
	opts = append([]ClientOption{WithBackOff(func() backoff.BackOff { return &backoff.ZeroBackOff{} })}, opts...)
	return NewClient(opts...)
}

func TestKey_HasPrefix(t *testing.T) {
	k := Key{"documents", "list", 0, 20}

	assert.True(t, k.HasPrefix(Key{"documents"}))
	assert.True(t, k.HasPrefix(Key{"documents", "list"}))
	assert.True(t, k.HasPrefix(k))
	assert.True(t, k.HasPrefix(Key{}))
	assert.False(t, k.HasPrefix(Key{"auth"}))
	assert.False(t, k.HasPrefix(Key{"documents", "list", 0, 20, "x"}))
	assert.Equal(t, `["auth","me"]`, Key{"auth", "me"}.String())
}

func TestFetch_CachesSuccessfulResult(t *testing.T) {
	c := newTestClient()
	var calls atomic.Int32
	fn := func(ctx context.Context) (*profile, error) {
		calls.Add(1)
		return &profile{Name: "Ada"}, nil
	}

	first, err := Fetch(context.Background(), c, Key{"auth", "me"}, fn)
	require.NoError(t, err)
	second, err := Fetch(context.Background(), c, Key{"auth", "me"}, fn)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), calls.Load())
}

func TestFetch_ConcurrentCallersShareOneCall(t *testing.T) {
	c := newTestClient()
	var calls atomic.Int32
	release := make(chan struct{})
	fn := func(ctx context.Context) (*profile, error) {
		calls.Add(1)
		<-release
		return &profile{Name: "Ada"}, nil
	}

	var wg sync.WaitGroup
	results := make([]*profile, 5)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = Fetch(context.Background(), c, Key{"auth", "me"}, fn)
		}(i)
	}

	require.Eventually(t, func() bool {
		snap, ok := c.Peek(Key{"auth", "me"})
		return ok && snap.Fetching
	}, time.Second, time.Millisecond)
	// Let stragglers join the flight before it finishes.
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for _, r := range results {
		assert.Equal(t, "Ada", r.Name)
	}
}

func TestFetch_CancelledCallerDoesNotFailOthers(t *testing.T) {
	c := newTestClient(WithDefaultRetry(0))
	key := Key{"auth", "me"}
	release := make(chan struct{})
	fn := func(ctx context.Context) (*profile, error) {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-release:
			return &profile{Name: "Ada"}, nil
		}
	}

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, err := Fetch(ctxA, c, key, fn)
		errA <- err
	}()
	require.Eventually(t, func() bool {
		snap, ok := c.Peek(key)
		return ok && snap.Fetching
	}, time.Second, time.Millisecond)

	type result struct {
		p   *profile
		err error
	}
	resB := make(chan result, 1)
	go func() {
		p, err := Fetch(context.Background(), c, key, fn)
		resB <- result{p, err}
	}()
	time.Sleep(20 * time.Millisecond)

	cancelA()
	assert.ErrorIs(t, <-errA, context.Canceled)

	close(release)
	b := <-resB
	require.NoError(t, b.err)
	assert.Equal(t, "Ada", b.p.Name)

	snap, ok := c.Peek(key)
	require.True(t, ok)
	assert.Equal(t, StatusSuccess, snap.Status)
}

func TestFetch_RetriesWithClientDefault(t *testing.T) {
	c := newTestClient()
	var calls atomic.Int32
	fn := func(ctx context.Context) (string, error) {
		if calls.Add(1) == 1 {
			return "", errors.New("transient")
		}
		return "ok", nil
	}

	v, err := Fetch(context.Background(), c, Key{"x"}, fn)

	require.NoError(t, err)
	assert.Equal(t, "ok", v)
	assert.Equal(t, int32(2), calls.Load())
}

func TestFetch_WithRetryZeroFailsOnce(t *testing.T) {
	c := newTestClient()
	var calls atomic.Int32
	boom := errors.New("unauthorized")
	fn := func(ctx context.Context) (*profile, error) {
		calls.Add(1)
		return nil, boom
	}

	_, err := Fetch(context.Background(), c, Key{"auth", "me"}, fn, WithRetry(0))

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, int32(1), calls.Load())

	snap, ok := c.Peek(Key{"auth", "me"})
	require.True(t, ok)
	assert.Equal(t, StatusError, snap.Status)
	assert.ErrorIs(t, snap.Err, boom)
	assert.False(t, snap.Fetching)
}

func TestFetch_ErrorIsNotACacheHit(t *testing.T) {
	c := newTestClient()
	var calls atomic.Int32
	fn := func(ctx context.Context) (string, error) {
		if calls.Add(1) == 1 {
			return "", errors.New("down")
		}
		return "up", nil
	}

	_, err := Fetch(context.Background(), c, Key{"s"}, fn, WithRetry(0))
	require.Error(t, err)

	v, err := Fetch(context.Background(), c, Key{"s"}, fn, WithRetry(0))
	require.NoError(t, err)
	assert.Equal(t, "up", v)
}

func TestSetQueryData_NilIsACacheHit(t *testing.T) {
	c := newTestClient()
	c.SetQueryData(Key{"auth", "me"}, (*profile)(nil))

	called := false
	v, err := Fetch(context.Background(), c, Key{"auth", "me"}, func(ctx context.Context) (*profile, error) {
		called = true
		return &profile{}, nil
	})

	require.NoError(t, err)
	assert.Nil(t, v)
	assert.False(t, called)
}

func TestRemoveQueries_ForcesRefetch(t *testing.T) {
	c := newTestClient()
	c.SetQueryData(Key{"auth", "me"}, (*profile)(nil))

	n := c.RemoveQueries(Key{"auth"})
	assert.Equal(t, 1, n)

	_, ok := c.Peek(Key{"auth", "me"})
	assert.False(t, ok)

	v, err := Fetch(context.Background(), c, Key{"auth", "me"}, func(ctx context.Context) (*profile, error) {
		return &profile{Name: "Ada"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "Ada", v.Name)
}

func TestRemoveQueries_OnlyMatchingPrefix(t *testing.T) {
	c := newTestClient()
	c.SetQueryData(Key{"auth", "me"}, "a")
	c.SetQueryData(Key{"documents", "list", 0}, "b")
	c.SetQueryData(Key{"documents", "list", 1}, "c")

	assert.Equal(t, 2, c.RemoveQueries(Key{"documents"}))

	_, ok := c.Peek(Key{"auth", "me"})
	assert.True(t, ok)
}

func TestRemoveQueries_DuringFetchDoesNotRepopulate(t *testing.T) {
	c := newTestClient()
	release := make(chan struct{})
	done := make(chan struct{})

	go func() {
		defer close(done)
		v, err := Fetch(context.Background(), c, Key{"auth", "me"}, func(ctx context.Context) (string, error) {
			<-release
			return "stale", nil
		})
		assert.NoError(t, err)
		assert.Equal(t, "stale", v)
	}()

	require.Eventually(t, func() bool {
		_, ok := c.Peek(Key{"auth", "me"})
		return ok
	}, time.Second, time.Millisecond)

	c.RemoveQueries(Key{"auth", "me"})
	close(release)
	<-done

	_, ok := c.Peek(Key{"auth", "me"})
	assert.False(t, ok)
}

func TestInvalidateQueries_KeepsDataButRefetches(t *testing.T) {
	c := newTestClient()
	c.SetQueryData(Key{"auth", "me"}, "old")

	assert.Equal(t, 1, c.InvalidateQueries(Key{"auth"}))

	v, ok := Peek[string](c, Key{"auth", "me"})
	assert.True(t, ok)
	assert.Equal(t, "old", v)

	got, err := Fetch(context.Background(), c, Key{"auth", "me"}, func(ctx context.Context) (string, error) {
		return "new", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "new", got)

	snap, _ := c.Peek(Key{"auth", "me"})
	assert.False(t, snap.Stale)
}

func TestPeek_Typed(t *testing.T) {
	c := newTestClient()

	_, ok := Peek[string](c, Key{"missing"})
	assert.False(t, ok)

	c.SetQueryData(Key{"n"}, 42)
	_, ok = Peek[string](c, Key{"n"})
	assert.False(t, ok)

	n, ok := Peek[int](c, Key{"n"})
	assert.True(t, ok)
	assert.Equal(t, 42, n)
}

func TestSubscribe_SignalsOnChangesUnderPrefix(t *testing.T) {
	c := newTestClient()
	ch, cancel := c.Subscribe(Key{"auth"})
	defer cancel()

	c.SetQueryData(Key{"documents"}, 1)
	select {
	case <-ch:
		t.Fatal("unexpected signal for unrelated key")
	default:
	}

	c.SetQueryData(Key{"auth", "me"}, "a")
	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("expected a signal")
	}

	c.RemoveQueries(Key{"auth"})
	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("expected a signal on removal")
	}
}

func TestSubscribe_CancelClosesChannel(t *testing.T) {
	c := newTestClient()
	ch, cancel := c.Subscribe(Key{})

	cancel()
	cancel()

	_, open := <-ch
	assert.False(t, open)

	c.SetQueryData(Key{"x"}, 1)
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "pending", StatusPending.String())
	assert.Equal(t, "success", StatusSuccess.String())
	assert.Equal(t, "error", StatusError.String())
	assert.Equal(t, "Status(9)", Status(9).String())
}
