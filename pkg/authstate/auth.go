package authstate

import (
	"context"
	"fmt"

	"github.com/jargoyle/jargoyle/pkg/dto"
	"github.com/jargoyle/jargoyle/pkg/query"
)

// MeKey caches the current user's profile.
var MeKey = query.Key{"auth", "me"}

// API is the part of authapi.API the state needs.
type API interface {
	FetchCurrentUser(ctx context.Context) (*dto.UserProfile, error)
	Logout(ctx context.Context) error
}

type Auth struct {
	client   *query.Client
	api      API
	rollback bool
}

type Option func(*Auth)

// WithRollbackOnFailure restores the previous profile when the server
// rejects a logout, instead of leaving the client logged out.
func WithRollbackOnFailure() Option {
	return func(a *Auth) { a.rollback = true }
}

func New(client *query.Client, api API, opts ...Option) *Auth {
	a := &Auth{client: client, api: api}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// State reads the cache without blocking. A key that was never fetched, or
// was removed, reads as Loading.
func (a *Auth) State() State {
	snap, ok := a.client.Peek(MeKey)
	if !ok || snap.Status == query.StatusPending {
		return Derive(true, nil, nil)
	}
	if snap.Status == query.StatusError {
		return Derive(false, snap.Err, nil)
	}
	user, _ := snap.Data.(*dto.UserProfile)
	return Derive(false, nil, user)
}

// Load resolves the current user, from cache when possible. The query is
// never retried: a 401 is the expected answer for a logged-out client.
func (a *Auth) Load(ctx context.Context) State {
	_, _ = query.Fetch(ctx, a.client, MeKey, a.api.FetchCurrentUser, query.WithRetry(0))
	return a.State()
}

// Watch emits the current state and then every change to it until ctx ends.
func (a *Auth) Watch(ctx context.Context) <-chan State {
	signals, cancel := a.client.Subscribe(MeKey)
	out := make(chan State, 1)

	go func() {
		defer close(out)
		defer cancel()

		last := a.State()
		select {
		case out <- last:
		case <-ctx.Done():
			return
		}

		for {
			select {
			case <-ctx.Done():
				return
			case <-signals:
				next := a.State()
				if next == last {
					continue
				}
				last = next
				select {
				case out <- next:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out
}

// Logout clears the cached profile before calling the server, so readers see
// Unauthenticated for the whole round trip. Once the call settles the entry
// is removed and the next Load asks the server again. On failure the error
// is returned; with WithRollbackOnFailure the previous profile comes back
// instead of the entry being removed.
func (a *Auth) Logout(ctx context.Context) error {
	previous, hadPrevious := query.Peek[*dto.UserProfile](a.client, MeKey)

	a.client.SetQueryData(MeKey, (*dto.UserProfile)(nil))

	err := a.api.Logout(ctx)
	if err != nil && a.rollback && hadPrevious && previous != nil {
		a.client.SetQueryData(MeKey, previous)
		return fmt.Errorf("logout failed: %w", err)
	}

	a.client.RemoveQueries(MeKey)
	if err != nil {
		return fmt.Errorf("logout failed: %w", err)
	}
	return nil
}
