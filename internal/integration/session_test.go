package integration

import (
	"context"
	"testing"
	"time"

	"github.com/jargoyle/jargoyle/internal/session"
	"github.com/jargoyle/jargoyle/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPGStore_Integration_Lifecycle(t *testing.T) {
	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	store := session.NewPGStore(tdb.DB)
	ctx := context.Background()

	user := fixtures.CreateUser(t)
	id, err := session.GenerateID()
	require.NoError(t, err)

	now := time.Now().UTC().Truncate(time.Microsecond)
	require.NoError(t, store.Create(ctx, session.Session{
		ID:        id,
		UserID:    user.ID,
		Provider:  user.OAuthProvider,
		Subject:   user.OAuthSubject,
		CreatedAt: now,
		ExpiresAt: now.Add(time.Hour),
	}))

	got, err := store.Get(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, user.ID, got.UserID)
	assert.Equal(t, user.OAuthSubject, got.Subject)
	assert.WithinDuration(t, now.Add(time.Hour), got.ExpiresAt, time.Second)

	require.NoError(t, store.Delete(ctx, id))

	got, err = store.Get(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestPGStore_Integration_DeleteExpired(t *testing.T) {
	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	store := session.NewPGStore(tdb.DB)
	ctx := context.Background()

	user := fixtures.CreateUser(t)
	now := time.Now().UTC()

	for i, expiresIn := range []time.Duration{-time.Hour, -time.Minute, time.Hour} {
		id, err := session.GenerateID()
		require.NoError(t, err)
		require.NoError(t, store.Create(ctx, session.Session{
			ID:        id,
			UserID:    user.ID,
			Provider:  "google",
			Subject:   user.OAuthSubject,
			CreatedAt: now.Add(-2 * time.Hour),
			ExpiresAt: now.Add(expiresIn),
		}), "session %d", i)
	}

	n, err := store.DeleteExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestPGStore_Integration_UserDeletionCascades(t *testing.T) {
	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	store := session.NewPGStore(tdb.DB)
	ctx := context.Background()

	user := fixtures.CreateUser(t)
	id, err := session.GenerateID()
	require.NoError(t, err)
	now := time.Now().UTC()
	require.NoError(t, store.Create(ctx, session.Session{
		ID: id, UserID: user.ID, Provider: "google", Subject: user.OAuthSubject,
		CreatedAt: now, ExpiresAt: now.Add(time.Hour),
	}))

	_, err = tdb.DB.Pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, user.ID)
	require.NoError(t, err)

	got, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, got)
}
