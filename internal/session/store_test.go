package session

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jargoyle/jargoyle/internal/database"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupPGStore(t *testing.T) (*PGStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	return NewPGStore(&database.DB{Pool: mock}), mock
}

func TestPGStore_Create(t *testing.T) {
	store, mock := setupPGStore(t)
	now := time.Now()
	s := Session{
		ID:        "sid",
		UserID:    uuid.New(),
		Provider:  "google",
		Subject:   "sub",
		CreatedAt: now,
		ExpiresAt: now.Add(time.Hour),
	}

	mock.ExpectExec(`INSERT INTO user_sessions`).
		WithArgs(s.ID, s.UserID, s.Provider, s.Subject, s.CreatedAt, s.ExpiresAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, store.Create(context.Background(), s))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPGStore_Create_RejectsIncompleteSession(t *testing.T) {
	store, _ := setupPGStore(t)
	now := time.Now()

	assert.Error(t, store.Create(context.Background(), Session{UserID: uuid.New(), CreatedAt: now, ExpiresAt: now.Add(time.Hour)}))
	assert.Error(t, store.Create(context.Background(), Session{ID: "sid", CreatedAt: now, ExpiresAt: now.Add(time.Hour)}))
	assert.Error(t, store.Create(context.Background(), Session{ID: "sid", UserID: uuid.New(), CreatedAt: now, ExpiresAt: now}))
}

func TestPGStore_Get(t *testing.T) {
	store, mock := setupPGStore(t)
	userID := uuid.New()
	now := time.Now()

	mock.ExpectQuery(`SELECT .+ FROM user_sessions WHERE id = \$1`).
		WithArgs("sid").
		WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "oauth_provider", "oauth_subject", "created_at", "expires_at"}).
			AddRow("sid", userID, "google", "sub", now, now.Add(time.Hour)))

	s, err := store.Get(context.Background(), "sid")
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, userID, s.UserID)
	assert.Equal(t, "sub", s.Subject)
}

func TestPGStore_Get_NotFound(t *testing.T) {
	store, mock := setupPGStore(t)

	mock.ExpectQuery(`SELECT .+ FROM user_sessions`).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	s, err := store.Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestPGStore_Delete(t *testing.T) {
	store, mock := setupPGStore(t)

	mock.ExpectExec(`DELETE FROM user_sessions WHERE id = \$1`).
		WithArgs("sid").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	require.NoError(t, store.Delete(context.Background(), "sid"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPGStore_DeleteExpired(t *testing.T) {
	store, mock := setupPGStore(t)
	now := time.Now()

	mock.ExpectExec(`DELETE FROM user_sessions WHERE expires_at <= \$1`).
		WithArgs(now).
		WillReturnResult(pgxmock.NewResult("DELETE", 3))

	n, err := store.DeleteExpired(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}
