package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jargoyle/jargoyle/internal/database"
)

// Session is the server-side record behind the session cookie. It carries
// identity pointers only; the profile is always reloaded from users.
type Session struct {
	ID        string
	UserID    uuid.UUID
	Provider  string
	Subject   string
	CreatedAt time.Time
	ExpiresAt time.Time
}

func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Store persists sessions. Get returns (nil, nil) for an unknown id.
type Store interface {
	Create(ctx context.Context, s Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type PGStore struct {
	db *database.DB
}

func NewPGStore(db *database.DB) *PGStore {
	return &PGStore{db: db}
}

func (p *PGStore) Create(ctx context.Context, s Session) error {
	if s.ID == "" || s.UserID == uuid.Nil {
		return fmt.Errorf("session: missing id or user id")
	}
	if !s.ExpiresAt.After(s.CreatedAt) {
		return fmt.Errorf("session: expires_at must be after created_at")
	}

	_, err := p.db.Pool.Exec(ctx, `
		INSERT INTO user_sessions (id, user_id, oauth_provider, oauth_subject, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, s.ID, s.UserID, s.Provider, s.Subject, s.CreatedAt, s.ExpiresAt)
	if err != nil {
		return fmt.Errorf("session: failed to create: %w", err)
	}
	return nil
}

func (p *PGStore) Get(ctx context.Context, id string) (*Session, error) {
	var s Session
	err := p.db.Pool.QueryRow(ctx, `
		SELECT id, user_id, oauth_provider, oauth_subject, created_at, expires_at
		FROM user_sessions WHERE id = $1
	`, id).Scan(&s.ID, &s.UserID, &s.Provider, &s.Subject, &s.CreatedAt, &s.ExpiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session: failed to load: %w", err)
	}
	return &s, nil
}

func (p *PGStore) Delete(ctx context.Context, id string) error {
	if _, err := p.db.Pool.Exec(ctx, `DELETE FROM user_sessions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("session: failed to delete: %w", err)
	}
	return nil
}

func (p *PGStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := p.db.Pool.Exec(ctx, `DELETE FROM user_sessions WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("session: failed to delete expired: %w", err)
	}
	return tag.RowsAffected(), nil
}
