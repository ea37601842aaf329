package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jargoyle/jargoyle/internal/database"
	"github.com/jargoyle/jargoyle/internal/models"
	"github.com/jargoyle/jargoyle/internal/oauth"
)

var (
	ErrInvalidIdentity = errors.New("oauth identity requires provider and subject")
	ErrUserNotFound    = errors.New("user not found")
)

const userColumns = `id, email, display_name, oauth_provider, oauth_subject, created_at, last_login_at`

type UserService struct {
	db *database.DB
}

func NewUserService(db *database.DB) *UserService {
	return &UserService{db: db}
}

// FindOrCreateFromOAuth loads the user owning (provider, subject), creating
// it on first login. Returning users get last_login_at refreshed.
func (s *UserService) FindOrCreateFromOAuth(ctx context.Context, info *oauth.UserInfo) (*models.User, error) {
	if info == nil || info.Provider == "" || info.Subject == "" {
		return nil, ErrInvalidIdentity
	}

	var user models.User
	err := s.db.Pool.QueryRow(ctx, `
		UPDATE users SET last_login_at = NOW()
		WHERE oauth_provider = $1 AND oauth_subject = $2
		RETURNING `+userColumns,
		info.Provider, info.Subject).Scan(
		&user.ID, &user.Email, &user.DisplayName, &user.OAuthProvider,
		&user.OAuthSubject, &user.CreatedAt, &user.LastLoginAt,
	)
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	email := info.Email
	if email == "" {
		email = models.UnsetEmail
	}
	name := info.DisplayName
	if name == "" {
		name = models.UnknownDisplayName
	}

	err = s.db.Pool.QueryRow(ctx, `
		INSERT INTO users (email, display_name, oauth_provider, oauth_subject, last_login_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING `+userColumns,
		email, name, info.Provider, info.Subject).Scan(
		&user.ID, &user.Email, &user.DisplayName, &user.OAuthProvider,
		&user.OAuthSubject, &user.CreatedAt, &user.LastLoginAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &user, nil
}

func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (s *UserService) GetByProviderSubject(ctx context.Context, provider, subject string) (*models.User, error) {
	if provider == "" || subject == "" {
		return nil, ErrInvalidIdentity
	}
	return s.getOne(ctx, `
		SELECT `+userColumns+`
		FROM users WHERE oauth_provider = $1 AND oauth_subject = $2
	`, provider, subject)
}

func (s *UserService) getOne(ctx context.Context, sql string, args ...any) (*models.User, error) {
	var user models.User
	err := s.db.Pool.QueryRow(ctx, sql, args...).Scan(
		&user.ID, &user.Email, &user.DisplayName, &user.OAuthProvider,
		&user.OAuthSubject, &user.CreatedAt, &user.LastLoginAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
