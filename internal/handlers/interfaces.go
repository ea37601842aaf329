package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/jargoyle/jargoyle/internal/models"
	"github.com/jargoyle/jargoyle/internal/oauth"
	"github.com/jargoyle/jargoyle/internal/session"
)

// UserServiceInterface defines the methods used by handlers from UserService
type UserServiceInterface interface {
	FindOrCreateFromOAuth(ctx context.Context, info *oauth.UserInfo) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByProviderSubject(ctx context.Context, provider, subject string) (*models.User, error)
}

// DocumentServiceInterface defines the methods used by handlers from DocumentService
type DocumentServiceInterface interface {
	List(ctx context.Context, userID uuid.UUID, page, size int) ([]models.Document, int, error)
	Get(ctx context.Context, id, userID uuid.UUID) (*models.Document, *models.DocumentSummary, error)
	Update(ctx context.Context, id, userID uuid.UUID, title, documentType *string) (*models.Document, error)
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

// SessionManagerInterface defines the methods used by handlers from session.Manager
type SessionManagerInterface interface {
	Start(ctx context.Context, w http.ResponseWriter, userID uuid.UUID, provider, subject string) (*session.Session, error)
	Current(r *http.Request) (*session.Session, error)
	Destroy(w http.ResponseWriter, r *http.Request) error
	SaveOAuthState(w http.ResponseWriter, r *http.Request, provider, state string) error
	VerifyOAuthState(w http.ResponseWriter, r *http.Request, provider, state string) error
}
