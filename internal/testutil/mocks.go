package testutil

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/jargoyle/jargoyle/internal/models"
	"github.com/jargoyle/jargoyle/internal/oauth"
	"github.com/jargoyle/jargoyle/internal/session"
	"github.com/stretchr/testify/mock"
)

// MockUserService mocks the UserService
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) FindOrCreateFromOAuth(ctx context.Context, info *oauth.UserInfo) (*models.User, error) {
	args := m.Called(ctx, info)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) GetByProviderSubject(ctx context.Context, provider, subject string) (*models.User, error) {
	args := m.Called(ctx, provider, subject)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// MockDocumentService mocks the DocumentService
type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) List(ctx context.Context, userID uuid.UUID, page, size int) ([]models.Document, int, error) {
	args := m.Called(ctx, userID, page, size)
	docs, _ := args.Get(0).([]models.Document)
	return docs, args.Int(1), args.Error(2)
}

func (m *MockDocumentService) Get(ctx context.Context, id, userID uuid.UUID) (*models.Document, *models.DocumentSummary, error) {
	args := m.Called(ctx, id, userID)
	doc, _ := args.Get(0).(*models.Document)
	summary, _ := args.Get(1).(*models.DocumentSummary)
	return doc, summary, args.Error(2)
}

func (m *MockDocumentService) Update(ctx context.Context, id, userID uuid.UUID, title, documentType *string) (*models.Document, error) {
	args := m.Called(ctx, id, userID, title, documentType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Document), args.Error(1)
}

func (m *MockDocumentService) Delete(ctx context.Context, id, userID uuid.UUID) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

// MockSessionManager mocks session.Manager. Start and Destroy do not write
// cookies; tests that need real cookies use session.Manager itself.
type MockSessionManager struct {
	mock.Mock
}

func (m *MockSessionManager) Start(ctx context.Context, w http.ResponseWriter, userID uuid.UUID, provider, subject string) (*session.Session, error) {
	args := m.Called(ctx, w, userID, provider, subject)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*session.Session), args.Error(1)
}

func (m *MockSessionManager) Current(r *http.Request) (*session.Session, error) {
	args := m.Called(r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*session.Session), args.Error(1)
}

func (m *MockSessionManager) Destroy(w http.ResponseWriter, r *http.Request) error {
	args := m.Called(w, r)
	return args.Error(0)
}

func (m *MockSessionManager) SaveOAuthState(w http.ResponseWriter, r *http.Request, provider, state string) error {
	args := m.Called(w, r, provider, state)
	return args.Error(0)
}

func (m *MockSessionManager) VerifyOAuthState(w http.ResponseWriter, r *http.Request, provider, state string) error {
	args := m.Called(w, r, provider, state)
	return args.Error(0)
}

// MockProvider mocks an oauth.Provider
type MockProvider struct {
	mock.Mock
	ProviderName string
}

func (m *MockProvider) Name() string {
	return m.ProviderName
}

func (m *MockProvider) GetConsentURL(state string) string {
	args := m.Called(state)
	return args.String(0)
}

func (m *MockProvider) ExchangeCode(ctx context.Context, code string) (*oauth.UserInfo, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*oauth.UserInfo), args.Error(1)
}
