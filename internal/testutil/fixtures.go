package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/jargoyle/jargoyle/internal/database"
	"github.com/jargoyle/jargoyle/internal/models"
)

// Fixtures provides factory methods for creating test data
type Fixtures struct {
	db      *database.DB
	counter int
}

// NewFixtures creates a new fixtures factory
func NewFixtures(db *database.DB) *Fixtures {
	return &Fixtures{db: db}
}

// UserOption configures a test user
type UserOption func(*models.User)

func WithDisplayName(name string) UserOption {
	return func(u *models.User) { u.DisplayName = name }
}

func WithIdentity(provider, subject string) UserOption {
	return func(u *models.User) {
		u.OAuthProvider = provider
		u.OAuthSubject = subject
	}
}

// CreateUser creates a test user with default values
func (f *Fixtures) CreateUser(t *testing.T, opts ...UserOption) *models.User {
	t.Helper()
	f.counter++

	user := &models.User{
		Email:         fmt.Sprintf("user%d@example.com", f.counter),
		DisplayName:   fmt.Sprintf("Test User %d", f.counter),
		OAuthProvider: "google",
		OAuthSubject:  fmt.Sprintf("subject-%d", f.counter),
	}

	for _, opt := range opts {
		opt(user)
	}

	err := f.db.Pool.QueryRow(context.Background(), `
		INSERT INTO users (email, display_name, oauth_provider, oauth_subject)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, user.Email, user.DisplayName, user.OAuthProvider, user.OAuthSubject).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user
}

// DocumentOption configures a test document
type DocumentOption func(*models.Document)

func WithTitle(title string) DocumentOption {
	return func(d *models.Document) { d.Title = &title }
}

// CreateDocument creates a completed text document owned by owner
func (f *Fixtures) CreateDocument(t *testing.T, owner *models.User, opts ...DocumentOption) *models.Document {
	t.Helper()
	f.counter++

	title := fmt.Sprintf("Document %d", f.counter)
	doc := &models.Document{
		UserID:    owner.ID,
		Title:     &title,
		InputType: "text",
		Status:    models.DocumentStatusComplete,
	}

	for _, opt := range opts {
		opt(doc)
	}

	err := f.db.Pool.QueryRow(context.Background(), `
		INSERT INTO documents (user_id, title, document_type, input_type, original_filename, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, doc.UserID, doc.Title, doc.DocumentType, doc.InputType, doc.OriginalFilename, doc.Status).Scan(&doc.ID, &doc.CreatedAt)
	if err != nil {
		t.Fatalf("failed to create document: %v", err)
	}

	return doc
}

// CreateSummary attaches a generated summary to doc
func (f *Fixtures) CreateSummary(t *testing.T, doc *models.Document, plain string, keyFacts []string) *models.DocumentSummary {
	t.Helper()

	facts, err := json.Marshal(keyFacts)
	if err != nil {
		t.Fatalf("failed to encode key facts: %v", err)
	}

	summary := &models.DocumentSummary{
		DocumentID:   doc.ID,
		PlainSummary: &plain,
		KeyFacts:     facts,
		FlaggedTerms: json.RawMessage(`[]`),
	}

	err = f.db.Pool.QueryRow(context.Background(), `
		INSERT INTO document_summaries (document_id, plain_summary, key_facts, flagged_terms)
		VALUES ($1, $2, $3, $4)
		RETURNING id, generated_at
	`, summary.DocumentID, summary.PlainSummary, []byte(summary.KeyFacts), []byte(summary.FlaggedTerms)).Scan(&summary.ID, &summary.GeneratedAt)
	if err != nil {
		t.Fatalf("failed to create summary: %v", err)
	}

	return summary
}
