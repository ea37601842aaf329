package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jargoyle/jargoyle/internal/database"
	"github.com/jargoyle/jargoyle/internal/models"
)

var (
	ErrDocumentNotFound = errors.New("document not found")
	ErrInvalidPage      = errors.New("invalid page")
)

type DocumentService struct {
	db *database.DB
}

func NewDocumentService(db *database.DB) *DocumentService {
	return &DocumentService{db: db}
}

// List returns one page of the user's documents, newest first, and the total
// number of documents the user owns. Pages are zero-based.
func (s *DocumentService) List(ctx context.Context, userID uuid.UUID, page, size int) ([]models.Document, int, error) {
	if page < 0 || size < 1 || page > math.MaxInt/size {
		return nil, 0, ErrInvalidPage
	}

	var total int
	if err := s.db.Pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM documents WHERE user_id = $1
	`, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count documents: %w", err)
	}

	rows, err := s.db.Pool.Query(ctx, `
		SELECT id, user_id, title, document_type, input_type, original_filename, status, error_message, created_at
		FROM documents
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, userID, size, page*size)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	docs := make([]models.Document, 0, size)
	for rows.Next() {
		var d models.Document
		if err := rows.Scan(&d.ID, &d.UserID, &d.Title, &d.DocumentType, &d.InputType,
			&d.OriginalFilename, &d.Status, &d.ErrorMessage, &d.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to list documents: %w", err)
	}

	return docs, total, nil
}

// Get loads a document owned by userID together with its summary, which is
// nil until one has been generated.
func (s *DocumentService) Get(ctx context.Context, id, userID uuid.UUID) (*models.Document, *models.DocumentSummary, error) {
	var (
		d            models.Document
		summaryID    *uuid.UUID
		plainSummary *string
		keyFacts     []byte
		flaggedTerms []byte
		generatedAt  *time.Time
	)

	err := s.db.Pool.QueryRow(ctx, `
		SELECT d.id, d.user_id, d.title, d.document_type, d.input_type, d.original_filename,
			d.status, d.error_message, d.created_at,
			s.id, s.plain_summary, s.key_facts, s.flagged_terms, s.generated_at
		FROM documents d
		LEFT JOIN document_summaries s ON s.document_id = d.id
		WHERE d.id = $1 AND d.user_id = $2
	`, id, userID).Scan(
		&d.ID, &d.UserID, &d.Title, &d.DocumentType, &d.InputType, &d.OriginalFilename,
		&d.Status, &d.ErrorMessage, &d.CreatedAt,
		&summaryID, &plainSummary, &keyFacts, &flaggedTerms, &generatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil, ErrDocumentNotFound
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get document: %w", err)
	}

	if summaryID == nil {
		return &d, nil, nil
	}

	summary := &models.DocumentSummary{
		ID:           *summaryID,
		DocumentID:   d.ID,
		PlainSummary: plainSummary,
		KeyFacts:     json.RawMessage(keyFacts),
		FlaggedTerms: json.RawMessage(flaggedTerms),
	}
	if generatedAt != nil {
		summary.GeneratedAt = *generatedAt
	}
	return &d, summary, nil
}

// Update changes the fields that are non-nil and leaves the rest untouched.
func (s *DocumentService) Update(ctx context.Context, id, userID uuid.UUID, title, documentType *string) (*models.Document, error) {
	var d models.Document
	err := s.db.Pool.QueryRow(ctx, `
		UPDATE documents
		SET title = COALESCE($3, title), document_type = COALESCE($4, document_type)
		WHERE id = $1 AND user_id = $2
		RETURNING id, user_id, title, document_type, input_type, original_filename, status, error_message, created_at
	`, id, userID, title, documentType).Scan(
		&d.ID, &d.UserID, &d.Title, &d.DocumentType, &d.InputType,
		&d.OriginalFilename, &d.Status, &d.ErrorMessage, &d.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrDocumentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update document: %w", err)
	}
	return &d, nil
}

// Delete removes the document; its summary goes with it via ON DELETE CASCADE.
func (s *DocumentService) Delete(ctx context.Context, id, userID uuid.UUID) error {
	tag, err := s.db.Pool.Exec(ctx, `
		DELETE FROM documents WHERE id = $1 AND user_id = $2
	`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrDocumentNotFound
	}
	return nil
}
