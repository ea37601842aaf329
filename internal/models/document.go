package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	DocumentStatusPending    = "pending"
	DocumentStatusProcessing = "processing"
	DocumentStatusComplete   = "complete"
	DocumentStatusFailed     = "failed"
)

type Document struct {
	ID               uuid.UUID `json:"id"`
	UserID           uuid.UUID `json:"userId"`
	Title            *string   `json:"title,omitempty"`
	DocumentType     *string   `json:"documentType,omitempty"`
	InputType        string    `json:"inputType"`
	OriginalFilename *string   `json:"originalFilename,omitempty"`
	Status           string    `json:"status"`
	ErrorMessage     *string   `json:"errorMessage,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
}

// DocumentSummary holds the generated summary of a document. KeyFacts and
// FlaggedTerms are stored as JSONB and passed through untouched.
type DocumentSummary struct {
	ID           uuid.UUID       `json:"id"`
	DocumentID   uuid.UUID       `json:"documentId"`
	PlainSummary *string         `json:"plainSummary,omitempty"`
	KeyFacts     json.RawMessage `json:"keyFacts,omitempty"`
	FlaggedTerms json.RawMessage `json:"flaggedTerms,omitempty"`
	GeneratedAt  time.Time       `json:"generatedAt"`
}
