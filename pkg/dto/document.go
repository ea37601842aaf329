package dto

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type DocumentSummaryResponse struct {
	PlainSummary string          `json:"plainSummary"`
	KeyFacts     json.RawMessage `json:"keyFacts,omitempty"`
	FlaggedTerms json.RawMessage `json:"flaggedTerms,omitempty"`
}

// DocumentListResponse is the slimmed-down row used by document listings.
type DocumentListResponse struct {
	ID           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	DocumentType string    `json:"documentType"`
	InputType    string    `json:"inputType"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
}

type DocumentResponse struct {
	ID               uuid.UUID                `json:"id"`
	Title            string                   `json:"title"`
	DocumentType     string                   `json:"documentType"`
	InputType        string                   `json:"inputType"`
	OriginalFilename string                   `json:"originalFilename"`
	Status           string                   `json:"status"`
	ErrorMessage     string                   `json:"errorMessage,omitempty"`
	Summary          *DocumentSummaryResponse `json:"summary"`
	CreatedAt        time.Time                `json:"createdAt"`
}

type DocumentPage struct {
	Items []DocumentListResponse `json:"items"`
	Page  int                    `json:"page"`
	Size  int                    `json:"size"`
	Total int                    `json:"total"`
}

// DocumentUpdateRequest patches a document; the id comes from the URL.
type DocumentUpdateRequest struct {
	Title        *string `json:"title,omitempty" validate:"omitempty,max=255"`
	DocumentType *string `json:"documentType,omitempty" validate:"omitempty,max=100"`
}

// DocumentListQuery holds the paging parameters of GET /api/documents.
// Pages are zero-based and capped at one million.
type DocumentListQuery struct {
	Page int `json:"page" validate:"gte=0,lte=1000000"`
	Size int `json:"size" validate:"gte=1,lte=100"`
}
