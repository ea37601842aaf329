package handlers

import (
	"net/http"

	"github.com/jargoyle/jargoyle/internal/models"
	"github.com/jargoyle/jargoyle/pkg/dto"
	"github.com/m1z23r/drift/pkg/drift"
)

func redirect(c *drift.Context, location string, code int) {
	http.Redirect(c.Response, c.Request, location, code)
	c.Abort()
}

func noContent(c *drift.Context) {
	c.Response.WriteHeader(http.StatusNoContent)
	c.Abort()
}

func toUserProfile(u *models.User) *dto.UserProfile {
	return &dto.UserProfile{
		ID:            u.ID.String(),
		Email:         u.Email,
		DisplayName:   u.DisplayName,
		OAuthProvider: u.OAuthProvider,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func toDocumentListResponse(d models.Document) dto.DocumentListResponse {
	return dto.DocumentListResponse{
		ID:           d.ID,
		Title:        deref(d.Title),
		DocumentType: deref(d.DocumentType),
		InputType:    d.InputType,
		Status:       d.Status,
		CreatedAt:    d.CreatedAt,
	}
}

func toDocumentResponse(d *models.Document, s *models.DocumentSummary) dto.DocumentResponse {
	resp := dto.DocumentResponse{
		ID:               d.ID,
		Title:            deref(d.Title),
		DocumentType:     deref(d.DocumentType),
		InputType:        d.InputType,
		OriginalFilename: deref(d.OriginalFilename),
		Status:           d.Status,
		ErrorMessage:     deref(d.ErrorMessage),
		CreatedAt:        d.CreatedAt,
	}
	if s != nil {
		resp.Summary = &dto.DocumentSummaryResponse{
			PlainSummary: deref(s.PlainSummary),
			KeyFacts:     s.KeyFacts,
			FlaggedTerms: s.FlaggedTerms,
		}
	}
	return resp
}
