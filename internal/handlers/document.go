package handlers

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jargoyle/jargoyle/internal/middleware"
	"github.com/jargoyle/jargoyle/internal/services"
	"github.com/jargoyle/jargoyle/pkg/dto"
	"github.com/m1z23r/drift/pkg/drift"
	"go.uber.org/zap"
)

const defaultPageSize = 20

type DocumentHandler struct {
	documentService DocumentServiceInterface
	validate        *validator.Validate
	logger          *zap.Logger
}

func NewDocumentHandler(documentService DocumentServiceInterface, logger *zap.Logger) *DocumentHandler {
	return &DocumentHandler{
		documentService: documentService,
		validate:        newValidator(),
		logger:          logger,
	}
}

func (h *DocumentHandler) List(c *drift.Context) {
	userID := middleware.GetUserID(c)

	q := dto.DocumentListQuery{Page: 0, Size: defaultPageSize}
	if v := c.QueryParam("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			c.BadRequest("page must be a number")
			return
		}
		q.Page = n
	}
	if v := c.QueryParam("size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			c.BadRequest("size must be a number")
			return
		}
		q.Size = n
	}
	if err := h.validate.Struct(q); err != nil {
		c.BadRequest(validationMessage(err))
		return
	}

	docs, total, err := h.documentService.List(c.Request.Context(), userID, q.Page, q.Size)
	if errors.Is(err, services.ErrInvalidPage) {
		c.BadRequest("page is out of range")
		return
	}
	if err != nil {
		h.logger.Error("failed to list documents", zap.Stringer("user_id", userID), zap.Error(err))
		c.InternalServerError("failed to list documents")
		return
	}

	items := make([]dto.DocumentListResponse, len(docs))
	for i, d := range docs {
		items[i] = toDocumentListResponse(d)
	}

	_ = c.JSON(200, dto.DocumentPage{
		Items: items,
		Page:  q.Page,
		Size:  q.Size,
		Total: total,
	})
}

func (h *DocumentHandler) Get(c *drift.Context) {
	userID := middleware.GetUserID(c)
	docID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.BadRequest("invalid document id")
		return
	}

	doc, summary, err := h.documentService.Get(c.Request.Context(), docID, userID)
	if errors.Is(err, services.ErrDocumentNotFound) {
		c.NotFound("document not found")
		return
	}
	if err != nil {
		h.logger.Error("failed to get document", zap.Stringer("document_id", docID), zap.Error(err))
		c.InternalServerError("failed to get document")
		return
	}

	_ = c.JSON(200, toDocumentResponse(doc, summary))
}

func (h *DocumentHandler) Update(c *drift.Context) {
	userID := middleware.GetUserID(c)
	docID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.BadRequest("invalid document id")
		return
	}

	var req dto.DocumentUpdateRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		c.BadRequest(validationMessage(err))
		return
	}

	ctx := c.Request.Context()
	if _, err := h.documentService.Update(ctx, docID, userID, req.Title, req.DocumentType); err != nil {
		if errors.Is(err, services.ErrDocumentNotFound) {
			c.NotFound("document not found")
			return
		}
		h.logger.Error("failed to update document", zap.Stringer("document_id", docID), zap.Error(err))
		c.InternalServerError("failed to update document")
		return
	}

	doc, summary, err := h.documentService.Get(ctx, docID, userID)
	if err != nil {
		c.InternalServerError("failed to load updated document")
		return
	}

	_ = c.JSON(200, toDocumentResponse(doc, summary))
}

func (h *DocumentHandler) Delete(c *drift.Context) {
	userID := middleware.GetUserID(c)
	docID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.BadRequest("invalid document id")
		return
	}

	err = h.documentService.Delete(c.Request.Context(), docID, userID)
	if errors.Is(err, services.ErrDocumentNotFound) {
		c.NotFound("document not found")
		return
	}
	if err != nil {
		h.logger.Error("failed to delete document", zap.Stringer("document_id", docID), zap.Error(err))
		c.InternalServerError("failed to delete document")
		return
	}

	noContent(c)
}
