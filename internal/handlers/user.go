package handlers

import (
	"errors"

	"github.com/jargoyle/jargoyle/internal/middleware"
	"github.com/jargoyle/jargoyle/internal/services"
	"github.com/m1z23r/drift/pkg/drift"
	"go.uber.org/zap"
)

type UserHandler struct {
	userService UserServiceInterface
	logger      *zap.Logger
}

func NewUserHandler(userService UserServiceInterface, logger *zap.Logger) *UserHandler {
	return &UserHandler{userService: userService, logger: logger}
}

// GetMe answers "who am I" for the session's (provider, subject). It runs
// behind middleware.OptionalAuth and reports a missing session as 401.
func (h *UserHandler) GetMe(c *drift.Context) {
	s := middleware.GetSession(c)
	if s == nil {
		c.Unauthorized("not authenticated")
		return
	}

	user, err := h.userService.GetByProviderSubject(c.Request.Context(), s.Provider, s.Subject)
	if errors.Is(err, services.ErrUserNotFound) {
		c.Unauthorized("not authenticated")
		return
	}
	if err != nil {
		h.logger.Error("failed to load current user", zap.Stringer("user_id", s.UserID), zap.Error(err))
		c.InternalServerError("failed to load user")
		return
	}

	_ = c.JSON(200, toUserProfile(user))
}
