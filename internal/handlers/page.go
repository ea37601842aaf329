package handlers

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/jargoyle/jargoyle/internal/middleware"
	"github.com/jargoyle/jargoyle/internal/services"
	"github.com/jargoyle/jargoyle/internal/web"
	"github.com/jargoyle/jargoyle/pkg/authstate"
	"github.com/m1z23r/drift/pkg/drift"
	"go.uber.org/zap"
)

// SignOutPath is the form target of the dashboard's sign-out control.
const SignOutPath = "/logout"

// PageHandler serves the browser views. The session is resolved on the
// server, so a page is never rendered in the loading state.
type PageHandler struct {
	userService UserServiceInterface
	sessions    SessionManagerInterface
	loginPath   string
	logger      *zap.Logger
}

func NewPageHandler(userService UserServiceInterface, sessions SessionManagerInterface, loginPath string, logger *zap.Logger) *PageHandler {
	return &PageHandler{
		userService: userService,
		sessions:    sessions,
		loginPath:   loginPath,
		logger:      logger,
	}
}

// Root renders the login page or the dashboard. It runs behind
// middleware.OptionalAuth.
func (h *PageHandler) Root(c *drift.Context) {
	route := web.Resolve(c.Request.URL.Path, h.state(c))
	if route.Kind == web.RouteRedirect {
		redirect(c, route.Location, http.StatusFound)
		return
	}

	var buf bytes.Buffer
	err := web.RenderHTML(&buf, route, web.Page{
		LoginURL:      h.loginPath,
		SignOutAction: SignOutPath,
		Error:         c.QueryParam("error"),
	})
	if err != nil {
		h.logger.Error("failed to render page", zap.Stringer("route", route.Kind), zap.Error(err))
		c.InternalServerError("failed to render page")
		return
	}

	_ = c.HTML(200, buf.String())
}

// SignOut is the browser form variant of the logout API: it clears the
// session and sends the user back to the root.
func (h *PageHandler) SignOut(c *drift.Context) {
	if err := h.sessions.Destroy(c.Response, c.Request); err != nil {
		h.logger.Error("failed to destroy session", zap.Error(err))
	}
	redirect(c, "/", http.StatusSeeOther)
}

func (h *PageHandler) state(c *drift.Context) authstate.State {
	s := middleware.GetSession(c)
	if s == nil {
		return authstate.Derive(false, nil, nil)
	}

	user, err := h.userService.GetByProviderSubject(c.Request.Context(), s.Provider, s.Subject)
	if err != nil {
		if !errors.Is(err, services.ErrUserNotFound) {
			h.logger.Error("failed to load session user", zap.Stringer("user_id", s.UserID), zap.Error(err))
		}
		return authstate.Derive(false, err, nil)
	}
	return authstate.NewAuthenticated(toUserProfile(user))
}
