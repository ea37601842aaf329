package handlers

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/jargoyle/jargoyle/internal/config"
	"github.com/jargoyle/jargoyle/internal/middleware"
	"github.com/jargoyle/jargoyle/internal/oauth"
	"github.com/m1z23r/drift/pkg/drift"
	"go.uber.org/zap"
)

const exchangeTimeout = 30 * time.Second

// Error codes appended to the root URL when a login fails.
const (
	errUnsupportedProvider = "unsupported_provider"
	errInvalidState        = "invalid_state"
	errMissingCode         = "missing_code"
	errExchangeFailed      = "exchange_failed"
	errUserFailed          = "user_failed"
	errSessionFailed       = "session_failed"
)

type AuthHandler struct {
	cfg         *config.Config
	providers   map[string]oauth.Provider
	userService UserServiceInterface
	sessions    SessionManagerInterface
	logger      *zap.Logger
}

func NewAuthHandler(
	cfg *config.Config,
	userService UserServiceInterface,
	sessions SessionManagerInterface,
	logger *zap.Logger,
) *AuthHandler {
	h := &AuthHandler{
		cfg:         cfg,
		providers:   make(map[string]oauth.Provider),
		userService: userService,
		sessions:    sessions,
		logger:      logger,
	}

	if cfg.Google.ClientID != "" {
		var opts []oauth.GoogleOption
		if cfg.IsDevelopment() {
			opts = append(opts, oauth.WithAccountChooser())
		}
		h.providers["google"] = oauth.NewGoogleProvider(cfg.Google, opts...)
	}
	if cfg.GitHub.ClientID != "" {
		h.providers["github"] = oauth.NewGitHubProvider(cfg.GitHub)
	}

	return h
}

// LoginPath is the authorization entry point of the preferred configured
// provider, or empty when none is configured.
func (h *AuthHandler) LoginPath() string {
	for _, name := range []string{"google", "github"} {
		if _, ok := h.providers[name]; ok {
			return "/oauth2/authorization/" + name
		}
	}
	return ""
}

// Authorize sends the browser to the provider's consent screen.
func (h *AuthHandler) Authorize(c *drift.Context) {
	provider := c.Param("provider")

	p, ok := h.providers[provider]
	if !ok {
		c.BadRequest("unsupported provider: " + provider)
		return
	}

	state, err := oauth.GenerateState()
	if err != nil {
		c.InternalServerError("failed to generate state")
		return
	}

	if err := h.sessions.SaveOAuthState(c.Response, c.Request, provider, state); err != nil {
		h.logger.Error("failed to save oauth state", zap.String("provider", provider), zap.Error(err))
		c.InternalServerError("failed to save state")
		return
	}

	redirect(c, p.GetConsentURL(state), http.StatusFound)
}

// Callback completes the login: it checks state, exchanges the code, loads or
// creates the user, and starts a session.
func (h *AuthHandler) Callback(c *drift.Context) {
	provider := c.Param("provider")

	p, ok := h.providers[provider]
	if !ok {
		h.redirectWithError(c, errUnsupportedProvider)
		return
	}

	if providerErr := c.QueryParam("error"); providerErr != "" {
		h.logger.Info("provider denied login", zap.String("provider", provider), zap.String("error", providerErr))
		h.redirectWithError(c, providerErr)
		return
	}

	if err := h.sessions.VerifyOAuthState(c.Response, c.Request, provider, c.QueryParam("state")); err != nil {
		h.logger.Warn("oauth state rejected", zap.String("provider", provider), zap.Error(err))
		h.redirectWithError(c, errInvalidState)
		return
	}

	code := c.QueryParam("code")
	if code == "" {
		h.redirectWithError(c, errMissingCode)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), exchangeTimeout)
	defer cancel()

	userInfo, err := p.ExchangeCode(ctx, code)
	if err != nil {
		h.logger.Error("oauth code exchange failed", zap.String("provider", provider), zap.Error(err))
		h.redirectWithError(c, errExchangeFailed)
		return
	}

	user, err := h.userService.FindOrCreateFromOAuth(ctx, userInfo)
	if err != nil {
		h.logger.Error("failed to load oauth user", zap.String("provider", provider), zap.Error(err))
		h.redirectWithError(c, errUserFailed)
		return
	}

	if _, err := h.sessions.Start(ctx, c.Response, user.ID, userInfo.Provider, userInfo.Subject); err != nil {
		h.logger.Error("failed to start session", zap.Stringer("user_id", user.ID), zap.Error(err))
		h.redirectWithError(c, errSessionFailed)
		return
	}

	h.logger.Info("user logged in", zap.Stringer("user_id", user.ID), zap.String("provider", provider))
	redirect(c, h.cfg.OAuthSuccessURL, http.StatusFound)
}

// Logout ends the caller's session. It sits behind middleware.Auth, so an
// anonymous call never gets here.
func (h *AuthHandler) Logout(c *drift.Context) {
	if err := h.sessions.Destroy(c.Response, c.Request); err != nil {
		h.logger.Error("failed to destroy session", zap.Stringer("user_id", middleware.GetUserID(c)), zap.Error(err))
		c.InternalServerError("failed to log out")
		return
	}
	noContent(c)
}

func (h *AuthHandler) redirectWithError(c *drift.Context, code string) {
	redirect(c, "/?error="+url.QueryEscape(code), http.StatusFound)
}
