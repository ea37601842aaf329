package server

import (
	"context"
	"net/http"
	"time"

	"github.com/jargoyle/jargoyle/internal/config"
	"github.com/jargoyle/jargoyle/internal/database"
	"github.com/jargoyle/jargoyle/internal/handlers"
	authmw "github.com/jargoyle/jargoyle/internal/middleware"
	"github.com/jargoyle/jargoyle/internal/services"
	"github.com/jargoyle/jargoyle/internal/session"
	"github.com/jargoyle/jargoyle/internal/web"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/m1z23r/drift/pkg/middleware"
	"go.uber.org/zap"
)

// Server holds the routed application and the session manager it shares
// with the background sweep.
type Server struct {
	handler  http.Handler
	sessions *session.Manager
	logger   *zap.Logger
}

// New routes the application. Sessions live in store; everything else is
// read from db.
func New(cfg *config.Config, db *database.DB, store session.Store, logger *zap.Logger) *Server {
	sessions := session.NewManager(store, session.Options{
		Secret: cfg.SessionSecret,
		TTL:    cfg.SessionTTL,
		Secure: cfg.IsProduction(),
	}, logger)

	userService := services.NewUserService(db)
	documentService := services.NewDocumentService(db)

	authHandler := handlers.NewAuthHandler(cfg, userService, sessions, logger)
	userHandler := handlers.NewUserHandler(userService, logger)
	documentHandler := handlers.NewDocumentHandler(documentService, logger)
	pageHandler := handlers.NewPageHandler(userService, sessions, authHandler.LoginPath(), logger)

	if authHandler.LoginPath() == "" {
		logger.Warn("no oauth provider configured, login is disabled")
	}

	app := drift.New()

	if cfg.IsProduction() {
		app.SetMode(drift.ReleaseMode)
	} else {
		app.SetMode(drift.DebugMode)
	}

	app.Use(middleware.Recovery())
	app.Use(authmw.RequestLogger(logger))
	app.Use(middleware.BodyParser())

	app.Get("/oauth2/authorization/:provider", authHandler.Authorize)
	app.Get("/login/oauth2/code/:provider", authHandler.Callback)

	api := app.Group("/api")

	api.Get("/health", func(c *drift.Context) {
		_ = c.JSON(200, map[string]string{"status": "ok"})
	})

	optional := api.Group("/auth")
	optional.Use(authmw.OptionalAuth(sessions))
	optional.Get("/me", userHandler.GetMe)

	protected := api.Group("")
	protected.Use(authmw.Auth(sessions))

	protected.Post("/auth/logout", authHandler.Logout)

	protected.Get("/documents", documentHandler.List)
	protected.Get("/documents/:id", documentHandler.Get)
	protected.Patch("/documents/:id", documentHandler.Update)
	protected.Delete("/documents/:id", documentHandler.Delete)

	pages := app.Group("")
	pages.Use(authmw.OptionalAuth(sessions))
	pages.Get("/", pageHandler.Root)
	app.Post(handlers.SignOutPath, pageHandler.SignOut)

	return &Server{
		handler:  web.RedirectUnmatched(app),
		sessions: sessions,
		logger:   logger,
	}
}

func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) Sessions() *session.Manager {
	return s.sessions
}

// SweepSessions deletes expired sessions every interval until ctx is done.
func (s *Server) SweepSessions(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.sessions.DeleteExpired(ctx)
			if err != nil {
				s.logger.Error("failed to delete expired sessions", zap.Error(err))
				continue
			}
			if n > 0 {
				s.logger.Info("deleted expired sessions", zap.Int64("count", n))
			}
		}
	}
}
