package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/jargoyle/jargoyle/internal/session"
	"github.com/jargoyle/jargoyle/internal/web"
	"github.com/jargoyle/jargoyle/pkg/apiclient"
	"github.com/jargoyle/jargoyle/pkg/authapi"
	"github.com/jargoyle/jargoyle/pkg/authstate"
	"github.com/jargoyle/jargoyle/pkg/docapi"
	"github.com/jargoyle/jargoyle/pkg/query"
)

// Settings is the resolved CLI configuration.
type Settings struct {
	Server   string
	Session  string
	Provider string
	Timeout  time.Duration
}

// App wires the client SDK for one CLI invocation.
type App struct {
	settings Settings
	client   *apiclient.Client
	queries  *query.Client
	auth     *authstate.Auth
	docs     *docapi.API
}

func NewApp(s Settings) (*App, error) {
	if s.Provider == "" {
		s.Provider = defaultProvider
	}
	opts := []apiclient.Option{apiclient.WithTimeout(s.Timeout)}
	if s.Session != "" {
		opts = append(opts, apiclient.WithSessionCookie(session.CookieName, s.Session))
	}

	client, err := apiclient.New(s.Server, opts...)
	if err != nil {
		return nil, fmt.Errorf("invalid server: %w", err)
	}

	queries := query.NewClient()
	return &App{
		settings: s,
		client:   client,
		queries:  queries,
		auth:     authstate.New(queries, authapi.New(client)),
		docs:     docapi.New(client),
	}, nil
}

func (a *App) context(parent context.Context) (context.Context, context.CancelFunc) {
	if a.settings.Timeout <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, a.settings.Timeout)
}

func (a *App) page() web.Page {
	return web.Page{
		LoginURL:      authapi.AuthorizationURL(a.client.Origin(), a.settings.Provider),
		SignOutAction: "jargoyle-cli logout",
	}
}

// Show resolves path against the current session and renders the view.
func (a *App) Show(ctx context.Context, w io.Writer, path string) (web.Route, error) {
	ctx, cancel := a.context(ctx)
	defer cancel()

	route := web.Follow(path, a.auth.Load(ctx))
	return route, web.RenderText(w, route, a.page())
}

// Logout signs the session out and renders the view that follows.
func (a *App) Logout(ctx context.Context, w io.Writer) error {
	ctx, cancel := a.context(ctx)
	defer cancel()

	if st := a.auth.Load(ctx); !st.IsAuthenticated() {
		return errNotSignedIn
	}
	if err := a.auth.Logout(ctx); err != nil {
		return err
	}
	// The profile is gone from the cache, so this asks the server again.
	return web.RenderText(w, web.Follow(web.RootPath, a.auth.Load(ctx)), a.page())
}

func (a *App) WhoAmI(ctx context.Context) (authstate.State, error) {
	ctx, cancel := a.context(ctx)
	defer cancel()

	st := a.auth.Load(ctx)
	if !st.IsAuthenticated() {
		return st, errNotSignedIn
	}
	return st, nil
}

func (a *App) LoginURL() string {
	return a.page().LoginURL
}
