package session

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

var (
	ErrNoSession    = errors.New("no active session")
	ErrInvalidState = errors.New("oauth state mismatch")
)

const stateTTL = 10 * time.Minute

type Options struct {
	Secret string
	TTL    time.Duration
	Secure bool
}

// Manager ties the session cookie to the server-side Store and keeps the
// short-lived OAuth state in its own signed cookie.
type Manager struct {
	store  Store
	codec  *securecookie.SecureCookie
	states *sessions.CookieStore
	ttl    time.Duration
	cookie cookieOptions
	logger *zap.Logger
	now    func() time.Time
}

func NewManager(store Store, opts Options, logger *zap.Logger) *Manager {
	if opts.TTL <= 0 {
		opts.TTL = 24 * time.Hour
	}

	stateHash, stateBlock := deriveKeys("state/" + opts.Secret)
	states := sessions.NewCookieStore(stateHash, stateBlock)
	states.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	states.MaxAge(int(stateTTL.Seconds()))

	return &Manager{
		store:  store,
		codec:  newCodec(opts.Secret, opts.TTL),
		states: states,
		ttl:    opts.TTL,
		cookie: cookieOptions{Secure: opts.Secure},
		logger: logger,
		now:    time.Now,
	}
}

// Start creates a session for the user and writes the cookie.
func (m *Manager) Start(ctx context.Context, w http.ResponseWriter, userID uuid.UUID, provider, subject string) (*Session, error) {
	id, err := GenerateID()
	if err != nil {
		return nil, err
	}

	now := m.now()
	s := Session{
		ID:        id,
		UserID:    userID,
		Provider:  provider,
		Subject:   subject,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}
	if err := m.store.Create(ctx, s); err != nil {
		return nil, err
	}

	value, err := m.codec.Encode(CookieName, id)
	if err != nil {
		return nil, fmt.Errorf("session: failed to encode cookie: %w", err)
	}
	setCookie(w, value, s.ExpiresAt, m.cookie)

	return &s, nil
}

// Current resolves the request's session. Missing, tampered and expired
// cookies all yield ErrNoSession; any other error is a store failure.
func (m *Manager) Current(r *http.Request) (*Session, error) {
	id, ok := m.readID(r)
	if !ok {
		return nil, ErrNoSession
	}

	s, err := m.store.Get(r.Context(), id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, ErrNoSession
	}

	if s.Expired(m.now()) {
		if err := m.store.Delete(r.Context(), id); err != nil {
			m.logger.Warn("failed to delete expired session", zap.Error(err))
		}
		return nil, ErrNoSession
	}

	return s, nil
}

// Destroy deletes the stored session, if any, and always expires the cookie.
func (m *Manager) Destroy(w http.ResponseWriter, r *http.Request) error {
	defer clearCookie(w, m.cookie)

	id, ok := m.readID(r)
	if !ok {
		return nil
	}
	return m.store.Delete(r.Context(), id)
}

func (m *Manager) DeleteExpired(ctx context.Context) (int64, error) {
	return m.store.DeleteExpired(ctx, m.now())
}

func (m *Manager) readID(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}

	var id string
	if err := m.codec.Decode(CookieName, cookie.Value, &id); err != nil {
		m.logger.Debug("rejected session cookie", zap.Error(err))
		return "", false
	}
	return id, id != ""
}

// SaveOAuthState remembers the state parameter sent to provider.
func (m *Manager) SaveOAuthState(w http.ResponseWriter, r *http.Request, provider, state string) error {
	// On a stale or undecodable cookie Get still hands back a fresh session,
	// which simply replaces it.
	sess, err := m.states.Get(r, StateCookieName)
	if sess == nil {
		return fmt.Errorf("session: failed to load state cookie: %w", err)
	}

	sess.Values["provider"] = provider
	sess.Values["state"] = state
	return sess.Save(r, w)
}

// VerifyOAuthState checks state against the stored value and clears it, so a
// state can be used once.
func (m *Manager) VerifyOAuthState(w http.ResponseWriter, r *http.Request, provider, state string) error {
	sess, err := m.states.Get(r, StateCookieName)
	if err != nil || sess.IsNew {
		return ErrInvalidState
	}

	savedProvider, _ := sess.Values["provider"].(string)
	savedState, _ := sess.Values["state"].(string)

	sess.Options.MaxAge = -1
	if err := sess.Save(r, w); err != nil {
		m.logger.Warn("failed to clear oauth state cookie", zap.Error(err))
	}

	if state == "" || savedProvider != provider ||
		subtle.ConstantTimeCompare([]byte(savedState), []byte(state)) != 1 {
		return ErrInvalidState
	}
	return nil
}
