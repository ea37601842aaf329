package middleware

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/jargoyle/jargoyle/internal/session"
	"github.com/m1z23r/drift/pkg/drift"
)

const (
	UserIDKey  = "user_id"
	SessionKey = "session"
)

// SessionResolver is the part of session.Manager the middleware needs.
type SessionResolver interface {
	Current(r *http.Request) (*session.Session, error)
}

// Auth rejects requests without a live session.
func Auth(sessions SessionResolver) drift.HandlerFunc {
	return func(c *drift.Context) {
		s, err := sessions.Current(c.Request)
		if errors.Is(err, session.ErrNoSession) {
			c.Unauthorized("not authenticated")
			return
		}
		if err != nil {
			c.InternalServerError("failed to load session")
			return
		}

		c.Set(UserIDKey, s.UserID)
		c.Set(SessionKey, s)
		c.Next()
	}
}

// OptionalAuth attaches the session when there is one and lets every request
// through. Handlers decide what an anonymous caller gets.
func OptionalAuth(sessions SessionResolver) drift.HandlerFunc {
	return func(c *drift.Context) {
		if s, err := sessions.Current(c.Request); err == nil {
			c.Set(UserIDKey, s.UserID)
			c.Set(SessionKey, s)
		}
		c.Next()
	}
}

func GetUserID(c *drift.Context) uuid.UUID {
	if id, ok := c.Get(UserIDKey); ok {
		if uid, ok := id.(uuid.UUID); ok {
			return uid
		}
	}
	return uuid.Nil
}

func GetSession(c *drift.Context) *session.Session {
	if v, ok := c.Get(SessionKey); ok {
		if s, ok := v.(*session.Session); ok {
			return s
		}
	}
	return nil
}
