package models

import (
	"time"

	"github.com/google/uuid"
)

// Fallbacks for identities whose provider omits the claim.
const (
	UnknownDisplayName = "Unknown"
	UnsetEmail         = "notset"
)

type User struct {
	ID            uuid.UUID  `json:"id"`
	Email         string     `json:"email"`
	DisplayName   string     `json:"displayName"`
	OAuthProvider string     `json:"oauthProvider"`
	OAuthSubject  string     `json:"-"`
	CreatedAt     time.Time  `json:"createdAt"`
	LastLoginAt   *time.Time `json:"lastLoginAt,omitempty"`
}
