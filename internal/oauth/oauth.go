package oauth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
)

// UserInfo is the identity a provider hands back after a code exchange.
// Subject is the provider's stable user id ("sub"), not a display name.
type UserInfo struct {
	Subject     string
	Email       string
	DisplayName string
	Provider    string
}

type Provider interface {
	GetConsentURL(state string) string
	ExchangeCode(ctx context.Context, code string) (*UserInfo, error)
	Name() string
}

func GenerateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
