package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/jargoyle/jargoyle/internal/config"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const googleUserInfoURL = "https://openidconnect.googleapis.com/v1/userinfo"

type GoogleProvider struct {
	config      *oauth2.Config
	userInfoURL string
	// accountChooser forces Google's account picker even when only one
	// session is active. Only enabled in development.
	accountChooser bool
}

type GoogleOption func(*GoogleProvider)

func WithAccountChooser() GoogleOption {
	return func(p *GoogleProvider) { p.accountChooser = true }
}

func NewGoogleProvider(cfg config.OAuthConfig, opts ...GoogleOption) *GoogleProvider {
	p := &GoogleProvider{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		userInfoURL: googleUserInfoURL,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *GoogleProvider) Name() string {
	return "google"
}

func (p *GoogleProvider) GetConsentURL(state string) string {
	if p.accountChooser {
		return p.config.AuthCodeURL(state, oauth2.SetAuthURLParam("prompt", "select_account"))
	}
	return p.config.AuthCodeURL(state)
}

func (p *GoogleProvider) ExchangeCode(ctx context.Context, code string) (*UserInfo, error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code: %w", err)
	}

	client := p.config.Client(ctx, token)

	resp, err := client.Get(p.userInfoURL)
	if err != nil {
		return nil, fmt.Errorf("failed to get user info: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google api returned status %d", resp.StatusCode)
	}

	var gUser struct {
		Sub   string `json:"sub"`
		Email string `json:"email"`
		Name  string `json:"name"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&gUser); err != nil {
		return nil, fmt.Errorf("failed to decode user info: %w", err)
	}

	return &UserInfo{
		Subject:     gUser.Sub,
		Email:       gUser.Email,
		DisplayName: gUser.Name,
		Provider:    p.Name(),
	}, nil
}
