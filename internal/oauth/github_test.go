package oauth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jargoyle/jargoyle/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func newTokenServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"test-token","token_type":"Bearer"}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testGitHubProvider(tokenURL, apiURL string) *GitHubProvider {
	return &GitHubProvider{
		config: &oauth2.Config{
			ClientID:     "test-client-id",
			ClientSecret: "test-secret",
			Endpoint: oauth2.Endpoint{
				AuthURL:  tokenURL + "/authorize",
				TokenURL: tokenURL + "/token",
			},
		},
		apiURL: apiURL,
	}
}

func TestGitHubProvider_Name(t *testing.T) {
	provider := NewGitHubProvider(config.OAuthConfig{})
	assert.Equal(t, "github", provider.Name())
}

func TestGitHubProvider_GetConsentURL(t *testing.T) {
	provider := NewGitHubProvider(config.OAuthConfig{
		ClientID:    "test-client-id",
		RedirectURL: "http://localhost/callback",
	})

	url := provider.GetConsentURL("test-state")

	assert.Contains(t, url, "github.com")
	assert.Contains(t, url, "client_id=test-client-id")
	assert.Contains(t, url, "state=test-state")
	assert.Contains(t, url, "redirect_uri=http")
}

func TestGitHubProvider_ExchangeCode_Success(t *testing.T) {
	tokenServer := newTokenServer(t)

	apiServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		if r.URL.Path == "/user" {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id": 12345, "login": "testuser", "name": "Test User", "email": "test@example.com"}`))
		}
	}))
	defer apiServer.Close()

	provider := testGitHubProvider(tokenServer.URL, apiServer.URL)

	info, err := provider.ExchangeCode(context.Background(), "code")
	require.NoError(t, err)

	assert.Equal(t, "12345", info.Subject)
	assert.Equal(t, "test@example.com", info.Email)
	assert.Equal(t, "Test User", info.DisplayName)
	assert.Equal(t, "github", info.Provider)
}

func TestGitHubProvider_ExchangeCode_FallsBackToPrimaryEmailAndLogin(t *testing.T) {
	tokenServer := newTokenServer(t)

	apiServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/user":
			_, _ = w.Write([]byte(`{"id": 7, "login": "octo", "name": "", "email": ""}`))
		case "/user/emails":
			_, _ = w.Write([]byte(`[
				{"email": "old@example.com", "primary": false, "verified": true},
				{"email": "main@example.com", "primary": true, "verified": true}
			]`))
		}
	}))
	defer apiServer.Close()

	provider := testGitHubProvider(tokenServer.URL, apiServer.URL)

	info, err := provider.ExchangeCode(context.Background(), "code")
	require.NoError(t, err)

	assert.Equal(t, "7", info.Subject)
	assert.Equal(t, "main@example.com", info.Email)
	assert.Equal(t, "octo", info.DisplayName)
}

func TestGitHubProvider_ExchangeCode_APIError(t *testing.T) {
	tokenServer := newTokenServer(t)

	apiServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer apiServer.Close()

	provider := testGitHubProvider(tokenServer.URL, apiServer.URL)

	_, err := provider.ExchangeCode(context.Background(), "code")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 403")
}

func TestGitHubProvider_ExchangeCode_TokenError(t *testing.T) {
	tokenServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"bad_verification_code"}`))
	}))
	defer tokenServer.Close()

	provider := testGitHubProvider(tokenServer.URL, "http://unused")

	_, err := provider.ExchangeCode(context.Background(), "bad")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to exchange code")
}
