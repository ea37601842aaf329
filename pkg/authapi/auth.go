// Package authapi is the auth surface of the Jargoyle API.
package authapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/jargoyle/jargoyle/pkg/apiclient"
	"github.com/jargoyle/jargoyle/pkg/dto"
)

const (
	MePath     = "/auth/me"
	LogoutPath = "/auth/logout"

	// GoogleAuthPath starts the Google login. It lives outside the API
	// prefix and is reached by navigation, not through the client.
	GoogleAuthPath = "/oauth2/authorization/google"
)

// AuthorizationURL is the browser entry point for logging in with provider.
func AuthorizationURL(origin, provider string) string {
	return strings.TrimSuffix(origin, "/") + "/oauth2/authorization/" + provider
}

type API struct {
	client *apiclient.Client
}

func New(client *apiclient.Client) *API {
	return &API{client: client}
}

// FetchCurrentUser returns the profile behind the session cookie. A missing
// or expired session surfaces as *apiclient.HTTPError with status 401.
func (a *API) FetchCurrentUser(ctx context.Context) (*dto.UserProfile, error) {
	return apiclient.Request[dto.UserProfile](ctx, a.client, MePath, nil)
}

func (a *API) Logout(ctx context.Context) error {
	_, err := apiclient.Request[struct{}](ctx, a.client, LogoutPath, &apiclient.Options{Method: http.MethodPost})
	return err
}
