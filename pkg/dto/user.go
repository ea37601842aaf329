package dto

// UserProfile is the public representation served by GET /api/auth/me.
// Internal fields such as the provider subject and timestamps are omitted.
type UserProfile struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	DisplayName   string `json:"displayName"`
	OAuthProvider string `json:"oauthProvider"`
}
