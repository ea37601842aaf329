package session

import (
	"crypto/sha256"
	"net/http"
	"time"

	"github.com/gorilla/securecookie"
)

const (
	CookieName      = "jargoyle_session"
	StateCookieName = "jargoyle_oauth"
)

// deriveKeys turns one secret into independent HMAC and AES-256 keys, so
// only SESSION_SECRET needs configuring.
func deriveKeys(secret string) (hashKey, blockKey []byte) {
	h := sha256.Sum256([]byte("jargoyle/hash/" + secret))
	b := sha256.Sum256([]byte("jargoyle/block/" + secret))
	return h[:], b[:]
}

func newCodec(secret string, maxAge time.Duration) *securecookie.SecureCookie {
	codec := securecookie.New(deriveKeys(secret))
	codec.MaxAge(int(maxAge.Seconds()))
	return codec
}

type cookieOptions struct {
	Secure bool
}

func setCookie(w http.ResponseWriter, value string, expiresAt time.Time, opts cookieOptions) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearCookie(w http.ResponseWriter, opts cookieOptions) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}
