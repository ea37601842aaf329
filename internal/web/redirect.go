package web

import (
	"net/http"
	"strings"

	"github.com/jargoyle/jargoyle/pkg/authstate"
)

// serverPrefixes are handled by the API router and never redirected.
var serverPrefixes = []string{"/api/", "/oauth2/", "/login/oauth2/"}

// RedirectUnmatched sends page navigations to paths other than the root back
// to the root. The decision does not depend on the session, so it runs
// before any session lookup.
func RedirectUnmatched(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			next.ServeHTTP(w, r)
			return
		}
		for _, p := range serverPrefixes {
			if strings.HasPrefix(r.URL.Path, p) {
				next.ServeHTTP(w, r)
				return
			}
		}

		route := Resolve(r.URL.Path, authstate.State{Status: authstate.Unauthenticated})
		if route.Kind == RouteRedirect {
			http.Redirect(w, r, route.Location, http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}
