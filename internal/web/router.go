// Package web decides which view a path shows and renders it, as HTML for
// browsers and as text for the terminal client.
package web

import (
	"fmt"

	"github.com/jargoyle/jargoyle/pkg/authstate"
	"github.com/jargoyle/jargoyle/pkg/dto"
)

type RouteKind int

const (
	RouteRedirect RouteKind = iota
	RouteLoading
	RouteLogin
	RouteDashboard
)

func (k RouteKind) String() string {
	switch k {
	case RouteRedirect:
		return "redirect"
	case RouteLoading:
		return "loading"
	case RouteLogin:
		return "login"
	case RouteDashboard:
		return "dashboard"
	}
	return fmt.Sprintf("RouteKind(%d)", int(k))
}

const RootPath = "/"

type Route struct {
	Kind RouteKind
	// Location is set for RouteRedirect.
	Location string
	// User is set for RouteDashboard.
	User *dto.UserProfile
}

// Resolve is the single authentication checkpoint. Every path but the root
// redirects to the root whatever the state; the root branches on it.
func Resolve(path string, st authstate.State) Route {
	if path != RootPath && path != "" {
		return Route{Kind: RouteRedirect, Location: RootPath}
	}

	switch st.Status {
	case authstate.Loading:
		return Route{Kind: RouteLoading}
	case authstate.Authenticated:
		return Route{Kind: RouteDashboard, User: st.User}
	default:
		return Route{Kind: RouteLogin}
	}
}

// Follow resolves path and, for a redirect, the location it points to, so
// callers without a browser end up on the view the user would see.
func Follow(path string, st authstate.State) Route {
	r := Resolve(path, st)
	if r.Kind == RouteRedirect {
		return Resolve(r.Location, st)
	}
	return r
}
