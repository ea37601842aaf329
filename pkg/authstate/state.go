// Package authstate derives the login state of the client from the cached
// "who am I" query.
package authstate

import (
	"fmt"

	"github.com/jargoyle/jargoyle/pkg/dto"
)

type Status int

const (
	Loading Status = iota
	Authenticated
	Unauthenticated
)

func (s Status) String() string {
	switch s {
	case Loading:
		return "loading"
	case Authenticated:
		return "authenticated"
	case Unauthenticated:
		return "unauthenticated"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// State is never stored; it is recomputed from the cache on every read.
// User is set only when Status is Authenticated.
type State struct {
	Status Status
	User   *dto.UserProfile
}

func (s State) IsAuthenticated() bool {
	return s.Status == Authenticated
}

func NewAuthenticated(user *dto.UserProfile) State {
	return Derive(false, nil, user)
}

// Derive maps a query result onto a State. Any error collapses to
// Unauthenticated, whether it was a 401 or an outage.
func Derive(loading bool, err error, user *dto.UserProfile) State {
	switch {
	case loading:
		return State{Status: Loading}
	case err != nil:
		return State{Status: Unauthenticated}
	case user != nil:
		return State{Status: Authenticated, User: user}
	default:
		return State{Status: Unauthenticated}
	}
}
