// Package session models visitor sessions and the authentication state the
// page chrome renders from them.
package session

import (
	"fmt"
	"strings"
	"time"
)

// State is the authentication status of a visitor. It is a closed union:
// LoggedOut and LoggedIn are its only variants, and renderers switch over it
// exhaustively.
type State interface {
	isState()
}

// LoggedOut is a visitor without a usable session.
type LoggedOut struct{}

// LoggedIn is a visitor with a live session.
type LoggedIn struct {
	Name string
}

func (LoggedOut) isState() {}
func (LoggedIn) isState()  {}

// IsAuthenticated reports whether the state carries a signed-in user.
func IsAuthenticated(state State) bool {
	switch state.(type) {
	case LoggedIn:
		return true
	case LoggedOut, nil:
		return false
	default:
		panic(fmt.Sprintf("session: unhandled state %T", state))
	}
}

// Record is a stored web session. The session cookie carries only ID.
type Record struct {
	ID           string
	Subject      string
	DisplayName  string
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
	CreatedAt    time.Time
}

// Expired reports whether the access token is past its expiry.
func (r Record) Expired(now time.Time) bool {
	return !r.ExpiresAt.IsZero() && !now.Before(r.ExpiresAt)
}

// CanRefresh reports whether the record holds a refresh token.
func (r Record) CanRefresh() bool {
	return strings.TrimSpace(r.RefreshToken) != ""
}

// Resolve maps a record onto the visitor state. A record whose access token
// has expired is LoggedOut; callers refresh it first when they can.
func Resolve(record Record, found bool, now time.Time) State {
	if !found || record.Expired(now) {
		return LoggedOut{}
	}
	name := strings.TrimSpace(record.DisplayName)
	if name == "" {
		name = strings.TrimSpace(record.Subject)
	}
	if name == "" {
		return LoggedOut{}
	}
	return LoggedIn{Name: name}
}
