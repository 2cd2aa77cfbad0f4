package identity

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	// ErrFetchKeys is returned when the provider's signing keys cannot be loaded.
	ErrFetchKeys = errors.New("failed to fetch JWK keys")
	// ErrParseToken is returned when a token fails parsing or validation.
	ErrParseToken = errors.New("failed to parse token")
	// ErrExchange is returned when the provider rejects an authorization code.
	ErrExchange = errors.New("failed to exchange authorization code")
	// ErrRefresh is returned when the provider rejects a refresh token.
	ErrRefresh = errors.New("failed to refresh tokens")
)

// Provider is the identity provider as seen by the web service.
type Provider interface {
	// BeginLogin returns the provider URL the browser is redirected to.
	BeginLogin(state, verifier string) string
	// Exchange completes a login redirect.
	Exchange(ctx context.Context, code, verifier string) (Grant, error)
	// Refresh trades a refresh token for a new grant.
	Refresh(ctx context.Context, refreshToken string) (Grant, error)
	// EndSession returns the provider URL that ends the provider session and
	// sends the browser back to returnTo.
	EndSession(returnTo string) string
}

// Grant is the result of a successful exchange or refresh.
type Grant struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
	// User is zero when the token response carried no ID token.
	User User
}

// User is the profile read from a verified ID token.
type User struct {
	Subject  string
	Name     string
	Nickname string
	Email    string
}

// DisplayName picks the friendliest non-empty name for the user.
func (u User) DisplayName() string {
	for _, candidate := range []string{u.Name, u.Nickname, u.Email, u.Subject} {
		if trimmed := strings.TrimSpace(candidate); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

// Principal identifies the subject of an access token.
type Principal string

// SecurityContext describes a verified access token.
type SecurityContext struct {
	Principal Principal
	IssuedAt  time.Time
	ExpiresAt time.Time
}
