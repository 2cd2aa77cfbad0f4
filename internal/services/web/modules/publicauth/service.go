package publicauth

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/sazzer/newlanding/internal/services/web/identity"
	apperrors "github.com/sazzer/newlanding/internal/services/web/platform/errors"
	"github.com/sazzer/newlanding/internal/services/web/routepath"
	"github.com/sazzer/newlanding/internal/services/web/session"
	"golang.org/x/oauth2"
)

const (
	keyMissingCodeOrState = "error.auth.missing_code_or_state"
	keyInvalidState       = "error.auth.invalid_or_expired_state"
	keyProviderRejected   = "error.auth.provider_rejected"
	keyExchangeFailed     = "error.auth.exchange_failed"
	keySessionUnavailable = "error.auth.session_unavailable"
)

type service struct {
	provider identity.Provider
	sessions session.Store
	pending  *session.PendingStore
}

// callback holds the query parameters the provider redirects back with.
type callback struct {
	code             string
	state            string
	providerError    string
	errorDescription string
}

func newService(provider identity.Provider, sessions session.Store, pending *session.PendingStore) service {
	return service{provider: provider, sessions: sessions, pending: pending}
}

// beginLogin records a pending login and returns the provider authorize URL.
func (s service) beginLogin(returnTo string) (string, error) {
	verifier := oauth2.GenerateVerifier()
	state, err := s.pending.Begin(verifier, routepath.SafeReturnPath(returnTo))
	if errors.Is(err, session.ErrTooManyPending) {
		return "", apperrors.Wrap(apperrors.KindUnavailable, keySessionUnavailable, err)
	}
	if err != nil {
		return "", apperrors.Wrap(apperrors.KindUnknown, keySessionUnavailable, err)
	}
	return s.provider.BeginLogin(state, verifier), nil
}

// completeLogin exchanges the callback code and starts a session. The
// previous session, if any, is replaced.
func (s service) completeLogin(ctx context.Context, cb callback, previousSessionID string) (session.Record, string, error) {
	if providerError := strings.TrimSpace(cb.providerError); providerError != "" {
		return session.Record{}, "", apperrors.EK(apperrors.KindInvalidInput, keyProviderRejected,
			"identity provider rejected sign-in: "+providerError+" "+strings.TrimSpace(cb.errorDescription))
	}
	code := strings.TrimSpace(cb.code)
	state := strings.TrimSpace(cb.state)
	if code == "" || state == "" {
		return session.Record{}, "", apperrors.EK(apperrors.KindInvalidInput, keyMissingCodeOrState, "callback is missing code or state")
	}
	pending, ok := s.pending.Consume(state)
	if !ok {
		return session.Record{}, "", apperrors.EK(apperrors.KindInvalidInput, keyInvalidState, "login state is unknown or expired")
	}

	grant, err := s.provider.Exchange(ctx, code, pending.Verifier)
	if err != nil {
		return session.Record{}, "", apperrors.Wrap(apperrors.KindUpstream, keyExchangeFailed, err)
	}
	record, err := s.sessions.Create(ctx, session.Record{
		Subject:      grant.User.Subject,
		DisplayName:  grant.User.DisplayName(),
		AccessToken:  grant.AccessToken,
		RefreshToken: grant.RefreshToken,
		ExpiresAt:    grant.ExpiresAt,
	})
	if err != nil {
		return session.Record{}, "", apperrors.Wrap(apperrors.KindUnknown, keySessionUnavailable, err)
	}
	if previousSessionID != "" {
		s.endLocalSession(ctx, previousSessionID)
	}
	return record, routepath.SafeReturnPath(pending.ReturnTo), nil
}

// logout ends the local session and returns the provider sign-out URL that
// lands the browser back on origin.
func (s service) logout(ctx context.Context, sessionID string, origin string) string {
	if sessionID != "" {
		s.endLocalSession(ctx, sessionID)
	}
	return s.provider.EndSession(origin)
}

func (s service) endLocalSession(ctx context.Context, sessionID string) {
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		log.Printf("delete session: %v", err)
	}
}
