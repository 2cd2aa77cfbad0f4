package web

import (
	"context"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/sazzer/newlanding/internal/services/web/identity"
	"github.com/sazzer/newlanding/internal/services/web/platform/httpx"
	"github.com/sazzer/newlanding/internal/services/web/platform/sessioncookie"
	"github.com/sazzer/newlanding/internal/services/web/session"
	"golang.org/x/sync/singleflight"
)

type requestSessionState struct {
	once  sync.Once
	state session.State
}

type requestSessionStateKey struct{}

// sessionResolver turns the session cookie into the visitor state, refreshing
// an expired access token at most once per request. Concurrent requests for
// the same session share one refresh.
type sessionResolver struct {
	store     session.Store
	provider  identity.Provider
	now       func() time.Time
	refreshes *singleflight.Group
}

func newSessionResolver(store session.Store, provider identity.Provider, now func() time.Time) sessionResolver {
	if now == nil {
		now = time.Now
	}
	return sessionResolver{store: store, provider: provider, now: now, refreshes: &singleflight.Group{}}
}

// withRequestState memoizes the resolved state for the lifetime of a request.
func (r sessionResolver) withRequestState() httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := context.WithValue(req.Context(), requestSessionStateKey{}, &requestSessionState{})
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	}
}

func (r sessionResolver) resolveRequestState(req *http.Request) session.State {
	if req == nil {
		return session.LoggedOut{}
	}
	cached, ok := req.Context().Value(requestSessionStateKey{}).(*requestSessionState)
	if !ok || cached == nil {
		return r.resolveUncached(req)
	}
	cached.once.Do(func() {
		cached.state = r.resolveUncached(req)
	})
	return cached.state
}

func (r sessionResolver) resolveUncached(req *http.Request) session.State {
	if r.store == nil {
		return session.LoggedOut{}
	}
	sessionID, ok := sessioncookie.Read(req)
	if !ok {
		return session.LoggedOut{}
	}
	ctx := req.Context()
	record, found, err := r.store.Get(ctx, sessionID)
	if err != nil {
		log.Printf("load session: %v", err)
		return session.LoggedOut{}
	}
	if !found {
		return session.LoggedOut{}
	}
	if record.Expired(r.now()) {
		record, found = r.refresh(ctx, record.ID)
	}
	return session.Resolve(record, found, r.now())
}

// refresh renews an expired record through the identity provider, sharing
// the result with every request that races on the same session.
func (r sessionResolver) refresh(ctx context.Context, sessionID string) (session.Record, bool) {
	// The flight outlives whichever request started it.
	ctx = context.WithoutCancel(ctx)
	result, _, _ := r.refreshes.Do(sessionID, func() (any, error) {
		return r.refreshRecord(ctx, sessionID), nil
	})
	refreshed, _ := result.(refreshResult)
	return refreshed.record, refreshed.found
}

type refreshResult struct {
	record session.Record
	found  bool
}

// refreshRecord re-reads the session so a refresh that already landed is
// reused instead of replaying a rotated refresh token. A record that cannot be
// renewed is deleted.
func (r sessionResolver) refreshRecord(ctx context.Context, sessionID string) refreshResult {
	record, found, err := r.store.Get(ctx, sessionID)
	if err != nil {
		log.Printf("reload session: %v", err)
		return refreshResult{}
	}
	if !found {
		return refreshResult{}
	}
	if !record.Expired(r.now()) {
		return refreshResult{record: record, found: true}
	}
	if !record.CanRefresh() || r.provider == nil {
		r.discard(ctx, record.ID)
		return refreshResult{}
	}
	grant, err := r.provider.Refresh(ctx, record.RefreshToken)
	if err != nil {
		log.Printf("refresh session: %v", err)
		return r.discardIfUnchanged(ctx, record)
	}

	record.AccessToken = grant.AccessToken
	record.ExpiresAt = grant.ExpiresAt
	if strings.TrimSpace(grant.RefreshToken) != "" {
		record.RefreshToken = grant.RefreshToken
	}
	if grant.User.Subject != "" {
		record.Subject = grant.User.Subject
		record.DisplayName = grant.User.DisplayName()
	}
	if err := r.store.Update(ctx, record); err != nil {
		log.Printf("store refreshed session: %v", err)
		return refreshResult{}
	}
	return refreshResult{record: record, found: true}
}

// discardIfUnchanged deletes a session whose refresh failed, unless another
// process renewed it in the meantime.
func (r sessionResolver) discardIfUnchanged(ctx context.Context, failed session.Record) refreshResult {
	current, found, err := r.store.Get(ctx, failed.ID)
	if err != nil {
		log.Printf("reload session: %v", err)
		return refreshResult{}
	}
	if !found {
		return refreshResult{}
	}
	if current.RefreshToken != failed.RefreshToken {
		if current.Expired(r.now()) {
			return refreshResult{}
		}
		return refreshResult{record: current, found: true}
	}
	r.discard(ctx, failed.ID)
	return refreshResult{}
}

func (r sessionResolver) discard(ctx context.Context, sessionID string) {
	if err := r.store.Delete(ctx, sessionID); err != nil {
		log.Printf("delete session: %v", err)
	}
}
