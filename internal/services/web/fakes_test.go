package web

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"time"

	"github.com/sazzer/newlanding/internal/services/web/identity"
)

type fakeProvider struct {
	mu          sync.Mutex
	beginStates []string
	endSessions []string
	refreshes   []string
	grant       identity.Grant
	refreshErr  error

	// rotateRefresh rejects a refresh token that was already redeemed.
	rotateRefresh bool
	redeemed      map[string]bool
	// refreshGate, when set, holds Refresh until it is closed.
	refreshGate chan struct{}
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{grant: identity.Grant{
		AccessToken:  "access-token",
		RefreshToken: "refresh-token",
		ExpiresAt:    time.Now().Add(time.Hour),
		User:         identity.User{Subject: "auth0|alice", Name: "Alice"},
	}}
}

func (p *fakeProvider) BeginLogin(state, _ string) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.beginStates = append(p.beginStates, state)
	return "https://tenant.example.test/authorize?state=" + url.QueryEscape(state)
}

func (p *fakeProvider) Exchange(context.Context, string, string) (identity.Grant, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.grant, nil
}

func (p *fakeProvider) Refresh(_ context.Context, refreshToken string) (identity.Grant, error) {
	p.mu.Lock()
	p.refreshes = append(p.refreshes, refreshToken)
	gate := p.refreshGate
	p.mu.Unlock()
	if gate != nil {
		<-gate
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.refreshErr != nil {
		return identity.Grant{}, p.refreshErr
	}
	if p.rotateRefresh {
		if p.redeemed[refreshToken] {
			return identity.Grant{}, errRefreshReused
		}
		if p.redeemed == nil {
			p.redeemed = make(map[string]bool)
		}
		p.redeemed[refreshToken] = true
	}
	return p.grant, nil
}

func (p *fakeProvider) EndSession(returnTo string) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.endSessions = append(p.endSessions, returnTo)
	return "https://tenant.example.test/v2/logout?returnTo=" + url.QueryEscape(returnTo)
}

func (p *fakeProvider) beginCalls() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.beginStates...)
}

func (p *fakeProvider) endSessionCalls() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.endSessions...)
}

func (p *fakeProvider) refreshCalls() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.refreshes...)
}

type fakeVerifier struct{}

func (fakeVerifier) Verify(_ context.Context, token string) (identity.SecurityContext, error) {
	if token != "good-token" {
		return identity.SecurityContext{}, identity.ErrParseToken
	}
	return identity.SecurityContext{Principal: "auth0|alice"}, nil
}

type fakeSweeper struct {
	mu    sync.Mutex
	calls int
	err   error
	swept chan struct{}
}

func (s *fakeSweeper) DeleteExpired(context.Context) (int64, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	select {
	case s.swept <- struct{}{}:
	default:
	}
	return 1, s.err
}

func (s *fakeSweeper) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

var (
	errSweep         = errors.New("sweep failed")
	errRefreshReused = errors.New("invalid_grant: refresh token reused")
)
