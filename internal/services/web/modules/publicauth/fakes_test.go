package publicauth

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/sazzer/newlanding/internal/platform/i18n/catalog"
	"github.com/sazzer/newlanding/internal/services/shared/i18nhttp"
	"github.com/sazzer/newlanding/internal/services/web/identity"
	module "github.com/sazzer/newlanding/internal/services/web/module"
	"github.com/sazzer/newlanding/internal/services/web/session"
)

type beginCall struct {
	state    string
	verifier string
}

type exchangeCall struct {
	code     string
	verifier string
}

type fakeProvider struct {
	mu          sync.Mutex
	begins      []beginCall
	exchanges   []exchangeCall
	endSessions []string
	grant       identity.Grant
	exchangeErr error
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{grant: identity.Grant{
		AccessToken:  "access-token",
		RefreshToken: "refresh-token",
		ExpiresAt:    time.Now().Add(time.Hour),
		User:         identity.User{Subject: "auth0|alice", Name: "Alice"},
	}}
}

func (p *fakeProvider) BeginLogin(state, verifier string) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.begins = append(p.begins, beginCall{state: state, verifier: verifier})
	return "https://tenant.example.test/authorize?state=" + url.QueryEscape(state)
}

func (p *fakeProvider) Exchange(_ context.Context, code, verifier string) (identity.Grant, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.exchanges = append(p.exchanges, exchangeCall{code: code, verifier: verifier})
	if p.exchangeErr != nil {
		return identity.Grant{}, p.exchangeErr
	}
	return p.grant, nil
}

func (p *fakeProvider) Refresh(context.Context, string) (identity.Grant, error) {
	return identity.Grant{}, errors.New("refresh is not used by the auth routes")
}

func (p *fakeProvider) EndSession(returnTo string) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.endSessions = append(p.endSessions, returnTo)
	return "https://tenant.example.test/v2/logout?returnTo=" + url.QueryEscape(returnTo)
}

func (p *fakeProvider) beginCalls() []beginCall {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]beginCall(nil), p.begins...)
}

func (p *fakeProvider) exchangeCalls() []exchangeCall {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]exchangeCall(nil), p.exchanges...)
}

func (p *fakeProvider) endSessionCalls() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.endSessions...)
}

// fakeStore wraps the memory store with injectable failures.
type fakeStore struct {
	*session.MemoryStore
	createErr error
}

func (s *fakeStore) Create(ctx context.Context, record session.Record) (session.Record, error) {
	if s.createErr != nil {
		return session.Record{}, s.createErr
	}
	return s.MemoryStore.Create(ctx, record)
}

type harness struct {
	provider *fakeProvider
	store    *fakeStore
	pending  *session.PendingStore
	handler  http.Handler
}

func newHarness(t *testing.T, configure ...func(*Config)) *harness {
	t.Helper()
	h := &harness{
		provider: newFakeProvider(),
		store:    &fakeStore{MemoryStore: session.NewMemoryStore()},
		pending:  session.NewPendingStore(),
	}
	bundle, err := catalog.LoadEmbedded()
	if err != nil {
		t.Fatalf("load catalogs: %v", err)
	}
	deps := module.Dependencies{ResolveLocalizer: i18nhttp.NewResolver(bundle).Localize}
	cfg := Config{
		Provider:      h.provider,
		Sessions:      h.store,
		PendingLogins: h.pending,
	}
	for _, apply := range configure {
		apply(&cfg)
	}
	h.pending = cfg.PendingLogins
	mount, err := New(deps, cfg).Mount()
	if err != nil {
		t.Fatalf("Mount() error = %v", err)
	}
	h.handler = mount.Handler
	return h
}
