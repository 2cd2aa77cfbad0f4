// Package publicauth runs the sign-in redirect, the provider callback and
// sign-out against the identity provider.
package publicauth

import (
	"errors"
	"net/http"

	"github.com/sazzer/newlanding/internal/services/web/identity"
	module "github.com/sazzer/newlanding/internal/services/web/module"
	"github.com/sazzer/newlanding/internal/services/web/platform/httpx"
	"github.com/sazzer/newlanding/internal/services/web/platform/requestmeta"
	"github.com/sazzer/newlanding/internal/services/web/routepath"
	"github.com/sazzer/newlanding/internal/services/web/session"
)

// Config carries the auth collaborators.
type Config struct {
	Provider      identity.Provider
	Sessions      session.Store
	PendingLogins *session.PendingStore
	RequestMeta   requestmeta.SchemePolicy
	// PublicOrigin is where sign-out returns the browser. Empty falls back
	// to the origin of the logout request.
	PublicOrigin string
}

// Module provides the /auth/ routes.
type Module struct {
	deps module.Dependencies
	cfg  Config
}

// New returns the auth module.
func New(deps module.Dependencies, cfg Config) Module {
	return Module{deps: deps, cfg: cfg}
}

// ID returns a stable identifier for diagnostics and startup logs.
func (Module) ID() string {
	return "publicauth"
}

// Mount wires the auth routes.
func (m Module) Mount() (module.Mount, error) {
	if m.cfg.Provider == nil {
		return module.Mount{}, errors.New("identity provider is required")
	}
	if m.cfg.Sessions == nil {
		return module.Mount{}, errors.New("session store is required")
	}
	pending := m.cfg.PendingLogins
	if pending == nil {
		pending = session.NewPendingStore()
	}
	svc := newService(m.cfg.Provider, m.cfg.Sessions, pending)
	mux := http.NewServeMux()
	registerRoutes(mux, newHandlers(m.deps, svc, m.cfg.RequestMeta, m.cfg.PublicOrigin))
	return module.Mount{Prefix: routepath.AuthPrefix, Handler: httpx.Chain(mux, httpx.NoStore())}, nil
}

func registerRoutes(mux *http.ServeMux, h handlers) {
	mux.HandleFunc(http.MethodGet+" "+routepath.AuthLogin, h.handleLogin)
	mux.HandleFunc(http.MethodGet+" "+routepath.AuthCallback, h.handleCallback)
	mux.HandleFunc(http.MethodPost+" "+routepath.AuthLogout, h.handleLogout)
	mux.HandleFunc(routepath.AuthPrefix, h.handleNotFound)
}
