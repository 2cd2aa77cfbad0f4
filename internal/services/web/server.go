package web

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sazzer/newlanding/internal/platform/i18n/catalog"
	"github.com/sazzer/newlanding/internal/services/shared/i18nhttp"
	"github.com/sazzer/newlanding/internal/services/web/app"
	"github.com/sazzer/newlanding/internal/services/web/identity"
	module "github.com/sazzer/newlanding/internal/services/web/module"
	"github.com/sazzer/newlanding/internal/services/web/modules"
	"github.com/sazzer/newlanding/internal/services/web/modules/api"
	"github.com/sazzer/newlanding/internal/services/web/modules/publicauth"
	"github.com/sazzer/newlanding/internal/services/web/platform/httpx"
	"github.com/sazzer/newlanding/internal/services/web/platform/observability"
	"github.com/sazzer/newlanding/internal/services/web/platform/requestmeta"
	"github.com/sazzer/newlanding/internal/services/web/routepath"
	"github.com/sazzer/newlanding/internal/services/web/session"
	"github.com/sazzer/newlanding/internal/services/web/static"
)

// Config defines the inputs for the web server.
type Config struct {
	HTTPAddr string
	// PublicURL is the externally visible origin; the login callback is
	// derived from it.
	PublicURL string

	Auth0Domain       string
	Auth0ClientID     string
	Auth0ClientSecret string
	Auth0Audience     string

	// SessionDBPath selects the SQLite session store. Empty keeps sessions
	// in memory.
	SessionDBPath       string
	TrustForwardedProto bool

	AppName    string
	AppVersion string
}

// Server hosts the web HTTP server.
type Server struct {
	httpAddr   string
	httpServer *http.Server
	closers    []func() error

	sweepers []sweepWorker
}

// handlerDependencies carries the collaborators of the root handler.
type handlerDependencies struct {
	provider      identity.Provider
	verifier      api.TokenVerifier
	sessions      session.Store
	pendingLogins *session.PendingStore
	bundle        *catalog.Bundle
	now           func() time.Time
}

// newHandler builds the root handler: static assets plus the composed
// modules, with request correlation, access logging, panic recovery and
// per-request session state around everything.
func newHandler(config Config, deps handlerDependencies) (http.Handler, error) {
	if deps.sessions == nil {
		return nil, errors.New("session store is required")
	}
	bundle := deps.bundle
	if bundle == nil {
		loaded, err := catalog.LoadEmbedded()
		if err != nil {
			return nil, fmt.Errorf("load locale catalogs: %w", err)
		}
		bundle = loaded
	}

	policy := requestmeta.SchemePolicy{TrustForwardedProto: config.TrustForwardedProto}
	resolver := newSessionResolver(deps.sessions, deps.provider, deps.now)
	localizer := i18nhttp.NewResolver(bundle)

	root, err := app.Compose(app.ComposeInput{
		Modules: modules.DefaultModules(modules.Dependencies{
			Shared: module.Dependencies{
				ResolveState:     resolver.resolveRequestState,
				ResolveLocalizer: localizer.Localize,
			},
			Auth: publicauth.Config{
				Provider:      deps.provider,
				Sessions:      deps.sessions,
				PendingLogins: deps.pendingLogins,
				RequestMeta:   policy,
				PublicOrigin:  publicOrigin(config.PublicURL),
			},
			API: api.Config{
				Verifier: deps.verifier,
				Name:     config.AppName,
				Version:  config.AppVersion,
			},
		}),
		RequestSchemePolicy: policy,
	})
	if err != nil {
		return nil, fmt.Errorf("compose modules: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle(routepath.StaticPrefix, staticHandler())
	mux.Handle(routepath.Root, root)

	return httpx.Chain(mux,
		httpx.RequestID(),
		observability.RequestLogger(nil),
		httpx.RecoverPanic(),
		resolver.withRequestState(),
	), nil
}

func staticHandler() http.Handler {
	return http.StripPrefix(routepath.StaticPrefix, http.FileServer(http.FS(static.FS)))
}
