package web

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sazzer/newlanding/internal/platform/timeouts"
	"github.com/sazzer/newlanding/internal/services/web/identity"
	"github.com/sazzer/newlanding/internal/services/web/routepath"
	"github.com/sazzer/newlanding/internal/services/web/session"
	websqlite "github.com/sazzer/newlanding/internal/services/web/storage/sqlite"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// NewServer builds a configured web server. The identity provider's signing
// keys refresh in the background until ctx ends.
func NewServer(ctx context.Context, config Config) (*Server, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	httpAddr := strings.TrimSpace(config.HTTPAddr)
	if httpAddr == "" {
		return nil, errors.New("http address is required")
	}
	callbackURL, err := callbackURL(config.PublicURL)
	if err != nil {
		return nil, err
	}

	domain := identity.Domain(config.Auth0Domain)
	client := &http.Client{
		Timeout:   timeouts.IdentityRequest,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
	keys := identity.NewKeyset(ctx, domain, client)
	provider, err := identity.NewAuth0(ctx, identity.Auth0Config{
		Domain:       domain,
		ClientID:     config.Auth0ClientID,
		ClientSecret: config.Auth0ClientSecret,
		Audience:     config.Auth0Audience,
		RedirectURL:  callbackURL,
		HTTPClient:   client,
		Keys:         keys,
	})
	if err != nil {
		return nil, fmt.Errorf("configure identity provider: %w", err)
	}
	verifier := identity.NewAccessTokenVerifier(keys, domain, config.Auth0Audience)

	server := &Server{httpAddr: httpAddr}
	var sessions sweepableSessionStore
	if path := strings.TrimSpace(config.SessionDBPath); path != "" {
		store, err := websqlite.Open(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("open session store: %w", err)
		}
		server.closers = append(server.closers, store.Close)
		sessions = store
	} else {
		log.Printf("no session database configured, sessions are kept in memory")
		sessions = session.NewMemoryStore()
	}
	pendingLogins := session.NewPendingStore()
	server.startSweepers(sessions, pendingLogins, sessionSweepInterval, pendingSweepInterval)

	handler, err := newHandler(config, handlerDependencies{
		provider:      provider,
		verifier:      verifier,
		sessions:      sessions,
		pendingLogins: pendingLogins,
	})
	if err != nil {
		server.Close()
		return nil, fmt.Errorf("build handler: %w", err)
	}
	server.httpServer = &http.Server{
		Addr:              httpAddr,
		Handler:           otelhttp.NewHandler(handler, "web"),
		ReadHeaderTimeout: timeouts.ReadHeader,
	}
	return server, nil
}

// sweepableSessionStore is a session store whose expired records can be
// pruned in bulk.
type sweepableSessionStore interface {
	session.Store
	expiredSessionSweeper
}

// startSweepers prunes expired sessions and abandoned logins until Close.
func (s *Server) startSweepers(sessions, pendingLogins expiredSessionSweeper, sessionEvery, pendingEvery time.Duration) {
	for _, target := range []struct {
		label string
		store expiredSessionSweeper
		every time.Duration
	}{
		{label: "session", store: sessions, every: sessionEvery},
		{label: "pending login", store: pendingLogins, every: pendingEvery},
	} {
		stop, done := startSessionSweeper(target.label, target.store, target.every)
		if stop == nil {
			continue
		}
		s.sweepers = append(s.sweepers, sweepWorker{stop: stop, done: done})
	}
}

// callbackURL resolves the absolute login callback below the public origin.
func callbackURL(publicURL string) (string, error) {
	base, err := parsePublicURL(publicURL)
	if err != nil {
		return "", err
	}
	return base.ResolveReference(&url.URL{Path: routepath.AuthCallback}).String(), nil
}

// publicOrigin returns the scheme and host of the public URL, or "" when it
// is not an absolute http(s) URL.
func publicOrigin(publicURL string) string {
	base, err := parsePublicURL(publicURL)
	if err != nil {
		return ""
	}
	return (&url.URL{Scheme: base.Scheme, Host: base.Host}).String()
}

func parsePublicURL(publicURL string) (*url.URL, error) {
	base, err := url.Parse(strings.TrimSpace(publicURL))
	if err != nil {
		return nil, fmt.Errorf("parse public url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" || base.Host == "" {
		return nil, fmt.Errorf("public url %q must be an absolute http(s) url", publicURL)
	}
	return base, nil
}

// ListenAndServe runs the HTTP server until the context ends.
//
// On cancellation, it performs a bounded shutdown so in-flight requests
// are drained before hard close.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil || s.httpServer == nil {
		return errors.New("web server is nil")
	}
	if ctx == nil {
		return errors.New("context is required")
	}

	serveErr := make(chan error, 1)
	log.Printf("web listening on %s", s.httpAddr)
	go func() {
		serveErr <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		err := s.httpServer.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}

// Close stops background workers and releases the session store.
func (s *Server) Close() {
	if s == nil {
		return
	}
	for _, worker := range s.sweepers {
		worker.stop()
		<-worker.done
	}
	s.sweepers = nil
	for _, closeFn := range s.closers {
		if err := closeFn(); err != nil {
			log.Printf("close web resource: %v", err)
		}
	}
	s.closers = nil
}
