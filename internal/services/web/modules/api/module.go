// Package api serves the JSON API: a HAL home document and the bearer-token
// protected principal endpoint.
package api

import (
	"errors"
	"net/http"
	"strings"

	module "github.com/sazzer/newlanding/internal/services/web/module"
	"github.com/sazzer/newlanding/internal/services/web/routepath"
)

const (
	defaultName    = "newlanding"
	defaultVersion = "0.1.0"
)

// Config carries the API collaborators.
type Config struct {
	Verifier TokenVerifier
	Name     string
	Version  string
}

// Module provides the /api/ routes.
type Module struct {
	cfg Config
}

// New returns the API module.
func New(cfg Config) Module {
	return Module{cfg: cfg}
}

// ID returns a stable identifier for diagnostics and startup logs.
func (Module) ID() string {
	return "api"
}

// Mount wires the API routes behind the bearer authorizer.
func (m Module) Mount() (module.Mount, error) {
	if m.cfg.Verifier == nil {
		return module.Mount{}, errors.New("access token verifier is required")
	}
	h := handlers{
		name:    orDefault(m.cfg.Name, defaultName),
		version: orDefault(m.cfg.Version, defaultVersion),
	}
	mux := http.NewServeMux()
	registerRoutes(mux, h)
	return module.Mount{Prefix: routepath.APIPrefix, Handler: authorize(m.cfg.Verifier)(mux)}, nil
}

func registerRoutes(mux *http.ServeMux, h handlers) {
	mux.HandleFunc(http.MethodGet+" "+routepath.APIPrefix+"{$}", h.handleHome)
	mux.HandleFunc(http.MethodGet+" "+routepath.APIMe, h.handleMe)
	mux.HandleFunc(routepath.APIPrefix, h.handleNotFound)
}

func orDefault(value, fallback string) string {
	if value = strings.TrimSpace(value); value != "" {
		return value
	}
	return fallback
}
