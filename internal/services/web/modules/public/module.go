// Package public serves the landing page, the health check and the localized
// not-found fallback.
package public

import (
	"net/http"

	module "github.com/sazzer/newlanding/internal/services/web/module"
	"github.com/sazzer/newlanding/internal/services/web/routepath"
)

// Module provides the unauthenticated root routes.
type Module struct {
	deps module.Dependencies
}

// New returns the public module.
func New(deps module.Dependencies) Module {
	return Module{deps: deps}
}

// ID returns a stable identifier for diagnostics and startup logs.
func (Module) ID() string {
	return "public"
}

// Mount wires the root routes. The root prefix also catches every path no
// other module owns.
func (m Module) Mount() (module.Mount, error) {
	mux := http.NewServeMux()
	registerRoutes(mux, newHandlers(m.deps))
	return module.Mount{Prefix: routepath.Root, Handler: mux}, nil
}

func registerRoutes(mux *http.ServeMux, h handlers) {
	mux.HandleFunc(http.MethodGet+" "+routepath.Root+"{$}", h.handleLanding)
	mux.HandleFunc(http.MethodGet+" "+routepath.Health, h.handleHealth)
	mux.HandleFunc(routepath.Root, h.handleNotFound)
}
