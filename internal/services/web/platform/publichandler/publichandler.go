// Package publichandler provides a shared base for web module handlers.
// It centralizes state resolution, localization, and page and error rendering
// that would otherwise be duplicated across modules.
package publichandler

import (
	"net/http"

	module "github.com/sazzer/newlanding/internal/services/web/module"
	"github.com/sazzer/newlanding/internal/services/web/platform/pagerender"
	"github.com/sazzer/newlanding/internal/services/web/platform/weberror"
	"github.com/sazzer/newlanding/internal/services/web/session"
)

// Base provides shared rendering for module handlers. Embed it in handler
// structs to get WritePage, WriteNotFound and WriteAuthError.
type Base struct {
	deps module.Dependencies
}

// NewBase builds a handler base around the shared module dependencies.
func NewBase(deps module.Dependencies) Base {
	return Base{deps: deps}
}

// State resolves the visitor state for the request.
func (b Base) State(r *http.Request) session.State {
	return b.deps.ResolveRequestState(r)
}

// WritePage renders a page in the app shell, falling back to the server
// error page when rendering fails.
func (b Base) WritePage(w http.ResponseWriter, r *http.Request, build pagerender.PageFunc) {
	if err := pagerender.WritePage(w, r, b.deps, build); err != nil {
		weberror.WriteAppError(w, r, http.StatusInternalServerError, b.deps)
	}
}

// WriteNotFound renders the localized 404 page.
func (b Base) WriteNotFound(w http.ResponseWriter, r *http.Request) {
	weberror.WriteAppError(w, r, http.StatusNotFound, b.deps)
}

// WriteAuthError renders a localized sign-in failure.
func (b Base) WriteAuthError(w http.ResponseWriter, r *http.Request, err error) {
	weberror.WriteAuthError(w, r, err, b.deps)
}
