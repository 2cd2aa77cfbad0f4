// Package module defines the feature contract used by web composition.
package module

import (
	"net/http"

	platformi18n "github.com/sazzer/newlanding/internal/platform/i18n"
	"github.com/sazzer/newlanding/internal/services/web/session"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ResolveState resolves the visitor session state for a request.
type ResolveState func(*http.Request) session.State

// ResolveLocalizer resolves the request printer and language, persisting an
// explicit language choice on the response.
type ResolveLocalizer func(http.ResponseWriter, *http.Request) (*message.Printer, language.Tag)

// Dependencies carries the request-scoped resolvers shared by every module.
type Dependencies struct {
	ResolveState     ResolveState
	ResolveLocalizer ResolveLocalizer
}

// ResolveRequestState returns LoggedOut when no resolver is configured.
func (d Dependencies) ResolveRequestState(r *http.Request) session.State {
	if d.ResolveState == nil {
		return session.LoggedOut{}
	}
	state := d.ResolveState(r)
	if state == nil {
		return session.LoggedOut{}
	}
	return state
}

// Localize returns a printer without a catalog when no resolver is
// configured, so every key renders as itself.
func (d Dependencies) Localize(w http.ResponseWriter, r *http.Request) (*message.Printer, language.Tag) {
	if d.ResolveLocalizer == nil {
		tag := platformi18n.DefaultTag()
		return message.NewPrinter(tag), tag
	}
	return d.ResolveLocalizer(w, r)
}

// Mount describes a module route mount.
type Mount struct {
	Prefix  string
	Handler http.Handler
}

// Module declares the minimum contract required by web composition.
type Module interface {
	ID() string
	Mount() (Mount, error)
}
