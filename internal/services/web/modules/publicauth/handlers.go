package publicauth

import (
	"net/http"
	"strings"

	module "github.com/sazzer/newlanding/internal/services/web/module"
	"github.com/sazzer/newlanding/internal/services/web/platform/httpx"
	"github.com/sazzer/newlanding/internal/services/web/platform/publichandler"
	"github.com/sazzer/newlanding/internal/services/web/platform/requestmeta"
	"github.com/sazzer/newlanding/internal/services/web/platform/sessioncookie"
	"github.com/sazzer/newlanding/internal/services/web/routepath"
)

type handlers struct {
	publichandler.Base
	service      service
	requestMeta  requestmeta.SchemePolicy
	publicOrigin string
}

func newHandlers(deps module.Dependencies, svc service, policy requestmeta.SchemePolicy, publicOrigin string) handlers {
	return handlers{
		Base:         publichandler.NewBase(deps),
		service:      svc,
		requestMeta:  policy,
		publicOrigin: strings.TrimRight(strings.TrimSpace(publicOrigin), "/"),
	}
}

func (h handlers) handleLogin(w http.ResponseWriter, r *http.Request) {
	location, err := h.service.beginLogin(r.URL.Query().Get(routepath.ReturnToParam))
	if err != nil {
		h.WriteAuthError(w, r, err)
		return
	}
	httpx.WriteRedirect(w, r, location)
}

func (h handlers) handleCallback(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	previous, _ := sessioncookie.Read(r)
	record, returnTo, err := h.service.completeLogin(r.Context(), callback{
		code:             query.Get("code"),
		state:            query.Get("state"),
		providerError:    query.Get("error"),
		errorDescription: query.Get("error_description"),
	}, previous)
	if err != nil {
		h.WriteAuthError(w, r, err)
		return
	}
	sessioncookie.Write(w, r, record.ID, h.requestMeta)
	httpx.WriteRedirect(w, r, returnTo)
}

func (h handlers) handleLogout(w http.ResponseWriter, r *http.Request) {
	sessionID, hasSession := sessioncookie.Read(r)
	if hasSession && !h.requestMeta.HasSameOriginProof(r) {
		http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		return
	}
	location := h.service.logout(r.Context(), sessionID, h.logoutOrigin(r))
	sessioncookie.Clear(w, r, h.requestMeta)
	httpx.WriteRedirect(w, r, location)
}

// logoutOrigin prefers the configured public origin over the request Host,
// which a proxy may have rewritten.
func (h handlers) logoutOrigin(r *http.Request) string {
	if h.publicOrigin != "" {
		return h.publicOrigin
	}
	return h.requestMeta.Origin(r)
}

func (h handlers) handleNotFound(w http.ResponseWriter, r *http.Request) {
	h.WriteNotFound(w, r)
}
