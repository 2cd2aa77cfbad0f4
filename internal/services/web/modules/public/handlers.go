package public

import (
	"net/http"

	module "github.com/sazzer/newlanding/internal/services/web/module"
	"github.com/sazzer/newlanding/internal/services/web/platform/httpx"
	"github.com/sazzer/newlanding/internal/services/web/platform/pagerender"
	"github.com/sazzer/newlanding/internal/services/web/platform/publichandler"
	webtemplates "github.com/sazzer/newlanding/internal/services/web/templates"
)

const healthBody = "ok"

type handlers struct {
	publichandler.Base
}

func newHandlers(deps module.Dependencies) handlers {
	return handlers{Base: publichandler.NewBase(deps)}
}

func (h handlers) handleLanding(w http.ResponseWriter, r *http.Request) {
	h.WritePage(w, r, func(webtemplates.Localizer) pagerender.Page {
		return pagerender.Page{Content: webtemplates.LandingSection()}
	})
}

func (h handlers) handleHealth(w http.ResponseWriter, _ *http.Request) {
	_ = httpx.WriteHTML(w, http.StatusOK, healthBody)
}

func (h handlers) handleNotFound(w http.ResponseWriter, r *http.Request) {
	h.WriteNotFound(w, r)
}
