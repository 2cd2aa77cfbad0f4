package api

import (
	"net/http"
	"time"

	"github.com/sazzer/newlanding/internal/services/web/platform/hal"
	"github.com/sazzer/newlanding/internal/services/web/platform/problem"
	"github.com/sazzer/newlanding/internal/services/web/routepath"
)

type handlers struct {
	name    string
	version string
}

type homeModel struct {
	hal.Document
	Name    string `json:"name"`
	Version string `json:"version"`
}

type principalModel struct {
	hal.Document
	Principal string     `json:"principal"`
	IssuedAt  *time.Time `json:"issuedAt,omitempty"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

func (h handlers) handleHome(w http.ResponseWriter, _ *http.Request) {
	model := homeModel{Name: h.name, Version: h.version}
	model.WithLink("self", hal.NewLink(routepath.APIPrefix))
	_ = hal.Write(w, http.StatusOK, model)
}

func (h handlers) handleMe(w http.ResponseWriter, r *http.Request) {
	security, ok := SecurityContextFrom(r.Context())
	if !ok {
		writeUnauthorized(w, "access token is required")
		return
	}
	model := principalModel{
		Principal: string(security.Principal),
		IssuedAt:  optionalTime(security.IssuedAt),
		ExpiresAt: optionalTime(security.ExpiresAt),
	}
	model.WithLink("self", hal.NewLink(routepath.APIMe))
	w.Header().Set("Cache-Control", "no-store")
	_ = hal.Write(w, http.StatusOK, model)
}

func (h handlers) handleNotFound(w http.ResponseWriter, r *http.Request) {
	p := problem.NotFound()
	p.Instance = r.URL.Path
	_ = p.Write(w)
}

func optionalTime(value time.Time) *time.Time {
	if value.IsZero() {
		return nil
	}
	return &value
}
