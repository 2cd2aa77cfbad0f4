// Package pagerender renders module pages inside the shared app shell.
package pagerender

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"github.com/a-h/templ"
	"github.com/sazzer/newlanding/internal/services/web/platform/httpx"
	"github.com/sazzer/newlanding/internal/services/web/session"
	webtemplates "github.com/sazzer/newlanding/internal/services/web/templates"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// RequestResolver resolves visitor state and localization for a request.
type RequestResolver interface {
	ResolveRequestState(r *http.Request) session.State
	Localize(w http.ResponseWriter, r *http.Request) (*message.Printer, language.Tag)
}

// Page describes one rendered page.
type Page struct {
	// Title is the localized page title. Empty uses the brand alone.
	Title      string
	StatusCode int
	Content    templ.Component
}

// PageFunc builds a page once the request localizer is known.
type PageFunc func(loc webtemplates.Localizer) Page

type emptyComponent struct{}

func (emptyComponent) Render(context.Context, io.Writer) error {
	return nil
}

// WritePage renders the page inside the app shell. Output is buffered so a
// render failure never leaves a half-written document.
func WritePage(w http.ResponseWriter, r *http.Request, resolver RequestResolver, build PageFunc) error {
	if w == nil {
		return nil
	}
	loc, tag := resolver.Localize(w, r)
	page := Page{}
	if build != nil {
		page = build(loc)
	}
	statusCode := page.StatusCode
	if statusCode <= 0 {
		statusCode = http.StatusOK
	}
	content := page.Content
	if content == nil {
		content = emptyComponent{}
	}

	shell := webtemplates.AppShell(webtemplates.ShellView{
		Lang:      tag.String(),
		State:     resolver.ResolveRequestState(r),
		Loc:       loc,
		PageTitle: page.Title,
	})
	var buf bytes.Buffer
	if err := shell.Render(templ.WithChildren(httpx.RequestContext(r), content), &buf); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)
	_, _ = w.Write(buf.Bytes())
	return nil
}
