package templates

import (
	"strings"

	"github.com/sazzer/newlanding/internal/services/web/session"
)

// ShellView carries the request-scoped inputs of the document shell.
type ShellView struct {
	Lang  string
	State session.State
	Loc   Localizer
	// PageTitle prefixes the brand in the document title when set.
	PageTitle string
}

func (v ShellView) lang() string {
	if lang := strings.TrimSpace(v.Lang); lang != "" {
		return lang
	}
	return "en-US"
}

func (v ShellView) documentTitle() string {
	title := T(v.Loc, "title")
	if page := strings.TrimSpace(v.PageTitle); page != "" {
		return page + " · " + title
	}
	return title
}
