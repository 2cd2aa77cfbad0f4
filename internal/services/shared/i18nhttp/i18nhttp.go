// Package i18nhttp resolves the request language and builds localizers for it.
package i18nhttp

import (
	"net/http"
	"strings"
	"time"

	platformi18n "github.com/sazzer/newlanding/internal/platform/i18n"
	"github.com/sazzer/newlanding/internal/platform/i18n/catalog"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	// LangParam is the query parameter used to select a language.
	LangParam = "lang"
	// LangCookieName stores the user's language preference.
	LangCookieName = "nl_lang"
)

// ResolveTag determines the best language tag for the request.
// The bool indicates whether the lang query param should be persisted as a cookie.
func ResolveTag(r *http.Request) (language.Tag, bool) {
	if r == nil {
		return platformi18n.DefaultTag(), false
	}

	if r.URL != nil {
		if langValue := strings.TrimSpace(r.URL.Query().Get(LangParam)); langValue != "" {
			if tag, ok := platformi18n.ParseTag(langValue); ok {
				return tag, true
			}
		}
	}

	if cookie, err := r.Cookie(LangCookieName); err == nil {
		if tag, ok := platformi18n.ParseTag(cookie.Value); ok {
			return tag, false
		}
	}

	if accept := strings.TrimSpace(r.Header.Get("Accept-Language")); accept != "" {
		if tags, _, err := language.ParseAcceptLanguage(accept); err == nil {
			return platformi18n.MatchTags(tags), false
		}
	}

	return platformi18n.DefaultTag(), false
}

// SetLanguageCookie persists the selected language on the response.
func SetLanguageCookie(w http.ResponseWriter, tag language.Tag) {
	if w == nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     LangCookieName,
		Value:    tag.String(),
		Path:     "/",
		MaxAge:   int((365 * 24 * time.Hour).Seconds()),
		SameSite: http.SameSiteLaxMode,
	})
}

// Resolver turns requests into localizers backed by one catalog bundle.
type Resolver struct {
	bundle *catalog.Bundle
}

// NewResolver binds a resolver to a loaded bundle.
func NewResolver(bundle *catalog.Bundle) Resolver {
	return Resolver{bundle: bundle}
}

// Printer returns a message printer for the supplied tag.
func (r Resolver) Printer(tag language.Tag) *message.Printer {
	return r.bundle.Printer(tag)
}

// Localize resolves the request language, persists an explicit ?lang choice,
// and returns the printer with its tag.
func (r Resolver) Localize(w http.ResponseWriter, req *http.Request) (*message.Printer, language.Tag) {
	tag, persist := ResolveTag(req)
	if persist {
		SetLanguageCookie(w, tag)
	}
	return r.Printer(tag), tag
}
