// Package templates holds the templ components of the landing pages.
package templates

//go:generate go run github.com/a-h/templ/cmd/templ@v0.3.977 generate

import (
	"strings"

	"golang.org/x/text/message"
)

// Localizer resolves message keys for the current request. A
// *message.Printer built from the locale bundle satisfies it.
type Localizer interface {
	Sprintf(key message.Reference, args ...any) string
}

// T looks up key for display. Without a localizer, and for keys the catalog
// does not know, the key itself is shown.
func T(loc Localizer, key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return ""
	}
	if loc == nil {
		return key
	}
	return loc.Sprintf(key)
}
