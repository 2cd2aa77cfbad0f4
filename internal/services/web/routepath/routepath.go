// Package routepath stores canonical HTTP paths for web modules.
package routepath

import (
	"net/url"
	"strings"
)

const (
	Root         = "/"
	Health       = "/up"
	AuthPrefix   = "/auth/"
	AuthLogin    = "/auth/login"
	AuthCallback = "/auth/callback"
	AuthLogout   = "/auth/logout"
	StaticPrefix = "/static/"
	APIPrefix    = "/api/"
	APIMe        = "/api/me"
)

// ReturnToParam names the query parameter carrying the post-login path.
const ReturnToParam = "return_to"

// SafeReturnPath keeps local absolute paths and maps anything else, including
// protocol-relative and absolute URLs and the auth routes themselves, to Root.
func SafeReturnPath(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") || strings.Contains(raw, `\`) {
		return Root
	}
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Scheme != "" || parsed.Host != "" {
		return Root
	}
	if strings.HasPrefix(parsed.Path, AuthPrefix) {
		return Root
	}
	return parsed.RequestURI()
}
