// Package requestmeta derives scheme, origin and same-origin proof from
// incoming requests.
package requestmeta

import (
	"net/http"
	"net/url"
	"strings"
)

// SchemePolicy controls how the request scheme is resolved.
//
// X-Forwarded-Proto is only honored when TrustForwardedProto is set, so a
// direct client cannot claim HTTPS.
type SchemePolicy struct {
	TrustForwardedProto bool
}

// Scheme returns "https" or "http" for the request.
func (p SchemePolicy) Scheme(r *http.Request) string {
	if r == nil {
		return ""
	}
	if p.TrustForwardedProto {
		if forwarded := strings.ToLower(strings.TrimSpace(r.Header.Get("X-Forwarded-Proto"))); forwarded == "http" || forwarded == "https" {
			return forwarded
		}
	}
	if r.URL != nil {
		if scheme := strings.ToLower(strings.TrimSpace(r.URL.Scheme)); scheme == "http" || scheme == "https" {
			return scheme
		}
	}
	if r.TLS != nil {
		return "https"
	}
	return "http"
}

// IsHTTPS reports whether the request should be treated as HTTPS.
func (p SchemePolicy) IsHTTPS(r *http.Request) bool {
	return p.Scheme(r) == "https"
}

// Origin returns the scheme://host[:port] the browser used to reach the
// request, or "" when the host is unknown. Default ports are omitted.
func (p SchemePolicy) Origin(r *http.Request) string {
	scheme, host, port := p.originParts(r)
	if host == "" {
		return ""
	}
	if strings.Contains(host, ":") {
		host = "[" + host + "]"
	}
	if port != "" && port != defaultPort(scheme) {
		host += ":" + port
	}
	return scheme + "://" + host
}

// HasSameOriginProof reports whether the Origin header, or failing that the
// Referer header, names the request's own origin.
func (p SchemePolicy) HasSameOriginProof(r *http.Request) bool {
	if r == nil {
		return false
	}
	scheme, host, port := p.originParts(r)
	if host == "" {
		return false
	}
	if origin := strings.TrimSpace(r.Header.Get("Origin")); origin != "" {
		return sameOrigin(origin, scheme, host, port)
	}
	if referer := strings.TrimSpace(r.Header.Get("Referer")); referer != "" {
		return sameOrigin(referer, scheme, host, port)
	}
	return false
}

func (p SchemePolicy) originParts(r *http.Request) (string, string, string) {
	if r == nil {
		return "", "", ""
	}
	scheme := p.Scheme(r)
	host, port := splitHost(r.Host)
	if host == "" && r.URL != nil {
		host, port = splitHost(r.URL.Host)
	}
	if port == "" {
		port = defaultPort(scheme)
	}
	return scheme, host, port
}

func sameOrigin(raw, scheme, host, port string) bool {
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	otherScheme := strings.ToLower(strings.TrimSpace(parsed.Scheme))
	if otherScheme == "" || otherScheme != scheme {
		return false
	}
	otherHost := strings.ToLower(strings.TrimSpace(parsed.Hostname()))
	if otherHost == "" || otherHost != host {
		return false
	}
	otherPort := strings.TrimSpace(parsed.Port())
	if otherPort == "" {
		otherPort = defaultPort(otherScheme)
	}
	return otherPort != "" && otherPort == port
}

func defaultPort(scheme string) string {
	switch scheme {
	case "https":
		return "443"
	case "http":
		return "80"
	default:
		return ""
	}
}

func splitHost(raw string) (string, string) {
	parsed, err := url.Parse("//" + strings.TrimSpace(raw))
	if err != nil {
		return "", ""
	}
	return strings.ToLower(strings.TrimSpace(parsed.Hostname())), strings.TrimSpace(parsed.Port())
}
