package identity

import "strings"

// Domain is the identity provider tenant, such as "example.eu.auth0.com".
// A domain that already carries a scheme is used as-is.
type Domain string

// BaseURL returns the absolute origin of the tenant without a trailing slash.
func (d Domain) BaseURL() string {
	value := strings.TrimRight(strings.TrimSpace(string(d)), "/")
	if value == "" {
		return ""
	}
	if strings.HasPrefix(value, "https://") || strings.HasPrefix(value, "http://") {
		return value
	}
	return "https://" + value
}

// URL builds an absolute URL below the tenant.
func (d Domain) URL(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return d.BaseURL() + path
}

// Issuer is the value the tenant writes into the iss claim.
func (d Domain) Issuer() string {
	return d.URL("/")
}
