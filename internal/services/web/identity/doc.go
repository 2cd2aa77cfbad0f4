// Package identity is the boundary to the external identity provider.
//
// Login, code exchange, token refresh and session end are delegated to the
// provider through Provider. Auth0 implements it with golang.org/x/oauth2 and
// verifies ID tokens against the provider's published signing keys.
// AccessTokenVerifier validates bearer tokens presented to the JSON API.
package identity
