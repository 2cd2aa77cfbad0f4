// Package web hosts the browser-facing landing service.
//
// The server composes the public, auth and API modules behind one ServeMux,
// serves embedded static assets, and resolves the visitor session once per
// request. Login, token refresh and logout are delegated to the identity
// provider configured in Config.
package web
