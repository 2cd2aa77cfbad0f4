// Package timeouts defines shared timeout constants used by the web service.
// Centralizing these values keeps server and client budgets discoverable.
package timeouts

import "time"

// ReadHeader limits how long an HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long an HTTP server waits for in-flight requests
// during graceful shutdown.
const Shutdown = 5 * time.Second

// IdentityRequest caps a single round trip to the identity provider
// (token exchange, refresh, key fetch).
const IdentityRequest = 10 * time.Second
