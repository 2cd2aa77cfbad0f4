package api

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/sazzer/newlanding/internal/services/web/identity"
	"github.com/sazzer/newlanding/internal/services/web/platform/httpx"
	"github.com/sazzer/newlanding/internal/services/web/platform/problem"
)

const bearerPrefix = "Bearer "

// TokenVerifier validates bearer access tokens.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (identity.SecurityContext, error)
}

type securityContextKey struct{}

// authorize verifies a bearer token when one is present and stores the
// security context on the request. Requests without credentials pass through
// and protected handlers reject them.
func authorize(verifier TokenVerifier) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := strings.TrimSpace(r.Header.Get("Authorization"))
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}
			if !strings.HasPrefix(header, bearerPrefix) {
				writeUnauthorized(w, "authorization header is not a bearer token")
				return
			}
			security, err := verifier.Verify(r.Context(), strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix)))
			if err != nil {
				log.Printf("reject access token path=%s err=%v", r.URL.Path, err)
				writeUnauthorized(w, "access token is invalid")
				return
			}
			next.ServeHTTP(w, r.WithContext(withSecurityContext(r.Context(), security)))
		})
	}
}

func withSecurityContext(ctx context.Context, security identity.SecurityContext) context.Context {
	return context.WithValue(ctx, securityContextKey{}, security)
}

// SecurityContextFrom returns the verified security context, if any.
func SecurityContextFrom(ctx context.Context) (identity.SecurityContext, bool) {
	security, ok := ctx.Value(securityContextKey{}).(identity.SecurityContext)
	return security, ok
}

func writeUnauthorized(w http.ResponseWriter, detail string) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="newlanding"`)
	p := problem.Unauthorized()
	p.Detail = detail
	_ = p.Write(w)
}
