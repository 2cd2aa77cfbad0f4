package identity

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenVerifier checks RS256 tokens signed by the tenant for one audience.
type tokenVerifier struct {
	keys     *Keyset
	issuer   string
	audience string
	now      func() time.Time
}

func (v tokenVerifier) parse(ctx context.Context, raw string, claims jwt.Claims) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fmt.Errorf("%w: empty token", ErrParseToken)
	}
	set, err := v.keys.FetchKeys(ctx)
	if err != nil {
		return err
	}

	now := v.now
	if now == nil {
		now = time.Now
	}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithIssuer(v.issuer),
		jwt.WithAudience(v.audience),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(now),
	)
	_, err = parser.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		kid, _ := token.Header["kid"].(string)
		return rsaPublicKey(set, kid)
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrParseToken, err)
	}
	return nil
}

// AccessTokenVerifier validates bearer access tokens issued for the API audience.
type AccessTokenVerifier struct {
	verifier tokenVerifier
}

// NewAccessTokenVerifier builds a verifier for tokens issued by domain for audience.
func NewAccessTokenVerifier(keys *Keyset, domain Domain, audience string) *AccessTokenVerifier {
	return &AccessTokenVerifier{verifier: tokenVerifier{
		keys:     keys,
		issuer:   domain.Issuer(),
		audience: audience,
	}}
}

// Verify parses and validates an access token into a security context.
func (a *AccessTokenVerifier) Verify(ctx context.Context, token string) (SecurityContext, error) {
	var claims jwt.RegisteredClaims
	if err := a.verifier.parse(ctx, token, &claims); err != nil {
		return SecurityContext{}, err
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return SecurityContext{}, fmt.Errorf("%w: missing subject", ErrParseToken)
	}

	security := SecurityContext{Principal: Principal(claims.Subject)}
	if claims.IssuedAt != nil {
		security.IssuedAt = claims.IssuedAt.UTC()
	}
	if claims.ExpiresAt != nil {
		security.ExpiresAt = claims.ExpiresAt.UTC()
	}
	return security, nil
}
