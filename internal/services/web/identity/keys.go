package identity

import (
	"context"
	"crypto/rsa"
	"fmt"
	"net/http"
	"time"

	"github.com/lestrrat-go/jwx/jwk"
)

const minKeyRefreshInterval = 15 * time.Minute

// Keyset caches the provider's JSON Web Key Set and refreshes it in the
// background until the context passed to NewKeyset is cancelled.
type Keyset struct {
	keys *jwk.AutoRefresh
	url  string
}

// NewKeyset configures a keyset for the tenant's well-known JWKS document.
// A nil client uses http.DefaultClient.
func NewKeyset(ctx context.Context, domain Domain, client *http.Client) *Keyset {
	url := domain.URL("/.well-known/jwks.json")
	keys := jwk.NewAutoRefresh(ctx)
	options := []jwk.AutoRefreshOption{jwk.WithMinRefreshInterval(minKeyRefreshInterval)}
	if client != nil {
		options = append(options, jwk.WithHTTPClient(client))
	}
	keys.Configure(url, options...)

	return &Keyset{keys: keys, url: url}
}

// FetchKeys returns the cached key set, fetching it on first use.
func (k *Keyset) FetchKeys(ctx context.Context) (jwk.Set, error) {
	set, err := k.keys.Fetch(ctx, k.url)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetchKeys, err)
	}
	return set, nil
}

func rsaPublicKey(set jwk.Set, kid string) (*rsa.PublicKey, error) {
	if kid == "" {
		return nil, fmt.Errorf("token has no key id")
	}
	key, ok := set.LookupKeyID(kid)
	if !ok {
		return nil, fmt.Errorf("unknown key id %q", kid)
	}
	var raw interface{}
	if err := key.Raw(&raw); err != nil {
		return nil, fmt.Errorf("decode key %q: %w", kid, err)
	}
	switch typed := raw.(type) {
	case *rsa.PublicKey:
		return typed, nil
	case *rsa.PrivateKey:
		return &typed.PublicKey, nil
	default:
		return nil, fmt.Errorf("key %q is %T, want RSA", kid, raw)
	}
}
