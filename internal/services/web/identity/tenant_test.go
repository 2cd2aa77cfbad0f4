package identity

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/lestrrat-go/jwx/jwa"
	"github.com/lestrrat-go/jwx/jwk"
)

const (
	testKeyID    = "test-key"
	testClientID = "client-123"
	testAudience = "https://api.newlanding.test"
)

// fakeTenant serves the endpoints of an identity provider tenant.
type fakeTenant struct {
	t      *testing.T
	server *httptest.Server
	key    *rsa.PrivateKey

	mu          sync.Mutex
	tokenForms  []map[string]string
	tokenStatus int
	tokenBody   map[string]any
	keysStatus  int
}

func newFakeTenant(t *testing.T) *fakeTenant {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	tenant := &fakeTenant{t: t, key: key, tokenStatus: http.StatusOK, keysStatus: http.StatusOK}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /.well-known/jwks.json", tenant.serveKeys)
	mux.HandleFunc("POST /oauth/token", tenant.serveToken)
	tenant.server = httptest.NewServer(mux)
	t.Cleanup(tenant.server.Close)
	return tenant
}

func (f *fakeTenant) domain() Domain {
	return Domain(f.server.URL)
}

func (f *fakeTenant) serveKeys(w http.ResponseWriter, _ *http.Request) {
	f.mu.Lock()
	status := f.keysStatus
	f.mu.Unlock()
	if status != http.StatusOK {
		w.WriteHeader(status)
		return
	}

	public, err := jwk.New(&f.key.PublicKey)
	if err != nil {
		f.t.Errorf("jwk from public key: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	_ = public.Set(jwk.KeyIDKey, testKeyID)
	_ = public.Set(jwk.AlgorithmKey, jwa.RS256)
	set := jwk.NewSet()
	set.Add(public)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(set)
}

func (f *fakeTenant) serveToken(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	form := map[string]string{}
	for key := range r.PostForm {
		form[key] = r.PostForm.Get(key)
	}

	f.mu.Lock()
	f.tokenForms = append(f.tokenForms, form)
	status := f.tokenStatus
	body := f.tokenBody
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if status != http.StatusOK {
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid_grant"})
		return
	}
	_ = json.NewEncoder(w).Encode(body)
}

func (f *fakeTenant) respondWith(body map[string]any) {
	f.mu.Lock()
	f.tokenBody = body
	f.mu.Unlock()
}

func (f *fakeTenant) failToken(status int) {
	f.mu.Lock()
	f.tokenStatus = status
	f.mu.Unlock()
}

func (f *fakeTenant) failKeys(status int) {
	f.mu.Lock()
	f.keysStatus = status
	f.mu.Unlock()
}

func (f *fakeTenant) forms() []map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]map[string]string(nil), f.tokenForms...)
}

// sign issues an RS256 token signed with the tenant key.
func (f *fakeTenant) sign(claims jwt.Claims) string {
	f.t.Helper()
	return signWith(f.t, f.key, testKeyID, claims)
}

func signWith(t *testing.T, key *rsa.PrivateKey, kid string, claims jwt.Claims) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = kid
	signed, err := token.SignedString(key)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func (f *fakeTenant) registered(subject, audience string, issued, expires time.Time) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		Issuer:    f.domain().Issuer(),
		Subject:   subject,
		Audience:  jwt.ClaimStrings{audience},
		IssuedAt:  jwt.NewNumericDate(issued),
		ExpiresAt: jwt.NewNumericDate(expires),
	}
}
