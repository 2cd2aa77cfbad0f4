package sessioncookie

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sazzer/newlanding/internal/services/web/platform/requestmeta"
)

func TestRead(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		cookie *http.Cookie
		want   string
		ok     bool
	}{
		{name: "missing"},
		{name: "blank", cookie: &http.Cookie{Name: Name, Value: "  "}},
		{name: "present", cookie: &http.Cookie{Name: Name, Value: " abc "}, want: "abc", ok: true},
		{name: "other cookie", cookie: &http.Cookie{Name: "other", Value: "abc"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.cookie != nil {
				req.AddCookie(tc.cookie)
			}
			got, ok := Read(req)
			if got != tc.want || ok != tc.ok {
				t.Fatalf("Read() = %q, %v, want %q, %v", got, ok, tc.want, tc.ok)
			}
		})
	}

	if _, ok := Read(nil); ok {
		t.Fatal("nil request should not have a cookie")
	}
}

func TestWriteAndClear(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.TLS = &tls.ConnectionState{}

	rec := httptest.NewRecorder()
	Write(rec, req, " session-1 ", requestmeta.SchemePolicy{})
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("cookies = %d, want 1", len(cookies))
	}
	written := cookies[0]
	if written.Name != Name || written.Value != "session-1" {
		t.Fatalf("cookie = %s=%s", written.Name, written.Value)
	}
	if !written.HttpOnly || !written.Secure || written.SameSite != http.SameSiteLaxMode || written.Path != "/" {
		t.Fatalf("unexpected cookie attributes: %+v", written)
	}
	if written.MaxAge <= 0 {
		t.Fatalf("max age = %d, want positive", written.MaxAge)
	}

	rec = httptest.NewRecorder()
	Clear(rec, httptest.NewRequest(http.MethodGet, "/", nil), requestmeta.SchemePolicy{})
	cleared := rec.Result().Cookies()
	if len(cleared) != 1 || cleared[0].MaxAge >= 0 || cleared[0].Value != "" {
		t.Fatalf("unexpected cleared cookie: %+v", cleared)
	}
	if cleared[0].Secure {
		t.Fatal("plain http clear should not be secure")
	}
}
