package problem

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWriteUnauthorized(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	if err := Unauthorized().Write(rr); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusUnauthorized)
	}
	if got := rr.Header().Get("Content-Type"); got != "application/problem+json; charset=utf-8" {
		t.Fatalf("content-type = %q", got)
	}
	var body Problem
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Status != http.StatusUnauthorized || body.Title != "Unauthorized" {
		t.Fatalf("body = %+v", body)
	}
}

func TestWriteDefaultsStatus(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	if err := (Problem{Detail: "x"}).Write(rr); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rr.Code)
	}
	if got := NotFound().Status; got != http.StatusNotFound {
		t.Fatalf("NotFound().Status = %d", got)
	}
}
