// Package problem writes RFC 7807 problem documents.
package problem

import (
	"net/http"

	"github.com/sazzer/newlanding/internal/services/web/platform/httpx"
)

// ContentType is the media type of problem documents.
const ContentType = "application/problem+json"

// Problem is an RFC 7807 problem details document.
type Problem struct {
	Type     string `json:"type,omitempty"`
	Title    string `json:"title,omitempty"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
}

// New builds a problem for status titled with the standard status text.
func New(status int) Problem {
	return Problem{Title: http.StatusText(status), Status: status}
}

// Unauthorized is the problem returned for missing or invalid credentials.
func Unauthorized() Problem {
	return New(http.StatusUnauthorized)
}

// NotFound is the problem returned for unknown API resources.
func NotFound() Problem {
	return New(http.StatusNotFound)
}

// Write sends the problem with its status code.
func (p Problem) Write(w http.ResponseWriter) error {
	status := p.Status
	if status == 0 {
		status = http.StatusInternalServerError
		p.Status = status
	}
	return httpx.WriteJSON(w, status, ContentType, p)
}
