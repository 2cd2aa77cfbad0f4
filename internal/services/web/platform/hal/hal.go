// Package hal builds HAL+JSON documents for the JSON API.
package hal

import (
	"net/http"

	"github.com/sazzer/newlanding/internal/services/web/platform/httpx"
)

// ContentType is the media type of HAL documents.
const ContentType = "application/hal+json"

// Link is a single HAL link.
type Link struct {
	Href string `json:"href"`
	Name string `json:"name,omitempty"`
}

// NewLink builds an unnamed link.
func NewLink(href string) Link {
	return Link{Href: href}
}

// Document carries the _links section. Embed it in response models.
type Document struct {
	Links map[string]any `json:"_links,omitempty"`
}

// WithLink adds a link under rel. A second link for the same rel turns the
// entry into an array.
func (d *Document) WithLink(rel string, link Link) *Document {
	if d.Links == nil {
		d.Links = map[string]any{}
	}
	switch existing := d.Links[rel].(type) {
	case nil:
		d.Links[rel] = link
	case Link:
		d.Links[rel] = []Link{existing, link}
	case []Link:
		d.Links[rel] = append(existing, link)
	}
	return d
}

// Write sends model as a HAL document.
func Write(w http.ResponseWriter, status int, model any) error {
	return httpx.WriteJSON(w, status, ContentType, model)
}
