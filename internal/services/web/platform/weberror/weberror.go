// Package weberror renders user-safe error responses inside the app shell.
package weberror

import (
	"log"
	"net/http"
	"strings"

	apperrors "github.com/sazzer/newlanding/internal/services/web/platform/errors"
	"github.com/sazzer/newlanding/internal/services/web/platform/pagerender"
	webtemplates "github.com/sazzer/newlanding/internal/services/web/templates"
)

// PublicMessage resolves a user-safe localized error message.
func PublicMessage(loc webtemplates.Localizer, err error) string {
	if err == nil {
		return ""
	}
	if loc != nil {
		if key := apperrors.LocalizationKey(err); key != "" {
			if localized := strings.TrimSpace(loc.Sprintf(key)); localized != "" {
				return localized
			}
		}
	}
	statusCode := apperrors.HTTPStatus(err)
	if statusCode < http.StatusBadRequest {
		statusCode = http.StatusInternalServerError
	}
	return http.StatusText(statusCode)
}

// WriteAppError renders the not-found or server error page for statusCode.
func WriteAppError(w http.ResponseWriter, r *http.Request, statusCode int, resolver pagerender.RequestResolver) {
	if statusCode != http.StatusNotFound {
		statusCode = http.StatusInternalServerError
	}
	err := pagerender.WritePage(w, r, resolver, func(loc webtemplates.Localizer) pagerender.Page {
		return pagerender.Page{
			Title:      webtemplates.ErrorPageTitle(statusCode, loc),
			StatusCode: statusCode,
			Content:    webtemplates.ErrorState(statusCode, loc),
		}
	})
	if err != nil {
		writePlain(w, r, statusCode, err)
	}
}

// WriteAuthError renders a sign-in failure page with the localized reason.
// Errors without a client status render as server errors.
func WriteAuthError(w http.ResponseWriter, r *http.Request, cause error, resolver pagerender.RequestResolver) {
	statusCode := apperrors.HTTPStatus(cause)
	if statusCode < http.StatusBadRequest {
		statusCode = http.StatusInternalServerError
	}
	err := pagerender.WritePage(w, r, resolver, func(loc webtemplates.Localizer) pagerender.Page {
		return pagerender.Page{
			Title:      webtemplates.AuthErrorTitle(loc),
			StatusCode: statusCode,
			Content:    webtemplates.AuthErrorState(PublicMessage(loc, cause), loc),
		}
	})
	if err != nil {
		writePlain(w, r, statusCode, err)
	}
}

func writePlain(w http.ResponseWriter, r *http.Request, statusCode int, err error) {
	if w == nil {
		return
	}
	path := "-"
	if r != nil && r.URL != nil {
		path = r.URL.Path
	}
	log.Printf("render error page failed path=%s status=%d err=%v", path, statusCode, err)
	http.Error(w, http.StatusText(statusCode), statusCode)
}
