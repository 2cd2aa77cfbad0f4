package templates

import (
	"net/http"

	"github.com/a-h/templ"
)

const (
	errorNotFoundTitleKey   = "error.not_found.title"
	errorNotFoundMessageKey = "error.not_found.message"
	errorServerTitleKey     = "error.server.title"
	errorServerMessageKey   = "error.server.message"
	errorAuthTitleKey       = "error.auth.title"
	errorAuthRetryKey       = "error.auth.retry"
)

// ErrorPageTitle returns the page title for an error status.
func ErrorPageTitle(statusCode int, loc Localizer) string {
	if statusCode == http.StatusNotFound {
		return T(loc, errorNotFoundTitleKey)
	}
	return T(loc, errorServerTitleKey)
}

// ErrorState renders a not-found or server error block.
func ErrorState(statusCode int, loc Localizer) templ.Component {
	messageKey := errorServerMessageKey
	if statusCode == http.StatusNotFound {
		messageKey = errorNotFoundMessageKey
	}
	return ErrorPage(ErrorPageTitle(statusCode, loc), T(loc, messageKey), "")
}

// AuthErrorTitle returns the page title for sign-in failures.
func AuthErrorTitle(loc Localizer) string {
	return T(loc, errorAuthTitleKey)
}

// AuthErrorState renders a sign-in failure with a retry link.
func AuthErrorState(message string, loc Localizer) templ.Component {
	return ErrorPage(AuthErrorTitle(loc), message, T(loc, errorAuthRetryKey))
}
