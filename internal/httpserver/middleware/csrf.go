package middleware

import (
	"net/http"

	"github.com/gorilla/csrf"
	"go.uber.org/zap"

	"github.com/cyber924/taebaek/internal/platform/requestctx"
)

// CSRFHeaderName is the header htmx requests carry the token in.
const CSRFHeaderName = "X-CSRF-Token"

// CSRFConfig controls cookie/header behaviour.
type CSRFConfig struct {
	Key        []byte
	CookieName string
	CookiePath string
	Secure     bool
	// ErrorHandler renders rejected requests; defaults to a plain 403.
	ErrorHandler http.Handler
}

// CSRF wraps gorilla/csrf. Unsafe methods must carry the token either in the form
// field or in the X-CSRF-Token header. Without secure cookies the request is treated
// as plaintext HTTP so the referer check does not reject local development traffic.
func CSRF(cfg CSRFConfig) func(http.Handler) http.Handler {
	cookieName := cfg.CookieName
	if cookieName == "" {
		cookieName = "taebaek_csrf"
	}
	cookiePath := cfg.CookiePath
	if cookiePath == "" {
		cookiePath = "/"
	}
	errorHandler := cfg.ErrorHandler
	if errorHandler == nil {
		errorHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		})
	}

	protect := csrf.Protect(cfg.Key,
		csrf.CookieName(cookieName),
		csrf.Path(cookiePath),
		csrf.Secure(cfg.Secure),
		csrf.HttpOnly(true),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.RequestHeader(CSRFHeaderName),
		csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestctx.Logger(r.Context()).Warn("csrf validation failed", zap.Error(csrf.FailureReason(r)))
			errorHandler.ServeHTTP(w, r)
		})),
	)

	return func(next http.Handler) http.Handler {
		protected := protect(next)
		if cfg.Secure {
			return protected
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			protected.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
		})
	}
}
