package middleware

import (
	"crypto/sha256"
	"crypto/subtle"
	"net/http"

	"github.com/cyber924/taebaek/internal/platform/requestctx"
)

const basicAuthRealm = `Basic realm="hidden", charset="UTF-8"`

// Hidden marks requests as administrative so templates and logs can tell them apart.
func Hidden() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := requestctx.WithAdmin(r.Context(), true)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// NoStore prevents intermediaries and browsers from caching responses.
func NoStore() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "no-store")
			w.Header().Set("Pragma", "no-cache")
			next.ServeHTTP(w, r)
		})
	}
}

// BasicAuth guards the wrapped routes with HTTP basic auth. When either credential is
// empty the middleware is a pass-through.
func BasicAuth(username, password string) func(http.Handler) http.Handler {
	if username == "" || password == "" {
		return func(next http.Handler) http.Handler { return next }
	}
	wantUser := sha256.Sum256([]byte(username))
	wantPass := sha256.Sum256([]byte(password))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, pass, ok := r.BasicAuth()
			if ok {
				gotUser := sha256.Sum256([]byte(user))
				gotPass := sha256.Sum256([]byte(pass))
				userMatch := subtle.ConstantTimeCompare(gotUser[:], wantUser[:]) == 1
				passMatch := subtle.ConstantTimeCompare(gotPass[:], wantPass[:]) == 1
				if userMatch && passMatch {
					next.ServeHTTP(w, r)
					return
				}
			}
			requestctx.Logger(r.Context()).Warn("hidden route authentication failed")
			w.Header().Set("WWW-Authenticate", basicAuthRealm)
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		})
	}
}
