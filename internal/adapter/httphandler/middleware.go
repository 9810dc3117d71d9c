package httphandler

import (
	"crypto/subtle"
	"net/http"
)

const adminSecretHeader = "X-Admin-Secret"

func AllowJSON(next http.Handler) http.Handler {
	hf := func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength == 0 {
			next.ServeHTTP(w, r)
			return
		}

		if r.Header.Get("Content-Type") != "application/json" {
			http.Error(w, "invalid media type", http.StatusUnsupportedMediaType)
			return
		}

		next.ServeHTTP(w, r)
	}
	return http.HandlerFunc(hf)
}

// RequireAdminSecret gates listing management behind the shared
// operator secret.
func RequireAdminSecret(secret string, next http.Handler) http.Handler {
	hf := func(w http.ResponseWriter, r *http.Request) {
		got := r.Header.Get(adminSecretHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	}
	return http.HandlerFunc(hf)
}
