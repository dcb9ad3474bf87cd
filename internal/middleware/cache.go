package middleware

import (
	"net/http"
)

// NoStore marks every response as uncacheable. Session state changes on each
// edit, so intermediaries must never replay an old copy.
func NoStore(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
		w.Header().Set("Pragma", "no-cache")
		w.Header().Set("Expires", "0")
		next.ServeHTTP(w, r)
	})
}

// Revalidate replaces the no-store policy for responses that carry an ETag.
func Revalidate(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "private, no-cache")
	w.Header().Del("Pragma")
	w.Header().Del("Expires")
}
