package middleware

import (
	"net/http"
)

// NoStore sets strict no-cache headers on every response. Admin edits and
// freshly published forms must never be pinned by a browser cache; server-side
// staleness is governed separately by the per-page render cache.
func NoStore(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
		w.Header().Set("Pragma", "no-cache")
		w.Header().Set("Expires", "0")
		next.ServeHTTP(w, r)
	})
}
