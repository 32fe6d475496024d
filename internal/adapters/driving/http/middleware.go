package http

import (
	"net/http"
)

// CORSMiddleware adds CORS headers for the configured frontend origin.
// The interactive authorization popup is opened from the frontend, so
// only that single origin is allowed.
type CORSMiddleware struct {
	origin string
}

// NewCORSMiddleware creates a new CORSMiddleware
func NewCORSMiddleware(origin string) *CORSMiddleware {
	return &CORSMiddleware{origin: origin}
}

// Handler wraps next with CORS headers and preflight handling
func (m *CORSMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", m.origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Allow-Credentials", "true")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
