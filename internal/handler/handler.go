package handler

import (
	"context"
	"net/http"
)

// DB is the subset of the connection pool the base handler needs.
type DB interface {
	Ping(ctx context.Context) error
}

// Handler carries shared dependencies for the top-level endpoints.
type Handler struct {
	db DB
	// allowedOrigins is the explicit CORS allow-list. Requests from an
	// origin not on the list get the canonical origin instead, which the
	// browser will then reject.
	allowedOrigins map[string]bool
	// canonicalOrigin is the default Access-Control-Allow-Origin value.
	canonicalOrigin string
}

// New は Handler を生成する
func New(db DB, canonicalOrigin string, allowedOrigins []string) *Handler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		if o != "" {
			allowed[o] = true
		}
	}
	return &Handler{db: db, allowedOrigins: allowed, canonicalOrigin: canonicalOrigin}
}

// CORS sets cross-origin headers for the external consumers of the public
// API (the portfolio site embeds blog content directly).
func (h *Handler) CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := h.canonicalOrigin
		if reqOrigin := r.Header.Get("Origin"); h.allowedOrigins[reqOrigin] {
			origin = reqOrigin
		}
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.Header().Set("Access-Control-Max-Age", "86400")
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
