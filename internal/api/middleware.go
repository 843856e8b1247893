package api

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// requireAdminKey gates a handler behind the configured admin API key,
// accepted as a Bearer token or an X-Api-Key header. An empty configured
// key disables the check.
func (s *Server) requireAdminKey(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.AdminKey == "" {
			next(w, r)
			return
		}

		key := r.Header.Get("X-Api-Key")
		if key == "" {
			key = strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		}
		if subtle.ConstantTimeCompare([]byte(key), []byte(s.cfg.AdminKey)) != 1 {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Valid API key required")
			return
		}
		next(w, r)
	}
}
