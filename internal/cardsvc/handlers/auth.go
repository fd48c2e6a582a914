package handlers

import (
	"crypto/subtle"
	"net/http"
	"strings"

	log "github.com/sirupsen/logrus"
)

// RequireAPIKey gates the /v1 API behind the static shared secret. The
// token comes from "Authorization: Bearer <token>" or the X-API-Key
// header. Nothing else runs until the check passes.
func (h *Handler) RequireAPIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := ""

		authHeader := r.Header.Get("Authorization")
		if parts := strings.SplitN(authHeader, " ", 2); len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			token = parts[1]
		} else if v := r.Header.Get("X-API-Key"); v != "" {
			token = v
		}

		if h.apiKey == "" || subtle.ConstantTimeCompare([]byte(token), []byte(h.apiKey)) != 1 {
			log.Warnf("unauthorized request to %s from %s", r.URL.Path, r.RemoteAddr)
			writeError(w, http.StatusUnauthorized, "invalid or missing API key")
			return
		}

		next.ServeHTTP(w, r)
	})
}
