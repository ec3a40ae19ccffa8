package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/avasani/visarag/pkg/logging"
)

// BearerAuth rejects requests without the configured token. An empty token
// disables the check entirely, which is the documented default for this
// service.
func BearerAuth(token string) func(http.Handler) http.Handler {
	logger := logging.NewLogger("auth")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}
			if !validBearerToken(r.Header.Get("Authorization"), token) {
				logger.Warn("unauthorized request", "remote", r.RemoteAddr)
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func validBearerToken(header, token string) bool {
	if !strings.HasPrefix(header, "Bearer ") {
		return false
	}
	presented := strings.TrimPrefix(header, "Bearer ")
	return subtle.ConstantTimeCompare([]byte(presented), []byte(token)) == 1
}
