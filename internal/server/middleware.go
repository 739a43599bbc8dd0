package server

import (
	"net/http"

	"golang.org/x/crypto/bcrypt"
)

const hostRealm = `Basic realm="board-quiz host"`

// hostAuthMiddleware requires the host password, sent as the Basic auth
// password, when passwordHash is set.
func hostAuthMiddleware(passwordHash string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if passwordHash == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, password, ok := r.BasicAuth()
			if !ok || password == "" {
				w.Header().Set("WWW-Authenticate", hostRealm)
				writeError(w, http.StatusUnauthorized, "not authenticated")
				return
			}
			if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password)); err != nil {
				w.Header().Set("WWW-Authenticate", hostRealm)
				writeError(w, http.StatusUnauthorized, "invalid credentials")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
