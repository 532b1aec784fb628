package auth

import (
	"crypto/subtle"
	"github.com/go-chi/render"
	"net/http"
	"strings"
)

const TokenHeader = "X-Export-Worker-Token"

type errorResponse struct {
	Error string `json:"error"`
}

// WorkerToken guards the export routes with a shared secret, sent either
// as a bearer token or in the X-Export-Worker-Token header. An empty
// token disables the check.
func WorkerToken(token string) func(http.Handler) http.Handler {
	expected := strings.TrimSpace(token)

	return func(next http.Handler) http.Handler {
		if expected == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get(TokenHeader)
			if authHeader := r.Header.Get("Authorization"); strings.HasPrefix(authHeader, "Bearer ") {
				got = authHeader[len("Bearer "):]
			}

			if subtle.ConstantTimeCompare([]byte(got), []byte(expected)) != 1 {
				requireAuth(w, r)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func requireAuth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="export-worker"`)
	render.Status(r, http.StatusUnauthorized)
	render.JSON(w, r, errorResponse{Error: "Unauthorized"})
}
