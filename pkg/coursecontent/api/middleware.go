package api

import (
	"net/http"

	"github.com/go-chi/jwtauth"
	"github.com/go-chi/render"
)

// RequireRole rejects requests whose verified token does not carry the given
// value in its "role" claim. Must run after jwtauth.Verifier. An empty role
// only requires a valid token.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, claims, err := jwtauth.FromContext(r.Context())
			if err != nil {
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, MessageResponse{Message: "Unauthorized"})
				return
			}

			if role != "" {
				got, _ := claims["role"].(string)
				if got != role {
					render.Status(r, http.StatusForbidden)
					render.JSON(w, r, MessageResponse{Message: "Forbidden"})
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}
