package middlewares

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"smarthire/internal/utils"
)

// AuthMiddleware requires a valid "Authorization: Bearer <jwt>" header and
// stores the token subject in the request context.
func AuthMiddleware(jwt *utils.JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				utils.SendJSONError(w, "Missing token", http.StatusUnauthorized)
				return
			}

			scheme, tokenString, found := strings.Cut(header, " ")
			if !found || !strings.EqualFold(scheme, "Bearer") || tokenString == "" {
				utils.SendJSONError(w, "Invalid token format", http.StatusUnauthorized)
				return
			}

			userID, err := jwt.Parse(strings.TrimSpace(tokenString))
			if err != nil {
				log.Debug().Err(err).Msg("Rejected bearer token")
				utils.SendJSONError(w, "Could not validate credentials", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(utils.WithUserID(r.Context(), userID)))
		})
	}
}
