package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	logpkg "github.com/moodcal/moodcal-api/internal/logger"
	"github.com/moodcal/moodcal-api/internal/models"
	"github.com/moodcal/moodcal-api/internal/request"
)

// TokenVerifier checks a bearer token and returns its claims.
type TokenVerifier interface {
	Verify(ctx context.Context, tokenString string) (*models.JWTClaims, error)
}

// Auth creates authentication middleware that validates bearer tokens and
// attaches the caller identity to the request context. The subject claim is
// the user ID everywhere downstream; there is no local user table.
func Auth(verifier TokenVerifier, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				respondError(w, http.StatusUnauthorized, "missing Authorization header")
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				respondError(w, http.StatusUnauthorized, "invalid Authorization header format")
				return
			}

			claims, err := verifier.Verify(r.Context(), parts[1])
			if err != nil {
				logger.Info("token_verification_failed",
					zap.String("error", logpkg.SanitizeError(err)),
				)
				respondError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			identity := &models.Identity{
				Subject: claims.Sub,
				Email:   claims.Email,
			}

			ctx := request.WithIdentity(r.Context(), identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
