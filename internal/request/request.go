package request

import (
	"context"
	"net/http"
	"strings"

	"github.com/moodcal/moodcal-api/internal/models"
)

type contextKey string

const identityContextKey contextKey = "identity"

// IdentityContextKey returns the context key used for the caller identity. Exposed for tests that inject non-identity values.
func IdentityContextKey() contextKey { return identityContextKey }

// ClientIP extracts the client IP from the request, respecting X-Forwarded-For and X-Real-IP.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		if len(parts) > 0 {
			return strings.TrimSpace(parts[0])
		}
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	return r.RemoteAddr
}

// WithIdentity returns a context with the caller identity attached.
func WithIdentity(ctx context.Context, identity *models.Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, identity)
}

// IdentityFromContext returns the caller identity from the request context, or nil if missing or wrong type.
func IdentityFromContext(r *http.Request) *models.Identity {
	id, _ := r.Context().Value(identityContextKey).(*models.Identity)
	return id
}
