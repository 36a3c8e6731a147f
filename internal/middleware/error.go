package middleware

import (
	"net/http"

	"go.uber.org/zap"
)

// ErrorHandler creates panic-recovery middleware. Panic details are logged
// server-side and never reach the client.
func ErrorHandler(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic_recovered",
						zap.Any("error", err),
						zap.String("path", r.URL.Path),
						zap.String("method", r.Method),
					)
					respondError(w, http.StatusInternalServerError, "an unexpected error occurred")
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
