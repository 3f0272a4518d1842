package middleware

import (
	"context"
	"net/http"
	"strings"

	"shop-admin/internal/upstream"

	"go.uber.org/zap"
)

type contextKey string

const (
	AuthContextKey contextKey = "auth_context"
)

// AuthMiddleware requires a bearer token and stores it as an
// upstream.AuthContext on the request. Token validity is checked by the back
// office on every forwarded call.
func AuthMiddleware(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Extract token from Authorization header
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.Debug("Missing authorization header")
				RespondWithError(w, http.StatusUnauthorized, "missing authorization header")
				return
			}

			// Check for Bearer token format
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
				logger.Debug("Invalid authorization header format")
				RespondWithError(w, http.StatusUnauthorized, "invalid authorization header format")
				return
			}

			auth := upstream.NewAuthContext(parts[1])

			logger.Debug("Bearer token present", zap.String("subject", auth.Subject))

			ctx := context.WithValue(r.Context(), AuthContextKey, auth)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetAuthContext extracts the caller's AuthContext from request context
func GetAuthContext(ctx context.Context) (upstream.AuthContext, bool) {
	auth, ok := ctx.Value(AuthContextKey).(upstream.AuthContext)
	return auth, ok
}
