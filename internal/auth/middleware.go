package auth

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/BradenHooton/userservice/internal/models"
	pkghttp "github.com/BradenHooton/userservice/pkg/http"
)

// contextKey is a custom type for context keys
type contextKey string

const (
	// UserContextKey is the key for storing user claims in context
	UserContextKey contextKey = "user"
)

// AuthMiddleware validates bearer tokens and injects the claims into the request context
func AuthMiddleware(tm *TokenManager) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				pkghttp.WriteUnauthorized(w, "missing authorization header")
				return
			}

			scheme, tokenString, ok := strings.Cut(authHeader, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") || tokenString == "" {
				pkghttp.WriteUnauthorized(w, "invalid authorization header format")
				return
			}

			claims, err := tm.ValidateToken(tokenString)
			if err != nil {
				pkghttp.WriteUnauthorized(w, "invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

// WithClaims returns a copy of ctx carrying claims
func WithClaims(ctx context.Context, claims *models.TokenClaims) context.Context {
	return context.WithValue(ctx, UserContextKey, claims)
}

// GetUserFromContext extracts user claims from request context
func GetUserFromContext(r *http.Request) *models.TokenClaims {
	claims, ok := r.Context().Value(UserContextKey).(*models.TokenClaims)
	if !ok {
		return nil
	}
	return claims
}

// CurrentUserID parses the caller's principal as a numeric user id. A missing or
// malformed principal is an invalid argument, not an authentication failure.
func CurrentUserID(ctx context.Context) (int64, error) {
	claims, ok := ctx.Value(UserContextKey).(*models.TokenClaims)
	if !ok || claims == nil {
		return 0, fmt.Errorf("%w: no authenticated principal", models.ErrInvalidArgument)
	}

	principal := claims.UserID
	if principal == "" {
		principal = claims.Subject
	}

	id, err := strconv.ParseInt(principal, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: principal %q is not a user id", models.ErrInvalidArgument, principal)
	}
	return id, nil
}
