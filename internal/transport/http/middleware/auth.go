package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dankop/agora/internal/domain"
)

type contextKey string

const principalKey contextKey = "principal"

// Auth requires a valid Bearer token and stores the resolved Principal in
// the request context.
func Auth(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := principalFromRequest(r, jwtSecret)
			if !ok {
				http.Error(w, `{"error":{"code":"UNAUTHORIZED","message":"Missing or invalid token"}}`, http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), principalKey, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth resolves the Principal when a valid token is present but
// lets anonymous requests through. Public routes use this so the caller
// identity is still available when offered.
func OptionalAuth(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if principal, ok := principalFromRequest(r, jwtSecret); ok {
				r = r.WithContext(context.WithValue(r.Context(), principalKey, principal))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetPrincipal extracts the resolved Principal from the request context.
// Returns nil for anonymous callers; never panics.
func GetPrincipal(ctx context.Context) *domain.Principal {
	principal, _ := ctx.Value(principalKey).(*domain.Principal)
	return principal
}

func principalFromRequest(r *http.Request, jwtSecret string) (*domain.Principal, bool) {
	header := r.Header.Get("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		return nil, false
	}

	tokenStr := strings.TrimPrefix(header, "Bearer ")
	return ParsePrincipal(tokenStr, jwtSecret)
}

// ParsePrincipal validates an HS256 token and rebuilds the Principal from
// its claims ("sub" user id, "roles" string list).
func ParsePrincipal(tokenStr, jwtSecret string) (*domain.Principal, bool) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
		return []byte(jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, false
	}

	sub, _ := claims.GetSubject()
	userID, err := uuid.Parse(sub)
	if err != nil {
		return nil, false
	}

	principal := &domain.Principal{UserID: userID}
	if raw, ok := claims["roles"].([]any); ok {
		for _, r := range raw {
			if s, ok := r.(string); ok {
				principal.Roles = append(principal.Roles, domain.Role(s))
			}
		}
	}

	return principal, true
}
