package handlers

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dankop/agora/internal/domain"
)

const tokenTTL = 24 * time.Hour

// TokenIssuer signs access tokens carrying the principal's id and roles.
type TokenIssuer struct {
	secret []byte
}

func NewTokenIssuer(jwtSecret string) *TokenIssuer {
	return &TokenIssuer{secret: []byte(jwtSecret)}
}

func (t *TokenIssuer) Issue(userID uuid.UUID, roles []domain.Role) (string, error) {
	claims := jwt.MapClaims{
		"sub": userID.String(),
		"exp": time.Now().Add(tokenTTL).Unix(),
		"iat": time.Now().Unix(),
	}
	if len(roles) > 0 {
		strs := make([]string, len(roles))
		for i, r := range roles {
			strs[i] = string(r)
		}
		claims["roles"] = strs
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}
