package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims carries the principal issued by the identity provider.
// UserID is kept as the raw string from the token and parsed on use.
type TokenClaims struct {
	Type   string `json:"type"`
	UserID string `json:"user_id"`
	Email  string `json:"email,omitempty"`
	Role   string `json:"role,omitempty"`
	jwt.RegisteredClaims
}
