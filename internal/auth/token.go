package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/calebmorse/taskpoint/internal/model"
)

// ErrInvalidToken is returned for malformed, expired, or mis-signed tokens.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the bearer token payload: a point-in-time copy of the user's
// identity. Tokens carry no exp claim (logout is client-side token
// deletion), though Verify honors one if present.
type Claims struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
	jwt.RegisteredClaims
}

// TokenManager signs and verifies stateless HMAC bearer tokens.
type TokenManager struct {
	secret []byte
}

func NewTokenManager(secret string) *TokenManager {
	return &TokenManager{secret: []byte(secret)}
}

// Issue creates a signed token for the given user.
func (m *TokenManager) Issue(u *model.User) (string, error) {
	claims := Claims{
		ID:      u.ID,
		Email:   u.Email,
		IsAdmin: u.IsAdmin,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a bearer token, returning the embedded identity.
func (m *TokenManager) Verify(tokenString string) (Identity, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return Identity{}, ErrInvalidToken
	}
	if claims.ID == "" {
		return Identity{}, ErrInvalidToken
	}

	return Identity{
		UserID:  claims.ID,
		Email:   claims.Email,
		IsAdmin: claims.IsAdmin,
	}, nil
}
