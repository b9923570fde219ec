// Package auth issues and verifies admin session tokens.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/rookgm/chinpay/internal/models"
)

const tokenTTL = 12 * time.Hour

// ErrInvalidToken is returned when token can not be verified
var ErrInvalidToken = errors.New("invalid token")

// AuthToken creates and verifies HS256 signed tokens
type AuthToken struct {
	key []byte
	now func() time.Time
}

// NewAuthToken creates AuthToken with signing key
func NewAuthToken(key []byte) *AuthToken {
	return &AuthToken{
		key: key,
		now: time.Now,
	}
}

// CreateToken creates signed token for subject
func (a *AuthToken) CreateToken(subject string) (string, error) {
	now := a.now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(a.key)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}

// VerifyToken verifies token and returns its payload
func (a *AuthToken) VerifyToken(tokenString string) (*models.TokenPayload, error) {
	claims := &jwt.RegisteredClaims{}

	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	token, err := parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return a.key, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.ExpiresAt == nil || !claims.ExpiresAt.After(a.now()) {
		return nil, ErrInvalidToken
	}

	return &models.TokenPayload{
		Subject:   claims.Subject,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
