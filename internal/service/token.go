package service

import "github.com/rookgm/chinpay/internal/models"

// TokenService creates and verifies admin session tokens
type TokenService interface {
	CreateToken(subject string) (string, error)
	VerifyToken(tokenString string) (*models.TokenPayload, error)
}
