package service

import (
	"context"
	"fmt"

	"github.com/rookgm/chinpay/internal/logger"
	"github.com/rookgm/chinpay/internal/models"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const adminSubject = "admin"

// AdminService serves administrative lookups
type AdminService struct {
	store        Store
	plans        PlanCatalog
	passwordHash []byte
	tokens       TokenService
}

// NewAdminService creates new AdminService instance, passwordHash is bcrypt hash of admin password
func NewAdminService(store Store, plans PlanCatalog, passwordHash []byte, tokens TokenService) (*AdminService, error) {
	if store == nil || plans == nil || tokens == nil {
		return nil, models.ErrNotInitialized
	}
	if _, err := bcrypt.Cost(passwordHash); err != nil {
		return nil, fmt.Errorf("admin password hash: %w", err)
	}

	return &AdminService{
		store:        store,
		plans:        plans,
		passwordHash: passwordHash,
		tokens:       tokens,
	}, nil
}

// Login checks admin password and returns session token
func (s *AdminService) Login(_ context.Context, password string) (string, error) {
	if err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)); err != nil {
		logger.Log.Warn("admin login failed")
		return "", models.ErrInvalidCredentials
	}

	token, err := s.tokens.CreateToken(adminSubject)
	if err != nil {
		return "", err
	}
	logger.Log.Info("admin logged in")

	return token, nil
}

// CDKDetails returns code record
func (s *AdminService) CDKDetails(ctx context.Context, code string) (*models.CDK, error) {
	if code == "" {
		return nil, models.ErrInvalidRequest
	}
	return s.store.GetCDK(ctx, code)
}

// OrderDetails returns persisted order record
func (s *AdminService) OrderDetails(ctx context.Context, orderID string) (*models.Order, error) {
	if orderID == "" {
		return nil, models.ErrInvalidRequest
	}

	order, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if plan, ok := s.plans.ByID(order.PlanID); ok {
		order.Plan = &plan
	}

	logger.Log.Debug("admin order lookup", zap.String("order", orderID))

	return order, nil
}
