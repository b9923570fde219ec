package service

import (
	"context"
	"fmt"

	"github.com/rookgm/chinpay/internal/events"
	"github.com/rookgm/chinpay/internal/logger"
	"github.com/rookgm/chinpay/internal/metrics"
	"github.com/rookgm/chinpay/internal/models"
	"github.com/rookgm/chinpay/internal/ratelimit"
	"go.uber.org/zap"
)

// Limiter limits redemption attempts per claimant
type Limiter interface {
	Allow(ctx context.Context, key string) (ratelimit.Result, error)
}

// CDKService redeems codes
type CDKService struct {
	store   Store
	plans   PlanCatalog
	limiter Limiter
	metrics *metrics.Metrics
	events  events.Publisher
}

// NewCDKService creates new CDKService instance, limiter may be nil
func NewCDKService(store Store, plans PlanCatalog, limiter Limiter, m *metrics.Metrics, p events.Publisher) (*CDKService, error) {
	if store == nil || plans == nil {
		return nil, models.ErrNotInitialized
	}
	if p == nil {
		p = events.Nop{}
	}

	return &CDKService{
		store:   store,
		plans:   plans,
		limiter: limiter,
		metrics: m,
		events:  p,
	}, nil
}

// Redeem claims unused code for claimant and returns plan the code grants.
// Claim is one conditional update, so of concurrent claims of one code exactly one wins.
func (s *CDKService) Redeem(ctx context.Context, code, claimant string) (models.Plan, error) {
	if code == "" || claimant == "" {
		return models.Plan{}, models.ErrInvalidRequest
	}

	if err := s.allow(ctx, claimant); err != nil {
		s.metrics.Redemption("limited")
		return models.Plan{}, err
	}

	n, err := s.store.ClaimCDK(ctx, code, claimant)
	if err != nil {
		s.metrics.Redemption("error")
		return models.Plan{}, fmt.Errorf("claim cdk: %w", err)
	}
	if n == 0 {
		s.metrics.Redemption("rejected")
		logger.Log.Info("cdk rejected", zap.String("user", claimant))
		return models.Plan{}, models.ErrCDKUsedOrUnknown
	}

	planID, err := s.store.FindPlanIDForCDK(ctx, code)
	if err != nil {
		s.metrics.Redemption("error")
		return models.Plan{}, fmt.Errorf("find plan for cdk: %w", err)
	}
	s.metrics.Redemption("ok")

	plan, ok := s.plans.ByID(planID)
	if !ok {
		logger.Log.Error("redeemed cdk refers to unknown plan", zap.Int("plan", planID))
		plan = models.Plan{ID: planID}
	}

	logger.Log.Info("cdk redeemed", zap.String("user", claimant), zap.Int("plan", planID))

	err = s.events.Publish(ctx, events.TypeCDKRedeemed, claimant, events.CDKRedeemed{
		PlanID:   planID,
		Claimant: claimant,
	})
	if err != nil {
		logger.Log.Error("publish cdk redeemed", zap.Error(err))
	}

	return plan, nil
}

// allow consults limiter, limiter failure does not block redemption
func (s *CDKService) allow(ctx context.Context, claimant string) error {
	if s.limiter == nil {
		return nil
	}

	res, err := s.limiter.Allow(ctx, claimant)
	if err != nil {
		logger.Log.Warn("rate limiter is unavailable", zap.Error(err))
		return nil
	}
	if !res.Allowed {
		return models.RateLimitedError{RetryAfter: res.RetryAfter}
	}

	return nil
}
