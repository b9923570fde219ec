package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rookgm/chinpay/internal/events"
	"github.com/rookgm/chinpay/internal/logger"
	"github.com/rookgm/chinpay/internal/metrics"
	"github.com/rookgm/chinpay/internal/models"
	"github.com/rookgm/chinpay/internal/registry"
	"go.uber.org/zap"
)

const defaultRetireGrace = 60 * time.Second

// Store is interface for interacting with durable orders and codes
type Store interface {
	// InsertOrder inserts terminal order
	InsertOrder(ctx context.Context, order *models.Order) error
	// InsertCDK inserts new unused code
	InsertCDK(ctx context.Context, cdk *models.CDK) error
	// CompleteOrder inserts completed order and its code atomically
	CompleteOrder(ctx context.Context, order *models.Order, cdk *models.CDK) error
	// GetOrder returns terminal order by id
	GetOrder(ctx context.Context, id string) (*models.Order, error)
	// FindCDKByOrderID returns code issued by order
	FindCDKByOrderID(ctx context.Context, orderID string) (*models.CDK, error)
	// GetCDK returns code record
	GetCDK(ctx context.Context, code string) (*models.CDK, error)
	// ClaimCDK sets claimant of unused code and returns number of claimed codes (0 or 1)
	ClaimCDK(ctx context.Context, code, claimant string) (int64, error)
	// FindPlanIDForCDK returns plan id of code
	FindPlanIDForCDK(ctx context.Context, code string) (int, error)
}

// PlanCatalog resolves plans
type PlanCatalog interface {
	ByID(id int) (models.Plan, bool)
	All() []models.Plan
}

// OrderService drives order lifecycle
type OrderService struct {
	store    Store
	plans    PlanCatalog
	registry *registry.Registry
	grace    time.Duration
	metrics  *metrics.Metrics
	events   events.Publisher
}

// OrderOption configures OrderService
type OrderOption func(s *OrderService)

// WithRetireGrace sets how long completed order stays in registry after it has been observed
func WithRetireGrace(d time.Duration) OrderOption {
	return func(s *OrderService) {
		s.grace = d
	}
}

// WithMetrics sets metrics
func WithMetrics(m *metrics.Metrics) OrderOption {
	return func(s *OrderService) {
		s.metrics = m
	}
}

// WithPublisher sets event publisher
func WithPublisher(p events.Publisher) OrderOption {
	return func(s *OrderService) {
		s.events = p
	}
}

// NewOrderService creates new OrderService instance
func NewOrderService(store Store, plans PlanCatalog, reg *registry.Registry, opts ...OrderOption) (*OrderService, error) {
	if store == nil || plans == nil || reg == nil {
		return nil, models.ErrNotInitialized
	}

	s := &OrderService{
		store:    store,
		plans:    plans,
		registry: reg,
		grace:    defaultRetireGrace,
		events:   events.Nop{},
	}
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// Create creates pending order. Order with unknown plan is still created, its confirmation fails later.
func (s *OrderService) Create(_ context.Context, price int64, planID int) (models.Order, error) {
	if price <= 0 {
		return models.Order{}, models.ErrInvalidAmount
	}

	order := models.Order{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Price:     price,
		PlanID:    planID,
		Status:    models.StatusPending,
	}
	if plan, ok := s.plans.ByID(planID); ok {
		order.Plan = &plan
	} else {
		logger.Log.Warn("order created for unknown plan", zap.String("order", order.ID), zap.Int("plan", planID))
	}

	if err := s.registry.Insert(order); err != nil {
		return models.Order{}, fmt.Errorf("insert order: %w", err)
	}
	s.metrics.OrderCreated()

	logger.Log.Info("order created",
		zap.String("order", order.ID),
		zap.Int64("price", price),
		zap.Int("plan", planID))

	return order, nil
}

// Confirm applies payment confirmation to pending order.
// Terminal state is persisted before it becomes visible. If persisting fails the order stays
// pending and the error is returned, so redelivered confirmation can complete it.
func (s *OrderService) Confirm(ctx context.Context, c models.Confirmation) (models.ConfirmOutcome, error) {
	// started write must not be abandoned half way
	writeCtx := context.WithoutCancel(ctx)

	outcome := models.OutcomeIgnored
	var finalized models.Order

	found, err := s.registry.Update(c.Reference, func(order *models.Order) error {
		if order.Status.IsTerminal() {
			outcome = models.OutcomeDuplicate
			return nil
		}

		order.ExternalReference = c.TradeNo

		var err error
		if s.priceMatches(order, c.Amount) {
			err = s.complete(writeCtx, order)
		} else {
			err = s.fail(writeCtx, order)
		}
		if err != nil {
			return err
		}

		if order.Status == models.StatusCompleted {
			outcome = models.OutcomeCompleted
		} else {
			outcome = models.OutcomeFailed
		}
		finalized = *order

		return nil
	})
	if !found {
		logger.Log.Debug("confirmation for unknown order is ignored", zap.String("reference", c.Reference))
		s.metrics.Confirmation(models.OutcomeIgnored.String())
		return models.OutcomeIgnored, nil
	}
	if err != nil {
		logger.Log.Error("confirm order",
			zap.String("order", c.Reference),
			zap.String("trade_no", c.TradeNo),
			zap.Error(err))
		return models.OutcomeIgnored, err
	}

	s.metrics.Confirmation(outcome.String())
	if outcome == models.OutcomeDuplicate {
		logger.Log.Debug("duplicate confirmation is ignored", zap.String("order", c.Reference))
		return outcome, nil
	}

	s.finalized(ctx, finalized, c.Amount)

	return outcome, nil
}

// priceMatches checks amount against both the order price and the plan price
func (s *OrderService) priceMatches(order *models.Order, amount int64) bool {
	plan, ok := s.plans.ByID(order.PlanID)
	if !ok {
		return false
	}
	return amount == order.Price && amount == plan.Price
}

func (s *OrderService) complete(ctx context.Context, order *models.Order) error {
	cdk := models.NewCDK(order.PlanID, order.ID)
	order.Status = models.StatusCompleted
	order.CDK = cdk.Code

	err := s.store.CompleteOrder(ctx, order, cdk)
	if err == nil {
		return nil
	}
	if errors.Is(err, models.ErrConflictData) {
		return s.adoptPersisted(ctx, order)
	}

	return fmt.Errorf("persist completed order: %w", err)
}

func (s *OrderService) fail(ctx context.Context, order *models.Order) error {
	order.Status = models.StatusFailed
	order.CDK = ""

	err := s.store.InsertOrder(ctx, order)
	if err == nil {
		return nil
	}
	if errors.Is(err, models.ErrConflictData) {
		return s.adoptPersisted(ctx, order)
	}

	return fmt.Errorf("persist failed order: %w", err)
}

// adoptPersisted takes terminal state committed by an earlier attempt whose outcome was lost
func (s *OrderService) adoptPersisted(ctx context.Context, order *models.Order) error {
	stored, err := s.store.GetOrder(ctx, order.ID)
	if err != nil {
		return fmt.Errorf("get persisted order: %w", err)
	}

	order.Status = stored.Status
	order.ExternalReference = stored.ExternalReference
	order.CDK = ""

	if stored.Status == models.StatusCompleted {
		cdk, err := s.store.FindCDKByOrderID(ctx, order.ID)
		if err != nil {
			return fmt.Errorf("get persisted cdk: %w", err)
		}
		order.CDK = cdk.Code
	}

	logger.Log.Warn("order was already persisted, adopting stored state",
		zap.String("order", order.ID),
		zap.String("status", string(order.Status)))

	return nil
}

func (s *OrderService) finalized(ctx context.Context, order models.Order, amount int64) {
	s.metrics.OrderFinalized(string(order.Status))

	if order.Status == models.StatusCompleted {
		logger.Log.Info("order completed",
			zap.String("order", order.ID),
			zap.String("trade_no", order.ExternalReference),
			zap.Int("plan", order.PlanID))
	} else {
		logger.Log.Warn("order failed",
			zap.String("order", order.ID),
			zap.String("trade_no", order.ExternalReference),
			zap.Int64("price", order.Price),
			zap.Int64("amount", amount),
			zap.Int("plan", order.PlanID))
	}

	err := s.events.Publish(ctx, events.TypeOrderFinalized, order.ID, events.OrderFinalized{
		OrderID:           order.ID,
		Status:            string(order.Status),
		PlanID:            order.PlanID,
		Price:             order.Price,
		ExternalReference: order.ExternalReference,
	})
	if err != nil {
		logger.Log.Error("publish order finalized", zap.String("order", order.ID), zap.Error(err))
	}
}

// Status returns order status. Completed order is retired from registry after grace period.
func (s *OrderService) Status(_ context.Context, id string) models.Status {
	order, ok := s.registry.Get(id)
	if !ok {
		return models.StatusNotFound
	}

	if order.Status == models.StatusCompleted {
		s.registry.Retire(id, s.grace)
	}

	return order.Status
}

// OrderCDK returns code issued for order, empty if there is none
func (s *OrderService) OrderCDK(ctx context.Context, orderID string) (string, error) {
	if order, ok := s.registry.Get(orderID); ok && order.CDK != "" {
		return order.CDK, nil
	}

	cdk, err := s.store.FindCDKByOrderID(ctx, orderID)
	if err != nil {
		if errors.Is(err, models.ErrDataNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("find cdk: %w", err)
	}

	return cdk.Code, nil
}

// Plans returns all plans
func (s *OrderService) Plans() []models.Plan {
	return s.plans.All()
}
