package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rookgm/chinpay/internal/models"
	"github.com/rookgm/chinpay/internal/repository/postgres"
)

const pgErrUniqueViolationCode = "23505"

const (
	insertOrderQuery = `
						INSERT INTO orders (id, created_at, external_reference, price, plan_id, cdk, status)
						VALUES ($1, $2, $3, $4, $5, $6, $7)
`
	selectOrderByIDQuery = `
						SELECT id, created_at, external_reference, price, plan_id, cdk, status FROM orders
						WHERE id = $1
`
)

// querier is implemented by both pool and transaction
type querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// OrderRepository implements order storage in postgres
type OrderRepository struct {
	db *postgres.DB
}

// NewOrderRepository creates new OrderRepository instance
func NewOrderRepository(db *postgres.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// InsertOrder inserts terminal order to database
func (or *OrderRepository) InsertOrder(ctx context.Context, order *models.Order) error {
	return or.insert(ctx, or.db, order)
}

func (or *OrderRepository) insert(ctx context.Context, q querier, order *models.Order) error {
	var cdk *string
	if order.CDK != "" {
		cdk = &order.CDK
	}

	_, err := q.Exec(ctx, insertOrderQuery,
		order.ID, order.CreatedAt, order.ExternalReference, order.Price, order.PlanID, cdk, string(order.Status))
	if err != nil {
		if errCode := or.db.ErrorCode(err); errCode == pgErrUniqueViolationCode {
			return models.ErrConflictData
		}
		return err
	}

	return nil
}

// GetOrder returns order by id
func (or *OrderRepository) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	order := models.Order{}
	var (
		cdk    *string
		status string
	)
	err := or.db.QueryRow(ctx, selectOrderByIDQuery, id).Scan(&order.ID, &order.CreatedAt, &order.ExternalReference, &order.Price, &order.PlanID, &cdk, &status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrDataNotFound
		}
		return nil, err
	}
	if cdk != nil {
		order.CDK = *cdk
	}
	order.Status = models.Status(status)

	return &order, nil
}
