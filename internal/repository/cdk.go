package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/rookgm/chinpay/internal/models"
	"github.com/rookgm/chinpay/internal/repository/postgres"
)

const (
	insertCDKQuery = `
						INSERT INTO cdks (code, order_id, plan_id, created_at)
						VALUES ($1, $2, $3, $4)
`
	selectCDKByOrderIDQuery = `
						SELECT code, order_id, plan_id, used_by, used_at, created_at FROM cdks
						WHERE order_id = $1
`
	selectCDKByCodeQuery = `
						SELECT code, order_id, plan_id, used_by, used_at, created_at FROM cdks
						WHERE code = $1
`
	claimCDKQuery = `
						UPDATE cdks
						SET used_by = $1, used_at = now()
						WHERE code = $2 AND used_by IS NULL
`
	selectPlanIDByCodeQuery = `
						SELECT plan_id FROM cdks
						WHERE code = $1
`
)

// CDKRepository implements cdk storage in postgres
type CDKRepository struct {
	db *postgres.DB
}

// NewCDKRepository creates new CDKRepository instance
func NewCDKRepository(db *postgres.DB) *CDKRepository {
	return &CDKRepository{db: db}
}

// InsertCDK inserts new unused code
func (cr *CDKRepository) InsertCDK(ctx context.Context, cdk *models.CDK) error {
	return cr.insert(ctx, cr.db, cdk)
}

func (cr *CDKRepository) insert(ctx context.Context, q querier, cdk *models.CDK) error {
	_, err := q.Exec(ctx, insertCDKQuery, cdk.Code, cdk.OrderID, cdk.PlanID, cdk.CreatedAt)
	if err != nil {
		if errCode := cr.db.ErrorCode(err); errCode == pgErrUniqueViolationCode {
			return models.ErrConflictData
		}
		return err
	}

	return nil
}

// FindCDKByOrderID returns code issued by order
func (cr *CDKRepository) FindCDKByOrderID(ctx context.Context, orderID string) (*models.CDK, error) {
	return cr.scanOne(cr.db.QueryRow(ctx, selectCDKByOrderIDQuery, orderID))
}

// GetCDK returns code record
func (cr *CDKRepository) GetCDK(ctx context.Context, code string) (*models.CDK, error) {
	return cr.scanOne(cr.db.QueryRow(ctx, selectCDKByCodeQuery, code))
}

func (cr *CDKRepository) scanOne(row pgx.Row) (*models.CDK, error) {
	cdk := models.CDK{}
	err := row.Scan(&cdk.Code, &cdk.OrderID, &cdk.PlanID, &cdk.UsedBy, &cdk.UsedAt, &cdk.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrDataNotFound
		}
		return nil, err
	}

	return &cdk, nil
}

// ClaimCDK sets claimant of unused code, it returns number of affected rows (0 or 1)
func (cr *CDKRepository) ClaimCDK(ctx context.Context, code, claimant string) (int64, error) {
	cmd, err := cr.db.Exec(ctx, claimCDKQuery, claimant, code)
	if err != nil {
		return 0, err
	}

	return cmd.RowsAffected(), nil
}

// FindPlanIDForCDK returns plan id of code
func (cr *CDKRepository) FindPlanIDForCDK(ctx context.Context, code string) (int, error) {
	var planID int
	err := cr.db.QueryRow(ctx, selectPlanIDByCodeQuery, code).Scan(&planID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, models.ErrDataNotFound
		}
		return 0, err
	}

	return planID, nil
}
