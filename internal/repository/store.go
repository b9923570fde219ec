package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rookgm/chinpay/internal/models"
	"github.com/rookgm/chinpay/internal/repository/postgres"
)

// Store combines order and cdk repositories over one database
type Store struct {
	*OrderRepository
	*CDKRepository
	db *postgres.DB
}

// NewStore creates new Store instance
func NewStore(db *postgres.DB) *Store {
	return &Store{
		OrderRepository: NewOrderRepository(db),
		CDKRepository:   NewCDKRepository(db),
		db:              db,
	}
}

// CompleteOrder inserts completed order and its code in one transaction
func (s *Store) CompleteOrder(ctx context.Context, order *models.Order, cdk *models.CDK) error {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := s.OrderRepository.insert(ctx, tx, order); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	if err := s.CDKRepository.insert(ctx, tx, cdk); err != nil {
		return fmt.Errorf("insert cdk: %w", err)
	}

	return tx.Commit(ctx)
}

// Close closes database
func (s *Store) Close() error {
	s.db.Close()
	return nil
}
