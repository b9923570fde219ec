// Package sqlite implements the store on an embedded SQLite database through gorm.
package sqlite

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/rookgm/chinpay/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type orderRecord struct {
	ID                string    `gorm:"primaryKey;not null"`
	CreatedAt         time.Time `gorm:"not null"`
	ExternalReference string    `gorm:"not null;default:''"`
	Price             int64     `gorm:"not null"`
	PlanID            int       `gorm:"not null"`
	CDK               *string
	Status            string    `gorm:"size:16;not null"`
	FinalizedAt       time.Time `gorm:"autoCreateTime"`
}

func (orderRecord) TableName() string { return "orders" }

type cdkRecord struct {
	Code      string `gorm:"primaryKey;not null"`
	OrderID   string `gorm:"uniqueIndex;not null"`
	PlanID    int    `gorm:"not null"`
	UsedBy    *string
	UsedAt    *time.Time
	CreatedAt time.Time `gorm:"not null"`
}

func (cdkRecord) TableName() string { return "cdks" }

// Store implements store on sqlite
type Store struct {
	db *gorm.DB
}

// Open opens database file (":memory:" for in-memory database) and migrates schema
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create database dir: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// sqlite allows one writer, a single connection serializes statements instead of failing with SQLITE_BUSY
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&orderRecord{}, &cdkRecord{}); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes database
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// InsertOrder inserts terminal order
func (s *Store) InsertOrder(ctx context.Context, order *models.Order) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return insertOrder(tx, order)
	})
}

func insertOrder(tx *gorm.DB, order *models.Order) error {
	var count int64
	if err := tx.Model(&orderRecord{}).Where("id = ?", order.ID).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return models.ErrConflictData
	}

	rec := orderRecord{
		ID:                order.ID,
		CreatedAt:         order.CreatedAt,
		ExternalReference: order.ExternalReference,
		Price:             order.Price,
		PlanID:            order.PlanID,
		Status:            string(order.Status),
	}
	if order.CDK != "" {
		rec.CDK = &order.CDK
	}

	return tx.Create(&rec).Error
}

// InsertCDK inserts new unused code
func (s *Store) InsertCDK(ctx context.Context, cdk *models.CDK) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return insertCDK(tx, cdk)
	})
}

func insertCDK(tx *gorm.DB, cdk *models.CDK) error {
	var count int64
	err := tx.Model(&cdkRecord{}).
		Where("code = ? OR order_id = ?", cdk.Code, cdk.OrderID).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return models.ErrConflictData
	}

	return tx.Create(&cdkRecord{
		Code:      cdk.Code,
		OrderID:   cdk.OrderID,
		PlanID:    cdk.PlanID,
		CreatedAt: cdk.CreatedAt,
	}).Error
}

// CompleteOrder inserts completed order and its code in one transaction
func (s *Store) CompleteOrder(ctx context.Context, order *models.Order, cdk *models.CDK) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := insertOrder(tx, order); err != nil {
			return fmt.Errorf("insert order: %w", err)
		}
		if err := insertCDK(tx, cdk); err != nil {
			return fmt.Errorf("insert cdk: %w", err)
		}
		return nil
	})
}

// GetOrder returns order by id
func (s *Store) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	var rec orderRecord
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrDataNotFound
		}
		return nil, err
	}

	order := &models.Order{
		ID:                rec.ID,
		CreatedAt:         rec.CreatedAt,
		ExternalReference: rec.ExternalReference,
		Price:             rec.Price,
		PlanID:            rec.PlanID,
		Status:            models.Status(rec.Status),
	}
	if rec.CDK != nil {
		order.CDK = *rec.CDK
	}

	return order, nil
}

// FindCDKByOrderID returns code issued by order
func (s *Store) FindCDKByOrderID(ctx context.Context, orderID string) (*models.CDK, error) {
	return s.findCDK(ctx, "order_id = ?", orderID)
}

// GetCDK returns code record
func (s *Store) GetCDK(ctx context.Context, code string) (*models.CDK, error) {
	return s.findCDK(ctx, "code = ?", code)
}

func (s *Store) findCDK(ctx context.Context, query string, arg string) (*models.CDK, error) {
	var rec cdkRecord
	if err := s.db.WithContext(ctx).Where(query, arg).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrDataNotFound
		}
		return nil, err
	}

	return &models.CDK{
		Code:      rec.Code,
		PlanID:    rec.PlanID,
		OrderID:   rec.OrderID,
		UsedBy:    rec.UsedBy,
		UsedAt:    rec.UsedAt,
		CreatedAt: rec.CreatedAt,
	}, nil
}

// ClaimCDK sets claimant of unused code, it returns number of affected rows (0 or 1)
func (s *Store) ClaimCDK(ctx context.Context, code, claimant string) (int64, error) {
	res := s.db.WithContext(ctx).Model(&cdkRecord{}).
		Where("code = ? AND used_by IS NULL", code).
		Updates(map[string]interface{}{
			"used_by": claimant,
			"used_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return 0, res.Error
	}

	return res.RowsAffected, nil
}

// FindPlanIDForCDK returns plan id of code
func (s *Store) FindPlanIDForCDK(ctx context.Context, code string) (int, error) {
	var rec cdkRecord
	err := s.db.WithContext(ctx).Select("plan_id").Where("code = ?", code).First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, models.ErrDataNotFound
		}
		return 0, err
	}

	return rec.PlanID, nil
}
