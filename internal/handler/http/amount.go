package handler

import (
	"math"

	"github.com/rookgm/chinpay/internal/models"
	"github.com/shopspring/decimal"
)

var (
	maxCents = decimal.NewFromInt(math.MaxInt64)
	minCents = decimal.NewFromInt(math.MinInt64)
)

// centsOf converts major-unit amount to cents.
// Sub-cent precision and values outside int64 are rejected.
func centsOf(amount decimal.Decimal) (int64, error) {
	cents := amount.Shift(2)
	if !cents.IsInteger() || cents.GreaterThan(maxCents) || cents.LessThan(minCents) {
		return 0, models.ErrInvalidAmount
	}
	return cents.IntPart(), nil
}

// toCents is centsOf for prices, non-positive amounts are rejected too
func toCents(amount decimal.Decimal) (int64, error) {
	cents, err := centsOf(amount)
	if err != nil {
		return 0, err
	}
	if cents <= 0 {
		return 0, models.ErrInvalidAmount
	}
	return cents, nil
}
