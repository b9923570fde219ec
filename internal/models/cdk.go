package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// CDK is single-use redemption code entity
type CDK struct {
	Code    string
	PlanID  int
	OrderID string
	// UsedBy is nil until the code is redeemed
	UsedBy    *string
	UsedAt    *time.Time
	CreatedAt time.Time
}

// NewCDK creates new unused code for plan issued by order
func NewCDK(planID int, orderID string) *CDK {
	return &CDK{
		Code:      strings.ReplaceAll(uuid.NewString(), "-", ""),
		PlanID:    planID,
		OrderID:   orderID,
		CreatedAt: time.Now().UTC(),
	}
}

// IsUsed reports whether the code has been claimed
func (c *CDK) IsUsed() bool {
	return c.UsedBy != nil
}
