// Package events publishes order lifecycle events.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	TypeOrderFinalized = "OrderFinalized"
	TypeCDKRedeemed    = "CDKRedeemed"
)

// Envelope wraps every published event
type Envelope struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	Key        string          `json:"key"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

// OrderFinalized is emitted when order reaches terminal status
type OrderFinalized struct {
	OrderID           string `json:"order_id"`
	Status            string `json:"status"`
	PlanID            int    `json:"plan_id"`
	Price             int64  `json:"price"`
	ExternalReference string `json:"external_reference"`
}

// CDKRedeemed is emitted on successful redemption. Code is not included.
type CDKRedeemed struct {
	OrderID  string `json:"order_id,omitempty"`
	PlanID   int    `json:"plan_id"`
	Claimant string `json:"claimant"`
}

// Publisher publishes events, implementations must not block on broker I/O
type Publisher interface {
	Publish(ctx context.Context, eventType, key string, payload any) error
}

// NewEnvelope marshals payload into envelope
func NewEnvelope(eventType, key string, payload any) (Envelope, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, err
	}

	return Envelope{
		ID:         uuid.NewString(),
		Type:       eventType,
		Key:        key,
		OccurredAt: time.Now().UTC(),
		Payload:    raw,
	}, nil
}

// Nop discards events
type Nop struct{}

func (Nop) Publish(context.Context, string, string, any) error { return nil }
