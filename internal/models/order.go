package models

import "time"

// Status is order status
type Status string

// order status
const (
	StatusPending   Status = "Pending"
	StatusCompleted Status = "Completed"
	StatusFailed    Status = "Failed"
	// StatusNotFound is returned by status queries only, it is never stored
	StatusNotFound Status = "NotFound"
)

// IsTerminal reports whether no further transition is defined out of the status
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Order is order entity
type Order struct {
	ID        string
	CreatedAt time.Time
	// Price in cents submitted at creation
	Price  int64
	PlanID int
	// Plan is nil if the plan could not be resolved at creation
	Plan *Plan
	// ExternalReference is the payment provider trade number, set by the confirmation
	ExternalReference string
	Status            Status
	// CDK is set iff Status is StatusCompleted
	CDK string
}

// Confirmation is payment confirmation reported by the payment provider
type Confirmation struct {
	// Reference correlates the confirmation with an order, the provider echoes our order id
	Reference string
	// TradeNo is the provider trade number
	TradeNo string
	// Amount in cents
	Amount int64
}

// ConfirmOutcome is result of applying a confirmation
type ConfirmOutcome int

const (
	// OutcomeIgnored means no order in the registry matches the confirmation
	OutcomeIgnored ConfirmOutcome = iota
	// OutcomeDuplicate means the order is already terminal
	OutcomeDuplicate
	// OutcomeFailed means the order transitioned to Failed
	OutcomeFailed
	// OutcomeCompleted means the order transitioned to Completed and a CDK was issued
	OutcomeCompleted
)

func (o ConfirmOutcome) String() string {
	switch o {
	case OutcomeDuplicate:
		return "duplicate"
	case OutcomeFailed:
		return "failed"
	case OutcomeCompleted:
		return "completed"
	default:
		return "ignored"
	}
}
