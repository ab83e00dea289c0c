package domain

import (
	"time"

	"github.com/google/uuid"
)

// Refund references, but never owns, the order it refunds.
type Refund struct {
	ID               uuid.UUID
	RefundID         string
	MerchantRefundNo string
	OrderID          uuid.UUID
	RefundAmount     Money
	Status           RefundStatus
	RefundReason     string
	NotifyURL        string
	AccessoryContent map[string]any
	RefundTime       *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// IsFinal reports whether the refund reached a final status.
func (r *Refund) IsFinal() bool {
	return r.Status.IsFinal()
}
