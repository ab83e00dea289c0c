package domain

import (
	"time"

	"github.com/google/uuid"
)

// Order is a payment order as known to the merchant side. The gateway
// assigns OrderID once it accepts the create request; MerchantOrderNo is
// the caller-supplied idempotency key.
type Order struct {
	ID               uuid.UUID
	OrderID          string
	MerchantOrderNo  string
	Subject          string
	TotalAmount      Money
	PaySceneCode     PaySceneCode
	Status           OrderStatus
	PaymentMethod    string
	QRCodeData       string
	QRCodeURL        string
	PaymentURL       string
	NotifyURL        string
	ReturnURL        string
	AccessoryContent map[string]any
	ConfigName       string
	PayTime          *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// IsPaid reports whether the order has been paid.
func (o *Order) IsPaid() bool {
	return o.Status.IsPaid()
}

// CanBeCancelled reports whether the order may still be cancelled.
func (o *Order) CanBeCancelled() bool {
	return o.Status.CanBeCancelled()
}

// IsFinal reports whether the order reached a final status.
func (o *Order) IsFinal() bool {
	return o.Status.IsFinal()
}

// RefundableAmount returns the order total minus the sum of all refunds
// in SUCCESS status. Refunds in any other status do not reduce it. An
// unpaid order has nothing to refund.
func (o *Order) RefundableAmount(refunds []*Refund) Money {
	if !o.IsPaid() {
		return ZeroMoney(o.TotalAmount.Currency())
	}
	refundable := o.TotalAmount
	for _, r := range refunds {
		if r.Status != RefundStatusSuccess {
			continue
		}
		rest, err := refundable.Sub(r.RefundAmount)
		if err != nil {
			// Over-refunded or mixed currencies in storage; fail closed.
			return ZeroMoney(o.TotalAmount.Currency())
		}
		refundable = rest
	}
	return refundable
}
