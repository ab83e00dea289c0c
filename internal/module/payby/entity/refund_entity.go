package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/paybridge/server/internal/module/payby/domain"
)

// RefundEntity is the persistence model for refunds.
type RefundEntity struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RefundID         string    `gorm:"index"`
	MerchantRefundNo string    `gorm:"uniqueIndex;not null"`
	OrderID          uuid.UUID `gorm:"type:uuid;not null;index"`
	Amount           string    `gorm:"type:decimal(20,2);not null"`
	Currency         string    `gorm:"not null;default:AED"`
	Status           string    `gorm:"not null;default:PENDING;index"`
	RefundReason     string
	NotifyURL        string
	AccessoryContent string `gorm:"type:jsonb"`
	RefundTime       *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// TableName returns the database table name.
func (RefundEntity) TableName() string {
	return "payby_refunds"
}

// ToDomain converts the entity to a domain Refund.
func (e *RefundEntity) ToDomain() (*domain.Refund, error) {
	amount, err := domain.NewMoney(e.Amount, e.Currency)
	if err != nil {
		return nil, fmt.Errorf("refund %s: %w", e.MerchantRefundNo, err)
	}
	return &domain.Refund{
		ID:               e.ID,
		RefundID:         e.RefundID,
		MerchantRefundNo: e.MerchantRefundNo,
		OrderID:          e.OrderID,
		RefundAmount:     amount,
		Status:           domain.RefundStatus(e.Status),
		RefundReason:     e.RefundReason,
		NotifyURL:        e.NotifyURL,
		AccessoryContent: decodeMap(e.AccessoryContent),
		RefundTime:       e.RefundTime,
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
	}, nil
}

// RefundFromDomain creates a RefundEntity from a domain Refund.
func RefundFromDomain(r *domain.Refund) *RefundEntity {
	return &RefundEntity{
		ID:               r.ID,
		RefundID:         r.RefundID,
		MerchantRefundNo: r.MerchantRefundNo,
		OrderID:          r.OrderID,
		Amount:           r.RefundAmount.Amount(),
		Currency:         r.RefundAmount.Currency(),
		Status:           string(r.Status),
		RefundReason:     r.RefundReason,
		NotifyURL:        r.NotifyURL,
		AccessoryContent: encodeMap(r.AccessoryContent),
		RefundTime:       r.RefundTime,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}
