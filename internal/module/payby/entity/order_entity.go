package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/paybridge/server/internal/module/payby/domain"
)

// OrderEntity is the persistence model for payment orders.
type OrderEntity struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderID          string    `gorm:"index"`
	MerchantOrderNo  string    `gorm:"uniqueIndex;not null"`
	Subject          string    `gorm:"not null"`
	Amount           string    `gorm:"type:decimal(20,2);not null"`
	Currency         string    `gorm:"not null;default:AED"`
	PaySceneCode     string    `gorm:"not null"`
	Status           string    `gorm:"not null;default:PENDING;index"`
	PaymentMethod    string
	QRCodeData       string
	QRCodeURL        string
	PaymentURL       string
	NotifyURL        string
	ReturnURL        string
	AccessoryContent string `gorm:"type:jsonb"`
	ConfigName       string
	PayTime          *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// TableName returns the database table name.
func (OrderEntity) TableName() string {
	return "payby_orders"
}

// ToDomain converts the entity to a domain Order.
func (e *OrderEntity) ToDomain() (*domain.Order, error) {
	amount, err := domain.NewMoney(e.Amount, e.Currency)
	if err != nil {
		return nil, fmt.Errorf("order %s: %w", e.MerchantOrderNo, err)
	}
	return &domain.Order{
		ID:               e.ID,
		OrderID:          e.OrderID,
		MerchantOrderNo:  e.MerchantOrderNo,
		Subject:          e.Subject,
		TotalAmount:      amount,
		PaySceneCode:     domain.PaySceneCode(e.PaySceneCode),
		Status:           domain.OrderStatus(e.Status),
		PaymentMethod:    e.PaymentMethod,
		QRCodeData:       e.QRCodeData,
		QRCodeURL:        e.QRCodeURL,
		PaymentURL:       e.PaymentURL,
		NotifyURL:        e.NotifyURL,
		ReturnURL:        e.ReturnURL,
		AccessoryContent: decodeMap(e.AccessoryContent),
		ConfigName:       e.ConfigName,
		PayTime:          e.PayTime,
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
	}, nil
}

// OrderFromDomain creates an OrderEntity from a domain Order.
func OrderFromDomain(o *domain.Order) *OrderEntity {
	return &OrderEntity{
		ID:               o.ID,
		OrderID:          o.OrderID,
		MerchantOrderNo:  o.MerchantOrderNo,
		Subject:          o.Subject,
		Amount:           o.TotalAmount.Amount(),
		Currency:         o.TotalAmount.Currency(),
		PaySceneCode:     string(o.PaySceneCode),
		Status:           string(o.Status),
		PaymentMethod:    o.PaymentMethod,
		QRCodeData:       o.QRCodeData,
		QRCodeURL:        o.QRCodeURL,
		PaymentURL:       o.PaymentURL,
		NotifyURL:        o.NotifyURL,
		ReturnURL:        o.ReturnURL,
		AccessoryContent: encodeMap(o.AccessoryContent),
		ConfigName:       o.ConfigName,
		PayTime:          o.PayTime,
		CreatedAt:        o.CreatedAt,
		UpdatedAt:        o.UpdatedAt,
	}
}
