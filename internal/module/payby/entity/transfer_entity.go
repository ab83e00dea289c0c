package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/paybridge/server/internal/module/payby/domain"
)

// TransferEntity is the persistence model for fund transfers.
type TransferEntity struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TransferID         string    `gorm:"index"`
	MerchantTransferNo string    `gorm:"uniqueIndex;not null"`
	TransferType       string    `gorm:"not null"`
	FromAccount        string    `gorm:"not null"`
	ToAccount          string
	Amount             string `gorm:"type:decimal(20,2);not null"`
	Currency           string `gorm:"not null;default:AED"`
	Status             string `gorm:"not null;default:PENDING;index"`
	TransferReason     string
	NotifyURL          string
	BankTransferInfo   string `gorm:"type:jsonb"`
	AccessoryContent   string `gorm:"type:jsonb"`
	TransferTime       *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// TableName returns the database table name.
func (TransferEntity) TableName() string {
	return "payby_transfers"
}

// ToDomain converts the entity to a domain Transfer.
func (e *TransferEntity) ToDomain() (*domain.Transfer, error) {
	amount, err := domain.NewMoney(e.Amount, e.Currency)
	if err != nil {
		return nil, fmt.Errorf("transfer %s: %w", e.MerchantTransferNo, err)
	}
	return &domain.Transfer{
		ID:                 e.ID,
		TransferID:         e.TransferID,
		MerchantTransferNo: e.MerchantTransferNo,
		TransferType:       domain.TransferType(e.TransferType),
		FromAccount:        e.FromAccount,
		ToAccount:          e.ToAccount,
		TransferAmount:     amount,
		Status:             domain.TransferStatus(e.Status),
		TransferReason:     e.TransferReason,
		NotifyURL:          e.NotifyURL,
		BankTransferInfo:   decodeMap(e.BankTransferInfo),
		AccessoryContent:   decodeMap(e.AccessoryContent),
		TransferTime:       e.TransferTime,
		CreatedAt:          e.CreatedAt,
		UpdatedAt:          e.UpdatedAt,
	}, nil
}

// TransferFromDomain creates a TransferEntity from a domain Transfer.
func TransferFromDomain(t *domain.Transfer) *TransferEntity {
	return &TransferEntity{
		ID:                 t.ID,
		TransferID:         t.TransferID,
		MerchantTransferNo: t.MerchantTransferNo,
		TransferType:       string(t.TransferType),
		FromAccount:        t.FromAccount,
		ToAccount:          t.ToAccount,
		Amount:             t.TransferAmount.Amount(),
		Currency:           t.TransferAmount.Currency(),
		Status:             string(t.Status),
		TransferReason:     t.TransferReason,
		NotifyURL:          t.NotifyURL,
		BankTransferInfo:   encodeMap(t.BankTransferInfo),
		AccessoryContent:   encodeMap(t.AccessoryContent),
		TransferTime:       t.TransferTime,
		CreatedAt:          t.CreatedAt,
		UpdatedAt:          t.UpdatedAt,
	}
}
