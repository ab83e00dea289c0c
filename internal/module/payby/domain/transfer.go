package domain

import (
	"time"

	"github.com/google/uuid"
)

// Transfer is a fund transfer, either between gateway-internal accounts
// or out to an external bank account.
type Transfer struct {
	ID                 uuid.UUID
	TransferID         string
	MerchantTransferNo string
	TransferType       TransferType
	FromAccount        string
	ToAccount          string
	TransferAmount     Money
	Status             TransferStatus
	TransferReason     string
	NotifyURL          string
	BankTransferInfo   map[string]any
	AccessoryContent   map[string]any
	TransferTime       *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// IsFinal reports whether the transfer reached a final status.
func (t *Transfer) IsFinal() bool {
	return t.Status.IsFinal()
}
