package payby

import (
	"time"

	"github.com/paybridge/server/internal/module/payby/domain"
)

// MoneyDTO is the wire form of a monetary amount.
type MoneyDTO struct {
	Amount   string `json:"amount" binding:"required"`
	Currency string `json:"currency"`
}

// ToMoney converts the DTO into a validated Money value.
func (m MoneyDTO) ToMoney() (domain.Money, error) {
	currency := m.Currency
	if currency == "" {
		currency = domain.DefaultCurrency
	}
	return domain.NewMoney(m.Amount, currency)
}

func moneyDTO(m domain.Money) MoneyDTO {
	return MoneyDTO{Amount: m.Amount(), Currency: m.Currency()}
}

// CreateOrderDTO is the request body for creating a payment order.
type CreateOrderDTO struct {
	MerchantOrderNo  string         `json:"merchant_order_no" binding:"required"`
	Subject          string         `json:"subject" binding:"required"`
	TotalAmount      MoneyDTO       `json:"total_amount" binding:"required"`
	PaySceneCode     string         `json:"pay_scene_code" binding:"required"`
	NotifyURL        string         `json:"notify_url"`
	ReturnURL        string         `json:"return_url"`
	AccessoryContent map[string]any `json:"accessory_content"`
}

// CancelOrderDTO is the request body for cancelling an order.
type CancelOrderDTO struct {
	CancelReason string `json:"cancel_reason"`
}

// CreateRefundDTO is the request body for creating a refund.
type CreateRefundDTO struct {
	MerchantRefundNo string         `json:"merchant_refund_no" binding:"required"`
	MerchantOrderNo  string         `json:"merchant_order_no" binding:"required"`
	RefundAmount     MoneyDTO       `json:"refund_amount" binding:"required"`
	RefundReason     string         `json:"refund_reason"`
	NotifyURL        string         `json:"notify_url"`
	AccessoryContent map[string]any `json:"accessory_content"`
}

// CreateTransferDTO is the request body for creating a transfer. The
// internal endpoint requires to_account; the bank endpoint requires
// bank_transfer_info.
type CreateTransferDTO struct {
	MerchantTransferNo string         `json:"merchant_transfer_no" binding:"required"`
	FromAccount        string         `json:"from_account" binding:"required"`
	ToAccount          string         `json:"to_account"`
	BankTransferInfo   map[string]any `json:"bank_transfer_info"`
	TransferAmount     MoneyDTO       `json:"transfer_amount" binding:"required"`
	TransferReason     string         `json:"transfer_reason"`
	NotifyURL          string         `json:"notify_url"`
	AccessoryContent   map[string]any `json:"accessory_content"`
}

// OrderResponse is the API view of an order.
type OrderResponse struct {
	OrderID         string         `json:"order_id"`
	MerchantOrderNo string         `json:"merchant_order_no"`
	Subject         string         `json:"subject"`
	TotalAmount     MoneyDTO       `json:"total_amount"`
	PaySceneCode    string         `json:"pay_scene_code"`
	Status          string         `json:"status"`
	PaymentMethod   string         `json:"payment_method,omitempty"`
	QRCodeData      string         `json:"qr_code_data,omitempty"`
	QRCodeURL       string         `json:"qr_code_url,omitempty"`
	PaymentURL      string         `json:"payment_url,omitempty"`
	PayTime         *time.Time     `json:"pay_time,omitempty"`
	AccessoryContent map[string]any `json:"accessory_content,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// OrderToResponse converts a domain Order into its API view.
func OrderToResponse(o *domain.Order) *OrderResponse {
	return &OrderResponse{
		OrderID:          o.OrderID,
		MerchantOrderNo:  o.MerchantOrderNo,
		Subject:          o.Subject,
		TotalAmount:      moneyDTO(o.TotalAmount),
		PaySceneCode:     string(o.PaySceneCode),
		Status:           string(o.Status),
		PaymentMethod:    o.PaymentMethod,
		QRCodeData:       o.QRCodeData,
		QRCodeURL:        o.QRCodeURL,
		PaymentURL:       o.PaymentURL,
		PayTime:          o.PayTime,
		AccessoryContent: o.AccessoryContent,
		CreatedAt:        o.CreatedAt,
		UpdatedAt:        o.UpdatedAt,
	}
}

// RefundResponse is the API view of a refund.
type RefundResponse struct {
	RefundID         string     `json:"refund_id"`
	MerchantRefundNo string     `json:"merchant_refund_no"`
	RefundAmount     MoneyDTO   `json:"refund_amount"`
	Status           string     `json:"status"`
	RefundReason     string     `json:"refund_reason,omitempty"`
	RefundTime       *time.Time `json:"refund_time,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// RefundToResponse converts a domain Refund into its API view.
func RefundToResponse(r *domain.Refund) *RefundResponse {
	return &RefundResponse{
		RefundID:         r.RefundID,
		MerchantRefundNo: r.MerchantRefundNo,
		RefundAmount:     moneyDTO(r.RefundAmount),
		Status:           string(r.Status),
		RefundReason:     r.RefundReason,
		RefundTime:       r.RefundTime,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}

// TransferResponse is the API view of a transfer.
type TransferResponse struct {
	TransferID         string         `json:"transfer_id"`
	MerchantTransferNo string         `json:"merchant_transfer_no"`
	TransferType       string         `json:"transfer_type"`
	FromAccount        string         `json:"from_account"`
	ToAccount          string         `json:"to_account,omitempty"`
	BankTransferInfo   map[string]any `json:"bank_transfer_info,omitempty"`
	TransferAmount     MoneyDTO       `json:"transfer_amount"`
	Status             string         `json:"status"`
	TransferReason     string         `json:"transfer_reason,omitempty"`
	TransferTime       *time.Time     `json:"transfer_time,omitempty"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
}

// TransferToResponse converts a domain Transfer into its API view.
func TransferToResponse(t *domain.Transfer) *TransferResponse {
	return &TransferResponse{
		TransferID:         t.TransferID,
		MerchantTransferNo: t.MerchantTransferNo,
		TransferType:       string(t.TransferType),
		FromAccount:        t.FromAccount,
		ToAccount:          t.ToAccount,
		BankTransferInfo:   t.BankTransferInfo,
		TransferAmount:     moneyDTO(t.TransferAmount),
		Status:             string(t.Status),
		TransferReason:     t.TransferReason,
		TransferTime:       t.TransferTime,
		CreatedAt:          t.CreatedAt,
		UpdatedAt:          t.UpdatedAt,
	}
}
