package gateway

import (
	"github.com/paybridge/server/internal/module/payby/domain"
)

// CreateOrderRequest is the payload for the create-order operation.
type CreateOrderRequest struct {
	MerchantOrderNo  string
	Subject          string
	TotalAmount      domain.Money
	PaySceneCode     domain.PaySceneCode
	NotifyURL        string
	ReturnURL        string
	AccessoryContent map[string]any
}

// Body renders the request as a gateway payload. Optional fields are
// omitted entirely rather than sent empty.
func (r *CreateOrderRequest) Body() map[string]any {
	body := map[string]any{
		"merchantOrderNo": r.MerchantOrderNo,
		"subject":         r.Subject,
		"totalAmount":     r.TotalAmount.ToMap(),
		"paySceneCode":    string(r.PaySceneCode),
	}
	if r.NotifyURL != "" {
		body["notifyUrl"] = r.NotifyURL
	}
	if r.ReturnURL != "" {
		body["returnUrl"] = r.ReturnURL
	}
	if len(r.AccessoryContent) > 0 {
		body["accessoryContent"] = r.AccessoryContent
	}
	return body
}

// CreateRefundRequest is the payload for the create-refund operation.
type CreateRefundRequest struct {
	MerchantRefundNo string
	MerchantOrderNo  string
	RefundAmount     domain.Money
	RefundReason     string
	NotifyURL        string
	AccessoryContent map[string]any
}

// Body renders the request as a gateway payload.
func (r *CreateRefundRequest) Body() map[string]any {
	body := map[string]any{
		"merchantRefundNo": r.MerchantRefundNo,
		"merchantOrderNo":  r.MerchantOrderNo,
		"refundAmount":     r.RefundAmount.ToMap(),
		"refundReason":     r.RefundReason,
	}
	if r.NotifyURL != "" {
		body["notifyUrl"] = r.NotifyURL
	}
	if len(r.AccessoryContent) > 0 {
		body["accessoryContent"] = r.AccessoryContent
	}
	return body
}

// CreateTransferRequest is the payload for the create-transfer
// operations. BankTransferInfo is set only for bank transfers, ToAccount
// only for internal ones.
type CreateTransferRequest struct {
	MerchantTransferNo string
	FromAccount        string
	ToAccount          string
	BankTransferInfo   map[string]any
	TransferAmount     domain.Money
	TransferReason     string
	NotifyURL          string
	AccessoryContent   map[string]any
}

// Body renders the request as a gateway payload.
func (r *CreateTransferRequest) Body() map[string]any {
	body := map[string]any{
		"merchantTransferNo": r.MerchantTransferNo,
		"fromAccount":        r.FromAccount,
		"transferAmount":     r.TransferAmount.ToMap(),
		"transferReason":     r.TransferReason,
	}
	if r.ToAccount != "" {
		body["toAccount"] = r.ToAccount
	}
	if len(r.BankTransferInfo) > 0 {
		body["bankTransferInfo"] = r.BankTransferInfo
	}
	if r.NotifyURL != "" {
		body["notifyUrl"] = r.NotifyURL
	}
	if len(r.AccessoryContent) > 0 {
		body["accessoryContent"] = r.AccessoryContent
	}
	return body
}
