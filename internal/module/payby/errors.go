package payby

import "errors"

// Module errors.
var (
	ErrOrderNotFound       = errors.New("payment order not found")
	ErrRefundNotFound      = errors.New("refund not found")
	ErrTransferNotFound    = errors.New("transfer not found")
	ErrConfigNotFound      = errors.New("gateway config not found")
	ErrDuplicateOrder      = errors.New("merchant order number already exists")
	ErrDuplicateRefund     = errors.New("merchant refund number already exists")
	ErrDuplicateTransfer   = errors.New("merchant transfer number already exists")
	ErrOrderNotPaid        = errors.New("order is not paid")
	ErrOrderNotCancellable = errors.New("order cannot be cancelled")
	ErrRefundExceedsOrder  = errors.New("refund amount exceeds refundable balance")
)
