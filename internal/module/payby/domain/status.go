package domain

// OrderStatus represents the status of a payment order.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusSuccess    OrderStatus = "SUCCESS"
	OrderStatusFailed     OrderStatus = "FAILED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
	OrderStatusTimeout    OrderStatus = "TIMEOUT"
	OrderStatusRefunded   OrderStatus = "REFUNDED"
)

// OrderStatusFromString parses a gateway status value.
func OrderStatusFromString(s string) (OrderStatus, bool) {
	switch OrderStatus(s) {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusSuccess,
		OrderStatusFailed, OrderStatusCancelled, OrderStatusTimeout,
		OrderStatusRefunded:
		return OrderStatus(s), true
	}
	return "", false
}

// IsFinal reports whether no further transition is expected.
func (s OrderStatus) IsFinal() bool {
	return s != OrderStatusPending && s != OrderStatusProcessing
}

// CanBeCancelled reports whether a cancel operation is legal.
func (s OrderStatus) CanBeCancelled() bool {
	return s == OrderStatusPending || s == OrderStatusProcessing
}

// IsPaid reports whether the order has been paid.
func (s OrderStatus) IsPaid() bool {
	return s == OrderStatusSuccess
}

// RefundStatus represents the status of a refund.
type RefundStatus string

const (
	RefundStatusPending    RefundStatus = "PENDING"
	RefundStatusProcessing RefundStatus = "PROCESSING"
	RefundStatusSuccess    RefundStatus = "SUCCESS"
	RefundStatusFailed     RefundStatus = "FAILED"
	RefundStatusCancelled  RefundStatus = "CANCELLED"
	RefundStatusUnknown    RefundStatus = "UNKNOWN"
)

// RefundStatusFromString parses a gateway status value.
func RefundStatusFromString(s string) (RefundStatus, bool) {
	switch RefundStatus(s) {
	case RefundStatusPending, RefundStatusProcessing, RefundStatusSuccess,
		RefundStatusFailed, RefundStatusCancelled, RefundStatusUnknown:
		return RefundStatus(s), true
	}
	return "", false
}

// IsFinal reports whether no further transition is expected.
func (s RefundStatus) IsFinal() bool {
	return s != RefundStatusPending && s != RefundStatusProcessing
}

// TransferStatus represents the status of a fund transfer.
type TransferStatus string

const (
	TransferStatusPending    TransferStatus = "PENDING"
	TransferStatusProcessing TransferStatus = "PROCESSING"
	TransferStatusSuccess    TransferStatus = "SUCCESS"
	TransferStatusFailed     TransferStatus = "FAILED"
	TransferStatusCancelled  TransferStatus = "CANCELLED"
)

// TransferStatusFromString parses a gateway status value.
func TransferStatusFromString(s string) (TransferStatus, bool) {
	switch TransferStatus(s) {
	case TransferStatusPending, TransferStatusProcessing,
		TransferStatusSuccess, TransferStatusFailed, TransferStatusCancelled:
		return TransferStatus(s), true
	}
	return "", false
}

// IsFinal reports whether no further transition is expected.
func (s TransferStatus) IsFinal() bool {
	return s != TransferStatusPending && s != TransferStatusProcessing
}

// TransferType represents the kind of fund transfer.
type TransferType string

const (
	TransferTypeInternal     TransferType = "INTERNAL"
	TransferTypeBank         TransferType = "BANK_TRANSFER"
	TransferTypeToBank       TransferType = "TRANSFER_TO_BANK"
	TransferTypeToBalance    TransferType = "TRANSFER_TO_BALANCE"
	TransferTypeToThirdParty TransferType = "TRANSFER_TO_THIRD_PARTY"
)

// PaySceneCode identifies how a payment order is presented to the payer.
type PaySceneCode string

const (
	PaySceneDynQR       PaySceneCode = "DYNQR"
	PaySceneOnline      PaySceneCode = "ONLINE"
	PaySceneInStore     PaySceneCode = "IN_STORE"
	PaySceneMobile      PaySceneCode = "MOBILE"
	PaySceneWeb         PaySceneCode = "WEB"
	PaySceneMiniProgram PaySceneCode = "MINI_PROGRAM"
	PaySceneApp         PaySceneCode = "APP"
	PaySceneH5          PaySceneCode = "H5"
	PayScenePayPage     PaySceneCode = "PAYPAGE"
)

// PaySceneFromString parses a scene code.
func PaySceneFromString(s string) (PaySceneCode, bool) {
	switch PaySceneCode(s) {
	case PaySceneDynQR, PaySceneOnline, PaySceneInStore, PaySceneMobile,
		PaySceneWeb, PaySceneMiniProgram, PaySceneApp, PaySceneH5,
		PayScenePayPage:
		return PaySceneCode(s), true
	}
	return "", false
}
