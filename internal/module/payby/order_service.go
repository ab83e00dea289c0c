package payby

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/paybridge/server/internal/module/payby/domain"
	"github.com/paybridge/server/internal/module/payby/gateway"
)

// orderGateway is the slice of the gateway client the order service
// needs. Tests substitute a stub.
type orderGateway interface {
	CreateOrder(ctx context.Context, req *gateway.CreateOrderRequest) (map[string]any, error)
	QueryOrder(ctx context.Context, orderID string) (map[string]any, error)
	CancelOrder(ctx context.Context, orderID, cancelReason string) (map[string]any, error)
}

// CreateOrderInput carries the caller-supplied fields for a new order.
type CreateOrderInput struct {
	MerchantOrderNo  string
	Subject          string
	TotalAmount      domain.Money
	PaySceneCode     domain.PaySceneCode
	NotifyURL        string
	ReturnURL        string
	AccessoryContent map[string]any
}

// OrderService implements the payment order lifecycle.
type OrderService struct {
	orders  OrderRepository
	refunds RefundRepository
	client  orderGateway
	lock    *NotifyLock
	logger  *zap.Logger
}

// NewOrderService creates an OrderService.
func NewOrderService(
	orders OrderRepository,
	refunds RefundRepository,
	client orderGateway,
	lock *NotifyLock,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		orders:  orders,
		refunds: refunds,
		client:  client,
		lock:    lock,
		logger:  logger,
	}
}

// CreateOrder submits a new payment order to the gateway and persists
// the accepted order in PENDING status. The merchant order number is the
// idempotency key; a duplicate is rejected before any network traffic.
func (s *OrderService) CreateOrder(ctx context.Context, input CreateOrderInput) (*domain.Order, error) {
	s.logger.Info("creating payment order",
		zap.String("merchant_order_no", input.MerchantOrderNo),
		zap.String("amount", input.TotalAmount.Amount()),
		zap.String("pay_scene", string(input.PaySceneCode)),
	)

	_, err := s.orders.GetByMerchantNo(ctx, input.MerchantOrderNo)
	if err == nil {
		return nil, ErrDuplicateOrder
	}
	if !errors.Is(err, ErrOrderNotFound) {
		return nil, err
	}

	data, err := s.client.CreateOrder(ctx, &gateway.CreateOrderRequest{
		MerchantOrderNo:  input.MerchantOrderNo,
		Subject:          input.Subject,
		TotalAmount:      input.TotalAmount,
		PaySceneCode:     input.PaySceneCode,
		NotifyURL:        input.NotifyURL,
		ReturnURL:        input.ReturnURL,
		AccessoryContent: input.AccessoryContent,
	})
	if err != nil {
		s.logger.Error("gateway rejected order creation",
			zap.String("merchant_order_no", input.MerchantOrderNo),
			zap.Error(err),
		)
		return nil, err
	}

	order := &domain.Order{
		ID:               uuid.New(),
		OrderID:          stringField(data, "orderId"),
		MerchantOrderNo:  input.MerchantOrderNo,
		Subject:          input.Subject,
		TotalAmount:      input.TotalAmount,
		PaySceneCode:     input.PaySceneCode,
		Status:           domain.OrderStatusPending,
		QRCodeData:       stringField(data, "qrCodeData"),
		QRCodeURL:        stringField(data, "qrCodeUrl"),
		PaymentURL:       stringField(data, "paymentUrl"),
		NotifyURL:        input.NotifyURL,
		ReturnURL:        input.ReturnURL,
		AccessoryContent: input.AccessoryContent,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}

	s.logger.Info("payment order created",
		zap.String("order_id", order.OrderID),
		zap.String("merchant_order_no", order.MerchantOrderNo),
	)
	return order, nil
}

// QueryOrder returns the order with the given gateway id, refreshed from
// the gateway when it has not reached a final status. A gateway failure
// during refresh is logged and the local state returned.
func (s *OrderService) QueryOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	order, err := s.orders.GetByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	data, err := s.client.QueryOrder(ctx, orderID)
	if err != nil {
		s.logger.Error("order refresh failed, returning local state",
			zap.String("order_id", orderID),
			zap.Error(err),
		)
		return order, nil
	}

	s.applyOrderFields(order, data, false)
	if err := s.orders.Update(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// CancelOrder cancels an order that has not been paid yet.
func (s *OrderService) CancelOrder(ctx context.Context, orderID, cancelReason string) (*domain.Order, error) {
	order, err := s.orders.GetByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !order.CanBeCancelled() {
		return nil, ErrOrderNotCancellable
	}

	if _, err := s.client.CancelOrder(ctx, orderID, cancelReason); err != nil {
		s.logger.Error("gateway rejected order cancellation",
			zap.String("order_id", orderID),
			zap.Error(err),
		)
		return nil, err
	}

	order.Status = domain.OrderStatusCancelled
	if err := s.orders.Update(ctx, order); err != nil {
		return nil, err
	}

	s.logger.Info("payment order cancelled",
		zap.String("order_id", orderID),
		zap.String("cancel_reason", cancelReason),
	)
	return order, nil
}

// GetOrder returns the locally stored order for a merchant order number.
func (s *OrderService) GetOrder(ctx context.Context, merchantOrderNo string) (*domain.Order, error) {
	return s.orders.GetByMerchantNo(ctx, merchantOrderNo)
}

// ListOrders returns stored orders matching the filter.
func (s *OrderService) ListOrders(ctx context.Context, filter *OrderFilter) ([]*domain.Order, int64, error) {
	return s.orders.List(ctx, filter)
}

// UpdateOrderStatus force-sets an order's status by merchant order
// number. Returns false when no such order exists.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, merchantOrderNo string, status domain.OrderStatus) (bool, error) {
	order, err := s.orders.GetByMerchantNo(ctx, merchantOrderNo)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			return false, nil
		}
		return false, err
	}

	order.Status = status
	if err := s.orders.Update(ctx, order); err != nil {
		return false, err
	}

	s.logger.Info("order status updated",
		zap.String("merchant_order_no", merchantOrderNo),
		zap.String("status", string(status)),
	)
	return true, nil
}

// RefundableAmount returns how much of the order can still be refunded.
func (s *OrderService) RefundableAmount(ctx context.Context, order *domain.Order) (domain.Money, error) {
	refunds, err := s.refunds.ListByOrder(ctx, order.ID)
	if err != nil {
		return domain.Money{}, err
	}
	return order.RefundableAmount(refunds), nil
}

// HandleNotification applies a payment status notification. The boolean
// result is the webhook acknowledgement: false rejects the delivery so
// the gateway retries it later. Only persistence failures surface as
// errors.
func (s *OrderService) HandleNotification(ctx context.Context, payload map[string]any) (bool, error) {
	orderID := stringField(payload, "orderId")
	if orderID == "" {
		s.logger.Error("notification missing orderId")
		return false, nil
	}

	release, err := s.lock.Acquire(ctx, orderID)
	if err != nil {
		if errors.Is(err, ErrNotificationLocked) {
			s.logger.Warn("concurrent order notification, rejecting",
				zap.String("order_id", orderID),
			)
			return false, nil
		}
		return false, err
	}
	defer release()

	order, err := s.orders.GetByOrderID(ctx, orderID)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			s.logger.Error("notification for unknown order",
				zap.String("order_id", orderID),
			)
			return false, nil
		}
		return false, err
	}

	status, ok := domain.OrderStatusFromString(stringField(payload, "status"))
	if !ok {
		s.logger.Error("invalid status in order notification",
			zap.String("order_id", orderID),
			zap.Any("status", payload["status"]),
		)
		return false, nil
	}

	oldStatus := order.Status
	order.Status = status
	if !s.applyOrderFields(order, payload, true) {
		return false, nil
	}

	if err := s.orders.Update(ctx, order); err != nil {
		return false, err
	}

	s.logger.Info("order status updated from notification",
		zap.String("order_id", orderID),
		zap.String("old_status", string(oldStatus)),
		zap.String("new_status", string(status)),
	)
	return true, nil
}

// applyOrderFields merges recognized fields from a gateway payload into
// the order. In strict mode a malformed payTime rejects the whole
// payload; refresh mode merely logs it.
func (s *OrderService) applyOrderFields(order *domain.Order, data map[string]any, strict bool) bool {
	if !strict {
		if status, ok := domain.OrderStatusFromString(stringField(data, "status")); ok {
			order.Status = status
		}
	}
	if method := stringField(data, "paymentMethod"); method != "" {
		order.PaymentMethod = method
	}
	if raw := stringField(data, "payTime"); raw != "" {
		payTime, err := parseGatewayTime(raw)
		if err != nil {
			s.logger.Error("invalid payTime format",
				zap.String("order_id", order.OrderID),
				zap.String("pay_time", raw),
			)
			return !strict
		}
		order.PayTime = &payTime
	}
	order.UpdatedAt = time.Now()
	return true
}
