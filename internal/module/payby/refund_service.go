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

type refundGateway interface {
	CreateRefund(ctx context.Context, req *gateway.CreateRefundRequest) (map[string]any, error)
	QueryRefund(ctx context.Context, refundID string) (map[string]any, error)
}

// CreateRefundInput carries the caller-supplied fields for a new refund.
type CreateRefundInput struct {
	MerchantRefundNo string
	MerchantOrderNo  string
	RefundAmount     domain.Money
	RefundReason     string
	NotifyURL        string
	AccessoryContent map[string]any
}

// RefundService implements the refund lifecycle.
type RefundService struct {
	refunds RefundRepository
	orders  OrderRepository
	client  refundGateway
	lock    *NotifyLock
	logger  *zap.Logger
}

// NewRefundService creates a RefundService.
func NewRefundService(
	refunds RefundRepository,
	orders OrderRepository,
	client refundGateway,
	lock *NotifyLock,
	logger *zap.Logger,
) *RefundService {
	return &RefundService{
		refunds: refunds,
		orders:  orders,
		client:  client,
		lock:    lock,
		logger:  logger,
	}
}

// CreateRefund submits a refund against a paid order. The merchant
// refund number is the idempotency key; the amount must not exceed what
// remains refundable after earlier successful refunds.
func (s *RefundService) CreateRefund(ctx context.Context, input CreateRefundInput) (*domain.Refund, error) {
	s.logger.Info("creating refund",
		zap.String("merchant_refund_no", input.MerchantRefundNo),
		zap.String("merchant_order_no", input.MerchantOrderNo),
		zap.String("amount", input.RefundAmount.Amount()),
	)

	_, err := s.refunds.GetByMerchantNo(ctx, input.MerchantRefundNo)
	if err == nil {
		return nil, ErrDuplicateRefund
	}
	if !errors.Is(err, ErrRefundNotFound) {
		return nil, err
	}

	order, err := s.orders.GetByMerchantNo(ctx, input.MerchantOrderNo)
	if err != nil {
		return nil, err
	}
	if !order.IsPaid() {
		return nil, ErrOrderNotPaid
	}

	existing, err := s.refunds.ListByOrder(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	refundable := order.RefundableAmount(existing)
	cmp, err := input.RefundAmount.Cmp(refundable)
	if err != nil {
		return nil, err
	}
	if cmp > 0 {
		return nil, ErrRefundExceedsOrder
	}

	data, err := s.client.CreateRefund(ctx, &gateway.CreateRefundRequest{
		MerchantRefundNo: input.MerchantRefundNo,
		MerchantOrderNo:  input.MerchantOrderNo,
		RefundAmount:     input.RefundAmount,
		RefundReason:     input.RefundReason,
		NotifyURL:        input.NotifyURL,
		AccessoryContent: input.AccessoryContent,
	})
	if err != nil {
		s.logger.Error("gateway rejected refund creation",
			zap.String("merchant_refund_no", input.MerchantRefundNo),
			zap.Error(err),
		)
		return nil, err
	}

	refund := &domain.Refund{
		ID:               uuid.New(),
		RefundID:         stringField(data, "refundId"),
		MerchantRefundNo: input.MerchantRefundNo,
		OrderID:          order.ID,
		RefundAmount:     input.RefundAmount,
		Status:           domain.RefundStatusPending,
		RefundReason:     input.RefundReason,
		NotifyURL:        input.NotifyURL,
		AccessoryContent: input.AccessoryContent,
	}
	if err := s.refunds.Create(ctx, refund); err != nil {
		return nil, err
	}

	s.logger.Info("refund created",
		zap.String("refund_id", refund.RefundID),
		zap.String("merchant_refund_no", refund.MerchantRefundNo),
	)
	return refund, nil
}

// QueryRefund returns the refund with the given gateway id, refreshed
// from the gateway. A gateway failure during refresh is logged and the
// local state returned.
func (s *RefundService) QueryRefund(ctx context.Context, refundID string) (*domain.Refund, error) {
	refund, err := s.refunds.GetByRefundID(ctx, refundID)
	if err != nil {
		return nil, err
	}

	data, err := s.client.QueryRefund(ctx, refundID)
	if err != nil {
		s.logger.Error("refund refresh failed, returning local state",
			zap.String("refund_id", refundID),
			zap.Error(err),
		)
		return refund, nil
	}

	s.applyRefundFields(refund, data)
	if err := s.refunds.Update(ctx, refund); err != nil {
		return nil, err
	}
	return refund, nil
}

// GetRefund returns the locally stored refund for a merchant refund
// number.
func (s *RefundService) GetRefund(ctx context.Context, merchantRefundNo string) (*domain.Refund, error) {
	return s.refunds.GetByMerchantNo(ctx, merchantRefundNo)
}

// UpdateRefundStatus force-sets a refund's status by merchant refund
// number. Returns false when no such refund exists.
func (s *RefundService) UpdateRefundStatus(ctx context.Context, merchantRefundNo string, status domain.RefundStatus) (bool, error) {
	refund, err := s.refunds.GetByMerchantNo(ctx, merchantRefundNo)
	if err != nil {
		if errors.Is(err, ErrRefundNotFound) {
			return false, nil
		}
		return false, err
	}

	refund.Status = status
	if err := s.refunds.Update(ctx, refund); err != nil {
		return false, err
	}

	s.logger.Info("refund status updated",
		zap.String("merchant_refund_no", merchantRefundNo),
		zap.String("status", string(status)),
	)
	return true, nil
}

// HandleNotification applies a refund status notification. A malformed
// refundTime is tolerated; the status transition still applies.
func (s *RefundService) HandleNotification(ctx context.Context, payload map[string]any) (bool, error) {
	refundID := stringField(payload, "refundId")
	if refundID == "" {
		s.logger.Error("notification missing refundId")
		return false, nil
	}

	release, err := s.lock.Acquire(ctx, refundID)
	if err != nil {
		if errors.Is(err, ErrNotificationLocked) {
			s.logger.Warn("concurrent refund notification, rejecting",
				zap.String("refund_id", refundID),
			)
			return false, nil
		}
		return false, err
	}
	defer release()

	refund, err := s.refunds.GetByRefundID(ctx, refundID)
	if err != nil {
		if errors.Is(err, ErrRefundNotFound) {
			s.logger.Error("notification for unknown refund",
				zap.String("refund_id", refundID),
			)
			return false, nil
		}
		return false, err
	}

	status, ok := domain.RefundStatusFromString(stringField(payload, "status"))
	if !ok {
		s.logger.Error("invalid status in refund notification",
			zap.String("refund_id", refundID),
			zap.Any("status", payload["status"]),
		)
		return false, nil
	}

	oldStatus := refund.Status
	refund.Status = status
	s.applyRefundTime(refund, payload)

	if err := s.refunds.Update(ctx, refund); err != nil {
		return false, err
	}

	s.logger.Info("refund status updated from notification",
		zap.String("refund_id", refundID),
		zap.String("old_status", string(oldStatus)),
		zap.String("new_status", string(status)),
	)
	return true, nil
}

func (s *RefundService) applyRefundFields(refund *domain.Refund, data map[string]any) {
	if status, ok := domain.RefundStatusFromString(stringField(data, "status")); ok {
		refund.Status = status
	}
	s.applyRefundTime(refund, data)
	refund.UpdatedAt = time.Now()
}

func (s *RefundService) applyRefundTime(refund *domain.Refund, data map[string]any) {
	raw := stringField(data, "refundTime")
	if raw == "" {
		return
	}
	refundTime, err := parseGatewayTime(raw)
	if err != nil {
		s.logger.Error("invalid refundTime format",
			zap.String("refund_id", refund.RefundID),
			zap.String("refund_time", raw),
		)
		return
	}
	refund.RefundTime = &refundTime
}
