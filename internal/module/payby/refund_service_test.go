package payby

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/paybridge/server/internal/module/payby/domain"
	"github.com/paybridge/server/internal/module/payby/gateway"
)

func newRefundService(refunds *fakeRefundRepo, orders *fakeOrderRepo, gw *fakeGateway) *RefundService {
	return NewRefundService(refunds, orders, gw, noopLock(), zap.NewNop())
}

func seedRefund(t *testing.T, repo *fakeRefundRepo, refundID, merchantNo string, orderID uuid.UUID, status domain.RefundStatus, amount string) *domain.Refund {
	t.Helper()
	refund := &domain.Refund{
		ID:               uuid.New(),
		RefundID:         refundID,
		MerchantRefundNo: merchantNo,
		OrderID:          orderID,
		RefundAmount:     domain.MustMoney(amount, "AED"),
		Status:           status,
	}
	require.NoError(t, repo.Create(context.Background(), refund))
	return refund
}

func TestRefundService_CreateRefund(t *testing.T) {
	orders := newFakeOrderRepo()
	refunds := newFakeRefundRepo()
	seedOrder(t, orders, "GW-1", "M-1", domain.OrderStatusSuccess, "100.00")
	gw := &fakeGateway{response: map[string]any{"refundId": "R-1"}}
	svc := newRefundService(refunds, orders, gw)

	refund, err := svc.CreateRefund(context.Background(), CreateRefundInput{
		MerchantRefundNo: "MR-1",
		MerchantOrderNo:  "M-1",
		RefundAmount:     domain.MustMoney("40.00", "AED"),
		RefundReason:     "customer request",
	})
	require.NoError(t, err)

	assert.Equal(t, "R-1", refund.RefundID)
	assert.Equal(t, domain.RefundStatusPending, refund.Status)
	assert.Equal(t, "MR-1", gw.createRefundReq.MerchantRefundNo)
	assert.Equal(t, "M-1", gw.createRefundReq.MerchantOrderNo)
}

func TestRefundService_CreateRefundGuards(t *testing.T) {
	background := context.Background()

	t.Run("duplicate refund number", func(t *testing.T) {
		orders := newFakeOrderRepo()
		refunds := newFakeRefundRepo()
		order := seedOrder(t, orders, "GW-1", "M-1", domain.OrderStatusSuccess, "100.00")
		seedRefund(t, refunds, "R-1", "MR-1", order.ID, domain.RefundStatusPending, "10.00")
		gw := &fakeGateway{}
		svc := newRefundService(refunds, orders, gw)

		_, err := svc.CreateRefund(background, CreateRefundInput{
			MerchantRefundNo: "MR-1",
			MerchantOrderNo:  "M-1",
			RefundAmount:     domain.MustMoney("10.00", "AED"),
		})
		assert.ErrorIs(t, err, ErrDuplicateRefund)
		assert.Zero(t, gw.calls)
	})

	t.Run("order not found", func(t *testing.T) {
		svc := newRefundService(newFakeRefundRepo(), newFakeOrderRepo(), &fakeGateway{})
		_, err := svc.CreateRefund(background, CreateRefundInput{
			MerchantRefundNo: "MR-1",
			MerchantOrderNo:  "M-404",
			RefundAmount:     domain.MustMoney("10.00", "AED"),
		})
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})

	t.Run("order not paid", func(t *testing.T) {
		orders := newFakeOrderRepo()
		seedOrder(t, orders, "GW-1", "M-1", domain.OrderStatusPending, "100.00")
		gw := &fakeGateway{}
		svc := newRefundService(newFakeRefundRepo(), orders, gw)

		_, err := svc.CreateRefund(background, CreateRefundInput{
			MerchantRefundNo: "MR-1",
			MerchantOrderNo:  "M-1",
			RefundAmount:     domain.MustMoney("10.00", "AED"),
		})
		assert.ErrorIs(t, err, ErrOrderNotPaid)
		assert.Zero(t, gw.calls)
	})

	t.Run("amount exceeds refundable", func(t *testing.T) {
		orders := newFakeOrderRepo()
		refunds := newFakeRefundRepo()
		order := seedOrder(t, orders, "GW-1", "M-1", domain.OrderStatusSuccess, "100.00")
		seedRefund(t, refunds, "R-1", "MR-1", order.ID, domain.RefundStatusSuccess, "70.00")
		gw := &fakeGateway{}
		svc := newRefundService(refunds, orders, gw)

		_, err := svc.CreateRefund(background, CreateRefundInput{
			MerchantRefundNo: "MR-2",
			MerchantOrderNo:  "M-1",
			RefundAmount:     domain.MustMoney("30.01", "AED"),
		})
		assert.ErrorIs(t, err, ErrRefundExceedsOrder)
		assert.Zero(t, gw.calls)
	})

	t.Run("exactly refundable passes", func(t *testing.T) {
		orders := newFakeOrderRepo()
		refunds := newFakeRefundRepo()
		order := seedOrder(t, orders, "GW-1", "M-1", domain.OrderStatusSuccess, "100.00")
		seedRefund(t, refunds, "R-1", "MR-1", order.ID, domain.RefundStatusSuccess, "70.00")
		gw := &fakeGateway{response: map[string]any{"refundId": "R-2"}}
		svc := newRefundService(refunds, orders, gw)

		refund, err := svc.CreateRefund(background, CreateRefundInput{
			MerchantRefundNo: "MR-2",
			MerchantOrderNo:  "M-1",
			RefundAmount:     domain.MustMoney("30.00", "AED"),
		})
		require.NoError(t, err)
		assert.Equal(t, "R-2", refund.RefundID)
	})
}

func TestRefundService_QueryRefund(t *testing.T) {
	refunds := newFakeRefundRepo()
	seedRefund(t, refunds, "R-1", "MR-1", uuid.New(), domain.RefundStatusPending, "10.00")
	gw := &fakeGateway{response: map[string]any{
		"status":     "SUCCESS",
		"refundTime": "2026-08-30 09:00:00",
	}}
	svc := newRefundService(refunds, newFakeOrderRepo(), gw)

	refund, err := svc.QueryRefund(context.Background(), "R-1")
	require.NoError(t, err)
	assert.Equal(t, domain.RefundStatusSuccess, refund.Status)
	require.NotNil(t, refund.RefundTime)
}

func TestRefundService_QueryRefundSwallowsGatewayError(t *testing.T) {
	refunds := newFakeRefundRepo()
	seedRefund(t, refunds, "R-1", "MR-1", uuid.New(), domain.RefundStatusProcessing, "10.00")
	gw := &fakeGateway{err: &gateway.APIError{Code: "REQUEST_ERROR", Retryable: true}}
	svc := newRefundService(refunds, newFakeOrderRepo(), gw)

	refund, err := svc.QueryRefund(context.Background(), "R-1")
	require.NoError(t, err)
	assert.Equal(t, domain.RefundStatusProcessing, refund.Status)
}

func TestRefundService_HandleNotification(t *testing.T) {
	tests := []struct {
		name       string
		payload    map[string]any
		wantOK     bool
		wantStatus domain.RefundStatus
	}{
		{
			name:       "valid",
			payload:    map[string]any{"refundId": "R-1", "status": "SUCCESS"},
			wantOK:     true,
			wantStatus: domain.RefundStatusSuccess,
		},
		{
			name:       "malformed refundTime tolerated",
			payload:    map[string]any{"refundId": "R-1", "status": "SUCCESS", "refundTime": "not-a-time"},
			wantOK:     true,
			wantStatus: domain.RefundStatusSuccess,
		},
		{
			name:       "unknown refund",
			payload:    map[string]any{"refundId": "R-404", "status": "SUCCESS"},
			wantOK:     false,
			wantStatus: domain.RefundStatusPending,
		},
		{
			name:       "invalid status",
			payload:    map[string]any{"refundId": "R-1", "status": "MAYBE"},
			wantOK:     false,
			wantStatus: domain.RefundStatusPending,
		},
		{
			name:       "unknown status value accepted",
			payload:    map[string]any{"refundId": "R-1", "status": "UNKNOWN"},
			wantOK:     true,
			wantStatus: domain.RefundStatusUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			refunds := newFakeRefundRepo()
			seedRefund(t, refunds, "R-1", "MR-1", uuid.New(), domain.RefundStatusPending, "10.00")
			svc := newRefundService(refunds, newFakeOrderRepo(), &fakeGateway{})

			ok, err := svc.HandleNotification(context.Background(), tt.payload)
			require.NoError(t, err)
			assert.Equal(t, tt.wantOK, ok)

			stored, err := refunds.GetByRefundID(context.Background(), "R-1")
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, stored.Status)
		})
	}
}

func TestRefundService_UpdateRefundStatus(t *testing.T) {
	refunds := newFakeRefundRepo()
	seedRefund(t, refunds, "R-1", "MR-1", uuid.New(), domain.RefundStatusPending, "10.00")
	svc := newRefundService(refunds, newFakeOrderRepo(), &fakeGateway{})

	ok, err := svc.UpdateRefundStatus(context.Background(), "MR-1", domain.RefundStatusCancelled)
	require.NoError(t, err)
	assert.True(t, ok)

	stored, err := refunds.GetByMerchantNo(context.Background(), "MR-1")
	require.NoError(t, err)
	assert.Equal(t, domain.RefundStatusCancelled, stored.Status)

	ok, err = svc.UpdateRefundStatus(context.Background(), "MR-404", domain.RefundStatusCancelled)
	require.NoError(t, err)
	assert.False(t, ok)
}
