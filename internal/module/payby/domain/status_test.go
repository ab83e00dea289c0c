package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatus_IsFinal(t *testing.T) {
	tests := []struct {
		status OrderStatus
		final  bool
	}{
		{OrderStatusPending, false},
		{OrderStatusProcessing, false},
		{OrderStatusSuccess, true},
		{OrderStatusFailed, true},
		{OrderStatusCancelled, true},
		{OrderStatusTimeout, true},
		{OrderStatusRefunded, true},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.final, tt.status.IsFinal())
		})
	}
}

func TestOrderStatus_CanBeCancelled(t *testing.T) {
	tests := []struct {
		status OrderStatus
		ok     bool
	}{
		{OrderStatusPending, true},
		{OrderStatusProcessing, true},
		{OrderStatusSuccess, false},
		{OrderStatusFailed, false},
		{OrderStatusCancelled, false},
		{OrderStatusTimeout, false},
		{OrderStatusRefunded, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.ok, tt.status.CanBeCancelled())
		})
	}
}

func TestOrderStatusFromString(t *testing.T) {
	s, ok := OrderStatusFromString("SUCCESS")
	assert.True(t, ok)
	assert.Equal(t, OrderStatusSuccess, s)

	_, ok = OrderStatusFromString("success")
	assert.False(t, ok)
	_, ok = OrderStatusFromString("")
	assert.False(t, ok)
	_, ok = OrderStatusFromString("PAID")
	assert.False(t, ok)
}

func TestRefundStatus_IsFinal(t *testing.T) {
	tests := []struct {
		status RefundStatus
		final  bool
	}{
		{RefundStatusPending, false},
		{RefundStatusProcessing, false},
		{RefundStatusSuccess, true},
		{RefundStatusFailed, true},
		{RefundStatusCancelled, true},
		{RefundStatusUnknown, true},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.final, tt.status.IsFinal())
		})
	}
}

func TestTransferStatus_IsFinal(t *testing.T) {
	tests := []struct {
		status TransferStatus
		final  bool
	}{
		{TransferStatusPending, false},
		{TransferStatusProcessing, false},
		{TransferStatusSuccess, true},
		{TransferStatusFailed, true},
		{TransferStatusCancelled, true},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.final, tt.status.IsFinal())
		})
	}
}

func TestPaySceneFromString(t *testing.T) {
	for _, scene := range []string{
		"DYNQR", "ONLINE", "IN_STORE", "MOBILE", "WEB",
		"MINI_PROGRAM", "APP", "H5", "PAYPAGE",
	} {
		_, ok := PaySceneFromString(scene)
		assert.True(t, ok, scene)
	}
	_, ok := PaySceneFromString("KIOSK")
	assert.False(t, ok)
}
