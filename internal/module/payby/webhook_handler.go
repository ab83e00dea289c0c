package payby

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/paybridge/server/internal/shared/metrics"
)

// notificationVerifier checks an inbound payload against the gateway
// public key.
type notificationVerifier interface {
	Verify(params map[string]any, signature string) bool
}

// WebhookHandler receives gateway status notifications and routes them
// to the owning service by correlation id.
type WebhookHandler struct {
	orders    *OrderService
	refunds   *RefundService
	transfers *TransferService
	verifier  notificationVerifier
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

// NewWebhookHandler creates a webhook handler.
func NewWebhookHandler(
	orders *OrderService,
	refunds *RefundService,
	transfers *TransferService,
	verifier notificationVerifier,
	m *metrics.Metrics,
	logger *zap.Logger,
) *WebhookHandler {
	return &WebhookHandler{
		orders:    orders,
		refunds:   refunds,
		transfers: transfers,
		verifier:  verifier,
		metrics:   m,
		logger:    logger,
	}
}

// RegisterRoutes registers the notification route.
func (h *WebhookHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/pay-by/notification", h.HandleNotification)
}

// HandleNotification verifies and dispatches a gateway notification.
// 200 acknowledges the delivery; 400 makes the gateway retry it; 500 is
// reserved for persistence failures on our side.
func (h *WebhookHandler) HandleNotification(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.logger.Error("failed to read notification body", zap.Error(err))
		h.reject(c, http.StatusBadRequest, "failed to read body")
		return
	}

	h.logger.Info("received gateway notification", zap.ByteString("body", body))

	var payload map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(body), &payload); err != nil || payload == nil {
		h.logger.Error("invalid notification payload", zap.Error(err))
		h.reject(c, http.StatusBadRequest, "invalid JSON data")
		return
	}

	signature := c.GetHeader("X-PayBy-Signature")
	if signature == "" {
		h.reject(c, http.StatusBadRequest, "missing signature header")
		return
	}
	if !h.verifier.Verify(payload, signature) {
		h.logger.Warn("notification signature verification failed")
		h.reject(c, http.StatusBadRequest, "invalid signature")
		return
	}

	kind, ok, err := h.dispatch(c, payload)
	if h.metrics != nil {
		h.metrics.RecordNotification(kind, outcomeLabel(ok, err))
	}
	if err != nil {
		h.logger.Error("notification processing failed",
			zap.String("kind", kind),
			zap.Error(err),
		)
		h.reject(c, http.StatusInternalServerError, "internal server error")
		return
	}
	if !ok {
		h.reject(c, http.StatusBadRequest, "failed to process notification")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// dispatch routes by the first matching correlation id, in the fixed
// order order, refund, transfer.
func (h *WebhookHandler) dispatch(c *gin.Context, payload map[string]any) (string, bool, error) {
	ctx := c.Request.Context()

	if _, found := payload["orderId"]; found {
		ok, err := h.orders.HandleNotification(ctx, payload)
		return "order", ok, err
	}
	if _, found := payload["refundId"]; found {
		ok, err := h.refunds.HandleNotification(ctx, payload)
		return "refund", ok, err
	}
	if _, found := payload["transferId"]; found {
		ok, err := h.transfers.HandleNotification(ctx, payload)
		return "transfer", ok, err
	}

	h.logger.Warn("unknown notification type", zap.Any("payload", payload))
	return "unknown", false, nil
}

func (h *WebhookHandler) reject(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"status": "error", "message": message})
}

func outcomeLabel(ok bool, err error) string {
	switch {
	case err != nil:
		return "error"
	case !ok:
		return "rejected"
	default:
		return "accepted"
	}
}
