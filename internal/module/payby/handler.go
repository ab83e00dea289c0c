package payby

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/paybridge/server/internal/module/payby/domain"
	"github.com/paybridge/server/internal/module/payby/gateway"
)

// Handler exposes the merchant-facing payment lifecycle over HTTP.
type Handler struct {
	orders    *OrderService
	refunds   *RefundService
	transfers *TransferService
}

// NewHandler creates a payby handler.
func NewHandler(orders *OrderService, refunds *RefundService, transfers *TransferService) *Handler {
	return &Handler{orders: orders, refunds: refunds, transfers: transfers}
}

// RegisterRoutes registers the lifecycle routes.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	group := r.Group("/payby")
	{
		group.POST("/orders", h.CreateOrder)
		group.GET("/orders", h.ListOrders)
		group.GET("/orders/:orderId", h.QueryOrder)
		group.POST("/orders/:orderId/cancel", h.CancelOrder)

		group.POST("/refunds", h.CreateRefund)
		group.GET("/refunds/:refundId", h.QueryRefund)

		group.POST("/transfers", h.CreateTransfer)
		group.POST("/transfers/bank", h.CreateBankTransfer)
		group.GET("/transfers/:transferId", h.QueryTransfer)
	}
}

// CreateOrder creates a new payment order.
func (h *Handler) CreateOrder(c *gin.Context) {
	var req CreateOrderDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	amount, err := req.TotalAmount.ToMoney()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	scene, ok := domain.PaySceneFromString(req.PaySceneCode)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid pay_scene_code"})
		return
	}

	order, err := h.orders.CreateOrder(c.Request.Context(), CreateOrderInput{
		MerchantOrderNo:  req.MerchantOrderNo,
		Subject:          req.Subject,
		TotalAmount:      amount,
		PaySceneCode:     scene,
		NotifyURL:        req.NotifyURL,
		ReturnURL:        req.ReturnURL,
		AccessoryContent: req.AccessoryContent,
	})
	if err != nil {
		handlePayByError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"order": OrderToResponse(order)})
}

// ListOrders lists stored orders, optionally filtered by status.
func (h *Handler) ListOrders(c *gin.Context) {
	var query struct {
		Status   string `form:"status"`
		Page     int    `form:"page"`
		PageSize int    `form:"page_size"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	filter := &OrderFilter{Page: query.Page, PageSize: query.PageSize}
	if query.Status != "" {
		status, ok := domain.OrderStatusFromString(query.Status)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
			return
		}
		filter.Status = &status
	}

	orders, total, err := h.orders.ListOrders(c.Request.Context(), filter)
	if err != nil {
		handlePayByError(c, err)
		return
	}

	responses := make([]*OrderResponse, len(orders))
	for i, o := range orders {
		responses[i] = OrderToResponse(o)
	}
	c.JSON(http.StatusOK, gin.H{"orders": responses, "total": total})
}

// QueryOrder returns an order, refreshed from the gateway.
func (h *Handler) QueryOrder(c *gin.Context) {
	order, err := h.orders.QueryOrder(c.Request.Context(), c.Param("orderId"))
	if err != nil {
		handlePayByError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": OrderToResponse(order)})
}

// CancelOrder cancels an unpaid order.
func (h *Handler) CancelOrder(c *gin.Context) {
	// Body is optional for cancellation.
	var req CancelOrderDTO
	_ = c.ShouldBindJSON(&req)

	order, err := h.orders.CancelOrder(c.Request.Context(), c.Param("orderId"), req.CancelReason)
	if err != nil {
		handlePayByError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": OrderToResponse(order)})
}

// CreateRefund creates a refund against a paid order.
func (h *Handler) CreateRefund(c *gin.Context) {
	var req CreateRefundDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	amount, err := req.RefundAmount.ToMoney()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	refund, err := h.refunds.CreateRefund(c.Request.Context(), CreateRefundInput{
		MerchantRefundNo: req.MerchantRefundNo,
		MerchantOrderNo:  req.MerchantOrderNo,
		RefundAmount:     amount,
		RefundReason:     req.RefundReason,
		NotifyURL:        req.NotifyURL,
		AccessoryContent: req.AccessoryContent,
	})
	if err != nil {
		handlePayByError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"refund": RefundToResponse(refund)})
}

// QueryRefund returns a refund, refreshed from the gateway.
func (h *Handler) QueryRefund(c *gin.Context) {
	refund, err := h.refunds.QueryRefund(c.Request.Context(), c.Param("refundId"))
	if err != nil {
		handlePayByError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"refund": RefundToResponse(refund)})
}

// CreateTransfer creates an internal transfer.
func (h *Handler) CreateTransfer(c *gin.Context) {
	input, ok := h.bindTransfer(c)
	if !ok {
		return
	}
	if input.ToAccount == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "to_account is required"})
		return
	}

	transfer, err := h.transfers.CreateInternalTransfer(c.Request.Context(), input)
	if err != nil {
		handlePayByError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"transfer": TransferToResponse(transfer)})
}

// CreateBankTransfer creates a transfer to an external bank account.
func (h *Handler) CreateBankTransfer(c *gin.Context) {
	input, ok := h.bindTransfer(c)
	if !ok {
		return
	}
	if len(input.BankTransferInfo) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bank_transfer_info is required"})
		return
	}

	transfer, err := h.transfers.CreateBankTransfer(c.Request.Context(), input)
	if err != nil {
		handlePayByError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"transfer": TransferToResponse(transfer)})
}

// QueryTransfer returns a transfer, refreshed from the gateway.
func (h *Handler) QueryTransfer(c *gin.Context) {
	transfer, err := h.transfers.QueryTransfer(c.Request.Context(), c.Param("transferId"))
	if err != nil {
		handlePayByError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transfer": TransferToResponse(transfer)})
}

func (h *Handler) bindTransfer(c *gin.Context) (CreateTransferInput, bool) {
	var req CreateTransferDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return CreateTransferInput{}, false
	}

	amount, err := req.TransferAmount.ToMoney()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return CreateTransferInput{}, false
	}

	return CreateTransferInput{
		MerchantTransferNo: req.MerchantTransferNo,
		FromAccount:        req.FromAccount,
		ToAccount:          req.ToAccount,
		BankTransferInfo:   req.BankTransferInfo,
		TransferAmount:     amount,
		TransferReason:     req.TransferReason,
		NotifyURL:          req.NotifyURL,
		AccessoryContent:   req.AccessoryContent,
	}, true
}

// handlePayByError maps the module's error taxonomy to HTTP statuses.
func handlePayByError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrOrderNotFound),
		errors.Is(err, ErrRefundNotFound),
		errors.Is(err, ErrTransferNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, ErrDuplicateOrder),
		errors.Is(err, ErrDuplicateRefund),
		errors.Is(err, ErrDuplicateTransfer):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, ErrOrderNotPaid),
		errors.Is(err, ErrOrderNotCancellable),
		errors.Is(err, ErrRefundExceedsOrder),
		errors.Is(err, domain.ErrCurrencyMismatch):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, ErrConfigNotFound):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		if apiErr, ok := gateway.IsAPIError(err); ok {
			c.JSON(http.StatusBadGateway, gin.H{
				"error": apiErr.Message,
				"code":  apiErr.Code,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
