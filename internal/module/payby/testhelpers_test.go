package payby

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/paybridge/server/internal/module/payby/domain"
	"github.com/paybridge/server/internal/module/payby/gateway"
)

// fakeOrderRepo is an in-memory OrderRepository.
type fakeOrderRepo struct {
	mu     sync.Mutex
	orders map[uuid.UUID]*domain.Order
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[uuid.UUID]*domain.Order)}
}

func (r *fakeOrderRepo) Create(_ context.Context, order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.orders {
		if o.MerchantOrderNo == order.MerchantOrderNo {
			return ErrDuplicateOrder
		}
	}
	copied := *order
	r.orders[order.ID] = &copied
	return nil
}

func (r *fakeOrderRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, ErrOrderNotFound
	}
	copied := *o
	return &copied, nil
}

func (r *fakeOrderRepo) GetByOrderID(_ context.Context, orderID string) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.orders {
		if o.OrderID == orderID {
			copied := *o
			return &copied, nil
		}
	}
	return nil, ErrOrderNotFound
}

func (r *fakeOrderRepo) GetByMerchantNo(_ context.Context, merchantOrderNo string) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.orders {
		if o.MerchantOrderNo == merchantOrderNo {
			copied := *o
			return &copied, nil
		}
	}
	return nil, ErrOrderNotFound
}

func (r *fakeOrderRepo) Update(_ context.Context, order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *order
	r.orders[order.ID] = &copied
	return nil
}

func (r *fakeOrderRepo) List(_ context.Context, filter *OrderFilter) ([]*domain.Order, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Order
	for _, o := range r.orders {
		if filter != nil && filter.Status != nil && o.Status != *filter.Status {
			continue
		}
		copied := *o
		out = append(out, &copied)
	}
	return out, int64(len(out)), nil
}

// fakeRefundRepo is an in-memory RefundRepository.
type fakeRefundRepo struct {
	mu      sync.Mutex
	refunds map[uuid.UUID]*domain.Refund
}

func newFakeRefundRepo() *fakeRefundRepo {
	return &fakeRefundRepo{refunds: make(map[uuid.UUID]*domain.Refund)}
}

func (r *fakeRefundRepo) Create(_ context.Context, refund *domain.Refund) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.refunds {
		if existing.MerchantRefundNo == refund.MerchantRefundNo {
			return ErrDuplicateRefund
		}
	}
	copied := *refund
	r.refunds[refund.ID] = &copied
	return nil
}

func (r *fakeRefundRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Refund, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ref, ok := r.refunds[id]
	if !ok {
		return nil, ErrRefundNotFound
	}
	copied := *ref
	return &copied, nil
}

func (r *fakeRefundRepo) GetByRefundID(_ context.Context, refundID string) (*domain.Refund, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ref := range r.refunds {
		if ref.RefundID == refundID {
			copied := *ref
			return &copied, nil
		}
	}
	return nil, ErrRefundNotFound
}

func (r *fakeRefundRepo) GetByMerchantNo(_ context.Context, merchantRefundNo string) (*domain.Refund, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ref := range r.refunds {
		if ref.MerchantRefundNo == merchantRefundNo {
			copied := *ref
			return &copied, nil
		}
	}
	return nil, ErrRefundNotFound
}

func (r *fakeRefundRepo) ListByOrder(_ context.Context, orderID uuid.UUID) ([]*domain.Refund, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Refund
	for _, ref := range r.refunds {
		if ref.OrderID == orderID {
			copied := *ref
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeRefundRepo) Update(_ context.Context, refund *domain.Refund) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *refund
	r.refunds[refund.ID] = &copied
	return nil
}

// fakeTransferRepo is an in-memory TransferRepository.
type fakeTransferRepo struct {
	mu        sync.Mutex
	transfers map[uuid.UUID]*domain.Transfer
}

func newFakeTransferRepo() *fakeTransferRepo {
	return &fakeTransferRepo{transfers: make(map[uuid.UUID]*domain.Transfer)}
}

func (r *fakeTransferRepo) Create(_ context.Context, transfer *domain.Transfer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.transfers {
		if t.MerchantTransferNo == transfer.MerchantTransferNo {
			return ErrDuplicateTransfer
		}
	}
	copied := *transfer
	r.transfers[transfer.ID] = &copied
	return nil
}

func (r *fakeTransferRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Transfer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.transfers[id]
	if !ok {
		return nil, ErrTransferNotFound
	}
	copied := *t
	return &copied, nil
}

func (r *fakeTransferRepo) GetByTransferID(_ context.Context, transferID string) (*domain.Transfer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.transfers {
		if t.TransferID == transferID {
			copied := *t
			return &copied, nil
		}
	}
	return nil, ErrTransferNotFound
}

func (r *fakeTransferRepo) GetByMerchantNo(_ context.Context, merchantTransferNo string) (*domain.Transfer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.transfers {
		if t.MerchantTransferNo == merchantTransferNo {
			copied := *t
			return &copied, nil
		}
	}
	return nil, ErrTransferNotFound
}

func (r *fakeTransferRepo) Update(_ context.Context, transfer *domain.Transfer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *transfer
	r.transfers[transfer.ID] = &copied
	return nil
}

// fakeConfigRepo is an in-memory ConfigRepository.
type fakeConfigRepo struct {
	configs []*domain.GatewayConfig
}

func (r *fakeConfigRepo) GetByName(_ context.Context, name string) (*domain.GatewayConfig, error) {
	for _, cfg := range r.configs {
		if cfg.Name == name {
			copied := *cfg
			return &copied, nil
		}
	}
	return nil, ErrConfigNotFound
}

func (r *fakeConfigRepo) GetDefault(_ context.Context) (*domain.GatewayConfig, error) {
	for _, cfg := range r.configs {
		if cfg.IsDefault && cfg.Enabled {
			copied := *cfg
			return &copied, nil
		}
	}
	return nil, ErrConfigNotFound
}

func (r *fakeConfigRepo) List(_ context.Context) ([]*domain.GatewayConfig, error) {
	out := make([]*domain.GatewayConfig, len(r.configs))
	for i, cfg := range r.configs {
		copied := *cfg
		out[i] = &copied
	}
	return out, nil
}

// fakeGateway is a scripted gateway client covering all three service
// interfaces. Each call records its input and returns the next scripted
// response or err.
type fakeGateway struct {
	response map[string]any
	err      error

	createOrderReq    *gateway.CreateOrderRequest
	createRefundReq   *gateway.CreateRefundRequest
	createTransferReq *gateway.CreateTransferRequest
	bankTransfer      bool
	queriedID         string
	cancelledID       string
	cancelReason      string
	calls             int
}

func (g *fakeGateway) CreateOrder(_ context.Context, req *gateway.CreateOrderRequest) (map[string]any, error) {
	g.calls++
	g.createOrderReq = req
	return g.response, g.err
}

func (g *fakeGateway) QueryOrder(_ context.Context, orderID string) (map[string]any, error) {
	g.calls++
	g.queriedID = orderID
	return g.response, g.err
}

func (g *fakeGateway) CancelOrder(_ context.Context, orderID, cancelReason string) (map[string]any, error) {
	g.calls++
	g.cancelledID = orderID
	g.cancelReason = cancelReason
	return g.response, g.err
}

func (g *fakeGateway) CreateRefund(_ context.Context, req *gateway.CreateRefundRequest) (map[string]any, error) {
	g.calls++
	g.createRefundReq = req
	return g.response, g.err
}

func (g *fakeGateway) QueryRefund(_ context.Context, refundID string) (map[string]any, error) {
	g.calls++
	g.queriedID = refundID
	return g.response, g.err
}

func (g *fakeGateway) CreateTransfer(_ context.Context, req *gateway.CreateTransferRequest) (map[string]any, error) {
	g.calls++
	g.createTransferReq = req
	return g.response, g.err
}

func (g *fakeGateway) CreateBankTransfer(_ context.Context, req *gateway.CreateTransferRequest) (map[string]any, error) {
	g.calls++
	g.createTransferReq = req
	g.bankTransfer = true
	return g.response, g.err
}

func (g *fakeGateway) QueryTransfer(_ context.Context, transferID string) (map[string]any, error) {
	g.calls++
	g.queriedID = transferID
	return g.response, g.err
}

func noopLock() *NotifyLock {
	return NewNotifyLock(nil)
}
