package payby

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/paybridge/server/internal/module/payby/domain"
	"github.com/paybridge/server/internal/module/payby/entity"
)

// OrderRepository defines data access for payment orders.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	GetByOrderID(ctx context.Context, orderID string) (*domain.Order, error)
	GetByMerchantNo(ctx context.Context, merchantOrderNo string) (*domain.Order, error)
	Update(ctx context.Context, order *domain.Order) error
	List(ctx context.Context, filter *OrderFilter) ([]*domain.Order, int64, error)
}

// RefundRepository defines data access for refunds.
type RefundRepository interface {
	Create(ctx context.Context, refund *domain.Refund) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Refund, error)
	GetByRefundID(ctx context.Context, refundID string) (*domain.Refund, error)
	GetByMerchantNo(ctx context.Context, merchantRefundNo string) (*domain.Refund, error)
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]*domain.Refund, error)
	Update(ctx context.Context, refund *domain.Refund) error
}

// TransferRepository defines data access for transfers.
type TransferRepository interface {
	Create(ctx context.Context, transfer *domain.Transfer) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Transfer, error)
	GetByTransferID(ctx context.Context, transferID string) (*domain.Transfer, error)
	GetByMerchantNo(ctx context.Context, merchantTransferNo string) (*domain.Transfer, error)
	Update(ctx context.Context, transfer *domain.Transfer) error
}

// ConfigRepository defines read access to gateway credential sets.
type ConfigRepository interface {
	GetByName(ctx context.Context, name string) (*domain.GatewayConfig, error)
	GetDefault(ctx context.Context) (*domain.GatewayConfig, error)
	List(ctx context.Context) ([]*domain.GatewayConfig, error)
}

// OrderFilter narrows order listings.
type OrderFilter struct {
	Status   *domain.OrderStatus
	Page     int
	PageSize int
}

func (f *OrderFilter) limits() (offset, limit int) {
	page, size := 0, 0
	if f != nil {
		page, size = f.Page, f.PageSize
	}
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 20
	}
	return (page - 1) * size, size
}

type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates a GORM-backed order repository.
func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	err := r.db.WithContext(ctx).Create(entity.OrderFromDomain(order)).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateOrder
	}
	return err
}

func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	var e entity.OrderEntity
	if err := r.db.WithContext(ctx).First(&e, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return e.ToDomain()
}

func (r *orderRepository) GetByOrderID(ctx context.Context, orderID string) (*domain.Order, error) {
	var e entity.OrderEntity
	if err := r.db.WithContext(ctx).First(&e, "order_id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return e.ToDomain()
}

func (r *orderRepository) GetByMerchantNo(ctx context.Context, merchantOrderNo string) (*domain.Order, error) {
	var e entity.OrderEntity
	if err := r.db.WithContext(ctx).First(&e, "merchant_order_no = ?", merchantOrderNo).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return e.ToDomain()
}

func (r *orderRepository) Update(ctx context.Context, order *domain.Order) error {
	return r.db.WithContext(ctx).Save(entity.OrderFromDomain(order)).Error
}

func (r *orderRepository) List(ctx context.Context, filter *OrderFilter) ([]*domain.Order, int64, error) {
	query := r.db.WithContext(ctx).Model(&entity.OrderEntity{})
	if filter != nil && filter.Status != nil {
		query = query.Where("status = ?", string(*filter.Status))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entities []*entity.OrderEntity
	offset, limit := filter.limits()
	if err := query.Offset(offset).Limit(limit).Order("created_at DESC").Find(&entities).Error; err != nil {
		return nil, 0, err
	}

	orders := make([]*domain.Order, 0, len(entities))
	for _, e := range entities {
		o, err := e.ToDomain()
		if err != nil {
			return nil, 0, err
		}
		orders = append(orders, o)
	}
	return orders, total, nil
}

type refundRepository struct {
	db *gorm.DB
}

// NewRefundRepository creates a GORM-backed refund repository.
func NewRefundRepository(db *gorm.DB) RefundRepository {
	return &refundRepository{db: db}
}

func (r *refundRepository) Create(ctx context.Context, refund *domain.Refund) error {
	err := r.db.WithContext(ctx).Create(entity.RefundFromDomain(refund)).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateRefund
	}
	return err
}

func (r *refundRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Refund, error) {
	var e entity.RefundEntity
	if err := r.db.WithContext(ctx).First(&e, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRefundNotFound
		}
		return nil, err
	}
	return e.ToDomain()
}

func (r *refundRepository) GetByRefundID(ctx context.Context, refundID string) (*domain.Refund, error) {
	var e entity.RefundEntity
	if err := r.db.WithContext(ctx).First(&e, "refund_id = ?", refundID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRefundNotFound
		}
		return nil, err
	}
	return e.ToDomain()
}

func (r *refundRepository) GetByMerchantNo(ctx context.Context, merchantRefundNo string) (*domain.Refund, error) {
	var e entity.RefundEntity
	if err := r.db.WithContext(ctx).First(&e, "merchant_refund_no = ?", merchantRefundNo).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRefundNotFound
		}
		return nil, err
	}
	return e.ToDomain()
}

func (r *refundRepository) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]*domain.Refund, error) {
	var entities []*entity.RefundEntity
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&entities).Error
	if err != nil {
		return nil, err
	}

	refunds := make([]*domain.Refund, 0, len(entities))
	for _, e := range entities {
		ref, err := e.ToDomain()
		if err != nil {
			return nil, err
		}
		refunds = append(refunds, ref)
	}
	return refunds, nil
}

func (r *refundRepository) Update(ctx context.Context, refund *domain.Refund) error {
	return r.db.WithContext(ctx).Save(entity.RefundFromDomain(refund)).Error
}

type transferRepository struct {
	db *gorm.DB
}

// NewTransferRepository creates a GORM-backed transfer repository.
func NewTransferRepository(db *gorm.DB) TransferRepository {
	return &transferRepository{db: db}
}

func (r *transferRepository) Create(ctx context.Context, transfer *domain.Transfer) error {
	err := r.db.WithContext(ctx).Create(entity.TransferFromDomain(transfer)).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateTransfer
	}
	return err
}

func (r *transferRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Transfer, error) {
	var e entity.TransferEntity
	if err := r.db.WithContext(ctx).First(&e, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransferNotFound
		}
		return nil, err
	}
	return e.ToDomain()
}

func (r *transferRepository) GetByTransferID(ctx context.Context, transferID string) (*domain.Transfer, error) {
	var e entity.TransferEntity
	if err := r.db.WithContext(ctx).First(&e, "transfer_id = ?", transferID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransferNotFound
		}
		return nil, err
	}
	return e.ToDomain()
}

func (r *transferRepository) GetByMerchantNo(ctx context.Context, merchantTransferNo string) (*domain.Transfer, error) {
	var e entity.TransferEntity
	if err := r.db.WithContext(ctx).First(&e, "merchant_transfer_no = ?", merchantTransferNo).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransferNotFound
		}
		return nil, err
	}
	return e.ToDomain()
}

func (r *transferRepository) Update(ctx context.Context, transfer *domain.Transfer) error {
	return r.db.WithContext(ctx).Save(entity.TransferFromDomain(transfer)).Error
}

type configRepository struct {
	db *gorm.DB
}

// NewConfigRepository creates a GORM-backed config repository.
func NewConfigRepository(db *gorm.DB) ConfigRepository {
	return &configRepository{db: db}
}

func (r *configRepository) GetByName(ctx context.Context, name string) (*domain.GatewayConfig, error) {
	var e entity.ConfigEntity
	if err := r.db.WithContext(ctx).First(&e, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}
	return e.ToDomain(), nil
}

func (r *configRepository) GetDefault(ctx context.Context) (*domain.GatewayConfig, error) {
	var e entity.ConfigEntity
	err := r.db.WithContext(ctx).
		Where("is_default = ? AND enabled = ?", true, true).
		First(&e).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}
	return e.ToDomain(), nil
}

func (r *configRepository) List(ctx context.Context) ([]*domain.GatewayConfig, error) {
	var entities []*entity.ConfigEntity
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&entities).Error; err != nil {
		return nil, err
	}
	configs := make([]*domain.GatewayConfig, len(entities))
	for i, e := range entities {
		configs[i] = e.ToDomain()
	}
	return configs, nil
}
