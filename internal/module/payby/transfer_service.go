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

type transferGateway interface {
	CreateTransfer(ctx context.Context, req *gateway.CreateTransferRequest) (map[string]any, error)
	CreateBankTransfer(ctx context.Context, req *gateway.CreateTransferRequest) (map[string]any, error)
	QueryTransfer(ctx context.Context, transferID string) (map[string]any, error)
}

// CreateTransferInput carries the caller-supplied fields for a new
// transfer. ToAccount is required for internal transfers,
// BankTransferInfo for bank transfers.
type CreateTransferInput struct {
	MerchantTransferNo string
	FromAccount        string
	ToAccount          string
	BankTransferInfo   map[string]any
	TransferAmount     domain.Money
	TransferReason     string
	NotifyURL          string
	AccessoryContent   map[string]any
}

// TransferService implements the fund transfer lifecycle.
type TransferService struct {
	transfers TransferRepository
	client    transferGateway
	lock      *NotifyLock
	logger    *zap.Logger
}

// NewTransferService creates a TransferService.
func NewTransferService(
	transfers TransferRepository,
	client transferGateway,
	lock *NotifyLock,
	logger *zap.Logger,
) *TransferService {
	return &TransferService{
		transfers: transfers,
		client:    client,
		lock:      lock,
		logger:    logger,
	}
}

// CreateInternalTransfer moves funds between gateway-internal accounts.
func (s *TransferService) CreateInternalTransfer(ctx context.Context, input CreateTransferInput) (*domain.Transfer, error) {
	s.logger.Info("creating internal transfer",
		zap.String("merchant_transfer_no", input.MerchantTransferNo),
		zap.String("from_account", input.FromAccount),
		zap.String("to_account", input.ToAccount),
		zap.String("amount", input.TransferAmount.Amount()),
	)
	return s.create(ctx, input, domain.TransferTypeInternal, func(req *gateway.CreateTransferRequest) (map[string]any, error) {
		return s.client.CreateTransfer(ctx, req)
	})
}

// CreateBankTransfer moves funds out to an external bank account.
func (s *TransferService) CreateBankTransfer(ctx context.Context, input CreateTransferInput) (*domain.Transfer, error) {
	s.logger.Info("creating bank transfer",
		zap.String("merchant_transfer_no", input.MerchantTransferNo),
		zap.String("from_account", input.FromAccount),
		zap.String("amount", input.TransferAmount.Amount()),
	)
	return s.create(ctx, input, domain.TransferTypeBank, func(req *gateway.CreateTransferRequest) (map[string]any, error) {
		return s.client.CreateBankTransfer(ctx, req)
	})
}

func (s *TransferService) create(
	ctx context.Context,
	input CreateTransferInput,
	transferType domain.TransferType,
	submit func(*gateway.CreateTransferRequest) (map[string]any, error),
) (*domain.Transfer, error) {
	_, err := s.transfers.GetByMerchantNo(ctx, input.MerchantTransferNo)
	if err == nil {
		return nil, ErrDuplicateTransfer
	}
	if !errors.Is(err, ErrTransferNotFound) {
		return nil, err
	}

	data, err := submit(&gateway.CreateTransferRequest{
		MerchantTransferNo: input.MerchantTransferNo,
		FromAccount:        input.FromAccount,
		ToAccount:          input.ToAccount,
		BankTransferInfo:   input.BankTransferInfo,
		TransferAmount:     input.TransferAmount,
		TransferReason:     input.TransferReason,
		NotifyURL:          input.NotifyURL,
		AccessoryContent:   input.AccessoryContent,
	})
	if err != nil {
		s.logger.Error("gateway rejected transfer creation",
			zap.String("merchant_transfer_no", input.MerchantTransferNo),
			zap.String("transfer_type", string(transferType)),
			zap.Error(err),
		)
		return nil, err
	}

	transfer := &domain.Transfer{
		ID:                 uuid.New(),
		TransferID:         stringField(data, "transferId"),
		MerchantTransferNo: input.MerchantTransferNo,
		TransferType:       transferType,
		FromAccount:        input.FromAccount,
		ToAccount:          input.ToAccount,
		TransferAmount:     input.TransferAmount,
		Status:             domain.TransferStatusPending,
		TransferReason:     input.TransferReason,
		NotifyURL:          input.NotifyURL,
		BankTransferInfo:   input.BankTransferInfo,
		AccessoryContent:   input.AccessoryContent,
	}
	if err := s.transfers.Create(ctx, transfer); err != nil {
		return nil, err
	}

	s.logger.Info("transfer created",
		zap.String("transfer_id", transfer.TransferID),
		zap.String("merchant_transfer_no", transfer.MerchantTransferNo),
	)
	return transfer, nil
}

// QueryTransfer returns the transfer with the given gateway id,
// refreshed from the gateway. A gateway failure during refresh is logged
// and the local state returned.
func (s *TransferService) QueryTransfer(ctx context.Context, transferID string) (*domain.Transfer, error) {
	transfer, err := s.transfers.GetByTransferID(ctx, transferID)
	if err != nil {
		return nil, err
	}

	data, err := s.client.QueryTransfer(ctx, transferID)
	if err != nil {
		s.logger.Error("transfer refresh failed, returning local state",
			zap.String("transfer_id", transferID),
			zap.Error(err),
		)
		return transfer, nil
	}

	s.applyTransferFields(transfer, data)
	if err := s.transfers.Update(ctx, transfer); err != nil {
		return nil, err
	}
	return transfer, nil
}

// GetTransfer returns the locally stored transfer for a merchant
// transfer number.
func (s *TransferService) GetTransfer(ctx context.Context, merchantTransferNo string) (*domain.Transfer, error) {
	return s.transfers.GetByMerchantNo(ctx, merchantTransferNo)
}

// HandleNotification applies a transfer status notification. A
// malformed transferTime is tolerated; the status transition still
// applies.
func (s *TransferService) HandleNotification(ctx context.Context, payload map[string]any) (bool, error) {
	transferID := stringField(payload, "transferId")
	if transferID == "" {
		s.logger.Error("notification missing transferId")
		return false, nil
	}

	release, err := s.lock.Acquire(ctx, transferID)
	if err != nil {
		if errors.Is(err, ErrNotificationLocked) {
			s.logger.Warn("concurrent transfer notification, rejecting",
				zap.String("transfer_id", transferID),
			)
			return false, nil
		}
		return false, err
	}
	defer release()

	transfer, err := s.transfers.GetByTransferID(ctx, transferID)
	if err != nil {
		if errors.Is(err, ErrTransferNotFound) {
			s.logger.Error("notification for unknown transfer",
				zap.String("transfer_id", transferID),
			)
			return false, nil
		}
		return false, err
	}

	status, ok := domain.TransferStatusFromString(stringField(payload, "status"))
	if !ok {
		s.logger.Error("invalid status in transfer notification",
			zap.String("transfer_id", transferID),
			zap.Any("status", payload["status"]),
		)
		return false, nil
	}

	oldStatus := transfer.Status
	transfer.Status = status
	s.applyTransferTime(transfer, payload)

	if err := s.transfers.Update(ctx, transfer); err != nil {
		return false, err
	}

	s.logger.Info("transfer status updated from notification",
		zap.String("transfer_id", transferID),
		zap.String("old_status", string(oldStatus)),
		zap.String("new_status", string(status)),
	)
	return true, nil
}

func (s *TransferService) applyTransferFields(transfer *domain.Transfer, data map[string]any) {
	if status, ok := domain.TransferStatusFromString(stringField(data, "status")); ok {
		transfer.Status = status
	}
	s.applyTransferTime(transfer, data)
	transfer.UpdatedAt = time.Now()
}

func (s *TransferService) applyTransferTime(transfer *domain.Transfer, data map[string]any) {
	raw := stringField(data, "transferTime")
	if raw == "" {
		return
	}
	transferTime, err := parseGatewayTime(raw)
	if err != nil {
		s.logger.Error("invalid transferTime format",
			zap.String("transfer_id", transfer.TransferID),
			zap.String("transfer_time", raw),
		)
		return
	}
	transfer.TransferTime = &transferTime
}
