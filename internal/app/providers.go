package app

import (
	"net/http"

	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/paybridge/server/internal/module/payby"
	"github.com/paybridge/server/internal/module/payby/gateway"
	"github.com/paybridge/server/internal/shared/cache"
	"github.com/paybridge/server/internal/shared/config"
	"github.com/paybridge/server/internal/shared/database"
	"github.com/paybridge/server/internal/shared/logger"
	"github.com/paybridge/server/internal/shared/metrics"
)

// InfraSet provides infrastructure dependencies.
var InfraSet = wire.NewSet(
	ProvideLogger,
	ProvideDatabase,
	ProvideRedisClient,
	ProvideHTTPClient,
	ProvideMetrics,
)

// PayBySet provides the payment module dependencies.
var PayBySet = wire.NewSet(
	payby.NewOrderRepository,
	payby.NewRefundRepository,
	payby.NewTransferRepository,
	payby.NewConfigRepository,
	payby.NewConfigManager,
	payby.NewHandler,
	ProvideSigner,
	ProvideGatewayClient,
	ProvideNotifyLock,
	ProvideOrderService,
	ProvideRefundService,
	ProvideTransferService,
	ProvideWebhookHandler,
)

// AppSet is the master provider set.
var AppSet = wire.NewSet(
	InfraSet,
	PayBySet,
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	return logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
}

// ProvideDatabase creates a database connection.
func ProvideDatabase(cfg *config.Config) (*gorm.DB, error) {
	return database.New(&cfg.Database)
}

// ProvideRedisClient creates a Redis client. Redis is optional; the
// notify lock degrades to a no-op without it.
func ProvideRedisClient(cfg *config.Config, log *zap.Logger) *goredis.Client {
	if cfg.Redis.Address == "" {
		return nil
	}
	client, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.Warn("redis connection failed, notification locking disabled", zap.Error(err))
		return nil
	}
	return client
}

// ProvideHTTPClient creates the outbound HTTP client. Per-call timeouts
// come from the resolved gateway config, so the client carries none.
func ProvideHTTPClient() *http.Client {
	return &http.Client{}
}

// ProvideMetrics creates the metrics instance.
func ProvideMetrics() *metrics.Metrics {
	return metrics.New("paybridge", prometheus.DefaultRegisterer)
}

// ProvideSigner creates the request signer from the configured PEM key
// material.
func ProvideSigner(cfg *config.Config, log *zap.Logger) (*gateway.Signer, error) {
	privatePEM, err := cfg.PayBy.PrivateKeyPEM()
	if err != nil {
		return nil, err
	}
	publicPEM, err := cfg.PayBy.PublicKeyPEM()
	if err != nil {
		return nil, err
	}
	return gateway.NewSigner(privatePEM, publicPEM, log)
}

// ProvideGatewayClient creates the signed gateway client.
func ProvideGatewayClient(
	httpClient *http.Client,
	signer *gateway.Signer,
	configs *payby.ConfigManager,
	cfg *config.Config,
	m *metrics.Metrics,
	log *zap.Logger,
) *gateway.Client {
	return gateway.NewClient(httpClient, signer, configs, cfg.PayBy.ConfigName, m, log)
}

// ProvideNotifyLock creates the per-notification advisory lock.
func ProvideNotifyLock(redis *goredis.Client) *payby.NotifyLock {
	return payby.NewNotifyLock(redis)
}

// ProvideOrderService creates the order service.
func ProvideOrderService(
	orders payby.OrderRepository,
	refunds payby.RefundRepository,
	client *gateway.Client,
	lock *payby.NotifyLock,
	log *zap.Logger,
) *payby.OrderService {
	return payby.NewOrderService(orders, refunds, client, lock, log)
}

// ProvideRefundService creates the refund service.
func ProvideRefundService(
	refunds payby.RefundRepository,
	orders payby.OrderRepository,
	client *gateway.Client,
	lock *payby.NotifyLock,
	log *zap.Logger,
) *payby.RefundService {
	return payby.NewRefundService(refunds, orders, client, lock, log)
}

// ProvideTransferService creates the transfer service.
func ProvideTransferService(
	transfers payby.TransferRepository,
	client *gateway.Client,
	lock *payby.NotifyLock,
	log *zap.Logger,
) *payby.TransferService {
	return payby.NewTransferService(transfers, client, lock, log)
}

// ProvideWebhookHandler creates the inbound notification handler. The
// signer doubles as the signature verifier.
func ProvideWebhookHandler(
	orders *payby.OrderService,
	refunds *payby.RefundService,
	transfers *payby.TransferService,
	signer *gateway.Signer,
	m *metrics.Metrics,
	log *zap.Logger,
) *payby.WebhookHandler {
	return payby.NewWebhookHandler(orders, refunds, transfers, signer, m, log)
}
