package app

import (
	"net/http"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/paybridge/server/internal/module/payby"
	"github.com/paybridge/server/internal/module/payby/gateway"
	"github.com/paybridge/server/internal/shared/config"
	"github.com/paybridge/server/internal/shared/metrics"
)

// Dependencies holds all injected dependencies.
type Dependencies struct {
	Config     *config.Config
	DB         *gorm.DB
	Redis      *goredis.Client
	HTTPClient *http.Client
	Logger     *zap.Logger
	Metrics    *metrics.Metrics

	Signer        *gateway.Signer
	GatewayClient *gateway.Client
	ConfigManager *payby.ConfigManager

	OrderService    *payby.OrderService
	RefundService   *payby.RefundService
	TransferService *payby.TransferService

	Handler        *payby.Handler
	WebhookHandler *payby.WebhookHandler
}
