package payby

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/paybridge/server/internal/module/payby/domain"
)

// ConfigManager resolves gateway credential sets for outbound calls. It
// implements gateway.ConfigResolver: an explicit name must match an
// enabled, valid config; the empty name falls back to the enabled
// default. Resolution fails closed, a disabled or invalid config is
// never handed to the client.
type ConfigManager struct {
	configs ConfigRepository
	logger  *zap.Logger
}

// NewConfigManager creates a ConfigManager.
func NewConfigManager(configs ConfigRepository, logger *zap.Logger) *ConfigManager {
	return &ConfigManager{configs: configs, logger: logger}
}

// Resolve returns the config to use for a gateway call.
func (m *ConfigManager) Resolve(ctx context.Context, name string) (*domain.GatewayConfig, error) {
	var (
		cfg *domain.GatewayConfig
		err error
	)
	if name != "" {
		cfg, err = m.configs.GetByName(ctx, name)
	} else {
		cfg, err = m.configs.GetDefault(ctx)
	}
	if err != nil {
		m.logger.Warn("gateway config resolution failed",
			zap.String("name", name),
			zap.Error(err),
		)
		return nil, err
	}

	if !cfg.Enabled {
		m.logger.Warn("gateway config is disabled", zap.String("name", cfg.Name))
		return nil, fmt.Errorf("%w: %q is disabled", ErrConfigNotFound, cfg.Name)
	}
	if err := cfg.Validate(); err != nil {
		m.logger.Error("gateway config failed validation",
			zap.String("name", cfg.Name),
			zap.Error(err),
		)
		return nil, err
	}
	return cfg, nil
}

// List returns every stored config with secrets blanked, for the
// administrative read surface.
func (m *ConfigManager) List(ctx context.Context) ([]*domain.GatewayConfig, error) {
	configs, err := m.configs.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, cfg := range configs {
		cfg.APIKey = ""
		cfg.APISecret = ""
	}
	return configs, nil
}
