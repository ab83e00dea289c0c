package payby

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/paybridge/server/internal/module/payby/domain"
)

func validConfig(name string, isDefault bool) *domain.GatewayConfig {
	return &domain.GatewayConfig{
		Name:           name,
		APIBaseURL:     "https://api.test.payby.com",
		APIKey:         "key",
		APISecret:      "secret",
		TimeoutSeconds: 30,
		RetryAttempts:  3,
		Enabled:        true,
		IsDefault:      isDefault,
	}
}

func TestConfigManager_Resolve(t *testing.T) {
	disabled := validConfig("disabled", false)
	disabled.Enabled = false
	invalid := validConfig("invalid", false)
	invalid.TimeoutSeconds = 0

	repo := &fakeConfigRepo{configs: []*domain.GatewayConfig{
		validConfig("primary", true),
		validConfig("secondary", false),
		disabled,
		invalid,
	}}
	manager := NewConfigManager(repo, zap.NewNop())

	t.Run("explicit name", func(t *testing.T) {
		cfg, err := manager.Resolve(context.Background(), "secondary")
		require.NoError(t, err)
		assert.Equal(t, "secondary", cfg.Name)
	})

	t.Run("empty name selects enabled default", func(t *testing.T) {
		cfg, err := manager.Resolve(context.Background(), "")
		require.NoError(t, err)
		assert.Equal(t, "primary", cfg.Name)
	})

	t.Run("unknown name", func(t *testing.T) {
		_, err := manager.Resolve(context.Background(), "nope")
		assert.ErrorIs(t, err, ErrConfigNotFound)
	})

	t.Run("disabled config rejected", func(t *testing.T) {
		_, err := manager.Resolve(context.Background(), "disabled")
		assert.ErrorIs(t, err, ErrConfigNotFound)
	})

	t.Run("invalid config rejected", func(t *testing.T) {
		_, err := manager.Resolve(context.Background(), "invalid")
		assert.ErrorIs(t, err, domain.ErrInvalidConfig)
	})
}

func TestConfigManager_ResolveNoDefault(t *testing.T) {
	repo := &fakeConfigRepo{configs: []*domain.GatewayConfig{validConfig("only", false)}}
	manager := NewConfigManager(repo, zap.NewNop())

	_, err := manager.Resolve(context.Background(), "")
	assert.ErrorIs(t, err, ErrConfigNotFound)
}

func TestConfigManager_ListBlanksSecrets(t *testing.T) {
	repo := &fakeConfigRepo{configs: []*domain.GatewayConfig{validConfig("primary", true)}}
	manager := NewConfigManager(repo, zap.NewNop())

	configs, err := manager.List(context.Background())
	require.NoError(t, err)
	require.Len(t, configs, 1)
	assert.Empty(t, configs[0].APIKey)
	assert.Empty(t, configs[0].APISecret)
	assert.Equal(t, "primary", configs[0].Name)
}
