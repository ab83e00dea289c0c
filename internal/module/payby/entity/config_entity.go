package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/paybridge/server/internal/module/payby/domain"
)

// ConfigEntity is the persistence model for gateway credential sets.
type ConfigEntity struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name           string    `gorm:"uniqueIndex;not null"`
	Description    string
	APIBaseURL     string `gorm:"not null"`
	APIKey         string
	APISecret      string
	MerchantID     string
	TimeoutSeconds int    `gorm:"default:30"`
	RetryAttempts  int    `gorm:"default:3"`
	Enabled        bool   `gorm:"default:true;index"`
	IsDefault      bool   `gorm:"default:false"`
	ExtraConfig    string `gorm:"type:jsonb"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName returns the database table name.
func (ConfigEntity) TableName() string {
	return "payby_configs"
}

// ToDomain converts the entity to a domain GatewayConfig.
func (e *ConfigEntity) ToDomain() *domain.GatewayConfig {
	return &domain.GatewayConfig{
		ID:             e.ID,
		Name:           e.Name,
		Description:    e.Description,
		APIBaseURL:     e.APIBaseURL,
		APIKey:         e.APIKey,
		APISecret:      e.APISecret,
		MerchantID:     e.MerchantID,
		TimeoutSeconds: e.TimeoutSeconds,
		RetryAttempts:  e.RetryAttempts,
		Enabled:        e.Enabled,
		IsDefault:      e.IsDefault,
		ExtraConfig:    decodeMap(e.ExtraConfig),
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}

// ConfigFromDomain creates a ConfigEntity from a domain GatewayConfig.
func ConfigFromDomain(c *domain.GatewayConfig) *ConfigEntity {
	return &ConfigEntity{
		ID:             c.ID,
		Name:           c.Name,
		Description:    c.Description,
		APIBaseURL:     c.APIBaseURL,
		APIKey:         c.APIKey,
		APISecret:      c.APISecret,
		MerchantID:     c.MerchantID,
		TimeoutSeconds: c.TimeoutSeconds,
		RetryAttempts:  c.RetryAttempts,
		Enabled:        c.Enabled,
		IsDefault:      c.IsDefault,
		ExtraConfig:    encodeMap(c.ExtraConfig),
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}
