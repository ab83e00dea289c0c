package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// GatewayConfig validation bounds.
const (
	MinTimeoutSeconds = 1
	MaxTimeoutSeconds = 300
	MinRetryAttempts  = 1
	MaxRetryAttempts  = 10
)

var ErrInvalidConfig = errors.New("invalid gateway config")

// GatewayConfig is a named credential set for the gateway. Configs are
// administered elsewhere; this module only reads them.
type GatewayConfig struct {
	ID             uuid.UUID
	Name           string
	Description    string
	APIBaseURL     string
	APIKey         string
	APISecret      string
	MerchantID     string
	TimeoutSeconds int
	RetryAttempts  int
	Enabled        bool
	IsDefault      bool
	ExtraConfig    map[string]any
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Validate checks the invariants a usable config must satisfy.
func (c *GatewayConfig) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidConfig)
	}
	if c.APIBaseURL == "" {
		return fmt.Errorf("%w: empty api base url", ErrInvalidConfig)
	}
	if c.TimeoutSeconds < MinTimeoutSeconds || c.TimeoutSeconds > MaxTimeoutSeconds {
		return fmt.Errorf("%w: timeout %d out of range [%d,%d]",
			ErrInvalidConfig, c.TimeoutSeconds, MinTimeoutSeconds, MaxTimeoutSeconds)
	}
	if c.RetryAttempts < MinRetryAttempts || c.RetryAttempts > MaxRetryAttempts {
		return fmt.Errorf("%w: retry attempts %d out of range [%d,%d]",
			ErrInvalidConfig, c.RetryAttempts, MinRetryAttempts, MaxRetryAttempts)
	}
	return nil
}

// Timeout returns the per-call timeout as a duration.
func (c *GatewayConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}
