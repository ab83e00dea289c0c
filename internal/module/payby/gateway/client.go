package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"github.com/paybridge/server/internal/module/payby/domain"
	"github.com/paybridge/server/internal/shared/metrics"
)

const (
	apiVersion = "v1"

	headerSignature = "X-PayBy-Signature"
	headerTimestamp = "X-PayBy-Timestamp"

	defaultRetryBackoff = 200 * time.Millisecond
)

// ConfigResolver resolves the gateway credential set to use for a call.
// An empty name means "the enabled default".
type ConfigResolver interface {
	Resolve(ctx context.Context, name string) (*domain.GatewayConfig, error)
}

// Client talks to the gateway REST API. All operations sign their
// payload, honor the resolved config's timeout and retry budget, and
// surface failures as *APIError.
type Client struct {
	httpClient *http.Client
	signer     *Signer
	configs    ConfigResolver
	configName string
	breaker    *gobreaker.CircuitBreaker[[]byte]
	metrics    *metrics.Metrics
	logger     *zap.Logger

	// retryBackoff is the base delay between transport-error retries;
	// it doubles per attempt. Tests shrink it.
	retryBackoff time.Duration
}

// NewClient creates a gateway client bound to the named config. An empty
// configName selects the enabled default at call time.
func NewClient(
	httpClient *http.Client,
	signer *Signer,
	configs ConfigResolver,
	configName string,
	m *metrics.Metrics,
	logger *zap.Logger,
) *Client {
	breaker := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:    "payby-gateway",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})
	return &Client{
		httpClient:   httpClient,
		signer:       signer,
		configs:      configs,
		configName:   configName,
		breaker:      breaker,
		metrics:      m,
		logger:       logger,
		retryBackoff: defaultRetryBackoff,
	}
}

// CreateOrder submits a new payment order.
func (c *Client) CreateOrder(ctx context.Context, req *CreateOrderRequest) (map[string]any, error) {
	return c.post(ctx, "createOrder", "/orders", req.Body())
}

// QueryOrder fetches the current gateway view of an order.
func (c *Client) QueryOrder(ctx context.Context, orderID string) (map[string]any, error) {
	return c.get(ctx, "queryOrder", "/orders/"+orderID)
}

// CancelOrder cancels an unpaid order.
func (c *Client) CancelOrder(ctx context.Context, orderID, cancelReason string) (map[string]any, error) {
	body := map[string]any{}
	if cancelReason != "" {
		body["cancelReason"] = cancelReason
	}
	return c.post(ctx, "cancelOrder", "/orders/"+orderID+"/cancel", body)
}

// CreateRefund submits a refund against a paid order.
func (c *Client) CreateRefund(ctx context.Context, req *CreateRefundRequest) (map[string]any, error) {
	return c.post(ctx, "createRefund", "/refunds", req.Body())
}

// QueryRefund fetches the current gateway view of a refund.
func (c *Client) QueryRefund(ctx context.Context, refundID string) (map[string]any, error) {
	return c.get(ctx, "queryRefund", "/refunds/"+refundID)
}

// CreateTransfer submits an internal fund transfer.
func (c *Client) CreateTransfer(ctx context.Context, req *CreateTransferRequest) (map[string]any, error) {
	return c.post(ctx, "createTransfer", "/transfers", req.Body())
}

// CreateBankTransfer submits a transfer to an external bank account.
func (c *Client) CreateBankTransfer(ctx context.Context, req *CreateTransferRequest) (map[string]any, error) {
	return c.post(ctx, "createBankTransfer", "/transfers/bank", req.Body())
}

// QueryTransfer fetches the current gateway view of a transfer.
func (c *Client) QueryTransfer(ctx context.Context, transferID string) (map[string]any, error) {
	return c.get(ctx, "queryTransfer", "/transfers/"+transferID)
}

func (c *Client) get(ctx context.Context, op, path string) (map[string]any, error) {
	return c.request(ctx, op, http.MethodGet, path, nil)
}

func (c *Client) post(ctx context.Context, op, path string, body map[string]any) (map[string]any, error) {
	return c.request(ctx, op, http.MethodPost, path, body)
}

func (c *Client) request(ctx context.Context, op, method, path string, body map[string]any) (data map[string]any, err error) {
	start := time.Now()
	defer func() {
		if c.metrics != nil {
			c.metrics.RecordGatewayRequest(op, errorCode(err), time.Since(start))
		}
	}()

	cfg, resolveErr := c.configs.Resolve(ctx, c.configName)
	if resolveErr != nil {
		return nil, resolveErr
	}

	url := cfg.APIBaseURL + "/api/" + apiVersion + path

	c.logger.Info("gateway request",
		zap.String("method", method),
		zap.String("url", url),
		zap.String("config", cfg.Name),
	)

	// GET requests sign the empty payload so they still carry a
	// checkable signature.
	signPayload := body
	if method == http.MethodGet || signPayload == nil {
		signPayload = map[string]any{}
	}
	signature, timestamp, signErr := c.signer.Sign(signPayload)
	if signErr != nil {
		return nil, signErr
	}

	var bodyBytes []byte
	if method == http.MethodPost {
		bodyBytes, err = json.Marshal(body)
		if err != nil {
			return nil, &APIError{Code: CodeInvalidResponse, Message: "encode request body", Err: err}
		}
	}

	var lastErr error
	for attempt := 1; attempt <= cfg.RetryAttempts; attempt++ {
		if attempt > 1 {
			backoff := c.retryBackoff << (attempt - 2)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, transportError(ctx.Err())
			}
		}

		raw, doErr := c.do(ctx, cfg, method, url, bodyBytes, signature, timestamp)
		if doErr == nil {
			return c.unwrapEnvelope(raw)
		}

		if errors.Is(doErr, gobreaker.ErrOpenState) || errors.Is(doErr, gobreaker.ErrTooManyRequests) {
			c.logger.Warn("gateway circuit open", zap.String("url", url))
			return nil, &APIError{Code: CodeCircuitOpen, Message: "gateway temporarily unavailable", Retryable: true, Err: doErr}
		}

		lastErr = doErr
		c.logger.Warn("gateway transport failure",
			zap.String("url", url),
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", cfg.RetryAttempts),
			zap.Error(doErr),
		)
	}

	c.logger.Error("gateway request failed",
		zap.String("url", url),
		zap.String("config", cfg.Name),
		zap.Error(lastErr),
	)
	return nil, transportError(lastErr)
}

// do performs a single signed HTTP exchange and returns the raw response
// body. Transport failures pass through the circuit breaker so a dead
// gateway trips it open.
func (c *Client) do(ctx context.Context, cfg *domain.GatewayConfig, method, url string, body []byte, signature string, timestamp int64) ([]byte, error) {
	return c.breaker.Execute(func() ([]byte, error) {
		callCtx, cancel := context.WithTimeout(ctx, cfg.Timeout())
		defer cancel()

		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(callCtx, method, url, reader)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
		req.Header.Set(headerSignature, signature)
		req.Header.Set(headerTimestamp, strconv.FormatInt(timestamp, 10))

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("read response body: %w", err)
		}
		return raw, nil
	})
}

// unwrapEnvelope validates the {code,message,data} envelope. Anything
// other than code=SUCCESS with an object data field is an APIError; a
// business rejection is never retried.
func (c *Client) unwrapEnvelope(raw []byte) (map[string]any, error) {
	var envelope map[string]any
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, &APIError{Code: CodeInvalidResponse, Message: "invalid response format", Err: err}
	}

	code, ok := envelope["code"].(string)
	if !ok {
		code = CodeUnknownError
	}
	if code != "SUCCESS" {
		message, ok := envelope["message"].(string)
		if !ok {
			message = "API request failed"
		}
		c.logger.Warn("gateway rejected request",
			zap.String("code", code),
			zap.String("message", message),
		)
		return nil, businessError(code, message, envelope)
	}

	dataValue, present := envelope["data"]
	if !present {
		return map[string]any{}, nil
	}
	data, ok := dataValue.(map[string]any)
	if !ok {
		return nil, &APIError{Code: CodeInvalidData, Message: "invalid data format", Raw: envelope}
	}
	return data, nil
}

func errorCode(err error) string {
	if err == nil {
		return "SUCCESS"
	}
	if apiErr, ok := IsAPIError(err); ok {
		return apiErr.Code
	}
	return "ERROR"
}
