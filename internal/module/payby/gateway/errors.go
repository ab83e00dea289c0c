package gateway

import (
	"errors"
	"fmt"
)

// Error codes the client itself produces. Every other code comes from
// the gateway response envelope.
const (
	CodeRequestError    = "REQUEST_ERROR"
	CodeCircuitOpen     = "CIRCUIT_OPEN"
	CodeInvalidResponse = "INVALID_RESPONSE"
	CodeInvalidData     = "INVALID_DATA"
	CodeUnknownError    = "UNKNOWN_ERROR"
)

// APIError is the single error family callers of the client see: the
// gateway rejected the request, the response was malformed, or the
// transport failed. Callers branch on Retryable to distinguish transient
// transport failures from terminal business rejections.
type APIError struct {
	Code      string
	Message   string
	Raw       map[string]any
	Retryable bool
	Err       error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("payby api error [%s]: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("payby api error [%s]: %s", e.Code, e.Message)
}

func (e *APIError) Unwrap() error { return e.Err }

// IsAPIError extracts an APIError from an error chain.
func IsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsRetryable reports whether the failure was transport-level and the
// caller may try again.
func IsRetryable(err error) bool {
	if apiErr, ok := IsAPIError(err); ok {
		return apiErr.Retryable
	}
	return false
}

func businessError(code, message string, raw map[string]any) *APIError {
	return &APIError{Code: code, Message: message, Raw: raw}
}

func transportError(err error) *APIError {
	return &APIError{
		Code:      CodeRequestError,
		Message:   "request failed",
		Retryable: true,
		Err:       err,
	}
}
