package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/codeGROOVE-dev/estcalc/internal/metrics"
	"github.com/codeGROOVE-dev/estcalc/pkg/estimate"
)

// Error types.
var (
	ErrAccessDenied   = errors.New("access denied")
	ErrInvalidRequest = errors.New("invalid request")
	ErrRateLimit      = errors.New("rate limit exceeded")
	ErrTooLarge       = errors.New("request body too large")
)

// RequestError is an error with the HTTP status it should be reported as.
type RequestError struct {
	Err        error
	StatusCode int
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("request error (%d): %v", e.StatusCode, e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// NewRequestError creates a new request error.
func NewRequestError(statusCode int, err error) error {
	return &RequestError{
		Err:        err,
		StatusCode: statusCode,
	}
}

// decodeError maps a body read or decode failure to a request error.
func decodeError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return NewRequestError(http.StatusRequestEntityTooLarge,
			fmt.Errorf("%w (limit %d bytes)", ErrTooLarge, tooLarge.Limit))
	}
	return NewRequestError(http.StatusBadRequest, fmt.Errorf("%w: %w", ErrInvalidRequest, err))
}

// runError maps a rejected session to a request error. Duplicate names
// conflict with an earlier entry; every other rejection is bad input.
func runError(err error) error {
	if estimate.IsDuplicateItemError(err) {
		return NewRequestError(http.StatusConflict, err)
	}
	return NewRequestError(http.StatusBadRequest, err)
}

// outcome labels a mapped run error for metrics.
func outcome(err error) string {
	switch {
	case estimate.IsDuplicateItemError(err):
		return metrics.OutcomeDuplicate
	case estimate.IsValidationError(err):
		return metrics.OutcomeInvalid
	default:
		var reqErr *RequestError
		if errors.As(err, &reqErr) && reqErr.StatusCode == http.StatusBadRequest {
			return metrics.OutcomeInvalid
		}
		return metrics.OutcomeError
	}
}
