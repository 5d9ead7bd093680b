package detector

import (
	"context"
	"errors"

	"github.com/rescp17/ipLeak/pkg/resolve"
)

var (
	ErrTimeout        = resolve.ErrTimeout
	ErrNoAddressFound = resolve.ErrNoAddressFound
)

// NegotiationError is a failure reported by the negotiation stack.
type NegotiationError = resolve.NegotiationError

// ErrorCategory represents the category of an error for retry decisions.
type ErrorCategory int

const (
	// ErrorCategoryRecoverable indicates a fresh attempt may succeed.
	ErrorCategoryRecoverable ErrorCategory = iota
	// ErrorCategoryNonRecoverable indicates a fresh attempt would fail the same way.
	ErrorCategoryNonRecoverable
)

func (c ErrorCategory) String() string {
	switch c {
	case ErrorCategoryRecoverable:
		return "recoverable"
	case ErrorCategoryNonRecoverable:
		return "non-recoverable"
	default:
		return "unknown"
	}
}

// Categorize determines the category of an error returned by Detect.
func Categorize(err error) ErrorCategory {
	var negErr *NegotiationError
	switch {
	case err == nil:
		return ErrorCategoryNonRecoverable
	case errors.Is(err, ErrInvalidConfig):
		return ErrorCategoryNonRecoverable
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ErrorCategoryNonRecoverable
	case errors.Is(err, ErrNoAddressFound):
		return ErrorCategoryNonRecoverable
	case errors.Is(err, ErrTimeout):
		return ErrorCategoryRecoverable
	case errors.As(err, &negErr):
		return ErrorCategoryRecoverable
	}
	return ErrorCategoryNonRecoverable
}

// IsRetryable reports whether a fresh attempt may succeed after err.
func IsRetryable(err error) bool {
	return Categorize(err) == ErrorCategoryRecoverable
}

// Reason returns the short failure kind of err as reported to external callers.
func Reason(err error) string {
	var negErr *NegotiationError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.Is(err, ErrNoAddressFound):
		return "no-address-found"
	case errors.As(err, &negErr):
		return "negotiation-error"
	case errors.Is(err, ErrInvalidConfig):
		return "invalid-config"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	}
	return "unknown"
}
