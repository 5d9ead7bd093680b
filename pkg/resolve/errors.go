package resolve

import (
	"errors"
	"fmt"
)

var (
	// ErrTimeout is returned when gathering outlives the configured deadline.
	ErrTimeout = errors.New("timeout: unable to detect IP address")
	// ErrNoAddressFound is returned when gathering completed without a usable candidate.
	ErrNoAddressFound = errors.New("no valid IP address found")
)

// NegotiationError carries a failure reported by the negotiation stack, unmodified.
type NegotiationError struct {
	Err error
}

func (e *NegotiationError) Error() string {
	return fmt.Sprintf("negotiation error: %v", e.Err)
}

func (e *NegotiationError) Unwrap() error {
	return e.Err
}
