package detector

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategorizeAndReason(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		category  ErrorCategory
		reason    string
	}{
		{"Timeout", fmt.Errorf("session x: %w", ErrTimeout), ErrorCategoryRecoverable, "timeout"},
		{"No address", ErrNoAddressFound, ErrorCategoryNonRecoverable, "no-address-found"},
		{"Negotiation", &NegotiationError{Err: errors.New("offer failed")}, ErrorCategoryRecoverable, "negotiation-error"},
		{"Invalid config", fmt.Errorf("%w: bad", ErrInvalidConfig), ErrorCategoryNonRecoverable, "invalid-config"},
		{"Canceled", context.Canceled, ErrorCategoryNonRecoverable, "canceled"},
		{"Other", errors.New("mystery"), ErrorCategoryNonRecoverable, "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.category, Categorize(tt.err))
			assert.Equal(t, tt.reason, Reason(tt.err))
		})
	}
	assert.Equal(t, "", Reason(nil))
}
