package supplier

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want errorKind
	}{
		{
			name: "rate limit error",
			err:  &RateLimitError{RetryAfter: 45 * time.Second},
			want: kindRateLimit,
		},
		{
			name: "double booking form code",
			err:  &APIError{Code: "double_booking_form", Message: "order exists"},
			want: kindDuplicateForm,
		},
		{
			name: "double booking form only in message",
			err:  &APIError{Code: "error", Message: "rejected: double_booking_form for partner id"},
			want: kindDuplicateForm,
		},
		{
			name: "double booking form in plain error text",
			err:  errors.New("supplier said double_booking_form"),
			want: kindDuplicateForm,
		},
		{
			name: "rate_not_found is terminal",
			err:  &APIError{Code: "rate_not_found", Message: "rate expired"},
			want: kindTerminal,
		},
		{
			name: "insufficient balance is terminal",
			err:  &APIError{Code: "insufficient_b2b_balance", Message: "top up"},
			want: kindTerminal,
		},
		{
			name: "sandbox restriction is terminal",
			err:  &APIError{Code: "sandbox_restriction", Message: "not in sandbox"},
			want: kindTerminal,
		},
		{
			name: "timeout code is retryable",
			err:  &APIError{Code: "timeout", Message: "upstream slow"},
			want: kindRetryable,
		},
		{
			name: "5xx without code is retryable",
			err:  &APIError{Code: "strange_code", Message: "oops", HTTPStatus: 503},
			want: kindRetryable,
		},
		{
			name: "unrecognized api error is fatal",
			err:  &APIError{Code: "validation_failed", Message: "bad guests", HTTPStatus: 400},
			want: kindFatal,
		},
		{
			name: "wrapped network error is retryable",
			err:  fmt.Errorf("supplier request /hotel/prebook: %w", errors.New("dial tcp: connection refused")),
			want: kindRetryable,
		},
		{
			name: "plain timeout text is retryable",
			err:  errors.New("context deadline exceeded: request timed out"),
			want: kindRetryable,
		},
		{
			name: "unrelated error is fatal",
			err:  errors.New("something else entirely"),
			want: kindFatal,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classify(tt.err))
		})
	}
}

func TestBackoffDelaySchedule(t *testing.T) {
	want := []time.Duration{
		1 * time.Second,
		2 * time.Second,
		4 * time.Second,
		8 * time.Second,
		10 * time.Second,
		10 * time.Second,
		10 * time.Second,
		10 * time.Second,
		10 * time.Second,
	}
	for i, d := range want {
		assert.Equal(t, d, orderFormBackoff.delay(i+1), "attempt %d", i+1)
	}
	require.Equal(t, 10, orderFormBackoff.maxAttempts)
}

func TestStatusTerminal(t *testing.T) {
	assert.True(t, StatusConfirmed.Terminal())
	assert.True(t, StatusFailed.Terminal())
	assert.True(t, StatusCancelled.Terminal())
	assert.False(t, StatusProcessing.Terminal())
	assert.False(t, Status("").Terminal())
	assert.False(t, Status("verifying").Terminal())
}
