package supplier

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Sentinel errors surfaced to callers of the booking protocol.
var (
	// ErrMaxRetriesExceeded is returned when the order form retry budget is
	// exhausted without a successful response or a recoverable condition.
	ErrMaxRetriesExceeded = errors.New("order form failed after maximum retries")

	// ErrSessionExpired is returned when a duplicate-form condition could not
	// be resolved to an existing order. The booking attempt must be restarted
	// with a fresh partner order id.
	ErrSessionExpired = errors.New("booking session expired, start a new booking")

	// ErrPollTimeout is returned when status polling exhausts its attempt
	// budget. It means "status unknown, check back later" - never "booking
	// failed".
	ErrPollTimeout = errors.New("status polling attempts exhausted, order status unknown")
)

// APIError is the normalized supplier error. Non-2xx responses, structured
// {error:{code,message}} bodies and non-JSON bodies all collapse into this
// type so callers never branch on raw HTTP status.
type APIError struct {
	Code       string
	Message    string
	HTTPStatus int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("supplier error %q: %s (http %d)", e.Code, e.Message, e.HTTPStatus)
}

// RateLimitError reports an HTTP 429 from the supplier. It is raised before
// any JSON parsing (a 429 body may not be valid JSON) and is never retried
// automatically - the caller decides how to surface the wait time.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("supplier busy, retry after %s", e.RetryAfter)
}

// errorKind is the single enum the retry controller branches on. Raw errors
// are mapped into a kind exactly once, in classify.
type errorKind int

const (
	// kindFatal: not recognized as a transport fault - rethrown immediately.
	kindFatal errorKind = iota
	// kindRetryable: consumed against the attempt budget with backoff.
	kindRetryable
	// kindTerminal: supplier rejected the booking - surfaced verbatim, never retried.
	kindTerminal
	// kindDuplicateForm: the order already exists for this partner order id;
	// resolved via the recovery resolver, not an error.
	kindDuplicateForm
	// kindRateLimit: HTTP 429 - surfaced with the wait duration, never auto-retried.
	kindRateLimit
)

const codeDoubleBookingForm = "double_booking_form"

// Supplier error codes that can never succeed on retry.
var terminalCodes = map[string]bool{
	"contract_mismatch":          true,
	"duplicate_reservation":      true,
	"hotel_not_found":            true,
	"insufficient_b2b_balance":   true,
	"reservation_is_not_allowed": true,
	"rate_not_found":             true,
	"sandbox_restriction":        true,
}

// Supplier error codes worth another attempt.
var retryableCodes = map[string]bool{
	"timeout": true,
	"unknown": true,
}

// Message fragments that identify a transport-layer fault in errors that
// carry no structured code (network failures, opaque 5xx bodies).
var transportFaultHints = []string{
	"timeout",
	"timed out",
	"connection",
	"network",
	"no such host",
	"broken pipe",
	"reset by peer",
	"EOF",
	"internal server error",
	"bad gateway",
	"service unavailable",
	"gateway timeout",
}

// classify maps a raw error into the tagged kind the retry controller
// branches on. The supplier reports double_booking_form inconsistently -
// sometimes as a structured code, sometimes only as a substring of the error
// message - so both channels are checked here and nowhere else.
func classify(err error) errorKind {
	var rle *RateLimitError
	if errors.As(err, &rle) {
		return kindRateLimit
	}

	var ae *APIError
	if errors.As(err, &ae) {
		switch {
		case ae.Code == codeDoubleBookingForm:
			return kindDuplicateForm
		case terminalCodes[ae.Code]:
			return kindTerminal
		case retryableCodes[ae.Code]:
			return kindRetryable
		case strings.Contains(ae.Message, codeDoubleBookingForm):
			return kindDuplicateForm
		case ae.HTTPStatus >= 500:
			return kindRetryable
		}
		return kindFatal
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, codeDoubleBookingForm) {
		return kindDuplicateForm
	}
	for _, hint := range transportFaultHints {
		if strings.Contains(msg, strings.ToLower(hint)) {
			return kindRetryable
		}
	}
	return kindFatal
}
