package supplier

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Two retry policies exist on purpose and must not be unified: prebook holds
// are short-lived and recover best from one prompt retry, while the order
// form tolerates a long backoff schedule. Changing one must not change the
// other's latency budget.

// prebookRetryDelay is the fixed wait before Prebook's single blind retry.
const prebookRetryDelay = 1200 * time.Millisecond

// backoffPolicy is a bounded exponential backoff schedule.
type backoffPolicy struct {
	maxAttempts int
	base        time.Duration
	cap         time.Duration
}

// orderFormBackoff: 10 attempts, delays 1s, 2s, 4s, 8s then capped at 10s.
var orderFormBackoff = backoffPolicy{
	maxAttempts: 10,
	base:        time.Second,
	cap:         10 * time.Second,
}

// delay returns the wait after the given attempt (1-based):
// min(base * 2^(attempt-1), cap).
func (p backoffPolicy) delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	d := p.base
	for i := 1; i < attempt; i++ {
		d *= 2
		if d >= p.cap {
			return p.cap
		}
	}
	if d > p.cap {
		return p.cap
	}
	return d
}

// sleepCtx waits for d or until ctx is cancelled. Backoff waits and polling
// intervals are suspension points, never busy-waits.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// singleRetry runs fn and, on a transport-classified failure, retries it
// exactly once after a fixed delay. Terminal supplier errors and rate-limit
// conditions fail fast.
func (c *Client) singleRetry(ctx context.Context, fn func() error) error {
	err := fn()
	if err == nil {
		return nil
	}
	if classify(err) != kindRetryable {
		return err
	}

	c.log.Warn("prebook transport failure, retrying once",
		slog.String("error", err.Error()),
		slog.Duration("delay", c.prebookDelay),
	)
	if serr := sleepCtx(ctx, c.prebookDelay); serr != nil {
		return serr
	}
	return fn()
}

// withBackoffRetry is the bounded retry controller around one order form
// attempt. It returns (nil, nil) when attempt eventually succeeds,
// (recovered, nil) when a duplicate-form condition was resolved to an
// existing order, and an error otherwise. The controller branches only on
// the classified error kind; all string inspection lives in classify.
func (c *Client) withBackoffRetry(ctx context.Context, partnerOrderID string, attempt func(context.Context) error) (*RecoveredOrder, error) {
	var lastErr error
	for n := 1; n <= c.backoff.maxAttempts; n++ {
		err := attempt(ctx)
		if err == nil {
			return nil, nil
		}

		switch classify(err) {
		case kindDuplicateForm:
			c.log.Info("duplicate booking form, resolving existing order",
				slog.String("partner_order_id", partnerOrderID),
			)
			rec, rerr := c.RecoverOrderForm(ctx, partnerOrderID)
			if rerr != nil {
				return nil, rerr
			}
			return rec, nil
		case kindRetryable:
			lastErr = err
			if n == c.backoff.maxAttempts {
				break
			}
			delay := c.backoff.delay(n)
			c.log.Warn("order form attempt failed, backing off",
				slog.Int("attempt", n),
				slog.Duration("delay", delay),
				slog.String("error", err.Error()),
			)
			if serr := sleepCtx(ctx, delay); serr != nil {
				return nil, serr
			}
		default:
			// terminal, rate-limited or unrecognized: surface immediately.
			return nil, err
		}
	}
	return nil, fmt.Errorf("%w: %v", ErrMaxRetriesExceeded, lastErr)
}
