package supplier

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// PollConfig bounds a status polling run.
type PollConfig struct {
	MaxAttempts int
	Interval    time.Duration
}

// DefaultPollConfig: up to 20 polls, 3 seconds apart.
func DefaultPollConfig() PollConfig {
	return PollConfig{MaxAttempts: 20, Interval: 3 * time.Second}
}

func (cfg PollConfig) withDefaults() PollConfig {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 20
	}
	if cfg.Interval <= 0 {
		cfg.Interval = 3 * time.Second
	}
	return cfg
}

// PollOrderStatus polls one order until it reaches a terminal status or the
// attempt budget runs out. A failed poll is tolerated - logged, slept on and
// retried - because a transient polling failure must not fail a booking that
// is succeeding server-side. Exhaustion returns ErrPollTimeout, which means
// "status unknown", never "booking failed". onStatus, if set, observes every
// successfully polled status.
func (c *Client) PollOrderStatus(ctx context.Context, orderID string, cfg PollConfig, onStatus func(attempt int, status Status)) (Status, error) {
	cfg = cfg.withDefaults()

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		status, err := c.OrderStatus(ctx, orderID)
		if err != nil {
			c.log.Warn("order status poll failed",
				slog.String("order_id", orderID),
				slog.Int("attempt", attempt),
				slog.String("error", err.Error()),
			)
		} else {
			if onStatus != nil {
				onStatus(attempt, status)
			}
			if status.Terminal() {
				return status, nil
			}
		}

		if attempt < cfg.MaxAttempts {
			if serr := sleepCtx(ctx, cfg.Interval); serr != nil {
				return "", serr
			}
		}
	}
	return "", ErrPollTimeout
}

// PollOrdersStatus polls a set of orders until every one reaches a terminal
// status or the attempt budget runs out. Each round fans the pending ids out
// in parallel and partitions the answers into newly-terminal and
// still-pending; a per-order poll failure keeps that order pending. On
// exhaustion the partial results map is returned without an error - "some
// rooms resolved, others unknown" is a first-class outcome the caller must
// handle.
func (c *Client) PollOrdersStatus(ctx context.Context, orderIDs []string, cfg PollConfig) (map[string]Status, error) {
	cfg = cfg.withDefaults()

	pending := make(map[string]struct{}, len(orderIDs))
	for _, id := range orderIDs {
		if id != "" {
			pending[id] = struct{}{}
		}
	}
	results := make(map[string]Status, len(pending))

	for attempt := 1; attempt <= cfg.MaxAttempts && len(pending) > 0; attempt++ {
		var (
			mu sync.Mutex
			wg sync.WaitGroup
		)
		for id := range pending {
			wg.Add(1)
			go func(id string) {
				defer wg.Done()
				status, err := c.OrderStatus(ctx, id)
				if err != nil {
					c.log.Warn("multiroom status poll failed",
						slog.String("order_id", id),
						slog.Int("attempt", attempt),
						slog.String("error", err.Error()),
					)
					return
				}
				if status.Terminal() {
					mu.Lock()
					results[id] = status
					mu.Unlock()
				}
			}(id)
		}
		wg.Wait()

		for id := range results {
			delete(pending, id)
		}

		if len(pending) > 0 && attempt < cfg.MaxAttempts {
			if serr := sleepCtx(ctx, cfg.Interval); serr != nil {
				return results, serr
			}
		}
	}
	return results, nil
}
