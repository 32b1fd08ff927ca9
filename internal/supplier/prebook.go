package supplier

import (
	"context"
	"errors"
)

// defaultPriceIncreasePercent is the tolerated supplier-side price drift
// during the hold window. Beyond it Prebook fails instead of silently
// substituting a pricier rate.
const defaultPriceIncreasePercent = 20

type prebookRequest struct {
	BookHash             string `json:"book_hash"`
	Residency            string `json:"residency,omitempty"`
	Currency             string `json:"currency,omitempty"`
	PriceIncreasePercent int    `json:"price_increase_percent"`
}

type multiroomPrebookRequest struct {
	Rooms    []prebookRoom `json:"rooms"`
	Currency string        `json:"currency,omitempty"`
	Language string        `json:"language,omitempty"`
}

type prebookRoom struct {
	BookHash             string  `json:"book_hash"`
	Guests               []Guest `json:"guests,omitempty"`
	Residency            string  `json:"residency,omitempty"`
	PriceIncreasePercent int     `json:"price_increase_percent"`
}

// Prebook re-validates price and availability for a held rate and locks it
// for booking. Transport failures get exactly one blind retry after a short
// fixed delay (singleRetry); everything else fails fast.
func (c *Client) Prebook(ctx context.Context, rate BookedRate) (*PrebookResult, error) {
	if rate.BookHash == "" {
		return nil, errors.New("prebook: book_hash is required")
	}

	req := prebookRequest{
		BookHash:             rate.BookHash,
		Residency:            rate.Residency,
		Currency:             rate.Currency,
		PriceIncreasePercent: rate.PriceIncreasePercent,
	}
	if req.PriceIncreasePercent <= 0 {
		req.PriceIncreasePercent = defaultPriceIncreasePercent
	}

	var res PrebookResult
	err := c.singleRetry(ctx, func() error {
		return c.call(ctx, epPrebook, req, &res)
	})
	if err != nil {
		return nil, err
	}
	if res.BookHash == "" {
		// Some supplier versions omit the confirmed hash; the held one stays valid.
		res.BookHash = rate.BookHash
	}
	return &res, nil
}

// PrebookMultiroom locks every room of a multiroom trip in one call. The
// result carries per-room accounting; a partially failed prebook is reported
// through the counters, not as an error.
func (c *Client) PrebookMultiroom(ctx context.Context, rates []BookedRate, currency, language string) (*MultiroomPrebookResult, error) {
	if len(rates) == 0 {
		return nil, errors.New("prebook: at least one room is required")
	}

	req := multiroomPrebookRequest{
		Currency: currency,
		Language: language,
		Rooms:    make([]prebookRoom, 0, len(rates)),
	}
	for _, rate := range rates {
		if rate.BookHash == "" {
			return nil, errors.New("prebook: book_hash is required for every room")
		}
		room := prebookRoom{
			BookHash:             rate.BookHash,
			Guests:               rate.Guests,
			Residency:            rate.Residency,
			PriceIncreasePercent: rate.PriceIncreasePercent,
		}
		if room.PriceIncreasePercent <= 0 {
			room.PriceIncreasePercent = defaultPriceIncreasePercent
		}
		req.Rooms = append(req.Rooms, room)
	}

	var res MultiroomPrebookResult
	err := c.singleRetry(ctx, func() error {
		return c.call(ctx, epPrebookMultiroom, req, &res)
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}
