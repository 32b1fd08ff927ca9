package supplier

import (
	"context"
	"errors"
)

// OrderFormRequest creates the supplier-side order for a single room. The
// partner order id is the idempotency key for the whole booking attempt: it
// must be reused across retries of this attempt and never across attempts.
type OrderFormRequest struct {
	BookHash       string `json:"book_hash"`
	PartnerOrderID string `json:"partner_order_id"`
	Language       string `json:"language,omitempty"`
	UserIP         string `json:"user_ip,omitempty"`
}

// MultiroomOrderFormRequest is the multiroom variant. BookHashes are ordered
// per room.
type MultiroomOrderFormRequest struct {
	BookHashes     []string
	PartnerOrderID string
	Language       string
	UserIP         string
}

type multiroomOrderFormPayload struct {
	// BookHash duplicates the first room's hash. Kept for backend
	// compatibility; confirm against the target supplier contract before
	// removing.
	BookHash       string          `json:"book_hash"`
	PrebookedRooms []prebookedRoom `json:"prebooked_rooms"`
	PartnerOrderID string          `json:"partner_order_id"`
	Language       string          `json:"language,omitempty"`
	UserIP         string          `json:"user_ip,omitempty"`
}

type prebookedRoom struct {
	BookHash string `json:"book_hash"`
}

// OrderForm creates the order and returns the guest-field requirements and
// payable price. The call runs under the bounded backoff controller:
// terminal supplier errors fail fast, transport faults retry up to the
// budget, and a duplicate-form condition is resolved through the recovery
// resolver into a result flagged Recovered.
func (c *Client) OrderForm(ctx context.Context, req OrderFormRequest) (*OrderFormResult, error) {
	if req.BookHash == "" {
		return nil, errors.New("order form: book_hash is required")
	}
	if req.PartnerOrderID == "" {
		return nil, errors.New("order form: partner_order_id is required")
	}

	var res OrderFormResult
	rec, err := c.withBackoffRetry(ctx, req.PartnerOrderID, func(ctx context.Context) error {
		return c.call(ctx, epOrderForm, req, &res)
	})
	if err != nil {
		return nil, err
	}
	if rec != nil {
		return rec.FormResult(), nil
	}
	return &res, nil
}

// OrderFormMultiroom creates the multiroom order under the same retry and
// recovery policy as the single-room form.
func (c *Client) OrderFormMultiroom(ctx context.Context, req MultiroomOrderFormRequest) (*MultiroomOrderFormResult, error) {
	if len(req.BookHashes) == 0 {
		return nil, errors.New("order form: at least one book_hash is required")
	}
	if req.PartnerOrderID == "" {
		return nil, errors.New("order form: partner_order_id is required")
	}

	payload := multiroomOrderFormPayload{
		BookHash:       req.BookHashes[0],
		PartnerOrderID: req.PartnerOrderID,
		Language:       req.Language,
		UserIP:         req.UserIP,
		PrebookedRooms: make([]prebookedRoom, 0, len(req.BookHashes)),
	}
	for _, hash := range req.BookHashes {
		if hash == "" {
			return nil, errors.New("order form: book_hash is required for every room")
		}
		payload.PrebookedRooms = append(payload.PrebookedRooms, prebookedRoom{BookHash: hash})
	}

	var res MultiroomOrderFormResult
	rec, err := c.withBackoffRetry(ctx, req.PartnerOrderID, func(ctx context.Context) error {
		return c.call(ctx, epOrderFormMultiroom, payload, &res)
	})
	if err != nil {
		return nil, err
	}
	if rec != nil {
		return rec.MultiroomFormResult(), nil
	}
	return &res, nil
}
