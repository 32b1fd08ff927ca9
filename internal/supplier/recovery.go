package supplier

import (
	"context"
	"fmt"
)

// RecoveredOrder is the minimal view of an order resolved from a
// duplicate-form condition: just enough to continue the booking attempt with
// OrderFinish.
type RecoveredOrder struct {
	OrderID      string
	ItemID       string
	PaymentTypes []PaymentType
}

// RecoverOrderForm resolves a double_booking_form condition: the order was
// already created by an earlier call sharing this partner order id, so look
// it up instead of retrying or failing. A miss is ErrSessionExpired - the
// attempt cannot be silently restarted because the order's creation may
// still be in flight server-side.
func (c *Client) RecoverOrderForm(ctx context.Context, partnerOrderID string) (*RecoveredOrder, error) {
	res, err := c.OrdersBatch(ctx, OrdersBatchQuery{
		PartnerOrderIDs: []string{partnerOrderID},
		PageSize:        1,
	})
	if err != nil {
		return nil, fmt.Errorf("recover order form: %w", err)
	}
	if len(res.Orders) == 0 {
		return nil, ErrSessionExpired
	}

	ord := res.Orders[0]
	return &RecoveredOrder{
		OrderID:      ord.OrderID,
		ItemID:       itemIDOf(ord),
		PaymentTypes: paymentTypesOf(ord),
	}, nil
}

// itemIDOf extracts the room-line reference from whichever nested location
// the supplier used. The shapes vary with order state, so the strategies are
// tried in a fixed priority order and the first hit wins.
func itemIDOf(ord BatchOrder) string {
	for _, extract := range itemIDExtractors {
		if id, ok := extract(ord); ok {
			return id
		}
	}
	return ""
}

var itemIDExtractors = []func(BatchOrder) (string, bool){
	func(ord BatchOrder) (string, bool) {
		return ord.ItemID, ord.ItemID != ""
	},
	func(ord BatchOrder) (string, bool) {
		if len(ord.RoomsData) > 0 && ord.RoomsData[0].ItemID != "" {
			return ord.RoomsData[0].ItemID, true
		}
		return "", false
	},
	func(ord BatchOrder) (string, bool) {
		if len(ord.Rooms) > 0 && ord.Rooms[0].ItemID != "" {
			return ord.Rooms[0].ItemID, true
		}
		return "", false
	},
}

// paymentTypesOf accepts either the direct payment_types array or the single
// payment_data.payment_type the supplier emits for orders past the form
// stage, wrapping the latter into a one-element slice.
func paymentTypesOf(ord BatchOrder) []PaymentType {
	if len(ord.PaymentTypes) > 0 {
		return ord.PaymentTypes
	}
	if ord.PaymentData != nil && ord.PaymentData.PaymentType != "" {
		return []PaymentType{{Type: ord.PaymentData.PaymentType}}
	}
	return nil
}

// FormResult synthesizes a minimal successful order form result from a
// recovered order. Required fields, rooms and price are placeholders - the
// caller must treat them as unknown.
func (r *RecoveredOrder) FormResult() *OrderFormResult {
	return &OrderFormResult{
		OrderID:        r.OrderID,
		ItemID:         r.ItemID,
		RequiredFields: []string{},
		Rooms:          []OrderFormRoom{},
		PaymentTypes:   r.PaymentTypes,
		FinalPrice:     Price{},
		Recovered:      true,
	}
}

// MultiroomFormResult is the multiroom shape of a recovered result.
func (r *RecoveredOrder) MultiroomFormResult() *MultiroomOrderFormResult {
	res := &MultiroomOrderFormResult{
		PaymentTypes: r.PaymentTypes,
		FinalPrice:   Price{},
		Recovered:    true,
	}
	if r.OrderID != "" {
		res.OrderIDs = []string{r.OrderID}
	}
	return res
}
