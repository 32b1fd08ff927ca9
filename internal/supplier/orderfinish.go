package supplier

import (
	"context"
	"fmt"
)

// OrderFinishRequest submits guests and payment for a created order.
type OrderFinishRequest struct {
	OrderID         string
	ItemID          string
	PartnerOrderID  string
	PaymentType     string
	PaymentAmount   float64
	PaymentCurrency string
	Guests          []Guest
	Email           string
	Phone           string
	UserIP          string
	Language        string
}

// FinishRoom is one room line of a multiroom finish.
type FinishRoom struct {
	OrderID string  `json:"order_id"`
	ItemID  string  `json:"item_id"`
	Guests  []Guest `json:"guests"`
}

// MultiroomOrderFinishRequest is the multiroom variant of OrderFinishRequest.
type MultiroomOrderFinishRequest struct {
	Rooms           []FinishRoom
	PartnerOrderID  string
	PaymentType     string
	PaymentAmount   float64
	PaymentCurrency string
	Email           string
	Phone           string
	UserIP          string
	Language        string
}

// guestGroup is the supplier's single-room guest wrapper: guests go inside a
// one-element array of {guests:[...]} even though there is exactly one room.
type guestGroup struct {
	Guests []Guest `json:"guests"`
}

type orderFinishPayload struct {
	OrderID             string       `json:"order_id"`
	ItemID              string       `json:"item_id"`
	PartnerOrderID      string       `json:"partner_order_id"`
	PaymentType         string       `json:"payment_type"`
	PaymentAmount       float64      `json:"payment_amount"`
	PaymentCurrencyCode string       `json:"payment_currency_code"`
	Guests              []guestGroup `json:"guests"`
	Email               string       `json:"email"`
	Phone               string       `json:"phone,omitempty"`
	UserIP              string       `json:"user_ip,omitempty"`
	Language            string       `json:"language,omitempty"`
}

type multiroomOrderFinishPayload struct {
	Rooms               []FinishRoom `json:"rooms"`
	PaymentType         string       `json:"payment_type"`
	PaymentAmount       float64      `json:"payment_amount"`
	PaymentCurrencyCode string       `json:"payment_currency_code"`
	Email               string       `json:"email"`
	Phone               string       `json:"phone,omitempty"`
	PartnerOrderID      string       `json:"partner_order_id"`
	Language            string       `json:"language,omitempty"`
	UpsellData          []any        `json:"upsell_data"`
}

// OrderFinish submits guest and payment data, starting asynchronous
// supplier-side processing. Validation fails fast before any network call.
//
// Never retried, at this layer or any other: once the supplier accepts a
// finish the order is processing, and a second submit risks double-charging.
// Any retrying must have happened at the OrderForm stage.
func (c *Client) OrderFinish(ctx context.Context, req OrderFinishRequest) (*OrderFinishResult, error) {
	required := []struct {
		field string
		value string
	}{
		{"order_id", req.OrderID},
		{"item_id", req.ItemID},
		{"partner_order_id", req.PartnerOrderID},
		{"email", req.Email},
	}
	for _, r := range required {
		if r.value == "" {
			return nil, fmt.Errorf("order finish: %s is required", r.field)
		}
	}

	payload := orderFinishPayload{
		OrderID:             req.OrderID,
		ItemID:              req.ItemID,
		PartnerOrderID:      req.PartnerOrderID,
		PaymentType:         req.PaymentType,
		PaymentAmount:       req.PaymentAmount,
		PaymentCurrencyCode: req.PaymentCurrency,
		Guests:              []guestGroup{{Guests: req.Guests}},
		Email:               req.Email,
		Phone:               req.Phone,
		UserIP:              req.UserIP,
		Language:            req.Language,
	}

	var res OrderFinishResult
	if err := c.call(ctx, epOrderFinish, payload, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// OrderFinishMultiroom submits all rooms of a trip in one finish call.
// Same hard rule as OrderFinish: never retried.
func (c *Client) OrderFinishMultiroom(ctx context.Context, req MultiroomOrderFinishRequest) (*MultiroomOrderFinishResult, error) {
	if req.PartnerOrderID == "" {
		return nil, fmt.Errorf("order finish: partner_order_id is required")
	}
	if req.Email == "" {
		return nil, fmt.Errorf("order finish: email is required")
	}
	if len(req.Rooms) == 0 {
		return nil, fmt.Errorf("order finish: at least one room is required")
	}
	for i, room := range req.Rooms {
		if room.OrderID == "" {
			return nil, fmt.Errorf("order finish: room %d: order_id is required", i)
		}
		if room.ItemID == "" {
			return nil, fmt.Errorf("order finish: room %d: item_id is required", i)
		}
	}

	payload := multiroomOrderFinishPayload{
		Rooms:               req.Rooms,
		PaymentType:         req.PaymentType,
		PaymentAmount:       req.PaymentAmount,
		PaymentCurrencyCode: req.PaymentCurrency,
		Email:               req.Email,
		Phone:               req.Phone,
		PartnerOrderID:      req.PartnerOrderID,
		Language:            req.Language,
		UpsellData:          []any{},
	}

	var res MultiroomOrderFinishResult
	if err := c.call(ctx, epOrderFinishMultiroom, payload, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
