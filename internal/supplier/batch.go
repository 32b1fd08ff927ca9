package supplier

import (
	"context"
	"strconv"
)

// OrdersBatchQuery filters the supplier's order list. The recovery resolver
// uses it keyed by partner order id with page size 1.
type OrdersBatchQuery struct {
	PartnerOrderIDs []string
	PageSize        int
	PageNumber      int
}

type ordersBatchPayload struct {
	Search     batchSearch     `json:"search"`
	Pagination batchPagination `json:"pagination"`
	Ordering   batchOrdering   `json:"ordering"`
}

type batchSearch struct {
	PartnerOrderID []string `json:"partner_order_id,omitempty"`
}

// The supplier expects pagination values as strings.
type batchPagination struct {
	PageSize   string `json:"page_size"`
	PageNumber string `json:"page_number"`
}

type batchOrdering struct {
	By        string `json:"ordering_by"`
	Direction string `json:"ordering_type"`
}

// BatchOrder is one order row of a batch response. The optional fields
// mirror the supplier's state-dependent shapes; the recovery resolver owns
// the extraction logic.
type BatchOrder struct {
	OrderID      string        `json:"order_id"`
	ItemID       string        `json:"item_id,omitempty"`
	Status       Status        `json:"status,omitempty"`
	PaymentTypes []PaymentType `json:"payment_types,omitempty"`
	RoomsData    []BatchRoom   `json:"rooms_data,omitempty"`
	Rooms        []BatchRoom   `json:"rooms,omitempty"`
	PaymentData  *PaymentData  `json:"payment_data,omitempty"`
}

// BatchRoom is a room line inside a batch order row.
type BatchRoom struct {
	ItemID string `json:"item_id,omitempty"`
}

// PaymentData is the wrapped single payment type emitted for orders past
// the form stage.
type PaymentData struct {
	PaymentType string `json:"payment_type"`
}

// OrdersBatchResult is the page of orders matching a batch query.
type OrdersBatchResult struct {
	Orders      []BatchOrder `json:"orders"`
	TotalOrders int          `json:"total_orders"`
	FoundOrders int          `json:"found_orders"`
}

// OrdersBatch queries the supplier order list. Plain request/response, no
// retry policy of its own.
func (c *Client) OrdersBatch(ctx context.Context, q OrdersBatchQuery) (*OrdersBatchResult, error) {
	if q.PageSize <= 0 {
		q.PageSize = 10
	}
	if q.PageNumber <= 0 {
		q.PageNumber = 1
	}

	payload := ordersBatchPayload{
		Search: batchSearch{PartnerOrderID: q.PartnerOrderIDs},
		Pagination: batchPagination{
			PageSize:   strconv.Itoa(q.PageSize),
			PageNumber: strconv.Itoa(q.PageNumber),
		},
		Ordering: batchOrdering{By: "created_at", Direction: "desc"},
	}

	var res OrdersBatchResult
	if err := c.call(ctx, epOrdersList, payload, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
