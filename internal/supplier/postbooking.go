package supplier

import (
	"context"
	"errors"
	"log/slog"
)

// Post-booking operations: plain request/response calls with no retry or
// state machine. In sandbox mode Cancel and Documents short-circuit locally
// so demo bookings never reach the live supplier.

// CancelOrder requests cancellation of a supplier-side order.
func (c *Client) CancelOrder(ctx context.Context, orderID string) (Status, error) {
	if orderID == "" {
		return "", errors.New("cancel order: order_id is required")
	}
	if c.sandbox {
		c.log.Info("sandbox mode: cancel short-circuited", slog.String("order_id", orderID))
		return StatusCancelled, nil
	}

	var data orderStatusData
	if err := c.call(ctx, epOrderCancel, orderRef{OrderID: orderID}, &data); err != nil {
		return "", err
	}
	if data.Status == "" {
		data.Status = StatusCancelled
	}
	return data.Status, nil
}

// OrderDocumentsList fetches the voucher and invoice download links for an
// order.
func (c *Client) OrderDocumentsList(ctx context.Context, orderID string) (*OrderDocuments, error) {
	if orderID == "" {
		return nil, errors.New("order documents: order_id is required")
	}
	if c.sandbox {
		c.log.Info("sandbox mode: documents short-circuited", slog.String("order_id", orderID))
		return &OrderDocuments{OrderID: orderID}, nil
	}

	var docs OrderDocuments
	if err := c.call(ctx, epOrderDocuments, orderRef{OrderID: orderID}, &docs); err != nil {
		return nil, err
	}
	if docs.OrderID == "" {
		docs.OrderID = orderID
	}
	return &docs, nil
}

// ContractData reads the financial/contract snapshot for the B2B account.
func (c *Client) ContractData(ctx context.Context) (*ContractData, error) {
	var data ContractData
	if err := c.call(ctx, epContractData, struct{}{}, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// DestinationInfo looks up enrichment data for a destination. The
// destinations feature fronts this call with a cache.
func (c *Client) DestinationInfo(ctx context.Context, destinationID string) (*DestinationInfo, error) {
	if destinationID == "" {
		return nil, errors.New("destination info: id is required")
	}

	payload := struct {
		DestinationID string `json:"destination_id"`
	}{DestinationID: destinationID}

	var info DestinationInfo
	if err := c.call(ctx, epDestinationInfo, payload, &info); err != nil {
		return nil, err
	}
	return &info, nil
}
