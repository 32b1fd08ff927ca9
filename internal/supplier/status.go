package supplier

import (
	"context"
	"errors"
)

type orderRef struct {
	OrderID string `json:"order_id"`
}

type orderStatusData struct {
	Status Status `json:"status"`
}

// OrderStatus reads the current lifecycle status of one order.
func (c *Client) OrderStatus(ctx context.Context, orderID string) (Status, error) {
	if orderID == "" {
		return "", errors.New("order status: order_id is required")
	}

	var data orderStatusData
	if err := c.call(ctx, epOrderStatus, orderRef{OrderID: orderID}, &data); err != nil {
		return "", err
	}
	return data.Status, nil
}

// OrderInfo reads the full supplier-side view of an order.
func (c *Client) OrderInfo(ctx context.Context, orderID string) (*OrderInfo, error) {
	if orderID == "" {
		return nil, errors.New("order info: order_id is required")
	}

	var info OrderInfo
	if err := c.call(ctx, epOrderInfo, orderRef{OrderID: orderID}, &info); err != nil {
		return nil, err
	}
	return &info, nil
}
