package notifications

import (
	"encoding/json"
	"time"
)

// BookingEventType identifies a terminal booking transition.
type BookingEventType string

const (
	EventBookingConfirmed BookingEventType = "booking_confirmed"
	EventBookingFailed    BookingEventType = "booking_failed"
	EventBookingCancelled BookingEventType = "booking_cancelled"
)

// BookingEvent is the message published for every settled booking. Partition
// key is the partner order id, so all events of one booking attempt land on
// one partition in order.
type BookingEvent struct {
	Type           BookingEventType `json:"type"`
	BookingID      string           `json:"booking_id"`
	PartnerOrderID string           `json:"partner_order_id"`
	OrderID        string           `json:"order_id,omitempty"`
	Status         string           `json:"status"`
	Multiroom      bool             `json:"multiroom"`
	Recovered      bool             `json:"recovered"`
	Amount         float64          `json:"amount"`
	Currency       string           `json:"currency,omitempty"`
	Email          string           `json:"email,omitempty"`
	OccurredAt     time.Time        `json:"occurred_at"`
}

// ToJSON serializes the event for the wire.
func (e *BookingEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// GetPartitionKey returns the Kafka partition key for this event.
func (e *BookingEvent) GetPartitionKey() string {
	return e.PartnerOrderID
}
