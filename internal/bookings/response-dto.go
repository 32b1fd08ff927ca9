package bookings

import (
	"time"

	"staybook/internal/supplier"
)

type PrebookResponse struct {
	BookHash     string  `json:"book_hash"`
	Price        float64 `json:"price"`
	CurrencyCode string  `json:"currency_code"`
	PriceChanged bool    `json:"price_changed"`
}

type MultiroomPrebookResponse struct {
	TotalRooms      int               `json:"total_rooms"`
	SuccessfulRooms int               `json:"successful_rooms"`
	FailedRooms     int               `json:"failed_rooms"`
	Rooms           []PrebookResponse `json:"rooms,omitempty"`
}

// CreateBookingResponse returns the order references plus everything the
// client needs to render the guest/payment form. A Recovered booking carries
// no form data; the client must reuse what it already collected.
type CreateBookingResponse struct {
	BookingID      string                 `json:"booking_id"`
	PartnerOrderID string                 `json:"partner_order_id"`
	OrderID        string                 `json:"order_id,omitempty"`
	ItemID         string                 `json:"item_id,omitempty"`
	Status         string                 `json:"status"`
	Recovered      bool                   `json:"recovered"`
	RequiredFields []string               `json:"required_fields,omitempty"`
	PaymentTypes   []supplier.PaymentType `json:"payment_types,omitempty"`
	FinalPrice     float64                `json:"final_price"`
	Currency       string                 `json:"currency,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
}

type FinishBookingResponse struct {
	BookingID      string `json:"booking_id"`
	PartnerOrderID string `json:"partner_order_id"`
	OrderID        string `json:"order_id,omitempty"`
	Status         string `json:"status"`
}

type BookingResponse struct {
	BookingID      string                `json:"booking_id"`
	PartnerOrderID string                `json:"partner_order_id"`
	OrderID        string                `json:"order_id,omitempty"`
	Status         string                `json:"status"`
	Multiroom      bool                  `json:"multiroom"`
	Recovered      bool                  `json:"recovered"`
	Amount         float64               `json:"amount"`
	Currency       string                `json:"currency"`
	Email          string                `json:"email,omitempty"`
	Rooms          []RoomBookingResponse `json:"rooms,omitempty"`
	CreatedAt      time.Time             `json:"created_at"`
	FinishedAt     *time.Time            `json:"finished_at,omitempty"`
	CancelledAt    *time.Time            `json:"cancelled_at,omitempty"`
}

type RoomBookingResponse struct {
	OrderID string `json:"order_id,omitempty"`
	ItemID  string `json:"item_id,omitempty"`
	Status  string `json:"status"`
}

type BookingListResponse struct {
	Bookings   []BookingResponse `json:"bookings"`
	TotalCount int64             `json:"total_count"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
}

func toBookingResponse(b *Booking) BookingResponse {
	res := BookingResponse{
		BookingID:      b.ID.String(),
		PartnerOrderID: b.PartnerOrderID,
		OrderID:        b.OrderID,
		Status:         b.Status.String(),
		Multiroom:      b.Multiroom,
		Recovered:      b.Recovered,
		Amount:         b.Amount,
		Currency:       b.Currency,
		Email:          b.Email,
		CreatedAt:      b.CreatedAt,
		FinishedAt:     b.FinishedAt,
		CancelledAt:    b.CancelledAt,
	}
	for _, room := range b.Rooms {
		res.Rooms = append(res.Rooms, RoomBookingResponse{
			OrderID: room.OrderID,
			ItemID:  room.ItemID,
			Status:  room.Status.String(),
		})
	}
	return res
}
