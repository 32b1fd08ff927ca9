package bookings

type PrebookRequest struct {
	BookHash             string `json:"book_hash" binding:"required"`
	Residency            string `json:"residency,omitempty"`
	Currency             string `json:"currency,omitempty"`
	PriceIncreasePercent int    `json:"price_increase_percent,omitempty"`
}

type MultiroomPrebookRequest struct {
	Rooms    []PrebookRoomRequest `json:"rooms" binding:"required,min=1,dive"`
	Currency string               `json:"currency,omitempty"`
}

type PrebookRoomRequest struct {
	BookHash             string `json:"book_hash" binding:"required"`
	Residency            string `json:"residency,omitempty"`
	PriceIncreasePercent int    `json:"price_increase_percent,omitempty"`
}

// CreateBookingRequest opens a booking attempt: it runs prebook plus the
// order form and persists the resulting order references. Multiple book
// hashes make it a multiroom attempt.
type CreateBookingRequest struct {
	BookHashes []string `json:"book_hashes" binding:"required,min=1"`
	Residency  string   `json:"residency,omitempty"`
	Currency   string   `json:"currency,omitempty"`
	UserIP     string   `json:"user_ip,omitempty"`
}

// FinishBookingRequest submits guests and payment for a created booking.
type FinishBookingRequest struct {
	PaymentType string         `json:"payment_type" binding:"required"`
	Email       string         `json:"email" binding:"required,email"`
	Phone       string         `json:"phone,omitempty"`
	Rooms       []RoomGuestSet `json:"rooms" binding:"required,min=1,dive"`
	UserIP      string         `json:"user_ip,omitempty"`
}

// RoomGuestSet is the guest list for one room, ordered like the booking's
// rooms.
type RoomGuestSet struct {
	Guests []GuestRequest `json:"guests" binding:"required,min=1,dive"`
}

type GuestRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	IsChild   bool   `json:"is_child"`
	Age       int    `json:"age,omitempty"`
}

type BookingListQuery struct {
	Status   string `form:"status"`
	DateFrom string `form:"date_from"`
	DateTo   string `form:"date_to"`
	Page     int    `form:"page"`
	Limit    int    `form:"limit"`
}
