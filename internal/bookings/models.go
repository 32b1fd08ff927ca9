package bookings

import (
	"time"

	"github.com/google/uuid"
)

// Booking defines the main booking structure. PartnerOrderID is the
// idempotency key shared with the supplier: one booking attempt, one key.
type Booking struct {
	ID             uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	PartnerOrderID string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"partner_order_id"`
	OrderID        string    `gorm:"type:varchar(64);index" json:"order_id,omitempty"`
	ItemID         string    `gorm:"type:varchar(64)" json:"item_id,omitempty"`
	BookHash       string    `gorm:"type:varchar(255);not null" json:"book_hash"`
	Status         Status    `gorm:"type:varchar(20);default:'PENDING'" json:"status"`
	Multiroom      bool      `gorm:"default:false" json:"multiroom"`
	// Recovered marks bookings whose order was resolved from an earlier
	// duplicate form rather than a fresh create.
	Recovered bool `gorm:"default:false" json:"recovered"`

	Amount      float64 `gorm:"not null" json:"amount"`
	Currency    string  `gorm:"type:varchar(3);default:'USD'" json:"currency"`
	PaymentType string  `gorm:"type:varchar(30)" json:"payment_type,omitempty"`

	Email string `gorm:"type:varchar(255)" json:"email,omitempty"`
	Phone string `gorm:"type:varchar(30)" json:"phone,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	FinishedAt  *time.Time `json:"finished_at,omitempty"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`

	// Relationships
	Rooms  []RoomBooking  `json:"rooms,omitempty" gorm:"foreignKey:BookingID;constraint:OnDelete:CASCADE;"`
	Guests []BookingGuest `json:"guests,omitempty" gorm:"foreignKey:BookingID;constraint:OnDelete:CASCADE;"`
}

// RoomBooking is one room line of a booking. Single-room bookings carry
// exactly one row.
type RoomBooking struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	BookingID uuid.UUID `gorm:"type:uuid;index;not null" json:"booking_id"`
	BookHash  string    `gorm:"type:varchar(255);not null" json:"book_hash"`
	OrderID   string    `gorm:"type:varchar(64);index" json:"order_id,omitempty"`
	ItemID    string    `gorm:"type:varchar(64)" json:"item_id,omitempty"`
	Status    Status    `gorm:"type:varchar(20);default:'PENDING'" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BookingGuest is a traveller attached to a booking.
type BookingGuest struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	BookingID uuid.UUID `gorm:"type:uuid;index;not null" json:"booking_id"`
	RoomIndex int       `gorm:"default:0" json:"room_index"`
	FirstName string    `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName  string    `gorm:"type:varchar(100);not null" json:"last_name"`
	IsChild   bool      `gorm:"default:false" json:"is_child"`
	Age       int       `json:"age,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName sets the table name for Booking
func (Booking) TableName() string {
	return "bookings"
}

// TableName sets the table name for RoomBooking
func (RoomBooking) TableName() string {
	return "room_bookings"
}

// TableName sets the table name for BookingGuest
func (BookingGuest) TableName() string {
	return "booking_guests"
}

// Helper methods for booking management
func (b *Booking) IsConfirmed() bool {
	return b.Status == StatusConfirmed
}

func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelled
}

func (b *Booking) Cancel() {
	b.Status = StatusCancelled
	now := time.Now()
	b.CancelledAt = &now
	b.UpdatedAt = now
}

func (b *Booking) MarkFinished() {
	b.Status = StatusProcessing
	now := time.Now()
	b.FinishedAt = &now
	b.UpdatedAt = now
}
