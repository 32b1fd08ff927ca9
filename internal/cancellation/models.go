package cancellation

import (
	"time"

	"github.com/google/uuid"
)

// Cancellation records one cancellation request against a booking.
type Cancellation struct {
	ID             uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	BookingID      uuid.UUID `gorm:"type:uuid;index;not null" json:"booking_id"`
	PartnerOrderID string    `gorm:"type:varchar(64);index;not null" json:"partner_order_id"`
	OrderID        string    `gorm:"type:varchar(64)" json:"order_id,omitempty"`
	Reason         string    `gorm:"type:varchar(500)" json:"reason,omitempty"`
	SupplierStatus string    `gorm:"type:varchar(20)" json:"supplier_status"`
	CreatedAt      time.Time `json:"created_at"`
}

// TableName sets the table name for Cancellation
func (Cancellation) TableName() string {
	return "cancellations"
}

// CancellationRequest represents a request to cancel a booking
type CancellationRequest struct {
	Reason string `json:"reason,omitempty" binding:"omitempty,max=500"`
}

// CancellationResponse acknowledges a processed cancellation
type CancellationResponse struct {
	CancellationID string    `json:"cancellation_id"`
	BookingID      string    `json:"booking_id"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}

// DocumentsResponse lists document downloads for a booking's order
type DocumentsResponse struct {
	BookingID  string   `json:"booking_id"`
	OrderID    string   `json:"order_id"`
	VoucherURL string   `json:"voucher_url,omitempty"`
	InvoiceURL string   `json:"invoice_url,omitempty"`
	Extra      []string `json:"extra,omitempty"`
}
