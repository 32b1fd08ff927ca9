package bookings

import "staybook/internal/supplier"

type Status string

const (
	// StatusPending: prebooked, order form not yet submitted or not finished.
	StatusPending Status = "PENDING"
	// StatusProcessing: finish accepted, supplier confirmation in flight.
	StatusProcessing Status = "PROCESSING"
	StatusConfirmed  Status = "CONFIRMED"
	StatusFailed     Status = "FAILED"
	StatusCancelled  Status = "CANCELLED"
	// StatusUnknown: polling exhausted without a terminal answer.
	StatusUnknown Status = "UNKNOWN"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusConfirmed, StatusFailed, StatusCancelled, StatusUnknown:
		return true
	}
	return false
}

func (s Status) String() string {
	return string(s)
}

func (s Status) IsTerminal() bool {
	switch s {
	case StatusConfirmed, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

func (s Status) CanBeCancelled() bool {
	return s == StatusConfirmed || s == StatusProcessing
}

// FromSupplierStatus maps a supplier lifecycle status onto the local one.
func FromSupplierStatus(s supplier.Status) Status {
	switch s {
	case supplier.StatusConfirmed:
		return StatusConfirmed
	case supplier.StatusFailed:
		return StatusFailed
	case supplier.StatusCancelled:
		return StatusCancelled
	case supplier.StatusProcessing:
		return StatusProcessing
	}
	return StatusUnknown
}
