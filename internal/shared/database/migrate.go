package database

import (
	"staybook/internal/bookings"
	"staybook/internal/cancellation"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&bookings.Booking{},
		&bookings.RoomBooking{},
		&bookings.BookingGuest{},
		&cancellation.Cancellation{},
	)
}
