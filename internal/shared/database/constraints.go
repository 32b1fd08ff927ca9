package database

import (
	"gorm.io/gorm"
)

// MigrateConstraints adds critical database constraints for idempotency
func MigrateConstraints(db *gorm.DB) error {
	// One booking attempt per partner order id; the supplier enforces the
	// same rule on its side.
	err := db.Exec(`
		ALTER TABLE bookings
		ADD CONSTRAINT IF NOT EXISTS unique_partner_order_id
		UNIQUE (partner_order_id);
	`).Error
	if err != nil {
		return err
	}

	// Index for recovery lookups by supplier order id
	err = db.Exec(`
		CREATE INDEX CONCURRENTLY IF NOT EXISTS idx_bookings_order_id
		ON bookings (order_id);
	`).Error
	if err != nil {
		return err
	}

	// Index for the background poller updating room lines
	err = db.Exec(`
		CREATE INDEX CONCURRENTLY IF NOT EXISTS idx_room_bookings_booking_order
		ON room_bookings (booking_id, order_id);
	`).Error
	if err != nil {
		return err
	}

	return nil
}
