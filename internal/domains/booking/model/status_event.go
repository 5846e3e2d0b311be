package model

import "time"

const (
	StatusEventTableName  = "booking_status_events"
	StatusEventEntityName = "booking_status_event"

	FieldStatusEventBookingID = "booking_id"
)

// StatusEvent records one status transition of a booking.
type StatusEvent struct {
	ID         string    `db:"id"`
	BookingID  string    `db:"booking_id"`
	FromStatus string    `db:"from_status"`
	ToStatus   string    `db:"to_status"`
	CreatedAt  time.Time `db:"created_at"`
	CreatedBy  string    `db:"created_by"`
}
