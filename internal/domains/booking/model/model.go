package model

import (
	"jumuia/shared/model"
	"time"

	"github.com/shopspring/decimal"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID              = "id"
	FieldBookingID       = "booking_id"
	FieldGuestFirstName  = "guest_first_name"
	FieldGuestLastName   = "guest_last_name"
	FieldGuestEmail      = "guest_email"
	FieldGuestPhone      = "guest_phone"
	FieldProperty        = "property"
	FieldRoomType        = "room_type"
	FieldPackageType     = "package_type"
	FieldAdults          = "adults"
	FieldChildren        = "children"
	FieldCheckIn         = "check_in"
	FieldCheckOut        = "check_out"
	FieldNights          = "nights"
	FieldTotalAmount     = "total_amount"
	FieldStatus          = "status"
	FieldPaymentStatus   = "payment_status"
	FieldPaymentMethod   = "payment_method"
	FieldSpecialRequests = "special_requests"
	FieldCheckedInAt     = "checked_in_at"
	FieldCheckedOutAt    = "checked_out_at"
	FieldCreatedAt       = "created_at"
)

const (
	SourceWeb   = "web"
	SourceAdmin = "admin"

	CurrencyKES = "KES"
)

// Cache key prefixes of every cached projection derived from bookings.
const (
	CacheKeyGet   = "booking:get"
	CacheKeyGets  = "booking:gets"
	CacheKeyCount = "booking:count"
	CacheKeyStats = "booking:stats"
)

type Booking struct {
	ID              string          `db:"id"`
	BookingID       string          `db:"booking_id"`
	GuestFirstName  string          `db:"guest_first_name"`
	GuestLastName   string          `db:"guest_last_name"`
	GuestEmail      string          `db:"guest_email"`
	GuestPhone      string          `db:"guest_phone"`
	Property        string          `db:"property"`
	RoomType        string          `db:"room_type"`
	PackageType     string          `db:"package_type"`
	Adults          int             `db:"adults"`
	Children        int             `db:"children"`
	CheckIn         time.Time       `db:"check_in"`
	CheckOut        time.Time       `db:"check_out"`
	Nights          int             `db:"nights"`
	TotalAmount     decimal.Decimal `db:"total_amount"`
	Currency        string          `db:"currency"`
	Status          string          `db:"status"`
	PaymentStatus   string          `db:"payment_status"`
	PaymentMethod   string          `db:"payment_method"`
	SpecialRequests string          `db:"special_requests"`
	Source          string          `db:"source"`
	CheckedInAt     *time.Time      `db:"checked_in_at"`
	CheckedOutAt    *time.Time      `db:"checked_out_at"`
	model.Metadata
}

func (b Booking) GuestName() string {
	if b.GuestLastName == "" {
		return b.GuestFirstName
	}

	return b.GuestFirstName + " " + b.GuestLastName
}

// Nights counts started 24h periods between check-in and check-out.
func Nights(checkIn, checkOut time.Time) int {
	diff := checkOut.Sub(checkIn)
	if diff <= 0 {
		return 0
	}

	nights := int(diff / (24 * time.Hour))
	if diff%(24*time.Hour) != 0 {
		nights++
	}

	return nights
}
