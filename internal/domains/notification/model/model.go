// Package model describes the booking events that feed the live stream and guest emails.
package model

import "time"

const (
	EventBookingCreated   = "booking.created"
	EventPaymentConfirmed = "payment.confirmed"
	EventStatusChanged    = "booking.status_changed"
	// EventBookingUpdated is streamed to dashboards but never emailed.
	EventBookingUpdated = "booking.updated"
)

const (
	ChannelEmailJS = "emailjs"
	ChannelSMTP    = "smtp"
)

// Booking is the snapshot of a booking carried by an event.
type Booking struct {
	ID             string `json:"id"`
	BookingID      string `json:"booking_id"`
	GuestFirstName string `json:"guest_first_name"`
	GuestName      string `json:"guest_name"`
	GuestEmail     string `json:"guest_email"`
	GuestPhone     string `json:"guest_phone"`
	Property       string `json:"property"`
	PropertyName   string `json:"property_name"`
	RoomType       string `json:"room_type"`
	PackageType    string `json:"package_type"`
	Adults         int    `json:"adults"`
	Children       int    `json:"children"`
	CheckIn        string `json:"check_in"`
	CheckOut       string `json:"check_out"`
	Nights         int    `json:"nights"`
	TotalAmount    string `json:"total_amount"`
	Currency       string `json:"currency"`
	Status         string `json:"status"`
	PaymentStatus  string `json:"payment_status"`
}

type Event struct {
	ID             string    `json:"id"`
	Type           string    `json:"type"`
	Booking        Booking   `json:"booking"`
	PreviousStatus string    `json:"previous_status,omitempty"`
	ReceiptNumber  string    `json:"receipt_number,omitempty"`
	At             time.Time `json:"at"`
}

// Emailed reports whether the event produces guest and inbox emails.
func (e Event) Emailed() bool {
	switch e.Type {
	case EventBookingCreated, EventPaymentConfirmed, EventStatusChanged:
		return true
	default:
		return false
	}
}

// StreamMessage is the websocket payload for one event.
type StreamMessage struct {
	Type          string    `json:"type"`
	ID            string    `json:"id"`
	BookingID     string    `json:"booking_id"`
	Property      string    `json:"property"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"payment_status"`
	At            time.Time `json:"at"`
}

// StreamProperty lets the hub withhold the message from staff of other properties.
func (m StreamMessage) StreamProperty() string {
	return m.Property
}

func (e Event) Stream() StreamMessage {
	return StreamMessage{
		Type:          e.Type,
		ID:            e.Booking.ID,
		BookingID:     e.Booking.BookingID,
		Property:      e.Booking.Property,
		Status:        e.Booking.Status,
		PaymentStatus: e.Booking.PaymentStatus,
		At:            e.At,
	}
}
