package dto

import (
	bookingModel "jumuia/internal/domains/booking/model"
	"jumuia/internal/domains/calendar/model"
	propertyModel "jumuia/internal/domains/property/model"
	"jumuia/shared/constant"
	"jumuia/shared/failure"
	"net/http"
	"strings"
	"time"
)

const (
	QueryStart    = "start"
	QueryEnd      = "end"
	QueryProperty = "property"
)

type EventsRequest struct {
	Start    string
	End      string
	Property string
}

func (e *EventsRequest) FromRequest(r *http.Request) {
	query := r.URL.Query()

	e.Start = dateOnly(query.Get(QueryStart))
	e.End = dateOnly(query.Get(QueryEnd))
	e.Property = strings.ToLower(strings.TrimSpace(query.Get(QueryProperty)))
}

// Validate checks the window and property. The property may be empty or all.
func (e *EventsRequest) Validate() error {
	start, err := time.Parse(constant.DateOnly, e.Start)
	if err != nil {
		return failure.BadRequestFromString("start must be a date (YYYY-MM-DD)") //nolint:wrapcheck
	}

	end, err := time.Parse(constant.DateOnly, e.End)
	if err != nil {
		return failure.BadRequestFromString("end must be a date (YYYY-MM-DD)") //nolint:wrapcheck
	}

	if end.Before(start) {
		return failure.BadRequestFromString("end must not be before start") //nolint:wrapcheck
	}

	return ValidateProperty(e.Property)
}

func ValidateProperty(property string) error {
	if property == constant.Empty || property == propertyModel.All || propertyModel.Valid(property) {
		return nil
	}

	return failure.BadRequestFromString("unknown property " + property) //nolint:wrapcheck
}

// dateOnly accepts plain dates and the ISO timestamps calendar widgets send.
func dateOnly(value string) string {
	value = strings.TrimSpace(value)
	if len(value) > len(constant.DateOnly) {
		return value[:len(constant.DateOnly)]
	}

	return value
}

type ExtendedProps struct {
	ID            string `json:"id"`
	BookingID     string `json:"booking_id"`
	Guest         string `json:"guest"`
	Property      string `json:"property"`
	RoomType      string `json:"room_type"`
	Status        string `json:"status"`
	PaymentStatus string `json:"payment_status"`
	Marker        string `json:"marker,omitempty"`
}

type Event struct {
	ID              string        `json:"id"`
	Title           string        `json:"title"`
	Start           string        `json:"start"`
	End             string        `json:"end"`
	AllDay          bool          `json:"allDay"`
	Display         string        `json:"display"`
	BackgroundColor string        `json:"backgroundColor"`
	BorderColor     string        `json:"borderColor"`
	ExtendedProps   ExtendedProps `json:"extendedProps"`
}

// FromBooking projects one booking into its stay event plus check-in and check-out markers.
func FromBooking(booking bookingModel.Booking) []Event {
	props := ExtendedProps{
		ID:            booking.ID,
		BookingID:     booking.BookingID,
		Guest:         booking.GuestName(),
		Property:      booking.Property,
		RoomType:      booking.RoomType,
		Status:        booking.Status,
		PaymentStatus: booking.PaymentStatus,
	}

	checkIn := booking.CheckIn.Format(constant.DateOnly)
	checkOut := booking.CheckOut.Format(constant.DateOnly)

	stay := Event{
		ID:              booking.ID,
		Title:           strings.TrimSpace(booking.GuestName() + " - " + booking.RoomType),
		Start:           checkIn,
		End:             checkOut,
		AllDay:          true,
		Display:         model.DisplayBlock,
		BackgroundColor: bookingModel.StatusColor(booking.Status),
		BorderColor:     propertyModel.BorderColor(booking.Property),
		ExtendedProps:   props,
	}

	return []Event{
		stay,
		marker(booking, props, model.MarkerCheckIn, booking.CheckIn, model.MarkerCheckInColor),
		marker(booking, props, model.MarkerCheckOut, booking.CheckOut, model.MarkerCheckOutColor),
	}
}

func marker(booking bookingModel.Booking, props ExtendedProps, kind string, day time.Time, color string) Event {
	props.Marker = kind

	title := "Check-in: "
	if kind == model.MarkerCheckOut {
		title = "Check-out: "
	}

	return Event{
		ID:              booking.ID + "-" + kind,
		Title:           title + booking.GuestName(),
		Start:           day.Format(constant.DateOnly),
		End:             day.AddDate(0, 0, 1).Format(constant.DateOnly),
		AllDay:          true,
		Display:         model.DisplayBackground,
		BackgroundColor: color,
		BorderColor:     propertyModel.BorderColor(booking.Property),
		ExtendedProps:   props,
	}
}

type Stats struct {
	Property       string         `json:"property"`
	Total          int            `json:"total"`
	ByStatus       map[string]int `json:"by_status"`
	ByProperty     map[string]int `json:"by_property"`
	TodayCheckIns  int            `json:"today_check_ins"`
	TodayCheckOuts int            `json:"today_check_outs"`
	Occupied       int            `json:"occupied"`
	Capacity       int            `json:"capacity"`
	OccupancyRate  float64        `json:"occupancy_rate"`
	GeneratedAt    string         `json:"generated_at"`
}

// Fill derives totals and occupancy from the grouped counts. Every known status and property
// is present in the maps, zero when absent.
func (s *Stats) Fill(property string, byStatus, byProperty map[string]int) {
	s.Property = property
	s.ByStatus = make(map[string]int, len(bookingModel.Statuses()))
	s.ByProperty = make(map[string]int, len(propertyModel.Codes()))
	s.Total = 0

	for _, status := range bookingModel.Statuses() {
		s.ByStatus[status] = byStatus[status]
		s.Total += byStatus[status]
	}

	for _, code := range propertyModel.Codes() {
		s.ByProperty[code] = byProperty[code]
	}

	s.Occupied = byStatus[bookingModel.StatusConfirmed] + byStatus[bookingModel.StatusCheckedIn]
	s.Capacity = propertyModel.Capacity(property)
	s.OccupancyRate = model.OccupancyRate(s.Occupied, s.Capacity)
}
