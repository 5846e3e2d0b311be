package model_test

import (
	"jumuia/internal/domains/booking/model"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(value string) time.Time {
	t, _ := time.Parse(time.DateOnly, value)

	return t
}

func TestNights(t *testing.T) {
	tests := []struct {
		name     string
		checkIn  time.Time
		checkOut time.Time
		want     int
	}{
		{name: "three nights", checkIn: date("2024-01-15"), checkOut: date("2024-01-18"), want: 3},
		{name: "single night", checkIn: date("2024-02-28"), checkOut: date("2024-02-29"), want: 1},
		{name: "partial day rounds up", checkIn: date("2024-01-15"), checkOut: date("2024-01-16").Add(2 * time.Hour), want: 2},
		{name: "same day", checkIn: date("2024-01-15"), checkOut: date("2024-01-15"), want: 0},
		{name: "reversed", checkIn: date("2024-01-18"), checkOut: date("2024-01-15"), want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, model.Nights(tt.checkIn, tt.checkOut))
		})
	}
}

func TestNewBookingCode(t *testing.T) {
	now := time.UnixMilli(1_705_312_345_678)

	web := model.NewBookingCode(model.SourceWeb, now)
	admin := model.NewBookingCode(model.SourceAdmin, now)

	assert.Regexp(t, model.CodePattern, web)
	assert.Regexp(t, model.CodePattern, admin)
	assert.Equal(t, "WEB-345678", web[:10])
	assert.Equal(t, "ADM-345678", admin[:10])

	seen := map[string]struct{}{}
	for i := range 50 {
		seen[model.NewBookingCode(model.SourceWeb, now.Add(time.Duration(i)*time.Millisecond))] = struct{}{}
	}

	assert.Len(t, seen, 50)
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to string
		want     bool
	}{
		{model.StatusPending, model.StatusConfirmed, true},
		{model.StatusConfirmed, model.StatusCheckedIn, true},
		{model.StatusCheckedIn, model.StatusCheckedOut, true},
		{model.StatusPending, model.StatusCancelled, true},
		{model.StatusConfirmed, model.StatusCancelled, true},
		{model.StatusCheckedIn, model.StatusCancelled, true},
		{model.StatusPending, model.StatusCheckedIn, false},
		{model.StatusCheckedOut, model.StatusCancelled, false},
		{model.StatusCancelled, model.StatusPending, false},
		{model.StatusConfirmed, model.StatusPending, false},
		{model.StatusPending, model.StatusPending, false},
	}

	for _, tt := range tests {
		t.Run(tt.from+"->"+tt.to, func(t *testing.T) {
			assert.Equal(t, tt.want, model.CanTransition(tt.from, tt.to))
		})
	}
}

func TestBadges(t *testing.T) {
	for _, status := range model.Statuses() {
		assert.NotEqual(t, "Unknown", model.StatusBadge(status).Label, status)
	}

	for _, status := range append(model.PaymentStatuses(), model.PaymentRefunded) {
		assert.NotEqual(t, "Unknown", model.PaymentBadge(status).Label, status)
	}

	assert.Equal(t, model.Badge{Label: "Checked In", Color: "primary"}, model.StatusBadge(model.StatusCheckedIn))
	assert.Equal(t, model.Badge{Label: "Refunded", Color: "secondary"}, model.PaymentBadge(model.PaymentRefunded))
	assert.Equal(t, model.Badge{Label: "Unknown", Color: "secondary"}, model.StatusBadge("archived"))
	assert.Equal(t, model.Badge{Label: "Unknown", Color: "secondary"}, model.PaymentBadge(""))
}

func TestGuestName(t *testing.T) {
	assert.Equal(t, "Jane Doe", model.Booking{GuestFirstName: "Jane", GuestLastName: "Doe"}.GuestName())
	assert.Equal(t, "Jane", model.Booking{GuestFirstName: "Jane"}.GuestName())
}
