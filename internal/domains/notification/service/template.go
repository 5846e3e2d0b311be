package service

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	bookingModel "jumuia/internal/domains/booking/model"
	"jumuia/internal/domains/notification/model"
	"jumuia/shared/constant"
	"jumuia/shared/timezone"
)

//go:embed templates/*.html
var templateFS embed.FS

var subjects = map[string]string{
	model.EventBookingCreated:   "Booking received: %s",
	model.EventPaymentConfirmed: "Payment confirmed: %s",
	model.EventStatusChanged:    "Booking %s updated",
}

var templateFiles = map[string]string{
	model.EventBookingCreated:   "booking_created.html",
	model.EventPaymentConfirmed: "payment_confirmed.html",
	model.EventStatusChanged:    "status_changed.html",
}

type emailData struct {
	Event          model.Event
	Booking        model.Booking
	Recipient      string
	Status         string
	PreviousStatus string
	PaymentStatus  string
	Year           int
}

type emailTemplates struct {
	templates map[string]*template.Template
}

func mustParseTemplates() *emailTemplates {
	parsed := make(map[string]*template.Template, len(templateFiles))

	for eventType, file := range templateFiles {
		parsed[eventType] = template.Must(template.ParseFS(templateFS, "templates/layout.html", "templates/"+file))
	}

	return &emailTemplates{templates: parsed}
}

// Render returns the subject and HTML body of the email for event.
func (t *emailTemplates) Render(event model.Event, recipient string) (string, string, error) {
	tmpl, ok := t.templates[event.Type]
	if !ok {
		return constant.Empty, constant.Empty, fmt.Errorf("no email template for %s", event.Type)
	}

	data := emailData{
		Event:          event,
		Booking:        event.Booking,
		Recipient:      recipient,
		Status:         statusLabel(event.Booking.Status),
		PreviousStatus: statusLabel(event.PreviousStatus),
		PaymentStatus:  paymentLabel(event.Booking.PaymentStatus),
		Year:           timezone.Now().Year(),
	}

	var body bytes.Buffer
	if err := tmpl.ExecuteTemplate(&body, "layout", data); err != nil {
		return constant.Empty, constant.Empty, fmt.Errorf("failed to execute email template: %w", err)
	}

	return fmt.Sprintf(subjects[event.Type], event.Booking.BookingID), body.String(), nil
}

func statusLabel(status string) string {
	if status == constant.Empty {
		return constant.Empty
	}

	return bookingModel.StatusBadge(status).Label
}

func paymentLabel(status string) string {
	if status == constant.Empty {
		return constant.Empty
	}

	return bookingModel.PaymentBadge(status).Label
}
