package service

import (
	"context"
	"errors"
	"fmt"
	"jumuia/config"
	"jumuia/infras/emailjs"
	"jumuia/infras/mailer"
	"jumuia/infras/metrics"
	"jumuia/infras/otel"
	"jumuia/internal/domains/notification/model"
	propertyModel "jumuia/internal/domains/property/model"
	"jumuia/shared/constant"
	"slices"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const maxConcurrentSends = 4

var errNoRecipients = errors.New("no recipients for booking event")

type notifierImpl struct {
	cfg       *config.Config
	emailjs   emailjs.Client
	mailer    mailer.Mailer
	templates *emailTemplates
	otel      otel.Otel
}

func NewNotifier(cfg *config.Config, emailjs emailjs.Client, mailer mailer.Mailer, otel otel.Otel) Notifier {
	return &notifierImpl{
		cfg:       cfg,
		emailjs:   emailjs,
		mailer:    mailer,
		templates: mustParseTemplates(),
		otel:      otel,
	}
}

// Deliver implements Notifier. Each recipient gets its own message, sent through EmailJS
// first and SMTP when EmailJS fails.
func (n *notifierImpl) Deliver(ctx context.Context, event model.Event) (err error) {
	ctx, scope := n.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".Deliver")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if !event.Emailed() {
		return nil
	}

	recipients := n.recipients(event)
	if len(recipients) == 0 {
		log.Warn().Str("event", event.Type).Str("booking_id", event.Booking.BookingID).Msg("booking event has no recipients")

		return errNoRecipients
	}

	var group errgroup.Group
	group.SetLimit(maxConcurrentSends)

	for _, recipient := range recipients {
		group.Go(func() error {
			return n.send(ctx, event, recipient)
		})
	}

	return group.Wait() //nolint:wrapcheck
}

// recipients lists the property inbox, the guest and the optional admin copy, without duplicates.
func (n *notifierImpl) recipients(event model.Event) []string {
	candidates := []string{n.inbox(event.Booking.Property), event.Booking.GuestEmail, n.cfg.Notification.AdminCopy}

	recipients := make([]string, 0, len(candidates))

	for _, candidate := range candidates {
		address := strings.ToLower(strings.TrimSpace(candidate))
		if address == constant.Empty || slices.Contains(recipients, address) {
			continue
		}

		recipients = append(recipients, address)
	}

	return recipients
}

func (n *notifierImpl) inbox(property string) string {
	switch property {
	case propertyModel.Limuru:
		return n.cfg.Notification.Inbox.Limuru
	case propertyModel.Kanamai:
		return n.cfg.Notification.Inbox.Kanamai
	case propertyModel.Kisumu:
		return n.cfg.Notification.Inbox.Kisumu
	default:
		return constant.Empty
	}
}

func (n *notifierImpl) send(ctx context.Context, event model.Event, recipient string) error {
	err := n.emailjs.Send(ctx, n.templateID(event.Type), n.params(event, recipient))
	metrics.ObserveNotification(model.ChannelEmailJS, err)

	if err == nil {
		log.Info().Str("event", event.Type).Str("booking_id", event.Booking.BookingID).Str("to", recipient).Msg("notification sent")

		return nil
	}

	log.Warn().Err(err).Str("event", event.Type).Str("to", recipient).Msg("emailjs failed, falling back to smtp")

	subject, body, renderErr := n.templates.Render(event, recipient)
	if renderErr != nil {
		return fmt.Errorf("failed to render %s email: %w", event.Type, renderErr)
	}

	smtpErr := n.mailer.Send(ctx, []string{recipient}, subject, body)
	metrics.ObserveNotification(model.ChannelSMTP, smtpErr)

	if smtpErr != nil {
		log.Error().Err(smtpErr).Str("event", event.Type).Str("to", recipient).Msg("failed to send notification")

		return fmt.Errorf("failed to notify %s: %w", recipient, errors.Join(err, smtpErr))
	}

	log.Info().Str("event", event.Type).Str("booking_id", event.Booking.BookingID).Str("to", recipient).Msg("notification sent over smtp")

	return nil
}

func (n *notifierImpl) templateID(eventType string) string {
	templates := n.cfg.External.EmailJS.Templates

	switch eventType {
	case model.EventBookingCreated:
		return templates.BookingCreated
	case model.EventPaymentConfirmed:
		return templates.PaymentConfirmed
	case model.EventStatusChanged:
		return templates.StatusChanged
	default:
		return constant.Empty
	}
}

func (n *notifierImpl) params(event model.Event, recipient string) map[string]string {
	booking := event.Booking

	return map[string]string{
		"to_email":        recipient,
		"event_type":      event.Type,
		"guest_name":      booking.GuestName,
		"guest_email":     booking.GuestEmail,
		"guest_phone":     booking.GuestPhone,
		"booking_id":      booking.BookingID,
		"property_name":   booking.PropertyName,
		"room_type":       booking.RoomType,
		"package_type":    booking.PackageType,
		"check_in":        booking.CheckIn,
		"check_out":       booking.CheckOut,
		"nights":          strconv.Itoa(booking.Nights),
		"adults":          strconv.Itoa(booking.Adults),
		"children":        strconv.Itoa(booking.Children),
		"total_amount":    booking.TotalAmount,
		"currency":        booking.Currency,
		"status":          statusLabel(booking.Status),
		"previous_status": statusLabel(event.PreviousStatus),
		"payment_status":  paymentLabel(booking.PaymentStatus),
		"receipt_number":  event.ReceiptNumber,
	}
}
