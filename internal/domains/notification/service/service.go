package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"jumuia/config"
	"jumuia/infras/kafka"
	"jumuia/infras/metrics"
	"jumuia/infras/otel"
	"jumuia/internal/domains/notification/model"
	"jumuia/shared/constant"

	"github.com/rs/zerolog/log"
)

// Publisher hands booking events to the live stream and the email pipeline without blocking.
type Publisher interface {
	Publish(ctx context.Context, event model.Event)
}

// Broadcaster fans a message out to every connected dashboard.
type Broadcaster interface {
	Broadcast(message any)
}

// Notifier delivers the emails of one event.
type Notifier interface {
	Deliver(ctx context.Context, event model.Event) error
}

type publisherImpl struct {
	cfg      *config.Config
	kafka    kafka.Client
	notifier Notifier
	hub      Broadcaster
	otel     otel.Otel
}

func NewPublisher(cfg *config.Config, kafka kafka.Client, notifier Notifier, hub Broadcaster, otel otel.Otel) Publisher {
	return &publisherImpl{
		cfg:      cfg,
		kafka:    kafka,
		notifier: notifier,
		hub:      hub,
		otel:     otel,
	}
}

// Publish implements Publisher. Email delivery runs detached from the request; when kafka is
// enabled the event is queued for the worker instead.
func (p *publisherImpl) Publish(ctx context.Context, event model.Event) {
	metrics.ObserveBookingEvent(event.Type)

	p.hub.Broadcast(event.Stream())

	if !event.Emailed() {
		return
	}

	go func() {
		c, scope := p.otel.NewScope(context.WithoutCancel(ctx), constant.OtelEventScopeName, constant.OtelEventScopeName+".Publish")
		defer scope.End()

		scope.SetAttribute("event.type", event.Type)
		scope.SetAttribute("booking.id", event.Booking.BookingID)

		if err := p.dispatch(c, event); err != nil {
			scope.TraceError(err)
			log.Error().Err(err).Str("event", event.Type).Str("booking_id", event.Booking.BookingID).Msg("failed to dispatch booking event")
		}
	}()
}

func (p *publisherImpl) dispatch(ctx context.Context, event model.Event) error {
	if !p.cfg.Kafka.Enable {
		return p.notifier.Deliver(ctx, event)
	}

	err := p.kafka.SendMessages(ctx, p.cfg.Kafka.Topic, kafka.Message{Key: event.Booking.ID, Value: event})
	if err != nil {
		return fmt.Errorf("failed to queue booking event: %w", err)
	}

	return nil
}
