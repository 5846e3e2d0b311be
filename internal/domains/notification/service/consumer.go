package service

import (
	"context"
	"fmt"
	"jumuia/config"
	"jumuia/infras/kafka"
	"jumuia/internal/domains/notification/model"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
)

// Consumer delivers queued booking events until its context is cancelled.
type Consumer interface {
	Run(ctx context.Context) error
}

type consumerImpl struct {
	cfg      *config.Config
	kafka    kafka.Client
	notifier Notifier
}

func NewConsumer(cfg *config.Config, kafka kafka.Client, notifier Notifier) Consumer {
	return &consumerImpl{
		cfg:      cfg,
		kafka:    kafka,
		notifier: notifier,
	}
}

func (c *consumerImpl) Run(ctx context.Context) error {
	log.Info().Str("topic", c.cfg.Kafka.Topic).Str("group", c.cfg.Kafka.ConsumerGroup).Msg("notification consumer started")

	if err := c.kafka.Consume(ctx, c.cfg.Kafka.ConsumerGroup, c.cfg.Kafka.Topic, c.handle); err != nil {
		return fmt.Errorf("notification consumer stopped: %w", err)
	}

	return nil
}

func (c *consumerImpl) handle(ctx context.Context, message kafkaGo.Message) error {
	event, err := kafka.Decode[model.Event](message)
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.notifier.Deliver(ctx, event)
}
