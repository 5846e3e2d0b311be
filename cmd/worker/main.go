package main

import (
	"context"
	"jumuia/config"
	"jumuia/di"
	"jumuia/shared/logger"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Get()

	logger.InitLogger(cfg)

	logger.SetLogLevel(cfg)

	if !cfg.Kafka.Enable {
		log.Fatal().Msg("Kafka is disabled, nothing to consume. Set KAFKA_ENABLE=true to run the worker.")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	consumer := di.InitializeWorker()

	if err := consumer.Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatal().Err(err).Msg("Notification worker stopped unexpectedly")
	}

	log.Info().Msg("Notification worker shut down.")
}
