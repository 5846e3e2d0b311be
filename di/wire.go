//go:build wireinject
// +build wireinject

package di

import (
	"jumuia/config"
	"jumuia/infras/daraja"
	"jumuia/infras/emailjs"
	"jumuia/infras/jwt"
	"jumuia/infras/kafka"
	"jumuia/infras/mailer"
	"jumuia/infras/metrics"
	"jumuia/infras/otel"
	"jumuia/infras/postgres"
	"jumuia/infras/redis"
	"jumuia/infras/s3"
	"jumuia/permissions"
	"jumuia/shared/cache"
	"jumuia/transport/http"
	"jumuia/transport/http/middleware"
	"jumuia/transport/http/router"
	"jumuia/transport/ws"

	"github.com/google/wire"

	authService "jumuia/internal/domains/auth/service"
	bookingRepository "jumuia/internal/domains/booking/repository"
	bookingService "jumuia/internal/domains/booking/service"
	calendarService "jumuia/internal/domains/calendar/service"
	notificationService "jumuia/internal/domains/notification/service"
	offerRepository "jumuia/internal/domains/offer/repository"
	offerService "jumuia/internal/domains/offer/service"
	paymentRepository "jumuia/internal/domains/payment/repository"
	paymentService "jumuia/internal/domains/payment/service"
	userRepository "jumuia/internal/domains/user/repository"
	userService "jumuia/internal/domains/user/service"
	authHandler "jumuia/internal/handlers/auth"
	bookingHandler "jumuia/internal/handlers/booking"
	calendarHandler "jumuia/internal/handlers/calendar"
	offerHandler "jumuia/internal/handlers/offer"
	paymentHandler "jumuia/internal/handlers/payment"
	userHandler "jumuia/internal/handlers/user"
)

var configurations = wire.NewSet(
	config.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	wire.Bind(new(otel.Otel), new(*otel.Provider)),
	redis.New,
	jwt.New,
	kafka.New,
	s3.New,
	daraja.New,
	emailjs.New,
	mailer.New,
	metrics.New,
)

var middlewares = wire.NewSet(
	permissions.Get,
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var notificationDomain = wire.NewSet(
	ws.NewHub,
	wire.Bind(new(notificationService.Broadcaster), new(*ws.Hub)),
	notificationService.NewNotifier,
	notificationService.NewPublisher,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	bookingRepository.NewStatusEvent,
	bookingService.New,
	calendarService.New,
)

var paymentDomain = wire.NewSet(
	paymentRepository.New,
	paymentService.New,
)

var userDomain = wire.NewSet(
	userRepository.New,
	userService.New,
	authService.New,
)

var offerDomain = wire.NewSet(
	offerRepository.New,
	offerService.New,
)

var domains = wire.NewSet(
	notificationDomain,
	bookingDomain,
	paymentDomain,
	userDomain,
	offerDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	authHandler.New,
	bookingHandler.New,
	calendarHandler.New,
	userHandler.New,
	paymentHandler.New,
	offerHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}

// InitializeWorker builds the Kafka consumer that delivers booking notifications.
func InitializeWorker() notificationService.Consumer {
	wire.Build(
		configurations,
		kafka.New,
		otel.New,
		wire.Bind(new(otel.Otel), new(*otel.Provider)),
		emailjs.New,
		mailer.New,
		notificationService.NewNotifier,
		notificationService.NewConsumer,
	)

	return nil
}
