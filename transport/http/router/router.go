package router

import (
	_ "jumuia/docs" // swagger spec
	"jumuia/infras/metrics"
	"jumuia/internal/handlers/auth"
	"jumuia/internal/handlers/booking"
	"jumuia/internal/handlers/calendar"
	"jumuia/internal/handlers/offer"
	"jumuia/internal/handlers/payment"
	"jumuia/internal/handlers/user"
	"jumuia/transport/http/middleware"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger"
)

type DomainHandlers struct {
	Auth     auth.Handler
	Booking  booking.Handler
	Calendar calendar.Handler
	User     user.Handler
	Payment  payment.Handler
	Offer    offer.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
	authRole       middleware.AuthRole
	metrics        *metrics.Registry
}

// SetupRoutes mounts the versioned API behind auth and RBAC, plus the metrics and swagger endpoints.
func (r *Router) SetupRoutes(router chi.Router) {
	router.Handle("/metrics", r.metrics.Handler())
	router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	router.Route("/v1", func(routerGroup chi.Router) {
		routerGroup.Use(r.authRole.APIKey, r.authRole.Auth, r.authRole.RBAC)

		r.DomainHandlers.Auth.Router(routerGroup)
		r.DomainHandlers.Booking.Router(routerGroup)
		r.DomainHandlers.Calendar.Router(routerGroup)
		r.DomainHandlers.User.Router(routerGroup)
		r.DomainHandlers.Payment.Router(routerGroup)
		r.DomainHandlers.Offer.Router(routerGroup)
	})
}

func New(domainHandlers DomainHandlers, authRole middleware.AuthRole, registry *metrics.Registry) Router {
	return Router{
		DomainHandlers: domainHandlers,
		authRole:       authRole,
		metrics:        registry,
	}
}
