package http

import (
	"context"
	"errors"
	"jumuia/config"
	"jumuia/infras/otel"
	"jumuia/infras/postgres"
	"jumuia/shared/constant"
	"jumuia/transport/http/middleware"
	"jumuia/transport/http/response"
	"jumuia/transport/http/router"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	goRedis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

type ServerState int32

const (
	ServerStateReady ServerState = iota + 1
	ServerStateInGracePeriod
	ServerStateInCleanupPeriod
)

const (
	healthCheckTimeout = 2 * time.Second
	readHeaderTimeout  = 10 * time.Second
)

type HTTP struct {
	Config *config.Config
	Router router.Router
	state  atomic.Int32
	app    middleware.AppMiddleware
	db     *postgres.Connection
	redis  *goRedis.Client
	otel   *otel.Provider
	mux    *chi.Mux
	server *http.Server
}

func New(
	cfg *config.Config,
	r router.Router,
	app middleware.AppMiddleware,
	db *postgres.Connection,
	redis *goRedis.Client,
	provider *otel.Provider,
) *HTTP {
	return &HTTP{
		Config: cfg,
		Router: r,
		app:    app,
		db:     db,
		redis:  redis,
		otel:   provider,
	}
}

func (h *HTTP) State() ServerState {
	return ServerState(h.state.Load())
}

// Serve blocks until the server has shut down after SIGINT or SIGTERM.
func (h *HTTP) Serve() {
	h.setup()

	h.server = &http.Server{
		Addr:              net.JoinHostPort(h.Config.Server.Host, h.Config.Server.Port),
		Handler:           h.mux,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	done := make(chan struct{})

	h.setupGracefulShutdown(done)

	log.Info().Str("port", h.Config.Server.Port).Msg("Starting up HTTP server.")

	if err := h.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("Failed to start HTTP server")
	}

	<-done
}

// Handler returns the fully wired router without starting a listener.
func (h *HTTP) Handler() http.Handler {
	h.setup()

	return h.mux
}

func (h *HTTP) setup() {
	if h.mux != nil {
		return
	}

	h.setupRoutes()
	h.state.Store(int32(ServerStateReady))
}

func (h *HTTP) setupRoutes() {
	h.mux = chi.NewRouter()

	h.mux.Use(chiMiddleware.RequestID, chiMiddleware.Recoverer)

	if cfg := h.Config.App.CORS; cfg.Enable {
		h.mux.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.AllowedOrigins,
			AllowedMethods:   cfg.AllowedMethods,
			AllowedHeaders:   cfg.AllowedHeaders,
			AllowCredentials: cfg.AllowCredentials,
			MaxAge:           cfg.MaxAgeSeconds,
		}))
	}

	h.mux.Use(h.app.Tracing, h.app.Metrics, h.app.RateLimit())

	h.mux.Get("/health", h.health)

	h.Router.SetupRoutes(h.mux)
}

// health fails while draining so the load balancer stops routing here before the listener closes.
func (h *HTTP) health(w http.ResponseWriter, r *http.Request) {
	if h.State() != ServerStateReady {
		response.WithPreparingShutdown(w)

		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		log.Error().Err(err).Msg("health check: postgres unreachable")
		response.WithUnhealthy(w)

		return
	}

	if h.redis == nil {
		response.WithUnhealthy(w)

		return
	}

	if err := h.redis.Ping(ctx).Err(); err != nil {
		log.Error().Err(err).Msg("health check: redis unreachable")
		response.WithUnhealthy(w)

		return
	}

	response.WithMessage(w, http.StatusOK, "OK")
}

func (h *HTTP) setupGracefulShutdown(done chan struct{}) {
	serverStateCh := make(chan os.Signal, 1)

	signal.Notify(serverStateCh, os.Interrupt, syscall.SIGTERM)

	go h.respondToSigterm(serverStateCh, done)
}

func (h *HTTP) respondToSigterm(signals chan os.Signal, done chan struct{}) {
	<-signals

	defer close(done)

	shutdownConfig := h.Config.Server.Shutdown

	if h.Config.Server.Env == constant.ServerEnvDevelopment {
		log.Warn().Msg("Received SIGTERM. Shutting down now.")
	} else {
		log.Info().Msg("Received SIGTERM.")
		log.Info().Int64("seconds", shutdownConfig.GracePeriodSeconds).Msg("Entering grace period.")

		h.state.Store(int32(ServerStateInGracePeriod))

		time.Sleep(time.Duration(shutdownConfig.GracePeriodSeconds) * time.Second)
	}

	log.Info().Int64("seconds", shutdownConfig.CleanupPeriodSeconds).Msg("Entering cleanup period.")

	h.state.Store(int32(ServerStateInCleanupPeriod))

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(shutdownConfig.CleanupPeriodSeconds)*time.Second)
	defer cancel()

	if err := h.server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to drain HTTP connections")
	}

	if err := h.otel.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to flush traces")
	}

	if err := h.db.Close(); err != nil {
		log.Error().Err(err).Msg("Failed to close database pools")
	}

	log.Info().Msg("Cleaning up completed. Shutting down now.")
}
