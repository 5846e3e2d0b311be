package calendar

import (
	"jumuia/infras/otel"
	"jumuia/internal/domains/calendar/model/dto"
	"jumuia/internal/domains/calendar/service"
	"jumuia/shared/constant"
	"jumuia/transport/http/response"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Calendar
	otel    otel.Otel
}

func New(service service.Calendar, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/calendar", func(routerGroup chi.Router) {
		routerGroup.Get("/events", handler.GetEvents)
		routerGroup.Get("/stats", handler.GetStats)
	})
}

// GetEvents returns the calendar events of every booking overlapping the window.
// @Summary Calendar events
// @Description Each booking yields a stay event plus check-in and check-out markers.
// @Tags Calendar
// @Produce json
// @Param start query string true "Window start (YYYY-MM-DD)"
// @Param end query string true "Window end (YYYY-MM-DD)"
// @Param property query string false "limuru, kanamai, kisumu or all"
// @Success 200 {object} response.Data[[]dto.Event]
// @Failure 400 {object} response.Error
// @Router /v1/calendar/events [get]
// @Security BearerAuth
func (handler *Handler) GetEvents(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetEvents")
	defer scope.End()

	req := dto.EventsRequest{}
	req.FromRequest(r)

	events, err := handler.service.Events(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get calendar events")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, events)
}

// GetStats returns today's arrivals, departures and occupancy.
// @Summary Calendar stats
// @Tags Calendar
// @Produce json
// @Param property query string false "limuru, kanamai, kisumu or all"
// @Success 200 {object} response.Data[dto.Stats]
// @Failure 400 {object} response.Error
// @Router /v1/calendar/stats [get]
// @Security BearerAuth
func (handler *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetStats")
	defer scope.End()

	property := strings.ToLower(strings.TrimSpace(r.URL.Query().Get(dto.QueryProperty)))

	stats, err := handler.service.Stats(ctx, property)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get calendar stats")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, stats)
}
