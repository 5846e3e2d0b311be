package booking

import (
	"jumuia/infras/otel"
	"jumuia/internal/domains/booking/model"
	"jumuia/internal/domains/booking/model/dto"
	"jumuia/internal/domains/booking/service"
	"jumuia/shared"
	"jumuia/shared/constant"
	gDto "jumuia/shared/dto"
	"jumuia/shared/validator"
	"jumuia/transport/http/response"
	"jumuia/transport/ws"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Booking
	hub     *ws.Hub
	otel    otel.Otel
}

func New(service service.Booking, hub *ws.Hub, otel otel.Otel) Handler {
	return Handler{
		service: service,
		hub:     hub,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/bookings", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateBooking)
		routerGroup.Post("/admin", handler.CreateAdminBooking)
		routerGroup.Get("/", handler.GetBookings)
		routerGroup.Get("/search", handler.SearchBookings)
		routerGroup.Get("/stream", handler.Stream)
		routerGroup.Get("/{id}", handler.GetBookingByID)
		routerGroup.Get("/{id}/history", handler.GetBookingHistory)
		routerGroup.Put("/{id}", handler.UpdateBooking)
		routerGroup.Patch("/{id}/status", handler.UpdateBookingStatus)
		routerGroup.Post("/{id}/confirm", handler.transition(model.StatusConfirmed))
		routerGroup.Post("/{id}/check-in", handler.transition(model.StatusCheckedIn))
		routerGroup.Post("/{id}/check-out", handler.transition(model.StatusCheckedOut))
		routerGroup.Post("/{id}/cancel", handler.transition(model.StatusCancelled))
		routerGroup.Post("/{id}/mark-paid", handler.MarkPaid)
	})
}

// CreateBooking handles a reservation submitted from the public website.
// @Summary Submit a booking
// @Description Create a pending booking from the guest reservation form. The property is required.
// @Tags Booking
// @Accept json
// @Produce json
// @Param request body dto.CreateBookingRequest true "Create Booking Request"
// @Success 201 {object} response.Data[dto.BookingResponse]
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings [post]
func (handler *Handler) CreateBooking(writer http.ResponseWriter, request *http.Request) {
	handler.create(writer, request, model.SourceWeb)
}

// CreateAdminBooking handles a booking entered by staff.
// @Summary Create a booking as staff
// @Tags Booking
// @Accept json
// @Produce json
// @Param request body dto.CreateBookingRequest true "Create Booking Request"
// @Success 201 {object} response.Data[dto.BookingResponse]
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Router /v1/bookings/admin [post]
// @Security BearerAuth
func (handler *Handler) CreateAdminBooking(writer http.ResponseWriter, request *http.Request) {
	handler.create(writer, request, model.SourceAdmin)
}

func (handler *Handler) create(writer http.ResponseWriter, request *http.Request, source string) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateBooking")
	defer scope.End()

	scope.SetAttribute("booking.source", source)

	req := dto.CreateBookingRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	res, err := handler.service.Create(ctx, req, source)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create booking")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Booking " + res.BookingID + " created by " + shared.CallerFromContext(ctx).Actor())

	response.WithJSON(writer, http.StatusCreated, res)
}

// GetBookings lists bookings.
// @Summary Get all bookings
// @Description Retrieve bookings with filtering, search and pagination. Managers only see their assigned property.
// @Tags Booking
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param property query string false "limuru, kanamai, kisumu or all"
// @Param status query string false "pending, confirmed, checked-in, checked-out, cancelled"
// @Param payment_status query string false "pending, awaiting_payment, paid, failed, refunded"
// @Param from query string false "Check-in on or after (YYYY-MM-DD)"
// @Param to query string false "Check-in on or before (YYYY-MM-DD)"
// @Param q query string false "Booking code, guest name or phone"
// @Success 200 {object} response.Data[dto.GetBookingsResponse]
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings [get]
// @Security BearerAuth
func (handler *Handler) GetBookings(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookings")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filter := dto.BookingFilter{}
	filter.FromRequest(r)

	bookings, err := handler.service.GetAll(ctx, queryParams, filter)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get bookings")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, bookings)
}

// SearchBookings finds bookings by code, guest name or phone.
// @Summary Search bookings
// @Tags Booking
// @Produce json
// @Param q query string true "Search term"
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[dto.GetBookingsResponse]
// @Failure 400 {object} response.Error
// @Router /v1/bookings/search [get]
// @Security BearerAuth
func (handler *Handler) SearchBookings(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".SearchBookings")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	bookings, err := handler.service.Search(ctx, r.URL.Query().Get(dto.QuerySearch), queryParams)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to search bookings")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, bookings)
}

// GetBookingByID retrieves a booking by its id or booking code.
// @Summary Get a booking
// @Tags Booking
// @Produce json
// @Param id path string true "Booking ID or code"
// @Success 200 {object} response.Data[dto.BookingResponse]
// @Failure 404 {object} response.Error
// @Router /v1/bookings/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetBookingByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookingByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	booking, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("id", id).Msg("failed to get booking")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, booking)
}

// GetBookingHistory lists the status changes of a booking, oldest first.
// @Summary Get booking status history
// @Tags Booking
// @Produce json
// @Param id path string true "Booking ID or code"
// @Success 200 {object} response.Data[[]dto.StatusEventResponse]
// @Failure 404 {object} response.Error
// @Router /v1/bookings/{id}/history [get]
// @Security BearerAuth
func (handler *Handler) GetBookingHistory(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookingHistory")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	history, err := handler.service.History(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("id", id).Msg("failed to get booking history")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, history)
}

// UpdateBooking edits guest and stay details.
// @Summary Update a booking
// @Description Only supplied fields change. Nights are recomputed from the dates and the booking code never changes.
// @Tags Booking
// @Accept json
// @Produce json
// @Param id path string true "Booking ID or code"
// @Param request body dto.UpdateBookingRequest true "Update Booking Request"
// @Success 200 {object} response.Data[dto.BookingResponse]
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/bookings/{id} [put]
// @Security BearerAuth
func (handler *Handler) UpdateBooking(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateBooking")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)
	req := dto.UpdateBookingRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	booking, err := handler.service.Update(ctx, id, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("id", id).Msg("failed to update booking")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, booking)
}

// UpdateBookingStatus moves a booking to any allowed status.
// @Summary Change booking status
// @Tags Booking
// @Accept json
// @Produce json
// @Param id path string true "Booking ID or code"
// @Param request body dto.UpdateStatusRequest true "Update Status Request"
// @Success 200 {object} response.Data[dto.BookingResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/bookings/{id}/status [patch]
// @Security BearerAuth
func (handler *Handler) UpdateBookingStatus(w http.ResponseWriter, r *http.Request) {
	req := dto.UpdateStatusRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	handler.changeStatus(w, r, req.Status)
}

// transition serves the one-click lifecycle actions (confirm, check-in, check-out, cancel).
func (handler *Handler) transition(status string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		handler.changeStatus(w, r, status)
	}
}

func (handler *Handler) changeStatus(w http.ResponseWriter, r *http.Request, status string) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ChangeStatus")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)
	scope.SetAttribute("booking.status", status)

	booking, err := handler.service.TransitionStatus(ctx, id, status)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("id", id).Str("status", status).Msg("failed to change booking status")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, booking)
}

// MarkPaid records an offline payment.
// @Summary Mark a booking as paid
// @Tags Booking
// @Produce json
// @Param id path string true "Booking ID or code"
// @Success 200 {object} response.Data[dto.BookingResponse]
// @Failure 404 {object} response.Error
// @Router /v1/bookings/{id}/mark-paid [post]
// @Security BearerAuth
func (handler *Handler) MarkPaid(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".MarkPaid")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	booking, err := handler.service.MarkPaid(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("id", id).Msg("failed to mark booking as paid")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, booking)
}

// Stream upgrades to a websocket that receives booking changes. Property-scoped staff only see their property.
// @Summary Live booking updates
// @Description Websocket. Browsers may pass the access token as the access_token query parameter.
// @Tags Booking
// @Param access_token query string false "Access token"
// @Success 101
// @Failure 401 {object} response.Error
// @Router /v1/bookings/stream [get]
// @Security BearerAuth
func (handler *Handler) Stream(w http.ResponseWriter, r *http.Request) {
	caller := shared.CallerFromContext(r.Context())

	subscriber := ws.Subscriber{UserID: caller.UserID}
	if caller.PropertyScoped() {
		subscriber.Property = caller.AssignedProperty
	}

	if err := handler.hub.Serve(w, r, subscriber); err != nil {
		// The upgrader has already written the error response.
		log.Warn().Err(err).Str("user_id", caller.UserID).Msg("failed to open booking stream")
	}
}
