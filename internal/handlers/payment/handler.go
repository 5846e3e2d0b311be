package payment

import (
	"crypto/subtle"
	"encoding/json"
	"jumuia/config"
	"jumuia/infras/daraja"
	"jumuia/infras/otel"
	"jumuia/internal/domains/payment/model/dto"
	"jumuia/internal/domains/payment/service"
	"jumuia/shared/constant"
	"jumuia/shared/failure"
	"jumuia/shared/validator"
	"jumuia/transport/http/response"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

const paramCheckoutRequestID = "checkoutRequestID"

type Handler struct {
	service       service.Payment
	callbackToken string
	otel          otel.Otel
}

func New(service service.Payment, cfg *config.Config, otel otel.Otel) Handler {
	return Handler{
		service:       service,
		callbackToken: cfg.External.Daraja.CallbackToken,
		otel:          otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/payments/mpesa", func(routerGroup chi.Router) {
		routerGroup.Post("/stk-push", handler.InitiatePayment)
		routerGroup.Post("/callback", handler.Callback)
		routerGroup.Get("/status/{"+paramCheckoutRequestID+"}", handler.GetPaymentStatus)
	})
}

// InitiatePayment sends an STK push prompt to the guest's phone.
// @Summary Start an M-Pesa payment
// @Tags Payment
// @Accept json
// @Produce json
// @Param request body dto.InitiateRequest true "STK Push Request"
// @Success 200 {object} response.Data[dto.InitiateResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 502 {object} response.Error
// @Router /v1/payments/mpesa/stk-push [post]
func (handler *Handler) InitiatePayment(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".InitiatePayment")
	defer scope.End()

	req := dto.InitiateRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Initiate(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("booking_id", req.BookingID).Msg("failed to initiate payment")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("STK push sent for " + req.BookingID)

	response.WithJSON(w, http.StatusOK, res)
}

// Callback receives the STK push result from Daraja.
// @Summary M-Pesa result callback
// @Description Called by the gateway with the token it was given on the STK push. A repeated result for a settled payment is acknowledged again.
// @Tags Payment
// @Accept json
// @Produce json
// @Param token query string true "Callback token"
// @Param request body daraja.Callback true "Daraja callback"
// @Success 200 {object} dto.CallbackAck
// @Failure 400 {object} dto.CallbackAck
// @Failure 401 {object} dto.CallbackAck
// @Failure 404 {object} dto.CallbackAck
// @Failure 500 {object} dto.CallbackAck
// @Router /v1/payments/mpesa/callback [post]
func (handler *Handler) Callback(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Callback")
	defer scope.End()

	if !handler.validCallbackToken(r.URL.Query().Get(daraja.CallbackTokenParam)) {
		log.Warn().Str("remote_addr", r.RemoteAddr).Msg("mpesa callback with invalid token")

		response.WithPayload(w, http.StatusUnauthorized, dto.Rejected("invalid callback token"))

		return
	}

	callback := daraja.Callback{}

	if err := json.NewDecoder(r.Body).Decode(&callback); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to decode mpesa callback")

		response.WithPayload(w, http.StatusBadRequest, dto.Rejected("invalid callback payload"))

		return
	}

	if err := handler.service.HandleCallback(ctx, callback); err != nil {
		scope.TraceError(err)

		code := failure.GetCode(err)

		switch code {
		case http.StatusBadRequest, http.StatusNotFound:
			log.Warn().Err(err).Msg("mpesa callback rejected")

			response.WithPayload(w, code, dto.Rejected(err.Error()))
		default:
			log.Error().Err(err).Msg("failed to process mpesa callback")

			response.WithPayload(w, http.StatusInternalServerError, dto.Rejected("callback could not be processed"))
		}

		return
	}

	response.WithPayload(w, http.StatusOK, dto.Accepted())
}

// validCallbackToken accepts any token when none is configured.
func (handler *Handler) validCallbackToken(token string) bool {
	if handler.callbackToken == "" {
		return true
	}

	return subtle.ConstantTimeCompare([]byte(token), []byte(handler.callbackToken)) == 1
}

// GetPaymentStatus reports the payment state, querying the gateway while it is pending.
// @Summary M-Pesa payment status
// @Tags Payment
// @Produce json
// @Param checkoutRequestID path string true "Checkout request ID"
// @Success 200 {object} response.Data[dto.StatusResponse]
// @Failure 404 {object} response.Error
// @Failure 502 {object} response.Error
// @Router /v1/payments/mpesa/status/{checkoutRequestID} [get]
func (handler *Handler) GetPaymentStatus(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetPaymentStatus")
	defer scope.End()

	checkoutRequestID := chi.URLParam(r, paramCheckoutRequestID)

	res, err := handler.service.CheckStatus(ctx, checkoutRequestID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("checkout_request_id", checkoutRequestID).Msg("failed to check payment status")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}
