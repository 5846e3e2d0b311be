package offer

import (
	"jumuia/infras/otel"
	"jumuia/internal/domains/offer/model/dto"
	"jumuia/internal/domains/offer/service"
	"jumuia/shared/constant"
	gDto "jumuia/shared/dto"
	"jumuia/shared/timezone"
	"jumuia/shared/validator"
	"jumuia/transport/http/response"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Offer
	otel    otel.Otel
}

func New(service service.Offer, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/offers", func(routerGroup chi.Router) {
		routerGroup.Get("/", handler.GetLiveOffers)
		routerGroup.Get("/all", handler.GetOffers)
		routerGroup.Post("/", handler.CreateOffer)
		routerGroup.Get("/{id}", handler.GetOfferByID)
		routerGroup.Patch("/{id}", handler.UpdateOffer)
		routerGroup.Delete("/{id}", handler.DeleteOffer)
	})
}

// GetLiveOffers lists the offers shown on the website today.
// @Summary Live offers
// @Description Active offers valid today. Offers for all properties are included in every property's list.
// @Tags Offer
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param property query string false "limuru, kanamai or kisumu"
// @Success 200 {object} response.Data[dto.GetOffersResponse]
// @Failure 400 {object} response.Error
// @Router /v1/offers [get]
func (handler *Handler) GetLiveOffers(w http.ResponseWriter, r *http.Request) {
	handler.list(w, r, timezone.Now().Format(constant.DateOnly))
}

// GetOffers lists every offer, including inactive and expired ones.
// @Summary All offers
// @Tags Offer
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param property query string false "limuru, kanamai or kisumu"
// @Success 200 {object} response.Data[dto.GetOffersResponse]
// @Failure 400 {object} response.Error
// @Router /v1/offers/all [get]
// @Security BearerAuth
func (handler *Handler) GetOffers(w http.ResponseWriter, r *http.Request) {
	handler.list(w, r, constant.Empty)
}

func (handler *Handler) list(w http.ResponseWriter, r *http.Request, liveOn string) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetOffers")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filter := dto.OfferFilter{
		Property: strings.ToLower(strings.TrimSpace(r.URL.Query().Get(dto.QueryProperty))),
		LiveOn:   liveOn,
	}

	offers, err := handler.service.GetAll(ctx, queryParams, filter)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get offers")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, offers)
}

// CreateOffer creates a promotional offer.
// @Summary Create an offer
// @Description The image is a base64 data URL (png, jpeg or webp, at most 2 MB) and is stored in object storage.
// @Tags Offer
// @Accept json
// @Produce json
// @Param request body dto.CreateOfferRequest true "Create Offer Request"
// @Success 201 {object} response.Data[dto.OfferResponse]
// @Failure 400 {object} response.Error
// @Router /v1/offers [post]
// @Security BearerAuth
func (handler *Handler) CreateOffer(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateOffer")
	defer scope.End()

	req := dto.CreateOfferRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	offer, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create offer")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusCreated, offer)
}

// GetOfferByID retrieves an offer.
// @Summary Get an offer
// @Tags Offer
// @Produce json
// @Param id path string true "Offer ID"
// @Success 200 {object} response.Data[dto.OfferResponse]
// @Failure 404 {object} response.Error
// @Router /v1/offers/{id} [get]
func (handler *Handler) GetOfferByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetOfferByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	offer, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("id", id).Msg("failed to get offer")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, offer)
}

// UpdateOffer edits an offer. An empty image removes the current one.
// @Summary Update an offer
// @Tags Offer
// @Accept json
// @Produce json
// @Param id path string true "Offer ID"
// @Param request body dto.UpdateOfferRequest true "Update Offer Request"
// @Success 200 {object} response.Data[dto.OfferResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/offers/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateOffer(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateOffer")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)
	req := dto.UpdateOfferRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	offer, err := handler.service.Update(ctx, id, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("id", id).Msg("failed to update offer")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, offer)
}

// DeleteOffer removes an offer and its image.
// @Summary Delete an offer
// @Tags Offer
// @Produce json
// @Param id path string true "Offer ID"
// @Success 200 {object} response.Message
// @Failure 404 {object} response.Error
// @Router /v1/offers/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteOffer(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteOffer")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("id", id).Msg("failed to delete offer")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Offer deleted successfully")
}
