package offer_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	otelMocks "jumuia/infras/otel/mocks"
	"jumuia/internal/domains/offer/mocks"
	"jumuia/internal/domains/offer/model/dto"
	"jumuia/internal/handlers/offer"
	"jumuia/shared/constant"
	gDto "jumuia/shared/dto"
	"jumuia/shared/failure"
	"jumuia/shared/timezone"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

const offerID = "5c6d7e8f-9a0b-4c1d-8e2f-3a4b5c6d7e8f"

func newRouter(t *testing.T) (http.Handler, *mocks.MockOfferService) {
	t.Helper()

	svc := mocks.NewMockOfferService(gomock.NewController(t))
	handler := offer.New(svc, otelMocks.NewOtel())

	router := chi.NewRouter()
	handler.Router(router)

	return router, svc
}

func do(router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(method, target, strings.NewReader(body)))

	return rec
}

func TestListOffers(t *testing.T) {
	t.Run("live offers are limited to today", func(t *testing.T) {
		router, svc := newRouter(t)
		svc.EXPECT().GetAll(gomock.Any(), gomock.Any(), dto.OfferFilter{Property: "kisumu", LiveOn: timezone.Now().Format(constant.DateOnly)}).
			Return(dto.GetOffersResponse{}, nil)

		rec := do(router, http.MethodGet, "/offers?property=Kisumu", "")

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("all offers", func(t *testing.T) {
		router, svc := newRouter(t)
		svc.EXPECT().GetAll(gomock.Any(), gomock.Any(), dto.OfferFilter{}).
			DoAndReturn(func(_ context.Context, params gDto.QueryParams, _ dto.OfferFilter) (dto.GetOffersResponse, error) {
				assert.Equal(t, 2, params.Page)

				return dto.GetOffersResponse{TotalData: 12, TotalPage: 2}, nil
			})

		rec := do(router, http.MethodGet, "/offers/all?page=2", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"total_data":12`)
	})
}

func TestCreateOffer(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		router, svc := newRouter(t)
		svc.EXPECT().Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, req dto.CreateOfferRequest) (dto.OfferResponse, error) {
				assert.Equal(t, "Easter Getaway", req.Title)
				assert.Equal(t, "kanamai", req.Property)

				return dto.OfferResponse{ID: offerID, Title: req.Title}, nil
			})

		rec := do(router, http.MethodPost, "/offers",
			`{"title":"Easter Getaway","property":"kanamai","price":"15000","valid_from":"2025-04-01","valid_to":"2025-04-30"}`)

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), offerID)
	})

	t.Run("missing dates never reach the service", func(t *testing.T) {
		router, _ := newRouter(t)

		rec := do(router, http.MethodPost, "/offers", `{"title":"Easter Getaway","property":"kanamai","price":"15000"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejected image", func(t *testing.T) {
		router, svc := newRouter(t)
		svc.EXPECT().Create(gomock.Any(), gomock.Any()).Return(dto.OfferResponse{}, failure.BadRequestFromString("image must be a png, jpeg or webp data url"))

		rec := do(router, http.MethodPost, "/offers",
			`{"title":"Easter Getaway","property":"kanamai","price":"15000","valid_from":"2025-04-01","valid_to":"2025-04-30","image":"data:text/plain;base64,aGk="}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGetOfferByID_NotFound(t *testing.T) {
	router, svc := newRouter(t)
	svc.EXPECT().Get(gomock.Any(), offerID).Return(dto.OfferResponse{}, failure.NotFound("offer not found"))

	rec := do(router, http.MethodGet, "/offers/"+offerID, "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"offer not found"}`, rec.Body.String())
}

func TestUpdateOffer_RemovesImage(t *testing.T) {
	router, svc := newRouter(t)
	svc.EXPECT().Update(gomock.Any(), offerID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, req dto.UpdateOfferRequest) (dto.OfferResponse, error) {
			if assert.NotNil(t, req.Image) {
				assert.Empty(t, *req.Image)
			}

			assert.Nil(t, req.Title)

			return dto.OfferResponse{ID: offerID}, nil
		})

	rec := do(router, http.MethodPatch, "/offers/"+offerID, `{"image":""}`)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDeleteOffer(t *testing.T) {
	router, svc := newRouter(t)
	svc.EXPECT().Delete(gomock.Any(), offerID).Return(nil)

	rec := do(router, http.MethodDelete, "/offers/"+offerID, "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Offer deleted successfully"}`, rec.Body.String())
}
