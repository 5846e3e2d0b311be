package calendar_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	otelMocks "jumuia/infras/otel/mocks"
	"jumuia/internal/domains/calendar/mocks"
	"jumuia/internal/domains/calendar/model/dto"
	"jumuia/internal/handlers/calendar"
	"jumuia/shared/failure"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func newRouter(t *testing.T) (http.Handler, *mocks.MockCalendar) {
	t.Helper()

	svc := mocks.NewMockCalendar(gomock.NewController(t))
	handler := calendar.New(svc, otelMocks.NewOtel())

	router := chi.NewRouter()
	handler.Router(router)

	return router, svc
}

func get(router http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

	return rec
}

func TestGetEvents(t *testing.T) {
	t.Run("widget timestamps are cut to dates", func(t *testing.T) {
		router, svc := newRouter(t)
		svc.EXPECT().Events(gomock.Any(), dto.EventsRequest{Start: "2025-01-11", End: "2025-01-20", Property: "kanamai"}).
			Return([]dto.Event{{ID: "b1-stay", Title: "Jane Doe", Start: "2025-01-10", End: "2025-01-12", AllDay: true}}, nil)

		rec := get(router, "/calendar/events?start=2025-01-11T00:00:00%2B03:00&end=2025-01-20&property=Kanamai")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"allDay":true`)
	})

	t.Run("bad window", func(t *testing.T) {
		router, svc := newRouter(t)
		svc.EXPECT().Events(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, req dto.EventsRequest) ([]dto.Event, error) {
				return nil, req.Validate()
			})

		rec := get(router, "/calendar/events?start=2025-01-20&end=2025-01-11")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"error":"end must not be before start"}`, rec.Body.String())
	})
}

func TestGetStats(t *testing.T) {
	t.Run("property is normalized", func(t *testing.T) {
		router, svc := newRouter(t)
		svc.EXPECT().Stats(gomock.Any(), "limuru").Return(dto.Stats{Property: "limuru", TodayCheckIns: 2, Capacity: 30}, nil)

		rec := get(router, "/calendar/stats?property=%20Limuru%20")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"today_check_ins":2`)
	})

	t.Run("unknown property", func(t *testing.T) {
		router, svc := newRouter(t)
		svc.EXPECT().Stats(gomock.Any(), "naivasha").Return(dto.Stats{}, failure.BadRequestFromString("unknown property naivasha"))

		rec := get(router, "/calendar/stats?property=naivasha")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
