package http_test

import (
	"context"
	"encoding/json"
	"jumuia/config"
	"jumuia/infras/jwt"
	jwtMocks "jumuia/infras/jwt/mocks"
	"jumuia/infras/metrics"
	otelMocks "jumuia/infras/otel/mocks"
	"jumuia/infras/postgres"
	authMocks "jumuia/internal/domains/auth/mocks"
	bookingMocks "jumuia/internal/domains/booking/mocks"
	bookingDto "jumuia/internal/domains/booking/model/dto"
	calendarMocks "jumuia/internal/domains/calendar/mocks"
	offerMocks "jumuia/internal/domains/offer/mocks"
	offerDto "jumuia/internal/domains/offer/model/dto"
	paymentMocks "jumuia/internal/domains/payment/mocks"
	paymentDto "jumuia/internal/domains/payment/model/dto"
	userMocks "jumuia/internal/domains/user/mocks"
	userDto "jumuia/internal/domains/user/model/dto"
	authHandler "jumuia/internal/handlers/auth"
	bookingHandler "jumuia/internal/handlers/booking"
	calendarHandler "jumuia/internal/handlers/calendar"
	offerHandler "jumuia/internal/handlers/offer"
	paymentHandler "jumuia/internal/handlers/payment"
	userHandler "jumuia/internal/handlers/user"
	"jumuia/permissions"
	"jumuia/shared"
	"jumuia/shared/cache"
	"jumuia/shared/constant"
	gDto "jumuia/shared/dto"
	"jumuia/shared/timezone"
	transport "jumuia/transport/http"
	"jumuia/transport/http/middleware"
	"jumuia/transport/http/router"
	"jumuia/transport/ws"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	handler  http.Handler
	bookings *bookingMocks.MockBookingService
	offers   *offerMocks.MockOfferService
	payments *paymentMocks.MockPaymentService
	users    *userMocks.MockUserService
}

func newFixture(t *testing.T, cfg *config.Config) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	ot := otelMocks.NewOtel()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	tokens := jwtMocks.NewMockJWT(ctrl)
	tokens.EXPECT().ValidateToken(gomock.Any(), "staff-token", jwt.AccessToken).Return(&jwt.Claims{
		UserID: "staff-1", Email: "mary.wanjiku@jumuiaresorts.com", Role: constant.RoleStaff, AssignedProperty: "kisumu",
	}, nil).AnyTimes()
	tokens.EXPECT().ValidateToken(gomock.Any(), "expired-token", jwt.AccessToken).Return(nil, jwt.ErrExpiredToken).AnyTimes()

	bookings := bookingMocks.NewMockBookingService(ctrl)
	offers := offerMocks.NewMockOfferService(ctrl)
	payments := paymentMocks.NewMockPaymentService(ctrl)
	users := userMocks.NewMockUserService(ctrl)

	handlers := router.DomainHandlers{
		Auth:     authHandler.New(authMocks.NewMockAuth(ctrl), ot),
		Booking:  bookingHandler.New(bookings, ws.NewHub(cfg), ot),
		Calendar: calendarHandler.New(calendarMocks.NewMockCalendar(ctrl), ot),
		User:     userHandler.New(users, ot),
		Payment:  paymentHandler.New(payments, cfg, ot),
		Offer:    offerHandler.New(offers, ot),
	}

	authRole := middleware.NewAuthRoleMiddleware(tokens, ot, permissions.Get(), cfg)
	app := middleware.NewAppMiddleware(ot, cfg, cache.NewRedisCache(client, ot))

	srv := transport.New(cfg, router.New(handlers, authRole, metrics.New()), app, &postgres.Connection{}, client, nil)

	return fixture{
		handler:  srv.Handler(),
		bookings: bookings,
		offers:   offers,
		payments: payments,
		users:    users,
	}
}

func serve(f fixture, method, target, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	return rec
}

func TestRouter_Authentication(t *testing.T) {
	cfg := &config.Config{}
	cfg.Metrics.Enable = true

	tests := []struct {
		name     string
		method   string
		target   string
		token    string
		wantCode int
	}{
		{name: "missing token", method: http.MethodGet, target: "/v1/bookings", wantCode: http.StatusUnauthorized},
		{name: "expired token", method: http.MethodGet, target: "/v1/calendar/stats", token: "expired-token", wantCode: http.StatusUnauthorized},
		{name: "staff cannot manage users", method: http.MethodGet, target: "/v1/users", token: "staff-token", wantCode: http.StatusForbidden},
		{name: "staff cannot edit offers", method: http.MethodDelete, target: "/v1/offers/5c6d7e8f-9a0b-4c1d-8e2f-3a4b5c6d7e8f", token: "staff-token", wantCode: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, cfg)

			rec := serve(f, tt.method, tt.target, tt.token, "")

			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestRouter_StaffSeesAssignedProperty(t *testing.T) {
	f := newFixture(t, &config.Config{})

	f.bookings.EXPECT().
		GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, params gDto.QueryParams, filter bookingDto.BookingFilter) (bookingDto.GetBookingsResponse, error) {
			caller := shared.CallerFromContext(ctx)
			assert.Equal(t, "staff-1", caller.UserID)
			assert.Equal(t, "kisumu", caller.AssignedProperty)
			assert.Equal(t, "confirmed", filter.Status)
			assert.Equal(t, 2, params.Page)

			return bookingDto.GetBookingsResponse{}, nil
		})

	rec := serve(f, http.MethodGet, "/v1/bookings?status=confirmed&page=2", "staff-token", "")

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_PublicEndpoints(t *testing.T) {
	t.Run("live offers", func(t *testing.T) {
		f := newFixture(t, &config.Config{})

		f.offers.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ gDto.QueryParams, filter offerDto.OfferFilter) (offerDto.GetOffersResponse, error) {
				assert.Equal(t, "kanamai", filter.Property)
				assert.Equal(t, timezone.Now().Format(constant.DateOnly), filter.LiveOn)

				return offerDto.GetOffersResponse{}, nil
			})

		rec := serve(f, http.MethodGet, "/v1/offers?property=Kanamai", "", "")

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("malformed gateway callback", func(t *testing.T) {
		f := newFixture(t, &config.Config{})

		rec := serve(f, http.MethodPost, "/v1/payments/mpesa/callback", "", "{not json")

		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var ack map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ack))
		assert.EqualValues(t, 1, ack["ResultCode"])
	})

	t.Run("gateway callback without the token", func(t *testing.T) {
		cfg := &config.Config{}
		cfg.External.Daraja.CallbackToken = "cb-secret"

		f := newFixture(t, cfg)

		body := `{"Body":{"stkCallback":{"MerchantRequestID":"29115-34620561-1","CheckoutRequestID":"ws_CO_191220191020363925","ResultCode":0,"ResultDesc":"ok"}}}`
		rec := serve(f, http.MethodPost, "/v1/payments/mpesa/callback", "", body)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("gateway callback is acknowledged", func(t *testing.T) {
		f := newFixture(t, &config.Config{})

		f.payments.EXPECT().HandleCallback(gomock.Any(), gomock.Any()).Return(nil)

		body := `{"Body":{"stkCallback":{"MerchantRequestID":"29115-34620561-1","CheckoutRequestID":"ws_CO_191220191020363925","ResultCode":1032,"ResultDesc":"Request cancelled by user"}}}`
		rec := serve(f, http.MethodPost, "/v1/payments/mpesa/callback", "", body)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"ResultCode":0,"ResultDesc":"Accepted"}`, rec.Body.String())
	})
}

func TestServer_HealthAndMetrics(t *testing.T) {
	cfg := &config.Config{}
	cfg.Metrics.Enable = true

	f := newFixture(t, cfg)

	rec := serve(f, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = serve(f, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "jumuia_http_requests_total")
}

func TestServer_RateLimitsAnonymousWrites(t *testing.T) {
	cfg := &config.Config{}
	cfg.App.RateLimiter.Enable = true
	cfg.App.RateLimiter.MaxRequests = 100
	cfg.App.RateLimiter.PublicWriteMaxRequests = 1
	cfg.App.RateLimiter.WindowSeconds = 60

	f := newFixture(t, cfg)

	f.payments.EXPECT().Initiate(gomock.Any(), gomock.Any()).Return(paymentDto.InitiateResponse{CheckoutRequestID: "ws_CO_191220191020363925", Status: "pending"}, nil)

	body := `{"phone_number":"0712345678","amount":"27000","booking_id":"WEB-345678123"}`

	first := serve(f, http.MethodPost, "/v1/payments/mpesa/stk-push", "", body)
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "0", first.Header().Get("X-RateLimit-Remaining"))

	second := serve(f, http.MethodPost, "/v1/payments/mpesa/stk-push", "", body)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, "60", second.Header().Get("Retry-After"))
}

func TestRouter_APIKeyBootstrapsFirstAdmin(t *testing.T) {
	cfg := &config.Config{}
	cfg.App.APIKey = "bootstrap-key"

	body := `{"first_name":"Grace","last_name":"Mutua","role":"admin","assigned_property":"all"}`

	post := func(f fixture, key string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/v1/users", strings.NewReader(body))
		req.Header.Set("X-API-Key", key)

		rec := httptest.NewRecorder()
		f.handler.ServeHTTP(rec, req)

		return rec
	}

	t.Run("valid key skips the bearer token", func(t *testing.T) {
		f := newFixture(t, cfg)
		f.users.EXPECT().Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, req userDto.CreateUserRequest) (userDto.CredentialsResponse, error) {
				assert.Equal(t, constant.RoleAdmin, req.Role)
				assert.Equal(t, constant.RoleAdmin, shared.CallerFromContext(ctx).Role)

				return userDto.CredentialsResponse{User: userDto.UserResponse{Email: "grace.mutua@jumuiaresorts.com"}, Password: "Xk7#pQ2m9WvR"}, nil
			})

		rec := post(f, "bootstrap-key")

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), "grace.mutua@jumuiaresorts.com")
	})

	t.Run("wrong key is forbidden", func(t *testing.T) {
		f := newFixture(t, cfg)

		assert.Equal(t, http.StatusForbidden, post(f, "guess").Code)
	})
}
