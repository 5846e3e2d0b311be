package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"jumuia/config"
	jwtMocks "jumuia/infras/jwt/mocks"
	otelMocks "jumuia/infras/otel/mocks"
	"jumuia/permissions"
	"jumuia/shared/constant"
	"jumuia/transport/http/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newRBACRouter(t *testing.T, table string, role string) http.Handler {
	t.Helper()

	data, err := permissions.Parse([]byte(table))
	require.NoError(t, err)

	authRole := middleware.NewAuthRoleMiddleware(jwtMocks.NewMockJWT(gomock.NewController(t)), otelMocks.NewOtel(), data, &config.Config{})

	ok := func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) }

	router := chi.NewRouter()
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), constant.ContextKeyUserRole, role)))
		})
	})
	router.Use(authRole.RBAC)
	router.Get("/v1/bookings", ok)
	router.Get("/v1/auth/me", ok)
	router.Get("/v1/rooms", ok)

	return router
}

func TestRBAC(t *testing.T) {
	table := `{"endpoints":[
		{"path":"/v1/bookings","method":"GET","permissions":["admin","manager"]},
		{"path":"/v1/auth/me","method":"GET"}
	]}`

	tests := []struct {
		name     string
		role     string
		target   string
		wantCode int
	}{
		{name: "listed role", role: constant.RoleManager, target: "/v1/bookings", wantCode: http.StatusNoContent},
		{name: "role not listed", role: constant.RoleStaff, target: "/v1/bookings", wantCode: http.StatusForbidden},
		{name: "open to any authenticated caller", role: constant.RoleStaff, target: "/v1/auth/me", wantCode: http.StatusNoContent},
		{name: "route missing from the table", role: constant.RoleAdmin, target: "/v1/rooms", wantCode: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			newRBACRouter(t, table, tt.role).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.target, nil))

			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestRBAC_TableSkipAdmitsUnlistedRoutes(t *testing.T) {
	rec := httptest.NewRecorder()
	newRBACRouter(t, `{"skip":true,"endpoints":[]}`, constant.RoleStaff).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/rooms", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
}
