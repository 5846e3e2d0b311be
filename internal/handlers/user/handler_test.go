package user_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	otelMocks "jumuia/infras/otel/mocks"
	"jumuia/internal/domains/user/mocks"
	"jumuia/internal/domains/user/model/dto"
	"jumuia/internal/handlers/user"
	gDto "jumuia/shared/dto"
	"jumuia/shared/failure"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func newRouter(t *testing.T) (http.Handler, *mocks.MockUserService) {
	t.Helper()

	svc := mocks.NewMockUserService(gomock.NewController(t))
	handler := user.New(svc, otelMocks.NewOtel())

	router := chi.NewRouter()
	handler.Router(router)

	return router, svc
}

func do(router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(method, target, strings.NewReader(body)))

	return rec
}

func TestCreateUser(t *testing.T) {
	t.Run("invalid role never reaches the service", func(t *testing.T) {
		router, _ := newRouter(t)

		rec := do(router, http.MethodPost, "/users", `{"first_name":"Peter","last_name":"Kamau","role":"owner","assigned_property":"kanamai"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"error":"role must be one of manager staff general-manager admin"}`, rec.Body.String())
	})

	t.Run("duplicate email", func(t *testing.T) {
		router, svc := newRouter(t)
		svc.EXPECT().Create(gomock.Any(), dto.CreateUserRequest{
			FirstName: "Peter", LastName: "Kamau", Role: "manager", AssignedProperty: "kanamai",
		}).Return(dto.CredentialsResponse{}, failure.Conflict("email already in use"))

		rec := do(router, http.MethodPost, "/users", `{"first_name":"Peter","last_name":"Kamau","role":"manager","assigned_property":"kanamai"}`)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestGetUsers_PassesFilter(t *testing.T) {
	router, svc := newRouter(t)
	svc.EXPECT().GetAll(gomock.Any(), gomock.Any(), dto.UserFilter{Role: "staff", Property: "kisumu"}).
		DoAndReturn(func(_ context.Context, params gDto.QueryParams, _ dto.UserFilter) (dto.GetUsersResponse, error) {
			assert.Equal(t, 2, params.Page)

			return dto.GetUsersResponse{}, nil
		})

	rec := do(router, http.MethodGet, "/users?role=staff&property=%20Kisumu&page=2", "")

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestResetPassword(t *testing.T) {
	router, svc := newRouter(t)
	svc.EXPECT().ResetPassword(gomock.Any(), "0b7c1f7e-3c55-4c55-9d8e-2f0d61c9a0aa").
		Return(dto.CredentialsResponse{Password: "r9Tq#Lm2xWz8"}, nil)

	rec := do(router, http.MethodPut, "/users/0b7c1f7e-3c55-4c55-9d8e-2f0d61c9a0aa/reset-password", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"password":"r9Tq#Lm2xWz8"`)
}

func TestDeleteUser_NotFound(t *testing.T) {
	router, svc := newRouter(t)
	svc.EXPECT().Delete(gomock.Any(), "missing").Return(failure.NotFound("user not found"))

	rec := do(router, http.MethodDelete, "/users/missing", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"user not found"}`, rec.Body.String())
}
