package user

import (
	"jumuia/infras/otel"
	"jumuia/internal/domains/user/model/dto"
	"jumuia/internal/domains/user/service"
	"jumuia/shared/constant"
	gDto "jumuia/shared/dto"
	"jumuia/shared/validator"
	"jumuia/transport/http/response"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.User
	otel    otel.Otel
}

func New(service service.User, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(r chi.Router) {
	r.Route("/users", func(r chi.Router) {
		r.Post("/", handler.CreateUser)
		r.Get("/", handler.GetUsers)
		r.Put("/{id}/reset-password", handler.ResetPassword)
		r.Delete("/{id}", handler.DeleteUser)
	})
}

// CreateUser creates a manager account.
// @Summary Create a manager account
// @Description The login email is derived from the first and last name. A password is generated when none is supplied and returned once. Only admins create admins.
// @Tags User
// @Accept json
// @Produce json
// @Param request body dto.CreateUserRequest true "Create User Request"
// @Success 201 {object} response.Data[dto.CredentialsResponse]
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/users [post]
// @Security BearerAuth
func (handler *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateUser")
	defer scope.End()

	var req dto.CreateUserRequest
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Warn().Err(err).Msg("rejected user account body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("role", req.Role).Str("property", req.AssignedProperty).Msg("failed to create user account")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("account " + res.User.Email + " created")

	response.WithJSON(w, http.StatusCreated, res)
}

// GetUsers lists manager accounts.
// @Summary Get all users
// @Tags User
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param role query string false "admin, general-manager, manager or staff"
// @Param property query string false "Assigned property"
// @Success 200 {object} response.Data[dto.GetUsersResponse]
// @Failure 500 {object} response.Error
// @Router /v1/users [get]
// @Security BearerAuth
func (handler *Handler) GetUsers(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetUsers")
	defer scope.End()

	var params gDto.QueryParams
	params.FromRequest(r, true)

	query := r.URL.Query()
	filter := dto.UserFilter{
		Role:     strings.TrimSpace(query.Get(dto.QueryRole)),
		Property: strings.ToLower(strings.TrimSpace(query.Get(dto.QueryProperty))),
	}

	users, err := handler.service.GetAll(ctx, params, filter)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Interface("filter", filter).Msg("failed to list user accounts")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, users)
}

// ResetPassword issues a new generated password.
// @Summary Reset a user's password
// @Tags User
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} response.Data[dto.CredentialsResponse]
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/users/{id}/reset-password [put]
// @Security BearerAuth
func (handler *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ResetPassword")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	res, err := handler.service.ResetPassword(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("user_id", id).Msg("failed to reset password")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// DeleteUser removes an account.
// @Summary Delete a user
// @Tags User
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/users/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteUser")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("user_id", id).Msg("failed to delete user account")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("account " + id + " deleted")

	response.WithMessage(w, http.StatusOK, "User deleted successfully")
}
