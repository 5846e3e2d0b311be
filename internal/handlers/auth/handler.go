package auth

import (
	"jumuia/infras/otel"
	"jumuia/internal/domains/auth/model/dto"
	"jumuia/internal/domains/auth/service"
	"jumuia/shared"
	"jumuia/shared/constant"
	"jumuia/shared/failure"
	"jumuia/shared/validator"
	"jumuia/transport/http/response"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Auth
	otel    otel.Otel
}

func New(service service.Auth, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", handler.Login)
		r.Post("/refresh-token", handler.RefreshToken)
		r.Post("/change-password", handler.ChangePassword)
	})
}

// reject answers with err. Bad credentials are routine, so only server faults log at error.
func reject(w http.ResponseWriter, scope otel.Scope, err error, msg string) {
	scope.TraceError(err)

	level := zerolog.WarnLevel
	if failure.GetCode(err) >= http.StatusInternalServerError {
		level = zerolog.ErrorLevel
	}

	log.WithLevel(level).Err(err).Msg(msg)

	response.WithError(w, err)
}

// Login
// @Summary Login
// @Description Exchange email and password for an access and refresh token pair.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Credentials"
// @Success 200 {object} response.Data[dto.LoginResponse]
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Failure 403 {object} response.Error "account deactivated"
// @Failure 500 {object} response.Error
// @Router /v1/auth/login [post]
func (handler *Handler) Login(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Login")
	defer scope.End()

	var req dto.LoginRequest
	if err := validator.Validate(r.Body, &req); err != nil {
		reject(w, scope, err, "invalid login body")

		return
	}

	res, err := handler.service.Login(ctx, req)
	if err != nil {
		reject(w, scope, err, "login failed")

		return
	}

	scope.AddEvent("login " + res.Session.UserID)

	response.WithJSON(w, http.StatusOK, res)
}

// RefreshToken
// @Summary Refresh tokens
// @Description Trade a refresh token for a new pair. The account must still exist and be active.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.RefreshTokenRequest true "Refresh token"
// @Success 200 {object} response.Data[dto.RefreshTokenResponse]
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Router /v1/auth/refresh-token [post]
func (handler *Handler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".RefreshToken")
	defer scope.End()

	var req dto.RefreshTokenRequest
	if err := validator.Validate(r.Body, &req); err != nil {
		reject(w, scope, err, "invalid refresh body")

		return
	}

	res, err := handler.service.RefreshToken(ctx, req)
	if err != nil {
		reject(w, scope, err, "token refresh failed")

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// ChangePassword
// @Summary Change own password
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.ChangePasswordRequest true "Current and new password"
// @Success 200 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Router /v1/auth/change-password [post]
// @Security BearerAuth
func (handler *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ChangePassword")
	defer scope.End()

	var req dto.ChangePasswordRequest
	if err := validator.Validate(r.Body, &req); err != nil {
		reject(w, scope, err, "invalid change password body")

		return
	}

	userID := shared.CallerFromContext(ctx).UserID
	if err := handler.service.ChangePassword(ctx, req, userID); err != nil {
		reject(w, scope, err, "change password failed")

		return
	}

	response.WithMessage(w, http.StatusOK, "Password changed successfully")
}
