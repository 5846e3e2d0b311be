package middleware

import (
	"context"
	"errors"
	"jumuia/config"
	"jumuia/infras/jwt"
	"jumuia/infras/otel"
	"jumuia/permissions"
	"jumuia/shared/constant"
	"jumuia/shared/failure"
	"jumuia/transport/http/response"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const queryAccessToken = "access_token"

type SkipAuthKey string

type Auth interface {
	Auth(http.Handler) http.Handler
	APIKey(http.Handler) http.Handler
}

type Role interface {
	RBAC(http.Handler) http.Handler
}

type AuthRole interface {
	Auth
	Role
}

type authRoleImpl struct {
	jwtService jwt.JWT
	otel       otel.Otel
	permission *permissions.PermissionData
	cfg        *config.Config
}

func NewAuthRoleMiddleware(jwtService jwt.JWT, otel otel.Otel, permissions *permissions.PermissionData, cfg *config.Config) AuthRole {
	return &authRoleImpl{
		jwtService: jwtService,
		otel:       otel,
		permission: permissions,
		cfg:        cfg,
	}
}

var tokenErrorMessages = []struct {
	err     error
	message string
}{
	{jwt.ErrExpiredToken, "Token has expired"},
	{jwt.ErrInvalidToken, "Invalid token"},
	{jwt.ErrInvalidClaim, "Invalid token claims"},
}

func tokenErrorMessage(err error) string {
	for _, known := range tokenErrorMessages {
		if errors.Is(err, known.err) {
			return known.message
		}
	}

	return "Token validation failed"
}

// deny ends scope with err and writes it as the response.
func deny(writer http.ResponseWriter, scope otel.Scope, err error) {
	scope.TraceError(err)
	scope.End()
	response.WithError(writer, err)
}

func skipped(ctx context.Context) bool {
	skip, _ := ctx.Value(SkipAuthKey("skip")).(bool)

	return skip
}

// Auth validates the access token and puts the caller into the request context.
// Endpoints marked skip in the permissions file pass through anonymously.
func (m *authRoleImpl) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctx := request.Context()
		_, scope := m.otel.NewScope(ctx, constant.OtelHandlerScopeName, "auth.middleware")

		path := routeOf(request)

		if skipped(ctx) || (m.permission != nil && m.permission.FindPermissions(path, request.Method).Skip) {
			scope.End()
			next.ServeHTTP(writer, request)

			return
		}

		scope.SetAttributes(map[string]any{
			"middleware.type": "auth",
			"http.path":       path,
			"http.method":     request.Method,
		})

		tokenString, err := bearerToken(request)
		if err != nil {
			deny(writer, scope, err)

			return
		}

		claims, err := m.jwtService.ValidateToken(ctx, tokenString, jwt.AccessToken)
		if err != nil {
			deny(writer, scope, failure.Unauthorized(tokenErrorMessage(err)))

			return
		}

		if claims.UserID == "" || claims.Email == "" || claims.Role == "" {
			log.Error().Str("user_id", claims.UserID).Msg("access token is missing required claims")
			deny(writer, scope, failure.Unauthorized("Invalid token claims"))

			return
		}

		ctx = context.WithValue(ctx, constant.ContextKeyUserID, claims.UserID)
		ctx = context.WithValue(ctx, constant.ContextKeyUserEmail, claims.Email)
		ctx = context.WithValue(ctx, constant.ContextKeyUserRole, claims.Role)
		ctx = context.WithValue(ctx, constant.ContextKeyAssignedProperty, claims.AssignedProperty)
		ctx = context.WithValue(ctx, constant.ContextKeyTokenID, claims.TokenID)

		scope.End()
		next.ServeHTTP(writer, request.WithContext(ctx))
	})
}

// RBAC checks the caller role against the roles listed for the endpoint. Must run after Auth.
func (m *authRoleImpl) RBAC(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctx := request.Context()
		_, scope := m.otel.NewScope(ctx, constant.OtelHandlerScopeName, "rbac.middleware")

		if skipped(ctx) {
			scope.End()
			next.ServeHTTP(writer, request)

			return
		}

		if m.permission == nil {
			deny(writer, scope, failure.ForbiddenError)

			return
		}

		route := routeOf(request)
		permission, listed := m.permission.Lookup(route, request.Method)
		userRole, _ := ctx.Value(constant.ContextKeyUserRole).(string)

		if !m.permission.Skip && !listed {
			log.Warn().Str("route", route).Str("method", request.Method).Msg("route missing from permissions")
			scope.SetAttributes(map[string]any{
				"user_role": userRole,
				"reason":    "route_not_listed",
			})
			deny(writer, scope, failure.ForbiddenError)

			return
		}

		if !m.permission.Skip && !permission.Allows(userRole) {
			scope.SetAttributes(map[string]any{
				"user_role":     userRole,
				"allowed_roles": permission.Permissions,
				"reason":        "role_not_allowed",
			})
			deny(writer, scope, failure.ForbiddenError)

			return
		}

		scope.End()
		next.ServeHTTP(writer, request)
	})
}

// APIKey lets internal jobs holding the shared key bypass Auth and RBAC.
func (m *authRoleImpl) APIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctx := request.Context()
		_, scope := m.otel.NewScope(ctx, constant.OtelHandlerScopeName, "api_key.middleware")

		apiKey := request.Header.Get(constant.RequestHeaderAPIKey)
		if apiKey == "" {
			scope.SetAttribute("http.source", "client")
			scope.End()
			next.ServeHTTP(writer, request.WithContext(context.WithValue(ctx, SkipAuthKey("skip"), false)))

			return
		}

		scope.SetAttribute("http.source", "internal")

		if m.cfg.App.APIKey == "" || apiKey != m.cfg.App.APIKey {
			deny(writer, scope, failure.ForbiddenError)

			return
		}

		ctx = context.WithValue(ctx, SkipAuthKey("skip"), true)
		ctx = context.WithValue(ctx, constant.ContextKeyUserRole, constant.RoleAdmin)
		ctx = context.WithValue(ctx, constant.ContextKeyAssignedProperty, constant.PropertyAll)

		scope.End()
		next.ServeHTTP(writer, request.WithContext(ctx))
	})
}

// bearerToken reads the access token from the Authorization header. Browsers cannot set headers on a
// websocket handshake, so upgrades may pass it as the access_token query parameter instead.
func bearerToken(request *http.Request) (string, error) {
	authHeader := request.Header.Get(constant.RequestHeaderAuthorization)

	if authHeader == "" && websocket.IsWebSocketUpgrade(request) {
		if token := request.URL.Query().Get(queryAccessToken); token != "" {
			return token, nil
		}
	}

	if authHeader == "" {
		return "", failure.Unauthorized("Missing authorization header") //nolint:wrapcheck
	}

	tokenString, err := jwt.ExtractTokenFromHeader(authHeader)
	if err != nil {
		return "", failure.Unauthorized("Invalid authorization header format") //nolint:wrapcheck
	}

	return tokenString, nil
}

// routeOf resolves the request to its registered pattern, e.g. /v1/bookings/{id}.
func routeOf(request *http.Request) string {
	rctx := chi.RouteContext(request.Context())
	if rctx == nil || rctx.Routes == nil {
		return request.URL.Path
	}

	return rctx.Routes.Find(chi.NewRouteContext(), request.Method, request.URL.Path)
}
