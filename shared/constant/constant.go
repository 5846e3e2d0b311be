package constant

import (
	"time"
)

// Actors recorded in created_by / modified_by when no manager is signed in.
const (
	ContextGuest  = "guest"
	ContextSystem = "system"
)

type contextKey string

// Claims copied from the access token into the request context.
const (
	ContextKeyUserID           contextKey = "user_id"
	ContextKeyUserEmail        contextKey = "user_email"
	ContextKeyUserRole         contextKey = "user_role"
	ContextKeyTokenID          contextKey = "token_id"
	ContextKeyAssignedProperty contextKey = "assigned_property"
)

const (
	RoleAdmin          = "admin"
	RoleGeneralManager = "general-manager"
	RoleManager        = "manager"
	RoleStaff          = "staff"

	// PropertyAll is the assigned property of accounts that see every property.
	PropertyAll = "all"
)

const (
	RequestParamID      = "id"
	RequestParamPage    = "page"
	RequestParamLimit   = "limit"
	RequestParamSortBy  = "sort_by"
	RequestParamSortDir = "sort_dir"
)

const (
	DefaultValuePage  = 1
	DefaultValueLimit = 50
	MaxValueLimit     = 200
)

const (
	FieldCreatedAt  = "created_at"
	FieldModifiedAt = "modified_at"
	FieldModifiedBy = "modified_by"
)

const PqErrorCodeUniqueViolation = "23505"

const (
	DateFormat = time.RFC3339
	DateOnly   = time.DateOnly
	// DarajaTimeFmt is the yyyyMMddHHmmss layout of STK timestamps and callback dates.
	DarajaTimeFmt = "20060102150405"
)

const MinutesToSeconds = 60

const (
	OtelServiceScopeName    = "service"
	OtelRepositoryScopeName = "repository"
	OtelHandlerScopeName    = "handler"
	OtelEventScopeName      = "event"
	OtelExternalScopeName   = "external"
	OtelS3ScopeName         = "s3"

	OtelQueryAttributeKey = "query"
)

const (
	RequestHeaderAuthorization      = "Authorization"
	RequestHeaderUserAgent          = "User-Agent"
	RequestHeaderContentType        = "Content-Type"
	RequestHeaderAccept             = "Accept"
	RequestHeaderRateLimit          = "X-RateLimit-Limit"
	RequestHeaderRateLimitRemaining = "X-RateLimit-Remaining"
	RequestHeaderRateLimitWindow    = "X-RateLimit-Window"
	RequestHeaderForwardedFor       = "X-Forwarded-For"
	RequestHeaderRealIP             = "X-Real-IP"
	RequestHeaderAPIKey             = "X-API-Key"

	ResponseHeaderRetryAfter = "Retry-After"
)

const ContentTypeJSON = "application/json"

const (
	ResponseErrorPrepareShutdown      = "SERVER PREPARING TO SHUT DOWN"
	ResponseErrorUnhealthy            = "SERVER UNHEALTHY"
	ResponseErrorRequestLimitExceeded = "REQUEST LIMIT EXCEEDED"
)

const ServerEnvDevelopment = "development"

const (
	Asterix = "*"
	Empty   = ""
)
