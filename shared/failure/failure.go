package failure

import (
	"errors"
	"net/http"
)

// Failure is an error that carries the HTTP status it should be reported with.
// Its message is shown to the client as is.
type Failure struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

var (
	ForbiddenError          = &Failure{Code: http.StatusForbidden, Message: "You don't have the required permissions"}
	ResourceRestrictedError = &Failure{Code: http.StatusForbidden, Message: "You don't have permission to access this resource"}
)

func (e *Failure) Error() string {
	return e.Message
}

func newFailure(code int, msg string) error {
	return &Failure{Code: code, Message: msg}
}

// BadRequest wraps a validation error. A nil error stays nil.
func BadRequest(err error) error {
	if err == nil {
		return nil
	}

	return newFailure(http.StatusBadRequest, err.Error())
}

func BadRequestFromString(msg string) error {
	return newFailure(http.StatusBadRequest, msg)
}

func Unauthorized(msg string) error {
	return newFailure(http.StatusUnauthorized, msg)
}

func Forbidden(msg string) error {
	return newFailure(http.StatusForbidden, msg)
}

// NotFound reports a missing entity, e.g. NotFound("booking not found").
func NotFound(msg string) error {
	return newFailure(http.StatusNotFound, msg)
}

// Conflict reports a request that clashes with the current state, such as an illegal status transition.
func Conflict(msg string) error {
	return newFailure(http.StatusConflict, msg)
}

// InternalError wraps an unexpected error. Responses mask its message.
func InternalError(err error) error {
	if err == nil {
		return nil
	}

	return newFailure(http.StatusInternalServerError, err.Error())
}

// BadGateway reports an upstream failure (payment gateway, email provider). Keep upstream detail out of msg.
func BadGateway(msg string) error {
	return newFailure(http.StatusBadGateway, msg)
}

// GetCode returns the status carried by err, or 500 when err is not a Failure.
func GetCode(err error) int {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Code
	}

	return http.StatusInternalServerError
}

// HasCode reports whether err is a Failure with the given status.
func HasCode(err error, code int) bool {
	var fail *Failure

	return errors.As(err, &fail) && fail.Code == code
}
