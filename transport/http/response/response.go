package response

import (
	"encoding/json"
	"errors"
	"jumuia/shared/constant"
	"jumuia/shared/failure"
	"jumuia/shared/logger"
	"net/http"
	"strconv"
)

type Data[T any] struct {
	Data *T `json:"data,omitempty"`
}

type Error struct {
	Error *string `json:"error,omitempty"`
}

type Message struct {
	Message *string `json:"message,omitempty"`
}

func WithMessage(writer http.ResponseWriter, code int, message string) {
	write(writer, code, Message{Message: &message})
}

// WithJSON wraps payload in the {"data": ...} envelope.
func WithJSON(writer http.ResponseWriter, code int, payload any) {
	write(writer, code, Data[any]{Data: &payload})
}

// WithPayload writes payload as is. Used where the caller dictates the body, e.g. the Daraja callback ack.
func WithPayload(writer http.ResponseWriter, code int, payload any) {
	write(writer, code, payload)
}

// WithError reports err with its failure code. Anything that is not a failure is reported
// with the status text only so internals never reach the client.
func WithError(writer http.ResponseWriter, err error) {
	code := failure.GetCode(err)
	msg := http.StatusText(code)

	var fail *failure.Failure
	if errors.As(err, &fail) {
		msg = fail.Message
	}

	write(writer, code, Error{Error: &msg})
}

func WithRequestLimitExceeded(writer http.ResponseWriter, retryAfterSeconds int) {
	if retryAfterSeconds > 0 {
		writer.Header().Set(constant.ResponseHeaderRetryAfter, strconv.Itoa(retryAfterSeconds))
	}

	WithMessage(writer, http.StatusTooManyRequests, constant.ResponseErrorRequestLimitExceeded)
}

func WithPreparingShutdown(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusServiceUnavailable, constant.ResponseErrorPrepareShutdown)
}

func WithUnhealthy(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusServiceUnavailable, constant.ResponseErrorUnhealthy)
}

func write(writer http.ResponseWriter, code int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		logger.ErrorWithStack(err)
		writer.WriteHeader(http.StatusInternalServerError)

		return
	}

	writer.Header().Set(constant.RequestHeaderContentType, constant.ContentTypeJSON)
	writer.WriteHeader(code)

	if _, err = writer.Write(body); err != nil {
		logger.ErrorWithStack(err)
	}
}
