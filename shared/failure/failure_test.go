package failure_test

import (
	"errors"
	"fmt"
	"jumuia/shared/failure"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{name: "bad request", err: failure.BadRequest(errors.New("check_out must be after check_in")), wantCode: http.StatusBadRequest, wantMsg: "check_out must be after check_in"},
		{name: "bad request from string", err: failure.BadRequestFromString("invalid phone number"), wantCode: http.StatusBadRequest, wantMsg: "invalid phone number"},
		{name: "unauthorized", err: failure.Unauthorized("Token has expired"), wantCode: http.StatusUnauthorized, wantMsg: "Token has expired"},
		{name: "forbidden", err: failure.Forbidden("account is disabled"), wantCode: http.StatusForbidden, wantMsg: "account is disabled"},
		{name: "not found", err: failure.NotFound("booking not found"), wantCode: http.StatusNotFound, wantMsg: "booking not found"},
		{name: "conflict", err: failure.Conflict("booking is already paid"), wantCode: http.StatusConflict, wantMsg: "booking is already paid"},
		{name: "internal", err: failure.InternalError(errors.New("pq: connection refused")), wantCode: http.StatusInternalServerError, wantMsg: "pq: connection refused"},
		{name: "bad gateway", err: failure.BadGateway("payment gateway unavailable"), wantCode: http.StatusBadGateway, wantMsg: "payment gateway unavailable"},
		{name: "forbidden error", err: failure.ForbiddenError, wantCode: http.StatusForbidden, wantMsg: "You don't have the required permissions"},
		{name: "restricted", err: failure.ResourceRestrictedError, wantCode: http.StatusForbidden, wantMsg: "You don't have permission to access this resource"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Error(t, tt.err)

			var fail *failure.Failure
			require.ErrorAs(t, tt.err, &fail)
			assert.Equal(t, tt.wantCode, fail.Code)
			assert.Equal(t, tt.wantMsg, tt.err.Error())
		})
	}
}

func TestNilErrorsStayNil(t *testing.T) {
	assert.NoError(t, failure.BadRequest(nil))
	assert.NoError(t, failure.InternalError(nil))
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "failure", err: failure.NotFound("offer not found"), want: http.StatusNotFound},
		{name: "wrapped failure", err: fmt.Errorf("settle payment: %w", failure.Conflict("payment already settled")), want: http.StatusConflict},
		{name: "plain error", err: errors.New("boom"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, failure.GetCode(tt.err))
		})
	}
}

func TestHasCode(t *testing.T) {
	err := fmt.Errorf("find booking: %w", failure.NotFound("booking not found"))

	assert.True(t, failure.HasCode(err, http.StatusNotFound))
	assert.False(t, failure.HasCode(err, http.StatusConflict))
	assert.False(t, failure.HasCode(errors.New("boom"), http.StatusNotFound))
	assert.False(t, failure.HasCode(nil, http.StatusNotFound))
}
