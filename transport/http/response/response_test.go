package response_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"jumuia/shared/failure"
	"jumuia/transport/http/response"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{
			name:     "failure keeps its message",
			err:      failure.NotFound("booking not found"),
			wantCode: http.StatusNotFound,
			wantMsg:  "booking not found",
		},
		{
			name:     "wrapped failure",
			err:      fmt.Errorf("handler: %w", failure.Conflict("booking is already paid")),
			wantCode: http.StatusConflict,
			wantMsg:  "booking is already paid",
		},
		{
			name:     "internal error is masked",
			err:      fmt.Errorf("failed to get booking: %w", errors.New("pq: connection refused")),
			wantCode: http.StatusInternalServerError,
			wantMsg:  "Internal Server Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()

			response.WithError(rec, tt.err)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body response.Error
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.wantMsg, *body.Error)
		})
	}
}

func TestWithJSONAndPayload(t *testing.T) {
	rec := httptest.NewRecorder()
	response.WithJSON(rec, http.StatusOK, map[string]string{"bookingId": "BK-LIM-000001"})
	assert.JSONEq(t, `{"data":{"bookingId":"BK-LIM-000001"}}`, rec.Body.String())

	rec = httptest.NewRecorder()
	response.WithPayload(rec, http.StatusOK, map[string]any{"ResultCode": 0, "ResultDesc": "Accepted"})
	assert.JSONEq(t, `{"ResultCode":0,"ResultDesc":"Accepted"}`, rec.Body.String())
}

func TestWithRequestLimitExceeded(t *testing.T) {
	rec := httptest.NewRecorder()

	response.WithRequestLimitExceeded(rec, 60)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
	assert.JSONEq(t, `{"message":"REQUEST LIMIT EXCEEDED"}`, rec.Body.String())
}
