package metrics_test

import (
	"errors"
	"jumuia/infras/metrics"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveExternal(t *testing.T) {
	before := testutil.ToFloat64(metrics.ExternalRequests.WithLabelValues("daraja", "stkpush", "200"))

	metrics.ObserveExternal("daraja", "stkpush", http.StatusOK, 120*time.Millisecond)

	after := testutil.ToFloat64(metrics.ExternalRequests.WithLabelValues("daraja", "stkpush", "200"))
	assert.Equal(t, before+1, after)
}

func TestObserveNotification(t *testing.T) {
	okBefore := testutil.ToFloat64(metrics.NotificationsSent.WithLabelValues("emailjs", "ok"))
	errBefore := testutil.ToFloat64(metrics.NotificationsSent.WithLabelValues("emailjs", "error"))

	metrics.ObserveNotification("emailjs", nil)
	metrics.ObserveNotification("emailjs", errors.New("boom"))

	assert.Equal(t, okBefore+1, testutil.ToFloat64(metrics.NotificationsSent.WithLabelValues("emailjs", "ok")))
	assert.Equal(t, errBefore+1, testutil.ToFloat64(metrics.NotificationsSent.WithLabelValues("emailjs", "error")))
}

func TestRegistryHandler(t *testing.T) {
	registry := metrics.New()

	metrics.ObserveHTTP("/v1/bookings", http.MethodGet, http.StatusOK, time.Millisecond)

	rec := httptest.NewRecorder()
	registry.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "jumuia_http_requests_total"))
}
