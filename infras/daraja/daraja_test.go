package daraja_test

import (
	"context"
	"encoding/json"
	"errors"
	"jumuia/config"
	"jumuia/infras/daraja"
	"jumuia/infras/otel/mocks"
	"jumuia/shared/cache"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type gateway struct {
	tokenCalls atomic.Int32
	lastPush   map[string]any
	pushCode   string
}

func (g *gateway) handler(t *testing.T) http.Handler {
	t.Helper()

	mux := http.NewServeMux()

	mux.HandleFunc("/oauth/v1/generate", func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "key" || pass != "secret" {
			w.WriteHeader(http.StatusUnauthorized)

			return
		}

		g.tokenCalls.Add(1)
		_, _ = w.Write([]byte(`{"access_token":"tok","expires_in":"3599"}`))
	})

	mux.HandleFunc("/mpesa/stkpush/v1/processrequest", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&g.lastPush))

		_, _ = w.Write([]byte(`{"MerchantRequestID":"m-1","CheckoutRequestID":"ws_CO_1","ResponseCode":"` + g.pushCode + `","ResponseDescription":"Success. Request accepted for processing"}`))
	})

	mux.HandleFunc("/mpesa/stkpushquery/v1/query", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"ResponseCode":"0","CheckoutRequestID":"ws_CO_1","ResultCode":"0","ResultDesc":"The service request is processed successfully."}`))
	})

	return mux
}

func newClient(t *testing.T, baseURL string) (daraja.Client, *miniredis.Miniredis) {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	cfg := &config.Config{}
	cfg.External.Daraja.BaseURL = baseURL
	cfg.External.Daraja.ConsumerKey = "key"
	cfg.External.Daraja.ConsumerSecret = "secret"
	cfg.External.Daraja.ShortCode = "174379"
	cfg.External.Daraja.PassKey = "passkey"
	cfg.External.Daraja.CallbackURL = "https://api.jumuiaresorts.com/v1/payments/mpesa/callback"
	cfg.External.Daraja.CallbackToken = "cb-secret"
	cfg.External.Daraja.TransactionType = "CustomerPayBillOnline"
	cfg.External.Daraja.RequestsPerSecond = 50

	return daraja.New(cfg, cache.NewRedisCache(client, mocks.NewOtel()), mocks.NewOtel()), server
}

func TestPasswordAndTimestamp(t *testing.T) {
	assert.Equal(t, "MTc0Mzc5cGFzc2tleTIwMjQwMTE1MTAzMDAw", daraja.Password("174379", "passkey", "20240115103000"))
	assert.Equal(t, "20240115103000", daraja.Timestamp(time.Date(2024, 1, 15, 7, 30, 0, 0, time.UTC)))
}

func TestCallbackURL(t *testing.T) {
	base := "https://api.jumuiaresorts.com/v1/payments/mpesa/callback"

	assert.Equal(t, base, daraja.CallbackURL(base, ""))
	assert.Equal(t, base+"?token=a%2Bb%26c", daraja.CallbackURL(base, "a+b&c"))
	assert.Equal(t, base+"?src=daraja&token=x", daraja.CallbackURL(base+"?src=daraja", "x"))
}

func TestClient_STKPush(t *testing.T) {
	gw := &gateway{pushCode: "0"}
	srv := httptest.NewServer(gw.handler(t))
	defer srv.Close()

	client, redisServer := newClient(t, srv.URL)

	res, err := client.STKPush(context.Background(), daraja.STKPushRequest{
		PhoneNumber:      "254712345678",
		Amount:           decimal.RequireFromString("1500"),
		AccountReference: "WEB-123456789",
		TransactionDesc:  "Jumuia booking",
	})
	require.NoError(t, err)
	assert.Equal(t, "ws_CO_1", res.CheckoutRequestID)

	assert.Equal(t, float64(1500), gw.lastPush["Amount"])
	assert.Equal(t, "https://api.jumuiaresorts.com/v1/payments/mpesa/callback?token=cb-secret", gw.lastPush["CallBackURL"])
	assert.Equal(t, "254712345678", gw.lastPush["PartyA"])
	assert.Equal(t, "174379", gw.lastPush["PartyB"])

	timestamp, _ := gw.lastPush["Timestamp"].(string)
	assert.Len(t, timestamp, 14)
	assert.Equal(t, daraja.Password("174379", "passkey", timestamp), gw.lastPush["Password"])

	assert.True(t, redisServer.Exists("daraja:token"))

	_, err = client.STKQuery(context.Background(), "ws_CO_1")
	require.NoError(t, err)
	assert.Equal(t, int32(1), gw.tokenCalls.Load())
}

func TestClient_STKPushRejected(t *testing.T) {
	gw := &gateway{pushCode: "1"}
	srv := httptest.NewServer(gw.handler(t))
	defer srv.Close()

	client, _ := newClient(t, srv.URL)

	_, err := client.STKPush(context.Background(), daraja.STKPushRequest{PhoneNumber: "254712345678", Amount: decimal.NewFromInt(10)})
	assert.True(t, errors.Is(err, daraja.ErrRejected))
}

func TestClient_STKQuery(t *testing.T) {
	gw := &gateway{pushCode: "0"}
	srv := httptest.NewServer(gw.handler(t))
	defer srv.Close()

	client, _ := newClient(t, srv.URL)

	res, err := client.STKQuery(context.Background(), "ws_CO_1")
	require.NoError(t, err)
	assert.True(t, res.Completed())
}

func TestClient_GatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/oauth/v1/generate" {
			_, _ = w.Write([]byte(`{"access_token":"tok","expires_in":"3599"}`))

			return
		}

		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"requestId":"r-1","errorCode":"400.002.02","errorMessage":"Bad Request - Invalid PhoneNumber"}`))
	}))
	defer srv.Close()

	client, _ := newClient(t, srv.URL)

	_, err := client.STKPush(context.Background(), daraja.STKPushRequest{PhoneNumber: "254712345678", Amount: decimal.NewFromInt(10)})
	assert.True(t, errors.Is(err, daraja.ErrRejected))
}

func TestCallbackMetadata(t *testing.T) {
	raw := `{"Body":{"stkCallback":{"MerchantRequestID":"m-1","CheckoutRequestID":"ws_CO_1","ResultCode":0,"ResultDesc":"ok",
		"CallbackMetadata":{"Item":[{"Name":"Amount","Value":1500.00},{"Name":"MpesaReceiptNumber","Value":"NLJ7RT61SV"},
		{"Name":"Balance"},{"Name":"TransactionDate","Value":20240115103000},{"Name":"PhoneNumber","Value":254712345678}]}}}}`

	var callback daraja.Callback
	require.NoError(t, json.Unmarshal([]byte(raw), &callback))

	stk := callback.Body.StkCallback
	require.NotNil(t, stk)
	assert.True(t, stk.Succeeded())
	assert.Equal(t, "NLJ7RT61SV", stk.CallbackMetadata.String("MpesaReceiptNumber"))
	assert.Equal(t, "254712345678", stk.CallbackMetadata.String("PhoneNumber"))
	assert.Equal(t, "20240115103000", stk.CallbackMetadata.String("TransactionDate"))
	assert.True(t, decimal.NewFromInt(1500).Equal(stk.CallbackMetadata.Decimal("Amount")))
	assert.Equal(t, "", stk.CallbackMetadata.String("Balance"))
}
