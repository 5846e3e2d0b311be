package daraja

//go:generate go run go.uber.org/mock/mockgen -source=./daraja.go -destination=./mocks/daraja_mock.go -package=mocks

import (
	"bytes"
	"context"
	stdBase64 "encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"jumuia/config"
	"jumuia/infras/metrics"
	"jumuia/infras/otel"
	"jumuia/shared/cache"
	"jumuia/shared/constant"
	"jumuia/shared/timezone"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const (
	pathOAuth    = "/oauth/v1/generate?grant_type=client_credentials"
	pathSTKPush  = "/mpesa/stkpush/v1/processrequest"
	pathSTKQuery = "/mpesa/stkpushquery/v1/query"

	cacheKeyToken = "daraja:token"
	// tokenSkewSeconds expires the cached token before the gateway does.
	tokenSkewSeconds = 60

	// CallbackTokenParam carries the shared secret that proves a callback came from our own STK push.
	CallbackTokenParam = "token"

	metricsService = "daraja"
	errorBodyLimit = 4096
)

var (
	ErrUnauthorized = errors.New("daraja: unauthorized")
	ErrRejected     = errors.New("daraja: request rejected")
)

type Client interface {
	STKPush(ctx context.Context, req STKPushRequest) (STKPushResponse, error)
	STKQuery(ctx context.Context, checkoutRequestID string) (STKQueryResponse, error)
}

type clientImpl struct {
	cfg   *config.Config
	hc    *http.Client
	rl    *rate.Limiter
	cache cache.RedisCache
	otel  otel.Otel
	now   func() time.Time
}

func New(cfg *config.Config, redisCache cache.RedisCache, otel otel.Otel) Client {
	daraja := cfg.External.Daraja

	rps := daraja.RequestsPerSecond
	if rps <= 0 {
		rps = 5
	}

	timeout := daraja.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}

	return &clientImpl{
		cfg:   cfg,
		hc:    &http.Client{Timeout: time.Duration(timeout) * time.Second},
		rl:    rate.NewLimiter(rate.Limit(rps), rps),
		cache: redisCache,
		otel:  otel,
		now:   time.Now,
	}
}

// Password returns base64(shortcode + passkey + timestamp).
func Password(shortCode, passKey, timestamp string) string {
	return stdBase64.StdEncoding.EncodeToString([]byte(shortCode + passKey + timestamp))
}

// CallbackURL adds the shared callback token to base as the token query parameter.
func CallbackURL(base, token string) string {
	if token == "" {
		return base
	}

	u, err := url.Parse(base)
	if err != nil {
		return base
	}

	query := u.Query()
	query.Set(CallbackTokenParam, token)
	u.RawQuery = query.Encode()

	return u.String()
}

// Timestamp renders t as YYYYMMDDHHmmss in Africa/Nairobi.
func Timestamp(t time.Time) string {
	return t.In(timezone.Gateway()).Format(constant.DarajaTimeFmt)
}

func (c *clientImpl) credentials() (password, timestamp string) {
	timestamp = Timestamp(c.now())

	return Password(c.cfg.External.Daraja.ShortCode, c.cfg.External.Daraja.PassKey, timestamp), timestamp
}

func (c *clientImpl) STKPush(ctx context.Context, req STKPushRequest) (res STKPushResponse, err error) {
	ctx, scope := c.otel.NewScope(ctx, constant.OtelExternalScopeName, constant.OtelExternalScopeName+".daraja.STKPush")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	daraja := c.cfg.External.Daraja
	password, timestamp := c.credentials()

	body := stkPushBody{
		BusinessShortCode: daraja.ShortCode,
		Password:          password,
		Timestamp:         timestamp,
		TransactionType:   daraja.TransactionType,
		Amount:            req.Amount.IntPart(),
		PartyA:            req.PhoneNumber,
		PartyB:            daraja.ShortCode,
		PhoneNumber:       req.PhoneNumber,
		CallBackURL:       CallbackURL(daraja.CallbackURL, daraja.CallbackToken),
		AccountReference:  req.AccountReference,
		TransactionDesc:   req.TransactionDesc,
	}

	if err = c.post(ctx, "stkpush", pathSTKPush, body, &res); err != nil {
		return res, err
	}

	scope.SetAttribute("daraja.checkout_request_id", res.CheckoutRequestID)

	if !res.Accepted() {
		log.Warn().Str("code", res.ResponseCode).Str("description", res.ResponseDescription).Msg("stk push not accepted")

		return res, fmt.Errorf("%w: %s", ErrRejected, res.ResponseDescription)
	}

	return res, nil
}

func (c *clientImpl) STKQuery(ctx context.Context, checkoutRequestID string) (res STKQueryResponse, err error) {
	ctx, scope := c.otel.NewScope(ctx, constant.OtelExternalScopeName, constant.OtelExternalScopeName+".daraja.STKQuery")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	password, timestamp := c.credentials()

	body := stkQueryBody{
		BusinessShortCode: c.cfg.External.Daraja.ShortCode,
		Password:          password,
		Timestamp:         timestamp,
		CheckoutRequestID: checkoutRequestID,
	}

	if err = c.post(ctx, "stkpushquery", pathSTKQuery, body, &res); err != nil {
		return res, err
	}

	return res, nil
}

// token returns the cached OAuth token or fetches a new one.
func (c *clientImpl) token(ctx context.Context) (string, error) {
	var token string

	if err := c.cache.Get(ctx, cacheKeyToken, &token); err == nil && token != "" {
		return token, nil
	}

	daraja := c.cfg.External.Daraja

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url(pathOAuth), nil)
	if err != nil {
		return "", fmt.Errorf("failed to build token request: %w", err)
	}

	request.SetBasicAuth(daraja.ConsumerKey, daraja.ConsumerSecret)
	request.Header.Set(constant.RequestHeaderAccept, constant.ContentTypeJSON)

	var res tokenResponse
	if err = c.do(request, "oauth", &res); err != nil {
		return "", err
	}

	if res.AccessToken == "" {
		return "", fmt.Errorf("%w: empty access token", ErrUnauthorized)
	}

	ttl, err := parseExpiresIn(res.ExpiresIn)
	if err != nil {
		log.Warn().Err(err).Msg("daraja token expiry not parsable, not caching")

		return res.AccessToken, nil
	}

	if ttl > tokenSkewSeconds {
		if err := c.cache.Save(ctx, cacheKeyToken, res.AccessToken, ttl-tokenSkewSeconds); err != nil {
			log.Warn().Err(err).Msg("failed to cache daraja token")
		}
	}

	return res.AccessToken, nil
}

func (c *clientImpl) post(ctx context.Context, endpoint, path string, body, out any) error {
	token, err := c.token(ctx)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal %s request: %w", endpoint, err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url(path), bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", endpoint, err)
	}

	request.Header.Set(constant.RequestHeaderAuthorization, "Bearer "+token)
	request.Header.Set(constant.RequestHeaderContentType, constant.ContentTypeJSON)

	return c.do(request, endpoint, out)
}

// do sends one rate-limited request and decodes a 2xx JSON body into out.
func (c *clientImpl) do(request *http.Request, endpoint string, out any) error {
	ctx := request.Context()

	if err := c.rl.Wait(ctx); err != nil {
		return fmt.Errorf("daraja rate limiter: %w", err)
	}

	start := time.Now()

	resp, err := c.hc.Do(request)
	if err != nil {
		metrics.ObserveExternal(metricsService, endpoint, 0, time.Since(start))
		log.Error().Err(err).Str("endpoint", endpoint).Msg("daraja request failed")

		return fmt.Errorf("daraja %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	metrics.ObserveExternal(metricsService, endpoint, resp.StatusCode, time.Since(start))

	if resp.StatusCode == http.StatusUnauthorized {
		_ = c.cache.Delete(context.WithoutCancel(ctx), cacheKeyToken)

		return ErrUnauthorized
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))

		var gatewayErr errorResponse
		if json.Unmarshal(raw, &gatewayErr) == nil && gatewayErr.ErrorMessage != "" {
			log.Error().Str("endpoint", endpoint).Str("code", gatewayErr.ErrorCode).Str("request_id", gatewayErr.RequestID).
				Msg(gatewayErr.ErrorMessage)

			return fmt.Errorf("%w: %s %s", ErrRejected, gatewayErr.ErrorCode, gatewayErr.ErrorMessage)
		}

		log.Error().Str("endpoint", endpoint).Int("status", resp.StatusCode).Str("body", strings.TrimSpace(string(raw))).
			Msg("daraja returned an error status")

		return fmt.Errorf("daraja %s: bad status %d", endpoint, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode daraja %s response: %w", endpoint, err)
	}

	return nil
}

func (c *clientImpl) url(path string) string {
	return strings.TrimSuffix(c.cfg.External.Daraja.BaseURL, "/") + path
}
