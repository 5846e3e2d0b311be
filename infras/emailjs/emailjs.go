package emailjs

//go:generate go run go.uber.org/mock/mockgen -source=./emailjs.go -destination=./mocks/emailjs_mock.go -package=mocks

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"jumuia/config"
	"jumuia/infras/metrics"
	"jumuia/infras/otel"
	"jumuia/shared/constant"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	pathSend       = "/api/v1.0/email/send"
	metricsService = "emailjs"
	requestTimeout = 15 * time.Second
	errorBodyLimit = 1024
)

var (
	ErrNotConfigured   = errors.New("emailjs is not configured")
	ErrMissingTemplate = errors.New("emailjs template id is empty")
)

type Client interface {
	Send(ctx context.Context, templateID string, params map[string]string) error
}

type sendRequest struct {
	ServiceID      string            `json:"service_id"`
	TemplateID     string            `json:"template_id"`
	UserID         string            `json:"user_id"`
	AccessToken    string            `json:"accessToken,omitempty"`
	TemplateParams map[string]string `json:"template_params"`
}

type clientImpl struct {
	cfg  *config.Config
	hc   *http.Client
	otel otel.Otel
}

func New(cfg *config.Config, otel otel.Otel) Client {
	return &clientImpl{
		cfg:  cfg,
		hc:   &http.Client{Timeout: requestTimeout},
		otel: otel,
	}
}

// Send posts one templated email. EmailJS answers 200 with the text "OK" on success.
func (c *clientImpl) Send(ctx context.Context, templateID string, params map[string]string) (err error) {
	ctx, scope := c.otel.NewScope(ctx, constant.OtelExternalScopeName, constant.OtelExternalScopeName+".emailjs.Send")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	emailJS := c.cfg.External.EmailJS
	if emailJS.ServiceID == "" || emailJS.PublicKey == "" {
		return ErrNotConfigured
	}

	if templateID == "" {
		return ErrMissingTemplate
	}

	scope.SetAttribute("emailjs.template_id", templateID)

	payload, err := json.Marshal(sendRequest{
		ServiceID:      emailJS.ServiceID,
		TemplateID:     templateID,
		UserID:         emailJS.PublicKey,
		AccessToken:    emailJS.PrivateKey,
		TemplateParams: params,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal emailjs request: %w", err)
	}

	url := strings.TrimSuffix(emailJS.BaseURL, "/") + pathSend

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build emailjs request: %w", err)
	}

	request.Header.Set(constant.RequestHeaderContentType, constant.ContentTypeJSON)

	start := time.Now()

	resp, err := c.hc.Do(request)
	if err != nil {
		metrics.ObserveExternal(metricsService, "send", 0, time.Since(start))

		return fmt.Errorf("emailjs send: %w", err)
	}
	defer resp.Body.Close()

	metrics.ObserveExternal(metricsService, "send", resp.StatusCode, time.Since(start))

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))

		log.Error().Int("status", resp.StatusCode).Str("template", templateID).Str("body", strings.TrimSpace(string(raw))).
			Msg("emailjs rejected the request")

		return fmt.Errorf("emailjs send: status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	return nil
}
