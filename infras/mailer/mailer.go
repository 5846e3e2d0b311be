package mailer

//go:generate go run go.uber.org/mock/mockgen -source=./mailer.go -destination=./mocks/mailer_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"jumuia/config"
	"jumuia/infras/metrics"
	"jumuia/infras/otel"
	"jumuia/shared/constant"
	"net"
	"net/smtp"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	senderName     = "Jumuia Resorts"
	metricsService = "smtp"
)

var ErrNotConfigured = errors.New("smtp is not configured")

// Mailer sends HTML email over SMTP. It is the fallback channel for notifications.
type Mailer interface {
	Send(ctx context.Context, to []string, subject, htmlBody string) error
}

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type smtpMailer struct {
	cfg  *config.Config
	otel otel.Otel
	send sendFunc
}

func New(cfg *config.Config, otel otel.Otel) Mailer {
	return &smtpMailer{
		cfg:  cfg,
		otel: otel,
		send: smtp.SendMail,
	}
}

func (m *smtpMailer) Send(ctx context.Context, to []string, subject, htmlBody string) (err error) {
	_, scope := m.otel.NewScope(ctx, constant.OtelExternalScopeName, constant.OtelExternalScopeName+".smtp.Send")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	smtpCfg := m.cfg.External.SMTP
	if smtpCfg.Host == "" || smtpCfg.Port == "" || smtpCfg.From == "" {
		return ErrNotConfigured
	}

	if len(to) == 0 {
		return errors.New("smtp: no recipients")
	}

	var auth smtp.Auth
	if smtpCfg.Username != "" {
		auth = smtp.PlainAuth("", smtpCfg.Username, smtpCfg.Password, smtpCfg.Host)
	}

	start := time.Now()

	err = m.send(net.JoinHostPort(smtpCfg.Host, smtpCfg.Port), auth, smtpCfg.From, to, buildMessage(smtpCfg.From, to, subject, htmlBody))

	status := 250
	if err != nil {
		status = 554
	}

	metrics.ObserveExternal(metricsService, "sendmail", status, time.Since(start))

	if err != nil {
		log.Error().Err(err).Strs("to", to).Str("subject", subject).Msg("failed to send email")

		return fmt.Errorf("smtp send: %w", err)
	}

	log.Info().Strs("to", to).Str("subject", subject).Msg("email sent over smtp")

	return nil
}

func buildMessage(from string, to []string, subject, htmlBody string) []byte {
	headers := map[string]string{
		"From":         fmt.Sprintf("%s <%s>", senderName, from),
		"To":           strings.Join(to, ","),
		"Subject":      subject,
		"MIME-Version": "1.0",
		"Content-Type": "text/html; charset=UTF-8",
		"X-Mailer":     "Jumuia-Mailer",
	}

	keys := make([]string, 0, len(headers))
	for key := range headers {
		keys = append(keys, key)
	}

	slices.Sort(keys)

	var builder strings.Builder
	for _, key := range keys {
		fmt.Fprintf(&builder, "%s: %s\r\n", key, headers[key])
	}

	builder.WriteString("\r\n")
	builder.WriteString(htmlBody)

	return []byte(builder.String())
}
