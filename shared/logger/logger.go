package logger

import (
	"jumuia/config"
	"jumuia/shared/constant"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func development(cfg *config.Config) bool {
	return cfg == nil || cfg.Server.Env == "" || cfg.Server.Env == constant.ServerEnvDevelopment
}

// InitLogger writes human readable output in development and JSON lines tagged with the
// app name and environment elsewhere.
func InitLogger(cfg *config.Config) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.TraceLevel)

	if development(cfg) {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	} else {
		log.Logger = zerolog.New(os.Stdout).With().
			Timestamp().
			Str("app", cfg.App.Name).
			Str("env", cfg.Server.Env).
			Logger()
	}

	log.Trace().Msg("Zerolog initialized.")
}

// ErrorWithStack logs err with the stack of the caller.
func ErrorWithStack(err error) {
	log.Error().Msgf("%+v", errors.WithStack(err))
}

// SetLogLevel applies SERVER_LOG_LEVEL. When it is unset or unknown, development logs at debug
// and every other environment at info.
func SetLogLevel(cfg *config.Config) {
	fallback := zerolog.InfoLevel
	if development(cfg) {
		fallback = zerolog.DebugLevel
	}

	level, err := zerolog.ParseLevel(cfg.Server.LogLevel)
	if err != nil || cfg.Server.LogLevel == "" {
		log.Warn().Str("requested", cfg.Server.LogLevel).Str("loglevel", fallback.String()).Msg("Log level not set or unknown, using default")

		level = fallback
	}

	zerolog.SetGlobalLevel(level)
}
