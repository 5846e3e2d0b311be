package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// PostgresNode addresses one database pool.
type PostgresNode struct {
	Host     string `envconfig:"HOST"`
	Port     string `envconfig:"PORT"`
	Username string `envconfig:"USER"`
	Password string `envconfig:"PASSWORD"`
	Name     string `envconfig:"NAME"`
	Timezone string `envconfig:"TIMEZONE"`
	SSLMode  string `envconfig:"SSL_MODE"`
}

type Config struct {
	Server struct {
		Env      string `envconfig:"ENV"`
		LogLevel string `envconfig:"LOG_LEVEL"`
		Port     string `envconfig:"PORT"`
		Host     string `envconfig:"HOST"`
		Shutdown struct {
			CleanupPeriodSeconds int64 `envconfig:"CLEANUP_PERIOD_SECONDS"`
			GracePeriodSeconds   int64 `envconfig:"GRACE_PERIOD_SECONDS"`
		} `envconfig:"SHUTDOWN"`
	} `envconfig:"SERVER"`

	App struct {
		Name     string `envconfig:"APP_NAME"`
		Timezone string `envconfig:"TIMEZONE"`
		CORS     struct {
			AllowCredentials bool     `envconfig:"ALLOW_CREDENTIALS"`
			AllowedHeaders   []string `envconfig:"ALLOWED_HEADERS"`
			AllowedMethods   []string `envconfig:"ALLOWED_METHODS"`
			AllowedOrigins   []string `envconfig:"ALLOWED_ORIGINS"`
			Enable           bool     `envconfig:"ENABLE"`
			MaxAgeSeconds    int      `envconfig:"MAX_AGE_SECONDS"`
		} `envconfig:"CORS"`
		RateLimiter struct {
			Enable                 bool `envconfig:"ENABLE"`
			MaxRequests            int  `envconfig:"MAX_REQUESTS"`
			PublicWriteMaxRequests int  `envconfig:"PUBLIC_WRITE_MAX_REQUESTS"`
			WindowSeconds          int  `envconfig:"WINDOW_SECONDS"`
		} `envconfig:"RATE_LIMITER"`
		APIKey string `envconfig:"API_KEY"`
		// EmailDomain is the domain used when generating manager login emails.
		EmailDomain string `envconfig:"EMAIL_DOMAIN" default:"jumuiaresorts.com"`
	} `envconfig:"APP"`

	Cache struct {
		Redis struct {
			Primary struct {
				Host     string `envconfig:"HOST"`
				Port     string `envconfig:"PORT"`
				Password string `envconfig:"PASSWORD"`
				DB       int    `envconfig:"DB"`
			} `envconfig:"PRIMARY"`
		} `envconfig:"REDIS"`
		TTL int `envconfig:"TTL" default:"300"`
	} `envconfig:"CACHE"`

	JWT struct {
		AccessSecret     string `envconfig:"ACCESS_SECRET"`
		RefreshSecret    string `envconfig:"REFRESH_SECRET"`
		AccessExpireMin  int    `envconfig:"ACCESS_EXPIRE_MIN"`
		RefreshExpireMin int    `envconfig:"REFRESH_EXPIRE_MIN"`
	} `envconfig:"JWT"`

	DB struct {
		Postgres struct {
			MaxRetry       int          `envconfig:"MAX_RETRY"`
			RetryWaitTime  int          `envconfig:"RETRY_WAIT_TIME"`
			MigrationTable string       `envconfig:"MIGRATION_TABLE"`
			AutoMigrate    bool         `envconfig:"AUTO_MIGRATE"`
			Prefix         string       `envconfig:"PREFIX"`
			Read           PostgresNode `envconfig:"READ"`
			Write          PostgresNode `envconfig:"WRITE"`
		} `envconfig:"POSTGRES"`
	} `envconfig:"DB"`

	Kafka struct {
		Enable        bool     `envconfig:"ENABLE"`
		Brokers       []string `envconfig:"BROKERS"`
		ConsumerGroup string   `envconfig:"CONSUMER_GROUP"`
		Topic         string   `envconfig:"TOPIC" default:"booking.events"`
		SASL          struct {
			Username string `envconfig:"USERNAME"`
			Password string `envconfig:"PASSWORD"`
		} `envconfig:"SASL"`
	} `envconfig:"KAFKA"`

	Notification struct {
		AdminCopy string `envconfig:"ADMIN_COPY"`
		Inbox     struct {
			Limuru  string `envconfig:"LIMURU" default:"reservations.limuru@jumuiaresorts.com"`
			Kanamai string `envconfig:"KANAMAI" default:"reservations.kanamai@jumuiaresorts.com"`
			Kisumu  string `envconfig:"KISUMU" default:"reservations.kisumu@jumuiaresorts.com"`
		} `envconfig:"INBOX"`
	} `envconfig:"NOTIFICATION"`

	External struct {
		Otel struct {
			Endpoint    string  `envconfig:"ENDPOINT"`
			SampleRatio float64 `envconfig:"SAMPLE_RATIO" default:"1"`
		} `envconfig:"OTEL"`
		S3 struct {
			APIEndpoint     string `envconfig:"API_ENDPOINT"`
			AccessKeyID     string `envconfig:"ACCESS_KEY_ID"`
			SecretAccessKey string `envconfig:"SECRET_ACCESS_KEY"`
			BucketName      string `envconfig:"BUCKET_NAME"`
			PublicDomain    string `envconfig:"PUBLIC_DOMAIN"`
		} `envconfig:"S3"`
		Daraja struct {
			BaseURL           string `envconfig:"BASE_URL" default:"https://sandbox.safaricom.co.ke"`
			ConsumerKey       string `envconfig:"CONSUMER_KEY"`
			ConsumerSecret    string `envconfig:"CONSUMER_SECRET"`
			ShortCode         string `envconfig:"SHORT_CODE"`
			PassKey           string `envconfig:"PASS_KEY"`
			CallbackURL       string `envconfig:"CALLBACK_URL"`
			// CallbackToken is appended to CallbackURL and must come back on every callback.
			CallbackToken     string `envconfig:"CALLBACK_TOKEN"`
			TransactionType   string `envconfig:"TRANSACTION_TYPE" default:"CustomerPayBillOnline"`
			RequestsPerSecond int    `envconfig:"REQUESTS_PER_SECOND" default:"5"`
			TimeoutSeconds    int    `envconfig:"TIMEOUT_SECONDS" default:"30"`
		} `envconfig:"DARAJA"`
		EmailJS struct {
			BaseURL    string `envconfig:"BASE_URL" default:"https://api.emailjs.com"`
			ServiceID  string `envconfig:"SERVICE_ID"`
			PublicKey  string `envconfig:"PUBLIC_KEY"`
			PrivateKey string `envconfig:"PRIVATE_KEY"`
			Templates  struct {
				BookingCreated   string `envconfig:"BOOKING_CREATED"`
				PaymentConfirmed string `envconfig:"PAYMENT_CONFIRMED"`
				StatusChanged    string `envconfig:"STATUS_CHANGED"`
			} `envconfig:"TEMPLATES"`
		} `envconfig:"EMAILJS"`
		SMTP struct {
			Host     string `envconfig:"HOST"`
			Port     string `envconfig:"PORT"`
			Username string `envconfig:"USERNAME"`
			Password string `envconfig:"PASSWORD"`
			From     string `envconfig:"FROM"`
		} `envconfig:"SMTP"`
	}

	Metrics struct {
		Enable bool `envconfig:"ENABLE"`
	} `envconfig:"METRICS"`
}

var (
	conf Config
	once sync.Once
)

var errMissingSecret = errors.New("missing required secret")

// Load reads the optional dotenv files into the environment and decodes it into a Config.
// Variables already set in the environment win over the files.
func Load(files ...string) (Config, error) {
	var cfg Config

	if len(files) > 0 {
		if err := godotenv.Load(files...); err != nil {
			log.Warn().Err(err).Strs("files", files).Msg("Could not load .env file, continuing with existing environment variables")
		}
	}

	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, fmt.Errorf("process environment: %w", err)
	}

	return cfg, nil
}

// Validate rejects settings the service cannot run safely without. Development is exempt.
func (c *Config) Validate() error {
	if c.Server.Env == "" || c.Server.Env == "development" {
		return nil
	}

	var missing []string

	for name, value := range map[string]string{
		"JWT_ACCESS_SECRET":              c.JWT.AccessSecret,
		"JWT_REFRESH_SECRET":             c.JWT.RefreshSecret,
		"EXTERNAL_DARAJA_CALLBACK_TOKEN": c.External.Daraja.CallbackToken,
	} {
		if value == "" {
			missing = append(missing, name)
		}
	}

	if len(missing) > 0 {
		slices.Sort(missing)

		return fmt.Errorf("%w: %s", errMissingSecret, strings.Join(missing, ", "))
	}

	return nil
}

// Get returns the process-wide configuration, loading it from .env and the environment on
// first use. It exits when the environment cannot be decoded or fails Validate.
func Get() *Config {
	once.Do(func() {
		cfg, err := Load(".env")
		if err == nil {
			err = cfg.Validate()
		}

		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize configuration")
		}

		conf = cfg

		log.Info().Msg("Service configuration initialized successfully")
	})

	return &conf
}
