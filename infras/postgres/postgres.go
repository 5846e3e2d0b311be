package postgres

//nolint:revive
import (
	"context"
	"errors"
	"fmt"
	"jumuia/config"
	"net"
	"net/url"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const (
	postgresMaxIdleConnection = 10
	postgresMaxOpenConnection = 10
	postgresConnMaxLifetime   = 30 * time.Minute
)

type Connection struct {
	Read  *sqlx.DB
	Write *sqlx.DB
}

var errNotConnected = errors.New("database connection is not established")

// New opens the read and write pools. It exits the process when either pool cannot connect
// within the configured retries.
func New(cfg *config.Config) *Connection {
	conn := &Connection{
		Read:  connect(cfg, "read", cfg.DB.Postgres.Read),
		Write: connect(cfg, "write", cfg.DB.Postgres.Write),
	}

	if conn.Read == nil || conn.Write == nil {
		log.Fatal().Msg("Failed to connect to postgres")
	}

	return conn
}

// Ping checks both pools; it backs the /health endpoint.
func (c *Connection) Ping(ctx context.Context) error {
	if c == nil || c.Read == nil || c.Write == nil {
		return errNotConnected
	}

	if err := c.Write.PingContext(ctx); err != nil {
		return fmt.Errorf("write pool: %w", err)
	}

	if err := c.Read.PingContext(ctx); err != nil {
		return fmt.Errorf("read pool: %w", err)
	}

	return nil
}

func (c *Connection) Close() error {
	return errors.Join(c.Write.Close(), c.Read.Close())
}

// DatabaseName applies the optional environment prefix, e.g. "staging_" + "jumuia".
func DatabaseName(cfg *config.Config, base string) string {
	return cfg.DB.Postgres.Prefix + base
}

// DSN renders node as a postgres:// URL. Credentials are escaped, and extra is merged
// into the query after sslmode and timezone.
func DSN(cfg *config.Config, node config.PostgresNode, extra url.Values) string {
	query := url.Values{}
	query.Set("sslmode", node.SSLMode)

	if node.Timezone != "" {
		query.Set("timezone", node.Timezone)
	}

	for key, values := range extra {
		query[key] = values
	}

	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(node.Username, node.Password),
		Host:     net.JoinHostPort(node.Host, node.Port),
		Path:     DatabaseName(cfg, node.Name),
		RawQuery: query.Encode(),
	}

	return dsn.String()
}

func connect(cfg *config.Config, name string, node config.PostgresNode) *sqlx.DB {
	dsn := DSN(cfg, node, nil)
	maxRetry := max(cfg.DB.Postgres.MaxRetry, 1)
	wait := time.Duration(cfg.DB.Postgres.RetryWaitTime) * time.Second

	logFields := log.With().
		Str("name", name).
		Str("host", node.Host).
		Str("port", node.Port).
		Str("dbName", DatabaseName(cfg, node.Name)).
		Logger()

	for attempt := 1; attempt <= maxRetry; attempt++ {
		db, err := sqlx.Connect("postgres", dsn)
		if err == nil {
			db.SetMaxIdleConns(postgresMaxIdleConnection)
			db.SetMaxOpenConns(postgresMaxOpenConnection)
			db.SetConnMaxLifetime(postgresConnMaxLifetime)

			logFields.Info().Msg("Connected to database")

			return db
		}

		logFields.Error().Err(err).Int("attempt", attempt).Msg("Failed connecting to database, retrying")

		time.Sleep(wait)
	}

	logFields.Error().Int("maxRetry", maxRetry).Msg("Giving up connecting to database")

	return nil
}
