package postgres

//nolint:revive
import (
	"fmt"
	"hotel/config"
	"net"
	"net/url"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

// Connection pairs a read replica with the primary. Every row lock and every write goes through
// Write; Read only serves lookups outside transactions.
type Connection struct {
	Read  *sqlx.DB
	Write *sqlx.DB
}

func New(config *config.Config) *Connection {
	conn := &Connection{
		Read:  connect(config, "read", config.DB.Postgres.Read),
		Write: connect(config, "write", config.DB.Postgres.Write),
	}

	if conn.Read == nil || conn.Write == nil {
		log.Fatal().Int("attempts", config.DB.Postgres.MaxRetry).Msg("Could not connect to database")
	}

	return conn
}

func (c *Connection) Close() error {
	if err := c.Read.Close(); err != nil {
		return fmt.Errorf("failed to close read connection: %w", err)
	}

	if err := c.Write.Close(); err != nil {
		return fmt.Errorf("failed to close write connection: %w", err)
	}

	return nil
}

// DSN builds the lib/pq connection url for target, applying the database name prefix.
func DSN(config *config.Config, target config.PostgresTarget, params url.Values) string {
	query := url.Values{}
	query.Set("sslmode", target.SSLMode)

	if target.Timezone != "" {
		query.Set("timezone", target.Timezone)
	}

	for key, values := range params {
		for _, value := range values {
			query.Add(key, value)
		}
	}

	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(target.Username, target.Password),
		Host:     net.JoinHostPort(target.Host, target.Port),
		Path:     "/" + config.DB.Postgres.Prefix + target.Name,
		RawQuery: query.Encode(),
	}

	return dsn.String()
}

func connect(config *config.Config, name string, target config.PostgresTarget) *sqlx.DB {
	pool := config.DB.Postgres
	descriptor := DSN(config, target, nil)

	for retry := range pool.MaxRetry {
		sqlDB, err := sqlx.Connect("postgres", descriptor)
		if err == nil {
			log.
				Info().
				Str("name", name).
				Str("host", target.Host).
				Str("port", target.Port).
				Str("dbName", pool.Prefix+target.Name).
				Msg("Connected to database")

			sqlDB.SetMaxOpenConns(pool.MaxOpenConns)
			sqlDB.SetMaxIdleConns(pool.MaxIdleConns)
			sqlDB.SetConnMaxLifetime(time.Duration(pool.ConnMaxLifetimeSeconds) * time.Second)

			return sqlDB
		}

		log.
			Error().
			Err(err).
			Str("name", name).
			Str("host", target.Host).
			Int("attempt", retry+1).
			Msg("Failed connecting to database, retrying")

		time.Sleep(time.Duration(pool.RetryWaitTime) * time.Second)
	}

	return nil
}
