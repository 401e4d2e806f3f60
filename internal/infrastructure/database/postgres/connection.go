// Package postgres owns the analysis history store. The connection layer
// wraps a pgx pool with lifecycle logging and a bounded startup check; schema
// migrations are embedded in the binary and applied through the Migrator at
// boot.
package postgres

import (
	"context"
	"net"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/turtacn/KeyRank-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/KeyRank-Intelligence/pkg/errors"
)

// poolUsageWarnThreshold is the acquired/max ratio above which HealthCheck
// logs a capacity warning.
const poolUsageWarnThreshold = 0.8

// Config carries the connection settings for the postgres instance backing
// analysis history and bulk job state.
type Config struct {
	Host             string        `mapstructure:"host"`
	Port             int           `mapstructure:"port"`
	Database         string        `mapstructure:"database"`
	Username         string        `mapstructure:"username"`
	Password         string        `mapstructure:"password"`
	SSLMode          string        `mapstructure:"ssl_mode"`
	MaxConns         int32         `mapstructure:"max_conns"`
	MinConns         int32         `mapstructure:"min_conns"`
	MaxConnLifetime  time.Duration `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime  time.Duration `mapstructure:"max_conn_idle_time"`
	ConnectTimeout   time.Duration `mapstructure:"connect_timeout"`
	StatementTimeout time.Duration `mapstructure:"statement_timeout"`
	LockTimeout      time.Duration `mapstructure:"lock_timeout"`
}

func applyDefaults(cfg *Config) {
	if cfg.Host == "" {
		cfg.Host = "localhost"
	}
	if cfg.Port == 0 {
		cfg.Port = 5432
	}
	if cfg.Database == "" {
		cfg.Database = "keyrank"
	}
	if cfg.Username == "" {
		cfg.Username = "keyrank"
	}
	if cfg.SSLMode == "" {
		cfg.SSLMode = "disable"
	}
	if cfg.MaxConns == 0 {
		cfg.MaxConns = 25
	}
	if cfg.MinConns == 0 {
		cfg.MinConns = 5
	}
	if cfg.MaxConnLifetime == 0 {
		cfg.MaxConnLifetime = 30 * time.Minute
	}
	if cfg.MaxConnIdleTime == 0 {
		cfg.MaxConnIdleTime = 5 * time.Minute
	}
	if cfg.ConnectTimeout == 0 {
		cfg.ConnectTimeout = 5 * time.Second
	}
	if cfg.StatementTimeout == 0 {
		cfg.StatementTimeout = 30 * time.Second
	}
	if cfg.LockTimeout == 0 {
		cfg.LockTimeout = 10 * time.Second
	}
}

// buildDSN renders cfg as a postgres URL. statement_timeout and lock_timeout
// ride along as runtime parameters so every pooled session inherits them.
func buildDSN(cfg Config) string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(cfg.Username, cfg.Password),
		Host:   net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Path:   cfg.Database,
	}
	q := url.Values{}
	q.Set("sslmode", cfg.SSLMode)
	q.Set("statement_timeout", strconv.FormatInt(cfg.StatementTimeout.Milliseconds(), 10))
	q.Set("lock_timeout", strconv.FormatInt(cfg.LockTimeout.Milliseconds(), 10))
	u.RawQuery = q.Encode()
	return u.String()
}

// configurePool copies the pool sizing knobs onto the parsed pgx config.
// Zero values keep whatever ParseConfig derived.
func configurePool(poolCfg *pgxpool.Config, cfg Config) {
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}
	if cfg.MaxConnIdleTime > 0 {
		poolCfg.MaxConnIdleTime = cfg.MaxConnIdleTime
	}
	if cfg.ConnectTimeout > 0 {
		poolCfg.ConnConfig.ConnectTimeout = cfg.ConnectTimeout
	}
}

// Connection is the process-wide postgres handle. Repositories receive its
// pool; the connection itself only manages lifecycle and health.
type Connection struct {
	pool      *pgxpool.Pool
	logger    logging.Logger
	closeOnce sync.Once
}

// NewConnection opens a pgx pool and verifies it with a bounded ping before
// handing the connection out.
func NewConnection(cfg Config, logger logging.Logger) (*Connection, error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	applyDefaults(&cfg)

	poolCfg, err := pgxpool.ParseConfig(buildDSN(cfg))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "invalid postgres configuration")
	}
	configurePool(poolCfg, cfg)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "postgres pool construction failed")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "database connection failed")
	}

	logger.Info("postgres connection established",
		logging.String("host", cfg.Host),
		logging.Int("port", cfg.Port),
		logging.String("database", cfg.Database),
		logging.Int("max_conns", int(poolCfg.MaxConns)),
	)
	return &Connection{pool: pool, logger: logger}, nil
}

// Pool exposes the underlying pgx pool for repositories and the migrator.
func (c *Connection) Pool() *pgxpool.Pool {
	return c.pool
}

// Ping verifies the connection is alive. Readiness probes call this.
func (c *Connection) Ping(ctx context.Context) error {
	if err := c.pool.Ping(ctx); err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "postgres ping failed")
	}
	return nil
}

// HealthCheck pings the database and warns when the pool runs close to its
// connection ceiling.
func (c *Connection) HealthCheck(ctx context.Context) error {
	if err := c.Ping(ctx); err != nil {
		return err
	}
	stat := c.pool.Stat()
	if limit := stat.MaxConns(); limit > 0 {
		usage := float64(stat.AcquiredConns()) / float64(limit)
		if usage > poolUsageWarnThreshold {
			c.logger.Warn("postgres pool nearing capacity",
				logging.Int("acquired", int(stat.AcquiredConns())),
				logging.Int("max", int(limit)),
			)
		}
	}
	return nil
}

// Stat reports pool counters for health endpoints and gauges.
func (c *Connection) Stat() *pgxpool.Stat {
	return c.pool.Stat()
}

// Close releases the pool. Safe to call more than once.
func (c *Connection) Close() {
	c.closeOnce.Do(func() {
		c.pool.Close()
		c.logger.Info("postgres connection closed")
	})
}
