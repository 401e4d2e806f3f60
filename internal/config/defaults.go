package config

import "time"

// ─────────────────────────────────────────────────────────────────────────────
// Default value constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	// Server section
	DefaultServerPort      = 8080
	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
	DefaultRateLimitBurst  = 20

	// Marketplace section
	DefaultMarketplaceCode = "in"

	// Expansion section
	DefaultExpansionLimit = 20
	DefaultFetchTimeout   = 10 * time.Second

	// Bulk section
	DefaultBulkConcurrency = 5
	DefaultBulkMaxBatch    = 100

	// Redis section
	DefaultRedisAddr     = "localhost:6379"
	DefaultSuggestionTTL = 30 * time.Minute

	// Postgres section
	DefaultPostgresHost     = "localhost"
	DefaultPostgresPort     = 5432
	DefaultPostgresDatabase = "keyrank"
	DefaultPostgresUser     = "keyrank"
	DefaultPostgresSSLMode  = "disable"
	DefaultPostgresMaxConns = 25
	DefaultPostgresMinConns = 2

	// Kafka section
	DefaultKafkaGroupID       = "keyrank-workers"
	DefaultKafkaRequestsTopic = "keyrank.bulk.requests"
	DefaultKafkaResultsTopic  = "keyrank.bulk.results"

	// MinIO section
	DefaultMinIOBucket    = "keyrank-reports"
	DefaultPresignExpiry  = 15 * time.Minute

	// Log section
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
	DefaultLogOutput = "stdout"

	// Metrics section
	DefaultMetricsNamespace = "keyrank"
)

// ApplyDefaults fills every zero-valued field that has a platform default.
// It never overrides a value the operator set explicitly.
func ApplyDefaults(c *Config) {
	// Server
	if c.Server.Port == 0 {
		c.Server.Port = DefaultServerPort
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = DefaultReadTimeout
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = DefaultWriteTimeout
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = DefaultIdleTimeout
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if c.Server.RateLimitRPS > 0 && c.Server.RateLimitBurst == 0 {
		c.Server.RateLimitBurst = DefaultRateLimitBurst
	}

	// Marketplace
	if c.Marketplace.Code == "" {
		c.Marketplace.Code = DefaultMarketplaceCode
	}

	// Expansion
	if c.Expansion.DefaultLimit == 0 {
		c.Expansion.DefaultLimit = DefaultExpansionLimit
	}
	if c.Expansion.FetchTimeout == 0 {
		c.Expansion.FetchTimeout = DefaultFetchTimeout
	}

	// Bulk
	if c.Bulk.Concurrency == 0 {
		c.Bulk.Concurrency = DefaultBulkConcurrency
	}
	if c.Bulk.MaxBatch == 0 {
		c.Bulk.MaxBatch = DefaultBulkMaxBatch
	}

	// Redis
	if c.Redis.Addr == "" {
		c.Redis.Addr = DefaultRedisAddr
	}
	if c.Redis.SuggestionTTL == 0 {
		c.Redis.SuggestionTTL = DefaultSuggestionTTL
	}

	// Postgres
	if c.Postgres.Host == "" {
		c.Postgres.Host = DefaultPostgresHost
	}
	if c.Postgres.Port == 0 {
		c.Postgres.Port = DefaultPostgresPort
	}
	if c.Postgres.Database == "" {
		c.Postgres.Database = DefaultPostgresDatabase
	}
	if c.Postgres.Username == "" {
		c.Postgres.Username = DefaultPostgresUser
	}
	if c.Postgres.SSLMode == "" {
		c.Postgres.SSLMode = DefaultPostgresSSLMode
	}
	if c.Postgres.MaxConns == 0 {
		c.Postgres.MaxConns = DefaultPostgresMaxConns
	}
	if c.Postgres.MinConns == 0 {
		c.Postgres.MinConns = DefaultPostgresMinConns
	}

	// Kafka
	if c.Kafka.GroupID == "" {
		c.Kafka.GroupID = DefaultKafkaGroupID
	}
	if c.Kafka.RequestsTopic == "" {
		c.Kafka.RequestsTopic = DefaultKafkaRequestsTopic
	}
	if c.Kafka.ResultsTopic == "" {
		c.Kafka.ResultsTopic = DefaultKafkaResultsTopic
	}

	// MinIO
	if c.MinIO.Bucket == "" {
		c.MinIO.Bucket = DefaultMinIOBucket
	}
	if c.MinIO.PresignExpiry == 0 {
		c.MinIO.PresignExpiry = DefaultPresignExpiry
	}

	// Log
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}
	if c.Log.Output == "" {
		c.Log.Output = DefaultLogOutput
	}

	// Metrics
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultMetricsNamespace
	}
}
