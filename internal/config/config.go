// Package config provides configuration loading, defaults, and validation for
// the KeyRank-Intelligence platform.  Configuration is read from a YAML file
// and overridable through KEYRANK_-prefixed environment variables; every
// section maps onto one infrastructure component or application service.
package config

import (
	"fmt"
	"time"

	"github.com/turtacn/KeyRank-Intelligence/internal/application/scoring"
	ktypes "github.com/turtacn/KeyRank-Intelligence/pkg/types/keyword"
)

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`

	// CORSAllowedOrigins lists the origins the browser may call the API from.
	// An empty list keeps CORS disabled.
	CORSAllowedOrigins []string `mapstructure:"cors_allowed_origins"`

	// RateLimitRPS and RateLimitBurst bound per-client request rates.
	// A zero RPS disables rate limiting.
	RateLimitRPS   float64 `mapstructure:"rate_limit_rps"`
	RateLimitBurst int     `mapstructure:"rate_limit_burst"`
}

// MarketplaceConfig selects which marketplace the autocomplete client and
// scoring engine operate against.
type MarketplaceConfig struct {
	// Code is the lowercase country code, e.g. "in" or "us".
	Code string `mapstructure:"code"`
}

// ExpansionConfig tunes the suggestion expander.
type ExpansionConfig struct {
	// DefaultLimit applies when a request leaves the suggestion limit unset.
	DefaultLimit int `mapstructure:"default_limit"`

	// FetchTimeout bounds one autocomplete round trip.
	FetchTimeout time.Duration `mapstructure:"fetch_timeout"`

	// ShuffleSeed pins the variant shuffle when non-zero; zero seeds from the
	// clock so repeated identical requests sample different template variants.
	ShuffleSeed int64 `mapstructure:"shuffle_seed"`

	// FeedFile points at a saved portal export. When set, suggestions are
	// served from the export instead of the live completion endpoint.
	FeedFile string `mapstructure:"feed_file"`
}

// BulkConfig tunes the bulk orchestrator.
type BulkConfig struct {
	// Concurrency caps simultaneous in-flight scoring calls per batch.
	Concurrency int `mapstructure:"concurrency"`

	// MaxBatch caps the keyword count accepted by one bulk request.
	MaxBatch int `mapstructure:"max_batch"`
}

// ScoringConfig recalibrates the engine tables without touching algorithm
// code.  Entries are keyed by category name and merged over the built-in
// defaults; absent categories keep their shipped values.
type ScoringConfig struct {
	CPC      map[string]CPCRangeConfig      `mapstructure:"cpc"`
	Volume   map[string]VolumeProfileConfig `mapstructure:"volume"`
	Seasonal map[string][]float64           `mapstructure:"seasonal"`
}

// CPCRangeConfig overrides one category's bid range.
type CPCRangeConfig struct {
	Min float64 `mapstructure:"min"`
	Max float64 `mapstructure:"max"`
}

// VolumeProfileConfig overrides one category's demand profile.
type VolumeProfileConfig struct {
	Base       int     `mapstructure:"base"`
	Multiplier float64 `mapstructure:"multiplier"`
}

// Tables merges the configured overrides over the engine defaults.
func (c ScoringConfig) Tables() scoring.Tables {
	t := scoring.DefaultTables()
	for name, r := range c.CPC {
		t.CPC[ktypes.Category(name)] = scoring.CPCRange{Min: r.Min, Max: r.Max}
	}
	for name, p := range c.Volume {
		t.Volume[ktypes.Category(name)] = scoring.VolumeProfile{Base: p.Base, Multiplier: p.Multiplier}
	}
	for name, curve := range c.Seasonal {
		var slots [12]float64
		copy(slots[:], curve)
		t.Seasonal[ktypes.Category(name)] = slots
	}
	return t
}

// RedisConfig controls the suggestion cache.  The cache is optional: with
// Enabled false the expander fetches straight from the autocomplete source.
type RedisConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	Addr          string        `mapstructure:"addr"`
	Username      string        `mapstructure:"username"`
	Password      string        `mapstructure:"password"`
	DB            int           `mapstructure:"db"`
	PoolSize      int           `mapstructure:"pool_size"`
	SuggestionTTL time.Duration `mapstructure:"suggestion_ttl"`
}

// PostgresConfig controls the analysis history store.
type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Database string `mapstructure:"database"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	SSLMode  string `mapstructure:"ssl_mode"`
	MaxConns int32  `mapstructure:"max_conns"`
	MinConns int32  `mapstructure:"min_conns"`
}

// KafkaConfig controls the async bulk job pipeline.  Optional: with Enabled
// false the async bulk endpoint responds 501 and the worker refuses to start.
type KafkaConfig struct {
	Enabled       bool     `mapstructure:"enabled"`
	Brokers       []string `mapstructure:"brokers"`
	GroupID       string   `mapstructure:"group_id"`
	RequestsTopic string   `mapstructure:"requests_topic"`
	ResultsTopic  string   `mapstructure:"results_topic"`
}

// MinIOConfig controls the competitor report archive.  Optional: with
// Enabled false the export endpoint responds 501.
type MinIOConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	Endpoint      string        `mapstructure:"endpoint"`
	AccessKey     string        `mapstructure:"access_key"`
	SecretKey     string        `mapstructure:"secret_key"`
	Bucket        string        `mapstructure:"bucket"`
	UseSSL        bool          `mapstructure:"use_ssl"`
	PresignExpiry time.Duration `mapstructure:"presign_expiry"`
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// MetricsConfig controls the prometheus collector.
type MetricsConfig struct {
	Namespace              string `mapstructure:"namespace"`
	EnableGoCollector      bool   `mapstructure:"enable_go_collector"`
	EnableProcessCollector bool   `mapstructure:"enable_process_collector"`
}

// Config is the root configuration document.
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Marketplace MarketplaceConfig `mapstructure:"marketplace"`
	Expansion   ExpansionConfig   `mapstructure:"expansion"`
	Bulk        BulkConfig        `mapstructure:"bulk"`
	Scoring     ScoringConfig     `mapstructure:"scoring"`
	Redis       RedisConfig       `mapstructure:"redis"`
	Postgres    PostgresConfig    `mapstructure:"postgres"`
	Kafka       KafkaConfig       `mapstructure:"kafka"`
	MinIO       MinIOConfig       `mapstructure:"minio"`
	Log         LogConfig         `mapstructure:"log"`
	Metrics     MetricsConfig     `mapstructure:"metrics"`
}

// Validate checks cross-field consistency after defaults have been applied.
// It reports the first violation found.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in [1,65535], got %d", c.Server.Port)
	}
	if c.Server.RateLimitRPS < 0 {
		return fmt.Errorf("server.rate_limit_rps must not be negative")
	}
	if c.Expansion.DefaultLimit < 1 {
		return fmt.Errorf("expansion.default_limit must be positive, got %d", c.Expansion.DefaultLimit)
	}
	if c.Expansion.FetchTimeout <= 0 {
		return fmt.Errorf("expansion.fetch_timeout must be positive")
	}
	if c.Bulk.Concurrency < 1 {
		return fmt.Errorf("bulk.concurrency must be positive, got %d", c.Bulk.Concurrency)
	}
	if c.Bulk.MaxBatch < 1 {
		return fmt.Errorf("bulk.max_batch must be positive, got %d", c.Bulk.MaxBatch)
	}
	for name, curve := range c.Scoring.Seasonal {
		if len(curve) != 12 {
			return fmt.Errorf("scoring.seasonal.%s must have 12 slots, got %d", name, len(curve))
		}
	}
	for name, r := range c.Scoring.CPC {
		if r.Min < 0 || r.Max < r.Min {
			return fmt.Errorf("scoring.cpc.%s requires 0 <= min <= max", name)
		}
	}
	if c.Kafka.Enabled {
		if len(c.Kafka.Brokers) == 0 {
			return fmt.Errorf("kafka.brokers required when kafka is enabled")
		}
		if c.Kafka.RequestsTopic == "" || c.Kafka.ResultsTopic == "" {
			return fmt.Errorf("kafka topics required when kafka is enabled")
		}
	}
	if c.MinIO.Enabled && c.MinIO.Endpoint == "" {
		return fmt.Errorf("minio.endpoint required when minio is enabled")
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("log.format must be json or console, got %q", c.Log.Format)
	}
	return nil
}
