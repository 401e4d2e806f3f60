package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// envPrefix is the prefix for environment overrides, e.g. KEYRANK_SERVER_PORT
// overrides server.port.
const envPrefix = "KEYRANK"

// envKeys registers every leaf key with viper.  Unmarshal only consults the
// environment for keys viper already knows about, so without this list an
// env-only deployment (no config file) would silently ignore its overrides.
var envKeys = []string{
	"server.port", "server.read_timeout", "server.write_timeout",
	"server.idle_timeout", "server.shutdown_timeout",
	"server.cors_allowed_origins", "server.rate_limit_rps", "server.rate_limit_burst",
	"marketplace.code",
	"expansion.default_limit", "expansion.fetch_timeout", "expansion.shuffle_seed", "expansion.feed_file",
	"bulk.concurrency", "bulk.max_batch",
	"redis.enabled", "redis.addr", "redis.username", "redis.password",
	"redis.db", "redis.pool_size", "redis.suggestion_ttl",
	"postgres.host", "postgres.port", "postgres.database", "postgres.username",
	"postgres.password", "postgres.ssl_mode", "postgres.max_conns", "postgres.min_conns",
	"kafka.enabled", "kafka.brokers", "kafka.group_id",
	"kafka.requests_topic", "kafka.results_topic",
	"minio.enabled", "minio.endpoint", "minio.access_key", "minio.secret_key",
	"minio.bucket", "minio.use_ssl", "minio.presign_expiry",
	"log.level", "log.format", "log.output",
	"metrics.namespace", "metrics.enable_go_collector", "metrics.enable_process_collector",
}

// newViper builds a viper instance wired for YAML files plus KEYRANK_ env
// overrides with "." replaced by "_" in key paths.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range envKeys {
		_ = v.BindEnv(key)
	}
	return v
}

// Load reads the YAML file at configPath, applies environment overrides,
// defaults and validation, and returns the finished Config.
func Load(configPath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", configPath, err)
	}
	return unmarshalAndFinalize(v)
}

// LoadFromEnv builds a Config from environment variables and defaults alone,
// for deployments that ship no config file.
func LoadFromEnv() (*Config, error) {
	return unmarshalAndFinalize(newViper())
}

func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	ApplyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &cfg, nil
}

// MustLoad is Load that panics on failure, for use in main() where a broken
// configuration should stop the process immediately.
func MustLoad(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		panic(err)
	}
	return cfg
}

// Watch reloads the file at configPath on every filesystem change and hands
// each successfully validated Config to onChange.  Reloads that fail to
// parse or validate are dropped so a half-written file never replaces a
// working configuration.
func Watch(configPath string, onChange func(*Config)) error {
	v := newViper()
	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config %s: %w", configPath, err)
	}
	v.OnConfigChange(func(_ fsnotify.Event) {
		cfg, err := unmarshalAndFinalize(v)
		if err != nil {
			return
		}
		onChange(cfg)
	})
	v.WatchConfig()
	return nil
}
