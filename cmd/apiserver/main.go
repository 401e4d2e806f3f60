// Command apiserver runs the KeyRank-Intelligence HTTP API.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/turtacn/KeyRank-Intelligence/internal/application/bulk"
	"github.com/turtacn/KeyRank-Intelligence/internal/application/competitor"
	"github.com/turtacn/KeyRank-Intelligence/internal/application/expansion"
	"github.com/turtacn/KeyRank-Intelligence/internal/application/scoring"
	"github.com/turtacn/KeyRank-Intelligence/internal/config"
	"github.com/turtacn/KeyRank-Intelligence/internal/infrastructure/autocomplete"
	"github.com/turtacn/KeyRank-Intelligence/internal/infrastructure/database/postgres"
	"github.com/turtacn/KeyRank-Intelligence/internal/infrastructure/database/postgres/repositories"
	"github.com/turtacn/KeyRank-Intelligence/internal/infrastructure/database/redis"
	"github.com/turtacn/KeyRank-Intelligence/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/KeyRank-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/KeyRank-Intelligence/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/KeyRank-Intelligence/internal/infrastructure/rawfeed"
	"github.com/turtacn/KeyRank-Intelligence/internal/infrastructure/storage/minio"
	httpserver "github.com/turtacn/KeyRank-Intelligence/internal/interfaces/http"
	"github.com/turtacn/KeyRank-Intelligence/internal/interfaces/http/handlers"
	"github.com/turtacn/KeyRank-Intelligence/internal/interfaces/http/middleware"
)

const defaultConfigPath = "configs/config.yaml"

// Build-time variables injected via ldflags.
var (
	version   = "dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

func main() {
	configPath := flag.String("config", defaultConfigPath, "path to the configuration file")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("keyrank-apiserver %s (commit: %s, built: %s)\n", version, gitCommit, buildDate)
		return
	}

	cfg := loadConfig(*configPath)

	logger, err := logging.NewLogger(logging.LogConfig{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		OutputPaths: []string{cfg.Log.Output},
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	logger.Info("starting apiserver",
		logging.String("version", version),
		logging.String("commit", gitCommit),
		logging.Int("port", cfg.Server.Port),
	)

	collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{
		Namespace:            cfg.Metrics.Namespace,
		EnableGoMetrics:      cfg.Metrics.EnableGoCollector,
		EnableProcessMetrics: cfg.Metrics.EnableProcessCollector,
	}, logger)
	if err != nil {
		logger.Error("init metrics collector", logging.Err(err))
		os.Exit(1)
	}
	appMetrics := prometheus.NewAppMetrics(collector)

	// Application services share one marketplace profile.
	ac := autocomplete.NewClient(cfg.Marketplace.Code, logger, appMetrics,
		autocomplete.WithTimeout(cfg.Expansion.FetchTimeout))
	market := ac.Marketplace()

	engine := scoring.NewEngine(logger, appMetrics,
		scoring.WithMarketplace(market.Code, market.Currency),
		scoring.WithTables(cfg.Scoring.Tables()),
	)

	var source expansion.SuggestionSource = ac
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = redis.NewClient(redis.Config{
			Addr:     cfg.Redis.Addr,
			Username: cfg.Redis.Username,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		}, logger)
		if err != nil {
			logger.Error("connect redis", logging.Err(err))
			os.Exit(1)
		}
		defer redisClient.Close()

		cache := redis.NewCache(redisClient, logger, appMetrics, redis.WithName("suggestions"))
		source = redis.NewCachedSource(ac, cache, market.Code, cfg.Redis.SuggestionTTL, logger)
	}

	// A configured export file pins the suggestion source offline, bypassing
	// both the live endpoint and the cache.
	if cfg.Expansion.FeedFile != "" {
		feed, ferr := rawfeed.LoadSource(cfg.Expansion.FeedFile, 0)
		if ferr != nil {
			logger.Error("load suggestion feed",
				logging.String("path", cfg.Expansion.FeedFile),
				logging.Err(ferr),
			)
			os.Exit(1)
		}
		logger.Info("suggestions served from portal export",
			logging.String("path", cfg.Expansion.FeedFile),
			logging.Int("keywords", feed.Len()),
		)
		source = feed
	}

	expanderOpts := []expansion.Option{expansion.WithSource(source)}
	if cfg.Expansion.ShuffleSeed != 0 {
		expanderOpts = append(expanderOpts,
			expansion.WithRand(rand.New(rand.NewSource(cfg.Expansion.ShuffleSeed))))
	}
	expander := expansion.NewExpander(logger, appMetrics, expanderOpts...)

	orchestrator := bulk.NewOrchestrator(engine, logger, appMetrics,
		bulk.WithConcurrency(cfg.Bulk.Concurrency),
		bulk.WithBatchLimit(cfg.Bulk.MaxBatch),
		bulk.WithMarketplace(market.Code, market.Currency),
	)

	aggregator := competitor.NewAggregator(expander, orchestrator, logger, appMetrics,
		competitor.WithMarketplace(market.Code, market.Currency),
	)

	// Postgres is the system of record for jobs and analysis history.
	conn, err := postgres.NewConnection(postgres.Config{
		Host:     cfg.Postgres.Host,
		Port:     cfg.Postgres.Port,
		Database: cfg.Postgres.Database,
		Username: cfg.Postgres.Username,
		Password: cfg.Postgres.Password,
		SSLMode:  cfg.Postgres.SSLMode,
		MaxConns: cfg.Postgres.MaxConns,
		MinConns: cfg.Postgres.MinConns,
	}, logger)
	if err != nil {
		logger.Error("connect postgres", logging.Err(err))
		os.Exit(1)
	}
	defer conn.Close()

	if err := runMigrations(conn, logger); err != nil {
		logger.Error("apply migrations", logging.Err(err))
		os.Exit(1)
	}

	jobs := repositories.NewJobRepository(conn.Pool(), logger, appMetrics)
	analyses := repositories.NewAnalysisRepository(conn.Pool(), logger, appMetrics)

	var producer *kafka.Producer
	if cfg.Kafka.Enabled {
		producer, err = kafka.NewProducer(kafka.ProducerConfig{
			Brokers:       cfg.Kafka.Brokers,
			RequestsTopic: cfg.Kafka.RequestsTopic,
			ResultsTopic:  cfg.Kafka.ResultsTopic,
		}, logger)
		if err != nil {
			logger.Error("init kafka producer", logging.Err(err))
			os.Exit(1)
		}
		defer producer.Close()
	}

	var minioClient *minio.Client
	var archive *minio.Archive
	if cfg.MinIO.Enabled {
		minioClient, err = minio.NewClient(minio.Config{
			Endpoint:      cfg.MinIO.Endpoint,
			AccessKey:     cfg.MinIO.AccessKey,
			SecretKey:     cfg.MinIO.SecretKey,
			Bucket:        cfg.MinIO.Bucket,
			UseSSL:        cfg.MinIO.UseSSL,
			PresignExpiry: cfg.MinIO.PresignExpiry,
		}, logger)
		if err != nil {
			logger.Error("init minio client", logging.Err(err))
			os.Exit(1)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := minioClient.EnsureBucket(ctx); err != nil {
			// The archive is a best-effort mirror; a missing bucket degrades
			// exports, it does not block the API.
			logger.Warn("ensure archive bucket", logging.Err(err))
		}
		cancel()
		archive = minio.NewArchive(minioClient, logger, minio.WithArchiveMetrics(appMetrics))
	}

	// Optional dependencies are passed as untyped nil so handlers can tell
	// "disabled" from "present".
	var publisher handlers.JobPublisher
	if producer != nil {
		publisher = producer
	}
	var reportArchive handlers.ReportArchive
	if archive != nil {
		reportArchive = archive
	}

	keywordHandler := handlers.NewKeywordHandler(engine, expander, orchestrator, jobs, publisher, logger,
		handlers.WithSuggestLimit(cfg.Expansion.DefaultLimit))
	analysisHandler := handlers.NewAnalysisHandler(aggregator, analyses, reportArchive, logger,
		handlers.WithCompetitorLimit(cfg.Expansion.DefaultLimit))
	rawFeedHandler := handlers.NewRawFeedHandler(logger)
	marketplaceHandler := handlers.NewMarketplaceHandler()
	healthHandler := handlers.NewHealthHandler(version, buildCheckers(conn, redisClient, minioClient)...)

	loggingMW := middleware.NewLoggingMiddleware(logger, appMetrics, middleware.DefaultLoggingConfig())

	var corsMW *middleware.CORSMiddleware
	if len(cfg.Server.CORSAllowedOrigins) > 0 {
		corsCfg := middleware.DefaultCORSConfig()
		corsCfg.AllowedOrigins = cfg.Server.CORSAllowedOrigins
		corsMW = middleware.NewCORSMiddleware(corsCfg)
	}

	var rateMW *middleware.RateLimitMiddleware
	if cfg.Server.RateLimitRPS > 0 {
		rateMW = middleware.NewRateLimitMiddleware(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.Server.RateLimitRPS,
			BurstSize:         cfg.Server.RateLimitBurst,
			SkipPaths:         []string{"/healthz", "/readyz", "/metrics"},
		})
		defer rateMW.Stop()
	}

	router := httpserver.NewRouter(httpserver.RouterConfig{
		KeywordHandler:      keywordHandler,
		AnalysisHandler:     analysisHandler,
		RawFeedHandler:      rawFeedHandler,
		MarketplaceHandler:  marketplaceHandler,
		HealthHandler:       healthHandler,
		CORSMiddleware:      corsMW,
		LoggingMiddleware:   loggingMW,
		RateLimitMiddleware: rateMW,
		MetricsCollector:    collector,
	})

	srv := httpserver.NewServer(httpserver.ServerConfig{
		Port:            cfg.Server.Port,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		IdleTimeout:     cfg.Server.IdleTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}, router, logger)

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("http server listening", logging.String("addr", srv.Addr()))
		serverErr <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		if err != nil {
			logger.Error("http server failed", logging.Err(err))
			os.Exit(1)
		}
	case sig := <-quit:
		logger.Info("shutting down", logging.String("signal", sig.String()))
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Stop(ctx); err != nil {
			logger.Error("graceful shutdown failed", logging.Err(err))
			os.Exit(1)
		}
	}
	logger.Info("apiserver stopped")
}

// loadConfig reads the file at path, falling back to environment-only
// configuration when the file does not exist.
func loadConfig(path string) *config.Config {
	if _, err := os.Stat(path); err != nil {
		cfg, envErr := config.LoadFromEnv()
		if envErr != nil {
			fmt.Fprintf(os.Stderr, "load config: %v\n", envErr)
			os.Exit(1)
		}
		return cfg
	}
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config %s: %v\n", path, err)
		os.Exit(1)
	}
	return cfg
}

// runMigrations brings the schema up to the bundled migration set.
func runMigrations(conn *postgres.Connection, logger logging.Logger) error {
	migrator, err := postgres.NewMigrator(conn, logger)
	if err != nil {
		return err
	}
	defer migrator.Close()
	return migrator.Up()
}
