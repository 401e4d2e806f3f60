// Command worker consumes asynchronous bulk jobs from Kafka, scores them
// through the bulk orchestrator and records the outcome in Postgres. Results
// are additionally announced on the results topic for downstream consumers.
package main

import (
	"context"
	stderrors "errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/turtacn/KeyRank-Intelligence/internal/application/bulk"
	"github.com/turtacn/KeyRank-Intelligence/internal/application/scoring"
	"github.com/turtacn/KeyRank-Intelligence/internal/config"
	"github.com/turtacn/KeyRank-Intelligence/internal/infrastructure/autocomplete"
	"github.com/turtacn/KeyRank-Intelligence/internal/infrastructure/database/postgres"
	"github.com/turtacn/KeyRank-Intelligence/internal/infrastructure/database/postgres/repositories"
	"github.com/turtacn/KeyRank-Intelligence/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/KeyRank-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/KeyRank-Intelligence/internal/infrastructure/monitoring/prometheus"
	ktypes "github.com/turtacn/KeyRank-Intelligence/pkg/types/keyword"
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
		fmt.Printf("keyrank-worker %s (commit: %s, built: %s)\n", version, gitCommit, buildDate)
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

	if !cfg.Kafka.Enabled {
		logger.Error("kafka is disabled; the worker has nothing to consume")
		os.Exit(1)
	}

	logger.Info("starting worker",
		logging.String("version", version),
		logging.String("group", cfg.Kafka.GroupID),
		logging.String("topic", cfg.Kafka.RequestsTopic),
	)

	collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{
		Namespace:            cfg.Metrics.Namespace,
		Subsystem:            "worker",
		EnableGoMetrics:      cfg.Metrics.EnableGoCollector,
		EnableProcessMetrics: cfg.Metrics.EnableProcessCollector,
	}, logger)
	if err != nil {
		logger.Error("init metrics collector", logging.Err(err))
		os.Exit(1)
	}
	appMetrics := prometheus.NewAppMetrics(collector)

	market := autocomplete.NewClient(cfg.Marketplace.Code, logger, appMetrics).Marketplace()
	engine := scoring.NewEngine(logger, appMetrics,
		scoring.WithMarketplace(market.Code, market.Currency),
		scoring.WithTables(cfg.Scoring.Tables()),
	)
	orchestrator := bulk.NewOrchestrator(engine, logger, appMetrics,
		bulk.WithConcurrency(cfg.Bulk.Concurrency),
		bulk.WithBatchLimit(cfg.Bulk.MaxBatch),
		bulk.WithMarketplace(market.Code, market.Currency),
	)

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

	jobs := repositories.NewJobRepository(conn.Pool(), logger, appMetrics)

	producer, err := kafka.NewProducer(kafka.ProducerConfig{
		Brokers:       cfg.Kafka.Brokers,
		RequestsTopic: cfg.Kafka.RequestsTopic,
		ResultsTopic:  cfg.Kafka.ResultsTopic,
	}, logger)
	if err != nil {
		logger.Error("init kafka producer", logging.Err(err))
		os.Exit(1)
	}
	defer producer.Close()

	consumer, err := kafka.NewConsumer(kafka.ConsumerConfig{
		Brokers: cfg.Kafka.Brokers,
		GroupID: cfg.Kafka.GroupID,
		Topic:   cfg.Kafka.RequestsTopic,
	}, logger)
	if err != nil {
		logger.Error("init kafka consumer", logging.Err(err))
		os.Exit(1)
	}
	defer consumer.Close()

	processor := &jobProcessor{
		jobs:         jobs,
		orchestrator: orchestrator,
		producer:     producer,
		logger:       logger.Named("worker"),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("worker consuming")
	if err := consumer.Run(ctx, processor.Handle); err != nil && !stderrors.Is(err, context.Canceled) {
		logger.Error("consumer stopped", logging.Err(err))
		os.Exit(1)
	}
	logger.Info("worker stopped",
		logging.Int64("processed", consumer.Processed()),
		logging.Int64("skipped", consumer.Skipped()),
	)
}

// jobProcessor executes one bulk job end to end. Postgres is the system of
// record for job state; the results topic only carries notifications.
type jobProcessor struct {
	jobs         *repositories.JobRepository
	orchestrator *bulk.Orchestrator
	producer     *kafka.Producer
	logger       logging.Logger
}

// Handle claims the job, scores its keywords and records the outcome. A
// returned error signals a transient infrastructure failure and leaves the
// message eligible for redelivery; domain failures are terminal and are
// recorded on the job instead.
func (p *jobProcessor) Handle(ctx context.Context, req kafka.JobRequest) error {
	claimed, err := p.jobs.Claim(ctx, req.JobID)
	if err != nil {
		return err
	}
	if !claimed {
		p.logger.Debug("job already claimed, skipping", logging.String("job_id", req.JobID))
		return nil
	}

	start := time.Now()
	analysis, err := p.orchestrator.Analyze(ctx, req.Keywords)
	if err != nil {
		reason := err.Error()
		if failErr := p.jobs.Fail(ctx, req.JobID, reason); failErr != nil {
			p.logger.Error("record job failure",
				logging.String("job_id", req.JobID),
				logging.Err(failErr),
			)
			return failErr
		}
		p.publishResult(ctx, kafka.JobResult{
			JobID:       req.JobID,
			Status:      ktypes.JobStatusFailed,
			Total:       len(req.Keywords),
			Error:       reason,
			CompletedAt: time.Now().UTC(),
		})
		return nil
	}

	if err := p.jobs.Complete(ctx, req.JobID, analysis); err != nil {
		return err
	}
	p.publishResult(ctx, kafka.JobResult{
		JobID:            req.JobID,
		Status:           ktypes.JobStatusCompleted,
		Total:            analysis.Total,
		Successful:       analysis.Successful,
		Failed:           analysis.Failed,
		ProcessingTimeMS: time.Since(start).Milliseconds(),
		CompletedAt:      time.Now().UTC(),
	})
	return nil
}

// publishResult is best-effort: the job table already holds the outcome.
func (p *jobProcessor) publishResult(ctx context.Context, res kafka.JobResult) {
	if err := p.producer.PublishResult(ctx, res); err != nil {
		p.logger.Warn("publish job result",
			logging.String("job_id", res.JobID),
			logging.Err(err),
		)
	}
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
