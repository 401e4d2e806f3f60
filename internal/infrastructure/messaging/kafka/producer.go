package kafka

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/turtacn/KeyRank-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/KeyRank-Intelligence/pkg/errors"
)

// ProducerConfig holds the connection settings for the job publisher.
type ProducerConfig struct {
	Brokers       []string
	RequestsTopic string
	ResultsTopic  string
	BatchTimeout  time.Duration
	WriteTimeout  time.Duration
	MaxAttempts   int
}

func applyProducerDefaults(cfg *ProducerConfig) {
	if cfg.RequestsTopic == "" {
		cfg.RequestsTopic = DefaultRequestsTopic
	}
	if cfg.ResultsTopic == "" {
		cfg.ResultsTopic = DefaultResultsTopic
	}
	if cfg.BatchTimeout == 0 {
		// Jobs are enqueued one at a time from request handlers; a short batch
		// window keeps enqueue latency visible to the caller low.
		cfg.BatchTimeout = 50 * time.Millisecond
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = 10 * time.Second
	}
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = 3
	}
}

// writer abstracts kafka.Writer so tests can publish without a broker.
type writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer publishes bulk job requests and results.  Safe for concurrent use.
type Producer struct {
	writer writer
	cfg    ProducerConfig
	logger logging.Logger
	closed atomic.Bool
	sent   atomic.Int64
}

// NewProducer connects a Producer to the configured brokers.
func NewProducer(cfg ProducerConfig, logger logging.Logger) (*Producer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.Validation("kafka brokers required")
	}
	applyProducerDefaults(&cfg)
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Balancer:     &kafka.Hash{},
		MaxAttempts:  cfg.MaxAttempts,
		BatchTimeout: cfg.BatchTimeout,
		WriteTimeout: cfg.WriteTimeout,
		RequiredAcks: kafka.RequireAll,
	}

	return &Producer{
		writer: w,
		cfg:    cfg,
		logger: logger.Named("kafka.producer"),
	}, nil
}

// PublishRequest enqueues a job request for the worker fleet.
func (p *Producer) PublishRequest(ctx context.Context, req JobRequest) error {
	msg, err := encodeMessage(p.cfg.RequestsTopic, req.JobID, req)
	if err != nil {
		return err
	}
	if err := p.publish(ctx, msg); err != nil {
		return errors.Wrap(err, errors.ErrCodePublishFailed, "publish job request").
			WithDetail("job_id=" + req.JobID)
	}
	p.logger.Debug("job request published",
		logging.String("job_id", req.JobID),
		logging.Int("keywords", len(req.Keywords)),
	)
	return nil
}

// PublishResult announces a finished job.
func (p *Producer) PublishResult(ctx context.Context, res JobResult) error {
	msg, err := encodeMessage(p.cfg.ResultsTopic, res.JobID, res)
	if err != nil {
		return err
	}
	if err := p.publish(ctx, msg); err != nil {
		return errors.Wrap(err, errors.ErrCodePublishFailed, "publish job result").
			WithDetail("job_id=" + res.JobID)
	}
	p.logger.Debug("job result published",
		logging.String("job_id", res.JobID),
		logging.String("status", string(res.Status)),
	)
	return nil
}

func (p *Producer) publish(ctx context.Context, msg kafka.Message) error {
	if p.closed.Load() {
		return errors.New(errors.ErrCodePublishFailed, "producer closed")
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return err
	}
	p.sent.Add(1)
	return nil
}

// Sent returns the number of messages published since construction.
func (p *Producer) Sent() int64 {
	return p.sent.Load()
}

// Close flushes and closes the underlying writer.  Idempotent.
func (p *Producer) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}
	err := p.writer.Close()
	p.logger.Info("kafka producer closed", logging.Int64("sent", p.sent.Load()))
	return err
}
