package kafka

import (
	"context"
	stderrors "errors"
	"io"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/turtacn/KeyRank-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/KeyRank-Intelligence/pkg/errors"
)

// ConsumerConfig holds the connection settings for the job consumer.
type ConsumerConfig struct {
	Brokers        []string
	GroupID        string
	Topic          string
	MinBytes       int
	MaxBytes       int
	CommitInterval time.Duration
}

func applyConsumerDefaults(cfg *ConsumerConfig) {
	if cfg.GroupID == "" {
		cfg.GroupID = "keyrank-workers"
	}
	if cfg.Topic == "" {
		cfg.Topic = DefaultRequestsTopic
	}
	if cfg.MinBytes == 0 {
		cfg.MinBytes = 1
	}
	if cfg.MaxBytes == 0 {
		cfg.MaxBytes = 1 << 20
	}
}

// reader abstracts kafka.Reader so tests can feed messages without a broker.
type reader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// RequestHandler processes one decoded job request.  A returned error marks
// the job as failed at the handler's discretion; the message is committed
// either way because job state lives in postgres and redelivery would only
// repeat work the job row already records.
type RequestHandler func(ctx context.Context, req JobRequest) error

// Consumer reads job requests from the requests topic within a consumer
// group.  Delivery is at-least-once; duplicate deliveries are absorbed by
// the job repository's claim semantics.
type Consumer struct {
	reader    reader
	cfg       ConsumerConfig
	logger    logging.Logger
	closed    atomic.Bool
	processed atomic.Int64
	skipped   atomic.Int64
}

// NewConsumer joins the configured consumer group.
func NewConsumer(cfg ConsumerConfig, logger logging.Logger) (*Consumer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.Validation("kafka brokers required")
	}
	applyConsumerDefaults(&cfg)
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.Brokers,
		GroupID:        cfg.GroupID,
		Topic:          cfg.Topic,
		MinBytes:       cfg.MinBytes,
		MaxBytes:       cfg.MaxBytes,
		CommitInterval: cfg.CommitInterval,
	})

	return &Consumer{
		reader: r,
		cfg:    cfg,
		logger: logger.Named("kafka.consumer"),
	}, nil
}

// Run fetches and processes messages until ctx is cancelled or the consumer
// is closed.  Malformed messages are logged and committed so a poison pill
// never wedges the partition.
func (c *Consumer) Run(ctx context.Context, handler RequestHandler) error {
	if handler == nil {
		return errors.Validation("request handler required")
	}
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) || stderrors.Is(err, io.EOF) {
				return nil
			}
			if c.closed.Load() {
				return nil
			}
			return errors.Wrap(err, errors.ErrCodeConsumeFailed, "fetch job request")
		}

		req, decodeErr := DecodeJobRequest(msg)
		if decodeErr != nil {
			c.skipped.Add(1)
			c.logger.Warn("skipping undecodable job request",
				logging.String("topic", msg.Topic),
				logging.Int64("offset", msg.Offset),
				logging.Err(decodeErr),
			)
		} else {
			start := time.Now()
			if err := handler(ctx, req); err != nil {
				c.logger.Error("job request handler failed",
					logging.String("job_id", req.JobID),
					logging.Err(err),
				)
			} else {
				c.logger.Info("job request processed",
					logging.String("job_id", req.JobID),
					logging.Int("keywords", len(req.Keywords)),
					logging.Duration("elapsed", time.Since(start)),
				)
			}
			c.processed.Add(1)
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			if stderrors.Is(err, context.Canceled) {
				return nil
			}
			return errors.Wrap(err, errors.ErrCodeConsumeFailed, "commit job request")
		}
	}
}

// Processed returns the number of handled messages since construction.
func (c *Consumer) Processed() int64 {
	return c.processed.Load()
}

// Skipped returns the number of undecodable messages dropped.
func (c *Consumer) Skipped() int64 {
	return c.skipped.Load()
}

// Close stops the consumer and leaves the group.  Idempotent.
func (c *Consumer) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	err := c.reader.Close()
	c.logger.Info("kafka consumer closed",
		logging.Int64("processed", c.processed.Load()),
		logging.Int64("skipped", c.skipped.Load()),
	)
	return err
}
