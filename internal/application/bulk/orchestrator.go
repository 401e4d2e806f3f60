// Package bulk analyzes batches of keywords with bounded concurrency.
// Past input validation a batch never fails: a keyword whose live scoring
// errors out is substituted with a deterministic fallback record, and the
// result slice preserves input order and length regardless of completion
// order.
package bulk

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/turtacn/KeyRank-Intelligence/internal/application/scoring"
	"github.com/turtacn/KeyRank-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/KeyRank-Intelligence/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/KeyRank-Intelligence/pkg/errors"
	ktypes "github.com/turtacn/KeyRank-Intelligence/pkg/types/keyword"
)

const (
	// DefaultConcurrency is the admission-gate width for in-flight scoring.
	DefaultConcurrency = 5

	// DefaultMaxBatch caps how many keywords one batch may carry.
	DefaultMaxBatch = 100
)

// Scorer is the scoring port the orchestrator drives. *scoring.Engine
// satisfies it.
type Scorer interface {
	Score(ctx context.Context, keyword string) (ktypes.ScoreRecord, error)
}

// Orchestrator fans a keyword batch out over a bounded worker admission
// gate. It is safe for concurrent use.
type Orchestrator struct {
	scorer      Scorer
	logger      logging.Logger
	metrics     *prometheus.AppMetrics
	concurrency int64
	maxBatch    int
	market      string
	currency    string
	mode        string
}

// Option adjusts orchestrator construction.
type Option func(*Orchestrator)

// WithConcurrency sets how many keywords may score at once. Values below 1
// are ignored.
func WithConcurrency(n int) Option {
	return func(o *Orchestrator) {
		if n >= 1 {
			o.concurrency = int64(n)
		}
	}
}

// WithBatchLimit sets the maximum batch size accepted by validation. Values
// below 1 are ignored.
func WithBatchLimit(n int) Option {
	return func(o *Orchestrator) {
		if n >= 1 {
			o.maxBatch = n
		}
	}
}

// WithMarketplace sets the marketplace code and currency stamped on
// fallback records. Live records carry whatever the scorer stamps.
func WithMarketplace(market, currency string) Option {
	return func(o *Orchestrator) {
		if market != "" {
			o.market = market
		}
		if currency != "" {
			o.currency = currency
		}
	}
}

// WithMode sets the batch mode label used in metrics, "sync" by default.
// The worker consuming queued jobs runs with "async".
func WithMode(mode string) Option {
	return func(o *Orchestrator) {
		if mode != "" {
			o.mode = mode
		}
	}
}

// NewOrchestrator builds an Orchestrator around the given scorer. Logger
// and metrics may be nil.
func NewOrchestrator(scorer Scorer, logger logging.Logger, metrics *prometheus.AppMetrics, opts ...Option) *Orchestrator {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	o := &Orchestrator{
		scorer:      scorer,
		logger:      logger,
		metrics:     metrics,
		concurrency: DefaultConcurrency,
		maxBatch:    DefaultMaxBatch,
		market:      scoring.DefaultMarket,
		currency:    scoring.DefaultCurrency,
		mode:        "sync",
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// AnalyzeAll scores every keyword in the batch and returns the records in
// input order. Validation failures surface before any scoring starts; past
// that the only error is context cancellation, observed while waiting for
// admission.
func (o *Orchestrator) AnalyzeAll(ctx context.Context, keywords []string) ([]ktypes.ScoreRecord, error) {
	if err := o.validate(keywords); err != nil {
		return nil, err
	}

	start := time.Now()
	results := make([]ktypes.ScoreRecord, len(keywords))
	sem := semaphore.NewWeighted(o.concurrency)

	var wg sync.WaitGroup
	for i, kw := range keywords {
		if err := sem.Acquire(ctx, 1); err != nil {
			wg.Wait()
			return nil, err
		}
		wg.Add(1)
		go func(i int, kw string) {
			defer wg.Done()
			defer sem.Release(1)
			results[i] = o.scoreOne(ctx, kw)
		}(i, kw)
	}
	wg.Wait()

	failed := CountFallbacks(results)
	elapsed := time.Since(start)
	prometheus.RecordBulkBatch(o.metrics, o.mode, len(results)-failed, failed, elapsed)
	o.logger.Info("keyword batch analyzed",
		logging.Int("total", len(results)),
		logging.Int("fallbacks", failed),
		logging.Duration("elapsed", elapsed),
	)

	return results, nil
}

// Analyze runs AnalyzeAll and wraps the records with batch accounting for
// the transport layer.
func (o *Orchestrator) Analyze(ctx context.Context, keywords []string) (ktypes.BulkAnalysis, error) {
	start := time.Now()
	records, err := o.AnalyzeAll(ctx, keywords)
	if err != nil {
		return ktypes.BulkAnalysis{}, err
	}

	failed := CountFallbacks(records)
	return ktypes.BulkAnalysis{
		Results:          records,
		Total:            len(records),
		Successful:       len(records) - failed,
		Failed:           failed,
		ProcessingTimeMS: time.Since(start).Milliseconds(),
	}, nil
}

// BatchLimit reports the maximum batch size one AnalyzeAll call accepts.
// Callers holding a larger keyword set split it into chunks of this size.
func (o *Orchestrator) BatchLimit() int {
	return o.maxBatch
}

// ValidateBatch checks a batch against the same preconditions AnalyzeAll
// enforces, without scoring anything. The transport layer runs it before
// enqueueing asynchronous jobs so invalid batches are rejected at submission
// instead of failing later in the worker.
func (o *Orchestrator) ValidateBatch(keywords []string) error {
	return o.validate(keywords)
}

// CountFallbacks reports how many records in a batch carry the fallback
// data source.
func CountFallbacks(records []ktypes.ScoreRecord) int {
	n := 0
	for _, r := range records {
		if r.DataSource == ktypes.DataSourceFallback {
			n++
		}
	}
	return n
}

func (o *Orchestrator) scoreOne(ctx context.Context, kw string) ktypes.ScoreRecord {
	record, err := o.scorer.Score(ctx, kw)
	if err != nil {
		o.logger.Warn("live scoring failed, substituting fallback record",
			logging.String("keyword", kw),
			logging.Err(err),
		)
		return FallbackRecord(kw, o.market, o.currency)
	}
	return record
}

func (o *Orchestrator) validate(keywords []string) error {
	if len(keywords) == 0 {
		return errors.New(errors.ErrCodeBatchEmpty, "keyword batch must not be empty")
	}
	if len(keywords) > o.maxBatch {
		return errors.Newf(errors.ErrCodeBatchTooLarge, "keyword batch holds %d entries, maximum is %d", len(keywords), o.maxBatch)
	}
	for i, kw := range keywords {
		if strings.TrimSpace(kw) == "" {
			return errors.Newf(errors.ErrCodeBatchElementBlank, "keyword batch entry %d is blank", i)
		}
	}
	return nil
}
