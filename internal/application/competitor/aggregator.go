// Package competitor builds competitor-landscape reports. A report expands
// a primary keyword into its competitor set, scores every member in bulk and
// rolls the records up into opportunity statistics.
package competitor

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/turtacn/KeyRank-Intelligence/internal/application/scoring"
	domainkw "github.com/turtacn/KeyRank-Intelligence/internal/domain/keyword"
	"github.com/turtacn/KeyRank-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/KeyRank-Intelligence/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/KeyRank-Intelligence/pkg/errors"
	ktypes "github.com/turtacn/KeyRank-Intelligence/pkg/types/keyword"
)

// Summary thresholds. A high-opportunity keyword combines a strong magnet
// score with beatable competition; high volume starts above the mid-market
// demand line.
const (
	highOpportunityMagnet      = 70
	highOpportunityCompetition = 0.6
	highVolumeFloor            = 5000
)

// SuggestionExpander is the expansion port. *expansion.Expander satisfies it.
type SuggestionExpander interface {
	Expand(ctx context.Context, seed string, limit int) ([]string, error)
}

// BatchAnalyzer is the bulk scoring port. *bulk.Orchestrator satisfies it.
// BatchLimit bounds one AnalyzeAll call; the aggregator chunks larger
// expansions so a wide report never overflows the analyzer.
type BatchAnalyzer interface {
	AnalyzeAll(ctx context.Context, keywords []string) ([]ktypes.ScoreRecord, error)
	BatchLimit() int
}

// Aggregator assembles competitor reports. It is safe for concurrent use.
type Aggregator struct {
	expander SuggestionExpander
	analyzer BatchAnalyzer
	logger   logging.Logger
	metrics  *prometheus.AppMetrics
	market   string
	currency string
	now      func() time.Time
}

// Option adjusts aggregator construction.
type Option func(*Aggregator)

// WithClock overrides the report timestamp source.
func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) {
		if now != nil {
			a.now = now
		}
	}
}

// WithMarketplace sets the marketplace code and currency stamped on reports.
func WithMarketplace(market, currency string) Option {
	return func(a *Aggregator) {
		if market != "" {
			a.market = market
		}
		if currency != "" {
			a.currency = currency
		}
	}
}

// NewAggregator builds an Aggregator. Logger and metrics may be nil.
func NewAggregator(expander SuggestionExpander, analyzer BatchAnalyzer, logger logging.Logger, metrics *prometheus.AppMetrics, opts ...Option) *Aggregator {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	a := &Aggregator{
		expander: expander,
		analyzer: analyzer,
		logger:   logger,
		metrics:  metrics,
		market:   scoring.DefaultMarket,
		currency: scoring.DefaultCurrency,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Aggregate builds the competitor report for a primary keyword. An expansion
// that finds nothing yields an empty report, not an error; errors surface
// only for invalid input and context cancellation.
func (a *Aggregator) Aggregate(ctx context.Context, primary string, limit int) (ktypes.CompetitorReport, error) {
	start := time.Now()

	normalized := domainkw.Normalize(primary)
	if normalized == "" {
		return ktypes.CompetitorReport{}, errors.New(errors.ErrCodeKeywordBlank, "primary keyword must not be blank")
	}
	if limit < 1 {
		return ktypes.CompetitorReport{}, errors.Newf(errors.ErrCodeLimitInvalid, "competitor limit must be positive, got %d", limit)
	}

	report := ktypes.CompetitorReport{
		PrimaryKeyword:     normalized,
		CompetitorKeywords: []ktypes.ScoreRecord{},
		Market:             a.market,
		Currency:           a.currency,
		GeneratedAt:        a.now().UTC(),
	}

	suggestions, err := a.expander.Expand(ctx, primary, limit)
	if err != nil {
		return ktypes.CompetitorReport{}, err
	}
	if len(suggestions) == 0 {
		prometheus.RecordReport(a.metrics, "empty", time.Since(start))
		a.logger.Info("competitor report empty, expansion found nothing",
			logging.String("primary_keyword", normalized),
		)
		return report, nil
	}

	records, err := a.analyzeChunked(ctx, suggestions)
	if err != nil {
		return ktypes.CompetitorReport{}, err
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].MagnetScore > records[j].MagnetScore
	})

	report.CompetitorKeywords = records
	report.TotalFound = len(records)
	report.Summary = summarize(records)

	elapsed := time.Since(start)
	prometheus.RecordReport(a.metrics, "ok", elapsed)
	a.logger.Info("competitor report built",
		logging.String("primary_keyword", normalized),
		logging.Int("total_found", report.TotalFound),
		logging.Int("fallbacks", countFallbacks(records)),
		logging.Duration("elapsed", elapsed),
	)

	return report, nil
}

// analyzeChunked scores the suggestions in batches of the analyzer's limit,
// preserving input order. A limit wider than one batch degrades to multiple
// calls instead of a batch-size error.
func (a *Aggregator) analyzeChunked(ctx context.Context, suggestions []string) ([]ktypes.ScoreRecord, error) {
	chunk := a.analyzer.BatchLimit()
	if chunk < 1 || chunk > len(suggestions) {
		chunk = len(suggestions)
	}

	records := make([]ktypes.ScoreRecord, 0, len(suggestions))
	for start := 0; start < len(suggestions); start += chunk {
		end := min(start+chunk, len(suggestions))
		part, err := a.analyzer.AnalyzeAll(ctx, suggestions[start:end])
		if err != nil {
			return nil, err
		}
		records = append(records, part...)
	}
	return records, nil
}

// summarize rolls scored records up into the report summary. Records must
// already be sorted by magnet score descending; the top opportunity is the
// head of the slice.
func summarize(records []ktypes.ScoreRecord) ktypes.ReportSummary {
	if len(records) == 0 {
		return ktypes.ReportSummary{}
	}

	var (
		volume      int
		cpc         float64
		magnet      float64
		competition float64
		highOpp     int
		lowComp     int
		highVol     int
	)
	for i := range records {
		r := &records[i]
		volume += r.SearchVolume
		cpc += r.EstimatedCPC
		magnet += float64(r.MagnetScore)
		competition += r.CompetitionScore

		if r.MagnetScore > highOpportunityMagnet && r.CompetitionScore < highOpportunityCompetition {
			highOpp++
		}
		if r.CompetitionLevel == ktypes.CompetitionLow {
			lowComp++
		}
		if r.SearchVolume > highVolumeFloor {
			highVol++
		}
	}

	n := float64(len(records))
	top := records[0]
	return ktypes.ReportSummary{
		TotalSearchVolume:      volume,
		AverageCPC:             round2(cpc / n),
		AverageMagnetScore:     round1(magnet / n),
		AverageCompetition:     round2(competition / n),
		TopOpportunity:         &top,
		HighOpportunityCount:   highOpp,
		LowCompetitionKeywords: lowComp,
		HighVolumeKeywords:     highVol,
	}
}

func countFallbacks(records []ktypes.ScoreRecord) int {
	n := 0
	for _, r := range records {
		if r.DataSource == ktypes.DataSourceFallback {
			n++
		}
	}
	return n
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
