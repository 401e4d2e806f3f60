// Package scoring implements the keyword scoring engine of the
// KeyRank-Intelligence platform. Scoring is deterministic by construction:
// every noisy component derives from a stable hash of the keyword, so the
// same keyword produces the same record across calls, processes and
// restarts, given a fixed calendar month.
package scoring

import (
	"context"
	"math"
	"strings"
	"time"

	domainkw "github.com/turtacn/KeyRank-Intelligence/internal/domain/keyword"
	"github.com/turtacn/KeyRank-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/KeyRank-Intelligence/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/KeyRank-Intelligence/pkg/errors"
	ktypes "github.com/turtacn/KeyRank-Intelligence/pkg/types/keyword"
)

// Marketplace defaults stamped on every record unless overridden.
const (
	DefaultMarket   = "in"
	DefaultCurrency = "INR"
)

// Hash salts giving each estimator an independent noise stream.
const (
	saltSponsored  = "ads"
	saltClickShare = "click"
	saltConversion = "conversion"
	saltRank       = "rank"
)

// Engine computes the full intelligence profile for keywords. It holds only
// read-only calibration tables and is safe for concurrent use.
type Engine struct {
	tables   Tables
	logger   logging.Logger
	metrics  *prometheus.AppMetrics
	market   string
	currency string
	now      func() time.Time
}

// Option adjusts engine construction.
type Option func(*Engine)

// WithClock overrides the time source used to resolve the current calendar
// month. Tests pin it to make seasonal output reproducible.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithMarketplace sets the marketplace code and currency stamped on every
// record.
func WithMarketplace(market, currency string) Option {
	return func(e *Engine) {
		if market != "" {
			e.market = market
		}
		if currency != "" {
			e.currency = currency
		}
	}
}

// WithTables replaces the default calibration tables.
func WithTables(t Tables) Option {
	return func(e *Engine) {
		e.tables = t
	}
}

// NewEngine constructs an Engine with the default calibration. A nil metrics
// handle disables instrumentation.
func NewEngine(logger logging.Logger, metrics *prometheus.AppMetrics, opts ...Option) *Engine {
	e := &Engine{
		tables:   DefaultTables(),
		logger:   logger,
		metrics:  metrics,
		market:   DefaultMarket,
		currency: DefaultCurrency,
		now:      time.Now,
	}
	if logger == nil {
		e.logger = logging.NewNopLogger()
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Score computes the ScoreRecord for one keyword. The keyword must contain
// at least one non-whitespace character; everything past that precondition
// succeeds.
func (e *Engine) Score(ctx context.Context, raw string) (ktypes.ScoreRecord, error) {
	start := time.Now()

	normalized := domainkw.Normalize(raw)
	if normalized == "" {
		return ktypes.ScoreRecord{}, errors.New(errors.ErrCodeKeywordBlank, "keyword must not be blank")
	}

	wordCount := len(domainkw.Words(normalized))
	hash := domainkw.StableHash(raw)
	category := domainkw.Categorize(raw)
	hasIntent := domainkw.ContainsAnyTerm(normalized, domainkw.HighIntentTerms)
	hasBrand := domainkw.ContainsAnyTerm(normalized, domainkw.BrandTerms)

	volume := e.estimateVolume(category, wordCount, hasIntent, hasBrand, hash)
	trendPct, direction, seasonalFactor := e.seasonalTrend(category, hash)
	competition := e.analyzeCompetition(raw, wordCount, hasIntent, hasBrand, hash)
	magnet := magnetScore(volume, competition.Score, hasIntent, wordCount)
	cpc := e.estimateCPC(category, competition.Score, volume, seasonalFactor)
	clickShare, conversionShare, sponsoredRank := marketplaceShares(raw)

	record := ktypes.ScoreRecord{
		Keyword:  normalized,
		Category: category,

		SearchVolume:         volume,
		CompetitionLevel:     competition.Level,
		CompetitionScore:     competition.Score,
		OrganicCompetitors:   competition.Organic,
		SponsoredCompetitors: competition.Sponsored,

		EstimatedCPC:  cpc,
		SuggestedBids: suggestedBids(cpc),

		MagnetScore: magnet,
		IntentScore: intentScore(normalized, wordCount),

		TrendPercentage: trendPct,
		TrendDirection:  direction,
		SeasonalFactor:  seasonalFactor,

		ClickShare:      clickShare,
		ConversionShare: conversionShare,
		SponsoredRank:   sponsoredRank,

		Confidence: round2(0.85 - competition.Score*0.2),
		Reasoning:  buildReasoning(magnet, competition.Score, wordCount, hasIntent, category),
		Currency:   e.currency,
		Market:     e.market,
		DataSource: ktypes.DataSourceLive,
	}

	elapsed := time.Since(start)
	prometheus.RecordScore(e.metrics, string(category), ktypes.DataSourceLive, magnet, elapsed)
	e.logger.Debug("keyword scored",
		logging.String("keyword", normalized),
		logging.String("category", string(category)),
		logging.Int("magnet_score", magnet),
		logging.Int("search_volume", volume),
		logging.Duration("elapsed", elapsed),
	)

	return record, nil
}

// estimateVolume applies the category demand profile with length decay,
// brand dampening, intent boost and a bounded per-keyword jitter.
func (e *Engine) estimateVolume(c ktypes.Category, wordCount int, hasIntent, hasBrand bool, hash uint32) int {
	profile := e.tables.volumeProfile(c)

	lengthFactor := math.Max(0.3, 1.0-float64(wordCount-2)*0.15)
	brandFactor := 1.0
	if hasBrand {
		brandFactor = 0.7
	}
	intentFactor := 1.0
	if hasIntent {
		intentFactor = 1.3
	}

	estimate := float64(profile.Base) * profile.Multiplier * lengthFactor * brandFactor * intentFactor
	return int(estimate) + int(hash%5000)
}

// seasonalTrend compares the current month's demand slot against the
// previous month's, January wrapping back to December.
func (e *Engine) seasonalTrend(c ktypes.Category, hash uint32) (float64, ktypes.TrendDirection, float64) {
	curve := e.tables.seasonalCurve(c)

	month := int(e.now().UTC().Month())
	cur := curve[month-1]
	prev := curve[(month+10)%12]

	change := (cur - prev) / prev * 100
	offset := float64(hash%20) - 10
	trendPct := math.Round(change + offset)

	direction := ktypes.TrendStable
	switch {
	case trendPct > 0:
		direction = ktypes.TrendUp
	case trendPct < 0:
		direction = ktypes.TrendDown
	}

	return trendPct, direction, round2(cur / 25)
}

type competitionProfile struct {
	Score     float64
	Level     ktypes.CompetitionLevel
	Organic   int
	Sponsored int
}

// analyzeCompetition averages four bounded sub-factors: word-count
// specificity, genericity, brand presence and intent presence.
func (e *Engine) analyzeCompetition(raw string, wordCount int, hasIntent, hasBrand bool, hash uint32) competitionProfile {
	lengthFactor := math.Max(0, 1.0-float64(wordCount-2)*0.1)

	genericFactor := 0.4
	if wordCount <= 2 {
		genericFactor = 0.8
	}
	brandFactor := 0.3
	if hasBrand {
		brandFactor = 0.6
	}
	intentFactor := 0.4
	if hasIntent {
		intentFactor = 0.7
	}

	score := round2(math.Min(1.0, (lengthFactor+genericFactor+brandFactor+intentFactor)/4))

	level := ktypes.CompetitionHigh
	switch {
	case score < 0.4:
		level = ktypes.CompetitionLow
	case score < 0.7:
		level = ktypes.CompetitionMedium
	}

	return competitionProfile{
		Score:     score,
		Level:     level,
		Organic:   int(score*50) + int(hash%30),
		Sponsored: int(score*20) + int(domainkw.SaltedHash(raw, saltSponsored)%15),
	}
}

// magnetScore blends volume, competition, purchase intent and a long-tail
// bonus into the [1,100] opportunity score.
func magnetScore(volume int, competition float64, hasIntent bool, wordCount int) int {
	volumeScore := math.Min(40, float64(volume)/500)
	intentBonus := 0.0
	if hasIntent {
		intentBonus = 20
	}
	longTailBonus := math.Max(0, float64(15-wordCount*2))

	score := int(volumeScore - competition*30 + intentBonus + longTailBonus)
	if score < 1 {
		score = 1
	}
	if score > 100 {
		score = 100
	}
	return score
}

// estimateCPC interpolates the category bid range by competition, then
// scales for demand volume and seasonal position.
func (e *Engine) estimateCPC(c ktypes.Category, competition float64, volume int, seasonalFactor float64) float64 {
	r := e.tables.cpcRange(c)

	base := r.Min + (r.Max-r.Min)*competition
	volumeMult := 1 + math.Min(0.3, float64(volume)/10000*0.1)
	trendMult := 1 + (seasonalFactor-1)*0.1

	return round2(base * volumeMult * trendMult)
}

func suggestedBids(cpc float64) ktypes.SuggestedBids {
	return ktypes.SuggestedBids{
		Conservative: round2(cpc * 0.8),
		Optimal:      round2(cpc * 1.1),
		Aggressive:   round2(cpc * 1.4),
	}
}

// IntentScore rates the purchase readiness of a keyword on a 1..10 scale.
// It is the one live component the fallback estimator keeps when scoring
// fails, so it is exported separately from Score.
func IntentScore(raw string) int {
	normalized := domainkw.Normalize(raw)
	return intentScore(normalized, len(domainkw.Words(normalized)))
}

// intentScore rates purchase readiness on a 1..10 scale. Of the three
// graded vocabularies only the strongest match contributes; the remaining
// signals stack.
func intentScore(normalized string, wordCount int) int {
	score := 5

	switch {
	case domainkw.ContainsAnyTerm(normalized, domainkw.TransactionalTerms):
		score += 3
	case domainkw.ContainsAnyTerm(normalized, domainkw.PriceTerms):
		score += 2
	case domainkw.ContainsAnyTerm(normalized, domainkw.ResearchTerms):
		score++
	}
	if domainkw.ContainsAnyTerm(normalized, domainkw.BrandModifierTerms) {
		score++
	}
	if wordCount >= 4 {
		score++
	}
	if domainkw.ContainsAnyTerm(normalized, domainkw.LocationTerms) {
		score++
	}
	if domainkw.ContainsAnyTerm(normalized, domainkw.PlatformTerms) {
		score += 2
	}

	if score < 1 {
		score = 1
	}
	if score > 10 {
		score = 10
	}
	return score
}

// buildReasoning composes the fixed-order explanation string: opportunity,
// competition, length, intent, then the category clause that is always
// present.
func buildReasoning(magnet int, competition float64, wordCount int, hasIntent bool, category ktypes.Category) string {
	clauses := make([]string, 0, 5)

	switch {
	case magnet > 70:
		clauses = append(clauses, "High-opportunity keyword")
	case magnet < 30:
		clauses = append(clauses, "Low-opportunity keyword")
	}
	switch {
	case competition > 0.7:
		clauses = append(clauses, "High competition market")
	case competition < 0.4:
		clauses = append(clauses, "Low competition opportunity")
	}
	if wordCount > 3 {
		clauses = append(clauses, "Long-tail advantage")
	}
	if hasIntent {
		clauses = append(clauses, "High purchase intent")
	}
	clauses = append(clauses, category.Title()+" category analysis")

	return strings.Join(clauses, " | ")
}

// marketplaceShares derives the per-keyword click share, conversion share
// and sponsored rank from salted stable hashes.
func marketplaceShares(raw string) (float64, float64, int) {
	clickShare := round2(0.1 + float64(domainkw.SaltedHash(raw, saltClickShare)%491)/100)
	conversionShare := round2(0.05 + float64(domainkw.SaltedHash(raw, saltConversion)%296)/100)
	sponsoredRank := 1 + int(domainkw.SaltedHash(raw, saltRank)%50)
	return clickShare, conversionShare, sponsoredRank
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
