// Package keyword defines the wire-level data types shared between the HTTP
// API, the SDK client, the CLI and the persistence layer. No scoring logic
// lives here, only plain data structures and their enumerations.
package keyword

import (
	"strings"
	"time"
)

// ─────────────────────────────────────────────────────────────────────────────
// Categories
// ─────────────────────────────────────────────────────────────────────────────

// Category is the product segment a keyword is assigned to. The category
// drives every calibrated table in the scoring engine: CPC ranges, volume
// profiles and seasonal curves.
type Category string

const (
	CategoryElectronics Category = "electronics"
	CategoryFashion     Category = "fashion"
	CategoryBooks       Category = "books"
	CategoryHomeKitchen Category = "home_kitchen"
	CategoryHealth      Category = "health"
	CategoryBeauty      Category = "beauty"
	CategorySports      Category = "sports"
	CategoryDefault     Category = "default"
)

// AllCategories returns every assignable category in a stable order suitable
// for metric labels and CLI listings.
func AllCategories() []Category {
	return []Category{
		CategoryElectronics,
		CategoryFashion,
		CategoryBooks,
		CategoryHomeKitchen,
		CategoryHealth,
		CategoryBeauty,
		CategorySports,
		CategoryDefault,
	}
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryElectronics, CategoryFashion, CategoryBooks, CategoryHomeKitchen,
		CategoryHealth, CategoryBeauty, CategorySports, CategoryDefault:
		return true
	}
	return false
}

// Title renders the category as a human-readable heading, for example
// "home_kitchen" becomes "Home Kitchen".
func (c Category) Title() string {
	parts := strings.Split(string(c), "_")
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ")
}

// ─────────────────────────────────────────────────────────────────────────────
// Competition and trend enumerations
// ─────────────────────────────────────────────────────────────────────────────

// CompetitionLevel buckets the continuous competition score into the three
// tiers advertisers reason about.
type CompetitionLevel string

const (
	CompetitionLow    CompetitionLevel = "low"
	CompetitionMedium CompetitionLevel = "medium"
	CompetitionHigh   CompetitionLevel = "high"
)

// Valid reports whether l is one of the known competition levels.
func (l CompetitionLevel) Valid() bool {
	return l == CompetitionLow || l == CompetitionMedium || l == CompetitionHigh
}

// TrendDirection is the month-over-month movement of seasonal demand.
type TrendDirection string

const (
	TrendUp     TrendDirection = "up"
	TrendStable TrendDirection = "stable"
	TrendDown   TrendDirection = "down"
)

// Valid reports whether d is one of the known trend directions.
func (d TrendDirection) Valid() bool {
	return d == TrendUp || d == TrendStable || d == TrendDown
}

// Data source labels reported on ScoreRecord.DataSource.
const (
	DataSourceLive     = "Enhanced AI + Marketplace Data"
	DataSourceFallback = "Fallback Algorithm"
)

// ─────────────────────────────────────────────────────────────────────────────
// Score records
// ─────────────────────────────────────────────────────────────────────────────

// SuggestedBids are the three CPC bid points derived from the estimated CPC:
// conservative at 80%, optimal at 110% and aggressive at 140%.
type SuggestedBids struct {
	Conservative float64 `json:"conservative"`
	Optimal      float64 `json:"optimal"`
	Aggressive   float64 `json:"aggressive"`
}

// ScoreRecord is the full intelligence profile computed for one keyword. It
// is the unit of exchange for single scoring, bulk analysis and competitor
// reports alike.
type ScoreRecord struct {
	Keyword  string   `json:"keyword"`
	Category Category `json:"category"`

	SearchVolume         int              `json:"search_volume"`
	CompetitionLevel     CompetitionLevel `json:"competition_level"`
	CompetitionScore     float64          `json:"competition_score"`
	OrganicCompetitors   int              `json:"organic_competitors"`
	SponsoredCompetitors int              `json:"sponsored_competitors"`

	EstimatedCPC  float64       `json:"estimated_cpc"`
	SuggestedBids SuggestedBids `json:"suggested_bids"`

	MagnetScore int `json:"magnet_score"`
	IntentScore int `json:"intent_score"`

	TrendPercentage float64        `json:"trend_percentage"`
	TrendDirection  TrendDirection `json:"trend_direction"`
	SeasonalFactor  float64        `json:"seasonal_factor"`

	ClickShare      float64 `json:"click_share"`
	ConversionShare float64 `json:"conversion_share"`
	SponsoredRank   int     `json:"sponsored_rank"`

	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
	Currency   string  `json:"currency"`
	Market     string  `json:"market"`
	DataSource string  `json:"data_source"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Competitor reports and stored analyses
// ─────────────────────────────────────────────────────────────────────────────

// ReportSummary aggregates a competitor report into the headline numbers a
// campaign planner scans first.
type ReportSummary struct {
	TotalSearchVolume      int          `json:"total_search_volume"`
	AverageCPC             float64      `json:"average_cpc"`
	AverageMagnetScore     float64      `json:"average_magnet_score"`
	AverageCompetition     float64      `json:"average_competition"`
	TopOpportunity         *ScoreRecord `json:"top_opportunity,omitempty"`
	HighOpportunityCount   int          `json:"high_opportunity_count"`
	LowCompetitionKeywords int          `json:"low_competition_keywords"`
	HighVolumeKeywords     int          `json:"high_volume_keywords"`
}

// CompetitorReport is the ranked outcome of a competitor keyword analysis.
// CompetitorKeywords is ordered by descending magnet score; ties keep the
// expansion order.
type CompetitorReport struct {
	PrimaryKeyword     string        `json:"primary_keyword"`
	CompetitorKeywords []ScoreRecord `json:"competitor_keywords"`
	TotalFound         int           `json:"total_found"`
	Summary            ReportSummary `json:"summary"`
	Market             string        `json:"market"`
	Currency           string        `json:"currency"`
	GeneratedAt        time.Time     `json:"generated_at"`
}

// AnalysisRecord is a competitor report persisted for later retrieval.
type AnalysisRecord struct {
	ID        string           `json:"id"`
	Report    CompetitorReport `json:"report"`
	CreatedAt time.Time        `json:"created_at"`
}

// AnalysisSummary is the list form of a stored analysis run.
type AnalysisSummary struct {
	ID             string    `json:"id"`
	PrimaryKeyword string    `json:"primary_keyword"`
	TotalFound     int       `json:"total_found"`
	Market         string    `json:"market"`
	CreatedAt      time.Time `json:"created_at"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Bulk analysis
// ─────────────────────────────────────────────────────────────────────────────

// BulkAnalysis is the combined outcome of scoring a keyword batch. Results
// preserves the order of the requested keywords.
type BulkAnalysis struct {
	Results          []ScoreRecord `json:"results"`
	Total            int           `json:"total"`
	Successful       int           `json:"successful"`
	Failed           int           `json:"failed"`
	ProcessingTimeMS int64         `json:"processing_time_ms"`
}

// JobStatus is the lifecycle state of an asynchronous bulk job.
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
)

// Valid reports whether s is one of the known job states.
func (s JobStatus) Valid() bool {
	switch s {
	case JobStatusPending, JobStatusRunning, JobStatusCompleted, JobStatusFailed:
		return true
	}
	return false
}

// Terminal reports whether the status is final and will not change again.
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// BulkJob tracks one asynchronous bulk analysis from enqueue to completion.
// Result is populated only once the job reaches the completed state, Error
// only when it fails.
type BulkJob struct {
	ID        string        `json:"id"`
	Status    JobStatus     `json:"status"`
	Keywords  []string      `json:"keywords"`
	Result    *BulkAnalysis `json:"result,omitempty"`
	Error     string        `json:"error,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Suggestions and marketplaces
// ─────────────────────────────────────────────────────────────────────────────

// SeedSuggestions is the expansion outcome for one seed keyword.
type SeedSuggestions struct {
	Seed        string   `json:"seed"`
	Suggestions []string `json:"suggestions"`
	Total       int      `json:"total"`
}

// Marketplace describes one supported marketplace endpoint.
type Marketplace struct {
	Code          string `json:"code"`
	MarketplaceID string `json:"marketplace_id"`
	Host          string `json:"host"`
	Locale        string `json:"locale"`
	Currency      string `json:"currency"`
	Country       string `json:"country"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Request payloads
// ─────────────────────────────────────────────────────────────────────────────

// ScoreRequest asks for a single keyword score.
type ScoreRequest struct {
	Keyword string `json:"keyword"`
}

// SuggestRequest asks for seed keyword expansion. A zero Limit means the
// server default applies.
type SuggestRequest struct {
	Seed  string `json:"seed"`
	Limit int    `json:"limit,omitempty"`
}

// BulkRequest asks for synchronous or asynchronous scoring of a batch.
type BulkRequest struct {
	Keywords []string `json:"keywords"`
}

// CompetitorRequest asks for a competitor keyword analysis. A zero Limit
// means the server default applies.
type CompetitorRequest struct {
	Keyword string `json:"keyword"`
	Limit   int    `json:"limit,omitempty"`
}
