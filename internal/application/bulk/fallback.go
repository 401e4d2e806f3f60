package bulk

import (
	"math"

	"github.com/turtacn/KeyRank-Intelligence/internal/application/scoring"
	domainkw "github.com/turtacn/KeyRank-Intelligence/internal/domain/keyword"
	ktypes "github.com/turtacn/KeyRank-Intelligence/pkg/types/keyword"
)

// fallbackReasoning is the fixed explanation stamped on substitute records.
const fallbackReasoning = "Fallback estimation - API unavailable"

var (
	fallbackLevels = []ktypes.CompetitionLevel{
		ktypes.CompetitionLow, ktypes.CompetitionMedium, ktypes.CompetitionHigh,
	}
	fallbackDirections = []ktypes.TrendDirection{
		ktypes.TrendUp, ktypes.TrendStable, ktypes.TrendDown,
	}
)

// FallbackRecord builds the deterministic stand-in returned when live
// scoring of a keyword fails. Every estimate except the intent score
// derives from the stable hash of the keyword, so retries and replicas
// agree on the substitute values.
func FallbackRecord(raw, market, currency string) ktypes.ScoreRecord {
	normalized := domainkw.Normalize(raw)
	return fallbackFromHash(normalized, domainkw.StableHash(raw), market, currency)
}

func fallbackFromHash(normalized string, h uint32, market, currency string) ktypes.ScoreRecord {
	jitter := float64(h % 15)

	return ktypes.ScoreRecord{
		Keyword:  normalized,
		Category: ktypes.CategoryDefault,

		SearchVolume:         int(h%8000) + 2000,
		CompetitionLevel:     fallbackLevels[h%3],
		CompetitionScore:     round2(float64(h%100) / 100),
		OrganicCompetitors:   int(h%40) + 10,
		SponsoredCompetitors: int(h%20) + 5,

		EstimatedCPC: 8 + jitter,
		SuggestedBids: ktypes.SuggestedBids{
			Conservative: round2(8 + jitter*0.8),
			Optimal:      round2(8 + jitter*1.1),
			Aggressive:   round2(8 + jitter*1.4),
		},

		MagnetScore: int(h%80) + 20,
		IntentScore: scoring.IntentScore(normalized),

		TrendPercentage: float64(int(h%40) - 20),
		TrendDirection:  fallbackDirections[h%3],
		SeasonalFactor:  round2(0.8 + float64(h%40)/100),

		ClickShare:      round2(float64(h%500) / 100),
		ConversionShare: round2(float64(h%400) / 100),
		SponsoredRank:   int(h%40) + 1,

		Confidence: round2(0.5 + float64(h%30)/100),
		Reasoning:  fallbackReasoning,
		Currency:   currency,
		Market:     market,
		DataSource: ktypes.DataSourceFallback,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
