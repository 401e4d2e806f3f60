package bulk

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/turtacn/KeyRank-Intelligence/internal/application/scoring"
	ktypes "github.com/turtacn/KeyRank-Intelligence/pkg/types/keyword"
)

func TestFallbackRecord_Deterministic(t *testing.T) {
	first := FallbackRecord("wireless earbuds", "in", "INR")
	second := FallbackRecord("wireless earbuds", "in", "INR")
	assert.Equal(t, first, second)

	other := FallbackRecord("wireless earbuds pro", "in", "INR")
	assert.NotEqual(t, first.SearchVolume, other.SearchVolume)
}

func TestFallbackRecord_NormalizesKeyword(t *testing.T) {
	canonical := FallbackRecord("buy phone", "in", "INR")
	shouted := FallbackRecord("  BUY Phone  ", "in", "INR")

	assert.Equal(t, canonical, shouted)
	assert.Equal(t, "buy phone", shouted.Keyword)
}

func TestFallbackFromHash_ExactValues(t *testing.T) {
	tests := []struct {
		name string
		hash uint32
		want ktypes.ScoreRecord
	}{
		{
			name: "hash_zero",
			hash: 0,
			want: ktypes.ScoreRecord{
				Keyword:  "phone",
				Category: ktypes.CategoryDefault,

				SearchVolume:         2000,
				CompetitionLevel:     ktypes.CompetitionLow,
				CompetitionScore:     0,
				OrganicCompetitors:   10,
				SponsoredCompetitors: 5,

				EstimatedCPC:  8,
				SuggestedBids: ktypes.SuggestedBids{Conservative: 8, Optimal: 8, Aggressive: 8},

				MagnetScore: 20,
				IntentScore: 5,

				TrendPercentage: -20,
				TrendDirection:  ktypes.TrendUp,
				SeasonalFactor:  0.8,

				ClickShare:      0,
				ConversionShare: 0,
				SponsoredRank:   1,

				Confidence: 0.5,
				Reasoning:  fallbackReasoning,
				Currency:   "INR",
				Market:     "in",
				DataSource: ktypes.DataSourceFallback,
			},
		},
		{
			name: "hash_97",
			hash: 97,
			want: ktypes.ScoreRecord{
				Keyword:  "phone",
				Category: ktypes.CategoryDefault,

				SearchVolume:         2097,
				CompetitionLevel:     ktypes.CompetitionMedium,
				CompetitionScore:     0.97,
				OrganicCompetitors:   27,
				SponsoredCompetitors: 22,

				EstimatedCPC:  15,
				SuggestedBids: ktypes.SuggestedBids{Conservative: 13.6, Optimal: 15.7, Aggressive: 17.8},

				MagnetScore: 37,
				IntentScore: 5,

				TrendPercentage: -3,
				TrendDirection:  ktypes.TrendStable,
				SeasonalFactor:  0.97,

				ClickShare:      0.97,
				ConversionShare: 0.97,
				SponsoredRank:   18,

				Confidence: 0.57,
				Reasoning:  fallbackReasoning,
				Currency:   "INR",
				Market:     "in",
				DataSource: ktypes.DataSourceFallback,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := fallbackFromHash("phone", tt.hash, "in", "INR")
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFallbackRecord_Envelope(t *testing.T) {
	keywords := []string{"phone", "buy kitchen organizer online", "vitamin c serum", "x"}
	for _, kw := range keywords {
		rec := FallbackRecord(kw, "us", "USD")

		if rec.SearchVolume < 2000 || rec.SearchVolume > 9999 {
			t.Errorf("%q: search volume %d out of range", kw, rec.SearchVolume)
		}
		assert.True(t, rec.CompetitionLevel.Valid(), kw)
		assert.GreaterOrEqual(t, rec.CompetitionScore, 0.0, kw)
		assert.LessOrEqual(t, rec.CompetitionScore, 0.99, kw)
		assert.GreaterOrEqual(t, rec.OrganicCompetitors, 10, kw)
		assert.LessOrEqual(t, rec.OrganicCompetitors, 49, kw)
		assert.GreaterOrEqual(t, rec.SponsoredCompetitors, 5, kw)
		assert.LessOrEqual(t, rec.SponsoredCompetitors, 24, kw)
		assert.GreaterOrEqual(t, rec.EstimatedCPC, 8.0, kw)
		assert.LessOrEqual(t, rec.EstimatedCPC, 22.0, kw)
		assert.GreaterOrEqual(t, rec.MagnetScore, 20, kw)
		assert.LessOrEqual(t, rec.MagnetScore, 99, kw)
		assert.GreaterOrEqual(t, rec.IntentScore, 1, kw)
		assert.LessOrEqual(t, rec.IntentScore, 10, kw)
		assert.GreaterOrEqual(t, rec.TrendPercentage, -20.0, kw)
		assert.LessOrEqual(t, rec.TrendPercentage, 19.0, kw)
		assert.True(t, rec.TrendDirection.Valid(), kw)
		assert.GreaterOrEqual(t, rec.SeasonalFactor, 0.8, kw)
		assert.LessOrEqual(t, rec.SeasonalFactor, 1.19, kw)
		assert.GreaterOrEqual(t, rec.SponsoredRank, 1, kw)
		assert.LessOrEqual(t, rec.SponsoredRank, 40, kw)
		assert.GreaterOrEqual(t, rec.Confidence, 0.5, kw)
		assert.LessOrEqual(t, rec.Confidence, 0.79, kw)

		assert.Equal(t, ktypes.CategoryDefault, rec.Category, kw)
		assert.Equal(t, fallbackReasoning, rec.Reasoning, kw)
		assert.Equal(t, "us", rec.Market, kw)
		assert.Equal(t, "USD", rec.Currency, kw)
		assert.Equal(t, ktypes.DataSourceFallback, rec.DataSource, kw)
	}
}

// Level and direction share the same hash residue, so their indices always
// move together.
func TestFallbackRecord_LevelDirectionCoherence(t *testing.T) {
	pairs := map[ktypes.CompetitionLevel]ktypes.TrendDirection{
		ktypes.CompetitionLow:    ktypes.TrendUp,
		ktypes.CompetitionMedium: ktypes.TrendStable,
		ktypes.CompetitionHigh:   ktypes.TrendDown,
	}
	for _, kw := range []string{"phone", "saree", "guide", "mixer", "serum", "dumbbell"} {
		rec := FallbackRecord(kw, "in", "INR")
		assert.Equal(t, pairs[rec.CompetitionLevel], rec.TrendDirection, kw)
	}
}

func TestFallbackRecord_IntentUsesLiveCalculation(t *testing.T) {
	rec := FallbackRecord("buy phone online india", "in", "INR")

	assert.Equal(t, scoring.IntentScore("buy phone online india"), rec.IntentScore)
	assert.Equal(t, 10, rec.IntentScore)
}
