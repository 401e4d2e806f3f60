package competitor

import (
	"context"
	stderrors "errors"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/KeyRank-Intelligence/internal/application/bulk"
	"github.com/turtacn/KeyRank-Intelligence/internal/application/expansion"
	"github.com/turtacn/KeyRank-Intelligence/internal/application/scoring"
	"github.com/turtacn/KeyRank-Intelligence/pkg/errors"
	ktypes "github.com/turtacn/KeyRank-Intelligence/pkg/types/keyword"
)

type stubExpander struct {
	suggestions []string
	err         error

	gotSeed  string
	gotLimit int
}

func (s *stubExpander) Expand(_ context.Context, seed string, limit int) ([]string, error) {
	s.gotSeed = seed
	s.gotLimit = limit
	return s.suggestions, s.err
}

type stubAnalyzer struct {
	records []ktypes.ScoreRecord
	err     error
	limit   int

	called      bool
	calls       int
	gotKeywords []string
	gotBatches  [][]string
}

func (s *stubAnalyzer) AnalyzeAll(_ context.Context, keywords []string) ([]ktypes.ScoreRecord, error) {
	s.called = true
	s.calls++
	s.gotKeywords = keywords
	s.gotBatches = append(s.gotBatches, append([]string(nil), keywords...))
	if s.err != nil {
		return nil, s.err
	}
	if s.records != nil {
		return s.records, nil
	}
	out := make([]ktypes.ScoreRecord, 0, len(keywords))
	for _, kw := range keywords {
		out = append(out, rec(kw, 50, 1000, 10, 0.5, ktypes.CompetitionMedium))
	}
	return out, nil
}

func (s *stubAnalyzer) BatchLimit() int {
	return s.limit
}

func rec(kw string, magnet, volume int, cpc, competition float64, level ktypes.CompetitionLevel) ktypes.ScoreRecord {
	return ktypes.ScoreRecord{
		Keyword:          kw,
		MagnetScore:      magnet,
		SearchVolume:     volume,
		EstimatedCPC:     cpc,
		CompetitionScore: competition,
		CompetitionLevel: level,
		DataSource:       ktypes.DataSourceLive,
	}
}

var reportClock = time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

func newTestAggregator(exp SuggestionExpander, an BatchAnalyzer, opts ...Option) *Aggregator {
	opts = append(opts, WithClock(func() time.Time { return reportClock }))
	return NewAggregator(exp, an, nil, nil, opts...)
}

func TestAggregate_Validation(t *testing.T) {
	tests := []struct {
		name    string
		primary string
		limit   int
		code    errors.ErrorCode
	}{
		{"blank primary", "   ", 10, errors.ErrCodeKeywordBlank},
		{"zero limit", "phone", 0, errors.ErrCodeLimitInvalid},
		{"negative limit", "phone", -3, errors.ErrCodeLimitInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exp := &stubExpander{}
			an := &stubAnalyzer{}
			a := newTestAggregator(exp, an)

			_, err := a.Aggregate(context.Background(), tt.primary, tt.limit)
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, tt.code))
			assert.Empty(t, exp.gotSeed, "expansion must not run on invalid input")
			assert.False(t, an.called, "analysis must not run on invalid input")
		})
	}
}

func TestAggregate_EmptyExpansion(t *testing.T) {
	exp := &stubExpander{}
	an := &stubAnalyzer{}
	a := newTestAggregator(exp, an)

	got, err := a.Aggregate(context.Background(), "  Obscure Gadget  ", 10)
	require.NoError(t, err, "an empty expansion is not an error")

	assert.Equal(t, "obscure gadget", got.PrimaryKeyword)
	assert.NotNil(t, got.CompetitorKeywords)
	assert.Len(t, got.CompetitorKeywords, 0)
	assert.Zero(t, got.TotalFound)
	assert.Nil(t, got.Summary.TopOpportunity)
	assert.Zero(t, got.Summary.TotalSearchVolume)
	assert.Equal(t, "in", got.Market)
	assert.Equal(t, "INR", got.Currency)
	assert.Equal(t, reportClock, got.GeneratedAt)
	assert.False(t, an.called, "nothing to analyze without suggestions")
}

func TestAggregate_SortsByMagnetDescending(t *testing.T) {
	exp := &stubExpander{suggestions: []string{"alpha", "beta", "gamma", "delta"}}
	an := &stubAnalyzer{records: []ktypes.ScoreRecord{
		rec("alpha", 90, 1000, 10, 0.5, ktypes.CompetitionMedium),
		rec("beta", 50, 1000, 10, 0.5, ktypes.CompetitionMedium),
		rec("gamma", 50, 1000, 10, 0.5, ktypes.CompetitionMedium),
		rec("delta", 70, 1000, 10, 0.5, ktypes.CompetitionMedium),
	}}
	a := newTestAggregator(exp, an)

	got, err := a.Aggregate(context.Background(), "phone", 10)
	require.NoError(t, err)

	order := make([]string, 0, len(got.CompetitorKeywords))
	for _, r := range got.CompetitorKeywords {
		order = append(order, r.Keyword)
	}
	assert.Equal(t, []string{"alpha", "delta", "beta", "gamma"}, order,
		"descending magnet order, ties keep input order")
	assert.Equal(t, 4, got.TotalFound)
}

func TestAggregate_SummaryMath(t *testing.T) {
	exp := &stubExpander{suggestions: []string{"one", "two", "three"}}
	an := &stubAnalyzer{records: []ktypes.ScoreRecord{
		rec("winner", 80, 6000, 10, 0.5, ktypes.CompetitionLow),
		rec("middle", 60, 4000, 15, 0.7, ktypes.CompetitionMedium),
		rec("niche", 40, 2000, 11, 0.3, ktypes.CompetitionLow),
	}}
	a := newTestAggregator(exp, an)

	got, err := a.Aggregate(context.Background(), "phone", 10)
	require.NoError(t, err)

	s := got.Summary
	assert.Equal(t, 12000, s.TotalSearchVolume)
	assert.Equal(t, 12.0, s.AverageCPC)
	assert.Equal(t, 60.0, s.AverageMagnetScore)
	assert.Equal(t, 0.5, s.AverageCompetition)
	require.NotNil(t, s.TopOpportunity)
	assert.Equal(t, "winner", s.TopOpportunity.Keyword)
	assert.Equal(t, 1, s.HighOpportunityCount, "magnet above 70 and competition below 0.6")
	assert.Equal(t, 2, s.LowCompetitionKeywords)
	assert.Equal(t, 1, s.HighVolumeKeywords, "volume strictly above 5000")
}

func TestAggregate_PassesSeedAndLimitThrough(t *testing.T) {
	exp := &stubExpander{suggestions: []string{"gaming laptop stand", "gaming laptop cooler"}}
	an := &stubAnalyzer{records: []ktypes.ScoreRecord{
		rec("gaming laptop stand", 50, 1000, 10, 0.5, ktypes.CompetitionMedium),
		rec("gaming laptop cooler", 40, 1000, 10, 0.5, ktypes.CompetitionMedium),
	}}
	a := newTestAggregator(exp, an)

	_, err := a.Aggregate(context.Background(), "  Gaming Laptop  ", 25)
	require.NoError(t, err)

	assert.Equal(t, "  Gaming Laptop  ", exp.gotSeed, "expander trims for itself")
	assert.Equal(t, 25, exp.gotLimit)
	assert.Equal(t, exp.suggestions, an.gotKeywords)
}

func TestAggregate_ExpanderErrorPropagates(t *testing.T) {
	boom := stderrors.New("expansion backend down")
	a := newTestAggregator(&stubExpander{err: boom}, &stubAnalyzer{})

	_, err := a.Aggregate(context.Background(), "phone", 10)
	assert.ErrorIs(t, err, boom)
}

func TestAggregate_AnalyzerErrorPropagates(t *testing.T) {
	exp := &stubExpander{suggestions: []string{"phone case"}}
	an := &stubAnalyzer{err: errors.New(errors.ErrCodeBatchTooLarge, "keyword batch exceeds maximum size")}
	a := newTestAggregator(exp, an)

	_, err := a.Aggregate(context.Background(), "phone", 10)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeBatchTooLarge))
}

func TestAggregate_ChunksWideExpansions(t *testing.T) {
	exp := &stubExpander{suggestions: []string{"one", "two", "three", "four", "five"}}
	an := &stubAnalyzer{limit: 2}
	a := newTestAggregator(exp, an)

	got, err := a.Aggregate(context.Background(), "phone", 5)
	require.NoError(t, err)

	assert.Equal(t, 3, an.calls)
	assert.Equal(t, [][]string{{"one", "two"}, {"three", "four"}, {"five"}}, an.gotBatches)

	require.Len(t, got.CompetitorKeywords, 5)
	order := make([]string, 0, 5)
	for _, r := range got.CompetitorKeywords {
		order = append(order, r.Keyword)
	}
	assert.Equal(t, exp.suggestions, order, "equal magnet scores keep expansion order")
}

func TestAggregate_LimitAboveBatchCap(t *testing.T) {
	suggestions := make([]string, 8)
	for i := range suggestions {
		suggestions[i] = fmt.Sprintf("phone case %d", i)
	}
	exp := &stubExpander{suggestions: suggestions}
	orchestrator := bulk.NewOrchestrator(scoring.NewEngine(nil, nil), nil, nil, bulk.WithBatchLimit(3))
	a := NewAggregator(exp, orchestrator, nil, nil)

	got, err := a.Aggregate(context.Background(), "phone case", len(suggestions))
	require.NoError(t, err, "expansions wider than one batch score in chunks")
	assert.Equal(t, len(suggestions), got.TotalFound)
	require.Len(t, got.CompetitorKeywords, len(suggestions))
}

func TestAggregate_WithMarketplace(t *testing.T) {
	a := newTestAggregator(&stubExpander{}, &stubAnalyzer{}, WithMarketplace("us", "USD"))

	got, err := a.Aggregate(context.Background(), "phone", 5)
	require.NoError(t, err)
	assert.Equal(t, "us", got.Market)
	assert.Equal(t, "USD", got.Currency)
}

func TestAggregate_LivePipeline(t *testing.T) {
	expander := expansion.NewExpander(nil, nil, expansion.WithRand(rand.New(rand.NewSource(11))))
	orchestrator := bulk.NewOrchestrator(scoring.NewEngine(nil, nil), nil, nil)
	a := NewAggregator(expander, orchestrator, nil, nil)

	got, err := a.Aggregate(context.Background(), "wireless earbuds", 10)
	require.NoError(t, err)

	assert.Equal(t, "wireless earbuds", got.PrimaryKeyword)
	assert.Equal(t, 10, got.TotalFound)
	require.Len(t, got.CompetitorKeywords, 10)

	for i := 1; i < len(got.CompetitorKeywords); i++ {
		if got.CompetitorKeywords[i-1].MagnetScore < got.CompetitorKeywords[i].MagnetScore {
			t.Errorf("records not sorted at index %d", i)
		}
	}
	for _, r := range got.CompetitorKeywords {
		assert.Equal(t, ktypes.DataSourceLive, r.DataSource, r.Keyword)
	}
	require.NotNil(t, got.Summary.TopOpportunity)
	assert.Equal(t, got.CompetitorKeywords[0].MagnetScore, got.Summary.TopOpportunity.MagnetScore)
	assert.Positive(t, got.Summary.TotalSearchVolume)
}
