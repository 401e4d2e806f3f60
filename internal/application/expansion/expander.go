// Package expansion grows a seed keyword into a list of candidate keywords.
// External autocomplete suggestions are combined with template variants built
// from marketplace-specific modifier vocabularies. External entries always
// lead the result in their original order; generated variants are shuffled
// before truncation so repeated calls sample the template space instead of
// always returning the same prefix of it.
package expansion

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/turtacn/KeyRank-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/KeyRank-Intelligence/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/KeyRank-Intelligence/pkg/errors"
)

// autocompleteMax caps the external source contribution, matching the
// marketplace autocomplete page size.
const autocompleteMax = 10

// minSuggestionLength drops fragments too short to be meaningful keywords.
const minSuggestionLength = 3

// SuggestionSource serves marketplace autocomplete suggestions for a seed.
// Implementations must honor the context deadline.
type SuggestionSource interface {
	Fetch(ctx context.Context, seed string) ([]string, error)
}

// Expander produces keyword suggestions for a seed. It is safe for
// concurrent use.
type Expander struct {
	source  SuggestionSource
	logger  logging.Logger
	metrics *prometheus.AppMetrics

	mu  sync.Mutex
	rng *rand.Rand
}

// Option configures an Expander.
type Option func(*Expander)

// WithSource attaches an external autocomplete source. Without one the
// expander works from template strategies alone.
func WithSource(src SuggestionSource) Option {
	return func(e *Expander) { e.source = src }
}

// WithRand replaces the shuffle source, letting tests pin the ordering.
func WithRand(rng *rand.Rand) Option {
	return func(e *Expander) { e.rng = rng }
}

// NewExpander builds an Expander. Logger and metrics may be nil.
func NewExpander(logger logging.Logger, metrics *prometheus.AppMetrics, opts ...Option) *Expander {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	e := &Expander{
		logger:  logger,
		metrics: metrics,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Expand returns up to limit unique suggestions for the seed. A failing
// external source contributes nothing and is never propagated as an error;
// the template strategies still fill the request.
func (e *Expander) Expand(ctx context.Context, seed string, limit int) ([]string, error) {
	trimmed := strings.TrimSpace(seed)
	if trimmed == "" {
		return nil, errors.New(errors.ErrCodeSeedBlank, "seed keyword must not be blank")
	}
	if limit < 1 {
		return nil, errors.Newf(errors.ErrCodeLimitInvalid, "suggestion limit must be positive, got %d", limit)
	}

	suggestions := e.fetchExternal(ctx, trimmed)

	if needed := limit - len(suggestions); needed > 0 {
		start := time.Now()
		generated := e.generate(trimmed, needed, suggestions)
		prometheus.RecordExpansion(e.metrics, "generated", len(generated), time.Since(start))
		suggestions = append(suggestions, generated...)
	}

	out := dedupe(suggestions, limit)
	e.logger.Debug("seed expanded",
		logging.String("seed", trimmed),
		logging.Int("limit", limit),
		logging.Int("returned", len(out)),
	)
	return out, nil
}

// fetchExternal asks the autocomplete source for suggestions. Failures
// degrade to an empty contribution.
func (e *Expander) fetchExternal(ctx context.Context, seed string) []string {
	if e.source == nil {
		return nil
	}

	start := time.Now()
	external, err := e.source.Fetch(ctx, seed)
	elapsed := time.Since(start)
	if err != nil {
		prometheus.RecordExpansion(e.metrics, "external", 0, elapsed)
		e.logger.Warn("autocomplete source failed, continuing with template variants",
			logging.String("seed", seed),
			logging.Err(err),
		)
		return nil
	}
	if len(external) > autocompleteMax {
		external = external[:autocompleteMax]
	}
	prometheus.RecordExpansion(e.metrics, "external", len(external), elapsed)
	return external
}

// generate builds template variants for the seed, drops any that collide
// with existing suggestions, shuffles the remainder and returns at most
// needed of them.
func (e *Expander) generate(seed string, needed int, existing []string) []string {
	seen := make(map[string]bool, len(existing))
	for _, s := range existing {
		seen[strings.ToLower(strings.TrimSpace(s))] = true
	}

	variants := make([]string, 0, 160)
	for _, strategy := range strategies {
		for _, v := range strategy(seed) {
			clean := strings.TrimSpace(v)
			key := strings.ToLower(clean)
			if len(key) < minSuggestionLength || seen[key] {
				continue
			}
			seen[key] = true
			variants = append(variants, clean)
		}
	}

	e.mu.Lock()
	e.rng.Shuffle(len(variants), func(i, j int) {
		variants[i], variants[j] = variants[j], variants[i]
	})
	e.mu.Unlock()

	if len(variants) > needed {
		variants = variants[:needed]
	}
	return variants
}

// dedupe enforces the output contract: case-insensitive uniqueness with the
// first occurrence winning, trimmed entries shorter than three characters
// dropped, at most limit entries.
func dedupe(suggestions []string, limit int) []string {
	out := make([]string, 0, limit)
	seen := make(map[string]bool, len(suggestions))
	for _, s := range suggestions {
		clean := strings.TrimSpace(s)
		key := strings.ToLower(clean)
		if len(key) < minSuggestionLength || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, clean)
		if len(out) == limit {
			break
		}
	}
	return out
}
