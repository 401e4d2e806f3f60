package redis

import (
	"context"
	"strings"
	"time"

	"github.com/turtacn/KeyRank-Intelligence/internal/application/expansion"
	"github.com/turtacn/KeyRank-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/KeyRank-Intelligence/pkg/errors"
)

// DefaultSuggestionTTL bounds how long completion results are reused. The
// upstream suggestion mix shifts slowly, so minutes of staleness is fine.
const DefaultSuggestionTTL = 15 * time.Minute

// CachedSource memoizes autocomplete fetches. Concurrent fetches for the
// same seed collapse into one upstream call, and a broken cache degrades to
// fetching live rather than failing the expansion.
type CachedSource struct {
	next   expansion.SuggestionSource
	cache  *Cache
	market string
	ttl    time.Duration
	logger logging.Logger
}

var _ expansion.SuggestionSource = (*CachedSource)(nil)

// NewCachedSource wraps next with a cache keyed by marketplace and seed.
func NewCachedSource(next expansion.SuggestionSource, cache *Cache, market string, ttl time.Duration, logger logging.Logger) *CachedSource {
	if ttl <= 0 {
		ttl = DefaultSuggestionTTL
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &CachedSource{
		next:   next,
		cache:  cache,
		market: market,
		ttl:    ttl,
		logger: logger,
	}
}

// Fetch returns cached suggestions for the seed, filling the cache on a miss.
func (s *CachedSource) Fetch(ctx context.Context, seed string) ([]string, error) {
	key := s.key(seed)

	var suggestions []string
	err := s.cache.GetOrSet(ctx, key, &suggestions, s.ttl, func(ctx context.Context) (interface{}, error) {
		return s.next.Fetch(ctx, seed)
	})
	if err == nil {
		return suggestions, nil
	}
	if errors.IsCode(err, errors.ErrCodeCacheError) {
		s.logger.Warn("suggestion cache unavailable, fetching live",
			logging.String("seed", seed),
			logging.Err(err),
		)
		return s.next.Fetch(ctx, seed)
	}
	return nil, err
}

func (s *CachedSource) key(seed string) string {
	return "autocomplete:" + s.market + ":" + strings.ToLower(strings.TrimSpace(seed))
}
