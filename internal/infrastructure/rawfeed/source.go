package rawfeed

import (
	"context"
	"os"
	"strings"

	"github.com/turtacn/KeyRank-Intelligence/internal/application/expansion"
	"github.com/turtacn/KeyRank-Intelligence/pkg/errors"
)

// Source serves previously parsed export rows as a suggestion source, so an
// offline portal export can stand in for the live completion endpoint.
type Source struct {
	keywords []Keyword
}

var _ expansion.SuggestionSource = (*Source)(nil)

// NewSource wraps parsed export rows. The rows are expected in the order
// ParseMagnetExport returns them, highest volume first.
func NewSource(keywords []Keyword) *Source {
	return &Source{keywords: keywords}
}

// LoadSource parses a saved portal export file into a Source. Rows below
// minVolume are dropped. The server uses it when expansion.feed_file is
// configured, serving suggestions offline instead of hitting the live
// completion endpoint.
func LoadSource(path string, minVolume int) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeFeedParseFailed, "opening keyword export")
	}
	defer f.Close()

	keywords, err := ParseMagnetExport(f, minVolume)
	if err != nil {
		return nil, err
	}
	return NewSource(keywords), nil
}

// Fetch returns the export keywords containing the seed, preserving the
// stored volume ordering. An empty seed matches nothing.
func (s *Source) Fetch(ctx context.Context, seed string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	needle := strings.ToLower(strings.TrimSpace(seed))
	if needle == "" {
		return nil, nil
	}

	var matches []string
	for _, k := range s.keywords {
		if strings.Contains(strings.ToLower(k.Keyword), needle) {
			matches = append(matches, k.Keyword)
		}
	}
	return matches, nil
}

// Len reports how many rows back the source.
func (s *Source) Len() int {
	return len(s.keywords)
}
