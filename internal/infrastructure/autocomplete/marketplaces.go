package autocomplete

import (
	"sort"
	"strings"

	ktypes "github.com/turtacn/KeyRank-Intelligence/pkg/types/keyword"
)

// DefaultMarketplaceCode resolves requests that name no marketplace or an
// unknown one.
const DefaultMarketplaceCode = "in"

// marketplaces maps lowercase country codes to their completion endpoints.
var marketplaces = map[string]ktypes.Marketplace{
	"in": {Code: "in", MarketplaceID: "A21TJRUUN4KGV", Host: "completion.amazon.in", Locale: "en_IN", Currency: "INR", Country: "India"},
	"us": {Code: "us", MarketplaceID: "ATVPDKIKX0DER", Host: "completion.amazon.com", Locale: "en_US", Currency: "USD", Country: "United States"},
	"uk": {Code: "uk", MarketplaceID: "A1F83G8C2ARO7P", Host: "completion.amazon.co.uk", Locale: "en_GB", Currency: "GBP", Country: "United Kingdom"},
	"de": {Code: "de", MarketplaceID: "A1PA6795UKMFR9", Host: "completion.amazon.de", Locale: "de_DE", Currency: "EUR", Country: "Germany"},
	"ca": {Code: "ca", MarketplaceID: "A2EUQ1WTGCTBG2", Host: "completion.amazon.ca", Locale: "en_CA", Currency: "CAD", Country: "Canada"},
	"au": {Code: "au", MarketplaceID: "A39IBJ37TRP1C6", Host: "completion.amazon.com.au", Locale: "en_AU", Currency: "AUD", Country: "Australia"},
}

// Lookup resolves a country code to its marketplace, falling back to the
// default marketplace for unknown codes. Codes are matched case-insensitively.
func Lookup(code string) ktypes.Marketplace {
	if m, ok := marketplaces[normalizeCode(code)]; ok {
		return m
	}
	return marketplaces[DefaultMarketplaceCode]
}

// Find resolves a country code without the default fallback.
func Find(code string) (ktypes.Marketplace, bool) {
	m, ok := marketplaces[normalizeCode(code)]
	return m, ok
}

// All returns every supported marketplace ordered by country code.
func All() []ktypes.Marketplace {
	out := make([]ktypes.Marketplace, 0, len(marketplaces))
	for _, m := range marketplaces {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

func normalizeCode(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}
