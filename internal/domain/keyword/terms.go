package keyword

import "strings"

// Term matching is substring containment over the normalized keyword, not
// word-boundary matching: "best smartphone" matches both "best" and "phone".

// HighIntentTerms lift the search volume estimate when present anywhere in
// the keyword.
var HighIntentTerms = []string{"buy", "price", "cost", "cheap", "best", "top", "deal", "discount", "offer"}

// BrandTerms mark brand-qualified queries, which dampen the volume estimate.
var BrandTerms = []string{"brand", "original", "genuine", "authentic"}

// Intent vocabulary groups, ordered from strongest to weakest purchase
// signal. When several of the first three groups match at once only the
// strongest contributes to the intent score.
var (
	TransactionalTerms = []string{"buy", "purchase", "order", "booking", "shop", "get"}
	PriceTerms         = []string{"price", "cost", "cheap", "deal", "offer", "discount", "sale", "rate"}
	ResearchTerms      = []string{"best", "top", "review", "compare", "vs", "good", "quality", "rating"}
	BrandModifierTerms = []string{"original", "genuine", "authentic", "brand", "official", "authorized"}
	LocationTerms      = []string{"india", "delhi", "mumbai", "bangalore", "online", "delivery"}
	PlatformTerms      = []string{"amazon", "flipkart", "myntra", "snapdeal"}
)

// ContainsAnyTerm reports whether any of terms occurs as a substring of the
// normalized keyword.
func ContainsAnyTerm(normalized string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(normalized, t) {
			return true
		}
	}
	return false
}
