package expansion

// Modifier vocabularies tuned for the Indian marketplace. Variants are built
// by simple concatenation, so every seed keeps its original casing.
var (
	prefixModifiers = []string{
		"best", "cheap", "top", "branded", "original", "quality",
		"premium", "new", "latest", "good", "popular", "trending",
		"recommended", "affordable", "budget", "luxury", "professional",
		"commercial",
	}

	suffixModifiers = []string{
		"online", "india", "price", "deal", "offer", "sale", "review",
		"buy", "shop", "brand", "cost", "rate", "flipkart", "amazon",
		"discount", "wholesale", "retail", "market", "store", "purchase",
	}

	intentWords = []string{
		"buy", "purchase", "order", "shop", "get", "find", "search",
		"compare", "vs", "versus", "review", "rating", "feedback",
	}

	locationWords = []string{
		"india", "delhi", "mumbai", "bangalore", "chennai", "kolkata",
		"hyderabad", "pune", "online", "nationwide", "local",
	}
)

// strategies lists every variant builder in the order candidates are
// produced before shuffling.
var strategies = []func(seed string) []string{
	prefixVariants,
	suffixVariants,
	intentVariants,
	locationVariants,
	commercialVariants,
	questionVariants,
	comparisonVariants,
}

func prefixVariants(seed string) []string {
	out := make([]string, 0, len(prefixModifiers))
	for _, p := range prefixModifiers {
		out = append(out, p+" "+seed)
	}
	return out
}

func suffixVariants(seed string) []string {
	out := make([]string, 0, len(suffixModifiers))
	for _, s := range suffixModifiers {
		out = append(out, seed+" "+s)
	}
	return out
}

func intentVariants(seed string) []string {
	out := make([]string, 0, len(intentWords)*3)
	for _, w := range intentWords {
		out = append(out,
			w+" "+seed,
			seed+" to "+w,
			"how to "+w+" "+seed,
		)
	}
	return out
}

func locationVariants(seed string) []string {
	out := make([]string, 0, len(locationWords)*3)
	for _, l := range locationWords {
		out = append(out,
			seed+" in "+l,
			seed+" "+l,
			l+" "+seed,
		)
	}
	return out
}

func commercialVariants(seed string) []string {
	return []string{
		seed + " for sale",
		seed + " best price",
		"buy " + seed + " online",
		seed + " lowest price",
		seed + " amazon india",
		seed + " flipkart",
		"cheap " + seed + " online",
		seed + " with discount",
		seed + " bulk order",
		"wholesale " + seed,
		seed + " home delivery",
		seed + " cash on delivery",
	}
}

func questionVariants(seed string) []string {
	return []string{
		"what is " + seed,
		"how to use " + seed,
		"where to buy " + seed,
		"which " + seed + " is best",
		"why buy " + seed,
		"when to use " + seed,
	}
}

func comparisonVariants(seed string) []string {
	return []string{
		seed + " vs",
		seed + " comparison",
		seed + " alternative",
		seed + " substitute",
		"better than " + seed,
		seed + " or",
	}
}
