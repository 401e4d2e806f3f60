// Package keyword holds the deterministic vocabulary of the scoring domain
// in the KeyRank-Intelligence platform: keyword normalization, the stable
// hash every estimator derives its noise from, category assignment and the
// term groups that signal purchase intent.
package keyword

import "strings"

// Normalize canonicalizes a raw keyword for hashing and term matching by
// trimming surrounding whitespace and lowercasing.
func Normalize(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// Words splits an already normalized keyword into its whitespace-separated
// words.
func Words(normalized string) []string {
	return strings.Fields(normalized)
}
