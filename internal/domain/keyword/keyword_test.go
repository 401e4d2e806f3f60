package keyword

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"  Wireless Headphones  ", "wireless headphones"},
		{"BUY PHONE", "buy phone"},
		{"saree", "saree"},
		{"\tbest laptop\n", "best laptop"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			if got := Normalize(tt.raw); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestWords(t *testing.T) {
	assert.Equal(t, []string{"wireless", "headphones"}, Words("wireless  headphones"))
	assert.Equal(t, []string{"buy"}, Words("buy"))
	assert.Empty(t, Words(""))
}

func TestStableHash_IgnoresCaseAndSurroundingSpace(t *testing.T) {
	base := StableHash("buy phone")
	assert.Equal(t, base, StableHash("  Buy Phone "))
	assert.Equal(t, base, StableHash("BUY PHONE"))
	assert.NotZero(t, base)
}

func TestStableHash_DistinguishesKeywords(t *testing.T) {
	if StableHash("wireless headphones") == StableHash("wireless headphone") {
		t.Error("distinct keywords should not collide on the sample inputs")
	}
}

func TestSaltedHash(t *testing.T) {
	kw := "wireless headphones"

	assert.NotEqual(t, StableHash(kw), SaltedHash(kw, "ads"),
		"salting must move the hash away from the base value")
	assert.NotEqual(t, SaltedHash(kw, "ads"), SaltedHash(kw, "click"),
		"different salts must yield independent streams")
	assert.Equal(t, SaltedHash(kw, "ads"), SaltedHash("  Wireless HEADPHONES ", "ads"))
}

func TestContainsAnyTerm(t *testing.T) {
	tests := []struct {
		name       string
		normalized string
		terms      []string
		want       bool
	}{
		{"direct_word", "buy phone online", HighIntentTerms, true},
		{"substring_match", "best smartphone", HighIntentTerms, true},
		{"no_match", "wireless mouse", HighIntentTerms, false},
		{"brand_term", "genuine leather wallet", BrandTerms, true},
		{"empty_keyword", "", HighIntentTerms, false},
		{"empty_terms", "buy phone", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ContainsAnyTerm(tt.normalized, tt.terms); got != tt.want {
				t.Errorf("ContainsAnyTerm(%q) = %v, want %v", tt.normalized, got, tt.want)
			}
		})
	}
}
