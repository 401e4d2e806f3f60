package keyword

import (
	"testing"

	ktypes "github.com/turtacn/KeyRank-Intelligence/pkg/types/keyword"
)

func TestCategorize(t *testing.T) {
	tests := []struct {
		keyword string
		want    ktypes.Category
	}{
		{"best smartphone under 20000", ktypes.CategoryElectronics},
		{"Mobile Cover", ktypes.CategoryElectronics},
		{"cotton saree", ktypes.CategoryFashion},
		{"running shoes", ktypes.CategoryFashion},
		{"history novel", ktypes.CategoryBooks},
		{"kitchen storage rack", ktypes.CategoryHomeKitchen},
		{"home decor lights", ktypes.CategoryHomeKitchen},
		{"protein supplement", ktypes.CategoryHealth},
		{"face cream", ktypes.CategoryBeauty},
		{"gym gloves", ktypes.CategorySports},
		{"mystery thriller", ktypes.CategoryDefault},
		{"", ktypes.CategoryDefault},
	}
	for _, tt := range tests {
		t.Run(tt.keyword, func(t *testing.T) {
			if got := Categorize(tt.keyword); got != tt.want {
				t.Errorf("Categorize(%q) = %q, want %q", tt.keyword, got, tt.want)
			}
		})
	}
}

// Trigger priority is positional: earlier table entries shadow later ones
// even when both would match.
func TestCategorize_PriorityOrder(t *testing.T) {
	tests := []struct {
		keyword string
		want    ktypes.Category
	}{
		{"camera bag", ktypes.CategoryElectronics},
		{"vitamin c tablets", ktypes.CategoryElectronics},
		{"health insurance guide", ktypes.CategoryBooks},
		{"kitchen exercise mat", ktypes.CategoryHomeKitchen},
	}
	for _, tt := range tests {
		t.Run(tt.keyword, func(t *testing.T) {
			if got := Categorize(tt.keyword); got != tt.want {
				t.Errorf("Categorize(%q) = %q, want %q", tt.keyword, got, tt.want)
			}
		})
	}
}
