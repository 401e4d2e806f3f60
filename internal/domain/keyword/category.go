package keyword

import (
	ktypes "github.com/turtacn/KeyRank-Intelligence/pkg/types/keyword"
)

// categoryTriggers is scanned in order and the first category with a
// matching trigger wins, so "camera bag" lands in electronics rather than
// fashion.
var categoryTriggers = []struct {
	category ktypes.Category
	triggers []string
}{
	{ktypes.CategoryElectronics, []string{"phone", "mobile", "laptop", "tablet", "headphone", "speaker", "camera"}},
	{ktypes.CategoryFashion, []string{"shirt", "dress", "saree", "jeans", "shoes", "bag"}},
	{ktypes.CategoryBooks, []string{"book", "novel", "guide", "manual"}},
	{ktypes.CategoryHomeKitchen, []string{"kitchen", "home", "furniture", "decor"}},
	{ktypes.CategoryHealth, []string{"vitamin", "supplement", "medicine", "health"}},
	{ktypes.CategoryBeauty, []string{"cream", "lotion", "makeup", "beauty", "skin"}},
	{ktypes.CategorySports, []string{"sports", "fitness", "gym", "exercise"}},
}

// Categorize assigns a product category by scanning the trigger table in
// priority order against the normalized keyword. Keywords matching no
// trigger fall back to the default category.
func Categorize(raw string) ktypes.Category {
	normalized := Normalize(raw)
	for _, entry := range categoryTriggers {
		if ContainsAnyTerm(normalized, entry.triggers) {
			return entry.category
		}
	}
	return ktypes.CategoryDefault
}
