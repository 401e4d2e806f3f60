package scoring

import (
	ktypes "github.com/turtacn/KeyRank-Intelligence/pkg/types/keyword"
)

// ─────────────────────────────────────────────────────────────────────────────
// Calibration tables
// ─────────────────────────────────────────────────────────────────────────────

// CPCRange bounds the estimated cost-per-click for a category, denominated
// in the marketplace currency.
type CPCRange struct {
	Min float64
	Max float64
}

// VolumeProfile seeds the search volume estimate for a category.
type VolumeProfile struct {
	Base       int
	Multiplier float64
}

// Tables bundles the per-category calibration the engine consults. A Tables
// value is read-only after construction and safe for concurrent use.
type Tables struct {
	// CPC holds the bid range per category.
	CPC map[ktypes.Category]CPCRange

	// Volume holds the demand profile per category.
	Volume map[ktypes.Category]VolumeProfile

	// Seasonal holds one demand slot per calendar month, January first.
	// Categories without an explicit curve use the default flat curve.
	Seasonal map[ktypes.Category][12]float64
}

// DefaultTables returns the calibration the engine ships with. Values are
// tuned for the Indian marketplace and INR bid ranges.
func DefaultTables() Tables {
	return Tables{
		CPC: map[ktypes.Category]CPCRange{
			ktypes.CategoryElectronics: {Min: 8, Max: 25},
			ktypes.CategoryFashion:     {Min: 5, Max: 15},
			ktypes.CategoryBooks:       {Min: 3, Max: 12},
			ktypes.CategoryHomeKitchen: {Min: 6, Max: 18},
			ktypes.CategoryHealth:      {Min: 10, Max: 30},
			ktypes.CategoryBeauty:      {Min: 8, Max: 22},
			ktypes.CategorySports:      {Min: 7, Max: 20},
			ktypes.CategoryDefault:     {Min: 5, Max: 18},
		},
		Volume: map[ktypes.Category]VolumeProfile{
			ktypes.CategoryElectronics: {Base: 8000, Multiplier: 2.5},
			ktypes.CategoryFashion:     {Base: 6000, Multiplier: 2.0},
			ktypes.CategoryBooks:       {Base: 3000, Multiplier: 1.2},
			ktypes.CategoryHomeKitchen: {Base: 5000, Multiplier: 1.8},
			ktypes.CategoryHealth:      {Base: 7000, Multiplier: 2.2},
			ktypes.CategoryBeauty:      {Base: 6500, Multiplier: 2.1},
			ktypes.CategorySports:      {Base: 4500, Multiplier: 1.6},
			ktypes.CategoryDefault:     {Base: 4000, Multiplier: 1.5},
		},
		Seasonal: map[ktypes.Category][12]float64{
			ktypes.CategoryElectronics: {5, 10, 15, 20, 25, 30, 35, 40, 45, 35, 25, 15},
			ktypes.CategoryFashion:     {20, 25, 30, 35, 40, 30, 20, 15, 25, 35, 40, 45},
			ktypes.CategoryHealth:      {40, 35, 30, 25, 20, 15, 20, 25, 30, 35, 40, 45},
			ktypes.CategoryDefault:     {25, 25, 25, 25, 25, 25, 25, 25, 25, 25, 25, 25},
		},
	}
}

func (t Tables) cpcRange(c ktypes.Category) CPCRange {
	if r, ok := t.CPC[c]; ok {
		return r
	}
	return t.CPC[ktypes.CategoryDefault]
}

func (t Tables) volumeProfile(c ktypes.Category) VolumeProfile {
	if p, ok := t.Volume[c]; ok {
		return p
	}
	return t.Volume[ktypes.CategoryDefault]
}

func (t Tables) seasonalCurve(c ktypes.Category) [12]float64 {
	if s, ok := t.Seasonal[c]; ok {
		return s
	}
	return t.Seasonal[ktypes.CategoryDefault]
}
