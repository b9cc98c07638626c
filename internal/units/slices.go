// Package units converts gram totals to portion-slice counts. A slice
// is a coarse counting unit: 26 g of carbs or 25 g of protein.
package units

import (
	"math"

	"github.com/weighline/cutlog/internal/model"
)

const (
	CarbGramsPerSlice    = 26
	ProteinGramsPerSlice = 25
)

// Slices maps a gram total to a slice count. Zero grams is zero
// slices; any positive amount registers at least one slice, even when
// rounding alone would give zero. Callers must always recompute from
// the current gram total rather than accumulate per-entry slices,
// since rounding is not additive.
func Slices(grams, gramsPerSlice int) int {
	if grams <= 0 {
		return 0
	}
	n := int(math.Round(float64(grams) / float64(gramsPerSlice)))
	if n < 1 {
		return 1
	}
	return n
}

// ForMacro applies the fixed per-macro constant.
func ForMacro(macro model.MacroType, grams int) int {
	if macro == model.MacroProtein {
		return Slices(grams, ProteinGramsPerSlice)
	}
	return Slices(grams, CarbGramsPerSlice)
}
