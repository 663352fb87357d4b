// Package complexity computes cyclomatic complexity and derived
// maintainability metrics for JavaScript/TypeScript sources.
package complexity

import "math"

// Score holds the complexity metrics for one file.
type Score struct {
	// Cyclomatic is 1 + one per decision point, summed over all functions
	// and class methods in the file.
	Cyclomatic int `json:"cyclomatic"`

	// Cognitive is a cognitive-complexity proxy. Currently defined as equal
	// to Cyclomatic; kept as a separate field so the two can diverge without
	// a schema change.
	Cognitive int `json:"cognitive"`

	// Maintainability is the 0-100 maintainability index for the file.
	Maintainability float64 `json:"maintainability"`
}

// NewScore builds a Score from an aggregate cyclomatic count and line count.
func NewScore(cyclomatic, lines int) Score {
	return Score{
		Cyclomatic:      cyclomatic,
		Cognitive:       cyclomatic,
		Maintainability: MaintainabilityIndex(cyclomatic, lines),
	}
}

// MaintainabilityIndex derives a 0-100 maintainability score from aggregate
// cyclomatic complexity C and line count L:
//
//	volume = L * log2(max(C, 1))
//	MI     = clamp(171 - 5.2*ln(volume) - 0.23*C - 16.2*ln(L), 0, 100)
//
// An empty file (L == 0) or a file with no decision points (volume == 0) is
// defined as perfectly maintainable.
func MaintainabilityIndex(cyclomatic, lines int) float64 {
	if lines <= 0 {
		return 100
	}

	volume := float64(lines) * math.Log2(math.Max(float64(cyclomatic), 1))
	if volume <= 0 {
		return 100
	}

	mi := 171 - 5.2*math.Log(volume) - 0.23*float64(cyclomatic) - 16.2*math.Log(float64(lines))
	return clamp(mi, 0, 100)
}

// Debt returns the technical-debt contribution of one file: half a point per
// cyclomatic unit above the threshold, zero at or below it.
func Debt(cyclomatic, threshold int) float64 {
	if cyclomatic <= threshold {
		return 0
	}
	return float64(cyclomatic-threshold) * 0.5
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
