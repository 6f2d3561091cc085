package planner

import (
	"math"

	"github.com/backmassage/speedexp/internal/config"
)

// FixedPitchRatio is 2^(1/12): one semitone up, applied per export in fixed
// mode. The shift compounds across the chain because each export feeds the
// next.
const FixedPitchRatio = 1.059463094352953

// SemitoneRatio returns the pitch ratio for a shift of n semitones
// (negative n shifts down).
func SemitoneRatio(n int) float64 {
	return math.Pow(2, float64(n)/12)
}

// PitchRatio returns the pitch ratio the transform applies during one
// iteration. Fixed mode uses the legacy constant rather than recomputing
// 2^(1/12), keeping filter strings identical to the original tool's.
func PitchRatio(mode config.PitchMode, iteration int) float64 {
	if mode == config.PitchFixed {
		return FixedPitchRatio
	}
	return SemitoneRatio(AppliedSemitones(mode, iteration))
}

// AppliedSemitones returns the semitone shift the transform applies during
// one iteration (counted from 0). Fixed mode shifts one semitone per export;
// alternating mode shifts +7 on even iterations and -5 on odd ones.
func AppliedSemitones(mode config.PitchMode, iteration int) int {
	switch mode {
	case config.PitchFixed:
		return 1
	case config.PitchAlternating:
		if iteration%2 == 0 {
			return 7
		}
		return -5
	default:
		return 0
	}
}

// CumulativeSemitones returns the total shift accumulated through iteration
// (inclusive), for display. Fixed mode grows by one per export; alternating
// mode sums its +7/-5 pattern.
func CumulativeSemitones(mode config.PitchMode, iteration int) int {
	switch mode {
	case config.PitchFixed:
		return iteration + 1
	case config.PitchAlternating:
		total := 0
		for i := 0; i <= iteration; i++ {
			total += AppliedSemitones(mode, i)
		}
		return total
	default:
		return 0
	}
}
