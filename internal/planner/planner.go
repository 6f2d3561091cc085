// Package planner computes the speed/pitch transform for one export step:
// the tempo factor applied to the audio timeline, its reciprocal time-scale
// factor applied to the video timeline, and the pitch ratio. It also derives
// the target output bitrate from the reference size.
package planner

import (
	"fmt"

	"github.com/backmassage/speedexp/internal/probe"
)

// Operating ranges for corrected plans. Values outside these ranges put
// ffmpeg's setpts/rubberband parameters into invalid territory.
const (
	TempoMin     = 0.5
	TempoMax     = 100.0
	TimeScaleMin = 0.01
	TimeScaleMax = 2.0
)

// TransformPlan is one attempt's transform parameters. TimeScale tracks
// 1/Tempo but is clamped independently.
type TransformPlan struct {
	Tempo      float64 // Audio tempo factor, > 0.
	TimeScale  float64 // Video PTS multiplier, > 0.
	PitchRatio float64 // Audio pitch ratio, 1.0 = unchanged.
}

// Plan computes the initial transform for an input of duration inDuration
// converging toward targetDuration. A non-positive input duration is a
// measurement failure, never a division by zero.
func Plan(inDuration, targetDuration, pitchRatio float64) (TransformPlan, error) {
	if inDuration <= 0 {
		return TransformPlan{}, fmt.Errorf("input duration %.3fs: %w", inDuration, probe.ErrMeasurement)
	}
	if targetDuration <= 0 {
		return TransformPlan{}, fmt.Errorf("target duration %.3fs: %w", targetDuration, probe.ErrMeasurement)
	}
	return TransformPlan{
		Tempo:      inDuration / targetDuration,
		TimeScale:  targetDuration / inDuration,
		PitchRatio: pitchRatio,
	}, nil
}

// FixedPlan is the pitch-disabled transform: exactly 2x speed, trusting the
// transcoder's nominal timing. No convergence loop runs in this mode.
func FixedPlan() TransformPlan {
	return TransformPlan{Tempo: 2.0, TimeScale: 0.5, PitchRatio: 1.0}
}

// Corrected rescales the plan by the measured/target duration ratio and
// clamps both factors to their operating ranges.
func (p TransformPlan) Corrected(measured, target float64) TransformPlan {
	tempo := Clamp(p.Tempo*(measured/target), TempoMin, TempoMax)
	return TransformPlan{
		Tempo:      tempo,
		TimeScale:  Clamp(1/tempo, TimeScaleMin, TimeScaleMax),
		PitchRatio: p.PitchRatio,
	}
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
