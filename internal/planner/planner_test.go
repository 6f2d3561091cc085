package planner

import (
	"errors"
	"math"
	"testing"

	"github.com/backmassage/speedexp/internal/config"
	"github.com/backmassage/speedexp/internal/probe"
)

func TestPlan_NominalTwoX(t *testing.T) {
	// First export: input is the original, target is half its duration.
	plan, err := Plan(10.0, 5.0, 1.0)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if plan.Tempo != 2.0 {
		t.Errorf("Tempo = %v, want 2.0", plan.Tempo)
	}
	if plan.TimeScale != 0.5 {
		t.Errorf("TimeScale = %v, want 0.5", plan.TimeScale)
	}
}

func TestPlan_DriftedInput(t *testing.T) {
	// Later exports have slightly drifted durations; the plan converges
	// toward the fixed original target.
	plan, err := Plan(10.2, 5.0, FixedPitchRatio)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if got, want := plan.Tempo, 10.2/5.0; math.Abs(got-want) > 1e-12 {
		t.Errorf("Tempo = %v, want %v", got, want)
	}
	if got, want := plan.TimeScale, 5.0/10.2; math.Abs(got-want) > 1e-12 {
		t.Errorf("TimeScale = %v, want %v", got, want)
	}
	if plan.PitchRatio != FixedPitchRatio {
		t.Errorf("PitchRatio = %v, want %v", plan.PitchRatio, FixedPitchRatio)
	}
}

func TestPlan_ZeroDurationIsMeasurementError(t *testing.T) {
	for _, d := range []float64{0, -1.5} {
		_, err := Plan(d, 5.0, 1.0)
		if !errors.Is(err, probe.ErrMeasurement) {
			t.Errorf("Plan(%v): err = %v, want ErrMeasurement", d, err)
		}
	}
}

func TestPlan_ZeroTargetIsMeasurementError(t *testing.T) {
	if _, err := Plan(10.0, 0, 1.0); !errors.Is(err, probe.ErrMeasurement) {
		t.Errorf("err = %v, want ErrMeasurement", err)
	}
}

func TestFixedPlan(t *testing.T) {
	plan := FixedPlan()
	if plan.Tempo != 2.0 || plan.TimeScale != 0.5 || plan.PitchRatio != 1.0 {
		t.Errorf("FixedPlan = %+v, want {2.0 0.5 1.0}", plan)
	}
}

func TestCorrected_RescalesAndClamps(t *testing.T) {
	plan := TransformPlan{Tempo: 2.0, TimeScale: 0.5, PitchRatio: 1.0}

	// Output ran 4% long: tempo grows by the same ratio.
	c := plan.Corrected(5.2, 5.0)
	if got, want := c.Tempo, 2.0*5.2/5.0; math.Abs(got-want) > 1e-12 {
		t.Errorf("Tempo = %v, want %v", got, want)
	}
	if got, want := c.TimeScale, 1/c.Tempo; math.Abs(got-want) > 1e-12 {
		t.Errorf("TimeScale = %v, want %v", got, want)
	}

	// Pathological measurement pushes tempo past the ceiling.
	c = plan.Corrected(500.0, 5.0)
	if c.Tempo != TempoMax {
		t.Errorf("Tempo = %v, want clamped %v", c.Tempo, TempoMax)
	}
	if c.TimeScale != TimeScaleMin {
		t.Errorf("TimeScale = %v, want clamped %v", c.TimeScale, TimeScaleMin)
	}

	// And the floor on the other side.
	c = plan.Corrected(0.5, 5.0)
	if c.Tempo != TempoMin {
		t.Errorf("Tempo = %v, want clamped %v", c.Tempo, TempoMin)
	}
	if c.TimeScale != TimeScaleMax {
		t.Errorf("TimeScale = %v, want clamped %v", c.TimeScale, TimeScaleMax)
	}
}

func TestClamp(t *testing.T) {
	if got := Clamp(0.3, 0.5, 100); got != 0.5 {
		t.Errorf("Clamp low = %v, want 0.5", got)
	}
	if got := Clamp(150, 0.5, 100); got != 100.0 {
		t.Errorf("Clamp high = %v, want 100", got)
	}
	if got := Clamp(3.7, 0.5, 100); got != 3.7 {
		t.Errorf("Clamp mid = %v, want 3.7", got)
	}
}

// --- pitch math ---

func TestSemitoneRatio(t *testing.T) {
	// The legacy constant is hand-typed and drifts from the computed value
	// in the 11th decimal; they must still agree to audible precision.
	if got := SemitoneRatio(1); math.Abs(got-FixedPitchRatio) > 1e-9 {
		t.Errorf("SemitoneRatio(1) = %v, want ~%v", got, FixedPitchRatio)
	}
	if got := SemitoneRatio(12); math.Abs(got-2.0) > 1e-12 {
		t.Errorf("SemitoneRatio(12) = %v, want 2.0", got)
	}
	if got := SemitoneRatio(-12); math.Abs(got-0.5) > 1e-12 {
		t.Errorf("SemitoneRatio(-12) = %v, want 0.5", got)
	}
	if got := SemitoneRatio(0); got != 1.0 {
		t.Errorf("SemitoneRatio(0) = %v, want 1.0", got)
	}
}

func TestAppliedSemitones(t *testing.T) {
	tests := []struct {
		mode      config.PitchMode
		iteration int
		want      int
	}{
		{config.PitchNone, 0, 0},
		{config.PitchNone, 5, 0},
		{config.PitchFixed, 0, 1},
		{config.PitchFixed, 7, 1},
		{config.PitchAlternating, 0, 7},
		{config.PitchAlternating, 1, -5},
		{config.PitchAlternating, 2, 7},
		{config.PitchAlternating, 3, -5},
	}
	for _, tt := range tests {
		if got := AppliedSemitones(tt.mode, tt.iteration); got != tt.want {
			t.Errorf("AppliedSemitones(%s, %d) = %d, want %d", tt.mode, tt.iteration, got, tt.want)
		}
	}
}

func TestPitchRatio(t *testing.T) {
	// Fixed mode applies the exact legacy constant on every iteration.
	if got := PitchRatio(config.PitchFixed, 0); got != FixedPitchRatio {
		t.Errorf("PitchRatio(fixed, 0) = %v, want %v", got, FixedPitchRatio)
	}
	if got := PitchRatio(config.PitchFixed, 4); got != FixedPitchRatio {
		t.Errorf("PitchRatio(fixed, 4) = %v, want %v", got, FixedPitchRatio)
	}
	if got := PitchRatio(config.PitchNone, 2); got != 1.0 {
		t.Errorf("PitchRatio(none, 2) = %v, want 1.0", got)
	}
	if got, want := PitchRatio(config.PitchAlternating, 1), SemitoneRatio(-5); got != want {
		t.Errorf("PitchRatio(alternating, 1) = %v, want %v", got, want)
	}
}

func TestCumulativeSemitones(t *testing.T) {
	if got := CumulativeSemitones(config.PitchFixed, 2); got != 3 {
		t.Errorf("fixed cumulative = %d, want 3", got)
	}
	// +7, -5, +7 = 9
	if got := CumulativeSemitones(config.PitchAlternating, 2); got != 9 {
		t.Errorf("alternating cumulative = %d, want 9", got)
	}
	if got := CumulativeSemitones(config.PitchNone, 4); got != 0 {
		t.Errorf("none cumulative = %d, want 0", got)
	}
}

// --- bitrate ---

func TestEstimateBitrate_Derivation(t *testing.T) {
	// 10 MB reference, 10s duplicated clip:
	// 10e6 * 1.15 * 8 / 1000 / 10 = 9200 kbps total, minus 128k audio.
	br := EstimateBitrate(10_000_000, 10.0)
	if br.VideoKbps != 9200-128 {
		t.Errorf("VideoKbps = %d, want %d", br.VideoKbps, 9200-128)
	}
	if br.MaxrateKbps != br.VideoKbps*3/2 {
		t.Errorf("MaxrateKbps = %d, want 1.5x video", br.MaxrateKbps)
	}
	if br.BufsizeKbps != br.VideoKbps*2 {
		t.Errorf("BufsizeKbps = %d, want 2x video", br.BufsizeKbps)
	}
}

func TestEstimateBitrate_Floor(t *testing.T) {
	// Tiny reference file bottoms out at the floor.
	br := EstimateBitrate(100_000, 60.0)
	if br.VideoKbps != MinVideoKbps {
		t.Errorf("VideoKbps = %d, want floor %d", br.VideoKbps, MinVideoKbps)
	}
}

func TestEstimateBitrate_ZeroDuration(t *testing.T) {
	br := EstimateBitrate(10_000_000, 0)
	if br.VideoKbps != MinVideoKbps {
		t.Errorf("VideoKbps = %d, want floor %d", br.VideoKbps, MinVideoKbps)
	}
}
