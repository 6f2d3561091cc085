package pipeline

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/backmassage/speedexp/internal/logging"
	"github.com/backmassage/speedexp/internal/planner"
	"github.com/backmassage/speedexp/internal/probe"
)

// Sentinel errors for fatal pipeline conditions.
var (
	// ErrTransform means an external transcode invocation failed or
	// produced an invalid file. Always fatal for the export and the chain.
	ErrTransform = errors.New("transform failed")
	// ErrEncodingExhausted means every encoder candidate failed to produce
	// a valid output.
	ErrEncodingExhausted = errors.New("all encoder candidates failed")
)

// Convergence loop bounds. The retry budget is fixed; the stagnation floor
// is the attempt count after which a non-improving error stops the loop.
const (
	maxAttempts     = 10
	stagnationFloor = 3
)

// Transcoder runs one transform attempt. The production implementation
// invokes ffmpeg; tests substitute a fake.
type Transcoder interface {
	Transform(plan planner.TransformPlan, inPath, outPath string) error
}

// Prober measures a file. The production implementation calls ffprobe with
// a bounded wait.
type Prober interface {
	Facts(path string) (probe.MediaFacts, error)
}

// Attempt is the immutable record of one convergence attempt. The accepted
// plan is the argmin by Error over all attempts.
type Attempt struct {
	Plan     planner.TransformPlan
	Measured float64
	Error    float64
}

// Result is the corrector's terminal state: either CONVERGED (frame-accurate
// error) or EXHAUSTED (best-found plan accepted with residual error).
type Result struct {
	Plan       planner.TransformPlan
	OutputPath string
	Attempts   []Attempt
	Converged  bool
	Residual   float64 // Duration error of the accepted attempt, seconds.
}

// Corrector iteratively adjusts a TransformPlan until the measured output
// duration matches the target within a frame-accurate threshold.
type Corrector struct {
	Transcoder Transcoder
	Prober     Prober
	Log        *logging.Logger
	Budget     int // Attempt budget; 0 means the default of 10.
}

// PrecisionThreshold is the convergence tolerance: one millisecond or half
// of one frame duration, whichever is smaller.
func PrecisionThreshold(frameRate float64) float64 {
	t := 0.001
	if frameRate > 0 {
		if half := 0.5 / frameRate; half < t {
			t = half
		}
	}
	return t
}

// Converge runs the bounded correction loop: transform, measure, rescale.
// The attempt output at outPath is discarded and regenerated on every
// retry. Exhausting the budget is not an error; the best-found plan is
// accepted and its residual error reported. A failed transform or an
// unmeasurable output is fatal.
func (c *Corrector) Converge(initial planner.TransformPlan, inPath, outPath string, target, frameRate float64) (Result, error) {
	budget := c.Budget
	if budget <= 0 {
		budget = maxAttempts
	}
	threshold := PrecisionThreshold(frameRate)

	plan := initial
	var attempts []Attempt
	best := -1
	converged := false

	for len(attempts) < budget {
		measured, err := c.attempt(plan, inPath, outPath)
		if err != nil {
			return Result{}, fmt.Errorf("attempt %d: %w", len(attempts)+1, err)
		}

		e := math.Abs(measured - target)
		attempts = append(attempts, Attempt{Plan: plan, Measured: measured, Error: e})
		if best < 0 || e < attempts[best].Error {
			best = len(attempts) - 1
		}

		if e <= threshold {
			converged = true
			break
		}

		// Stop churning once the error stops improving.
		if len(attempts) >= stagnationFloor && best != len(attempts)-1 {
			c.debugf("convergence stagnated after %d attempts (best error %.4fs)",
				len(attempts), attempts[best].Error)
			break
		}

		plan = plan.Corrected(measured, target)
		c.debugf("retry %d: error %.4fs > %.4fs, tempo -> %.6f",
			len(attempts), e, threshold, plan.Tempo)
	}

	accepted := attempts[best]

	// The file on disk belongs to the last attempt. When that is not the
	// best one, re-run once with the best parameters; the re-run is assumed
	// deterministic for identical parameters, so its measured duration is
	// logged rather than re-scored.
	if !converged && best != len(attempts)-1 {
		measured, err := c.attempt(accepted.Plan, inPath, outPath)
		if err != nil {
			return Result{}, fmt.Errorf("re-run with best plan: %w", err)
		}
		c.debugf("re-ran best plan (tempo %.6f): measured %.4fs", accepted.Plan.Tempo, measured)
	}

	return Result{
		Plan:       accepted.Plan,
		OutputPath: outPath,
		Attempts:   attempts,
		Converged:  converged,
		Residual:   accepted.Error,
	}, nil
}

// attempt regenerates outPath with plan and returns the measured duration.
// Any invocation failure or unmeasurable output is an ErrTransform.
func (c *Corrector) attempt(plan planner.TransformPlan, inPath, outPath string) (float64, error) {
	os.Remove(outPath)

	if err := c.Transcoder.Transform(plan, inPath, outPath); err != nil {
		return 0, err
	}

	facts, err := c.Prober.Facts(outPath)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrTransform, err)
	}
	if !facts.Valid() {
		return 0, fmt.Errorf("%w: output duration %.3fs", ErrTransform, facts.Duration)
	}
	return facts.Duration, nil
}

func (c *Corrector) debugf(format string, args ...interface{}) {
	if c.Log != nil {
		c.Log.Debug(format, args...)
	}
}
