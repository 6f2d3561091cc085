package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/backmassage/speedexp/internal/config"
	"github.com/backmassage/speedexp/internal/display"
	"github.com/backmassage/speedexp/internal/ffmpeg"
	"github.com/backmassage/speedexp/internal/planner"
	"github.com/backmassage/speedexp/internal/probe"
)

// minOutputBytes is the size floor an encoded output must clear to count as
// valid. Smaller files are header-only stubs left by a crashed encoder.
const minOutputBytes = 70 * 1024

// Invoker runs one ffmpeg invocation. The production implementation is
// ffmpeg.CLI; ladder tests substitute a fake.
type Invoker interface {
	Run(args []string) ffmpeg.Result
}

// planTranscoder adapts an Invoker to the corrector's Transcoder interface,
// carrying the per-export audio options across attempts.
type planTranscoder struct {
	exec Invoker
	opts ffmpeg.TransformOptions
}

func (t planTranscoder) Transform(plan planner.TransformPlan, inPath, outPath string) error {
	res := t.exec.Run(ffmpeg.TransformArgs(inPath, outPath, plan, t.opts))
	if res.Err != nil {
		return fmt.Errorf("%w: %v: %s", ErrTransform, res.Err, ffmpeg.Tail(res.Stderr, 300))
	}
	return nil
}

// exportState is the per-iteration context: created at iteration start,
// discarded at iteration end. Only OutPath feeds the next iteration.
type exportState struct {
	Number         int // Export number used in names and the label.
	Index          int // Iteration counted from 0.
	InPath         string
	InFacts        probe.MediaFacts
	TargetDuration float64 // Post-speedup target, fixed for the whole run.
	ReferenceSize  int64   // Size of the very first input, bytes.
	VolumeDeltaDb  float64
	OutPath        string
}

// speedup runs the 2x transform into spedPath. With a pitch mode active the
// corrector converges the real output duration onto the target; without one
// a single fixed 2.0 tempo pass runs and its nominal timing is trusted.
func (p *Pipeline) speedup(st *exportState, spedPath string) (Result, error) {
	trans := planTranscoder{
		exec: p.Exec,
		opts: ffmpeg.TransformOptions{
			HasAudio:      st.InFacts.HasAudio,
			Rubberband:    p.Caps.Rubberband,
			VolumeDeltaDb: st.VolumeDeltaDb,
			Preset:        string(p.Cfg.Preset),
			FPS:           p.Cfg.OutputFPS,
		},
	}

	if p.Cfg.PitchMode == config.PitchNone {
		plan := planner.FixedPlan()
		if err := trans.Transform(plan, st.InPath, spedPath); err != nil {
			return Result{}, err
		}
		facts, err := p.Probe.Facts(spedPath)
		if err != nil {
			return Result{}, fmt.Errorf("%w: %v", ErrTransform, err)
		}
		if !facts.Valid() {
			return Result{}, fmt.Errorf("%w: speedup output duration %.3fs", ErrTransform, facts.Duration)
		}
		return Result{
			Plan:       plan,
			OutputPath: spedPath,
			Attempts:   []Attempt{{Plan: plan, Measured: facts.Duration}},
			Converged:  true,
		}, nil
	}

	ratio := planner.PitchRatio(p.Cfg.PitchMode, st.Index)
	initial, err := planner.Plan(st.InFacts.Duration, st.TargetDuration, ratio)
	if err != nil {
		return Result{}, err
	}

	c := &Corrector{Transcoder: trans, Prober: p.Probe, Log: p.Log}
	return c.Converge(initial, st.InPath, spedPath, st.TargetDuration, st.InFacts.FrameRate)
}

// duplicate restores the pre-speedup duration by concatenating the corrected
// clip with itself through the stream-copy concat demuxer.
func (p *Pipeline) duplicate(spedPath, listPath, dupPath string) (probe.MediaFacts, error) {
	abs, err := filepath.Abs(spedPath)
	if err != nil {
		return probe.MediaFacts{}, fmt.Errorf("%w: resolve %s: %v", ErrTransform, spedPath, err)
	}
	entry := fmt.Sprintf("file '%s'\n", abs)
	if err := os.WriteFile(listPath, []byte(entry+entry), 0o644); err != nil {
		return probe.MediaFacts{}, fmt.Errorf("%w: write concat list: %v", ErrTransform, err)
	}

	res := p.Exec.Run(ffmpeg.ConcatArgs(listPath, dupPath))
	if res.Err != nil {
		return probe.MediaFacts{}, fmt.Errorf("%w: concat: %v: %s", ErrTransform, res.Err, ffmpeg.Tail(res.Stderr, 300))
	}

	facts, err := p.Probe.Facts(dupPath)
	if err != nil {
		return probe.MediaFacts{}, fmt.Errorf("%w: %v", ErrTransform, err)
	}
	if !facts.Valid() {
		return probe.MediaFacts{}, fmt.Errorf("%w: duplicated output duration %.3fs", ErrTransform, facts.Duration)
	}
	return facts, nil
}

// overlayFilter builds the complete -vf expression for one export: the
// export label, the watermark, and the optional hue rotation.
func (p *Pipeline) overlayFilter(st *exportState) string {
	label := fmt.Sprintf("%d - %s", st.Number, display.FormatPower(st.Number))
	filter := ffmpeg.LabelOverlay(label, p.Cfg.TextSize) + "," +
		ffmpeg.WatermarkOverlay(p.Cfg.WatermarkSize)
	if p.Cfg.ColorShift {
		filter += "," + ffmpeg.HueRotate(st.Index)
	}
	return filter
}

// overlay stamps the label onto the duplicated clip, walking the encoder
// ladder until a candidate produces a valid file at st.OutPath.
func (p *Pipeline) overlay(st *exportState, dupPath string, dupFacts probe.MediaFacts) error {
	opts := ffmpeg.EncodeOptions{
		Filter:   p.overlayFilter(st),
		Bitrate:  planner.EstimateBitrate(st.ReferenceSize, dupFacts.Duration),
		HasAudio: dupFacts.HasAudio,
		Lossless: p.Cfg.Lossless,
		FPS:      p.Cfg.OutputFPS,
	}
	return p.encodeLadder(st.OutPath, func(enc ffmpeg.EncoderConfig) []string {
		return ffmpeg.OverlayArgs(dupPath, st.OutPath, enc, opts)
	})
}

// encodeLadder tries every encoder candidate in priority order. Any stale
// file at outPath is deleted before each candidate so a failed invocation
// cannot leave a half-written file behind as the final output.
func (p *Pipeline) encodeLadder(outPath string, build func(ffmpeg.EncoderConfig) []string) error {
	var lastErr string
	for _, enc := range ffmpeg.Ladder(p.Caps, p.Cfg.Preset, p.Cfg.Lossless) {
		os.Remove(outPath)
		p.Log.Info("trying %s...", enc.Name)

		res := p.Exec.Run(build(enc))
		if res.Err != nil {
			lastErr = ffmpeg.Tail(res.Stderr, 200)
			if ffmpeg.MatchUnknownEncoder(res.Stderr) {
				p.Log.Debug("%s: encoder not available", enc.Name)
			} else {
				p.Log.Warn("%s failed: %s", enc.Name, lastErr)
			}
			continue
		}

		if err := p.validateOutput(outPath); err != nil {
			lastErr = err.Error()
			p.Log.Warn("%s produced an invalid file: %v", enc.Name, err)
			continue
		}
		return nil
	}

	os.Remove(outPath)
	return fmt.Errorf("%w: last error: %s", ErrEncodingExhausted, lastErr)
}

// validateOutput applies the validity rule for encoded files: the file
// exists, clears the size floor, and probes to a positive duration.
func (p *Pipeline) validateOutput(path string) error {
	fi, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("missing output: %w", err)
	}
	if fi.Size() < minOutputBytes {
		return fmt.Errorf("output too small: %d bytes", fi.Size())
	}
	facts, err := p.Probe.Facts(path)
	if err != nil {
		return err
	}
	if !facts.Valid() {
		return fmt.Errorf("duration %.3fs: %w", facts.Duration, probe.ErrMeasurement)
	}
	return nil
}
