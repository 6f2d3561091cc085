package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/backmassage/speedexp/internal/config"
	"github.com/backmassage/speedexp/internal/display"
	"github.com/backmassage/speedexp/internal/ffmpeg"
	"github.com/backmassage/speedexp/internal/ledger"
	"github.com/backmassage/speedexp/internal/logging"
	"github.com/backmassage/speedexp/internal/naming"
	"github.com/backmassage/speedexp/internal/planner"
	"github.com/backmassage/speedexp/internal/probe"
)

// Pipeline drives the cumulative export chain: every export's output becomes
// the next export's input. All work is sequential; every external invocation
// blocks until it exits.
type Pipeline struct {
	Cfg    *config.Config
	Caps   ffmpeg.Capabilities
	Log    *logging.Logger
	Exec   Invoker
	Probe  Prober
	Ledger *ledger.Ledger
}

// factsProber adapts the probe package functions to the Prober interface.
type factsProber struct{}

func (factsProber) Facts(path string) (probe.MediaFacts, error) { return probe.Facts(path) }

// New assembles a production pipeline over the real ffmpeg and ffprobe
// binaries. Tests construct the struct directly with fakes.
func New(cfg *config.Config, caps ffmpeg.Capabilities, log *logging.Logger, led *ledger.Ledger) *Pipeline {
	return &Pipeline{
		Cfg:    cfg,
		Caps:   caps,
		Log:    log,
		Exec:   ffmpeg.CLI{Tee: cfg.Verbose},
		Probe:  factsProber{},
		Ledger: led,
	}
}

// Run executes the chain of exports into exportsDir. Any stage failure
// aborts the entire remaining chain: iteration i+1 never runs against a
// missing or invalid output from iteration i. Cancellation is honored
// between stages only; a running ffmpeg invocation is never killed.
func (p *Pipeline) Run(ctx context.Context, exportsDir string) (RunStats, error) {
	start := time.Now()
	stats := RunStats{Requested: p.Cfg.Exports}

	source, err := p.Probe.Facts(p.Cfg.SourcePath)
	if err != nil {
		return stats, err
	}
	if !source.Valid() {
		return stats, fmt.Errorf("source %q: duration %.3fs: %w",
			p.Cfg.SourcePath, source.Duration, probe.ErrMeasurement)
	}
	p.Log.Info("source: %s (%s, %s)", p.Cfg.SourcePath,
		display.FormatSeconds(source.Duration), display.FormatBytes(source.SizeBytes))

	// The volume every export is normalized toward. Measured once on the
	// original source so chained exports do not drift louder or quieter.
	targetVolume := probe.DefaultMeanVolumeDb
	if source.HasAudio {
		targetVolume = probe.MeanVolume(p.Cfg.SourcePath)
		p.Log.Debug("source mean volume: %.1f dB", targetVolume)
	}

	// The convergence target never changes within a run: every export
	// converges toward half the original duration, not half its own input.
	targetDuration := source.Duration / 2
	referenceSize := source.SizeBytes
	ext := p.Cfg.Ext()

	p.Ledger.StartRun(p.Cfg.SourcePath, string(p.Cfg.PitchMode), p.Cfg.Exports, p.Cfg.Lossless)

	inPath := p.Cfg.SourcePath
	inFacts := source
	for i := 0; i < p.Cfg.Exports; i++ {
		if err := ctx.Err(); err != nil {
			stats.Elapsed = time.Since(start)
			return stats, err
		}

		num := p.Cfg.StartNumber + i
		outPath, err := naming.UniqueExportPath(exportsDir, num, ext)
		if err != nil {
			stats.Elapsed = time.Since(start)
			return stats, err
		}

		st := &exportState{
			Number:         num,
			Index:          i,
			InPath:         inPath,
			InFacts:        inFacts,
			TargetDuration: targetDuration,
			ReferenceSize:  referenceSize,
			OutPath:        outPath,
		}
		if inFacts.HasAudio {
			st.VolumeDeltaDb = targetVolume - probe.MeanVolume(inPath)
		}

		display.PrintSectionHeader(fmt.Sprintf("[Export %d/%d] %s",
			i+1, p.Cfg.Exports, filepath.Base(outPath)))

		result, outFacts, err := p.runExport(ctx, st, exportsDir)
		if err != nil {
			stats.Elapsed = time.Since(start)
			return stats, fmt.Errorf("export %d: %w", num, err)
		}

		stats.Completed++
		stats.Attempts += len(result.Attempts)
		if result.Converged {
			stats.Converged++
		}
		stats.TotalOutputBytes += outFacts.SizeBytes
		stats.Outputs = append(stats.Outputs, st.OutPath)

		p.Ledger.RecordExport(ledger.Export{
			Number:     num,
			OutputPath: st.OutPath,
			DurationS:  outFacts.Duration,
			SizeBytes:  outFacts.SizeBytes,
			Attempts:   len(result.Attempts),
			Converged:  result.Converged,
			ResidualS:  result.Residual,
		})

		inPath = st.OutPath
		inFacts = outFacts
	}

	stats.Elapsed = time.Since(start)
	return stats, nil
}

// runExport runs speedup, duplication and overlay for one export. Every
// temporary is removed in a deferred best-effort cleanup whether the
// iteration succeeded or failed.
func (p *Pipeline) runExport(ctx context.Context, st *exportState, dir string) (Result, probe.MediaFacts, error) {
	spedPath := naming.TempPath(dir, "sped", st.Number, "mp4")
	listPath := naming.TempPath(dir, "list", st.Number, "txt")
	dupPath := naming.TempPath(dir, "concat", st.Number, "mp4")
	defer func() {
		for _, f := range []string{spedPath, listPath, dupPath} {
			os.Remove(f)
		}
	}()

	p.Log.Info("input: %s, target after speedup: %s",
		display.FormatSeconds(st.InFacts.Duration), display.FormatSeconds(st.TargetDuration))
	if pitch := planner.CumulativeSemitones(p.Cfg.PitchMode, st.Index); pitch != 0 {
		p.Log.Info("pitch: %+d semitones (cumulative)", pitch)
	}
	if st.InFacts.HasAudio {
		p.Log.Debug("volume correction: %+.2f dB", st.VolumeDeltaDb)
	}

	result, err := p.speedup(st, spedPath)
	if err != nil {
		return Result{}, probe.MediaFacts{}, err
	}
	if !result.Converged {
		p.Log.Warn("duration did not converge after %d attempts; using best plan (error %.4fs)",
			len(result.Attempts), result.Residual)
	}

	if err := ctx.Err(); err != nil {
		return Result{}, probe.MediaFacts{}, err
	}

	dupFacts, err := p.duplicate(spedPath, listPath, dupPath)
	if err != nil {
		return Result{}, probe.MediaFacts{}, err
	}
	p.Log.Debug("duplicated: %s", display.FormatSeconds(dupFacts.Duration))

	if err := ctx.Err(); err != nil {
		return Result{}, probe.MediaFacts{}, err
	}

	if err := p.overlay(st, dupPath, dupFacts); err != nil {
		return Result{}, probe.MediaFacts{}, err
	}

	outFacts, err := p.Probe.Facts(st.OutPath)
	if err != nil {
		return Result{}, probe.MediaFacts{}, err
	}

	p.Log.Success("export %d completed: %s (%s, %sx speed)",
		st.Number, filepath.Base(st.OutPath),
		display.FormatSeconds(outFacts.Duration), display.FormatPower(st.Index+1))
	return result, outFacts, nil
}
