package pipeline

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/backmassage/speedexp/internal/display"
	"github.com/backmassage/speedexp/internal/ffmpeg"
	"github.com/backmassage/speedexp/internal/naming"
	"github.com/backmassage/speedexp/internal/probe"
)

// Compile concatenates every export of the run in chain order and stamps
// the watermark on the aggregate. Callers treat a failure here as a warning
// rather than a chain abort: the exports already exist and are valid.
func (p *Pipeline) Compile(outputs []string) (string, error) {
	if len(outputs) == 0 {
		return "", errors.New("no exports to compile")
	}
	dir := filepath.Dir(outputs[0])
	ext := p.Cfg.Ext()

	outPath, err := naming.CompilationPath(dir, ext)
	if err != nil {
		return "", err
	}

	listPath := naming.TempPath(dir, "compile_list", 0, "txt")
	concatPath := naming.TempPath(dir, "compile", 0, ext)
	defer func() {
		os.Remove(listPath)
		os.Remove(concatPath)
	}()

	var list bytes.Buffer
	for _, f := range outputs {
		abs, err := filepath.Abs(f)
		if err != nil {
			return "", fmt.Errorf("resolve %s: %w", f, err)
		}
		fmt.Fprintf(&list, "file '%s'\n", abs)
	}
	if err := os.WriteFile(listPath, list.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("write compile list: %w", err)
	}

	p.Log.Info("merging %d exports...", len(outputs))
	res := p.Exec.Run(ffmpeg.ConcatArgs(listPath, concatPath))
	if res.Err != nil {
		return "", fmt.Errorf("compile concat: %v: %s", res.Err, ffmpeg.Tail(res.Stderr, 300))
	}

	facts, err := p.Probe.Facts(concatPath)
	if err != nil {
		return "", err
	}
	if !facts.Valid() {
		return "", fmt.Errorf("compiled aggregate duration %.3fs: %w", facts.Duration, probe.ErrMeasurement)
	}

	opts := ffmpeg.EncodeOptions{
		Filter:   ffmpeg.WatermarkOverlay(p.Cfg.WatermarkSize),
		HasAudio: facts.HasAudio,
		Lossless: p.Cfg.Lossless,
		FPS:      p.Cfg.OutputFPS,
	}
	err = p.encodeLadder(outPath, func(enc ffmpeg.EncoderConfig) []string {
		return ffmpeg.CompileArgs(concatPath, outPath, enc, opts)
	})
	if err != nil {
		return "", err
	}

	if final, err := p.Probe.Facts(outPath); err == nil {
		p.Log.Success("compilation: %s (%s, %s)", filepath.Base(outPath),
			display.FormatSeconds(final.Duration), display.FormatBytes(final.SizeBytes))
	}
	return outPath, nil
}
