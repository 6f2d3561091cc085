// Package check provides pre-pipeline dependency validation and the
// once-per-run capability probe for ffmpeg/ffprobe.
package check

import (
	"errors"
	"os/exec"
	"strings"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"

	"github.com/backmassage/speedexp/internal/display"
	"github.com/backmassage/speedexp/internal/ffmpeg"
)

// Sentinel errors returned when a required tool is missing.
var (
	ErrFfmpegNotFound  = errors.New("ffmpeg not found on PATH")
	ErrFfprobeNotFound = errors.New("ffprobe not found on PATH")
)

// lowMemoryBytes is the available-memory threshold below which long encode
// chains tend to thrash on mobile devices.
const lowMemoryBytes = 1 << 30

// Logger is the minimal logging interface needed by Detect.
// Defined here (rather than importing the logging package) so that check
// remains dependency-light and testable with a mock logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
	Debug(string, ...interface{})
}

// Detect verifies ffmpeg and ffprobe are on PATH, then probes the optional
// capabilities that shape the pipeline: the rubberband and loudnorm filters
// and the libx264/mpeg4 encoders. Capabilities are probed exactly once per
// run. Host diagnostics are informational only.
func Detect(log Logger) (ffmpeg.Capabilities, error) {
	var caps ffmpeg.Capabilities

	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return caps, ErrFfmpegNotFound
	}
	if _, err := exec.LookPath("ffprobe"); err != nil {
		return caps, ErrFfprobeNotFound
	}
	log.Success("FFmpeg found")
	log.Success("FFprobe found")

	caps.Version = ffmpegVersion()
	if caps.Version != "" {
		log.Info("  %s", caps.Version)
	}

	caps.Rubberband, caps.Loudnorm = scanFilters()
	if caps.Rubberband {
		log.Success("Rubberband filter available")
	} else {
		log.Warn("Rubberband filter NOT available (will use atempo fallback)")
	}
	if caps.Loudnorm {
		log.Success("Loudnorm filter available")
	} else {
		log.Warn("Loudnorm filter NOT available")
	}

	caps.Libx264, caps.Mpeg4 = scanEncoders()
	log.Info("  Encoders: libx264=%t mpeg4=%t", caps.Libx264, caps.Mpeg4)

	logHostDiagnostics(log)

	return caps, nil
}

// ffmpegVersion returns the first line of `ffmpeg -version`, or empty.
func ffmpegVersion() string {
	out, err := exec.Command("ffmpeg", "-version").Output()
	if err != nil {
		return ""
	}
	line := string(out)
	if idx := strings.Index(line, "\n"); idx > 0 {
		line = line[:idx]
	}
	return strings.TrimSpace(line)
}

// scanFilters checks `ffmpeg -filters` for the rubberband and loudnorm
// audio filters.
func scanFilters() (rubberband, loudnorm bool) {
	out, err := exec.Command("ffmpeg", "-hide_banner", "-filters").Output()
	if err != nil {
		return false, false
	}
	s := string(out)
	return strings.Contains(s, "rubberband"), strings.Contains(s, "loudnorm")
}

// scanEncoders checks `ffmpeg -encoders` for the ladder's codec families.
func scanEncoders() (libx264, mpeg4 bool) {
	out, err := exec.Command("ffmpeg", "-hide_banner", "-encoders").Output()
	if err != nil {
		// Assume the common pairing rather than emptying the ladder.
		return true, true
	}
	s := string(out)
	return strings.Contains(s, "libx264"), strings.Contains(s, "mpeg4")
}

// logHostDiagnostics prints CPU and memory headroom. Failures to read host
// stats are swallowed: diagnostics never block the pipeline.
func logHostDiagnostics(log Logger) {
	cpus, err := cpu.Counts(true)
	if err != nil {
		cpus = 0
	}

	vm, err := mem.VirtualMemory()
	if err != nil {
		if cpus > 0 {
			log.Info("  Host: %d logical CPUs", cpus)
		}
		return
	}

	log.Info("  Host: %d logical CPUs, %s available memory",
		cpus, display.FormatBytes(int64(vm.Available)))
	if vm.Available < lowMemoryBytes {
		log.Warn("Low available memory (%s); long export chains may be slow",
			display.FormatBytes(int64(vm.Available)))
	}
}
