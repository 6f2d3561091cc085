package ffmpeg

import (
	"strconv"

	"github.com/backmassage/speedexp/internal/planner"
)

// TransformOptions carries the per-export audio context shared by every
// transform attempt of the convergence loop.
type TransformOptions struct {
	HasAudio      bool
	Rubberband    bool
	VolumeDeltaDb float64
	Preset        string
	FPS           int
}

// preamble is the shared argv head: quiet, non-interactive, overwrite.
func preamble() []string {
	return []string{"-hide_banner", "-nostdin", "-loglevel", "error", "-y"}
}

// TransformArgs builds the argv for one transform attempt: the plan's time
// scale on the video timeline and its tempo (plus pitch and volume
// correction) on the audio timeline. Intermediate attempts always encode
// with the workhorse x264 settings; the final ladder only applies to the
// overlay stage.
func TransformArgs(inPath, outPath string, plan planner.TransformPlan, opts TransformOptions) []string {
	args := append(preamble(), "-i", inPath,
		"-vf", TimeScaleFilter(plan.TimeScale),
	)

	if opts.HasAudio {
		args = append(args,
			"-af", AudioSpeedChain(plan.Tempo, plan.PitchRatio, opts.VolumeDeltaDb, opts.Rubberband),
		)
	}

	args = append(args,
		"-c:v", "libx264",
		"-preset", opts.Preset,
		"-crf", "23",
		"-pix_fmt", "yuv420p",
		"-r", strconv.Itoa(opts.FPS),
	)

	if opts.HasAudio {
		args = append(args, "-c:a", "aac", "-b:a", "128k", "-ar", "44100")
	} else {
		args = append(args, "-an")
	}

	return append(args, outPath)
}

// ConcatArgs builds the stream-copy concat invocation over a list file.
func ConcatArgs(listPath, outPath string) []string {
	return append(preamble(),
		"-f", "concat",
		"-safe", "0",
		"-i", listPath,
		"-c", "copy",
		outPath,
	)
}

// EncodeOptions carries the overlay/encode stage parameters that do not
// vary across ladder candidates.
type EncodeOptions struct {
	Filter   string // Complete -vf expression (label, watermark, hue).
	Bitrate  planner.BitrateTarget
	HasAudio bool
	Lossless bool
	FPS      int
}

// OverlayArgs builds the argv for one encoder candidate of the overlay
// stage. Lossless mode drops rate control (the codec parameters carry the
// quality setting) and pairs PCM audio with the .mov container.
func OverlayArgs(inPath, outPath string, enc EncoderConfig, opts EncodeOptions) []string {
	args := append(preamble(), "-i", inPath,
		"-vf", opts.Filter,
		"-c:v", enc.Codec,
	)
	args = append(args, enc.Args...)

	if !opts.Lossless {
		args = append(args,
			"-b:v", strconv.Itoa(opts.Bitrate.VideoKbps)+"k",
			"-maxrate", strconv.Itoa(opts.Bitrate.MaxrateKbps)+"k",
			"-bufsize", strconv.Itoa(opts.Bitrate.BufsizeKbps)+"k",
		)
	}

	args = append(args, "-r", strconv.Itoa(opts.FPS))

	if opts.HasAudio {
		if opts.Lossless {
			args = append(args, "-c:a", "pcm_s16le", "-ar", "44100")
		} else {
			args = append(args, "-c:a", "aac", "-b:a", "128k")
		}
	} else {
		args = append(args, "-an")
	}

	if !opts.Lossless {
		args = append(args, "-movflags", "+faststart")
	}

	return append(args, outPath)
}

// CompileArgs builds the argv for one encoder candidate of the compilation
// aggregate: watermark only, no rate control.
func CompileArgs(inPath, outPath string, enc EncoderConfig, opts EncodeOptions) []string {
	args := append(preamble(), "-i", inPath,
		"-vf", opts.Filter,
		"-c:v", enc.Codec,
	)
	args = append(args, enc.Args...)
	args = append(args, "-r", strconv.Itoa(opts.FPS))

	if opts.HasAudio {
		if opts.Lossless {
			args = append(args, "-c:a", "pcm_s16le", "-ar", "44100")
		} else {
			args = append(args, "-c:a", "aac", "-b:a", "128k")
		}
	} else {
		args = append(args, "-an")
	}

	if !opts.Lossless {
		args = append(args, "-movflags", "+faststart")
	}

	return append(args, outPath)
}
