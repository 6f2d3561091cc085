package ffmpeg

import "github.com/backmassage/speedexp/internal/config"

// Capabilities records what the installed ffmpeg can do. Probed once per
// run by the check package; never re-probed per export.
type Capabilities struct {
	Rubberband bool // rubberband filter (preferred tempo/pitch engine)
	Loudnorm   bool // loudnorm filter
	Libx264    bool
	Mpeg4      bool
	Version    string // First line of `ffmpeg -version`.
}

// EncoderConfig is one candidate in the fallback ladder.
type EncoderConfig struct {
	Name  string
	Codec string
	Args  []string
}

// Ladder returns the encoder candidates in fixed priority order. The first
// candidate whose output passes the validity check wins; exhausting the
// list is fatal for the export.
//
// Normal mode walks H.264 baseline -> main -> ultrafast -> MPEG-4 -> a
// minimal-parameter fallback. Lossless mode pairs lossless x264 (then
// ProRes) with the .mov container.
func Ladder(caps Capabilities, preset config.Preset, lossless bool) []EncoderConfig {
	if lossless {
		return losslessLadder(preset)
	}

	var configs []EncoderConfig

	if caps.Libx264 {
		configs = append(configs,
			EncoderConfig{
				Name:  "H.264 Baseline",
				Codec: "libx264",
				Args:  []string{"-profile:v", "baseline", "-level", "3.0", "-pix_fmt", "yuv420p", "-preset", string(preset)},
			},
			EncoderConfig{
				Name:  "H.264 Main",
				Codec: "libx264",
				Args:  []string{"-profile:v", "main", "-pix_fmt", "yuv420p", "-preset", string(preset)},
			},
			EncoderConfig{
				Name:  "H.264 Ultrafast",
				Codec: "libx264",
				Args:  []string{"-pix_fmt", "yuv420p", "-preset", "ultrafast"},
			},
		)
	}

	if caps.Mpeg4 {
		configs = append(configs, EncoderConfig{
			Name:  "MPEG4",
			Codec: "mpeg4",
			Args:  []string{"-q:v", "5", "-pix_fmt", "yuv420p"},
		})
	}

	configs = append(configs, EncoderConfig{
		Name:  "Fallback",
		Codec: "libx264",
		Args:  []string{"-pix_fmt", "yuv420p"},
	})

	return configs
}

func losslessLadder(preset config.Preset) []EncoderConfig {
	return []EncoderConfig{
		{
			Name:  "H.264 Lossless",
			Codec: "libx264",
			Args:  []string{"-qp", "0", "-pix_fmt", "yuv420p", "-preset", string(preset)},
		},
		{
			Name:  "ProRes",
			Codec: "prores_ks",
			Args:  []string{"-profile:v", "3", "-pix_fmt", "yuv422p10le"},
		},
		{
			Name:  "Fallback",
			Codec: "libx264",
			Args:  []string{"-qp", "0", "-pix_fmt", "yuv420p"},
		},
	}
}
