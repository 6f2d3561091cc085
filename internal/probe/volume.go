package probe

import (
	"bytes"
	"os/exec"
	"strconv"
	"strings"
)

// MeanVolume measures the mean audio loudness of path in dB using ffmpeg's
// volumedetect filter. The measurement is printed on ffmpeg's stderr; any
// failure (no audio, missing line, bad parse) falls back to
// [DefaultMeanVolumeDb] rather than failing the pipeline.
func MeanVolume(path string) float64 {
	cmd := exec.Command("ffmpeg",
		"-hide_banner", "-nostdin",
		"-i", path,
		"-af", "volumedetect",
		"-vn", "-f", "null", "-",
	)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return DefaultMeanVolumeDb
	}
	return ParseMeanVolume(stderr.String())
}

// ParseMeanVolume extracts the "mean_volume: <v> dB" value from volumedetect
// stderr output. Exported for testing without a real ffmpeg binary.
func ParseMeanVolume(stderr string) float64 {
	for _, line := range strings.Split(stderr, "\n") {
		_, rest, ok := strings.Cut(line, "mean_volume:")
		if !ok {
			continue
		}
		fields := strings.Fields(rest)
		if len(fields) == 0 {
			continue
		}
		v, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			continue
		}
		return v
	}
	return DefaultMeanVolumeDb
}
