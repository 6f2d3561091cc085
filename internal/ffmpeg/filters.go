package ffmpeg

import (
	"fmt"
	"strconv"
	"strings"
)

// drawtextEscaper escapes characters that are structurally significant to
// ffmpeg's filter syntax.
var drawtextEscaper = strings.NewReplacer(
	`\`, `\\`,
	`:`, `\:`,
	`'`, `\'`,
	`[`, `\[`,
	`]`, `\]`,
	`,`, `\,`,
	`;`, `\;`,
)

// EscapeDrawtext escapes text for embedding in a drawtext filter expression.
func EscapeDrawtext(text string) string {
	return drawtextEscaper.Replace(text)
}

// LabelOverlay builds the export label drawtext: red text with a blue
// border on a faint black box, bottom-left.
func LabelOverlay(text string, fontSize int) string {
	return "drawtext=text='" + EscapeDrawtext(text) + "':" +
		"fontcolor=red:" +
		"bordercolor=blue:borderw=3:" +
		"fontsize=" + strconv.Itoa(fontSize) + ":" +
		"box=1:boxcolor=black@0.12:boxborderw=8:" +
		"x=20:y=h-th-20"
}

// WatermarkText is stamped top-right on every export and on the
// compilation aggregate.
const WatermarkText = "Made with SpeedExp."

// WatermarkOverlay builds the watermark drawtext: translucent white text on
// an orange box, top-right.
func WatermarkOverlay(fontSize int) string {
	return "drawtext=text='" + EscapeDrawtext(WatermarkText) + "':" +
		"fontcolor=white@0.75:" +
		"bordercolor=black@0.75:borderw=2:" +
		"fontsize=" + strconv.Itoa(fontSize) + ":" +
		"box=1:boxcolor=orange@0.75:boxborderw=5:" +
		"x=w-tw-20:y=20"
}

// HueRotate builds the color-shift filter for an export index: 30 degrees
// per index, wrapping at a full rotation.
func HueRotate(exportIndex int) string {
	degrees := (exportIndex * 30) % 360
	return fmt.Sprintf("hue=h=%d", degrees)
}

// TimeScaleFilter builds the video PTS rescale for a transform attempt.
func TimeScaleFilter(timeScale float64) string {
	return "setpts=" + ftoa(timeScale) + "*PTS"
}

// AudioSpeedChain builds the audio filter chain for a transform attempt:
// tempo (and pitch when active) via rubberband when available, atempo
// otherwise, followed by the volume correction that keeps chained exports
// from drifting louder or quieter.
//
// atempo only accepts factors in [0.5, 2.0], so larger tempos are split
// into a 2.0 link followed by the remainder. Pitch on the atempo path is
// approximated by an asetrate/aresample pair.
func AudioSpeedChain(tempo, pitchRatio, volumeDeltaDb float64, rubberband bool) string {
	var parts []string

	if rubberband {
		f := "rubberband=tempo=" + ftoa(tempo)
		if pitchRatio != 1.0 {
			f += ":pitch=" + ftoa(pitchRatio)
		}
		parts = append(parts, f)
	} else {
		if tempo > 2.0 {
			parts = append(parts, "atempo=2.0", "atempo="+ftoa(tempo/2.0))
		} else {
			parts = append(parts, "atempo="+ftoa(tempo))
		}
		if pitchRatio != 1.0 {
			pitchedRate := int(44100 * pitchRatio)
			parts = append(parts,
				"asetrate="+strconv.Itoa(pitchedRate),
				"aresample=44100",
			)
		}
	}

	parts = append(parts, fmt.Sprintf("volume=%.2fdB", volumeDeltaDb))
	return strings.Join(parts, ",")
}

// ftoa renders a filter parameter float without trailing zeros.
func ftoa(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
