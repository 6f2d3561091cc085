package probe

import "errors"

// Sentinel errors for probe failures.
var (
	// ErrProbeFailed means the ffprobe invocation itself failed.
	ErrProbeFailed = errors.New("ffprobe invocation failed")
	// ErrMeasurement means ffprobe ran but returned unusable facts
	// (e.g. a non-positive duration).
	ErrMeasurement = errors.New("probe returned unusable facts")
)

// DefaultMeanVolumeDb is assumed when volume detection fails or the file
// has no audio, matching the legacy behavior.
const DefaultMeanVolumeDb = -20.0

// MediaFacts holds the structured facts ffprobe reports for one file.
// Immutable once returned.
type MediaFacts struct {
	Duration   float64 // Seconds. Positive for a playable file.
	SizeBytes  int64
	BitRate    int64 // Bits per second, 0 when unknown.
	FrameRate  float64
	Width      int
	Height     int
	VideoCodec string
	AudioCodec string
	HasAudio   bool
}

// Valid reports whether the facts describe a playable file: a positive
// duration is the minimum bar every stage verifies before proceeding.
func (f MediaFacts) Valid() bool {
	return f.Duration > 0
}
