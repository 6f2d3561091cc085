package planner

// Bitrate derivation constants, matching the legacy export sizing: every
// export targets 115% of the very first input's size, with a hard floor on
// the video stream.
const (
	sizeGrowthFactor = 1.15
	AudioKbps        = 128
	MinVideoKbps     = 500
)

// BitrateTarget is the per-export rate control handed to the encoder.
type BitrateTarget struct {
	VideoKbps   int
	MaxrateKbps int // 1.5x the video rate.
	BufsizeKbps int // 2x the video rate.
}

// EstimateBitrate derives the target video bitrate for an export from the
// reference size (the very first input) and the duplicated clip's duration.
// The audio allocation is deducted and the result clamped to the floor.
func EstimateBitrate(referenceSizeBytes int64, duration float64) BitrateTarget {
	video := MinVideoKbps
	if duration > 0 && referenceSizeBytes > 0 {
		totalKbps := float64(referenceSizeBytes) * sizeGrowthFactor * 8 / 1000 / duration
		if v := int(totalKbps) - AudioKbps; v > video {
			video = v
		}
	}
	return BitrateTarget{
		VideoKbps:   video,
		MaxrateKbps: video * 3 / 2,
		BufsizeKbps: video * 2,
	}
}
