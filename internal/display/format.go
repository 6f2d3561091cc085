package display

import (
	"fmt"
	"math"
)

// FormatBytes returns a human-readable size (B, KiB, MiB, GiB, TiB, PiB).
func FormatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	suffixes := []string{"KiB", "MiB", "GiB", "TiB", "PiB", "EiB"}
	if exp >= len(suffixes) {
		exp = len(suffixes) - 1
		div = 1
		for i := 0; i <= exp; i++ {
			div *= unit
		}
	}
	return fmt.Sprintf("%.1f %s", float64(bytes)/float64(div), suffixes[exp])
}

// FormatPower renders 2^exponent for the export label. Values below one
// million print as plain integers; larger ones switch to scientific
// notation ("1.05 * 10^7"). Computed in log space so the exponent never
// overflows an integer power.
func FormatPower(exponent int) string {
	if exponent < 0 {
		return "0"
	}
	if exponent < 20 { // 2^20 is the first power over one million
		return fmt.Sprintf("%d", int64(1)<<uint(exponent))
	}
	log10 := float64(exponent) * math.Log10(2)
	decExp := math.Floor(log10)
	mantissa := math.Pow(10, log10-decExp)
	return fmt.Sprintf("%.2f * 10^%d", mantissa, int(decExp))
}

// FormatSeconds renders a duration in seconds with centisecond precision.
func FormatSeconds(s float64) string {
	return fmt.Sprintf("%.2fs", s)
}
