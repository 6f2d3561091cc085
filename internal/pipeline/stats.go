package pipeline

import "time"

// RunStats summarizes one run of the export chain.
type RunStats struct {
	Requested        int
	Completed        int
	Attempts         int // Transform attempts across all exports.
	Converged        int // Exports that reached frame-accurate convergence.
	TotalOutputBytes int64
	Elapsed          time.Duration
	Outputs          []string // Final export paths in chain order.
}
