// Package pipeline orchestrates the cumulative export chain: per export it
// plans a speed/pitch transform, converges the real output duration onto
// the target with a bounded correction loop, duplicates the corrected clip
// to restore full duration, and stamps the overlay while walking the
// encoder fallback ladder. Each export's output becomes the next export's
// input.
package pipeline
