// Package ffmpeg builds and executes ffmpeg commands for the export
// pipeline stages.
//
// Layout:
//   - executor.go: blocking invocation with stderr capture (tee in verbose
//     mode). Encodes run unbounded; probing timeouts live in package probe.
//   - builder.go: argv builders per stage (transform, concat, overlay
//     encode, compilation).
//   - filters.go: drawtext escaping and the overlay/audio filter chains.
//   - encoders.go: Capabilities and the ordered encoder fallback ladder.
//   - errors.go: stderr classification helpers.
package ffmpeg
