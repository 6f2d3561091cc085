// Package config holds runtime configuration: defaults, the optional answers
// file, and validation. All defaults match the legacy SpeedExp script for
// parity. The surface is prompt-driven: prompts mutate a Config built by
// [Default] and the pipeline receives it read-only.
package config

import (
	"errors"
	"fmt"
)

// --- Enum types for validated fields ---

// PitchMode selects how pitch shift compounds across exports.
type PitchMode string

const (
	PitchNone        PitchMode = "none"        // Fixed 2.0 tempo, no correction loop.
	PitchFixed       PitchMode = "fixed"       // +1 semitone per export, compounding.
	PitchAlternating PitchMode = "alternating" // +7 on even iterations, -5 on odd.
)

// String returns the mode name for display.
func (m PitchMode) String() string { return string(m) }

// Preset is the x264 speed preset used for the primary encoder candidates.
type Preset string

const (
	PresetFast      Preset = "fast" // Default, matches legacy behavior.
	PresetMedium    Preset = "medium"
	PresetUltrafast Preset = "ultrafast"
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// Config holds all runtime settings. It is populated by [Default], mutated by
// the interactive prompts, then passed (by pointer) to packages that need it.
// Fields are grouped by concern with inline documentation of defaults and
// fixed values.
type Config struct {
	// Source and chain shape (set from prompts).
	SourcePath  string
	Exports     int // Number of exports in the chain. Must be > 0.
	StartNumber int // Export index of the first output. Must be >= 0.

	// Transform settings.
	PitchMode PitchMode // Default: "none".

	// Overlay settings.
	TextSize      int  // Export label font size. Default: 111.
	WatermarkSize int  // Watermark font size. Default: 60.
	ColorShift    bool // Rotate hue by 30 degrees per export index.

	// Encoder settings.
	Preset    Preset // x264 speed preset for the primary candidates. Default: "fast".
	Lossless  bool   // Lossless encoder/container pairing (.mov output).
	OutputFPS int    // Fixed: 60.

	// Display and logging.
	Verbose   bool
	ColorMode ColorMode // Default: "auto".
	LogFile   string    // Optional log file path.

	// Ledger.
	LedgerDisabled bool // Skip the sqlite export history entirely.
}

// Default returns a Config with all defaults matching the legacy SpeedExp
// behavior. Used as the base before prompts (seeded from the answers file
// when one exists) apply user choices.
func Default() Config {
	return Config{
		Exports:       1,
		StartNumber:   1,
		PitchMode:     PitchNone,
		TextSize:      111,
		WatermarkSize: 60,
		ColorShift:    false,
		Preset:        PresetFast,
		Lossless:      false,
		OutputFPS:     60,
		Verbose:       false,
		ColorMode:     ColorAuto,
	}
}

// Ext returns the output container extension (without dot) for the selected
// lossless mode.
func (c *Config) Ext() string {
	if c.Lossless {
		return "mov"
	}
	return "mp4"
}

// Validate checks that enum fields hold valid values and that the chain
// shape is usable. Zero exports are rejected here, before any stage runs.
func (c *Config) Validate() error {
	switch c.PitchMode {
	case PitchNone, PitchFixed, PitchAlternating:
		// valid
	default:
		return fmt.Errorf("invalid pitch mode %q (use 'none', 'fixed' or 'alternating')", c.PitchMode)
	}

	switch c.Preset {
	case PresetFast, PresetMedium, PresetUltrafast:
		// valid
	default:
		return fmt.Errorf("invalid preset %q (use 'fast', 'medium' or 'ultrafast')", c.Preset)
	}

	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return errors.New("invalid color mode (use 'auto', 'always' or 'never')")
	}

	if c.SourcePath == "" {
		return errors.New("source path must not be empty")
	}
	if c.Exports <= 0 {
		return errors.New("number of exports must be greater than 0")
	}
	if c.StartNumber < 0 {
		return errors.New("starting number must be non-negative")
	}
	if c.TextSize <= 0 || c.WatermarkSize <= 0 {
		return errors.New("font sizes must be positive")
	}
	if c.OutputFPS <= 0 {
		return errors.New("output FPS must be positive")
	}
	return nil
}
