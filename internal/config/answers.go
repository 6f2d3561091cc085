package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// AnswersFile is the optional YAML file that pre-seeds prompt defaults.
// Prompts are still shown; values here only replace the built-in defaults.
const AnswersFile = "speedexp.yaml"

// Answers mirrors the prompted fields. Pointer fields distinguish "absent"
// from an explicit zero value.
type Answers struct {
	Source        *string `yaml:"source"`
	Exports       *int    `yaml:"exports"`
	StartNumber   *int    `yaml:"start_number"`
	PitchMode     *string `yaml:"pitch_mode"`
	TextSize      *int    `yaml:"text_size"`
	WatermarkSize *int    `yaml:"watermark_size"`
	ColorShift    *bool   `yaml:"color_shift"`
	Preset        *string `yaml:"preset"`
	Lossless      *bool   `yaml:"lossless"`
	Compile       *bool   `yaml:"compile"`
}

// LoadAnswers reads and strictly decodes the answers file at path. A missing
// file is not an error: (nil, nil) is returned so callers fall back to the
// built-in defaults. Unknown keys are rejected to catch typos.
func LoadAnswers(path string) (*Answers, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read answers file %q: %w", path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var a Answers
	if err := dec.Decode(&a); err != nil {
		return nil, fmt.Errorf("parse answers file %q: %w", path, err)
	}
	return &a, nil
}

// Apply copies every present answer onto cfg. Called before prompting so the
// prompts display the seeded values as their defaults.
func (a *Answers) Apply(cfg *Config) {
	if a == nil {
		return
	}
	if a.Source != nil {
		cfg.SourcePath = *a.Source
	}
	if a.Exports != nil {
		cfg.Exports = *a.Exports
	}
	if a.StartNumber != nil {
		cfg.StartNumber = *a.StartNumber
	}
	if a.PitchMode != nil {
		cfg.PitchMode = PitchMode(*a.PitchMode)
	}
	if a.TextSize != nil {
		cfg.TextSize = *a.TextSize
	}
	if a.WatermarkSize != nil {
		cfg.WatermarkSize = *a.WatermarkSize
	}
	if a.ColorShift != nil {
		cfg.ColorShift = *a.ColorShift
	}
	if a.Preset != nil {
		cfg.Preset = Preset(*a.Preset)
	}
	if a.Lossless != nil {
		cfg.Lossless = *a.Lossless
	}
}
