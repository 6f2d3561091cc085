// Package prompt implements the interactive interview that populates the
// run configuration. All reads go through an injected io.Reader so tests
// can script answers; malformed input re-prompts instead of failing.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/backmassage/speedexp/internal/config"
	"github.com/backmassage/speedexp/internal/term"
)

// ErrValidation marks a malformed answer. It is handled locally by
// re-prompting; it never escapes Collect.
var ErrValidation = errors.New("invalid input")

// minSourceSize rejects obviously corrupt source files before probing.
const minSourceSize = 1000

// Prompter reads answers from r and writes prompts to w.
type Prompter struct {
	r *bufio.Reader
	w io.Writer
}

// New returns a Prompter over the given streams.
func New(r io.Reader, w io.Writer) *Prompter {
	return &Prompter{r: bufio.NewReader(r), w: w}
}

// Collect runs the full interview, mutating cfg in place. Defaults shown in
// brackets come from cfg (already seeded from the answers file when one
// exists). EOF mid-interview is returned as an error.
func (p *Prompter) Collect(cfg *config.Config) error {
	src, err := p.ask("Video File Location?", cfg.SourcePath, validateSource)
	if err != nil {
		return err
	}
	cfg.SourcePath = src
	fmt.Fprintf(p.w, "  %s✓%s Video validated\n", term.Green, term.NC)

	exports, err := p.askInt("How many exports?", cfg.Exports, 1)
	if err != nil {
		return err
	}
	if exports > 20 {
		ok, err := p.YesNo(fmt.Sprintf("Warning: %d exports may take long. Continue?", exports), false)
		if err != nil {
			return err
		}
		if !ok {
			return errors.New("export cancelled")
		}
	}
	cfg.Exports = exports

	start, err := p.askInt("Starting Number?", cfg.StartNumber, 0)
	if err != nil {
		return err
	}
	cfg.StartNumber = start

	mode, err := p.Choice("Pitch mode?", []string{
		string(config.PitchNone), string(config.PitchFixed), string(config.PitchAlternating),
	}, string(cfg.PitchMode))
	if err != nil {
		return err
	}
	cfg.PitchMode = config.PitchMode(mode)

	textSize, err := p.askInt("Text size?", cfg.TextSize, 1)
	if err != nil {
		return err
	}
	cfg.TextSize = textSize

	wmSize, err := p.askInt("Watermark size?", cfg.WatermarkSize, 1)
	if err != nil {
		return err
	}
	cfg.WatermarkSize = wmSize

	colorShift, err := p.YesNo("Color shift per export?", cfg.ColorShift)
	if err != nil {
		return err
	}
	cfg.ColorShift = colorShift

	preset, err := p.Choice("Encoder speed preset?", []string{
		string(config.PresetFast), string(config.PresetMedium), string(config.PresetUltrafast),
	}, string(cfg.Preset))
	if err != nil {
		return err
	}
	cfg.Preset = config.Preset(preset)

	lossless, err := p.YesNo("Lossless mode (.mov output)?", cfg.Lossless)
	if err != nil {
		return err
	}
	cfg.Lossless = lossless

	return nil
}

// YesNo asks a y/n question. Empty input takes the default; anything other
// than y/n/yes/no re-prompts.
func (p *Prompter) YesNo(label string, def bool) (bool, error) {
	hint := "y/N"
	if def {
		hint = "Y/n"
	}
	for {
		answer, err := p.read(fmt.Sprintf("%s (%s)", label, hint))
		if err != nil {
			return false, err
		}
		switch strings.ToLower(answer) {
		case "":
			return def, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		p.complain("answer y or n")
	}
}

// Choice asks for one of the given options. Empty input takes the default.
func (p *Prompter) Choice(label string, options []string, def string) (string, error) {
	prompt := fmt.Sprintf("%s (%s) [%s]", label, strings.Join(options, "/"), def)
	for {
		answer, err := p.read(prompt)
		if err != nil {
			return "", err
		}
		if answer == "" {
			return def, nil
		}
		answer = strings.ToLower(answer)
		for _, opt := range options {
			if answer == opt {
				return opt, nil
			}
		}
		p.complain("choose one of: " + strings.Join(options, ", "))
	}
}

// askInt asks for an integer >= min. Empty input takes the default.
func (p *Prompter) askInt(label string, def, min int) (int, error) {
	for {
		answer, err := p.read(fmt.Sprintf("%s [%d]", label, def))
		if err != nil {
			return 0, err
		}
		if answer == "" {
			if def >= min {
				return def, nil
			}
			p.complain(fmt.Sprintf("enter a number >= %d", min))
			continue
		}
		n, convErr := strconv.Atoi(answer)
		if convErr != nil || n < min {
			p.complain(fmt.Sprintf("enter a number >= %d", min))
			continue
		}
		return n, nil
	}
}

// ask asks for a string answer and runs validate on it, re-prompting on
// ErrValidation and failing on anything else.
func (p *Prompter) ask(label, def string, validate func(string) error) (string, error) {
	for {
		prompt := label
		if def != "" {
			prompt = fmt.Sprintf("%s [%s]", label, def)
		}
		answer, err := p.read(prompt)
		if err != nil {
			return "", err
		}
		if answer == "" {
			answer = def
		}
		answer = strings.Trim(answer, `"'`)

		if err := validate(answer); err != nil {
			if errors.Is(err, ErrValidation) {
				p.complain(err.Error())
				continue
			}
			return "", err
		}
		return answer, nil
	}
}

func (p *Prompter) read(prompt string) (string, error) {
	fmt.Fprintf(p.w, "%s%s:%s ", term.Cyan, prompt, term.NC)
	line, err := p.r.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	line = strings.TrimSpace(line)
	if line == "" && err == io.EOF {
		return "", fmt.Errorf("input closed: %w", io.ErrUnexpectedEOF)
	}
	return line, nil
}

func (p *Prompter) complain(msg string) {
	fmt.Fprintf(p.w, "  %s%s%s\n", term.Yellow, msg, term.NC)
}

// validateSource checks the source path points at a plausible video file.
// Existence and size problems are validation errors (re-prompt); deeper
// playability is verified by the pipeline's probe.
func validateSource(path string) error {
	if path == "" {
		return fmt.Errorf("video file location cannot be empty: %w", ErrValidation)
	}
	fi, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("video file not found: %s: %w", path, ErrValidation)
	}
	if fi.IsDir() {
		return fmt.Errorf("path is not a file: %s: %w", path, ErrValidation)
	}
	if fi.Size() < minSourceSize {
		return fmt.Errorf("file too small (%d bytes): %w", fi.Size(), ErrValidation)
	}
	return nil
}
