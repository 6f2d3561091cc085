package prompt

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/backmassage/speedexp/internal/config"
)

// script builds a Prompter fed with the given answer lines.
func script(answers ...string) (*Prompter, *bytes.Buffer) {
	var out bytes.Buffer
	in := strings.NewReader(strings.Join(answers, "\n") + "\n")
	return New(in, &out), &out
}

// fakeVideo creates a file large enough to pass source validation.
func fakeVideo(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clip.mp4")
	if err := os.WriteFile(path, bytes.Repeat([]byte("v"), 2048), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCollect_FullInterview(t *testing.T) {
	src := fakeVideo(t)
	p, _ := script(
		src,      // source
		"3",      // exports
		"1",      // starting number
		"fixed",  // pitch mode
		"",       // text size (default)
		"",       // watermark size (default)
		"y",      // color shift
		"medium", // preset
		"n",      // lossless
	)

	cfg := config.Default()
	if err := p.Collect(&cfg); err != nil {
		t.Fatalf("Collect: %v", err)
	}

	if cfg.SourcePath != src {
		t.Errorf("SourcePath = %q, want %q", cfg.SourcePath, src)
	}
	if cfg.Exports != 3 || cfg.StartNumber != 1 {
		t.Errorf("chain = %d from %d, want 3 from 1", cfg.Exports, cfg.StartNumber)
	}
	if cfg.PitchMode != config.PitchFixed {
		t.Errorf("PitchMode = %q, want fixed", cfg.PitchMode)
	}
	if cfg.TextSize != 111 || cfg.WatermarkSize != 60 {
		t.Errorf("sizes = %d/%d, want defaults 111/60", cfg.TextSize, cfg.WatermarkSize)
	}
	if !cfg.ColorShift {
		t.Error("ColorShift = false, want true")
	}
	if cfg.Preset != config.PresetMedium {
		t.Errorf("Preset = %q, want medium", cfg.Preset)
	}
	if cfg.Lossless {
		t.Error("Lossless = true, want false")
	}
}

func TestCollect_RepromptsOnBadInput(t *testing.T) {
	src := fakeVideo(t)
	p, out := script(
		"/no/such/file.mp4", // invalid path -> re-prompt
		src,
		"zero", // not a number -> re-prompt
		"0",    // below minimum -> re-prompt
		"2",
		"0",
		"sideways", // invalid mode -> re-prompt
		"none",
		"", "", // sizes
		"maybe", // invalid y/n -> re-prompt
		"n",
		"", // preset default
		"", // lossless default
	)

	cfg := config.Default()
	if err := p.Collect(&cfg); err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if cfg.Exports != 2 {
		t.Errorf("Exports = %d, want 2", cfg.Exports)
	}
	if cfg.PitchMode != config.PitchNone {
		t.Errorf("PitchMode = %q, want none", cfg.PitchMode)
	}

	o := out.String()
	if !strings.Contains(o, "not found") {
		t.Errorf("missing path complaint in output:\n%s", o)
	}
	if !strings.Contains(o, "answer y or n") {
		t.Errorf("missing y/n complaint in output:\n%s", o)
	}
}

func TestCollect_DefaultsFromSeededConfig(t *testing.T) {
	src := fakeVideo(t)
	// Every prompt accepts its default (seeded as if from the answers file).
	p, out := script(src, "", "", "", "", "", "", "", "")

	cfg := config.Default()
	cfg.Exports = 7
	cfg.PitchMode = config.PitchAlternating
	cfg.Lossless = true
	if err := p.Collect(&cfg); err != nil {
		t.Fatalf("Collect: %v", err)
	}

	if cfg.Exports != 7 {
		t.Errorf("Exports = %d, want seeded 7", cfg.Exports)
	}
	if cfg.PitchMode != config.PitchAlternating {
		t.Errorf("PitchMode = %q, want seeded alternating", cfg.PitchMode)
	}
	if !cfg.Lossless {
		t.Error("Lossless = false, want seeded true")
	}
	if !strings.Contains(out.String(), "[7]") {
		t.Errorf("prompt does not display seeded default:\n%s", out.String())
	}
}

func TestCollect_EOFFails(t *testing.T) {
	p := New(strings.NewReader(""), &bytes.Buffer{})
	cfg := config.Default()
	if err := p.Collect(&cfg); err == nil {
		t.Error("expected error on closed input")
	}
}

func TestYesNo_EmptyTakesDefault(t *testing.T) {
	p, _ := script("")
	got, err := p.YesNo("continue?", true)
	if err != nil {
		t.Fatalf("YesNo: %v", err)
	}
	if !got {
		t.Error("got false, want default true")
	}
}
