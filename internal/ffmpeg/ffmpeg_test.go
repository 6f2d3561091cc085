package ffmpeg

import (
	"strings"
	"testing"

	"github.com/backmassage/speedexp/internal/config"
	"github.com/backmassage/speedexp/internal/planner"
)

// --- drawtext escaping ---

func TestEscapeDrawtext(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`plain text`, `plain text`},
		{`a:b`, `a\:b`},
		{`it's`, `it\'s`},
		{`[7]`, `\[7\]`},
		{`a,b;c`, `a\,b\;c`},
		{`back\slash`, `back\\slash`},
		{`3 - 1.05 * 10^6`, `3 - 1.05 * 10^6`},
	}
	for _, tt := range tests {
		if got := EscapeDrawtext(tt.in); got != tt.want {
			t.Errorf("EscapeDrawtext(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLabelOverlay(t *testing.T) {
	f := LabelOverlay("3 - 8", 111)
	for _, want := range []string{
		"drawtext=text='3 - 8'",
		"fontcolor=red",
		"bordercolor=blue:borderw=3",
		"fontsize=111",
		"boxcolor=black@0.12:boxborderw=8",
		"x=20:y=h-th-20",
	} {
		if !strings.Contains(f, want) {
			t.Errorf("LabelOverlay missing %q in %q", want, f)
		}
	}
}

func TestWatermarkOverlay(t *testing.T) {
	f := WatermarkOverlay(60)
	if !strings.Contains(f, `text='Made with SpeedExp.'`) {
		t.Errorf("watermark text missing in %q", f)
	}
	if !strings.Contains(f, "x=w-tw-20:y=20") {
		t.Errorf("watermark position missing in %q", f)
	}
}

func TestHueRotate_WrapsAtFullRotation(t *testing.T) {
	if got := HueRotate(2); got != "hue=h=60" {
		t.Errorf("HueRotate(2) = %q, want hue=h=60", got)
	}
	if got := HueRotate(12); got != "hue=h=0" {
		t.Errorf("HueRotate(12) = %q, want hue=h=0", got)
	}
	if got := HueRotate(13); got != "hue=h=30" {
		t.Errorf("HueRotate(13) = %q, want hue=h=30", got)
	}
}

// --- audio chain ---

func TestAudioSpeedChain_Rubberband(t *testing.T) {
	got := AudioSpeedChain(2.0, 1.0, -3.2, true)
	want := "rubberband=tempo=2,volume=-3.20dB"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestAudioSpeedChain_RubberbandWithPitch(t *testing.T) {
	got := AudioSpeedChain(2.0, planner.FixedPitchRatio, 0, true)
	if !strings.HasPrefix(got, "rubberband=tempo=2:pitch=1.059463094352953") {
		t.Errorf("got %q, want rubberband tempo+pitch prefix", got)
	}
}

func TestAudioSpeedChain_AtempoSplitsAboveTwo(t *testing.T) {
	got := AudioSpeedChain(2.5, 1.0, 0, false)
	if !strings.HasPrefix(got, "atempo=2.0,atempo=1.25") {
		t.Errorf("got %q, want chained atempo", got)
	}
}

func TestAudioSpeedChain_AtempoWithPitchResamples(t *testing.T) {
	got := AudioSpeedChain(2.0, planner.FixedPitchRatio, 0, false)
	for _, want := range []string{"atempo=2", "asetrate=46722", "aresample=44100"} {
		if !strings.Contains(got, want) {
			t.Errorf("chain %q missing %q", got, want)
		}
	}
}

// --- encoder ladder ---

func TestLadder_PriorityOrder(t *testing.T) {
	caps := Capabilities{Libx264: true, Mpeg4: true}
	ladder := Ladder(caps, config.PresetFast, false)

	want := []string{"H.264 Baseline", "H.264 Main", "H.264 Ultrafast", "MPEG4", "Fallback"}
	if len(ladder) != len(want) {
		t.Fatalf("got %d candidates, want %d", len(ladder), len(want))
	}
	for i, name := range want {
		if ladder[i].Name != name {
			t.Errorf("ladder[%d] = %q, want %q", i, ladder[i].Name, name)
		}
	}
}

func TestLadder_RespectsCapabilities(t *testing.T) {
	ladder := Ladder(Capabilities{Mpeg4: true}, config.PresetFast, false)
	if ladder[0].Name != "MPEG4" {
		t.Errorf("ladder[0] = %q, want MPEG4 when libx264 missing", ladder[0].Name)
	}
	// The minimal fallback is always last regardless of detection.
	if ladder[len(ladder)-1].Name != "Fallback" {
		t.Errorf("last candidate = %q, want Fallback", ladder[len(ladder)-1].Name)
	}
}

func TestLadder_PresetAppliedToPrimaries(t *testing.T) {
	ladder := Ladder(Capabilities{Libx264: true}, config.PresetUltrafast, false)
	if !argsContain(ladder[0].Args, "-preset", "ultrafast") {
		t.Errorf("baseline args %v missing preset ultrafast", ladder[0].Args)
	}
}

func TestLadder_Lossless(t *testing.T) {
	ladder := Ladder(Capabilities{Libx264: true}, config.PresetFast, true)
	if ladder[0].Name != "H.264 Lossless" {
		t.Errorf("ladder[0] = %q, want H.264 Lossless", ladder[0].Name)
	}
	if !argsContain(ladder[0].Args, "-qp", "0") {
		t.Errorf("lossless args %v missing -qp 0", ladder[0].Args)
	}
	if ladder[1].Codec != "prores_ks" {
		t.Errorf("ladder[1].Codec = %q, want prores_ks", ladder[1].Codec)
	}
}

// --- argv builders ---

func TestTransformArgs(t *testing.T) {
	plan := planner.TransformPlan{Tempo: 2.0, TimeScale: 0.5, PitchRatio: 1.0}
	args := TransformArgs("in.mp4", "out.mp4", plan, TransformOptions{
		HasAudio: true, Rubberband: true, VolumeDeltaDb: -1.5, Preset: "fast", FPS: 60,
	})

	if !argsContain(args, "-vf", "setpts=0.5*PTS") {
		t.Errorf("args %v missing time-scale filter", args)
	}
	if !argsContain(args, "-af", "rubberband=tempo=2,volume=-1.50dB") {
		t.Errorf("args %v missing audio chain", args)
	}
	if !argsContain(args, "-r", "60") {
		t.Errorf("args %v missing forced fps", args)
	}
	if args[len(args)-1] != "out.mp4" {
		t.Errorf("last arg = %q, want output path", args[len(args)-1])
	}
}

func TestTransformArgs_NoAudio(t *testing.T) {
	args := TransformArgs("in.mp4", "out.mp4", planner.FixedPlan(), TransformOptions{
		HasAudio: false, Preset: "fast", FPS: 60,
	})
	if !contains(args, "-an") {
		t.Errorf("args %v missing -an", args)
	}
	if contains(args, "-af") {
		t.Errorf("args %v has audio filter for silent input", args)
	}
}

func TestConcatArgs(t *testing.T) {
	args := ConcatArgs("list.txt", "out.mp4")
	for _, pair := range [][2]string{{"-f", "concat"}, {"-safe", "0"}, {"-i", "list.txt"}, {"-c", "copy"}} {
		if !argsContain(args, pair[0], pair[1]) {
			t.Errorf("args %v missing %v", args, pair)
		}
	}
}

func TestOverlayArgs_RateControlAndFaststart(t *testing.T) {
	enc := EncoderConfig{Name: "H.264 Main", Codec: "libx264", Args: []string{"-profile:v", "main"}}
	args := OverlayArgs("concat.mp4", "export-1.mp4", enc, EncodeOptions{
		Filter:   "drawtext=text='1 - 2'",
		Bitrate:  planner.BitrateTarget{VideoKbps: 1000, MaxrateKbps: 1500, BufsizeKbps: 2000},
		HasAudio: true,
		FPS:      60,
	})

	for _, pair := range [][2]string{
		{"-b:v", "1000k"}, {"-maxrate", "1500k"}, {"-bufsize", "2000k"},
		{"-c:a", "aac"}, {"-movflags", "+faststart"},
	} {
		if !argsContain(args, pair[0], pair[1]) {
			t.Errorf("args %v missing %v", args, pair)
		}
	}
}

func TestOverlayArgs_LosslessSkipsRateControl(t *testing.T) {
	enc := EncoderConfig{Name: "H.264 Lossless", Codec: "libx264", Args: []string{"-qp", "0"}}
	args := OverlayArgs("concat.mov", "export-1.mov", enc, EncodeOptions{
		Filter: "drawtext=text='1 - 2'", HasAudio: true, Lossless: true, FPS: 60,
	})

	if contains(args, "-b:v") || contains(args, "-maxrate") {
		t.Errorf("args %v carry rate control in lossless mode", args)
	}
	if !argsContain(args, "-c:a", "pcm_s16le") {
		t.Errorf("args %v missing PCM audio", args)
	}
	if contains(args, "-movflags") {
		t.Errorf("args %v carry mp4 faststart in lossless mode", args)
	}
}

// --- stderr helpers ---

func TestMatchUnknownEncoder(t *testing.T) {
	if !MatchUnknownEncoder("Unknown encoder 'prores_ks'") {
		t.Error("missed unknown encoder line")
	}
	if MatchUnknownEncoder("Conversion failed!") {
		t.Error("false positive on generic failure")
	}
}

func TestTail(t *testing.T) {
	long := strings.Repeat("x", 500)
	if got := Tail(long, 300); len(got) != 300 {
		t.Errorf("Tail length = %d, want 300", len(got))
	}
	if got := Tail("  short  ", 300); got != "short" {
		t.Errorf("Tail = %q, want trimmed input", got)
	}
}

// --- helpers ---

func contains(args []string, flag string) bool {
	for _, a := range args {
		if a == flag {
			return true
		}
	}
	return false
}

func argsContain(args []string, flag, value string) bool {
	for i := 0; i < len(args)-1; i++ {
		if args[i] == flag && args[i+1] == value {
			return true
		}
	}
	return false
}
