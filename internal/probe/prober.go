package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// Timeouts for the lightweight ffprobe calls. Encodes run unbounded; only
// probing is time-limited.
const (
	factsTimeout  = 10 * time.Second
	verifyTimeout = 5 * time.Second
)

// Facts runs a single ffprobe JSON call against path and returns the parsed
// result. The call is bounded by a 10 second timeout.
func Facts(path string) (MediaFacts, error) {
	ctx, cancel := context.WithTimeout(context.Background(), factsTimeout)
	defer cancel()
	return FactsContext(ctx, path)
}

// FactsContext is Facts with a caller-supplied context.
func FactsContext(ctx context.Context, path string) (MediaFacts, error) {
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "quiet",
		"-print_format", "json",
		"-show_format", "-show_streams",
		path,
	)

	out, err := cmd.Output()
	if err != nil {
		return MediaFacts{}, fmt.Errorf("ffprobe %q: %w: %v", path, ErrProbeFailed, err)
	}

	return ParseJSON(out)
}

// Verify checks that path points to a playable file with a duration greater
// than zero, bounded by a 5 second timeout. Existence and size floors are
// the caller's concern; this only asserts the probed duration.
func Verify(path string) error {
	ctx, cancel := context.WithTimeout(context.Background(), verifyTimeout)
	defer cancel()

	facts, err := FactsContext(ctx, path)
	if err != nil {
		return err
	}
	if !facts.Valid() {
		return fmt.Errorf("%q: duration %.3fs: %w", path, facts.Duration, ErrMeasurement)
	}
	return nil
}

// ParseJSON converts raw ffprobe JSON output into MediaFacts.
// Exported for testing without a real ffprobe binary.
func ParseJSON(data []byte) (MediaFacts, error) {
	var raw ffprobeOutput
	if err := json.Unmarshal(data, &raw); err != nil {
		return MediaFacts{}, fmt.Errorf("parse ffprobe JSON: %w", err)
	}
	return buildFacts(&raw), nil
}

// --- ffprobe JSON wire types ---

type ffprobeOutput struct {
	Format  ffprobeFormat   `json:"format"`
	Streams []ffprobeStream `json:"streams"`
}

type ffprobeFormat struct {
	Filename string `json:"filename"`
	Duration string `json:"duration"`
	Size     string `json:"size"`
	BitRate  string `json:"bit_rate"`
}

type ffprobeStream struct {
	CodecName  string `json:"codec_name"`
	CodecType  string `json:"codec_type"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	RFrameRate string `json:"r_frame_rate"`
}

// --- Conversion from wire types to domain facts ---

func buildFacts(raw *ffprobeOutput) MediaFacts {
	facts := MediaFacts{
		Duration:  parseFloat(raw.Format.Duration),
		SizeBytes: parseInt64(raw.Format.Size),
		BitRate:   parseInt64(raw.Format.BitRate),
	}

	for i := range raw.Streams {
		s := &raw.Streams[i]
		switch s.CodecType {
		case "video":
			if facts.VideoCodec == "" {
				facts.VideoCodec = s.CodecName
				facts.Width = s.Width
				facts.Height = s.Height
				facts.FrameRate = parseFrameRate(s.RFrameRate)
			}
		case "audio":
			if facts.AudioCodec == "" {
				facts.AudioCodec = s.CodecName
			}
			facts.HasAudio = true
		}
	}
	return facts
}

// parseFrameRate simplifies ffprobe's rational r_frame_rate ("30000/1001")
// to a float. A bare number is accepted too. Unparseable input yields 0.
func parseFrameRate(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if num, den, ok := strings.Cut(s, "/"); ok {
		n := parseFloat(num)
		d := parseFloat(den)
		if d <= 0 {
			return 0
		}
		return n / d
	}
	return parseFloat(s)
}

// --- Numeric parsing helpers (ffprobe returns numbers as strings) ---

func parseInt64(s string) int64 {
	s = strings.TrimSpace(s)
	n, _ := strconv.ParseInt(s, 10, 64)
	return n
}

func parseFloat(s string) float64 {
	s = strings.TrimSpace(s)
	f, _ := strconv.ParseFloat(s, 64)
	return f
}
