package ffmpeg

import (
	"bytes"
	"io"
	"os"
	"os/exec"
)

// Result holds the outcome of a single ffmpeg invocation.
type Result struct {
	Stderr string
	Err    error
}

// CLI invokes the real ffmpeg binary. Every call is a blocking synchronous
// run with no cancellation mid-invocation: once ffmpeg starts, the pipeline
// waits for it to exit.
type CLI struct {
	// Tee mirrors ffmpeg's stderr to the terminal in real time (verbose
	// mode); otherwise stderr is captured silently for error reporting.
	Tee bool
}

// Run executes ffmpeg with args and returns the captured stderr and exit
// error.
func (c CLI) Run(args []string) Result {
	cmd := exec.Command("ffmpeg", args...)

	var stderrBuf bytes.Buffer
	if c.Tee {
		cmd.Stderr = io.MultiWriter(&stderrBuf, os.Stderr)
	} else {
		cmd.Stderr = &stderrBuf
	}

	err := cmd.Run()
	return Result{
		Stderr: stderrBuf.String(),
		Err:    err,
	}
}
