// Command speedexp is the interactive entrypoint for the SpeedExp export
// chain. It collects the run settings through prompts (pre-seeded from an
// optional speedexp.yaml answers file), verifies ffmpeg/ffprobe, runs the
// chain, and optionally compiles every export into one video.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/backmassage/speedexp/internal/check"
	"github.com/backmassage/speedexp/internal/config"
	"github.com/backmassage/speedexp/internal/display"
	"github.com/backmassage/speedexp/internal/ledger"
	"github.com/backmassage/speedexp/internal/logging"
	"github.com/backmassage/speedexp/internal/naming"
	"github.com/backmassage/speedexp/internal/pipeline"
	"github.com/backmassage/speedexp/internal/prompt"
)

// version is set at build time via -ldflags.
var version = "1.0.0-dev"

func main() {
	os.Exit(run())
}

func run() int {
	cfg := config.Default()

	answers, err := config.LoadAnswers(config.AnswersFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "speedexp: %v\n", err)
		return 1
	}
	answers.Apply(&cfg)

	log, err := logging.New(&cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "speedexp: %v\n", err)
		return 1
	}
	defer log.Close()

	display.PrintWelcome()
	log.Info("SpeedExp v%s", version)

	caps, err := check.Detect(log)
	if err != nil {
		log.Error("%v", err)
		log.Error("Install ffmpeg first (Termux: pkg install ffmpeg)")
		return 1
	}

	p := prompt.New(os.Stdin, os.Stdout)
	if err := p.Collect(&cfg); err != nil {
		log.Error("%v", err)
		return 1
	}
	if err := cfg.Validate(); err != nil {
		log.Error("%v", err)
		return 1
	}

	exportsDir, err := naming.ExportsDir()
	if err != nil {
		log.Error("%v", err)
		return 1
	}
	log.Info("Exports directory: %s", exportsDir)

	var led *ledger.Ledger
	if !cfg.LedgerDisabled {
		led = ledger.Open(filepath.Join(exportsDir, "speedexp.db"), log)
		defer led.Close()
	}

	// SIGINT/SIGTERM flip the context; the pipeline checks it between
	// stages but never kills a running ffmpeg invocation.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pipe := pipeline.New(&cfg, caps, log, led)
	stats, err := pipe.Run(ctx, exportsDir)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			log.Warn("Interrupted after %d/%d exports", stats.Completed, stats.Requested)
			return 1
		}
		log.Error("%v", err)
		return 1
	}

	printSummary(log, stats)

	if len(stats.Outputs) > 1 {
		def := false
		if answers != nil && answers.Compile != nil {
			def = *answers.Compile
		}
		want, err := p.YesNo("Compile all exports into one video?", def)
		if err == nil && want {
			display.PrintRule("COMPILING ALL EXPORTS...")
			if _, err := pipe.Compile(stats.Outputs); err != nil {
				log.Warn("Compilation failed: %v", err)
			}
		}
	}
	return 0
}

func printSummary(log *logging.Logger, stats pipeline.RunStats) {
	display.PrintRule("ALL EXPORTS COMPLETED")
	log.Success("%d/%d exports in %s", stats.Completed, stats.Requested,
		stats.Elapsed.Round(time.Second))
	log.Info("Transform attempts: %d (converged exports: %d)", stats.Attempts, stats.Converged)
	log.Info("Total output size: %s", display.FormatBytes(stats.TotalOutputBytes))
	for _, out := range stats.Outputs {
		log.Info("  %s", out)
	}
}
