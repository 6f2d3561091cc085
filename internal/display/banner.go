// Package display renders the welcome screens and shared value formatting
// for terminal output.
package display

import (
	"fmt"
	"os"

	"github.com/backmassage/speedexp/internal/term"
)

const rule = "============================================================"

// PrintWelcome prints the welcome header and usage instructions.
func PrintWelcome() {
	w := os.Stdout

	fmt.Fprintf(w, "\n%s%s%s\n", term.Orange+term.Bold, rule, "")
	fmt.Fprintln(w, "  Welcome to SpeedExp (SpeedyCollab but mobile)")
	fmt.Fprintf(w, "%s%s\n\n", rule, term.NC)

	fmt.Fprintf(w, "%sHow to use:%s\n", term.Cyan, term.NC)
	fmt.Fprintln(w, "  1. Enter path to your video file")
	fmt.Fprintln(w, "  2. Enter how many exports you want")
	fmt.Fprintln(w, "  3. Enter starting number for export names")
	fmt.Fprintln(w, "  4. Choose pitch mode, overlay sizes and encoder options")
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%sWhat it does:%s\n", term.Cyan, term.NC)
	fmt.Fprintln(w, "  - Speeds up video 2x each export")
	fmt.Fprintln(w, "  - Duplicates to keep same duration")
	fmt.Fprintln(w, "  - Adds text overlay showing export number")
	fmt.Fprintln(w, "  - Optionally shifts pitch each export")
	fmt.Fprintln(w, "  - Can compile all exports into one video")
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%sOutput:%s\n", term.Cyan, term.NC)
	fmt.Fprintln(w, "  - Exports saved to: Downloads/Exports/")
	fmt.Fprintln(w, "  - Format: export-N.mp4 (export-N.mov in lossless mode)")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s%s%s\n\n", term.Orange, rule, term.NC)
}

// PrintSectionHeader prints a blue banner around a per-export headline,
// e.g. "[Export 2/5]".
func PrintSectionHeader(headline string) {
	fmt.Fprintf(os.Stdout, "\n%s%s\n%s\n%s%s\n",
		term.Blue, rule, headline, rule, term.NC)
}

// PrintRule prints a colored horizontal rule with an optional title line.
func PrintRule(title string) {
	w := os.Stdout
	fmt.Fprintf(w, "\n%s%s\n", term.Orange, rule)
	if title != "" {
		fmt.Fprintln(w, title)
		fmt.Fprintln(w, rule)
	}
	fmt.Fprintln(w, term.NC)
}
