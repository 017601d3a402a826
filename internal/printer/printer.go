// Package printer renders pokestrat CLI output: green checkmarks for
// completed pool operations, yellow warnings for degraded ones, and red
// multi-line errors that tell the user what to try next.
package printer

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

func init() {
	// Color by default even without a TTY; NO_COLOR opts out
	if os.Getenv("NO_COLOR") == "" {
		color.NoColor = false
	}
}

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed, color.Bold)
)

// Success prints the message in green behind a checkmark. Used after a pool
// mutation lands.
func Success(format string, a ...any) {
	green.Printf("✓ %s", fmt.Sprintf(format, a...))
}

// Info prints an uncolored informational message to stdout.
func Info(format string, a ...any) {
	fmt.Printf(format, a...)
}

// Warning prints the message in yellow. Used when an operation succeeded but
// something optional (like a catalog lookup) did not.
func Warning(format string, a ...any) {
	yellow.Printf("⚠️  %s", fmt.Sprintf(format, a...))
}

// Error renders a failed operation to stderr: the title in red, the
// explanation below it, and any suggested next steps. The returned error
// carries only the title; Cobra's SilenceErrors keeps it from printing twice.
func Error(title string, explanation string, suggestions []string) error {
	red.Fprintf(os.Stderr, "%s\n\n", title)
	fmt.Fprintf(os.Stderr, "%s\n", explanation)

	switch len(suggestions) {
	case 0:
	case 1:
		fmt.Fprintf(os.Stderr, "\n%s\n", suggestions[0])
	default:
		fmt.Fprintf(os.Stderr, "\nEither:\n")
		for i, suggestion := range suggestions {
			fmt.Fprintf(os.Stderr, "  %d. %s\n", i+1, suggestion)
		}
	}

	return fmt.Errorf("%s", title)
}

// Printf prints a plain formatted message, for streaming output like the
// watch command's join lines.
func Printf(format string, a ...any) {
	fmt.Printf(format, a...)
}
