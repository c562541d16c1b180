package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"github.com/sokinpui/focus/model"
)

var (
	HeaderColor  = color.New(color.FgBlue, color.Bold)
	InfoColor    = color.New(color.FgCyan)
	SuccessColor = color.New(color.FgGreen)
	WarningColor = color.New(color.FgYellow)
	ErrorColor   = color.New(color.FgRed)
	PathColor    = color.New(color.FgYellow)
)

// Quiet suppresses status lines on stderr.
var Quiet bool

func Header(format string, a ...interface{}) {
	printf(HeaderColor, format, a...)
}

func Info(format string, a ...interface{}) {
	printf(InfoColor, format, a...)
}

func Success(format string, a ...interface{}) {
	printf(SuccessColor, format, a...)
}

func Warning(format string, a ...interface{}) {
	printf(WarningColor, format, a...)
}

func Error(format string, a ...interface{}) {
	printf(ErrorColor, format, a...)
}

func Path(format string, a ...interface{}) {
	printf(PathColor, "  "+format, a...)
}

func printf(c *color.Color, format string, a ...interface{}) {
	if Quiet {
		return
	}
	c.Fprintf(os.Stderr, format+"\n", a...)
}

// --- Summaries ---

// PrintOutput writes the verbatim output and the diagnostic lines of summary.
func PrintOutput(w io.Writer, summary model.Summary) {
	io.WriteString(w, summary.Output)
	for _, line := range summary.Messages {
		fmt.Fprintln(w, line)
	}
}

// PrintSummary writes the outcome of an operation to w. Messages go out
// uncoloured so they can be matched by scripts reading stdout.
func PrintSummary(w io.Writer, summary model.Summary) {
	PrintOutput(w, summary)

	if summary.Activated != "" {
		SuccessColor.Fprintf(w, "Activated '%s' in %s\n", summary.Activated, summary.Path)
	}
	if len(summary.Disabled) > 0 {
		InfoColor.Fprintf(w, "Still disabled (%d):\n", len(summary.Disabled))
		for _, name := range summary.Disabled {
			fmt.Fprintf(w, "  - %s\n", name)
		}
	}
	if len(summary.Modified) > 0 {
		SuccessColor.Fprintf(w, "Modified %d file(s):\n", len(summary.Modified))
		for _, f := range summary.Modified {
			fmt.Fprintf(w, "  - %s\n", f)
		}
	}
	if len(summary.Failed) > 0 {
		ErrorColor.Fprintf(w, "Failed to process %d file(s):\n", len(summary.Failed))
		for _, f := range summary.Failed {
			fmt.Fprintf(w, "  - %s\n", f)
		}
	}
}
