package report

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Layout selects one of the plain-text report layouts.
type Layout int

const (
	// LayoutPrint is the console layout. It prints a location line per
	// failure and a suite header for every failed suite.
	LayoutPrint Layout = iota
	// LayoutSave is the file layout. It indents multi-line messages, notes
	// failures without a message and omits locations.
	LayoutSave
)

const noResults = "No testResults found in JSON."

// CleanMessage strips terminal escape sequences from a failure message.
func CleanMessage(msg string) string {
	return ansi.Strip(msg)
}

// WriteText writes the failed tests in r to w and returns the number of
// failed assertions it found.
func WriteText(w io.Writer, r *Results, layout Layout) (int, error) {
	bw := bufio.NewWriter(w)

	if len(r.TestResults) == 0 {
		fmt.Fprintln(bw, noResults)
		return 0, bw.Flush()
	}

	failed := 0
	for _, suite := range r.TestResults {
		assertions := suite.FailedAssertions()
		switch layout {
		case LayoutSave:
			if len(assertions) == 0 {
				continue
			}
		default:
			if !suite.Failed() {
				continue
			}
		}

		fmt.Fprintf(bw, "\n--- Test Suite FAILED: %s ---\n", suite.DisplayName())
		for _, a := range assertions {
			failed++
			writeAssertion(bw, a, layout)
		}
	}

	fmt.Fprintf(bw, "\nTotal failed tests reported by Vitest: %s\n", r.ReportedFailures())
	fmt.Fprintf(bw, "Total failed assertions parsed from details: %d\n", failed)
	return failed, bw.Flush()
}

func writeAssertion(w io.Writer, a Assertion, layout Layout) {
	fmt.Fprintf(w, "  Test: %s\n", a.DisplayTitle())
	fmt.Fprintf(w, "    Status: %s\n", a.Status)

	if layout == LayoutSave && len(a.FailureMessages) == 0 {
		fmt.Fprintln(w, "    Error Message: No specific error message provided in JSON.")
	}
	for i, msg := range a.FailureMessages {
		clean := CleanMessage(msg)
		if layout == LayoutSave {
			clean = strings.ReplaceAll(clean, "\n", "\n        ")
		}
		fmt.Fprintf(w, "    Error Message %d: %s\n", i+1, clean)
	}

	if layout == LayoutPrint {
		fmt.Fprintf(w, "    Location: %s\n", formatLocation(a.Location))
	}
	fmt.Fprintln(w, "    ---")
}

func formatLocation(loc *Location) string {
	if loc == nil {
		return "None"
	}
	return fmt.Sprintf("line %d, column %d", loc.Line, loc.Column)
}
