package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
)

// Markdown renders the failed tests in r as a markdown document.
func Markdown(r *Results) string {
	var b strings.Builder
	b.WriteString("# Failed tests\n")

	if len(r.TestResults) == 0 {
		b.WriteString("\n" + noResults + "\n")
		return b.String()
	}

	failed := 0
	for _, suite := range r.TestResults {
		assertions := suite.FailedAssertions()
		if len(assertions) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n## %s\n", suite.DisplayName())
		for _, a := range assertions {
			failed++
			fmt.Fprintf(&b, "\n### %s\n\n", a.DisplayTitle())
			if a.Location != nil {
				fmt.Fprintf(&b, "- Location: %s\n", formatLocation(a.Location))
			}
			fmt.Fprintf(&b, "- Status: %s\n", a.Status)
			for _, msg := range a.FailureMessages {
				clean := CleanMessage(msg)
				fence := codeFence(clean)
				fmt.Fprintf(&b, "\n%stext\n%s\n%s\n", fence, strings.TrimRight(clean, "\n"), fence)
			}
		}
	}

	fmt.Fprintf(&b, "\nTotal failed tests reported by Vitest: %s\n", r.ReportedFailures())
	fmt.Fprintf(&b, "\nTotal failed assertions parsed from details: %d\n", failed)
	return b.String()
}

// HTML renders the markdown report as an HTML fragment.
func HTML(r *Results) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(Markdown(r)), &buf); err != nil {
		return "", fmt.Errorf("failed to render report: %w", err)
	}
	return buf.String(), nil
}

// codeFence returns a backtick fence longer than any backtick run in s.
func codeFence(s string) string {
	longest, run := 0, 0
	for _, c := range s {
		if c == '`' {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 0
		}
	}
	if longest < 3 {
		return "```"
	}
	return strings.Repeat("`", longest+1)
}
