package report

import (
	"bytes"
	"fmt"
)

// Format names an output format for a report.
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatText, FormatMarkdown, FormatHTML:
		return f, nil
	case "":
		return FormatText, nil
	default:
		return "", fmt.Errorf("unknown report format %q (want text, markdown or html)", s)
	}
}

// Render formats r in the given format. layout applies to FormatText only.
func Render(r *Results, format Format, layout Layout) (string, int, error) {
	switch format {
	case FormatMarkdown:
		return Markdown(r), countFailed(r), nil
	case FormatHTML:
		html, err := HTML(r)
		return html, countFailed(r), err
	default:
		var buf bytes.Buffer
		n, err := WriteText(&buf, r, layout)
		return buf.String(), n, err
	}
}

func countFailed(r *Results) int {
	n := 0
	for _, s := range r.TestResults {
		n += len(s.FailedAssertions())
	}
	return n
}
