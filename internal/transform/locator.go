package transform

import (
	"fmt"
	"regexp"
)

// quoteClass matches any JavaScript string delimiter.
const quoteClass = "['\"`]"

// Region is the disabled span of a test file.
type Region struct {
	// OpenMarker is the marker line plus the whitespace that follows it.
	OpenMarker string
	// Body holds every disabled group in original order.
	Body string
	// CloseMarker is the comment close and the head of the anchor group.
	CloseMarker string
	// Start and End delimit OpenMarker+Body+CloseMarker in the source.
	Start, End int
}

// BodyOffset returns the offset of Body within the source.
func (r Region) BodyOffset() int {
	return r.Start + len(r.OpenMarker)
}

// regionPattern builds the compound "marker … close … anchor" expression.
// The body is non-greedy so it stops at the first comment close followed by
// the anchor group.
func regionPattern(opts Options) (*regexp.Regexp, error) {
	expr := `(?s)(` + regexp.QuoteMeta(opts.Marker) + `\s*)` +
		`(.*?)` +
		`(\s*\*/\s*` + `\b` + regexp.QuoteMeta(opts.Keyword) + `\(\s*` + quoteClass + regexp.QuoteMeta(opts.Anchor) + `)`
	return regexp.Compile(expr)
}

// Locate finds the single disabled region in src.
func Locate(src string, opts Options) (Region, error) {
	re, err := regionPattern(opts)
	if err != nil {
		return Region{}, fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}

	matches := re.FindAllStringSubmatchIndex(src, 2)
	switch len(matches) {
	case 0:
		return Region{}, fmt.Errorf("%w: marker %q before %s(%q)", ErrRegionNotFound, opts.Marker, opts.Keyword, opts.Anchor)
	case 1:
	default:
		return Region{}, fmt.Errorf("%w: marker %q", ErrAmbiguousRegion, opts.Marker)
	}

	m := matches[0]
	return Region{
		OpenMarker:  src[m[2]:m[3]],
		Body:        src[m[4]:m[5]],
		CloseMarker: src[m[6]:m[7]],
		Start:       m[0],
		End:         m[1],
	}, nil
}
