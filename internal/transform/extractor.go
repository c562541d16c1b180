package transform

import (
	"fmt"
	"regexp"
)

// SubBlock is one named group inside the disabled region.
type SubBlock struct {
	Name string
	// RawText is the group text including the whitespace run before it.
	RawText string
	// Start is the offset of RawText within the region body.
	Start int
}

// End returns the offset just past RawText within the region body.
func (b SubBlock) End() int {
	return b.Start + len(b.RawText)
}

// headerPattern matches `keyword('name', () => {` and the equivalent
// `async () => {` and `function () {` forms. The match ends on the brace.
// name is an expression that includes the quotes.
func headerPattern(keyword, name string) *regexp.Regexp {
	return regexp.MustCompile(`\b` + regexp.QuoteMeta(keyword) + `\(\s*` + name +
		`\s*,\s*(?:async\s*)?(?:\(\s*\)\s*=>|function\s*\(\s*\))\s*\{`)
}

func literalName(name string) string {
	return quoteClass + regexp.QuoteMeta(name) + quoteClass
}

// anyName captures a group name in any quote style.
const anyName = "(?:'([^'\\n]*)'|\"([^\"\\n]*)\"|`([^`]*)`)"

// Extract finds the unique group called opts.Name in body.
func Extract(body string, opts Options) (SubBlock, error) {
	if opts.Scan == ScanHeuristic {
		return extractHeuristic(body, opts)
	}
	return extractBalanced(body, opts)
}

// extractHeuristic locates the group with a shortest-match expression that
// ends at the nearest `});`. It is only correct when groups are not nested
// inside the target and no `});` occurs in a string or nested call within it;
// otherwise the span is cut short and the rewrite corrupts the file.
func extractHeuristic(body string, opts Options) (SubBlock, error) {
	header := headerPattern(opts.Keyword, literalName(opts.Name))
	re := regexp.MustCompile(`(?s)\s*` + header.String() + `.*?\s*\}\);`)

	matches := re.FindAllStringIndex(body, 2)
	if err := checkCount(len(matches), opts); err != nil {
		return SubBlock{}, err
	}

	m := matches[0]
	return SubBlock{Name: opts.Name, RawText: body[m[0]:m[1]], Start: m[0]}, nil
}

// extractBalanced locates the group by counting braces from its header,
// considering only headers at the top level of body.
func extractBalanced(body string, opts Options) (SubBlock, error) {
	header := headerPattern(opts.Keyword, literalName(opts.Name))

	found := topLevel(body, header)
	if err := checkCount(len(found), opts); err != nil {
		return SubBlock{}, err
	}

	m := found[0]
	closeBrace, ok := matchBrace(body, m[1]-1)
	if !ok {
		return SubBlock{}, fmt.Errorf("%w: %s(%q)", ErrUnbalancedSubBlock, opts.Keyword, opts.Name)
	}
	end, ok := closeCall(body, closeBrace)
	if !ok {
		return SubBlock{}, fmt.Errorf("%w: %s(%q) is not followed by ')'", ErrUnbalancedSubBlock, opts.Keyword, opts.Name)
	}

	start := leadingSpace(body, m[0])
	return SubBlock{Name: opts.Name, RawText: body[start:end], Start: start}, nil
}

// topLevel returns the matches of header that start at brace depth zero and
// outside strings and comments.
func topLevel(body string, header *regexp.Regexp) [][]int {
	matches := header.FindAllStringSubmatchIndex(body, -1)
	if len(matches) == 0 {
		return nil
	}

	starts := make(map[int][]int, len(matches))
	for _, m := range matches {
		starts[m[0]] = m
	}

	var top [][]int
	walk(body, 0, func(i, depth int) bool {
		if m, ok := starts[i]; ok && depth == 0 {
			top = append(top, m)
		}
		return true
	})
	return top
}

func checkCount(n int, opts Options) error {
	switch {
	case n == 0:
		return fmt.Errorf("%w: %s(%q)", ErrSubBlockNotFound, opts.Keyword, opts.Name)
	case n > 1:
		return fmt.Errorf("%w: %s(%q)", ErrAmbiguousSubBlock, opts.Keyword, opts.Name)
	}
	return nil
}

// ListSubBlocks returns the names of the top-level groups in body, in order.
func ListSubBlocks(body, keyword string) []string {
	header := headerPattern(keyword, anyName)

	var names []string
	for _, m := range topLevel(body, header) {
		for g := 1; g <= 3; g++ {
			if m[2*g] >= 0 {
				names = append(names, body[m[2*g]:m[2*g+1]])
				break
			}
		}
	}
	return names
}
