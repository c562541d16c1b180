package transform

import (
	"strings"
	"unicode"
)

// enableMarker turns the block-comment marker into a line comment so the
// marker text stays as a note but no longer opens a comment.
func enableMarker(marker string) string {
	return "//" + strings.TrimPrefix(marker, "/*")
}

// Remainder returns the region body with block removed.
func Remainder(body string, block SubBlock) string {
	return body[:block.Start] + body[block.End():]
}

// Rewrite returns the region text with block activated and every other group
// wrapped in a fresh block comment that ends at the original close marker.
func Rewrite(r Region, block SubBlock) string {
	var b strings.Builder
	b.Grow(r.End - r.Start + 4)

	eol := lineEnding(r)
	b.WriteString(strings.TrimRightFunc(enableMarker(r.OpenMarker), unicode.IsSpace))
	b.WriteString(eol)
	b.WriteString(strings.TrimLeftFunc(block.RawText, unicode.IsSpace))
	b.WriteString(eol + "/*")
	b.WriteString(Remainder(r.Body, block))
	b.WriteString(r.CloseMarker)
	return b.String()
}

// lineEnding returns the line terminator used after the open marker, or in
// the body when the marker shares its line with the first group.
func lineEnding(r Region) string {
	if strings.Contains(r.OpenMarker, "\r\n") {
		return "\r\n"
	}
	if !strings.Contains(r.OpenMarker, "\n") && strings.Contains(r.Body, "\r\n") {
		return "\r\n"
	}
	return "\n"
}
