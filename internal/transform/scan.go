package transform

import "strings"

// walk visits every byte of src from offset from that is outside string
// literals and comments, passing the brace depth in effect before that byte.
// Braces are counted relative to from. The walk stops when visit returns false.
//
// Regular expression literals are not recognised; a quote or brace inside one
// is treated as code.
func walk(src string, from int, visit func(i, depth int) bool) {
	depth := 0
	for i := from; i < len(src); i++ {
		c := src[i]
		switch {
		case c == '/' && i+1 < len(src) && src[i+1] == '/':
			end := strings.IndexByte(src[i:], '\n')
			if end < 0 {
				return
			}
			i += end
			continue
		case c == '/' && i+1 < len(src) && src[i+1] == '*':
			end := strings.Index(src[i+2:], "*/")
			if end < 0 {
				return
			}
			i += end + 3
			continue
		case c == '\'' || c == '"' || c == '`':
			i = skipString(src, i)
			continue
		}

		if !visit(i, depth) {
			return
		}
		switch c {
		case '{':
			depth++
		case '}':
			depth--
		}
	}
}

// skipString returns the index of the delimiter closing the string opened at
// open, or the last index of src when it is unterminated. Substitutions in
// template literals are skipped as code, so they may hold strings, braces and
// further templates.
func skipString(src string, open int) int {
	quote := src[open]
	for i := open + 1; i < len(src); i++ {
		switch src[i] {
		case '\\':
			i++
		case quote:
			return i
		case '\n':
			if quote != '`' {
				return i
			}
		case '$':
			if quote != '`' || i+1 >= len(src) || src[i+1] != '{' {
				continue
			}
			end, ok := matchBrace(src, i+1)
			if !ok {
				return len(src) - 1
			}
			i = end - 1
		}
	}
	return len(src) - 1
}

// matchBrace returns the index just past the '}' that closes the '{' at open.
func matchBrace(src string, open int) (int, bool) {
	end := -1
	walk(src, open, func(i, depth int) bool {
		if src[i] == '}' && depth == 1 {
			end = i + 1
			return false
		}
		return true
	})
	return end, end >= 0
}

// closeCall consumes the `)` and optional `;` that end a group call after
// its body's closing brace at i. Trailing arguments such as a timeout,
// `}, 10000)`, are skipped.
func closeCall(src string, i int) (int, bool) {
	i = skipSpace(src, i, true)
	if i < len(src) && src[i] == ',' {
		var ok bool
		if i, ok = skipArgs(src, i+1); !ok {
			return 0, false
		}
	}
	if i >= len(src) || src[i] != ')' {
		return 0, false
	}
	i++
	if j := skipSpace(src, i, false); j < len(src) && src[j] == ';' {
		return j + 1, true
	}
	return i, true
}

// skipArgs returns the index of the `)` closing the argument list that
// continues at from. It fails on a statement end or an unmatched `}`.
func skipArgs(src string, from int) (int, bool) {
	end, parens := -1, 0
	failed := false
	walk(src, from, func(i, depth int) bool {
		switch c := src[i]; {
		case c == '(' || c == '[':
			parens++
		case c == ')' && parens == 0 && depth == 0:
			end = i
			return false
		case c == ')' || c == ']':
			parens--
		case c == '}' && depth == 0, c == ';' && depth == 0 && parens == 0:
			failed = true
			return false
		}
		return true
	})
	return end, end >= 0 && !failed
}

func skipSpace(src string, i int, newlines bool) int {
	for i < len(src) {
		switch src[i] {
		case ' ', '\t':
		case '\n', '\r':
			if !newlines {
				return i
			}
		default:
			return i
		}
		i++
	}
	return i
}

// leadingSpace returns the start of the whitespace run ending at i.
func leadingSpace(src string, i int) int {
	for i > 0 {
		switch src[i-1] {
		case ' ', '\t', '\n', '\r', '\f', '\v':
			i--
		default:
			return i
		}
	}
	return i
}
