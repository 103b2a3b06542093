package transcript

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// minBoundaryText is the shortest text worth splitting.
const minBoundaryText = 16

// SafeBoundary returns the byte offset of the last paragraph break in text
// after which the rest can be parsed on its own without changing how the
// text before it parses. It returns 0 when there is no such break.
//
// A break qualifies when it is a blank line outside any code fence, every
// inline marker before it is closed, and the text after it starts with a
// non-indented line (an indented line could continue a list item).
func SafeBoundary(text string) int {
	if len(text) < minBoundaryText {
		return 0
	}

	end := len(text)
	for {
		brk := strings.LastIndex(text[:end], "\n\n")
		if brk < 0 {
			return 0
		}
		pos := brk + 2
		end = brk

		if !startsBlock(text[pos:]) {
			continue
		}
		prose, open := scanFences(text[:pos])
		if open {
			continue
		}
		if markersBalanced(prose) {
			return pos
		}
	}
}

// startsBlock reports whether rest begins with an unindented, non-blank line.
func startsBlock(rest string) bool {
	rest = strings.TrimLeft(rest, "\n")
	if rest == "" {
		return false
	}
	return rest[0] != ' ' && rest[0] != '\t'
}

// scanFences splits text into its prose lines, dropping fenced code, and
// reports whether text ends inside an open ``` or ~~~ fence. A fence closes
// only with the same character and at least the same length.
func scanFences(text string) (string, bool) {
	var prose strings.Builder
	var open byte
	openLen := 0

	for line := range strings.SplitSeq(text, "\n") {
		ch, n := fenceMarker(line)
		switch {
		case openLen == 0 && n > 0:
			open, openLen = ch, n
		case openLen > 0 && ch == open && n >= openLen && strings.TrimSpace(strings.TrimLeft(line, " \t")[n:]) == "":
			openLen = 0
		case openLen == 0:
			prose.WriteString(stripBullet(line))
			prose.WriteByte('\n')
		}
	}
	return prose.String(), openLen > 0
}

// fenceMarker returns the fence character and run length opening line, or
// zero when the line is not a fence.
func fenceMarker(line string) (byte, int) {
	trimmed := strings.TrimLeft(line, " \t")
	if len(trimmed) < 3 || (trimmed[0] != '`' && trimmed[0] != '~') {
		return 0, 0
	}
	ch := trimmed[0]
	n := 0
	for n < len(trimmed) && trimmed[n] == ch {
		n++
	}
	if n < 3 {
		return 0, 0
	}
	return ch, n
}

// stripBullet removes a leading "* " list marker, which is not emphasis.
func stripBullet(line string) string {
	trimmed := strings.TrimLeft(line, " \t")
	if strings.HasPrefix(trimmed, "* ") {
		return trimmed[2:]
	}
	return line
}

// markersBalanced reports whether the emphasis, strikethrough and code span
// markers in text are all closed. Code spans hide the markers inside them.
func markersBalanced(text string) bool {
	var bold, italic, under, strike bool

	for i := 0; i < len(text); {
		switch c := text[i]; {
		case c == '\\' && i+1 < len(text):
			i += 2
		case c == '`':
			n := 0
			for i+n < len(text) && text[i+n] == '`' {
				n++
			}
			closeAt := strings.Index(text[i+n:], strings.Repeat("`", n))
			if closeAt < 0 {
				return false
			}
			i += n + closeAt + n
		case c == '*' && i+1 < len(text) && text[i+1] == '*':
			bold = !bold
			i += 2
		case c == '*':
			if !spaced(text, i) {
				italic = !italic
			}
			i++
		case c == '_':
			if !intraword(text, i) {
				under = !under
			}
			i++
		case c == '~' && i+1 < len(text) && text[i+1] == '~':
			strike = !strike
			i += 2
		default:
			i++
		}
	}
	return !bold && !italic && !under && !strike
}

// spaced reports whether the byte at i has whitespace on both sides.
func spaced(text string, i int) bool {
	before, _ := utf8.DecodeLastRuneInString(text[:i])
	after, _ := utf8.DecodeRuneInString(text[i+1:])
	return (i == 0 || unicode.IsSpace(before)) && (i+1 == len(text) || unicode.IsSpace(after))
}

// intraword reports whether the byte at i sits between two word characters.
func intraword(text string, i int) bool {
	if i == 0 || i+1 >= len(text) {
		return false
	}
	before, _ := utf8.DecodeLastRuneInString(text[:i])
	after, _ := utf8.DecodeRuneInString(text[i+1:])
	word := func(r rune) bool { return unicode.IsLetter(r) || unicode.IsDigit(r) }
	return word(before) && word(after)
}
