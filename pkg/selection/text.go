package selection

import "strings"

// Text returns the selected text of t. The selected substring of every
// selecting unit that implements TextUnit is taken in registration order and
// the pieces are joined with sep. Offsets are rune offsets. Units whose
// range is empty contribute nothing.
func Text(t *Tracker, sep string) string {
	var parts []string
	for _, span := range t.Selected() {
		tu, ok := span.Unit.(TextUnit)
		if !ok {
			continue
		}
		if piece := substring(tu.PlainText(), span.Start, span.End); piece != "" {
			parts = append(parts, piece)
		}
	}
	return strings.Join(parts, sep)
}

func substring(s string, start, end int) string {
	if start >= end {
		return ""
	}
	runes := []rune(s)
	start = clamp(start, len(runes))
	end = clamp(end, len(runes))
	return string(runes[start:end])
}
