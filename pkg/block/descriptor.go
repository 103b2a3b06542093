package block

import (
	"strings"
	"unicode/utf8"
)

// Alignment is the horizontal alignment of a table column.
type Alignment uint8

// Table column alignments.
const (
	AlignNone Alignment = iota
	AlignLeft
	AlignCenter
	AlignRight
)

// Content is the kind-specific payload of a descriptor.
// Fields that do not apply to a kind are left at their zero value.
type Content struct {
	// Text is the block's inline content flattened to plain text.
	// For code blocks it is the literal code.
	Text string

	// Source is the Markdown the renderer draws for this block.
	Source string

	// Language is the code block info string (first word).
	Language string

	// LanguageDetected is true when Language was inferred from the code
	// rather than declared on the fence.
	LanguageDetected bool

	// Level is the heading level (1-6).
	Level int

	// Depth is the nesting depth of list items and quotes (1 = top level).
	Depth int

	// Ordered, Number, Task and Checked describe list items.
	Ordered bool
	Number  int
	Task    bool
	Checked bool

	// Rows holds table cells; the first row is the header.
	Rows [][]string

	// Align holds one alignment per table column.
	Align []Alignment
}

// Descriptor is an immutable description of one block of content.
// Descriptors are created by New and never modified afterwards; a new parse
// cycle produces a new sequence of descriptors.
type Descriptor struct {
	kind        Kind
	content     Content
	fingerprint uint64
	plain       string
	length      int
}

// New creates a descriptor of the given kind. The content's slices are
// copied so later changes by the caller cannot leak into the descriptor.
func New(kind Kind, content Content) *Descriptor {
	content.Rows = cloneRows(content.Rows)
	if content.Align != nil {
		content.Align = append([]Alignment(nil), content.Align...)
	}

	plain := plainText(kind, &content)

	return &Descriptor{
		kind:        kind,
		content:     content,
		fingerprint: fingerprint(&content),
		plain:       plain,
		length:      utf8.RuneCountInString(plain),
	}
}

// Kind returns the block kind.
func (d *Descriptor) Kind() Kind {
	return d.kind
}

// Content returns the block payload. The Rows and Align slices are shared
// with the descriptor and must not be modified.
func (d *Descriptor) Content() Content {
	return d.content
}

// Fingerprint returns the content fingerprint computed at construction.
func (d *Descriptor) Fingerprint() uint64 {
	return d.fingerprint
}

// PlainText returns the selectable text of the block.
func (d *Descriptor) PlainText() string {
	return d.plain
}

// TextLength returns the number of characters in PlainText.
func (d *Descriptor) TextLength() int {
	return d.length
}

// String returns a short debug representation.
func (d *Descriptor) String() string {
	if d == nil {
		return "<nil>"
	}
	text := d.plain
	if utf8.RuneCountInString(text) > 24 {
		text = string([]rune(text)[:24]) + "…"
	}
	return d.kind.String() + "(" + text + ")"
}

// plainText derives the selectable text for a block.
func plainText(kind Kind, content *Content) string {
	switch kind {
	case KindRule:
		return ""
	case KindTable:
		rows := make([]string, 0, len(content.Rows))
		for _, row := range content.Rows {
			rows = append(rows, strings.Join(row, "\t"))
		}
		return strings.Join(rows, "\n")
	default:
		return content.Text
	}
}

func cloneRows(rows [][]string) [][]string {
	if rows == nil {
		return nil
	}
	out := make([][]string, len(rows))
	for i, row := range rows {
		out[i] = append([]string(nil), row...)
	}
	return out
}
