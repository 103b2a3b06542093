// Package block defines the immutable block descriptors produced by parsing a
// Markdown transcript. A descriptor describes one semantic unit of content
// (heading, paragraph, code, table, ...) and carries a content fingerprint so
// that two parse cycles can be compared position by position.
package block

import "strconv"

// Kind classifies a block descriptor.
type Kind uint8

// Block kinds. KindInvalid is the zero value and never appears in a valid
// sequence.
const (
	KindInvalid Kind = iota
	KindHeading
	KindParagraph
	KindFencedCode
	KindIndentedCode
	KindTable
	KindRule
	KindListItem
	KindQuote
	KindHTML

	kindCount
)

//nolint:gochecknoglobals // Read-only lookup table.
var kindNames = [kindCount]string{
	KindInvalid:      "Invalid",
	KindHeading:      "Heading",
	KindParagraph:    "Paragraph",
	KindFencedCode:   "FencedCode",
	KindIndentedCode: "IndentedCode",
	KindTable:        "Table",
	KindRule:         "Rule",
	KindListItem:     "ListItem",
	KindQuote:        "Quote",
	KindHTML:         "HTML",
}

// String returns the kind name.
func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Valid reports whether k is a known, non-zero kind.
func (k Kind) Valid() bool {
	return k > KindInvalid && k < kindCount
}

// IsCode reports whether the kind holds literal code text.
func (k Kind) IsCode() bool {
	return k == KindFencedCode || k == KindIndentedCode
}
