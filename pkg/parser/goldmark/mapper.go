package goldmark

import (
	"strconv"
	"strings"

	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"

	"github.com/yaklabco/gomdview/pkg/block"
	"github.com/yaklabco/gomdview/pkg/langdetect"
)

// mapper converts a goldmark AST into a flat descriptor sequence.
type mapper struct {
	content        []byte
	detectLanguage bool
	out            []*block.Descriptor
}

// nesting is the container context of a block.
type nesting struct {
	listDepth  int
	quoteDepth int
}

func newMapper(content []byte, detectLanguage bool) *mapper {
	return &mapper{content: content, detectLanguage: detectLanguage}
}

// mapDocument walks the top-level blocks of doc.
func (m *mapper) mapDocument(doc ast.Node) []*block.Descriptor {
	m.mapBlocks(doc, nesting{})
	return m.out
}

func (m *mapper) mapBlocks(parent ast.Node, nest nesting) {
	for child := parent.FirstChild(); child != nil; child = child.NextSibling() {
		m.mapBlock(child, nest)
	}
}

func (m *mapper) emit(kind block.Kind, content block.Content) {
	m.out = append(m.out, block.New(kind, content))
}

func (m *mapper) mapBlock(node ast.Node, nest nesting) {
	switch n := node.(type) {
	case *ast.Heading:
		m.emit(block.KindHeading, block.Content{
			Text:   m.inlineText(n),
			Source: strings.Repeat("#", n.Level) + " " + m.rawLines(n, " "),
			Level:  n.Level,
		})

	case *ast.Paragraph, *ast.TextBlock:
		if nest.quoteDepth > 0 {
			prefix := strings.Repeat("> ", nest.quoteDepth)
			m.emit(block.KindQuote, block.Content{
				Text:   m.inlineText(n),
				Source: prefix + m.rawLines(n, "\n"+prefix),
				Depth:  nest.quoteDepth,
			})
			return
		}
		m.emit(block.KindParagraph, block.Content{
			Text:   m.inlineText(n),
			Source: m.rawLines(n, "\n"),
		})

	case *ast.Blockquote:
		nest.quoteDepth++
		m.mapBlocks(n, nest)

	case *ast.List:
		nest.listDepth++
		number := n.Start
		for item := n.FirstChild(); item != nil; item = item.NextSibling() {
			if li, ok := item.(*ast.ListItem); ok {
				m.mapListItem(n, li, number, nest)
				number++
			}
		}

	case *ast.FencedCodeBlock:
		m.mapFencedCode(n)

	case *ast.CodeBlock:
		code := m.codeLines(n)
		m.emit(block.KindIndentedCode, block.Content{
			Text:   code,
			Source: fence(code, ""),
		})

	case *ast.ThematicBreak:
		m.emit(block.KindRule, block.Content{Source: "---"})

	case *ast.HTMLBlock:
		html := m.codeLines(n)
		if n.HasClosure() {
			closure := strings.TrimRight(string(n.ClosureLine.Value(m.content)), "\r\n")
			html = strings.TrimPrefix(html+"\n"+closure, "\n")
		}
		m.emit(block.KindHTML, block.Content{
			Text:   html,
			Source: fence(html, "html"),
		})

	case *east.Table:
		m.mapTable(n)

	default:
		// Unknown containers still get their children mapped.
		m.mapBlocks(node, nest)
	}
}

// mapListItem emits one descriptor for the item's own text and then maps
// any nested blocks one level deeper.
func (m *mapper) mapListItem(list *ast.List, item *ast.ListItem, number int, nest nesting) {
	content := block.Content{
		Depth:   nest.listDepth,
		Ordered: list.IsOrdered(),
	}

	marker := string(list.Marker) + " "
	if list.IsOrdered() {
		content.Number = number
		marker = strconv.Itoa(number) + string(list.Marker) + " "
	}

	var texts, sources []string
	for child := item.FirstChild(); child != nil; child = child.NextSibling() {
		switch child.(type) {
		case *ast.Paragraph, *ast.TextBlock:
			source := m.rawLines(child, "\n")
			if box := taskCheckBox(child); box != nil && len(texts) == 0 {
				content.Task = true
				content.Checked = box.IsChecked
				source = stripCheckBox(source)
			}
			texts = append(texts, m.inlineText(child))
			sources = append(sources, source)
		}
	}

	indent := strings.Repeat("  ", nest.listDepth-1)
	prefix := indent + marker
	if content.Task {
		if content.Checked {
			prefix += "[x] "
		} else {
			prefix += "[ ] "
		}
	}
	continuation := "\n" + indent + strings.Repeat(" ", len(marker))

	content.Text = strings.Join(texts, "\n")
	content.Source = prefix + strings.ReplaceAll(strings.Join(sources, "\n\n"), "\n", continuation)
	m.emit(block.KindListItem, content)

	for child := item.FirstChild(); child != nil; child = child.NextSibling() {
		switch child.(type) {
		case *ast.Paragraph, *ast.TextBlock:
		default:
			m.mapBlock(child, nest)
		}
	}
}

func (m *mapper) mapFencedCode(n *ast.FencedCodeBlock) {
	code := m.codeLines(n)
	content := block.Content{
		Text:     code,
		Language: string(n.Language(m.content)),
	}

	if content.Language == "" && m.detectLanguage && code != "" {
		if lang := langdetect.Detect([]byte(code)); lang != langdetect.Unknown {
			content.Language = lang
			content.LanguageDetected = true
		}
	}

	content.Source = fence(code, content.Language)
	m.emit(block.KindFencedCode, content)
}

func (m *mapper) mapTable(table *east.Table) {
	content := block.Content{
		Align: make([]block.Alignment, len(table.Alignments)),
	}
	for i, a := range table.Alignments {
		content.Align[i] = alignment(a)
	}

	for row := table.FirstChild(); row != nil; row = row.NextSibling() {
		var cells []string
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			cells = append(cells, m.inlineText(cell))
		}
		content.Rows = append(content.Rows, cells)
	}

	content.Source = tableSource(content.Rows, content.Align)
	m.emit(block.KindTable, content)
}

// rawLines returns the block's source lines joined with sep.
func (m *mapper) rawLines(node ast.Node, sep string) string {
	lines := node.Lines()
	parts := make([]string, 0, lines.Len())
	for i := range lines.Len() {
		seg := lines.At(i)
		parts = append(parts, strings.TrimRight(string(seg.Value(m.content)), "\r\n"))
	}
	return strings.TrimSpace(strings.Join(parts, sep))
}

// codeLines returns literal block content without the final newline.
func (m *mapper) codeLines(node ast.Node) string {
	var sb strings.Builder
	lines := node.Lines()
	for i := range lines.Len() {
		seg := lines.At(i)
		sb.Write(seg.Value(m.content))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// inlineText flattens the inline children of node to plain text.
func (m *mapper) inlineText(node ast.Node) string {
	var sb strings.Builder
	m.writeInline(&sb, node)
	return strings.TrimSpace(sb.String())
}

func (m *mapper) writeInline(sb *strings.Builder, node ast.Node) {
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		switch n := child.(type) {
		case *ast.Text:
			sb.Write(n.Segment.Value(m.content))
			switch {
			case n.HardLineBreak():
				sb.WriteByte('\n')
			case n.SoftLineBreak():
				sb.WriteByte(' ')
			}
		case *ast.String:
			sb.Write(n.Value)
		case *ast.AutoLink:
			sb.Write(n.Label(m.content))
		case *ast.RawHTML, *east.TaskCheckBox:
			// Not part of the visible text.
		default:
			m.writeInline(sb, child)
		}
	}
}

func taskCheckBox(node ast.Node) *east.TaskCheckBox {
	if box, ok := node.FirstChild().(*east.TaskCheckBox); ok {
		return box
	}
	return nil
}

// stripCheckBox removes a leading "[ ]" or "[x]" marker from raw source.
func stripCheckBox(source string) string {
	if len(source) >= 3 && source[0] == '[' && source[2] == ']' {
		return strings.TrimSpace(source[3:])
	}
	return source
}

func alignment(a east.Alignment) block.Alignment {
	switch a {
	case east.AlignLeft:
		return block.AlignLeft
	case east.AlignCenter:
		return block.AlignCenter
	case east.AlignRight:
		return block.AlignRight
	default:
		return block.AlignNone
	}
}

// fence wraps code in a backtick fence longer than any run inside it.
func fence(code, lang string) string {
	longest, run := 0, 0
	for _, r := range code {
		if r == '`' {
			run++
			longest = max(longest, run)
		} else {
			run = 0
		}
	}
	marks := strings.Repeat("`", max(3, longest+1))
	return marks + lang + "\n" + code + "\n" + marks
}

func tableSource(rows [][]string, align []block.Alignment) string {
	if len(rows) == 0 {
		return ""
	}

	var sb strings.Builder
	writeRow := func(cells []string) {
		sb.WriteString("|")
		for i := range align {
			cell := ""
			if i < len(cells) {
				cell = strings.ReplaceAll(cells[i], "|", `\|`)
			}
			sb.WriteString(" " + cell + " |")
		}
		sb.WriteString("\n")
	}

	writeRow(rows[0])
	sb.WriteString("|")
	for _, a := range align {
		switch a {
		case block.AlignLeft:
			sb.WriteString(" :--- |")
		case block.AlignCenter:
			sb.WriteString(" :---: |")
		case block.AlignRight:
			sb.WriteString(" ---: |")
		default:
			sb.WriteString(" --- |")
		}
	}
	sb.WriteString("\n")
	for _, row := range rows[1:] {
		writeRow(row)
	}
	return strings.TrimRight(sb.String(), "\n")
}
