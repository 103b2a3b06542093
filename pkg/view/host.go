package view

import (
	"strconv"
	"strings"

	"github.com/yaklabco/gomdview/pkg/block"
	"github.com/yaklabco/gomdview/pkg/selection"
)

// Host draws one block. It implements reconcile.Host and selection.Unit.
type Host struct {
	surface *Surface
	desc    *block.Descriptor
	sel     selection.State

	first     bool
	last      bool
	destroyed bool

	// rendered caches the glamour output of desc.
	rendered string
	dirty    bool
	err      error
}

// Descriptor returns the block the host draws.
func (h *Host) Descriptor() *block.Descriptor {
	return h.desc
}

// Refresh replaces the block after a content change.
func (h *Host) Refresh(d *block.Descriptor) {
	h.desc = d
	h.dirty = true
	h.surface.count(&h.surface.refreshed)
}

// Position records whether the host is first and/or last in the document.
func (h *Host) Position(first, last bool) {
	h.first = first
	h.last = last
}

// Destroy drops the cached output.
func (h *Host) Destroy() {
	if h.destroyed {
		return
	}
	h.destroyed = true
	h.rendered = ""
	h.surface.count(&h.surface.destroyed)
}

// Destroyed reports whether Destroy was called.
func (h *Host) Destroyed() bool {
	return h.destroyed
}

// TextLength implements selection.Unit.
func (h *Host) TextLength() int {
	return h.desc.TextLength()
}

// PlainText implements selection.TextUnit.
func (h *Host) PlainText() string {
	return h.desc.PlainText()
}

// Selection implements selection.Unit.
func (h *Host) Selection() *selection.State {
	return &h.sel
}

// Err returns the last render error. A host that fails to render falls
// back to drawing its plain text.
func (h *Host) Err() error {
	return h.err
}

// View returns the host's output including its separator. The first block
// has no leading blank line, and a rule in last position draws nothing.
func (h *Host) View() string {
	if h.destroyed {
		return ""
	}
	if h.last && h.desc.Kind() == block.KindRule {
		return ""
	}

	var body string
	if h.sel.HasSelection() {
		body = h.selectedView()
	} else {
		body = h.markdownView()
	}

	if h.first {
		return body + "\n"
	}
	return "\n" + body + "\n"
}

func (h *Host) markdownView() string {
	if h.dirty {
		h.rendered, h.err = h.surface.renderMarkdown(h.desc.Content().Source)
		if h.err != nil {
			h.rendered = h.desc.PlainText()
		}
		h.dirty = false
	}
	return h.rendered
}

// selectedView draws the plain text with the selected range highlighted.
func (h *Host) selectedView() string {
	runes := []rune(h.desc.PlainText())
	start, end := h.sel.Range()
	start = max(0, min(start, len(runes)))
	end = max(start, min(end, len(runes)))

	var sb strings.Builder
	sb.WriteString(h.prefix())
	sb.WriteString(string(runes[:start]))
	sb.WriteString(h.surface.highlightText(string(runes[start:end])))
	sb.WriteString(string(runes[end:]))
	return sb.String()
}

// prefix returns the marker drawn before a block's plain text.
func (h *Host) prefix() string {
	content := h.desc.Content()
	switch h.desc.Kind() {
	case block.KindHeading:
		return strings.Repeat("#", content.Level) + " "
	case block.KindListItem:
		indent := strings.Repeat("  ", max(content.Depth-1, 0))
		marker := "• "
		if content.Ordered {
			marker = strconv.Itoa(content.Number) + ". "
		}
		if content.Task {
			if content.Checked {
				marker += "[✓] "
			} else {
				marker += "[ ] "
			}
		}
		return indent + marker
	case block.KindQuote:
		return strings.Repeat("│ ", content.Depth)
	default:
		return ""
	}
}

// highlightText styles selected text one line at a time.
func (s *Surface) highlightText(text string) string {
	if text == "" {
		return ""
	}
	if !s.color {
		return SelectionOpen + text + SelectionClose
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = s.highlight.Render(line)
		}
	}
	return strings.Join(lines, "\n")
}
