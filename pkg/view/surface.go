// Package view draws block hosts on a terminal. Each host renders its block
// through glamour on its own, which is what lets the reconciliation engine
// keep unchanged blocks as they are while a reply streams in.
package view

import (
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/yaklabco/gomdview/pkg/block"
	"github.com/yaklabco/gomdview/pkg/reconcile"
)

// DefaultWidth is used when a surface is created with a non-positive width.
const DefaultWidth = 80

// Markers drawn around selected text when color is disabled.
const (
	SelectionOpen  = "«"
	SelectionClose = "»"
)

// SurfaceOption configures a Surface.
type SurfaceOption func(*Surface)

// WithColor enables or disables ANSI styling. Without color, blocks render
// with glamour's notty style and selections are bracketed by markers.
func WithColor(enabled bool) SurfaceOption {
	return func(s *Surface) {
		s.color = enabled
	}
}

// WithHighlight overrides the style used for selected text.
func WithHighlight(style lipgloss.Style) SurfaceOption {
	return func(s *Surface) {
		s.highlight = style
	}
}

// Surface creates terminal hosts for blocks and lays them out.
// It implements reconcile.Factory.
type Surface struct {
	width     int
	style     string
	color     bool
	highlight lipgloss.Style

	// renderMu guards renderer, which is created on first use and shared by
	// every host of the surface. A TermRenderer is not safe for concurrent
	// use.
	renderMu sync.Mutex
	renderer *glamour.TermRenderer

	mu        sync.Mutex
	created   int
	refreshed int
	destroyed int
}

// NewSurface creates a surface of the given width. style names one of
// glamour's standard styles ("dark", "light", "notty", "ascii", ...).
// Unknown names fall back to "notty".
func NewSurface(width int, style string, opts ...SurfaceOption) *Surface {
	if width <= 0 {
		width = DefaultWidth
	}
	s := &Surface{
		width:     width,
		style:     style,
		color:     true,
		highlight: lipgloss.NewStyle().Reverse(true),
	}
	for _, opt := range opts {
		opt(s)
	}
	if _, ok := styles.DefaultStyles[s.style]; !ok || !s.color {
		s.style = styles.NoTTYStyle
	}
	return s
}

// Width returns the render width.
func (s *Surface) Width() int {
	return s.width
}

// Style returns the glamour style name in use.
func (s *Surface) Style() string {
	return s.style
}

// NewHost implements reconcile.Factory.
//
//nolint:ireturn // reconcile.Factory returns the Host interface.
func (s *Surface) NewHost(d *block.Descriptor) reconcile.Host {
	s.count(&s.created)
	return &Host{surface: s, desc: d, dirty: true}
}

// Render lays out hosts in order. Hosts from other factories are skipped.
func (s *Surface) Render(hosts []reconcile.Host) string {
	var sb strings.Builder
	for _, h := range hosts {
		if vh, ok := h.(*Host); ok {
			sb.WriteString(vh.View())
		}
	}
	return sb.String()
}

// Stats reports how many hosts the surface created, refreshed and destroyed.
func (s *Surface) Stats() (created, refreshed, destroyed int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.created, s.refreshed, s.destroyed
}

// Plain strips ANSI escape sequences from rendered output.
func Plain(rendered string) string {
	return ansi.Strip(rendered)
}

func (s *Surface) count(counter *int) {
	s.mu.Lock()
	*counter++
	s.mu.Unlock()
}

// renderMarkdown renders one block's markdown source.
func (s *Surface) renderMarkdown(source string) (string, error) {
	if source == "" {
		return "", nil
	}
	s.renderMu.Lock()
	defer s.renderMu.Unlock()

	renderer, err := s.termRenderer()
	if err != nil {
		return "", err
	}
	out, err := renderer.Render(source)
	if err != nil {
		return "", fmt.Errorf("render block: %w", err)
	}
	return trimBlankLines(out), nil
}

// termRenderer returns the surface's renderer, creating it on first use.
// The caller holds renderMu.
func (s *Surface) termRenderer() (*glamour.TermRenderer, error) {
	if s.renderer != nil {
		return s.renderer, nil
	}

	cfg := *styles.DefaultStyles[s.style]
	margin := uint(0)
	cfg.Document.Margin = &margin
	cfg.Document.BlockPrefix = ""
	cfg.Document.BlockSuffix = ""
	cfg.CodeBlock.Margin = &margin

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStyles(cfg),
		glamour.WithWordWrap(s.width),
	)
	if err != nil {
		return nil, fmt.Errorf("create renderer: %w", err)
	}

	s.renderer = renderer
	return renderer, nil
}

// trimBlankLines drops leading and trailing lines that are blank once
// escape sequences and padding are ignored.
func trimBlankLines(out string) string {
	lines := strings.Split(out, "\n")
	blank := func(line string) bool {
		return strings.TrimSpace(ansi.Strip(line)) == ""
	}
	for len(lines) > 0 && blank(lines[0]) {
		lines = lines[1:]
	}
	for len(lines) > 0 && blank(lines[len(lines)-1]) {
		lines = lines[:len(lines)-1]
	}
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " ")
	}
	return strings.Join(lines, "\n")
}
