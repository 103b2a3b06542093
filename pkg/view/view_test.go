package view_test

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gomdview/pkg/block"
	"github.com/yaklabco/gomdview/pkg/reconcile"
	"github.com/yaklabco/gomdview/pkg/selection"
	"github.com/yaklabco/gomdview/pkg/view"
)

func paragraph(text string) *block.Descriptor {
	return block.New(block.KindParagraph, block.Content{Text: text, Source: text})
}

func rule() *block.Descriptor {
	return block.New(block.KindRule, block.Content{Source: "---"})
}

func setup(t *testing.T) (*view.Surface, *reconcile.Engine, *selection.Tracker) {
	t.Helper()

	surface := view.NewSurface(60, "dark", view.WithColor(false))
	tracker := selection.NewTracker()
	engine := reconcile.New(surface, reconcile.WithTracker(tracker))
	return surface, engine, tracker
}

func host(t *testing.T, engine *reconcile.Engine, i int) *view.Host {
	t.Helper()

	h, ok := engine.At(i).(*view.Host)
	require.True(t, ok)
	return h
}

func TestNewSurface_Defaults(t *testing.T) {
	t.Parallel()

	s := view.NewSurface(0, "no-such-style")
	assert.Equal(t, view.DefaultWidth, s.Width())
	assert.Equal(t, "notty", s.Style())

	assert.Equal(t, "dark", view.NewSurface(40, "dark").Style())
	assert.Equal(t, "notty", view.NewSurface(40, "dark", view.WithColor(false)).Style())
}

func TestHost_ImplementsContracts(t *testing.T) {
	t.Parallel()

	surface := view.NewSurface(40, "notty")
	h := surface.NewHost(paragraph("x"))

	_, isUnit := h.(selection.TextUnit)
	assert.True(t, isUnit)
}

func TestRender_Layout(t *testing.T) {
	t.Parallel()

	surface, engine, _ := setup(t)
	_, err := engine.Reconcile([]*block.Descriptor{paragraph("first block"), paragraph("second block")})
	require.NoError(t, err)

	out := view.Plain(surface.Render(engine.Hosts()))

	assert.False(t, strings.HasPrefix(out, "\n"), "first block has no leading blank line")
	assert.Contains(t, out, "first block")
	assert.Contains(t, out, "second block")
	assert.Less(t, strings.Index(out, "first block"), strings.Index(out, "second block"))
	assert.Contains(t, out, "\n\nsecond block")
}

func TestRender_TrailingRuleSuppressed(t *testing.T) {
	t.Parallel()

	_, engine, _ := setup(t)
	_, err := engine.Reconcile([]*block.Descriptor{paragraph("text"), rule()})
	require.NoError(t, err)
	assert.Empty(t, host(t, engine, 1).View())

	_, err = engine.Reconcile([]*block.Descriptor{paragraph("text"), rule(), paragraph("more")})
	require.NoError(t, err)
	assert.NotEmpty(t, host(t, engine, 1).View())
}

func TestHost_SelectionHighlight(t *testing.T) {
	t.Parallel()

	_, engine, tracker := setup(t)
	_, err := engine.Reconcile([]*block.Descriptor{paragraph("hello world"), paragraph("tail")})
	require.NoError(t, err)

	first := host(t, engine, 0)
	key := first.Selection().Key()
	require.NotZero(t, key)

	tracker.SelectSpan(selection.Point{Key: key, Offset: 0}, selection.Point{Key: key, Offset: 5})
	assert.Equal(t, "«hello» world\n", first.View())

	tracker.SelectNone()
	assert.NotContains(t, first.View(), "«")
}

func TestHost_SelectedListItemPrefix(t *testing.T) {
	t.Parallel()

	_, engine, tracker := setup(t)
	item := block.New(block.KindListItem, block.Content{
		Text: "task", Source: "- [x] task", Depth: 2, Task: true, Checked: true,
	})
	_, err := engine.Reconcile([]*block.Descriptor{paragraph("p"), item})
	require.NoError(t, err)

	tracker.SelectAll()
	assert.Equal(t, "\n  • [✓] «task»\n", host(t, engine, 1).View())
}

func TestHost_RefreshRerenders(t *testing.T) {
	t.Parallel()

	surface, engine, _ := setup(t)
	_, err := engine.Reconcile([]*block.Descriptor{paragraph("draft")})
	require.NoError(t, err)
	before := view.Plain(host(t, engine, 0).View())

	_, err = engine.Reconcile([]*block.Descriptor{paragraph("final")})
	require.NoError(t, err)
	after := view.Plain(host(t, engine, 0).View())

	assert.Contains(t, before, "draft")
	assert.Contains(t, after, "final")
	assert.NotContains(t, after, "draft")

	created, refreshed, destroyed := surface.Stats()
	assert.Equal(t, 1, created)
	assert.Equal(t, 1, refreshed)
	assert.Zero(t, destroyed)
}

func TestSurface_StatsTrackLifecycle(t *testing.T) {
	t.Parallel()

	surface, engine, tracker := setup(t)
	_, err := engine.Reconcile([]*block.Descriptor{paragraph("a"), paragraph("b")})
	require.NoError(t, err)
	gone := host(t, engine, 1)

	_, err = engine.Reconcile([]*block.Descriptor{paragraph("a")})
	require.NoError(t, err)

	assert.True(t, gone.Destroyed())
	assert.Empty(t, gone.View())
	assert.Equal(t, 1, tracker.Len())

	created, _, destroyed := surface.Stats()
	assert.Equal(t, 2, created)
	assert.Equal(t, 1, destroyed)
}

func TestPlain(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "bold", view.Plain("\x1b[1mbold\x1b[0m"))
}

func TestSurface_ConcurrentRender(t *testing.T) {
	t.Parallel()

	const workers = 8

	render := func(surface *view.Surface, text string) string {
		h, ok := surface.NewHost(paragraph(text)).(*view.Host)
		if !ok {
			return ""
		}
		h.Position(true, true)
		return h.View()
	}

	texts := make([]string, workers)
	want := make([]string, workers)
	for i := range workers {
		texts[i] = fmt.Sprintf("Paragraph **%d** with some text to wrap across the width.", i)
		want[i] = render(view.NewSurface(60, "dark"), texts[i])
	}

	shared := view.NewSurface(60, "dark")
	own := make([]string, workers)
	sharedOut := make([]string, workers)

	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 5 {
				own[i] = render(view.NewSurface(60, "dark"), texts[i])
				sharedOut[i] = render(shared, texts[i])
			}
		}()
	}
	wg.Wait()

	for i := range workers {
		assert.Equal(t, want[i], own[i], "own surface %d", i)
		assert.Equal(t, want[i], sharedOut[i], "shared surface %d", i)
	}
}
