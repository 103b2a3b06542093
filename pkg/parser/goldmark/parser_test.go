package goldmark

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gomdview/pkg/block"
)

func parse(t *testing.T, p *Parser, src string) []*block.Descriptor {
	t.Helper()

	descs, err := p.Parse(context.Background(), []byte(src))
	require.NoError(t, err)
	require.NoError(t, block.Validate(descs))
	return descs
}

func kindsOf(descs []*block.Descriptor) []block.Kind {
	out := make([]block.Kind, 0, len(descs))
	for _, d := range descs {
		out = append(out, d.Kind())
	}
	return out
}

func TestParser_New(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		flavor     string
		wantFlavor string
	}{
		{"commonmark", FlavorCommonMark, FlavorCommonMark},
		{"gfm", FlavorGFM, FlavorGFM},
		{"invalid defaults to commonmark", "invalid", FlavorCommonMark},
		{"empty defaults to commonmark", "", FlavorCommonMark},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.wantFlavor, New(tt.flavor).Flavor())
		})
	}
}

func TestParse_HeadingAndParagraph(t *testing.T) {
	t.Parallel()

	descs := parse(t, New(FlavorGFM), "# Hello\n\nWorld")
	require.Len(t, descs, 2)

	head := descs[0].Content()
	assert.Equal(t, block.KindHeading, descs[0].Kind())
	assert.Equal(t, 1, head.Level)
	assert.Equal(t, "Hello", head.Text)
	assert.Equal(t, "# Hello", head.Source)

	assert.Equal(t, block.KindParagraph, descs[1].Kind())
	assert.Equal(t, "World", descs[1].PlainText())
}

func TestParse_InlineText(t *testing.T) {
	t.Parallel()

	descs := parse(t, New(FlavorGFM), "Hello *world* and [link](http://x) `code` end\nnext line")
	require.Len(t, descs, 1)

	assert.Equal(t, "Hello world and link code end next line", descs[0].PlainText())
	assert.Equal(t, "Hello *world* and [link](http://x) `code` end\nnext line", descs[0].Content().Source)
}

func TestParse_Lists(t *testing.T) {
	t.Parallel()

	descs := parse(t, New(FlavorGFM), "- one\n- two\n  - nested\n\n3. three\n4. four\n")
	require.Len(t, descs, 5)

	for _, d := range descs {
		assert.Equal(t, block.KindListItem, d.Kind())
	}

	tests := []struct {
		text    string
		depth   int
		ordered bool
		number  int
		source  string
	}{
		{"one", 1, false, 0, "- one"},
		{"two", 1, false, 0, "- two"},
		{"nested", 2, false, 0, "  - nested"},
		{"three", 1, true, 3, "3. three"},
		{"four", 1, true, 4, "4. four"},
	}
	for i, want := range tests {
		got := descs[i].Content()
		assert.Equal(t, want.text, got.Text, "item %d", i)
		assert.Equal(t, want.depth, got.Depth, "item %d", i)
		assert.Equal(t, want.ordered, got.Ordered, "item %d", i)
		assert.Equal(t, want.number, got.Number, "item %d", i)
		assert.Equal(t, want.source, got.Source, "item %d", i)
	}
}

func TestParse_TaskList(t *testing.T) {
	t.Parallel()

	descs := parse(t, New(FlavorGFM), "- [x] done\n- [ ] todo\n")
	require.Len(t, descs, 2)

	done := descs[0].Content()
	assert.True(t, done.Task)
	assert.True(t, done.Checked)
	assert.Equal(t, "done", done.Text)
	assert.Equal(t, "- [x] done", done.Source)

	todo := descs[1].Content()
	assert.True(t, todo.Task)
	assert.False(t, todo.Checked)
	assert.Equal(t, "- [ ] todo", todo.Source)
}

func TestParse_FencedCode(t *testing.T) {
	t.Parallel()

	descs := parse(t, New(FlavorGFM), "```go\nx := 1\n```\n")
	require.Len(t, descs, 1)

	code := descs[0].Content()
	assert.Equal(t, block.KindFencedCode, descs[0].Kind())
	assert.Equal(t, "go", code.Language)
	assert.False(t, code.LanguageDetected)
	assert.Equal(t, "x := 1", code.Text)
	assert.Equal(t, "```go\nx := 1\n```", code.Source)
}

func TestParse_LanguageDetection(t *testing.T) {
	t.Parallel()

	src := "```\npackage main\n```\n"

	detected := parse(t, New(FlavorGFM, WithLanguageDetection(true)), src)
	require.Len(t, detected, 1)
	assert.Equal(t, "go", detected[0].Content().Language)
	assert.True(t, detected[0].Content().LanguageDetected)

	plain := parse(t, New(FlavorGFM), src)
	require.Len(t, plain, 1)
	assert.Empty(t, plain[0].Content().Language)

	// Detection changes the fingerprint, so the two are not interchangeable.
	assert.Equal(t, block.ChangeContent, block.Compare(plain[0], detected[0]))
}

func TestParse_IndentedCode(t *testing.T) {
	t.Parallel()

	descs := parse(t, New(FlavorCommonMark), "    code line\n")
	require.Len(t, descs, 1)

	assert.Equal(t, block.KindIndentedCode, descs[0].Kind())
	assert.Equal(t, "code line", descs[0].PlainText())
}

func TestParse_Table(t *testing.T) {
	t.Parallel()

	descs := parse(t, New(FlavorGFM), "| a | b |\n|:--|--:|\n| 1 | 2 |\n")
	require.Len(t, descs, 1)

	table := descs[0].Content()
	assert.Equal(t, block.KindTable, descs[0].Kind())
	assert.Equal(t, [][]string{{"a", "b"}, {"1", "2"}}, table.Rows)
	assert.Equal(t, []block.Alignment{block.AlignLeft, block.AlignRight}, table.Align)
	assert.Equal(t, "a\tb\n1\t2", descs[0].PlainText())
	assert.Equal(t, "| a | b |\n| :--- | ---: |\n| 1 | 2 |", table.Source)
}

func TestParse_TableRequiresGFM(t *testing.T) {
	t.Parallel()

	descs := parse(t, New(FlavorCommonMark), "| a |\n|---|\n")
	require.Len(t, descs, 1)
	assert.Equal(t, block.KindParagraph, descs[0].Kind())
}

func TestParse_Quotes(t *testing.T) {
	t.Parallel()

	descs := parse(t, New(FlavorGFM), "> outer\n>\n> > inner\n")
	require.Len(t, descs, 2)

	assert.Equal(t, []block.Kind{block.KindQuote, block.KindQuote}, kindsOf(descs))
	assert.Equal(t, 1, descs[0].Content().Depth)
	assert.Equal(t, "outer", descs[0].PlainText())
	assert.Equal(t, 2, descs[1].Content().Depth)
	assert.Equal(t, "> > inner", descs[1].Content().Source)
}

func TestParse_RuleAndHTML(t *testing.T) {
	t.Parallel()

	descs := parse(t, New(FlavorGFM), "a\n\n---\n\n<div>\nhi\n</div>\n")

	assert.Equal(t, []block.Kind{block.KindParagraph, block.KindRule, block.KindHTML}, kindsOf(descs))
	assert.Empty(t, descs[1].PlainText())
	assert.Contains(t, descs[2].PlainText(), "hi")
}

func TestParse_Empty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, parse(t, New(FlavorGFM), ""))
}

func TestParse_Deterministic(t *testing.T) {
	t.Parallel()

	src := "# T\n\ntext\n\n- a\n- b\n\n```\nx\n```\n"
	p := New(FlavorGFM)

	first := parse(t, p, src)
	second := parse(t, p, src)
	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, block.ChangeNone, block.Compare(first[i], second[i]))
	}
}

func TestParse_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(FlavorGFM).Parse(ctx, []byte("# x"))
	require.ErrorIs(t, err, context.Canceled)
}

func TestFence(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "```sh\nls\n```", fence("ls", "sh"))
	assert.Equal(t, "````\na ``` b\n````", fence("a ``` b", ""))
}
