package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gomdview/pkg/selection"
)

type textUnit struct {
	text string
	sel  selection.State
}

func (u *textUnit) TextLength() int             { return len([]rune(u.text)) }
func (u *textUnit) PlainText() string           { return u.text }
func (u *textUnit) Selection() *selection.State { return &u.sel }

func newTestTracker(t *testing.T, texts ...string) *selection.Tracker {
	t.Helper()

	tracker := selection.NewTracker()
	for _, text := range texts {
		require.NoError(t, tracker.AddUnit(&textUnit{text: text}))
	}
	return tracker
}

func TestApplySelection(t *testing.T) {
	t.Parallel()

	tests := []struct {
		expr  string
		count int
		text  string
	}{
		{expr: "", count: 0, text: ""},
		{expr: "all", count: 3, text: "one|two|three"},
		{expr: "none", count: 0, text: ""},
		{expr: " 2 ", count: 1, text: "two"},
		{expr: "1..2", count: 2, text: "one|two"},
		{expr: "3..1", count: 3, text: "one|two|three"},
		{expr: "1:1..3:2", count: 3, text: "ne|two|th"},
		{expr: "2:1..2:99", count: 1, text: "wo"},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			t.Parallel()

			tracker := newTestTracker(t, "one", "two", "three")
			count, err := applySelection(tracker, tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.count, count)
			assert.Equal(t, tt.text, selection.Text(tracker, "|"))
		})
	}
}

func TestApplySelection_Invalid(t *testing.T) {
	t.Parallel()

	for _, expr := range []string{"0", "4", "-1", "one", "1..", "1..9", "1:0..2", "1:x..2:0", "1:-1..2:0"} {
		tracker := newTestTracker(t, "one", "two", "three")
		_, err := applySelection(tracker, expr)
		require.ErrorIs(t, err, ErrInvalidSelection, "expr %q", expr)
	}
}

func TestSplitChunks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		size int
		want []string
	}{
		{name: "empty", text: "", size: 4, want: nil},
		{name: "exact", text: "abcdefgh", size: 4, want: []string{"abcd", "efgh"}},
		{name: "short tail", text: "abcde", size: 2, want: []string{"ab", "cd", "e"}},
		{name: "multibyte is not split", text: "aé€b", size: 2, want: []string{"aé", "€", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := splitChunks(tt.text, tt.size)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.text, strings.Join(got, ""))
		})
	}
}
