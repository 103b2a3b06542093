package pretty_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/gomdview/internal/ui/pretty"
)

func TestFormatSummaryOneLine(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)

	tests := []struct {
		name string
		sum  pretty.ReplaySummary
		want string
	}{
		{
			name: "no divergence",
			sum:  pretty.ReplaySummary{Chunks: 1, Blocks: 3, Created: 3},
			want: "1 chunk, 3 blocks: 3 created, 0 refreshed, 0 destroyed\n",
		},
		{
			name: "with divergence",
			sum:  pretty.ReplaySummary{Chunks: 12, Blocks: 1, Created: 2, Refreshed: 9, Destroyed: 1, Divergences: 1},
			want: "12 chunks, 1 block: 2 created, 9 refreshed, 1 destroyed (1 divergence)\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, styles.FormatSummaryOneLine(tt.sum))
		})
	}
}

func TestFormatSummary(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)

	out := styles.FormatSummary(pretty.ReplaySummary{Chunks: 4, Blocks: 2, Created: 2, Refreshed: 3})
	assert.Contains(t, out, "Hosts refreshed:   3\n")
	assert.Contains(t, out, "No host was rebuilt\n")

	out = styles.FormatSummary(pretty.ReplaySummary{Destroyed: 2})
	assert.Contains(t, out, "2 hosts rebuilt\n")
}
