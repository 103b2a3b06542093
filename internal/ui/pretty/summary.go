package pretty

import (
	"fmt"
	"strings"
)

const summaryDividerWidth = 40

// ReplaySummary aggregates a replay run.
type ReplaySummary struct {
	Chunks      int
	Bytes       int
	Blocks      int
	Created     int
	Refreshed   int
	Destroyed   int
	Divergences int
}

// FormatSummaryOneLine formats replay statistics as a single line.
// Example: "42 chunks, 5 blocks: 6 created, 31 refreshed, 1 destroyed".
func (s *Styles) FormatSummaryOneLine(sum ReplaySummary) string {
	head := fmt.Sprintf("%d %s, %d %s",
		sum.Chunks, plural(sum.Chunks, "chunk", "chunks"),
		sum.Blocks, plural(sum.Blocks, "block", "blocks"),
	)

	parts := []string{
		s.Inserted.Render(fmt.Sprintf("%d created", sum.Created)),
		s.Changed.Render(fmt.Sprintf("%d refreshed", sum.Refreshed)),
		s.Removed.Render(fmt.Sprintf("%d destroyed", sum.Destroyed)),
	}

	line := s.SummaryTitle.Render(head) + ": " + strings.Join(parts, ", ")
	if sum.Divergences > 0 {
		line += s.Dim.Render(fmt.Sprintf(" (%d %s)", sum.Divergences, plural(sum.Divergences, "divergence", "divergences")))
	}
	return line + "\n"
}

// FormatSummary formats replay statistics as a block with a divider.
func (s *Styles) FormatSummary(sum ReplaySummary) string {
	var builder strings.Builder

	builder.WriteString(s.Dim.Render(strings.Repeat("─", summaryDividerWidth)))
	builder.WriteString("\n")

	rows := []struct {
		label string
		value int
	}{
		{"Chunks", sum.Chunks},
		{"Bytes", sum.Bytes},
		{"Blocks", sum.Blocks},
		{"Hosts created", sum.Created},
		{"Hosts refreshed", sum.Refreshed},
		{"Hosts destroyed", sum.Destroyed},
		{"Divergences", sum.Divergences},
	}
	for _, row := range rows {
		builder.WriteString(fmt.Sprintf("%-18s %s\n",
			s.SummaryTitle.Render(row.label+":"),
			s.SummaryValue.Render(fmt.Sprint(row.value)),
		))
	}

	if sum.Destroyed == 0 {
		builder.WriteString(s.Success.Render("No host was rebuilt"))
	} else {
		builder.WriteString(s.Warning.Render(fmt.Sprintf("%d %s rebuilt", sum.Destroyed, plural(sum.Destroyed, "host", "hosts"))))
	}
	builder.WriteString("\n")

	return builder.String()
}
