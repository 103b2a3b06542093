package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yaklabco/gomdview/pkg/reconcile"
)

// Table formatting constants.
const (
	tablePadding   = 2
	heavySeparator = "="
	lightSeparator = "-"
	noDivergence   = "-"
)

// statsColumns are the headers of the replay table.
//
//nolint:gochecknoglobals // Read-only lookup table.
var statsColumns = []string{"CHUNK", "BYTES", "BLOCKS", "SAME", "CHANGED", "INSERTED", "REMOVED", "DIVERGE"}

// ChunkRow is one replayed chunk.
type ChunkRow struct {
	Index  int
	Bytes  int
	Blocks int
	Stats  reconcile.Stats
}

// TableFormatter formats replay statistics as a styled table.
type TableFormatter struct {
	styles *Styles
}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter(styles *Styles) *TableFormatter {
	return &TableFormatter{styles: styles}
}

// FormatTable formats rows as a right-aligned table with a header.
func (t *TableFormatter) FormatTable(rows []ChunkRow) string {
	if len(rows) == 0 {
		return ""
	}

	cells := make([][]string, 0, len(rows))
	for _, row := range rows {
		cells = append(cells, rowCells(row))
	}
	widths := columnWidths(cells)

	var builder strings.Builder
	builder.WriteString(t.styles.TableHeader.Render(joinCells(statsColumns, widths)))
	builder.WriteString("\n")
	builder.WriteString(t.separator(widths, heavySeparator))
	builder.WriteString("\n")

	for i, row := range rows {
		builder.WriteString(t.formatRow(row, cells[i], widths))
		builder.WriteString("\n")
	}

	builder.WriteString(t.separator(widths, lightSeparator))
	builder.WriteString("\n")
	return builder.String()
}

func rowCells(row ChunkRow) []string {
	diverge := noDivergence
	if row.Stats.Divergence >= 0 {
		diverge = strconv.Itoa(row.Stats.Divergence)
	}
	return []string{
		strconv.Itoa(row.Index),
		strconv.Itoa(row.Bytes),
		strconv.Itoa(row.Blocks),
		strconv.Itoa(row.Stats.Unchanged),
		strconv.Itoa(row.Stats.Changed),
		strconv.Itoa(row.Stats.Inserted),
		strconv.Itoa(row.Stats.Removed),
		diverge,
	}
}

func columnWidths(cells [][]string) []int {
	widths := make([]int, len(statsColumns))
	for i, name := range statsColumns {
		widths[i] = len(name)
	}
	for _, row := range cells {
		for i, cell := range row {
			widths[i] = max(widths[i], len(cell))
		}
	}
	return widths
}

func joinCells(cells []string, widths []int) string {
	padded := make([]string, len(cells))
	for i, cell := range cells {
		padded[i] = fmt.Sprintf("%*s", widths[i], cell)
	}
	return strings.Join(padded, strings.Repeat(" ", tablePadding))
}

// formatRow colors the counters that describe work done on the chunk.
func (t *TableFormatter) formatRow(row ChunkRow, cells []string, widths []int) string {
	padded := make([]string, len(cells))
	for i, cell := range cells {
		padded[i] = fmt.Sprintf("%*s", widths[i], cell)
	}

	color := func(i int, style lipgloss.Style, active bool) {
		if active {
			padded[i] = style.Render(padded[i])
		}
	}
	color(4, t.styles.Changed, row.Stats.Changed > 0)
	color(5, t.styles.Inserted, row.Stats.Inserted > 0)
	color(6, t.styles.Removed, row.Stats.Removed > 0)
	color(7, t.styles.Divergence, row.Stats.Divergence >= 0)

	return strings.Join(padded, strings.Repeat(" ", tablePadding))
}

func (t *TableFormatter) separator(widths []int, char string) string {
	total := tablePadding * (len(widths) - 1)
	for _, w := range widths {
		total += w
	}
	return t.styles.TableSeparator.Render(strings.Repeat(char, total))
}
