package formatter

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

const (
	columnGap      = 2
	minColumnWidth = 5
)

// TableOptions controls table rendering.
type TableOptions struct {
	NoColor bool
	// KeyColWidth caps the first column (0 = fit content).
	KeyColWidth int
	// MaxWidth caps the whole table; value columns shrink first (0 = no cap).
	MaxWidth int
}

// RenderTable renders rows under headers. The first column is styled as a
// key and MissingValue cells are highlighted.
func RenderTable(headers []string, rows [][]string, opts TableOptions) string {
	if len(headers) == 0 {
		return ""
	}
	widths := columnWidths(headers, rows, opts)
	sep := strings.Repeat(" ", columnGap)

	var b strings.Builder
	cells := make([]string, len(headers))
	for i, h := range headers {
		cells[i] = render(headerStyle, padRight(truncate(h, widths[i]), widths[i]), opts.NoColor)
	}
	b.WriteString(joinRow(cells, sep, opts.NoColor))

	total := (len(widths) - 1) * columnGap
	for _, w := range widths {
		total += w
	}
	b.WriteString(render(separatorStyle, strings.Repeat("─", total), opts.NoColor) + "\n")

	for _, row := range rows {
		for i := range headers {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			text := padRight(truncate(cell, widths[i]), widths[i])
			switch {
			case i == 0:
				text = render(keyStyle, text, opts.NoColor)
			case cell == MissingValue:
				text = render(missingStyle, text, opts.NoColor)
			default:
				text = render(valueStyle, text, opts.NoColor)
			}
			cells[i] = text
		}
		b.WriteString(joinRow(cells, sep, opts.NoColor))
	}
	return b.String()
}

func joinRow(cells []string, sep string, noColor bool) string {
	line := strings.Join(cells, sep)
	if noColor {
		line = strings.TrimRight(line, " ")
	}
	return line + "\n"
}

func columnWidths(headers []string, rows [][]string, opts TableOptions) []int {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i := 0; i < len(row) && i < len(widths); i++ {
			widths[i] = max(widths[i], runewidth.StringWidth(row[i]))
		}
	}
	if opts.KeyColWidth > 0 {
		widths[0] = min(widths[0], max(opts.KeyColWidth, minColumnWidth))
	}
	if opts.MaxWidth <= 0 || len(widths) < 2 {
		return widths
	}
	total := (len(widths) - 1) * columnGap
	for _, w := range widths {
		total += w
	}
	// Shrink the widest value column one cell at a time.
	for total > opts.MaxWidth {
		widest := 0
		for i := 1; i < len(widths); i++ {
			if widest == 0 || widths[i] > widths[widest] {
				widest = i
			}
		}
		if widths[widest] <= minColumnWidth {
			break
		}
		widths[widest]--
		total--
	}
	return widths
}
