package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Align positions a cell inside its column
type Align string

const (
	AlignLeft   Align = "left"
	AlignRight  Align = "right"
	AlignCenter Align = "center"
)

// TableColumn describes one column. Width is a minimum, MaxWidth (when set)
// truncates longer cells with an ellipsis.
type TableColumn struct {
	Header   string
	Width    int
	MaxWidth int
	Align    Align
}

// Table is a plain-text table for catalog, run and folder listings
type Table struct {
	Columns []TableColumn
	Rows    [][]string
}

// NewTable creates a new table with specified columns
func NewTable(columns []TableColumn) *Table {
	return &Table{
		Columns: columns,
		Rows:    [][]string{},
	}
}

// AddRow adds a row; missing trailing cells render empty
func (t *Table) AddRow(cells []string) {
	row := make([]string, len(t.Columns))
	for i := range row {
		if i < len(cells) {
			row[i] = t.clip(i, cells[i])
		}
	}
	t.Rows = append(t.Rows, row)
}

func (t *Table) clip(col int, s string) string {
	limit := t.Columns[col].MaxWidth
	if limit <= 0 || lipgloss.Width(s) <= limit {
		return s
	}
	r := []rune(s)
	if limit <= 1 || len(r) <= limit {
		return string(r[:min(limit, len(r))])
	}
	return string(r[:limit-1]) + "…"
}

// widths measures display width, so styled cells and glyphs line up
func (t *Table) widths() []int {
	w := make([]int, len(t.Columns))
	for i, col := range t.Columns {
		w[i] = max(col.Width, lipgloss.Width(col.Header))
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			w[i] = max(w[i], lipgloss.Width(cell))
		}
	}
	return w
}

// Render renders the table as a string
func (t *Table) Render() string {
	if len(t.Columns) == 0 {
		return ""
	}

	var b strings.Builder
	w := t.widths()

	parts := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		parts[i] = pad(col.Header, w[i], AlignLeft)
	}
	b.WriteString(StyleTableHeader.Render(strings.Join(parts, "  ")))
	b.WriteString("\n")

	for i := range t.Columns {
		parts[i] = strings.Repeat("─", w[i])
	}
	b.WriteString(StyleTableBorder.Render(strings.Join(parts, "  ")))
	b.WriteString("\n")

	for idx, row := range t.Rows {
		for i, cell := range row {
			parts[i] = pad(cell, w[i], t.Columns[i].Align)
		}

		style := StyleTableRow
		if idx%2 == 1 {
			style = StyleTableRowAlt
		}
		b.WriteString(style.Render(strings.Join(parts, "  ")))
		b.WriteString("\n")
	}

	return b.String()
}

func pad(s string, width int, align Align) string {
	gap := width - lipgloss.Width(s)
	if gap <= 0 {
		return s
	}

	switch align {
	case AlignRight:
		return strings.Repeat(" ", gap) + s
	case AlignCenter:
		left := gap / 2
		return strings.Repeat(" ", left) + s + strings.Repeat(" ", gap-left)
	default:
		return s + strings.Repeat(" ", gap)
	}
}

// RenderSimpleList renders a simple bulleted list
func RenderSimpleList(items []string) string {
	var b strings.Builder
	for _, item := range items {
		b.WriteString(StyleInfo.Render("  • "))
		b.WriteString(item)
		b.WriteString("\n")
	}
	return b.String()
}

// RenderKeyValue renders a key-value pair
func RenderKeyValue(key, value string) string {
	return fmt.Sprintf("%s: %s", StyleAccent.Render(key), value)
}
