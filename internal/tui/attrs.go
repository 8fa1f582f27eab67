package tui

import (
	"fmt"

	table "github.com/charmbracelet/bubbles/table"
)

// refreshAttrsFromCurrent rebuilds the table from the loaded collection.
func (m *Model) refreshAttrsFromCurrent() {
	cols, rows := m.buildAttributes()
	// If there are no columns or rows, disable attributes view to avoid rendering panics
	if len(cols) == 0 || len(rows) == 0 {
		m.showAttrs = false
		m.status = "no attributes for current dataset"
		return
	}
	tcols := make([]table.Column, 0, len(cols)+1)
	tcols = append(tcols, table.Column{Title: "#", Width: 4})
	maxColW := 24
	for _, c := range cols {
		title := c
		if c == m.key() {
			title = "*" + c
		}
		tcols = append(tcols, table.Column{Title: title, Width: min(len(title)+2, maxColW)})
	}
	trows := make([]table.Row, 0, len(rows))
	for i, r := range rows {
		row := make([]string, 0, len(r)+1)
		row = append(row, fmt.Sprintf("%d", i+1))
		row = append(row, r...)
		trows = append(trows, table.Row(row))
	}
	// Avoid transient mismatch: clear rows, set columns, then set rows
	m.tbl.SetRows(nil)
	m.tbl.SetColumns(tcols)
	m.tbl.SetRows(trows)
}

// buildAttributes returns the collection fields and one row per shape.
// Missing and null values show as empty cells.
func (m *Model) buildAttributes() ([]string, [][]string) {
	if m.col == nil {
		return nil, nil
	}
	cols := m.col.Fields
	rows := make([][]string, 0, len(m.col.Shapes))
	for _, s := range m.col.Shapes {
		vals := make([]string, len(cols))
		for i, c := range cols {
			vals[i], _ = s.Props.Lookup(c)
		}
		rows = append(rows, vals)
	}
	return cols, rows
}
