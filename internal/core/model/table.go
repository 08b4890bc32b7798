package model

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Table is a days × labs matrix with an optional trailing summary row.
// A Table is never modified after construction; every derivation returns a
// new Table.
type Table struct {
	rows    []string
	labs    []string
	cells   [][]float64
	summary string
	totals  []float64
}

// NewTable builds a table from row labels, lab columns and cell values.
// cells[i][j] is the value for rows[i] and labs[j]. Inputs are copied.
func NewTable(rows, labs []string, cells [][]float64) (*Table, error) {
	if len(cells) != len(rows) {
		return nil, fmt.Errorf("table has %d rows but %d row labels", len(cells), len(rows))
	}
	t := &Table{
		rows:  append([]string(nil), rows...),
		labs:  append([]string(nil), labs...),
		cells: make([][]float64, len(cells)),
	}
	for i, row := range cells {
		if len(row) != len(labs) {
			return nil, fmt.Errorf("row %q has %d values, want %d", rows[i], len(row), len(labs))
		}
		t.cells[i] = append([]float64(nil), row...)
	}
	return t, nil
}

// WithSummary returns a copy of the table whose summary row, labelled label,
// holds the column-wise sum of the body rows.
func (t *Table) WithSummary(label string) *Table {
	out := t.Body()
	out.summary = label
	out.totals = make([]float64, len(t.labs))
	column := make([]float64, len(t.rows))
	for j := range t.labs {
		for i := range t.rows {
			column[i] = t.cells[i][j]
		}
		out.totals[j] = floats.Sum(column)
	}
	return out
}

// Body returns a copy of the table without its summary row.
func (t *Table) Body() *Table {
	out, _ := NewTable(t.rows, t.labs, t.cells)
	return out
}

// Map builds a new table, without summary, whose rows are produced by fn
// from the corresponding body row. fn must return one value per lab.
func (t *Table) Map(fn func(row []float64) []float64) (*Table, error) {
	cells := make([][]float64, len(t.rows))
	for i := range t.rows {
		cells[i] = fn(t.Row(i))
	}
	return NewTable(t.rows, t.labs, cells)
}

// Rows returns the body row labels in order.
func (t *Table) Rows() []string {
	return append([]string(nil), t.rows...)
}

// Labs returns the column labels in order.
func (t *Table) Labs() []string {
	return append([]string(nil), t.labs...)
}

// Row returns a copy of body row i.
func (t *Table) Row(i int) []float64 {
	return append([]float64(nil), t.cells[i]...)
}

// Cell returns the value for the given row and lab labels.
func (t *Table) Cell(row, lab string) (float64, bool) {
	j := t.labIndex(lab)
	if j < 0 {
		return 0, false
	}
	if row == t.summary && t.summary != "" {
		return t.totals[j], true
	}
	for i, r := range t.rows {
		if r == row {
			return t.cells[i][j], true
		}
	}
	return 0, false
}

// Summary returns the summary row label and values. ok is false when the
// table has no summary row.
func (t *Table) Summary() (label string, values []float64, ok bool) {
	if t.summary == "" {
		return "", nil, false
	}
	return t.summary, append([]float64(nil), t.totals...), true
}

// Total returns the summary value for lab, or 0 if the table has no summary
// row or no such lab.
func (t *Table) Total(lab string) float64 {
	j := t.labIndex(lab)
	if j < 0 || t.summary == "" {
		return 0
	}
	return t.totals[j]
}

// ActiveLabs counts the labs with a non-zero value in body row i.
func (t *Table) ActiveLabs(i int) int {
	n := 0
	for _, v := range t.cells[i] {
		if v != 0 {
			n++
		}
	}
	return n
}

// GrandTotal sums every body cell.
func (t *Table) GrandTotal() float64 {
	var sum float64
	for _, row := range t.cells {
		sum += floats.Sum(row)
	}
	return sum
}

func (t *Table) labIndex(lab string) int {
	for j, l := range t.labs {
		if l == lab {
			return j
		}
	}
	return -1
}
