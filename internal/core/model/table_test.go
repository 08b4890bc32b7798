package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCounts(t *testing.T) *Table {
	t.Helper()
	table, err := NewTable(
		[]string{"01", "02", "03"},
		[]string{"LabA", "LabB"},
		[][]float64{{3, 0}, {0, 2}, {1, 4}},
	)
	require.NoError(t, err)
	return table
}

func TestNewTableRejectsShapeMismatch(t *testing.T) {
	_, err := NewTable([]string{"01"}, []string{"LabA"}, [][]float64{{1}, {2}})
	assert.Error(t, err)

	_, err = NewTable([]string{"01"}, []string{"LabA", "LabB"}, [][]float64{{1}})
	assert.Error(t, err)
}

func TestNewTableCopiesInput(t *testing.T) {
	cells := [][]float64{{1, 2}}
	table, err := NewTable([]string{"01"}, []string{"LabA", "LabB"}, cells)
	require.NoError(t, err)

	cells[0][0] = 99
	v, ok := table.Cell("01", "LabA")
	require.True(t, ok)
	assert.Equal(t, 1.0, v)
}

func TestWithSummary(t *testing.T) {
	table := newCounts(t).WithSummary(RowTotal)

	label, values, ok := table.Summary()
	require.True(t, ok)
	assert.Equal(t, RowTotal, label)
	assert.Equal(t, []float64{4, 6}, values)
	assert.Equal(t, 4.0, table.Total("LabA"))
	assert.Equal(t, 6.0, table.Total("LabB"))

	v, ok := table.Cell(RowTotal, "LabB")
	require.True(t, ok)
	assert.Equal(t, 6.0, v)

	// Summary rows are not body rows
	assert.Equal(t, []string{"01", "02", "03"}, table.Rows())
}

func TestWithSummaryLeavesSourceUntouched(t *testing.T) {
	source := newCounts(t)
	_ = source.WithSummary(RowTotal)

	_, _, ok := source.Summary()
	assert.False(t, ok)
	assert.Equal(t, 0.0, source.Total("LabA"))
}

func TestBodyDropsSummary(t *testing.T) {
	body := newCounts(t).WithSummary(RowTotal).Body()

	_, _, ok := body.Summary()
	assert.False(t, ok)
	assert.Len(t, body.Rows(), 3)
}

func TestMap(t *testing.T) {
	source := newCounts(t).WithSummary(RowTotal)
	doubled, err := source.Map(func(row []float64) []float64 {
		for j := range row {
			row[j] *= 2
		}
		return row
	})
	require.NoError(t, err)

	assert.Equal(t, []float64{6, 0}, doubled.Row(0))
	// Source rows are handed out as copies
	assert.Equal(t, []float64{3, 0}, source.Row(0))
}

func TestActiveLabsAndGrandTotal(t *testing.T) {
	table := newCounts(t)

	assert.Equal(t, 1, table.ActiveLabs(0))
	assert.Equal(t, 1, table.ActiveLabs(1))
	assert.Equal(t, 2, table.ActiveLabs(2))
	assert.Equal(t, 10.0, table.GrandTotal())
}

func TestCellUnknown(t *testing.T) {
	table := newCounts(t)

	_, ok := table.Cell("01", "LabZ")
	assert.False(t, ok)
	_, ok = table.Cell("31", "LabA")
	assert.False(t, ok)
	_, ok = table.Cell(RowTotal, "LabA")
	assert.False(t, ok)
}

func TestEmptyTableSummary(t *testing.T) {
	table, err := NewTable(nil, []string{"LabA"}, nil)
	require.NoError(t, err)

	_, values, ok := table.WithSummary(RowTotal).Summary()
	require.True(t, ok)
	assert.Equal(t, []float64{0}, values)
}
