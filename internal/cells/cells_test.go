package cells

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLabelToRowCol(t *testing.T) {
	tests := []struct {
		label string
		row   int
		col   int
	}{
		{"A1", 1, 1},
		{"B8", 8, 2},
		{"D15", 15, 4},
		{"Z100", 100, 26},
		{"AA3", 3, 27},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			row, col, err := LabelToRowCol(tt.label)
			require.NoError(t, err)
			assert.Equal(t, tt.row, row)
			assert.Equal(t, tt.col, col)
		})
	}
}

func TestLabelToRowCol_Malformed(t *testing.T) {
	for _, label := range []string{"", "B", "8", "B0", "b8", "B8x"} {
		t.Run(label, func(t *testing.T) {
			_, _, err := LabelToRowCol(label)
			assert.Error(t, err)
		})
	}
}

func TestRowColToLabel(t *testing.T) {
	assert.Equal(t, "A1", RowColToLabel(1, 1))
	assert.Equal(t, "B8", RowColToLabel(8, 2))
	assert.Equal(t, "AA3", RowColToLabel(3, 27))
	assert.Equal(t, "AB10", RowColToLabel(10, 28))
}

func TestRowColToLabel_RoundTrip(t *testing.T) {
	for row := 1; row <= 60; row += 7 {
		for col := 1; col <= 60; col += 5 {
			r, c, err := LabelToRowCol(RowColToLabel(row, col))
			require.NoError(t, err)
			assert.Equal(t, row, r)
			assert.Equal(t, col, c)
		}
	}
}

func TestLabelToCoords(t *testing.T) {
	y, x, err := LabelToCoords("A1")
	require.NoError(t, err)
	assert.Equal(t, 0, y)
	assert.Equal(t, 0, x)

	y, x, err = LabelToCoords("G2")
	require.NoError(t, err)
	assert.Equal(t, 1, y)
	assert.Equal(t, 6, x)
}

func TestSortLabels_Natural(t *testing.T) {
	labels := []string{"B10", "B2", "B8", "B1"}
	SortLabels(labels)
	assert.Equal(t, []string{"B1", "B2", "B8", "B10"}, labels)
}

func TestSortLabels_LetterRuns(t *testing.T) {
	// Single-letter columns come before double-letter ones, as on the sheet.
	labels := []string{"AA1", "Z1", "B1"}
	SortLabels(labels)
	assert.Equal(t, []string{"B1", "Z1", "AA1"}, labels)
}

func TestEarliestLabel_DifferentRowsCols(t *testing.T) {
	assert.Equal(t, "A1", EarliestLabel("B2", "A1", "C3"))
}

func TestEarliestLabel_DifferentRowsSameCols(t *testing.T) {
	assert.Equal(t, "A1", EarliestLabel("A1", "B1"))
}

func TestEarliestLabel_SameRowsDifferentCols(t *testing.T) {
	assert.Equal(t, "A4", EarliestLabel("A4", "D4", "E4"))
}

func TestEarliestLabel_SameLabels(t *testing.T) {
	assert.Equal(t, "B2", EarliestLabel("B2", "B2"))
}

func TestEarliestLabel_OneLabel(t *testing.T) {
	assert.Equal(t, "A1", EarliestLabel("A1"))
}

func TestEarliestLabel_Empty(t *testing.T) {
	assert.Equal(t, "", EarliestLabel())
}
