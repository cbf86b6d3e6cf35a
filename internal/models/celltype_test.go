package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyColor_EveryTableEntry(t *testing.T) {
	for cellType := range cellTypeNames {
		if cellType == Regular {
			continue
		}
		color, ok := TypeColor(cellType)
		require.True(t, ok, "type %s has no color", cellType)

		classified, ok := ClassifyColor(color)
		require.True(t, ok)
		assert.Equal(t, cellType, classified)
	}
}

func TestClassifyColor_Unknown(t *testing.T) {
	unknown := []Color{
		{},
		{Red: 1, Green: 1, Blue: 1},
		{Red: 0.5, Green: 0.5, Blue: 0.5},
		// One channel off from the GROCERY triple.
		{Red: 1, Green: 0.9490196, Blue: 0.81},
	}
	for _, color := range unknown {
		_, ok := ClassifyColor(color)
		assert.False(t, ok, "color %v must not classify", color)
	}
}

func TestGoodsAndSummaryTypesAreDisjoint(t *testing.T) {
	for _, g := range GoodsTypes {
		assert.False(t, IsSummaryType(g), "%s is both goods and summary", g)
	}
	for _, s := range SummaryTypes {
		assert.False(t, IsGoodsType(s), "%s is both summary and goods", s)
	}
}

func TestCellTypeString(t *testing.T) {
	assert.Equal(t, "GROCERY", Grocery.String())
	assert.Equal(t, "ACTUALLY_PAID", ActuallyPaid.String())
	assert.Equal(t, "REGULAR", Regular.String())
}
