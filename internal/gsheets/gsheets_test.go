package gsheets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	sheets "google.golang.org/api/sheets/v4"
)

func TestQuoteTab(t *testing.T) {
	assert.Equal(t, "'01'", quoteTab("01"))
	assert.Equal(t, "'Copy of 2018/08/01'", quoteTab("Copy of 2018/08/01"))
}

func TestForEachCell(t *testing.T) {
	resp := &sheets.Spreadsheet{
		Sheets: []*sheets.Sheet{{
			Data: []*sheets.GridData{{
				RowData: []*sheets.RowData{
					{Values: []*sheets.CellData{{Note: "first"}, nil}},
					nil,
					{Values: []*sheets.CellData{nil, {Note: "second"}}},
				},
			}},
		}},
	}

	type visit struct {
		row, col int
		note     string
	}
	var visits []visit
	forEachCell(resp, func(row, col int, cell *sheets.CellData) {
		visits = append(visits, visit{row, col, cell.Note})
	})

	assert.Equal(t, []visit{
		{1, 1, "first"},
		{3, 2, "second"},
	}, visits)
}

func TestForEachCell_EmptyResponse(t *testing.T) {
	called := false
	forEachCell(&sheets.Spreadsheet{}, func(int, int, *sheets.CellData) { called = true })
	assert.False(t, called)
}
