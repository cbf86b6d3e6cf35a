package receipt

import (
	"context"
	"strings"

	"receiptbook/internal/bookerr"
	"receiptbook/internal/cells"
	"receiptbook/internal/models"
)

// allNames scans the names column from row 2 down and classifies each cell by
// its background color. Uncolored empty cells are skipped; colored cells with
// empty text are kept when IncludeBlankNamedGoods is set, so an OCR dropout
// with a correct color still counts as a line item placeholder.
func (r *Receipt) allNames(ctx context.Context) ([]NameEntry, error) {
	if r.names != nil {
		return r.names, nil
	}
	if err := r.load(ctx); err != nil {
		return nil, err
	}

	var entries []NameEntry
	for row := 2; row <= r.lastRow(); row++ {
		label := cells.RowColToLabel(row, NameColumn)
		value := r.cellValue(row, NameColumn)
		cellType, known := r.cellType(label)

		switch {
		case strings.TrimSpace(value) != "":
		case r.opts.IncludeBlankNamedGoods && known && models.IsGoodsType(cellType):
		default:
			continue
		}

		entries = append(entries, NameEntry{
			Label: label,
			Name:  value,
			Type:  cellType,
			Known: known,
		})
	}
	if entries == nil {
		entries = []NameEntry{}
	}
	r.names = entries
	return entries, nil
}

// allPrices scans the prices column bottom to top. Once one cell of each
// summary role (tax, subtotal, total, actually-paid) has been seen, every
// remaining cell above is forced to a regular price without looking at its
// color: all summary rows sit at the bottom of a receipt, and a summary row's
// color occasionally bleeds onto an adjacent regular row.
func (r *Receipt) allPrices(ctx context.Context) ([]PriceEntry, error) {
	if r.prices != nil {
		return r.prices, nil
	}
	if err := r.load(ctx); err != nil {
		return nil, err
	}

	var rows []int
	for row := 2; row <= r.lastRow(); row++ {
		if r.cellValue(row, PriceColumn) != "" {
			rows = append(rows, row)
		}
	}

	entries := make([]PriceEntry, 0, len(rows))
	seen := make(map[models.CellType]bool, len(models.SummaryTypes))
	for i := len(rows) - 1; i >= 0; i-- {
		row := rows[i]
		label := cells.RowColToLabel(row, PriceColumn)
		value := r.cellValue(row, PriceColumn)

		amount, err := models.ParseAmount(value)
		if err != nil {
			return nil, &bookerr.ExtractionError{
				Tab:   r.tab,
				Label: label,
				Value: value,
				Err:   err,
			}
		}

		cellType := models.Regular
		if !r.summaryCollected(seen) {
			if t, known := r.cellType(label); known {
				cellType = t
			}
			if models.IsSummaryType(cellType) {
				seen[cellType] = true
			}
		}
		entries = append(entries, PriceEntry{Label: label, Amount: amount, Type: cellType})
	}

	// back into label order
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	r.prices = entries
	return entries, nil
}

func (r *Receipt) summaryCollected(seen map[models.CellType]bool) bool {
	for _, t := range models.SummaryTypes {
		if !seen[t] {
			return false
		}
	}
	return true
}

func (r *Receipt) cellValue(row, col int) string {
	y, x := row-1, col-1
	if y >= len(r.content) || x >= len(r.content[y]) {
		return ""
	}
	return r.content[y][x]
}

func (r *Receipt) lastRow() int {
	last := len(r.content)
	// colored name cells may sit below the last non-empty value row
	for label := range r.colors {
		if row, _, err := cells.LabelToRowCol(label); err == nil && row > last {
			last = row
		}
	}
	return last
}
