// Package history reads the bank transaction ledger, pairs receipts with
// their transactions within a date/price tolerance window, and writes the
// has-receipt flags back in one batch per tab.
package history

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"receiptbook/internal/bookerr"
	"receiptbook/internal/cells"
	"receiptbook/internal/dateutils"
	"receiptbook/internal/grid"
	"receiptbook/internal/logging"
	"receiptbook/internal/models"
)

// Fixed ledger columns.
const (
	hasReceiptColumn = 1 // A: "Y" when a receipt covers the transaction
	dateColumn       = 2 // B
	titleColumn      = 3 // C: merchant text
	priceColumn      = 4 // D
	paymentColumn    = 5 // E
	timeColumn       = 6 // F
)

// DefaultDayMatchThreshold is how many days after a receipt's date a bank
// transaction may still post.
const DefaultDayMatchThreshold = 2

// closePriceTolerance bounds the "close match" diagnostic: candidates within
// this absolute price difference are reported, never auto-accepted.
var closePriceTolerance = decimal.RequireFromString("0.03")

// History is the full transaction ledger, loaded once into memory. Flag
// mutations stay in memory until Commit writes them back.
type History struct {
	grid         grid.Grid
	log          logging.Logger
	dayThreshold int

	loaded       bool
	transactions []*models.Transaction
	byDate       map[string][]*models.Transaction
}

func New(g grid.Grid, log logging.Logger) *History {
	return &History{grid: g, log: log, dayThreshold: DefaultDayMatchThreshold}
}

// SetDayMatchThreshold widens or narrows the late-posting window.
func (h *History) SetDayMatchThreshold(days int) {
	if days >= 0 {
		h.dayThreshold = days
	}
}

// Load reads every ledger tab into memory. Rows that cannot be converted are
// logged and skipped; one bad row never aborts the load. Calling Load twice
// is a no-op, the first snapshot stays authoritative.
func (h *History) Load(ctx context.Context) error {
	if h.loaded {
		return nil
	}
	tabs, err := h.grid.Tabs(ctx)
	if err != nil {
		return fmt.Errorf("listing ledger tabs: %w", err)
	}

	h.byDate = make(map[string][]*models.Transaction)
	for _, tab := range tabs {
		values, err := h.grid.Values(ctx, tab)
		if err != nil {
			return fmt.Errorf("reading ledger tab '%s': %w", tab, err)
		}
		for row := 2; row <= len(values); row++ {
			tx, convErr := h.transactionFromRow(tab, row, values[row-1])
			if convErr != nil {
				h.log.WithError(convErr).Warn("ledger row skipped")
				continue
			}
			h.transactions = append(h.transactions, tx)
			key := dateutils.ToISODate(tx.Created)
			h.byDate[key] = append(h.byDate[key], tx)
		}
	}
	h.loaded = true
	return nil
}

func (h *History) transactionFromRow(tab string, row int, cols []string) (*models.Transaction, error) {
	get := func(col int) string {
		if col <= len(cols) {
			return cols[col-1]
		}
		return ""
	}

	dateValue := get(dateColumn)
	created, err := dateutils.ParseDate(dateValue)
	if err != nil {
		return nil, &bookerr.ExtractionError{
			Tab:   tab,
			Label: cells.RowColToLabel(row, dateColumn),
			Value: dateValue,
			Err:   err,
		}
	}

	priceValue := get(priceColumn)
	price, err := models.ParseAmount(priceValue)
	if err != nil {
		return nil, &bookerr.ExtractionError{
			Tab:   tab,
			Label: cells.RowColToLabel(row, priceColumn),
			Value: priceValue,
			Err:   err,
		}
	}

	return &models.Transaction{
		Tab:        tab,
		Label:      cells.RowColToLabel(row, hasReceiptColumn),
		HasReceipt: get(hasReceiptColumn) != "",
		Created:    created,
		Title:      get(titleColumn),
		Price:      price,
	}, nil
}

// Transactions returns every loaded transaction in ledger order.
func (h *History) Transactions() []*models.Transaction {
	return h.transactions
}

// CloseMatch is a near-miss candidate: a transaction in the date window whose
// price differs from the wanted one by at most the close tolerance.
type CloseMatch struct {
	Transaction *models.Transaction
	Diff        decimal.Decimal
}

// FindTransactions returns the transactions matching a receipt's date and
// price. Candidates come from the receipt's day plus the next few days
// within the day-match window, since banks often post late. hasReceipt, when
// non-nil, filters candidates by their current flag.
//
// Exact price matches are authoritative and all returned; a match found on a
// later day is logged with its day shift. When no exact match exists, the
// closest candidates within the close tolerance come back as diagnostics
// only; an ambiguous near-miss is never silently accepted.
func (h *History) FindTransactions(created time.Time, price decimal.Decimal, hasReceipt *bool) ([]*models.Transaction, []CloseMatch) {
	var matches []*models.Transaction
	var near []CloseMatch

	for shift := 0; shift <= h.dayThreshold; shift++ {
		day := created.AddDate(0, 0, shift)
		for _, tx := range h.byDate[dateutils.ToISODate(day)] {
			if hasReceipt != nil && tx.HasReceipt != *hasReceipt {
				continue
			}
			if models.ApproxEqual(tx.Price, price) {
				if shift > 0 {
					h.log.WithFields(
						logging.Field{Key: "transaction", Value: tx.String()},
						logging.Field{Key: "day_shift", Value: shift},
					).Info("transaction found on a later day")
				}
				matches = append(matches, tx)
				continue
			}
			diff := tx.Price.Sub(price).Abs()
			if diff.Cmp(closePriceTolerance) <= 0 {
				near = append(near, CloseMatch{Transaction: tx, Diff: diff})
			}
		}
	}

	if len(matches) > 0 {
		return matches, nil
	}
	if len(near) > 0 {
		closest := closestOf(near)
		for _, c := range closest {
			h.log.WithFields(
				logging.Field{Key: "transaction", Value: c.Transaction.String()},
				logging.Field{Key: "difference", Value: c.Diff.String()},
			).Warn("only a close match found, not accepted automatically")
		}
		return nil, closest
	}
	return nil, nil
}

// closestOf keeps the minimum-difference candidates.
func closestOf(candidates []CloseMatch) []CloseMatch {
	min := candidates[0].Diff
	for _, c := range candidates[1:] {
		if c.Diff.Cmp(min) < 0 {
			min = c.Diff
		}
	}
	var closest []CloseMatch
	for _, c := range candidates {
		if c.Diff.Equal(min) {
			closest = append(closest, c)
		}
	}
	return closest
}

// ResetFlags clears the has-receipt flag of every transaction in memory.
// Commit persists the reset.
func (h *History) ResetFlags() {
	for _, tx := range h.transactions {
		tx.HasReceipt = false
	}
}

// Commit writes the current has-receipt flags back to the ledger, one batch
// write per tab.
func (h *History) Commit(ctx context.Context) error {
	perTab := make(map[string]map[string]string)
	for _, tx := range h.transactions {
		if perTab[tx.Tab] == nil {
			perTab[tx.Tab] = make(map[string]string)
		}
		flag := ""
		if tx.HasReceipt {
			flag = "Y"
		}
		perTab[tx.Tab][tx.Label] = flag
	}
	for tab, values := range perTab {
		if err := h.grid.WriteCells(ctx, tab, values); err != nil {
			return fmt.Errorf("writing has-receipt flags to tab '%s': %w", tab, err)
		}
	}
	return nil
}
