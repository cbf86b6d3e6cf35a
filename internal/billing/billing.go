// Package billing posts categorized purchase totals into the annual budget
// spreadsheet: one tab per month, one row per category, one column per day.
// Amounts are appended to the destination cell's formula so every
// contribution stays visible in the sheet.
package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"receiptbook/internal/bookerr"
	"receiptbook/internal/cells"
	"receiptbook/internal/grid"
	"receiptbook/internal/logging"
	"receiptbook/internal/models"
	"receiptbook/internal/receipt"
)

// firstDayColumn is the column of day 1; day N lands N-1 columns right of it.
const firstDayColumn = 5 // column E

// categoryRows maps each purchasable category to its fixed row in a month
// tab. The mapping is closed: a category without a row cannot be posted.
var categoryRows = map[models.CellType]int{
	models.Grocery:             14,
	models.Takeouts:            15,
	models.Housekeeping:        24,
	models.FurnitureAppliances: 25,
	models.Clothing:            28,
	models.Gym:                 32,
	models.Entertainment:       36,
	models.Travel:              37,
	models.Books:               38,
	models.Gifts:               39,
	models.Hobbies:             40,
	models.OtherFun:            43,
	models.Gasoline:            45,
	models.Parking:             48,
	models.Fares:               49,
	models.Drugs:               52,
	models.DentalVision:        53,
	models.Other:               88,
}

func init() {
	for _, t := range models.GoodsTypes {
		if _, ok := categoryRows[t]; !ok {
			panic(fmt.Sprintf("category %s has no billing row", t))
		}
	}
}

// DestinationLabel returns the month-tab cell where a category's amount for
// a given day of month is posted.
func DestinationLabel(category models.CellType, day int) (string, error) {
	row, ok := categoryRows[category]
	if !ok {
		return "", fmt.Errorf("category %s has no billing row", category)
	}
	return cells.RowColToLabel(row, firstDayColumn+day-1), nil
}

// MonthBilling is one month tab of the billing book.
type MonthBilling struct {
	grid  grid.Grid
	tab   string
	year  int
	month time.Month
	log   logging.Logger
}

// Month returns the calendar month the tab covers.
func (m *MonthBilling) Month() time.Month { return m.month }

// Tab returns the tab title.
func (m *MonthBilling) Tab() string { return m.tab }

func (m *MonthBilling) checkDate(date time.Time, what string) error {
	if date.Month() != m.month || date.Year() != m.year {
		return &bookerr.IntegrityError{
			Tab: m.tab,
			Reason: fmt.Sprintf("%s from %s does not belong to the %d-%02d billing sheet",
				what, date.Format("2006-01-02"), m.year, int(m.month)),
		}
	}
	return nil
}

// formulaAt reads the destination cell's current content. Values come back
// as entered, so an earlier import's formula is visible and extendable.
func (m *MonthBilling) formulaAt(content [][]string, label string) (string, error) {
	y, x, err := cells.LabelToCoords(label)
	if err != nil {
		return "", err
	}
	if y < len(content) && x < len(content[y]) {
		return content[y][x], nil
	}
	return "", nil
}

// appendAmount extends a cell formula with one more amount: an empty cell
// becomes "=price", a filled one gets "+price".
func appendAmount(formula string, amount decimal.Decimal) string {
	if formula == "" {
		return "=" + amount.String()
	}
	return formula + "+" + amount.String()
}

// ImportReceipt posts every purchase of a receipt into the month tab,
// grouped per category. Purchases priced at or above noteThreshold get
// their names appended to the destination cell's note so big expenses stay
// identifiable. The receipt must belong to the tab's month.
func (m *MonthBilling) ImportReceipt(ctx context.Context, r *receipt.Receipt, noteThreshold decimal.Decimal) error {
	date, err := r.Date()
	if err != nil {
		return err
	}
	if err := m.checkDate(date, "receipt"); err != nil {
		return err
	}
	grouped, err := r.PurchasesByType(ctx)
	if err != nil {
		return err
	}

	content, err := m.grid.Values(ctx, m.tab)
	if err != nil {
		return fmt.Errorf("reading billing tab '%s': %w", m.tab, err)
	}

	updates := make(map[string]string)
	notes := make(map[string]string)
	for category, purchases := range grouped {
		if len(purchases) == 0 {
			continue
		}
		label, err := DestinationLabel(category, date.Day())
		if err != nil {
			return &bookerr.IntegrityError{Tab: r.Tab(), Reason: err.Error()}
		}
		formula, err := m.formulaAt(content, label)
		if err != nil {
			return err
		}
		for _, p := range purchases {
			formula = appendAmount(formula, p.Price)
			if p.Price.Cmp(noteThreshold) >= 0 {
				notes[label] = joinNote(notes[label], p.Name)
			}
		}
		updates[label] = formula
	}

	if err := m.grid.WriteCells(ctx, m.tab, updates); err != nil {
		return fmt.Errorf("posting receipt '%s' to billing tab '%s': %w", r.Tab(), m.tab, err)
	}
	if len(notes) > 0 {
		if err := m.grid.WriteNotes(ctx, m.tab, notes, false); err != nil {
			return fmt.Errorf("noting receipt '%s' on billing tab '%s': %w", r.Tab(), m.tab, err)
		}
	}
	return nil
}

// ImportTransaction posts one bank transaction under the given category.
// The caller resolves the category beforehand, by classifier or by hand.
func (m *MonthBilling) ImportTransaction(ctx context.Context, tx *models.Transaction, category models.CellType, noteThreshold decimal.Decimal) error {
	if err := m.checkDate(tx.Created, "transaction"); err != nil {
		return err
	}
	label, err := DestinationLabel(category, tx.Created.Day())
	if err != nil {
		return &bookerr.IntegrityError{Tab: tx.Tab, Reason: err.Error()}
	}

	content, err := m.grid.Values(ctx, m.tab)
	if err != nil {
		return fmt.Errorf("reading billing tab '%s': %w", m.tab, err)
	}
	formula, err := m.formulaAt(content, label)
	if err != nil {
		return err
	}

	updates := map[string]string{label: appendAmount(formula, tx.Price)}
	if err := m.grid.WriteCells(ctx, m.tab, updates); err != nil {
		return fmt.Errorf("posting transaction to billing tab '%s': %w", m.tab, err)
	}
	if tx.Price.Cmp(noteThreshold) >= 0 {
		notes := map[string]string{label: tx.Title}
		if err := m.grid.WriteNotes(ctx, m.tab, notes, false); err != nil {
			return fmt.Errorf("noting transaction on billing tab '%s': %w", m.tab, err)
		}
	}
	return nil
}

// ClearExpenses wipes every category/day cell of the month tab, values and
// notes both, in one batch per kind.
func (m *MonthBilling) ClearExpenses(ctx context.Context) error {
	updates := make(map[string]string)
	notes := make(map[string]string)
	lastDay := time.Date(m.year, m.month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, -1).Day()
	for category := range categoryRows {
		for day := 1; day <= lastDay; day++ {
			label, err := DestinationLabel(category, day)
			if err != nil {
				return err
			}
			updates[label] = ""
			notes[label] = ""
		}
	}
	if err := m.grid.WriteCells(ctx, m.tab, updates); err != nil {
		return fmt.Errorf("clearing billing tab '%s': %w", m.tab, err)
	}
	if err := m.grid.WriteNotes(ctx, m.tab, notes, true); err != nil {
		return fmt.Errorf("clearing notes of billing tab '%s': %w", m.tab, err)
	}
	return nil
}

func joinNote(existing, addition string) string {
	if existing == "" {
		return addition
	}
	return existing + ", " + addition
}
