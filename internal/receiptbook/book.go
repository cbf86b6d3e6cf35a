// Package receiptbook operates on a month's worth of receipt tabs: title
// normalization, tab ordering, price validation sweeps and duplicate
// detection across the collection.
package receiptbook

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"receiptbook/internal/bookerr"
	"receiptbook/internal/grid"
	"receiptbook/internal/logging"
	"receiptbook/internal/names"
	"receiptbook/internal/receipt"
)

// Book is one receipt book file, typically named "2019-01", holding one tab
// per receipt. Receipts are constructed lazily and cached per tab.
type Book struct {
	grid grid.Grid
	opts receipt.Options
	log  logging.Logger

	receipts map[string]*receipt.Receipt
}

func New(g grid.Grid, opts receipt.Options, log logging.Logger) *Book {
	return &Book{grid: g, opts: opts, log: log, receipts: make(map[string]*receipt.Receipt)}
}

// Title returns the book's filename.
func (b *Book) Title() string { return b.grid.Title() }

// Receipt returns the receipt for one tab, reusing an earlier instance when
// the tab was already requested.
func (b *Book) Receipt(tab string) *receipt.Receipt {
	if r, ok := b.receipts[tab]; ok {
		return r
	}
	r := receipt.New(b.grid, tab, b.opts)
	b.receipts[tab] = r
	return r
}

// Receipts returns every receipt of the book in tab order. With a non-empty
// selection only the named tabs are returned, in selection order.
func (b *Book) Receipts(ctx context.Context, selection []string) ([]*receipt.Receipt, error) {
	tabs := selection
	if len(tabs) == 0 {
		var err error
		tabs, err = b.grid.Tabs(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing tabs of '%s': %w", b.Title(), err)
		}
	}
	receipts := make([]*receipt.Receipt, 0, len(tabs))
	for _, tab := range tabs {
		receipts = append(receipts, b.Receipt(tab))
	}
	return receipts, nil
}

// RenameStatus tells what happened to one tab during normalization.
type RenameStatus int

const (
	RenameDone RenameStatus = iota
	RenameSkipped
	RenameFailed
)

// RenameResult is one tab's outcome of a NormalizeTitles pass.
type RenameResult struct {
	From   string
	To     string // empty when the title could not be normalized
	Status RenameStatus
	Err    error
}

// NormalizeTitles renames every tab to its day-of-month form ("Copy of
// 2018/08/01 PM" becomes "01"), suffixing duplicates to keep titles unique.
// Tabs whose title cannot be normalized are skipped and reported. With dry
// set, nothing is written. confirm, when non-nil, is asked before each
// rename; declining skips that tab.
func (b *Book) NormalizeTitles(ctx context.Context, dry bool, confirm func(from, to string) bool) ([]RenameResult, error) {
	tabs, err := b.grid.Tabs(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing tabs of '%s': %w", b.Title(), err)
	}

	registry := make(map[string]bool, len(tabs))
	results := make([]RenameResult, 0, len(tabs))
	for _, tab := range tabs {
		normalized, convErr := names.NormalizedTitle(tab, b.Title(), registry)
		if convErr != nil {
			registry[tab] = true
			results = append(results, RenameResult{From: tab, Status: RenameSkipped, Err: convErr})
			b.log.WithError(convErr).WithField("tab", tab).Debug("title not normalized")
			continue
		}
		registry[normalized] = true

		result := RenameResult{From: tab, To: normalized, Status: RenameDone}
		switch {
		case dry:
			result.Status = RenameSkipped
		case confirm != nil && !confirm(tab, normalized):
			result.Status = RenameSkipped
		default:
			if err := b.grid.RenameTab(ctx, tab, normalized); err != nil {
				result.Status = RenameFailed
				result.Err = err
				b.log.WithError(err).WithField("tab", tab).Error("rename failed")
			} else {
				delete(b.receipts, tab)
			}
		}
		results = append(results, result)
	}
	return results, nil
}

// Reorder sorts the book's tabs alphabetically by title. Normalized titles
// are zero-padded day numbers, so alphabetical order is date order.
func (b *Book) Reorder(ctx context.Context) error {
	tabs, err := b.grid.Tabs(ctx)
	if err != nil {
		return fmt.Errorf("listing tabs of '%s': %w", b.Title(), err)
	}
	sorted := make([]string, len(tabs))
	copy(sorted, tabs)
	sort.Strings(sorted)
	return b.grid.ReorderTabs(ctx, sorted)
}

// ValidationResult is one receipt's outcome of a Validate sweep.
type ValidationResult struct {
	Tab      string
	Err      error // nil when the receipt's prices add up
	Discount decimal.Decimal
}

// Validate checks every receipt's arithmetic and reports per-tab results.
// One broken receipt never stops the sweep.
func (b *Book) Validate(ctx context.Context, selection []string) ([]ValidationResult, error) {
	receipts, err := b.Receipts(ctx, selection)
	if err != nil {
		return nil, err
	}

	results := make([]ValidationResult, 0, len(receipts))
	for _, r := range receipts {
		result := ValidationResult{Tab: r.Tab()}
		if err := r.Validate(ctx); err != nil {
			result.Err = err
		} else if discount, err := r.Discount(ctx); err != nil {
			result.Err = err
		} else {
			result.Discount = discount
		}
		results = append(results, result)
	}
	return results, nil
}

// DuplicateGroup is a set of receipts sharing a date and identical summary
// amounts, most likely the same receipt posted twice under different tabs.
type DuplicateGroup struct {
	Date  time.Time
	Count int
	Tabs  []string
}

// duplicateKey folds a receipt's identity down to comparable strings. Absent
// amounts are kept distinct from zero ones.
type duplicateKey struct {
	date         string
	subtotal     string
	total        string
	actuallyPaid string
}

func amountKey(v decimal.Decimal, ok bool) string {
	if !ok {
		return "-"
	}
	return v.StringFixed(2)
}

// FindDuplicates groups the book's receipts by (date, subtotal, total,
// actually-paid) and reports every group with more than one member. Receipts
// whose date or amounts cannot be read are returned separately, never
// silently dropped.
func (b *Book) FindDuplicates(ctx context.Context) (groups []DuplicateGroup, unreadable []string, err error) {
	receipts, err := b.Receipts(ctx, nil)
	if err != nil {
		return nil, nil, err
	}

	type entry struct {
		date time.Time
		tabs []string
	}
	var order []duplicateKey
	byKey := make(map[duplicateKey]*entry)

	for _, r := range receipts {
		key, date, readErr := b.duplicateKey(ctx, r)
		if readErr != nil {
			b.log.WithError(readErr).WithField("tab", r.Tab()).Warn("receipt skipped from duplicate analysis")
			unreadable = append(unreadable, r.Tab())
			continue
		}
		e, seen := byKey[key]
		if !seen {
			e = &entry{date: date}
			byKey[key] = e
			order = append(order, key)
		}
		e.tabs = append(e.tabs, r.Tab())
	}

	for _, key := range order {
		e := byKey[key]
		if len(e.tabs) > 1 {
			groups = append(groups, DuplicateGroup{Date: e.date, Count: len(e.tabs), Tabs: e.tabs})
		}
	}
	return groups, unreadable, nil
}

func (b *Book) duplicateKey(ctx context.Context, r *receipt.Receipt) (duplicateKey, time.Time, error) {
	date, err := r.Date()
	if err != nil {
		return duplicateKey{}, time.Time{}, err
	}
	subtotal, hasSubtotal, err := r.Subtotal(ctx)
	if err != nil {
		return duplicateKey{}, time.Time{}, err
	}
	total, hasTotal, err := r.Total(ctx)
	if err != nil {
		return duplicateKey{}, time.Time{}, err
	}
	paid, hasPaid, err := r.ActuallyPaid(ctx)
	if err != nil {
		return duplicateKey{}, time.Time{}, err
	}
	key := duplicateKey{
		date:         date.Format("2006-01-02"),
		subtotal:     amountKey(subtotal, hasSubtotal),
		total:        amountKey(total, hasTotal),
		actuallyPaid: amountKey(paid, hasPaid),
	}
	return key, date, nil
}

// ImportableReceipts returns the receipts of the book whose date belongs to
// the book's own month, the precondition for posting into a billing sheet.
// Receipts failing the check are reported through the returned errors slice.
func (b *Book) ImportableReceipts(ctx context.Context, selection []string) ([]*receipt.Receipt, []error, error) {
	year, month, err := names.ParseYearMonth(b.Title())
	if err != nil {
		return nil, nil, err
	}
	receipts, err := b.Receipts(ctx, selection)
	if err != nil {
		return nil, nil, err
	}

	var importable []*receipt.Receipt
	var skipped []error
	for _, r := range receipts {
		date, dateErr := r.Date()
		if dateErr != nil {
			skipped = append(skipped, dateErr)
			continue
		}
		if date.Year() != year || date.Month() != month {
			skipped = append(skipped, &bookerr.IntegrityError{
				Tab:    r.Tab(),
				Reason: fmt.Sprintf("receipt date %s is outside book '%s'", date.Format("2006-01-02"), b.Title()),
			})
			continue
		}
		importable = append(importable, r)
	}
	return importable, skipped, nil
}
