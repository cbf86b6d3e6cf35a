// Package receipt turns one worksheet tab of OCR'd receipt data into a
// structured list of dated, categorized purchases and the receipt's summary
// amounts, and validates that the numbers reconcile.
package receipt

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"receiptbook/internal/bookerr"
	"receiptbook/internal/cells"
	"receiptbook/internal/grid"
	"receiptbook/internal/models"
	"receiptbook/internal/names"
)

// Fixed layout of a normalized receipt tab.
const (
	StoreCell   = "G2"
	TextCell    = "H2"
	JSONCell    = "I2"
	NameColumn  = 2 // column B
	PriceColumn = 4 // column D
)

// hstRate is the sales tax rate used for the tax-target plausibility check,
// not for computing tax itself.
var hstRate = decimal.RequireFromString("0.13")

// Options tune extraction behavior.
type Options struct {
	// IncludeBlankNamedGoods keeps a name cell that carries a category color
	// but empty text. Such cells are OCR dropouts whose color still marks a
	// real line item.
	IncludeBlankNamedGoods bool
}

// NameEntry is one cell from the names column: its label, raw text and the
// cell type classified from its background color.
type NameEntry struct {
	Label string
	Name  string
	Type  models.CellType
	Known bool // false when the color was absent or unrecognized
}

// PriceEntry is one cell from the prices column. An absent or unrecognized
// color reads as a regular price.
type PriceEntry struct {
	Label  string
	Amount decimal.Decimal
	Type   models.CellType
}

// Receipt is one worksheet tab. Every derived field is computed once from a
// single bulk read of the tab and cached for the object's lifetime.
type Receipt struct {
	grid grid.Grid
	tab  string
	opts Options

	loaded  bool
	content [][]string
	colors  map[string]models.Color

	date     *time.Time
	names    []NameEntry
	prices   []PriceEntry
	stats    map[models.CellType]decimal.Decimal
	matched  []models.Purchase
	matchErr error
}

// New creates a Receipt over a normalized tab of the given receipt book grid.
func New(g grid.Grid, tab string, opts Options) *Receipt {
	return &Receipt{grid: g, tab: tab, opts: opts}
}

// Tab returns the tab title the receipt was read from.
func (r *Receipt) Tab() string { return r.tab }

// load snapshots the tab's values and colors, one bulk call each.
func (r *Receipt) load(ctx context.Context) error {
	if r.loaded {
		return nil
	}
	content, err := r.grid.Values(ctx, r.tab)
	if err != nil {
		return fmt.Errorf("reading tab '%s': %w", r.tab, err)
	}
	colors, err := r.grid.Colors(ctx, r.tab)
	if err != nil {
		return fmt.Errorf("reading colors of tab '%s': %w", r.tab, err)
	}
	r.content = content
	r.colors = colors
	r.loaded = true
	return nil
}

// Date derives the receipt's date from the tab title's day number and the
// spreadsheet title's year and month. In-sheet date cells are never trusted;
// the title is the human-validated source.
func (r *Receipt) Date() (time.Time, error) {
	if r.date != nil {
		return *r.date, nil
	}
	day, err := names.ExtractNumber(r.tab)
	if err != nil {
		return time.Time{}, &bookerr.TitleError{
			Title: r.tab,
			Msg:   "receipt tab must carry a day number and belong to a 'YYYY-MM' book",
		}
	}
	year, month, err := names.ParseYearMonth(r.grid.Title())
	if err != nil {
		return time.Time{}, err
	}
	if day < 1 || day > 31 {
		return time.Time{}, &bookerr.TitleError{
			Title: r.tab,
			Msg:   fmt.Sprintf("day %d out of range", day),
		}
	}
	date := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	r.date = &date
	return date, nil
}

// Store returns the recognized store name.
func (r *Receipt) Store(ctx context.Context) (string, error) {
	return r.fixedCell(ctx, StoreCell)
}

// RawText returns the raw OCR text kept for diagnostics.
func (r *Receipt) RawText(ctx context.Context) (string, error) {
	return r.fixedCell(ctx, TextCell)
}

// RawJSON returns the raw recognition JSON kept for diagnostics.
func (r *Receipt) RawJSON(ctx context.Context) (string, error) {
	return r.fixedCell(ctx, JSONCell)
}

func (r *Receipt) fixedCell(ctx context.Context, label string) (string, error) {
	if err := r.load(ctx); err != nil {
		return "", err
	}
	y, x, err := cells.LabelToCoords(label)
	if err != nil {
		return "", err
	}
	if y >= len(r.content) || x >= len(r.content[y]) {
		return "", &bookerr.IntegrityError{
			Tab:    r.tab,
			Reason: fmt.Sprintf("cell %s not found", label),
		}
	}
	return r.content[y][x], nil
}

// cellType classifies a cell by its background color. Cells without
// formatting and cells with drifted colors both come back unknown.
func (r *Receipt) cellType(label string) (models.CellType, bool) {
	color, ok := r.colors[label]
	if !ok {
		return models.Regular, false
	}
	return models.ClassifyColor(color)
}

// Goods returns the name entries that belong to a purchasable category, in
// label order.
func (r *Receipt) Goods(ctx context.Context) ([]NameEntry, error) {
	entries, err := r.allNames(ctx)
	if err != nil {
		return nil, err
	}
	var goods []NameEntry
	for _, entry := range entries {
		if entry.Known && models.IsGoodsType(entry.Type) {
			goods = append(goods, entry)
		}
	}
	return goods, nil
}

// GoodsPrices returns the regular (line item) price entries, in label order.
func (r *Receipt) GoodsPrices(ctx context.Context) ([]PriceEntry, error) {
	entries, err := r.allPrices(ctx)
	if err != nil {
		return nil, err
	}
	var prices []PriceEntry
	for _, entry := range entries {
		if entry.Type == models.Regular {
			prices = append(prices, entry)
		}
	}
	return prices, nil
}

// PriceStats sums the price column by cell type. TOTAL and ACTUALLY_PAID
// overwrite (one such cell is expected per receipt) while every other type
// accumulates.
func (r *Receipt) PriceStats(ctx context.Context) (map[models.CellType]decimal.Decimal, error) {
	if r.stats != nil {
		return r.stats, nil
	}
	entries, err := r.allPrices(ctx)
	if err != nil {
		return nil, err
	}
	stats := make(map[models.CellType]decimal.Decimal)
	for _, entry := range entries {
		switch entry.Type {
		case models.Total, models.ActuallyPaid:
			stats[entry.Type] = entry.Amount
		default:
			stats[entry.Type] = stats[entry.Type].Add(entry.Amount)
		}
	}
	r.stats = stats
	return stats, nil
}

func (r *Receipt) statValue(ctx context.Context, t models.CellType) (decimal.Decimal, bool, error) {
	stats, err := r.PriceStats(ctx)
	if err != nil {
		return decimal.Zero, false, err
	}
	v, ok := stats[t]
	return v, ok, err
}

// Total returns the receipt's total amount, if a TOTAL cell was present.
func (r *Receipt) Total(ctx context.Context) (decimal.Decimal, bool, error) {
	return r.statValue(ctx, models.Total)
}

// Subtotal returns the pre-tax subtotal, if present.
func (r *Receipt) Subtotal(ctx context.Context) (decimal.Decimal, bool, error) {
	return r.statValue(ctx, models.Subtotal)
}

// Tax returns the recorded tax amount, if present.
func (r *Receipt) Tax(ctx context.Context) (decimal.Decimal, bool, error) {
	return r.statValue(ctx, models.Tax)
}

// ActuallyPaid returns the amount actually charged, if present. It differs
// from the total when a loyalty or coupon reduction applied.
func (r *Receipt) ActuallyPaid(ctx context.Context) (decimal.Decimal, bool, error) {
	return r.statValue(ctx, models.ActuallyPaid)
}

// Purchases matches goods names with prices and returns one Purchase per
// good, in goods order.
func (r *Receipt) Purchases(ctx context.Context) ([]models.Purchase, error) {
	if r.matched != nil || r.matchErr != nil {
		return r.matched, r.matchErr
	}
	goods, err := r.Goods(ctx)
	if err != nil {
		return nil, err
	}
	prices, err := r.GoodsPrices(ctx)
	if err != nil {
		return nil, err
	}
	date, err := r.Date()
	if err != nil {
		return nil, err
	}

	var fallback *decimal.Decimal
	for _, t := range []models.CellType{models.Subtotal, models.Total, models.ActuallyPaid} {
		if v, ok, _ := r.statValue(ctx, t); ok {
			fallback = &v
			break
		}
	}

	r.matched, r.matchErr = matchPurchases(r.tab, goods, prices, fallback, date)
	return r.matched, r.matchErr
}

// PurchasesByType groups the receipt's purchases by their category.
func (r *Receipt) PurchasesByType(ctx context.Context) (map[models.CellType][]models.Purchase, error) {
	purchases, err := r.Purchases(ctx)
	if err != nil {
		return nil, err
	}
	grouped := make(map[models.CellType][]models.Purchase)
	for _, p := range purchases {
		grouped[p.Type] = append(grouped[p.Type], p)
	}
	return grouped, nil
}

// Validate checks that the receipt's prices add up: the sum of regular prices
// must match the subtotal when one exists, and subtotal (or the regular sum)
// plus tax must match the total or the actually-paid amount. Receipts with a
// single lump-sum price are trivially valid.
func (r *Receipt) Validate(ctx context.Context) error {
	stats, err := r.PriceStats(ctx)
	if err != nil {
		return err
	}

	regularSum := stats[models.Regular]
	subtotal, hasSubtotal := stats[models.Subtotal]
	if !hasSubtotal && regularSum.IsZero() {
		// some receipts carry just one total price
		return nil
	}

	paid, hasPaid := stats[models.Total]
	if !hasPaid {
		paid, hasPaid = stats[models.ActuallyPaid]
	}
	if !hasPaid {
		return &bookerr.ReconciliationError{
			Tab:    r.tab,
			Reason: "no TOTAL or ACTUALLY_PAID price found",
		}
	}

	tax := stats[models.Tax]
	base := regularSum
	if hasSubtotal {
		base = subtotal
	}
	if !models.ApproxEqual(paid, base.Add(tax)) {
		return &bookerr.ReconciliationError{
			Tab: r.tab,
			Reason: fmt.Sprintf("subtotal %s + tax %s is not equal to total amount %s",
				base.StringFixed(2), tax.StringFixed(2), paid.StringFixed(2)),
		}
	}
	if hasSubtotal && !models.ApproxEqual(regularSum, subtotal) {
		return &bookerr.ReconciliationError{
			Tab: r.tab,
			Reason: fmt.Sprintf("sum of prices %s is not equal to subtotal amount %s",
				regularSum.StringFixed(2), subtotal.StringFixed(2)),
		}
	}
	return nil
}

// Discount returns the loyalty or coupon reduction: how much less was
// actually paid than the receipt's total. Zero when nothing was saved.
func (r *Receipt) Discount(ctx context.Context) (decimal.Decimal, error) {
	paid, hasPaid, err := r.ActuallyPaid(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	if !hasPaid {
		return decimal.Zero, nil
	}

	total, hasTotal, err := r.Total(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	if !hasTotal {
		purchases, err := r.Purchases(ctx)
		if err != nil {
			return decimal.Zero, err
		}
		total = decimal.Zero
		for _, p := range purchases {
			total = total.Add(p.Price)
		}
	}

	if paid.Cmp(total) < 0 {
		return total.Sub(paid), nil
	}
	return decimal.Zero, nil
}

// categoryTotal is a category with its summed purchase price, kept in
// first-encounter order.
type categoryTotal struct {
	Type  models.CellType
	Total decimal.Decimal
}

func (r *Receipt) categoryTotals(ctx context.Context) ([]categoryTotal, error) {
	purchases, err := r.Purchases(ctx)
	if err != nil {
		return nil, err
	}
	var order []models.CellType
	totals := make(map[models.CellType]decimal.Decimal)
	for _, p := range purchases {
		if _, seen := totals[p.Type]; !seen {
			order = append(order, p.Type)
		}
		totals[p.Type] = totals[p.Type].Add(p.Price)
	}
	result := make([]categoryTotal, 0, len(order))
	for _, t := range order {
		result = append(result, categoryTotal{Type: t, Total: totals[t]})
	}
	return result, nil
}

// MostExpensiveCategory returns the category with the highest summed purchase
// price. Ties keep the first-encountered category.
func (r *Receipt) MostExpensiveCategory(ctx context.Context) (models.CellType, error) {
	categories, err := r.categoryTotals(ctx)
	if err != nil {
		return models.Regular, err
	}
	if len(categories) == 0 {
		return models.Regular, &bookerr.IntegrityError{Tab: r.tab, Reason: "no categorized purchases"}
	}
	best := categories[0]
	for _, c := range categories[1:] {
		if c.Total.Cmp(best.Total) > 0 {
			best = c
		}
	}
	return best.Type, nil
}

// TaxBelongsTo decides which category absorbs the receipt's tax. With one
// category or no recorded tax the choice is trivial. Otherwise categories are
// ranked by descending total and the first one whose total makes the tax
// plausible (tax <= 13% of the category total) is the target, preferring a
// non-grocery candidate since groceries are generally tax-exempt. When no
// category qualifies, the largest one takes the tax.
func (r *Receipt) TaxBelongsTo(ctx context.Context) (models.CellType, error) {
	categories, err := r.categoryTotals(ctx)
	if err != nil {
		return models.Regular, err
	}
	if len(categories) == 0 {
		return models.Regular, &bookerr.IntegrityError{Tab: r.tab, Reason: "no categorized purchases"}
	}

	tax, hasTax, err := r.Tax(ctx)
	if err != nil {
		return models.Regular, err
	}
	if len(categories) == 1 || !hasTax || tax.IsZero() {
		return categories[0].Type, nil
	}

	ranked := make([]categoryTotal, len(categories))
	copy(ranked, categories)
	// stable sort by descending total keeps first-encounter order for ties
	for i := 1; i < len(ranked); i++ {
		for j := i; j > 0 && ranked[j].Total.Cmp(ranked[j-1].Total) > 0; j-- {
			ranked[j], ranked[j-1] = ranked[j-1], ranked[j]
		}
	}

	var candidates []categoryTotal
	for _, c := range ranked {
		if tax.Cmp(c.Total.Mul(hstRate)) <= 0 {
			candidates = append(candidates, c)
		}
	}
	if len(candidates) == 0 {
		return ranked[0].Type, nil
	}
	for _, c := range candidates {
		if c.Type != models.Grocery {
			return c.Type, nil
		}
	}
	return candidates[0].Type, nil
}
