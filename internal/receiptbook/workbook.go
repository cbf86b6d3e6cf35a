package receiptbook

import (
	"context"
	"fmt"

	"receiptbook/internal/grid"
	"receiptbook/internal/logging"
	"receiptbook/internal/names"
	"receiptbook/internal/receipt"
)

// Workbook is the inbox file holding freshly scanned, unsorted receipt tabs
// whose titles still carry full dates. Its tabs get routed into the
// "YYYY-MM" receipt book their date belongs to.
type Workbook struct {
	grid  grid.Grid
	mover grid.Mover
	log   logging.Logger
}

func NewWorkbook(g grid.Grid, mover grid.Mover, log logging.Logger) *Workbook {
	return &Workbook{grid: g, mover: mover, log: log}
}

// MovePlan is the routing decision for one workbook tab.
type MovePlan struct {
	Tab          string
	Store        string // best-effort, empty when unreadable
	DestFilename string
	// Ambiguous marks dates whose day and month cannot be told apart
	// (day <= 12 and day != month), where a swapped reading would route the
	// tab into a different book.
	Ambiguous bool
	Err       error // set when the title holds no usable date
}

// PlanMoves decides a destination book for every tab of the workbook. Tabs
// without a parseable date are reported in the plan, not dropped.
func (w *Workbook) PlanMoves(ctx context.Context) ([]MovePlan, error) {
	tabs, err := w.grid.Tabs(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing tabs of '%s': %w", w.grid.Title(), err)
	}

	plans := make([]MovePlan, 0, len(tabs))
	for _, tab := range tabs {
		plan := MovePlan{Tab: tab}
		if store, storeErr := receipt.New(w.grid, tab, receipt.Options{}).Store(ctx); storeErr == nil {
			plan.Store = store
		}

		date, dateErr := names.ParseLooseDate(tab)
		if dateErr != nil {
			plan.Err = dateErr
			w.log.WithError(dateErr).WithField("tab", tab).Warn("tab has no usable date")
			plans = append(plans, plan)
			continue
		}

		plan.DestFilename = fmt.Sprintf("%d-%02d", date.Year(), int(date.Month()))
		plan.Ambiguous = date.Day() <= 12 && date.Day() != int(date.Month())
		plans = append(plans, plan)
	}
	return plans, nil
}

// Move copies a tab into its destination book and deletes the original.
// Returns the title the destination assigned to the copy.
func (w *Workbook) Move(ctx context.Context, plan MovePlan) (string, error) {
	if plan.Err != nil {
		return "", plan.Err
	}
	newTitle, err := w.mover.CopyTab(ctx, plan.Tab, plan.DestFilename)
	if err != nil {
		return "", fmt.Errorf("copying tab '%s' to '%s': %w", plan.Tab, plan.DestFilename, err)
	}
	if err := w.mover.DeleteTab(ctx, plan.Tab); err != nil {
		return "", fmt.Errorf("removing tab '%s' after copy: %w", plan.Tab, err)
	}
	return newTitle, nil
}
