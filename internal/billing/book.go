package billing

import (
	"context"
	"fmt"
	"time"

	"receiptbook/internal/bookerr"
	"receiptbook/internal/grid"
	"receiptbook/internal/logging"
	"receiptbook/internal/names"
)

// Book is the annual billing spreadsheet: a year-named file with one tab per
// month. Tabs whose title holds no recognizable month are warned about once
// at load time and left out; the rest of the book stays usable.
type Book struct {
	grid   grid.Grid
	log    logging.Logger
	year   int
	months map[time.Month]*MonthBilling
}

func NewBook(ctx context.Context, g grid.Grid, log logging.Logger) (*Book, error) {
	yearNumber, err := names.ExtractNumber(g.Title())
	if err != nil || yearNumber < 1000 || yearNumber > 9999 {
		return nil, &bookerr.TitleError{Title: g.Title(), Msg: "billing book must carry a year in its title"}
	}

	tabs, err := g.Tabs(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing tabs of '%s': %w", g.Title(), err)
	}

	book := &Book{grid: g, log: log, year: yearNumber, months: make(map[time.Month]*MonthBilling)}
	for _, tab := range tabs {
		month, titleErr := names.MonthFromTitle(tab)
		if titleErr != nil {
			log.WithError(titleErr).WithField("tab", tab).Warn("billing tab has no recognizable month")
			continue
		}
		if _, taken := book.months[month]; taken {
			log.WithField("tab", tab).Warn("duplicate month tab ignored")
			continue
		}
		book.months[month] = &MonthBilling{grid: g, tab: tab, year: yearNumber, month: month, log: log}
	}
	if len(book.months) < 12 {
		log.WithFields(
			logging.Field{Key: "file", Value: g.Title()},
			logging.Field{Key: "months", Value: len(book.months)},
		).Warn("billing book is missing month tabs")
	}
	return book, nil
}

// Year returns the calendar year the book covers.
func (b *Book) Year() int { return b.year }

// Month returns the billing tab for one calendar month.
func (b *Book) Month(month time.Month) (*MonthBilling, error) {
	m, ok := b.months[month]
	if !ok {
		return nil, &bookerr.IntegrityError{
			Tab:    b.grid.Title(),
			Reason: fmt.Sprintf("no billing tab for %s", month),
		}
	}
	return m, nil
}
