package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is one row of the bank transaction ledger. HasReceipt is the
// only mutable field: it is flipped in memory during reconciliation and
// written back to the grid in one batch at the end of a session.
type Transaction struct {
	Tab        string
	Label      string // cell the HasReceipt flag is persisted to
	HasReceipt bool
	Created    time.Time
	Title      string
	Price      decimal.Decimal
}

func (t Transaction) String() string {
	return fmt.Sprintf("%s '%s' %s", t.Created.Format("2006-01-02"), t.Title, t.Price.StringFixed(2))
}
