package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Purchase is one line item of a receipt. It is created once by the purchase
// matcher and never mutated afterwards.
type Purchase struct {
	Name     string          `csv:"name"`
	Type     CellType        `csv:"-"`
	Label    string          `csv:"label"`
	Price    decimal.Decimal `csv:"price"`
	Date     time.Time       `csv:"date"`
	Category string          `csv:"category"`
}

// NewPurchase builds a Purchase and fills the exported category name used by
// CSV output.
func NewPurchase(name string, cellType CellType, label string, price decimal.Decimal, date time.Time) Purchase {
	return Purchase{
		Name:     name,
		Type:     cellType,
		Label:    label,
		Price:    price,
		Date:     date,
		Category: cellType.String(),
	}
}
