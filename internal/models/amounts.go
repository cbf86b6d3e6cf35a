package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// CompareTolerance is the maximum difference at which two amounts are treated
// as equal. OCR'd sheets round differently than banks do, so sums are compared
// to the cent rather than exactly.
var CompareTolerance = decimal.New(1, -2) // 0.01

// ParseAmount converts a raw cell value to an exact decimal. A value carrying
// both a comma and a period has its commas stripped first ("1,234.56" uses
// commas as thousands separators).
func ParseAmount(value string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(value)
	if strings.Contains(cleaned, ",") && strings.Contains(cleaned, ".") {
		cleaned = strings.ReplaceAll(cleaned, ",", "")
	}
	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount '%s': %w", value, err)
	}
	return amount, nil
}

// ApproxEqual reports whether the two amounts differ by no more than
// CompareTolerance.
func ApproxEqual(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().Cmp(CompareTolerance) <= 0
}
