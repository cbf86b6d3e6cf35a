package receipt

import (
	"github.com/shopspring/decimal"

	"receiptbook/internal/bookerr"
	"receiptbook/internal/cells"
	"receiptbook/internal/models"
	"time"
)

// matchPurchases pairs goods with prices, one Purchase per good, in goods
// order. Recognition artifacts shift prices up or down a row relative to
// their names, or split one item's price across adjacent cells, so the counts
// may disagree:
//
//   - no prices and a single good: the receipt is a lump sum; the summary
//     fallback amount covers the one item
//   - fewer prices than goods: unrecoverable, the receipt is skipped
//   - equal counts: strict positional pairing
//   - more prices than goods: greedy accumulation, a good keeps consuming
//     prices until the next unconsumed price sits at or past the next good's
//     cell (row-major order decides "past")
func matchPurchases(
	tab string,
	goods []NameEntry,
	prices []PriceEntry,
	fallback *decimal.Decimal,
	date time.Time,
) ([]models.Purchase, error) {
	if len(prices) == 0 && len(goods) == 1 {
		if fallback == nil {
			return nil, &bookerr.IntegrityError{
				Tab:    tab,
				Reason: "single good with no price and no summary amount to fall back to",
			}
		}
		prices = []PriceEntry{{
			Label:  cells.RowColToLabel(3, PriceColumn),
			Amount: *fallback,
			Type:   models.Regular,
		}}
	} else if len(prices) < len(goods) {
		return nil, &bookerr.IntegrityError{Tab: tab, Reason: "some prices are missing"}
	}

	multiplePricesPerGood := len(prices) > len(goods)

	result := make([]models.Purchase, 0, len(goods))
	pi := 0
	for gi, good := range goods {
		var price decimal.Decimal

		if multiplePricesPerGood {
			nextGoodLabel := ""
			if gi+1 < len(goods) {
				nextGoodLabel = goods[gi+1].Label
			}
			nextGoodMet := false
			for !nextGoodMet && pi < len(prices) {
				price = price.Add(prices[pi].Amount)
				pi++
				if pi >= len(prices) || nextGoodLabel == "" {
					continue
				}
				nextGoodMet = cells.EarliestLabel(prices[pi].Label, nextGoodLabel) == nextGoodLabel
			}
		} else {
			price = prices[pi].Amount
			pi++
		}

		result = append(result, models.NewPurchase(good.Name, good.Type, good.Label, price, date))
	}
	return result, nil
}
