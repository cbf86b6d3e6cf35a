package history

import (
	"fmt"
	"sort"
	"strings"

	"receiptbook/internal/bookerr"
	"receiptbook/internal/models"
)

// MerchantClassifier decides a transaction's spending category from its
// merchant text using a substring keyword table.
type MerchantClassifier struct {
	table map[models.CellType][]string
}

// NewMerchantClassifier builds a classifier over a category keyword table.
// Keywords are matched case-insensitively as substrings of the title.
func NewMerchantClassifier(table map[models.CellType][]string) *MerchantClassifier {
	normalized := make(map[models.CellType][]string, len(table))
	for category, keywords := range table {
		for _, keyword := range keywords {
			normalized[category] = append(normalized[category], strings.ToUpper(keyword))
		}
	}
	return &MerchantClassifier{table: normalized}
}

// Categories returns every category whose keywords appear in the title, in
// deterministic category order.
func (c *MerchantClassifier) Categories(title string) []models.CellType {
	upper := strings.ToUpper(title)
	var matched []models.CellType
	for category, keywords := range c.table {
		for _, keyword := range keywords {
			if strings.Contains(upper, keyword) {
				matched = append(matched, category)
				break
			}
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i] < matched[j] })
	return matched
}

// GoodType returns the single category a transaction's title belongs to.
// Zero or multiple keyword matches are never resolved by guessing; both come
// back as an error carrying the candidates so the operator can decide.
func (c *MerchantClassifier) GoodType(tx *models.Transaction) (models.CellType, error) {
	matched := c.Categories(tx.Title)
	switch len(matched) {
	case 1:
		return matched[0], nil
	case 0:
		return models.Regular, &bookerr.ReconciliationError{
			Tab:    tx.Tab,
			Reason: fmt.Sprintf("no category matches transaction '%s'", tx.Title),
		}
	default:
		names := make([]string, len(matched))
		for i, m := range matched {
			names[i] = m.String()
		}
		return models.Regular, &bookerr.ReconciliationError{
			Tab: tx.Tab,
			Reason: fmt.Sprintf("transaction '%s' matches several categories: %s",
				tx.Title, strings.Join(names, ", ")),
		}
	}
}
