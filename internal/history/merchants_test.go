package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"receiptbook/internal/bookerr"
	"receiptbook/internal/models"
)

func classifierFixture() *MerchantClassifier {
	return NewMerchantClassifier(map[models.CellType][]string{
		models.Grocery:  {"FRESHCO", "WALMART"},
		models.Takeouts: {"PIZZA", "SUSHI"},
		models.Gasoline: {"SHELL"},
	})
}

func TestGoodType_SingleMatch(t *testing.T) {
	c := classifierFixture()
	tx := &models.Transaction{Tab: "2020", Title: "Freshco #33 Toronto"}

	category, err := c.GoodType(tx)
	require.NoError(t, err)
	assert.Equal(t, models.Grocery, category)
}

func TestGoodType_NoMatch(t *testing.T) {
	c := classifierFixture()
	tx := &models.Transaction{Tab: "2020", Title: "UNKNOWN MERCHANT 42"}

	_, err := c.GoodType(tx)
	var reconciliationErr *bookerr.ReconciliationError
	require.ErrorAs(t, err, &reconciliationErr)
}

func TestGoodType_AmbiguousNeverGuessed(t *testing.T) {
	c := classifierFixture()
	tx := &models.Transaction{Tab: "2020", Title: "WALMART SUSHI BAR"}

	_, err := c.GoodType(tx)
	var reconciliationErr *bookerr.ReconciliationError
	require.ErrorAs(t, err, &reconciliationErr)
	assert.Contains(t, reconciliationErr.Reason, "GROCERY")
	assert.Contains(t, reconciliationErr.Reason, "TAKEOUTS")
}

func TestCategories_Deterministic(t *testing.T) {
	c := classifierFixture()
	first := c.Categories("WALMART SUSHI SHELL")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, c.Categories("WALMART SUSHI SHELL"))
	}
	assert.Len(t, first, 3)
}
