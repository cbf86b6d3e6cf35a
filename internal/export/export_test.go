package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"receiptbook/internal/logging"
	"receiptbook/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWritePurchases(t *testing.T) {
	log := &logging.MockLogger{}
	out := filepath.Join(t.TempDir(), "out", "purchases.csv")
	date := time.Date(2020, time.May, 7, 0, 0, 0, 0, time.UTC)

	records := []Record{
		{Purchase: models.NewPurchase("MILK 2%", models.Grocery, "B4", decimal.RequireFromString("4.59"), date), Store: "FreshCo"},
		{Purchase: models.NewPurchase("PAPER TOWEL", models.Housekeeping, "B6", decimal.RequireFromString("12.5"), date), Store: "FreshCo"},
	}

	err := WritePurchases(records, out, log)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "date,store,name,category,price,label", lines[0])
	assert.Equal(t, "2020-05-07,FreshCo,MILK 2%,GROCERY,4.59,B4", lines[1])
	assert.Equal(t, "2020-05-07,FreshCo,PAPER TOWEL,HOUSEKEEPING,12.50,B6", lines[2])
}

func TestWritePurchases_Nil(t *testing.T) {
	log := &logging.MockLogger{}
	err := WritePurchases(nil, filepath.Join(t.TempDir(), "x.csv"), log)
	assert.Error(t, err)
}

func TestWriteTransactions(t *testing.T) {
	log := &logging.MockLogger{}
	out := filepath.Join(t.TempDir(), "unmatched.csv")

	transactions := []*models.Transaction{
		{
			Tab:     "2020",
			Label:   "F4",
			Created: time.Date(2020, time.May, 9, 0, 0, 0, 0, time.UTC),
			Title:   "FRESHCO #9110",
			Price:   decimal.RequireFromString("44.02"),
		},
		{
			Tab:        "2020",
			Label:      "F5",
			HasReceipt: true,
			Created:    time.Date(2020, time.May, 11, 0, 0, 0, 0, time.UTC),
			Title:      "SHOPPERS DRUG MART",
			Price:      decimal.RequireFromString("14.76"),
		},
	}

	err := WriteTransactions(transactions, out, log)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "date,title,price,has_receipt,tab,label", lines[0])
	assert.Equal(t, "2020-05-09,FRESHCO #9110,44.02,,2020,F4", lines[1])
	assert.Equal(t, "2020-05-11,SHOPPERS DRUG MART,14.76,Y,2020,F5", lines[2])
}
