package history

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"receiptbook/internal/grid/memory"
	"receiptbook/internal/logging"
)

func ledgerGrid(rows ...[]string) *memory.Grid {
	values := [][]string{{"Receipt", "Date", "Title", "Price", "Payment", "Time"}}
	values = append(values, rows...)
	g := memory.New("Transactions")
	g.AddTab("2020", values, nil)
	return g
}

func loadHistory(t *testing.T, g *memory.Grid) *History {
	t.Helper()
	h := New(g, &logging.MockLogger{})
	require.NoError(t, h.Load(context.Background()))
	return h
}

func day(d int) time.Time {
	return time.Date(2020, time.May, d, 0, 0, 0, 0, time.UTC)
}

func TestLoad(t *testing.T) {
	h := loadHistory(t, ledgerGrid(
		[]string{"Y", "2020-05-01", "FRESHCO #33", "14.75", "visa", "18:03"},
		[]string{"", "2020-05-02", "SHELL C01", "40.00", "visa", "09:12"},
	))

	txs := h.Transactions()
	require.Len(t, txs, 2)

	assert.True(t, txs[0].HasReceipt)
	assert.Equal(t, "A2", txs[0].Label)
	assert.Equal(t, "2020", txs[0].Tab)
	assert.Equal(t, "FRESHCO #33", txs[0].Title)
	assert.True(t, txs[0].Price.Equal(decimal.RequireFromString("14.75")))
	assert.Equal(t, day(1), txs[0].Created)

	assert.False(t, txs[1].HasReceipt)
}

func TestLoad_BadRowSkipped(t *testing.T) {
	log := &logging.MockLogger{}
	g := ledgerGrid(
		[]string{"", "not a date", "FRESHCO", "14.75", "", ""},
		[]string{"", "2020-05-02", "SHELL", "40.00", "", ""},
	)
	h := New(g, log)
	require.NoError(t, h.Load(context.Background()))

	require.Len(t, h.Transactions(), 1)
	assert.Equal(t, "SHELL", h.Transactions()[0].Title)
	assert.True(t, log.HasMessage("ledger row skipped"))
}

func TestFindTransactions_SameDay(t *testing.T) {
	h := loadHistory(t, ledgerGrid(
		[]string{"", "2020-05-01", "FRESHCO", "14.75", "", ""},
	))

	matches, near := h.FindTransactions(day(1), decimal.RequireFromString("14.75"), nil)
	require.Len(t, matches, 1)
	assert.Empty(t, near)
}

func TestFindTransactions_LatePosting(t *testing.T) {
	h := loadHistory(t, ledgerGrid(
		[]string{"", "2020-05-02", "FRESHCO", "14.75", "", ""},
	))

	matches, _ := h.FindTransactions(day(1), decimal.RequireFromString("14.75"), nil)
	require.Len(t, matches, 1, "a transaction posted one day late must still match")
}

func TestFindTransactions_OutsideWindow(t *testing.T) {
	h := loadHistory(t, ledgerGrid(
		[]string{"", "2020-05-04", "FRESHCO", "14.75", "", ""},
	))

	matches, near := h.FindTransactions(day(1), decimal.RequireFromString("14.75"), nil)
	assert.Empty(t, matches, "three days late exceeds the window")
	assert.Empty(t, near)
}

func TestFindTransactions_HasReceiptFilter(t *testing.T) {
	h := loadHistory(t, ledgerGrid(
		[]string{"Y", "2020-05-01", "FRESHCO", "14.75", "", ""},
		[]string{"", "2020-05-01", "FRESHCO", "14.75", "", ""},
	))

	unflagged := false
	matches, _ := h.FindTransactions(day(1), decimal.RequireFromString("14.75"), &unflagged)
	require.Len(t, matches, 1)
	assert.Equal(t, "A3", matches[0].Label)
}

func TestFindTransactions_CloseMatchIsDiagnosticOnly(t *testing.T) {
	h := loadHistory(t, ledgerGrid(
		[]string{"", "2020-05-01", "FRESHCO", "14.77", "", ""},
		[]string{"", "2020-05-01", "SHELL", "14.78", "", ""},
	))

	matches, near := h.FindTransactions(day(1), decimal.RequireFromString("14.75"), nil)
	assert.Empty(t, matches)
	require.Len(t, near, 1, "only the closest candidate is reported")
	assert.Equal(t, "FRESHCO", near[0].Transaction.Title)
	assert.Equal(t, "0.02", near[0].Diff.StringFixed(2))
}

func TestFindTransactions_FarPriceIgnored(t *testing.T) {
	h := loadHistory(t, ledgerGrid(
		[]string{"", "2020-05-01", "FRESHCO", "15.00", "", ""},
	))

	matches, near := h.FindTransactions(day(1), decimal.RequireFromString("14.75"), nil)
	assert.Empty(t, matches)
	assert.Empty(t, near)
}

func TestFlagRoundTrip(t *testing.T) {
	g := ledgerGrid(
		[]string{"", "2020-05-01", "FRESHCO", "14.75", "", ""},
		[]string{"Y", "2020-05-02", "SHELL", "40.00", "", ""},
	)
	ctx := context.Background()

	h := loadHistory(t, g)
	h.Transactions()[0].HasReceipt = true
	h.Transactions()[1].HasReceipt = false
	require.NoError(t, h.Commit(ctx))

	reread := New(g, &logging.MockLogger{})
	require.NoError(t, reread.Load(ctx))
	assert.True(t, reread.Transactions()[0].HasReceipt)
	assert.False(t, reread.Transactions()[1].HasReceipt)
}

func TestResetFlags(t *testing.T) {
	g := ledgerGrid(
		[]string{"Y", "2020-05-01", "FRESHCO", "14.75", "", ""},
		[]string{"Y", "2020-05-02", "SHELL", "40.00", "", ""},
	)
	ctx := context.Background()

	h := loadHistory(t, g)
	h.ResetFlags()
	require.NoError(t, h.Commit(ctx))

	reread := New(g, &logging.MockLogger{})
	require.NoError(t, reread.Load(ctx))
	for _, tx := range reread.Transactions() {
		assert.False(t, tx.HasReceipt)
	}
}
