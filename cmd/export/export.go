// Package export handles dumping a receipt book's purchases and the ledger's
// transactions to CSV files.
package export

import (
	"receiptbook/cmd/common"
	"receiptbook/cmd/root"
	"receiptbook/internal/export"
	"receiptbook/internal/models"

	"github.com/spf13/cobra"
)

// Cmd represents the export command.
var Cmd = &cobra.Command{
	Use:   "export",
	Short: "Export purchases or ledger transactions to CSV",
}

var unmatchedFlag bool

var purchasesCmd = &cobra.Command{
	Use:   "purchases [tab...]",
	Short: "Export every purchase of a receipt book to CSV",
	RunE:  purchasesFunc,
}

var transactionsCmd = &cobra.Command{
	Use:   "transactions",
	Short: "Export the bank transaction ledger to CSV",
	RunE:  transactionsFunc,
}

func init() {
	transactionsCmd.Flags().BoolVar(&unmatchedFlag, "unmatched", false, "Only transactions without a matching receipt")

	Cmd.AddCommand(purchasesCmd)
	Cmd.AddCommand(transactionsCmd)
}

func output(fallback string) string {
	if root.SharedFlags.Output != "" {
		return root.SharedFlags.Output
	}
	return fallback
}

func purchasesFunc(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	svc, err := common.NewService(ctx)
	if err != nil {
		return err
	}
	book, err := common.OpenBook(ctx, svc)
	if err != nil {
		return err
	}

	receipts, skipped, err := book.ImportableReceipts(ctx, args)
	if err != nil {
		return err
	}
	for _, skipErr := range skipped {
		root.Log.WithError(skipErr).Warn("receipt skipped")
	}

	records := make([]export.Record, 0, len(receipts))
	for _, r := range receipts {
		purchases, err := r.Purchases(ctx)
		if err != nil {
			root.Log.WithField("tab", r.Tab()).WithError(err).Warn("receipt skipped")
			continue
		}
		store, err := r.Store(ctx)
		if err != nil {
			store = ""
		}
		for _, p := range purchases {
			records = append(records, export.Record{Purchase: p, Store: store})
		}
	}

	return export.WritePurchases(records, output("purchases.csv"), root.Log)
}

func transactionsFunc(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	svc, err := common.NewService(ctx)
	if err != nil {
		return err
	}
	ledger, err := common.OpenHistory(ctx, svc)
	if err != nil {
		return err
	}

	transactions := ledger.Transactions()
	if unmatchedFlag {
		kept := make([]*models.Transaction, 0, len(transactions))
		for _, tx := range transactions {
			if !tx.HasReceipt {
				kept = append(kept, tx)
			}
		}
		transactions = kept
	}

	return export.WriteTransactions(transactions, output("transactions.csv"), root.Log)
}
