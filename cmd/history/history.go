// Package history handles the bank transaction ledger commands: marking
// transactions that have a matching receipt and resetting the flags.
package history

import (
	"context"
	"fmt"

	"receiptbook/cmd/common"
	"receiptbook/cmd/root"
	"receiptbook/internal/history"
	"receiptbook/internal/receipt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// Cmd represents the history command.
var Cmd = &cobra.Command{
	Use:   "history",
	Short: "Reconcile the bank transaction ledger against receipts",
}

var markCmd = &cobra.Command{
	Use:   "mark [tab...]",
	Short: "Flag ledger transactions that match a receipt in the book",
	RunE:  markFunc,
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear every has-receipt flag in the ledger",
	RunE:  resetFunc,
}

func init() {
	Cmd.AddCommand(markCmd)
	Cmd.AddCommand(resetCmd)
}

// ReceiptPrice is the amount a receipt is reconciled by: what was actually
// paid when known, the grand total otherwise.
func ReceiptPrice(ctx context.Context, r *receipt.Receipt) (decimal.Decimal, error) {
	if paid, ok, err := r.ActuallyPaid(ctx); err != nil {
		return decimal.Decimal{}, err
	} else if ok {
		return paid, nil
	}
	total, ok, err := r.Total(ctx)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("receipt '%s' has neither an actually-paid nor a total amount", r.Tab())
	}
	return total, nil
}

func markFunc(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	svc, err := common.NewService(ctx)
	if err != nil {
		return err
	}
	book, err := common.OpenBook(ctx, svc)
	if err != nil {
		return err
	}
	ledger, err := common.OpenHistory(ctx, svc)
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

	var notFound []string
	for _, r := range receipts {
		if err := markReceipt(ctx, ledger, r); err != nil {
			root.Log.WithField("tab", r.Tab()).WithError(err).Warn("receipt not reconciled")
			notFound = append(notFound, r.Tab())
		}
	}

	// Matched flags are still worth persisting when some receipts failed.
	if err := ledger.Commit(ctx); err != nil {
		return err
	}

	if len(notFound) > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "no ledger transaction found for: %v\n", notFound)
	}
	root.Log.WithField("matched", len(receipts)-len(notFound)).
		WithField("unmatched", len(notFound)).
		Info("ledger flags committed")
	return nil
}

func markReceipt(ctx context.Context, ledger *history.History, r *receipt.Receipt) error {
	date, err := r.Date()
	if err != nil {
		return err
	}
	price, err := ReceiptPrice(ctx, r)
	if err != nil {
		return err
	}

	matches, near := ledger.FindTransactions(date, price, nil)
	if len(matches) == 0 {
		for _, miss := range near {
			root.Log.WithField("transaction", miss.Transaction.String()).
				WithField("diff", miss.Diff.String()).
				Info("close ledger candidate")
		}
		return fmt.Errorf("no transaction within %s of %s", price.StringFixed(2), date.Format("2006-01-02"))
	}
	for _, tx := range matches {
		tx.HasReceipt = true
	}
	return nil
}

func resetFunc(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	svc, err := common.NewService(ctx)
	if err != nil {
		return err
	}
	ledger, err := common.OpenHistory(ctx, svc)
	if err != nil {
		return err
	}

	if !common.Confirm(cmd, "clear every has-receipt flag in the ledger") {
		root.Log.Info("reset cancelled")
		return nil
	}
	ledger.ResetFlags()
	if err := ledger.Commit(ctx); err != nil {
		return err
	}
	root.Log.Info("ledger flags cleared")
	return nil
}
