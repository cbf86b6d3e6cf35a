// Package billing handles month budget commands: posting receipts and bank
// transactions into the budget sheet and wiping a month's imported expenses.
package billing

import (
	"context"
	"fmt"
	"time"

	"receiptbook/cmd/common"
	"receiptbook/cmd/root"
	"receiptbook/internal/billing"
	"receiptbook/internal/gsheets"
	"receiptbook/internal/models"
	"receiptbook/internal/suggest"

	"github.com/spf13/cobra"
)

// Cmd represents the billing command.
var Cmd = &cobra.Command{
	Use:   "billing",
	Short: "Post spending into the month budget sheet",
}

var (
	monthFlag    int
	categoryFlag string
)

var receiptsCmd = &cobra.Command{
	Use:   "receipts [tab...]",
	Short: "Post every purchase of a receipt book into the budget",
	RunE:  receiptsFunc,
}

var transactionsCmd = &cobra.Command{
	Use:   "transactions",
	Short: "Post unreconciled ledger transactions into the budget",
	RunE:  transactionsFunc,
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Wipe a month's imported expenses from the budget",
	RunE:  clearFunc,
}

func init() {
	transactionsCmd.Flags().IntVarP(&monthFlag, "month", "m", 0, "Calendar month to post (1-12)")
	transactionsCmd.Flags().StringVar(&categoryFlag, "category", "", "Force one spending category for every transaction")
	clearCmd.Flags().IntVarP(&monthFlag, "month", "m", 0, "Calendar month to clear (1-12)")

	Cmd.AddCommand(receiptsCmd)
	Cmd.AddCommand(transactionsCmd)
	Cmd.AddCommand(clearCmd)
}

func openBillingBook(ctx context.Context, svc *gsheets.Service) (*billing.Book, error) {
	name := root.Cfg.Books.Billing
	if name == "" {
		return nil, fmt.Errorf("books.billing is not configured")
	}
	g, err := svc.Open(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("opening billing book '%s': %w", name, err)
	}
	return billing.NewBook(ctx, g, root.Log)
}

func pickMonth() (time.Month, error) {
	if monthFlag < 1 || monthFlag > 12 {
		return 0, fmt.Errorf("--month is required (1-12)")
	}
	return time.Month(monthFlag), nil
}

func receiptsFunc(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	svc, err := common.NewService(ctx)
	if err != nil {
		return err
	}
	book, err := common.OpenBook(ctx, svc)
	if err != nil {
		return err
	}
	budget, err := openBillingBook(ctx, svc)
	if err != nil {
		return err
	}
	threshold, err := common.NoteThreshold()
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

	imported := 0
	for _, r := range receipts {
		date, err := r.Date()
		if err != nil {
			root.Log.WithField("tab", r.Tab()).WithError(err).Warn("receipt skipped")
			continue
		}
		month, err := budget.Month(date.Month())
		if err != nil {
			return err
		}

		store, storeErr := r.Store(ctx)
		if storeErr != nil {
			store = "?"
		}
		if !common.Confirm(cmd, fmt.Sprintf("post receipt '%s' (%s, %s)", r.Tab(), store, date.Format("2006-01-02"))) {
			continue
		}
		if err := month.ImportReceipt(ctx, r, threshold); err != nil {
			root.Log.WithField("tab", r.Tab()).WithError(err).Error("receipt not posted")
			continue
		}
		imported++
	}

	root.Log.WithField("count", imported).Info("receipts posted to the budget")
	return nil
}

func transactionsFunc(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	month, err := pickMonth()
	if err != nil {
		return err
	}
	svc, err := common.NewService(ctx)
	if err != nil {
		return err
	}
	budget, err := openBillingBook(ctx, svc)
	if err != nil {
		return err
	}
	ledger, err := common.OpenHistory(ctx, svc)
	if err != nil {
		return err
	}
	classifier, err := common.LoadMerchants()
	if err != nil {
		return err
	}
	threshold, err := common.NoteThreshold()
	if err != nil {
		return err
	}

	var forced models.CellType
	if categoryFlag != "" {
		t, ok := models.ParseCellType(categoryFlag)
		if !ok || !models.IsGoodsType(t) {
			return fmt.Errorf("unknown spending category '%s'", categoryFlag)
		}
		forced = t
	}

	var suggester *suggest.Suggester
	if root.Cfg.AI.Enabled {
		suggester, err = suggest.New(ctx, root.Cfg.AI.APIKey, root.Cfg.AI.Model, root.Log)
		if err != nil {
			root.Log.WithError(err).Warn("category suggestions disabled")
		} else {
			defer func() {
				if err := suggester.Close(); err != nil {
					root.Log.WithError(err).Warn("failed to close suggestion client")
				}
			}()
		}
	}

	monthBilling, err := budget.Month(month)
	if err != nil {
		return err
	}

	posted := 0
	for _, tx := range ledger.Transactions() {
		if tx.HasReceipt || tx.Created.Year() != budget.Year() || tx.Created.Month() != month {
			continue
		}

		category := forced
		if categoryFlag == "" {
			category, err = classifier.GoodType(tx)
			if err != nil {
				root.Log.WithField("transaction", tx.String()).WithError(err).Warn("category not decided by the merchant table")
				picked, ok := askCategory(cmd, suggester, tx)
				if !ok {
					continue
				}
				category = picked
			}
		}

		if !common.Confirm(cmd, fmt.Sprintf("post %s as %s", tx, category)) {
			continue
		}
		if err := monthBilling.ImportTransaction(ctx, tx, category, threshold); err != nil {
			root.Log.WithField("transaction", tx.String()).WithError(err).Error("transaction not posted")
			continue
		}
		tx.HasReceipt = true
		posted++
	}

	if err := ledger.Commit(ctx); err != nil {
		return err
	}
	root.Log.WithField("count", posted).Info("transactions posted to the budget")
	return nil
}

// askCategory lets the operator pick a category by hand, showing the model's
// suggestion first when one is available. The suggestion is never accepted
// on its own.
func askCategory(cmd *cobra.Command, suggester *suggest.Suggester, tx *models.Transaction) (models.CellType, bool) {
	if suggester != nil {
		if suggestion, err := suggester.Category(cmd.Context(), tx); err != nil {
			root.Log.WithError(err).Debug("no category suggestion")
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "suggested category: %s\n", suggestion)
		}
	}

	answer := common.ReadLine(cmd, fmt.Sprintf("category for %s (empty to skip)", tx))
	if answer == "" {
		return models.Regular, false
	}
	category, ok := models.ParseCellType(answer)
	if !ok || !models.IsGoodsType(category) {
		root.Log.WithField("answer", answer).Warn("not a spending category, transaction skipped")
		return models.Regular, false
	}
	return category, true
}

func clearFunc(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	month, err := pickMonth()
	if err != nil {
		return err
	}
	svc, err := common.NewService(ctx)
	if err != nil {
		return err
	}
	budget, err := openBillingBook(ctx, svc)
	if err != nil {
		return err
	}
	monthBilling, err := budget.Month(month)
	if err != nil {
		return err
	}

	if !common.Confirm(cmd, fmt.Sprintf("wipe all imported expenses of %s %d", month, budget.Year())) {
		root.Log.Info("clear cancelled")
		return nil
	}
	if err := monthBilling.ClearExpenses(ctx); err != nil {
		return err
	}
	root.Log.WithField("month", month.String()).Info("month expenses cleared")
	return nil
}
