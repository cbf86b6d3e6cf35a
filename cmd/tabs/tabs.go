// Package tabs handles receipt book housekeeping commands: normalizing and
// ordering tab titles, validating receipts and hunting for duplicate scans.
package tabs

import (
	"fmt"

	"receiptbook/cmd/common"
	"receiptbook/cmd/root"
	"receiptbook/internal/receiptbook"

	"github.com/spf13/cobra"
)

// Cmd represents the tabs command.
var Cmd = &cobra.Command{
	Use:   "tabs",
	Short: "Manage the tabs of a receipt book",
	Long:  `Manage the tabs of a receipt book: rename scans to day-of-month titles, reorder, validate and find duplicates.`,
}

var normalizeCmd = &cobra.Command{
	Use:   "normalize",
	Short: "Rename raw scan tabs to their day-of-month titles",
	RunE:  normalizeFunc,
}

var reorderCmd = &cobra.Command{
	Use:   "reorder",
	Short: "Sort tabs by title",
	RunE:  reorderFunc,
}

var validateCmd = &cobra.Command{
	Use:   "validate [tab...]",
	Short: "Check every receipt's sums and report discounts",
	RunE:  validateFunc,
}

var findDuplicatesCmd = &cobra.Command{
	Use:   "find-duplicates",
	Short: "Group receipts that look like scans of the same paper slip",
	RunE:  findDuplicatesFunc,
}

func init() {
	Cmd.AddCommand(normalizeCmd)
	Cmd.AddCommand(reorderCmd)
	Cmd.AddCommand(validateCmd)
	Cmd.AddCommand(findDuplicatesCmd)
}

func normalizeFunc(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	svc, err := common.NewService(ctx)
	if err != nil {
		return err
	}
	book, err := common.OpenBook(ctx, svc)
	if err != nil {
		return err
	}

	confirm := func(from, to string) bool {
		return common.Confirm(cmd, fmt.Sprintf("rename '%s' to '%s'", from, to))
	}
	results, err := book.NormalizeTitles(ctx, root.SharedFlags.DryRun, confirm)
	if err != nil {
		return err
	}

	for _, res := range results {
		switch res.Status {
		case receiptbook.RenameDone:
			root.Log.WithField("from", res.From).WithField("to", res.To).Info("tab renamed")
		case receiptbook.RenameFailed:
			root.Log.WithField("tab", res.From).WithError(res.Err).Error("tab rename failed")
		case receiptbook.RenameSkipped:
			if res.To != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "skipped: '%s' would become '%s'\n", res.From, res.To)
			} else {
				root.Log.WithField("tab", res.From).WithError(res.Err).Debug("tab left alone")
			}
		}
	}
	return nil
}

func reorderFunc(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	svc, err := common.NewService(ctx)
	if err != nil {
		return err
	}
	book, err := common.OpenBook(ctx, svc)
	if err != nil {
		return err
	}
	if err := book.Reorder(ctx); err != nil {
		return err
	}
	root.Log.Info("tabs reordered")
	return nil
}

func validateFunc(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	svc, err := common.NewService(ctx)
	if err != nil {
		return err
	}
	book, err := common.OpenBook(ctx, svc)
	if err != nil {
		return err
	}

	results, err := book.Validate(ctx, args)
	if err != nil {
		return err
	}
	bad := 0
	for _, res := range results {
		if res.Err != nil {
			bad++
			root.Log.WithField("tab", res.Tab).WithError(res.Err).Error("receipt failed validation")
			continue
		}
		if !res.Discount.IsZero() {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok, discount %s\n", res.Tab, res.Discount)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", res.Tab)
		}
	}
	if bad > 0 {
		return fmt.Errorf("%d of %d receipts failed validation", bad, len(results))
	}
	root.Log.WithField("count", len(results)).Info("all receipts validated")
	return nil
}

func findDuplicatesFunc(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	svc, err := common.NewService(ctx)
	if err != nil {
		return err
	}
	book, err := common.OpenBook(ctx, svc)
	if err != nil {
		return err
	}

	groups, unreadable, err := book.FindDuplicates(ctx)
	if err != nil {
		return err
	}
	for _, tab := range unreadable {
		root.Log.WithField("tab", tab).Warn("receipt could not be read, excluded from duplicate search")
	}
	if len(groups) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no duplicates found")
		return nil
	}
	for _, group := range groups {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d copies: %v\n",
			group.Date.Format("2006-01-02"), group.Count, group.Tabs)
	}
	return nil
}
