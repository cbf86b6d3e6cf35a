// Package files handles spreadsheet file commands: listing the configured
// files and routing scanned tabs from the unsorted workbook into their
// receipt books.
package files

import (
	"fmt"

	"receiptbook/cmd/common"
	"receiptbook/cmd/root"
	"receiptbook/internal/receiptbook"

	"github.com/spf13/cobra"
)

// Cmd represents the files command.
var Cmd = &cobra.Command{
	Use:   "files",
	Short: "Work with the spreadsheet files themselves",
}

var lsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List the configured spreadsheet files",
	RunE:  lsFunc,
}

var moveCmd = &cobra.Command{
	Use:   "move",
	Short: "Move dated scan tabs from the workbook into their receipt books",
	Long: `Move dated scan tabs from the unsorted workbook into the "YYYY-MM" receipt
book they belong to. Tabs whose date could be read day-first or month-first
are left alone.`,
	RunE: moveFunc,
}

func init() {
	Cmd.AddCommand(lsCmd)
	Cmd.AddCommand(moveCmd)
}

func lsFunc(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	svc, err := common.NewService(ctx)
	if err != nil {
		return err
	}
	names, err := svc.List(ctx)
	if err != nil {
		return err
	}
	for _, name := range names {
		fmt.Fprintln(cmd.OutOrStdout(), name)
	}
	return nil
}

func moveFunc(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	svc, err := common.NewService(ctx)
	if err != nil {
		return err
	}
	sp, err := svc.OpenSpreadsheet(ctx, root.Cfg.Books.Workbook)
	if err != nil {
		return fmt.Errorf("opening workbook '%s': %w", root.Cfg.Books.Workbook, err)
	}
	wb := receiptbook.NewWorkbook(sp, sp, root.Log)

	plans, err := wb.PlanMoves(ctx)
	if err != nil {
		return err
	}

	moved := 0
	for _, plan := range plans {
		switch {
		case plan.Err != nil:
			root.Log.WithField("tab", plan.Tab).WithError(plan.Err).Warn("tab has no usable date, left alone")
			continue
		case plan.Ambiguous:
			root.Log.WithField("tab", plan.Tab).
				WithField("destination", plan.DestFilename).
				Warn("tab date is ambiguous, left alone")
			continue
		case root.SharedFlags.DryRun:
			fmt.Fprintf(cmd.OutOrStdout(), "would move '%s' (%s) to '%s'\n", plan.Tab, plan.Store, plan.DestFilename)
			continue
		}

		if !common.Confirm(cmd, fmt.Sprintf("move '%s' (%s) to '%s'", plan.Tab, plan.Store, plan.DestFilename)) {
			continue
		}
		newTitle, err := wb.Move(ctx, plan)
		if err != nil {
			root.Log.WithField("tab", plan.Tab).WithError(err).Error("move failed")
			continue
		}
		root.Log.WithField("tab", plan.Tab).
			WithField("destination", plan.DestFilename).
			WithField("new_title", newTitle).
			Info("tab moved")
		moved++
	}

	root.Log.WithField("count", moved).Info("workbook routing finished")
	return nil
}
