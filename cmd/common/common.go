// Package common provides the session wiring shared by the command packages:
// opening spreadsheets through the configured Sheets client and asking the
// operator for confirmation.
package common

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"receiptbook/cmd/root"
	"receiptbook/internal/gsheets"
	"receiptbook/internal/history"
	"receiptbook/internal/receipt"
	"receiptbook/internal/receiptbook"
	"receiptbook/internal/store"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// NewService builds the Sheets client from the loaded configuration.
func NewService(ctx context.Context) (*gsheets.Service, error) {
	cfg := root.Cfg
	delay := time.Duration(cfg.Sheets.QuotaDelayMS) * time.Millisecond
	return gsheets.NewService(ctx, cfg.Sheets.CredentialsFile, cfg.Sheets.Files, delay, root.Log)
}

// OpenBook opens the receipt book named by the --book flag.
func OpenBook(ctx context.Context, svc *gsheets.Service) (*receiptbook.Book, error) {
	name := root.SharedFlags.Book
	if name == "" {
		return nil, fmt.Errorf("--book is required (a receipt book name like 2020-05)")
	}
	g, err := svc.Open(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("opening receipt book '%s': %w", name, err)
	}
	opts := receipt.Options{IncludeBlankNamedGoods: root.Cfg.Extraction.IncludeBlankNamedGoods}
	return receiptbook.New(g, opts, root.Log), nil
}

// OpenHistory opens and loads the bank transaction ledger.
func OpenHistory(ctx context.Context, svc *gsheets.Service) (*history.History, error) {
	g, err := svc.Open(ctx, root.Cfg.Books.Transactions)
	if err != nil {
		return nil, fmt.Errorf("opening transaction ledger '%s': %w", root.Cfg.Books.Transactions, err)
	}
	h := history.New(g, root.Log)
	h.SetDayMatchThreshold(root.Cfg.Matching.DayMatchThreshold)
	if err := h.Load(ctx); err != nil {
		return nil, err
	}
	return h, nil
}

// LoadMerchants loads the merchant keyword table, falling back to the
// built-in defaults when no file is configured.
func LoadMerchants() (*history.MerchantClassifier, error) {
	table, err := store.NewMerchantStore(root.Cfg.Merchants.File, root.Log).Load()
	if err != nil {
		return nil, err
	}
	return history.NewMerchantClassifier(table), nil
}

// NoteThreshold parses the configured price above which purchase names are
// worth a budget cell note.
func NoteThreshold() (decimal.Decimal, error) {
	threshold, err := decimal.NewFromString(root.Cfg.Billing.NoteThreshold)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid billing.note_threshold '%s': %w", root.Cfg.Billing.NoteThreshold, err)
	}
	return threshold, nil
}

// Prompts on the same stream share one buffered reader, otherwise each
// prompt would swallow the lines buffered ahead of it.
var readers = map[io.Reader]*bufio.Reader{}

func readerFor(in io.Reader) *bufio.Reader {
	if r, ok := readers[in]; ok {
		return r
	}
	r := bufio.NewReader(in)
	readers[in] = r
	return r
}

// Confirm asks the operator a yes/no question on the command's input stream.
// The --yes flag answers every prompt affirmatively.
func Confirm(cmd *cobra.Command, prompt string) bool {
	if root.SharedFlags.Yes {
		return true
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N]: ", prompt)
	line, err := readerFor(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

// ReadLine reads one trimmed line from the command's input stream.
func ReadLine(cmd *cobra.Command, prompt string) string {
	fmt.Fprintf(cmd.OutOrStdout(), "%s: ", prompt)
	line, _ := readerFor(cmd.InOrStdin()).ReadString('\n')
	return strings.TrimSpace(line)
}
