// Package root contains the root command for the application.
package root

import (
	"receiptbook/internal/config"
	"receiptbook/internal/export"
	"receiptbook/internal/logging"

	"github.com/spf13/cobra"
)

// CommonFlags are the flags shared by multiple commands.
type CommonFlags struct {
	// Book is the receipt book spreadsheet name, usually "YYYY-MM".
	Book string
	// Output is the output file for export commands.
	Output string
	// DryRun previews mutations without applying them.
	DryRun bool
	// Yes answers every confirmation prompt with yes.
	Yes bool
}

var (
	// Log is the shared logger instance for commands.
	Log logging.Logger = logging.NewLogrusAdapter("info", "text")

	// Cfg is the loaded application configuration.
	Cfg *config.Config

	// SharedFlags are accessible to all commands.
	SharedFlags = CommonFlags{}

	// Cmd is the root command.
	Cmd = &cobra.Command{
		Use:   "receiptbook",
		Short: "Parse scanned grocery receipts and post them to a month budget.",
		Long: `receiptbook reads OCR'd receipts out of spreadsheet tabs, extracts the
line items marked by colored cells, reconciles them against a bank
transaction ledger and posts the spending to a month budget sheet.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			Log.Info("welcome to receiptbook")
			Log.Info("use --help to see available commands")
			return nil
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config.LoadEnv()

			cfg, err := config.InitializeConfig()
			if err != nil {
				return err
			}
			Cfg = cfg
			Log = config.ConfigureLogging(cfg)

			if delim := config.GetEnv("CSV_DELIMITER", ""); delim != "" {
				Log.WithField("delimiter", delim).Debug("setting CSV delimiter from environment")
				export.SetDelimiter([]rune(delim)[0])
			}
			return nil
		},
	}
)

// Init registers the persistent flags on the root command.
func Init() {
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Book, "book", "b", "", "Receipt book spreadsheet name (YYYY-MM)")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Output, "output", "o", "", "Output file")
	Cmd.PersistentFlags().BoolVar(&SharedFlags.DryRun, "dry-run", false, "Preview changes without applying them")
	Cmd.PersistentFlags().BoolVarP(&SharedFlags.Yes, "yes", "y", false, "Answer yes to all confirmation prompts")
}
