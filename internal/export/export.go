// Package export writes purchases and ledger transactions to CSV files.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"receiptbook/internal/logging"
	"receiptbook/internal/models"

	"github.com/gocarina/gocsv"
)

// Delimiter is the CSV output delimiter. It can be changed once at startup
// via SetDelimiter before any file is written.
var Delimiter rune = ','

// SetDelimiter sets the delimiter used for CSV output.
func SetDelimiter(delim rune) {
	Delimiter = delim
	gocsv.TagSeparator = fmt.Sprintf("%c", delim)
}

type purchaseRow struct {
	Date     string `csv:"date"`
	Store    string `csv:"store"`
	Name     string `csv:"name"`
	Category string `csv:"category"`
	Price    string `csv:"price"`
	Label    string `csv:"label"`
}

type transactionRow struct {
	Date       string `csv:"date"`
	Title      string `csv:"title"`
	Price      string `csv:"price"`
	HasReceipt string `csv:"has_receipt"`
	Tab        string `csv:"tab"`
	Label      string `csv:"label"`
}

// Record is one purchase together with the store it was made at. The store
// lives on the receipt, not the purchase, so callers join the two.
type Record struct {
	Purchase models.Purchase
	Store    string
}

// WritePurchases writes receipt purchases to a CSV file. The store name is
// repeated on every row so the file stays useful after sorting.
func WritePurchases(records []Record, csvFile string, log logging.Logger) error {
	if records == nil {
		return fmt.Errorf("cannot write nil purchases to CSV")
	}

	log.Info("writing purchases to CSV file",
		logging.Field{Key: "file", Value: csvFile},
		logging.Field{Key: "count", Value: len(records)})

	rows := make([]purchaseRow, 0, len(records))
	for _, rec := range records {
		p := rec.Purchase
		rows = append(rows, purchaseRow{
			Date:     p.Date.Format("2006-01-02"),
			Store:    rec.Store,
			Name:     p.Name,
			Category: p.Type.String(),
			Price:    p.Price.StringFixed(2),
			Label:    p.Label,
		})
	}

	return writeRows(rows, csvFile, log)
}

// WriteTransactions writes ledger transactions to a CSV file. It is used to
// export the rows that could not be reconciled against any receipt.
func WriteTransactions(transactions []*models.Transaction, csvFile string, log logging.Logger) error {
	if transactions == nil {
		return fmt.Errorf("cannot write nil transactions to CSV")
	}

	log.Info("writing transactions to CSV file",
		logging.Field{Key: "file", Value: csvFile},
		logging.Field{Key: "count", Value: len(transactions)})

	rows := make([]transactionRow, 0, len(transactions))
	for _, tx := range transactions {
		flag := ""
		if tx.HasReceipt {
			flag = "Y"
		}
		rows = append(rows, transactionRow{
			Date:       tx.Created.Format("2006-01-02"),
			Title:      tx.Title,
			Price:      tx.Price.StringFixed(2),
			HasReceipt: flag,
			Tab:        tx.Tab,
			Label:      tx.Label,
		})
	}

	return writeRows(rows, csvFile, log)
}

func writeRows[T any](rows []T, csvFile string, log logging.Logger) error {
	dir := filepath.Dir(csvFile)
	if err := os.MkdirAll(dir, 0750); err != nil {
		log.WithError(err).Error("failed to create directory")
		return fmt.Errorf("error creating directory: %w", err)
	}

	file, err := os.Create(csvFile)
	if err != nil {
		log.WithError(err).Error("failed to create CSV file")
		return fmt.Errorf("error creating CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.WithError(err).Warn("failed to close file")
		}
	}()

	csvWriter := csv.NewWriter(file)
	csvWriter.Comma = Delimiter

	if err := gocsv.MarshalCSV(rows, gocsv.NewSafeCSVWriter(csvWriter)); err != nil {
		log.WithError(err).Error("failed to marshal rows to CSV")
		return fmt.Errorf("error writing CSV data: %w", err)
	}

	log.Info("successfully wrote CSV file",
		logging.Field{Key: "file", Value: csvFile},
		logging.Field{Key: "count", Value: len(rows)})
	return nil
}
