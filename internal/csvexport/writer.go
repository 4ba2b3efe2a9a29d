// Package csvexport renders the billing ledger as CSV for download.
package csvexport

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"medibill/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the CSV header row.
var columns = []string{
	"Reference",
	"Source",
	"Company",
	"Date",
	"Invoice Number",
	"Gross Value",
	"ISS",
	"INSS",
	"Net Value",
	"Due Date",
	"Payment Date",
	"Payment Method",
}

// Writer wraps csv.Writer for exporting ledger rows as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteRows converts ledger rows to CSV records and writes them.
func (w *Writer) WriteRows(rows []domain.LedgerRow) error {
	for i := range rows {
		if err := w.csv.Write(rowToRecord(&rows[i])); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from previous writes or the last flush.
func (w *Writer) Error() error {
	return w.csv.Error()
}

func rowToRecord(row *domain.LedgerRow) []string {
	return []string{
		row.DisplayID,
		string(row.Source),
		row.CompanyName,
		formatDate(row.DisplayDate),
		row.InvoiceNumber,
		formatMoney(row.GrossValue),
		formatMoney(row.ISSValue),
		formatMoney(row.INSSValue),
		formatMoney(row.NetValue),
		formatDate(row.DueDate),
		formatDate(row.PaymentDate),
		row.PaymentMethod,
	}
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

func formatMoney(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
