package xlsx

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"medibill/internal/domain"
)

var ledgerHeader = []interface{}{
	"Reference", "Source", "Company", "Date", "Invoice Number",
	"Gross Value", "ISS", "INSS", "Net Value", "Due Date",
	"Payment Date", "Payment Method",
}

// WriteLedgerSheet writes ledger rows as a single-sheet workbook. Dates are
// written as cell values so spreadsheet tools can sort and filter on them.
func WriteLedgerSheet(w io.Writer, rows []domain.LedgerRow) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	if err := f.SetSheetRow(sheet, "A1", &ledgerHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, row := range rows {
		cell := fmt.Sprintf("A%d", i+2)
		values := []interface{}{
			row.DisplayID,
			string(row.Source),
			row.CompanyName,
			dateCell(row.DisplayDate),
			row.InvoiceNumber,
			row.GrossValue,
			row.ISSValue,
			row.INSSValue,
			row.NetValue,
			dateCell(row.DueDate),
			dateCell(row.PaymentDate),
			row.PaymentMethod,
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func dateCell(t *time.Time) interface{} {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}
