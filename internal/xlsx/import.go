// Package xlsx reads and writes the billing spreadsheet interchange format.
// Imported rows carry their own embedded snapshot and never derive from a
// measurement.
package xlsx

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"medibill/internal/domain"
)

// headerAliases maps normalized column headers to canonical field names.
// The sheets come from several sources, so both English and Portuguese
// headers are accepted.
var headerAliases = map[string]string{
	"service date":    "service_date",
	"data do servico": "service_date",
	"issue date":      "issue_date",
	"data de emissao": "issue_date",
	"due date":        "due_date",
	"vencimento":      "due_date",
	"company":         "company",
	"empresa":         "company",
	"cliente":         "company",
	"gross value":     "gross_value",
	"valor bruto":     "gross_value",
	"valor":           "gross_value",
}

// ParseBillingSheet reads the first sheet of a workbook into imported
// billing rows. The header row maps columns by name; unknown columns are
// ignored. Rows with no company and no gross value are skipped.
func ParseBillingSheet(r io.Reader) ([]domain.ImportedBillingData, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSpreadsheetFormat, err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, domain.ErrSpreadsheetFormat
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheets[0], err)
	}
	if len(rows) < 2 {
		return nil, domain.ErrSpreadsheetFormat
	}

	fields := mapHeader(rows[0])
	if _, ok := fields["company"]; !ok {
		return nil, domain.ErrSpreadsheetFormat
	}

	var out []domain.ImportedBillingData
	for _, row := range rows[1:] {
		entry := domain.ImportedBillingData{}
		for field, col := range fields {
			if col >= len(row) {
				continue
			}
			cell := strings.TrimSpace(row[col])
			switch field {
			case "service_date":
				entry.ServiceDate = coerceDate(cell)
			case "issue_date":
				entry.IssueDate = coerceDate(cell)
			case "due_date":
				entry.DueDate = coerceDate(cell)
			case "company":
				entry.CompanyName = cell
			case "gross_value":
				entry.GrossValue = coerceNumber(cell)
			}
		}
		if entry.CompanyName == "" && entry.GrossValue == 0 {
			continue
		}
		out = append(out, entry)
	}
	return out, nil
}

// mapHeader resolves header cells to canonical field names and their column
// index.
func mapHeader(header []string) map[string]int {
	fields := make(map[string]int)
	for col, cell := range header {
		key := normalizeHeader(cell)
		if field, ok := headerAliases[key]; ok {
			if _, seen := fields[field]; !seen {
				fields[field] = col
			}
		}
	}
	return fields
}

func normalizeHeader(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	replacer := strings.NewReplacer(
		"ç", "c", "ã", "a", "á", "a", "â", "a", "é", "e", "ê", "e",
		"í", "i", "ó", "o", "ô", "o", "ú", "u", "_", " ",
	)
	return replacer.Replace(s)
}

// dateLayouts are tried in order; the Brazilian day-first form comes before
// the spreadsheet-native forms.
var dateLayouts = []string{
	"02/01/2006",
	"2006-01-02",
	"02/01/06",
	"01-02-06",
	"1/2/2006",
	"2-Jan-06",
}

// coerceDate parses a cell into a date, or nil when the cell is empty or in
// no recognized form. Import never fails on a single bad date.
func coerceDate(cell string) *time.Time {
	if cell == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, cell); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}

// coerceNumber parses a cell into a float, tolerating currency prefixes and
// Brazilian decimal commas. Unparseable cells coerce to 0.
func coerceNumber(cell string) float64 {
	s := strings.TrimSpace(cell)
	s = strings.TrimPrefix(s, "R$")
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if strings.Contains(s, ",") {
		// 1.234,56 -> 1234.56
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	var v float64
	if _, err := fmt.Sscanf(s, "%f", &v); err != nil {
		return 0
	}
	return v
}
