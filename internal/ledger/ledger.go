// Package ledger assembles the unified billing ledger from its three
// disjoint sources: approved measurements, approved measurement groups, and
// manually imported records. Assembly is a pure merge; persistence of the
// metadata rows is the billing service's job.
package ledger

import (
	"sort"
	"strings"
	"time"

	"medibill/internal/domain"
)

// Inputs carries the pre-fetched source rows for one assembly pass.
// Measurements must already exclude those claimed by an approved group.
type Inputs struct {
	Measurements []domain.Measurement
	Groups       []domain.MeasurementGroup
	Records      []domain.BillingRecord
}

// Assemble merges the three sources into displayable ledger rows. Each
// source row is left-joined with at most one metadata record; a missing
// record produces a placeholder ref so the first edit inserts instead of
// updating.
func Assemble(in Inputs) []domain.LedgerRow {
	byMeasurement := make(map[string]*domain.BillingRecord)
	byGroup := make(map[string]*domain.BillingRecord)
	var imported []*domain.BillingRecord
	for i := range in.Records {
		rec := &in.Records[i]
		if !rec.IsActive {
			continue
		}
		switch {
		case rec.IsImported:
			imported = append(imported, rec)
		case rec.MeasurementID != nil:
			byMeasurement[rec.MeasurementID.String()] = rec
		case rec.GroupID != nil:
			byGroup[rec.GroupID.String()] = rec
		}
	}

	rows := make([]domain.LedgerRow, 0, len(in.Measurements)+len(in.Groups)+len(imported))

	for i := range in.Measurements {
		m := &in.Measurements[i]
		endDate := m.EndDate
		row := domain.LedgerRow{
			Source:      domain.LedgerSourceMeasurement,
			CompanyName: m.ClientName,
			DisplayDate: &endDate,
			GrossValue:  m.TotalValue,
		}
		applyMetadata(&row, byMeasurement[m.ID.String()])
		if row.Ref.RecordID == nil {
			id := m.ID
			row.Ref = domain.BillingRef{Source: domain.LedgerSourceMeasurement, MeasurementID: &id}
		}
		finishRow(&row)
		rows = append(rows, row)
	}

	for i := range in.Groups {
		g := &in.Groups[i]
		createdAt := g.CreatedAt
		row := domain.LedgerRow{
			Source:      domain.LedgerSourceGroup,
			CompanyName: g.Name,
			DisplayDate: &createdAt,
			GrossValue:  g.TotalValue,
		}
		applyMetadata(&row, byGroup[g.ID.String()])
		if row.Ref.RecordID == nil {
			id := g.ID
			row.Ref = domain.BillingRef{Source: domain.LedgerSourceGroup, GroupID: &id}
		}
		finishRow(&row)
		rows = append(rows, row)
	}

	for _, rec := range imported {
		row := domain.LedgerRow{
			Source:      domain.LedgerSourceImported,
			CompanyName: rec.Imported.CompanyName,
			DisplayDate: rec.Imported.ServiceDate,
			GrossValue:  rec.Imported.GrossValue,
		}
		applyMetadata(&row, rec)
		finishRow(&row)
		rows = append(rows, row)
	}

	return rows
}

// applyMetadata folds an existing metadata record into the row. A nil record
// leaves the row as a placeholder.
func applyMetadata(row *domain.LedgerRow, rec *domain.BillingRecord) {
	if rec == nil {
		return
	}
	id := rec.ID
	row.Ref = domain.BillingRef{
		RecordID:      &id,
		Source:        row.Source,
		MeasurementID: rec.MeasurementID,
		GroupID:       rec.GroupID,
	}
	row.InvoiceNumber = rec.InvoiceNumber
	row.DueDate = rec.DueDate
	row.PaymentDate = rec.PaymentDate
	row.PaymentMethod = rec.PaymentMethod
	row.ISSValue = rec.ISSValue
	row.INSSValue = rec.INSSValue
	row.Attachments = rec.AttachmentKeys()
}

func finishRow(row *domain.LedgerRow) {
	row.DisplayID = row.Ref.DisplayID()
	row.NetValue = row.GrossValue - row.ISSValue - row.INSSValue
}

// SortField names the supported ledger sort columns.
type SortField string

const (
	SortByDate    SortField = "date"
	SortByCompany SortField = "company"
	SortByGross   SortField = "gross_value"
	SortByNet     SortField = "net_value"
	SortByInvoice SortField = "invoice_number"
)

// Sort orders rows in place. Date fields use a dedicated nil-safe
// comparator: a missing date sorts as latest, so it lands last ascending
// and first descending.
func Sort(rows []domain.LedgerRow, field SortField, dir domain.SortDirection) {
	less := func(a, b *domain.LedgerRow) bool {
		switch field {
		case SortByCompany:
			return strings.ToLower(a.CompanyName) < strings.ToLower(b.CompanyName)
		case SortByGross:
			return a.GrossValue < b.GrossValue
		case SortByNet:
			return a.NetValue < b.NetValue
		case SortByInvoice:
			return a.InvoiceNumber < b.InvoiceNumber
		default:
			return dateBefore(a.DisplayDate, b.DisplayDate)
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if dir == domain.SortDesc {
			return less(&rows[j], &rows[i])
		}
		return less(&rows[i], &rows[j])
	})
}

// dateBefore compares possibly-nil dates, treating nil as the latest value.
func dateBefore(a, b *time.Time) bool {
	switch {
	case a == nil:
		return false
	case b == nil:
		return true
	default:
		return a.Before(*b)
	}
}

// BucketByMonth groups rows by the month/year of their display date, buckets
// ordered chronologically. Rows without a display date collect in a trailing
// zero bucket.
func BucketByMonth(rows []domain.LedgerRow) []domain.MonthBucket {
	type key struct {
		year  int
		month time.Month
	}
	buckets := make(map[key]*domain.MonthBucket)
	var order []key
	for _, row := range rows {
		k := key{}
		if row.DisplayDate != nil {
			k = key{year: row.DisplayDate.Year(), month: row.DisplayDate.Month()}
		}
		b, ok := buckets[k]
		if !ok {
			b = &domain.MonthBucket{Year: k.year, Month: k.month}
			buckets[k] = b
			order = append(order, k)
		}
		b.Rows = append(b.Rows, row)
	}

	sort.Slice(order, func(i, j int) bool {
		if order[i].year == 0 {
			return false
		}
		if order[j].year == 0 {
			return true
		}
		if order[i].year != order[j].year {
			return order[i].year < order[j].year
		}
		return order[i].month < order[j].month
	})

	out := make([]domain.MonthBucket, 0, len(order))
	for _, k := range order {
		out = append(out, *buckets[k])
	}
	return out
}
