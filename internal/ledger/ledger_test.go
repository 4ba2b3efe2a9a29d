package ledger

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medibill/internal/domain"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func approvedMeasurement(client string, end time.Time, total float64) domain.Measurement {
	return domain.Measurement{
		ID:         uuid.New(),
		JobID:      uuid.New(),
		ClientName: client,
		EndDate:    end,
		Status:     domain.MeasurementStatusApproved,
		TotalValue: total,
	}
}

func TestAssemble_MeasurementWithoutMetadataIsPlaceholder(t *testing.T) {
	m := approvedMeasurement("Acme", date(2025, time.March, 31), 2500)

	rows := Assemble(Inputs{Measurements: []domain.Measurement{m}})

	require.Len(t, rows, 1)
	row := rows[0]
	assert.True(t, row.Ref.IsPlaceholder())
	assert.Equal(t, "meas-"+m.ID.String(), row.DisplayID)
	assert.Equal(t, 2500.0, row.GrossValue)
	assert.Equal(t, 2500.0, row.NetValue)
	assert.Equal(t, "Acme", row.CompanyName)
	require.NotNil(t, row.DisplayDate)
	assert.Equal(t, m.EndDate, *row.DisplayDate)
}

func TestAssemble_MetadataJoinAndNetValue(t *testing.T) {
	m := approvedMeasurement("Acme", date(2025, time.March, 31), 1000)
	mID := m.ID
	due := date(2025, time.April, 30)
	rec := domain.BillingRecord{
		ID:            uuid.New(),
		MeasurementID: &mID,
		InvoiceNumber: "NF-42",
		DueDate:       &due,
		ISSValue:      50,
		INSSValue:     110,
		IsActive:      true,
	}

	rows := Assemble(Inputs{
		Measurements: []domain.Measurement{m},
		Records:      []domain.BillingRecord{rec},
	})

	require.Len(t, rows, 1)
	row := rows[0]
	assert.False(t, row.Ref.IsPlaceholder())
	assert.Equal(t, rec.ID.String(), row.DisplayID)
	assert.Equal(t, "NF-42", row.InvoiceNumber)
	// net = gross - iss - inss
	assert.Equal(t, 840.0, row.NetValue)
}

func TestAssemble_InactiveMetadataIgnored(t *testing.T) {
	m := approvedMeasurement("Acme", date(2025, time.March, 31), 1000)
	mID := m.ID
	rec := domain.BillingRecord{ID: uuid.New(), MeasurementID: &mID, IsActive: false}

	rows := Assemble(Inputs{
		Measurements: []domain.Measurement{m},
		Records:      []domain.BillingRecord{rec},
	})

	require.Len(t, rows, 1)
	assert.True(t, rows[0].Ref.IsPlaceholder())
}

func TestAssemble_GroupRow(t *testing.T) {
	g := domain.MeasurementGroup{
		ID:         uuid.New(),
		Name:       "March consolidation",
		Status:     domain.MeasurementStatusApproved,
		TotalValue: 7200,
		CreatedAt:  date(2025, time.April, 2),
	}

	rows := Assemble(Inputs{Groups: []domain.MeasurementGroup{g}})

	require.Len(t, rows, 1)
	assert.Equal(t, domain.LedgerSourceGroup, rows[0].Source)
	assert.Equal(t, "group-"+g.ID.String(), rows[0].DisplayID)
	assert.Equal(t, 7200.0, rows[0].GrossValue)
}

func TestAssemble_ImportedRowCarriesOwnSnapshot(t *testing.T) {
	svc := date(2025, time.February, 10)
	attachments, _ := json.Marshal([]string{"billing/abc/nf.pdf"})
	rec := domain.BillingRecord{
		ID:         uuid.New(),
		IsImported: true,
		IsActive:   true,
		Imported: domain.ImportedBillingData{
			ServiceDate: &svc,
			CompanyName: "Imported Co",
			GrossValue:  900,
		},
		ISSValue:    45,
		Attachments: attachments,
	}

	rows := Assemble(Inputs{Records: []domain.BillingRecord{rec}})

	require.Len(t, rows, 1)
	row := rows[0]
	assert.Equal(t, domain.LedgerSourceImported, row.Source)
	assert.Equal(t, rec.ID.String(), row.DisplayID)
	assert.Equal(t, "Imported Co", row.CompanyName)
	assert.Equal(t, 855.0, row.NetValue)
	assert.Equal(t, []string{"billing/abc/nf.pdf"}, row.Attachments)
}

func TestSort_DateAscendingNilsLast(t *testing.T) {
	jan := date(2025, time.January, 15)
	mar := date(2025, time.March, 15)
	rows := []domain.LedgerRow{
		{CompanyName: "no-date"},
		{CompanyName: "march", DisplayDate: &mar},
		{CompanyName: "january", DisplayDate: &jan},
	}

	Sort(rows, SortByDate, domain.SortAsc)
	assert.Equal(t, "january", rows[0].CompanyName)
	assert.Equal(t, "march", rows[1].CompanyName)
	assert.Equal(t, "no-date", rows[2].CompanyName)

	Sort(rows, SortByDate, domain.SortDesc)
	assert.Equal(t, "no-date", rows[0].CompanyName)
	assert.Equal(t, "march", rows[1].CompanyName)
	assert.Equal(t, "january", rows[2].CompanyName)
}

func TestSort_NumericAndStringFields(t *testing.T) {
	rows := []domain.LedgerRow{
		{CompanyName: "b", NetValue: 10},
		{CompanyName: "A", NetValue: 30},
		{CompanyName: "c", NetValue: 20},
	}

	Sort(rows, SortByNet, domain.SortDesc)
	assert.Equal(t, 30.0, rows[0].NetValue)
	assert.Equal(t, 10.0, rows[2].NetValue)

	Sort(rows, SortByCompany, domain.SortAsc)
	assert.Equal(t, "A", rows[0].CompanyName)
	assert.Equal(t, "c", rows[2].CompanyName)
}

func TestBucketByMonth(t *testing.T) {
	jan := date(2025, time.January, 10)
	jan2 := date(2025, time.January, 25)
	mar := date(2025, time.March, 1)
	rows := []domain.LedgerRow{
		{CompanyName: "m", DisplayDate: &mar},
		{CompanyName: "j1", DisplayDate: &jan},
		{CompanyName: "none"},
		{CompanyName: "j2", DisplayDate: &jan2},
	}

	buckets := BucketByMonth(rows)

	require.Len(t, buckets, 3)
	assert.Equal(t, 2025, buckets[0].Year)
	assert.Equal(t, time.January, buckets[0].Month)
	assert.Len(t, buckets[0].Rows, 2)
	assert.Equal(t, time.March, buckets[1].Month)
	assert.Equal(t, 0, buckets[2].Year) // undated rows trail
	assert.Len(t, buckets[2].Rows, 1)
}
