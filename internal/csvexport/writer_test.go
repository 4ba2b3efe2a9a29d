package csvexport

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medibill/internal/domain"
)

func TestWriterProducesHeaderAndRows(t *testing.T) {
	date := time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)
	due := time.Date(2025, 7, 10, 0, 0, 0, 0, time.UTC)
	rows := []domain.LedgerRow{
		{
			DisplayID:     "meas-1111",
			Source:        domain.LedgerSourceMeasurement,
			CompanyName:   "Acme Ltda",
			DisplayDate:   &date,
			GrossValue:    2500,
			ISSValue:      125,
			INSSValue:     275,
			NetValue:      2100,
			InvoiceNumber: "NF-42",
			DueDate:       &due,
			PaymentMethod: "transfer",
		},
		{
			DisplayID:   "group-2222",
			Source:      domain.LedgerSourceGroup,
			CompanyName: "Beta Corp",
			GrossValue:  900,
			NetValue:    900,
		},
	}

	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.WriteRows(rows))
	w.Flush()
	require.NoError(t, w.Error())

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, "Reference", records[0][0])
	assert.Equal(t, "Gross Value", records[0][5])

	assert.Equal(t, "meas-1111", records[1][0])
	assert.Equal(t, "measurement", records[1][1])
	assert.Equal(t, "2025-06-03", records[1][3])
	assert.Equal(t, "2500.00", records[1][5])
	assert.Equal(t, "2100.00", records[1][8])
	assert.Equal(t, "2025-07-10", records[1][9])

	// Missing dates come out empty, not zero-valued.
	assert.Equal(t, "", records[2][3])
	assert.Equal(t, "900.00", records[2][5])
}
