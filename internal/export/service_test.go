package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/vendorsync/invoice-ocr/internal/invoice"
)

func sampleRecord(vendor string, total float64) *invoice.InvoiceRecord {
	rec := &invoice.InvoiceRecord{}
	rec.ExtractionMetadata.ProcessingConfidence = invoice.ConfidenceHigh
	rec.VendorInformation.CompanyName = &invoice.TextValue{Text: vendor}
	rec.InvoiceDetails.InvoiceNumber = &invoice.LabeledValue{TextValue: invoice.TextValue{Text: "INV-1001"}}
	rec.InvoiceDetails.FinancialData.TotalAmount = &invoice.AmountValue{Text: "$1,250.00", NumericValue: &total}
	return rec
}

func TestExportInvoicesXLSX(t *testing.T) {
	svc := NewService(nil)
	items := []Item{
		{SourcePath: "/data/a.jpg", Record: sampleRecord("Acme Corp", 1250)},
		{SourcePath: "/data/b.jpg", Record: sampleRecord("Globex", 99.5)},
		{SourcePath: "/data/skip.jpg", Record: nil},
	}

	data, err := svc.ExportInvoicesXLSX(items)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Invoices")
	require.NoError(t, err)
	require.Len(t, rows, 3) // header + two records

	assert.Equal(t, "Source File", rows[0][0])
	assert.Equal(t, "Acme Corp", rows[1][1])
	assert.Equal(t, "INV-1001", rows[1][2])
	assert.Equal(t, "Globex", rows[2][1])
}
