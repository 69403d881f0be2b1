// Package export produces XLSX summaries of extracted invoice records.
package export

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/vendorsync/invoice-ocr/internal/invoice"
)

// Item pairs an extracted record with the source file it came from.
type Item struct {
	SourcePath string
	Record     *invoice.InvoiceRecord
}

// Service produces XLSX bytes for batch export.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// ExportInvoicesXLSX returns an XLSX workbook (as bytes) summarizing one row
// per processed invoice.
func (s *Service) ExportInvoicesXLSX(items []Item) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	const sheet = "Invoices"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		_, err := f.NewSheet(sheet)
		if err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{
		"Source File",
		"Vendor",
		"Invoice #",
		"Invoice Date",
		"Due Date",
		"Total",
		"Confidence",
		"Issues",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, it := range items {
		rec := it.Record
		if rec == nil {
			continue
		}

		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		write(1, it.SourcePath)

		vendor := ""
		if rec.VendorInformation.CompanyName != nil {
			vendor = rec.VendorInformation.CompanyName.Text
		}
		write(2, truncate(vendor, 60))

		if num := rec.InvoiceDetails.InvoiceNumber; num != nil {
			write(3, num.Text)
		}
		if d := rec.InvoiceDetails.InvoiceDate; d != nil {
			write(4, d.Text)
		}
		if d := rec.InvoiceDetails.DueDate; d != nil {
			write(5, d.Text)
		}
		if amt := rec.InvoiceDetails.FinancialData.TotalAmount; amt != nil {
			if amt.NumericValue != nil {
				write(6, *amt.NumericValue)
			} else {
				write(6, amt.Text)
			}
		}

		write(7, rec.ExtractionMetadata.ProcessingConfidence)
		write(8, len(rec.InvoiceDetails.ExtractionIssues))

		row++
	}

	_ = f.SetColWidth(sheet, "A", "A", 60) // path
	_ = f.SetColWidth(sheet, "B", "B", 28) // vendor
	_ = f.SetColWidth(sheet, "C", "C", 16) // invoice number
	_ = f.SetColWidth(sheet, "D", "E", 14) // dates
	_ = f.SetColWidth(sheet, "F", "F", 14) // total
	_ = f.SetColWidth(sheet, "G", "H", 12) // confidence, issues

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", len(items),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	if n <= 1 {
		return s[:n]
	}
	return s[:n-1] + "…"
}
