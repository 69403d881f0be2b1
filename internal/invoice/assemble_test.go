package invoice

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vendorsync/invoice-ocr/internal/ocr"
)

func decodeRaw(t *testing.T, s string) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(s), &m))
	return m
}

func sampleTokens(confs ...float32) []ocr.TextToken {
	tokens := make([]ocr.TextToken, 0, len(confs))
	for i, c := range confs {
		tokens = append(tokens, ocr.TextToken{
			Text:       "tok",
			Confidence: c,
			Box:        ocr.BoundingBox{X1: 10, Y1: 10 + i*30, X2: 100, Y2: 30 + i*30},
		})
	}
	return tokens
}

func issueTypes(rec *InvoiceRecord) []string {
	var out []string
	for _, is := range rec.InvoiceDetails.ExtractionIssues {
		out = append(out, is.IssueType)
	}
	return out
}

func TestAssembleEmptyTokens(t *testing.T) {
	a := NewAssembler(AssemblerConfig{}, nil)

	rec := a.Assemble(map[string]any{}, nil)

	require.Len(t, rec.InvoiceDetails.ExtractionIssues, 1)
	issue := rec.InvoiceDetails.ExtractionIssues[0]
	assert.Equal(t, IssueMissingData, issue.IssueType)
	assert.Equal(t, ActionReprocess, issue.SuggestedAction)
	assert.Equal(t, ConfidenceLow, rec.ExtractionMetadata.ProcessingConfidence)
	assert.Equal(t, 0, rec.ExtractionMetadata.TotalTextElements)
	assert.Nil(t, rec.VendorInformation.CompanyName)
}

func TestAssembleCleanInput(t *testing.T) {
	a := NewAssembler(AssemblerConfig{}, nil)
	raw := decodeRaw(t, `{
		"vendor_information": {
			"company_name": {"text": "Acme Corp", "confidence": 0.95},
			"address": [
				{"text": "1 Main St", "confidence": 0.9},
				{"text": "Springfield, IL 62704", "confidence": 0.88}
			],
			"contact": {"email": {"text": "billing@acme.test", "confidence": 0.9}}
		},
		"invoice_details": {
			"invoice_number": {"text": "INV-1001", "confidence": 0.92, "context_label": "Invoice #"},
			"invoice_date": {"text": "2024-01-15", "confidence": 0.9},
			"due_date": {"text": "2024-02-14", "confidence": 0.9, "context_label": "Due Date"},
			"financial_data": {
				"total_amount": {"text": "$1,250.00", "numeric_value": 1250.0, "confidence": 0.93, "context_label": "Total"},
				"line_items": [
					{"description": {"text": "Widget", "confidence": 0.9},
					 "quantity": {"text": "3", "numeric_value": 3},
					 "amount": {"text": "$750.00", "numeric_value": 750.0}}
				],
				"subtotal": {"text": "$1,150.00"}
			}
		},
		"extraction_metadata": {"document_layout": "standard"}
	}`)

	rec := a.Assemble(raw, sampleTokens(0.9, 0.92, 0.88, 0.95))

	require.NotNil(t, rec.VendorInformation.CompanyName)
	assert.Equal(t, "Acme Corp", rec.VendorInformation.CompanyName.Text)
	require.Len(t, rec.VendorInformation.Address, 2)
	require.NotNil(t, rec.VendorInformation.Contact)
	require.NotNil(t, rec.VendorInformation.Contact.Email)

	det := rec.InvoiceDetails
	require.NotNil(t, det.InvoiceNumber)
	assert.Equal(t, "Invoice #", det.InvoiceNumber.ContextLabel)
	require.NotNil(t, det.InvoiceDate)
	assert.Equal(t, "2024-01-15", det.InvoiceDate.Text)
	require.NotNil(t, det.DueDate)
	assert.Equal(t, "2024-02-14", det.DueDate.Text)

	require.NotNil(t, det.FinancialData.TotalAmount)
	require.NotNil(t, det.FinancialData.TotalAmount.NumericValue)
	assert.InDelta(t, 1250.0, *det.FinancialData.TotalAmount.NumericValue, 0.001)
	require.Len(t, det.FinancialData.LineItems, 1)
	require.NotNil(t, det.FinancialData.LineItems[0].Quantity)
	assert.Equal(t, 3, *det.FinancialData.LineItems[0].Quantity.NumericValue)
	require.NotNil(t, det.FinancialData.Subtotal)
	require.NotNil(t, det.FinancialData.Subtotal.NumericValue)
	assert.InDelta(t, 1150.0, *det.FinancialData.Subtotal.NumericValue, 0.001)

	assert.Empty(t, det.ExtractionIssues)
	assert.Equal(t, ConfidenceHigh, rec.ExtractionMetadata.ProcessingConfidence)
	assert.Equal(t, 4, rec.ExtractionMetadata.TotalTextElements)
	assert.Equal(t, 4, rec.ExtractionMetadata.HighConfidenceElements)
}

func TestAssembleInvalidLeafDropped(t *testing.T) {
	a := NewAssembler(AssemblerConfig{}, nil)
	raw := decodeRaw(t, `{
		"vendor_information": {"company_name": {"text": 42, "confidence": 0.9}}
	}`)

	rec := a.Assemble(raw, sampleTokens(0.9))

	assert.Nil(t, rec.VendorInformation.CompanyName)
	assert.Contains(t, issueTypes(rec), IssueInvalidField)
	assert.Equal(t, ConfidenceLow, rec.ExtractionMetadata.ProcessingConfidence)
}

func TestAssembleSurvivesArbitraryShapes(t *testing.T) {
	a := NewAssembler(AssemblerConfig{}, nil)
	inputs := []string{
		`{}`,
		`{"vendor_information": "not an object"}`,
		`{"vendor_information": {"address": 42, "contact": []}}`,
		`{"invoice_details": {"invoice_number": [], "financial_data": {"line_items": {"nested": true}}}}`,
		`{"invoice_details": {"financial_data": {"total_amount": {"text": "", "confidence": "high"}}}}`,
		`{"invoice_details": {"extraction_issues": "none"}}`,
		`{"extraction_metadata": {"document_layout": 7}}`,
	}

	for _, in := range inputs {
		rec := a.Assemble(decodeRaw(t, in), sampleTokens(0.9))
		require.NotNil(t, rec, "input %s", in)
		// Counts always come from the tokens, whatever the raw shape.
		assert.Equal(t, 1, rec.ExtractionMetadata.TotalTextElements, "input %s", in)
		// A record serializes cleanly no matter what was dropped.
		_, err := json.Marshal(rec)
		require.NoError(t, err, "input %s", in)
	}
}

func TestAssembleConfidenceWithoutText(t *testing.T) {
	a := NewAssembler(AssemblerConfig{}, nil)
	raw := decodeRaw(t, `{
		"vendor_information": {"company_name": {"confidence": 0.9}}
	}`)

	rec := a.Assemble(raw, sampleTokens(0.9))

	assert.Nil(t, rec.VendorInformation.CompanyName)
	assert.Contains(t, issueTypes(rec), IssueInvalidField)
}

func TestAssembleDateNormalization(t *testing.T) {
	a := NewAssembler(AssemblerConfig{}, nil)
	raw := decodeRaw(t, `{
		"invoice_details": {
			"invoice_date": {"text": "01/15/2024", "confidence": 0.9, "original_format": "01/15/2024"}
		}
	}`)

	rec := a.Assemble(raw, sampleTokens(0.9))

	require.NotNil(t, rec.InvoiceDetails.InvoiceDate)
	assert.Equal(t, "2024-01-15", rec.InvoiceDetails.InvoiceDate.Text)
	assert.Equal(t, "01/15/2024", rec.InvoiceDetails.InvoiceDate.OriginalFormat)
}

func TestAssembleUnparseableDate(t *testing.T) {
	a := NewAssembler(AssemblerConfig{}, nil)
	raw := decodeRaw(t, `{
		"invoice_details": {"invoice_date": {"text": "sometime soon", "confidence": 0.9}}
	}`)

	rec := a.Assemble(raw, sampleTokens(0.9))

	assert.Nil(t, rec.InvoiceDetails.InvoiceDate)
	assert.Contains(t, issueTypes(rec), IssueMissingData)
}

func TestAssembleDateOrderAdvisory(t *testing.T) {
	a := NewAssembler(AssemblerConfig{}, nil)
	raw := decodeRaw(t, `{
		"invoice_details": {
			"invoice_date": {"text": "2024-03-01", "confidence": 0.9},
			"due_date": {"text": "2024-02-01", "confidence": 0.9}
		}
	}`)

	rec := a.Assemble(raw, sampleTokens(0.9))

	// Both fields survive; the inversion is reported, not corrected.
	require.NotNil(t, rec.InvoiceDetails.InvoiceDate)
	require.NotNil(t, rec.InvoiceDetails.DueDate)
	assert.Contains(t, issueTypes(rec), IssueDateOrder)
}

func TestAssembleMetadataIgnoresExtractorCounts(t *testing.T) {
	a := NewAssembler(AssemblerConfig{}, nil)
	raw := decodeRaw(t, `{
		"extraction_metadata": {
			"total_text_elements": 999,
			"high_confidence_elements": 999,
			"document_layout": "complex"
		}
	}`)

	rec := a.Assemble(raw, sampleTokens(0.9, 0.5, 0.95))

	assert.Equal(t, 3, rec.ExtractionMetadata.TotalTextElements)
	assert.Equal(t, 2, rec.ExtractionMetadata.HighConfidenceElements)
	assert.Equal(t, LayoutComplex, rec.ExtractionMetadata.DocumentLayout)
}

func TestAssemblePreservesExtractorIssues(t *testing.T) {
	a := NewAssembler(AssemblerConfig{}, nil)
	raw := decodeRaw(t, `{
		"invoice_details": {
			"extraction_issues": [
				{"issue_type": "low_confidence", "description": "total partially occluded",
				 "affected_fields": ["invoice_details.financial_data.total_amount"],
				 "suggested_action": "manual_review"},
				{"description": "no type"}
			]
		}
	}`)

	rec := a.Assemble(raw, sampleTokens(0.9))

	types := issueTypes(rec)
	assert.Contains(t, types, IssueLowConfidence)
	// The malformed entry is itself reported as invalid.
	assert.Contains(t, types, IssueInvalidField)
}

func TestAssembleAmountParsedFromText(t *testing.T) {
	a := NewAssembler(AssemblerConfig{}, nil)
	raw := decodeRaw(t, `{
		"invoice_details": {
			"financial_data": {"total_amount": {"text": "$2,500.50", "confidence": 0.9}}
		}
	}`)

	rec := a.Assemble(raw, sampleTokens(0.9))

	require.NotNil(t, rec.InvoiceDetails.FinancialData.TotalAmount)
	require.NotNil(t, rec.InvoiceDetails.FinancialData.TotalAmount.NumericValue)
	assert.InDelta(t, 2500.5, *rec.InvoiceDetails.FinancialData.TotalAmount.NumericValue, 0.001)
}

func TestClassifyConfidenceLevels(t *testing.T) {
	a := NewAssembler(AssemblerConfig{}, nil)

	conf := func(v float64) *float64 { return &v }
	rec := func(name, total, due *float64) *InvoiceRecord {
		r := &InvoiceRecord{}
		if name != nil {
			r.VendorInformation.CompanyName = &TextValue{Text: "Acme", Confidence: name}
		}
		if total != nil {
			r.InvoiceDetails.FinancialData.TotalAmount = &AmountValue{Text: "$1.00", Confidence: total}
		}
		if due != nil {
			r.InvoiceDetails.DueDate = &LabeledValue{TextValue: TextValue{Text: "2024-02-01", Confidence: due}}
		}
		return r
	}

	assert.Equal(t, ConfidenceHigh, a.classifyConfidence(rec(conf(0.9), conf(0.95), conf(0.88))))
	assert.Equal(t, ConfidenceMedium, a.classifyConfidence(rec(conf(0.9), conf(0.7), conf(0.88))))
	assert.Equal(t, ConfidenceLow, a.classifyConfidence(rec(conf(0.9), conf(0.5), conf(0.88))))
	assert.Equal(t, ConfidenceLow, a.classifyConfidence(rec(conf(0.9), nil, conf(0.88))))

	// Present but with unknown confidence never qualifies as high.
	r := rec(conf(0.9), conf(0.95), conf(0.88))
	r.InvoiceDetails.FinancialData.TotalAmount.Confidence = nil
	assert.Equal(t, ConfidenceMedium, a.classifyConfidence(r))
}
