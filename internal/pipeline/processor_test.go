package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vendorsync/invoice-ocr/internal/common"
	"github.com/vendorsync/invoice-ocr/internal/invoice"
	"github.com/vendorsync/invoice-ocr/internal/llm"
	"github.com/vendorsync/invoice-ocr/internal/ocr"
)

type stubSource struct {
	result ocr.Result
	err    error
}

func (s stubSource) Recognize(ctx context.Context, path string) (ocr.Result, error) {
	return s.result, s.err
}

type stubExtractor struct {
	raw     json.RawMessage
	err     error
	lastReq llm.ExtractRequest
	calls   int
}

func (s *stubExtractor) Extract(ctx context.Context, req llm.ExtractRequest) (json.RawMessage, error) {
	s.calls++
	s.lastReq = req
	return s.raw, s.err
}

func testResult() ocr.Result {
	return ocr.Result{
		Width:  800,
		Height: 1000,
		Tokens: []ocr.TextToken{
			{Text: "Acme Corp", Confidence: 0.95, Box: ocr.BoundingBox{X1: 40, Y1: 30, X2: 220, Y2: 55}},
			{Text: "Total: $1,250.00", Confidence: 0.9, Box: ocr.BoundingBox{X1: 500, Y1: 700, X2: 760, Y2: 725}},
		},
	}
}

func TestProcessFileHappyPath(t *testing.T) {
	ext := &stubExtractor{raw: json.RawMessage(`{
		"vendor_information": {"company_name": {"text": "Acme Corp", "confidence": 0.95}},
		"invoice_details": {
			"financial_data": {"total_amount": {"text": "$1,250.00", "numeric_value": 1250.0, "confidence": 0.9}}
		}
	}`)}
	p := NewProcessor(stubSource{result: testResult()}, ext, common.LoadConfig(), nil)

	rec, err := p.ProcessFile(context.Background(), "invoice.jpg")

	require.NoError(t, err)
	require.Equal(t, 1, ext.calls)
	assert.Len(t, ext.lastReq.Tuples, 2)
	assert.NotEmpty(t, ext.lastReq.LayoutHints)

	require.NotNil(t, rec.VendorInformation.CompanyName)
	assert.Equal(t, "Acme Corp", rec.VendorInformation.CompanyName.Text)
	assert.Equal(t, 2, rec.ExtractionMetadata.TotalTextElements)
}

func TestProcessFileEmptyDocumentSkipsExtractor(t *testing.T) {
	ext := &stubExtractor{}
	p := NewProcessor(stubSource{result: ocr.Result{Width: 800, Height: 1000}}, ext, common.LoadConfig(), nil)

	rec, err := p.ProcessFile(context.Background(), "blank.jpg")

	require.NoError(t, err)
	assert.Equal(t, 0, ext.calls)
	require.Len(t, rec.InvoiceDetails.ExtractionIssues, 1)
	assert.Equal(t, invoice.IssueMissingData, rec.InvoiceDetails.ExtractionIssues[0].IssueType)
}

func TestProcessFileDecodeErrorIsFatal(t *testing.T) {
	src := stubSource{err: common.WrapError(common.ErrImageDecode, "decode invoice.jpg")}
	p := NewProcessor(src, &stubExtractor{}, common.LoadConfig(), nil)

	rec, err := p.ProcessFile(context.Background(), "invoice.jpg")

	assert.Nil(t, rec)
	assert.True(t, errors.Is(err, common.ErrImageDecode))
}

func TestProcessFileMalformedExtractorOutput(t *testing.T) {
	ext := &stubExtractor{raw: json.RawMessage(`[1, 2, 3]`)}
	p := NewProcessor(stubSource{result: testResult()}, ext, common.LoadConfig(), nil)

	rec, err := p.ProcessFile(context.Background(), "invoice.jpg")

	assert.Nil(t, rec)
	assert.True(t, errors.Is(err, common.ErrExtractorFormat))
}
