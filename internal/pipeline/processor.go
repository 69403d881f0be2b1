// Package pipeline orchestrates the extraction stages: token recognition,
// layout analysis, structured extraction, and response assembly.
package pipeline

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/vendorsync/invoice-ocr/internal/common"
	"github.com/vendorsync/invoice-ocr/internal/invoice"
	"github.com/vendorsync/invoice-ocr/internal/layout"
	"github.com/vendorsync/invoice-ocr/internal/llm"
	"github.com/vendorsync/invoice-ocr/internal/ocr"
)

// Processor runs the full image-to-record pipeline. It holds no per-request
// state, so a single Processor serves concurrent requests.
type Processor struct {
	source    ocr.TokenSource
	extractor llm.Extractor
	assembler *invoice.Assembler
	layoutCfg layout.Config
	logger    *slog.Logger
}

// NewProcessor wires the pipeline stages together.
func NewProcessor(source ocr.TokenSource, extractor llm.Extractor, cfg *common.Config, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		source:    source,
		extractor: extractor,
		assembler: invoice.NewAssembler(invoice.AssemblerConfig{
			HighThreshold: float64(cfg.Extractor.HighThreshold),
			LowThreshold:  float64(cfg.Extractor.LowThreshold),
		}, logger),
		layoutCfg: layout.Config{
			HeaderFraction:  cfg.Layout.HeaderFraction,
			FooterFraction:  cfg.Layout.FooterFraction,
			AlignMarginFrac: cfg.Layout.AlignMarginFrac,
		},
		logger: logger,
	}
}

// ProcessFile runs one invoice image through the pipeline. Only two failures
// abort: an undecodable image (common.ErrImageDecode) and extractor output
// that is not parseable JSON (common.ErrExtractorFormat). Everything else,
// including an image with no text at all, yields a record.
func (p *Processor) ProcessFile(ctx context.Context, path string) (*invoice.InvoiceRecord, error) {
	rid := common.RequestIDFromContext(ctx)
	start := time.Now()
	p.logger.Info("pipeline.start", "req_id", rid, "path", path)

	res, err := p.source.Recognize(ctx, path)
	if err != nil {
		p.logger.Error("pipeline.ocr_error", "req_id", rid, "error", err)
		return nil, err
	}
	p.logger.Info("pipeline.ocr.ok", "req_id", rid,
		"tokens", len(res.Tokens), "width", res.Width, "height", res.Height)

	if len(res.Tokens) == 0 {
		rec := p.assembler.Assemble(nil, nil)
		p.logger.Info("pipeline.ok", "req_id", rid, "empty", true,
			"elapsed_ms", time.Since(start).Milliseconds())
		return rec, nil
	}

	annotated := layout.Annotate(res.Tokens, res.Width, res.Height, p.layoutCfg)
	hints := layout.Summary(annotated, res.Width, p.layoutCfg)

	rawMsg, err := p.extractor.Extract(ctx, llm.ExtractRequest{
		Tuples:      res.Tuples(),
		LayoutHints: hints,
	})
	if err != nil {
		p.logger.Error("pipeline.extract_error", "req_id", rid, "error", err)
		return nil, err
	}

	var raw map[string]any
	if err := json.Unmarshal(rawMsg, &raw); err != nil {
		return nil, common.WrapError(common.ErrExtractorFormat, err.Error())
	}

	rec := p.assembler.Assemble(raw, res.Tokens)
	p.logger.Info("pipeline.ok", "req_id", rid,
		"confidence", rec.ExtractionMetadata.ProcessingConfidence,
		"issues", len(rec.InvoiceDetails.ExtractionIssues),
		"elapsed_ms", time.Since(start).Milliseconds())
	return rec, nil
}
