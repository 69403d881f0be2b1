package gemini

import (
	"context"
	"log/slog"

	"github.com/vendorsync/invoice-ocr/internal/common"
	"github.com/vendorsync/invoice-ocr/internal/llm"
)

var _ llm.Extractor = (*Client)(nil)

func init() {
	llm.RegisterProvider("gemini", func(ctx context.Context, cfg common.ExtractorConfig, logger *slog.Logger) (llm.Extractor, error) {
		return NewClient(ctx, Config{
			APIKey:     cfg.APIKey,
			Model:      cfg.Model,
			Thresholds: llm.PromptThresholds{High: cfg.HighThreshold, Low: cfg.LowThreshold},
		}, logger)
	})
}
