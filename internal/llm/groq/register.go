package groq

import (
	"context"
	"log/slog"

	"github.com/vendorsync/invoice-ocr/internal/common"
	"github.com/vendorsync/invoice-ocr/internal/llm"
)

var _ llm.Extractor = (*Client)(nil)

func init() {
	llm.RegisterProvider("groq", func(_ context.Context, cfg common.ExtractorConfig, logger *slog.Logger) (llm.Extractor, error) {
		return NewClient(Config{
			APIKey:      cfg.APIKey,
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
			Timeout:     cfg.Timeout,
			Thresholds:  llm.PromptThresholds{High: cfg.HighThreshold, Low: cfg.LowThreshold},
		}, logger), nil
	})
}
