package llm

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vendorsync/invoice-ocr/internal/common"
)

// ProviderFactory builds an Extractor from extractor config.
type ProviderFactory func(ctx context.Context, cfg common.ExtractorConfig, logger *slog.Logger) (Extractor, error)

// registry of extractor provider factories, populated by init() in each
// provider package.
var providers = map[string]ProviderFactory{}

// RegisterProvider registers an extractor provider factory by name.
func RegisterProvider(name string, factory ProviderFactory) {
	providers[name] = factory
}

// NewExtractor creates an Extractor using the registered factory for
// cfg.Provider.
func NewExtractor(ctx context.Context, cfg common.ExtractorConfig, logger *slog.Logger) (Extractor, error) {
	factory, ok := providers[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("unknown extractor provider: %s", cfg.Provider)
	}
	return factory(ctx, cfg, logger)
}
