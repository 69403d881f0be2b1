// invoice-batch processes a directory of invoice images, writing one JSON
// record per image plus an XLSX summary workbook.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/vendorsync/invoice-ocr/internal/common"
	"github.com/vendorsync/invoice-ocr/internal/export"
	"github.com/vendorsync/invoice-ocr/internal/llm"
	_ "github.com/vendorsync/invoice-ocr/internal/llm/gemini"
	_ "github.com/vendorsync/invoice-ocr/internal/llm/groq"
	"github.com/vendorsync/invoice-ocr/internal/ocr"
	"github.com/vendorsync/invoice-ocr/internal/pipeline"
)

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
}

func main() {
	dir := flag.String("dir", "datasets", "directory of invoice images to process")
	outDir := flag.String("out-dir", "llm_result", "output directory for JSON records and the XLSX summary")
	flag.Parse()

	logger := slog.Default()
	_ = godotenv.Load()
	cfg := common.LoadConfig()
	if cfg.OCR.AzureEndpoint == "" || cfg.OCR.AzureAPIKey == "" {
		logger.Error("AZURE_CV_ENDPOINT and AZURE_CV_API_KEY env vars are required")
		os.Exit(1)
	}
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		logger.Error("creating output directory", "dir", *outDir, "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	source := ocr.NewAzureSource(ocr.AzureConfig{
		Endpoint:      cfg.OCR.AzureEndpoint,
		APIKey:        cfg.OCR.AzureAPIKey,
		Language:      cfg.OCR.Language,
		EnhanceImages: cfg.OCR.EnhanceImages,
	}, logger)

	extractor, err := llm.NewExtractor(ctx, cfg.Extractor, logger)
	if err != nil {
		logger.Error("creating extractor", "error", err)
		os.Exit(1)
	}

	proc := pipeline.NewProcessor(source, extractor, cfg, logger)

	entries, err := os.ReadDir(*dir)
	if err != nil {
		logger.Error("reading input directory", "dir", *dir, "error", err)
		os.Exit(1)
	}

	var items []export.Item
	failed := 0
	for _, e := range entries {
		if e.IsDir() || !imageExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		if ctx.Err() != nil {
			break
		}

		path := filepath.Join(*dir, e.Name())
		rctx := common.WithRequestID(ctx, uuid.New().String())

		rec, err := proc.ProcessFile(rctx, path)
		if err != nil {
			// One bad image must not sink the batch.
			logger.Error("batch.file_failed", "path", path, "error", err)
			failed++
			continue
		}

		if err := writeRecord(*outDir, e.Name(), rec); err != nil {
			logger.Error("batch.write_failed", "path", path, "error", err)
			failed++
			continue
		}
		items = append(items, export.Item{SourcePath: path, Record: rec})
	}

	if len(items) > 0 {
		data, err := export.NewService(logger).ExportInvoicesXLSX(items)
		if err != nil {
			logger.Error("batch.export_failed", "error", err)
			os.Exit(1)
		}
		xlsxPath := filepath.Join(*outDir, "invoices.xlsx")
		if err := os.WriteFile(xlsxPath, data, 0o644); err != nil {
			logger.Error("batch.export_write_failed", "path", xlsxPath, "error", err)
			os.Exit(1)
		}
	}

	logger.Info("batch.done", "processed", len(items), "failed", failed)
	if failed > 0 {
		os.Exit(1)
	}
}

func writeRecord(outDir, name string, rec any) error {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	out := filepath.Join(outDir, base+"_llm_result.json")

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(out, data, 0o644)
}
