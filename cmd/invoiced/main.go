package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/vendorsync/invoice-ocr/internal/common"
	"github.com/vendorsync/invoice-ocr/internal/llm"
	_ "github.com/vendorsync/invoice-ocr/internal/llm/gemini"
	_ "github.com/vendorsync/invoice-ocr/internal/llm/groq"
	"github.com/vendorsync/invoice-ocr/internal/ocr"
	"github.com/vendorsync/invoice-ocr/internal/pipeline"
	"github.com/vendorsync/invoice-ocr/internal/server"
)

func main() {
	// Logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()
	log := logger.Sugar()

	// Env
	_ = godotenv.Load()
	cfg := common.LoadConfig()
	if cfg.OCR.AzureEndpoint == "" || cfg.OCR.AzureAPIKey == "" {
		log.Fatal("AZURE_CV_ENDPOINT and AZURE_CV_API_KEY env vars are required")
	}

	// Context with signal
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	slogger := slog.Default()

	source := ocr.NewAzureSource(ocr.AzureConfig{
		Endpoint:      cfg.OCR.AzureEndpoint,
		APIKey:        cfg.OCR.AzureAPIKey,
		Language:      cfg.OCR.Language,
		EnhanceImages: cfg.OCR.EnhanceImages,
	}, slogger)

	extractor, err := llm.NewExtractor(ctx, cfg.Extractor, slogger)
	if err != nil {
		log.Fatalf("creating extractor: %v", err)
	}

	proc := pipeline.NewProcessor(source, extractor, cfg, slogger)
	invoiceH := server.NewInvoiceHandler(proc, logger, cfg.Server.RequestTimeout)
	engine := server.Setup(invoiceH, logger)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: engine,
	}

	go func() {
		log.Infof("HTTP serving on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http serve: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warnf("shutdown: %v", err)
	}
}
