// recognize runs OCR on a single image and prints the positioned token
// tuples, for inspecting what the extractor would see.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/vendorsync/invoice-ocr/internal/common"
	"github.com/vendorsync/invoice-ocr/internal/layout"
	"github.com/vendorsync/invoice-ocr/internal/ocr"
)

func main() {
	hints := flag.Bool("hints", false, "also print the layout hint summary")
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: recognize [--hints] <image>")
		os.Exit(2)
	}

	_ = godotenv.Load()
	cfg := common.LoadConfig()
	if cfg.OCR.AzureEndpoint == "" || cfg.OCR.AzureAPIKey == "" {
		fmt.Fprintln(os.Stderr, "AZURE_CV_ENDPOINT and AZURE_CV_API_KEY env vars are required")
		os.Exit(1)
	}

	source := ocr.NewAzureSource(ocr.AzureConfig{
		Endpoint:      cfg.OCR.AzureEndpoint,
		APIKey:        cfg.OCR.AzureAPIKey,
		Language:      cfg.OCR.Language,
		EnhanceImages: cfg.OCR.EnhanceImages,
	}, slog.Default())

	res, err := source.Recognize(context.Background(), flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "recognize: %v\n", err)
		os.Exit(1)
	}

	out, err := json.MarshalIndent(res.Tuples(), "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "marshal: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(out))

	if *hints {
		lcfg := layout.Config{
			HeaderFraction:  cfg.Layout.HeaderFraction,
			FooterFraction:  cfg.Layout.FooterFraction,
			AlignMarginFrac: cfg.Layout.AlignMarginFrac,
		}
		annotated := layout.Annotate(res.Tokens, res.Width, res.Height, lcfg)
		fmt.Println(layout.Summary(annotated, res.Width, lcfg))
	}
}
