package ocr

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/services/cognitiveservices/v3.0/computervision"
	"github.com/Azure/go-autorest/autorest"
	"github.com/disintegration/imaging"

	"github.com/vendorsync/invoice-ocr/internal/common"
)

// AzureConfig configures the Azure Computer Vision token source.
type AzureConfig struct {
	Endpoint      string
	APIKey        string
	Language      string // default "en"
	EnhanceImages bool
}

// AzureSource implements TokenSource against the Azure Computer Vision
// printed-text API. One token is emitted per recognized line, in the order
// the recognizer returns them.
type AzureSource struct {
	client *computervision.BaseClient
	cfg    AzureConfig
	logger *slog.Logger
}

// NewAzureSource creates an Azure-backed token source.
func NewAzureSource(cfg AzureConfig, logger *slog.Logger) *AzureSource {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Language == "" {
		cfg.Language = "en"
	}
	client := computervision.New(cfg.Endpoint)
	client.Authorizer = autorest.NewCognitiveServicesAuthorizer(cfg.APIKey)
	return &AzureSource{client: &client, cfg: cfg, logger: logger}
}

// Recognize decodes the image at path, optionally enhances it, and runs
// printed-text OCR. A readable image with no detected text yields a
// zero-token Result with nil error.
func (s *AzureSource) Recognize(ctx context.Context, path string) (Result, error) {
	start := time.Now()

	data, err := os.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("%w: read %s: %v", common.ErrImageDecode, path, err)
	}

	src, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		s.logger.Error("ocr.decode_failed", "path", path, "error", err)
		return Result{}, fmt.Errorf("%w: %s: %v", common.ErrImageDecode, path, err)
	}
	bounds := src.Bounds()
	res := Result{Width: bounds.Dx(), Height: bounds.Dy()}

	payload := data
	if s.cfg.EnhanceImages {
		if enhanced, eErr := enhanceForOCR(src); eErr == nil {
			payload = enhanced
		} else {
			s.logger.Warn("ocr.enhance_failed", "path", path, "error", eErr)
		}
	}

	ocrResult, err := s.client.RecognizePrintedTextInStream(
		ctx,
		true,
		io.NopCloser(bytes.NewReader(payload)),
		computervision.OcrLanguages(s.cfg.Language),
	)
	if err != nil {
		return Result{}, fmt.Errorf("azure ocr: %w", err)
	}

	res.Tokens = tokensFromOCRResult(ocrResult)
	s.logger.Info("ocr.recognize.ok",
		"path", path,
		"tokens", len(res.Tokens),
		"width", res.Width,
		"height", res.Height,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return res, nil
}

// tokensFromOCRResult flattens regions/lines into line-level tokens with
// pixel bounding boxes, preserving recognizer order.
func tokensFromOCRResult(result computervision.OcrResult) []TextToken {
	var tokens []TextToken
	if result.Regions == nil {
		return tokens
	}
	for _, region := range *result.Regions {
		if region.Lines == nil {
			continue
		}
		for _, line := range *region.Lines {
			box, ok := parseBoundingBox(line.BoundingBox)
			if !ok || line.Words == nil {
				continue
			}
			var sb strings.Builder
			for _, word := range *line.Words {
				if word.Text == nil {
					continue
				}
				if sb.Len() > 0 {
					sb.WriteByte(' ')
				}
				sb.WriteString(*word.Text)
			}
			text := strings.TrimSpace(sb.String())
			if text == "" {
				continue
			}
			tokens = append(tokens, TextToken{
				Text:       text,
				Confidence: heuristicConfidence(text),
				Box:        box,
			})
		}
	}
	return tokens
}

// parseBoundingBox parses the API's "x,y,w,h" string into corner form.
func parseBoundingBox(raw *string) (BoundingBox, bool) {
	if raw == nil {
		return BoundingBox{}, false
	}
	parts := strings.Split(*raw, ",")
	if len(parts) < 4 {
		return BoundingBox{}, false
	}
	vals := make([]int, 4)
	for i := 0; i < 4; i++ {
		v, err := strconv.Atoi(strings.TrimSpace(parts[i]))
		if err != nil {
			return BoundingBox{}, false
		}
		vals[i] = v
	}
	return BoundingBox{
		X1: vals[0],
		Y1: vals[1],
		X2: vals[0] + vals[2],
		Y2: vals[1] + vals[3],
	}, true
}
