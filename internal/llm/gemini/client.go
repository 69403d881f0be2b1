package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/google/uuid"
	"google.golang.org/api/option"

	"github.com/vendorsync/invoice-ocr/internal/llm"
)

// Config for the Gemini extractor.
type Config struct {
	APIKey     string
	Model      string // default "gemini-2.5-pro"
	Thresholds llm.PromptThresholds
}

// Client implements llm.Extractor using Google Gemini.
type Client struct {
	client *genai.Client
	model  *genai.GenerativeModel
	cfg    Config
	log    *slog.Logger
}

// NewClient creates a Gemini-backed extractor.
func NewClient(ctx context.Context, cfg Config, logger *slog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-2.5-pro"
	}
	if logger == nil {
		logger = slog.Default()
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	model := client.GenerativeModel(cfg.Model)
	model.ResponseMIMEType = "application/json"

	return &Client{client: client, model: model, cfg: cfg, log: logger}, nil
}

// Extract implements llm.Extractor.
func (c *Client) Extract(ctx context.Context, req llm.ExtractRequest) (json.RawMessage, error) {
	rid := uuid.New().String()
	start := time.Now()

	c.log.Info("llm.extract.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"tokens", len(req.Tuples),
		"has_layout_hints", req.LayoutHints != "",
	)

	schema := llm.BuildInvoiceJSONSchema()
	schemaJSON, _ := json.Marshal(schema)
	prompt := llm.BuildSystemPrompt(c.cfg.Thresholds) +
		"\n\nJSON Schema:\n" + string(schemaJSON) +
		"\n\n" + llm.BuildUserPrompt(req)

	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		c.log.Error("llm.extract.api_error",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, fmt.Errorf("gemini generate: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("no response from gemini")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}

	_, cleaned, err := llm.DecodeRawExtraction([]byte(sb.String()))
	if err != nil {
		c.log.Error("llm.extract.format_error",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, err
	}

	if vErr := llm.ValidateJSONAgainstSchema(schema, cleaned); vErr != nil {
		c.log.Warn("llm.extract.schema_drift", "req_id", rid, "error", vErr)
	}

	c.log.Info("llm.extract.ok",
		"req_id", rid,
		"bytes", len(cleaned),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return cleaned, nil
}

// Close releases the underlying API client.
func (c *Client) Close() error {
	return c.client.Close()
}
