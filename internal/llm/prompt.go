package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// PromptThresholds carries the confidence cutoffs the instruction set quotes.
type PromptThresholds struct {
	High float32 // default 0.85
	Low  float32 // default 0.65
}

func (t PromptThresholds) withDefaults() PromptThresholds {
	if t.High <= 0 {
		t.High = 0.85
	}
	if t.Low <= 0 {
		t.Low = 0.65
	}
	return t
}

// BuildSystemPrompt composes the spatial-intelligence instruction set: input
// tuple format, region/alignment rules, extraction priorities, and the
// confidence policy. Built once per request from static parts.
func BuildSystemPrompt(t PromptThresholds) string {
	t = t.withDefaults()

	parts := []string{
		"You are an invoice intelligence processor. You receive OCR output as an ordered JSON array " +
			"where each element is [text, confidence, x1, y1, x2, y2]: the recognized string, the OCR " +
			"confidence in [0,1], and the top-left/bottom-right pixel corners of its bounding box.",

		"Analyze coordinates to understand document structure. The top 25% of the page is the header " +
			"(company name, address, invoice number, dates), the bottom 25% is the footer (totals, payment " +
			"terms), the rest is the body (line-item tables). Right-aligned numeric columns are amounts; " +
			"a caption like 'Invoice #:' or 'Due Date' labels the nearest element to its right or below.",

		"Extract, in priority order: (1) total amount, vendor company name, due date; " +
			"(2) invoice number, invoice date; (3) line items, subtotal, and tax detail; " +
			"(4) vendor address, phone, and email.",

		"Normalize all dates to YYYY-MM-DD and keep the source string in original_format. " +
			"For amounts, put the raw string in text and the parsed number in numeric_value. " +
			"Standardize payment terms (e.g. 'Net 30', 'Due on Receipt') and report any early payment " +
			"discount with its percentage and day window.",

		fmt.Sprintf("Set extraction_metadata.processing_confidence to 'high' only when the OCR confidence "+
			"of every critical field exceeds %.2f and all required fields are present; 'low' when any "+
			"required field is missing or a critical confidence is below %.2f; otherwise 'medium'. "+
			"Never report a confidence for a field you did not populate.", t.High, t.Low),

		"Record anything uncertain as an entry in invoice_details.extraction_issues with issue_type " +
			"(low_confidence|missing_data|layout_complex), a description, the affected field paths, and " +
			"a suggested_action (manual_review|reprocess|acceptable).",

		"Return ONLY a JSON object matching the provided JSON Schema. No prose, no code fences. " +
			"Omit absent fields entirely; never output null or placeholder values.",
	}
	return strings.Join(parts, "\n\n")
}

// BuildUserPrompt serializes the token tuples (and optional layout hints)
// into the user message.
func BuildUserPrompt(req ExtractRequest) string {
	tuples, err := json.Marshal(req.Tuples)
	if err != nil {
		tuples = []byte("[]")
	}

	var b strings.Builder
	b.WriteString("List: ")
	b.Write(tuples)
	if hints := strings.TrimSpace(req.LayoutHints); hints != "" {
		b.WriteString("\n\n")
		b.WriteString(hints)
	}
	return b.String()
}
