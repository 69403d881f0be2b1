package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/vendorsync/invoice-ocr/internal/common"
)

// StripCodeFence removes markdown code fencing and any surrounding prose
// from a model response, leaving the embedded JSON object. Idempotent: clean
// input passes through unchanged.
func StripCodeFence(s string) string {
	s = strings.TrimSpace(s)

	if idx := strings.Index(s, "```json"); idx >= 0 {
		s = s[idx+len("```json"):]
	} else if strings.HasPrefix(s, "```") {
		s = s[len("```"):]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	s = strings.TrimSpace(s)

	// Anchor on the outermost object in case prose surrounds the JSON.
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		s = s[start : end+1]
	}
	return s
}

// DecodeRawExtraction strips fencing and parses the extractor's output into
// a generic map. Output that does not parse is a fatal format error for the
// request, never silently degraded to an empty record.
func DecodeRawExtraction(raw []byte) (map[string]any, json.RawMessage, error) {
	cleaned := StripCodeFence(string(raw))
	var m map[string]any
	if err := json.Unmarshal([]byte(cleaned), &m); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", common.ErrExtractorFormat, err)
	}
	return m, json.RawMessage(cleaned), nil
}
