package llm

import (
	"context"
	"encoding/json"
)

// ExtractRequest is the full input to one extraction call. Tuples is the
// ordered token serialization [text, confidence, x1, y1, x2, y2]; LayoutHints
// is an optional advisory description of the detected document layout.
type ExtractRequest struct {
	Tuples      [][]any
	LayoutHints string
}

// Extractor maps a positioned token sequence to schema-shaped invoice JSON.
// Implementations are black boxes (LLM-backed in practice); the contract is
// that the returned bytes parse as a JSON object. Output that cannot be
// parsed after stripping code fencing must be reported as an error wrapping
// common.ErrExtractorFormat.
type Extractor interface {
	Extract(ctx context.Context, req ExtractRequest) (json.RawMessage, error)
}
