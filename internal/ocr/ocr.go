package ocr

import (
	"context"
)

// BoundingBox is an axis-aligned box in pixel coordinates, top-left origin.
// Invariant: X1 <= X2 and Y1 <= Y2.
type BoundingBox struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// Width returns the horizontal extent of the box.
func (b BoundingBox) Width() int { return b.X2 - b.X1 }

// Height returns the vertical extent of the box.
func (b BoundingBox) Height() int { return b.Y2 - b.Y1 }

// MidX returns the horizontal midpoint of the box.
func (b BoundingBox) MidX() float64 { return float64(b.X1+b.X2) / 2 }

// TextToken is a single OCR detection: the recognized string, a confidence
// in [0,1], and its bounding box. Tokens are immutable once produced.
type TextToken struct {
	Text       string      `json:"text"`
	Confidence float32     `json:"confidence"`
	Box        BoundingBox `json:"box"`
}

// Result is the full output of one recognition pass. Tokens preserve the
// recognizer's detection order. A nil/empty Tokens slice with a nil error
// means the image decoded fine but contained no readable text.
type Result struct {
	Tokens []TextToken
	Width  int
	Height int
}

// Tuples serializes tokens as ordered [text, confidence, x1, y1, x2, y2]
// rows, the wire shape the extractor prompt is written against.
func (r Result) Tuples() [][]any {
	out := make([][]any, 0, len(r.Tokens))
	for _, t := range r.Tokens {
		out = append(out, []any{t.Text, t.Confidence, t.Box.X1, t.Box.Y1, t.Box.X2, t.Box.Y2})
	}
	return out
}

// TokenSource produces positioned text tokens from an image on disk.
// Implementations must return an error wrapping common.ErrImageDecode when
// the input cannot be decoded, and a zero-token Result (no error) when the
// image is readable but empty.
type TokenSource interface {
	Recognize(ctx context.Context, path string) (Result, error)
}
