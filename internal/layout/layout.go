// Package layout derives document-relative spatial context from positioned
// OCR tokens: coarse vertical regions, horizontal alignment, label-value
// pairing, and table structure. All analysis is advisory; tokens are never
// mutated or dropped.
package layout

import (
	"math"
	"strings"

	"github.com/vendorsync/invoice-ocr/internal/ocr"
)

// Region is the coarse vertical zone of a document.
type Region string

const (
	RegionHeader Region = "header"
	RegionBody   Region = "body"
	RegionFooter Region = "footer"
)

// Alignment is the horizontal placement of a token relative to the observed
// page margins.
type Alignment string

const (
	AlignLeft     Alignment = "left"
	AlignRight    Alignment = "right"
	AlignCentered Alignment = "centered"
)

// Config holds the spatial thresholds. The zero value resolves to the
// documented defaults.
type Config struct {
	HeaderFraction  float64 // default 0.25
	FooterFraction  float64 // default 0.25
	AlignMarginFrac float64 // margin as a fraction of page width, default 0.03
	RowOverlapFrac  float64 // min y-range overlap for same-row grouping, default 0.5
	PairMaxGapFrac  float64 // max label-value gap as a fraction of page width, default 0.15
}

func (c Config) withDefaults() Config {
	if c.HeaderFraction <= 0 {
		c.HeaderFraction = 0.25
	}
	if c.FooterFraction <= 0 {
		c.FooterFraction = 0.25
	}
	if c.AlignMarginFrac <= 0 {
		c.AlignMarginFrac = 0.03
	}
	if c.RowOverlapFrac <= 0 {
		c.RowOverlapFrac = 0.5
	}
	if c.PairMaxGapFrac <= 0 {
		c.PairMaxGapFrac = 0.15
	}
	return c
}

// AnnotatedToken is a token plus its derived spatial context. PairedValue is
// the index (into the annotated slice) of the value token associated with a
// label token, or -1.
type AnnotatedToken struct {
	ocr.TextToken
	Index       int
	Region      Region
	Alignment   Alignment
	IsLabel     bool
	PairedValue int
}

// labelVocabulary is the fixed set of caption phrases recognized as labels
// even without a trailing colon.
var labelVocabulary = []string{
	"invoice #", "invoice no", "invoice number", "inv",
	"invoice date", "due date", "payment due", "date",
	"total", "amount due", "balance", "balance due", "subtotal",
	"payment terms", "terms", "bill to", "ship to", "tax",
}

// Annotate classifies every token by region and alignment and pairs label
// tokens with their nearest value token. Token order is preserved. With
// degenerate page bounds or no tokens, every token comes back unclassified
// (body / left) rather than failing.
func Annotate(tokens []ocr.TextToken, width, height int, cfg Config) []AnnotatedToken {
	cfg = cfg.withDefaults()

	out := make([]AnnotatedToken, len(tokens))
	for i, t := range tokens {
		out[i] = AnnotatedToken{
			TextToken:   t,
			Index:       i,
			Region:      RegionBody,
			Alignment:   AlignLeft,
			IsLabel:     isLabelText(t.Text),
			PairedValue: -1,
		}
	}
	if len(tokens) == 0 || width <= 0 || height <= 0 {
		return out
	}

	headerY := cfg.HeaderFraction * float64(height)
	footerY := (1 - cfg.FooterFraction) * float64(height)

	minX1, maxX2 := tokens[0].Box.X1, tokens[0].Box.X2
	for _, t := range tokens[1:] {
		if t.Box.X1 < minX1 {
			minX1 = t.Box.X1
		}
		if t.Box.X2 > maxX2 {
			maxX2 = t.Box.X2
		}
	}
	margin := cfg.AlignMarginFrac * float64(width)
	pageMid := float64(minX1+maxX2) / 2

	for i := range out {
		box := out[i].Box
		switch {
		case float64(box.Y1) < headerY:
			out[i].Region = RegionHeader
		case float64(box.Y1) > footerY:
			out[i].Region = RegionFooter
		}

		switch {
		case float64(box.X1-minX1) <= margin:
			out[i].Alignment = AlignLeft
		case float64(maxX2-box.X2) <= margin:
			out[i].Alignment = AlignRight
		case math.Abs(box.MidX()-pageMid) <= margin:
			out[i].Alignment = AlignCentered
		default:
			out[i].Alignment = AlignLeft
		}
	}

	pairLabels(out, width, cfg)
	return out
}

// isLabelText reports whether a token reads like a caption: trailing colon
// or a known label phrase.
func isLabelText(text string) bool {
	s := strings.ToLower(strings.TrimSpace(text))
	if s == "" {
		return false
	}
	if strings.HasSuffix(s, ":") {
		return true
	}
	for _, v := range labelVocabulary {
		if s == v || strings.HasPrefix(s, v+" ") || strings.HasPrefix(s, v+":") {
			return true
		}
	}
	return false
}

// pairLabels associates each label token with the nearest non-label token to
// its right on the same row, falling back to the nearest token in the row
// below. Association is deterministic: candidates are scanned in token order
// and the smallest gap wins.
func pairLabels(tokens []AnnotatedToken, width int, cfg Config) {
	maxGap := cfg.PairMaxGapFrac * float64(width)

	for i := range tokens {
		if !tokens[i].IsLabel {
			continue
		}
		label := tokens[i].Box

		// Same row, strictly to the right.
		best, bestGap := -1, math.MaxFloat64
		for j := range tokens {
			if j == i || tokens[j].IsLabel {
				continue
			}
			cand := tokens[j].Box
			if !yOverlaps(label, cand, cfg.RowOverlapFrac) || cand.X1 < label.X2 {
				continue
			}
			gap := float64(cand.X1 - label.X2)
			if gap <= maxGap && gap < bestGap {
				best, bestGap = j, gap
			}
		}

		// Fall back to the nearest token in the row below.
		if best == -1 {
			for j := range tokens {
				if j == i || tokens[j].IsLabel {
					continue
				}
				cand := tokens[j].Box
				if cand.Y1 <= label.Y2 {
					continue
				}
				vGap := float64(cand.Y1 - label.Y2)
				hGap := math.Abs(cand.MidX() - label.MidX())
				dist := vGap + hGap
				if vGap <= maxGap && dist < bestGap {
					best, bestGap = j, dist
				}
			}
		}

		tokens[i].PairedValue = best
	}
}

// yOverlaps reports whether two boxes share more than frac of the smaller
// box's vertical extent.
func yOverlaps(a, b ocr.BoundingBox, frac float64) bool {
	top := a.Y1
	if b.Y1 > top {
		top = b.Y1
	}
	bottom := a.Y2
	if b.Y2 < bottom {
		bottom = b.Y2
	}
	overlap := bottom - top
	if overlap <= 0 {
		return false
	}
	smaller := a.Height()
	if b.Height() < smaller {
		smaller = b.Height()
	}
	if smaller <= 0 {
		return false
	}
	return float64(overlap) > frac*float64(smaller)
}
