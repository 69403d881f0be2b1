package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vendorsync/invoice-ocr/internal/ocr"
)

func tok(text string, x1, y1, x2, y2 int) ocr.TextToken {
	return ocr.TextToken{Text: text, Confidence: 0.9, Box: ocr.BoundingBox{X1: x1, Y1: y1, X2: x2, Y2: y2}}
}

func TestAnnotateRegions(t *testing.T) {
	tokens := []ocr.TextToken{
		tok("Acme Corp", 40, 0, 220, 25),
		tok("Widget", 40, 500, 160, 525),
		tok("Thank you", 40, 800, 180, 825),
	}

	out := Annotate(tokens, 800, 1000, Config{})

	require.Len(t, out, 3)
	assert.Equal(t, RegionHeader, out[0].Region)
	assert.Equal(t, RegionBody, out[1].Region)
	assert.Equal(t, RegionFooter, out[2].Region)
}

func TestAnnotateAlignment(t *testing.T) {
	tokens := []ocr.TextToken{
		tok("Bill To", 40, 300, 160, 325),     // sets the left margin
		tok("$1,250.00", 620, 300, 760, 325),  // sets the right margin
		tok("INVOICE", 350, 100, 450, 130),    // midpoint of the observed span
		tok("Widget assembly", 200, 400, 420, 425),
	}

	out := Annotate(tokens, 800, 1000, Config{})

	assert.Equal(t, AlignLeft, out[0].Alignment)
	assert.Equal(t, AlignRight, out[1].Alignment)
	assert.Equal(t, AlignCentered, out[2].Alignment)
	assert.Equal(t, AlignLeft, out[3].Alignment) // interior defaults to left
}

func TestAnnotateDegenerateBounds(t *testing.T) {
	tokens := []ocr.TextToken{tok("Acme", 40, 30, 120, 55)}

	out := Annotate(tokens, 0, 0, Config{})

	require.Len(t, out, 1)
	assert.Equal(t, RegionBody, out[0].Region)
	assert.Equal(t, AlignLeft, out[0].Alignment)
	assert.Equal(t, -1, out[0].PairedValue)
}

func TestAnnotateEmpty(t *testing.T) {
	assert.Empty(t, Annotate(nil, 800, 1000, Config{}))
}

func TestIsLabelText(t *testing.T) {
	assert.True(t, isLabelText("Invoice Date:"))
	assert.True(t, isLabelText("Due Date"))
	assert.True(t, isLabelText("TOTAL"))
	assert.False(t, isLabelText("Acme Corp"))
	assert.False(t, isLabelText("$1,250.00"))
	assert.False(t, isLabelText(""))
}

func TestPairLabelSameRow(t *testing.T) {
	tokens := []ocr.TextToken{
		tok("Invoice #:", 40, 100, 140, 120),
		tok("INV-1001", 160, 100, 260, 120),
		tok("unrelated", 40, 400, 160, 420),
	}

	out := Annotate(tokens, 800, 1000, Config{})

	require.True(t, out[0].IsLabel)
	assert.Equal(t, 1, out[0].PairedValue)
}

func TestPairLabelRowBelow(t *testing.T) {
	tokens := []ocr.TextToken{
		tok("Due Date:", 40, 200, 140, 220),
		tok("2024-02-14", 40, 240, 150, 260),
	}

	out := Annotate(tokens, 800, 1000, Config{})

	assert.Equal(t, 1, out[0].PairedValue)
}

func TestPairLabelGapTooWide(t *testing.T) {
	// Value sits 300px to the right, past the pairing gap limit.
	tokens := []ocr.TextToken{
		tok("Total:", 40, 100, 100, 120),
		tok("$500.00", 400, 100, 500, 120),
	}

	out := Annotate(tokens, 800, 1000, Config{})

	assert.Equal(t, -1, out[0].PairedValue)
}

func TestPairLabelDeterministic(t *testing.T) {
	// Two candidates on the same row; the nearer one wins every time.
	tokens := []ocr.TextToken{
		tok("Total:", 40, 100, 100, 120),
		tok("$500.00", 120, 100, 200, 120),
		tok("USD", 210, 100, 260, 120),
	}

	for i := 0; i < 5; i++ {
		out := Annotate(tokens, 800, 1000, Config{})
		assert.Equal(t, 1, out[0].PairedValue)
	}
}
