package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vendorsync/invoice-ocr/internal/ocr"
)

func cell(text string, x1, y1, x2, y2 int, align Alignment) AnnotatedToken {
	return AnnotatedToken{
		TextToken: ocr.TextToken{Text: text, Confidence: 0.9, Box: ocr.BoundingBox{X1: x1, Y1: y1, X2: x2, Y2: y2}},
		Region:    RegionBody,
		Alignment: align,
	}
}

// lineItemGrid is three item rows with a description, quantity, and amount
// column, the shape of a typical invoice item table.
func lineItemGrid() []AnnotatedToken {
	return []AnnotatedToken{
		cell("Widget assembly", 40, 400, 240, 420, AlignLeft),
		cell("3", 480, 400, 520, 420, AlignRight),
		cell("$750.00", 660, 400, 760, 420, AlignRight),

		cell("Bolt pack", 40, 440, 180, 460, AlignLeft),
		cell("10", 480, 440, 520, 460, AlignRight),
		cell("$120.00", 660, 440, 760, 460, AlignRight),

		cell("Shipping", 40, 480, 160, 500, AlignLeft),
		cell("1", 480, 480, 520, 500, AlignRight),
		cell("$380.00", 660, 480, 760, 500, AlignRight),
	}
}

func TestDetectTableRowsAndColumns(t *testing.T) {
	table := DetectTable(lineItemGrid(), 800, Config{})

	require.Len(t, table.Rows, 3)
	for _, row := range table.Rows {
		assert.Len(t, row.Cells, 3)
	}
	require.Len(t, table.Columns, 3)
}

func TestLineItemColumns(t *testing.T) {
	table := DetectTable(lineItemGrid(), 800, Config{})

	items := table.LineItemColumns()
	require.Len(t, items, 2) // quantity and amount; descriptions are prose

	for _, col := range items {
		assert.Len(t, col.Cells, 3)
	}
}

func TestIsLineItemColumnRejectsProse(t *testing.T) {
	col := Column{Cells: []AnnotatedToken{
		cell("Widget assembly", 40, 400, 240, 420, AlignLeft),
		cell("Bolt pack", 40, 440, 180, 460, AlignLeft),
	}}
	assert.False(t, col.IsLineItemColumn())
}

func TestIsLineItemColumnNeedsTwoCells(t *testing.T) {
	col := Column{Cells: []AnnotatedToken{
		cell("$750.00", 660, 400, 760, 420, AlignRight),
	}}
	assert.False(t, col.IsLineItemColumn())
}

func TestDetectTableEmpty(t *testing.T) {
	table := DetectTable(nil, 800, Config{})
	assert.Empty(t, table.Rows)
	assert.Empty(t, table.Columns)
}

func TestSummaryMentionsStructure(t *testing.T) {
	tokens := []ocr.TextToken{
		{Text: "Acme Corp", Confidence: 0.95, Box: ocr.BoundingBox{X1: 40, Y1: 30, X2: 220, Y2: 55}},
		{Text: "Total:", Confidence: 0.9, Box: ocr.BoundingBox{X1: 40, Y1: 500, X2: 100, Y2: 520}},
		{Text: "$1,250.00", Confidence: 0.9, Box: ocr.BoundingBox{X1: 120, Y1: 500, X2: 240, Y2: 520}},
	}

	annotated := Annotate(tokens, 800, 1000, Config{})
	s := Summary(annotated, 800, Config{})

	assert.Contains(t, s, "1 header")
	assert.Contains(t, s, `"Total:" -> "$1,250.00"`)
}

func TestSummaryEmpty(t *testing.T) {
	assert.Empty(t, Summary(nil, 800, Config{}))
}
