package layout

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
)

var reNumericCell = regexp.MustCompile(`^[$£€]?\s?-?\d[\d,]*(\.\d{1,2})?$`)

// Row is a group of tokens sharing a vertical band of the page.
type Row struct {
	Cells []AnnotatedToken
}

// Column is a vertical cluster of cells across rows.
type Column struct {
	CenterX float64
	Cells   []AnnotatedToken
}

// IsLineItemColumn reports whether the column's cells are predominantly
// numeric and right-aligned, the signature of quantity/amount columns.
func (c Column) IsLineItemColumn() bool {
	if len(c.Cells) < 2 {
		return false
	}
	numeric, right := 0, 0
	for _, cell := range c.Cells {
		if reNumericCell.MatchString(strings.TrimSpace(cell.Text)) {
			numeric++
		}
		if cell.Alignment == AlignRight {
			right++
		}
	}
	return numeric*2 > len(c.Cells) && right*2 > len(c.Cells)
}

// Table is the detected row/column structure of the token set.
type Table struct {
	Rows    []Row
	Columns []Column
}

// LineItemColumns returns the columns that look like quantity/amount data.
func (t Table) LineItemColumns() []Column {
	var out []Column
	for _, c := range t.Columns {
		if c.IsLineItemColumn() {
			out = append(out, c)
		}
	}
	return out
}

// DetectTable groups annotated tokens into rows by y-overlap and clusters
// cells into columns by x-position. Width bounds the clustering tolerance.
func DetectTable(tokens []AnnotatedToken, width int, cfg Config) Table {
	cfg = cfg.withDefaults()
	if len(tokens) == 0 {
		return Table{}
	}

	sorted := make([]AnnotatedToken, len(tokens))
	copy(sorted, tokens)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Box.Y1 != sorted[j].Box.Y1 {
			return sorted[i].Box.Y1 < sorted[j].Box.Y1
		}
		return sorted[i].Box.X1 < sorted[j].Box.X1
	})

	var rows []Row
	for _, t := range sorted {
		placed := false
		if len(rows) > 0 {
			last := &rows[len(rows)-1]
			if yOverlaps(last.Cells[0].Box, t.Box, cfg.RowOverlapFrac) {
				last.Cells = append(last.Cells, t)
				placed = true
			}
		}
		if !placed {
			rows = append(rows, Row{Cells: []AnnotatedToken{t}})
		}
	}

	tol := 0.05 * float64(width)
	if tol <= 0 {
		tol = 1
	}
	var cols []Column
	for _, row := range rows {
		for _, cell := range row.Cells {
			mid := cell.Box.MidX()
			idx := -1
			for i := range cols {
				if math.Abs(cols[i].CenterX-mid) <= tol {
					idx = i
					break
				}
			}
			if idx == -1 {
				cols = append(cols, Column{CenterX: mid})
				idx = len(cols) - 1
			}
			col := &cols[idx]
			// running mean keeps the cluster centered as cells accumulate
			n := float64(len(col.Cells))
			col.CenterX = (col.CenterX*n + mid) / (n + 1)
			col.Cells = append(col.Cells, cell)
		}
	}
	sort.SliceStable(cols, func(i, j int) bool { return cols[i].CenterX < cols[j].CenterX })

	return Table{Rows: rows, Columns: cols}
}

// Summary renders a compact advisory hint block describing the detected
// layout, suitable for inclusion in the extractor's instructions.
func Summary(tokens []AnnotatedToken, width int, cfg Config) string {
	if len(tokens) == 0 {
		return ""
	}

	var header, body, footer int
	for _, t := range tokens {
		switch t.Region {
		case RegionHeader:
			header++
		case RegionFooter:
			footer++
		default:
			body++
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Layout: %d header, %d body, %d footer elements.", header, body, footer)

	var pairs []string
	for _, t := range tokens {
		if t.IsLabel && t.PairedValue >= 0 && t.PairedValue < len(tokens) {
			pairs = append(pairs, fmt.Sprintf("%q -> %q", t.Text, tokens[t.PairedValue].Text))
		}
	}
	if len(pairs) > 0 {
		b.WriteString(" Label-value pairs: ")
		b.WriteString(strings.Join(pairs, "; "))
		b.WriteString(".")
	}

	table := DetectTable(tokens, width, cfg)
	if items := table.LineItemColumns(); len(items) > 0 {
		fmt.Fprintf(&b, " Detected %d line-item column(s) across %d rows.", len(items), len(table.Rows))
	}
	return b.String()
}
