package layout

import (
	"github.com/ByLCY/folio/document"
)

// formattedCell 是单元格内容的排版结果。内容以 (0,0) 为原点排版，
// 绘制时平移到单元格的内容区。
type formattedCell struct {
	cell    *document.Cell
	borders document.BorderSet
	// innerWidth 是跨列宽度减去右边框，contentWidth 再减去左右内边距。
	innerWidth    float64
	contentWidth  float64
	contentHeight float64
	infos         []*RenderInfo
}

func formatCell(ctx *Context, t *document.Table, c *document.Cell, borders document.BorderSet, widths []float64) *formattedCell {
	fc := &formattedCell{cell: c, borders: borders}
	for i := c.Column(); i <= c.Column()+c.MergeRight && i < len(widths); i++ {
		fc.innerWidth += widths[i]
	}
	fc.innerWidth -= borders.Width(document.BorderRight)
	cols := t.Columns()
	fc.contentWidth = fc.innerWidth - t.ColumnLeftPadding(cols[c.Column()]) -
		t.ColumnRightPadding(cols[c.Column()+c.MergeRight])

	p := newSingleAreaProvider(Rectangle{Width: fc.contentWidth, Height: Unbounded}, nil)
	newTopDownFormatter(ctx, p, c.Elements).formatOnAreas()
	fc.infos = p.infos
	fc.contentHeight = TotalHeight(fc.infos)
	if fc.contentHeight == 0 {
		fc.contentHeight = ctx.defaultLineHeight()
	}
	return fc
}

// innerHeight 按所在行的高度规则计算单元格需要的高度（不含下边框）。
func (fc *formattedCell) innerHeight(t *document.Table) float64 {
	row := t.Rows()[fc.cell.Row()]
	natural := t.RowTopPadding(row) + t.RowBottomPadding(row) + fc.contentHeight
	switch row.HeightRule {
	case document.HeightExactly:
		return row.Height
	case document.HeightAtLeast:
		return max(row.Height, natural)
	}
	return natural
}

// contentOrigin 返回单元格内容在 rect 中按垂直对齐后的左上角。
func (fc *formattedCell) contentOrigin(t *document.Table, rect Rectangle) (x, y float64) {
	row := t.Rows()[fc.cell.Row()]
	top, bottom := t.RowTopPadding(row), t.RowBottomPadding(row)
	x = rect.X + t.ColumnLeftPadding(t.Columns()[fc.cell.Column()])
	switch t.CellVerticalAlignment(fc.cell) {
	case document.VAlignBottom:
		y = rect.Y + rect.Height - bottom - fc.contentHeight
	case document.VAlignCenter:
		y = (rect.Y + top + rect.Y + rect.Height - bottom - fc.contentHeight) / 2
	default:
		y = rect.Y + top
	}
	return x, y
}

// collectBookmarks 递归收集容器内所有段落的书签。
func collectBookmarks(elements []document.Element, add func(string)) {
	for _, el := range elements {
		switch e := el.(type) {
		case *document.Paragraph:
			for _, name := range e.Bookmarks() {
				add(name)
			}
		case *document.TextFrame:
			collectBookmarks(e.Elements, add)
		case *document.Table:
			for _, row := range e.Rows() {
				for _, c := range row.Cells() {
					collectBookmarks(c.Elements, add)
				}
			}
		}
	}
}
