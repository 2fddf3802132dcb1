package layout

import (
	"github.com/ByLCY/folio/document"
)

const (
	// minRowPitch 保证行边界严格递增。
	minRowPitch = 0.01
	// defaultColumnWidth 是剩余宽度不足时未设宽度的列所用宽度（2.5cm）。
	defaultColumnWidth = 2.5 * 10 * document.MmToPt
)

// tableState 是表格第一次排版时建立、在各片段之间共享的只读状态。
type tableState struct {
	table  *document.Table
	merged *document.MergedCellList
	widths []float64
	cells  map[*document.Cell]*formattedCell

	// bottom[r] 是第 r 行内容区顶边相对第 0 行的偏移，bottom[n] 为表格底部，
	// 每个下标都有值且严格递增。
	bottom []float64
	// connected[r] 是从第 r 行开始、必须放在同一区域的最后一行。
	connected     []int
	lastHeaderRow int

	leftBorderOffset float64
}

// TableFormatInfo 记录表格在一个区域中放下的行区间 [StartRow, EndRow]，
// 表头行（0..LastHeaderRow）在每个片段顶部重复。
type TableFormatInfo struct {
	StartRow      int `json:"startRow"`
	EndRow        int `json:"endRow"`
	LastHeaderRow int `json:"lastHeaderRow"`

	empty  bool
	ending bool
	state  *tableState
}

func (f *TableFormatInfo) IsEmpty() bool  { return f.empty }
func (f *TableFormatInfo) IsEnding() bool { return !f.empty && f.ending }
func (f *TableFormatInfo) IsStarting() bool {
	return !f.empty && f.StartRow == f.LastHeaderRow+1
}
func (f *TableFormatInfo) IsComplete() bool         { return f.IsStarting() && f.IsEnding() }
func (f *TableFormatInfo) StartingIsComplete() bool { return f.IsStarting() }
func (f *TableFormatInfo) EndingIsComplete() bool   { return f.IsEnding() }

// removeEnding 去掉最后一组相连的行；只有一组时整个片段变为空。
func (f *TableFormatInfo) removeEnding() {
	if f.empty || f.state == nil {
		return
	}
	last := f.StartRow
	for g := f.StartRow; g <= f.EndRow; g = f.state.connected[g] + 1 {
		last = g
	}
	if last > f.StartRow {
		f.EndRow = last - 1
		f.ending = false
		return
	}
	f.empty = true
}

type tableRenderer struct {
	rendererBase
	t *document.Table
}

func newTableRenderer(ctx *Context, t *document.Table, fieldInfos *FieldInfos) *tableRenderer {
	return &tableRenderer{rendererBase: rendererBase{ctx: ctx, fieldInfos: fieldInfos}, t: t}
}

func (r *tableRenderer) InitialLayoutInfo() LayoutInfo {
	li := LayoutInfo{
		KeepTogether:        r.t.KeepTogether,
		Floating:            FloatTopBottom,
		VerticalReference:   RefPreviousElement,
		HorizontalReference: RefAreaBoundary,
	}
	switch r.t.Alignment {
	case document.RowsCenter:
		li.HorizontalAlignment = AlignCenter
	case document.RowsRight:
		li.HorizontalAlignment = AlignFar
	default:
		li.HorizontalAlignment = AlignNear
	}
	return li
}

// columnWidths 为未设宽度的列均分剩余宽度。
func columnWidths(t *document.Table, avail float64) []float64 {
	cols := t.Columns()
	widths := make([]float64, len(cols))
	fixed, zeros := 0.0, 0
	for i, c := range cols {
		if c.Width > 0 {
			widths[i] = c.Width
			fixed += c.Width
		} else {
			zeros++
		}
	}
	if zeros == 0 {
		return widths
	}
	share := defaultColumnWidth
	if !(avail >= Unbounded) && avail-fixed > Tolerance {
		share = (avail - fixed) / float64(zeros)
	}
	for i := range widths {
		if widths[i] == 0 {
			widths[i] = share
		}
	}
	return widths
}

// newTableState 格式化所有单元格并建立行边界、相连行与表头信息。
func newTableState(ctx *Context, t *document.Table, avail float64) *tableState {
	st := &tableState{
		table:         t,
		merged:        document.NewMergedCellList(t),
		widths:        columnWidths(t, avail),
		cells:         map[*document.Cell]*formattedCell{},
		lastHeaderRow: -1,
	}
	for _, c := range st.merged.Cells() {
		st.cells[c] = formatCell(ctx, t, c, st.merged.EffectiveBorders(c), st.widths)
	}
	if owner := st.merged.Owner(0, 0); owner != nil {
		st.leftBorderOffset = st.cells[owner].borders.Width(document.BorderLeft)
	}
	st.buildConnectedRows()
	st.buildHeaderRows()
	st.buildBottomMap()
	return st
}

// buildConnectedRows 合并向下合并与 KeepWith 造成的行依赖。
func (st *tableState) buildConnectedRows() {
	n := st.table.RowCount()
	rows := st.table.Rows()
	// reach[k] 是起始行不超过 k 的单元格向下连接到的最远行。
	reach := make([]int, n)
	for i := range reach {
		reach[i] = i
	}
	for _, c := range st.merged.Cells() {
		down := max(rows[c.Row()].KeepWith, c.MergeDown)
		reach[c.Row()] = max(reach[c.Row()], min(c.Row()+down, n-1))
	}
	for i := 1; i < n; i++ {
		reach[i] = max(reach[i], reach[i-1])
	}
	st.connected = make([]int, n)
	for r := 0; r < n; r++ {
		last := r
		for reach[last] > last {
			last = reach[last]
		}
		st.connected[r] = last
	}
}

// buildHeaderRows 计算表头的最后一行；整张表都是表头时不重复表头。
func (st *tableState) buildHeaderRows() {
	last := -1
	for _, row := range st.table.Rows() {
		if !row.HeadingFormat {
			break
		}
		last++
	}
	if last >= 0 {
		last = st.connected[last]
	}
	if last == st.table.RowCount()-1 {
		last = -1
	}
	st.lastHeaderRow = last
}

// buildBottomMap 计算每条行边界的位置。没有单元格结束于其上的边界
// 不可能是单元格的起点，按两侧已知边界线性插值。
func (st *tableState) buildBottomMap() {
	n := st.table.RowCount()
	endingAt := make([][]*document.Cell, n)
	for _, c := range st.merged.Cells() {
		end := c.Row() + c.MergeDown
		endingAt[end] = append(endingAt[end], c)
	}
	st.bottom = make([]float64, n+1)
	known := make([]bool, n+1)
	known[0] = true
	lastKnown := 0
	knownAt := func(row int) float64 {
		for !known[row] {
			row--
		}
		return st.bottom[row]
	}
	for r := 0; r < n; r++ {
		if len(endingAt[r]) == 0 {
			continue
		}
		pos := st.bottom[lastKnown] + minRowPitch*float64(r+1-lastKnown)
		for _, c := range endingAt[r] {
			fc := st.cells[c]
			pos = max(pos, knownAt(c.Row())+fc.innerHeight(st.table)+fc.borders.Width(document.BorderBottom))
		}
		st.bottom[r+1] = pos
		known[r+1] = true
		gap := r + 1 - lastKnown
		for i := lastKnown + 1; i < r+1; i++ {
			st.bottom[i] = st.bottom[lastKnown] + (pos-st.bottom[lastKnown])*float64(i-lastKnown)/float64(gap)
			known[i] = true
		}
		lastKnown = r + 1
	}
	for i := lastKnown + 1; i <= n; i++ {
		st.bottom[i] = st.bottom[i-1] + minRowPitch
	}
}

// maxTopBorder 返回从第 row 行开始的单元格中最宽的上边框。
func (st *tableState) maxTopBorder(row int) float64 {
	w := 0.0
	for _, c := range st.merged.Cells() {
		if c.Row() == row {
			w = max(w, st.cells[c].borders.Width(document.BorderTop))
		}
	}
	return w
}

// topHeight 返回片段中第一行正文之上的高度：重复的表头，或首行的上边框。
func (st *tableState) topHeight(startRow int) float64 {
	if st.lastHeaderRow >= 0 {
		return st.maxTopBorder(0) + st.bottom[st.lastHeaderRow+1]
	}
	return st.maxTopBorder(startRow)
}

func (st *tableState) width() float64 {
	w := st.leftBorderOffset
	for _, cw := range st.widths {
		w += cw
	}
	return w
}

// innerRect 返回单元格在片段中的内容区（含内边距，不含边框）。
func (st *tableState) innerRect(c *document.Cell, origin Rectangle, startRow int) Rectangle {
	fc := st.cells[c]
	y := origin.Y
	if c.Row() <= st.lastHeaderRow {
		y += st.maxTopBorder(0) + st.bottom[c.Row()]
	} else {
		y += st.topHeight(startRow) + st.bottom[c.Row()] - st.bottom[startRow]
	}
	x := origin.X + st.leftBorderOffset
	for i := 0; i < c.Column(); i++ {
		x += st.widths[i]
	}
	h := st.bottom[c.Row()+c.MergeDown+1] - st.bottom[c.Row()] - fc.borders.Width(document.BorderBottom)
	return Rectangle{X: x, Y: y, Width: fc.innerWidth, Height: h}
}

func (r *tableRenderer) Format(area Area, prev FormatInfo) {
	b := area.Bounds()
	li := r.InitialLayoutInfo()
	info := &TableFormatInfo{LastHeaderRow: -1}
	if pf, ok := prev.(*TableFormatInfo); ok && pf != nil && pf.state != nil {
		info.state = pf.state
		info.LastHeaderRow = pf.LastHeaderRow
		info.StartRow = pf.EndRow + 1
	} else if err := r.t.Validate(); err != nil {
		r.ctx.Logger.Warn("表格定义无效，已跳过", "err", err.Error())
	} else if r.t.RowCount() > 0 {
		info.state = newTableState(r.ctx, r.t, b.Width)
		info.LastHeaderRow = info.state.lastHeaderRow
		info.StartRow = info.LastHeaderRow + 1
	}

	st := info.state
	if st == nil {
		// 没有可排版的行：作为零高度的完整元素。
		info.EndRow = -1
		info.ending = true
		li.ContentArea = Rectangle{X: b.X, Y: b.Y}
		r.renderInfo = &RenderInfo{Element: r.t, LayoutInfo: li, FormatInfo: info}
		return
	}

	n := r.t.RowCount()
	top := st.topHeight(info.StartRow)
	offset := st.bottom[info.StartRow] - top
	current, starting := 0.0, 0.0
	end := -1
	for probe := info.StartRow; probe < n; probe++ {
		first := probe == info.StartRow
		probe = st.connected[probe]
		h := st.bottom[probe+1] - offset
		// 一整页都放不下的行组按整页高度计算，内容越过页面底部。
		if first && r.maxElementHeight > 0 && h > r.maxElementHeight-Tolerance {
			h = r.maxElementHeight - Tolerance
		}
		if starting == 0 {
			starting = h
		}
		if !b.IsUnbounded() && h > b.Height {
			break
		}
		end = probe
		current = h
	}

	if end < 0 {
		info.empty = true
		info.EndRow = info.StartRow - 1
	} else {
		info.EndRow = end
		info.ending = end >= n-1
		if r.fieldInfos != nil {
			for row := info.StartRow; row <= end; row++ {
				for _, c := range r.t.Rows()[row].Cells() {
					collectBookmarks(c.Elements, r.fieldInfos.AddBookmark)
				}
			}
		}
	}

	li.ContentArea = Rectangle{X: b.X, Y: b.Y, Width: st.width(), Height: current}
	li.StartingHeight = starting
	li.MinWidth = li.ContentArea.Width
	switch {
	case r.t.LeftIndent != 0:
		li.Left = r.t.LeftIndent
	case r.t.Alignment == document.RowsLeft:
		// 让首列文字与正文左缘对齐。
		li.Left = -(st.leftBorderOffset + r.t.ColumnLeftPadding(r.t.Columns()[0]))
	}
	r.renderInfo = &RenderInfo{Element: r.t, LayoutInfo: li, FormatInfo: info}
}

// Render 按底纹、内容、直线边框、圆角弧的顺序分层绘制，后画的盖住先画的。
func (r *tableRenderer) Render(s Surface) {
	info, ok := r.renderInfo.FormatInfo.(*TableFormatInfo)
	if !ok || info.empty || info.state == nil {
		return
	}
	st := info.state
	origin := r.renderInfo.LayoutInfo.ContentArea

	var cells []*document.Cell
	for _, c := range st.merged.Cells() {
		if c.Row() <= st.lastHeaderRow || (c.Row() >= info.StartRow && c.Row() <= info.EndRow) {
			cells = append(cells, c)
		}
	}
	rects := make([]Rectangle, len(cells))
	for i, c := range cells {
		rects[i] = st.innerRect(c, origin, info.StartRow)
	}

	for i, c := range cells {
		fill, ok := r.t.EffectiveShading(c).Fill()
		if !ok {
			continue
		}
		if c.RoundedCorner != document.CornerNone {
			s.DrawPath(nil, &fill, cornerFill(c.RoundedCorner, rects[i]))
			continue
		}
		rc := rects[i]
		s.DrawRect(nil, &fill, rc.X, rc.Y, rc.Width, rc.Height)
	}
	for i, c := range cells {
		fc := st.cells[c]
		x, y := fc.contentOrigin(r.t, rects[i])
		renderInfos(r.ctx, s, fc.infos, r.fieldInfos, x, y)
	}
	for i, c := range cells {
		r.renderBorders(s, st.cells[c], rects[i])
	}
	for i, c := range cells {
		if c.RoundedCorner == document.CornerNone {
			continue
		}
		fc := st.cells[c]
		br := bordersRenderer{set: fc.borders}
		rc := rects[i]
		rc.Width += br.width(document.BorderRight)
		rc.Height += br.width(document.BorderBottom)
		br.renderRounded(s, c.RoundedCorner, rc)
	}
}

// renderBorders 绘制单元格四边与对角线，与圆角相接的两条边交给圆弧绘制。
func (r *tableRenderer) renderBorders(s Surface, fc *formattedCell, rc Rectangle) {
	br := bordersRenderer{set: fc.borders}
	lw, rw := br.width(document.BorderLeft), br.width(document.BorderRight)
	tw, bw := br.width(document.BorderTop), br.width(document.BorderBottom)
	left, right := rc.X, rc.Right()
	top, bottom := rc.Y, rc.Y+rc.Height
	corner := fc.cell.RoundedCorner

	if corner != document.CornerTopRight && corner != document.CornerBottomRight {
		br.renderVertically(s, document.BorderRight, right, top, bottom+bw-top)
	}
	if corner != document.CornerTopLeft && corner != document.CornerBottomLeft {
		br.renderVertically(s, document.BorderLeft, left-lw, top, bottom+bw-top)
	}
	if corner != document.CornerBottomLeft && corner != document.CornerBottomRight {
		br.renderHorizontally(s, document.BorderBottom, left-lw, bottom, right+rw+lw-left)
	}
	if corner != document.CornerTopLeft && corner != document.CornerTopRight {
		br.renderHorizontally(s, document.BorderTop, left-lw, top-tw, right+rw+lw-left)
	}
	br.renderDiagonals(s, rc)
}
