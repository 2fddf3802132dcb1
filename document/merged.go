package document

import (
	"github.com/pkg/errors"
)

// MergedCellList 是表格中真正参与排版的单元格（未被合并覆盖），按行、列排序。
// 它由表格派生而来，不会修改表格。
type MergedCellList struct {
	table *Table
	cells []*Cell
	// owner[r][c] 是覆盖网格位置 (r,c) 的单元格在 cells 中的下标。
	owner [][]int
}

// NewMergedCellList 扫描表格，跳过被左侧或上方合并覆盖的位置。
func NewMergedCellList(t *Table) *MergedCellList {
	m := &MergedCellList{table: t}
	m.owner = make([][]int, len(t.rows))
	for r := range m.owner {
		m.owner[r] = make([]int, len(t.columns))
		for c := range m.owner[r] {
			m.owner[r][c] = -1
		}
	}
	for r, row := range t.rows {
		for c, cell := range row.cells {
			if m.owner[r][c] >= 0 {
				continue
			}
			idx := len(m.cells)
			m.cells = append(m.cells, cell)
			for dr := 0; dr <= cell.MergeDown && r+dr < len(t.rows); dr++ {
				for dc := 0; dc <= cell.MergeRight && c+dc < len(t.columns); dc++ {
					if m.owner[r+dr][c+dc] < 0 {
						m.owner[r+dr][c+dc] = idx
					}
				}
			}
		}
	}
	return m
}

// Cells 返回全部真实单元格。
func (m *MergedCellList) Cells() []*Cell { return m.cells }

// Len 返回真实单元格数量。
func (m *MergedCellList) Len() int { return len(m.cells) }

// IsCovered 报告网格位置是否被其他单元格的合并范围覆盖。
func (m *MergedCellList) IsCovered(row, col int) bool {
	idx := m.at(row, col)
	if idx < 0 {
		return false
	}
	c := m.cells[idx]
	return c.row != row || c.col != col
}

// Owner 返回覆盖网格位置的真实单元格。
func (m *MergedCellList) Owner(row, col int) *Cell {
	idx := m.at(row, col)
	if idx < 0 {
		return nil
	}
	return m.cells[idx]
}

func (m *MergedCellList) at(row, col int) int {
	if row < 0 || row >= len(m.owner) || col < 0 || col >= len(m.owner[row]) {
		return -1
	}
	return m.owner[row][col]
}

// Neighbor 返回紧邻某一边的真实单元格，表格边缘返回 nil。
// 右侧与下方邻居取合并范围之外的第一个位置。
func (m *MergedCellList) Neighbor(cell *Cell, side BorderType) *Cell {
	switch side {
	case BorderLeft:
		return m.Owner(cell.row, cell.col-1)
	case BorderRight:
		return m.Owner(cell.row, cell.col+cell.MergeRight+1)
	case BorderTop:
		return m.Owner(cell.row-1, cell.col)
	case BorderBottom:
		return m.Owner(cell.row+cell.MergeDown+1, cell.col)
	}
	return nil
}

// ownBorder 按单元格、行、列、表格的顺序取第一层对该边有设置的定义。
func (m *MergedCellList) ownBorder(row, col int, t BorderType) BorderSpec {
	tbl := m.table
	cell := tbl.rows[row].cells[col]
	for _, b := range []*Borders{cell.Borders, tbl.rows[row].Borders, tbl.columns[col].Borders, tbl.Borders} {
		if e, ok := b.resolvedEdge(t); ok {
			return ResolveBorder(e)
		}
	}
	return BorderSpec{}
}

// ownBorders 是不考虑邻居时单元格自身的边框：向右、向下合并时，
// 右边与下边取自合并范围最远处的位置。
func (m *MergedCellList) ownBorders(cell *Cell) BorderSet {
	var set BorderSet
	r, c := cell.row, cell.col
	set.Top = m.ownBorder(r, c, BorderTop)
	set.Left = m.ownBorder(r, c, BorderLeft)
	set.Right = m.ownBorder(r, c+cell.MergeRight, BorderRight)
	set.Bottom = m.ownBorder(r+cell.MergeDown, c, BorderBottom)
	set.DiagonalDown = m.ownBorder(r, c, BorderDiagonalDown)
	set.DiagonalUp = m.ownBorder(r, c, BorderDiagonalUp)
	return set
}

var oppositeSide = map[BorderType]BorderType{
	BorderLeft:   BorderRight,
	BorderRight:  BorderLeft,
	BorderTop:    BorderBottom,
	BorderBottom: BorderTop,
}

// roundedOn 报告单元格的圆角是否位于 side 这一边。
func roundedOn(c *Cell, side BorderType) bool {
	switch c.RoundedCorner {
	case CornerTopLeft:
		return side == BorderTop || side == BorderLeft
	case CornerTopRight:
		return side == BorderTop || side == BorderRight
	case CornerBottomLeft:
		return side == BorderBottom || side == BorderLeft
	case CornerBottomRight:
		return side == BorderBottom || side == BorderRight
	}
	return false
}

// EffectiveBorders 返回单元格最终绘制的边框：先取自身定义，再让相邻单元格
// 较宽（或等宽）的共享边覆盖自身，邻居在该侧有圆角时不参与；最后补齐圆角只有一侧可见的边。
func (m *MergedCellList) EffectiveBorders(cell *Cell) BorderSet {
	set := m.ownBorders(cell)
	for _, side := range []BorderType{BorderLeft, BorderRight, BorderTop, BorderBottom} {
		nb := m.Neighbor(cell, side)
		if nb == nil {
			continue
		}
		opp := oppositeSide[side]
		if roundedOn(nb, opp) {
			continue
		}
		nbSpec := m.ownBorders(nb).Get(opp)
		if nbSpec.Width > 0 && nbSpec.Width >= set.Get(side).Width {
			set.Set(side, nbSpec)
		}
	}
	equalizeRoundedCorner(cell.RoundedCorner, &set)
	return set
}

// equalizeRoundedCorner 在圆角相交的两条边只有一条可见时，把它复制到另一条，圆弧因此连续。
// 两条都可见或都不可见时保持原样。
func equalizeRoundedCorner(corner RoundedCorner, set *BorderSet) {
	var a, b BorderType
	switch corner {
	case CornerTopLeft:
		a, b = BorderTop, BorderLeft
	case CornerTopRight:
		a, b = BorderTop, BorderRight
	case CornerBottomLeft:
		a, b = BorderBottom, BorderLeft
	case CornerBottomRight:
		a, b = BorderBottom, BorderRight
	default:
		return
	}
	av, bv := set.Get(a).Width > 0, set.Get(b).Width > 0
	switch {
	case av && !bv:
		set.Set(b, set.Get(a))
	case bv && !av:
		set.Set(a, set.Get(b))
	}
}

// EffectiveBorders 是供外部后端使用的纯函数，(row, col) 必须是真实单元格。
func EffectiveBorders(t *Table, row, col int) (BorderSet, error) {
	cell, err := t.Cell(row, col)
	if err != nil {
		return BorderSet{}, err
	}
	if err := t.Validate(); err != nil {
		return BorderSet{}, err
	}
	m := NewMergedCellList(t)
	if m.IsCovered(row, col) {
		return BorderSet{}, errors.Wrapf(ErrInvalidOperation, "单元格 (%d,%d) 被合并覆盖", row, col)
	}
	return m.EffectiveBorders(cell), nil
}
