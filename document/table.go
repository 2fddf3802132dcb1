package document

import (
	stderrors "errors"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidOperation 表示调用顺序不合法（例如在没有列时添加行）。
	ErrInvalidOperation = stderrors.New("非法的表格操作")
	// ErrOutOfRange 表示下标或合并范围超出表格网格。
	ErrOutOfRange = stderrors.New("超出表格范围")
)

// VerticalAlignment 是单元格内容的垂直对齐，零值表示未设置。
type VerticalAlignment int

const (
	VAlignUnset VerticalAlignment = iota
	VAlignTop
	VAlignCenter
	VAlignBottom
)

// RowHeightRule 决定 Row.Height 的含义。
type RowHeightRule int

const (
	HeightAuto RowHeightRule = iota
	HeightAtLeast
	HeightExactly
)

// RowAlignment 是表格整体在区域中的水平对齐。
type RowAlignment int

const (
	RowsLeft RowAlignment = iota
	RowsCenter
	RowsRight
)

// RoundedCorner 标记单元格的某个角为圆角。
type RoundedCorner int

const (
	CornerNone RoundedCorner = iota
	CornerTopLeft
	CornerTopRight
	CornerBottomLeft
	CornerBottomRight
)

// DefaultCellPadding 是列的默认左右内边距（1.2mm）。
var DefaultCellPadding = Length{Value: 1.2, Unit: UnitMM}.ToPT()

// Table 按下标持有列、行与单元格。
type Table struct {
	Borders *Borders
	Shading *Shading

	// 行的默认上下内边距与列的默认左右内边距。
	TopPadding    float64
	BottomPadding float64
	LeftPadding   float64
	RightPadding  float64

	Alignment    RowAlignment
	LeftIndent   float64
	KeepTogether bool

	columns []*Column
	rows    []*Row
}

func (*Table) Kind() Kind { return KindTable }

// NewTable 创建空表格。
func NewTable() *Table {
	return &Table{LeftPadding: DefaultCellPadding, RightPadding: DefaultCellPadding}
}

// Column 是一列的宽度与格式。Width 为 0 时与其他未设宽度的列均分剩余宽度。
type Column struct {
	Width        float64
	LeftPadding  *float64
	RightPadding *float64
	Borders      *Borders
	Shading      *Shading
	index        int
}

// Index 返回列下标。
func (c *Column) Index() int { return c.index }

// Row 是一行的高度规则与格式。
type Row struct {
	Height            float64
	HeightRule        RowHeightRule
	HeadingFormat     bool
	KeepWith          int
	VerticalAlignment VerticalAlignment
	TopPadding        *float64
	BottomPadding     *float64
	Borders           *Borders
	Shading           *Shading
	index             int
	cells             []*Cell
}

// Index 返回行下标。
func (r *Row) Index() int { return r.index }

// Cells 返回该行的全部单元格（包括被合并覆盖的）。
func (r *Row) Cells() []*Cell { return r.cells }

// Cell 返回第 col 个单元格。
func (r *Row) Cell(col int) (*Cell, error) {
	if col < 0 || col >= len(r.cells) {
		return nil, errors.Wrapf(ErrOutOfRange, "行 %d 没有第 %d 列", r.index, col)
	}
	return r.cells[col], nil
}

// Cell 是网格中的一个位置。被左侧或上方单元格合并覆盖的位置不参与排版。
type Cell struct {
	Container
	MergeRight        int
	MergeDown         int
	Borders           *Borders
	Shading           *Shading
	VerticalAlignment VerticalAlignment
	RoundedCorner     RoundedCorner
	row               int
	col               int
}

// Row 返回单元格所在行下标。
func (c *Cell) Row() int { return c.row }

// Column 返回单元格所在列下标。
func (c *Cell) Column() int { return c.col }

// AddColumn 追加一列。行已经存在时返回 ErrInvalidOperation。
func (t *Table) AddColumn(width float64) (*Column, error) {
	if len(t.rows) > 0 {
		return nil, errors.Wrap(ErrInvalidOperation, "已有行之后不能再添加列")
	}
	col := &Column{Width: width, index: len(t.columns)}
	t.columns = append(t.columns, col)
	return col, nil
}

// AddRow 追加一行并为每一列创建单元格。没有列时返回 ErrInvalidOperation。
func (t *Table) AddRow() (*Row, error) {
	if len(t.columns) == 0 {
		return nil, errors.Wrap(ErrInvalidOperation, "添加行之前需要先定义列")
	}
	row := &Row{index: len(t.rows)}
	row.cells = make([]*Cell, len(t.columns))
	for i := range row.cells {
		row.cells[i] = &Cell{row: row.index, col: i}
	}
	t.rows = append(t.rows, row)
	return row, nil
}

// RowCount 返回行数。
func (t *Table) RowCount() int { return len(t.rows) }

// ColumnCount 返回列数。
func (t *Table) ColumnCount() int { return len(t.columns) }

// Rows 返回所有行。
func (t *Table) Rows() []*Row { return t.rows }

// Columns 返回所有列。
func (t *Table) Columns() []*Column { return t.columns }

// Row 返回第 i 行。
func (t *Table) Row(i int) (*Row, error) {
	if i < 0 || i >= len(t.rows) {
		return nil, errors.Wrapf(ErrOutOfRange, "行下标 %d", i)
	}
	return t.rows[i], nil
}

// Column 返回第 i 列。
func (t *Table) Column(i int) (*Column, error) {
	if i < 0 || i >= len(t.columns) {
		return nil, errors.Wrapf(ErrOutOfRange, "列下标 %d", i)
	}
	return t.columns[i], nil
}

// Cell 返回 (row, col) 处的单元格。
func (t *Table) Cell(row, col int) (*Cell, error) {
	r, err := t.Row(row)
	if err != nil {
		return nil, err
	}
	return r.Cell(col)
}

// covered 报告 (row, col) 是否落在此前某个单元格的合并范围内。
func (t *Table) covered(row, col int) bool {
	for r := 0; r <= row && r < len(t.rows); r++ {
		for c, cell := range t.rows[r].cells {
			if r == row && c >= col {
				break
			}
			if r+cell.MergeDown >= row && c <= col && c+cell.MergeRight >= col {
				return true
			}
		}
	}
	return false
}

// Validate 检查合并范围都留在网格内。
func (t *Table) Validate() error {
	for _, row := range t.rows {
		for _, c := range row.cells {
			if c.MergeRight < 0 || c.MergeDown < 0 {
				return errors.Wrapf(ErrOutOfRange, "单元格 (%d,%d) 的合并值为负", c.row, c.col)
			}
			if c.col+c.MergeRight >= len(t.columns) {
				return errors.Wrapf(ErrOutOfRange, "单元格 (%d,%d) 向右合并 %d 列超出表格", c.row, c.col, c.MergeRight)
			}
			if c.row+c.MergeDown >= len(t.rows) {
				return errors.Wrapf(ErrOutOfRange, "单元格 (%d,%d) 向下合并 %d 行超出表格", c.row, c.col, c.MergeDown)
			}
		}
	}
	return nil
}

// ValidateTables 检查 elements 中的表格，包括嵌套在单元格与文本框里的，返回第一个配置错误。
func ValidateTables(elements []Element) error {
	for _, el := range elements {
		switch e := el.(type) {
		case *Table:
			if err := e.Validate(); err != nil {
				return err
			}
			for _, row := range e.rows {
				for _, c := range row.cells {
					if err := ValidateTables(c.Elements); err != nil {
						return err
					}
				}
			}
		case *TextFrame:
			if err := ValidateTables(e.Elements); err != nil {
				return err
			}
		}
	}
	return nil
}

// Validate 检查文档中所有节正文与页眉页脚里的表格。
func (d *Document) Validate() error {
	for i, s := range d.Sections {
		containers := []*Container{&s.Container}
		for _, hf := range []*HeaderFooter{
			s.Headers.Primary, s.Headers.FirstPage, s.Headers.EvenPage,
			s.Footers.Primary, s.Footers.FirstPage, s.Footers.EvenPage,
		} {
			if hf != nil {
				containers = append(containers, &hf.Container)
			}
		}
		for _, c := range containers {
			if err := ValidateTables(c.Elements); err != nil {
				return errors.WithMessagef(err, "第 %d 节", i+1)
			}
		}
	}
	return nil
}

// RowTopPadding 返回行的上内边距（行设置优先于表格默认值）。
func (t *Table) RowTopPadding(r *Row) float64 {
	if r.TopPadding != nil {
		return *r.TopPadding
	}
	return t.TopPadding
}

// RowBottomPadding 返回行的下内边距。
func (t *Table) RowBottomPadding(r *Row) float64 {
	if r.BottomPadding != nil {
		return *r.BottomPadding
	}
	return t.BottomPadding
}

// ColumnLeftPadding 返回列的左内边距。
func (t *Table) ColumnLeftPadding(c *Column) float64 {
	if c.LeftPadding != nil {
		return *c.LeftPadding
	}
	return t.LeftPadding
}

// ColumnRightPadding 返回列的右内边距。
func (t *Table) ColumnRightPadding(c *Column) float64 {
	if c.RightPadding != nil {
		return *c.RightPadding
	}
	return t.RightPadding
}

// CellVerticalAlignment 按单元格、行的顺序取垂直对齐，默认顶端对齐。
func (t *Table) CellVerticalAlignment(c *Cell) VerticalAlignment {
	if c.VerticalAlignment != VAlignUnset {
		return c.VerticalAlignment
	}
	if r := t.rows[c.row]; r.VerticalAlignment != VAlignUnset {
		return r.VerticalAlignment
	}
	return VAlignTop
}

// EffectiveShading 按单元格、行、列、表格的顺序取第一个设置过的底纹。
func (t *Table) EffectiveShading(c *Cell) *Shading {
	for _, s := range []*Shading{c.Shading, t.rows[c.row].Shading, t.columns[c.col].Shading, t.Shading} {
		if s.IsSet() {
			return s
		}
	}
	return nil
}
