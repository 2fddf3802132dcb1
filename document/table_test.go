package document

import (
	"fmt"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func gridTable(t *testing.T, rows, cols int) *Table {
	t.Helper()
	tbl := NewTable()
	for c := 0; c < cols; c++ {
		_, err := tbl.AddColumn(50)
		require.NoError(t, err)
	}
	for r := 0; r < rows; r++ {
		_, err := tbl.AddRow()
		require.NoError(t, err)
	}
	return tbl
}

func mustCell(t *testing.T, tbl *Table, row, col int) *Cell {
	t.Helper()
	c, err := tbl.Cell(row, col)
	require.NoError(t, err)
	return c
}

func TestTableConfigurationErrors(t *testing.T) {
	tbl := NewTable()
	_, err := tbl.AddRow()
	require.True(t, errors.Is(err, ErrInvalidOperation), "没有列时添加行应报错: %v", err)

	tbl = gridTable(t, 1, 2)
	_, err = tbl.AddColumn(10)
	require.True(t, errors.Is(err, ErrInvalidOperation), "已有行后添加列应报错: %v", err)

	_, err = tbl.Cell(3, 0)
	require.True(t, errors.Is(err, ErrOutOfRange))
	_, err = tbl.Cell(0, -1)
	require.True(t, errors.Is(err, ErrOutOfRange))

	mustCell(t, tbl, 0, 1).MergeRight = 1
	require.True(t, errors.Is(tbl.Validate(), ErrOutOfRange), "向右合并超出网格")

	mustCell(t, tbl, 0, 1).MergeRight = 0
	mustCell(t, tbl, 0, 0).MergeDown = 1
	require.True(t, errors.Is(tbl.Validate(), ErrOutOfRange), "向下合并超出网格")
}

func TestMergedCellListSkipsCoveredCells(t *testing.T) {
	tbl := gridTable(t, 3, 3)
	origin := mustCell(t, tbl, 0, 0)
	origin.MergeRight, origin.MergeDown = 1, 1
	require.NoError(t, tbl.Validate())

	m := NewMergedCellList(tbl)
	require.Equal(t, 6, m.Len())
	require.True(t, m.IsCovered(1, 1))
	require.False(t, m.IsCovered(0, 0))
	require.Same(t, origin, m.Owner(1, 1))
	require.Same(t, mustCell(t, tbl, 0, 2), m.Neighbor(origin, BorderRight))
	require.Same(t, mustCell(t, tbl, 2, 0), m.Neighbor(origin, BorderBottom))
	require.Nil(t, m.Neighbor(origin, BorderTop))
	require.True(t, tbl.covered(1, 0))
	require.False(t, tbl.covered(1, 2))
}

func TestEffectiveBordersPrecedence(t *testing.T) {
	tbl := gridTable(t, 2, 2)
	tbl.Borders = &Borders{Width: Pt(1)}
	mustCell(t, tbl, 0, 0).Borders = &Borders{Right: &Border{Width: Pt(2)}}

	left, err := EffectiveBorders(tbl, 0, 0)
	require.NoError(t, err)
	require.Equal(t, 2.0, left.Right.Width)
	require.Equal(t, 1.0, left.Top.Width)

	right, err := EffectiveBorders(tbl, 0, 1)
	require.NoError(t, err)
	require.Equal(t, 2.0, right.Left.Width, "共享边取较宽的一侧")

	// 只有颜色时使用默认线宽
	row, err := tbl.Row(1)
	require.NoError(t, err)
	row.Borders = &Borders{Bottom: &Border{Color: RGB(255, 0, 0)}}
	tbl.Borders = nil
	bottom, err := EffectiveBorders(tbl, 1, 1)
	require.NoError(t, err)
	require.Equal(t, DefaultBorderWidth, bottom.Bottom.Width)
	require.Equal(t, Color{R: 255}, bottom.Bottom.Color)
	require.Zero(t, bottom.Top.Width)
}

func TestEffectiveBordersRoundedCorner(t *testing.T) {
	tbl := gridTable(t, 1, 2)
	tbl.Borders = &Borders{Width: Pt(1)}
	mustCell(t, tbl, 0, 0).Borders = &Borders{Right: &Border{Width: Pt(2)}}
	rounded := mustCell(t, tbl, 0, 1)
	rounded.RoundedCorner = CornerTopLeft

	set, err := EffectiveBorders(tbl, 0, 0)
	require.NoError(t, err)
	require.Equal(t, 2.0, set.Right.Width)

	set, err = EffectiveBorders(tbl, 0, 1)
	require.NoError(t, err)
	require.Equal(t, 2.0, set.Left.Width)
	require.Equal(t, 1.0, set.Top.Width, "两侧都可见时各自保留")

	// 圆角的表格定义保持不变
	require.Nil(t, rounded.Borders)
	require.Equal(t, 1.0, *tbl.Borders.Width)
}

func TestRoundedCornerKeepsBothVisibleEdges(t *testing.T) {
	tbl := gridTable(t, 1, 1)
	red := Color{R: 255}
	c := mustCell(t, tbl, 0, 0)
	c.RoundedCorner = CornerTopLeft
	c.Borders = &Borders{
		Top:  &Border{Width: Pt(2), Color: &red},
		Left: &Border{Width: Pt(0.5)},
	}

	set, err := EffectiveBorders(tbl, 0, 0)
	require.NoError(t, err)
	require.Equal(t, 2.0, set.Top.Width)
	require.Equal(t, red, set.Top.Color)
	require.Equal(t, 0.5, set.Left.Width)
	require.NotEqual(t, red, set.Left.Color)
}

func TestRoundedCornerCopiesTheOnlyVisibleEdge(t *testing.T) {
	tbl := gridTable(t, 1, 1)
	c := mustCell(t, tbl, 0, 0)
	c.RoundedCorner = CornerBottomRight
	c.Borders = &Borders{Bottom: &Border{Width: Pt(1.5)}}

	set, err := EffectiveBorders(tbl, 0, 0)
	require.NoError(t, err)
	require.Equal(t, 1.5, set.Right.Width)
	require.Equal(t, set.Bottom, set.Right)
}

func TestEffectiveBordersOfMergedCell(t *testing.T) {
	tbl := gridTable(t, 2, 2)
	origin := mustCell(t, tbl, 0, 0)
	origin.MergeDown = 1
	row, err := tbl.Row(1)
	require.NoError(t, err)
	row.Borders = &Borders{Bottom: &Border{Width: Pt(3)}}

	set, err := EffectiveBorders(tbl, 0, 0)
	require.NoError(t, err)
	require.Equal(t, 3.0, set.Bottom.Width, "下边取合并范围最后一行")

	_, err = EffectiveBorders(tbl, 1, 0)
	require.True(t, errors.Is(err, ErrInvalidOperation), "被覆盖的位置不是真实单元格")
}

func TestDocumentValidateFindsNestedTables(t *testing.T) {
	doc := New()
	s := doc.AddSection()
	s.AddParagraph("ok")
	require.NoError(t, doc.Validate())

	frame := s.AddTextFrame(100, 50)
	bad := gridTable(t, 1, 1)
	mustCell(t, bad, 0, 0).MergeRight = 3
	frame.Add(bad)

	err := doc.Validate()
	require.True(t, errors.Is(err, ErrOutOfRange), "err = %v", err)
	require.Contains(t, err.Error(), "第 1 节")
	require.Error(t, ValidateTables(frame.Elements))
}

func TestSentinelErrorsCarryNoStack(t *testing.T) {
	require.Equal(t, "超出表格范围", fmt.Sprintf("%+v", ErrOutOfRange))
	require.Equal(t, "非法的表格操作", fmt.Sprintf("%+v", ErrInvalidOperation))

	tbl := gridTable(t, 1, 1)
	mustCell(t, tbl, 0, 0).MergeDown = 1
	err := tbl.Validate()
	require.True(t, errors.Is(err, ErrOutOfRange))
	require.Equal(t, "单元格 (0,0) 向下合并 1 行超出表格: 超出表格范围", err.Error())
}

func TestHiddenBorder(t *testing.T) {
	tbl := gridTable(t, 1, 1)
	tbl.Borders = &Borders{Width: Pt(1), Top: &Border{Visible: Bool(false)}}
	set, err := EffectiveBorders(tbl, 0, 0)
	require.NoError(t, err)
	require.False(t, set.Top.Visible())
	require.Zero(t, set.Width(BorderTop))
	require.Equal(t, 1.0, set.Width(BorderLeft))
}

func TestFormatNumber(t *testing.T) {
	cases := []struct {
		n    int
		f    NumberFormat
		want string
	}{
		{7, NumberArabic, "7"},
		{4, NumberRomanLower, "iv"},
		{3999, NumberRomanUpper, "MMMCMXCIX"},
		{4000, NumberRomanUpper, "4000"},
		{1, NumberAlphaLower, "a"},
		{27, NumberAlphaLower, "aa"},
		{28, NumberAlphaUpper, "BB"},
		{0, NumberAlphaUpper, "0"},
	}
	for _, tc := range cases {
		if got := FormatNumber(tc.n, tc.f); got != tc.want {
			t.Fatalf("FormatNumber(%d, %d) = %q, 期望 %q", tc.n, tc.f, got, tc.want)
		}
	}
}
