package layout

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ByLCY/folio/document"
)

// 以下测试使用 200x100pt、无边距的页面，默认字号 10pt，每页恰好 10 行。

func TestParagraphSplitsAcrossPages(t *testing.T) {
	doc, s := newDoc(pageSetup(200, 100))
	p := linesParagraph(25)
	p.Format.WidowControl = false
	s.Add(p)
	fd := formatDoc(t, doc)

	require.Equal(t, 3, fd.PageCount())
	for page, want := range [][2]int{{0, 10}, {10, 20}, {20, 25}} {
		start, end := paragraphLines(t, fd, page+1, p)
		if start != want[0] || end != want[1] {
			t.Fatalf("第 %d 页行区间期望 %v，实际 [%d,%d)", page+1, want, start, end)
		}
	}
}

func TestWidowControlMovesTwoLines(t *testing.T) {
	doc, s := newDoc(pageSetup(200, 100))
	p := linesParagraph(11)
	s.Add(p)
	fd := formatDoc(t, doc)

	require.Equal(t, 2, fd.PageCount())
	start, end := paragraphLines(t, fd, 1, p)
	require.Equal(t, [2]int{0, 9}, [2]int{start, end}, "最后一行不应单独留在下一页")
	start, end = paragraphLines(t, fd, 2, p)
	require.Equal(t, [2]int{9, 11}, [2]int{start, end})
}

func TestOrphanLineForcesBreak(t *testing.T) {
	doc, s := newDoc(pageSetup(200, 100))
	p1 := linesParagraph(9)
	p2 := linesParagraph(3)
	s.Add(p1)
	s.Add(p2)
	fd := formatDoc(t, doc)

	require.Equal(t, []document.Element{p1}, elementsOn(fd, 1))
	start, end := paragraphLines(t, fd, 2, p2)
	require.Equal(t, [2]int{0, 3}, [2]int{start, end})
}

func TestKeepWithNextMovesHeading(t *testing.T) {
	doc, s := newDoc(pageSetup(200, 100))
	body := linesParagraph(8)
	heading := linesParagraph(1)
	heading.Format.KeepWithNext = true
	next := linesParagraph(3)
	next.Format.KeepTogether = true
	s.Add(body)
	s.Add(heading)
	s.Add(next)
	fd := formatDoc(t, doc)

	require.Equal(t, 2, fd.PageCount())
	require.Equal(t, []document.Element{body}, elementsOn(fd, 1))
	require.Equal(t, []document.Element{heading, next}, elementsOn(fd, 2))

	infos := fd.RenderInfos(2)
	require.InDelta(t, 0, infos[0].LayoutInfo.ContentArea.Y, Tolerance)
	require.InDelta(t, 10, infos[1].LayoutInfo.ContentArea.Y, Tolerance)
}

func TestKeepWithNextStaysWhenChainTooLong(t *testing.T) {
	doc, s := newDoc(pageSetup(200, 100))
	body := linesParagraph(8)
	heading := linesParagraph(1)
	heading.Format.KeepWithNext = true
	// 下一段整页都放不下，移动标题没有意义。
	next := linesParagraph(12)
	next.Format.KeepTogether = true
	s.Add(body)
	s.Add(heading)
	s.Add(next)
	fd := formatDoc(t, doc)

	require.Equal(t, []document.Element{body, heading}, elementsOn(fd, 1))
}

func TestKeepWithNextMovesHeadingBeforeTable(t *testing.T) {
	doc, s := newDoc(pageSetup(200, 100))
	body := linesParagraph(6)
	heading := linesParagraph(1)
	heading.Format.KeepWithNext = true
	// 标题之后只剩 30pt，放不下第一行。
	tbl := fixedTable(t, 2, 40)
	s.Add(body)
	s.Add(heading)
	s.Add(tbl)
	fd := formatDoc(t, doc)

	require.Equal(t, 2, fd.PageCount())
	require.Equal(t, []document.Element{body}, elementsOn(fd, 1))
	require.Equal(t, []document.Element{heading, tbl}, elementsOn(fd, 2))
}

func TestSpaceBeforeAndAfterCollapse(t *testing.T) {
	doc, s := newDoc(pageSetup(200, 100))
	a := linesParagraph(1)
	a.Format.SpaceAfter = 6
	b := linesParagraph(1)
	b.Format.SpaceBefore = 4
	s.Add(a)
	s.Add(b)
	fd := formatDoc(t, doc)

	infos := fd.RenderInfos(1)
	require.Len(t, infos, 2)
	require.InDelta(t, 16, infos[1].LayoutInfo.ContentArea.Y, Tolerance, "间距取两者较大值")
}

func TestPageBreakBefore(t *testing.T) {
	doc, s := newDoc(pageSetup(200, 100))
	first := linesParagraph(1)
	first.Format.PageBreakBefore = true
	second := linesParagraph(1)
	second.Format.PageBreakBefore = true
	s.Add(first)
	s.Add(second)
	fd := formatDoc(t, doc)

	// 页首的分页要求不产生空白页。
	require.Equal(t, 2, fd.PageCount())
	require.Equal(t, []document.Element{first}, elementsOn(fd, 1))
	require.Equal(t, []document.Element{second}, elementsOn(fd, 2))
}

func TestPageBreakElement(t *testing.T) {
	doc, s := newDoc(pageSetup(200, 100))
	s.AddPageBreak()
	a := linesParagraph(1)
	s.Add(a)
	s.AddPageBreak()
	b := linesParagraph(1)
	s.Add(b)
	fd := formatDoc(t, doc)

	require.Equal(t, 2, fd.PageCount())
	require.Contains(t, elementsOn(fd, 1), document.Element(a))
	require.Contains(t, elementsOn(fd, 2), document.Element(b))
}

func TestOversizedShapeOverflowsFirstPage(t *testing.T) {
	doc, s := newDoc(pageSetup(200, 100))
	frame := s.AddTextFrame(50, 300)
	p := linesParagraph(1)
	s.Add(p)
	fd := formatDoc(t, doc)

	require.Equal(t, 2, fd.PageCount())
	infos := fd.RenderInfos(1)
	require.Len(t, infos, 1)
	require.Equal(t, document.Element(frame), infos[0].Element)
	require.InDelta(t, 300, infos[0].LayoutInfo.ContentArea.Height, Tolerance)
	require.Equal(t, []document.Element{p}, elementsOn(fd, 2))
}

func TestEmptySectionStillProducesPage(t *testing.T) {
	doc, _ := newDoc(pageSetup(200, 100))
	fd := formatDoc(t, doc)
	require.Equal(t, 1, fd.PageCount())
	require.Empty(t, fd.RenderInfos(1))
}
