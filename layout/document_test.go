package layout

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/ByLCY/folio/document"
)

func TestOddSectionStartInsertsBlankPage(t *testing.T) {
	doc, s1 := newDoc(pageSetup(200, 100))
	s1.Add(linesParagraph(1))
	s2 := doc.AddSection()
	s2.PageSetup = pageSetup(200, 100)
	s2.PageSetup.SectionStart = document.StartOddPage
	p := linesParagraph(1)
	s2.Add(p)
	fd := formatDoc(t, doc)

	require.Equal(t, 3, fd.PageCount())
	blank, err := fd.Page(2)
	require.NoError(t, err)
	require.True(t, blank.Blank)
	require.Empty(t, fd.RenderInfos(2))
	require.Equal(t, []document.Element{p}, elementsOn(fd, 3))

	info, _ := fd.Page(3)
	require.Equal(t, 2, info.Section)
}

func TestEvenSectionStart(t *testing.T) {
	doc, s1 := newDoc(pageSetup(200, 100))
	s1.Add(linesParagraph(1))
	s2 := doc.AddSection()
	s2.PageSetup = pageSetup(200, 100)
	s2.PageSetup.SectionStart = document.StartEvenPage
	s2.Add(linesParagraph(1))
	fd := formatDoc(t, doc)

	// 第二节本来就从第 2 页开始，不需要空白页。
	require.Equal(t, 2, fd.PageCount())
}

func TestStartingNumberRestartsDisplayPage(t *testing.T) {
	doc, s1 := newDoc(pageSetup(200, 100))
	s1.Add(linesParagraph(15))
	s2 := doc.AddSection()
	s2.PageSetup = pageSetup(200, 100)
	s2.PageSetup.StartingNumber = 5
	s2.Add(linesParagraph(15))
	fd := formatDoc(t, doc)

	require.Equal(t, 4, fd.PageCount())
	want := []int{1, 2, 5, 6}
	for i, w := range want {
		fi := fd.FieldInfos(i + 1)
		require.Equal(t, w, fi.DisplayPage, "page %d", i+1)
		require.Equal(t, i+1, fi.PhysicalPage)
		require.Equal(t, 2, fi.SectionPages)
		require.Equal(t, 4, fi.NumPages)
	}
}

func TestMirrorMarginsSwapOnEvenPages(t *testing.T) {
	setup := pageSetup(200, 100)
	setup.LeftMargin = 10
	setup.RightMargin = 30
	setup.MirrorMargins = true

	odd, even := contentRect(setup, 1), contentRect(setup, 2)
	require.Equal(t, 10.0, odd.X)
	require.Equal(t, 30.0, even.X)
	require.Equal(t, odd.Width, even.Width)

	setup.MirrorMargins = false
	require.Equal(t, 10.0, contentRect(setup, 2).X)
}

// headerTexts 返回每一页位于页眉区（y < limit）的文本。
func headerTexts(t *testing.T, fd *FormattedDocument, limit float64) []string {
	t.Helper()
	res, err := Snapshot(fd)
	require.NoError(t, err)
	out := make([]string, len(res.Pages))
	for i, pg := range res.Pages {
		for _, tb := range pg.Texts() {
			if tb.Y < limit {
				out[i] += tb.Content
			}
		}
	}
	return out
}

func headerDoc(n int) (*document.Document, *document.Section) {
	setup := pageSetup(200, 100)
	setup.TopMargin = 20
	setup.HeaderDistance = 5
	doc, s := newDoc(setup)
	p := linesParagraph(n)
	p.Format.WidowControl = false
	s.Add(p)
	return doc, s
}

func TestHeaderVariantsFallBackToPrimary(t *testing.T) {
	doc, s := headerDoc(24)
	s.Headers.Primary = &document.HeaderFooter{}
	s.Headers.Primary.AddParagraph("H")
	// 没有首页变体：即使开启了首页不同，也使用 Primary。
	s.PageSetup.DifferentFirstPageHeaderFooter = true
	fd := formatDoc(t, doc)

	require.Equal(t, 3, fd.PageCount())
	require.Equal(t, []string{"H", "H", "H"}, headerTexts(t, fd, 20))
}

func TestHeaderFirstAndEvenVariants(t *testing.T) {
	doc, s := headerDoc(24)
	s.Headers.Primary = &document.HeaderFooter{}
	s.Headers.Primary.AddParagraph("P")
	s.Headers.FirstPage = &document.HeaderFooter{}
	s.Headers.FirstPage.AddParagraph("F")
	s.Headers.EvenPage = &document.HeaderFooter{}
	s.Headers.EvenPage.AddParagraph("E")
	s.PageSetup.DifferentFirstPageHeaderFooter = true
	s.PageSetup.OddAndEvenPagesHeaderFooter = true
	fd := formatDoc(t, doc)

	require.Equal(t, []string{"F", "E", "P"}, headerTexts(t, fd, 20))
}

func TestFooterAnchoredToBottom(t *testing.T) {
	setup := pageSetup(200, 800)
	setup.BottomMargin = 100
	setup.FooterDistance = 50
	doc, s := newDoc(setup)
	s.Footers.Primary = &document.HeaderFooter{}
	s.Footers.Primary.Add(linesParagraph(4))
	fd := formatDoc(t, doc)

	res, err := Snapshot(fd)
	require.NoError(t, err)
	texts := res.Pages[0].Texts()
	require.Len(t, texts, 4)
	// 页脚区为 [700, 750]，四行共 40pt，首行顶边位于 710。
	require.InDelta(t, 718, texts[0].Y, Tolerance)
	require.InDelta(t, 748, texts[3].Y, Tolerance)
}

func TestFieldsResolvedAtRenderTime(t *testing.T) {
	doc, s := newDoc(pageSetup(200, 100))
	ref := document.NewParagraph()
	ref.AddText("see ").AddPageRef("end", document.NumberArabic)
	s.Add(ref)
	s.AddPageBreak()
	end := document.NewParagraph()
	end.AddBookmark("end").AddText("end")
	s.Add(end)

	s.Footers.Primary = &document.HeaderFooter{}
	s.Footers.Primary.AddParagraph("").
		AddField(document.FieldPage, document.NumberArabic).
		AddText("/").
		AddField(document.FieldNumPages, document.NumberRomanLower)
	fd := formatDoc(t, doc)

	require.Equal(t, 2, fd.PageCount())
	require.Equal(t, BookmarkInfo{PhysicalPage: 2, DisplayPage: 2}, fd.Bookmarks()["end"])

	res, err := Snapshot(fd)
	require.NoError(t, err)
	contents := func(pg Page) []string {
		var out []string
		for _, tb := range pg.Texts() {
			out = append(out, tb.Content)
		}
		return out
	}
	require.Equal(t, []string{"see 2", "1/ii"}, contents(res.Pages[0]))
	require.Equal(t, []string{"end", "2/ii"}, contents(res.Pages[1]))
}

func TestUnknownPageRefRendersPlaceholder(t *testing.T) {
	doc, s := newDoc(pageSetup(200, 100))
	p := document.NewParagraph()
	p.AddPageRef("missing", document.NumberArabic)
	s.Add(p)

	var logs bytes.Buffer
	opts := testOptions()
	opts.Logger = slog.New(slog.NewTextHandler(&logs, nil))
	fd, err := NewFormattedDocument(doc, opts)
	require.NoError(t, err)
	require.NoError(t, fd.Format(context.Background()))

	res, err := Snapshot(fd)
	require.NoError(t, err)
	require.Equal(t, "??", res.Pages[0].Texts()[0].Content)
	require.Contains(t, logs.String(), "bookmark=missing")
}

func TestFormatHonorsCancellation(t *testing.T) {
	doc, s := newDoc(pageSetup(200, 100))
	s.Add(linesParagraph(100))
	fd, err := NewFormattedDocument(doc, testOptions())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = fd.Format(ctx)
	require.Error(t, err)
	require.True(t, errors.Is(err, context.Canceled))
}

func TestNewFormattedDocumentRequiresMeasurer(t *testing.T) {
	_, err := NewFormattedDocument(document.New(), Options{})
	require.Error(t, err)
	_, err = NewFormattedDocument(nil, testOptions())
	require.Error(t, err)
}

func TestFormatReturnsTableConfigurationError(t *testing.T) {
	doc, s := newDoc(pageSetup(200, 100))
	tbl := fixedTable(t, 2, 20)
	c, err := tbl.Cell(0, 0)
	require.NoError(t, err)
	c.MergeDown = 5
	s.Add(tbl)

	fd, err := NewFormattedDocument(doc, testOptions())
	require.NoError(t, err)
	err = fd.Format(context.Background())
	require.True(t, errors.Is(err, document.ErrOutOfRange), "err = %v", err)
	require.Zero(t, fd.PageCount())
}

func TestFormatReturnsErrorFromFooterTable(t *testing.T) {
	doc, s := newDoc(pageSetup(200, 100))
	s.AddParagraph("body")
	s.Footers.EvenPage = &document.HeaderFooter{}
	outer := fixedTable(t, 1, 20)
	cell, err := outer.Cell(0, 0)
	require.NoError(t, err)
	inner := fixedTable(t, 1, 10)
	innerCell, err := inner.Cell(0, 0)
	require.NoError(t, err)
	innerCell.MergeRight = 1
	cell.Add(inner)
	s.Footers.EvenPage.Add(outer)

	fd, err := NewFormattedDocument(doc, testOptions())
	require.NoError(t, err)
	err = fd.Format(context.Background())
	require.True(t, errors.Is(err, document.ErrOutOfRange), "err = %v", err)
	require.Contains(t, err.Error(), "第 1 节")
}

func TestRenderPageOutOfRange(t *testing.T) {
	doc, _ := newDoc(pageSetup(200, 100))
	fd := formatDoc(t, doc)
	require.Error(t, fd.RenderPage(2, NewRecorder(stubMeasurer{})))
	require.Nil(t, fd.RenderInfos(0))
}

func TestListNumberingByIdentity(t *testing.T) {
	l := newListNumbering()
	a := &document.ListInfo{ListType: document.NumberList1}
	b := &document.ListInfo{ListType: document.NumberList1}
	restart := &document.ListInfo{ListType: document.NumberList1, Restart: true}
	alpha := &document.ListInfo{ListType: document.NumberList2}

	require.Equal(t, "1.", l.label(a))
	require.Equal(t, "1.", l.label(a), "同一列表项重复排版时编号不变")
	require.Equal(t, "2.", l.label(b))
	require.Equal(t, "1.", l.label(restart))
	require.Equal(t, "a.", l.label(alpha))
	require.Equal(t, "•", l.label(&document.ListInfo{ListType: document.BulletList1}))
}

func TestListLabelDrawnOnFirstLine(t *testing.T) {
	doc, s := newDoc(pageSetup(200, 100))
	info := &document.ListInfo{ListType: document.NumberList3}
	for i := 0; i < 2; i++ {
		p := linesParagraph(2)
		p.Format.LeftIndent = 20
		p.Format.ListInfo = &document.ListInfo{ListType: info.ListType}
		s.Add(p)
	}
	fd := formatDoc(t, doc)

	res, err := Snapshot(fd)
	require.NoError(t, err)
	var labels []string
	for _, tb := range res.Pages[0].Texts() {
		if tb.Content != "x" {
			labels = append(labels, tb.Content)
		}
	}
	require.Equal(t, []string{"i.", "ii."}, labels)
}

func TestListNumberingContinuesAcrossPages(t *testing.T) {
	doc, s := newDoc(pageSetup(200, 100))
	item := func(lines int, restart bool) {
		p := linesParagraph(lines)
		p.Format.LeftIndent = 20
		p.Format.ListInfo = &document.ListInfo{ListType: document.NumberList1, Restart: restart}
		s.Add(p)
	}
	item(10, false)
	item(1, false)
	item(1, false)
	s.AddPageBreak()
	item(1, true)
	fd := formatDoc(t, doc)

	require.Equal(t, 3, fd.PageCount())
	res, err := Snapshot(fd)
	require.NoError(t, err)
	labels := func(pg Page) []string {
		var out []string
		for _, tb := range pg.Texts() {
			if tb.Content != "x" {
				out = append(out, tb.Content)
			}
		}
		return out
	}
	require.Equal(t, []string{"1."}, labels(res.Pages[0]))
	require.Equal(t, []string{"2.", "3."}, labels(res.Pages[1]))
	require.Equal(t, []string{"1."}, labels(res.Pages[2]), "Restart 重新编号")
}

func TestUpwardTextFrameRotatesContent(t *testing.T) {
	doc, s := newDoc(pageSetup(200, 200))
	frame := s.AddTextFrame(50, 100)
	frame.Orientation = document.Upward
	frame.AddParagraph("abc")
	fd := formatDoc(t, doc)

	res, err := Snapshot(fd)
	require.NoError(t, err)
	var kinds []OpKind
	var push *Transform
	for _, op := range res.Pages[0].Ops {
		kinds = append(kinds, op.Kind)
		if op.Kind == OpPush {
			push = op.Transform
		}
	}
	require.NotNil(t, push)
	require.Equal(t, Transform{X: 0, Y: 100, Angle: -90}, *push)
	require.Equal(t, []OpKind{OpPush, OpText, OpPop}, kinds[len(kinds)-3:])

	// 竖排时内部按 100x50 的区域排版。
	fi := fd.RenderInfos(1)[0].FormatInfo.(*TextFrameFormatInfo)
	require.Len(t, fi.Inner, 1)
	require.InDelta(t, 100, fi.Inner[0].LayoutInfo.ContentArea.Width, Tolerance)
}
