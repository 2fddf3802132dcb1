package layout

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/ByLCY/folio/document"
)

// stubMeasurer 是测试用的等宽测量器：每个字符宽 0.5 倍字号，行高等于字号。
// 避免引入 renderer 造成循环依赖。
type stubMeasurer struct{}

func (stubMeasurer) TextWidth(font Font, text string) float64 {
	return float64(utf8.RuneCountInString(text)) * font.Size * 0.5
}

func (stubMeasurer) FontMetrics(font Font) FontMetrics {
	return FontMetrics{Ascent: font.Size * 0.8, Descent: font.Size * 0.2, LineHeight: font.Size}
}

func testOptions() Options {
	return Options{Measurer: stubMeasurer{}, DefaultFontSize: 10}
}

// pageSetup 返回无边距的页面，正文区域即整页。
func pageSetup(width, height float64) document.PageSetup {
	return document.PageSetup{PageWidth: width, PageHeight: height}
}

// newDoc 创建只有一节的文档。
func newDoc(setup document.PageSetup) (*document.Document, *document.Section) {
	doc := document.New()
	s := doc.AddSection()
	s.PageSetup = setup
	return doc, s
}

// linesParagraph 返回恰好 n 行（以显式换行分隔）的段落。
func linesParagraph(n int) *document.Paragraph {
	p := document.NewParagraph()
	parts := make([]string, n)
	for i := range parts {
		parts[i] = "x"
	}
	p.AddText(strings.Join(parts, "\n"))
	return p
}

func formatDoc(t *testing.T, doc *document.Document) *FormattedDocument {
	t.Helper()
	fd, err := NewFormattedDocument(doc, testOptions())
	if err != nil {
		t.Fatalf("创建排版会话失败: %v", err)
	}
	if err := fd.Format(context.Background()); err != nil {
		t.Fatalf("排版失败: %v", err)
	}
	return fd
}

// elementsOn 返回第 n 页正文上的元素（按放置顺序）。
func elementsOn(fd *FormattedDocument, n int) []document.Element {
	var out []document.Element
	for _, ri := range fd.RenderInfos(n) {
		out = append(out, ri.Element)
	}
	return out
}

// paragraphLines 返回第 n 页上段落 p 放下的行区间。
func paragraphLines(t *testing.T, fd *FormattedDocument, n int, p *document.Paragraph) (int, int) {
	t.Helper()
	for _, ri := range fd.RenderInfos(n) {
		if ri.Element == p {
			fi := ri.FormatInfo.(*ParagraphFormatInfo)
			return fi.StartLine, fi.EndLine
		}
	}
	t.Fatalf("第 %d 页上没有找到段落", n)
	return 0, 0
}
