package canvasrenderer

import (
	"bytes"
	"context"
	"testing"

	"github.com/ByLCY/folio/document"
	"github.com/ByLCY/folio/layout"
)

func bodyFont(size float64) layout.Font {
	return layout.Font{Name: document.DefaultFontName, Size: size}
}

func TestTextWidthScalesWithSize(t *testing.T) {
	r := NewRenderer(".")
	small := r.TextWidth(bodyFont(10), "hello world")
	large := r.TextWidth(bodyFont(20), "hello world")
	if small <= 0 {
		t.Fatalf("文本宽度应为正数，实际 %g", small)
	}
	if diff := large - 2*small; diff > 1e-6 || diff < -1e-6 {
		t.Fatalf("字号加倍时宽度应加倍: small=%g large=%g", small, large)
	}
	if w := r.TextWidth(bodyFont(10), ""); w != 0 {
		t.Fatalf("空文本宽度应为 0，实际 %g", w)
	}
}

func TestFontMetricsInPoints(t *testing.T) {
	r := NewRenderer(".")
	m := r.FontMetrics(bodyFont(12))
	if m.Ascent <= 0 || m.Ascent >= 12 {
		t.Fatalf("12pt 字体的上升部应在 (0,12) 之间，实际 %g", m.Ascent)
	}
	if m.LineHeight < 12 || m.LineHeight > 20 {
		t.Fatalf("12pt 字体的行高不合理: %g", m.LineHeight)
	}
}

func TestUnknownFontFallsBackToBuiltin(t *testing.T) {
	r := NewRenderer(".")
	if w := r.TextWidth(layout.Font{Name: "Missing", Size: 10}, "abc"); w <= 0 {
		t.Fatalf("未知字体应回退到内置字体，宽度 %g", w)
	}
}

func TestFontResourceFallbackChain(t *testing.T) {
	r := NewRendererWithOptions(Options{FontResources: map[string]document.FontResource{
		"Broken": {Name: "Broken", Src: "built-in:nothing", Fallback: "Mono"},
		"Mono":   {Name: "Mono", Src: "embed:Go-Mono"},
	}})
	// 等宽字体中所有字符同宽。
	w1 := r.TextWidth(layout.Font{Name: "Broken", Size: 10}, "iii")
	w2 := r.TextWidth(layout.Font{Name: "Broken", Size: 10}, "WWW")
	if w1 <= 0 || w1 != w2 {
		t.Fatalf("应使用 fallback 等宽字体: iii=%g WWW=%g", w1, w2)
	}
}

// 当第一行宽度与容器宽度恰好相等且后面紧跟一个显式换行时，不应产生额外的空行。
func TestNoBlankLineWhenEqualWidthThenNewline(t *testing.T) {
	r := NewRenderer(".")
	first := "SAMPLE-A"
	limit := r.TextWidth(bodyFont(12), first)

	doc := document.New()
	s := doc.AddSection()
	s.PageSetup = document.PageSetup{PageWidth: limit, PageHeight: 500}
	p := s.AddParagraph(first + "\nS")
	p.Format.Font.Size = 12

	fd, err := layout.NewFormattedDocument(doc, layout.Options{Measurer: r})
	if err != nil {
		t.Fatalf("创建排版会话失败: %v", err)
	}
	if err := fd.Format(context.Background()); err != nil {
		t.Fatalf("排版失败: %v", err)
	}
	fi := fd.RenderInfos(1)[0].FormatInfo.(*layout.ParagraphFormatInfo)
	if fi.LineCount != 2 {
		t.Fatalf("期望 2 行，实际 %d", fi.LineCount)
	}
}

func TestRenderProducesPDF(t *testing.T) {
	r := NewRenderer(".")
	doc := document.New()
	doc.Info.Title = "demo"
	s := doc.AddSection()
	s.AddParagraph("hello world")
	s.AddPageBreak()
	tbl := s.AddTable()
	tbl.AddColumn(100)
	row, _ := tbl.AddRow()
	w := 0.5
	tbl.Borders = &document.Borders{Width: &w}
	c, _ := row.Cell(0)
	c.AddParagraph("cell")
	c.RoundedCorner = document.CornerTopLeft

	fd, err := layout.NewFormattedDocument(doc, layout.Options{Measurer: r})
	if err != nil {
		t.Fatalf("创建排版会话失败: %v", err)
	}
	if err := fd.Format(context.Background()); err != nil {
		t.Fatalf("排版失败: %v", err)
	}
	data, err := r.Render(fd)
	if err != nil {
		t.Fatalf("渲染失败: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("输出不是 PDF")
	}
}

func TestDashesFollowBorderStyle(t *testing.T) {
	if d := dashes(document.BorderSingle, 1); d != nil {
		t.Fatalf("实线不应有虚线段: %v", d)
	}
	if d := dashes(document.BorderDashDot, 1); len(d) != 4 {
		t.Fatalf("点划线应有 4 段: %v", d)
	}
}

func TestImageSizeErrors(t *testing.T) {
	r := NewRenderer("")
	if _, _, err := r.ImageSize("relative.png"); err == nil {
		t.Fatalf("未指定资源目录时相对路径应报错")
	}
	if _, _, err := r.ImageSize("built-in:logo"); err == nil {
		t.Fatalf("缺少内置图片应报错")
	}
}
