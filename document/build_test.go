package document

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ByLCY/folio/dsl"
)

const invoiceDSL = `
doc Invoice v1 {
  meta {
    title: "Invoice ${order.id}"
    author: "Ops"
    keywords: ["finance", "internal"]
  }

  resources {
    font Body { src: "embed:Go-Regular" }
    color Accent = #0F62FE
    style Base { size: 10pt }
    style Title extends Base { size: 18pt; bold: true }
    image logo { src: "logo.png"; width: 40pt }
  }

  section A4 landscape margin 18mm start odd number 5 {
    header first { "Cover" }
    footer { paragraph align right { field page format roman } }

    paragraph "Hello, ${user.name}!" Title align center color Accent
    paragraph Base list number { "item" }

    table border 0.5pt {
      column 100pt
      column
      row heading true height 20pt {
        cell { "Name" }
        cell merge-down 1 { "Qty" }
      }
      row {
        cell shading #eee { "pen" }
      }
    }
    frame width 100pt height 40pt orientation upward margin 2pt { "side" }
    image logo
    pagebreak
    "tail ${missing|-}"
  }
}
`

func buildInvoice(t *testing.T) *Document {
	t.Helper()
	ast, err := dsl.ParseString(invoiceDSL)
	require.NoError(t, err)
	data := map[string]any{
		"user":  map[string]any{"name": "Ada"},
		"order": map[string]any{"id": 42},
	}
	doc, err := FromDSL(ast, data)
	require.NoError(t, err)
	return doc
}

func TestFromDSLMetaAndResources(t *testing.T) {
	doc := buildInvoice(t)
	require.Equal(t, "Invoice ${order.id}", doc.Info.Title, "meta 不做数据插值")
	require.Equal(t, "Ops", doc.Info.Author)
	require.Equal(t, "folio", doc.Info.Creator)
	require.Equal(t, []string{"finance", "internal"}, doc.Info.Keywords)

	require.Equal(t, "embed:Go-Regular", doc.Resources.Fonts["Body"].Src)
	require.Equal(t, Color{R: 0x0F, G: 0x62, B: 0xFE}, doc.Resources.Colors["Accent"])
	require.Equal(t, map[string]string{"size": "18pt", "bold": "true"}, doc.Resources.Styles["Title"].Props)
	require.Equal(t, 40.0, doc.Resources.Images["logo"].Width)
}

func TestFromDSLPageSetup(t *testing.T) {
	doc := buildInvoice(t)
	require.Len(t, doc.Sections, 1)
	ps := doc.Sections[0].PageSetup
	require.Equal(t, PageSizes["A4"][1], ps.PageWidth, "landscape 交换宽高")
	require.Equal(t, PageSizes["A4"][0], ps.PageHeight)
	want := Length{Value: 18, Unit: UnitMM}.ToPT()
	for _, m := range []float64{ps.TopMargin, ps.RightMargin, ps.BottomMargin, ps.LeftMargin} {
		require.InDelta(t, want, m, 1e-9)
	}
	require.Equal(t, StartOddPage, ps.SectionStart)
	require.Equal(t, 5, ps.StartingNumber)
	require.True(t, ps.DifferentFirstPageHeaderFooter)
	require.False(t, ps.OddAndEvenPagesHeaderFooter)

	s := doc.Sections[0]
	require.NotNil(t, s.Headers.FirstPage)
	require.Nil(t, s.Headers.Primary)
	require.NotNil(t, s.Footers.Primary)
	footer := s.Footers.Primary.Elements[0].(*Paragraph)
	require.Equal(t, AlignRight, footer.Format.Alignment)
	require.Equal(t, []Inline{Field{Type: FieldPage, Format: NumberRomanLower}}, footer.Inlines)
}

func TestFromDSLContent(t *testing.T) {
	doc := buildInvoice(t)
	els := doc.Sections[0].Elements
	kinds := make([]string, 0, len(els))
	for _, el := range els {
		kinds = append(kinds, el.Kind().String())
	}
	require.Len(t, els, 7, "元素: %v", kinds)

	title := els[0].(*Paragraph)
	require.Equal(t, "Hello, Ada!", title.PlainText())
	require.Equal(t, 18.0, title.Format.Font.Size)
	require.True(t, title.Format.Font.Bold)
	require.Equal(t, AlignCenter, title.Format.Alignment)
	require.Equal(t, &Color{R: 0x0F, G: 0x62, B: 0xFE}, title.Format.Font.Color)

	item := els[1].(*Paragraph)
	require.Equal(t, 10.0, item.Format.Font.Size)
	require.NotNil(t, item.Format.ListInfo)
	require.Equal(t, NumberList1, item.Format.ListInfo.ListType)

	tbl := els[2].(*Table)
	require.Equal(t, 2, tbl.ColumnCount())
	require.Equal(t, 2, tbl.RowCount())
	require.Equal(t, 100.0, tbl.Columns()[0].Width)
	require.Zero(t, tbl.Columns()[1].Width)
	require.True(t, tbl.Rows()[0].HeadingFormat)
	require.Equal(t, HeightAtLeast, tbl.Rows()[0].HeightRule)
	require.Equal(t, 1, tbl.Rows()[0].Cells()[1].MergeDown)
	require.NotNil(t, tbl.Rows()[1].Cells()[0].Shading)
	require.Empty(t, tbl.Rows()[1].Cells()[1].Elements, "被合并覆盖的单元格没有内容")
	require.Equal(t, 0.5, *tbl.Borders.Width)

	frame := els[3].(*TextFrame)
	require.Equal(t, Upward, frame.Orientation)
	require.Equal(t, 2.0, frame.MarginLeft)
	require.Equal(t, 100.0, frame.Width)
	require.Len(t, frame.Elements, 1)

	img := els[4].(*Image)
	require.Equal(t, "logo.png", img.Path)
	require.Equal(t, 40.0, img.Width)

	require.Equal(t, KindPageBreak, els[5].Kind())
	require.Equal(t, "tail -", els[6].(*Paragraph).PlainText())
}

func TestFromDSLErrors(t *testing.T) {
	cases := map[string]string{
		"缺少 section": `doc X { meta { title: "t" } }`,
		"未知页面参数":     `doc X { section B9 { "x" } }`,
		"未定义的父样式":    "doc X {\n resources { style A extends B { size: 1pt } }\n section A4 { \"x\" }\n}",
		"样式循环继承":     "doc X {\n resources {\n  style A extends B { size: 1pt }\n  style B extends A { size: 2pt }\n }\n section A4 { \"x\" }\n}",
		"合并超出表格":     "doc X {\n section A4 {\n  table {\n   column 10pt\n   row { cell merge-right 1 { \"x\" } }\n  }\n }\n}",
		"页眉变体未知":     "doc X {\n section A4 {\n  header middle { \"x\" }\n }\n}",
		"frame 缺少尺寸": "doc X {\n section A4 {\n  frame { \"x\" }\n }\n}",
	}
	for name, src := range cases {
		ast, err := dsl.ParseString(src)
		if err != nil {
			t.Fatalf("%s: 语法应当合法: %v", name, err)
		}
		if _, err := FromDSL(ast, nil); err == nil {
			t.Fatalf("%s: 期望构建失败", name)
		}
	}
}

func TestFromDSLErrorMentionsLine(t *testing.T) {
	ast, err := dsl.ParseString("doc X {\n section A4 {\n  \"a\"\n  paragraph list zigzag { \"x\" }\n }\n}")
	require.NoError(t, err)
	_, err = FromDSL(ast, nil)
	require.Error(t, err)
	require.True(t, strings.Contains(err.Error(), "第 4 行"), err.Error())
}

func TestParsePointsWithinBuild(t *testing.T) {
	b := &builder{res: NewResources()}
	require.InDelta(t, 72, b.length("1in", 0), 1e-6)
	require.Equal(t, 3.0, b.length("bogus", 3))
	require.True(t, math.Abs(b.length("10mm", 0)-28.3465) < 1e-3)
}
