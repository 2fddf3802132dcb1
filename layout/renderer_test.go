package layout

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ByLCY/folio/document"
)

const stampKind document.Kind = 100

// stamp 是只在测试中注册的自定义节点：固定高度的一行文字。
type stamp struct{ label string }

func (*stamp) Kind() document.Kind { return stampKind }

type stampRenderer struct {
	el *stamp
	ri *RenderInfo
}

func (r *stampRenderer) InitialLayoutInfo() LayoutInfo {
	return LayoutInfo{Floating: FloatTopBottom, VerticalReference: RefPreviousElement}
}

func (r *stampRenderer) Format(area Area, _ FormatInfo) {
	li := r.InitialLayoutInfo()
	b := area.Bounds()
	fit := area.GetFittingRect(b.Y, 30)
	li.ContentArea = Rectangle{X: b.X, Y: b.Y, Width: b.Width, Height: 30}
	li.StartingHeight, li.TrailingHeight = 30, 30
	r.ri = &RenderInfo{Element: r.el, LayoutInfo: li, FormatInfo: NewShapeFormatInfo(fit != nil)}
}

func (r *stampRenderer) RenderInfo() *RenderInfo      { return r.ri }
func (r *stampRenderer) SetMaxElementHeight(float64)  {}
func (r *stampRenderer) SetRenderInfo(ri *RenderInfo) { r.ri = ri }

func (r *stampRenderer) Render(s Surface) {
	a := r.ri.LayoutInfo.ContentArea
	s.DrawText(Font{Size: 10}, a.X, a.Y+8, r.el.label)
}

func TestRegisteredRendererFormatsCustomKind(t *testing.T) {
	RegisterRenderer(stampKind, func(_ *Context, el document.Element, _ *FieldInfos) Renderer {
		return &stampRenderer{el: el.(*stamp)}
	})

	doc, s := newDoc(pageSetup(200, 100))
	stamps := []*stamp{{"a"}, {"b"}, {"c"}, {"d"}}
	for _, st := range stamps {
		s.Add(st)
	}
	fd := formatDoc(t, doc)

	require.Equal(t, 2, fd.PageCount())
	require.Equal(t, []document.Element{stamps[0], stamps[1], stamps[2]}, elementsOn(fd, 1))
	require.Equal(t, []document.Element{stamps[3]}, elementsOn(fd, 2))
	require.InDelta(t, 60, fd.RenderInfos(1)[2].LayoutInfo.ContentArea.Y, Tolerance)

	rec := NewRecorder(stubMeasurer{})
	require.NoError(t, fd.RenderPage(2, rec))
	texts := rec.Page().Texts()
	require.Len(t, texts, 1)
	require.Equal(t, "d", texts[0].Content)
	require.InDelta(t, 8, texts[0].Y, Tolerance)
}

func TestUnknownKindIsSkipped(t *testing.T) {
	doc, s := newDoc(pageSetup(200, 100))
	s.Add(&unknownElement{})
	s.AddParagraph("after")
	fd := formatDoc(t, doc)

	require.Equal(t, 1, fd.PageCount())
	els := elementsOn(fd, 1)
	require.Len(t, els, 1)
	require.Equal(t, document.KindParagraph, els[0].Kind())
}

type unknownElement struct{}

func (*unknownElement) Kind() document.Kind { return document.Kind(101) }
