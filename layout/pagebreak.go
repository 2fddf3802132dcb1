package layout

import (
	"github.com/ByLCY/folio/document"
)

// pageBreakRenderer 不占空间，只要求在它之前换页。页首的分页符不产生空白页。
type pageBreakRenderer struct {
	rendererBase
	pb *document.PageBreak
}

func newPageBreakRenderer(ctx *Context, pb *document.PageBreak) *pageBreakRenderer {
	return &pageBreakRenderer{rendererBase: rendererBase{ctx: ctx}, pb: pb}
}

func (r *pageBreakRenderer) InitialLayoutInfo() LayoutInfo {
	return LayoutInfo{PageBreakBefore: true, Floating: FloatTopBottom, VerticalReference: RefPreviousElement}
}

func (r *pageBreakRenderer) Format(area Area, _ FormatInfo) {
	b := area.Bounds()
	li := r.InitialLayoutInfo()
	li.ContentArea = Rectangle{X: b.X, Y: b.Y}
	r.renderInfo = &RenderInfo{
		Element:    r.pb,
		LayoutInfo: li,
		FormatInfo: &PageBreakFormatInfo{baseFormatInfo{starting: true, ending: true}},
	}
}

func (r *pageBreakRenderer) Render(Surface) {}
