package layout

import (
	"github.com/ByLCY/folio/document"
)

// TextFrameFormatInfo 携带文本框内部的排版结果，坐标相对文本框内容区左上角。
type TextFrameFormatInfo struct {
	ShapeFormatInfo
	Inner []*RenderInfo `json:"-"`
}

type textFrameRenderer struct {
	rendererBase
	frame *document.TextFrame
}

func newTextFrameRenderer(ctx *Context, frame *document.TextFrame, fieldInfos *FieldInfos) *textFrameRenderer {
	return &textFrameRenderer{rendererBase: rendererBase{ctx: ctx, fieldInfos: fieldInfos}, frame: frame}
}

func (r *textFrameRenderer) InitialLayoutInfo() LayoutInfo { return shapeLayoutInfo(r.frame.Shape) }

// innerSize 返回内容区尺寸；竖排时宽高互换。
func (r *textFrameRenderer) innerSize() (w, h float64) {
	f := r.frame
	w = f.Width - f.MarginLeft - f.MarginRight
	h = f.Height - f.MarginTop - f.MarginBottom
	if f.Orientation != document.Horizontal {
		w, h = h, w
	}
	return max(w, 0), max(h, 0)
}

func (r *textFrameRenderer) Format(area Area, _ FormatInfo) {
	ri := formatShape(r.frame, r.frame.Shape, r.frame.Width, r.frame.Height, area)
	w, h := r.innerSize()
	p := newSingleAreaProvider(Rectangle{Width: w, Height: h}, r.fieldInfos)
	newTopDownFormatter(r.ctx, p, r.frame.Elements).formatOnAreas()
	sf := ri.FormatInfo.(*ShapeFormatInfo)
	ri.FormatInfo = &TextFrameFormatInfo{ShapeFormatInfo: *sf, Inner: p.infos}
	r.renderInfo = ri
}

// transform 返回把内容区坐标映射到页面坐标的变换。
func (r *textFrameRenderer) transform(ca Rectangle) Transform {
	f := r.frame
	x := ca.X + f.MarginLeft
	y := ca.Y + f.MarginTop
	switch f.Orientation {
	case document.Upward:
		// 文字自下而上：原点在内容区左下角，逆时针旋转。
		return Transform{X: x, Y: ca.Y + ca.Height - f.MarginBottom, Angle: -90}
	case document.Downward:
		return Transform{X: ca.X + ca.Width - f.MarginRight, Y: y, Angle: 90}
	}
	return Transform{X: x, Y: y}
}

func (r *textFrameRenderer) Render(s Surface) {
	info, ok := r.renderInfo.FormatInfo.(*TextFrameFormatInfo)
	if !ok {
		return
	}
	ca := r.renderInfo.LayoutInfo.ContentArea
	renderShapeFrame(s, r.frame.Shape, ca)
	s.Push(r.transform(ca))
	renderInfos(r.ctx, s, info.Inner, r.fieldInfos, 0, 0)
	s.Pop()
}
