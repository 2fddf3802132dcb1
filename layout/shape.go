package layout

import (
	"github.com/ByLCY/folio/document"
)

// shapeLayoutInfo 把形状的定位属性翻译为布局约束。
func shapeLayoutInfo(sh document.Shape) LayoutInfo {
	li := LayoutInfo{
		MarginTop:    sh.WrapFormat.DistanceTop,
		MarginBottom: sh.WrapFormat.DistanceBottom,
		MarginLeft:   sh.WrapFormat.DistanceLeft,
		MarginRight:  sh.WrapFormat.DistanceRight,
		Top:          sh.Top.Offset,
		Left:         sh.Left.Offset,
		Floating:     FloatTopBottom,
	}
	if sh.WrapFormat.Style != document.WrapTopBottom {
		li.Floating = FloatNone
	}

	switch sh.Left.Align {
	case document.PosCenter:
		li.HorizontalAlignment = AlignCenter
	case document.PosRight:
		li.HorizontalAlignment = AlignFar
	case document.PosInside:
		li.HorizontalAlignment = AlignInside
	case document.PosOutside:
		li.HorizontalAlignment = AlignOutside
	default:
		li.HorizontalAlignment = AlignNear
	}
	switch sh.Top.Align {
	case document.PosCenter:
		li.VerticalAlignment = AlignCenter
	case document.PosBottom:
		li.VerticalAlignment = AlignFar
	default:
		li.VerticalAlignment = AlignNear
	}

	switch sh.RelativeHorizontal {
	case document.RelHorzMargin:
		li.HorizontalReference = RefPageMargin
	case document.RelHorzPage:
		li.HorizontalReference = RefPage
	default:
		li.HorizontalReference = RefAreaBoundary
	}
	switch sh.RelativeVertical {
	case document.RelVertMargin:
		li.VerticalReference = RefPageMargin
	case document.RelVertPage:
		li.VerticalReference = RefPage
	default:
		li.VerticalReference = RefPreviousElement
	}
	return li
}

// formatShape 按固定尺寸放置形状：不随文本流的形状总能放下。
func formatShape(el document.Element, sh document.Shape, width, height float64, area Area) *RenderInfo {
	li := shapeLayoutInfo(sh)
	b := area.Bounds()
	fits := li.Floating == FloatNone || b.IsUnbounded() || height <= b.Height+Tolerance
	li.ContentArea = Rectangle{X: b.X, Y: b.Y, Width: width, Height: height}
	li.StartingHeight = height
	li.TrailingHeight = height
	li.MinWidth = width
	return &RenderInfo{Element: el, LayoutInfo: li, FormatInfo: NewShapeFormatInfo(fits)}
}

func (f *ShapeFormatInfo) removeEnding() {
	f.starting, f.ending, f.empty = false, false, true
}

// renderShapeFrame 绘制形状的填充与轮廓。
func renderShapeFrame(s Surface, sh document.Shape, r Rectangle) {
	var fill *document.Color
	if sh.FillFormat.Color != nil && (sh.FillFormat.Visible == nil || *sh.FillFormat.Visible) {
		c := *sh.FillFormat.Color
		fill = &c
	}
	var pen *Pen
	if c, w, ok := sh.LineFormat.Stroke(); ok {
		pen = &Pen{Color: c, Width: w, Style: document.BorderSingle}
	}
	if fill == nil && pen == nil {
		return
	}
	s.DrawRect(pen, fill, r.X, r.Y, r.Width, r.Height)
}
