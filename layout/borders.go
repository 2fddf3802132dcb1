package layout

import (
	"github.com/ByLCY/folio/document"
)

// bordersRenderer 绘制一组已解析的边框。线条以边框带的中线为路径，
// 带的外侧由调用方给出的坐标决定。
type bordersRenderer struct {
	set document.BorderSet
}

func (b bordersRenderer) width(t document.BorderType) float64 { return b.set.Width(t) }

func (b bordersRenderer) pen(t document.BorderType) (Pen, bool) {
	spec := b.set.Get(t)
	if !spec.Visible() {
		return Pen{}, false
	}
	return PenFromBorder(spec), true
}

// renderVertically 绘制从 (x, y) 向下 height 的竖边，x 为边框带的左缘。
func (b bordersRenderer) renderVertically(s Surface, t document.BorderType, x, y, height float64) {
	pen, ok := b.pen(t)
	if !ok {
		return
	}
	cx := x + pen.Width/2
	s.DrawLine(pen, cx, y, cx, y+height)
}

// renderHorizontally 绘制从 (x, y) 向右 width 的横边，y 为边框带的上缘。
func (b bordersRenderer) renderHorizontally(s Surface, t document.BorderType, x, y, width float64) {
	pen, ok := b.pen(t)
	if !ok {
		return
	}
	cy := y + pen.Width/2
	s.DrawLine(pen, x, cy, x+width, cy)
}

// renderDiagonals 在矩形内绘制两条对角线。
func (b bordersRenderer) renderDiagonals(s Surface, r Rectangle) {
	if pen, ok := b.pen(document.BorderDiagonalDown); ok {
		s.DrawLine(pen, r.X, r.Y, r.Right(), r.Y+r.Height)
	}
	if pen, ok := b.pen(document.BorderDiagonalUp); ok {
		s.DrawLine(pen, r.X, r.Y+r.Height, r.Right(), r.Y)
	}
}

// cornerArc 返回把整个矩形画成四分之一椭圆的弧线路径。椭圆中心位于圆角的对角。
func cornerArc(corner document.RoundedCorner, r Rectangle) *Path {
	w, h := r.Width, r.Height
	p := &Path{}
	switch corner {
	case document.CornerTopLeft:
		p.MoveTo(r.X, r.Y+h).ArcTo(w, h, false, true, r.X+w, r.Y)
	case document.CornerTopRight:
		p.MoveTo(r.X, r.Y).ArcTo(w, h, false, true, r.X+w, r.Y+h)
	case document.CornerBottomRight:
		p.MoveTo(r.X+w, r.Y).ArcTo(w, h, false, true, r.X, r.Y+h)
	case document.CornerBottomLeft:
		p.MoveTo(r.X+w, r.Y+h).ArcTo(w, h, false, true, r.X, r.Y)
	default:
		return nil
	}
	return p
}

// cornerFill 返回圆角单元格的填充区域：弧线加上椭圆中心围成的扇形。
func cornerFill(corner document.RoundedCorner, r Rectangle) *Path {
	p := cornerArc(corner, r)
	if p == nil {
		return nil
	}
	switch corner {
	case document.CornerTopLeft:
		p.LineTo(r.Right(), r.Y+r.Height)
	case document.CornerTopRight:
		p.LineTo(r.X, r.Y+r.Height)
	case document.CornerBottomRight:
		p.LineTo(r.X, r.Y)
	case document.CornerBottomLeft:
		p.LineTo(r.Right(), r.Y)
	}
	return p.Close()
}

// renderRounded 以圆角所在竖边的线型绘制弧线。
func (b bordersRenderer) renderRounded(s Surface, corner document.RoundedCorner, r Rectangle) {
	t := document.BorderRight
	if corner == document.CornerTopLeft || corner == document.CornerBottomLeft {
		t = document.BorderLeft
	}
	pen, ok := b.pen(t)
	if !ok {
		return
	}
	half := pen.Width / 2
	rr := Rectangle{X: r.X - half, Y: r.Y - half, Width: r.Width, Height: r.Height}
	if p := cornerArc(corner, rr); p != nil {
		s.DrawPath(&pen, nil, p)
	}
}

// renderBox 绘制段落边框：rect 为边框外缘，top/bottom 控制是否画上下边。
func (b bordersRenderer) renderBox(s Surface, r Rectangle, top, bottom bool) {
	rw := b.width(document.BorderRight)
	tw, bw := b.width(document.BorderTop), b.width(document.BorderBottom)
	if top {
		b.renderHorizontally(s, document.BorderTop, r.X, r.Y, r.Width)
	}
	if bottom {
		b.renderHorizontally(s, document.BorderBottom, r.X, r.Y+r.Height-bw, r.Width)
	}
	y, h := r.Y, r.Height
	if top {
		y += tw
		h -= tw
	}
	if bottom {
		h -= bw
	}
	b.renderVertically(s, document.BorderLeft, r.X, y, h)
	b.renderVertically(s, document.BorderRight, r.X+r.Width-rw, y, h)
}
