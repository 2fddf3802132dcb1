package canvasrenderer

import (
	"github.com/tdewolff/canvas"

	"github.com/ByLCY/folio/document"
	"github.com/ByLCY/folio/layout"
)

// surface 把布局的绘制调用转发给一页 canvas。坐标在此从 pt 换算为 mm。
type surface struct {
	*Renderer
	ctx *canvas.Context
}

var _ layout.Surface = (*surface)(nil)

func (s *surface) DrawText(font layout.Font, x, baseline float64, text string) {
	face, err := s.fontFace(font)
	if err != nil {
		s.logger.Warn("无法绘制文本", "font", font.Name, "err", err.Error())
		return
	}
	s.ctx.DrawText(toMm(x), toMm(baseline), canvas.NewTextLine(face, text, canvas.Left))
}

func (s *surface) stroke(pen layout.Pen) {
	w := toMm(pen.Width)
	s.ctx.SetStrokeColor(colorFromDocument(pen.Color))
	s.ctx.SetStrokeWidth(w)
	s.ctx.SetDashes(0, dashes(pen.Style, w)...)
}

// dashes 返回线型对应的虚线段长度（mm）。
func dashes(style document.BorderStyle, w float64) []float64 {
	if w <= 0 {
		w = 0.1
	}
	switch style {
	case document.BorderDot:
		return []float64{w, w}
	case document.BorderDashSmallGap:
		return []float64{3 * w, w}
	case document.BorderDashLargeGap:
		return []float64{3 * w, 3 * w}
	case document.BorderDashDot:
		return []float64{3 * w, w, w, w}
	case document.BorderDashDotDot:
		return []float64{3 * w, w, w, w, w, w}
	}
	return nil
}

func (s *surface) DrawLine(pen layout.Pen, x1, y1, x2, y2 float64) {
	s.stroke(pen)
	s.ctx.SetFillColor(transparent)
	p := &canvas.Path{}
	p.MoveTo(0, 0)
	p.LineTo(toMm(x2-x1), toMm(y2-y1))
	s.ctx.DrawPath(toMm(x1), toMm(y1), p)
}

func (s *surface) paint(pen *layout.Pen, fill *document.Color) {
	if fill != nil {
		s.ctx.SetFillColor(colorFromDocument(*fill))
	} else {
		s.ctx.SetFillColor(transparent)
	}
	if pen != nil {
		s.stroke(*pen)
	} else {
		s.ctx.SetStrokeColor(transparent)
	}
}

func (s *surface) DrawRect(pen *layout.Pen, fill *document.Color, x, y, width, height float64) {
	if pen == nil && fill == nil {
		return
	}
	s.paint(pen, fill)
	s.ctx.DrawPath(toMm(x), toMm(y), canvas.Rectangle(toMm(width), toMm(height)))
}

func (s *surface) DrawPath(pen *layout.Pen, fill *document.Color, path *layout.Path) {
	if path == nil || (pen == nil && fill == nil) {
		return
	}
	s.paint(pen, fill)
	s.ctx.DrawPath(0, 0, convertPath(path))
}

// convertPath 把布局路径转换为 canvas 路径（mm）。
func convertPath(path *layout.Path) *canvas.Path {
	p := &canvas.Path{}
	for _, op := range path.Ops {
		a := op.Args
		switch op.Kind {
		case "M":
			p.MoveTo(toMm(a[0]), toMm(a[1]))
		case "L":
			p.LineTo(toMm(a[0]), toMm(a[1]))
		case "A":
			p.ArcTo(toMm(a[0]), toMm(a[1]), 0, a[2] != 0, a[3] != 0, toMm(a[4]), toMm(a[5]))
		case "Z":
			p.Close()
		}
	}
	return p
}

// DrawImage 以图片宽度确定分辨率，高度与固有比例不同时纵向缩放。
func (s *surface) DrawImage(path string, x, y, width, height float64) error {
	img, err := s.loadImage(path)
	if err != nil {
		return err
	}
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 || width <= 0 || height <= 0 {
		return nil
	}
	wmm, hmm := toMm(width), toMm(height)
	dpmm := float64(b.Dx()) / wmm
	natural := float64(b.Dy()) / dpmm
	s.ctx.Push()
	s.ctx.ComposeView(canvas.Identity.Translate(toMm(x), toMm(y)).Scale(1, hmm/natural))
	s.ctx.DrawImage(0, 0, img, canvas.DPMM(dpmm))
	s.ctx.Pop()
	return nil
}

func (s *surface) Push(t layout.Transform) {
	s.ctx.Push()
	s.ctx.ComposeView(canvas.Identity.Translate(toMm(t.X), toMm(t.Y)).Rotate(t.Angle))
}

func (s *surface) Pop() { s.ctx.Pop() }
