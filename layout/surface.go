package layout

import (
	"github.com/ByLCY/folio/document"
)

// Font 是测量与绘制文本时使用的字体。
type Font struct {
	Name   string         `json:"name"`
	Size   float64        `json:"size"`
	Bold   bool           `json:"bold,omitempty"`
	Italic bool           `json:"italic,omitempty"`
	Color  document.Color `json:"color"`
}

// FontMetrics 以 pt 表示。
type FontMetrics struct {
	Ascent     float64
	Descent    float64
	LineHeight float64
}

// Measurer 负责文本测量，排版阶段只依赖它。
type Measurer interface {
	TextWidth(font Font, text string) float64
	FontMetrics(font Font) FontMetrics
}

// Pen 是描边参数。
type Pen struct {
	Color document.Color       `json:"color"`
	Width float64              `json:"width"`
	Style document.BorderStyle `json:"style,omitempty"`
}

// PenFromBorder 把解析后的边框转换为画笔。
func PenFromBorder(b document.BorderSpec) Pen {
	return Pen{Color: b.Color, Width: b.Width, Style: b.Style}
}

// Transform 先平移到 (X, Y) 再绕该点旋转 Angle 度（顺时针，y 向下）。
type Transform struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Angle float64 `json:"angle"`
}

// Surface 是绘制目标。渲染阶段只通过它输出图形。
type Surface interface {
	Measurer
	// DrawText 以 (x, baseline) 为基线起点绘制一行文本。
	DrawText(font Font, x, baseline float64, text string)
	DrawLine(pen Pen, x1, y1, x2, y2 float64)
	// DrawRect 绘制矩形，pen 或 fill 为 nil 时跳过对应部分。
	DrawRect(pen *Pen, fill *document.Color, x, y, width, height float64)
	DrawPath(pen *Pen, fill *document.Color, path *Path)
	DrawImage(path string, x, y, width, height float64) error
	Push(t Transform)
	Pop()
}

// ImageSizer 由能读取图片尺寸的表面实现，返回值单位为 pt。
type ImageSizer interface {
	ImageSize(path string) (width, height float64, err error)
}

// PathOp 是路径中的一段。
type PathOp struct {
	Kind string    `json:"kind"`
	Args []float64 `json:"args,omitempty"`
}

// Path 是由直线与椭圆弧组成的路径。
type Path struct {
	Ops []PathOp `json:"ops"`
}

func (p *Path) MoveTo(x, y float64) *Path {
	p.Ops = append(p.Ops, PathOp{Kind: "M", Args: []float64{x, y}})
	return p
}

func (p *Path) LineTo(x, y float64) *Path {
	p.Ops = append(p.Ops, PathOp{Kind: "L", Args: []float64{x, y}})
	return p
}

// ArcTo 以 SVG 语义追加椭圆弧，sweep 为真表示顺时针（y 向下）。
func (p *Path) ArcTo(rx, ry float64, large, sweep bool, x, y float64) *Path {
	p.Ops = append(p.Ops, PathOp{Kind: "A", Args: []float64{rx, ry, b2f(large), b2f(sweep), x, y}})
	return p
}

func (p *Path) Close() *Path {
	p.Ops = append(p.Ops, PathOp{Kind: "Z"})
	return p
}

func b2f(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
