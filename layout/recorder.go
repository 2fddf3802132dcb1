package layout

import (
	"github.com/ByLCY/folio/document"
)

// Recorder 是只记录绘制指令的 Surface，用于调试输出与测试。
type Recorder struct {
	Measurer
	page Page
}

var _ Surface = (*Recorder)(nil)

// NewRecorder 使用 m 测量文本。
func NewRecorder(m Measurer) *Recorder {
	return &Recorder{Measurer: m}
}

// Page 返回已记录的指令。
func (r *Recorder) Page() Page { return r.page }

// Reset 清空记录并设置新的页面信息。
func (r *Recorder) Reset(info PageInfo, fields *FieldInfos) {
	r.page = Page{PageInfo: info, Fields: fields}
}

func (r *Recorder) add(op Op) { r.page.Ops = append(r.page.Ops, op) }

func (r *Recorder) DrawText(font Font, x, baseline float64, text string) {
	r.add(Op{Kind: OpText, Text: &TextBox{
		Content: text, X: x, Y: baseline, Width: r.TextWidth(font, text), Font: font,
	}})
}

func (r *Recorder) DrawLine(pen Pen, x1, y1, x2, y2 float64) {
	r.add(Op{Kind: OpLine, Line: &Line{Pen: pen, X1: x1, Y1: y1, X2: x2, Y2: y2}})
}

func (r *Recorder) DrawRect(pen *Pen, fill *document.Color, x, y, width, height float64) {
	r.add(Op{Kind: OpRect, Rect: &Rect{Pen: pen, Fill: fill, X: x, Y: y, Width: width, Height: height}})
}

func (r *Recorder) DrawPath(pen *Pen, fill *document.Color, path *Path) {
	if path == nil {
		return
	}
	r.add(Op{Kind: OpPath, Path: &PathBox{Pen: pen, Fill: fill, Path: *path}})
}

func (r *Recorder) DrawImage(path string, x, y, width, height float64) error {
	r.add(Op{Kind: OpImage, Image: &ImageBox{Path: path, X: x, Y: y, Width: width, Height: height}})
	return nil
}

func (r *Recorder) Push(t Transform) {
	r.add(Op{Kind: OpPush, Transform: &t})
}

func (r *Recorder) Pop() { r.add(Op{Kind: OpPop}) }

// ImageSize 转发给测量器（如果它能读取图片）。
func (r *Recorder) ImageSize(path string) (float64, float64, error) {
	if s, ok := r.Measurer.(ImageSizer); ok {
		return s.ImageSize(path)
	}
	return 0, 0, errNoImageSizer
}
