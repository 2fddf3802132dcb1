package layout

import (
	"github.com/ByLCY/folio/document"
)

// 该文件定义绘制结果的可序列化快照，供调试 JSON 与测试共用。坐标单位为 pt。

// Result 保存全部页面的绘制指令与文档信息。
type Result struct {
	Pages     []Page                  `json:"pages"`
	Meta      document.Info           `json:"meta"`
	Bookmarks map[string]BookmarkInfo `json:"bookmarks,omitempty"`
}

// Page 记录页面尺寸、域取值以及按绘制顺序排列的指令。
type Page struct {
	PageInfo
	Fields *FieldInfos `json:"fields,omitempty"`
	Ops    []Op        `json:"ops"`
}

// OpKind 标识绘制指令的种类。
type OpKind string

const (
	OpText  OpKind = "text"
	OpLine  OpKind = "line"
	OpRect  OpKind = "rect"
	OpPath  OpKind = "path"
	OpImage OpKind = "image"
	OpPush  OpKind = "push"
	OpPop   OpKind = "pop"
)

// Op 是一条绘制指令，只有与 Kind 对应的字段非空。
type Op struct {
	Kind      OpKind     `json:"kind"`
	Text      *TextBox   `json:"text,omitempty"`
	Line      *Line      `json:"line,omitempty"`
	Rect      *Rect      `json:"rect,omitempty"`
	Path      *PathBox   `json:"path,omitempty"`
	Image     *ImageBox  `json:"image,omitempty"`
	Transform *Transform `json:"transform,omitempty"`
}

// TextBox 表示一次文本绘制，Y 为基线。
type TextBox struct {
	Content string  `json:"content"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Width   float64 `json:"width"`
	Font    Font    `json:"font"`
}

// Line 是一条线段。
type Line struct {
	Pen Pen     `json:"pen"`
	X1  float64 `json:"x1"`
	Y1  float64 `json:"y1"`
	X2  float64 `json:"x2"`
	Y2  float64 `json:"y2"`
}

// Rect 是矩形，Pen 与 Fill 为空表示不描边或不填充。
type Rect struct {
	Pen    *Pen            `json:"pen,omitempty"`
	Fill   *document.Color `json:"fill,omitempty"`
	X      float64         `json:"x"`
	Y      float64         `json:"y"`
	Width  float64         `json:"width"`
	Height float64         `json:"height"`
}

// PathBox 是一条路径及其画笔。
type PathBox struct {
	Pen  *Pen            `json:"pen,omitempty"`
	Fill *document.Color `json:"fill,omitempty"`
	Path Path            `json:"path"`
}

// ImageBox 用于描述图片位置与尺寸。
type ImageBox struct {
	Path   string  `json:"path"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Texts 返回页面上全部文本指令。
func (p Page) Texts() []TextBox {
	var out []TextBox
	for _, op := range p.Ops {
		if op.Text != nil {
			out = append(out, *op.Text)
		}
	}
	return out
}

// Lines 返回页面上全部线段。
func (p Page) Lines() []Line {
	var out []Line
	for _, op := range p.Ops {
		if op.Line != nil {
			out = append(out, *op.Line)
		}
	}
	return out
}
