package document

import (
	"fmt"
	"strconv"
	"strings"
)

// Color 采用 0-255 的 RGB 数值。
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// Black 是未指定颜色时的默认值。
var Black = Color{}

// RGB 返回指向颜色的指针，便于填写可选字段。
func RGB(r, g, b int) *Color {
	return &Color{R: r, G: g, B: b}
}

// ParseColor 解析 #rgb、#rrggbb 与 #rrggbbaa（忽略 alpha）。
func ParseColor(value string) (Color, error) {
	value = strings.TrimPrefix(strings.TrimSpace(value), "#")
	switch len(value) {
	case 3:
		return Color{
			R: mustHex(strings.Repeat(value[0:1], 2)),
			G: mustHex(strings.Repeat(value[1:2], 2)),
			B: mustHex(strings.Repeat(value[2:3], 2)),
		}, nil
	case 6, 8:
		return Color{
			R: mustHex(value[0:2]),
			G: mustHex(value[2:4]),
			B: mustHex(value[4:6]),
		}, nil
	default:
		return Color{}, fmt.Errorf("颜色值 %s 无法解析", value)
	}
}

func mustHex(s string) int {
	v, _ := strconv.ParseInt(s, 16, 64)
	return int(v)
}

// Pt 与 Bool 用于填写可选的数值/布尔字段。
func Pt(v float64) *float64 { return &v }

func Bool(v bool) *bool { return &v }

// Alignment 是段落的水平对齐方式。
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
	AlignJustify
)

// Font 描述段落使用的字体。Size 为 0 时使用默认字号。
type Font struct {
	Name   string
	Size   float64
	Bold   bool
	Italic bool
	Color  *Color
}

// LineSpacingRule 决定行高的计算方式。
type LineSpacingRule int

const (
	LineSpacingSingle LineSpacingRule = iota
	LineSpacingOnePtFive
	LineSpacingDouble
	LineSpacingAtLeast
	LineSpacingExactly
	LineSpacingMultiple
)

// ParagraphFormat 汇总段落级格式。
type ParagraphFormat struct {
	Font            Font
	Alignment       Alignment
	LeftIndent      float64
	RightIndent     float64
	FirstLineIndent float64
	SpaceBefore     float64
	SpaceAfter      float64
	LineSpacingRule LineSpacingRule
	// LineSpacing 对 AtLeast/Exactly 是 pt，对 Multiple 是倍数。
	LineSpacing     float64
	KeepTogether    bool
	KeepWithNext    bool
	PageBreakBefore bool
	WidowControl    bool
	Borders         *Borders
	Shading         *Shading
	ListInfo        *ListInfo
}

// DefaultParagraphFormat 开启孤行控制，其余为零值。
func DefaultParagraphFormat() ParagraphFormat {
	return ParagraphFormat{WidowControl: true}
}

// ListType 是列表标签的种类。
type ListType int

const (
	BulletList1 ListType = iota
	BulletList2
	BulletList3
	NumberList1
	NumberList2
	NumberList3
)

// IsNumbered 报告该列表是否带编号。
func (t ListType) IsNumbered() bool {
	return t >= NumberList1
}

// ListInfo 把段落声明为列表项。同一个 *ListInfo 被多个段落共享时，
// 它们属于同一个列表项（编号相同）。
type ListInfo struct {
	ListType ListType
	// Restart 为真时编号从 1 重新开始。
	Restart bool
	// NumberPosition 是标签相对段落左缩进的偏移。
	NumberPosition float64
}

// BorderStyle 是线型，零值表示未设置。
type BorderStyle int

const (
	BorderStyleUnset BorderStyle = iota
	BorderSingle
	BorderDot
	BorderDashSmallGap
	BorderDashLargeGap
	BorderDashDot
	BorderDashDotDot
	BorderNone
)

// Border 描述一条边，所有字段都可以不设置以继承外层定义。
type Border struct {
	Visible *bool
	Style   BorderStyle
	Width   *float64
	Color   *Color
}

// IsSet 报告是否有任意字段被显式设置。
func (b *Border) IsSet() bool {
	return b != nil && (b.Visible != nil || b.Style != BorderStyleUnset || b.Width != nil || b.Color != nil)
}

// BorderType 标识一条边。
type BorderType int

const (
	BorderTop BorderType = iota
	BorderLeft
	BorderBottom
	BorderRight
	BorderDiagonalDown
	BorderDiagonalUp
)

// Borders 是一组边框。容器级字段是未单独设置的各边的默认值。
type Borders struct {
	Top          *Border
	Left         *Border
	Bottom       *Border
	Right        *Border
	DiagonalDown *Border
	DiagonalUp   *Border

	Visible *bool
	Style   BorderStyle
	Width   *float64
	Color   *Color

	// Distance 是段落边框与文本之间的距离（表格忽略）。
	Distance float64
}

// Edge 返回某一边的显式定义（可能为 nil）。
func (b *Borders) Edge(t BorderType) *Border {
	if b == nil {
		return nil
	}
	switch t {
	case BorderTop:
		return b.Top
	case BorderLeft:
		return b.Left
	case BorderBottom:
		return b.Bottom
	case BorderRight:
		return b.Right
	case BorderDiagonalDown:
		return b.DiagonalDown
	case BorderDiagonalUp:
		return b.DiagonalUp
	}
	return nil
}

// SetEdge 设置某一边。
func (b *Borders) SetEdge(t BorderType, border *Border) {
	switch t {
	case BorderTop:
		b.Top = border
	case BorderLeft:
		b.Left = border
	case BorderBottom:
		b.Bottom = border
	case BorderRight:
		b.Right = border
	case BorderDiagonalDown:
		b.DiagonalDown = border
	case BorderDiagonalUp:
		b.DiagonalUp = border
	}
}

// resolvedEdge 合并边级与容器级定义，ok 为 false 表示该层对此边没有任何设置。
// 对角线不继承容器级默认值。
func (b *Borders) resolvedEdge(t BorderType) (Border, bool) {
	if b == nil {
		return Border{}, false
	}
	out := Border{}
	if e := b.Edge(t); e != nil {
		out = *e
	}
	if t != BorderDiagonalDown && t != BorderDiagonalUp {
		if out.Visible == nil {
			out.Visible = b.Visible
		}
		if out.Style == BorderStyleUnset {
			out.Style = b.Style
		}
		if out.Width == nil {
			out.Width = b.Width
		}
		if out.Color == nil {
			out.Color = b.Color
		}
	}
	return out, out.IsSet()
}

// DefaultBorderWidth 用于只设置了颜色或线型的边。
const DefaultBorderWidth = 0.5

// BorderSpec 是完全解析后的边：宽度为 0 表示不绘制。
type BorderSpec struct {
	Style BorderStyle
	Width float64
	Color Color
}

// Visible 报告该边是否需要绘制。
func (s BorderSpec) Visible() bool { return s.Width > 0 && s.Style != BorderNone }

// ResolveBorder 把一条（可能部分设置的）边解析为可绘制的规格。
func ResolveBorder(b Border) BorderSpec {
	spec := BorderSpec{Style: b.Style}
	if spec.Style == BorderStyleUnset {
		spec.Style = BorderSingle
	}
	if b.Color != nil {
		spec.Color = *b.Color
	}
	switch {
	case b.Visible != nil && !*b.Visible:
		spec.Width = 0
	case b.Width != nil:
		spec.Width = *b.Width
	case b.Color != nil || b.Style != BorderStyleUnset || (b.Visible != nil && *b.Visible):
		spec.Width = DefaultBorderWidth
	}
	if spec.Style == BorderNone {
		spec.Width = 0
	}
	return spec
}

// ResolveBorders 解析一组边框的四边与对角线（无继承层级）。
func ResolveBorders(b *Borders) BorderSet {
	var set BorderSet
	for t := BorderTop; t <= BorderDiagonalUp; t++ {
		if e, ok := b.resolvedEdge(t); ok {
			set.Set(t, ResolveBorder(e))
		}
	}
	return set
}

// BorderSet 是一组解析完成的边。
type BorderSet struct {
	Top          BorderSpec
	Left         BorderSpec
	Bottom       BorderSpec
	Right        BorderSpec
	DiagonalDown BorderSpec
	DiagonalUp   BorderSpec
}

// Get 返回某一边。
func (s BorderSet) Get(t BorderType) BorderSpec {
	switch t {
	case BorderTop:
		return s.Top
	case BorderLeft:
		return s.Left
	case BorderBottom:
		return s.Bottom
	case BorderRight:
		return s.Right
	case BorderDiagonalDown:
		return s.DiagonalDown
	default:
		return s.DiagonalUp
	}
}

// Set 替换某一边。
func (s *BorderSet) Set(t BorderType, spec BorderSpec) {
	switch t {
	case BorderTop:
		s.Top = spec
	case BorderLeft:
		s.Left = spec
	case BorderBottom:
		s.Bottom = spec
	case BorderRight:
		s.Right = spec
	case BorderDiagonalDown:
		s.DiagonalDown = spec
	case BorderDiagonalUp:
		s.DiagonalUp = spec
	}
}

// Width 返回某一边的可见宽度。
func (s BorderSet) Width(t BorderType) float64 {
	spec := s.Get(t)
	if !spec.Visible() {
		return 0
	}
	return spec.Width
}

// Shading 是背景填充。
type Shading struct {
	Visible *bool
	Color   *Color
}

// IsSet 报告是否设置了任何字段。
func (s *Shading) IsSet() bool {
	return s != nil && (s.Visible != nil || s.Color != nil)
}

// Fill 返回实际填充色；ok 为 false 表示不填充。
func (s *Shading) Fill() (Color, bool) {
	if s == nil || s.Color == nil {
		return Color{}, false
	}
	if s.Visible != nil && !*s.Visible {
		return Color{}, false
	}
	return *s.Color, true
}
