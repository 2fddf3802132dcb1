package layout

import (
	"math"

	"github.com/ByLCY/folio/document"
)

// ElementReference 是定位所参照的对象。
type ElementReference int

const (
	RefPreviousElement ElementReference = iota
	RefAreaBoundary
	RefPageMargin
	RefPage
	RefLine
)

// ElementAlignment 是在参照对象内的对齐方式。
type ElementAlignment int

const (
	AlignNear ElementAlignment = iota
	AlignFar
	AlignCenter
	AlignInside
	AlignOutside
)

// Floating 决定元素是否占用文本流。
type Floating int

const (
	FloatTopBottom Floating = iota
	FloatNone
)

// LayoutInfo 记录一次放置的位置与分页约束。
type LayoutInfo struct {
	MarginTop    float64 `json:"marginTop"`
	MarginBottom float64 `json:"marginBottom"`
	MarginLeft   float64 `json:"marginLeft"`
	MarginRight  float64 `json:"marginRight"`

	// ContentArea 是元素在页面坐标中实际占用的矩形。
	ContentArea Rectangle `json:"contentArea"`

	// StartingHeight 是元素开头不可拆分部分的高度，TrailingHeight 是结尾部分。
	StartingHeight float64 `json:"startingHeight"`
	TrailingHeight float64 `json:"trailingHeight"`

	KeepTogether    bool `json:"keepTogether"`
	KeepWithNext    bool `json:"keepWithNext"`
	PageBreakBefore bool `json:"pageBreakBefore"`

	HorizontalReference ElementReference `json:"horizontalReference"`
	VerticalReference   ElementReference `json:"verticalReference"`
	HorizontalAlignment ElementAlignment `json:"horizontalAlignment"`
	VerticalAlignment   ElementAlignment `json:"verticalAlignment"`
	Floating            Floating         `json:"floating"`

	// Top、Left 是 Near 对齐时相对参照对象的偏移。
	Top  float64 `json:"top"`
	Left float64 `json:"left"`

	MinWidth float64 `json:"minWidth"`
}

// InFlow 报告元素是否参与自上而下的文本流。
func (li *LayoutInfo) InFlow() bool {
	return li.Floating == FloatTopBottom && li.VerticalReference == RefPreviousElement
}

// MarginMax 返回两个相邻元素之间折叠后的间距。
func MarginMax(prevBottom, nextTop float64) float64 {
	return math.Max(prevBottom, nextTop)
}

// FormatInfo 描述元素在一个区域中放下了哪一部分。
type FormatInfo interface {
	// IsStarting 表示本片段包含元素的开头。
	IsStarting() bool
	// IsEnding 表示本片段包含元素的结尾。
	IsEnding() bool
	// IsEmpty 表示在该区域里什么都没放下。
	IsEmpty() bool
	IsComplete() bool
	StartingIsComplete() bool
	EndingIsComplete() bool
}

// endingRemover 由可以撤销结尾的 FormatInfo 实现，用于把结尾移到下一区域。
type endingRemover interface {
	removeEnding()
}

// baseFormatInfo 供只有“放下 / 放不下”两种结果的元素使用。
type baseFormatInfo struct {
	starting bool
	ending   bool
	empty    bool
}

func (f *baseFormatInfo) IsStarting() bool         { return f.starting }
func (f *baseFormatInfo) IsEnding() bool           { return f.ending }
func (f *baseFormatInfo) IsEmpty() bool            { return f.empty }
func (f *baseFormatInfo) IsComplete() bool         { return f.starting && f.ending }
func (f *baseFormatInfo) StartingIsComplete() bool { return f.starting }
func (f *baseFormatInfo) EndingIsComplete() bool   { return f.ending }

// ShapeFormatInfo 是图片与文本框的排版结果。
type ShapeFormatInfo struct {
	baseFormatInfo
	Fits bool
}

// NewShapeFormatInfo 返回不可拆分元素的排版结果：要么整体放下，要么留空。
func NewShapeFormatInfo(fits bool) *ShapeFormatInfo {
	return &ShapeFormatInfo{baseFormatInfo: baseFormatInfo{starting: fits, ending: fits, empty: !fits}, Fits: fits}
}

// PageBreakFormatInfo 是分页符的排版结果。
type PageBreakFormatInfo struct {
	baseFormatInfo
}

// RenderInfo 是一次放置的完整记录。同一元素跨 N 个区域时有 N 个 RenderInfo，
// 通过 FormatInfo 串联。
type RenderInfo struct {
	Element    document.Element
	LayoutInfo LayoutInfo
	FormatInfo FormatInfo
}

// moved 返回平移后的副本，原记录保持不变。
func (ri *RenderInfo) moved(dx, dy float64) *RenderInfo {
	cp := *ri
	cp.LayoutInfo.ContentArea.X += dx
	cp.LayoutInfo.ContentArea.Y += dy
	return &cp
}

// TotalHeight 返回一组连续排版结果从第一个元素上边距到最后一个元素下边距的高度。
func TotalHeight(infos []*RenderInfo) float64 {
	if len(infos) == 0 {
		return 0
	}
	first := infos[0].LayoutInfo
	last := infos[len(infos)-1].LayoutInfo
	top := first.ContentArea.Y - first.MarginTop
	bottom := last.ContentArea.Y + last.ContentArea.Height + last.MarginBottom
	return bottom - top
}
