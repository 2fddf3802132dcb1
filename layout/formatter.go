package layout

import (
	"github.com/ByLCY/folio/document"
)

// maxCombineElements 限制 keep-with-next 链向后探测的元素个数。
const maxCombineElements = 10

// topDownFormatter 把一组元素自上而下地排进 provider 提供的区域。
type topDownFormatter struct {
	ctx      *Context
	provider AreaProvider
	elements []document.Element
}

func newTopDownFormatter(ctx *Context, provider AreaProvider, elements []document.Element) *topDownFormatter {
	return &topDownFormatter{ctx: ctx, provider: provider, elements: elements}
}

func (f *topDownFormatter) create(el document.Element, maxHeight float64) Renderer {
	r := newRenderer(f.ctx, el, f.provider.AreaFieldInfos())
	if r != nil {
		r.SetMaxElementHeight(maxHeight)
	}
	return r
}

// formatOnAreas 执行分页。每个元素要么完整放进当前区域，要么放下一部分后在后续区域继续，
// 要么整体移到下一区域。
func (f *topDownFormatter) formatOnAreas() {
	var (
		infos            []*RenderInfo
		prevBottomMargin float64
		prevFormatInfo   FormatInfo
		isFirstOnPage    = true
	)
	area := f.provider.NextArea()
	if len(f.elements) == 0 || area == nil {
		f.provider.StoreRenderInfos(infos)
		return
	}
	maxHeight := area.Bounds().Height
	ready := false
	idx := 0

	for !ready && area != nil {
		el := f.elements[idx]
		r := f.create(el, maxHeight)
		if r == nil {
			f.ctx.Logger.Warn("忽略无法识别的内容节点", "kind", el.Kind().String())
			idx++
			if idx == len(f.elements) {
				f.provider.StoreRenderInfos(infos)
				ready = true
			}
			continue
		}

		if prevFormatInfo == nil {
			initial := r.InitialLayoutInfo()
			distance := prevBottomMargin
			if initial.InFlow() {
				distance = MarginMax(prevBottomMargin, initial.MarginTop)
			}
			area = area.Lower(distance)
		}
		r.Format(area, prevFormatInfo)
		ri := r.RenderInfo()
		f.provider.PositionHorizontally(&ri.LayoutInfo)

		breakBefore := !isFirstOnPage &&
			(f.provider.IsAreaBreakBefore(&ri.LayoutInfo) || f.isForcedAreaBreak(idx, ri, area))

		if !breakBefore && ri.FormatInfo.IsEnding() {
			if f.needsEndingOnNextArea(idx, ri, area, isFirstOnPage) {
				removeEnding(ri)
				prevFormatInfo = f.finishPage(ri, false, &infos)
				isFirstOnPage = true
				prevBottomMargin = 0
				area = f.provider.NextArea()
				if area != nil {
					maxHeight = area.Bounds().Height
				}
			} else {
				infos = append(infos, ri)
				isFirstOnPage = false
				f.provider.PositionVertically(&ri.LayoutInfo)
				if ri.LayoutInfo.InFlow() {
					prevBottomMargin = ri.LayoutInfo.MarginBottom
					area = area.Lower(ri.LayoutInfo.ContentArea.Height)
				} else {
					prevBottomMargin = 0
				}
				prevFormatInfo = nil
				idx++
			}
		} else {
			if ri.FormatInfo.IsEmpty() && isFirstOnPage {
				// 整页都放不下：在不受限的区域里完整放置，内容越过页面底部。
				b := area.Bounds()
				area = area.Unite(Rectangle{X: b.X, Y: b.Y, Width: b.Width, Height: Unbounded})
				r = f.create(el, maxHeight)
				r.Format(area, prevFormatInfo)
				ri = r.RenderInfo()
				f.provider.PositionHorizontally(&ri.LayoutInfo)
				f.provider.PositionVertically(&ri.LayoutInfo)
				if ri.FormatInfo.IsEmpty() {
					f.ctx.Logger.Warn("元素在不受限区域中仍无法放置，已丢弃", "kind", el.Kind().String())
				}
				// 结尾已放下，不再延续。
				prevFormatInfo = nil
				ready = idx == len(f.elements)-1
				idx++
				f.finishPage(ri, breakBefore, &infos)
			} else {
				prevFormatInfo = f.finishPage(ri, breakBefore, &infos)
			}
			isFirstOnPage = true
			prevBottomMargin = 0
			if !ready {
				area = f.provider.NextArea()
				if area != nil {
					maxHeight = area.Bounds().Height
				}
			}
		}

		if idx == len(f.elements) && !ready {
			f.provider.StoreRenderInfos(infos)
			ready = true
		}
	}
}

// finishPage 结束当前区域。返回值为需要在下一区域继续的片段，没有则为 nil。
func (f *topDownFormatter) finishPage(last *RenderInfo, breakBefore bool, infos *[]*RenderInfo) FormatInfo {
	var prev FormatInfo
	if !last.FormatInfo.IsEmpty() && !breakBefore {
		*infos = append(*infos, last)
		if !last.FormatInfo.IsEnding() {
			prev = last.FormatInfo
		}
	}
	f.provider.StoreRenderInfos(*infos)
	*infos = nil
	return prev
}

func removeEnding(ri *RenderInfo) {
	if r, ok := ri.FormatInfo.(endingRemover); ok {
		r.removeEnding()
	}
}

// isForcedAreaBreak 报告元素虽然有内容放下了，但按保持规则应该整体移到下一区域。
func (f *topDownFormatter) isForcedAreaBreak(idx int, ri *RenderInfo, area Area) bool {
	fi := ri.FormatInfo
	li := ri.LayoutInfo
	if fi.IsStarting() && !fi.StartingIsComplete() {
		return true
	}
	if li.KeepTogether && !fi.IsComplete() {
		return true
	}
	if li.KeepTogether && li.KeepWithNext {
		rest := area.Lower(li.ContentArea.Height)
		if f.nextElementsDontFit(idx, rest, li.MarginBottom) {
			return !f.keepChainFits(idx, f.provider.ProbeNextArea())
		}
	}
	return false
}

// needsEndingOnNextArea 报告已完整放下的元素是否应把结尾让给下一区域，
// 使它与后续元素保持在一起。
func (f *topDownFormatter) needsEndingOnNextArea(idx int, ri *RenderInfo, area Area, isFirstOnPage bool) bool {
	li := ri.LayoutInfo
	if isFirstOnPage {
		return false
	}
	if !ri.FormatInfo.EndingIsComplete() || !li.KeepWithNext {
		return false
	}
	rest := area.Lower(li.ContentArea.Height)
	if !f.nextElementsDontFit(idx, rest, li.MarginBottom) {
		return false
	}
	// 下一区域也放不下整条链时，移过去没有意义。
	return f.keepChainFits(idx, f.provider.ProbeNextArea())
}

// nextElementsDontFit 探测 idx 之后的元素能否接在 area 中放下。
func (f *topDownFormatter) nextElementsDontFit(idx int, area Area, prevMarginBottom float64) bool {
	distance := prevMarginBottom
	for i := idx + 1; i < len(f.elements); i++ {
		if i-idx > maxCombineElements {
			return false
		}
		// 不截断超高的行组：剩余空间放不下的首行组必须如实报告为放不下。
		r := f.create(f.elements[i], 0)
		if r == nil {
			continue
		}
		distance = MarginMax(distance, r.InitialLayoutInfo().MarginTop)
		area = area.Lower(distance)
		if area.Bounds().Height <= 0 {
			return true
		}
		r.Format(area, nil)
		fi := r.RenderInfo().FormatInfo
		li := r.RenderInfo().LayoutInfo
		if li.VerticalReference != RefPreviousElement {
			return false
		}
		if !fi.StartingIsComplete() {
			return true
		}
		if li.KeepTogether && !fi.IsComplete() {
			return true
		}
		if !(li.KeepTogether && li.KeepWithNext) {
			return false
		}
		area = area.Lower(li.ContentArea.Height)
		if area.Bounds().Height <= 0 {
			return true
		}
		distance = li.MarginBottom
	}
	return false
}

// keepChainFits 报告从 idx 开始的 keep-with-next 链能否完整放进 area。
func (f *topDownFormatter) keepChainFits(idx int, area Area) bool {
	if area == nil {
		return false
	}
	distance := 0.0
	for i := idx; i < len(f.elements) && i-idx <= maxCombineElements; i++ {
		r := f.create(f.elements[i], area.Bounds().Height)
		if r == nil {
			continue
		}
		initial := r.InitialLayoutInfo()
		if initial.InFlow() {
			area = area.Lower(MarginMax(distance, initial.MarginTop))
		}
		r.Format(area, nil)
		ri := r.RenderInfo()
		if !ri.FormatInfo.IsComplete() {
			return false
		}
		if !ri.LayoutInfo.InFlow() {
			continue
		}
		area = area.Lower(ri.LayoutInfo.ContentArea.Height)
		distance = ri.LayoutInfo.MarginBottom
		if !ri.LayoutInfo.KeepWithNext {
			return true
		}
	}
	return true
}
