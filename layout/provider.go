package layout

// AreaProvider 为格式化器提供可放置内容的区域，并接收排版结果。
// 页面、单元格、文本框、页眉页脚各有一个实现。
type AreaProvider interface {
	// NextArea 返回下一个区域，没有更多区域时返回 nil。
	NextArea() Area
	// ProbeNextArea 返回下一个区域但不前进。
	ProbeNextArea() Area
	// AreaFieldInfos 返回当前区域的域取值，未知时为 nil。
	AreaFieldInfos() *FieldInfos
	// StoreRenderInfos 保存当前区域的全部排版结果。
	StoreRenderInfos(infos []*RenderInfo)
	IsAreaBreakBefore(li *LayoutInfo) bool
	// PositionHorizontally 按参照系调整 ContentArea.X，返回是否做了调整。
	PositionHorizontally(li *LayoutInfo) bool
	// PositionVertically 按参照系调整 ContentArea.Y，返回是否做了调整。
	PositionVertically(li *LayoutInfo) bool
}

// positionHorizontally 在 rect 内按对齐方式确定 x。page 为 0 表示没有可参照的页面，
// 此时页面参照退化为 rect。
func positionHorizontally(li *LayoutInfo, rect Rectangle, pageWidth float64, pageNumber int) bool {
	align := li.HorizontalAlignment
	switch align {
	case AlignInside:
		align = AlignNear
		if pageNumber%2 == 0 {
			align = AlignFar
		}
	case AlignOutside:
		align = AlignFar
		if pageNumber%2 == 0 {
			align = AlignNear
		}
	}
	if li.HorizontalReference == RefPage && pageWidth > 0 {
		switch align {
		case AlignNear:
			li.ContentArea.X = li.Left
			if li.Left == 0 {
				li.ContentArea.X = li.MarginLeft
			}
		case AlignFar:
			li.ContentArea.X = pageWidth - li.ContentArea.Width - li.MarginRight
		case AlignCenter:
			li.ContentArea.X = (pageWidth - li.ContentArea.Width) / 2
		}
		return true
	}
	switch align {
	case AlignNear:
		if li.Left != 0 {
			li.ContentArea.X += li.Left
			return true
		}
		if li.MarginLeft != 0 {
			li.ContentArea.X += li.MarginLeft
			return true
		}
		return false
	case AlignFar:
		li.ContentArea.X = rect.X + rect.Width - li.ContentArea.Width - li.MarginRight
		return true
	case AlignCenter:
		li.ContentArea.X = rect.X + (rect.Width-li.ContentArea.Width)/2
		return true
	}
	return false
}

// positionVertically 只处理不随文本流的元素。pageHeight 为 0 时页面参照退化为 rect。
func positionVertically(li *LayoutInfo, rect Rectangle, pageHeight float64) bool {
	switch li.VerticalReference {
	case RefPreviousElement, RefLine:
		return false
	case RefPage:
		if pageHeight > 0 {
			switch li.VerticalAlignment {
			case AlignNear:
				li.ContentArea.Y = max(li.Top, li.MarginTop)
			case AlignFar:
				li.ContentArea.Y = pageHeight - li.ContentArea.Height - li.MarginBottom
			case AlignCenter:
				li.ContentArea.Y = (pageHeight - li.ContentArea.Height) / 2
			}
			return true
		}
	}
	if rect.IsUnbounded() {
		rect.Height = 0
	}
	switch li.VerticalAlignment {
	case AlignFar:
		li.ContentArea.Y = rect.Y + rect.Height - li.ContentArea.Height - li.MarginBottom
	case AlignCenter:
		li.ContentArea.Y = rect.Y + (rect.Height-li.ContentArea.Height)/2
	default:
		y := rect.Y
		if li.Top == 0 {
			y += li.MarginTop
		} else {
			y += li.Top
		}
		li.ContentArea.Y = y
	}
	return true
}

// singleAreaProvider 只提供一个区域，用于单元格与文本框内部。
type singleAreaProvider struct {
	rect       Rectangle
	used       bool
	fieldInfos *FieldInfos
	infos      []*RenderInfo
}

func newSingleAreaProvider(rect Rectangle, fieldInfos *FieldInfos) *singleAreaProvider {
	return &singleAreaProvider{rect: rect, fieldInfos: fieldInfos}
}

func (p *singleAreaProvider) NextArea() Area {
	if p.used {
		return nil
	}
	p.used = true
	return p.rect
}

func (p *singleAreaProvider) ProbeNextArea() Area { return nil }

func (p *singleAreaProvider) AreaFieldInfos() *FieldInfos { return p.fieldInfos }

func (p *singleAreaProvider) StoreRenderInfos(infos []*RenderInfo) {
	p.infos = append(p.infos, infos...)
}

func (p *singleAreaProvider) IsAreaBreakBefore(*LayoutInfo) bool { return false }

func (p *singleAreaProvider) PositionHorizontally(li *LayoutInfo) bool {
	return positionHorizontally(li, p.rect, 0, 1)
}

func (p *singleAreaProvider) PositionVertically(*LayoutInfo) bool { return false }
