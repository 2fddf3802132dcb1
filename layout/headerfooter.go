package layout

import (
	"github.com/ByLCY/folio/document"
)

// formattedHeaderFooter 是某一节某一变体页眉（或页脚）的排版结果，
// 在同一节内按页面位置缓存复用。
type formattedHeaderFooter struct {
	// rect 是排版时使用的区域，绘制时按实际页面的区域平移。
	rect  Rectangle
	infos []*RenderInfo
}

// formatHeaderFooter 返回当前页应使用的页眉页脚，必要时排版并缓存。
func (d *FormattedDocument) formatHeaderFooter(cache map[hfKey]*formattedHeaderFooter, hfs document.HeadersFooters,
	pos PagePosition, area Rectangle, fi *FieldInfos, n int) *formattedHeaderFooter {
	if hfs.IsEmpty() {
		return nil
	}
	key := hfKey{section: d.sectionNumber, pos: pos}
	if f, ok := cache[key]; ok {
		return f
	}
	hf := chooseHeaderFooter(hfs, d.section.PageSetup, pos, n)
	if hf == nil {
		cache[key] = nil
		return nil
	}
	p := &headerFooterProvider{
		rect:       Rectangle{X: area.X, Y: area.Y, Width: area.Width, Height: Unbounded},
		setup:      d.section.PageSetup,
		page:       n,
		fieldInfos: fi,
	}
	newTopDownFormatter(d.ctx, p, hf.Elements).formatOnAreas()
	f := &formattedHeaderFooter{rect: area, infos: p.infos}
	cache[key] = f
	return f
}

// headerFooterProvider 提供一个不限高度的区域，页面参照的元素相对整页定位。
type headerFooterProvider struct {
	rect       Rectangle
	setup      document.PageSetup
	page       int
	used       bool
	fieldInfos *FieldInfos
	infos      []*RenderInfo
}

func (p *headerFooterProvider) NextArea() Area {
	if p.used {
		return nil
	}
	p.used = true
	return p.rect
}

func (p *headerFooterProvider) ProbeNextArea() Area         { return nil }
func (p *headerFooterProvider) AreaFieldInfos() *FieldInfos { return p.fieldInfos }
func (p *headerFooterProvider) IsAreaBreakBefore(*LayoutInfo) bool {
	return false
}

func (p *headerFooterProvider) StoreRenderInfos(infos []*RenderInfo) {
	p.infos = append(p.infos, infos...)
}

func (p *headerFooterProvider) PositionHorizontally(li *LayoutInfo) bool {
	return positionHorizontally(li, p.rect, p.setup.PageWidth, p.page)
}

func (p *headerFooterProvider) PositionVertically(li *LayoutInfo) bool {
	if li.VerticalReference == RefPage {
		return positionVertically(li, p.rect, p.setup.PageHeight)
	}
	return positionVertically(li, contentRect(p.setup, p.page), 0)
}
