package layout

import (
	"context"

	"github.com/pkg/errors"

	"github.com/ByLCY/folio/document"
)

// PagePosition 是页眉页脚变体的选择依据。
type PagePosition int

const (
	PageFirst PagePosition = iota
	PageOdd
	PageEven
)

// PageInfo 描述一页的纸张与所属节。页码从 1 开始。
type PageInfo struct {
	Number  int     `json:"number"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Section int     `json:"section"`
	// Blank 标记为满足奇偶页起始而插入的空白页。
	Blank bool `json:"blank,omitempty"`
}

type pageState struct {
	info       PageInfo
	setup      document.PageSetup
	fieldInfos *FieldInfos
	infos      []*RenderInfo
	header     *formattedHeaderFooter
	footer     *formattedHeaderFooter
}

type hfKey struct {
	section int
	pos     PagePosition
}

// FormattedDocument 是整篇文档的分页结果，同时作为页面的 AreaProvider。
type FormattedDocument struct {
	ctx *Context
	doc *document.Document

	pages     []*pageState
	bookmarks map[string]BookmarkInfo
	headers   map[hfKey]*formattedHeaderFooter
	footers   map[hfKey]*formattedHeaderFooter

	// 以下字段只在 Format 期间有效。
	cancel        context.Context
	section       *document.Section
	sectionNumber int
	isNewSection  bool
	shownPage     int
	sectionPages  int
}

var _ AreaProvider = (*FormattedDocument)(nil)

// NewFormattedDocument 为文档创建排版会话，随后调用 Format。
func NewFormattedDocument(doc *document.Document, opts Options) (*FormattedDocument, error) {
	if doc == nil {
		return nil, errors.New("文档为空")
	}
	if opts.Measurer == nil {
		return nil, errors.New("layout: 缺少文本测量器 Measurer")
	}
	return &FormattedDocument{ctx: newContext(doc, opts), doc: doc}, nil
}

// Format 对所有节分页。表格配置无效时不排版，直接返回错误。
// ctx 在每一页开始前检查，取消时返回其错误。
func (d *FormattedDocument) Format(ctx context.Context) error {
	if err := d.doc.Validate(); err != nil {
		return errors.Wrap(err, "文档配置无效")
	}
	d.pages = nil
	d.bookmarks = map[string]BookmarkInfo{}
	d.headers = map[hfKey]*formattedHeaderFooter{}
	d.footers = map[hfKey]*formattedHeaderFooter{}
	d.ctx.lists = newListNumbering()
	d.cancel = ctx
	d.shownPage = 0
	defer func() { d.cancel = nil }()

	for i, s := range d.doc.Sections {
		if err := ctx.Err(); err != nil {
			return errors.Wrap(err, "排版已取消")
		}
		d.section = s
		d.sectionNumber = i + 1
		d.isNewSection = true
		d.sectionPages = 0
		if d.needsEmptyPage() {
			d.insertEmptyPage()
		}
		newTopDownFormatter(d.ctx, d, s.Elements).formatOnAreas()
		if err := ctx.Err(); err != nil {
			return errors.Wrap(err, "排版已取消")
		}
		d.fillSectionPages()
	}
	for _, p := range d.pages {
		p.fieldInfos.NumPages = len(d.pages)
	}
	d.ctx.Logger.Debug("排版完成", "pages", len(d.pages), "sections", len(d.doc.Sections))
	return nil
}

// Document 返回被排版的文档。
func (d *FormattedDocument) Document() *document.Document { return d.doc }

// Context 返回排版会话，供绘制阶段复用。
func (d *FormattedDocument) Context() *Context { return d.ctx }

// PageCount 返回物理页数。
func (d *FormattedDocument) PageCount() int { return len(d.pages) }

func (d *FormattedDocument) page(n int) (*pageState, error) {
	if n < 1 || n > len(d.pages) {
		return nil, errors.Errorf("页码 %d 超出范围 [1, %d]", n, len(d.pages))
	}
	return d.pages[n-1], nil
}

// Page 返回第 n 页的纸张信息。
func (d *FormattedDocument) Page(n int) (PageInfo, error) {
	p, err := d.page(n)
	if err != nil {
		return PageInfo{}, err
	}
	return p.info, nil
}

// RenderInfos 返回第 n 页正文的排版结果。
func (d *FormattedDocument) RenderInfos(n int) []*RenderInfo {
	p, err := d.page(n)
	if err != nil {
		return nil
	}
	return p.infos
}

// FieldInfos 返回第 n 页的域取值。
func (d *FormattedDocument) FieldInfos(n int) *FieldInfos {
	p, err := d.page(n)
	if err != nil {
		return nil
	}
	return p.fieldInfos
}

// Bookmarks 返回全部书签所在页。
func (d *FormattedDocument) Bookmarks() map[string]BookmarkInfo {
	out := make(map[string]BookmarkInfo, len(d.bookmarks))
	for k, v := range d.bookmarks {
		out[k] = v
	}
	return out
}

// RenderPage 按页眉、正文、页脚的顺序绘制第 n 页。
func (d *FormattedDocument) RenderPage(n int, s Surface) error {
	p, err := d.page(n)
	if err != nil {
		return err
	}
	if p.info.Blank {
		return nil
	}
	fi := p.fieldInfos
	if h := p.header; h != nil {
		area := headerArea(p.setup, n)
		renderInfos(d.ctx, s, h.infos, fi, area.X-h.rect.X, 0)
	}
	renderInfos(d.ctx, s, p.infos, fi, 0, 0)
	if f := p.footer; f != nil {
		d.renderFooter(s, f, footerArea(p.setup, n), fi)
	}
	return nil
}

// renderFooter 让页脚的文本流底部贴住页脚区域底边，浮动元素只做水平调整。
func (d *FormattedDocument) renderFooter(s Surface, f *formattedHeaderFooter, area Rectangle, fi *FieldInfos) {
	dx := area.X - f.rect.X
	var flow []*RenderInfo
	for _, ri := range f.infos {
		if ri.LayoutInfo.InFlow() {
			flow = append(flow, ri)
		}
	}
	dy := 0.0
	if len(flow) > 0 {
		first := flow[0].LayoutInfo
		top := area.Y + area.Height - TotalHeight(flow)
		dy = top - (first.ContentArea.Y - first.MarginTop)
	}
	for _, ri := range f.infos {
		if ri.LayoutInfo.InFlow() {
			renderInfos(d.ctx, s, []*RenderInfo{ri}, fi, dx, dy)
		} else {
			renderInfos(d.ctx, s, []*RenderInfo{ri}, fi, dx, 0)
		}
	}
}

func (d *FormattedDocument) needsEmptyPage() bool {
	next := len(d.pages) + 1
	switch d.section.PageSetup.SectionStart {
	case document.StartOddPage:
		return next%2 == 0
	case document.StartEvenPage:
		return next%2 == 1
	}
	return false
}

func (d *FormattedDocument) insertEmptyPage() {
	d.shownPage++
	n := len(d.pages) + 1
	fi := newFieldInfos(d.doc.Info, d.bookmarks)
	fi.PhysicalPage = n
	fi.DisplayPage = d.shownPage
	fi.Section = d.sectionNumber
	setup := d.section.PageSetup
	d.pages = append(d.pages, &pageState{
		info:       PageInfo{Number: n, Width: setup.PageWidth, Height: setup.PageHeight, Section: d.sectionNumber, Blank: true},
		setup:      setup,
		fieldInfos: fi,
	})
	d.ctx.Logger.Debug("插入空白页", "page", n, "section", d.sectionNumber)
}

func (d *FormattedDocument) fillSectionPages() {
	for _, p := range d.pages {
		if p.info.Section == d.sectionNumber && !p.info.Blank {
			p.fieldInfos.SectionPages = d.sectionPages
		}
	}
}

func (d *FormattedDocument) current() *pageState {
	if len(d.pages) == 0 {
		return nil
	}
	return d.pages[len(d.pages)-1]
}

// NextArea 开始新的一页并返回其正文区域。
func (d *FormattedDocument) NextArea() Area {
	if d.cancel != nil && d.cancel.Err() != nil {
		return nil
	}
	n := len(d.pages) + 1
	setup := d.section.PageSetup
	if d.isNewSection && setup.StartingNumber > 0 {
		d.shownPage = setup.StartingNumber
	} else {
		d.shownPage++
	}
	d.sectionPages++

	fi := newFieldInfos(d.doc.Info, d.bookmarks)
	fi.PhysicalPage = n
	fi.DisplayPage = d.shownPage
	fi.Section = d.sectionNumber
	p := &pageState{
		info:       PageInfo{Number: n, Width: setup.PageWidth, Height: setup.PageHeight, Section: d.sectionNumber},
		setup:      setup,
		fieldInfos: fi,
	}
	d.pages = append(d.pages, p)

	pos := d.pagePosition(n)
	p.header = d.formatHeaderFooter(d.headers, d.section.Headers, pos, headerArea(setup, n), fi, n)
	p.footer = d.formatHeaderFooter(d.footers, d.section.Footers, pos, footerArea(setup, n), fi, n)
	d.isNewSection = false
	return contentRect(setup, n)
}

// ProbeNextArea 返回下一页的正文区域但不创建页面。
func (d *FormattedDocument) ProbeNextArea() Area {
	return contentRect(d.section.PageSetup, len(d.pages)+1)
}

func (d *FormattedDocument) AreaFieldInfos() *FieldInfos {
	if p := d.current(); p != nil {
		return p.fieldInfos
	}
	return nil
}

func (d *FormattedDocument) StoreRenderInfos(infos []*RenderInfo) {
	if p := d.current(); p != nil {
		p.infos = append(p.infos, infos...)
	}
}

func (d *FormattedDocument) IsAreaBreakBefore(li *LayoutInfo) bool {
	return li.PageBreakBefore
}

func (d *FormattedDocument) PositionHorizontally(li *LayoutInfo) bool {
	n := len(d.pages)
	setup := d.section.PageSetup
	return positionHorizontally(li, contentRect(setup, n), setup.PageWidth, n)
}

func (d *FormattedDocument) PositionVertically(li *LayoutInfo) bool {
	n := len(d.pages)
	setup := d.section.PageSetup
	return positionVertically(li, contentRect(setup, n), setup.PageHeight)
}

func (d *FormattedDocument) pagePosition(n int) PagePosition {
	if d.isNewSection {
		return PageFirst
	}
	if n%2 == 0 {
		return PageEven
	}
	return PageOdd
}

// chooseHeaderFooter 按页面位置选择变体，未定义的变体回退到 Primary。
func chooseHeaderFooter(hfs document.HeadersFooters, setup document.PageSetup, pos PagePosition, n int) *document.HeaderFooter {
	if pos == PageFirst && setup.DifferentFirstPageHeaderFooter && hfs.FirstPage != nil {
		return hfs.FirstPage
	}
	if (pos == PageEven || n%2 == 0) && setup.OddAndEvenPagesHeaderFooter && hfs.EvenPage != nil {
		return hfs.EvenPage
	}
	return hfs.Primary
}

// isMirrored 报告第 n 页是否交换左右边距。
func isMirrored(setup document.PageSetup, n int) bool {
	return setup.MirrorMargins && n%2 == 0
}

// contentRect 返回第 n 页的正文区域。
func contentRect(setup document.PageSetup, n int) Rectangle {
	left := setup.LeftMargin
	if isMirrored(setup, n) {
		left = setup.RightMargin
	}
	return Rectangle{
		X:      left,
		Y:      setup.TopMargin,
		Width:  setup.PageWidth - setup.LeftMargin - setup.RightMargin,
		Height: setup.PageHeight - setup.TopMargin - setup.BottomMargin,
	}
}

func headerArea(setup document.PageSetup, n int) Rectangle {
	r := contentRect(setup, n)
	return Rectangle{X: r.X, Y: setup.HeaderDistance, Width: r.Width, Height: setup.TopMargin - setup.HeaderDistance}
}

func footerArea(setup document.PageSetup, n int) Rectangle {
	r := contentRect(setup, n)
	return Rectangle{X: r.X, Y: setup.PageHeight - setup.BottomMargin, Width: r.Width, Height: setup.BottomMargin - setup.FooterDistance}
}
