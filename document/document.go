// Package document 定义排版引擎消费的只读内容树：文档、节、页面设置、
// 页眉页脚以及段落、表格、文本框、图片、分页符等内容节点。
//
// 内容节点以指针身份作为稳定标识，布局层用它追踪书签与列表编号。
// 表格按下标持有行、列与单元格，单元格到行/列/表的反向关系通过下标计算，
// 不保存指针。
package document

// Kind 标识内容节点的种类，布局层据此选择渲染器。
type Kind int

const (
	KindParagraph Kind = iota
	KindTable
	KindTextFrame
	KindImage
	KindPageBreak
)

func (k Kind) String() string {
	switch k {
	case KindParagraph:
		return "paragraph"
	case KindTable:
		return "table"
	case KindTextFrame:
		return "textframe"
	case KindImage:
		return "image"
	case KindPageBreak:
		return "pagebreak"
	default:
		return "unknown"
	}
}

// Element 是可以放进 section、单元格、文本框或页眉页脚中的内容节点。
type Element interface {
	Kind() Kind
}

// Document 是内容树的根。
type Document struct {
	Info      Info
	Resources Resources
	Sections  []*Section
}

// New 创建一个空文档，资源表已初始化。
func New() *Document {
	return &Document{
		Info:      Info{Creator: "folio"},
		Resources: NewResources(),
	}
}

// AddSection 追加一个使用默认页面设置的节。
func (d *Document) AddSection() *Section {
	s := &Section{PageSetup: DefaultPageSetup()}
	d.Sections = append(d.Sections, s)
	return s
}

// Info 保存 PDF 元信息。
type Info struct {
	Title    string   `json:"title"`
	Author   string   `json:"author"`
	Subject  string   `json:"subject"`
	Creator  string   `json:"creator"`
	Keywords []string `json:"keywords"`
}

// Resources 记录解析出的字体、颜色、图片与样式定义。
type Resources struct {
	Fonts  map[string]FontResource  `json:"fonts"`
	Colors map[string]Color         `json:"colors"`
	Images map[string]ImageResource `json:"images"`
	Styles map[string]Style         `json:"styles"`
}

// NewResources 返回各表均已初始化的资源集合。
func NewResources() Resources {
	return Resources{
		Fonts:  map[string]FontResource{},
		Colors: map[string]Color{},
		Images: map[string]ImageResource{},
		Styles: map[string]Style{},
	}
}

// FontResource 描述字体资源，src 可以是文件路径、embed:<name> 或 builtin:<name>。
type FontResource struct {
	Name     string `json:"name"`
	Src      string `json:"src"`
	Style    string `json:"style"`
	Family   string `json:"family"`
	Fallback string `json:"fallback"`
}

// ImageResource 记录图片资源，宽高单位为 pt，0 表示由图片本身决定。
type ImageResource struct {
	Name   string  `json:"name"`
	Src    string  `json:"src"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Style 描述可继承的属性集合，Props 在解析阶段已展开继承链。
type Style struct {
	Name    string            `json:"name"`
	Extends string            `json:"extends,omitempty"`
	Props   map[string]string `json:"props"`
}

// SectionStart 决定节从哪一类物理页开始。
type SectionStart int

const (
	StartNewPage SectionStart = iota
	StartOddPage
	StartEvenPage
)

// PageSetup 描述一节的纸张与边距，单位均为 pt。
type PageSetup struct {
	PageWidth      float64
	PageHeight     float64
	TopMargin      float64
	BottomMargin   float64
	LeftMargin     float64
	RightMargin    float64
	HeaderDistance float64
	FooterDistance float64

	// MirrorMargins 为真时偶数页交换左右边距。
	MirrorMargins                  bool
	DifferentFirstPageHeaderFooter bool
	OddAndEvenPagesHeaderFooter    bool
	SectionStart                   SectionStart
	// StartingNumber 大于 0 时，本节首页的显示页码从该值开始。
	StartingNumber int
}

// DefaultPageSetup 返回 A4 纵向、四边 2.5cm 的页面设置。
func DefaultPageSetup() PageSetup {
	return PageSetup{
		PageWidth:      PageSizes["A4"][0],
		PageHeight:     PageSizes["A4"][1],
		TopMargin:      Length{Value: 2.5, Unit: UnitCM}.ToPT(),
		BottomMargin:   Length{Value: 2.5, Unit: UnitCM}.ToPT(),
		LeftMargin:     Length{Value: 2.5, Unit: UnitCM}.ToPT(),
		RightMargin:    Length{Value: 2.5, Unit: UnitCM}.ToPT(),
		HeaderDistance: Length{Value: 1.25, Unit: UnitCM}.ToPT(),
		FooterDistance: Length{Value: 1.25, Unit: UnitCM}.ToPT(),
	}
}

// PageSizes 以 pt 记录常用纸张（纵向）。
var PageSizes = map[string][2]float64{
	"A3":     {841.89, 1190.55},
	"A4":     {595.28, 841.89},
	"A5":     {419.53, 595.28},
	"LETTER": {612, 792},
	"LEGAL":  {612, 1008},
}

// Section 是分页的基本单位：每节从新页开始并拥有自己的页眉页脚。
type Section struct {
	Container
	PageSetup PageSetup
	Headers   HeadersFooters
	Footers   HeadersFooters
}

// HeadersFooters 持有一节的三种页眉（或页脚）变体。
type HeadersFooters struct {
	Primary   *HeaderFooter
	FirstPage *HeaderFooter
	EvenPage  *HeaderFooter
}

// IsEmpty 报告是否没有定义任何变体。
func (h HeadersFooters) IsEmpty() bool {
	return h.Primary == nil && h.FirstPage == nil && h.EvenPage == nil
}

// HeaderFooter 是页眉或页脚的内容。
type HeaderFooter struct {
	Container
}

// Container 是可以承载内容节点的容器（节、单元格、文本框、页眉页脚）。
type Container struct {
	Elements []Element
}

// Add 追加任意内容节点。
func (c *Container) Add(el Element) {
	c.Elements = append(c.Elements, el)
}

// AddParagraph 追加一个段落，text 非空时作为首个文本片段。
func (c *Container) AddParagraph(text string) *Paragraph {
	p := NewParagraph()
	if text != "" {
		p.AddText(text)
	}
	c.Add(p)
	return p
}

// AddTable 追加一个空表格。
func (c *Container) AddTable() *Table {
	t := NewTable()
	c.Add(t)
	return t
}

// AddTextFrame 追加一个文本框。
func (c *Container) AddTextFrame(width, height float64) *TextFrame {
	f := &TextFrame{Shape: Shape{Width: width, Height: height}}
	c.Add(f)
	return f
}

// AddImage 追加一张图片。
func (c *Container) AddImage(path string) *Image {
	img := &Image{Path: path}
	c.Add(img)
	return img
}

// AddPageBreak 追加一个分页符。
func (c *Container) AddPageBreak() *PageBreak {
	pb := &PageBreak{}
	c.Add(pb)
	return pb
}

// PageBreak 强制后续内容从新的区域开始。
type PageBreak struct{}

func (*PageBreak) Kind() Kind { return KindPageBreak }
