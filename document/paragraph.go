package document

import "strings"

// Paragraph 是一段文本，由若干内联片段组成。
type Paragraph struct {
	Format  ParagraphFormat
	Inlines []Inline
}

func (*Paragraph) Kind() Kind { return KindParagraph }

// NewParagraph 创建带默认格式的空段落。
func NewParagraph() *Paragraph {
	return &Paragraph{Format: DefaultParagraphFormat()}
}

// Inline 是段落内的片段：Text、Field 或 Bookmark。
type Inline interface {
	inline()
}

// Text 是普通文本，\n 表示强制换行。
type Text struct {
	Value string
}

// Field 是排版时才能确定取值的片段（页码、总页数等）。
type Field struct {
	Type   FieldType
	Format NumberFormat
	// Name 是 pageref 引用的书签名。
	Name string
}

// Bookmark 在段落所在位置登记一个书签。
type Bookmark struct {
	Name string
}

func (Text) inline()     {}
func (Field) inline()    {}
func (Bookmark) inline() {}

// FieldType 是字段的种类。
type FieldType int

const (
	FieldPage FieldType = iota
	FieldNumPages
	FieldSection
	FieldSectionPages
	FieldPageRef
	FieldTitle
	FieldAuthor
)

// ParseFieldType 接受 DSL 中的字段名。
func ParseFieldType(name string) (FieldType, bool) {
	switch strings.ToLower(name) {
	case "page":
		return FieldPage, true
	case "numpages", "pages":
		return FieldNumPages, true
	case "section":
		return FieldSection, true
	case "sectionpages":
		return FieldSectionPages, true
	case "pageref":
		return FieldPageRef, true
	case "title":
		return FieldTitle, true
	case "author":
		return FieldAuthor, true
	}
	return 0, false
}

// IsNumeric 报告字段是否输出页码类数字。
func (t FieldType) IsNumeric() bool {
	return t != FieldTitle && t != FieldAuthor
}

// NumberFormat 决定数字字段的显示形式。
type NumberFormat int

const (
	NumberArabic NumberFormat = iota
	NumberRomanLower
	NumberRomanUpper
	NumberAlphaLower
	NumberAlphaUpper
)

// ParseNumberFormat 接受 arabic、roman、ROMAN、alphabetic、ALPHABETIC。
func ParseNumberFormat(s string) NumberFormat {
	switch s {
	case "roman":
		return NumberRomanLower
	case "ROMAN":
		return NumberRomanUpper
	case "alphabetic":
		return NumberAlphaLower
	case "ALPHABETIC":
		return NumberAlphaUpper
	default:
		return NumberArabic
	}
}

// AddText 追加文本片段。
func (p *Paragraph) AddText(s string) *Paragraph {
	p.Inlines = append(p.Inlines, Text{Value: s})
	return p
}

// AddField 追加字段片段。
func (p *Paragraph) AddField(t FieldType, format NumberFormat) *Paragraph {
	p.Inlines = append(p.Inlines, Field{Type: t, Format: format})
	return p
}

// AddPageRef 追加引用书签页码的字段。
func (p *Paragraph) AddPageRef(name string, format NumberFormat) *Paragraph {
	p.Inlines = append(p.Inlines, Field{Type: FieldPageRef, Name: name, Format: format})
	return p
}

// AddBookmark 登记书签。
func (p *Paragraph) AddBookmark(name string) *Paragraph {
	p.Inlines = append(p.Inlines, Bookmark{Name: name})
	return p
}

// Bookmarks 返回段落中登记的书签名。
func (p *Paragraph) Bookmarks() []string {
	var out []string
	for _, in := range p.Inlines {
		if b, ok := in.(Bookmark); ok {
			out = append(out, b.Name)
		}
	}
	return out
}

// PlainText 拼接文本片段，字段与书签被忽略。
func (p *Paragraph) PlainText() string {
	var b strings.Builder
	for _, in := range p.Inlines {
		if t, ok := in.(Text); ok {
			b.WriteString(t.Value)
		}
	}
	return b.String()
}
