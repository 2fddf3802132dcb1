package layout

import (
	"github.com/ByLCY/folio/document"
)

// BookmarkInfo 记录书签所在页。
type BookmarkInfo struct {
	PhysicalPage int `json:"physicalPage"`
	DisplayPage  int `json:"displayPage"`
}

// FieldInfos 是某一页上域的取值。书签表在整个文档内共享。
type FieldInfos struct {
	PhysicalPage int `json:"physicalPage"`
	DisplayPage  int `json:"displayPage"`
	Section      int `json:"section"`
	SectionPages int `json:"sectionPages"`
	NumPages     int `json:"numPages"`

	info      document.Info
	bookmarks map[string]BookmarkInfo
}

func newFieldInfos(info document.Info, bookmarks map[string]BookmarkInfo) *FieldInfos {
	return &FieldInfos{info: info, bookmarks: bookmarks}
}

// AddBookmark 把书签登记到当前页。同一书签被再次排版时以最后一次为准。
func (f *FieldInfos) AddBookmark(name string) {
	if f == nil || f.bookmarks == nil || name == "" {
		return
	}
	f.bookmarks[name] = BookmarkInfo{PhysicalPage: f.PhysicalPage, DisplayPage: f.DisplayPage}
}

// Bookmark 返回书签所在页。
func (f *FieldInfos) Bookmark(name string) (BookmarkInfo, bool) {
	if f == nil || f.bookmarks == nil {
		return BookmarkInfo{}, false
	}
	b, ok := f.bookmarks[name]
	return b, ok
}

// fieldPlaceholder 是取值未知时用于测量宽度的占位数字。
const fieldPlaceholder = 999

// Value 返回域在本页的文本。ok 为 false 表示当前还无法确定取值。
func (f *FieldInfos) Value(field document.Field) (string, bool) {
	if f == nil {
		return "", false
	}
	num := func(n int) (string, bool) {
		if n <= 0 {
			return "", false
		}
		return document.FormatNumber(n, field.Format), true
	}
	switch field.Type {
	case document.FieldPage:
		return num(f.DisplayPage)
	case document.FieldNumPages:
		return num(f.NumPages)
	case document.FieldSection:
		return num(f.Section)
	case document.FieldSectionPages:
		return num(f.SectionPages)
	case document.FieldPageRef:
		b, ok := f.Bookmark(field.Name)
		if !ok {
			return "", false
		}
		return num(b.DisplayPage)
	case document.FieldTitle:
		return f.info.Title, true
	case document.FieldAuthor:
		return f.info.Author, true
	}
	return "", false
}

// measureText 返回排版阶段用于测量的文本：取值已知时用真实值，否则用占位值。
func (f *FieldInfos) measureText(field document.Field) string {
	if s, ok := f.Value(field); ok {
		return s
	}
	if field.Type.IsNumeric() {
		return document.FormatNumber(fieldPlaceholder, field.Format)
	}
	return ""
}

// unresolvedPageRef 是书签不存在时页码引用显示的文本。
const unresolvedPageRef = "??"

// renderText 返回绘制阶段的文本；无法解析的页码引用显示为 unresolvedPageRef。
func (f *FieldInfos) renderText(field document.Field) string {
	if s, ok := f.Value(field); ok {
		return s
	}
	if field.Type.IsNumeric() {
		return unresolvedPageRef
	}
	return ""
}

// clone 复制标量字段并共享书签表。
func (f *FieldInfos) clone() *FieldInfos {
	cp := *f
	return &cp
}
