package layout

import (
	"github.com/ByLCY/folio/document"
)

// listNumbering 在一次排版会话内为列表项分配编号。
// 编号按 *ListInfo 的身份记忆，同一列表项被重复排版（探测、跨页续排）时编号不变。
type listNumbering struct {
	counters map[document.ListType]int
	assigned map[*document.ListInfo]int
}

func newListNumbering() *listNumbering {
	return &listNumbering{
		counters: map[document.ListType]int{},
		assigned: map[*document.ListInfo]int{},
	}
}

// number 返回列表项的编号；第一次见到该列表项时分配新编号。
func (l *listNumbering) number(info *document.ListInfo) int {
	if n, ok := l.assigned[info]; ok {
		return n
	}
	n := 1
	if !info.Restart {
		n = l.counters[info.ListType] + 1
	}
	l.counters[info.ListType] = n
	l.assigned[info] = n
	return n
}

// label 返回列表项的标签文本。
func (l *listNumbering) label(info *document.ListInfo) string {
	switch info.ListType {
	case document.BulletList1:
		return "•"
	case document.BulletList2:
		return "–"
	case document.BulletList3:
		return "·"
	case document.NumberList1:
		return document.FormatNumber(l.number(info), document.NumberArabic) + "."
	case document.NumberList2:
		return document.FormatNumber(l.number(info), document.NumberAlphaLower) + "."
	case document.NumberList3:
		return document.FormatNumber(l.number(info), document.NumberRomanLower) + "."
	}
	return ""
}
