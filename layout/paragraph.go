package layout

import (
	"strings"

	"github.com/ByLCY/folio/document"
)

// ParagraphFormatInfo 记录段落在一个区域中放下的行区间 [StartLine, EndLine)。
// 折行结果在各片段之间共享。
type ParagraphFormatInfo struct {
	StartLine int `json:"startLine"`
	EndLine   int `json:"endLine"`
	LineCount int `json:"lineCount"`

	lines        []paraLine
	lineHeight   float64
	font         Font
	label        string
	labelOffset  float64
	widowControl bool
}

func (f *ParagraphFormatInfo) count() int { return f.EndLine - f.StartLine }

func (f *ParagraphFormatInfo) IsEmpty() bool    { return f.count() <= 0 }
func (f *ParagraphFormatInfo) IsStarting() bool { return !f.IsEmpty() && f.StartLine == 0 }
func (f *ParagraphFormatInfo) IsEnding() bool   { return !f.IsEmpty() && f.EndLine == f.LineCount }
func (f *ParagraphFormatInfo) IsComplete() bool { return f.IsStarting() && f.IsEnding() }

// StartingIsComplete 在孤行控制下要求开头至少两行。
func (f *ParagraphFormatInfo) StartingIsComplete() bool {
	if !f.IsStarting() {
		return false
	}
	return !f.widowControl || f.count() >= 2 || f.IsEnding()
}

// EndingIsComplete 在孤行控制下要求结尾至少两行。
func (f *ParagraphFormatInfo) EndingIsComplete() bool {
	if !f.IsEnding() {
		return false
	}
	return !f.widowControl || f.count() >= 2 || f.IsStarting()
}

// removeEnding 把结尾的行让给下一区域；孤行控制下至少让出两行。
func (f *ParagraphFormatInfo) removeEnding() {
	k := 1
	if f.widowControl {
		k = 2
	}
	if k >= f.count() {
		f.EndLine = f.StartLine
		return
	}
	f.EndLine -= k
}

type paragraphRenderer struct {
	rendererBase
	p *document.Paragraph
}

func newParagraphRenderer(ctx *Context, p *document.Paragraph, fieldInfos *FieldInfos) *paragraphRenderer {
	return &paragraphRenderer{rendererBase: rendererBase{ctx: ctx, fieldInfos: fieldInfos}, p: p}
}

func (r *paragraphRenderer) InitialLayoutInfo() LayoutInfo {
	f := r.p.Format
	return LayoutInfo{
		MarginTop:           f.SpaceBefore,
		MarginBottom:        f.SpaceAfter,
		KeepTogether:        f.KeepTogether,
		KeepWithNext:        f.KeepWithNext,
		PageBreakBefore:     f.PageBreakBefore,
		Floating:            FloatTopBottom,
		VerticalReference:   RefPreviousElement,
		HorizontalReference: RefAreaBoundary,
	}
}

// borderExtents 返回边框与文本之间在四个方向上占用的空间。
func (r *paragraphRenderer) borderExtents() (set document.BorderSet, left, right, top, bottom float64) {
	b := r.p.Format.Borders
	if b == nil {
		return set, 0, 0, 0, 0
	}
	set = document.ResolveBorders(b)
	d := b.Distance
	return set,
		set.Width(document.BorderLeft) + d,
		set.Width(document.BorderRight) + d,
		set.Width(document.BorderTop) + d,
		set.Width(document.BorderBottom) + d
}

func (r *paragraphRenderer) lineHeight(font Font) float64 {
	single := r.ctx.singleLineHeight(font)
	f := r.p.Format
	switch f.LineSpacingRule {
	case document.LineSpacingOnePtFive:
		return single * 1.5
	case document.LineSpacingDouble:
		return single * 2
	case document.LineSpacingAtLeast:
		return max(single, f.LineSpacing)
	case document.LineSpacingExactly:
		if f.LineSpacing > 0 {
			return f.LineSpacing
		}
	case document.LineSpacingMultiple:
		if f.LineSpacing > 0 {
			return single * f.LineSpacing
		}
	}
	return single
}

// textWidth 返回段落文本区的宽度。
func (r *paragraphRenderer) textWidth(areaWidth float64) float64 {
	f := r.p.Format
	_, bl, br, _, _ := r.borderExtents()
	return areaWidth - f.LeftIndent - f.RightIndent - bl - br
}

// prepare 折行并计算列表标签，只在第一个片段执行一次。
func (r *paragraphRenderer) prepare(areaWidth float64) *ParagraphFormatInfo {
	f := r.p.Format
	font := r.ctx.resolveFont(f.Font)
	info := &ParagraphFormatInfo{
		font:         font,
		lineHeight:   r.lineHeight(font),
		widowControl: f.WidowControl,
	}
	measureText := func(s string) float64 { return r.ctx.Measurer.TextWidth(font, s) }
	measure := func(t paraToken) float64 {
		if t.field != nil {
			return measureText(r.fieldInfos.measureText(*t.field))
		}
		return measureText(t.text)
	}

	width := r.textWidth(areaWidth)
	firstIndent := f.FirstLineIndent
	if f.ListInfo != nil {
		info.label = r.ctx.lists.label(f.ListInfo)
		info.labelOffset = f.FirstLineIndent + f.ListInfo.NumberPosition
		firstIndent = max(info.labelOffset+measureText(info.label)+measureText(" "), 0)
	}

	info.lines = greedyWrapTokens(tokenizeInlines(r.p.Inlines), width-firstIndent, width, measure, measureText)
	if len(info.lines) > 0 {
		info.lines[0].indent = firstIndent
	}
	info.LineCount = len(info.lines)
	return info
}

func (r *paragraphRenderer) Format(area Area, prev FormatInfo) {
	bounds := area.Bounds()
	var info *ParagraphFormatInfo
	if pf, ok := prev.(*ParagraphFormatInfo); ok && pf != nil {
		cp := *pf
		cp.StartLine = pf.EndLine
		info = &cp
	} else {
		info = r.prepare(bounds.Width)
	}

	_, _, _, topExtra, bottomExtra := r.borderExtents()
	used := 0.0
	if info.StartLine == 0 {
		used += topExtra
	}
	end := info.StartLine
	for end < info.LineCount {
		need := used + info.lineHeight
		if end+1 == info.LineCount {
			need += bottomExtra
		}
		if !bounds.IsUnbounded() && need > bounds.Height+Tolerance {
			break
		}
		used += info.lineHeight
		end++
	}
	// 不把最后一行单独留给下一区域。
	if info.widowControl && end < info.LineCount && info.LineCount-end == 1 && end-info.StartLine >= 2 {
		end--
	}
	info.EndLine = end

	height := float64(info.count()) * info.lineHeight
	if info.IsStarting() {
		height += topExtra
	}
	if info.IsEnding() {
		height += bottomExtra
	}

	li := r.InitialLayoutInfo()
	if !info.IsStarting() {
		li.PageBreakBefore = false
	}
	li.ContentArea = Rectangle{X: bounds.X, Y: bounds.Y, Width: bounds.Width, Height: height}
	li.StartingHeight = info.lineHeight + topExtra
	li.TrailingHeight = info.lineHeight + bottomExtra
	if info.IsEmpty() {
		li.ContentArea.Height = 0
	}
	r.renderInfo = &RenderInfo{Element: r.p, LayoutInfo: li, FormatInfo: info}

	if info.IsStarting() && r.fieldInfos != nil {
		for _, name := range r.p.Bookmarks() {
			r.fieldInfos.AddBookmark(name)
		}
	}
}

func (r *paragraphRenderer) Render(s Surface) {
	info, ok := r.renderInfo.FormatInfo.(*ParagraphFormatInfo)
	if !ok || info.IsEmpty() {
		return
	}
	f := r.p.Format
	area := r.renderInfo.LayoutInfo.ContentArea
	set, bl, _, topExtra, _ := r.borderExtents()

	box := Rectangle{X: area.X + f.LeftIndent, Y: area.Y, Width: area.Width - f.LeftIndent - f.RightIndent, Height: area.Height}
	if fill, ok := f.Shading.Fill(); ok {
		s.DrawRect(nil, &fill, box.X, box.Y, box.Width, box.Height)
	}
	if f.Borders != nil {
		bordersRenderer{set: set}.renderBox(s, box, info.IsStarting(), info.IsEnding())
	}

	font := info.font
	metrics := s.FontMetrics(font)
	single := r.ctx.singleLineHeight(font)
	ascent := metrics.Ascent
	if ascent <= 0 {
		ascent = font.Size * 0.8
	}
	if info.lineHeight < single && single > 0 {
		ascent *= info.lineHeight / single
	}

	textX := box.X + bl
	y := area.Y
	if info.IsStarting() {
		y += topExtra
	}
	for i := info.StartLine; i < info.EndLine; i++ {
		baseline := y + ascent
		if i == 0 && info.label != "" {
			s.DrawText(font, textX+info.labelOffset, baseline, info.label)
		}
		r.renderLine(s, font, info.lines[i], textX, baseline)
		y += info.lineHeight
	}
}

// renderLine 按对齐方式绘制一行。域在此时才取真实值。
func (r *paragraphRenderer) renderLine(s Surface, font Font, line paraLine, textX, baseline float64) {
	type piece struct {
		text  string
		width float64
		space bool
	}
	pieces := make([]piece, 0, len(line.tokens))
	width := 0.0
	spaces := 0
	for _, t := range line.tokens {
		p := piece{text: t.text, width: t.width, space: t.space}
		if t.field != nil {
			p.text = r.fieldInfos.renderText(*t.field)
			if p.text == unresolvedPageRef {
				r.ctx.Logger.Warn("页码引用的书签不存在", "bookmark", t.field.Name)
			}
			p.width = s.TextWidth(font, p.text)
		}
		if p.space {
			spaces++
		}
		width += p.width
		pieces = append(pieces, p)
	}

	x := textX + line.indent
	extra := 0.0
	switch r.p.Format.Alignment {
	case document.AlignCenter:
		x += (line.limit - width) / 2
	case document.AlignRight:
		x += line.limit - width
	case document.AlignJustify:
		if !line.forced && spaces > 0 && line.limit > width {
			extra = (line.limit - width) / float64(spaces)
		}
	}

	if extra == 0 {
		var sb strings.Builder
		for _, p := range pieces {
			sb.WriteString(p.text)
		}
		if sb.Len() > 0 {
			s.DrawText(font, x, baseline, sb.String())
		}
		return
	}
	for _, p := range pieces {
		if p.space {
			x += p.width + extra
			continue
		}
		if p.text != "" {
			s.DrawText(font, x, baseline, p.text)
		}
		x += p.width
	}
}
