package document

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ByLCY/folio/binding"
	"github.com/ByLCY/folio/dsl"
)

// FromDSL 根据 DSL AST 构建内容树，文本中的 ${path} 由 data 插值。
func FromDSL(ast *dsl.Document, data any) (*Document, error) {
	if ast == nil {
		return nil, fmt.Errorf("文档为空")
	}
	res, err := collectResources(ast)
	if err != nil {
		return nil, err
	}
	doc := New()
	doc.Resources = res
	doc.Info = collectMeta(ast)

	b := &builder{res: res, data: data}
	for _, sec := range ast.Sections {
		if sec.Body == nil {
			continue
		}
		s := doc.AddSection()
		if err := b.pageSetup(sec.Body.Spec.Params, &s.PageSetup); err != nil {
			return nil, fmt.Errorf("section（第 %d 行）: %w", sec.Body.Pos.Line, err)
		}
		if err := b.section(sec.Body.Block, s); err != nil {
			return nil, err
		}
	}
	if len(doc.Sections) == 0 {
		return nil, fmt.Errorf("文档中缺少 section 段落")
	}
	return doc, nil
}

type builder struct {
	res  Resources
	data any
}

func (b *builder) section(block *dsl.Block, s *Section) error {
	if block == nil {
		return fmt.Errorf("section 缺少内容")
	}
	for _, stmt := range block.Statements {
		if stmt.Text != nil {
			s.AddParagraph(b.interpolate(string(stmt.Text.Value)))
			continue
		}
		cmd := stmt.Command
		if cmd == nil {
			continue
		}
		switch cmd.Name {
		case "header", "footer":
			if err := b.headerFooter(cmd, s); err != nil {
				return err
			}
		default:
			if err := b.element(cmd, &s.Container); err != nil {
				return err
			}
		}
	}
	return nil
}

func (b *builder) headerFooter(cmd *dsl.Command, s *Section) error {
	target := &s.Headers
	if cmd.Name == "footer" {
		target = &s.Footers
	}
	variant := "primary"
	if len(cmd.Args) > 0 {
		variant = strings.ToLower(cmd.Args[0].Value)
	}
	hf := &HeaderFooter{}
	if err := b.container(cmd.Block, &hf.Container); err != nil {
		return fmt.Errorf("%s: %w", cmd.Name, err)
	}
	switch variant {
	case "primary", "odd", "default":
		target.Primary = hf
	case "first":
		target.FirstPage = hf
		s.PageSetup.DifferentFirstPageHeaderFooter = true
	case "even":
		target.EvenPage = hf
		s.PageSetup.OddAndEvenPagesHeaderFooter = true
	default:
		return fmt.Errorf("%s 不支持的变体 %s", cmd.Name, variant)
	}
	return nil
}

// container 处理单元格、文本框、页眉页脚等容器的内容：
// 文本字面量各自成为一个段落，命令按种类分派。
func (b *builder) container(block *dsl.Block, c *Container) error {
	if block == nil {
		return nil
	}
	for _, stmt := range block.Statements {
		switch {
		case stmt.Text != nil:
			c.AddParagraph(b.interpolate(string(stmt.Text.Value)))
		case stmt.Command != nil:
			if err := b.element(stmt.Command, c); err != nil {
				return err
			}
		}
	}
	return nil
}

func (b *builder) element(cmd *dsl.Command, c *Container) error {
	var err error
	switch cmd.Name {
	case "paragraph", "p", "text":
		err = b.paragraph(cmd, c)
	case "table":
		err = b.table(cmd, c)
	case "frame":
		err = b.frame(cmd, c)
	case "image":
		err = b.image(cmd, c)
	case "pagebreak":
		c.AddPageBreak()
	default:
		// 未知命令忽略
		return nil
	}
	if err != nil {
		return fmt.Errorf("%s（第 %d 行）: %w", cmd.Name, cmd.Pos.Line, err)
	}
	return nil
}

func (b *builder) paragraph(cmd *dsl.Command, c *Container) error {
	args := cmd.Args
	var inline []string
	for len(args) > 0 && args[0].Type == "String" {
		inline = append(inline, args[0].Value)
		args = args[1:]
	}
	style, attrs := parseArgs(args, true)
	attrs = mergeStyleAttributes(style, attrs, b.res.Styles)

	p := NewParagraph()
	if err := b.paragraphFormat(attrs, &p.Format); err != nil {
		return err
	}
	for _, s := range inline {
		p.AddText(b.interpolate(s))
	}
	if cmd.Block != nil {
		for _, stmt := range cmd.Block.Statements {
			switch {
			case stmt.Text != nil:
				p.AddText(b.interpolate(string(stmt.Text.Value)))
			case stmt.Command != nil:
				if err := b.inline(stmt.Command, p); err != nil {
					return err
				}
			}
		}
	}
	c.Add(p)
	return nil
}

func (b *builder) inline(cmd *dsl.Command, p *Paragraph) error {
	switch cmd.Name {
	case "field":
		if len(cmd.Args) == 0 {
			return fmt.Errorf("field 缺少类型")
		}
		ft, ok := ParseFieldType(cmd.Args[0].Value)
		if !ok {
			return fmt.Errorf("未知的字段类型 %s", cmd.Args[0].Value)
		}
		_, attrs := parseArgs(cmd.Args[1:], false)
		f := Field{Type: ft, Format: ParseNumberFormat(attrs["format"])}
		if ft == FieldPageRef {
			f.Name = attrs["name"]
		}
		p.Inlines = append(p.Inlines, f)
	case "pageref":
		if len(cmd.Args) == 0 {
			return fmt.Errorf("pageref 缺少书签名")
		}
		_, attrs := parseArgs(cmd.Args[1:], false)
		p.AddPageRef(cmd.Args[0].Value, ParseNumberFormat(attrs["format"]))
	case "bookmark":
		if len(cmd.Args) == 0 {
			return fmt.Errorf("bookmark 缺少名称")
		}
		p.AddBookmark(cmd.Args[0].Value)
	case "br":
		p.AddText("\n")
	}
	return nil
}

func (b *builder) paragraphFormat(attrs map[string]string, f *ParagraphFormat) error {
	if v := attrs["font"]; v != "" {
		f.Font.Name = v
	}
	if v := attrs["size"]; v != "" {
		if size, ok := ParsePoints(v, 0); ok {
			f.Font.Size = size
		}
	}
	f.Font.Bold = parseBool(attrs["bold"], f.Font.Bold)
	f.Font.Italic = parseBool(attrs["italic"], f.Font.Italic)
	if v := attrs["color"]; v != "" {
		f.Font.Color = b.color(v)
	}
	switch strings.ToLower(attrs["align"]) {
	case "center", "middle":
		f.Alignment = AlignCenter
	case "right", "end":
		f.Alignment = AlignRight
	case "justify":
		f.Alignment = AlignJustify
	}
	f.LeftIndent = b.length(attrs["indent-left"], f.LeftIndent)
	f.RightIndent = b.length(attrs["indent-right"], f.RightIndent)
	f.FirstLineIndent = b.length(attrs["first-line-indent"], f.FirstLineIndent)
	f.SpaceBefore = b.length(attrs["space-before"], f.SpaceBefore)
	f.SpaceAfter = b.length(attrs["space-after"], f.SpaceAfter)
	if v := attrs["line-spacing"]; v != "" {
		ls, err := ParseLineSpacing(v)
		if err != nil {
			return err
		}
		f.LineSpacingRule = ls.Rule
		f.LineSpacing = ls.Value
	}
	f.KeepTogether = parseBool(attrs["keep-together"], f.KeepTogether)
	f.KeepWithNext = parseBool(attrs["keep-with-next"], f.KeepWithNext)
	f.PageBreakBefore = parseBool(attrs["page-break-before"], f.PageBreakBefore)
	f.WidowControl = parseBool(attrs["widow-control"], f.WidowControl)
	f.Borders = b.borders(attrs)
	if f.Borders != nil {
		f.Borders.Distance = b.length(attrs["border-distance"], 0)
	}
	f.Shading = b.shading(attrs["shading"])
	if v := attrs["list"]; v != "" {
		lt, ok := parseListType(v)
		if !ok {
			return fmt.Errorf("未知的列表类型 %s", v)
		}
		f.ListInfo = &ListInfo{
			ListType:       lt,
			Restart:        parseBool(attrs["list-restart"], false),
			NumberPosition: b.length(attrs["list-position"], 0),
		}
	}
	return nil
}

func parseListType(v string) (ListType, bool) {
	switch strings.ToLower(v) {
	case "bullet", "bullet1":
		return BulletList1, true
	case "bullet2":
		return BulletList2, true
	case "bullet3":
		return BulletList3, true
	case "number", "number1":
		return NumberList1, true
	case "number2":
		return NumberList2, true
	case "number3":
		return NumberList3, true
	}
	return 0, false
}

func (b *builder) table(cmd *dsl.Command, c *Container) error {
	if cmd.Block == nil {
		return fmt.Errorf("table 语句缺少内容")
	}
	style, attrs := parseArgs(cmd.Args, true)
	attrs = mergeStyleAttributes(style, attrs, b.res.Styles)

	t := NewTable()
	t.Borders = b.borders(attrs)
	t.Shading = b.shading(attrs["shading"])
	t.TopPadding = b.length(attrs["padding-top"], t.TopPadding)
	t.BottomPadding = b.length(attrs["padding-bottom"], t.BottomPadding)
	t.LeftPadding = b.length(attrs["padding-left"], t.LeftPadding)
	t.RightPadding = b.length(attrs["padding-right"], t.RightPadding)
	t.LeftIndent = b.length(attrs["indent"], 0)
	t.KeepTogether = parseBool(attrs["keep-together"], false)
	switch strings.ToLower(attrs["align"]) {
	case "center", "middle":
		t.Alignment = RowsCenter
	case "right", "end":
		t.Alignment = RowsRight
	}

	for _, sub := range cmd.Block.Commands("") {
		switch sub.Name {
		case "column":
			if err := b.column(sub, t); err != nil {
				return err
			}
		case "row":
			if err := b.row(sub, t); err != nil {
				return err
			}
		}
	}
	if err := t.Validate(); err != nil {
		return err
	}
	c.Add(t)
	return nil
}

func (b *builder) column(cmd *dsl.Command, t *Table) error {
	args := cmd.Args
	width := 0.0
	if len(args) > 0 && args[0].Type == "Number" {
		width = b.length(args[0].Value, 0)
		args = args[1:]
	}
	_, attrs := parseArgs(args, false)
	width = b.length(attrs["width"], width)
	col, err := t.AddColumn(width)
	if err != nil {
		return err
	}
	if v := attrs["padding-left"]; v != "" {
		col.LeftPadding = Pt(b.length(v, 0))
	}
	if v := attrs["padding-right"]; v != "" {
		col.RightPadding = Pt(b.length(v, 0))
	}
	col.Borders = b.borders(attrs)
	col.Shading = b.shading(attrs["shading"])
	return nil
}

func (b *builder) row(cmd *dsl.Command, t *Table) error {
	style, attrs := parseArgs(cmd.Args, true)
	attrs = mergeStyleAttributes(style, attrs, b.res.Styles)
	row, err := t.AddRow()
	if err != nil {
		return err
	}
	row.Height = b.length(attrs["height"], 0)
	switch strings.ToLower(attrs["rule"]) {
	case "exactly", "exact":
		row.HeightRule = HeightExactly
	case "atleast", "at-least":
		row.HeightRule = HeightAtLeast
	default:
		if row.Height > 0 {
			row.HeightRule = HeightAtLeast
		}
	}
	row.HeadingFormat = parseBool(attrs["heading"], false)
	if v := attrs["keep-with"]; v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("keep-with 需要整数: %w", err)
		}
		row.KeepWith = n
	}
	row.VerticalAlignment = parseVAlign(attrs["valign"])
	if v := attrs["padding-top"]; v != "" {
		row.TopPadding = Pt(b.length(v, 0))
	}
	if v := attrs["padding-bottom"]; v != "" {
		row.BottomPadding = Pt(b.length(v, 0))
	}
	row.Borders = b.borders(attrs)
	row.Shading = b.shading(attrs["shading"])

	if cmd.Block == nil {
		return nil
	}
	col := 0
	for _, cellCmd := range cmd.Block.Commands("cell") {
		// 跳过被左侧或上方单元格合并覆盖的位置
		for col < len(row.cells) && t.covered(row.index, col) {
			col++
		}
		cell, err := row.Cell(col)
		if err != nil {
			return err
		}
		if err := b.cell(cellCmd, cell); err != nil {
			return err
		}
		col++
	}
	return nil
}

func (b *builder) cell(cmd *dsl.Command, cell *Cell) error {
	style, attrs := parseArgs(cmd.Args, true)
	attrs = mergeStyleAttributes(style, attrs, b.res.Styles)
	if v := attrs["merge-right"]; v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("merge-right 需要整数: %w", err)
		}
		cell.MergeRight = n
	}
	if v := attrs["merge-down"]; v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("merge-down 需要整数: %w", err)
		}
		cell.MergeDown = n
	}
	cell.VerticalAlignment = parseVAlign(attrs["valign"])
	switch strings.ToLower(attrs["corner"]) {
	case "top-left":
		cell.RoundedCorner = CornerTopLeft
	case "top-right":
		cell.RoundedCorner = CornerTopRight
	case "bottom-left":
		cell.RoundedCorner = CornerBottomLeft
	case "bottom-right":
		cell.RoundedCorner = CornerBottomRight
	}
	cell.Borders = b.borders(attrs)
	cell.Shading = b.shading(attrs["shading"])
	return b.container(cmd.Block, &cell.Container)
}

func parseVAlign(v string) VerticalAlignment {
	switch strings.ToLower(v) {
	case "top":
		return VAlignTop
	case "center", "middle":
		return VAlignCenter
	case "bottom":
		return VAlignBottom
	}
	return VAlignUnset
}

func (b *builder) frame(cmd *dsl.Command, c *Container) error {
	style, attrs := parseArgs(cmd.Args, true)
	attrs = mergeStyleAttributes(style, attrs, b.res.Styles)
	f := c.AddTextFrame(b.length(attrs["width"], 0), b.length(attrs["height"], 0))
	if f.Width <= 0 || f.Height <= 0 {
		return fmt.Errorf("frame 需要正的 width 与 height")
	}
	b.shape(attrs, &f.Shape)
	margin := b.length(attrs["margin"], 0)
	f.MarginLeft = b.length(attrs["margin-left"], margin)
	f.MarginRight = b.length(attrs["margin-right"], margin)
	f.MarginTop = b.length(attrs["margin-top"], margin)
	f.MarginBottom = b.length(attrs["margin-bottom"], margin)
	switch strings.ToLower(attrs["orientation"]) {
	case "upward", "up":
		f.Orientation = Upward
	case "downward", "down":
		f.Orientation = Downward
	}
	return b.container(cmd.Block, &f.Container)
}

func (b *builder) image(cmd *dsl.Command, c *Container) error {
	args := cmd.Args
	name := ""
	if len(args) > 0 && (args[0].Type == "Ident" || args[0].Type == "String") && len(args)%2 == 1 {
		name = args[0].Value
		args = args[1:]
	}
	_, attrs := parseArgs(args, false)
	if v := attrs["src"]; v != "" {
		name = v
	}
	if name == "" {
		return fmt.Errorf("image 语句缺少资源或 src")
	}
	img := c.AddImage(name)
	if r, ok := b.res.Images[name]; ok {
		if r.Src != "" {
			img.Path = r.Src
		}
		img.Width = r.Width
		img.Height = r.Height
	}
	b.shape(attrs, &img.Shape)
	img.LockAspectRatio = parseBool(attrs["lock-aspect"], true)
	return nil
}

// shape 解析文本框与图片共享的尺寸、定位与轮廓属性。
func (b *builder) shape(attrs map[string]string, s *Shape) {
	s.Width = b.length(attrs["width"], s.Width)
	s.Height = b.length(attrs["height"], s.Height)
	s.Left = b.position(attrs["left"])
	s.Top = b.position(attrs["top"])
	switch strings.ToLower(attrs["rel-h"]) {
	case "page":
		s.RelativeHorizontal = RelHorzPage
	case "column":
		s.RelativeHorizontal = RelHorzColumn
	case "character":
		s.RelativeHorizontal = RelHorzCharacter
	}
	switch strings.ToLower(attrs["rel-v"]) {
	case "line":
		s.RelativeVertical = RelVertLine
	case "margin":
		s.RelativeVertical = RelVertMargin
	case "page":
		s.RelativeVertical = RelVertPage
	}
	switch strings.ToLower(attrs["wrap"]) {
	case "none":
		s.WrapFormat.Style = WrapNone
	case "through":
		s.WrapFormat.Style = WrapThrough
	}
	s.WrapFormat.DistanceTop = b.length(attrs["wrap-top"], 0)
	s.WrapFormat.DistanceBottom = b.length(attrs["wrap-bottom"], 0)
	s.WrapFormat.DistanceLeft = b.length(attrs["wrap-left"], 0)
	s.WrapFormat.DistanceRight = b.length(attrs["wrap-right"], 0)
	if v := attrs["line"]; v != "" {
		s.LineFormat.Width = b.length(v, 0)
	}
	if v := attrs["line-color"]; v != "" {
		s.LineFormat.Color = b.color(v)
	}
	if v := attrs["fill"]; v != "" {
		s.FillFormat.Color = b.color(v)
	}
}

func (b *builder) position(v string) ShapePosition {
	switch strings.ToLower(v) {
	case "":
		return ShapePosition{}
	case "left":
		return ShapePosition{Align: PosLeft}
	case "right":
		return ShapePosition{Align: PosRight}
	case "center":
		return ShapePosition{Align: PosCenter}
	case "inside":
		return ShapePosition{Align: PosInside}
	case "outside":
		return ShapePosition{Align: PosOutside}
	case "top":
		return ShapePosition{Align: PosTop}
	case "bottom":
		return ShapePosition{Align: PosBottom}
	}
	return ShapePosition{Offset: b.length(v, 0)}
}

// borders 读取 border、border-color、border-style、border-top 等属性，
// 未设置任何边框属性时返回 nil。
func (b *builder) borders(attrs map[string]string) *Borders {
	out := &Borders{}
	set := false
	if v := attrs["border"]; v != "" {
		if strings.EqualFold(v, "none") {
			out.Visible = Bool(false)
		} else {
			out.Width = Pt(b.length(v, DefaultBorderWidth))
		}
		set = true
	}
	if v := attrs["border-color"]; v != "" {
		out.Color = b.color(v)
		set = true
	}
	if v := attrs["border-style"]; v != "" {
		out.Style = parseBorderStyle(v)
		set = true
	}
	for _, edge := range []struct {
		key string
		t   BorderType
	}{
		{"border-top", BorderTop},
		{"border-left", BorderLeft},
		{"border-bottom", BorderBottom},
		{"border-right", BorderRight},
		{"border-diagonal-down", BorderDiagonalDown},
		{"border-diagonal-up", BorderDiagonalUp},
	} {
		v := attrs[edge.key]
		if v == "" {
			continue
		}
		e := &Border{}
		if strings.EqualFold(v, "none") {
			e.Visible = Bool(false)
		} else {
			e.Width = Pt(b.length(v, DefaultBorderWidth))
		}
		if c := attrs[edge.key+"-color"]; c != "" {
			e.Color = b.color(c)
		}
		out.SetEdge(edge.t, e)
		set = true
	}
	if !set {
		return nil
	}
	return out
}

func parseBorderStyle(v string) BorderStyle {
	switch strings.ToLower(v) {
	case "single", "solid":
		return BorderSingle
	case "dot", "dotted":
		return BorderDot
	case "dash", "dash-small":
		return BorderDashSmallGap
	case "dash-large":
		return BorderDashLargeGap
	case "dash-dot":
		return BorderDashDot
	case "dash-dot-dot":
		return BorderDashDotDot
	case "none":
		return BorderNone
	}
	return BorderStyleUnset
}

func (b *builder) shading(v string) *Shading {
	if v == "" {
		return nil
	}
	if strings.EqualFold(v, "none") {
		return &Shading{Visible: Bool(false)}
	}
	return &Shading{Color: b.color(v)}
}

func (b *builder) color(v string) *Color {
	if c, ok := b.res.Colors[v]; ok {
		return &c
	}
	c, err := ParseColor(v)
	if err != nil {
		return nil
	}
	return &c
}

func (b *builder) length(v string, def float64) float64 {
	if v == "" {
		return def
	}
	if f, ok := ParsePoints(v, 0); ok {
		return f
	}
	return def
}

func (b *builder) interpolate(s string) string {
	return binding.Interpolate(s, b.data)
}

func parseBool(v string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "yes", "on", "1":
		return true
	case "false", "no", "off", "0":
		return false
	}
	return def
}

// parseArgs 把 "key value" 形式的参数转为 map；allowStyle 时允许以样式名开头
// （此时参数个数为奇数）。
func parseArgs(args []*dsl.Lexeme, allowStyle bool) (string, map[string]string) {
	result := map[string]string{}
	if len(args) == 0 {
		return "", result
	}

	cursor := 0
	var style string
	if allowStyle && args[0].Type == "Ident" && len(args)%2 == 1 {
		style = args[0].Value
		cursor = 1
	}

	for cursor < len(args)-1 {
		result[args[cursor].Value] = args[cursor+1].Value
		cursor += 2
	}
	return style, result
}

func mergeStyleAttributes(style string, inline map[string]string, styles map[string]Style) map[string]string {
	out := make(map[string]string)
	if style != "" {
		if s, ok := styles[style]; ok {
			for k, v := range s.Props {
				out[k] = v
			}
		}
	}
	for k, v := range inline {
		out[k] = v
	}
	return out
}
