package document

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ByLCY/folio/dsl"
)

// DefaultFontName 是未声明任何字体时注册的字体名。
const DefaultFontName = "Body"

func collectResources(doc *dsl.Document) (Resources, error) {
	res := NewResources()
	rawStyles := map[string]Style{}

	for _, section := range doc.Sections {
		if section.Resources == nil || section.Resources.Block == nil {
			continue
		}
		for _, stmt := range section.Resources.Block.Statements {
			if stmt.Command == nil {
				continue
			}
			switch stmt.Command.Name {
			case "font":
				font := parseFontResource(stmt.Command)
				if font.Name != "" {
					res.Fonts[font.Name] = font
				}
			case "color":
				name, value := parseColorResource(stmt.Command)
				if name == "" || value == "" {
					continue
				}
				c, err := ParseColor(value)
				if err != nil {
					return res, fmt.Errorf("color %s: %w", name, err)
				}
				res.Colors[name] = c
			case "image":
				image := parseImageResource(stmt.Command)
				if image.Name != "" {
					res.Images[image.Name] = image
				}
			case "style":
				style := parseStyleResource(stmt.Command)
				if style.Name != "" {
					rawStyles[style.Name] = style
				}
			}
		}
	}

	if len(res.Fonts) == 0 {
		res.Fonts[DefaultFontName] = FontResource{
			Name:   DefaultFontName,
			Src:    "embed:Go-Regular",
			Family: DefaultFontName,
		}
	}

	resolved, err := resolveStyles(rawStyles)
	if err != nil {
		return res, err
	}
	res.Styles = resolved
	return res, nil
}

func collectMeta(doc *dsl.Document) Info {
	meta := Info{Creator: "folio"}
	for _, section := range doc.Sections {
		if section.Meta == nil || section.Meta.Block == nil {
			continue
		}
		for _, stmt := range section.Meta.Block.Statements {
			if stmt.Assignment == nil {
				continue
			}
			switch strings.ToLower(stmt.Assignment.Key) {
			case "title":
				meta.Title = stmt.Assignment.Value.Text()
			case "author":
				meta.Author = stmt.Assignment.Value.Text()
			case "subject":
				meta.Subject = stmt.Assignment.Value.Text()
			case "creator":
				meta.Creator = stmt.Assignment.Value.Text()
			case "keywords":
				meta.Keywords = stmt.Assignment.Value.Strings()
			}
		}
	}
	return meta
}

func parseFontResource(cmd *dsl.Command) FontResource {
	if len(cmd.Args) == 0 {
		return FontResource{}
	}
	font := FontResource{
		Name:   cmd.Args[0].Value,
		Family: cmd.Args[0].Value,
	}
	if cmd.Block == nil {
		return font
	}
	for _, stmt := range cmd.Block.Statements {
		if stmt.Assignment == nil {
			continue
		}
		val := stmt.Assignment.Value.Text()
		switch stmt.Assignment.Key {
		case "src":
			font.Src = val
		case "style":
			font.Style = val
		case "fallback":
			font.Fallback = val
		case "family":
			font.Family = val
		}
	}
	return font
}

func parseImageResource(cmd *dsl.Command) ImageResource {
	if len(cmd.Args) == 0 {
		return ImageResource{}
	}
	image := ImageResource{Name: cmd.Args[0].Value}
	if cmd.Block == nil {
		return image
	}
	for _, stmt := range cmd.Block.Statements {
		if stmt.Assignment == nil {
			continue
		}
		val := stmt.Assignment.Value.Text()
		switch stmt.Assignment.Key {
		case "src":
			image.Src = val
		case "width":
			if v, ok := ParsePoints(val, 0); ok {
				image.Width = v
			}
		case "height":
			if v, ok := ParsePoints(val, 0); ok {
				image.Height = v
			}
		}
	}
	return image
}

func parseStyleResource(cmd *dsl.Command) Style {
	if len(cmd.Args) == 0 {
		return Style{}
	}
	style := Style{
		Name:  cmd.Args[0].Value,
		Props: map[string]string{},
	}
	if len(cmd.Args) >= 3 && strings.EqualFold(cmd.Args[1].Value, "extends") {
		style.Extends = cmd.Args[2].Value
	}
	if cmd.Block == nil {
		return style
	}
	for _, stmt := range cmd.Block.Statements {
		if stmt.Assignment == nil {
			continue
		}
		if val := stmt.Assignment.Value.Text(); val != "" {
			style.Props[stmt.Assignment.Key] = val
		}
	}
	return style
}

// resolveStyles 展开 extends 继承链，检测未定义与循环引用。
func resolveStyles(styles map[string]Style) (map[string]Style, error) {
	resolved := map[string]Style{}
	visiting := map[string]bool{}

	var dfs func(name string) (Style, error)
	dfs = func(name string) (Style, error) {
		if style, ok := resolved[name]; ok {
			return style, nil
		}
		style, ok := styles[name]
		if !ok {
			return Style{}, fmt.Errorf("style %s 未定义", name)
		}
		if visiting[name] {
			return Style{}, fmt.Errorf("style 继承存在循环：%s", name)
		}
		visiting[name] = true

		props := map[string]string{}
		if style.Extends != "" {
			parent, err := dfs(style.Extends)
			if err != nil {
				return Style{}, err
			}
			for k, v := range parent.Props {
				props[k] = v
			}
		}
		for k, v := range style.Props {
			props[k] = v
		}
		style.Props = props
		resolved[name] = style
		delete(visiting, name)
		return style, nil
	}

	for name := range styles {
		if _, err := dfs(name); err != nil {
			return nil, err
		}
	}
	return resolved, nil
}

func parseColorResource(cmd *dsl.Command) (string, string) {
	if len(cmd.Args) == 0 {
		return "", ""
	}
	name := cmd.Args[0].Value
	value := ""
	if len(cmd.Args) > 1 {
		value = cmd.Args[len(cmd.Args)-1].Value
	}
	return name, value
}

// pageSetup 解析 section 头部的页面参数，例如
// `section A4 landscape margin 20mm 25mm mirror start odd number 5`。
func (b *builder) pageSetup(params []*dsl.Lexeme, ps *PageSetup) error {
	landscape := false
	for i := 0; i < len(params); i++ {
		tok := params[i].Value
		next := func() (string, error) {
			if i+1 >= len(params) {
				return "", fmt.Errorf("%s 缺少取值", tok)
			}
			i++
			return params[i].Value, nil
		}
		switch strings.ToLower(tok) {
		case "landscape":
			landscape = true
		case "portrait":
			landscape = false
		case "mirror":
			ps.MirrorMargins = true
		case "first-page-different":
			ps.DifferentFirstPageHeaderFooter = true
		case "odd-even":
			ps.OddAndEvenPagesHeaderFooter = true
		case "margin":
			n := resolveMargin(params[i+1:], ps)
			i += n
		case "header-distance", "footer-distance", "width", "height":
			v, err := next()
			if err != nil {
				return err
			}
			l, err := ParseLength(v)
			if err != nil {
				return err
			}
			switch strings.ToLower(tok) {
			case "header-distance":
				ps.HeaderDistance = l.ToPT()
			case "footer-distance":
				ps.FooterDistance = l.ToPT()
			case "width":
				ps.PageWidth = l.ToPT()
			case "height":
				ps.PageHeight = l.ToPT()
			}
		case "start":
			v, err := next()
			if err != nil {
				return err
			}
			switch strings.ToLower(v) {
			case "odd":
				ps.SectionStart = StartOddPage
			case "even":
				ps.SectionStart = StartEvenPage
			case "new", "newpage":
				ps.SectionStart = StartNewPage
			default:
				return fmt.Errorf("未知的分节起始方式 %s", v)
			}
		case "number":
			v, err := next()
			if err != nil {
				return err
			}
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 {
				return fmt.Errorf("起始页码需要正整数: %s", v)
			}
			ps.StartingNumber = n
		default:
			size, ok := PageSizes[strings.ToUpper(tok)]
			if !ok {
				return fmt.Errorf("暂不支持的页面参数：%s", tok)
			}
			ps.PageWidth, ps.PageHeight = size[0], size[1]
		}
	}
	if landscape && ps.PageWidth < ps.PageHeight {
		ps.PageWidth, ps.PageHeight = ps.PageHeight, ps.PageWidth
	}
	return nil
}

// resolveMargin 读取 margin 之后最多 4 个长度，按 CSS 规则展开，返回消耗的参数个数。
func resolveMargin(params []*dsl.Lexeme, ps *PageSetup) int {
	vals := []float64{}
	for _, p := range params {
		if len(vals) == 4 {
			break
		}
		l, err := ParseLength(p.Value)
		if err != nil {
			break
		}
		vals = append(vals, l.ToPT())
	}
	switch len(vals) {
	case 1:
		ps.TopMargin, ps.RightMargin, ps.BottomMargin, ps.LeftMargin = vals[0], vals[0], vals[0], vals[0]
	case 2:
		ps.TopMargin, ps.RightMargin, ps.BottomMargin, ps.LeftMargin = vals[0], vals[1], vals[0], vals[1]
	case 3:
		ps.TopMargin, ps.RightMargin, ps.BottomMargin, ps.LeftMargin = vals[0], vals[1], vals[2], vals[1]
	case 4:
		ps.TopMargin, ps.RightMargin, ps.BottomMargin, ps.LeftMargin = vals[0], vals[1], vals[2], vals[3]
	}
	return len(vals)
}
