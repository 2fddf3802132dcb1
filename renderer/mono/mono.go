// Package mono 提供不依赖字体文件的等宽测量器，以及把页面输出为字符网格的文本渲染器。
// 度量取自 basicfont.Face7x13 并按字号缩放，东亚宽字符占两格。
package mono

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/width"

	"github.com/ByLCY/folio/document"
	"github.com/ByLCY/folio/layout"
	"github.com/ByLCY/folio/renderer"
)

var face = basicfont.Face7x13

// Renderer 是等宽测量器，同时能把页面渲染为纯文本。
type Renderer struct{}

var _ renderer.Backend = Renderer{}

// cellWidth 返回一个半角字符在 size 字号下的宽度。
func cellWidth(size float64) float64 {
	adv, ok := face.GlyphAdvance('x')
	if !ok {
		adv = fixed.I(face.Advance)
	}
	return float64(adv) / 64 * size / float64(face.Height)
}

// cells 返回字符占用的格数。
func cells(r rune) int {
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return 2
	}
	return 1
}

// TextWidth 实现 layout.Measurer。
func (Renderer) TextWidth(font layout.Font, text string) float64 {
	n := 0
	for _, r := range text {
		n += cells(r)
	}
	return float64(n) * cellWidth(font.Size)
}

// FontMetrics 实现 layout.Measurer，行高等于字号。
func (Renderer) FontMetrics(font layout.Font) layout.FontMetrics {
	scale := font.Size / float64(face.Height)
	return layout.FontMetrics{
		Ascent:     float64(face.Ascent) * scale,
		Descent:    float64(face.Descent) * scale,
		LineHeight: font.Size,
	}
}

// Render 把每一页输出为字符网格，页与页之间用换页符分隔。
func (r Renderer) Render(doc *layout.FormattedDocument) ([]byte, error) {
	var buf bytes.Buffer
	err := renderer.EachPage(doc, func(info layout.PageInfo) (layout.Surface, func() error, error) {
		g := newGrid(info.Width, info.Height)
		finish := func() error {
			if info.Number > 1 {
				buf.WriteString("\f")
			}
			buf.WriteString(g.String())
			return nil
		}
		return g, finish, nil
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// 网格的格子尺寸：10pt 字号下的一个半角字符。
const gridFontSize = 10

// grid 是一页字符画。坐标按格子尺寸取整，变换只记录平移。
type grid struct {
	Renderer
	cols, rows int
	cw, ch     float64
	cells      [][]rune
	stack      []layout.Transform
}

var _ layout.Surface = (*grid)(nil)

func newGrid(w, h float64) *grid {
	g := &grid{cw: cellWidth(gridFontSize), ch: gridFontSize}
	g.cols = max(1, int(math.Ceil(w/g.cw)))
	g.rows = max(1, int(math.Ceil(h/g.ch)))
	g.cells = make([][]rune, g.rows)
	for i := range g.cells {
		g.cells[i] = []rune(strings.Repeat(" ", g.cols))
	}
	return g
}

func (g *grid) offset() (float64, float64) {
	var dx, dy float64
	for _, t := range g.stack {
		dx += t.X
		dy += t.Y
	}
	return dx, dy
}

func (g *grid) put(col, row int, r rune) {
	if row < 0 || row >= g.rows || col < 0 || col >= g.cols {
		return
	}
	g.cells[row][col] = r
}

func (g *grid) DrawText(_ layout.Font, x, baseline float64, text string) {
	dx, dy := g.offset()
	col := int(math.Round((x + dx) / g.cw))
	row := int(math.Floor((baseline + dy - 0.5) / g.ch))
	for _, r := range text {
		g.put(col, row, r)
		col += cells(r)
	}
}

func (g *grid) DrawLine(_ layout.Pen, x1, y1, x2, y2 float64) {
	dx, dy := g.offset()
	c1, c2 := int((x1+dx)/g.cw), int((x2+dx)/g.cw)
	r1, r2 := int((y1+dy)/g.ch), int((y2+dy)/g.ch)
	switch {
	case r1 == r2:
		for c := min(c1, c2); c <= max(c1, c2); c++ {
			g.put(c, r1, '-')
		}
	case c1 == c2:
		for r := min(r1, r2); r <= max(r1, r2); r++ {
			g.put(c1, r, '|')
		}
	}
}

func (g *grid) DrawRect(pen *layout.Pen, _ *document.Color, x, y, w, h float64) {
	if pen == nil {
		return
	}
	g.DrawLine(*pen, x, y, x+w, y)
	g.DrawLine(*pen, x, y+h, x+w, y+h)
	g.DrawLine(*pen, x, y, x, y+h)
	g.DrawLine(*pen, x+w, y, x+w, y+h)
}

func (g *grid) DrawPath(*layout.Pen, *document.Color, *layout.Path) {}

func (g *grid) DrawImage(path string, x, y, w, h float64) error {
	dx, dy := g.offset()
	label := fmt.Sprintf("[%s]", path)
	col, row := int((x+dx)/g.cw), int((y+dy)/g.ch)
	for i, r := range []rune(label) {
		if float64(i)*g.cw >= w {
			break
		}
		g.put(col+i, row, r)
	}
	return nil
}

func (g *grid) Push(t layout.Transform) { g.stack = append(g.stack, t) }

func (g *grid) Pop() {
	if len(g.stack) > 0 {
		g.stack = g.stack[:len(g.stack)-1]
	}
}

// String 输出网格，去掉行尾空白与末尾空行。
func (g *grid) String() string {
	lines := make([]string, g.rows)
	for i, row := range g.cells {
		lines[i] = strings.TrimRight(string(row), " ")
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n") + "\n"
}
