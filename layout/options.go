package layout

import (
	"log/slog"

	"github.com/ByLCY/folio/document"
)

// Options 配置排版阶段所需的依赖。
type Options struct {
	// Measurer 负责文本测量，必填。
	Measurer Measurer
	// Logger 记录资源告警与分页调试信息，默认为 slog.Default()。
	Logger *slog.Logger
	// DefaultFont 是段落未指定字体时使用的字体名。
	DefaultFont string
	// DefaultFontSize 以 pt 为单位，默认 12。
	DefaultFontSize float64
}

const defaultFontSize = 12.0

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.DefaultFont == "" {
		o.DefaultFont = document.DefaultFontName
	}
	if o.DefaultFontSize <= 0 {
		o.DefaultFontSize = defaultFontSize
	}
	return o
}

// Context 是一次排版会话共享的状态，插件渲染器通过它测量文本与记录日志。
type Context struct {
	Measurer Measurer
	Logger   *slog.Logger
	Document *document.Document

	opts  Options
	lists *listNumbering
}

func newContext(doc *document.Document, opts Options) *Context {
	opts = opts.withDefaults()
	return &Context{
		Measurer: opts.Measurer,
		Logger:   opts.Logger,
		Document: doc,
		opts:     opts,
		lists:    newListNumbering(),
	}
}

// resolveFont 把段落字体补全为可测量的字体。
func (c *Context) resolveFont(f document.Font) Font {
	out := Font{
		Name:   f.Name,
		Size:   f.Size,
		Bold:   f.Bold,
		Italic: f.Italic,
		Color:  document.Black,
	}
	if out.Name == "" {
		out.Name = c.opts.DefaultFont
	}
	if out.Size <= 0 {
		out.Size = c.opts.DefaultFontSize
	}
	if f.Color != nil {
		out.Color = *f.Color
	}
	return out
}

// singleLineHeight 返回字体的单倍行高。
func (c *Context) singleLineHeight(f Font) float64 {
	m := c.Measurer.FontMetrics(f)
	if m.LineHeight > 0 {
		return m.LineHeight
	}
	return f.Size * 1.2
}

// defaultLineHeight 是空单元格等没有内容时的占位高度。
func (c *Context) defaultLineHeight() float64 {
	return c.singleLineHeight(c.resolveFont(document.Font{}))
}
