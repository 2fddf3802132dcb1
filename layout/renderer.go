package layout

import (
	"sync"

	"github.com/ByLCY/folio/document"
)

// Renderer 以两阶段协议处理一个内容节点：Format 只计算放置结果，Render 只负责绘制。
type Renderer interface {
	// InitialLayoutInfo 返回排版前即可确定的布局约束（外边距、保持属性等）。
	InitialLayoutInfo() LayoutInfo
	// Format 把元素放进 area；prev 非空时从上一区域未完成的位置继续。
	Format(area Area, prev FormatInfo)
	RenderInfo() *RenderInfo
	Render(s Surface)
	// SetMaxElementHeight 告知一个完整区域的高度，超高的不可拆分部分据此截断。
	SetMaxElementHeight(h float64)
}

// Factory 为某一类内容节点创建渲染器。
type Factory func(ctx *Context, el document.Element, fieldInfos *FieldInfos) Renderer

var (
	registryMu sync.RWMutex
	registry   = map[document.Kind]Factory{}
)

// RegisterRenderer 为内置种类之外的节点注册渲染器。
func RegisterRenderer(kind document.Kind, f Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[kind] = f
}

// newRenderer 按节点种类创建渲染器，无法识别的节点返回 nil。
func newRenderer(ctx *Context, el document.Element, fieldInfos *FieldInfos) Renderer {
	switch e := el.(type) {
	case *document.Paragraph:
		return newParagraphRenderer(ctx, e, fieldInfos)
	case *document.Table:
		return newTableRenderer(ctx, e, fieldInfos)
	case *document.TextFrame:
		return newTextFrameRenderer(ctx, e, fieldInfos)
	case *document.Image:
		return newImageRenderer(ctx, e, fieldInfos)
	case *document.PageBreak:
		return newPageBreakRenderer(ctx, e)
	}
	registryMu.RLock()
	f, ok := registry[el.Kind()]
	registryMu.RUnlock()
	if !ok {
		return nil
	}
	return f(ctx, el, fieldInfos)
}

// RenderInfoSetter 让渲染器基于已有的排版结果重建，只用于绘制。
// 注册的渲染器实现它才能在 RenderPage 中拿到自己的排版结果。
type RenderInfoSetter interface {
	SetRenderInfo(ri *RenderInfo)
}

// rendererFor 为已经排好的 RenderInfo 创建只用于绘制的渲染器。
func rendererFor(ctx *Context, ri *RenderInfo, fieldInfos *FieldInfos) Renderer {
	r := newRenderer(ctx, ri.Element, fieldInfos)
	if r == nil {
		return nil
	}
	if s, ok := r.(RenderInfoSetter); ok {
		s.SetRenderInfo(ri)
	}
	return r
}

// renderInfos 依次绘制一组排版结果，dx、dy 为整体平移量。
func renderInfos(ctx *Context, s Surface, infos []*RenderInfo, fieldInfos *FieldInfos, dx, dy float64) {
	for _, ri := range infos {
		if dx != 0 || dy != 0 {
			ri = ri.moved(dx, dy)
		}
		if r := rendererFor(ctx, ri, fieldInfos); r != nil {
			r.Render(s)
		}
	}
}

// rendererBase 保存所有内置渲染器共享的字段。
type rendererBase struct {
	ctx              *Context
	fieldInfos       *FieldInfos
	renderInfo       *RenderInfo
	maxElementHeight float64
}

func (b *rendererBase) RenderInfo() *RenderInfo       { return b.renderInfo }
func (b *rendererBase) SetMaxElementHeight(h float64) { b.maxElementHeight = h }
func (b *rendererBase) SetRenderInfo(ri *RenderInfo)  { b.renderInfo = ri }
