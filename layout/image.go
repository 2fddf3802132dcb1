package layout

import (
	"github.com/ByLCY/folio/document"
)

type imageRenderer struct {
	rendererBase
	img *document.Image
}

func newImageRenderer(ctx *Context, img *document.Image, fieldInfos *FieldInfos) *imageRenderer {
	return &imageRenderer{rendererBase: rendererBase{ctx: ctx, fieldInfos: fieldInfos}, img: img}
}

func (r *imageRenderer) InitialLayoutInfo() LayoutInfo { return shapeLayoutInfo(r.img.Shape) }

// size 确定图片尺寸。缺少的一边按原图比例推出；无法读取原图时 ok 为 false。
func (r *imageRenderer) size() (w, h float64, ok bool) {
	w, h = r.img.Width, r.img.Height
	if w > 0 && h > 0 {
		return w, h, true
	}
	sizer, can := r.ctx.Measurer.(ImageSizer)
	if !can {
		r.ctx.Logger.Warn("无法确定图片尺寸，已忽略", "path", r.img.Path)
		return 0, 0, false
	}
	iw, ih, err := sizer.ImageSize(r.img.Path)
	if err != nil || iw <= 0 || ih <= 0 {
		r.ctx.Logger.Warn("读取图片失败，已忽略", "path", r.img.Path, "err", err.Error())
		return 0, 0, false
	}
	switch {
	case w > 0 && r.img.LockAspectRatio:
		h = w * ih / iw
	case h > 0 && r.img.LockAspectRatio:
		w = h * iw / ih
	case w > 0:
		h = ih
	case h > 0:
		w = iw
	default:
		w, h = iw, ih
	}
	return w, h, true
}

func (r *imageRenderer) Format(area Area, _ FormatInfo) {
	w, h, ok := r.size()
	if !ok {
		// 缺失的图片按零尺寸放置，绘制时跳过。
		w, h = 0, 0
	}
	r.renderInfo = formatShape(r.img, r.img.Shape, w, h, area)
}

func (r *imageRenderer) Render(s Surface) {
	ca := r.renderInfo.LayoutInfo.ContentArea
	if ca.Width <= 0 || ca.Height <= 0 {
		return
	}
	if err := s.DrawImage(r.img.Path, ca.X, ca.Y, ca.Width, ca.Height); err != nil {
		r.ctx.Logger.Warn("绘制图片失败", "path", r.img.Path, "err", err.Error())
		return
	}
	renderShapeFrame(s, r.img.Shape, ca)
}
