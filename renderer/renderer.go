package renderer

import (
	"github.com/pkg/errors"

	"github.com/ByLCY/folio/layout"
)

// Renderer 将排版结果输出为最终文件，例如 PDF。
// Render 返回生成的二进制数据（例如 PDF 字节切片）以及可能的错误。
type Renderer interface {
	Render(doc *layout.FormattedDocument) ([]byte, error)
}

// Backend 同时负责排版阶段的测量与绘制阶段的输出，两者必须使用同一套字体度量。
type Backend interface {
	layout.Measurer
	Renderer
}

// ErrNoPages 表示排版结果中没有可以输出的页面。
var ErrNoPages = errors.New("缺少可渲染的页面")

// EachPage 依次为每一页创建表面并绘制。newSurface 返回的 finish 在该页绘制完成后调用。
func EachPage(doc *layout.FormattedDocument, newSurface func(info layout.PageInfo) (layout.Surface, func() error, error)) error {
	if doc == nil {
		return errors.New("排版结果为空")
	}
	if doc.PageCount() == 0 {
		return ErrNoPages
	}
	for n := 1; n <= doc.PageCount(); n++ {
		info, err := doc.Page(n)
		if err != nil {
			return err
		}
		s, finish, err := newSurface(info)
		if err != nil {
			return errors.Wrapf(err, "创建第 %d 页", n)
		}
		if err := doc.RenderPage(n, s); err != nil {
			return errors.Wrapf(err, "绘制第 %d 页", n)
		}
		if finish != nil {
			if err := finish(); err != nil {
				return errors.Wrapf(err, "完成第 %d 页", n)
			}
		}
	}
	return nil
}
