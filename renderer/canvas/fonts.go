package canvasrenderer

import (
	"fmt"
	"image/color"
	"os"
	"strings"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/folio/document"
	"github.com/ByLCY/folio/fonts"
	"github.com/ByLCY/folio/layout"
)

type fontKey struct {
	name         string
	bold, italic bool
}

// fontFace 返回字体面，字号为 pt。
func (r *Renderer) fontFace(font layout.Font) (*canvas.FontFace, error) {
	family, style, err := r.ensureFontFamily(font)
	if err != nil {
		return nil, err
	}
	size := font.Size
	if size <= 0 {
		size = 12
	}
	return family.Face(size, colorFromDocument(font.Color), style, canvas.FontNormal), nil
}

func fontStyle(bold, italic bool) canvas.FontStyle {
	style := canvas.FontRegular
	if bold {
		style = canvas.FontBold
	}
	if italic {
		style |= canvas.FontItalic
	}
	return style
}

// ensureFontFamily 为 (字体名, 粗体, 斜体) 建立字体族。每个族只装载一个字形文件，
// 装载时使用的样式与取字体面时一致。加载失败时依次尝试 fallback 字体与内置字体。
func (r *Renderer) ensureFontFamily(font layout.Font) (*canvas.FontFamily, canvas.FontStyle, error) {
	key := fontKey{name: font.Name, bold: font.Bold, italic: font.Italic}
	style := fontStyle(font.Bold, font.Italic)

	r.fontMu.Lock()
	defer r.fontMu.Unlock()
	if family, ok := r.fontFamilies[key]; ok {
		return family, style, nil
	}

	family := canvas.NewFontFamily(font.Name)
	err := r.loadInto(family, font.Name, font.Bold, font.Italic, style, 0)
	if err != nil {
		if !r.warned[font.Name] {
			r.warned[font.Name] = true
			r.logger.Warn("字体加载失败，使用内置字体", "font", font.Name, "err", err.Error())
		}
		family = canvas.NewFontFamily("folio-fallback")
		data, ferr := fonts.Load(fonts.Face(font.Bold, font.Italic))
		if ferr != nil {
			return nil, style, ferr
		}
		if ferr := family.LoadFont(data, 0, style); ferr != nil {
			return nil, style, ferr
		}
	}
	r.fontFamilies[key] = family
	return family, style, nil
}

// loadInto 按资源名装载字体，depth 防止 fallback 成环。
func (r *Renderer) loadInto(family *canvas.FontFamily, name string, bold, italic bool, style canvas.FontStyle, depth int) error {
	if depth > 4 {
		return fmt.Errorf("字体 %s 的 fallback 链过长", name)
	}
	res, ok := r.fontRes[name]
	if !ok {
		res = document.FontResource{Name: name, Src: "embed:" + fonts.Face(bold, italic)}
		if name != "" && name != document.DefaultFontName {
			return fmt.Errorf("未声明的字体 %s", name)
		}
	}
	data, err := r.loadFontBytes(res, bold, italic)
	if err == nil {
		err = family.LoadFont(data, 0, style)
	}
	if err != nil && res.Fallback != "" && res.Fallback != name {
		return r.loadInto(family, res.Fallback, bold, italic, style, depth+1)
	}
	return err
}

func (r *Renderer) loadFontBytes(font document.FontResource, bold, italic bool) ([]byte, error) {
	if font.Src == "" {
		return nil, fmt.Errorf("字体 %s 缺少 src", font.Name)
	}
	src := font.Src
	switch {
	case strings.HasPrefix(src, "built-in:") || strings.HasPrefix(src, "builtin:"):
		name := trimBuiltin(src)
		if blob, ok := r.fontBlobs[name]; ok {
			return blob, nil
		}
		return nil, fmt.Errorf("找不到内置字体资源 built-in:%s", name)
	case strings.HasPrefix(src, "embed:"):
		name := strings.TrimPrefix(src, "embed:")
		// 内置 Go 字体族按粗体、斜体换用对应字形。
		if name == fonts.Regular {
			name = fonts.Face(bold, italic)
		}
		return fonts.Load(name)
	}
	path, err := r.resolvePath(src)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(path)
}

func colorFromDocument(c document.Color) color.Color {
	return canvas.RGBA(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0, 1.0)
}

var transparent = color.RGBA{}
