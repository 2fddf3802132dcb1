package canvasrenderer

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/ByLCY/folio/document"
	"github.com/ByLCY/folio/layout"
	"github.com/ByLCY/folio/renderer"
)

// pixelMm 是图片未指定尺寸时每个像素对应的毫米数。
const pixelMm = 0.25

// Renderer 通过 github.com/tdewolff/canvas 测量文本并输出 PDF。
// 布局使用 pt，canvas 使用 mm，换算只发生在这个包的边界上。
type Renderer struct {
	baseDir string
	logger  *slog.Logger

	// 注入的资源
	fontRes    map[string]document.FontResource
	fontBlobs  map[string][]byte // built-in:<name>
	imageBlobs map[string][]byte // built-in:<name>

	fontMu       sync.Mutex
	fontFamilies map[fontKey]*canvas.FontFamily
	warned       map[string]bool

	imageMu sync.Mutex
	images  map[string]image.Image
}

var (
	_ renderer.Backend  = (*Renderer)(nil)
	_ layout.ImageSizer = (*Renderer)(nil)
)

// Options 配置 canvas 渲染器。
type Options struct {
	BaseDir string
	Logger  *slog.Logger
	// FontResources 是文档中声明的字体，按字体名查找。
	FontResources map[string]document.FontResource
	Fonts         map[string]Resource // built-in:<name> 可访问的字体
	Images        map[string]Resource // built-in:<name> 可访问的图片
}

// Resource 可以通过 Bytes 或 Path 提供。
type Resource struct {
	Bytes []byte
	Path  string
}

// NewRenderer 创建以 baseDir 为资源目录的渲染器。
func NewRenderer(baseDir string) *Renderer { return NewRendererWithOptions(Options{BaseDir: baseDir}) }

// NewRendererWithOptions 创建带注入资源的渲染器。
func NewRendererWithOptions(opts Options) *Renderer {
	r := &Renderer{
		baseDir:      opts.BaseDir,
		logger:       opts.Logger,
		fontRes:      map[string]document.FontResource{},
		fontBlobs:    ingest(opts.Fonts),
		imageBlobs:   ingest(opts.Images),
		fontFamilies: map[fontKey]*canvas.FontFamily{},
		warned:       map[string]bool{},
		images:       map[string]image.Image{},
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	for name, res := range opts.FontResources {
		r.fontRes[name] = res
	}
	return r
}

func ingest(in map[string]Resource) map[string][]byte {
	out := map[string][]byte{}
	for name, res := range in {
		if name == "" {
			continue
		}
		if len(res.Bytes) > 0 {
			out[name] = res.Bytes
			continue
		}
		if res.Path != "" {
			// 读取失败时在使用处报错
			if data, _ := os.ReadFile(res.Path); len(data) > 0 {
				out[name] = data
			}
		}
	}
	return out
}

// Render 把排版结果输出为 PDF 字节切片。
func (r *Renderer) Render(doc *layout.FormattedDocument) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	first, err := doc.Page(1)
	if err != nil {
		return nil, renderer.ErrNoPages
	}

	var buf bytes.Buffer
	writer := pdf.New(&buf, toMm(first.Width), toMm(first.Height), nil)
	applyMeta(writer, doc.Document().Info)
	err = renderer.EachPage(doc, func(info layout.PageInfo) (layout.Surface, func() error, error) {
		if info.Number > 1 {
			writer.NewPage(toMm(info.Width), toMm(info.Height))
		}
		c := canvas.New(toMm(info.Width), toMm(info.Height))
		ctx := canvas.NewContext(c)
		ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与布局保持左上角为原点
		finish := func() error {
			c.RenderTo(writer)
			return nil
		}
		return &surface{Renderer: r, ctx: ctx}, finish, nil
	})
	if err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

func applyMeta(writer *pdf.PDF, meta document.Info) {
	keywords := strings.Join(meta.Keywords, ", ")
	writer.SetInfo(meta.Title, meta.Subject, keywords, meta.Author, meta.Creator)
}

// TextWidth 实现 layout.Measurer，返回 pt。
func (r *Renderer) TextWidth(font layout.Font, text string) float64 {
	if text == "" {
		return 0
	}
	face, err := r.fontFace(font)
	if err != nil {
		return 0
	}
	return toPt(face.TextWidth(text))
}

// FontMetrics 实现 layout.Measurer，返回 pt。
func (r *Renderer) FontMetrics(font layout.Font) layout.FontMetrics {
	face, err := r.fontFace(font)
	if err != nil {
		return layout.FontMetrics{Ascent: font.Size * 0.8, Descent: font.Size * 0.2, LineHeight: font.Size * 1.2}
	}
	m := face.Metrics()
	return layout.FontMetrics{Ascent: toPt(m.Ascent), Descent: toPt(m.Descent), LineHeight: toPt(m.LineHeight)}
}

// ImageSize 实现 layout.ImageSizer：按每像素 0.25mm 换算图片的固有尺寸。
func (r *Renderer) ImageSize(path string) (float64, float64, error) {
	img, err := r.loadImage(path)
	if err != nil {
		return 0, 0, err
	}
	b := img.Bounds()
	return toPt(float64(b.Dx()) * pixelMm), toPt(float64(b.Dy()) * pixelMm), nil
}

func (r *Renderer) loadImage(orig string) (image.Image, error) {
	if orig == "" {
		return nil, fmt.Errorf("图片路径为空")
	}
	r.imageMu.Lock()
	defer r.imageMu.Unlock()
	if img, ok := r.images[orig]; ok {
		return img, nil
	}

	var (
		img image.Image
		err error
	)
	switch {
	case strings.HasPrefix(orig, "built-in:") || strings.HasPrefix(orig, "builtin:"):
		name := trimBuiltin(orig)
		blob, ok := r.imageBlobs[name]
		if !ok {
			return nil, fmt.Errorf("找不到内置图片资源 built-in:%s", name)
		}
		img, _, err = image.Decode(bytes.NewReader(blob))
		if err != nil {
			return nil, fmt.Errorf("解码内置图片 built-in:%s 失败: %w", name, err)
		}
	case strings.HasPrefix(orig, "embed:"):
		return nil, fmt.Errorf("图片资源 %s 未找到（embed 仅支持内置字体）", orig)
	default:
		path, perr := r.resolvePath(orig)
		if perr != nil {
			return nil, perr
		}
		file, oerr := os.Open(path)
		if oerr != nil {
			return nil, fmt.Errorf("读取图片 %s 失败: %w", orig, oerr)
		}
		img, _, err = image.Decode(file)
		file.Close()
		if err != nil {
			return nil, fmt.Errorf("解码图片 %s 失败: %w", orig, err)
		}
	}
	r.images[orig] = img
	return img, nil
}

func (r *Renderer) resolvePath(orig string) (string, error) {
	if filepath.IsAbs(orig) {
		return orig, nil
	}
	if r.baseDir == "" {
		return "", fmt.Errorf("未指定资源目录时不允许直接使用路径：%s（请改用 built-in: 或 embed:）", orig)
	}
	return filepath.Join(r.baseDir, orig), nil
}

func trimBuiltin(s string) string {
	return strings.TrimPrefix(strings.TrimPrefix(s, "built-in:"), "builtin:")
}

// toPt 将毫米(mm)转换为点(pt)。
func toPt(mm float64) float64 { return mm * document.MmToPt }

// toMm 将点(pt)转换为毫米(mm)。
func toMm(pt float64) float64 { return pt * document.PtToMm }
