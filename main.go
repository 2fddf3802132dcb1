package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/ByLCY/folio/config"
	"github.com/ByLCY/folio/document"
	"github.com/ByLCY/folio/dsl"
	"github.com/ByLCY/folio/fonts"
	"github.com/ByLCY/folio/layout"
	"github.com/ByLCY/folio/renderer"
	canvasrenderer "github.com/ByLCY/folio/renderer/canvas"
	"github.com/ByLCY/folio/renderer/mono"
)

func main() {
	cmd := &cli.Command{
		Name:  "folio",
		Usage: "把 .folio 文档排版并输出为 PDF",
		Commands: []*cli.Command{
			{
				Name:  "render",
				Usage: "解析、排版并输出文档",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "in", Aliases: []string{"i"}, Usage: "DSL 文件路径", Value: "examples/demo.folio"},
					&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "输出路径", Value: "output/demo.pdf"},
					&cli.StringFlag{Name: "data", Usage: "绑定到 DSL 的 JSON 数据"},
					&cli.StringFlag{Name: "data-file", Usage: "绑定数据文件（.json、.yaml）"},
					&cli.StringFlag{Name: "debug", Usage: "布局调试 JSON 输出路径"},
					&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "YAML 配置文件"},
					&cli.BoolFlag{Name: "mono", Usage: "使用等宽后端，输出字符网格"},
					&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "输出调试日志"},
				},
				Action: renderAction,
			},
			{
				Name:  "fonts",
				Usage: "列出内置字体",
				Action: func(_ context.Context, _ *cli.Command) error {
					for _, name := range fonts.Names() {
						fmt.Printf("embed:%s\n", name)
					}
					return nil
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatalf("生成文档失败: %v", err)
	}
}

// job 是一次渲染所需的全部输入。
type job struct {
	input, output string
	data          any
	cfg           config.Config
	logger        *slog.Logger
}

func renderAction(ctx context.Context, cmd *cli.Command) error {
	cfg := config.Default()
	if path := cmd.String("config"); path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return err
		}
	}
	if cmd.Bool("mono") {
		cfg.Backend = config.BackendMono
	}
	if v := cmd.String("debug"); v != "" {
		cfg.DebugPath = v
	}
	level, err := cfg.Level()
	if err != nil {
		return err
	}
	if cmd.Bool("verbose") {
		level = slog.LevelDebug
	}

	data, err := loadData(cmd.String("data"), cmd.String("data-file"))
	if err != nil {
		return err
	}

	j := job{
		input:  cmd.String("in"),
		output: cmd.String("out"),
		data:   data,
		cfg:    cfg,
		logger: slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})),
	}
	if err := run(ctx, j); err != nil {
		return err
	}
	fmt.Printf("已生成：%s\n", j.output)
	return nil
}

// loadData 读取 --data 的 JSON 字符串或 --data-file 指向的 JSON/YAML 文件。
func loadData(inline, path string) (any, error) {
	var data any
	switch {
	case inline != "":
		if err := json.Unmarshal([]byte(inline), &data); err != nil {
			return nil, fmt.Errorf("解析 data JSON 失败: %w", err)
		}
	case path != "":
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("读取数据文件失败: %w", err)
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			err = yaml.Unmarshal(raw, &data)
		default:
			err = json.Unmarshal(raw, &data)
		}
		if err != nil {
			return nil, fmt.Errorf("解析数据文件 %s 失败: %w", path, err)
		}
	}
	return data, nil
}

// run 串联解析、构建、排版与渲染。
func run(ctx context.Context, j job) error {
	ast, err := dsl.ParseFile(j.input)
	if err != nil {
		return fmt.Errorf("解析 DSL 失败: %w", err)
	}
	doc, err := document.FromDSL(ast, j.data)
	if err != nil {
		return fmt.Errorf("构建文档失败: %w", err)
	}

	backend := newBackend(j, doc)
	fd, err := layout.NewFormattedDocument(doc, layout.Options{
		Measurer:        backend,
		Logger:          j.logger,
		DefaultFont:     j.cfg.DefaultFont,
		DefaultFontSize: j.cfg.DefaultFontSize,
	})
	if err != nil {
		return err
	}
	if err := fd.Format(ctx); err != nil {
		return fmt.Errorf("布局计算失败: %w", err)
	}
	j.logger.Debug("排版完成", "pages", fd.PageCount())

	if j.cfg.DebugPath != "" {
		if err := writeDebug(fd, j.cfg.DebugPath); err != nil {
			return err
		}
	}

	out, err := backend.Render(fd)
	if err != nil {
		return fmt.Errorf("渲染失败: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(j.output), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	if err := os.WriteFile(j.output, out, 0o644); err != nil {
		return fmt.Errorf("写入输出文件失败: %w", err)
	}
	return nil
}

func newBackend(j job, doc *document.Document) renderer.Backend {
	if j.cfg.Backend == config.BackendMono {
		return mono.Renderer{}
	}
	baseDir := j.cfg.AssetDir
	if baseDir == "" {
		baseDir = filepath.Dir(j.input)
	}
	return canvasrenderer.NewRendererWithOptions(canvasrenderer.Options{
		BaseDir:       baseDir,
		Logger:        j.logger,
		FontResources: doc.Resources.Fonts,
		Fonts:         pathResources(j.cfg.Fonts),
		Images:        pathResources(j.cfg.Images),
	})
}

func pathResources(paths map[string]string) map[string]canvasrenderer.Resource {
	out := make(map[string]canvasrenderer.Resource, len(paths))
	for name, p := range paths {
		out[name] = canvasrenderer.Resource{Path: p}
	}
	return out
}

func writeDebug(fd *layout.FormattedDocument, debugPath string) error {
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if err := layout.WriteDebugJSON(fd, debugPath); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}
