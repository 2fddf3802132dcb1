// Package config 读取命令行使用的 YAML 配置文件。
package config

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// 可选的测量与输出后端。
const (
	BackendCanvas = "canvas"
	BackendMono   = "mono"
)

// Config 是 folio.yaml 的内容，未出现的字段保持 Default 中的取值。
type Config struct {
	// Backend 决定文本测量与输出：canvas 输出 PDF，mono 输出字符网格。
	Backend string `yaml:"backend"`
	// AssetDir 是相对路径资源的根目录，为空时使用输入文件所在目录。
	AssetDir string `yaml:"asset_dir"`
	// DefaultFont 与 DefaultFontSize 用于没有指定字体的段落。
	DefaultFont     string  `yaml:"default_font"`
	DefaultFontSize float64 `yaml:"default_font_size"`
	LogLevel        string  `yaml:"log_level"`
	// DebugPath 非空时输出布局调试 JSON。
	DebugPath string `yaml:"debug"`
	// Fonts 与 Images 注册 built-in:<name> 资源，值为文件路径。
	Fonts  map[string]string `yaml:"fonts"`
	Images map[string]string `yaml:"images"`
}

// Default 返回不读取任何文件时的配置。
func Default() Config {
	return Config{
		Backend:         BackendCanvas,
		DefaultFontSize: 12,
		LogLevel:        "info",
	}
}

// Load 读取 path 指向的配置文件。相对的资源路径以配置文件所在目录为基准。
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("无法打开配置文件 %s: %w", path, err)
	}
	defer f.Close()
	cfg, err := Decode(f)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	cfg.resolvePaths(filepath.Dir(path))
	return cfg, nil
}

// Decode 解析 YAML，拒绝未知字段。
func Decode(r io.Reader) (Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Config{}, err
	}
	cfg := Default()
	if len(bytes.TrimSpace(data)) > 0 {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil {
			return Config{}, fmt.Errorf("解析配置失败: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate 检查后端名称、字号与日志级别。
func (c Config) Validate() error {
	switch c.Backend {
	case BackendCanvas, BackendMono:
	default:
		return fmt.Errorf("未知的后端 %q（可选 canvas、mono）", c.Backend)
	}
	if c.DefaultFontSize < 0 {
		return fmt.Errorf("default_font_size 不能为负: %g", c.DefaultFontSize)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level 把 LogLevel 转为 slog 级别，空值视为 info。
func (c Config) Level() (slog.Level, error) {
	var lvl slog.Level
	if strings.TrimSpace(c.LogLevel) == "" {
		return slog.LevelInfo, nil
	}
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("未知的日志级别 %q: %w", c.LogLevel, err)
	}
	return lvl, nil
}

func (c *Config) resolvePaths(base string) {
	abs := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(base, p)
	}
	c.AssetDir = abs(c.AssetDir)
	c.DebugPath = abs(c.DebugPath)
	for name, p := range c.Fonts {
		c.Fonts[name] = abs(p)
	}
	for name, p := range c.Images {
		c.Images[name] = abs(p)
	}
}
