// Package dsl 定义 .folio 文档标记语言的词法与语法，解析结果是未求值的 AST，
// 由 document.FromDSL 转换为内容树。
package dsl

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/participle/v2"
)

var documentParser = participle.MustBuild[Document](
	participle.Lexer(folioLexer),
	participle.Elide("Whitespace", "LineComment", "BlockComment", "HashComment"),
)

// Error 是带位置的语法错误。
type Error struct {
	Filename string
	Line     int
	Column   int
	Msg      string
}

func (e *Error) Error() string {
	name := e.Filename
	if name == "" {
		name = "<input>"
	}
	return fmt.Sprintf("%s:%d:%d: %s", name, e.Line, e.Column, e.Msg)
}

// wrapError 把 participle 的错误转换为 *Error，其他错误原样返回。
func wrapError(err error) error {
	var perr participle.Error
	if err == nil || !errors.As(err, &perr) {
		return err
	}
	pos := perr.Position()
	return &Error{Filename: pos.Filename, Line: pos.Line, Column: pos.Column, Msg: perr.Message()}
}

// Parse 从 r 读取并解析文档。
func Parse(r io.Reader) (*Document, error) {
	return ParseNamed("", r)
}

// ParseNamed 与 Parse 相同，错误位置中带上文件名。
func ParseNamed(filename string, r io.Reader) (*Document, error) {
	doc, err := documentParser.Parse(filename, r)
	if err != nil {
		return nil, wrapError(err)
	}
	return doc, nil
}

// ParseString 解析字符串形式的文档。
func ParseString(input string) (*Document, error) {
	doc, err := documentParser.ParseString("", input)
	if err != nil {
		return nil, wrapError(err)
	}
	return doc, nil
}

// ParseFile 打开并解析 path 指向的文件。
func ParseFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("无法打开 DSL 文件 %s: %w", path, err)
	}
	defer f.Close()
	return ParseNamed(path, f)
}
