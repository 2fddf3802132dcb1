package dsl

import (
	"fmt"
	"strconv"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// folioLexer 的规则顺序有意义：颜色必须先于 # 注释匹配，数字带可选单位。
var folioLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Whitespace", Pattern: `[ \t\r]+`},
	{Name: "Newline", Pattern: `\n+`},
	{Name: "BlockComment", Pattern: `/\*[^*]*\*+(?:[^/*][^*]*\*+)*/`},
	{Name: "LineComment", Pattern: `//[^\n]*`},
	{Name: "Color", Pattern: `#(?:[0-9A-Fa-f]{8}|[0-9A-Fa-f]{6}|[0-9A-Fa-f]{3})\b`},
	{Name: "HashComment", Pattern: `#[^\n]*`},
	{Name: "Number", Pattern: `-?(?:\d+\.\d+|\d+|\.\d+)(?:pt|mm|cm|in|%|x)?`},
	{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
	{Name: "Symbol", Pattern: `[][(),.=+\-*/%<>!?;:|$]`},
	{Name: "LBrace", Pattern: `{`},
	{Name: "RBrace", Pattern: `}`},
})

var (
	tokenNames = func() map[lexer.TokenType]string {
		out := map[lexer.TokenType]string{}
		for name, tt := range folioLexer.Symbols() {
			out[tt] = name
		}
		return out
	}()

	tokNewline = tokenType("Newline")
	tokLBrace  = tokenType("LBrace")
	tokRBrace  = tokenType("RBrace")
	tokSymbol  = tokenType("Symbol")
	tokString  = tokenType("String")
)

func tokenType(name string) lexer.TokenType {
	tt, ok := folioLexer.Symbols()[name]
	if !ok {
		panic(fmt.Sprintf("dsl: 未定义的词法单元 %s", name))
	}
	return tt
}

// Lexeme 是命令参数或表达式中的一个词法单元。字符串的 Value 已去掉引号。
type Lexeme struct {
	Type  string         `json:"type"`
	Value string         `json:"value"`
	Raw   string         `json:"raw"`
	Pos   lexer.Position `json:"-"`
}

// Parse 实现 participle.Parseable：遇到换行、花括号或分号时停止，让语法继续匹配块。
func (l *Lexeme) Parse(lex *lexer.PeekingLexer) error {
	if endsArgs(lex.Peek()) {
		return participle.NextMatch
	}
	next, err := readLexeme(lex)
	if err != nil {
		return err
	}
	*l = next
	return nil
}

// Expression 保存赋值右侧未求值的原始词法单元，例如 data.items[0]。
type Expression struct {
	Parts []*Lexeme
}

// Parse 实现 participle.Parseable。圆括号与方括号内的换行、逗号不会结束表达式。
func (e *Expression) Parse(lex *lexer.PeekingLexer) error {
	depth := nesting{}
	for !depth.ends(lex.Peek()) {
		next, err := readLexeme(lex)
		if err != nil {
			return err
		}
		depth.track(next.Raw)
		e.Parts = append(e.Parts, &next)
	}
	if len(e.Parts) == 0 {
		return participle.NextMatch
	}
	return nil
}

// nesting 记录表达式中的括号层级。
type nesting struct{ paren, bracket int }

func (n *nesting) track(raw string) {
	switch raw {
	case "(":
		n.paren++
	case ")":
		n.paren = max(0, n.paren-1)
	case "[":
		n.bracket++
	case "]":
		n.bracket = max(0, n.bracket-1)
	}
}

func (n nesting) ends(tok *lexer.Token) bool {
	if tok == nil || tok.EOF() {
		return true
	}
	if tok.Type == tokSymbol && tok.Value == "]" {
		return n.bracket == 0
	}
	if n.paren > 0 || n.bracket > 0 {
		return false
	}
	switch tok.Type {
	case tokNewline, tokLBrace, tokRBrace:
		return true
	case tokSymbol:
		return tok.Value == ";" || tok.Value == ","
	}
	return false
}

func endsArgs(tok *lexer.Token) bool {
	if tok == nil || tok.EOF() {
		return true
	}
	switch tok.Type {
	case tokNewline, tokLBrace, tokRBrace:
		return true
	case tokSymbol:
		return tok.Value == ";"
	}
	return false
}

func readLexeme(lex *lexer.PeekingLexer) (Lexeme, error) {
	tok := lex.Next()
	if tok.EOF() {
		return Lexeme{}, participle.NextMatch
	}
	name, ok := tokenNames[tok.Type]
	if !ok {
		name = fmt.Sprintf("#%d", tok.Type)
	}
	val := tok.Value
	if tok.Type == tokString {
		unquoted, err := strconv.Unquote(tok.Value)
		if err != nil {
			return Lexeme{}, fmt.Errorf("%s: 字符串字面量无效: %w", tok.Pos, err)
		}
		val = unquoted
	}
	return Lexeme{Type: name, Value: val, Raw: tok.Value, Pos: tok.Pos}, nil
}
