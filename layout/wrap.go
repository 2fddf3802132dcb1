package layout

import (
	"strings"
	"unicode"

	"github.com/ByLCY/folio/document"
)

// paraToken 是折行的最小单位：一段连续的非空白文本、一段空白、一个域或一个换行。
type paraToken struct {
	text    string
	field   *document.Field
	space   bool
	newline bool
	width   float64
}

// paraLine 是一行折行结果。位置信息不在此保存，绘制时由 ContentArea 推出。
type paraLine struct {
	tokens []paraToken
	width  float64
	// limit 是该行可用宽度，indent 是相对文本左缘的起始偏移。
	limit  float64
	indent float64
	// forced 表示该行以显式换行或段落结尾结束，两端对齐时不拉伸。
	forced bool
}

// tokenizeInlines 把段落片段切分为 token。书签不占宽度，直接跳过。
func tokenizeInlines(inlines []document.Inline) []paraToken {
	var tokens []paraToken
	for _, in := range inlines {
		switch v := in.(type) {
		case document.Text:
			tokens = append(tokens, tokenizeContent(v.Value)...)
		case document.Field:
			f := v
			tokens = append(tokens, paraToken{field: &f})
		}
	}
	return tokens
}

// tokenizeContent 按空白与非空白的边界切分文本，换行单独成为 token。
func tokenizeContent(s string) []paraToken {
	var tokens []paraToken
	var builder strings.Builder
	lastWasSpace := false
	flush := func() {
		if builder.Len() == 0 {
			return
		}
		tokens = append(tokens, paraToken{text: builder.String(), space: lastWasSpace})
		builder.Reset()
	}
	for _, r := range s {
		if r == '\r' {
			continue
		}
		if r == '\n' {
			flush()
			tokens = append(tokens, paraToken{newline: true})
			continue
		}
		isSpace := unicode.IsSpace(r)
		if builder.Len() > 0 && lastWasSpace != isSpace {
			flush()
		}
		lastWasSpace = isSpace
		builder.WriteRune(r)
	}
	flush()
	return tokens
}

// splitTokenByWidth 把超过 limit 的单词按字符拆开，每段至少一个字符。
func splitTokenByWidth(token string, limit float64, measure func(string) float64) []string {
	if limit <= 0 {
		return []string{token}
	}
	var parts []string
	var builder strings.Builder
	for _, r := range token {
		builder.WriteRune(r)
		if measure(builder.String()) > limit && builder.Len() > len(string(r)) {
			runes := []rune(builder.String())
			parts = append(parts, string(runes[:len(runes)-1]))
			builder.Reset()
			builder.WriteRune(r)
		}
	}
	if builder.Len() > 0 {
		parts = append(parts, builder.String())
	}
	return parts
}

// greedyWrapTokens 贪心折行：优先在空白处断开，单词本身超宽时在词内拆分。
// 第一行使用 firstLimit，其余行使用 limit。
func greedyWrapTokens(tokens []paraToken, firstLimit, limit float64, measure func(paraToken) float64,
	measureText func(string) float64) []paraLine {
	var lines []paraLine
	cur := paraLine{limit: firstLimit}

	emit := func(forced bool) {
		// 行尾空白不计入宽度。
		for len(cur.tokens) > 0 && cur.tokens[len(cur.tokens)-1].space {
			cur.width -= cur.tokens[len(cur.tokens)-1].width
			cur.tokens = cur.tokens[:len(cur.tokens)-1]
		}
		cur.forced = forced
		lines = append(lines, cur)
		cur = paraLine{limit: limit}
	}
	add := func(t paraToken) {
		if t.space && len(cur.tokens) == 0 && len(lines) > 0 && !lines[len(lines)-1].forced {
			// 自动折行后的行首空白丢弃。
			return
		}
		cur.tokens = append(cur.tokens, t)
		cur.width += t.width
	}

	for _, t := range tokens {
		if t.newline {
			emit(true)
			continue
		}
		t.width = measure(t)
		if len(cur.tokens) > 0 && cur.width+t.width > cur.limit+Tolerance && !t.space {
			emit(false)
		}
		if t.space || t.field != nil || t.width <= cur.limit+Tolerance {
			add(t)
			continue
		}
		for _, chunk := range splitTokenByWidth(t.text, cur.limit, measureText) {
			c := paraToken{text: chunk, width: measureText(chunk)}
			if len(cur.tokens) > 0 && cur.width+c.width > cur.limit+Tolerance {
				emit(false)
			}
			add(c)
		}
	}
	emit(true)
	return lines
}
