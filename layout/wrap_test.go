package layout

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"

	"github.com/ByLCY/folio/document"
)

// 每个字符宽 1。
func runeWidth(s string) float64 { return float64(utf8.RuneCountInString(s)) }

func wrapText(text string, first, limit float64) []string {
	tokens := tokenizeContent(text)
	lines := greedyWrapTokens(tokens, first, limit, func(t paraToken) float64 { return runeWidth(t.text) }, runeWidth)
	out := make([]string, len(lines))
	for i, l := range lines {
		var sb strings.Builder
		for _, t := range l.tokens {
			sb.WriteString(t.text)
		}
		out[i] = sb.String()
	}
	return out
}

func TestGreedyWrap(t *testing.T) {
	cases := []struct {
		name  string
		text  string
		first float64
		limit float64
		want  []string
	}{
		{"fits", "hello world", 20, 20, []string{"hello world"}},
		{"break at space", "hello world", 8, 8, []string{"hello", "world"}},
		{"trailing spaces trimmed", "ab   cd", 3, 3, []string{"ab", "cd"}},
		{"long word split", "abcdefgh", 3, 3, []string{"abc", "def", "gh"}},
		{"first line narrower", "aa bb cc", 2, 5, []string{"aa", "bb cc"}},
		{"forced newline keeps leading space", "a\n b", 10, 10, []string{"a", " b"}},
		{"empty lines", "a\n\nb", 10, 10, []string{"a", "", "b"}},
		{"cjk", "中文排版测试", 4, 4, []string{"中文排版", "测试"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := wrapText(tc.text, tc.first, tc.limit)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("折行结果不符 (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSplitTokenByWidthKeepsOneRune(t *testing.T) {
	got := splitTokenByWidth("abc", 0.5, runeWidth)
	if diff := cmp.Diff([]string{"a", "b", "c"}, got); diff != "" {
		t.Fatalf("每段至少一个字符 (-want +got):\n%s", diff)
	}
}

func TestTokenizeInlinesKeepsFields(t *testing.T) {
	tokens := tokenizeInlines([]document.Inline{
		document.Text{Value: "p "},
		document.Field{Type: document.FieldPage},
		document.Bookmark{Name: "b"},
	})
	if len(tokens) != 3 {
		t.Fatalf("期望 3 个 token，实际 %d", len(tokens))
	}
	if tokens[2].field == nil || tokens[2].field.Type != document.FieldPage {
		t.Fatalf("第三个 token 应为页码域: %+v", tokens[2])
	}
	if !tokens[1].space {
		t.Fatalf("第二个 token 应为空白")
	}
}
