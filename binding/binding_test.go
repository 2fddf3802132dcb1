package binding

import (
	"encoding/json"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestInterpolateJSON(t *testing.T) {
	var data any
	if err := json.Unmarshal([]byte(`{"user":{"name":"Ada","tags":["x","y"]},"total":1200,"rate":0.5}`), &data); err != nil {
		t.Fatalf("解析 JSON 失败: %v", err)
	}
	cases := map[string]string{
		"Hi ${user.name}":        "Hi Ada",
		"${ user.tags[1] }":      "y",
		"${total}/${rate}":       "1200/0.5",
		"${missing}":             "${missing}",
		"${missing|n/a}":         "n/a",
		"${user.tags[9]|-}":      "-",
		"${user.tags[x]}":        "${user.tags[x]}",
		"no placeholders at all": "no placeholders at all",
	}
	for in, want := range cases {
		if got := Interpolate(in, data); got != want {
			t.Fatalf("Interpolate(%q) = %q, 期望 %q", in, got, want)
		}
	}
}

func TestInterpolateYAMLAndStructs(t *testing.T) {
	var data map[string]any
	if err := yaml.Unmarshal([]byte("order:\n  id: 7\n  lines:\n    - sku: A1\n"), &data); err != nil {
		t.Fatalf("解析 YAML 失败: %v", err)
	}
	if got := Interpolate("#${order.id} ${order.lines[0].sku}", data); got != "#7 A1" {
		t.Fatalf("YAML 数据插值结果错误: %q", got)
	}

	type item struct {
		Title string `json:"title"`
		Count int
	}
	s := struct{ Items []*item }{Items: []*item{{Title: "pen", Count: 3}}}
	if got := Interpolate("${items[0].title} x${Items[0].count}", s); got != "pen x3" {
		t.Fatalf("结构体插值结果错误: %q", got)
	}
}

func TestInterpolateNilData(t *testing.T) {
	if got := Interpolate("${a|b} ${c}", nil); got != "b ${c}" {
		t.Fatalf("无数据时应使用默认值或保留占位符: %q", got)
	}
}
