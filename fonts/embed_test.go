package fonts

import "testing"

func TestLoadBuiltinFonts(t *testing.T) {
	for _, name := range []string{"Go-Regular", "embed:Go-Bold", "Go-Mono.ttf"} {
		data, err := Load(name)
		if err != nil {
			t.Fatalf("加载 %s 失败: %v", name, err)
		}
		if len(data) == 0 {
			t.Fatalf("%s 数据为空", name)
		}
	}
	if _, err := Load("Inter-Regular"); err == nil {
		t.Fatalf("未知字体应返回错误")
	}
}

func TestFaceSelection(t *testing.T) {
	cases := map[[2]bool]string{
		{false, false}: Regular,
		{true, false}:  Bold,
		{false, true}:  Italic,
		{true, true}:   BoldItalic,
	}
	for in, want := range cases {
		if got := Face(in[0], in[1]); got != want {
			t.Fatalf("Face(%v) = %s, 期望 %s", in, got, want)
		}
	}
	if len(Names()) != 5 {
		t.Fatalf("内置字体数量应为 5")
	}
}
