package document

import (
	"math"
	"testing"
)

// TestPtMmRoundTrip 验证 pt↔mm 换算的往返精度（允许极小的浮点误差）。
func TestPtMmRoundTrip(t *testing.T) {
	samples := []float64{0, 0.001, 1, 12, 14.4, 72, 96, 144, 1000}
	for _, pt := range samples {
		back := pt * PtToMm * MmToPt
		if diff := math.Abs(back - pt); diff > 1e-9 {
			t.Fatalf("pt→mm→pt 往返误差过大: in=%gpt back=%g diff=%g", pt, back, diff)
		}
	}
}

// TestLengthToConversions 覆盖 Length 在常见单位上的转换正确性。
func TestLengthToConversions(t *testing.T) {
	if got := (Length{Value: 1, Unit: UnitIN}).ToMM(); math.Abs(got-25.4) > 1e-9 {
		t.Fatalf("1in 转 mm 期望 25.4，实际 %g", got)
	}
	if got := (Length{Value: 2.54, Unit: UnitCM}).ToMM(); math.Abs(got-25.4) > 1e-9 {
		t.Fatalf("2.54cm 转 mm 期望 25.4，实际 %g", got)
	}
	exact := map[Length]float64{
		{Value: 1, Unit: UnitIN}:    72,
		{Value: 25.4, Unit: UnitMM}: 72,
		{Value: 2.54, Unit: UnitCM}: 72,
		{Value: 210, Unit: UnitMM}:  595.2756,
		{Value: 0.5, Unit: UnitIN}:  36,
	}
	for l, want := range exact {
		if got := l.ToPT(); math.Abs(got-want) > 1e-4 {
			t.Fatalf("%g%s 转 pt 期望 %g，实际 %g", l.Value, l.Unit, want, got)
		}
	}
	if got := (Length{Value: 12}).ToPT(); got != 12 {
		t.Fatalf("无单位数值按 pt 处理，期望 12，实际 %g", got)
	}
}

func TestParseLength(t *testing.T) {
	cases := map[string]Length{
		"12pt":   {Value: 12, Unit: UnitPT},
		"2.5cm":  {Value: 2.5, Unit: UnitCM},
		" 10mm ": {Value: 10, Unit: UnitMM},
		"1in":    {Value: 1, Unit: UnitIN},
		"7":      {Value: 7, Unit: UnitNone},
	}
	for in, want := range cases {
		got, err := ParseLength(in)
		if err != nil {
			t.Fatalf("解析 %q 失败: %v", in, err)
		}
		if got != want {
			t.Fatalf("解析 %q 期望 %+v，实际 %+v", in, want, got)
		}
	}
	for _, bad := range []string{"", "abc", "12px"} {
		if _, err := ParseLength(bad); err == nil {
			t.Fatalf("%q 应解析失败", bad)
		}
	}
}

func TestParsePointsPercent(t *testing.T) {
	got, ok := ParsePoints("50%", 400)
	if !ok || got != 200 {
		t.Fatalf("50%% of 400 期望 200，实际 %g ok=%v", got, ok)
	}
}

// TestParseLineSpacing 验证行距的倍数与绝对值两种语义。
func TestParseLineSpacing(t *testing.T) {
	cases := []struct {
		in   string
		want LineSpacingSpec
	}{
		{"single", LineSpacingSpec{Rule: LineSpacingSingle}},
		{"1.5x", LineSpacingSpec{Rule: LineSpacingOnePtFive}},
		{"double", LineSpacingSpec{Rule: LineSpacingDouble}},
		{"1.2x", LineSpacingSpec{Rule: LineSpacingMultiple, Value: 1.2}},
		{"18pt", LineSpacingSpec{Rule: LineSpacingExactly, Value: 18}},
		{"atleast 14pt", LineSpacingSpec{Rule: LineSpacingAtLeast, Value: 14}},
	}
	for _, c := range cases {
		got, err := ParseLineSpacing(c.in)
		if err != nil {
			t.Fatalf("解析 %q 失败: %v", c.in, err)
		}
		if got.Rule != c.want.Rule || math.Abs(got.Value-c.want.Value) > 1e-9 {
			t.Fatalf("解析 %q 期望 %+v，实际 %+v", c.in, c.want, got)
		}
	}
}
