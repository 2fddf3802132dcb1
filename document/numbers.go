package document

import (
	"strconv"
	"strings"
)

// FormatNumber 按格式输出编号。罗马数字只覆盖 1..3999，超出范围回退为阿拉伯数字；
// 字母编号按 a..z, aa..zz 循环。
func FormatNumber(n int, f NumberFormat) string {
	switch f {
	case NumberRomanLower:
		return strings.ToLower(roman(n))
	case NumberRomanUpper:
		return roman(n)
	case NumberAlphaLower:
		return strings.ToLower(alpha(n))
	case NumberAlphaUpper:
		return alpha(n)
	default:
		return strconv.Itoa(n)
	}
}

var romanTable = []struct {
	v int
	s string
}{
	{1000, "M"}, {900, "CM"}, {500, "D"}, {400, "CD"},
	{100, "C"}, {90, "XC"}, {50, "L"}, {40, "XL"},
	{10, "X"}, {9, "IX"}, {5, "V"}, {4, "IV"}, {1, "I"},
}

func roman(n int) string {
	if n <= 0 || n >= 4000 {
		return strconv.Itoa(n)
	}
	var b strings.Builder
	for _, r := range romanTable {
		for n >= r.v {
			b.WriteString(r.s)
			n -= r.v
		}
	}
	return b.String()
}

func alpha(n int) string {
	if n <= 0 {
		return strconv.Itoa(n)
	}
	letter := byte('A' + (n-1)%26)
	return strings.Repeat(string(letter), (n-1)/26+1)
}
