package document

import (
	"fmt"
	"strconv"
	"strings"
)

// This file defines unit-safe lengths. The layout engine works in points; the
// markup keeps the unit the author wrote until it is resolved.

// Unit represents the original unit of a length value.
type Unit int

const (
	UnitNone Unit = iota // unit-less numbers like factors
	UnitMM               // millimeters
	UnitCM               // centimeters
	UnitIN               // inches
	UnitPT               // points
)

// Conversion constants between pt and mm. 1in = 72pt = 25.4mm.
const (
	PtPerInch = 72.0
	MmPerInch = 25.4
	PtToMm    = MmPerInch / PtPerInch
	MmToPt    = PtPerInch / MmPerInch
)

// String returns a short suffix for a Unit value.
func (u Unit) String() string {
	switch u {
	case UnitMM:
		return "mm"
	case UnitCM:
		return "cm"
	case UnitIN:
		return "in"
	case UnitPT:
		return "pt"
	default:
		return ""
	}
}

// Length preserves a numeric value with its unit.
type Length struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

func (l Length) IsZero() bool { return l.Value == 0 }

// ToMM converts the length to millimeters. Unit-less values are taken as mm.
func (l Length) ToMM() float64 {
	switch l.Unit {
	case UnitCM:
		return l.Value * 10
	case UnitIN:
		return l.Value * MmPerInch
	case UnitPT:
		return l.Value * PtToMm
	default:
		return l.Value
	}
}

// ToPT converts the length to points. Unit-less values are taken as pt.
func (l Length) ToPT() float64 {
	switch l.Unit {
	case UnitPT, UnitNone:
		return l.Value
	case UnitIN:
		return l.Value * PtPerInch
	default:
		return l.ToMM() * MmToPt
	}
}

var unitSuffixes = []struct {
	s string
	u Unit
}{{"mm", UnitMM}, {"cm", UnitCM}, {"in", UnitIN}, {"pt", UnitPT}}

// ParseLength parses "12pt", "2.5cm", "10mm", "1in" or a bare number.
func ParseLength(value string) (Length, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return Length{}, fmt.Errorf("长度为空")
	}
	unit := UnitNone
	num := v
	for _, suf := range unitSuffixes {
		if strings.HasSuffix(v, suf.s) {
			unit = suf.u
			num = strings.TrimSpace(strings.TrimSuffix(v, suf.s))
			break
		}
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Length{}, fmt.Errorf("无法解析长度 %q: %w", value, err)
	}
	return Length{Value: f, Unit: unit}, nil
}

// ParsePoints parses a length and returns points. Bare numbers are points;
// a trailing % is resolved against reference.
func ParsePoints(value string, reference float64) (float64, bool) {
	v := strings.TrimSpace(value)
	if strings.HasSuffix(v, "%") {
		f, err := strconv.ParseFloat(strings.TrimSuffix(v, "%"), 64)
		if err != nil {
			return 0, false
		}
		return reference * f / 100, true
	}
	l, err := ParseLength(v)
	if err != nil {
		return 0, false
	}
	return l.ToPT(), true
}

// LineSpacingSpec preserves author intent for paragraph line spacing: a factor
// ("1.2x", "single", "double") or an absolute length ("18pt", optionally
// prefixed with "atleast ").
type LineSpacingSpec struct {
	Rule  LineSpacingRule
	Value float64
}

// ParseLineSpacing turns markup line spacing into a rule/value pair.
func ParseLineSpacing(value string) (LineSpacingSpec, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	switch v {
	case "", "single", "1x":
		return LineSpacingSpec{Rule: LineSpacingSingle}, nil
	case "1.5x", "onepointfive":
		return LineSpacingSpec{Rule: LineSpacingOnePtFive}, nil
	case "double", "2x":
		return LineSpacingSpec{Rule: LineSpacingDouble}, nil
	}
	if strings.HasSuffix(v, "x") {
		f, err := strconv.ParseFloat(strings.TrimSuffix(v, "x"), 64)
		if err != nil || f <= 0 {
			return LineSpacingSpec{}, fmt.Errorf("无法解析行距倍数 %q", value)
		}
		return LineSpacingSpec{Rule: LineSpacingMultiple, Value: f}, nil
	}
	rule := LineSpacingExactly
	if rest, ok := strings.CutPrefix(v, "atleast"); ok {
		rule = LineSpacingAtLeast
		v = strings.TrimSpace(rest)
	}
	l, err := ParseLength(v)
	if err != nil {
		return LineSpacingSpec{}, err
	}
	return LineSpacingSpec{Rule: rule, Value: l.ToPT()}, nil
}
