package layout

import "math"

// 该文件定义排版使用的区域代数。坐标单位为 pt，原点在页面左上角，y 向下增长。

// Tolerance 是比较长度时允许的误差。
const Tolerance = 0.001

// Unbounded 表示高度不受限的区域（单元格、页眉页脚测量时使用）。
var Unbounded = math.MaxFloat64

// Area 是可以放置内容的区域。所有操作都返回新值，不修改接收者。
type Area interface {
	Bounds() Rectangle
	// GetFittingRect 返回 [y, y+height] 与区域相交得到的矩形，放不下时返回 nil。
	GetFittingRect(y, height float64) *Rectangle
	// Lower 返回顶部下移 offset 之后剩余的区域。
	Lower(offset float64) Area
	// Unite 返回两个区域的外接矩形。
	Unite(other Area) Area
}

// Rectangle 是唯一的 Area 实现。
type Rectangle struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

var _ Area = Rectangle{}

// IsUnbounded 报告高度是否不受限。
func (r Rectangle) IsUnbounded() bool { return r.Height >= Unbounded }

// Bottom 返回下边缘，不受限时返回 Unbounded。
func (r Rectangle) Bottom() float64 {
	if r.IsUnbounded() {
		return Unbounded
	}
	return r.Y + r.Height
}

// Right 返回右边缘。
func (r Rectangle) Right() float64 { return r.X + r.Width }

func (r Rectangle) Bounds() Rectangle { return r }

func (r Rectangle) GetFittingRect(y, height float64) *Rectangle {
	if y < r.Y-Tolerance {
		return nil
	}
	if !r.IsUnbounded() && y+height > r.Bottom()+Tolerance {
		return nil
	}
	return &Rectangle{X: r.X, Y: y, Width: r.Width, Height: height}
}

func (r Rectangle) Lower(offset float64) Area {
	out := Rectangle{X: r.X, Y: r.Y + offset, Width: r.Width, Height: r.Height}
	if !r.IsUnbounded() {
		out.Height = r.Height - offset
	}
	return out
}

// Unite 返回外接矩形。对于非矩形的并集这只是近似值。
func (r Rectangle) Unite(other Area) Area {
	if other == nil {
		return r
	}
	o := other.Bounds()
	x := math.Min(r.X, o.X)
	y := math.Min(r.Y, o.Y)
	right := math.Max(r.Right(), o.Right())
	out := Rectangle{X: x, Y: y, Width: right - x}
	if r.IsUnbounded() || o.IsUnbounded() {
		out.Height = Unbounded
	} else {
		out.Height = math.Max(r.Bottom(), o.Bottom()) - y
	}
	return out
}
