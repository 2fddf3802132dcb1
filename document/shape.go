package document

// RelativeHorizontal 是形状水平位置的参照系。
type RelativeHorizontal int

const (
	RelHorzMargin RelativeHorizontal = iota
	RelHorzPage
	RelHorzColumn
	RelHorzCharacter
)

// RelativeVertical 是形状垂直位置的参照系。
type RelativeVertical int

const (
	RelVertParagraph RelativeVertical = iota
	RelVertLine
	RelVertMargin
	RelVertPage
)

// ShapeAlignment 是形状在参照系中的对齐方式，PosNone 表示使用 Offset。
type ShapeAlignment int

const (
	PosNone ShapeAlignment = iota
	PosLeft
	PosRight
	PosCenter
	PosInside
	PosOutside
	PosTop
	PosBottom
)

// ShapePosition 是一个方向上的位置。
type ShapePosition struct {
	Align  ShapeAlignment
	Offset float64
}

// WrapStyle 决定形状是否参与文本流。
type WrapStyle int

const (
	WrapTopBottom WrapStyle = iota
	WrapNone
	WrapThrough
)

// WrapFormat 描述环绕方式与四周留白。
type WrapFormat struct {
	Style          WrapStyle
	DistanceTop    float64
	DistanceBottom float64
	DistanceLeft   float64
	DistanceRight  float64
}

// LineFormat 是形状的轮廓线。
type LineFormat struct {
	Visible *bool
	Width   float64
	Color   *Color
}

// Stroke 返回实际描边；ok 为 false 表示不描边。
func (l LineFormat) Stroke() (Color, float64, bool) {
	if l.Visible != nil && !*l.Visible {
		return Color{}, 0, false
	}
	if l.Color == nil && l.Width == 0 {
		return Color{}, 0, false
	}
	w := l.Width
	if w == 0 {
		w = DefaultBorderWidth
	}
	c := Black
	if l.Color != nil {
		c = *l.Color
	}
	return c, w, true
}

// FillFormat 是形状的填充。
type FillFormat struct {
	Visible *bool
	Color   *Color
}

// Shape 是文本框与图片共享的几何与定位属性。
type Shape struct {
	Width              float64
	Height             float64
	Left               ShapePosition
	Top                ShapePosition
	RelativeHorizontal RelativeHorizontal
	RelativeVertical   RelativeVertical
	WrapFormat         WrapFormat
	LineFormat         LineFormat
	FillFormat         FillFormat
}

// Orientation 是文本框内文字的方向。
type Orientation int

const (
	Horizontal Orientation = iota
	Upward
	Downward
)

// TextFrame 是固定尺寸的文本框，内部按自己的区域排版。
type TextFrame struct {
	Shape
	Container
	Orientation  Orientation
	MarginLeft   float64
	MarginRight  float64
	MarginTop    float64
	MarginBottom float64
}

func (*TextFrame) Kind() Kind { return KindTextFrame }

// Image 是一张图片。宽高为 0 时由图片本身的尺寸决定。
type Image struct {
	Shape
	Path string
	// LockAspectRatio 为真时只给出一边即可按比例推出另一边。
	LockAspectRatio bool
}

func (*Image) Kind() Kind { return KindImage }
