package canvas

import (
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// LineDash selects a stroke pattern.
type LineDash int

const (
	Solid LineDash = iota
	Dotted
	Dashed
)

// Pattern returns the dash array in points, or nil for solid strokes.
func (d LineDash) Pattern() []float64 {
	switch d {
	case Dotted:
		return []float64{1, 3}
	case Dashed:
		return []float64{5, 3}
	default:
		return nil
	}
}

// Style is the visual encoding of an artist.
type Style struct {
	// Color is the base color.
	Color drawing.Color
	// Alpha scales the color's opacity; zero means opaque.
	Alpha float64
	// Width is the stroke width in points; zero means the backend default.
	Width float64
	// Dash is the stroke pattern.
	Dash LineDash
}

// Effective returns the color with Alpha applied.
func (s Style) Effective() drawing.Color {
	if s.Alpha <= 0 || s.Alpha >= 1 {
		return s.Color
	}
	return s.Color.WithAlpha(uint8(float64(s.Color.A) * s.Alpha))
}

// Named colors shared by the views.
var (
	ColorBlack    = drawing.ColorFromHex("000000")
	ColorGray     = drawing.ColorFromHex("808080")
	ColorOrange   = drawing.ColorFromHex("ffa500")
	ColorBlue     = drawing.ColorFromHex("1f77b4")
	ColorForecast = drawing.ColorFromHex("0072b2")
)

// HAlign positions text horizontally relative to its anchor point.
type HAlign int

const (
	HAlignLeft HAlign = iota
	HAlignCenter
	HAlignRight
)

// VAlign positions text vertically relative to its anchor point.
// VAlignTop places the top edge of the (rotated) text at the anchor.
type VAlign int

const (
	VAlignBaseline VAlign = iota
	VAlignTop
	VAlignMiddle
	VAlignBottom
)

// Orientation of a reference line.
type Orientation int

const (
	Vertical Orientation = iota
	Horizontal
)
