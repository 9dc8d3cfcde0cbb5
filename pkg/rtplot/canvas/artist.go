package canvas

import "math"

// Artist is anything a Panel can draw. Backends switch on the concrete type.
type Artist interface {
	// Kind names the artist type ("line", "fill", "bars", "scatter", "text", "refline").
	Kind() string
	// bounds returns the data extent the artist contributes to autoscaling.
	bounds() (x, y Range, ok bool)
}

// Line is a polyline through (X[i], Y[i]). NaN values break the line.
type Line struct {
	X, Y  []float64
	Style Style
	Label string
}

// Fill is the area between Lower and Upper along X.
type Fill struct {
	X, Lower, Upper []float64
	Style           Style
	Label           string
	// Group ties adjacent fills drawn as one band stack.
	Group string
}

// Bars are vertical bars from zero to Heights, centered on X.
type Bars struct {
	X, Heights []float64
	// Width is the bar width in x units; zero means 0.8.
	Width float64
	Style Style
	Label string
}

// Scatter draws a marker at every (X[i], Y[i]).
type Scatter struct {
	X, Y []float64
	// Radius is the marker radius in points; zero means 2.
	Radius float64
	Style  Style
	Label  string
}

// Text is a label anchored at a data coordinate.
type Text struct {
	X, Y float64
	Body string
	// Rotation is counter-clockwise, in degrees.
	Rotation float64
	HAlign   HAlign
	VAlign   VAlign
	// Size is the font size in points; zero means the backend default.
	Size  float64
	Style Style
}

// RefLine spans the whole panel at a fixed data value.
type RefLine struct {
	Orientation Orientation
	Value       float64
	Style       Style
	// Tag classifies the line (e.g. EventTag for annotation markers).
	Tag string
}

// EventTag marks reference lines drawn by the event annotator.
const EventTag = "event"

func (Line) Kind() string    { return "line" }
func (Fill) Kind() string    { return "fill" }
func (Bars) Kind() string    { return "bars" }
func (Scatter) Kind() string { return "scatter" }
func (Text) Kind() string    { return "text" }
func (RefLine) Kind() string { return "refline" }

func (l Line) bounds() (Range, Range, bool)    { return pointBounds(l.X, l.Y) }
func (s Scatter) bounds() (Range, Range, bool) { return pointBounds(s.X, s.Y) }
func (Text) bounds() (Range, Range, bool)      { return Range{}, Range{}, false }
func (RefLine) bounds() (Range, Range, bool)   { return Range{}, Range{}, false }

func (f Fill) bounds() (Range, Range, bool) {
	xr, yr, ok := pointBounds(f.X, f.Lower)
	xu, yu, oku := pointBounds(f.X, f.Upper)
	switch {
	case ok && oku:
		return xr.union(xu), yr.union(yu), true
	case oku:
		return xu, yu, true
	default:
		return xr, yr, ok
	}
}

func (b Bars) bounds() (Range, Range, bool) {
	xr, yr, ok := pointBounds(b.X, b.Heights)
	if !ok {
		return xr, yr, false
	}
	half := b.BarWidth() / 2
	xr.Min -= half
	xr.Max += half
	yr = yr.union(Range{})
	return xr, yr, true
}

// BarWidth returns the effective bar width.
func (b Bars) BarWidth() float64 {
	if b.Width <= 0 {
		return 0.8
	}
	return b.Width
}

// MarkerRadius returns the effective marker radius.
func (s Scatter) MarkerRadius() float64 {
	if s.Radius <= 0 {
		return 2
	}
	return s.Radius
}

func pointBounds(xs, ys []float64) (Range, Range, bool) {
	var xr, yr Range
	found := false
	for i := 0; i < len(xs) && i < len(ys); i++ {
		x, y := xs[i], ys[i]
		if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
			continue
		}
		if !found {
			xr, yr = Range{x, x}, Range{y, y}
			found = true
			continue
		}
		xr = xr.union(Range{x, x})
		yr = yr.union(Range{y, y})
	}
	return xr, yr, found
}
