package draw

import (
	"math"

	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Palette maps a position in [0, 1] to a color; 0 is the lightest, 1 the densest.
type Palette interface {
	At(v float64) drawing.Color
}

// Sequential is a palette interpolated linearly between evenly spaced color stops.
type Sequential struct {
	Name  string
	Stops []drawing.Color
}

// At returns the color at position v, clamped to [0, 1].
func (s Sequential) At(v float64) drawing.Color {
	if len(s.Stops) == 0 {
		return drawing.ColorBlack
	}
	if len(s.Stops) == 1 || math.IsNaN(v) {
		return s.Stops[0]
	}
	v = math.Max(0, math.Min(1, v))
	pos := v * float64(len(s.Stops)-1)
	i := int(math.Floor(pos))
	if i >= len(s.Stops)-1 {
		return s.Stops[len(s.Stops)-1]
	}
	f := pos - float64(i)
	a, b := s.Stops[i], s.Stops[i+1]
	return drawing.Color{
		R: lerp8(a.R, b.R, f),
		G: lerp8(a.G, b.G, f),
		B: lerp8(a.B, b.B, f),
		A: lerp8(a.A, b.A, f),
	}
}

func lerp8(a, b uint8, f float64) uint8 {
	return uint8(math.Round(float64(a) + f*(float64(b)-float64(a))))
}

func hexStops(hexes ...string) []drawing.Color {
	out := make([]drawing.Color, len(hexes))
	for i, h := range hexes {
		out[i] = drawing.ColorFromHex(h)
	}
	return out
}

// ColorBrewer 9-class sequential schemes.
var (
	Reds = Sequential{Name: "Reds", Stops: hexStops(
		"fff5f0", "fee0d2", "fcbba1", "fc9272", "fb6a4a", "ef3b2c", "cb181d", "a50f15", "67000d")}
	Greens = Sequential{Name: "Greens", Stops: hexStops(
		"f7fcf5", "e5f5e0", "c7e9c0", "a1d99b", "74c476", "41ab5d", "238b45", "006d2c", "00441b")}
	Blues = Sequential{Name: "Blues", Stops: hexStops(
		"f7fbff", "deebf7", "c6dbef", "9ecae1", "6baed6", "4292c6", "2171b5", "08519c", "08306b")}
	Oranges = Sequential{Name: "Oranges", Stops: hexStops(
		"fff5eb", "fee6ce", "fdd0a2", "fdae6b", "fd8d3c", "f16913", "d94801", "a63603", "7f2704")}
)

// PaletteByName returns one of the built-in palettes.
func PaletteByName(name string) (Palette, bool) {
	switch name {
	case "Reds", "reds":
		return Reds, true
	case "Greens", "greens":
		return Greens, true
	case "Blues", "blues":
		return Blues, true
	case "Oranges", "oranges":
		return Oranges, true
	}
	return nil, false
}
