package canvas

// Location places a legend inside its panel.
type Location string

const (
	UpperLeft  Location = "upper left"
	UpperRight Location = "upper right"
	LowerLeft  Location = "lower left"
	LowerRight Location = "lower right"
)

// Swatch kinds for legend entries.
const (
	SwatchLine   = "line"
	SwatchPatch  = "patch"
	SwatchMarker = "marker"
)

// LegendEntry is one legend row: a swatch and its label.
type LegendEntry struct {
	Label  string
	Swatch string
	Style  Style
}

// Legend lists entries in display order.
type Legend struct {
	Location Location
	Frame    bool
	Entries  []LegendEntry
}

// EntryFor builds the legend entry representing an artist.
func EntryFor(a Artist) (LegendEntry, bool) {
	switch v := a.(type) {
	case Line:
		return LegendEntry{Label: v.Label, Swatch: SwatchLine, Style: v.Style}, v.Label != ""
	case Fill:
		return LegendEntry{Label: v.Label, Swatch: SwatchPatch, Style: v.Style}, v.Label != ""
	case Bars:
		return LegendEntry{Label: v.Label, Swatch: SwatchPatch, Style: v.Style}, v.Label != ""
	case Scatter:
		return LegendEntry{Label: v.Label, Swatch: SwatchMarker, Style: v.Style}, v.Label != ""
	}
	return LegendEntry{}, false
}
