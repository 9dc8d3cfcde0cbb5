package canvas

// Figure is a rendered composition: an ordered vertical stack of panels.
// It is owned by the caller; the renderers never keep a reference after returning.
type Figure struct {
	// Width is the figure width in inches.
	Width float64
	// Height is the figure height in inches.
	Height float64
	// DPI is the raster resolution.
	DPI float64

	panels []*Panel
	ratios []float64
}

// NewFigure returns an empty figure.
func NewFigure(width, height, dpi float64) *Figure {
	return &Figure{Width: width, Height: height, DPI: dpi}
}

// AddPanel appends a new panel taking ratio shares of the figure height.
func (f *Figure) AddPanel(ratio float64) *Panel {
	p := NewPanel()
	if ratio <= 0 {
		ratio = 1
	}
	f.panels = append(f.panels, p)
	f.ratios = append(f.ratios, ratio)
	return p
}

// Panels returns the panels top to bottom.
func (f *Figure) Panels() []*Panel {
	return append([]*Panel(nil), f.panels...)
}

// HeightRatios returns the relative panel heights, top to bottom.
func (f *Figure) HeightRatios() []float64 {
	return append([]float64(nil), f.ratios...)
}

// GridSpec describes a single-column grid of panels.
type GridSpec struct {
	Rows int
	// HeightRatios has one entry per row; missing entries default to 1.
	HeightRatios []float64
	// ShareX links every panel's x axis and hides tick labels on all but the bottom row.
	ShareX bool
	Width  float64
	Height float64
	DPI    float64
}

// NewGrid creates a figure and its panels.
func NewGrid(spec GridSpec) (*Figure, []*Panel) {
	fig := NewFigure(spec.Width, spec.Height, spec.DPI)
	panels := make([]*Panel, spec.Rows)
	for i := range panels {
		ratio := 1.0
		if i < len(spec.HeightRatios) {
			ratio = spec.HeightRatios[i]
		}
		panels[i] = fig.AddPanel(ratio)
	}
	if spec.ShareX && len(panels) > 0 {
		ShareX(panels...)
		for _, p := range panels[:len(panels)-1] {
			p.HideXTickLabels(true)
		}
	}
	return fig, panels
}

// ShareX links the x axes of the panels so they always report one visible range.
// The first panel's explicit settings win; data extents are merged.
func ShareX(panels ...*Panel) {
	if len(panels) < 2 {
		return
	}
	base := panels[0].x
	for _, p := range panels[1:] {
		if p.x == base {
			continue
		}
		base.merge(p.x)
		p.x = base
	}
}
