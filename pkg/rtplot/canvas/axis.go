package canvas

// defaultMargin pads autoscaled limits by this fraction of the data span on each side.
const defaultMargin = 0.05

// Axis holds one axis's limits and tick configuration. Axes may be shared between panels.
type Axis struct {
	min, max       float64
	hasMin, hasMax bool
	data           Range
	hasData        bool
	ticks          TickSpec
}

func newAxis() *Axis {
	return &Axis{}
}

func (a *Axis) include(r Range) {
	if !a.hasData {
		a.data = r
		a.hasData = true
		return
	}
	a.data = a.data.union(r)
}

// Limits returns the visible range: explicit bounds where set, padded data extent otherwise.
func (a *Axis) Limits() Range {
	r := Range{Min: 0, Max: 1}
	if a.hasData {
		r = a.data
		pad := defaultMargin * r.Span()
		if pad == 0 {
			pad = 0.5
		}
		r.Min -= pad
		r.Max += pad
	}
	if a.hasMin {
		r.Min = a.min
	}
	if a.hasMax {
		r.Max = a.max
	}
	if r.Max <= r.Min {
		r.Max = r.Min + 1
	}
	return r
}

// Explicit reports which bounds were set by a caller rather than autoscaled.
func (a *Axis) Explicit() (min, max bool) {
	return a.hasMin, a.hasMax
}

// Ticks returns the tick configuration.
func (a *Axis) Ticks() TickSpec { return a.ticks }

func (a *Axis) setLimits(min, max float64) {
	a.min, a.max = min, max
	a.hasMin, a.hasMax = true, true
}

func (a *Axis) setMin(min float64) {
	a.min = min
	a.hasMin = true
}

// merge folds another axis's state into a, keeping a's explicit settings.
func (a *Axis) merge(o *Axis) {
	if o == a {
		return
	}
	if o.hasData {
		a.include(o.data)
	}
	if !a.hasMin && o.hasMin {
		a.setMin(o.min)
	}
	if !a.hasMax && o.hasMax {
		a.max = o.max
		a.hasMax = true
	}
	if a.ticks.IsZero() {
		a.ticks = o.ticks
	}
}
