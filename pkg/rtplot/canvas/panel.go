package canvas

import "fmt"

// Panel is a rectangular chart area with its own axes, artists and legend.
// It implements Surface.
type Panel struct {
	// Title is drawn above the plotting area.
	Title string
	// XLabel is the x-axis caption.
	XLabel string
	// YLabel is the y-axis caption.
	YLabel string
	// LabelSize is the axis caption font size in points; zero means the backend default.
	LabelSize float64

	x, y            *Axis
	artists         []Artist
	legend          *Legend
	warnings        []string
	hideXTickLabels bool
}

// NewPanel returns an empty stand-alone panel.
func NewPanel() *Panel {
	return &Panel{x: newAxis(), y: newAxis()}
}

func (p *Panel) add(a Artist) {
	if xr, yr, ok := a.bounds(); ok {
		p.x.include(xr)
		p.y.include(yr)
	}
	p.artists = append(p.artists, a)
}

func (p *Panel) AddLine(l Line)       { p.add(l) }
func (p *Panel) AddFill(f Fill)       { p.add(f) }
func (p *Panel) AddBars(b Bars)       { p.add(b) }
func (p *Panel) AddScatter(s Scatter) { p.add(s) }
func (p *Panel) AddText(t Text)       { p.add(t) }
func (p *Panel) AddRefLine(r RefLine) { p.add(r) }

func (p *Panel) SetXLimits(min, max float64) { p.x.setLimits(min, max) }
func (p *Panel) SetYLimits(min, max float64) { p.y.setLimits(min, max) }
func (p *Panel) SetXMin(min float64)         { p.x.setMin(min) }
func (p *Panel) SetYMin(min float64)         { p.y.setMin(min) }
func (p *Panel) SetXTicks(t TickSpec)        { p.x.ticks = t }
func (p *Panel) SetYTicks(t TickSpec)        { p.y.ticks = t }

func (p *Panel) XLimits() Range { return p.x.Limits() }
func (p *Panel) YLimits() Range { return p.y.Limits() }

// XAxis returns the (possibly shared) x axis.
func (p *Panel) XAxis() *Axis { return p.x }

// YAxis returns the y axis.
func (p *Panel) YAxis() *Axis { return p.y }

// Artists returns the recorded artists in draw order.
func (p *Panel) Artists() []Artist {
	out := make([]Artist, len(p.artists))
	copy(out, p.artists)
	return out
}

// SetLegend replaces the legend.
func (p *Panel) SetLegend(l Legend) { p.legend = &l }

// Legend returns the legend, or nil when none was set.
func (p *Panel) Legend() *Legend { return p.legend }

// AutoLegend builds a legend from every labeled artist, in draw order.
func (p *Panel) AutoLegend(loc Location) {
	l := Legend{Location: loc}
	for _, a := range p.artists {
		if e, ok := EntryFor(a); ok {
			l.Entries = append(l.Entries, e)
		}
	}
	p.legend = &l
}

// Warnf records a degraded-rendering note.
func (p *Panel) Warnf(format string, args ...any) {
	p.warnings = append(p.warnings, fmt.Sprintf(format, args...))
}

// Warnings returns the recorded notes.
func (p *Panel) Warnings() []string {
	return append([]string(nil), p.warnings...)
}

// HideXTickLabels suppresses x tick labels (ticks are still drawn).
func (p *Panel) HideXTickLabels(hide bool) { p.hideXTickLabels = hide }

// XTickLabelsHidden reports whether x tick labels are suppressed.
func (p *Panel) XTickLabelsHidden() bool { return p.hideXTickLabels }

// Lines returns the recorded lines.
func (p *Panel) Lines() []Line { return collect[Line](p) }

// Fills returns the recorded fills.
func (p *Panel) Fills() []Fill { return collect[Fill](p) }

// BarSets returns the recorded bar series.
func (p *Panel) BarSets() []Bars { return collect[Bars](p) }

// Scatters returns the recorded marker series.
func (p *Panel) Scatters() []Scatter { return collect[Scatter](p) }

// Texts returns the recorded text labels.
func (p *Panel) Texts() []Text { return collect[Text](p) }

// RefLines returns the recorded reference lines.
func (p *Panel) RefLines() []RefLine { return collect[RefLine](p) }

// Markers returns the vertical event markers drawn by the annotator.
func (p *Panel) Markers() []RefLine {
	var out []RefLine
	for _, r := range p.RefLines() {
		if r.Orientation == Vertical && r.Tag == EventTag {
			out = append(out, r)
		}
	}
	return out
}

func collect[T Artist](p *Panel) []T {
	var out []T
	for _, a := range p.artists {
		if v, ok := a.(T); ok {
			out = append(out, v)
		}
	}
	return out
}
