// Package rtplot renders the outputs of an R_t estimator into annotated multi-panel charts.
//
// The renderers draw into backend-independent canvas panels and return them to the caller;
// they never persist or display anything. See pkg/rtplot/backend for SVG, PNG and XLSX output.
package rtplot

import (
	"log"
	"time"

	"github.com/ukaji3/rtplot-go/pkg/rtplot/draw"
	"go.opentelemetry.io/otel/trace"
)

// Detail represents the density band detail level.
type Detail string

const (
	// DetailLight draws 10 bands per distribution.
	DetailLight Detail = "light"
	// DetailStandard draws 40 bands per distribution.
	DetailStandard Detail = "standard"
	// DetailVerbose draws 40 bands per distribution plus a median line.
	DetailVerbose Detail = "verbose"
)

// AlphaRamp is the opacity of the outermost and innermost density band.
type AlphaRamp struct {
	Outer float64
	Inner float64
}

// Options configures rendering behavior.
type Options struct {
	// Detail specifies the density band detail level (light, standard, verbose).
	Detail Detail
	// BandLevels overrides the upper percentiles of the density bands.
	// If nil, the levels follow Detail.
	BandLevels []float64
	// DrawMedian specifies whether density bands get a median line.
	// If nil, defaults to true for verbose detail, false otherwise.
	DrawMedian *bool
	// CurveAlpha is the opacity ramp of the bands in the curves panel.
	CurveAlpha AlphaRamp
	// RtAlpha is the opacity ramp of the R_t bands.
	RtAlpha AlphaRamp
	// CurveSkip is the number of leading time-points left out of the curve bands.
	CurveSkip int
	// MinDate is the earliest date shown by the forecast views. The zero time disables the floor.
	MinDate time.Time
	// ComponentFloors maps forecast component names to their y-axis lower bound.
	ComponentFloors map[string]float64
	// Logger receives degraded-rendering warnings. If nil, warnings are only recorded on panels.
	Logger *log.Logger
	// Tracer records one span per rendered view. If nil, a no-op tracer is used.
	Tracer trace.Tracer
}

// DefaultMinDate is the default start of the forecast views.
var DefaultMinDate = time.Date(2020, time.March, 1, 0, 0, 0, 0, time.UTC)

// DefaultOptions returns default rendering options.
func DefaultOptions() Options {
	return Options{
		Detail:     DetailStandard,
		CurveAlpha: AlphaRamp{Outer: 0.10, Inner: 0.20},
		RtAlpha:    AlphaRamp{Outer: 0.70, Inner: 0.90},
		CurveSkip:  3,
		MinDate:    DefaultMinDate,
		ComponentFloors: map[string]float64{
			"trend":    0,
			"holidays": -1,
		},
	}
}

// ShouldDrawMedian returns whether density bands get a median line.
func (o Options) ShouldDrawMedian() bool {
	if o.DrawMedian != nil {
		return *o.DrawMedian
	}
	return o.Detail == DetailVerbose
}

// Levels returns the band percentiles for the configured detail.
func (o Options) Levels() []float64 {
	if o.BandLevels != nil {
		return o.BandLevels
	}
	if o.Detail == DetailLight {
		return draw.EvenPercentiles(95, 55, 10)
	}
	return draw.DefaultPercentiles()
}

// ComponentFloor returns the configured y lower bound for a forecast component.
func (o Options) ComponentFloor(name string) (float64, bool) {
	v, ok := o.ComponentFloors[name]
	return v, ok
}

func (o Options) schedule(ramp AlphaRamp) draw.Schedule {
	return draw.Schedule{
		Percentiles: o.Levels(),
		AlphaOuter:  ramp.Outer,
		AlphaInner:  ramp.Inner,
	}
}
