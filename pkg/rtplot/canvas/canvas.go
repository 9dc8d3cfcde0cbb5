// Package canvas provides the backend-independent drawing surface that the renderers draw into.
//
// A Panel records artists (lines, fills, bars, markers, text, reference lines) in data
// coordinates together with axis limits, ticks and a legend. A Figure owns an ordered stack
// of panels. Backends in pkg/rtplot/backend turn a Figure into SVG, PNG or XLSX.
//
// Panels are not safe for concurrent use; distinct panels are independent.
package canvas

import (
	"math"
	"time"
)

// Surface is the capability set renderers need from a chart area.
type Surface interface {
	AddLine(l Line)
	AddFill(f Fill)
	AddBars(b Bars)
	AddScatter(s Scatter)
	AddText(t Text)
	AddRefLine(r RefLine)

	SetXLimits(min, max float64)
	SetYLimits(min, max float64)
	SetXMin(min float64)
	SetYMin(min float64)
	SetXTicks(t TickSpec)

	XLimits() Range
	YLimits() Range
}

// Warner is implemented by surfaces that keep degraded-rendering notes.
type Warner interface {
	Warnf(format string, args ...any)
}

// Range is a closed interval on one axis.
type Range struct {
	Min float64
	Max float64
}

// Contains reports whether v lies within the range, bounds included.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Span returns Max - Min.
func (r Range) Span() float64 { return r.Max - r.Min }

// At returns the value at fraction f of the range.
func (r Range) At(f float64) float64 { return r.Min + f*r.Span() }

func (r Range) union(o Range) Range {
	return Range{Min: math.Min(r.Min, o.Min), Max: math.Max(r.Max, o.Max)}
}

const secondsPerDay = 24 * 60 * 60

// DateToX maps a time to the date axis: fractional days since the Unix epoch.
func DateToX(t time.Time) float64 {
	return float64(t.Unix())/secondsPerDay + float64(t.Nanosecond())/1e9/secondsPerDay
}

// DatesToX maps every date with DateToX.
func DatesToX(ts []time.Time) []float64 {
	out := make([]float64, len(ts))
	for i, t := range ts {
		out[i] = DateToX(t)
	}
	return out
}

// XToDate is the inverse of DateToX, in UTC.
func XToDate(x float64) time.Time {
	sec := math.Floor(x * secondsPerDay)
	nsec := math.Round((x*secondsPerDay - sec) * 1e9)
	return time.Unix(int64(sec), int64(nsec)).UTC()
}

// daysTo1980 separates date axes from plain numeric ones.
const daysTo1980 = 3652

// IsDateRange reports whether an x range is best read as dates.
func IsDateRange(r Range) bool { return r.Min > daysTo1980 }
