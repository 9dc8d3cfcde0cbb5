package canvas

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Locator chooses tick positions within a visible range.
type Locator interface {
	Locate(r Range) []float64
}

// Formatter renders a tick value as a label.
type Formatter interface {
	Format(v float64) string
}

// TickSpec configures an axis's ticks. Nil fields fall back to backend defaults.
type TickSpec struct {
	Major Locator
	Minor Locator
	Label Formatter
	// Rotation of the tick labels, counter-clockwise in degrees.
	Rotation float64
}

// IsZero reports whether nothing was configured.
func (t TickSpec) IsZero() bool {
	return t.Major == nil && t.Minor == nil && t.Label == nil && t.Rotation == 0
}

// AutoLocator places ticks on 1, 2, 2.5 or 5 times a power of ten.
type AutoLocator struct {
	// Target is the preferred maximum number of ticks; zero means 6.
	Target int
}

func (l AutoLocator) Locate(r Range) []float64 {
	target := l.Target
	if target <= 0 {
		target = 6
	}
	step := niceStep(r.Span() / float64(target))
	if step <= 0 || math.IsNaN(step) || math.IsInf(step, 0) {
		return nil
	}
	var out []float64
	for k := math.Ceil(r.Min / step); k*step <= r.Max+step*1e-9; k++ {
		out = append(out, cleanZero(k*step, step))
	}
	return out
}

func niceStep(raw float64) float64 {
	if raw <= 0 {
		return 0
	}
	exp := math.Pow(10, math.Floor(math.Log10(raw)))
	for _, m := range []float64{1, 2, 2.5, 5, 10} {
		if m*exp >= raw {
			return m * exp
		}
	}
	return 10 * exp
}

func cleanZero(v, step float64) float64 {
	if math.Abs(v) < step*1e-9 {
		return 0
	}
	return v
}

// DayLocator ticks every Interval days at midnight UTC.
type DayLocator struct {
	// Interval is the number of days between ticks; zero means 1.
	Interval int
}

func (l DayLocator) Locate(r Range) []float64 {
	n := l.Interval
	if n <= 0 {
		n = 1
	}
	var out []float64
	for d := math.Ceil(r.Min); d <= r.Max; d++ {
		if floorMod(int64(d), int64(n)) == 0 {
			out = append(out, d)
		}
	}
	return out
}

// floorMod is a modulo that stays non-negative for dates before 1970.
func floorMod(a, n int64) int64 {
	m := a % n
	if m < 0 {
		m += n
	}
	return m
}

// WeekdayLocator ticks on one weekday every Interval weeks, counted from the epoch so the
// ticked weeks do not move with the visible range.
type WeekdayLocator struct {
	Weekday time.Weekday
	// Interval is the number of weeks between ticks; zero means 1.
	Interval int
}

func (l WeekdayLocator) Locate(r Range) []float64 {
	n := l.Interval
	if n <= 0 {
		n = 1
	}
	var out []float64
	for d := math.Ceil(r.Min); d <= r.Max; d++ {
		if XToDate(d).Weekday() != l.Weekday {
			continue
		}
		week := int64(math.Floor(d / 7))
		if floorMod(week, int64(n)) == 0 {
			out = append(out, d)
		}
	}
	return out
}

// AutoDateLocator picks a whole-day step that keeps the tick count near Target.
type AutoDateLocator struct {
	// Target is the preferred maximum number of ticks; zero means 8.
	Target int
}

var dateSteps = []int{1, 2, 3, 7, 14, 28, 56, 91, 182, 364}

func (l AutoDateLocator) Locate(r Range) []float64 {
	target := l.Target
	if target <= 0 {
		target = 8
	}
	step := dateSteps[len(dateSteps)-1]
	for _, s := range dateSteps {
		if r.Span()/float64(s) <= float64(target) {
			step = s
			break
		}
	}
	if step%7 == 0 {
		return WeekdayLocator{Weekday: time.Monday, Interval: step / 7}.Locate(r)
	}
	return DayLocator{Interval: step}.Locate(r)
}

// FixedLocator returns the configured values that fall in range.
type FixedLocator struct {
	Values []float64
}

func (l FixedLocator) Locate(r Range) []float64 {
	var out []float64
	for _, v := range l.Values {
		if r.Contains(v) {
			out = append(out, v)
		}
	}
	return out
}

// DateFormatter formats date-axis values with a time layout.
type DateFormatter struct {
	Layout string
}

func (f DateFormatter) Format(v float64) string {
	layout := f.Layout
	if layout == "" {
		layout = time.DateOnly
	}
	return XToDate(v).Format(layout)
}

// NumberFormatter renders values with locale digit grouping (e.g. 12,500).
type NumberFormatter struct {
	// Tag selects the locale; the zero tag means English.
	Tag language.Tag
	// Decimals is the number of fraction digits; negative picks the shortest exact form.
	Decimals int
}

func (f NumberFormatter) Format(v float64) string {
	tag := f.Tag
	if tag == language.Und {
		tag = language.English
	}
	p := message.NewPrinter(tag)
	if f.Decimals < 0 {
		if v == math.Trunc(v) && math.Abs(v) < 1e15 {
			return p.Sprintf("%d", int64(v))
		}
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	return p.Sprintf(fmt.Sprintf("%%.%df", f.Decimals), v)
}

// IndexFormatter labels integer positions from a fixed list (categorical axes).
type IndexFormatter struct {
	Labels []string
}

func (f IndexFormatter) Format(v float64) string {
	i := int(math.Round(v))
	if i < 0 || i >= len(f.Labels) {
		return ""
	}
	return f.Labels[i]
}
