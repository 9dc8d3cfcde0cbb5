package draw

import (
	"errors"
	"fmt"
	"log"
	"slices"

	"github.com/ukaji3/rtplot-go/pkg/rtplot/canvas"
	"github.com/ukaji3/rtplot-go/pkg/rtplot/models"
)

// ErrInvalidSchedule indicates percentile levels outside (50, 100].
var ErrInvalidSchedule = errors.New("invalid band schedule")

// Schedule is the set of nested central intervals drawn as density bands.
// Each level p is drawn as the interval between the (100-p)-th and p-th percentiles.
type Schedule struct {
	// Percentiles are upper percentiles in (50, 100]. Order does not matter; bands are drawn
	// widest first. Nil selects the default levels.
	Percentiles []float64
	// AlphaOuter is the opacity of the widest band; zero means opaque.
	AlphaOuter float64
	// AlphaInner is the opacity of the narrowest band; zero means opaque.
	AlphaInner float64
}

// DefaultSchedule returns 40 levels evenly spaced from 99 down to 51 with an opacity ramp
// from 0.7 (outer) to 0.9 (inner).
func DefaultSchedule() Schedule {
	return Schedule{
		Percentiles: DefaultPercentiles(),
		AlphaOuter:  0.7,
		AlphaInner:  0.9,
	}
}

// DefaultPercentiles returns the default 40 upper percentiles, 99 down to 51.
func DefaultPercentiles() []float64 {
	return EvenPercentiles(99, 51, 40)
}

// EvenPercentiles returns n levels evenly spaced from outer down to inner, both included.
func EvenPercentiles(outer, inner float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{inner}
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = outer - float64(i)*(outer-inner)/float64(n-1)
	}
	return out
}

// levels returns the validated percentiles, widest first, without duplicates.
func (s Schedule) levels() ([]float64, error) {
	ps := s.Percentiles
	if ps == nil {
		ps = DefaultPercentiles()
	}
	out := make([]float64, 0, len(ps))
	for _, p := range ps {
		if !(p > 50 && p <= 100) {
			return nil, fmt.Errorf("percentile %v: %w", p, ErrInvalidSchedule)
		}
		out = append(out, p)
	}
	slices.Sort(out)
	slices.Reverse(out)
	return slices.Compact(out), nil
}

// Validate reports levels outside (50, 100].
func (s Schedule) Validate() error {
	_, err := s.levels()
	return err
}

// alpha returns the opacity at position pos in [0, 1] from outer to inner.
func (s Schedule) alpha(pos float64) float64 {
	return s.AlphaOuter + pos*(s.AlphaInner-s.AlphaOuter)
}

// BandSet holds the percentile boundaries of every band at every time-point.
type BandSet struct {
	// Levels are the upper percentiles, widest first.
	Levels []float64
	// Lower[b][t] is the (100-Levels[b])-th percentile at time-point t.
	Lower [][]float64
	// Upper[b][t] is the Levels[b]-th percentile at time-point t.
	Upper [][]float64
	// Median[t] is the 50th percentile at time-point t.
	Median []float64
}

// Width returns the width of band b at time-point t.
func (bs *BandSet) Width(b, t int) float64 {
	return bs.Upper[b][t] - bs.Lower[b][t]
}

// ComputeBands extracts the schedule's percentile intervals from every time-point's draws.
// Each column is sorted once, so the cost is independent of how many bands are drawn
// beyond a constant per band and time-point.
func ComputeBands(samples *models.SampleMatrix, schedule Schedule) (*BandSet, error) {
	levels, err := schedule.levels()
	if err != nil {
		return nil, err
	}
	points := samples.NumPoints()
	bs := &BandSet{
		Levels: levels,
		Lower:  make([][]float64, len(levels)),
		Upper:  make([][]float64, len(levels)),
		Median: make([]float64, points),
	}
	for b := range levels {
		bs.Lower[b] = make([]float64, points)
		bs.Upper[b] = make([]float64, points)
	}
	for t := 0; t < points; t++ {
		col := sortedCopy(samples.Column(t))
		bs.Median[t] = Percentile(col, 50)
		for b, p := range levels {
			bs.Lower[b][t] = Percentile(col, 100-p)
			bs.Upper[b][t] = Percentile(col, p)
		}
	}
	return bs, nil
}

// BandOptions configures RenderBands.
type BandOptions struct {
	// Palette sets the hue; nil means Reds.
	Palette Palette
	// Schedule selects the band levels and opacity ramp; a zero Schedule means DefaultSchedule.
	Schedule Schedule
	// Skip omits the first Skip time-points from the drawing (the data is not changed).
	Skip int
	// Label is the legend label of the returned entry.
	Label string
	// DrawMedian adds a line through the per-time-point medians.
	DrawMedian bool
	// Logger receives degraded-rendering warnings; nil discards them.
	Logger *log.Logger
}

// RenderBands draws the density bands of samples over x into s and returns the legend entry
// representing them (the densest color). A matrix with a single draw is drawn as a line and
// a matrix without draws draws nothing; both record a warning instead of failing.
func RenderBands(s canvas.Surface, x []float64, samples *models.SampleMatrix, opts BandOptions) (canvas.LegendEntry, error) {
	if len(x) != samples.NumPoints() {
		return canvas.LegendEntry{}, fmt.Errorf("%d x values for %d time-points: %w", len(x), samples.NumPoints(), models.ErrShapeMismatch)
	}
	schedule := opts.Schedule
	if schedule.Percentiles == nil && schedule.AlphaOuter == 0 && schedule.AlphaInner == 0 {
		schedule = DefaultSchedule()
	}
	if _, err := schedule.levels(); err != nil {
		return canvas.LegendEntry{}, err
	}
	palette := opts.Palette
	if palette == nil {
		palette = Reds
	}
	entry := canvas.LegendEntry{
		Label:  opts.Label,
		Swatch: canvas.SwatchPatch,
		Style:  canvas.Style{Color: palette.At(1), Alpha: schedule.AlphaInner},
	}

	skip := max(opts.Skip, 0)
	if skip >= len(x) {
		warn(s, opts.Logger, "bands %q: all %d time-points skipped, nothing drawn", opts.Label, len(x))
		return entry, nil
	}
	xs := append([]float64(nil), x[skip:]...)

	switch samples.NumDraws() {
	case 0:
		warn(s, opts.Logger, "bands %q: no draws, nothing drawn", opts.Label)
		return entry, nil
	case 1:
		warn(s, opts.Logger, "bands %q: single draw, drawn as a line", opts.Label)
		row := samples.Rows()[0]
		s.AddLine(canvas.Line{X: xs, Y: row[skip:], Style: canvas.Style{Color: palette.At(1)}})
		entry.Swatch = canvas.SwatchLine
		entry.Style.Alpha = 0
		return entry, nil
	}

	bands, err := ComputeBands(samples, schedule)
	if err != nil {
		return canvas.LegendEntry{}, err
	}
	n := len(bands.Levels)
	for b := range bands.Levels {
		pos := 1.0
		if n > 1 {
			pos = float64(b) / float64(n-1)
		}
		s.AddFill(canvas.Fill{
			X:     xs,
			Lower: bands.Lower[b][skip:],
			Upper: bands.Upper[b][skip:],
			Style: canvas.Style{Color: palette.At(pos), Alpha: schedule.alpha(pos)},
			Group: opts.Label,
		})
	}
	if opts.DrawMedian {
		s.AddLine(canvas.Line{X: xs, Y: bands.Median[skip:], Style: canvas.Style{Color: palette.At(1), Width: 1}})
	}
	return entry, nil
}

func warn(s canvas.Surface, logger *log.Logger, format string, args ...any) {
	if w, ok := s.(canvas.Warner); ok {
		w.Warnf(format, args...)
	}
	if logger != nil {
		logger.Printf(format, args...)
	}
}
