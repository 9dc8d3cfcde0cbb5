package rtplot

import (
	"context"
	"time"

	"github.com/ukaji3/rtplot-go/pkg/rtplot/canvas"
	"github.com/ukaji3/rtplot-go/pkg/rtplot/draw"
	"github.com/ukaji3/rtplot-go/pkg/rtplot/models"
	"go.opentelemetry.io/otel/attribute"
)

const viewDashboard = "dashboard"

// Dashboard figure geometry.
const (
	DashboardWidth  = 10.0
	DashboardHeight = 8.0
	DashboardDPI    = 140.0
)

// DashboardHeightRatios weights the rows toward the curves panel.
var DashboardHeightRatios = []float64{3, 1, 1, 2}

// RtThreshold separates growth from decline.
const RtThreshold = 1.0

// RtYMax is the upper y limit of the R_t panel.
const RtYMax = 2.5

// DashboardInput holds the data rendered by TrendDashboard.
type DashboardInput struct {
	// Posterior provides the infections, test_adjusted_positive and r_t draws and the
	// observed_positive and tests constant series.
	Posterior *models.PosteriorData
	// ObservedPositive overrides the posterior's observed_positive series.
	ObservedPositive *models.Series
	// ModeledTests overrides the posterior's tests series.
	ModeledTests *models.Series
	// ActualTests is the optional series of actually reported tests.
	ActualTests *models.Series
	// Annotations are the events marked on the curves and tests panels.
	Annotations *models.NamedDates
	// Scale converts the relative curves into daily counts.
	Scale models.ScaleFactor
}

// DashboardLayout is the four-panel dashboard. Panels are top to bottom.
type DashboardLayout struct {
	// Figure is nil when the panels belong to a caller-owned figure.
	Figure      *canvas.Figure
	Curves      *canvas.Panel
	Tests       *canvas.Panel
	Probability *canvas.Panel
	Rt          *canvas.Panel
}

// NewDashboardLayout creates a 10x8 in, 140 dpi figure with four rows sharing the x axis.
func NewDashboardLayout() *DashboardLayout {
	fig, panels := canvas.NewGrid(canvas.GridSpec{
		Rows:         4,
		HeightRatios: DashboardHeightRatios,
		ShareX:       true,
		Width:        DashboardWidth,
		Height:       DashboardHeight,
		DPI:          DashboardDPI,
	})
	return &DashboardLayout{
		Figure:      fig,
		Curves:      panels[0],
		Tests:       panels[1],
		Probability: panels[2],
		Rt:          panels[3],
	}
}

// Panels returns the four panels top to bottom.
func (l *DashboardLayout) Panels() []*canvas.Panel {
	return []*canvas.Panel{l.Curves, l.Tests, l.Probability, l.Rt}
}

func (l *DashboardLayout) validate() error {
	for _, p := range l.Panels() {
		if p == nil {
			return ErrInvalidLayout
		}
	}
	return nil
}

// dashboardData is the validated, scaled input.
type dashboardData struct {
	infections *models.SampleMatrix
	adjusted   *models.SampleMatrix
	rt         *models.SampleMatrix
	positive   *models.Series
	modeled    *models.Series
	actual     *models.Series
}

func (r *Renderer) prepareDashboard(in DashboardInput) (*dashboardData, string, error) {
	d := &dashboardData{actual: in.ActualTests}
	if err := r.opts.schedule(r.opts.CurveAlpha).Validate(); err != nil {
		return nil, "bands", err
	}
	var err error

	raw, err := in.Posterior.Variable(models.VarInfections)
	if err != nil {
		return nil, "curves", err
	}
	if d.infections, err = raw.Scale(in.Scale); err != nil {
		return nil, "curves", err
	}
	raw, err = in.Posterior.Variable(models.VarTestAdjustedPositive)
	if err != nil {
		return nil, "curves", err
	}
	if d.adjusted, err = raw.Scale(in.Scale); err != nil {
		return nil, "curves", err
	}
	if d.positive, err = seriesOrConstant(in.ObservedPositive, in.Posterior, models.ConstObservedPositive); err != nil {
		return nil, "curves", err
	}

	if d.modeled, err = seriesOrConstant(in.ModeledTests, in.Posterior, models.ConstTests); err != nil {
		return nil, "tests", err
	}
	if d.actual != nil {
		if err := d.actual.Validate(); err != nil {
			return nil, "tests", err
		}
	}

	if d.rt, err = in.Posterior.Variable(models.VarRt); err != nil {
		return nil, "r_t", err
	}
	return d, "", nil
}

func seriesOrConstant(explicit *models.Series, posterior *models.PosteriorData, name string) (*models.Series, error) {
	s := explicit
	if s == nil {
		var err error
		if s, err = posterior.Constant(name); err != nil {
			return nil, err
		}
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// TrendDashboard renders the curves, tests, probability and R_t panels. A nil layout creates a
// new figure; a supplied layout must have all four panels and gets its x axes linked.
// Every input is validated before anything is drawn.
func (r *Renderer) TrendDashboard(ctx context.Context, in DashboardInput, layout *DashboardLayout) (*DashboardLayout, error) {
	_, span := r.start(ctx, "TrendDashboard", attribute.Int("annotations", in.Annotations.Len()))
	defer span.End()

	if layout == nil {
		layout = NewDashboardLayout()
	} else if err := layout.validate(); err != nil {
		return nil, r.fail(span, viewDashboard, "layout", err)
	}
	data, component, err := r.prepareDashboard(in)
	if err != nil {
		return nil, r.fail(span, viewDashboard, component, err)
	}
	span.SetAttributes(
		attribute.Int("draws", data.rt.NumDraws()),
		attribute.Int("points", data.rt.NumPoints()),
	)
	canvas.ShareX(layout.Panels()...)

	if err := r.drawCurves(layout.Curves, data); err != nil {
		return nil, r.fail(span, viewDashboard, "curves", err)
	}
	r.drawTests(layout.Tests, data)
	r.drawProbability(layout.Probability, data)
	if err := r.drawRt(layout.Rt, data); err != nil {
		return nil, r.fail(span, viewDashboard, "r_t", err)
	}

	// Markers go last so they see the x range of every panel.
	if in.Annotations.Len() > 0 {
		if _, err := draw.Annotate(layout.Curves, in.Annotations, draw.AlignBottom); err != nil {
			return nil, r.fail(span, viewDashboard, "curves", err)
		}
		if _, err := draw.Annotate(layout.Tests, in.Annotations.Blanked(), draw.AlignBottom); err != nil {
			return nil, r.fail(span, viewDashboard, "tests", err)
		}
	}
	return layout, nil
}

func (r *Renderer) drawCurves(p *canvas.Panel, d *dashboardData) error {
	curves := []struct {
		samples *models.SampleMatrix
		label   string
		palette draw.Palette
	}{
		{d.infections, "infections", draw.Reds},
		{d.adjusted, "testing delay adjusted", draw.Greens},
	}

	var entries []canvas.LegendEntry
	for _, c := range curves {
		entry, err := draw.RenderBands(p, canvas.DatesToX(c.samples.Dates()), c.samples, draw.BandOptions{
			Palette:    c.palette,
			Schedule:   r.opts.schedule(r.opts.CurveAlpha),
			Skip:       r.opts.CurveSkip,
			Label:      c.label,
			DrawMedian: r.opts.ShouldDrawMedian(),
			Logger:     r.logger,
		})
		if err != nil {
			return err
		}
		entries = append(entries, entry)
	}

	bars := canvas.Bars{
		X:       canvas.DatesToX(d.positive.Dates),
		Heights: append([]float64(nil), d.positive.Values...),
		Style:   canvas.Style{Color: canvas.ColorBlue, Alpha: 0.5},
		Label:   "positive tests",
	}
	p.AddBars(bars)
	entry, _ := canvas.EntryFor(bars)
	entries = append(entries, entry)

	p.SetYMin(0)
	p.YLabel = "per day"
	p.LabelSize = 15
	p.SetLegend(canvas.Legend{Location: canvas.UpperLeft, Entries: entries})
	return nil
}

func (r *Renderer) drawTests(p *canvas.Panel, d *dashboardData) {
	p.AddLine(canvas.Line{
		X:     canvas.DatesToX(d.modeled.Dates),
		Y:     append([]float64(nil), d.modeled.Values...),
		Style: canvas.Style{Color: canvas.ColorOrange},
		Label: "modeled",
	})
	if d.actual != nil {
		p.AddBars(canvas.Bars{
			X:       canvas.DatesToX(d.actual.Dates),
			Heights: append([]float64(nil), d.actual.Values...),
			Style:   canvas.Style{Color: canvas.ColorBlue},
			Label:   "actual",
		})
	}
	p.SetYMin(0)
	p.YLabel = "daily tests"
	p.AutoLegend(canvas.UpperLeft)
}

func (r *Renderer) drawProbability(p *canvas.Panel, d *dashboardData) {
	p.AddLine(canvas.Line{
		X:     canvas.DatesToX(d.rt.Dates()),
		Y:     d.rt.FractionAbove(RtThreshold),
		Style: canvas.Style{Color: canvas.ColorBlue},
	})
	p.SetYLimits(0, 1)
	p.YLabel = "p(R_t > 1)"
	p.LabelSize = 15
}

func (r *Renderer) drawRt(p *canvas.Panel, d *dashboardData) error {
	_, err := draw.RenderBands(p, canvas.DatesToX(d.rt.Dates()), d.rt, draw.BandOptions{
		Palette:    draw.Reds,
		Schedule:   r.opts.schedule(r.opts.RtAlpha),
		Label:      "R_t",
		DrawMedian: r.opts.ShouldDrawMedian(),
		Logger:     r.logger,
	})
	if err != nil {
		return err
	}
	p.AddRefLine(canvas.RefLine{
		Orientation: canvas.Horizontal,
		Value:       RtThreshold,
		Style:       canvas.Style{Color: canvas.ColorBlue, Dash: canvas.Dotted},
	})
	p.SetYLimits(0, RtYMax)
	p.SetXTicks(canvas.TickSpec{
		Major:    canvas.WeekdayLocator{Weekday: time.Monday},
		Minor:    canvas.DayLocator{},
		Label:    canvas.DateFormatter{Layout: time.DateOnly},
		Rotation: 90,
	})
	p.YLabel = "R_t"
	p.LabelSize = 15
	return nil
}
