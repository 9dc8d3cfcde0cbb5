package rtplot

import (
	"context"
	"fmt"

	"github.com/ukaji3/rtplot-go/pkg/rtplot/canvas"
	"github.com/ukaji3/rtplot-go/pkg/rtplot/draw"
	"github.com/ukaji3/rtplot-go/pkg/rtplot/models"
	"go.opentelemetry.io/otel/attribute"
)

const viewComponents = "components"

// Weekdays labels the weekly profile axis, Monday first.
var Weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// ComponentsLayout is the forecast decomposition chart: one panel per component.
type ComponentsLayout struct {
	Figure *canvas.Figure
	// Panels are in component order.
	Panels []*canvas.Panel
	// Names holds the component name of every panel.
	Names []string
}

// Panel returns the panel of a named component.
func (l *ComponentsLayout) Panel(name string) (*canvas.Panel, bool) {
	for i, n := range l.Names {
		if n == name {
			return l.Panels[i], true
		}
	}
	return nil, false
}

// ForecastComponents plots every forecast component in its own panel. Date-indexed panels
// share one x axis starting at the later of the table's HistoryStart and Options.MinDate.
// The first panel is annotated with labels, the second with markers only.
func (r *Renderer) ForecastComponents(ctx context.Context, table *models.ComponentTable, annotations *models.NamedDates) (*ComponentsLayout, error) {
	_, span := r.start(ctx, "ForecastComponents")
	defer span.End()

	if table == nil {
		return nil, r.fail(span, viewComponents, "table", fmt.Errorf("component table: %w", ErrMissingVariable))
	}
	if err := table.Validate(); err != nil {
		return nil, r.fail(span, viewComponents, "table", err)
	}
	t := table
	if !table.HistoryStart.IsZero() {
		t = table.Since(table.HistoryStart)
	}
	span.SetAttributes(attribute.Int("components", len(t.Components)), attribute.Int("rows", len(t.Dates)))

	layout := &ComponentsLayout{Figure: canvas.NewFigure(ForecastWidth, ComponentsHeight, ForecastDPI)}
	var timeline []*canvas.Panel
	x := canvas.DatesToX(t.Dates)
	for _, c := range t.Components {
		p := layout.Figure.AddPanel(1)
		layout.Panels = append(layout.Panels, p)
		layout.Names = append(layout.Names, c.Name)
		p.YLabel = c.Name
		p.XLabel = ""

		if c.Kind == models.ComponentWeekly {
			r.drawWeekly(p, t, c)
		} else {
			drawComponent(p, x, c)
			timeline = append(timeline, p)
		}
		if floor, ok := r.opts.ComponentFloor(c.Name); ok {
			p.SetYMin(floor)
		}
	}

	if len(timeline) > 0 {
		canvas.ShareX(timeline...)
		if from := r.visibleFrom(table.HistoryStart); !from.IsZero() {
			timeline[0].SetXMin(canvas.DateToX(from))
		}
	}

	marks := []*models.NamedDates{annotations, annotations.Blanked()}
	for i, p := range layout.Panels {
		if i >= len(marks) {
			break
		}
		if _, err := draw.Annotate(p, marks[i], draw.AlignBottom); err != nil {
			return nil, r.fail(span, viewComponents, layout.Names[i], err)
		}
	}
	return layout, nil
}

func drawComponent(p *canvas.Panel, x []float64, c models.Component) {
	if c.HasInterval() {
		p.AddFill(canvas.Fill{
			X:     x,
			Lower: append([]float64(nil), c.Lower...),
			Upper: append([]float64(nil), c.Upper...),
			Style: canvas.Style{Color: canvas.ColorForecast, Alpha: ForecastBandAlpha},
		})
	}
	p.AddLine(canvas.Line{X: x, Y: append([]float64(nil), c.Values...), Style: canvas.Style{Color: canvas.ColorForecast}})
}

func (r *Renderer) drawWeekly(p *canvas.Panel, t *models.ComponentTable, c models.Component) {
	x := make([]float64, len(Weekdays))
	for i := range x {
		x[i] = float64(i)
	}
	profile := t.WeeklyProfile(c.Values)
	if c.HasInterval() {
		lower, upper := t.WeeklyProfile(c.Lower), t.WeeklyProfile(c.Upper)
		p.AddFill(canvas.Fill{X: x, Lower: lower[:], Upper: upper[:], Style: canvas.Style{Color: canvas.ColorForecast, Alpha: ForecastBandAlpha}})
	}
	p.AddLine(canvas.Line{X: x, Y: profile[:], Style: canvas.Style{Color: canvas.ColorForecast}})
	if len(t.Dates) < len(Weekdays) {
		p.Warnf("weekly component %q: only %d rows, some weekdays are empty", c.Name, len(t.Dates))
		r.logger.Printf("weekly component %q: only %d rows", c.Name, len(t.Dates))
	}
	p.SetXLimits(-0.5, float64(len(Weekdays))-0.5)
	p.SetXTicks(canvas.TickSpec{
		Major: canvas.FixedLocator{Values: x},
		Label: canvas.IndexFormatter{Labels: Weekdays},
	})
}
