package rtplot

import (
	"context"
	"fmt"
	"time"

	"github.com/ukaji3/rtplot-go/pkg/rtplot/canvas"
	"github.com/ukaji3/rtplot-go/pkg/rtplot/draw"
	"github.com/ukaji3/rtplot-go/pkg/rtplot/models"
	"go.opentelemetry.io/otel/attribute"
)

const viewForecast = "forecast"

// Forecast figure geometry.
const (
	ForecastWidth  = 13.4
	ForecastHeight = 6.0
	// ComponentsHeight is the height of the components figure; it shares ForecastWidth.
	ComponentsHeight = 8.0
	ForecastDPI      = 100.0
)

// ForecastBandAlpha is the opacity of the forecast uncertainty interval.
const ForecastBandAlpha = 0.2

// ForecastDetailLayout is the single-panel test-count forecast chart.
type ForecastDetailLayout struct {
	// Figure is nil when the panel was supplied by the caller.
	Figure *canvas.Figure
	Panel  *canvas.Panel
}

// visibleFrom returns the later of the first training date and the configured floor.
func (r *Renderer) visibleFrom(historyStart time.Time) time.Time {
	if r.opts.MinDate.After(historyStart) {
		return r.opts.MinDate
	}
	return historyStart
}

// ForecastDetail plots the training data, the forecast with its uncertainty interval and the
// smoothed result into panel. A nil panel creates a new 13.4x6 in figure.
// Forecast rows before the first training date are left out and the y axis starts at zero.
func (r *Renderer) ForecastDetail(ctx context.Context, result *models.Series, forecast *models.ForecastTable, annotations *models.NamedDates, panel *canvas.Panel) (*ForecastDetailLayout, error) {
	_, span := r.start(ctx, "ForecastDetail")
	defer span.End()

	if forecast == nil {
		return nil, r.fail(span, viewForecast, "forecast", fmt.Errorf("forecast table: %w", ErrMissingVariable))
	}
	if result == nil {
		return nil, r.fail(span, viewForecast, "result", fmt.Errorf("result series: %w", ErrMissingVariable))
	}
	start, err := forecast.HistoryStart()
	if err != nil {
		return nil, r.fail(span, viewForecast, "history", err)
	}
	if err := forecast.History.Validate(); err != nil {
		return nil, r.fail(span, viewForecast, "history", err)
	}
	if err := result.Validate(); err != nil {
		return nil, r.fail(span, viewForecast, "result", err)
	}
	rows := forecast.Since(start)
	span.SetAttributes(attribute.Int("rows", len(rows)), attribute.String("history_start", models.FormatDate(start)))

	layout := &ForecastDetailLayout{Panel: panel}
	if panel == nil {
		layout.Figure = canvas.NewFigure(ForecastWidth, ForecastHeight, ForecastDPI)
		layout.Panel = layout.Figure.AddPanel(1)
	}
	p := layout.Panel

	x := make([]float64, len(rows))
	yhat := make([]float64, len(rows))
	lower := make([]float64, len(rows))
	upper := make([]float64, len(rows))
	for i, row := range rows {
		x[i] = canvas.DateToX(row.Date)
		yhat[i], lower[i], upper[i] = row.Yhat, row.YhatLower, row.YhatUpper
	}

	training := canvas.Scatter{
		X:     canvas.DatesToX(forecast.History.Dates),
		Y:     append([]float64(nil), forecast.History.Values...),
		Style: canvas.Style{Color: canvas.ColorBlack},
		Label: "training data",
	}
	prediction := canvas.Line{X: x, Y: yhat, Style: canvas.Style{Color: canvas.ColorForecast}, Label: "prediction"}
	smoothed := canvas.Line{
		X:     canvas.DatesToX(result.Dates),
		Y:     append([]float64(nil), result.Values...),
		Style: canvas.Style{Color: canvas.ColorOrange},
		Label: "result",
	}

	p.AddFill(canvas.Fill{X: x, Lower: lower, Upper: upper, Style: canvas.Style{Color: canvas.ColorForecast, Alpha: ForecastBandAlpha}})
	p.AddLine(prediction)
	p.AddScatter(training)
	p.AddLine(smoothed)

	p.SetYMin(0)
	p.SetXMin(canvas.DateToX(r.visibleFrom(start)))
	p.YLabel = "total tests"
	p.XLabel = ""

	var entries []canvas.LegendEntry
	for _, a := range []canvas.Artist{training, prediction, smoothed} {
		e, _ := canvas.EntryFor(a)
		entries = append(entries, e)
	}
	p.SetLegend(canvas.Legend{Location: canvas.UpperLeft, Entries: entries})

	if _, err := draw.Annotate(p, annotations, draw.AlignBottom); err != nil {
		return nil, r.fail(span, viewForecast, "annotations", err)
	}
	return layout, nil
}
