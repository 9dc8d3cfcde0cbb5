package canvas

import (
	"fmt"

	"github.com/ukaji3/rtplot-go/pkg/rtplot/models"
)

// Describe summarizes a figure: one chart summary per panel, top to bottom.
func Describe(fig *Figure) models.FigureSummary {
	summary := models.FigureSummary{
		Width:  fig.Width,
		Height: fig.Height,
		DPI:    fig.DPI,
	}
	for i, p := range fig.panels {
		summary.Charts = append(summary.Charts, DescribePanel(fmt.Sprintf("panel%d", i+1), p))
	}
	return summary
}

// DescribePanel summarizes a single panel.
func DescribePanel(name string, p *Panel) models.ChartSummary {
	xr, yr := p.XLimits(), p.YLimits()
	chart := models.ChartSummary{
		Name:       name,
		ChartType:  chartType(p),
		Title:      p.Title,
		YAxisTitle: p.YLabel,
		XAxisRange: []float64{xr.Min, xr.Max},
		YAxisRange: []float64{yr.Min, yr.Max},
		Series:     []models.SeriesSummary{},
		Markers:    len(p.Markers()),
		Warnings:   p.Warnings(),
	}
	for _, a := range p.artists {
		var points int
		var name string
		switch v := a.(type) {
		case Line:
			points, name = len(v.X), v.Label
		case Fill:
			points, name = len(v.X), v.Label
		case Bars:
			points, name = len(v.X), v.Label
		case Scatter:
			points, name = len(v.X), v.Label
		default:
			continue
		}
		chart.Series = append(chart.Series, models.SeriesSummary{Name: name, Kind: a.Kind(), Points: points})
	}
	return chart
}

// chartType names the dominant artist kind using spreadsheet chart vocabulary.
func chartType(p *Panel) string {
	switch {
	case len(p.Fills()) > 0:
		return "Area"
	case len(p.BarSets()) > 0:
		return "Col"
	case len(p.Scatters()) > 0 && len(p.Lines()) == 0:
		return "XYScatter"
	case len(p.Lines()) > 0:
		return "Line"
	default:
		return "unknown"
	}
}
