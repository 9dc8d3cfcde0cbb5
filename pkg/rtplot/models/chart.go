package models

// SeriesSummary describes one drawn series of a chart.
type SeriesSummary struct {
	// Name is the series legend label (may be empty).
	Name string `json:"name"`
	// Kind is the artist kind: line, fill, bars or scatter.
	Kind string `json:"kind"`
	// Points is the number of data points drawn.
	Points int `json:"points,omitempty"`
	// XRange is the cell range holding X values (workbook charts only).
	XRange string `json:"x_range,omitempty"`
	// YRange is the cell range holding Y values (workbook charts only).
	YRange string `json:"y_range,omitempty"`
}

// ChartSummary describes a rendered panel or a chart found in a workbook.
type ChartSummary struct {
	// Name is the panel or chart name.
	Name string `json:"name"`
	// ChartType is the dominant chart type (e.g. Line, Area, Col).
	ChartType string `json:"chart_type"`
	// Title is the chart title.
	Title string `json:"title,omitempty"`
	// YAxisTitle is the Y-axis title.
	YAxisTitle string `json:"y_axis_title,omitempty"`
	// XAxisRange is the visible X range [min, max] when known.
	XAxisRange []float64 `json:"x_axis_range,omitempty"`
	// YAxisRange is the visible Y range [min, max] when known.
	YAxisRange []float64 `json:"y_axis_range,omitempty"`
	// Series is the list of series included in the chart.
	Series []SeriesSummary `json:"series"`
	// Markers is the number of event markers drawn.
	Markers int `json:"markers,omitempty"`
	// Warnings lists degraded-rendering notes recorded while drawing.
	Warnings []string `json:"warnings,omitempty"`
}

// FigureSummary describes a rendered composition.
type FigureSummary struct {
	// Width is the figure width in inches.
	Width float64 `json:"width"`
	// Height is the figure height in inches.
	Height float64 `json:"height"`
	// DPI is the raster resolution.
	DPI float64 `json:"dpi"`
	// Charts holds one summary per panel, top to bottom.
	Charts []ChartSummary `json:"charts"`
}
