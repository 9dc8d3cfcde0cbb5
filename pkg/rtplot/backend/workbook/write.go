// Package workbook exports a canvas.Figure as an xlsx workbook holding one data
// sheet and one native chart per panel, and reads such charts back.
package workbook

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/ukaji3/rtplot-go/pkg/rtplot/canvas"
	"github.com/xuri/excelize/v2"
)

// ErrEmptyFigure indicates a figure without panels.
var ErrEmptyFigure = errors.New("figure has no panels")

// ChartTypes maps panel chart types to excelize chart types.
var ChartTypes = map[string]excelize.ChartType{
	"Line":      excelize.Line,
	"Area":      excelize.Area,
	"Col":       excelize.Col,
	"XYScatter": excelize.Scatter,
}

const (
	pixelsPerInch = 96
	dateLayout    = "2006-01-02"
	firstSheet    = "Sheet1"
)

// SheetName names the sheet holding panel i (zero based).
func SheetName(i int) string {
	return fmt.Sprintf("panel%d", i+1)
}

// column is one header plus its values, written top to bottom.
type column struct {
	header string
	values []any
}

// series ties a chart series to the columns holding its data.
type series struct {
	xCol, yCol int
	rows       int
}

// sheetData accumulates the columns of one panel sheet.
type sheetData struct {
	dates   bool
	columns []column
	series  []series
}

// Write encodes fig as an xlsx workbook. Panel i lands on sheet SheetName(i)
// together with a chart sized from the figure and the panel height ratio.
func Write(fig *canvas.Figure, w io.Writer) error {
	panels := fig.Panels()
	if len(panels) == 0 {
		return ErrEmptyFigure
	}

	f := excelize.NewFile()
	defer f.Close()

	ratios := fig.HeightRatios()
	var total float64
	for _, r := range ratios {
		total += r
	}

	for i, p := range panels {
		sheet := SheetName(i)
		if i == 0 {
			if err := f.SetSheetName(firstSheet, sheet); err != nil {
				return err
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return err
		}

		data := collectSheet(p)
		if err := data.write(f, sheet); err != nil {
			return fmt.Errorf("write %s: %w", sheet, err)
		}
		if len(data.series) == 0 {
			continue
		}

		width := uint(fig.Width * pixelsPerInch)
		height := uint(fig.Height * pixelsPerInch * ratios[i] / total)
		chart, err := data.chart(sheet, p, width, height)
		if err != nil {
			return err
		}
		anchor, err := excelize.CoordinatesToCellName(len(data.columns)+2, 1)
		if err != nil {
			return err
		}
		if err := f.AddChart(sheet, anchor, chart); err != nil {
			return fmt.Errorf("add chart to %s: %w", sheet, err)
		}
	}

	return f.Write(w)
}

// collectSheet lays out every data artist of p as columns. A run of adjacent
// fills of one group, such as a density band stack, becomes one chart series
// through the midpoint of its innermost band.
func collectSheet(p *canvas.Panel) *sheetData {
	d := &sheetData{dates: canvas.IsDateRange(p.XLimits())}
	artists := p.Artists()
	for i := 0; i < len(artists); i++ {
		switch v := artists[i].(type) {
		case canvas.Line:
			d.add(v.Label, "line", v.X, v.Y)
		case canvas.Bars:
			d.add(v.Label, "bars", v.X, v.Heights)
		case canvas.Scatter:
			d.add(v.Label, "scatter", v.X, v.Y)
		case canvas.Fill:
			run := []canvas.Fill{v}
			for i+1 < len(artists) {
				next, ok := artists[i+1].(canvas.Fill)
				if !ok || next.Group != v.Group || v.Group == "" {
					break
				}
				run = append(run, next)
				i++
			}
			d.addBands(run)
		}
	}
	return d
}

// add appends an x column and a y column and registers them as a series.
func (d *sheetData) add(label, kind string, x, y []float64) {
	name := label
	if name == "" {
		name = fmt.Sprintf("%s %d", kind, len(d.series)+1)
	}
	xCol := d.appendColumn(column{header: "x", values: d.xValues(x)})
	yCol := d.appendColumn(column{header: name, values: floats(y)})
	if len(x) > 0 {
		d.series = append(d.series, series{xCol: xCol, yCol: yCol, rows: len(x)})
	}
}

// addBands writes the bounds of every fill of a run and a midpoint column.
func (d *sheetData) addBands(run []canvas.Fill) {
	name := run[0].Group
	for _, f := range run {
		if name != "" {
			break
		}
		name = f.Label
	}
	if name == "" {
		name = fmt.Sprintf("band %d", len(d.series)+1)
	}

	inner := run[len(run)-1]
	xCol := d.appendColumn(column{header: "x", values: d.xValues(inner.X)})
	for j, f := range run {
		d.appendColumn(column{header: fmt.Sprintf("%s lower %d", name, j+1), values: floats(f.Lower)})
		d.appendColumn(column{header: fmt.Sprintf("%s upper %d", name, j+1), values: floats(f.Upper)})
	}
	mid := make([]float64, len(inner.X))
	for t := range mid {
		mid[t] = (inner.Lower[t] + inner.Upper[t]) / 2
	}
	yCol := d.appendColumn(column{header: name, values: floats(mid)})
	if len(mid) > 0 {
		d.series = append(d.series, series{xCol: xCol, yCol: yCol, rows: len(mid)})
	}
}

// appendColumn returns the 1-based index of the new column.
func (d *sheetData) appendColumn(c column) int {
	d.columns = append(d.columns, c)
	return len(d.columns)
}

func (d *sheetData) xValues(xs []float64) []any {
	if !d.dates {
		return floats(xs)
	}
	out := make([]any, len(xs))
	for i, x := range xs {
		out[i] = canvas.XToDate(x).Format(dateLayout)
	}
	return out
}

// floats converts to cell values; NaN becomes an empty cell.
func floats(vs []float64) []any {
	out := make([]any, len(vs))
	for i, v := range vs {
		if !math.IsNaN(v) {
			out[i] = v
		}
	}
	return out
}

func (d *sheetData) write(f *excelize.File, sheet string) error {
	for i, c := range d.columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetSheetCol(sheet, cell, &[]any{c.header}); err != nil {
			return err
		}
		if len(c.values) == 0 {
			continue
		}
		cell, err = excelize.CoordinatesToCellName(i+1, 2)
		if err != nil {
			return err
		}
		if err := f.SetSheetCol(sheet, cell, &c.values); err != nil {
			return err
		}
	}
	return nil
}

// chart builds the native chart of a panel from the collected series.
func (d *sheetData) chart(sheet string, p *canvas.Panel, width, height uint) (*excelize.Chart, error) {
	summary := canvas.DescribePanel(sheet, p)
	chartType, ok := ChartTypes[summary.ChartType]
	if !ok {
		chartType = excelize.Line
	}

	title := p.Title
	if title == "" {
		title = sheet
	}
	yr := p.YLimits()
	chart := &excelize.Chart{
		Type:   chartType,
		Title:  []excelize.RichTextRun{{Text: title}},
		Legend: excelize.ChartLegend{Position: "top"},
		YAxis: excelize.ChartAxis{
			Minimum: &yr.Min,
			Maximum: &yr.Max,
		},
		Dimension: excelize.ChartDimension{Width: width, Height: height},
	}
	if p.YLabel != "" {
		chart.YAxis.Title = []excelize.RichTextRun{{Text: p.YLabel}}
	}

	for _, s := range d.series {
		name, err := cellRef(sheet, s.yCol, 1, s.yCol, 1)
		if err != nil {
			return nil, err
		}
		cat, err := cellRef(sheet, s.xCol, 2, s.xCol, s.rows+1)
		if err != nil {
			return nil, err
		}
		val, err := cellRef(sheet, s.yCol, 2, s.yCol, s.rows+1)
		if err != nil {
			return nil, err
		}
		chart.Series = append(chart.Series, excelize.ChartSeries{
			Name:       name,
			Categories: cat,
			Values:     val,
		})
	}
	return chart, nil
}

// cellRef formats an absolute reference such as panel1!$B$2:$B$31. A single
// cell is written without the range part.
func cellRef(sheet string, c1, r1, c2, r2 int) (string, error) {
	start, err := excelize.CoordinatesToCellName(c1, r1, true)
	if err != nil {
		return "", err
	}
	if c1 == c2 && r1 == r2 {
		return sheet + "!" + start, nil
	}
	end, err := excelize.CoordinatesToCellName(c2, r2, true)
	if err != nil {
		return "", err
	}
	return sheet + "!" + start + ":" + end, nil
}
