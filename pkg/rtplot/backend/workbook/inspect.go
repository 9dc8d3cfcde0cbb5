package workbook

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ukaji3/rtplot-go/pkg/rtplot/models"
	"github.com/xuri/excelize/v2"
)

// ChartTypeMap maps OOXML chart group elements to chart type names.
var ChartTypeMap = map[string]string{
	"lineChart":      "Line",
	"line3DChart":    "3DLine",
	"barChart":       "Bar",
	"bar3DChart":     "3DBar",
	"areaChart":      "Area",
	"area3DChart":    "3DArea",
	"pieChart":       "Pie",
	"pie3DChart":     "3DPie",
	"doughnutChart":  "Doughnut",
	"scatterChart":   "XYScatter",
	"bubbleChart":    "Bubble",
	"radarChart":     "Radar",
	"surfaceChart":   "Surface",
	"surface3DChart": "3DSurface",
	"stockChart":     "Stock",
	"ofPieChart":     "PieOfPie",
}

// seriesKinds maps chart type names to the artist kind their series draw.
var seriesKinds = map[string]string{
	"Line":      "line",
	"Area":      "fill",
	"Bar":       "bars",
	"Col":       "bars",
	"XYScatter": "scatter",
}

// chartInfo locates a chart part from a sheet drawing.
type chartInfo struct {
	name      string
	chartPath string
}

// Inspect lists the charts of an xlsx workbook, sheet by sheet in tab order.
// Each summary is named after its sheet, and series names held in cell
// references are resolved to the referenced cell text.
func Inspect(r io.ReaderAt, size int64) ([]models.ChartSummary, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}

	f, err := excelize.OpenReader(io.NewSectionReader(r, 0, size))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets, err := sheetCharts(zr)
	if err != nil {
		return nil, err
	}

	var result []models.ChartSummary
	for _, sc := range sheets {
		for _, ci := range sc.charts {
			data, err := readZipFile(zr, ci.chartPath)
			if err != nil {
				return nil, fmt.Errorf("read %s: %w", ci.chartPath, err)
			}
			if data == nil {
				continue
			}
			chart := parseChartXML(data, sc.sheet)
			for i := range chart.Series {
				resolveSeriesName(f, &chart.Series[i])
			}
			result = append(result, chart)
		}
	}
	return result, nil
}

// sheetChartList pairs a sheet with the charts of its drawing.
type sheetChartList struct {
	sheet  string
	charts []chartInfo
}

// sheetCharts walks workbook, sheet and drawing relationships down to the
// chart parts.
func sheetCharts(r *zip.Reader) ([]sheetChartList, error) {
	workbookXML, err := readZipFile(r, "xl/workbook.xml")
	if err != nil || workbookXML == nil {
		return nil, err
	}
	wbRelsXML, err := readZipFile(r, relsPath("xl/workbook.xml"))
	if err != nil || wbRelsXML == nil {
		return nil, err
	}

	targets := make(map[string]string)
	for _, rel := range parseRelationships(wbRelsXML) {
		if strings.HasSuffix(strings.ToLower(rel.relType), "/worksheet") {
			targets[rel.id] = resolveRelativePath(rel.target, "xl")
		}
	}

	var result []sheetChartList
	for _, s := range parseWorkbookSheets(workbookXML) {
		sheetPath, ok := targets[s.rID]
		if !ok {
			continue
		}
		sheetRelsXML, err := readZipFile(r, relsPath(sheetPath))
		if err != nil {
			return nil, err
		}
		if sheetRelsXML == nil {
			continue
		}
		drawingPath := findRelationship(parseRelationships(sheetRelsXML), "drawing")
		if drawingPath == "" {
			continue
		}
		charts, err := chartInfosFromDrawing(r, resolveRelativePath(drawingPath, "xl/drawings"))
		if err != nil {
			return nil, err
		}
		if len(charts) > 0 {
			result = append(result, sheetChartList{sheet: s.name, charts: charts})
		}
	}
	return result, nil
}

// chartInfosFromDrawing lists the charts anchored in a drawing part.
func chartInfosFromDrawing(r *zip.Reader, drawingPath string) ([]chartInfo, error) {
	drawingXML, err := readZipFile(r, drawingPath)
	if err != nil || drawingXML == nil {
		return nil, err
	}
	relsXML, err := readZipFile(r, relsPath(drawingPath))
	if err != nil || relsXML == nil {
		return nil, err
	}

	chartPaths := make(map[string]string)
	for _, rel := range parseRelationships(relsXML) {
		if strings.HasSuffix(strings.ToLower(rel.relType), "/chart") {
			chartPaths[rel.id] = resolveRelativePath(rel.target, "xl/charts")
		}
	}

	var result []chartInfo
	for _, frame := range parseDrawingForCharts(drawingXML) {
		if path, ok := chartPaths[frame.rID]; ok {
			result = append(result, chartInfo{name: frame.name, chartPath: path})
		}
	}
	return result, nil
}

// graphicFrame is a chart reference found in a drawing.
type graphicFrame struct {
	name, rID string
}

// parseDrawingForCharts lists chart frames in anchor order.
func parseDrawingForCharts(data []byte) []graphicFrame {
	var result []graphicFrame
	decoder := xml.NewDecoder(bytes.NewReader(data))

	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		if se, ok := token.(xml.StartElement); ok && se.Name.Local == "graphicFrame" {
			if frame := parseGraphicFrame(decoder); frame.rID != "" {
				result = append(result, frame)
			}
		}
	}

	return result
}

// parseGraphicFrame reads the frame name and chart relationship id.
func parseGraphicFrame(decoder *xml.Decoder) graphicFrame {
	var frame graphicFrame
	depth := 1

	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			break
		}

		switch t := token.(type) {
		case xml.StartElement:
			depth++
			switch t.Name.Local {
			case "cNvPr":
				frame.name = attrValue(t, "name")
			case "chart":
				frame.rID = attrValue(t, "id")
			}
		case xml.EndElement:
			depth--
		}
	}

	return frame
}

func attrValue(se xml.StartElement, local string) string {
	for _, attr := range se.Attr {
		if attr.Name.Local == local {
			return attr.Value
		}
	}
	return ""
}

// parseChartXML parses a chart part.
func parseChartXML(data []byte, name string) models.ChartSummary {
	chart := models.ChartSummary{Name: name, Series: []models.SeriesSummary{}}
	decoder := xml.NewDecoder(bytes.NewReader(data))

	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		if se, ok := token.(xml.StartElement); ok && se.Name.Local == "chart" {
			parseChartElement(decoder, &chart)
		}
	}

	if chart.ChartType == "" {
		chart.ChartType = "unknown"
	}
	for i := range chart.Series {
		chart.Series[i].Kind = seriesKinds[chart.ChartType]
	}
	return chart
}

// parseChartElement parses the c:chart element.
func parseChartElement(decoder *xml.Decoder, chart *models.ChartSummary) {
	depth := 1

	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			break
		}

		switch t := token.(type) {
		case xml.StartElement:
			depth++
			switch t.Name.Local {
			case "title":
				chart.Title = parseChartTitle(decoder)
				depth--
			case "plotArea":
				parsePlotArea(decoder, chart)
				depth--
			}
		case xml.EndElement:
			depth--
		}
	}
}

// parseChartTitle returns the rich text of a title element.
func parseChartTitle(decoder *xml.Decoder) string {
	var parts []string
	depth := 1

	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			break
		}

		switch t := token.(type) {
		case xml.StartElement:
			depth++
			if t.Name.Local == "t" {
				if txt, err := readElementText(decoder); err == nil {
					parts = append(parts, txt)
				}
				depth--
			}
		case xml.EndElement:
			depth--
		}
	}

	return strings.TrimSpace(strings.Join(parts, ""))
}

// parsePlotArea reads the first chart group and the last value axis.
func parsePlotArea(decoder *xml.Decoder, chart *models.ChartSummary) {
	depth := 1

	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			break
		}

		switch t := token.(type) {
		case xml.StartElement:
			depth++
			if ct, ok := ChartTypeMap[t.Name.Local]; ok {
				series, barDir := parseChartGroup(decoder)
				if chart.ChartType == "" {
					chart.ChartType = ct
					if ct == "Bar" && barDir == "col" {
						chart.ChartType = "Col"
					}
				}
				chart.Series = append(chart.Series, series...)
				depth--
			} else if t.Name.Local == "valAx" {
				chart.YAxisTitle, chart.YAxisRange = parseValueAxis(decoder)
				depth--
			}
		case xml.EndElement:
			depth--
		}
	}
}

// parseChartGroup parses the series of a chart group and its bar direction.
func parseChartGroup(decoder *xml.Decoder) (series []models.SeriesSummary, barDir string) {
	depth := 1

	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			break
		}

		switch t := token.(type) {
		case xml.StartElement:
			depth++
			switch t.Name.Local {
			case "barDir":
				barDir = attrValue(t, "val")
			case "ser":
				series = append(series, parseSingleSeries(decoder))
				depth--
			}
		case xml.EndElement:
			depth--
		}
	}

	return series, barDir
}

// parseSingleSeries parses a c:ser element. Scatter charts use xVal and yVal
// where other groups use cat and val.
func parseSingleSeries(decoder *xml.Decoder) models.SeriesSummary {
	var s models.SeriesSummary
	var nameRef string
	depth := 1

	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			break
		}

		switch t := token.(type) {
		case xml.StartElement:
			depth++
			switch t.Name.Local {
			case "tx":
				s.Name, nameRef = parseSeriesName(decoder)
				depth--
			case "cat", "xVal":
				s.XRange = parseSeriesRange(decoder)
				depth--
			case "val", "yVal":
				s.YRange = parseSeriesRange(decoder)
				depth--
			}
		case xml.EndElement:
			depth--
		}
	}

	if s.Name == "" {
		s.Name = nameRef
	}
	s.Points = rangeRows(s.YRange)
	return s
}

// parseSeriesName returns the cached name and the name reference of a tx element.
func parseSeriesName(decoder *xml.Decoder) (name, nameRange string) {
	depth := 1

	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			break
		}

		switch t := token.(type) {
		case xml.StartElement:
			depth++
			switch t.Name.Local {
			case "f":
				if txt, err := readElementText(decoder); err == nil {
					nameRange = strings.TrimSpace(txt)
				}
				depth--
			case "v":
				if txt, err := readElementText(decoder); err == nil {
					name = strings.TrimSpace(txt)
				}
				depth--
			}
		case xml.EndElement:
			depth--
		}
	}

	return
}

// parseSeriesRange returns the formula of a cat or val element.
func parseSeriesRange(decoder *xml.Decoder) string {
	var ref string
	depth := 1

	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			break
		}

		switch t := token.(type) {
		case xml.StartElement:
			depth++
			if t.Name.Local == "f" && ref == "" {
				if txt, err := readElementText(decoder); err == nil {
					ref = strings.TrimSpace(txt)
				}
				depth--
			}
		case xml.EndElement:
			depth--
		}
	}

	return ref
}

// parseValueAxis returns the title and the [min, max] scaling of a value axis.
func parseValueAxis(decoder *xml.Decoder) (title string, axisRange []float64) {
	depth := 1

	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			break
		}

		switch t := token.(type) {
		case xml.StartElement:
			depth++
			switch t.Name.Local {
			case "title":
				title = parseChartTitle(decoder)
				depth--
			case "scaling":
				axisRange = parseAxisScaling(decoder)
				depth--
			}
		case xml.EndElement:
			depth--
		}
	}

	return
}

// parseAxisScaling returns [min, max] when both bounds are fixed.
func parseAxisScaling(decoder *xml.Decoder) []float64 {
	var min, max *float64
	depth := 1

	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			break
		}

		switch t := token.(type) {
		case xml.StartElement:
			depth++
			v, err := strconv.ParseFloat(attrValue(t, "val"), 64)
			if err != nil {
				continue
			}
			switch t.Name.Local {
			case "min":
				min = &v
			case "max":
				max = &v
			}
		case xml.EndElement:
			depth--
		}
	}

	if min != nil && max != nil {
		return []float64{*min, *max}
	}
	return nil
}

// splitRef splits a reference such as 'panel 1'!$A$1:$D$10 into the sheet
// name and the cell range without dollar signs.
func splitRef(ref string) (sheet, cells string) {
	idx := strings.LastIndex(ref, "!")
	if idx < 0 {
		return "", strings.ReplaceAll(ref, "$", "")
	}
	sheet = strings.Trim(ref[:idx], "'")
	return sheet, strings.ReplaceAll(ref[idx+1:], "$", "")
}

// rangeRows counts the rows a single-column range spans.
func rangeRows(ref string) int {
	if ref == "" {
		return 0
	}
	_, cells := splitRef(ref)
	parts := strings.Split(cells, ":")
	_, startRow, err := excelize.CellNameToCoordinates(parts[0])
	if err != nil {
		return 0
	}
	if len(parts) == 1 {
		return 1
	}
	_, endRow, err := excelize.CellNameToCoordinates(parts[1])
	if err != nil || endRow < startRow {
		return 0
	}
	return endRow - startRow + 1
}

// resolveSeriesName replaces a name that is a single-cell reference with the
// cell text.
func resolveSeriesName(f *excelize.File, s *models.SeriesSummary) {
	sheet, cell := splitRef(s.Name)
	if sheet == "" || strings.Contains(cell, ":") {
		return
	}
	if v, err := f.GetCellValue(sheet, cell); err == nil && v != "" {
		s.Name = v
	}
}
