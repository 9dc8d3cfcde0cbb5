package input

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/ukaji3/rtplot-go/pkg/rtplot/models"
	"github.com/xuri/excelize/v2"
)

var (
	// ErrEmptyTable indicates a sheet without a header row.
	ErrEmptyTable = errors.New("sheet holds no table")
	// ErrMissingColumn indicates a required column header was not found.
	ErrMissingColumn = errors.New("missing column")
	// ErrInvalidCell indicates a cell that could not be read as a date or number.
	ErrInvalidCell = errors.New("invalid cell")
)

// Header names recognized in worksheet tables. Matching ignores case.
var (
	dateHeaders  = []string{"ds", "date"}
	labelHeaders = []string{"label", "name", "event"}
)

// Forecast column headers, as written by the forecasting collaborator.
const (
	ColYhat      = "yhat"
	ColYhatLower = "yhat_lower"
	ColYhatUpper = "yhat_upper"
)

// Component bound columns carry these suffixes (e.g. trend_lower).
const (
	lowerSuffix = "_lower"
	upperSuffix = "_upper"
)

// ReadSeries reads a series from the first date column and the first other
// column of sheet. The series is named after the value column header.
func ReadSeries(f *excelize.File, sheet string) (*models.Series, error) {
	t, err := readTable(f, sheet)
	if err != nil {
		return nil, err
	}
	dateCol, err := t.column(dateHeaders...)
	if err != nil {
		return nil, err
	}
	valueCol := -1
	for i, h := range t.header {
		if i != dateCol && h != "" {
			valueCol = i
			break
		}
	}
	if valueCol < 0 {
		return nil, fmt.Errorf("sheet %q: value column: %w", sheet, ErrMissingColumn)
	}

	dates, err := t.dates(dateCol)
	if err != nil {
		return nil, err
	}
	values, err := t.floats(valueCol)
	if err != nil {
		return nil, err
	}
	return models.NewSeries(t.names[valueCol], dates, values)
}

// ReadForecastTable reads forecast rows from forecastSheet (ds, yhat,
// yhat_lower, yhat_upper) and the training history from historySheet.
func ReadForecastTable(f *excelize.File, forecastSheet, historySheet string) (*models.ForecastTable, error) {
	t, err := readTable(f, forecastSheet)
	if err != nil {
		return nil, err
	}

	cols := make([]int, 4)
	for i, names := range [][]string{dateHeaders, {ColYhat}, {ColYhatLower}, {ColYhatUpper}} {
		if cols[i], err = t.column(names...); err != nil {
			return nil, err
		}
	}
	dates, err := t.dates(cols[0])
	if err != nil {
		return nil, err
	}
	var values [3][]float64
	for i := range values {
		if values[i], err = t.floats(cols[i+1]); err != nil {
			return nil, err
		}
	}

	ft := &models.ForecastTable{Rows: make([]models.ForecastRow, len(dates))}
	for i, d := range dates {
		ft.Rows[i] = models.ForecastRow{
			Date:      d,
			Yhat:      values[0][i],
			YhatLower: values[1][i],
			YhatUpper: values[2][i],
		}
	}

	if ft.History, err = ReadSeries(f, historySheet); err != nil {
		return nil, fmt.Errorf("forecast history: %w", err)
	}
	return ft, nil
}

// ReadComponentTable reads a decomposed forecast. Every column besides the
// date becomes a component; <name>_lower and <name>_upper columns become its
// bounds, and a component named weekly is laid out as a weekday profile.
// historyStart may be zero.
func ReadComponentTable(f *excelize.File, sheet string, historyStart time.Time) (*models.ComponentTable, error) {
	t, err := readTable(f, sheet)
	if err != nil {
		return nil, err
	}
	dateCol, err := t.column(dateHeaders...)
	if err != nil {
		return nil, err
	}
	dates, err := t.dates(dateCol)
	if err != nil {
		return nil, err
	}

	ct := &models.ComponentTable{Dates: dates, HistoryStart: historyStart}
	index := make(map[string]int)
	for col, h := range t.header {
		if col == dateCol || h == "" || strings.HasSuffix(h, lowerSuffix) || strings.HasSuffix(h, upperSuffix) {
			continue
		}
		values, err := t.floats(col)
		if err != nil {
			return nil, err
		}
		c := models.Component{Name: t.names[col], Values: values}
		if h == "weekly" {
			c.Kind = models.ComponentWeekly
		}
		index[h] = len(ct.Components)
		ct.Components = append(ct.Components, c)
	}

	for col, h := range t.header {
		var base string
		var lower bool
		switch {
		case strings.HasSuffix(h, lowerSuffix):
			base, lower = strings.TrimSuffix(h, lowerSuffix), true
		case strings.HasSuffix(h, upperSuffix):
			base = strings.TrimSuffix(h, upperSuffix)
		default:
			continue
		}
		i, ok := index[base]
		if !ok {
			continue
		}
		values, err := t.floats(col)
		if err != nil {
			return nil, err
		}
		if lower {
			ct.Components[i].Lower = values
		} else {
			ct.Components[i].Upper = values
		}
	}

	if err := ct.Validate(); err != nil {
		return nil, err
	}
	return ct, nil
}

// ReadNamedDates reads events from a date column and a label column. A missing
// label column yields unlabeled markers.
func ReadNamedDates(f *excelize.File, sheet string) (*models.NamedDates, error) {
	t, err := readTable(f, sheet)
	if err != nil {
		return nil, err
	}
	dateCol, err := t.column(dateHeaders...)
	if err != nil {
		return nil, err
	}
	dates, err := t.dates(dateCol)
	if err != nil {
		return nil, err
	}
	labelCol, err := t.column(labelHeaders...)
	if err != nil {
		labelCol = -1
	}

	nd := &models.NamedDates{}
	for i, d := range dates {
		var label string
		if labelCol >= 0 {
			label = strings.TrimSpace(t.cell(i, labelCol))
		}
		if err := nd.Add(d, label); err != nil {
			return nil, fmt.Errorf("sheet %q row %d: %w", sheet, t.rowNumber(i), err)
		}
	}
	return nd, nil
}

// table is the rectangular data region of a sheet below its header row.
type table struct {
	sheet string
	// header holds the lowercased header cells; names keeps them as written.
	header []string
	names  []string
	rows   [][]string
	// rowNums maps data rows to 1-based sheet row numbers.
	rowNums []int
}

// readTable reads raw cell values so that dates arrive as serial numbers
// rather than in the workbook's display format.
func readTable(f *excelize.File, sheet string) (*table, error) {
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("sheet %q: %w", sheet, err)
	}
	minRow, maxRow, minCol, maxCol := findDataBounds(rows)
	if minRow < 0 {
		return nil, fmt.Errorf("sheet %q: %w", sheet, ErrEmptyTable)
	}

	slice := func(row []string) []string {
		out := make([]string, maxCol-minCol+1)
		for c := minCol; c <= maxCol && c < len(row); c++ {
			out[c-minCol] = strings.TrimSpace(row[c])
		}
		return out
	}

	t := &table{sheet: sheet, names: slice(rows[minRow])}
	t.header = make([]string, len(t.names))
	for i, n := range t.names {
		t.header[i] = strings.ToLower(n)
	}
	for r := minRow + 1; r <= maxRow; r++ {
		row := slice(rows[r])
		if isBlank(row) {
			continue
		}
		t.rows = append(t.rows, row)
		t.rowNums = append(t.rowNums, r+1)
	}
	return t, nil
}

// findDataBounds finds the bounding box of non-empty cells.
func findDataBounds(rows [][]string) (minRow, maxRow, minCol, maxCol int) {
	minRow, maxRow = -1, -1
	minCol, maxCol = -1, -1

	for rowIdx, row := range rows {
		for colIdx, cell := range row {
			if strings.TrimSpace(cell) == "" {
				continue
			}
			if minRow < 0 {
				minRow = rowIdx
			}
			maxRow = rowIdx
			if minCol < 0 || colIdx < minCol {
				minCol = colIdx
			}
			if colIdx > maxCol {
				maxCol = colIdx
			}
		}
	}

	return
}

func isBlank(row []string) bool {
	for _, c := range row {
		if c != "" {
			return false
		}
	}
	return true
}

// column returns the index of the first header matching one of names.
func (t *table) column(names ...string) (int, error) {
	for _, n := range names {
		for i, h := range t.header {
			if h == n {
				return i, nil
			}
		}
	}
	return -1, fmt.Errorf("sheet %q: column %q: %w", t.sheet, names[0], ErrMissingColumn)
}

func (t *table) cell(row, col int) string {
	if col < len(t.rows[row]) {
		return t.rows[row][col]
	}
	return ""
}

func (t *table) rowNumber(row int) int { return t.rowNums[row] }

func (t *table) dates(col int) ([]time.Time, error) {
	out := make([]time.Time, len(t.rows))
	for i := range t.rows {
		d, err := parseDateCell(t.cell(i, col))
		if err != nil {
			return nil, fmt.Errorf("sheet %q row %d: %w", t.sheet, t.rowNumber(i), err)
		}
		out[i] = d
	}
	return out, nil
}

// floats reads a numeric column; blank cells become NaN.
func (t *table) floats(col int) ([]float64, error) {
	out := make([]float64, len(t.rows))
	for i := range t.rows {
		v, err := parseNumberCell(t.cell(i, col))
		if err != nil {
			return nil, fmt.Errorf("sheet %q row %d column %q: %w", t.sheet, t.rowNumber(i), t.names[col], err)
		}
		out[i] = v
	}
	return out, nil
}

// parseDateCell accepts ISO dates and spreadsheet date serials.
func parseDateCell(s string) (time.Time, error) {
	if d, err := models.ParseDate(s); err == nil {
		return d, nil
	}
	serial, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q: %w", s, ErrInvalidCell)
	}
	d, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q: %w", s, ErrInvalidCell)
	}
	return d.UTC().Round(time.Second).Truncate(24 * time.Hour), nil
}

func parseNumberCell(s string) (float64, error) {
	if s == "" {
		return math.NaN(), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("number %q: %w", s, ErrInvalidCell)
	}
	return v, nil
}
