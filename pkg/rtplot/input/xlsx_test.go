package input

import (
	"errors"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/ukaji3/rtplot-go/pkg/rtplot/models"
	"github.com/xuri/excelize/v2"
)

// setRows writes rows starting at cell.
func setRows(t *testing.T, f *excelize.File, sheet, cell string, rows [][]any) {
	t.Helper()
	if _, err := f.NewSheet(sheet); err != nil {
		t.Fatalf("NewSheet(%s) failed: %v", sheet, err)
	}
	col, row, err := excelize.CellNameToCoordinates(cell)
	if err != nil {
		t.Fatalf("CellNameToCoordinates(%s) failed: %v", cell, err)
	}
	for i, r := range rows {
		name, _ := excelize.CoordinatesToCellName(col, row+i)
		if err := f.SetSheetRow(sheet, name, &r); err != nil {
			t.Fatalf("SetSheetRow(%s, %s) failed: %v", sheet, name, err)
		}
	}
}

// testWorkbook saves and reopens the workbook like a file produced elsewhere.
func testWorkbook(t *testing.T) *excelize.File {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	setRows(t, f, "forecast", "A1", [][]any{
		{"ds", "yhat", "yhat_lower", "yhat_upper"},
		{day("2020-03-01"), 100, 90, 110},
		{day("2020-03-02"), 120, 100, 140},
		{"2020-03-03", 130.5, 110, 150},
	})
	setRows(t, f, "history", "B3", [][]any{
		{"Date", "Tests"},
		{"2020-03-01", 95},
		{},
		{"2020-03-02", 118},
	})
	setRows(t, f, "components", "A1", [][]any{
		{"ds", "trend", "trend_lower", "trend_upper", "holidays", "weekly"},
		{"2020-03-01", 1.0, 0.5, 1.5, 0, -2},
		{"2020-03-02", 2.0, 1.5, 2.5, -10, 3},
	})
	setRows(t, f, "events", "A1", [][]any{
		{"date", "label"},
		{"2020-03-10", "Lockdown"},
		{"2020-12-25", ""},
	})
	setRows(t, f, "broken", "A1", [][]any{
		{"ds", "value"},
		{"yesterday", 1},
	})

	path := filepath.Join(t.TempDir(), "tables.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs failed: %v", err)
	}
	opened, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile failed: %v", err)
	}
	t.Cleanup(func() { opened.Close() })
	return opened
}

func TestReadSeries(t *testing.T) {
	f := testWorkbook(t)
	s, err := ReadSeries(f, "history")
	if err != nil {
		t.Fatalf("ReadSeries failed: %v", err)
	}
	if s.Name != "Tests" {
		t.Errorf("Name = %q, expected %q", s.Name, "Tests")
	}
	if s.Len() != 2 {
		t.Fatalf("Len() = %d, expected 2 (blank row skipped)", s.Len())
	}
	if !s.Dates[1].Equal(day("2020-03-02")) || s.Values[1] != 118 {
		t.Errorf("second point = (%v, %v), expected (2020-03-02, 118)", s.Dates[1], s.Values[1])
	}
}

func TestReadForecastTable(t *testing.T) {
	f := testWorkbook(t)
	ft, err := ReadForecastTable(f, "forecast", "history")
	if err != nil {
		t.Fatalf("ReadForecastTable failed: %v", err)
	}
	if len(ft.Rows) != 3 {
		t.Fatalf("len(Rows) = %d, expected 3", len(ft.Rows))
	}

	expected := []models.ForecastRow{
		{Date: day("2020-03-01"), Yhat: 100, YhatLower: 90, YhatUpper: 110},
		{Date: day("2020-03-02"), Yhat: 120, YhatLower: 100, YhatUpper: 140},
		{Date: day("2020-03-03"), Yhat: 130.5, YhatLower: 110, YhatUpper: 150},
	}
	for i, want := range expected {
		got := ft.Rows[i]
		if !got.Date.Equal(want.Date) || got.Yhat != want.Yhat || got.YhatLower != want.YhatLower || got.YhatUpper != want.YhatUpper {
			t.Errorf("Rows[%d] = %+v, expected %+v", i, got, want)
		}
	}

	start, err := ft.HistoryStart()
	if err != nil {
		t.Fatalf("HistoryStart failed: %v", err)
	}
	if !start.Equal(day("2020-03-01")) {
		t.Errorf("HistoryStart() = %v, expected 2020-03-01", start)
	}
}

func TestReadComponentTable(t *testing.T) {
	f := testWorkbook(t)
	start := day("2020-03-02")
	ct, err := ReadComponentTable(f, "components", start)
	if err != nil {
		t.Fatalf("ReadComponentTable failed: %v", err)
	}
	if !ct.HistoryStart.Equal(start) {
		t.Errorf("HistoryStart = %v, expected %v", ct.HistoryStart, start)
	}

	tests := []struct {
		name     string
		kind     models.ComponentKind
		interval bool
		last     float64
	}{
		{"trend", "", true, 2},
		{"holidays", "", false, -10},
		{"weekly", models.ComponentWeekly, false, 3},
	}
	if len(ct.Components) != len(tests) {
		t.Fatalf("len(Components) = %d, expected %d", len(ct.Components), len(tests))
	}
	for i, tt := range tests {
		c := ct.Components[i]
		if c.Name != tt.name || c.Kind != tt.kind {
			t.Errorf("Components[%d] = (%q, %q), expected (%q, %q)", i, c.Name, c.Kind, tt.name, tt.kind)
		}
		if c.HasInterval() != tt.interval {
			t.Errorf("%s HasInterval() = %v, expected %v", tt.name, c.HasInterval(), tt.interval)
		}
		if c.Values[1] != tt.last {
			t.Errorf("%s Values[1] = %v, expected %v", tt.name, c.Values[1], tt.last)
		}
	}
	if ct.Components[0].Lower[0] != 0.5 || ct.Components[0].Upper[1] != 2.5 {
		t.Errorf("trend bounds = %v / %v", ct.Components[0].Lower, ct.Components[0].Upper)
	}
}

func TestReadNamedDates(t *testing.T) {
	f := testWorkbook(t)
	nd, err := ReadNamedDates(f, "events")
	if err != nil {
		t.Fatalf("ReadNamedDates failed: %v", err)
	}
	expected := []models.NamedDate{
		{Date: day("2020-03-10"), Label: "Lockdown"},
		{Date: day("2020-12-25"), Label: ""},
	}
	got := nd.Entries()
	if len(got) != len(expected) {
		t.Fatalf("len(Entries()) = %d, expected %d", len(got), len(expected))
	}
	for i := range expected {
		if !got[i].Date.Equal(expected[i].Date) || got[i].Label != expected[i].Label {
			t.Errorf("Entries()[%d] = %+v, expected %+v", i, got[i], expected[i])
		}
	}
}

func TestReadErrors(t *testing.T) {
	f := testWorkbook(t)
	tests := []struct {
		name     string
		read     func() error
		expected error
	}{
		{"missing yhat", func() error { _, err := ReadForecastTable(f, "history", "history"); return err }, ErrMissingColumn},
		{"bad date", func() error { _, err := ReadSeries(f, "broken"); return err }, ErrInvalidCell},
		{"empty sheet", func() error { _, err := ReadSeries(f, "Sheet1"); return err }, ErrEmptyTable},
		{"unlabeled events", func() error { _, err := ReadNamedDates(f, "forecast"); return err }, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.read()
			if tt.expected == nil {
				if err != nil {
					t.Errorf("expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.expected) {
				t.Errorf("error = %v, expected %v", err, tt.expected)
			}
		})
	}
}

func TestParseCells(t *testing.T) {
	dateTests := []struct {
		input    string
		expected time.Time
	}{
		{"2020-03-01", day("2020-03-01")},
		{"43891", day("2020-03-01")},
		{"2020-03-01T00:00:00Z", day("2020-03-01")},
	}
	for _, tt := range dateTests {
		got, err := parseDateCell(tt.input)
		if err != nil {
			t.Errorf("parseDateCell(%q) failed: %v", tt.input, err)
			continue
		}
		if !got.Equal(tt.expected) {
			t.Errorf("parseDateCell(%q) = %v, expected %v", tt.input, got, tt.expected)
		}
	}

	if v, err := parseNumberCell(""); err != nil || !math.IsNaN(v) {
		t.Errorf("parseNumberCell(\"\") = %v, %v, expected NaN", v, err)
	}
	if v, err := parseNumberCell("12.5"); err != nil || v != 12.5 {
		t.Errorf("parseNumberCell(\"12.5\") = %v, %v, expected 12.5", v, err)
	}
	if _, err := parseNumberCell("n/a"); !errors.Is(err, ErrInvalidCell) {
		t.Errorf("parseNumberCell(\"n/a\") error = %v, expected ErrInvalidCell", err)
	}
}
