package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ukaji3/rtplot-go/pkg/rtplot/models"
	"github.com/xuri/excelize/v2"
)

func TestOutputFormat(t *testing.T) {
	tests := []struct {
		flag, path, fallback string
		expected             string
		wantErr              bool
	}{
		{"", "out.png", "svg", "png", false},
		{"", "out.XLSX", "svg", "xlsx", false},
		{"", "out.pdf", "svg", "svg", false},
		{"", "", "png", "png", false},
		{"svg", "out.png", "png", "svg", false},
		{"pdf", "", "svg", "", true},
	}

	for _, tt := range tests {
		got, err := outputFormat(tt.flag, tt.path, tt.fallback)
		if (err != nil) != tt.wantErr {
			t.Errorf("outputFormat(%q, %q, %q) error = %v, wantErr %v", tt.flag, tt.path, tt.fallback, err, tt.wantErr)
			continue
		}
		if got != tt.expected {
			t.Errorf("outputFormat(%q, %q, %q) = %q, expected %q", tt.flag, tt.path, tt.fallback, got, tt.expected)
		}
	}
}

// writeTables creates a workbook holding a forecast, its history, the
// smoothed result and one event.
func writeTables(t *testing.T, dir string) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	start := time.Date(2020, 3, 2, 0, 0, 0, 0, time.UTC)
	sheets := map[string][][]any{
		"forecast": {{"ds", "yhat", "yhat_lower", "yhat_upper"}},
		"history":  {{"ds", "tests"}},
		"result":   {{"ds", "result"}},
		"events":   {{"date", "label"}, {"2020-03-10", "Lockdown"}},
	}
	for i := 0; i < 21; i++ {
		d := models.FormatDate(start.AddDate(0, 0, i))
		v := float64(1000 + 50*i)
		sheets["forecast"] = append(sheets["forecast"], []any{d, v, v - 100, v + 100})
		if i < 14 {
			sheets["history"] = append(sheets["history"], []any{d, v + 20})
		}
		sheets["result"] = append(sheets["result"], []any{d, v + 5})
	}

	for name, rows := range sheets {
		if _, err := f.NewSheet(name); err != nil {
			t.Fatalf("NewSheet(%s) failed: %v", name, err)
		}
		for i, row := range rows {
			cell, _ := excelize.CoordinatesToCellName(1, i+1)
			if err := f.SetSheetRow(name, cell, &row); err != nil {
				t.Fatalf("SetSheetRow failed: %v", err)
			}
		}
	}

	path := filepath.Join(dir, "tables.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs failed: %v", err)
	}
	return path
}

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("rtplot %s failed: %v\n%s", strings.Join(args, " "), err, out.String())
	}
	return out.String()
}

func TestImportForecastInspect(t *testing.T) {
	dir := t.TempDir()
	tables := writeTables(t, dir)
	bundle := filepath.Join(dir, "bundle.json.zst")
	chart := filepath.Join(dir, "forecast.xlsx")
	summary := filepath.Join(dir, "summary.json")

	execute(t, "import", tables, "-o", bundle, "--region", "BY")
	execute(t, "forecast", bundle, "-o", chart, "--summary", summary)

	data, err := os.ReadFile(summary)
	if err != nil {
		t.Fatalf("ReadFile(summary) failed: %v", err)
	}
	var fig models.FigureSummary
	if err := json.Unmarshal(data, &fig); err != nil {
		t.Fatalf("Unmarshal(summary) failed: %v", err)
	}
	if len(fig.Charts) != 1 || fig.Charts[0].Markers != 1 {
		t.Errorf("summary = %+v, expected one chart with one event marker", fig.Charts)
	}

	out := execute(t, "inspect", chart)
	var charts []models.ChartSummary
	if err := json.Unmarshal([]byte(out), &charts); err != nil {
		t.Fatalf("Unmarshal(inspect) failed: %v\n%s", err, out)
	}
	if len(charts) != 1 {
		t.Fatalf("inspect found %d charts, expected 1", len(charts))
	}
	var names []string
	for _, s := range charts[0].Series {
		names = append(names, s.Name)
	}
	if got := strings.Join(names, ","); got != "band 1,prediction,training data,result" {
		t.Errorf("series = %s, expected band 1,prediction,training data,result", got)
	}
	if charts[0].YAxisTitle != "total tests" {
		t.Errorf("y axis title = %q, expected %q", charts[0].YAxisTitle, "total tests")
	}
}

func TestForecastSVGToStdout(t *testing.T) {
	dir := t.TempDir()
	bundle := filepath.Join(dir, "bundle.json")
	execute(t, "import", writeTables(t, dir), "-o", bundle)

	out := execute(t, "forecast", bundle, "--format", "svg", "--min-date", "none")
	if !strings.Contains(out, "<svg") || !strings.Contains(out, "Lockdown") {
		t.Errorf("forecast output is not an annotated SVG: %.200s", out)
	}
}
