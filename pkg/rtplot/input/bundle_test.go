package input

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ukaji3/rtplot-go/pkg/rtplot/models"
)

func day(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

func dailyDates(start string, n int) []time.Time {
	out := make([]time.Time, n)
	for i := range out {
		out[i] = day(start).AddDate(0, 0, i)
	}
	return out
}

func testBundle(t *testing.T) *Bundle {
	t.Helper()
	dates := dailyDates("2020-03-01", 5)
	draws := [][]float64{{1, 2, 3, 4, 5}, {2, 3, 4, 5, 6}, {0.5, 1, 1.5, 2, 2.5}}
	rt, err := models.NewSampleMatrix(dates, draws)
	if err != nil {
		t.Fatalf("NewSampleMatrix failed: %v", err)
	}
	observed, err := models.NewSeries(models.ConstObservedPositive, dates, []float64{10, 20, 30, 40, 50})
	if err != nil {
		t.Fatalf("NewSeries failed: %v", err)
	}
	events, err := models.NewNamedDates(models.NamedDate{Date: day("2020-03-02"), Label: "Lockdown"})
	if err != nil {
		t.Fatalf("NewNamedDates failed: %v", err)
	}
	return &Bundle{
		Region: "BY",
		Posterior: &models.PosteriorData{
			Posterior:    map[string]*models.SampleMatrix{models.VarRt: rt},
			ConstantData: map[string]*models.Series{models.ConstObservedPositive: observed},
		},
		Scale:       models.Scalar(1000),
		Annotations: events,
	}
}

func checkBundle(t *testing.T, got *Bundle) {
	t.Helper()
	if got.Region != "BY" {
		t.Errorf("Region = %q, expected %q", got.Region, "BY")
	}
	rt, err := got.Posterior.Variable(models.VarRt)
	if err != nil {
		t.Fatalf("Variable(r_t) failed: %v", err)
	}
	if rt.NumDraws() != 3 || rt.NumPoints() != 5 {
		t.Errorf("r_t shape = %dx%d, expected 3x5", rt.NumDraws(), rt.NumPoints())
	}
	if v := rt.At(1, 4); v != 6 {
		t.Errorf("r_t.At(1, 4) = %v, expected 6", v)
	}
	if !rt.Dates()[0].Equal(day("2020-03-01")) {
		t.Errorf("r_t first date = %v, expected 2020-03-01", rt.Dates()[0])
	}
	observed, err := got.Posterior.Constant(models.ConstObservedPositive)
	if err != nil {
		t.Fatalf("Constant(observed_positive) failed: %v", err)
	}
	if observed.Values[2] != 30 {
		t.Errorf("observed_positive[2] = %v, expected 30", observed.Values[2])
	}
	entries := got.Annotations.Entries()
	if len(entries) != 1 || entries[0].Label != "Lockdown" {
		t.Errorf("Annotations = %v, expected one Lockdown entry", entries)
	}
	scaled, err := rt.Scale(got.Dashboard().Scale)
	if err != nil {
		t.Fatalf("Scale failed: %v", err)
	}
	if v := scaled.At(0, 0); v != 1000 {
		t.Errorf("scaled r_t.At(0, 0) = %v, expected 1000", v)
	}
}

func TestBundleRoundTrip(t *testing.T) {
	for _, name := range []string{"bundle.json", "bundle.json.zst"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			if err := WriteBundle(path, testBundle(t)); err != nil {
				t.Fatalf("WriteBundle failed: %v", err)
			}
			got, err := ReadBundle(path)
			if err != nil {
				t.Fatalf("ReadBundle failed: %v", err)
			}
			checkBundle(t, got)
		})
	}
}

func TestEncodeBundleCompresses(t *testing.T) {
	var plain, packed bytes.Buffer
	if err := EncodeBundle(&plain, testBundle(t), false); err != nil {
		t.Fatalf("EncodeBundle(plain) failed: %v", err)
	}
	if err := EncodeBundle(&packed, testBundle(t), true); err != nil {
		t.Fatalf("EncodeBundle(zstd) failed: %v", err)
	}
	if !strings.Contains(plain.String(), `"region":"BY"`) {
		t.Errorf("plain bundle = %s, expected a region field", plain.String())
	}
	if bytes.Contains(packed.Bytes(), []byte(`"region"`)) {
		t.Error("compressed bundle contains plain JSON")
	}

	got, err := DecodeBundle(&packed, true)
	if err != nil {
		t.Fatalf("DecodeBundle failed: %v", err)
	}
	checkBundle(t, got)
}

func TestDecodeBundleErrors(t *testing.T) {
	tests := []struct {
		name       string
		data       string
		compressed bool
		expected   error
	}{
		{"empty object", `{"region": "BY"}`, false, ErrEmptyBundle},
		{"shape mismatch", `{"posterior": {"posterior": {"r_t": {"dates": ["2020-03-01"], "draws": [[1, 2]]}}}}`, false, models.ErrShapeMismatch},
		{"not json", `not json`, false, nil},
		{"not zstd", `{"region": "BY"}`, true, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeBundle(strings.NewReader(tt.data), tt.compressed)
			if err == nil {
				t.Fatal("DecodeBundle expected an error")
			}
			if tt.expected != nil && !errors.Is(err, tt.expected) {
				t.Errorf("DecodeBundle error = %v, expected %v", err, tt.expected)
			}
		})
	}
}

func TestIsCompressed(t *testing.T) {
	tests := []struct {
		path     string
		expected bool
	}{
		{"bundle.json", false},
		{"bundle.json.zst", true},
		{"BUNDLE.ZST", true},
	}

	for _, tt := range tests {
		if got := IsCompressed(tt.path); got != tt.expected {
			t.Errorf("IsCompressed(%q) = %v, expected %v", tt.path, got, tt.expected)
		}
	}
}
