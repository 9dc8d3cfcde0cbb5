package config

import (
	"strings"
	"testing"
	"time"

	"github.com/ukaji3/rtplot-go/pkg/rtplot"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Format != "svg" || cfg.Detail != "standard" || cfg.CurveSkip != 3 || !cfg.OTelEnabled {
		t.Errorf("Load() = %+v, expected svg/standard/3/tracing enabled", cfg)
	}

	opts, err := cfg.Options()
	if err != nil {
		t.Fatalf("Options failed: %v", err)
	}
	if !opts.MinDate.Equal(rtplot.DefaultMinDate) {
		t.Errorf("MinDate = %v, expected %v", opts.MinDate, rtplot.DefaultMinDate)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("RTPLOT_DETAIL", "Light")
	t.Setenv("RTPLOT_MIN_DATE", "2020-04-15")
	t.Setenv("RTPLOT_CURVE_SKIP", "0")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	opts, err := cfg.Options()
	if err != nil {
		t.Fatalf("Options failed: %v", err)
	}
	if opts.Detail != rtplot.DetailLight {
		t.Errorf("Detail = %q, expected %q", opts.Detail, rtplot.DetailLight)
	}
	if want := time.Date(2020, 4, 15, 0, 0, 0, 0, time.UTC); !opts.MinDate.Equal(want) {
		t.Errorf("MinDate = %v, expected %v", opts.MinDate, want)
	}
	if opts.CurveSkip != 0 {
		t.Errorf("CurveSkip = %d, expected 0", opts.CurveSkip)
	}
	if len(opts.Levels()) != 10 {
		t.Errorf("len(Levels()) = %d, expected 10", len(opts.Levels()))
	}
}

func TestParseEnvError(t *testing.T) {
	t.Setenv("RTPLOT_CURVE_SKIP", "not-an-int")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}

func TestOptionsErrors(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"detail", Config{Detail: "ultra", MinDate: "none"}},
		{"min date", Config{Detail: "light", MinDate: "March"}},
		{"curve skip", Config{Detail: "light", MinDate: "none", CurveSkip: -1}},
	}

	for _, tt := range tests {
		if _, err := tt.cfg.Options(); err == nil {
			t.Errorf("Options(%s) expected an error", tt.name)
		}
	}
}

func TestParseMinDate(t *testing.T) {
	tests := []struct {
		input    string
		expected time.Time
	}{
		{"", time.Time{}},
		{"none", time.Time{}},
		{"2020-03-01", rtplot.DefaultMinDate},
	}

	for _, tt := range tests {
		got, err := ParseMinDate(tt.input)
		if err != nil {
			t.Errorf("ParseMinDate(%q) failed: %v", tt.input, err)
			continue
		}
		if !got.Equal(tt.expected) {
			t.Errorf("ParseMinDate(%q) = %v, expected %v", tt.input, got, tt.expected)
		}
	}
}
