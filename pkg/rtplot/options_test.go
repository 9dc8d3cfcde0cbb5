package rtplot

import (
	"errors"
	"testing"
)

func TestShouldDrawMedian(t *testing.T) {
	yes, no := true, false
	tests := []struct {
		detail   Detail
		override *bool
		expected bool
	}{
		{DetailLight, nil, false},
		{DetailStandard, nil, false},
		{DetailVerbose, nil, true},
		{DetailStandard, &yes, true},
		{DetailVerbose, &no, false},
	}

	for _, tt := range tests {
		opts := Options{Detail: tt.detail, DrawMedian: tt.override}
		if got := opts.ShouldDrawMedian(); got != tt.expected {
			t.Errorf("Options{%q, %v}.ShouldDrawMedian() = %v, expected %v", tt.detail, tt.override, got, tt.expected)
		}
	}
}

func TestLevels(t *testing.T) {
	tests := []struct {
		opts     Options
		expected int
	}{
		{Options{Detail: DetailLight}, 10},
		{Options{Detail: DetailStandard}, 40},
		{Options{Detail: DetailVerbose}, 40},
		{Options{Detail: DetailLight, BandLevels: []float64{95, 75}}, 2},
	}
	for _, tt := range tests {
		if got := len(tt.opts.Levels()); got != tt.expected {
			t.Errorf("Options{%q}.Levels() has %d levels, expected %d", tt.opts.Detail, got, tt.expected)
		}
	}
}

func TestRenderErrorUnwrap(t *testing.T) {
	err := NewRenderError("dashboard", "r_t", ErrMissingVariable)
	if !errors.Is(err, ErrMissingVariable) {
		t.Errorf("errors.Is(%v, ErrMissingVariable) = false", err)
	}
	if got, want := err.Error(), "render error in dashboard (r_t): missing variable"; got != want {
		t.Errorf("Error() = %q, expected %q", got, want)
	}
}
