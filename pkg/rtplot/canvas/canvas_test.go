package canvas

import (
	"math"
	"testing"
	"time"

	"golang.org/x/text/language"
)

func TestDateToX(t *testing.T) {
	tests := []struct {
		date     time.Time
		expected float64
	}{
		{time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC), 0},
		{time.Date(1970, 1, 2, 12, 0, 0, 0, time.UTC), 1.5},
		{time.Date(2020, 3, 1, 0, 0, 0, 0, time.UTC), 18322},
	}
	for _, tt := range tests {
		got := DateToX(tt.date)
		if got != tt.expected {
			t.Errorf("DateToX(%v) = %v, expected %v", tt.date, got, tt.expected)
		}
		if back := XToDate(got); !back.Equal(tt.date) {
			t.Errorf("XToDate(%v) = %v, expected %v", got, back, tt.date)
		}
	}
}

func TestPanelAutoscale(t *testing.T) {
	p := NewPanel()
	if lim := p.YLimits(); lim != (Range{0, 1}) {
		t.Errorf("empty panel y limits = %v, expected [0, 1]", lim)
	}

	p.AddLine(Line{X: []float64{0, 10}, Y: []float64{0, 100}})
	p.AddLine(Line{X: []float64{5, math.NaN()}, Y: []float64{200, 1e9}})
	if lim := p.XLimits(); lim != (Range{-0.5, 10.5}) {
		t.Errorf("x limits = %v, expected [-0.5, 10.5]", lim)
	}
	if lim := p.YLimits(); lim != (Range{-10, 210}) {
		t.Errorf("y limits = %v, expected [-10, 210]", lim)
	}

	p.SetYMin(0)
	if lim := p.YLimits(); lim != (Range{0, 210}) {
		t.Errorf("y limits after SetYMin = %v, expected [0, 210]", lim)
	}
	p.SetYLimits(0, 2.5)
	p.AddLine(Line{X: []float64{0}, Y: []float64{50}})
	if lim := p.YLimits(); lim != (Range{0, 2.5}) {
		t.Errorf("explicit y limits = %v, expected [0, 2.5]", lim)
	}
}

func TestBarsIncludeZero(t *testing.T) {
	p := NewPanel()
	p.AddBars(Bars{X: []float64{1, 2}, Heights: []float64{10, 20}})
	lim := p.YLimits()
	if lim.Min > 0 {
		t.Errorf("bar y limits = %v, expected to include 0", lim)
	}
	if got := p.XLimits(); got.Min > 0.6 || got.Max < 2.4 {
		t.Errorf("bar x limits = %v, expected to include the bar widths", got)
	}
}

func TestShareX(t *testing.T) {
	a, b, c := NewPanel(), NewPanel(), NewPanel()
	a.AddLine(Line{X: []float64{0, 10}, Y: []float64{0, 1}})
	c.AddLine(Line{X: []float64{20, 30}, Y: []float64{0, 1}})
	c.SetXMin(5)

	ShareX(a, b, c)
	want := a.XLimits()
	if want.Min != 5 || want.Max < 30 {
		t.Errorf("shared limits = %v, expected [5, >=30]", want)
	}
	for i, p := range []*Panel{b, c} {
		if got := p.XLimits(); got != want {
			t.Errorf("panel %d x limits = %v, expected %v", i+1, got, want)
		}
	}

	b.AddLine(Line{X: []float64{40}, Y: []float64{0}})
	if a.XLimits() != b.XLimits() {
		t.Errorf("panels drifted apart after drawing")
	}
}

func TestNewGrid(t *testing.T) {
	fig, panels := NewGrid(GridSpec{Rows: 3, HeightRatios: []float64{3, 1}, ShareX: true, Width: 10, Height: 8, DPI: 140})
	if len(panels) != 3 || len(fig.Panels()) != 3 {
		t.Fatalf("NewGrid created %d panels, expected 3", len(panels))
	}
	ratios := fig.HeightRatios()
	for i, want := range []float64{3, 1, 1} {
		if ratios[i] != want {
			t.Errorf("ratio %d = %v, expected %v", i, ratios[i], want)
		}
	}
	for i, p := range panels {
		if p.XTickLabelsHidden() != (i < 2) {
			t.Errorf("panel %d tick labels hidden = %v", i, p.XTickLabelsHidden())
		}
	}
	if panels[0].XAxis() != panels[2].XAxis() {
		t.Errorf("grid panels do not share the x axis")
	}
}

func TestWeekdayLocator(t *testing.T) {
	r := Range{
		Min: DateToX(time.Date(2020, 3, 1, 0, 0, 0, 0, time.UTC)),
		Max: DateToX(time.Date(2020, 3, 31, 0, 0, 0, 0, time.UTC)),
	}
	ticks := WeekdayLocator{Weekday: time.Monday}.Locate(r)
	if len(ticks) != 5 {
		t.Fatalf("Monday ticks in March 2020 = %d, expected 5", len(ticks))
	}
	for _, x := range ticks {
		if d := XToDate(x); d.Weekday() != time.Monday {
			t.Errorf("tick %v is a %v", d, d.Weekday())
		}
	}
	if got := XToDate(ticks[0]).Day(); got != 2 {
		t.Errorf("first Monday = %d, expected 2", got)
	}
	if n := len(DayLocator{}.Locate(r)); n != 31 {
		t.Errorf("daily ticks = %d, expected 31", n)
	}
}

func TestLocatorPhaseIgnoresRange(t *testing.T) {
	day := func(y int, m time.Month, d int) float64 { return DateToX(time.Date(y, m, d, 0, 0, 0, 0, time.UTC)) }
	biweekly := WeekdayLocator{Weekday: time.Monday, Interval: 2}
	wide := biweekly.Locate(Range{Min: day(2020, 3, 1), Max: day(2020, 4, 30)})
	panned := biweekly.Locate(Range{Min: day(2020, 3, 5), Max: day(2020, 4, 30)})
	if len(wide) < 2 || len(panned) < 2 {
		t.Fatalf("biweekly ticks = %v / %v, expected at least two each", wide, panned)
	}
	inWide := make(map[float64]bool)
	for _, x := range wide {
		inWide[x] = true
	}
	for _, x := range panned {
		if !inWide[x] {
			t.Errorf("tick %v appears only after panning", XToDate(x))
		}
	}
	for i := 1; i < len(wide); i++ {
		if wide[i]-wide[i-1] != 14 {
			t.Errorf("biweekly ticks %v apart, expected 14 days", wide[i]-wide[i-1])
		}
	}

	tests := []struct {
		r        Range
		expected int
	}{
		{Range{Min: day(1969, 12, 20), Max: day(1969, 12, 29)}, 4},
		{Range{Min: day(2020, 3, 1), Max: day(2020, 3, 10)}, 3},
	}
	for _, tt := range tests {
		ticks := DayLocator{Interval: 3}.Locate(tt.r)
		if len(ticks) != tt.expected {
			t.Errorf("DayLocator{3}.Locate(%v..%v) = %d ticks, expected %d", XToDate(tt.r.Min), XToDate(tt.r.Max), len(ticks), tt.expected)
		}
		for i := 1; i < len(ticks); i++ {
			if ticks[i]-ticks[i-1] != 3 {
				t.Errorf("DayLocator{3} ticks %v apart, expected 3", ticks[i]-ticks[i-1])
			}
		}
	}
}

func TestAutoLocator(t *testing.T) {
	tests := []struct {
		r        Range
		expected []float64
	}{
		{Range{0, 1}, []float64{0, 0.2, 0.4, 0.6000000000000001, 0.8, 1}},
		{Range{0, 2.5}, []float64{0, 0.5, 1, 1.5, 2, 2.5}},
		{Range{-3, 12}, []float64{-2.5, 0, 2.5, 5, 7.5, 10}},
	}
	for _, tt := range tests {
		got := AutoLocator{}.Locate(tt.r)
		if len(got) != len(tt.expected) {
			t.Errorf("Locate(%v) = %v, expected %v", tt.r, got, tt.expected)
			continue
		}
		for i := range got {
			if math.Abs(got[i]-tt.expected[i]) > 1e-9 {
				t.Errorf("Locate(%v) = %v, expected %v", tt.r, got, tt.expected)
				break
			}
		}
	}
}

func TestNumberFormatter(t *testing.T) {
	tests := []struct {
		f        NumberFormatter
		v        float64
		expected string
	}{
		{NumberFormatter{Decimals: -1}, 12500, "12,500"},
		{NumberFormatter{Decimals: 0}, 1234567, "1,234,567"},
		{NumberFormatter{Decimals: 1}, 1234.56, "1,234.6"},
		{NumberFormatter{Decimals: -1}, 0.25, "0.25"},
		{NumberFormatter{Tag: language.German, Decimals: -1}, 12500, "12.500"},
	}
	for _, tt := range tests {
		if got := tt.f.Format(tt.v); got != tt.expected {
			t.Errorf("Format(%v) = %q, expected %q", tt.v, got, tt.expected)
		}
	}
}

func TestLegend(t *testing.T) {
	p := NewPanel()
	p.AddLine(Line{X: []float64{0}, Y: []float64{0}, Label: "modeled"})
	p.AddLine(Line{X: []float64{0}, Y: []float64{0}})
	p.AddBars(Bars{X: []float64{0}, Heights: []float64{1}, Label: "actual"})
	p.AutoLegend(UpperLeft)
	l := p.Legend()
	if l == nil || len(l.Entries) != 2 {
		t.Fatalf("AutoLegend = %+v, expected 2 entries", l)
	}
	if l.Entries[0].Swatch != SwatchLine || l.Entries[1].Swatch != SwatchPatch {
		t.Errorf("swatches = %q, %q", l.Entries[0].Swatch, l.Entries[1].Swatch)
	}
}

func TestDescribe(t *testing.T) {
	fig, panels := NewGrid(GridSpec{Rows: 2, Width: 10, Height: 8, DPI: 140})
	panels[0].AddFill(Fill{X: []float64{0, 1}, Lower: []float64{0, 0}, Upper: []float64{1, 1}, Label: "band"})
	panels[0].AddRefLine(RefLine{Orientation: Vertical, Value: 0.5, Tag: EventTag})
	panels[0].Warnf("note %d", 1)
	panels[1].AddBars(Bars{X: []float64{0}, Heights: []float64{3}})
	panels[1].YLabel = "daily tests"

	s := Describe(fig)
	if len(s.Charts) != 2 || s.DPI != 140 {
		t.Fatalf("Describe = %+v", s)
	}
	if s.Charts[0].ChartType != "Area" || s.Charts[0].Markers != 1 || len(s.Charts[0].Warnings) != 1 {
		t.Errorf("chart 0 = %+v", s.Charts[0])
	}
	if s.Charts[1].ChartType != "Col" || s.Charts[1].YAxisTitle != "daily tests" {
		t.Errorf("chart 1 = %+v", s.Charts[1])
	}
}

func TestStyleEffective(t *testing.T) {
	s := Style{Color: ColorBlue, Alpha: 0.5}
	if got := s.Effective().A; got != 127 {
		t.Errorf("Effective().A = %d, expected 127", got)
	}
	if got := (Style{Color: ColorBlue}).Effective().A; got != 255 {
		t.Errorf("opaque Effective().A = %d, expected 255", got)
	}
}
