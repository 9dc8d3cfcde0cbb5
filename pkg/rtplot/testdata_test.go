package rtplot

import (
	"math/rand/v2"
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
	first := day(start)
	out := make([]time.Time, n)
	for i := range out {
		out[i] = first.AddDate(0, 0, i)
	}
	return out
}

// matrix builds draws around center(t) with the given spread.
func matrix(t *testing.T, dates []time.Time, draws int, center func(int) float64, spread float64) *models.SampleMatrix {
	t.Helper()
	r := rand.New(rand.NewPCG(7, 11))
	rows := make([][]float64, draws)
	for d := range rows {
		rows[d] = make([]float64, len(dates))
		for p := range rows[d] {
			rows[d][p] = center(p) + spread*r.NormFloat64()
		}
	}
	m, err := models.NewSampleMatrix(dates, rows)
	if err != nil {
		t.Fatalf("NewSampleMatrix failed: %v", err)
	}
	return m
}

func series(t *testing.T, name string, dates []time.Time, value func(int) float64) *models.Series {
	t.Helper()
	values := make([]float64, len(dates))
	for i := range values {
		values[i] = value(i)
	}
	s, err := models.NewSeries(name, dates, values)
	if err != nil {
		t.Fatalf("NewSeries failed: %v", err)
	}
	return s
}

func testPosterior(t *testing.T, points int) *models.PosteriorData {
	t.Helper()
	dates := dailyDates("2020-03-01", points)
	return &models.PosteriorData{
		Posterior: map[string]*models.SampleMatrix{
			models.VarInfections:           matrix(t, dates, 200, func(p int) float64 { return 1 + float64(p)/10 }, 0.1),
			models.VarTestAdjustedPositive: matrix(t, dates, 200, func(p int) float64 { return 0.8 + float64(p)/10 }, 0.1),
			models.VarRt:                   matrix(t, dates, 200, func(p int) float64 { return 1.2 }, 0.1),
		},
		ConstantData: map[string]*models.Series{
			models.ConstObservedPositive: series(t, models.ConstObservedPositive, dates, func(p int) float64 { return float64(100 + p) }),
			models.ConstTests:            series(t, models.ConstTests, dates, func(p int) float64 { return float64(1000 + 10*p) }),
		},
	}
}

func testEvents(t *testing.T) *models.NamedDates {
	t.Helper()
	nd, err := models.NewNamedDates(
		models.NamedDate{Date: day("2020-03-10"), Label: "lockdown"},
		models.NamedDate{Date: day("2020-12-25"), Label: "holiday"},
	)
	if err != nil {
		t.Fatalf("NewNamedDates failed: %v", err)
	}
	return nd
}
