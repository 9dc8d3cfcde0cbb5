package models

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// ForecastRow is one dated prediction of the test-count forecast.
type ForecastRow struct {
	// Date is the predicted day.
	Date time.Time
	// Yhat is the point prediction.
	Yhat float64
	// YhatLower is the lower bound of the prediction interval.
	YhatLower float64
	// YhatUpper is the upper bound of the prediction interval.
	YhatUpper float64
}

// ForecastTable is the output of the test-count forecasting collaborator.
type ForecastTable struct {
	// Rows are ordered by date.
	Rows []ForecastRow `json:"rows"`
	// History holds the training observations the forecast was fitted on.
	History *Series `json:"history"`
}

// HistoryStart returns the first training date.
func (ft *ForecastTable) HistoryStart() (time.Time, error) {
	if ft.History == nil || ft.History.Len() == 0 {
		return time.Time{}, ErrEmptyHistory
	}
	return ft.History.Dates[0], nil
}

// Since returns the rows dated on or after t.
func (ft *ForecastTable) Since(t time.Time) []ForecastRow {
	var out []ForecastRow
	for _, r := range ft.Rows {
		if !r.Date.Before(t) {
			out = append(out, r)
		}
	}
	return out
}

type forecastRowJSON struct {
	Date      string  `json:"ds"`
	Yhat      float64 `json:"yhat"`
	YhatLower float64 `json:"yhat_lower"`
	YhatUpper float64 `json:"yhat_upper"`
}

// MarshalJSON uses the column names of the forecasting collaborator.
func (r ForecastRow) MarshalJSON() ([]byte, error) {
	return json.Marshal(forecastRowJSON{
		Date:      FormatDate(r.Date),
		Yhat:      r.Yhat,
		YhatLower: r.YhatLower,
		YhatUpper: r.YhatUpper,
	})
}

// UnmarshalJSON decodes a {ds, yhat, yhat_lower, yhat_upper} object.
func (r *ForecastRow) UnmarshalJSON(data []byte) error {
	var raw forecastRowJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	t, err := ParseDate(raw.Date)
	if err != nil {
		return err
	}
	*r = ForecastRow{Date: t, Yhat: raw.Yhat, YhatLower: raw.YhatLower, YhatUpper: raw.YhatUpper}
	return nil
}

// ComponentKind selects how a forecast component is laid out.
type ComponentKind string

const (
	// ComponentSeries is plotted against the date axis.
	ComponentSeries ComponentKind = "series"
	// ComponentWeekly is plotted as a Monday-first day-of-week profile.
	ComponentWeekly ComponentKind = "weekly"
)

// Component is one additive part of the forecast decomposition.
type Component struct {
	// Name is the component name (e.g. "trend", "holidays", "weekly").
	Name string `json:"name"`
	// Kind selects the layout; empty means ComponentSeries.
	Kind ComponentKind `json:"kind,omitempty"`
	// Values holds one value per table date.
	Values []float64 `json:"values"`
	// Lower is the optional lower uncertainty bound, one value per table date.
	Lower []float64 `json:"lower,omitempty"`
	// Upper is the optional upper uncertainty bound, one value per table date.
	Upper []float64 `json:"upper,omitempty"`
}

// HasInterval reports whether both uncertainty bounds are present.
func (c Component) HasInterval() bool {
	return len(c.Lower) > 0 && len(c.Upper) > 0
}

// ComponentTable is the decomposed forecast, row-indexed by date.
type ComponentTable struct {
	// Dates is the row index.
	Dates []time.Time
	// HistoryStart is the first training date; rows before it are not shown. Zero keeps all rows.
	HistoryStart time.Time
	// Components holds one column per component.
	Components []Component
}

// Validate checks that every component column matches the row index.
func (ct *ComponentTable) Validate() error {
	for _, c := range ct.Components {
		if len(c.Values) != len(ct.Dates) {
			return fmt.Errorf("component %q has %d values for %d dates: %w", c.Name, len(c.Values), len(ct.Dates), ErrShapeMismatch)
		}
		if c.Lower != nil && len(c.Lower) != len(ct.Dates) {
			return fmt.Errorf("component %q lower bound has %d values for %d dates: %w", c.Name, len(c.Lower), len(ct.Dates), ErrShapeMismatch)
		}
		if c.Upper != nil && len(c.Upper) != len(ct.Dates) {
			return fmt.Errorf("component %q upper bound has %d values for %d dates: %w", c.Name, len(c.Upper), len(ct.Dates), ErrShapeMismatch)
		}
	}
	return nil
}

// Since returns a copy restricted to rows dated on or after t.
func (ct *ComponentTable) Since(t time.Time) *ComponentTable {
	keep := make([]bool, len(ct.Dates))
	for i, d := range ct.Dates {
		keep[i] = !d.Before(t)
	}
	pick := func(vs []float64) []float64 {
		if vs == nil {
			return nil
		}
		var out []float64
		for i, v := range vs {
			if keep[i] {
				out = append(out, v)
			}
		}
		return out
	}

	out := &ComponentTable{HistoryStart: ct.HistoryStart}
	for i, d := range ct.Dates {
		if keep[i] {
			out.Dates = append(out.Dates, d)
		}
	}
	for _, c := range ct.Components {
		out.Components = append(out.Components, Component{
			Name:   c.Name,
			Kind:   c.Kind,
			Values: pick(c.Values),
			Lower:  pick(c.Lower),
			Upper:  pick(c.Upper),
		})
	}
	return out
}

// WeeklyProfile averages a component column per weekday, Monday first.
// Weekdays without rows are NaN.
func (ct *ComponentTable) WeeklyProfile(values []float64) [7]float64 {
	var sum [7]float64
	var n [7]int
	for i, d := range ct.Dates {
		if i >= len(values) {
			break
		}
		wd := (int(d.Weekday()) + 6) % 7
		sum[wd] += values[i]
		n[wd]++
	}
	var out [7]float64
	for i := range out {
		if n[i] == 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = sum[i] / float64(n[i])
	}
	return out
}

type componentTableJSON struct {
	Dates        []string    `json:"dates"`
	HistoryStart string      `json:"history_start,omitempty"`
	Components   []Component `json:"components"`
}

// MarshalJSON encodes dates in the short form accepted by ParseDate.
func (ct *ComponentTable) MarshalJSON() ([]byte, error) {
	raw := componentTableJSON{Dates: formatDates(ct.Dates), Components: ct.Components}
	if !ct.HistoryStart.IsZero() {
		raw.HistoryStart = FormatDate(ct.HistoryStart)
	}
	return json.Marshal(raw)
}

// UnmarshalJSON decodes and validates a component table.
func (ct *ComponentTable) UnmarshalJSON(data []byte) error {
	var raw componentTableJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	dates, err := parseDates(raw.Dates)
	if err != nil {
		return err
	}
	out := ComponentTable{Dates: dates, Components: raw.Components}
	if raw.HistoryStart != "" {
		if out.HistoryStart, err = ParseDate(raw.HistoryStart); err != nil {
			return err
		}
	}
	if err := out.Validate(); err != nil {
		return err
	}
	*ct = out
	return nil
}
