package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Series is a date-indexed sequence of observed or modeled values.
type Series struct {
	// Name identifies the series (e.g. "observed_positive").
	Name string
	// Dates is the date axis.
	Dates []time.Time
	// Values holds one value per date.
	Values []float64
}

// NewSeries builds a series, requiring one value per date.
func NewSeries(name string, dates []time.Time, values []float64) (*Series, error) {
	s := &Series{
		Name:   name,
		Dates:  append([]time.Time(nil), dates...),
		Values: append([]float64(nil), values...),
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks that the date axis and the values have the same length.
func (s *Series) Validate() error {
	if len(s.Dates) != len(s.Values) {
		return fmt.Errorf("series %q has %d dates and %d values: %w", s.Name, len(s.Dates), len(s.Values), ErrShapeMismatch)
	}
	return nil
}

// Len returns the number of points.
func (s *Series) Len() int { return len(s.Dates) }

type seriesJSON struct {
	Name   string    `json:"name,omitempty"`
	Dates  []string  `json:"dates"`
	Values []float64 `json:"values"`
}

// MarshalJSON encodes dates in the short form accepted by ParseDate.
func (s *Series) MarshalJSON() ([]byte, error) {
	return json.Marshal(seriesJSON{Name: s.Name, Dates: formatDates(s.Dates), Values: s.Values})
}

// UnmarshalJSON decodes and validates a series.
func (s *Series) UnmarshalJSON(data []byte) error {
	var raw seriesJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	dates, err := parseDates(raw.Dates)
	if err != nil {
		return err
	}
	parsed, err := NewSeries(raw.Name, dates, raw.Values)
	if err != nil {
		return err
	}
	*s = *parsed
	return nil
}
