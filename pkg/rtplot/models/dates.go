package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// ParseDate parses a date in YYYY-MM-DD form or a full RFC 3339 timestamp.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	return t, nil
}

// FormatDate renders midnight UTC dates as YYYY-MM-DD and anything else as RFC 3339.
func FormatDate(t time.Time) string {
	if t.Location() == time.UTC && t.Equal(t.Truncate(24*time.Hour)) {
		return t.Format(time.DateOnly)
	}
	return t.Format(time.RFC3339)
}

func parseDates(raw []string) ([]time.Time, error) {
	out := make([]time.Time, len(raw))
	for i, s := range raw {
		t, err := ParseDate(s)
		if err != nil {
			return nil, err
		}
		out[i] = t
	}
	return out, nil
}

func formatDates(ts []time.Time) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = FormatDate(t)
	}
	return out
}

type namedDateJSON struct {
	Date  string `json:"date"`
	Label string `json:"label"`
}

// MarshalJSON encodes the date in the short form accepted by ParseDate.
func (d NamedDate) MarshalJSON() ([]byte, error) {
	return json.Marshal(namedDateJSON{Date: FormatDate(d.Date), Label: d.Label})
}

// UnmarshalJSON accepts YYYY-MM-DD or RFC 3339 dates.
func (d *NamedDate) UnmarshalJSON(data []byte) error {
	var raw namedDateJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	t, err := ParseDate(raw.Date)
	if err != nil {
		return err
	}
	d.Date, d.Label = t, raw.Label
	return nil
}
