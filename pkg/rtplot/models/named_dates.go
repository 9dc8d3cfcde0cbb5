// Package models defines the data structures consumed and produced by the chart renderers.
package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// NamedDate is a single dated event with a short display label.
type NamedDate struct {
	// Date is the event date.
	Date time.Time `json:"date"`
	// Label is the display text. Empty labels keep the marker but draw no text.
	Label string `json:"label"`
}

// NamedDates is an ordered set of dated events (holidays, interventions).
// Dates are unique. A nil *NamedDates behaves as an empty set.
type NamedDates struct {
	entries []NamedDate
}

// NewNamedDates builds a set from entries in the given order.
func NewNamedDates(entries ...NamedDate) (*NamedDates, error) {
	nd := &NamedDates{}
	for _, e := range entries {
		if err := nd.Add(e.Date, e.Label); err != nil {
			return nil, err
		}
	}
	return nd, nil
}

// Add appends an event. Adding a date that is already present fails with ErrDuplicateDate.
func (nd *NamedDates) Add(date time.Time, label string) error {
	for _, e := range nd.entries {
		if e.Date.Equal(date) {
			return fmt.Errorf("%s: %w", date.Format(time.DateOnly), ErrDuplicateDate)
		}
	}
	nd.entries = append(nd.entries, NamedDate{Date: date, Label: label})
	return nil
}

// Len returns the number of events.
func (nd *NamedDates) Len() int {
	if nd == nil {
		return 0
	}
	return len(nd.entries)
}

// Entries returns a copy of the events in insertion order.
func (nd *NamedDates) Entries() []NamedDate {
	if nd == nil {
		return nil
	}
	out := make([]NamedDate, len(nd.entries))
	copy(out, nd.entries)
	return out
}

// Blanked returns a copy with every label cleared and every date kept.
func (nd *NamedDates) Blanked() *NamedDates {
	out := &NamedDates{}
	for _, e := range nd.Entries() {
		out.entries = append(out.entries, NamedDate{Date: e.Date})
	}
	return out
}

// MarshalJSON encodes the set as an array of {date, label} objects.
func (nd *NamedDates) MarshalJSON() ([]byte, error) {
	entries := nd.Entries()
	if entries == nil {
		entries = []NamedDate{}
	}
	return json.Marshal(entries)
}

// UnmarshalJSON decodes an array of {date, label} objects, rejecting duplicate dates.
func (nd *NamedDates) UnmarshalJSON(data []byte) error {
	var entries []NamedDate
	if err := json.Unmarshal(data, &entries); err != nil {
		return err
	}
	parsed, err := NewNamedDates(entries...)
	if err != nil {
		return err
	}
	*nd = *parsed
	return nil
}
