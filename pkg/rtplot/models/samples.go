package models

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/mat"
)

// SampleMatrix holds posterior draws of one quantity, indexed by (draw, time-point).
// Chains are flattened into the draw axis. A SampleMatrix is immutable once built.
type SampleMatrix struct {
	dates []time.Time
	draws int
	// data is nil when there are no draws or no time-points; mat.Dense cannot be empty.
	data *mat.Dense
}

// NewSampleMatrix builds a matrix from one row per draw. Every row must have one value per date.
func NewSampleMatrix(dates []time.Time, draws [][]float64) (*SampleMatrix, error) {
	m := &SampleMatrix{
		dates: append([]time.Time(nil), dates...),
		draws: len(draws),
	}
	if len(draws) == 0 || len(dates) == 0 {
		for i, row := range draws {
			if len(row) != len(dates) {
				return nil, rowMismatch(i, len(row), len(dates))
			}
		}
		return m, nil
	}

	backing := make([]float64, 0, len(draws)*len(dates))
	for i, row := range draws {
		if len(row) != len(dates) {
			return nil, rowMismatch(i, len(row), len(dates))
		}
		backing = append(backing, row...)
	}
	m.data = mat.NewDense(len(draws), len(dates), backing)
	return m, nil
}

// FromChains flattens a (chain, draw, time) array into a single draw axis, chain-major.
func FromChains(dates []time.Time, chains [][][]float64) (*SampleMatrix, error) {
	var draws [][]float64
	for _, chain := range chains {
		draws = append(draws, chain...)
	}
	return NewSampleMatrix(dates, draws)
}

func rowMismatch(row, got, want int) error {
	return fmt.Errorf("draw %d has %d values, but the date axis has %d: %w", row, got, want, ErrShapeMismatch)
}

// NumDraws returns the length of the draw axis.
func (m *SampleMatrix) NumDraws() int { return m.draws }

// NumPoints returns the length of the time axis.
func (m *SampleMatrix) NumPoints() int { return len(m.dates) }

// Dates returns a copy of the date axis.
func (m *SampleMatrix) Dates() []time.Time {
	return append([]time.Time(nil), m.dates...)
}

// At returns the value of draw d at time-point t. An empty matrix yields NaN.
func (m *SampleMatrix) At(d, t int) float64 {
	if m.data == nil {
		return math.NaN()
	}
	return m.data.At(d, t)
}

// Column returns a copy of all draws at time-point t.
func (m *SampleMatrix) Column(t int) []float64 {
	if m.data == nil {
		return []float64{}
	}
	return mat.Col(nil, t, m.data)
}

// Rows returns a copy of the draws as a slice of rows.
func (m *SampleMatrix) Rows() [][]float64 {
	out := make([][]float64, m.draws)
	for d := range out {
		if m.data == nil {
			out[d] = []float64{}
			continue
		}
		out[d] = mat.Row(nil, d, m.data)
	}
	return out
}

// Scale returns a new matrix with every draw multiplied by the factor.
func (m *SampleMatrix) Scale(sf ScaleFactor) (*SampleMatrix, error) {
	factors, err := sf.expand(len(m.dates))
	if err != nil {
		return nil, err
	}
	out := &SampleMatrix{dates: m.Dates(), draws: m.draws}
	if m.data == nil {
		return out, nil
	}
	scaled := mat.DenseCopyOf(m.data)
	scaled.Apply(func(_, t int, v float64) float64 { return v * factors[t] }, scaled)
	out.data = scaled
	return out, nil
}

// FractionAbove returns, per time-point, the share of draws strictly greater than threshold.
// Without draws every value is NaN.
func (m *SampleMatrix) FractionAbove(threshold float64) []float64 {
	out := make([]float64, len(m.dates))
	if m.draws == 0 {
		for t := range out {
			out[t] = math.NaN()
		}
		return out
	}
	for t := range out {
		above := 0
		for d := 0; d < m.draws; d++ {
			if m.data.At(d, t) > threshold {
				above++
			}
		}
		out[t] = float64(above) / float64(m.draws)
	}
	return out
}

type sampleMatrixJSON struct {
	Dates  []string      `json:"dates"`
	Draws  [][]float64   `json:"draws,omitempty"`
	Chains [][][]float64 `json:"chains,omitempty"`
}

// MarshalJSON encodes the matrix as {"dates": [...], "draws": [[...]]}.
func (m *SampleMatrix) MarshalJSON() ([]byte, error) {
	return json.Marshal(sampleMatrixJSON{
		Dates: formatDates(m.dates),
		Draws: m.Rows(),
	})
}

// UnmarshalJSON accepts either flattened "draws" or per-chain "chains".
func (m *SampleMatrix) UnmarshalJSON(data []byte) error {
	var raw sampleMatrixJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	dates, err := parseDates(raw.Dates)
	if err != nil {
		return err
	}
	draws := raw.Draws
	for _, chain := range raw.Chains {
		draws = append(draws, chain...)
	}
	parsed, err := NewSampleMatrix(dates, draws)
	if err != nil {
		return err
	}
	*m = *parsed
	return nil
}
