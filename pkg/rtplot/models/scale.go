package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ScaleFactor converts relative posterior quantities into absolute counts.
// It is either one scalar or one multiplier per time-point. The zero value is the identity.
type ScaleFactor struct {
	scalar   float64
	perPoint []float64
	set      bool
}

// Scalar returns a factor applied uniformly to every time-point.
func Scalar(v float64) ScaleFactor {
	return ScaleFactor{scalar: v, set: true}
}

// PerPoint returns a factor with one multiplier per time-point.
func PerPoint(vs []float64) ScaleFactor {
	out := make([]float64, len(vs))
	copy(out, vs)
	return ScaleFactor{perPoint: out, set: true}
}

// IsPerPoint reports whether the factor varies by time-point.
func (sf ScaleFactor) IsPerPoint() bool { return sf.perPoint != nil }

// expand returns one multiplier per time-point.
func (sf ScaleFactor) expand(points int) ([]float64, error) {
	if sf.perPoint != nil {
		if len(sf.perPoint) != points {
			return nil, fmt.Errorf("scale factor has %d values, but the date axis has %d: %w",
				len(sf.perPoint), points, ErrShapeMismatch)
		}
		return sf.perPoint, nil
	}
	v := 1.0
	if sf.set {
		v = sf.scalar
	}
	out := make([]float64, points)
	for i := range out {
		out[i] = v
	}
	return out, nil
}

// MarshalJSON encodes a scalar as a number and a per-point factor as an array.
func (sf ScaleFactor) MarshalJSON() ([]byte, error) {
	if sf.perPoint != nil {
		return json.Marshal(sf.perPoint)
	}
	if !sf.set {
		return json.Marshal(1.0)
	}
	return json.Marshal(sf.scalar)
}

// UnmarshalJSON accepts a number or an array of numbers. null is the identity.
func (sf *ScaleFactor) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*sf = ScaleFactor{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err == nil {
		*sf = Scalar(v)
		return nil
	}
	var vs []float64
	if err := json.Unmarshal(data, &vs); err != nil {
		return fmt.Errorf("scale factor must be a number or an array of numbers: %w", err)
	}
	*sf = PerPoint(vs)
	return nil
}
