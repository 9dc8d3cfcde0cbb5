// Package input loads the data the views draw: JSON bundles, optionally zstd
// compressed, and date-indexed tables kept in xlsx workbooks.
package input

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/ukaji3/rtplot-go/pkg/rtplot"
	"github.com/ukaji3/rtplot-go/pkg/rtplot/models"
)

// CompressedExt marks zstd compressed bundles.
const CompressedExt = ".zst"

// ErrEmptyBundle indicates a bundle without any drawable data.
var ErrEmptyBundle = errors.New("bundle holds no data")

// Bundle collects the outputs of the modeling pipeline for one region.
type Bundle struct {
	// Region names the modeled area (e.g. "BY").
	Region string `json:"region,omitempty"`
	// Posterior holds the sampled and constant model outputs.
	Posterior *models.PosteriorData `json:"posterior,omitempty"`
	// Scale converts relative curves into daily counts.
	Scale models.ScaleFactor `json:"scale"`
	// ObservedPositive overrides the posterior's observed_positive series.
	ObservedPositive *models.Series `json:"observed_positive,omitempty"`
	// ModeledTests overrides the posterior's tests series.
	ModeledTests *models.Series `json:"modeled_tests,omitempty"`
	// ActualTests is the series of actually reported tests.
	ActualTests *models.Series `json:"actual_tests,omitempty"`
	// Forecast is the test-count forecast with its training history.
	Forecast *models.ForecastTable `json:"forecast,omitempty"`
	// ForecastResult is the series the forecast fed into the model.
	ForecastResult *models.Series `json:"forecast_result,omitempty"`
	// Components is the decomposed forecast.
	Components *models.ComponentTable `json:"components,omitempty"`
	// Annotations are the events marked on the charts.
	Annotations *models.NamedDates `json:"annotations,omitempty"`
}

// IsCompressed reports whether path names a zstd compressed bundle.
func IsCompressed(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), CompressedExt)
}

// ReadBundle reads the bundle stored at path.
func ReadBundle(path string) (*Bundle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	b, err := DecodeBundle(f, IsCompressed(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return b, nil
}

// DecodeBundle decodes a JSON bundle from r.
func DecodeBundle(r io.Reader, compressed bool) (*Bundle, error) {
	if compressed {
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("open zstd stream: %w", err)
		}
		defer zr.Close()
		r = zr
	}

	var b Bundle
	if err := json.NewDecoder(r).Decode(&b); err != nil {
		return nil, fmt.Errorf("decode bundle: %w", err)
	}
	if b.empty() {
		return nil, ErrEmptyBundle
	}
	return &b, nil
}

// WriteBundle stores b at path, compressing when path ends in .zst.
func WriteBundle(path string, b *Bundle) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := EncodeBundle(f, b, IsCompressed(path)); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}

// EncodeBundle writes b as JSON to w.
func EncodeBundle(w io.Writer, b *Bundle, compressed bool) error {
	if !compressed {
		return json.NewEncoder(w).Encode(b)
	}

	zw, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("open zstd stream: %w", err)
	}
	if err := json.NewEncoder(zw).Encode(b); err != nil {
		zw.Close()
		return err
	}
	return zw.Close()
}

func (b *Bundle) empty() bool {
	return b.Posterior == nil && b.Forecast == nil && b.Components == nil
}

// Dashboard returns the dashboard input held by the bundle.
func (b *Bundle) Dashboard() rtplot.DashboardInput {
	return rtplot.DashboardInput{
		Posterior:        b.Posterior,
		ObservedPositive: b.ObservedPositive,
		ModeledTests:     b.ModeledTests,
		ActualTests:      b.ActualTests,
		Annotations:      b.Annotations,
		Scale:            b.Scale,
	}
}
