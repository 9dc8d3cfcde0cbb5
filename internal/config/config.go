// Package config loads CLI defaults from RTPLOT_* environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/ukaji3/rtplot-go/pkg/rtplot"
	"github.com/ukaji3/rtplot-go/pkg/rtplot/models"
)

// Config holds the environment defaults of the rtplot command. Flags override them.
type Config struct {
	// Format is the output format: svg, png or xlsx.
	Format string `env:"RTPLOT_FORMAT" envDefault:"svg"`
	// Detail is the density band detail level: light, standard or verbose.
	Detail string `env:"RTPLOT_DETAIL" envDefault:"standard"`
	// MinDate is the earliest date of the forecast views; "none" disables the floor.
	MinDate string `env:"RTPLOT_MIN_DATE" envDefault:"2020-03-01"`
	// CurveSkip is the number of leading days left out of the curve bands.
	CurveSkip int `env:"RTPLOT_CURVE_SKIP" envDefault:"3"`
	// Verbose logs degraded-rendering warnings to stderr.
	Verbose bool `env:"RTPLOT_VERBOSE" envDefault:"false"`
	// OTelEndpoint is the OTLP HTTP endpoint; empty disables tracing.
	OTelEndpoint string `env:"RTPLOT_OTEL_ENDPOINT"`
	// OTelEnabled switches tracing off even when an endpoint is set.
	OTelEnabled bool `env:"RTPLOT_OTEL_ENABLED" envDefault:"true"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load returns the configuration found in the environment.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ParseDetail maps a detail name to rtplot.Detail.
func ParseDetail(s string) (rtplot.Detail, error) {
	switch d := rtplot.Detail(strings.ToLower(s)); d {
	case rtplot.DetailLight, rtplot.DetailStandard, rtplot.DetailVerbose:
		return d, nil
	default:
		return "", fmt.Errorf("invalid detail: %s (must be light, standard, or verbose)", s)
	}
}

// ParseMinDate parses the forecast view floor. Empty and "none" disable it.
func ParseMinDate(s string) (time.Time, error) {
	if s == "" || strings.EqualFold(s, "none") {
		return time.Time{}, nil
	}
	return models.ParseDate(s)
}

// Options converts the configuration into rendering options.
func (c Config) Options() (rtplot.Options, error) {
	opts := rtplot.DefaultOptions()
	detail, err := ParseDetail(c.Detail)
	if err != nil {
		return opts, err
	}
	minDate, err := ParseMinDate(c.MinDate)
	if err != nil {
		return opts, err
	}
	if c.CurveSkip < 0 {
		return opts, fmt.Errorf("invalid curve skip: %d", c.CurveSkip)
	}
	opts.Detail = detail
	opts.MinDate = minDate
	opts.CurveSkip = c.CurveSkip
	return opts, nil
}
