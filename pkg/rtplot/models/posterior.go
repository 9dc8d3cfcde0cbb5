package models

import "fmt"

// Well-known posterior variables.
const (
	VarInfections           = "infections"
	VarTestAdjustedPositive = "test_adjusted_positive"
	VarRt                   = "r_t"
)

// Well-known constant (non-sampled) reference series.
const (
	ConstObservedPositive = "observed_positive"
	ConstTests            = "tests"
)

// PosteriorData bundles the sampled and constant outputs of a fitted model.
type PosteriorData struct {
	// Posterior maps variable names to their draws.
	Posterior map[string]*SampleMatrix `json:"posterior"`
	// ConstantData maps names to reference series the model was conditioned on.
	ConstantData map[string]*Series `json:"constant_data"`
}

// Variable returns the draws of a posterior variable.
func (p *PosteriorData) Variable(name string) (*SampleMatrix, error) {
	if p == nil {
		return nil, fmt.Errorf("posterior %q: %w", name, ErrMissingVariable)
	}
	m, ok := p.Posterior[name]
	if !ok || m == nil {
		return nil, fmt.Errorf("posterior %q: %w", name, ErrMissingVariable)
	}
	return m, nil
}

// Constant returns a constant reference series.
func (p *PosteriorData) Constant(name string) (*Series, error) {
	if p == nil {
		return nil, fmt.Errorf("constant %q: %w", name, ErrMissingVariable)
	}
	s, ok := p.ConstantData[name]
	if !ok || s == nil {
		return nil, fmt.Errorf("constant %q: %w", name, ErrMissingVariable)
	}
	return s, nil
}
