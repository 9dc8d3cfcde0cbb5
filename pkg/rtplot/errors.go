package rtplot

import (
	"errors"
	"fmt"

	"github.com/ukaji3/rtplot-go/pkg/rtplot/draw"
	"github.com/ukaji3/rtplot-go/pkg/rtplot/models"
)

// Errors reported by the renderers. They are shared with the subpackages so errors.Is works
// whichever package a caller imports.
var (
	ErrInvalidAlignment = draw.ErrInvalidAlignment
	ErrInvalidSchedule  = draw.ErrInvalidSchedule
	ErrShapeMismatch    = models.ErrShapeMismatch
	ErrMissingVariable  = models.ErrMissingVariable
	ErrDuplicateDate    = models.ErrDuplicateDate
	ErrEmptyHistory     = models.ErrEmptyHistory
)

// ErrInvalidLayout indicates a caller-supplied layout with missing panels.
var ErrInvalidLayout = errors.New("invalid layout")

// RenderError represents an error while rendering a view.
type RenderError struct {
	View      string
	Component string // "curves", "tests", "probability", "r_t", "forecast", or a component name
	Err       error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render error in %s (%s): %v", e.View, e.Component, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// NewRenderError creates a new RenderError.
func NewRenderError(view, component string, err error) *RenderError {
	return &RenderError{
		View:      view,
		Component: component,
		Err:       err,
	}
}
