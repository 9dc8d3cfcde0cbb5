// Package draw implements the reusable chart overlays: event annotations and density bands.
package draw

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ukaji3/rtplot-go/pkg/rtplot/canvas"
	"github.com/ukaji3/rtplot-go/pkg/rtplot/models"
)

// ErrInvalidAlignment indicates an annotation alignment other than top or bottom.
var ErrInvalidAlignment = errors.New("invalid alignment")

// Alignment anchors annotation labels near the top or the bottom of a panel.
type Alignment string

const (
	AlignTop    Alignment = "top"
	AlignBottom Alignment = "bottom"
)

// MaxLabelWidth is the longest annotation label drawn verbatim, in characters.
const MaxLabelWidth = 20

const labelPlaceholder = "..."

var markerStyle = canvas.Style{Color: canvas.ColorGray, Dash: canvas.Dotted}

// Annotate draws a dotted vertical marker for every date inside the surface's current x range,
// labeled with the (shortened) event text. Dates outside the range are skipped.
// It returns the number of markers drawn. Limits are read, never changed.
func Annotate(s canvas.Surface, dates *models.NamedDates, alignment Alignment) (int, error) {
	var frac float64
	var valign canvas.VAlign
	switch alignment {
	case AlignTop:
		frac, valign = 0.98, canvas.VAlignTop
	case AlignBottom:
		frac, valign = 0.02, canvas.VAlignBottom
	default:
		return 0, fmt.Errorf("unsupported alignment %q: %w", alignment, ErrInvalidAlignment)
	}

	xr, yr := s.XLimits(), s.YLimits()
	y := yr.At(frac)
	drawn := 0
	for _, e := range dates.Entries() {
		x := canvas.DateToX(e.Date)
		if !xr.Contains(x) {
			continue
		}
		s.AddRefLine(canvas.RefLine{
			Orientation: canvas.Vertical,
			Value:       x,
			Style:       markerStyle,
			Tag:         canvas.EventTag,
		})
		if label := ShortenLabel(e.Label); label != "" {
			s.AddText(canvas.Text{
				X:        x,
				Y:        y,
				Body:     label,
				Rotation: 90,
				HAlign:   canvas.HAlignCenter,
				VAlign:   valign,
				Style:    canvas.Style{Color: canvas.ColorGray},
			})
		}
		drawn++
	}
	return drawn, nil
}

// ShortenLabel returns labels of at most MaxLabelWidth characters unchanged. Longer labels keep
// as many leading words as fit together with the "..." placeholder. When those words fill less
// than half of the room, the label is cut mid-word instead.
func ShortenLabel(label string) string {
	if utf8.RuneCountInString(label) <= MaxLabelWidth {
		return label
	}
	budget := MaxLabelWidth - utf8.RuneCountInString(labelPlaceholder)

	var kept []string
	used := 0
	for _, word := range strings.Fields(label) {
		n := utf8.RuneCountInString(word)
		if len(kept) > 0 {
			n++
		}
		if used+n > budget {
			break
		}
		kept = append(kept, word)
		used += n
	}
	if 2*used < budget {
		runes := []rune(strings.TrimSpace(label))
		if len(runes) > budget {
			runes = runes[:budget]
		}
		return strings.TrimRight(string(runes), " ") + labelPlaceholder
	}
	return strings.Join(kept, " ") + labelPlaceholder
}
