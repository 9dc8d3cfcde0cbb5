package canvas

import "math"

// PointsPerInch is the typographic point density used for font sizes and line widths.
const PointsPerInch = 72

// InchesToPixels converts a length in inches to whole pixels at the given DPI.
func InchesToPixels(inches, dpi float64) int {
	return int(math.Round(inches * dpi))
}

// PointsToPixels converts a length in points to pixels at the given DPI.
func PointsToPixels(points, dpi float64) float64 {
	return points * dpi / PointsPerInch
}
