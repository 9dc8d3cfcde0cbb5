// Package raster draws a canvas.Figure as SVG or PNG with the go-chart renderers.
package raster

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/golang/freetype/truetype"
	"github.com/ukaji3/rtplot-go/pkg/rtplot/canvas"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Format selects the output encoding.
type Format string

const (
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
)

// ErrUnsupportedFormat indicates an output format other than svg or png.
var ErrUnsupportedFormat = errors.New("unsupported format")

// ErrEmptyFigure indicates a figure without panels.
var ErrEmptyFigure = errors.New("figure has no panels")

// Figure defaults applied when the figure leaves them unset.
const (
	DefaultWidth  = 10.0
	DefaultHeight = 8.0
	DefaultDPI    = 100.0
)

// Text sizes and strokes in points.
const (
	fontSize      = 8.0
	labelFontSize = 10.0
	lineWidth     = 1.5
	frameWidth    = 0.8
	majorTickLen  = 3.5
	minorTickLen  = 2.0
)

// Margins around the panel stack in points.
const (
	marginLeft      = 64.0
	marginRight     = 14.0
	marginTop       = 12.0
	marginBottom    = 28.0
	panelGap        = 8.0
	tickLabelGap    = 3.0
	rotatedLabelPad = 52.0
)

// ParseFormat maps a file extension or flag value to a Format.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatSVG, FormatPNG:
		return Format(s), nil
	}
	return "", fmt.Errorf("%q: %w", s, ErrUnsupportedFormat)
}

func provider(format Format) (chart.RendererProvider, error) {
	switch format {
	case FormatSVG:
		return chart.SVG, nil
	case FormatPNG:
		return chart.PNG, nil
	}
	return nil, fmt.Errorf("%q: %w", format, ErrUnsupportedFormat)
}

// Render draws every panel of fig, top to bottom, and writes the encoded image to w.
func Render(fig *canvas.Figure, format Format, w io.Writer) error {
	newRenderer, err := provider(format)
	if err != nil {
		return err
	}
	panels := fig.Panels()
	if len(panels) == 0 {
		return ErrEmptyFigure
	}
	width, height, dpi := fig.Width, fig.Height, fig.DPI
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	if dpi <= 0 {
		dpi = DefaultDPI
	}

	r, err := newRenderer(canvas.InchesToPixels(width, dpi), canvas.InchesToPixels(height, dpi))
	if err != nil {
		return err
	}
	r.SetDPI(dpi)
	font, err := chart.GetDefaultFont()
	if err != nil {
		return err
	}

	pt := func(v float64) int { return int(math.Round(canvas.PointsToPixels(v, dpi))) }
	d := &painter{r: r, font: font, dpi: dpi}
	d.fillRect(chart.Box{Top: 0, Left: 0, Right: canvas.InchesToPixels(width, dpi), Bottom: canvas.InchesToPixels(height, dpi)}, drawing.ColorWhite)

	bottom := marginBottom
	if last := panels[len(panels)-1]; last.XAxis().Ticks().Rotation != 0 {
		bottom = rotatedLabelPad
	}
	top := pt(marginTop)
	usable := canvas.InchesToPixels(height, dpi) - top - pt(bottom) - pt(panelGap)*(len(panels)-1)
	for i, p := range panels {
		if !p.XTickLabelsHidden() && i < len(panels)-1 {
			usable -= pt(marginBottom - panelGap)
		}
	}

	ratios := fig.HeightRatios()
	total := 0.0
	for _, v := range ratios {
		total += v
	}
	y := top
	for i, p := range panels {
		h := int(math.Round(float64(usable) * ratios[i] / total))
		box := chart.Box{
			Top:    y,
			Left:   pt(marginLeft),
			Right:  canvas.InchesToPixels(width, dpi) - pt(marginRight),
			Bottom: y + h,
		}
		d.panel(p, box)
		y += h + pt(panelGap)
		if !p.XTickLabelsHidden() && i < len(panels)-1 {
			y += pt(marginBottom - panelGap)
		}
	}
	return r.Save(w)
}

// painter draws panels into one go-chart renderer.
type painter struct {
	r    chart.Renderer
	font *truetype.Font
	dpi  float64
}

// transform maps data coordinates into a panel box.
type transform struct {
	box    chart.Box
	xr, yr canvas.Range
}

func (t transform) x(v float64) int {
	return t.box.Left + int(math.Round((v-t.xr.Min)/t.xr.Span()*float64(t.box.Width())))
}

func (t transform) y(v float64) int {
	v = math.Max(t.yr.Min, math.Min(t.yr.Max, v))
	return t.box.Bottom - int(math.Round((v-t.yr.Min)/t.yr.Span()*float64(t.box.Height())))
}

// visible reports whether x lies in the panel's x range, allowing for rounding.
func (t transform) visible(x float64) bool {
	eps := t.xr.Span() * 1e-9
	return x >= t.xr.Min-eps && x <= t.xr.Max+eps
}

func (d *painter) px(points float64) float64 {
	return canvas.PointsToPixels(points, d.dpi)
}

func (d *painter) stroke(s canvas.Style, defaultWidth float64) {
	d.r.ResetStyle()
	width := s.Width
	if width <= 0 {
		width = defaultWidth
	}
	d.r.SetStrokeColor(s.Effective())
	d.r.SetStrokeWidth(d.px(width))
	if pattern := s.Dash.Pattern(); pattern != nil {
		scaled := make([]float64, len(pattern))
		for i, v := range pattern {
			scaled[i] = d.px(v * width)
		}
		d.r.SetStrokeDashArray(scaled)
	}
}

func (d *painter) fillRect(b chart.Box, c drawing.Color) {
	d.r.ResetStyle()
	d.r.SetFillColor(c)
	d.r.MoveTo(b.Left, b.Top)
	d.r.LineTo(b.Right, b.Top)
	d.r.LineTo(b.Right, b.Bottom)
	d.r.LineTo(b.Left, b.Bottom)
	d.r.Close()
	d.r.Fill()
}

func (d *painter) panel(p *canvas.Panel, box chart.Box) {
	t := transform{box: box, xr: p.XLimits(), yr: p.YLimits()}
	for _, a := range p.Artists() {
		switch v := a.(type) {
		case canvas.Fill:
			d.fill(t, v)
		case canvas.Bars:
			d.bars(t, v)
		case canvas.Line:
			d.line(t, v)
		case canvas.Scatter:
			d.scatter(t, v)
		case canvas.RefLine:
			d.refLine(t, v)
		}
	}
	// Text goes on top of every shape.
	for _, txt := range p.Texts() {
		if !t.visible(txt.X) {
			continue
		}
		size := txt.Size
		if size <= 0 {
			size = fontSize
		}
		d.text(txt.Body, t.x(txt.X), t.y(txt.Y), txt.Rotation, txt.HAlign, txt.VAlign, size, txt.Style.Effective())
	}
	d.frame(box)
	d.xTicks(p, t)
	d.yTicks(p, t)
	d.labels(p, box)
	if l := p.Legend(); l != nil && len(l.Entries) > 0 {
		d.legend(*l, box)
	}
}

// segments splits indices into runs of visible, finite points.
func segments(t transform, xs []float64, ys ...[]float64) [][]int {
	var out [][]int
	var cur []int
	for i, x := range xs {
		ok := t.visible(x) && !math.IsNaN(x)
		for _, y := range ys {
			if i >= len(y) || math.IsNaN(y[i]) || math.IsInf(y[i], 0) {
				ok = false
			}
		}
		if ok {
			cur = append(cur, i)
			continue
		}
		if len(cur) > 0 {
			out = append(out, cur)
			cur = nil
		}
	}
	if len(cur) > 0 {
		out = append(out, cur)
	}
	return out
}

func (d *painter) line(t transform, l canvas.Line) {
	for _, seg := range segments(t, l.X, l.Y) {
		d.stroke(l.Style, lineWidth)
		d.r.MoveTo(t.x(l.X[seg[0]]), t.y(l.Y[seg[0]]))
		for _, i := range seg[1:] {
			d.r.LineTo(t.x(l.X[i]), t.y(l.Y[i]))
		}
		d.r.Stroke()
	}
}

func (d *painter) fill(t transform, f canvas.Fill) {
	for _, seg := range segments(t, f.X, f.Lower, f.Upper) {
		d.r.ResetStyle()
		d.r.SetFillColor(f.Style.Effective())
		d.r.MoveTo(t.x(f.X[seg[0]]), t.y(f.Upper[seg[0]]))
		for _, i := range seg[1:] {
			d.r.LineTo(t.x(f.X[i]), t.y(f.Upper[i]))
		}
		for j := len(seg) - 1; j >= 0; j-- {
			i := seg[j]
			d.r.LineTo(t.x(f.X[i]), t.y(f.Lower[i]))
		}
		d.r.Close()
		d.r.Fill()
	}
}

func (d *painter) bars(t transform, b canvas.Bars) {
	half := b.BarWidth() / 2
	color := b.Style.Effective()
	for _, seg := range segments(t, b.X, b.Heights) {
		for _, i := range seg {
			left, right := t.x(b.X[i]-half), t.x(b.X[i]+half)
			if right <= left {
				right = left + 1
			}
			y0, y1 := t.y(0), t.y(b.Heights[i])
			if y1 > y0 {
				y0, y1 = y1, y0
			}
			d.fillRect(chart.Box{Top: y1, Left: max(left, t.box.Left), Right: min(right, t.box.Right), Bottom: y0}, color)
		}
	}
}

func (d *painter) scatter(t transform, s canvas.Scatter) {
	color := s.Style.Effective()
	for _, seg := range segments(t, s.X, s.Y) {
		for _, i := range seg {
			d.r.ResetStyle()
			d.r.SetFillColor(color)
			d.r.SetStrokeColor(color)
			d.r.SetStrokeWidth(0.5)
			d.r.Circle(d.px(s.MarkerRadius()), t.x(s.X[i]), t.y(s.Y[i]))
		}
	}
}

func (d *painter) refLine(t transform, rl canvas.RefLine) {
	d.stroke(rl.Style, 1)
	switch rl.Orientation {
	case canvas.Vertical:
		if !t.visible(rl.Value) {
			return
		}
		x := t.x(rl.Value)
		d.r.MoveTo(x, t.box.Top)
		d.r.LineTo(x, t.box.Bottom)
	case canvas.Horizontal:
		if !t.yr.Contains(rl.Value) {
			return
		}
		y := t.y(rl.Value)
		d.r.MoveTo(t.box.Left, y)
		d.r.LineTo(t.box.Right, y)
	}
	d.r.Stroke()
}

func (d *painter) frame(box chart.Box) {
	d.stroke(canvas.Style{Color: drawing.ColorBlack}, frameWidth)
	d.r.MoveTo(box.Left, box.Top)
	d.r.LineTo(box.Right, box.Top)
	d.r.LineTo(box.Right, box.Bottom)
	d.r.LineTo(box.Left, box.Bottom)
	d.r.Close()
	d.r.Stroke()
}

// text draws body anchored at (x, y). Rotation is counter-clockwise in degrees; alignment
// refers to the rotated bounding box.
func (d *painter) text(body string, x, y int, rotation float64, ha canvas.HAlign, va canvas.VAlign, size float64, color drawing.Color) {
	if body == "" {
		return
	}
	d.r.ResetStyle()
	d.r.SetFont(d.font)
	d.r.SetFontSize(size)
	d.r.SetFontColor(color)
	m := d.r.MeasureText(body)
	w, h := m.Width(), m.Height()

	if math.Mod(rotation, 180) == 0 {
		switch ha {
		case canvas.HAlignCenter:
			x -= w / 2
		case canvas.HAlignRight:
			x -= w
		}
		switch va {
		case canvas.VAlignTop:
			y += h
		case canvas.VAlignMiddle:
			y += h / 2
		}
		d.r.Text(body, x, y)
		return
	}

	// Rotated by 90 degrees the text runs upward from (x, y) and its glyphs extend to the left.
	switch ha {
	case canvas.HAlignCenter:
		x += h / 2
	case canvas.HAlignLeft:
		x += h
	}
	switch va {
	case canvas.VAlignTop:
		y += w
	case canvas.VAlignMiddle:
		y += w / 2
	}
	d.r.SetTextRotation(chart.DegreesToRadians(360 - rotation))
	d.r.Text(body, x, y)
	d.r.ClearTextRotation()
}

func (d *painter) xTicks(p *canvas.Panel, t transform) {
	spec := p.XAxis().Ticks()
	major, label := spec.Major, spec.Label
	if major == nil {
		major, label = defaultXTicks(t.xr, label)
	}
	if label == nil {
		label = canvas.NumberFormatter{Decimals: -1}
	}
	if spec.Minor != nil {
		for _, v := range spec.Minor.Locate(t.xr) {
			d.tick(t.x(v), t.box.Bottom, 0, int(d.px(minorTickLen)))
		}
	}
	for _, v := range major.Locate(t.xr) {
		x := t.x(v)
		d.tick(x, t.box.Bottom, 0, int(d.px(majorTickLen)))
		if p.XTickLabelsHidden() {
			continue
		}
		y := t.box.Bottom + int(d.px(majorTickLen+tickLabelGap))
		d.text(label.Format(v), x, y, spec.Rotation, canvas.HAlignCenter, canvas.VAlignTop, fontSize, drawing.ColorBlack)
	}
}

func (d *painter) yTicks(p *canvas.Panel, t transform) {
	spec := p.YAxis().Ticks()
	major := spec.Major
	if major == nil {
		major = canvas.AutoLocator{Target: max(2, t.box.Height()/max(1, int(d.px(28))))}
	}
	values := major.Locate(t.yr)
	label := spec.Label
	if label == nil {
		label = canvas.NumberFormatter{Decimals: decimalsFor(values)}
	}
	for _, v := range values {
		y := t.y(v)
		d.tick(t.box.Left, y, -int(d.px(majorTickLen)), 0)
		x := t.box.Left - int(d.px(majorTickLen+tickLabelGap))
		d.text(label.Format(v), x, y, 0, canvas.HAlignRight, canvas.VAlignMiddle, fontSize, drawing.ColorBlack)
	}
}

func (d *painter) tick(x, y, dx, dy int) {
	d.stroke(canvas.Style{Color: drawing.ColorBlack}, frameWidth)
	d.r.MoveTo(x, y)
	d.r.LineTo(x+dx, y+dy)
	d.r.Stroke()
}

func (d *painter) labels(p *canvas.Panel, box chart.Box) {
	size := p.LabelSize
	if size <= 0 {
		size = labelFontSize
	}
	if p.YLabel != "" {
		x := box.Left - int(d.px(marginLeft-size))
		d.text(p.YLabel, x, box.Top+box.Height()/2, 90, canvas.HAlignCenter, canvas.VAlignMiddle, size, drawing.ColorBlack)
	}
	if p.Title != "" {
		d.text(p.Title, box.Left+box.Width()/2, box.Top-int(d.px(2)), 0, canvas.HAlignCenter, canvas.VAlignBaseline, labelFontSize, drawing.ColorBlack)
	}
	if p.XLabel != "" && !p.XTickLabelsHidden() {
		y := box.Bottom + int(d.px(majorTickLen+tickLabelGap+fontSize+labelFontSize))
		d.text(p.XLabel, box.Left+box.Width()/2, y, 0, canvas.HAlignCenter, canvas.VAlignBaseline, labelFontSize, drawing.ColorBlack)
	}
}

func (d *painter) legend(l canvas.Legend, box chart.Box) {
	pad := int(d.px(4))
	row := int(d.px(fontSize + 4))
	swatch := int(d.px(14))

	d.r.ResetStyle()
	d.r.SetFont(d.font)
	d.r.SetFontSize(fontSize)
	width := 0
	for _, e := range l.Entries {
		width = max(width, d.r.MeasureText(e.Label).Width())
	}
	width += swatch + 3*pad
	height := len(l.Entries)*row + pad

	left, top := box.Left+pad, box.Top+pad
	switch l.Location {
	case canvas.UpperRight, canvas.LowerRight:
		left = box.Right - pad - width
	}
	switch l.Location {
	case canvas.LowerLeft, canvas.LowerRight:
		top = box.Bottom - pad - height
	}
	frame := chart.Box{Top: top, Left: left, Right: left + width, Bottom: top + height}
	if l.Frame {
		d.fillRect(frame, drawing.ColorWhite.WithAlpha(204))
		d.frame(frame)
	}

	for i, e := range l.Entries {
		cy := top + pad + i*row + row/2
		sx := left + pad
		switch e.Swatch {
		case canvas.SwatchLine:
			d.stroke(e.Style, lineWidth)
			d.r.MoveTo(sx, cy)
			d.r.LineTo(sx+swatch, cy)
			d.r.Stroke()
		case canvas.SwatchMarker:
			d.r.ResetStyle()
			d.r.SetFillColor(e.Style.Effective())
			d.r.SetStrokeColor(e.Style.Effective())
			d.r.Circle(d.px(2), sx+swatch/2, cy)
		default:
			d.fillRect(chart.Box{Top: cy - row/3, Left: sx, Right: sx + swatch, Bottom: cy + row/3}, e.Style.Effective())
		}
		d.text(e.Label, sx+swatch+pad, cy, 0, canvas.HAlignLeft, canvas.VAlignMiddle, fontSize, drawing.ColorBlack)
	}
}

// defaultXTicks picks date ticks for ranges that look like dates after 1980.
func defaultXTicks(r canvas.Range, label canvas.Formatter) (canvas.Locator, canvas.Formatter) {
	if canvas.IsDateRange(r) {
		if label == nil {
			label = canvas.DateFormatter{Layout: "2006-01-02"}
		}
		return canvas.AutoDateLocator{}, label
	}
	return canvas.AutoLocator{}, label
}

// decimalsFor returns the fraction digits needed to tell tick values apart.
func decimalsFor(values []float64) int {
	if len(values) < 2 {
		return 0
	}
	step := math.Abs(values[1] - values[0])
	for dec := 0; dec < 6; dec++ {
		scaled := step * math.Pow(10, float64(dec))
		if math.Abs(scaled-math.Round(scaled)) < 1e-9 {
			return dec
		}
	}
	return 6
}
