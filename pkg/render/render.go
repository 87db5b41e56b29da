// Package render draws a course as coloured vertical curtains in a 3D box.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"strings"

	"github.com/fogleman/gg"

	"github.com/fitglue/coursemap/pkg/coursemap"
	"github.com/fitglue/coursemap/pkg/domain/colorscale"
)

var ErrNothingToDraw = errors.New("course has no drawable extent")

type Options struct {
	Width        int
	Height       int
	Elevation    float64
	Azimuth      float64
	CurtainAlpha float64
	MapAlpha     float64
	Title        string
	Info         string
	Footnote     string
}

func DefaultOptions() Options {
	return Options{
		Width:        1100,
		Height:       1100,
		Elevation:    60,
		Azimuth:      -86,
		CurtainAlpha: 0.1,
		MapAlpha:     0.1,
	}
}

func (o Options) validate() error {
	if o.Width <= 0 || o.Height <= 0 {
		return fmt.Errorf("image size must be positive, got %dx%d", o.Width, o.Height)
	}
	for name, a := range map[string]float64{"curtain": o.CurtainAlpha, "map": o.MapAlpha} {
		if a < 0 || a > 1 || math.IsNaN(a) {
			return fmt.Errorf("%s alpha must be within [0, 1], got %v", name, a)
		}
	}
	return nil
}

// Render draws the course. underlay, when not nil, is stretched over the bottom plane of
// the padded box with north at the top of the image.
func Render(c *coursemap.Course, underlay image.Image, opts Options) (image.Image, error) {
	if c == nil || c.Layout == nil || c.Len() == 0 {
		return nil, ErrNothingToDraw
	}
	if c.Layout.Degenerate() {
		return nil, fmt.Errorf("%w: zero span", ErrNothingToDraw)
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}

	box := c.Layout.Box
	sc := newScene(box, newCamera(opts.Elevation, opts.Azimuth), opts.Width, opts.Height)

	dc := gg.NewContext(opts.Width, opts.Height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	if underlay != nil && opts.MapAlpha > 0 {
		drawUnderlay(dc, sc, underlay, opts.MapAlpha)
	}
	drawFrame(dc, sc)

	n := c.Len()
	dc.SetLineWidth(1)
	for i := 0; i < n; i++ {
		setColor(dc, colorscale.Jet(c.Color[i]), opts.CurtainAlpha)
		x0, y0 := sc.point(c.X[i], c.Y[i], c.Altitude[i])
		x1, y1 := sc.ground(c.X[i], c.Y[i])
		dc.DrawLine(x0, y0, x1, y1)
		dc.Stroke()
	}

	// shadow on the bottom plane, then the trace along the curtain edge
	dc.SetRGBA(0, 0, 0, 0.1)
	for i := 0; i < n; i++ {
		dc.LineTo(sc.ground(c.X[i], c.Y[i]))
	}
	dc.Stroke()
	dc.SetRGBA(0, 0, 0, 0.2)
	for i := 0; i < n; i++ {
		dc.LineTo(sc.point(c.X[i], c.Y[i], c.Altitude[i]))
	}
	dc.Stroke()

	for _, m := range c.Markers {
		x, y := sc.point(c.X[m.Index], c.Y[m.Index], c.Altitude[m.Index])
		markText(dc, x, y, 2, m.Label+"km", colorscale.Jet(c.Color[m.Index]), 0.99, 0.5)
	}

	first, last := 0, n-1
	x, y := sc.point(c.X[first], c.Y[first], c.Altitude[first])
	markText(dc, x, y, 7, "start", color.RGBA{G: 255, A: 255}, 0.5, 0)
	x, y = sc.point(c.X[last], c.Y[last], c.Altitude[last])
	markText(dc, x, y, 7, "fin", color.RGBA{R: 255, A: 255}, 0.5, 1)

	black := color.RGBA{A: 255}
	for _, d := range []struct {
		label string
		x, y  float64
	}{
		{"W", box.West, box.VCenter},
		{"E", box.East, box.VCenter},
		{"S", box.HCenter, box.South},
		{"N", box.HCenter, box.North},
	} {
		x, y := sc.ground(d.x, d.y)
		markText(dc, x, y, 0, d.label, black, 0.2, 0.5)
	}

	drawTexts(dc, opts)
	return dc.Image(), nil
}

// drawUnderlay maps the image onto the bottom plane. The plane projects to a
// parallelogram, so one affine transform covers it.
func drawUnderlay(dc *gg.Context, sc scene, img image.Image, alpha float64) {
	b := img.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())
	if w == 0 || h == 0 {
		return
	}
	ox, oy := sc.ground(sc.box.West, sc.box.North)
	ux, uy := sc.ground(sc.box.East, sc.box.North)
	vx, vy := sc.ground(sc.box.West, sc.box.South)

	a, c := (ux-ox)/w, (uy-oy)/w
	bb, d := (vx-ox)/h, (vy-oy)/h

	// split [a bb; c d] into rotation, shear and scale
	r11 := math.Hypot(a, c)
	theta := math.Atan2(c, a)
	cos, sin := math.Cos(theta), math.Sin(theta)
	r12 := cos*bb + sin*d
	r22 := -sin*bb + cos*d
	if r11 == 0 || math.Abs(r22) < 1e-9 {
		return
	}

	dc.Push()
	dc.Translate(ox, oy)
	dc.Rotate(theta)
	dc.Shear(r12/r22, 0)
	dc.Scale(r11, r22)
	dc.DrawImage(fade(img, alpha), 0, 0)
	dc.Pop()
}

func fade(img image.Image, alpha float64) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	mask := image.NewUniform(color.Alpha{A: uint8(math.Round(alpha * 255))})
	draw.DrawMask(out, out.Bounds(), img, b.Min, mask, image.Point{}, draw.Src)
	return out
}

// drawFrame outlines the bottom of the padded box.
func drawFrame(dc *gg.Context, sc scene) {
	box := sc.box
	dc.SetRGBA(0, 0, 0, 0.15)
	dc.SetLineWidth(1)
	dc.MoveTo(sc.ground(box.West, box.South))
	dc.LineTo(sc.ground(box.East, box.South))
	dc.LineTo(sc.ground(box.East, box.North))
	dc.LineTo(sc.ground(box.West, box.North))
	dc.ClosePath()
	dc.Stroke()
}

// markText draws a dot and a label above it. ax anchors the label horizontally:
// 0 left, 0.5 centre, 1 right.
func markText(dc *gg.Context, x, y, radius float64, text string, c color.RGBA, alpha, ax float64) {
	setColor(dc, c, alpha)
	if radius > 0 {
		dc.DrawCircle(x, y, radius)
		dc.Fill()
	}
	dc.DrawStringAnchored(text, x, y-radius-2, ax, 0)
}

func drawTexts(dc *gg.Context, opts Options) {
	w, h := float64(opts.Width), float64(opts.Height)
	lh := dc.FontHeight() * 1.4
	dc.SetRGBA(0, 0, 0, 0.5)
	if opts.Title != "" {
		dc.DrawStringAnchored(opts.Title, 0.2*w, 0.08*h, 0, 1)
	}
	for i, line := range strings.Split(opts.Info, "\n") {
		if line != "" {
			dc.DrawStringAnchored(line, 0.8*w, 0.08*h+float64(i)*lh, 1, 1)
		}
	}
	if opts.Footnote != "" {
		dc.DrawStringAnchored(opts.Footnote, 0.8*w, 0.9*h, 1, 0)
	}
}

func setColor(dc *gg.Context, c color.RGBA, alpha float64) {
	dc.SetRGBA(float64(c.R)/255, float64(c.G)/255, float64(c.B)/255, alpha)
}

func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding PNG: %w", err)
	}
	return buf.Bytes(), nil
}
