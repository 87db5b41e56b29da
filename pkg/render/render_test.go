package render

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitglue/coursemap/pkg/coursemap"
	"github.com/fitglue/coursemap/pkg/testing/fixtures"
)

func buildLoop(t *testing.T) *coursemap.Course {
	t.Helper()
	c, err := coursemap.Build(fixtures.Loop(200), coursemap.DefaultConfig())
	require.NoError(t, err)
	return c
}

func TestCamera_TopDown(t *testing.T) {
	cam := newCamera(90, -90)
	x, y := cam.project(vec3{1, 0, 0})
	assert.InDelta(t, 1, x, 1e-9)
	assert.InDelta(t, 0, y, 1e-9)
	x, y = cam.project(vec3{0, 1, 0})
	assert.InDelta(t, 0, x, 1e-9)
	assert.InDelta(t, 1, y, 1e-9)
	// altitude points straight at the viewer
	x, y = cam.project(vec3{0, 0, 1})
	assert.InDelta(t, 0, x, 1e-9)
	assert.InDelta(t, 0, y, 1e-9)
}

func TestScene_Orientation(t *testing.T) {
	c := buildLoop(t)
	box := c.Layout.Box
	sc := newScene(box, newCamera(60, -86), 800, 800)

	wx, _ := sc.ground(box.West, box.VCenter)
	ex, _ := sc.ground(box.East, box.VCenter)
	assert.Less(t, wx, ex, "east is right of west")

	_, ny := sc.ground(box.HCenter, box.North)
	_, sy := sc.ground(box.HCenter, box.South)
	assert.Less(t, ny, sy, "north is above south")

	_, low := sc.point(box.HCenter, box.VCenter, box.Bottom)
	_, high := sc.point(box.HCenter, box.VCenter, box.Top)
	assert.Less(t, high, low, "higher altitude is drawn higher")

	for _, p := range [][2]float64{{box.West, box.South}, {box.East, box.North}} {
		for _, alt := range []float64{box.Bottom, box.Top} {
			x, y := sc.point(p[0], p[1], alt)
			assert.True(t, x >= 0 && x <= 800 && y >= 0 && y <= 800, "box corner (%v, %v) off image", x, y)
		}
	}
}

func TestRender(t *testing.T) {
	c := buildLoop(t)
	opts := DefaultOptions()
	opts.Width, opts.Height = 400, 300
	opts.Title = `course plot by "loop.fit"`
	opts.Info = "running for 1.234km\n2024-04-07 15:30:00"
	opts.Footnote = "coursemap"

	img, err := Render(c, nil, opts)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 400, 300), img.Bounds())

	data, err := EncodePNG(img)
	require.NoError(t, err)
	decoded, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, img.Bounds(), decoded.Bounds())
}

func TestRender_Underlay(t *testing.T) {
	c := buildLoop(t)
	red := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for i := 0; i < len(red.Pix); i += 4 {
		red.Pix[i], red.Pix[i+3] = 255, 255
	}

	opts := DefaultOptions()
	opts.Width, opts.Height = 400, 400
	opts.CurtainAlpha = 0
	opts.MapAlpha = 1

	sc := newScene(c.Layout.Box, newCamera(opts.Elevation, opts.Azimuth), opts.Width, opts.Height)
	cx, cy := sc.ground(c.Layout.Box.HCenter, c.Layout.Box.VCenter)

	img, err := Render(c, red, opts)
	require.NoError(t, err)
	r, g, b, _ := img.At(int(cx), int(cy)).RGBA()
	assert.Greater(t, r>>8, uint32(150))
	assert.Less(t, g>>8, uint32(120))
	assert.Less(t, b>>8, uint32(120))

	plain, err := Render(c, nil, opts)
	require.NoError(t, err)
	r, g, b, _ = plain.At(int(cx), int(cy)).RGBA()
	assert.Greater(t, r>>8, uint32(200))
	assert.Greater(t, g>>8, uint32(200))
	assert.Greater(t, b>>8, uint32(200))
}

func TestRender_Errors(t *testing.T) {
	_, err := Render(nil, nil, DefaultOptions())
	assert.ErrorIs(t, err, ErrNothingToDraw)

	c := buildLoop(t)
	opts := DefaultOptions()
	opts.Width = 0
	_, err = Render(c, nil, opts)
	assert.Error(t, err)

	opts = DefaultOptions()
	opts.CurtainAlpha = 1.5
	_, err = Render(c, nil, opts)
	assert.Error(t, err)
}

func TestFade(t *testing.T) {
	img := image.NewRGBA(image.Rect(10, 10, 12, 12))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+3] = 255, 255
	}

	out := fade(img, 0.5)
	assert.Equal(t, image.Rect(0, 0, 2, 2), out.Bounds())
	px := out.RGBAAt(1, 1)
	assert.InDelta(t, 128, int(px.A), 1)
	assert.InDelta(t, 128, int(px.R), 1)
	assert.Equal(t, color.RGBA{}, fade(img, 0).RGBAAt(0, 0))
}
