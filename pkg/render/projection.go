package render

import (
	"math"

	"github.com/fitglue/coursemap/pkg/domain/geometry"
)

// zAspect is the height of the altitude axis relative to the horizontal box edge.
const zAspect = 0.75

type vec3 struct{ X, Y, Z float64 }

func (a vec3) dot(b vec3) float64 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z
}

// camera is an orthographic view looking at the origin from the given elevation and
// azimuth, in degrees. Azimuth is measured counter-clockwise from the +x (east) axis.
type camera struct {
	right vec3
	up    vec3
}

func newCamera(elevation, azimuth float64) camera {
	e := elevation * math.Pi / 180
	a := azimuth * math.Pi / 180
	return camera{
		right: vec3{-math.Sin(a), math.Cos(a), 0},
		up:    vec3{-math.Sin(e) * math.Cos(a), -math.Sin(e) * math.Sin(a), math.Cos(e)},
	}
}

func (c camera) project(p vec3) (float64, float64) {
	return p.dot(c.right), p.dot(c.up)
}

// scene maps course coordinates (km east, km north, metres) into image pixels.
// The padded box becomes a unit square centred on the origin.
type scene struct {
	box    geometry.Box
	cam    camera
	scale  float64
	cx, cy float64
}

func newScene(box geometry.Box, cam camera, width, height int) scene {
	s := scene{box: box, cam: cam}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, x := range []float64{-0.5, 0.5} {
		for _, y := range []float64{-0.5, 0.5} {
			for _, z := range []float64{-zAspect / 2, zAspect / 2} {
				px, py := cam.project(vec3{x, y, z})
				minX, maxX = math.Min(minX, px), math.Max(maxX, px)
				minY, maxY = math.Min(minY, py), math.Max(maxY, py)
			}
		}
	}

	// leave room for the header and footer texts
	w, h := float64(width)*0.8, float64(height)*0.7
	s.scale = math.Min(w/(maxX-minX), h/(maxY-minY))
	s.cx = float64(width)/2 - s.scale*(minX+maxX)/2
	s.cy = float64(height)/2 + s.scale*(minY+maxY)/2
	return s
}

func (s scene) world(x, y, alt float64) vec3 {
	z := -zAspect / 2
	if s.box.Top > s.box.Bottom {
		z = zAspect * ((alt-s.box.Bottom)/(s.box.Top-s.box.Bottom) - 0.5)
	}
	return vec3{(x - s.box.HCenter) / s.box.Span, (y - s.box.VCenter) / s.box.Span, z}
}

func (s scene) pixel(p vec3) (float64, float64) {
	sx, sy := s.cam.project(p)
	return s.cx + sx*s.scale, s.cy - sy*s.scale
}

// point projects a course coordinate to pixels.
func (s scene) point(x, y, alt float64) (float64, float64) {
	return s.pixel(s.world(x, y, alt))
}

// ground projects a course coordinate onto the bottom plane.
func (s scene) ground(x, y float64) (float64, float64) {
	return s.point(x, y, s.box.Bottom)
}
