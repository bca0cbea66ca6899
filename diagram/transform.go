package diagram

import "math"

// Point is a location in math space.
type Point struct {
	X, Y float64
}

// maxPixelCoord bounds converted pixel coordinates so geometry far outside the viewport
// never overflows int arithmetic in the raster primitives.
const maxPixelCoord = 1 << 30

// Transform maps between a viewport and a w x h pixel grid.
//
// Pixel row 0 is the top edge (max_y). Conversions to pixels round half up, so the bottom
// edge min_y maps to row h, one past the last row.
type Transform struct {
	vp   Viewport
	w, h int
}

// NewTransform returns the transform for vp onto a w x h buffer.
// vp must be valid and w, h positive; Viewport and Diagram guarantee both.
func NewTransform(vp Viewport, w, h int) Transform {
	return Transform{vp: vp, w: w, h: h}
}

func (t Transform) Viewport() Viewport { return t.vp }
func (t Transform) Size() (w, h int)   { return t.w, t.h }

func (t Transform) pixelX(mx float64) float64 {
	return float64(t.w) * (mx - t.vp.minX) / (t.vp.maxX - t.vp.minX)
}

func (t Transform) pixelY(my float64) float64 {
	return float64(t.h) * (t.vp.maxY - my) / (t.vp.maxY - t.vp.minY)
}

func (t Transform) ToPixelX(mx float64) int { return roundPixel(t.pixelX(mx)) }
func (t Transform) ToPixelY(my float64) int { return roundPixel(t.pixelY(my)) }

// ToPixel converts a math-space point to pixel coordinates.
func (t Transform) ToPixel(p Point) (x, y int) {
	return t.ToPixelX(p.X), t.ToPixelY(p.Y)
}

func (t Transform) ToMathX(px float64) float64 {
	return px*(t.vp.maxX-t.vp.minX)/float64(t.w) + t.vp.minX
}

func (t Transform) ToMathY(py float64) float64 {
	return -(py*(t.vp.maxY-t.vp.minY)/float64(t.h) - t.vp.maxY)
}

// ToMath converts pixel coordinates to the math-space point they represent.
func (t Transform) ToMath(px, py float64) Point {
	return Point{X: t.ToMathX(px), Y: t.ToMathY(py)}
}

// PixelWidth returns the math-space size of one pixel on each axis.
func (t Transform) PixelWidth() (dx, dy float64) {
	return t.vp.Width() / float64(t.w), t.vp.Height() / float64(t.h)
}

func roundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}

func roundPixel(v float64) int {
	r := roundHalfUp(v)
	switch {
	case math.IsNaN(r):
		return -maxPixelCoord
	case r > maxPixelCoord:
		return maxPixelCoord
	case r < -maxPixelCoord:
		return -maxPixelCoord
	}
	return int(r)
}
