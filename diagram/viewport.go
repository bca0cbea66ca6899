package diagram

import (
	"fmt"
	"math"
)

// Viewport is the rectangle of math space shown on the pixel buffer.
//
// Bounds are only ever replaced together, and only with min < max on both axes. The zero
// Viewport is not valid; start from DefaultViewport or NewViewport.
type Viewport struct {
	minX, maxX float64
	minY, maxY float64
}

// DefaultViewport returns [-10,10] x [-10,10].
func DefaultViewport() Viewport {
	return Viewport{minX: -10, maxX: 10, minY: -10, maxY: 10}
}

// NewViewport returns a viewport with the given bounds or ErrInvalidViewport.
func NewViewport(minX, maxX, minY, maxY float64) (Viewport, error) {
	if err := checkBounds(minX, maxX, minY, maxY); err != nil {
		return Viewport{}, err
	}
	return Viewport{minX: minX, maxX: maxX, minY: minY, maxY: maxY}, nil
}

func checkBounds(minX, maxX, minY, maxY float64) error {
	for _, v := range [...]float64{minX, maxX, minY, maxY} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("bounds x=[%g,%g] y=[%g,%g] not finite: %w", minX, maxX, minY, maxY, ErrInvalidViewport)
		}
	}
	if minX >= maxX {
		return fmt.Errorf("min_x %g >= max_x %g: %w", minX, maxX, ErrInvalidViewport)
	}
	if minY >= maxY {
		return fmt.Errorf("min_y %g >= max_y %g: %w", minY, maxY, ErrInvalidViewport)
	}
	// Extents that overflow would make the transform divide by +Inf.
	if math.IsInf(maxX-minX, 0) || math.IsInf(maxY-minY, 0) {
		return fmt.Errorf("extent overflows: %w", ErrInvalidViewport)
	}
	return nil
}

func (v Viewport) MinX() float64 { return v.minX }
func (v Viewport) MaxX() float64 { return v.maxX }
func (v Viewport) MinY() float64 { return v.minY }
func (v Viewport) MaxY() float64 { return v.maxY }

// Bounds returns all four bounds in SetBounds order.
func (v Viewport) Bounds() (minX, maxX, minY, maxY float64) {
	return v.minX, v.maxX, v.minY, v.maxY
}

func (v Viewport) Width() float64  { return v.maxX - v.minX }
func (v Viewport) Height() float64 { return v.maxY - v.minY }

func (v Viewport) Center() Point {
	return Point{X: v.minX + v.Width()/2, Y: v.minY + v.Height()/2}
}

// Contains reports whether p lies inside the viewport, edges included.
func (v Viewport) Contains(p Point) bool {
	return p.X >= v.minX && p.X <= v.maxX && p.Y >= v.minY && p.Y <= v.maxY
}

func (v Viewport) String() string {
	return fmt.Sprintf("x=[%g,%g] y=[%g,%g]", v.minX, v.maxX, v.minY, v.maxY)
}

// SetBounds replaces all four bounds. Invalid bounds are rejected with ErrInvalidViewport
// and the current bounds are kept.
func (v *Viewport) SetBounds(minX, maxX, minY, maxY float64) error {
	if err := checkBounds(minX, maxX, minY, maxY); err != nil {
		return err
	}
	*v = Viewport{minX: minX, maxX: maxX, minY: minY, maxY: maxY}
	return nil
}

// RecenterOnPixel pans so that the math point under pixel (px, py) of a w x h buffer
// becomes the center, keeping the current width and height.
func (v *Viewport) RecenterOnPixel(px, py float64, w, h int) error {
	if w <= 0 || h <= 0 {
		return fmt.Errorf("recenter on %dx%d buffer: %w", w, h, ErrInvalidSize)
	}
	if math.IsNaN(px) || math.IsInf(px, 0) || math.IsNaN(py) || math.IsInf(py, 0) {
		return fmt.Errorf("recenter on pixel (%g,%g): %w", px, py, ErrNonFinite)
	}
	tf := NewTransform(*v, w, h)
	hw := float64(w) / 2
	hh := float64(h) / 2
	return v.SetBounds(
		tf.ToMathX(px-hw),
		tf.ToMathX(px+hw),
		tf.ToMathY(py+hh),
		tf.ToMathY(py-hh),
	)
}

// Reset moves the viewport back to the origin without changing its extent.
func (v *Viewport) Reset() error {
	hx := v.Width() / 2
	hy := v.Height() / 2
	return v.SetBounds(-hx, hx, -hy, hy)
}
