package diagram

import (
	"fmt"
	"image/color"
)

// PixelBuffer is a fixed-size RGBA8888 pixel grid in image.RGBA memory layout.
//
// Every drawing method clips: writes outside [0,w) x [0,h) are dropped silently.
// PixelBuffer is not safe for concurrent use.
type PixelBuffer struct {
	w, h   int
	stride int
	pix    []byte
}

// NewPixelBuffer allocates a w x h buffer.
func NewPixelBuffer(w, h int) (*PixelBuffer, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("pixel buffer %dx%d: %w", w, h, ErrInvalidSize)
	}
	return &PixelBuffer{w: w, h: h, stride: w * 4, pix: make([]byte, w*h*4)}, nil
}

func (b *PixelBuffer) Width() int  { return b.w }
func (b *PixelBuffer) Height() int { return b.h }

// Stride returns the number of bytes per row.
func (b *PixelBuffer) Stride() int { return b.stride }

// Pix returns the backing pixel slice. It is rewritten by every frame.
func (b *PixelBuffer) Pix() []byte { return b.pix }

// At returns the pixel at (x, y), or the zero color outside the buffer.
func (b *PixelBuffer) At(x, y int) color.RGBA {
	if x < 0 || y < 0 || x >= b.w || y >= b.h {
		return color.RGBA{}
	}
	off := y*b.stride + x*4
	return color.RGBA{R: b.pix[off], G: b.pix[off+1], B: b.pix[off+2], A: b.pix[off+3]}
}

func (b *PixelBuffer) SetPixel(x, y int, c color.RGBA) {
	if x < 0 || y < 0 || x >= b.w || y >= b.h {
		return
	}
	off := y*b.stride + x*4
	b.pix[off] = c.R
	b.pix[off+1] = c.G
	b.pix[off+2] = c.B
	b.pix[off+3] = c.A
}

// Clear fills the whole buffer with c.
func (b *PixelBuffer) Clear(c color.RGBA) {
	if len(b.pix) == 0 {
		return
	}
	b.pix[0], b.pix[1], b.pix[2], b.pix[3] = c.R, c.G, c.B, c.A
	// Double the filled prefix until the buffer is full.
	for n := 4; n < len(b.pix); n *= 2 {
		copy(b.pix[n:], b.pix[:n])
	}
}

// FillRect fills the width x height rectangle whose top-left corner is (x, y).
func (b *PixelBuffer) FillRect(x, y, width, height int, c color.RGBA) {
	x0 := clampInt(x, 0, b.w)
	y0 := clampInt(y, 0, b.h)
	x1 := clampInt(x+width, 0, b.w)
	y1 := clampInt(y+height, 0, b.h)
	for py := y0; py < y1; py++ {
		for px := x0; px < x1; px++ {
			b.SetPixel(px, py, c)
		}
	}
}

// DrawLine draws the segment from (x0, y0) to (x1, y1) with both endpoints included.
// Segments reaching outside the buffer are clipped before rasterizing.
func (b *PixelBuffer) DrawLine(x0, y0, x1, y1 int, c color.RGBA) {
	if !b.inside(x0, y0) || !b.inside(x1, y1) {
		cx0, cy0, cx1, cy1, ok := clipLineToRect(
			float64(x0), float64(y0), float64(x1), float64(y1),
			0, 0, float64(b.w-1), float64(b.h-1),
		)
		if !ok {
			return
		}
		x0, y0 = int(roundHalfUp(cx0)), int(roundHalfUp(cy0))
		x1, y1 = int(roundHalfUp(cx1)), int(roundHalfUp(cy1))
	}

	dx := absInt(x1 - x0)
	dy := -absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		b.SetPixel(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func (b *PixelBuffer) inside(x, y int) bool {
	return x >= 0 && y >= 0 && x < b.w && y < b.h
}

// clipLineToRect clips a segment to the rectangle (Liang-Barsky).
func clipLineToRect(x0, y0, x1, y1, xmin, ymin, xmax, ymax float64) (cx0, cy0, cx1, cy1 float64, ok bool) {
	dx := x1 - x0
	dy := y1 - y0
	u1 := 0.0
	u2 := 1.0

	p := [4]float64{-dx, dx, -dy, dy}
	q := [4]float64{x0 - xmin, xmax - x0, y0 - ymin, ymax - y0}
	for i := 0; i < 4; i++ {
		if p[i] == 0 {
			if q[i] < 0 {
				return 0, 0, 0, 0, false
			}
			continue
		}
		t := q[i] / p[i]
		if p[i] < 0 {
			if t > u2 {
				return 0, 0, 0, 0, false
			}
			if t > u1 {
				u1 = t
			}
		} else {
			if t < u1 {
				return 0, 0, 0, 0, false
			}
			if t < u2 {
				u2 = t
			}
		}
	}

	cx0 = clampFloat(x0+u1*dx, xmin, xmax)
	cy0 = clampFloat(y0+u1*dy, ymin, ymax)
	cx1 = clampFloat(x0+u2*dx, xmin, xmax)
	cy1 = clampFloat(y0+u2*dy, ymin, ymax)
	return cx0, cy0, cx1, cy1, true
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
