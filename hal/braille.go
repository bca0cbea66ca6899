package hal

import (
	"image"
	"image/color"
)

// brailleBuf is a terminal canvas of w x h cells, each cell a 2x4 grid of micro-pixels.
type brailleBuf struct {
	w, h int       // in cells
	m    [][]uint8 // per-cell 8-bit mask
}

func newBrailleBuf(w, h int) *brailleBuf {
	m := make([][]uint8, h)
	for i := range m {
		m[i] = make([]uint8, w)
	}
	return &brailleBuf{w: w, h: h, m: m}
}

// setPixel sets a micro-pixel at micro coords (2x4 per cell)
func (b *brailleBuf) setPixel(mx, my int) {
	if mx < 0 || my < 0 {
		return
	}
	cx, rx := mx/2, mx%2
	cy, ry := my/4, my%4
	if cy >= b.h || cx >= b.w {
		return
	}
	b.m[cy][cx] |= brailleBits[rx][ry]
}

// Dot bits per column (left, right) and row, in Unicode braille order.
var brailleBits = [2][4]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

// plotImage sets every micro-pixel whose image color differs noticeably from bg.
// img is expected to be exactly (2*w) x (4*h).
func (b *brailleBuf) plotImage(img *image.RGBA, bg color.RGBA) {
	r := img.Bounds()
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if colorDistance(img.RGBAAt(x, y), bg) > brailleThreshold {
				b.setPixel(x-r.Min.X, y-r.Min.Y)
			}
		}
	}
}

const brailleThreshold = 24

func colorDistance(a, b color.RGBA) int {
	d := absInt(int(a.R)-int(b.R)) + absInt(int(a.G)-int(b.G)) + absInt(int(a.B)-int(b.B))
	return d
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func (b *brailleBuf) toLines() []string {
	out := make([]string, b.h)
	row := make([]rune, b.w)
	for y := 0; y < b.h; y++ {
		for x := 0; x < b.w; x++ {
			mask := b.m[y][x]
			if mask == 0 {
				row[x] = ' '
			} else {
				row[x] = rune(0x2800 + int(mask))
			}
		}
		out[y] = string(row)
	}
	return out
}
