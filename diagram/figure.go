package diagram

import (
	"image/color"
	"math"
)

var (
	ColorBackground = color.RGBA{R: 0x40, G: 0x40, B: 0x40, A: 0xFF}
	ColorAxis       = color.RGBA{R: 0xC0, G: 0xC0, B: 0xC0, A: 0xFF}
	ColorHighlight  = color.RGBA{R: 0x00, G: 0xFF, B: 0xFF, A: 0xFF}
	ColorDefault    = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	ColorText       = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
)

// FigureKind tags the variant held by a Figure.
type FigureKind uint8

const (
	KindPoint FigureKind = iota + 1
	KindPolygon
)

func (k FigureKind) String() string {
	switch k {
	case KindPoint:
		return "point"
	case KindPolygon:
		return "polygon"
	default:
		return "invalid"
	}
}

// pointSize is the side of the square a point is drawn as.
const pointSize = 3

// Figure is an immutable drawable: either a point or a four-vertex polygon outline.
type Figure struct {
	kind  FigureKind
	color color.RGBA
	verts [4]Point
}

// NewPoint returns a point figure. A zero (fully transparent) color selects ColorDefault.
func NewPoint(x, y float64, c color.RGBA) Figure {
	if c.A == 0 {
		c = ColorDefault
	}
	return Figure{kind: KindPoint, color: c, verts: [4]Point{{X: x, Y: y}}}
}

// NewPolygon returns a closed quadrilateral outline drawn tl -> tr -> br -> bl -> tl.
// A zero (fully transparent) color selects ColorDefault.
func NewPolygon(tl, tr, br, bl Point, c color.RGBA) Figure {
	if c.A == 0 {
		c = ColorDefault
	}
	return Figure{kind: KindPolygon, color: c, verts: [4]Point{tl, tr, br, bl}}
}

func (f Figure) Kind() FigureKind  { return f.kind }
func (f Figure) Color() color.RGBA { return f.color }

// Vertices returns a copy of the figure's points: one for a point, four for a polygon.
func (f Figure) Vertices() []Point {
	switch f.kind {
	case KindPoint:
		return []Point{f.verts[0]}
	case KindPolygon:
		out := make([]Point, 4)
		copy(out, f.verts[:])
		return out
	default:
		return nil
	}
}

func (f Figure) valid() bool {
	if f.kind != KindPoint && f.kind != KindPolygon {
		return false
	}
	for _, p := range f.Vertices() {
		if !finite(p.X) || !finite(p.Y) {
			return false
		}
	}
	return true
}

// Render draws the figure into buf through tf.
func (f Figure) Render(buf *PixelBuffer, tf Transform) {
	switch f.kind {
	case KindPoint:
		x, y := tf.ToPixel(f.verts[0])
		buf.FillRect(x-pointSize/2, y-pointSize/2, pointSize, pointSize, f.color)
	case KindPolygon:
		for i := range f.verts {
			a := f.verts[i]
			b := f.verts[(i+1)%len(f.verts)]
			drawSegment(buf, tf, a, b, f.color)
		}
	}
}

func drawSegment(buf *PixelBuffer, tf Transform, a, b Point, c color.RGBA) {
	x0, y0 := tf.ToPixel(a)
	x1, y1 := tf.ToPixel(b)
	buf.DrawLine(x0, y0, x1, y1, c)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
