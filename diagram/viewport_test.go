package diagram

import (
	"errors"
	"math"
	"testing"
)

func wantBounds(t *testing.T, vp Viewport, minX, maxX, minY, maxY float64) {
	t.Helper()
	a, b, c, d := vp.Bounds()
	if a != minX || b != maxX || c != minY || d != maxY {
		t.Fatalf("bounds = %v, want x=[%g,%g] y=[%g,%g]", vp, minX, maxX, minY, maxY)
	}
}

func TestNewViewportRejectsInvalid(t *testing.T) {
	cases := [][4]float64{
		{1, 1, 0, 1},
		{2, 1, 0, 1},
		{0, 1, 3, -3},
		{0, 10, 5, 5},
		{math.NaN(), 1, 0, 1},
		{0, math.Inf(1), 0, 1},
		{-math.MaxFloat64, math.MaxFloat64, 0, 1},
	}
	for _, c := range cases {
		if _, err := NewViewport(c[0], c[1], c[2], c[3]); !errors.Is(err, ErrInvalidViewport) {
			t.Fatalf("NewViewport(%v) err = %v, want ErrInvalidViewport", c, err)
		}
	}
}

func TestViewportSetBoundsKeepsOldOnError(t *testing.T) {
	vp := DefaultViewport()
	if err := vp.SetBounds(5, 5, 0, 1); !errors.Is(err, ErrInvalidViewport) {
		t.Fatalf("SetBounds err = %v, want ErrInvalidViewport", err)
	}
	wantBounds(t, vp, -10, 10, -10, 10)

	if err := vp.SetBounds(-1, 3, 2, 4); err != nil {
		t.Fatalf("SetBounds: %v", err)
	}
	wantBounds(t, vp, -1, 3, 2, 4)
}

func TestViewportRecenterOnPixel(t *testing.T) {
	vp := DefaultViewport()
	// Pixel (528,120) is math (5,5) on a 704x480 buffer.
	if err := vp.RecenterOnPixel(528, 120, 704, 480); err != nil {
		t.Fatalf("RecenterOnPixel: %v", err)
	}
	wantBounds(t, vp, -5, 15, -5, 15)
	if c := vp.Center(); c != (Point{X: 5, Y: 5}) {
		t.Fatalf("Center() = %+v, want (5,5)", c)
	}
}

func TestViewportRecenterOnCenterIsNoop(t *testing.T) {
	vp := DefaultViewport()
	if err := vp.RecenterOnPixel(352, 240, 704, 480); err != nil {
		t.Fatalf("RecenterOnPixel: %v", err)
	}
	wantBounds(t, vp, -10, 10, -10, 10)
}

func TestViewportRecenterPreservesExtentOddSize(t *testing.T) {
	vp := DefaultViewport()
	if err := vp.RecenterOnPixel(0, 0, 101, 51); err != nil {
		t.Fatalf("RecenterOnPixel: %v", err)
	}
	if w, h := vp.Width(), vp.Height(); math.Abs(w-20) > 1e-9 || math.Abs(h-20) > 1e-9 {
		t.Fatalf("extent = %v x %v, want 20 x 20", w, h)
	}
	if c := vp.Center(); math.Abs(c.X+10) > 1e-9 || math.Abs(c.Y-10) > 1e-9 {
		t.Fatalf("Center() = %+v, want (-10,10)", c)
	}
}

func TestViewportRecenterRejects(t *testing.T) {
	vp := DefaultViewport()
	if err := vp.RecenterOnPixel(math.NaN(), 0, 704, 480); !errors.Is(err, ErrNonFinite) {
		t.Fatalf("RecenterOnPixel(NaN) err = %v, want ErrNonFinite", err)
	}
	if err := vp.RecenterOnPixel(1, 1, 0, 480); !errors.Is(err, ErrInvalidSize) {
		t.Fatalf("RecenterOnPixel(w=0) err = %v, want ErrInvalidSize", err)
	}
	wantBounds(t, vp, -10, 10, -10, 10)
}

func TestViewportReset(t *testing.T) {
	vp, err := NewViewport(0, 4, 1, 3)
	if err != nil {
		t.Fatalf("NewViewport: %v", err)
	}
	if err := vp.Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	wantBounds(t, vp, -2, 2, -1, 1)
}

func TestViewportContains(t *testing.T) {
	vp := DefaultViewport()
	if !vp.Contains(Point{X: 10, Y: -10}) {
		t.Fatal("edge point should be contained")
	}
	if vp.Contains(Point{X: 10.5, Y: 0}) {
		t.Fatal("outside point should not be contained")
	}
}
