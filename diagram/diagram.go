package diagram

import (
	"fmt"
	"image/color"
	"math"
	"sync"
	"time"

	"raycast/hal"
)

// Config fixes a Diagram's buffer size and frame cadence at construction.
type Config struct {
	Width  int
	Height int

	// Period is the frame period; zero selects DefaultPeriod (40 fps).
	Period time.Duration

	// Viewport is the initial viewport; the zero value selects DefaultViewport.
	Viewport Viewport
}

// Diagram is a coordinate plane rendered into a pixel buffer by a background loop.
//
// Interaction methods (AddPoint, HandleClick, HandlePointerMove, Recenter, ...) only update
// state under a lock and return immediately; rendering happens on the loop's own cadence.
type Diagram struct {
	w, h    int
	surface hal.Framebuffer
	log     hal.Logger
	loop    *Loop

	mu      sync.Mutex
	vp      Viewport
	figures []Figure
	cursor  Point
	message string

	// frameMu serializes frames over the reused buffer.
	frameMu sync.Mutex
	buf     *PixelBuffer
	// last holds the last completed frame for PixelAt.
	last []byte
}

// New builds a diagram. surface may be nil, in which case frames are rendered but not
// published; otherwise its size must equal the configured buffer size.
func New(cfg Config, surface hal.Framebuffer, log hal.Logger) (*Diagram, error) {
	buf, err := NewPixelBuffer(cfg.Width, cfg.Height)
	if err != nil {
		return nil, err
	}
	if surface != nil {
		if surface.Width() != cfg.Width || surface.Height() != cfg.Height {
			return nil, fmt.Errorf("surface %dx%d, buffer %dx%d: %w",
				surface.Width(), surface.Height(), cfg.Width, cfg.Height, ErrSurfaceSize)
		}
		if surface.Format() != hal.PixelFormatRGBA8888 || surface.StrideBytes() != buf.Stride() {
			return nil, fmt.Errorf("surface format %d stride %d: %w", surface.Format(), surface.StrideBytes(), ErrSurfaceSize)
		}
	}

	vp := cfg.Viewport
	if vp == (Viewport{}) {
		vp = DefaultViewport()
	} else if err := checkBounds(vp.Bounds()); err != nil {
		return nil, err
	}

	d := &Diagram{
		w:       cfg.Width,
		h:       cfg.Height,
		surface: surface,
		log:     log,
		vp:      vp,
		buf:     buf,
		last:    make([]byte, len(buf.Pix())),
	}
	d.loop = NewLoop(cfg.Period, d.tick, log)
	return d, nil
}

// Size returns the pixel buffer dimensions.
func (d *Diagram) Size() (w, h int) { return d.w, d.h }

// Loop returns the render loop driving this diagram.
func (d *Diagram) Loop() *Loop { return d.loop }

func (d *Diagram) Viewport() Viewport {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.vp
}

// Transform returns the current math/pixel mapping.
func (d *Diagram) Transform() Transform {
	return NewTransform(d.Viewport(), d.w, d.h)
}

// Figures returns a copy of the figure list in insertion order.
func (d *Diagram) Figures() []Figure {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Figure, len(d.figures))
	copy(out, d.figures)
	return out
}

func (d *Diagram) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.figures)
}

// Cursor returns the last math position reported by the pointer, rounded to 2 decimals.
func (d *Diagram) Cursor() Point {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cursor
}

func (d *Diagram) Message() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.message
}

// SetMessage sets the status line drawn under the cursor readout ("" hides it).
func (d *Diagram) SetMessage(s string) {
	d.mu.Lock()
	d.message = s
	d.mu.Unlock()
}

// AddPoint appends a highlighted point at (x, y).
func (d *Diagram) AddPoint(x, y float64) error {
	if !finite(x) || !finite(y) {
		return fmt.Errorf("add point (%g,%g): %w", x, y, ErrNonFinite)
	}
	return d.AddFigure(NewPoint(x, y, ColorHighlight))
}

// AddBlock appends a four-vertex polygon outline.
func (d *Diagram) AddBlock(tl, tr, br, bl Point, c color.RGBA) error {
	return d.AddFigure(NewPolygon(tl, tr, br, bl, c))
}

// AddFigure appends f. Figures are never reordered or removed.
func (d *Diagram) AddFigure(f Figure) error {
	if f.kind != KindPoint && f.kind != KindPolygon {
		return ErrInvalidFigure
	}
	if !f.valid() {
		return fmt.Errorf("add %s: %w", f.kind, ErrNonFinite)
	}
	d.mu.Lock()
	d.figures = append(d.figures, f)
	d.mu.Unlock()
	return nil
}

// SetViewport replaces the viewport bounds; invalid bounds keep the current viewport.
func (d *Diagram) SetViewport(minX, maxX, minY, maxY float64) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.vp.SetBounds(minX, maxX, minY, maxY)
}

// HandleClick pans so the clicked point becomes the center, then updates the cursor.
func (d *Diagram) HandleClick(px, py float64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.vp.RecenterOnPixel(px, py, d.w, d.h); err != nil {
		d.logf("diagram: pan to (%g,%g) rejected: %v", px, py, err)
	}
	d.setCursorLocked(px, py)
}

// HandlePointerMove updates the cursor readout only.
func (d *Diagram) HandlePointerMove(px, py float64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.setCursorLocked(px, py)
}

// Recenter moves the viewport back to the origin keeping its extent.
func (d *Diagram) Recenter() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.vp.Reset(); err != nil {
		d.logf("diagram: recenter rejected: %v", err)
	}
}

func (d *Diagram) setCursorLocked(px, py float64) {
	if !finite(px) || !finite(py) {
		return
	}
	p := NewTransform(d.vp, d.w, d.h).ToMath(px, py)
	d.cursor = Point{X: roundCents(p.X), Y: roundCents(p.Y)}
}

// roundCents rounds half-up to two decimals, symmetric in sign for readouts:
// -1.234 reads -1.23 just like 1.234 reads 1.23.
func roundCents(v float64) float64 {
	r := math.Floor(v*100+0.5) / 100
	if r == 0 {
		return 0 // no "-0.00"
	}
	return r
}

// Start begins periodic rendering.
func (d *Diagram) Start() error { return d.loop.Start() }

// Stop halts periodic rendering; a frame in progress completes.
func (d *Diagram) Stop() { d.loop.Stop() }

// Done is closed when the render loop has exited.
func (d *Diagram) Done() <-chan struct{} { return d.loop.Done() }

func (d *Diagram) tick() {
	if err := d.RenderFrame(); err != nil {
		d.logf("diagram: %v", err)
	}
}

// RenderFrame renders one frame from the current state and publishes it.
func (d *Diagram) RenderFrame() error {
	d.mu.Lock()
	vp := d.vp
	// Appends never touch elements below len, so the slice header is a stable snapshot.
	figures := d.figures
	cursor := d.cursor
	message := d.message
	d.mu.Unlock()

	d.frameMu.Lock()
	defer d.frameMu.Unlock()

	tf := NewTransform(vp, d.w, d.h)
	b := d.buf
	b.Clear(ColorBackground)
	// Axes go under the figures so a point on an axis, the origin included, keeps its color.
	drawAxes(b, tf)
	for _, f := range figures {
		f.Render(b, tf)
	}
	drawOverlay(b, cursor, message)

	copy(d.last, b.Pix())
	if d.surface == nil {
		return nil
	}
	if err := d.surface.Present(b.Pix()); err != nil {
		return fmt.Errorf("publish frame: %w", err)
	}
	return nil
}

// PixelAt returns a pixel of the last completed frame.
func (d *Diagram) PixelAt(x, y int) color.RGBA {
	if x < 0 || y < 0 || x >= d.w || y >= d.h {
		return color.RGBA{}
	}
	d.frameMu.Lock()
	defer d.frameMu.Unlock()
	off := y*d.w*4 + x*4
	return color.RGBA{R: d.last[off], G: d.last[off+1], B: d.last[off+2], A: d.last[off+3]}
}

// drawAxes draws each axis line through 0 only when 0 lies strictly inside the other range.
func drawAxes(b *PixelBuffer, tf Transform) {
	vp := tf.Viewport()
	if vp.minY < 0 && vp.maxY > 0 {
		drawSegment(b, tf, Point{X: vp.minX, Y: 0}, Point{X: vp.maxX, Y: 0}, ColorAxis)
	}
	if vp.minX < 0 && vp.maxX > 0 {
		drawSegment(b, tf, Point{X: 0, Y: vp.minY}, Point{X: 0, Y: vp.maxY}, ColorAxis)
	}
}

func (d *Diagram) logf(format string, args ...any) {
	if d.log == nil {
		return
	}
	d.log.WriteLineString(fmt.Sprintf(format, args...))
}
