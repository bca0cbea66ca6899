package diagram

import (
	"fmt"
	"image/color"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

// bufDisplay lets tinyfont draw into a PixelBuffer.
type bufDisplay struct {
	b *PixelBuffer
}

var _ drivers.Displayer = bufDisplay{}

func (d bufDisplay) Size() (x, y int16) {
	return int16(clampInt(d.b.w, 0, 1<<15-1)), int16(clampInt(d.b.h, 0, 1<<15-1))
}

func (d bufDisplay) SetPixel(x, y int16, c color.RGBA) {
	d.b.SetPixel(int(x), int(y), c)
}

func (d bufDisplay) Display() error { return nil }

var overlayFont tinyfont.Fonter = &proggy.TinySZ8pt7b

// Text baselines of the overlay lines, in pixels.
const (
	overlayX     = 10
	overlayLine0 = 20
	overlayStep  = 20
)

// drawOverlay writes the cursor readout and, if set, the status message.
func drawOverlay(b *PixelBuffer, cursor Point, message string) {
	d := bufDisplay{b: b}
	lines := []string{
		"x " + formatCoord(cursor.X),
		"y " + formatCoord(cursor.Y),
	}
	if message != "" {
		lines = append(lines, message)
	}
	for i, s := range lines {
		tinyfont.WriteLine(d, overlayFont, overlayX, int16(overlayLine0+i*overlayStep), s, ColorText)
	}
}

func formatCoord(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
