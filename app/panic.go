package app

import (
	"fmt"
	"image/color"
	"runtime/debug"
	"strings"
	"unicode/utf8"

	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"

	"raycast/diagram"
	"raycast/hal"
)

var (
	panicBackground = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	panicForeground = color.RGBA{R: 0, G: 0, B: 0, A: 255}
)

const (
	panicLineHeight = 10
	panicBaseline   = 8
	panicMargin     = 4
)

// recoverStep turns a panic in Step into an error after logging it and drawing a panic screen.
// The render loop is stopped first so it cannot paint over the screen.
func (s *System) recoverStep(errp *error) {
	r := recover()
	if r == nil {
		return
	}
	stack := string(debug.Stack())

	s.logf("app: panic: %v", r)
	for _, line := range strings.Split(stack, "\n") {
		if line == "" {
			continue
		}
		s.logf("app:   %s", line)
	}

	s.d.Stop()
	<-s.d.Done()
	s.closed = true

	lines := []string{
		"Raycast Panic:",
		fmt.Sprintf("panic: %v", r),
		"stack:",
	}
	lines = append(lines, strings.Split(stack, "\n")...)
	if err := s.showPanic(lines); err != nil {
		s.logf("app: panic screen: %v", err)
	}

	*errp = fmt.Errorf("app: step panic: %v", r)
}

func (s *System) showPanic(lines []string) error {
	var fb hal.Framebuffer
	if disp := s.h.Display(); disp != nil {
		fb = disp.Framebuffer()
	}
	if fb == nil {
		return nil
	}

	buf, err := diagram.NewPixelBuffer(fb.Width(), fb.Height())
	if err != nil {
		return err
	}
	buf.Clear(panicBackground)
	drawPanicText(buf, lines)
	return fb.Present(buf.Pix())
}

func drawPanicText(buf *diagram.PixelBuffer, lines []string) {
	d := panicDisplay{b: buf}
	font := &proggy.TinySZ8pt7b
	_, outboxWidth := tinyfont.LineWidth(font, "0")
	fontWidth := int(outboxWidth)
	if fontWidth <= 0 {
		fontWidth = 6
	}
	cols := (buf.Width() - 2*panicMargin) / fontWidth
	if cols <= 0 {
		cols = 1
	}

	y := panicMargin
	for _, line := range lines {
		line = strings.ReplaceAll(strings.TrimRight(line, " \r"), "\t", "  ")
		for len(line) > 0 {
			if y+panicLineHeight > buf.Height() {
				return
			}
			chunk, rest := takeRunes(line, cols)
			tinyfont.WriteLine(d, font, int16(panicMargin), int16(y+panicBaseline), chunk, panicForeground)
			y += panicLineHeight
			line = strings.TrimLeft(rest, " ")
		}
	}
}

type panicDisplay struct {
	b *diagram.PixelBuffer
}

func (d panicDisplay) Size() (x, y int16) {
	return int16(min(d.b.Width(), 1<<15-1)), int16(min(d.b.Height(), 1<<15-1))
}

func (d panicDisplay) SetPixel(x, y int16, c color.RGBA) {
	d.b.SetPixel(int(x), int(y), c)
}

func (d panicDisplay) Display() error { return nil }

// takeRunes splits s after at most n runes.
func takeRunes(s string, n int) (prefix, rest string) {
	if n <= 0 || s == "" {
		return "", s
	}
	if len(s) <= n {
		return s, ""
	}
	i, count := 0, 0
	for i < len(s) && count < n {
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
		count++
	}
	return s[:i], s[i:]
}
