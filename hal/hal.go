package hal

import "errors"

// Logger writes newline-delimited log lines.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

var (
	ErrNotImplemented = errors.New("not implemented")

	// ErrQuit is returned by a step function to ask the host runner for a clean shutdown.
	ErrQuit = errors.New("quit requested")

	// ErrFrameSize reports a presented frame whose length does not match the framebuffer.
	ErrFrameSize = errors.New("frame size mismatch")
)

// PixelFormat defines the framebuffer pixel encoding.
type PixelFormat uint8

const (
	// PixelFormatRGBA8888 is 32bpp in R, G, B, A byte order (image.RGBA layout).
	PixelFormatRGBA8888 PixelFormat = iota + 1
)

// BytesPerPixel returns the pixel size for the format, or 0 if unknown.
func (f PixelFormat) BytesPerPixel() int {
	switch f {
	case PixelFormatRGBA8888:
		return 4
	default:
		return 0
	}
}

// Framebuffer is the display surface finished frames are handed to.
//
// Present copies src into the displayed front buffer as one atomic step: a reader never
// observes a partially copied frame.
type Framebuffer interface {
	Width() int
	Height() int
	Format() PixelFormat
	StrideBytes() int
	Present(src []byte) error
}

// KeyCode is a minimal key identifier.
type KeyCode uint16

const (
	KeyUnknown KeyCode = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyEnter
	KeyEscape
	KeyBackspace
	KeyTab
	KeyDelete
	KeyHome
	KeyEnd
)

// KeyEvent is a keyboard event.
type KeyEvent struct {
	Code  KeyCode
	Press bool
	Rune  rune
}

// Keyboard provides key events (best-effort on each platform).
type Keyboard interface {
	Events() <-chan KeyEvent
}

// PointerKind distinguishes pointer events.
type PointerKind uint8

const (
	PointerMove PointerKind = iota + 1
	PointerClick
)

// PointerEvent is a pointer event in framebuffer pixel coordinates.
type PointerEvent struct {
	Kind PointerKind
	X, Y int
}

// Pointer provides pointer (mouse) events.
type Pointer interface {
	Events() <-chan PointerEvent
}

// Display provides access to the framebuffer (if available).
type Display interface {
	Framebuffer() Framebuffer
}

// Input provides access to input devices (if available).
type Input interface {
	Keyboard() Keyboard
	Pointer() Pointer
}

// HAL provides the only contact point between the viewer and the outside world.
type HAL interface {
	Logger() Logger
	Display() Display
	Input() Input
}
