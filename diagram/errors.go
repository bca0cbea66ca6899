package diagram

import "errors"

var (
	// ErrInvalidViewport rejects bounds with min >= max on an axis or a non-finite bound.
	ErrInvalidViewport = errors.New("invalid viewport")

	// ErrNonFinite rejects NaN or infinite coordinates.
	ErrNonFinite = errors.New("non-finite coordinate")

	// ErrInvalidFigure rejects the zero Figure.
	ErrInvalidFigure = errors.New("invalid figure")

	// ErrInvalidSize rejects non-positive buffer dimensions.
	ErrInvalidSize = errors.New("invalid buffer size")

	// ErrSurfaceSize rejects a display surface that does not match the pixel buffer.
	ErrSurfaceSize = errors.New("surface does not match buffer")

	ErrLoopRunning = errors.New("render loop already running")
	ErrLoopStopped = errors.New("render loop stopped")
)
