package hal

import (
	"fmt"
	"sync"
)

type hostFramebuffer struct {
	mu     sync.Mutex
	width  int
	height int
	stride int
	front  []byte
	seq    uint64
}

func newHostFramebuffer(width, height int) *hostFramebuffer {
	stride := width * PixelFormatRGBA8888.BytesPerPixel()
	return &hostFramebuffer{
		width:  width,
		height: height,
		stride: stride,
		front:  make([]byte, stride*height),
	}
}

func (f *hostFramebuffer) Width() int          { return f.width }
func (f *hostFramebuffer) Height() int         { return f.height }
func (f *hostFramebuffer) Format() PixelFormat { return PixelFormatRGBA8888 }
func (f *hostFramebuffer) StrideBytes() int    { return f.stride }

func (f *hostFramebuffer) Present(src []byte) error {
	if len(src) != len(f.front) {
		return fmt.Errorf("present %d bytes into %dx%d: %w", len(src), f.width, f.height, ErrFrameSize)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	copy(f.front, src)
	f.seq++
	return nil
}

// snapshot copies the last presented frame into dst and returns its sequence number.
// Sequence 0 means nothing has been presented yet.
func (f *hostFramebuffer) snapshot(dst []byte) uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	copy(dst, f.front)
	return f.seq
}

func (f *hostFramebuffer) presented() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seq
}
