//go:build cgo

package hal

import (
	"errors"

	"github.com/hajimehoshi/ebiten/v2"

	"raycast/internal/buildinfo"
)

// RunWindow opens a desktop window that displays the framebuffer and forwards pointer and
// keyboard input. step runs once per window tick on the window goroutine.
// It blocks until the window closes or step returns ErrQuit.
func RunWindow(h HAL, step func() error) error {
	hh, err := hostOf(h)
	if err != nil {
		return err
	}

	g := &hostGame{h: hh, step: step}
	ebiten.SetWindowTitle("Raycast (" + buildinfo.Short() + ")")
	ebiten.SetWindowSize(hh.fb.width, hh.fb.height)
	ebiten.SetTPS(60)
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}

type hostGame struct {
	h       *hostHAL
	fbImg   *ebiten.Image
	scratch []byte
	seq     uint64
	step    func() error
}

func (g *hostGame) Update() error {
	pollInput(g.h.kbd, g.h.ptr, g.h.fb.width, g.h.fb.height)
	if g.step != nil {
		if err := g.step(); err != nil {
			if errors.Is(err, ErrQuit) {
				return ebiten.Termination
			}
			return err
		}
	}
	return nil
}

func (g *hostGame) Draw(screen *ebiten.Image) {
	fb := g.h.fb
	if g.fbImg == nil {
		g.scratch = make([]byte, len(fb.front))
		g.fbImg = ebiten.NewImage(fb.width, fb.height)
	}

	// Skip the upload when no new frame was presented since the last draw.
	if seq := fb.snapshot(g.scratch); seq != g.seq {
		g.seq = seq
		g.fbImg.WritePixels(g.scratch)
	}
	screen.DrawImage(g.fbImg, nil)
}

func (g *hostGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.h.fb.width, g.h.fb.height
}
