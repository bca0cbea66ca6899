//go:build !cgo

package hal

func pollInput(_ *hostKeyboard, _ *hostPointer, _, _ int) {
	// No window input without the ebiten backend.
}
