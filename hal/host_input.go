package hal

type hostKeyboard struct {
	ch chan KeyEvent
}

func newHostKeyboard() *hostKeyboard {
	return &hostKeyboard{ch: make(chan KeyEvent, 64)}
}

func (k *hostKeyboard) Events() <-chan KeyEvent { return k.ch }

func (k *hostKeyboard) emit(ev KeyEvent) {
	select {
	case k.ch <- ev:
	default:
	}
}

type hostPointer struct {
	ch chan PointerEvent

	seen         bool
	lastX, lastY int
}

func newHostPointer() *hostPointer {
	return &hostPointer{ch: make(chan PointerEvent, 64)}
}

func (p *hostPointer) Events() <-chan PointerEvent { return p.ch }

func (p *hostPointer) emit(ev PointerEvent) {
	select {
	case p.ch <- ev:
	default:
	}
}

// moveTo emits a move event only when the position changed since the last one.
func (p *hostPointer) moveTo(x, y int) {
	if p.seen && x == p.lastX && y == p.lastY {
		return
	}
	p.seen = true
	p.lastX, p.lastY = x, y
	p.emit(PointerEvent{Kind: PointerMove, X: x, Y: y})
}

func (p *hostPointer) click(x, y int) {
	p.seen = true
	p.lastX, p.lastY = x, y
	p.emit(PointerEvent{Kind: PointerClick, X: x, Y: y})
}
