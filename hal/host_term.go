package hal

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xdraw "golang.org/x/image/draw"

	"raycast/internal/buildinfo"
)

// TermConfig controls the terminal host runner.
type TermConfig struct {
	// Background is the frame color treated as empty when converting to braille dots.
	Background color.RGBA
	// Hz is the step and redraw rate (default 30).
	Hz int
}

// RunTerminal shows the framebuffer in the terminal as braille dots and forwards mouse and
// keyboard input in framebuffer pixel coordinates. step runs on the terminal event goroutine.
// It blocks until ctx is done, ctrl+c is pressed, or step returns ErrQuit.
func RunTerminal(ctx context.Context, h HAL, step func() error, cfg TermConfig) error {
	hh, err := hostOf(h)
	if err != nil {
		return err
	}
	if cfg.Hz <= 0 {
		cfg.Hz = 30
	}

	m := newTermModel(hh, step, cfg)
	final, err := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen(), tea.WithMouseAllMotion()).Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	if fm, ok := final.(termModel); ok && fm.err != nil {
		return fm.err
	}
	return nil
}

const termFooterHeight = 1

var (
	termMapStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#4AD1FF"))
	termFooterStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#6B7280"})
	termTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#7C3AED")).Bold(true)
)

type termTickMsg time.Time

type termModel struct {
	h    *hostHAL
	step func() error
	cfg  TermConfig

	width  int
	height int

	frame *image.RGBA
	small *image.RGBA
	seq   uint64
	lines []string

	err error
}

func newTermModel(h *hostHAL, step func() error, cfg TermConfig) termModel {
	fb := h.fb
	return termModel{
		h:    h,
		step: step,
		cfg:  cfg,
		frame: &image.RGBA{
			Pix:    make([]byte, len(fb.front)),
			Stride: fb.stride,
			Rect:   image.Rect(0, 0, fb.width, fb.height),
		},
	}
}

func (m termModel) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.cfg.Hz), func(t time.Time) tea.Msg { return termTickMsg(t) })
}

func (m termModel) Init() tea.Cmd { return m.tick() }

func (m termModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.small = nil
		m.seq = 0
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if ev, ok := termKeyEvent(msg); ok {
			for _, e := range ev {
				m.h.kbd.emit(e)
			}
		}
	case tea.MouseMsg:
		x, y, ok := m.cellToPixel(msg.X, msg.Y)
		if !ok {
			return m, nil
		}
		m.h.ptr.moveTo(x, y)
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			m.h.ptr.click(x, y)
		}
	case termTickMsg:
		if m.step != nil {
			if err := m.step(); err != nil {
				if !errors.Is(err, ErrQuit) {
					m.err = err
				}
				return m, tea.Quit
			}
		}
		m.refresh()
		return m, m.tick()
	}
	return m, nil
}

func (m termModel) mapSize() (cols, rows int) {
	cols = m.width
	rows = m.height - termFooterHeight
	if cols < 1 || rows < 1 {
		return 0, 0
	}
	return cols, rows
}

// cellToPixel maps a terminal cell to the framebuffer pixel under the cell's center.
func (m termModel) cellToPixel(cx, cy int) (int, int, bool) {
	cols, rows := m.mapSize()
	if cols == 0 || cx < 0 || cy < 0 || cx >= cols || cy >= rows {
		return 0, 0, false
	}
	fb := m.h.fb
	x := (cx*2 + 1) * fb.width / (cols * 2)
	y := (cy*4 + 2) * fb.height / (rows * 4)
	return x, y, true
}

// refresh rebuilds the braille lines when a new frame has been presented.
func (m *termModel) refresh() {
	cols, rows := m.mapSize()
	if cols == 0 {
		m.lines = nil
		return
	}
	seq := m.h.fb.snapshot(m.frame.Pix)
	if seq == 0 || (seq == m.seq && m.small != nil) {
		return
	}
	m.seq = seq

	if m.small == nil || m.small.Bounds().Dx() != cols*2 || m.small.Bounds().Dy() != rows*4 {
		m.small = image.NewRGBA(image.Rect(0, 0, cols*2, rows*4))
	}
	// Bilinear downscaling averages thin lines into their neighbours instead of dropping them.
	xdraw.BiLinear.Scale(m.small, m.small.Bounds(), m.frame, m.frame.Bounds(), xdraw.Src, nil)

	br := newBrailleBuf(cols, rows)
	br.plotImage(m.small, m.cfg.Background)
	m.lines = br.toLines()
}

func (m termModel) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	body := termMapStyle.Render(strings.Join(m.lines, "\n"))
	title := termTitleStyle.Render(" raycast ")
	help := termFooterStyle.Render(fmt.Sprintf(" %s  click recenter  arrows pan  c center  a add point  q quit", buildinfo.Short()))
	footer := lipgloss.NewStyle().Width(m.width).Render(lipgloss.JoinHorizontal(lipgloss.Bottom, title, help))
	return lipgloss.JoinVertical(lipgloss.Left, body, footer)
}

func termKeyEvent(msg tea.KeyMsg) ([]KeyEvent, bool) {
	switch msg.Type {
	case tea.KeyRunes:
		out := make([]KeyEvent, 0, len(msg.Runes))
		for _, r := range msg.Runes {
			out = append(out, KeyEvent{Press: true, Rune: r})
		}
		return out, len(out) > 0
	case tea.KeySpace:
		return []KeyEvent{{Press: true, Rune: ' '}}, true
	}

	var code KeyCode
	switch msg.Type {
	case tea.KeyUp:
		code = KeyUp
	case tea.KeyDown:
		code = KeyDown
	case tea.KeyLeft:
		code = KeyLeft
	case tea.KeyRight:
		code = KeyRight
	case tea.KeyEnter:
		code = KeyEnter
	case tea.KeyEsc:
		code = KeyEscape
	case tea.KeyBackspace:
		code = KeyBackspace
	case tea.KeyTab:
		code = KeyTab
	case tea.KeyDelete:
		code = KeyDelete
	case tea.KeyHome:
		code = KeyHome
	case tea.KeyEnd:
		code = KeyEnd
	default:
		return nil, false
	}
	// The terminal reports no key releases; emit the press only.
	return []KeyEvent{{Code: code, Press: true}}, true
}
